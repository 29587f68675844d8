package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tokenforge/forgectl/internal/forge"
)

// CreateParams wires the creation wizard to the rest of the system. The
// wizard itself holds no chain knowledge: it renders what it is given and
// drives the orchestrator.
type CreateParams struct {
	Orchestrator *forge.Orchestrator

	ChainLabel    string // e.g. "Base (mainnet)"
	FeeLabel      string // e.g. "0.0005 ETH"
	WalletLabel   string // e.g. "deployer 0x1234…5678"
	ExplorerTxURL func(txHash string) string
}

// CreateOutcome is what the wizard reports back once the program exits.
type CreateOutcome struct {
	Created      bool
	Form         forge.TokenForm
	TxHash       string
	TokenAddress string
	Err          *forge.ParsedError
}

// outcomeBox carries the confirmed receipt from the tracker's callback
// goroutine into the Bubble Tea update loop.
type outcomeBox struct {
	mu      sync.Mutex
	receipt forge.Receipt
	set     bool
}

func (b *outcomeBox) put(r forge.Receipt) {
	b.mu.Lock()
	b.receipt = r
	b.set = true
	b.mu.Unlock()
}

func (b *outcomeBox) get() (forge.Receipt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.receipt, b.set
}

// --- Bubble Tea model ---

type createModel struct {
	params CreateParams
	wiz    *forge.Wizard
	box    *outcomeBox

	// focus indexes the editable fields of the current step: on details
	// 0=name 1=symbol, on supply 0=decimals 1=supply.
	focus  int
	name   string
	symbol string
	supply string
	decIdx int

	spin     int
	quitting bool
	outcome  CreateOutcome
}

type phaseTickMsg time.Time

type submitDoneMsg struct{ accepted bool }

func initialCreate(params CreateParams) createModel {
	wiz := forge.NewWizard()
	// Decimals default to the ERC-20 convention.
	decIdx := len(forge.DecimalPresets) - 1
	d := forge.DecimalPresets[decIdx]
	wiz.UpdateForm(forge.FormPatch{Decimals: &d})
	wiz.SetValidation(forge.ValidateForm(wiz.Form()))

	return createModel{params: params, wiz: wiz, box: &outcomeBox{}, decIdx: decIdx}
}

func (m createModel) Init() tea.Cmd { return nil }

func phaseTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return phaseTickMsg(t)
	})
}

func (m createModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case phaseTickMsg:
		return m.handleTick()

	case submitDoneMsg:
		// Submission rejected means a prior run was not reset; surface it.
		if !msg.accepted {
			m.wiz.MarkError("a submission is already in progress")
		}
		return m, nil
	}
	return m, nil
}

func (m createModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.params.Orchestrator.Reset()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.wiz.Step() {
	case forge.StepDetails, forge.StepSupply:
		return m.handleFormKey(msg)

	case forge.StepReview:
		switch key {
		case "enter":
			m.wiz.GoNext()
		case "esc":
			m.wiz.GoBack()
		case "q":
			m.quitting = true
			return m, tea.Quit
		}

	case forge.StepConfirm:
		switch key {
		case "enter":
			m.wiz.MarkPending()
			return m, tea.Batch(m.submitCmd(), phaseTick())
		case "esc":
			m.wiz.GoBack()
		case "q":
			m.quitting = true
			return m, tea.Quit
		}

	case forge.StepPending:
		// No way out but ctrl+c; the tracker decides where we land.

	case forge.StepSuccess:
		switch key {
		case "n":
			m.params.Orchestrator.Reset()
			return initialCreate(m.params), nil
		case "q", "enter", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case forge.StepError:
		switch key {
		case "r":
			m.params.Orchestrator.Reset()
			return initialCreate(m.params), nil
		case "q", "enter", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// handleFormKey edits the two form steps: field focus, text entry, preset
// cycling, and step navigation.
func (m createModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	onSupply := m.wiz.Step() == forge.StepSupply

	switch msg.String() {
	case "enter":
		if m.wiz.CanGoNext() {
			m.wiz.GoNext()
			m.focus = 0
		}
		return m, nil

	case "esc":
		if m.wiz.CanGoBack() {
			m.wiz.GoBack()
			m.focus = 0
		}
		return m, nil

	case "tab", "down":
		m.focus = (m.focus + 1) % 2
		return m, nil

	case "shift+tab", "up":
		m.focus = (m.focus + 1) % 2
		return m, nil

	case "left":
		if onSupply && m.focus == 0 && m.decIdx > 0 {
			m.decIdx--
			m.applyDecimals()
		}
		return m, nil

	case "right":
		if onSupply && m.focus == 0 && m.decIdx < len(forge.DecimalPresets)-1 {
			m.decIdx++
			m.applyDecimals()
		}
		return m, nil

	case "backspace":
		m.editFocused(func(s string) string {
			if s == "" {
				return s
			}
			return s[:len(s)-1]
		})
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		m.editFocused(func(s string) string { return s + text })
	}
	return m, nil
}

// editFocused applies fn to the focused field's text, pushes the change into
// the wizard, and re-runs the validators.
func (m *createModel) editFocused(fn func(string) string) {
	patch := forge.FormPatch{}
	switch {
	case m.wiz.Step() == forge.StepDetails && m.focus == 0:
		m.name = fn(m.name)
		patch.Name = &m.name
	case m.wiz.Step() == forge.StepDetails && m.focus == 1:
		m.symbol = fn(m.symbol)
		patch.Symbol = &m.symbol
	case m.wiz.Step() == forge.StepSupply && m.focus == 1:
		m.supply = fn(m.supply)
		patch.InitialSupply = &m.supply
	default:
		return
	}
	m.wiz.UpdateForm(patch)
	m.wiz.SetValidation(forge.ValidateForm(m.wiz.Form()))
}

func (m *createModel) applyDecimals() {
	d := forge.DecimalPresets[m.decIdx]
	m.wiz.UpdateForm(forge.FormPatch{Decimals: &d})
	m.wiz.SetValidation(forge.ValidateForm(m.wiz.Form()))
}

// submitCmd kicks off the orchestrator in the background. The tracker is
// polled by phaseTick; this command only reports whether the submission was
// accepted at all.
func (m createModel) submitCmd() tea.Cmd {
	orch := m.params.Orchestrator
	form := m.wiz.Form()
	box := m.box
	orch.Tracker().OnSuccess(func(_ string, r forge.Receipt) { box.put(r) })

	return func() tea.Msg {
		return submitDoneMsg{accepted: orch.Submit(context.Background(), form)}
	}
}

// handleTick polls the tracker while the wizard sits on the pending step and
// lands it on success or error when the lifecycle terminates.
func (m createModel) handleTick() (tea.Model, tea.Cmd) {
	if m.wiz.Step() != forge.StepPending {
		return m, nil
	}
	m.spin++

	tracker := m.params.Orchestrator.Tracker()
	switch tracker.Phase() {
	case forge.PhaseConfirmed:
		m.wiz.MarkSuccess(tracker.TxHash())
		m.outcome = CreateOutcome{
			Created: true,
			Form:    m.wiz.Form(),
			TxHash:  tracker.TxHash(),
		}
		if r, ok := m.box.get(); ok {
			m.outcome.TokenAddress = r.ContractAddress
		}
		return m, nil

	case forge.PhaseFailed:
		perr := tracker.Err()
		m.wiz.MarkError(perr.Message)
		m.outcome = CreateOutcome{Form: m.wiz.Form(), TxHash: tracker.TxHash(), Err: perr}
		return m, nil
	}
	return m, phaseTick()
}

// --- rendering ---

func (m createModel) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.wiz.Step() {
	case forge.StepDetails:
		body = m.viewDetails()
	case forge.StepSupply:
		body = m.viewSupply()
	case forge.StepReview:
		body = m.viewReview()
	case forge.StepConfirm:
		body = m.viewConfirm()
	case forge.StepPending:
		body = m.viewPending()
	case forge.StepSuccess:
		body = m.viewSuccess()
	case forge.StepError:
		body = m.viewError()
	}

	header := StyleTitle.Render(fmt.Sprintf("Create token · %s", m.params.ChainLabel))
	return StyleBorder.Render(header+"\n\n"+body) + "\n"
}

func (m createModel) viewDetails() string {
	var sb strings.Builder
	sb.WriteString(m.inputLine("Name", m.name, m.focus == 0))
	sb.WriteString(m.fieldNote(forge.FieldName))
	sb.WriteString(m.inputLine("Symbol", strings.ToUpper(m.symbol), m.focus == 1))
	sb.WriteString(m.fieldNote(forge.FieldSymbol))
	sb.WriteString("\n" + m.navHint())
	return sb.String()
}

func (m createModel) viewSupply() string {
	var sb strings.Builder

	presets := make([]string, len(forge.DecimalPresets))
	for i, d := range forge.DecimalPresets {
		label := strconv.Itoa(int(d))
		if i == m.decIdx {
			label = StyleSelected.Render(" " + label + " ")
		} else {
			label = StyleMeta.Render(" " + label + " ")
		}
		presets[i] = label
	}
	marker := "  "
	if m.focus == 0 {
		marker = "▸ "
	}
	sb.WriteString(marker + "Decimals   " + strings.Join(presets, " ") + "\n")
	sb.WriteString(m.fieldNote(forge.FieldDecimals))

	sb.WriteString(m.inputLine("Supply", m.supply, m.focus == 1))
	sb.WriteString(m.fieldNote(forge.FieldSupply))
	sb.WriteString("\n" + StyleMeta.Render("←/→ pick decimals · ") + m.navHint())
	return sb.String()
}

func (m createModel) viewReview() string {
	f := m.wiz.Form()
	var sb strings.Builder
	sb.WriteString(reviewLine("Name", f.Name))
	sb.WriteString(reviewLine("Symbol", f.Symbol))
	sb.WriteString(reviewLine("Decimals", strconv.Itoa(int(f.Decimals))))
	sb.WriteString(reviewLine("Supply", f.InitialSupply))
	sb.WriteString(reviewLine("Network", m.params.ChainLabel))
	sb.WriteString(reviewLine("Wallet", m.params.WalletLabel))
	sb.WriteString(reviewLine("Creation fee", m.params.FeeLabel))
	sb.WriteString("\n" + StyleMeta.Render("Enter continue · Esc back · q quit"))
	return sb.String()
}

func (m createModel) viewConfirm() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Deploy %s (%s) and pay %s?\n\n",
		Val(m.wiz.Form().Name), Val(m.wiz.Form().Symbol), Val(m.params.FeeLabel)))
	sb.WriteString(StyleWarning.Render("This sends a real transaction.") + "\n\n")
	sb.WriteString(StyleMeta.Render("Enter confirm · Esc back · q quit"))
	return sb.String()
}

func (m createModel) viewPending() string {
	frame := spinnerFrames[m.spin%len(spinnerFrames)]
	tracker := m.params.Orchestrator.Tracker()

	var sb strings.Builder
	sb.WriteString(StyleChain.Render(frame) + "  " + phaseLabel(tracker.Phase()) + "\n")
	if hash := tracker.TxHash(); hash != "" {
		sb.WriteString("\n" + Meta("tx ") + Addr(hash) + "\n")
	}
	sb.WriteString("\n" + StyleMeta.Render("ctrl+c abandon"))
	return sb.String()
}

func (m createModel) viewSuccess() string {
	var sb strings.Builder
	sb.WriteString(Success("Token created!") + "\n\n")
	if m.outcome.TokenAddress != "" {
		sb.WriteString(reviewLine("Token", m.outcome.TokenAddress))
	}
	sb.WriteString(reviewLine("Tx", m.outcome.TxHash))
	if m.params.ExplorerTxURL != nil {
		sb.WriteString(reviewLine("Explorer", m.params.ExplorerTxURL(m.outcome.TxHash)))
	}
	sb.WriteString("\n" + StyleMeta.Render("n create another · q done"))
	return sb.String()
}

func (m createModel) viewError() string {
	perr := m.outcome.Err
	if perr == nil {
		perr = forge.ClassifyMessage(m.wiz.ErrMsg())
	}

	var sb strings.Builder
	sb.WriteString(Err(perr.Title) + "\n\n")
	sb.WriteString(perr.Message + "\n\n")
	sb.WriteString(StyleMeta.Render(perr.Suggestion) + "\n\n")
	if perr.Retryable {
		sb.WriteString(StyleMeta.Render("r start over · q quit"))
	} else {
		sb.WriteString(StyleMeta.Render("q quit"))
	}
	return sb.String()
}

func (m createModel) inputLine(label, value string, focused bool) string {
	marker := "  "
	cursor := ""
	if focused {
		marker = "▸ "
		cursor = "█"
	}
	return fmt.Sprintf("%s%-10s %s%s\n", marker, label, StyleAddress.Render(value), cursor)
}

// fieldNote renders the validation message under a field: red when invalid,
// yellow for a passing field that still carries a warning.
func (m createModel) fieldNote(f forge.Field) string {
	v, ok := m.wiz.Validity(f)
	if !ok || v.Message == "" {
		return ""
	}
	if v.Valid {
		return "   " + StyleWarning.Render(v.Message) + "\n"
	}
	return "   " + StyleError.Render(v.Message) + "\n"
}

func (m createModel) navHint() string {
	parts := []string{"Tab switch field"}
	if m.wiz.CanGoNext() {
		parts = append(parts, "Enter next")
	}
	if m.wiz.CanGoBack() {
		parts = append(parts, "Esc back")
	}
	return StyleMeta.Render(strings.Join(parts, " · "))
}

func reviewLine(key, val string) string {
	return Meta(fmt.Sprintf("%-14s", key)) + Val(val) + "\n"
}

func phaseLabel(p forge.Phase) string {
	switch p {
	case forge.PhasePreparing:
		return "Preparing transaction…"
	case forge.PhaseAwaitingSignature:
		return "Signing…"
	case forge.PhasePending:
		return "Broadcast, waiting to be mined…"
	case forge.PhaseConfirming:
		return "Mined, waiting for confirmations…"
	}
	return "Working…"
}

// RunCreateWizard launches the interactive token creation wizard. The second
// return distinguishes TUI failure from a user who simply quit.
func RunCreateWizard(params CreateParams) (CreateOutcome, error) {
	p := tea.NewProgram(initialCreate(params))
	final, err := p.Run()
	if err != nil {
		return CreateOutcome{}, fmt.Errorf("create wizard: %w", err)
	}
	return final.(createModel).outcome, nil
}
