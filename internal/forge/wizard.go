package forge

import "strings"

// TokenForm holds the parameters collected by the creation wizard.
type TokenForm struct {
	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply string // decimal string in whole-token units
	Description   string
}

// FormPatch is a partial update to a TokenForm. Nil fields are left untouched.
type FormPatch struct {
	Name          *string
	Symbol        *string
	Decimals      *uint8
	InitialSupply *string
	Description   *string
}

// Step is one screen of the multi-step creation wizard.
type Step int

// Ordered steps, then terminal/exception steps reachable only from confirm.
const (
	StepDetails Step = iota
	StepSupply
	StepReview
	StepConfirm
	StepPending
	StepSuccess
	StepError
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepSupply:
		return "supply"
	case StepReview:
		return "review"
	case StepConfirm:
		return "confirm"
	case StepPending:
		return "pending"
	case StepSuccess:
		return "success"
	case StepError:
		return "error"
	}
	return "unknown"
}

// stepFields maps each ordered step to the fields whose validators gate GoNext.
var stepFields = map[Step][]Field{
	StepDetails: {FieldName, FieldSymbol},
	StepSupply:  {FieldDecimals, FieldSupply},
	StepReview:  nil,
	StepConfirm: nil,
}

// Wizard is the multi-step form state machine. Operations never panic or
// return errors: an illegal transition is a silent no-op, so callers should
// consult CanGoNext/CanGoBack before offering navigation UI.
type Wizard struct {
	step       Step
	form       TokenForm
	validation map[Field]FieldValidity
	txHash     string
	errMsg     string
}

// NewWizard returns a wizard at the details step with an empty form.
func NewWizard() *Wizard {
	return &Wizard{validation: make(map[Field]FieldValidity)}
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Form returns a snapshot of the current form data.
func (w *Wizard) Form() TokenForm { return w.form }

// TxHash returns the transaction hash recorded on success, if any.
func (w *Wizard) TxHash() string { return w.txHash }

// ErrMsg returns the message recorded on the error step, if any.
func (w *Wizard) ErrMsg() string { return w.errMsg }

// Validity returns the recorded validation result for a field. ok is false
// when the field has not been validated yet.
func (w *Wizard) Validity(f Field) (FieldValidity, bool) {
	v, ok := w.validation[f]
	return v, ok
}

// UpdateForm merges a partial update into the form. Fields are editable only
// while the wizard is on the details or supply steps; once past those the
// form is a frozen snapshot and updates are silently dropped. UpdateForm does
// not re-validate — callers re-run the validators and call SetValidation.
func (w *Wizard) UpdateForm(p FormPatch) {
	if w.step != StepDetails && w.step != StepSupply {
		return
	}
	if p.Name != nil {
		w.form.Name = *p.Name
	}
	if p.Symbol != nil {
		w.form.Symbol = strings.ToUpper(*p.Symbol)
	}
	if p.Decimals != nil {
		w.form.Decimals = *p.Decimals
	}
	if p.InitialSupply != nil {
		w.form.InitialSupply = *p.InitialSupply
	}
	if p.Description != nil {
		w.form.Description = *p.Description
	}
}

// SetValidation merges per-field validity results into the wizard's state.
func (w *Wizard) SetValidation(results map[Field]FieldValidity) {
	for f, v := range results {
		w.validation[f] = v
	}
}

// CanGoNext reports whether the current step has a successor and every
// validator relevant to it passes. On the details step, name and symbol must
// additionally be non-empty — an explicit guard on top of field validity.
func (w *Wizard) CanGoNext() bool {
	if w.step >= StepConfirm {
		return false
	}
	for _, f := range stepFields[w.step] {
		v, ok := w.validation[f]
		if !ok || !v.Valid {
			return false
		}
	}
	if w.step == StepDetails {
		if strings.TrimSpace(w.form.Name) == "" || strings.TrimSpace(w.form.Symbol) == "" {
			return false
		}
	}
	return true
}

// CanGoBack reports whether the wizard is on an ordered step after details.
func (w *Wizard) CanGoBack() bool {
	return w.step > StepDetails && w.step <= StepConfirm
}

// GoNext advances to the next ordered step when CanGoNext holds, clearing any
// stale error. Otherwise it is a no-op.
func (w *Wizard) GoNext() {
	if !w.CanGoNext() {
		return
	}
	w.step++
	w.errMsg = ""
}

// GoBack moves to the previous ordered step and clears any error. No-op on
// the details step and on terminal steps.
func (w *Wizard) GoBack() {
	if !w.CanGoBack() {
		return
	}
	w.step--
	w.errMsg = ""
}

// MarkPending moves confirm → pending when submission begins. The form is
// frozen from this point on.
func (w *Wizard) MarkPending() {
	if w.step == StepConfirm {
		w.step = StepPending
	}
}

// MarkSuccess moves pending → success and records the transaction hash.
func (w *Wizard) MarkSuccess(txHash string) {
	if w.step == StepPending {
		w.step = StepSuccess
		w.txHash = txHash
	}
}

// MarkError moves confirm or pending → error and records the message.
func (w *Wizard) MarkError(msg string) {
	if w.step == StepConfirm || w.step == StepPending {
		w.step = StepError
		w.errMsg = msg
	}
}

// Reset returns the wizard to its initial state. Used both for "create
// another token" and for recovering from the error step.
func (w *Wizard) Reset() {
	*w = Wizard{validation: make(map[Field]FieldValidity)}
}
