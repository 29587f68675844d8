package forge

import (
	"sync"
	"time"
)

// Phase is one state in the lifecycle of a single on-chain submission.
type Phase int

// Happy-path ordering. PhaseFailed is an absorbing state reachable from any
// non-terminal phase; transitions only ever advance or terminate.
const (
	PhaseIdle Phase = iota
	PhasePreparing
	PhaseAwaitingSignature
	PhasePending
	PhaseConfirming
	PhaseConfirmed
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreparing:
		return "preparing"
	case PhaseAwaitingSignature:
		return "awaiting-signature"
	case PhasePending:
		return "pending"
	case PhaseConfirming:
		return "confirming"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the phase is confirmed or failed.
func (p Phase) Terminal() bool { return p == PhaseConfirmed || p == PhaseFailed }

// Receipt is the terminal on-chain record of a transaction's execution.
type Receipt struct {
	Success         bool
	BlockNumber     uint64
	ContractAddress string // set when the factory reports the new token address
}

// Tracker is the transaction lifecycle state machine. It owns exactly one
// TransactionRecord at a time; Reset discards it and bumps the epoch so that
// late results from an abandoned submission are ignored.
//
// The success and error callbacks each fire at most once per tracked
// transaction, even if the receipt watcher delivers duplicate events.
type Tracker struct {
	mu        sync.Mutex
	phase     Phase
	txHash    string
	startedAt time.Time
	endedAt   time.Time
	perr      *ParsedError
	epoch     uint64
	notified  bool

	onSuccess func(txHash string, r Receipt)
	onError   func(*ParsedError)
	now       func() time.Time
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// OnSuccess registers the callback fired once when the phase reaches confirmed.
func (t *Tracker) OnSuccess(fn func(txHash string, r Receipt)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSuccess = fn
}

// OnError registers the callback fired once when the phase reaches failed.
func (t *Tracker) OnError(fn func(*ParsedError)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onError = fn
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// TxHash returns the tracked transaction hash, empty before StartTracking.
func (t *Tracker) TxHash() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.txHash
}

// Err returns the ParsedError recorded on failure, nil otherwise.
func (t *Tracker) Err() *ParsedError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.perr
}

// Epoch returns the current submission epoch. Async results must carry the
// epoch they were started under; results from an older epoch are discarded.
func (t *Tracker) Epoch() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch
}

// Duration returns endedAt−startedAt once terminal, now−startedAt while in
// flight, and zero before the submission started. Never negative.
func (t *Tracker) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.startedAt.IsZero() {
		return 0
	}
	end := t.endedAt
	if end.IsZero() {
		end = t.now()
	}
	d := end.Sub(t.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// SetPreparing starts a submission: idle → preparing, starting the timer.
func (t *Tracker) SetPreparing() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseIdle {
		return
	}
	t.phase = PhasePreparing
	t.startedAt = t.now()
}

// SetAwaitingSignature moves preparing → awaiting-signature once the signer
// has been invoked.
func (t *Tracker) SetAwaitingSignature() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhasePreparing {
		return
	}
	t.phase = PhaseAwaitingSignature
}

// StartTracking records the broadcast hash: awaiting-signature → pending.
func (t *Tracker) StartTracking(txHash string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseAwaitingSignature {
		return
	}
	t.phase = PhasePending
	t.txHash = txHash
}

// ObserveReceipt applies a receipt observation made under the given epoch.
// Before the required confirmation depth (atDepth false) it advances
// pending → confirming. At depth, a successful receipt advances to confirmed
// — passing through confirming first if the chain was fast enough to skip the
// intermediate observation — and a failed receipt terminates in failed.
// Observations from a stale epoch, or that would rewind the phase, are
// discarded.
func (t *Tracker) ObserveReceipt(epoch uint64, r Receipt, atDepth bool) {
	t.mu.Lock()
	if epoch != t.epoch || t.phase.Terminal() {
		t.mu.Unlock()
		return
	}
	if t.phase != PhasePending && t.phase != PhaseConfirming {
		t.mu.Unlock()
		return
	}

	if !atDepth {
		t.phase = PhaseConfirming
		t.mu.Unlock()
		return
	}

	if !r.Success {
		t.failLocked(ClassifyMessage("execution reverted (status 0)"))
		return
	}

	// Phase values are assigned in order even when collapsed into one tick.
	if t.phase == PhasePending {
		t.phase = PhaseConfirming
	}
	t.phase = PhaseConfirmed
	t.endedAt = t.now()

	fn := t.onSuccess
	hash := t.txHash
	fire := !t.notified
	t.notified = true
	t.mu.Unlock()

	if fire && fn != nil {
		fn(hash, r)
	}
}

// SetError classifies err and terminates the current submission in failed.
// No-op if the tracker is already terminal.
func (t *Tracker) SetError(err error) {
	t.mu.Lock()
	t.setErrorLocked(t.epoch, err)
}

// SetErrorAt is SetError tagged with the epoch the failing operation was
// started under; stale failures are discarded.
func (t *Tracker) SetErrorAt(epoch uint64, err error) {
	t.mu.Lock()
	t.setErrorLocked(epoch, err)
}

// setErrorLocked releases t.mu before invoking the callback.
func (t *Tracker) setErrorLocked(epoch uint64, err error) {
	if epoch != t.epoch || t.phase.Terminal() {
		t.mu.Unlock()
		return
	}
	t.failLocked(Classify(err))
}

// failLocked terminates in failed and releases t.mu.
func (t *Tracker) failLocked(perr *ParsedError) {
	t.phase = PhaseFailed
	t.perr = perr
	t.endedAt = t.now()

	fn := t.onError
	fire := !t.notified
	t.notified = true
	t.mu.Unlock()

	if fire && fn != nil {
		fn(perr)
	}
}

// Reset discards the tracked record, returns to idle, and bumps the epoch so
// any still-in-flight watcher result is ignored when it arrives.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.epoch++
	t.phase = PhaseIdle
	t.txHash = ""
	t.startedAt = time.Time{}
	t.endedAt = time.Time{}
	t.perr = nil
	t.notified = false
}
