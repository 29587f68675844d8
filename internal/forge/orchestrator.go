package forge

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

// Signer is the external wallet component that holds keys and can sign and
// broadcast transactions. EstimateAndSubmit encodes nothing itself: it takes
// finished calldata plus the value to send and returns the broadcast hash.
type Signer interface {
	Address() string
	ChainID() int64
	EstimateAndSubmit(ctx context.Context, contractAddr string, calldata []byte, value *big.Int) (string, error)
}

// ChainClient is the read-only connection used to wait for receipts.
// AwaitReceipt blocks until the transaction has been mined and seen at the
// required confirmation depth, or ctx is cancelled.
type ChainClient interface {
	AwaitReceipt(ctx context.Context, txHash string, confirmations uint64) (Receipt, error)
}

// Store receives the record of a successfully created token. Fire-and-forget:
// the orchestrator ignores storage errors.
type Store interface {
	SaveToken(rec TokenRecord) error
}

// TokenRecord is emitted to the Store once a creation confirms.
type TokenRecord struct {
	Address       string    `json:"address"`
	Name          string    `json:"name"`
	Symbol        string    `json:"symbol"`
	Decimals      uint8     `json:"decimals"`
	InitialSupply string    `json:"initial_supply"`
	TxHash        string    `json:"tx_hash"`
	ChainID       int64     `json:"chain_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Options configures an Orchestrator.
type Options struct {
	Signer Signer
	Client ChainClient
	Store  Store // optional

	// FactoryAddr is the token-factory contract; CreationFee is sent as the
	// transaction value.
	FactoryAddr string
	CreationFee *big.Int

	// ChainID the signer must be connected to.
	ChainID int64

	// Confirmations is the receipt depth required before confirmed.
	Confirmations uint64

	// Encode builds the factory createToken calldata from the form.
	Encode func(f TokenForm) ([]byte, error)

	// Tracker to drive. A fresh one is created when nil.
	Tracker *Tracker
}

// Orchestrator composes the validators, the lifecycle tracker, and the
// external signer/chain collaborators into the submit pipeline. Exactly one
// submission is live per orchestrator: Submit while a prior submission has
// not been Reset is rejected.
type Orchestrator struct {
	mu      sync.Mutex
	tracker *Tracker
	cancel  context.CancelFunc
	opts    Options
}

// NewOrchestrator creates an orchestrator from opts.
func NewOrchestrator(opts Options) *Orchestrator {
	t := opts.Tracker
	if t == nil {
		t = NewTracker()
	}
	return &Orchestrator{tracker: t, opts: opts}
}

// Tracker returns the lifecycle machine this orchestrator drives.
func (o *Orchestrator) Tracker() *Tracker { return o.tracker }

// Submit validates preconditions, invokes the signer with the encoded
// factory call, and tracks the broadcast transaction to a terminal phase.
// Returns false without side effects when a prior submission has not been
// Reset. All failures are classified and land on the tracker as a
// ParsedError; Submit itself never returns one.
func (o *Orchestrator) Submit(ctx context.Context, form TokenForm) bool {
	o.mu.Lock()
	if o.tracker.Phase() != PhaseIdle {
		o.mu.Unlock()
		return false
	}
	epoch := o.tracker.Epoch()
	ctx, o.cancel = context.WithCancel(ctx)
	o.mu.Unlock()

	// Preconditions short-circuit straight to failed, bypassing preparing.
	if err := o.preflight(form); err != nil {
		o.tracker.SetErrorAt(epoch, err)
		return true
	}

	o.tracker.SetPreparing()

	calldata, err := o.opts.Encode(form)
	if err != nil {
		o.tracker.SetErrorAt(epoch, fmt.Errorf("encoding factory call: %w", err))
		return true
	}

	o.tracker.SetAwaitingSignature()

	hash, err := o.opts.Signer.EstimateAndSubmit(ctx, o.opts.FactoryAddr, calldata, o.opts.CreationFee)
	if err != nil {
		o.tracker.SetErrorAt(epoch, err)
		return true
	}

	o.tracker.StartTracking(hash)
	go o.track(ctx, epoch, hash, form)
	return true
}

// preflight checks the conditions per-field validators do not cover.
func (o *Orchestrator) preflight(form TokenForm) error {
	if o.opts.Signer == nil {
		return fmt.Errorf("no signing wallet connected")
	}
	if o.opts.Encode == nil {
		return fmt.Errorf("no factory call encoder configured")
	}
	if got := o.opts.Signer.ChainID(); got != o.opts.ChainID {
		return fmt.Errorf("wrong network: signer is on chain %d, expected %d", got, o.opts.ChainID)
	}
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Symbol) == "" {
		return fmt.Errorf("token name and symbol are required")
	}
	if v := ValidateSupply(form.InitialSupply, int(form.Decimals)); !v.Valid {
		return fmt.Errorf("invalid initial supply: %s", v.Message)
	}
	return nil
}

// track waits for the receipt and drives the tracker to a terminal phase.
// Runs under the epoch captured at Submit time: if Reset was called in the
// meantime, every tracker transition below is discarded.
func (o *Orchestrator) track(ctx context.Context, epoch uint64, hash string, form TokenForm) {
	rc, err := o.opts.Client.AwaitReceipt(ctx, hash, o.opts.Confirmations)
	if err != nil {
		o.tracker.SetErrorAt(epoch, err)
		return
	}

	o.tracker.ObserveReceipt(epoch, rc, true)

	if o.tracker.Epoch() == epoch && o.tracker.Phase() == PhaseConfirmed && o.opts.Store != nil {
		// Fire-and-forget: a storage failure never affects the lifecycle.
		_ = o.opts.Store.SaveToken(TokenRecord{
			Address:       rc.ContractAddress,
			Name:          form.Name,
			Symbol:        form.Symbol,
			Decimals:      form.Decimals,
			InitialSupply: form.InitialSupply,
			TxHash:        hash,
			ChainID:       o.opts.ChainID,
			CreatedAt:     time.Now().UTC(),
		})
	}
}

// Reset cancels any in-flight tracking and returns the tracker to idle.
// Late results from the cancelled watcher are discarded by the epoch bump.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.mu.Unlock()
	o.tracker.Reset()
}
