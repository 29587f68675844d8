package forge

import "strings"

// ErrorKind is the closed taxonomy a raw wallet/chain failure is mapped into.
type ErrorKind string

const (
	KindUserRejected           ErrorKind = "user-rejected"
	KindInsufficientFunds      ErrorKind = "insufficient-funds"
	KindGasLimitExceeded       ErrorKind = "gas-limit-exceeded"
	KindNonceConflict          ErrorKind = "nonce-conflict"
	KindReplacementUnderpriced ErrorKind = "replacement-underpriced"
	KindFeeTooLow              ErrorKind = "fee-too-low"
	KindExecutionReverted      ErrorKind = "execution-reverted"
	KindNetworkError           ErrorKind = "network-error"
	KindWrongNetwork           ErrorKind = "wrong-network"
	KindContractNotDeployed    ErrorKind = "contract-not-deployed"
	KindSequencerUnavailable   ErrorKind = "sequencer-unavailable"
	KindUnknown                ErrorKind = "unknown"
)

// ParsedError is the stable, user-facing form of a classified failure.
// Never mutated after creation.
type ParsedError struct {
	Kind       ErrorKind
	Title      string
	Message    string
	Suggestion string
	Retryable  bool
}

// classifyRule matches lower-cased error text by substring. Rules are scanned
// in order; the first hit wins.
type classifyRule struct {
	kind       ErrorKind
	patterns   []string
	title      string
	suggestion string
	retryable  bool
}

// Ordered rule table. The fee-revert rule sits above the generic revert rule
// so a factory fee revert keeps its specific kind; otherwise the order
// follows the taxonomy's precedence.
var classifyRules = []classifyRule{
	{
		kind:       KindUserRejected,
		patterns:   []string{"user rejected", "user denied", "rejected the request", "action_rejected", "rejected by user", "signature denied"},
		title:      "Signature rejected",
		suggestion: "Approve the signature prompt to continue, or start over.",
		retryable:  true,
	},
	{
		kind:       KindInsufficientFunds,
		patterns:   []string{"insufficient funds", "insufficient balance", "exceeds balance", "not enough funds"},
		title:      "Insufficient funds",
		suggestion: "Fund the wallet with enough ETH to cover the creation fee plus gas.",
		retryable:  false,
	},
	{
		kind:       KindGasLimitExceeded,
		patterns:   []string{"gas required exceeds", "out of gas", "intrinsic gas too low", "exceeds gas limit", "gas limit reached"},
		title:      "Gas limit exceeded",
		suggestion: "Retry — the network may be congested, or raise the gas limit.",
		retryable:  true,
	},
	{
		kind:       KindNonceConflict,
		patterns:   []string{"nonce too low", "nonce has already been used", "already known", "same nonce"},
		title:      "Nonce conflict",
		suggestion: "A previous transaction is still pending. Wait a moment and retry.",
		retryable:  true,
	},
	{
		kind:       KindReplacementUnderpriced,
		patterns:   []string{"replacement transaction underpriced", "replacement fee too low"},
		title:      "Replacement underpriced",
		suggestion: "Retry with a higher gas price, or wait for the pending transaction.",
		retryable:  true,
	},
	{
		kind:       KindFeeTooLow,
		patterns:   []string{"insufficient creation fee", "creation fee", "fee too low"},
		title:      "Creation fee too low",
		suggestion: "Retry — the factory's creation fee may have changed since the form was filled.",
		retryable:  true,
	},
	{
		kind:       KindExecutionReverted,
		patterns:   []string{"execution reverted", "revert", "transaction failed"},
		title:      "Transaction reverted",
		suggestion: "The factory rejected the call. Check the token parameters and retry.",
		retryable:  true,
	},
	{
		kind:       KindNetworkError,
		patterns:   []string{"connection refused", "connection reset", "timed out", "timeout", "dial tcp", "no such host", "rpc request failed", "bad gateway", "service unavailable", "econnreset", "fetch failed"},
		title:      "Network error",
		suggestion: "Check your connection and RPC endpoint, then retry.",
		retryable:  true,
	},
	{
		kind:       KindWrongNetwork,
		patterns:   []string{"wrong network", "unsupported chain", "chain mismatch", "chain id mismatch", "unrecognized chain"},
		title:      "Wrong network",
		suggestion: "Switch the wallet to the expected chain and retry.",
		retryable:  true,
	},
	{
		kind:       KindContractNotDeployed,
		patterns:   []string{"no contract code", "contract not deployed", "no code at address", "is not a contract"},
		title:      "Factory not deployed",
		suggestion: "The token factory has no code on this chain. Pick a supported network.",
		retryable:  false,
	},
	{
		kind:       KindSequencerUnavailable,
		patterns:   []string{"sequencer"},
		title:      "Sequencer unavailable",
		suggestion: "The L2 sequencer is down. Wait a few minutes and retry.",
		retryable:  true,
	},
}

// Classify maps any error to a ParsedError. Total: a nil error degrades to
// the Unknown kind. Never panics.
func Classify(err error) *ParsedError {
	if err == nil {
		return ClassifyMessage("")
	}
	return ClassifyMessage(err.Error())
}

// ClassifyMessage classifies raw error text via a first-match-wins ordered
// scan of substring rules against the lower-cased input. Unmatched or empty
// input maps to the Unknown kind.
func ClassifyMessage(msg string) *ParsedError {
	lower := strings.ToLower(msg)
	for _, r := range classifyRules {
		for _, p := range r.patterns {
			if strings.Contains(lower, p) {
				return &ParsedError{
					Kind:       r.kind,
					Title:      r.title,
					Message:    messageOr(msg, r.title),
					Suggestion: r.suggestion,
					Retryable:  r.retryable,
				}
			}
		}
	}
	return &ParsedError{
		Kind:       KindUnknown,
		Title:      "Something went wrong",
		Message:    messageOr(msg, "An unexpected error occurred."),
		Suggestion: "Retry, or start over if the problem persists.",
		Retryable:  true,
	}
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
