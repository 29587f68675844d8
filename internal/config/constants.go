package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
// These are conservative upper bounds; actual gas used will be lower.
const (
	GasLimitContractCall = uint64(200_000)   // generic contract state-change call
	GasLimitTokenCreate  = uint64(1_500_000) // factory createToken (deploys a contract)
)

// Timeout constants used across cmd.
const (
	RPCSelectTimeout = 10 * time.Second // RPC benchmark / selection
	TxConfirmTimeout = 5 * time.Minute  // token creation confirmation wait
)
