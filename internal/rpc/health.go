package rpc

import (
	"context"
	"time"

	"github.com/tokenforge/forgectl/internal/chain"
)

const healthCheckTimeout = 5 * time.Second

// HealthCheck pings a single EVM RPC and reports whether it is usable for a
// token creation: it must answer within healthCheckTimeout and sit within
// staleBlockThreshold of bestBlock (pass 0 to skip the recency check).
func HealthCheck(ctx context.Context, url string, bestBlock uint64) (Endpoint, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	latency, blockNum, err := chain.NewEVMClient(url).Ping(timeoutCtx)

	ep := Endpoint{
		URL:         url,
		Latency:     latency,
		BlockNumber: blockNum,
		Healthy:     err == nil,
	}
	if ep.Healthy && bestBlock > 0 && bestBlock-blockNum > staleBlockThreshold {
		ep.Healthy = false
	}
	return ep, err
}
