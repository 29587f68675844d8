package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/tokenforge/forgectl/internal/chain"
)

// BenchmarkResult holds the result of a single endpoint benchmark.
type BenchmarkResult struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// BenchmarkEVM pings every URL in parallel. Results keep the input order so
// the failover algorithm can respect the configured priority.
func BenchmarkEVM(ctx context.Context, urls []string) []BenchmarkResult {
	results := make([]BenchmarkResult, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			latency, block, err := chain.NewEVMClient(u).Ping(ctx)
			results[idx] = BenchmarkResult{
				URL:         u,
				Latency:     latency,
				BlockNumber: block,
				Err:         err,
			}
		}(i, url)
	}
	wg.Wait()

	return results
}

// ResultsToEndpoints converts benchmark results to picker Endpoints. Every
// returned endpoint has Checked set: a benchmark is an active health check.
func ResultsToEndpoints(results []BenchmarkResult) []Endpoint {
	endpoints := make([]Endpoint, 0, len(results))
	for _, r := range results {
		endpoints = append(endpoints, Endpoint{
			URL:         r.URL,
			Latency:     r.Latency,
			BlockNumber: r.BlockNumber,
			Healthy:     r.Err == nil,
			Checked:     true,
		})
	}
	return endpoints
}

// BestEVM benchmarks urls and picks a winner with the given algorithm. A
// single URL is returned as-is without touching the network.
func BestEVM(ctx context.Context, urls []string, algo Algorithm) (string, error) {
	if len(urls) == 1 {
		return urls[0], nil
	}

	endpoints := ResultsToEndpoints(BenchmarkEVM(ctx, urls))
	winner, err := NewPicker(algo).Pick(endpoints)
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
