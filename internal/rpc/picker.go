package rpc

import (
	"errors"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Nodes more than this many blocks behind the best are discarded. A
	// lagging node can report a creation tx as missing long after it mined.
	staleBlockThreshold = 3
	// The fastest-algorithm winner is reused for this long before the pool
	// is re-benchmarked.
	winnerTTL = 5 * time.Minute
)

// Endpoint represents a single RPC endpoint with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool // meaningful only when Checked == true
	Checked     bool // true when the endpoint has been health-checked
}

// Picker selects an RPC endpoint according to the configured algorithm.
type Picker struct {
	algo Algorithm

	mu           sync.Mutex
	next         int // round-robin cursor
	winnerURL    string
	winnerExpiry time.Time
	onBenchmark  func()
}

// NewPicker creates a new Picker with the given algorithm.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo}
}

// OnBenchmark registers a hook called each time a benchmark run occurs (useful for testing).
func (p *Picker) OnBenchmark(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onBenchmark = fn
}

// Pick selects an endpoint from the provided list according to the algorithm.
func (p *Picker) Pick(endpoints []Endpoint) (*Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoHealthyRPC
	}

	switch p.algo {
	case AlgorithmRoundRobin:
		return p.pickRoundRobin(endpoints)
	case AlgorithmFailover:
		return p.pickFailover(endpoints)
	default:
		return p.pickFastest(endpoints)
	}
}

// pickFastest scores all healthy endpoints and keeps the winner for
// winnerTTL so back-to-back commands do not re-benchmark the pool.
func (p *Picker) pickFastest(endpoints []Endpoint) (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.winnerURL != "" && time.Now().Before(p.winnerExpiry) {
		for i := range endpoints {
			if endpoints[i].URL == p.winnerURL {
				return &endpoints[i], nil
			}
		}
	}

	if p.onBenchmark != nil {
		p.onBenchmark()
	}

	bestBlock := highestBlock(endpoints)

	var winner *Endpoint
	var bestScore float64
	for _, e := range candidates(endpoints) {
		if bestBlock > 0 && bestBlock-e.BlockNumber > staleBlockThreshold {
			continue
		}
		if s := score(e, bestBlock); winner == nil || s > bestScore {
			winner, bestScore = e, s
		}
	}
	if winner == nil {
		return nil, ErrNoHealthyRPC
	}

	p.winnerURL = winner.URL
	p.winnerExpiry = time.Now().Add(winnerTTL)
	return winner, nil
}

// pickRoundRobin cycles through all healthy endpoints.
func (p *Picker) pickRoundRobin(endpoints []Endpoint) (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	healthy := candidates(endpoints)
	if len(healthy) == 0 {
		return nil, ErrNoHealthyRPC
	}

	idx := p.next % len(healthy)
	p.next = (idx + 1) % len(healthy)
	return healthy[idx], nil
}

// pickFailover always tries endpoints in order, skipping explicitly unhealthy ones.
func (p *Picker) pickFailover(endpoints []Endpoint) (*Endpoint, error) {
	for i := range endpoints {
		e := &endpoints[i]
		if e.Checked && !e.Healthy {
			continue
		}
		return e, nil
	}
	return nil, ErrNoHealthyRPC
}

// score rewards low latency and proximity to the best block: 1000/latency-ms
// plus a recency bonus that loses one point per block behind.
func score(e *Endpoint, bestBlock uint64) float64 {
	var s float64
	if e.Latency > 0 {
		s += 1000.0 / float64(e.Latency.Milliseconds())
	}
	if bestBlock > 0 {
		s += float64(10 - (bestBlock - e.BlockNumber))
	}
	return s
}

func highestBlock(endpoints []Endpoint) uint64 {
	var best uint64
	for _, e := range endpoints {
		if e.BlockNumber > best {
			best = e.BlockNumber
		}
	}
	return best
}

// candidates returns the endpoints eligible for selection. Endpoints that
// failed a health check are excluded; unchecked endpoints stay eligible so a
// pool without health data still yields a pick.
func candidates(endpoints []Endpoint) []*Endpoint {
	var out []*Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if e.Checked && !e.Healthy {
			continue
		}
		out = append(out, e)
	}
	return out
}
