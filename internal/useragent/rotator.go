package useragent

import (
	"math/rand"
	"sync"
)

// Rotator hands out User-Agent strings for outbound page fetches. Remote
// hosts throttle repeat agents aggressively, so we rotate through a small
// pool of common browser strings.
type Rotator struct {
	agents []string
	mu     sync.Mutex
	rng    *rand.Rand
}

var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36",
}

// NewRotator builds a rotator. Agents passed in take priority over the
// built-in pool; with no arguments the built-in pool is used.
func NewRotator(agents ...string) *Rotator {
	pool := agents
	if len(pool) == 0 {
		pool = defaultAgents
	}
	return &Rotator{
		agents: pool,
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
}

// Get returns a random user agent string from the pool.
func (r *Rotator) Get() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.agents[r.rng.Intn(len(r.agents))]
}
