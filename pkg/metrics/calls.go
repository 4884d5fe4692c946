package metrics

import "sync"

// CallCounter tracks how many outbound requests were issued per endpoint.
type CallCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewCallCounter constructs an empty counter.
func NewCallCounter() *CallCounter {
	return &CallCounter{counts: make(map[string]int64)}
}

// Inc bumps the counter for endpoint. A nil counter is a no-op.
func (c *CallCounter) Inc(endpoint string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.counts[endpoint]++
	c.mu.Unlock()
}

// Count returns the number of calls recorded for endpoint.
func (c *CallCounter) Count(endpoint string) int64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[endpoint]
}

// Total returns the number of calls across all endpoints.
func (c *CallCounter) Total() int64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Snapshot copies the current counts.
func (c *CallCounter) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	if c == nil {
		return out
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
