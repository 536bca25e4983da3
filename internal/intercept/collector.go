// Collector accumulates the results of every intercepted call.
//
// DESIGN: Process-scoped, append-only store with an explicit lifecycle:
// initialized empty before the first call is routed, readable via Results(),
// reset-able between independent runs so repeated use in test suites does not
// leak state. Concurrent appends are safe; entries produced concurrently have
// no ordering guarantee beyond their CallID.
package intercept

import (
	"sync"
	"sync/atomic"
	"time"
)

// ExecutionResult is the immutable record of one completed call.
type ExecutionResult struct {
	CallID     uint64        `json:"call_id"`
	Metadata   *CallMetadata `json:"metadata"`
	Result     any           `json:"result,omitempty"`
	Terminated bool          `json:"terminated,omitempty"`
	Failed     bool          `json:"failed,omitempty"`
	Error      string        `json:"error,omitempty"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Collector stores ExecutionResults for the lifetime of the process.
type Collector struct {
	mu      sync.Mutex
	results []ExecutionResult
	subs    []func(ExecutionResult)
	nextID  atomic.Uint64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// NextCallID allocates a unique, monotonic call identifier.
func (c *Collector) NextCallID() uint64 {
	return c.nextID.Add(1)
}

// Record appends a result and notifies subscribers. The entry is never
// mutated after insertion.
func (c *Collector) Record(r ExecutionResult) {
	r.RecordedAt = time.Now()

	c.mu.Lock()
	c.results = append(c.results, r)
	subs := c.subs
	c.mu.Unlock()

	for _, fn := range subs {
		fn(r)
	}
}

// Results returns a copy of all recorded results.
func (c *Collector) Results() []ExecutionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ExecutionResult, len(c.results))
	copy(out, c.results)
	return out
}

// Len returns the number of recorded results.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Reset drops all recorded results. Intended for reuse between independent
// runs; the call counter keeps advancing so CallIDs stay unique.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = nil
}

// Subscribe registers an observer invoked for every recorded result.
// Subscribers must be attached before the first call is routed.
func (c *Collector) Subscribe(fn func(ExecutionResult)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}
