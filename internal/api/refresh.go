package api

import "sync"

// refresher guarantees at most one token-refresh operation is in flight
// system-wide. The first 401 while idle makes its caller the owner of a new
// refresh; every later 401 arriving before the refresh settles registers a
// continuation in a FIFO queue. When the refresh settles, the queue is drained
// exactly once in insertion order, each continuation receiving the settled
// result (nil on success, the refresh error on failure).
type refresher struct {
	mu      sync.Mutex
	active  bool
	pending []func(error)
}

// begin registers fn as a continuation for the current refresh cycle and
// reports whether the caller became the owner of a new one. The owner must
// perform the refresh and call settle; everyone else waits for fn to fire.
func (r *refresher) begin(fn func(error)) (owner bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, fn)
	if r.active {
		return false
	}
	r.active = true
	return true
}

// settle transitions back to idle and drains the pending queue in FIFO order.
// The refresh itself is never retried here: a single failure is terminal for
// the cycle and propagates to every queued continuation.
func (r *refresher) settle(err error) {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.active = false
	r.mu.Unlock()

	for _, fn := range pending {
		fn(err)
	}
}
