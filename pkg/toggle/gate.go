package toggle

import "sync"

// Gate admits status writes until it is closed. A view closes its gate
// when it is torn down so late reads cannot change the store. The zero
// value is open; a nil *Gate is always open.
type Gate struct {
	mu     sync.RWMutex
	closed bool
}

// Admit runs fn if the gate is open and reports whether it ran. fn
// must not close the gate.
func (g *Gate) Admit(fn func()) bool {
	if g == nil {
		fn()
		return true
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return false
	}
	fn()
	return true
}

// Close shuts the gate. It waits for writes already admitted, so none
// happen after it returns.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}
