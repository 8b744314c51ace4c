// internal/app/system/identity/notifier.go
package identity

import "sync"

// Notifier fans out auth-state changes to in-process subscribers. A nil
// *Principal means signed out. Safe for concurrent use.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(*Principal)
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(*Principal))}
}

// Subscribe registers fn for auth-state changes and returns an unsubscribe
// function. Unsubscribing twice is harmless.
func (n *Notifier) Subscribe(fn func(*Principal)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Publish delivers the auth-state change to all current subscribers.
// Callbacks run synchronously on the caller's goroutine, in no particular
// order.
func (n *Notifier) Publish(p *Principal) {
	n.mu.Lock()
	fns := make([]func(*Principal), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}
