package core

import "sync"

// Notifier is a minimal listener registry for bridging external event
// sources into the runtime. It is safe for concurrent use; listeners are
// invoked on the caller's goroutine.
type Notifier struct {
	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]func())}
}

// AddListener registers fn and returns a function that removes it.
func (n *Notifier) AddListener(fn func()) (remove func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier) ListenerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

// Notify invokes every registered listener.
func (n *Notifier) Notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// UseSubscription subscribes the current instance to an external notifier:
// each notification marks the instance dirty, and the subscription is removed
// on unmount. The host still decides when to Flush.
func UseSubscription(ctx *BuildContext, notifier *Notifier) {
	rt := ctx.rt
	inst := ctx.inst
	UseEffect(ctx, func() func() {
		return notifier.AddListener(func() {
			rt.markDirty(inst)
		})
	}, Deps{notifier})
}
