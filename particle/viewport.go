package particle

import (
	"slices"
	"sync"
)

// Viewport reports the host window size and notifies listeners when it
// changes. Implementations must not call fn from inside OnResize.
type Viewport interface {
	Size() (w, h int)
	OnResize(fn func(w, h int)) (remove func())
}

// Window is a Viewport whose size is set by the host.
type Window struct {
	mu        sync.Mutex
	w, h      int
	next      int
	listeners map[int]func(w, h int)
}

// NewWindow returns a window of the given size.
func NewWindow(w, h int) *Window {
	return &Window{w: w, h: h, listeners: make(map[int]func(w, h int))}
}

func (v *Window) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.w, v.h
}

func (v *Window) OnResize(fn func(w, h int)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.next
	v.next++
	v.listeners[id] = fn

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}

// Resize sets the window size and notifies listeners in registration order.
func (v *Window) Resize(w, h int) {
	v.mu.Lock()
	v.w, v.h = w, h
	ids := make([]int, 0, len(v.listeners))
	for id := range v.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(w, h int), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, v.listeners[id])
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(w, h)
	}
}

// Listeners returns the number of registered resize listeners.
func (v *Window) Listeners() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.listeners)
}
