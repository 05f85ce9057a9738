// Package cartsync keeps an in-memory cart view in step with the persisted
// cart, including writes made by other handles on the same storage.
package cartsync

import (
	"sync"

	"gamestore/internal/cart"
	"gamestore/internal/game"
)

// View caches the last summary read from a cart.Store. It owns no cart
// logic: mutations go to the store and are followed by a reload.
type View struct {
	store *cart.Store

	mu        sync.RWMutex
	summary   cart.Summary
	listeners map[int]func(cart.Summary)
	nextID    int
}

func NewView(store *cart.Store) *View {
	v := &View{
		store:     store,
		listeners: make(map[int]func(cart.Summary)),
	}
	v.Reload()
	return v
}

// Reload replaces the cached state wholesale with what the store holds now.
func (v *View) Reload() {
	sum := v.store.Summary()

	v.mu.Lock()
	v.summary = sum
	listeners := make([]func(cart.Summary), 0, len(v.listeners))
	for _, fn := range v.listeners {
		listeners = append(listeners, fn)
	}
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(copySummary(sum))
	}
}

// OnChange registers fn to run after every reload. The returned func
// unregisters it.
func (v *View) OnChange(fn func(cart.Summary)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.listeners, id)
		v.mu.Unlock()
	}
}

func (v *View) Summary() cart.Summary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return copySummary(v.summary)
}

func (v *View) Items() []cart.Line {
	return v.Summary().Items
}

func (v *View) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.summary.TotalItems
}

func (v *View) IsInCart(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, l := range v.summary.Items {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (v *View) Add(g game.Game) {
	v.store.Add(g)
	v.Reload()
}

func (v *View) Remove(id string) {
	v.store.Remove(id)
	v.Reload()
}

func (v *View) SetQuantity(id string, qty int) {
	v.store.SetQuantity(id, qty)
	v.Reload()
}

func (v *View) Clear() {
	v.store.Clear()
	v.Reload()
}

func copySummary(s cart.Summary) cart.Summary {
	items := make([]cart.Line, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}
