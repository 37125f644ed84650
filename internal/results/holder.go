package results

import (
	"sync"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
)

// Change is delivered to subscribers after every ReplaceAll.
type Change struct {
	Items    []customer.Customer
	Revision uint64
}

type Handler func(Change)

// Holder is the suggestion list shown to the user. It is replaced wholesale on
// every fetch and notifies subscribers synchronously once per replacement.
type Holder struct {
	mu       sync.RWMutex
	items    []customer.Customer
	revision uint64
	nextID   uint64
	subs     map[uint64]Handler
	order    []uint64
}

func NewHolder() *Holder {
	return &Holder{subs: make(map[uint64]Handler)}
}

// Subscribe registers fn and returns a func that removes it. Calling the
// returned func more than once is harmless.
func (h *Holder) Subscribe(fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[uint64]Handler)
	}
	h.nextID++
	id := h.nextID
	h.subs[id] = fn
	h.order = append(h.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(id) })
	}
}

func (h *Holder) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// ReplaceAll swaps the held records for a copy of records, preserving order,
// then notifies every subscriber exactly once, even when records is empty.
// Handlers run on the caller's goroutine after the lock is released.
func (h *Holder) ReplaceAll(records []customer.Customer) {
	next := make([]customer.Customer, len(records))
	copy(next, records)

	h.mu.Lock()
	h.items = next
	h.revision++
	change := Change{Items: cloneItems(next), Revision: h.revision}
	handlers := make([]Handler, 0, len(h.order))
	for _, id := range h.order {
		handlers = append(handlers, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(change)
	}
}

// Items returns a copy of the held records.
func (h *Holder) Items() []customer.Customer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return cloneItems(h.items)
}

func (h *Holder) At(i int) (customer.Customer, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i < 0 || i >= len(h.items) {
		return customer.Customer{}, false
	}
	return h.items[i], true
}

func (h *Holder) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}

func (h *Holder) Revision() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.revision
}

func cloneItems(items []customer.Customer) []customer.Customer {
	out := make([]customer.Customer, len(items))
	copy(out, items)
	return out
}
