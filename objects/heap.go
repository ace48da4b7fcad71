package objects

import (
	"sync"

	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Heap: weak-reference arena and transition storage allocator
// ---------------------------------------------------------------------------

// WeakRef is a handle to a weakly-referenced shape. It never keeps its target
// alive: the collector may clear the underlying slot at any safepoint, after
// which Deref returns nil. The zero WeakRef is the null handle.
type WeakRef uint32

// Heap owns the weak-reference slot arena and allocates transition storage.
//
// Every allocating call is a potential safepoint: the collector may run and
// clear weak slots while the allocation is in progress. Tests inject that
// behavior through SetSafepointHook; production code must follow the reload
// discipline regardless (re-derive any state read before an allocating call).
type Heap struct {
	mu    sync.RWMutex
	slots []*Shape // index WeakRef-1; nil = cleared

	hookMu    sync.Mutex
	safepoint func()

	log commonlog.Logger
}

func newHeap() *Heap {
	return &Heap{
		log: commonlog.GetLogger("v8.heap"),
	}
}

// MakeWeak allocates a weak handle to the given shape. Creating a handle is
// not a safepoint.
func (h *Heap) MakeWeak(target *Shape) WeakRef {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.slots = append(h.slots, target)
	return WeakRef(len(h.slots))
}

// Deref resolves a weak handle. Returns nil for the null handle and for
// handles the collector has cleared.
func (h *Heap) Deref(r WeakRef) *Shape {
	if r == 0 {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.slots[r-1]
}

// IsCleared reports whether a non-null handle no longer resolves.
func (h *Heap) IsCleared(r WeakRef) bool {
	return r != 0 && h.Deref(r) == nil
}

// Collect clears every weak slot whose target is not in the marked set and
// returns the number of slots cleared. This is the collector's entry point.
func (h *Heap) Collect(marked map[*Shape]struct{}) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	cleared := 0
	for i, target := range h.slots {
		if target == nil {
			continue
		}
		if _, ok := marked[target]; !ok {
			h.slots[i] = nil
			cleared++
		}
	}
	if cleared > 0 {
		h.log.Debugf("collect cleared %d weak slots", cleared)
	}
	return cleared
}

// ClearTarget clears every weak slot pointing at the given shape, as the
// collector does when that one shape dies. Returns the number of slots
// cleared.
func (h *Heap) ClearTarget(s *Shape) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	cleared := 0
	for i, target := range h.slots {
		if target == s {
			h.slots[i] = nil
			cleared++
		}
	}
	return cleared
}

// SetSafepointHook installs a function invoked on every allocating call.
// Tests use it to simulate a collection happening inside an allocation.
// Pass nil to remove the hook.
func (h *Heap) SetSafepointHook(fn func()) {
	h.hookMu.Lock()
	h.safepoint = fn
	h.hookMu.Unlock()
}

func (h *Heap) allocationSafepoint() {
	h.hookMu.Lock()
	fn := h.safepoint
	h.hookMu.Unlock()
	if fn != nil {
		fn()
	}
}

// newTransitionArray allocates a transition array holding nof entries with
// the given extra slack capacity. This is a safepoint.
func (h *Heap) newTransitionArray(nof, slack int) *TransitionArray {
	h.allocationSafepoint()
	return &TransitionArray{
		heap:    h,
		entries: make([]transitionEntry, nof+slack),
		nof:     nof,
	}
}

// newPrototypeTransitions allocates an empty prototype transition table with
// the given capacity. This is a safepoint.
func (h *Heap) newPrototypeTransitions(capacity int) *PrototypeTransitions {
	h.allocationSafepoint()
	return &PrototypeTransitions{
		slots: make([]WeakRef, capacity),
	}
}

// growPrototypeTransitions copies old (which may be nil) into a new table
// with capacity grown to newCapacity, bounded by the hard maximum. This is a
// safepoint.
func (h *Heap) growPrototypeTransitions(old *PrototypeTransitions, newCapacity int) *PrototypeTransitions {
	if newCapacity > MaxCachedPrototypeTransitions {
		newCapacity = MaxCachedPrototypeTransitions
	}
	grown := h.newPrototypeTransitions(newCapacity)
	if old != nil {
		copy(grown.slots, old.slots[:old.nof])
		grown.nof = old.nof
	}
	h.log.Debugf("grew prototype transition cache to capacity %d", newCapacity)
	return grown
}
