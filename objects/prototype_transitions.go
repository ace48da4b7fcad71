package objects

// ---------------------------------------------------------------------------
// PrototypeTransitions: bounded weak prototype => shape cache
// ---------------------------------------------------------------------------

// MaxCachedPrototypeTransitions is the hard capacity limit of the prototype
// transition cache. Past it, inserts are silently dropped: the cache is
// best-effort and callers never observe a failure.
const MaxCachedPrototypeTransitions = 256

// PrototypeTransitions caches shapes derived from a shape by setting a new
// prototype. Entries hold the derived shape weakly; the cached prototype is
// recovered from the derived shape's own prototype pointer, so the cache
// stores no key column.
type PrototypeTransitions struct {
	nof   int // live-entry count, including cleared-but-unswept slots
	slots []WeakRef
}

// NumberOfEntries returns the entry count, counting entries whose weak
// target has been cleared but not yet compacted away.
func (p *PrototypeTransitions) NumberOfEntries() int {
	if p == nil {
		return 0
	}
	return p.nof
}

// Capacity returns the backing capacity.
func (p *PrototypeTransitions) Capacity() int {
	if p == nil {
		return 0
	}
	return len(p.slots)
}

func (p *PrototypeTransitions) setNumberOfEntries(n int) { p.nof = n }

// compact drops entries whose weak reference has been cleared, shifting
// survivors to the front in their original relative order. Returns true if
// any slot was freed.
func (p *PrototypeTransitions) compact(heap *Heap) bool {
	if p == nil || p.nof == 0 {
		return false
	}
	kept := 0
	for i := 0; i < p.nof; i++ {
		ref := p.slots[i]
		if heap.Deref(ref) == nil {
			continue
		}
		if kept != i {
			p.slots[kept] = ref
		}
		kept++
	}
	// Null out the slots that became free.
	for i := kept; i < p.nof; i++ {
		p.slots[i] = 0
	}
	freed := kept < p.nof
	p.nof = kept
	return freed
}

// PutPrototypeTransition caches target as the shape derived from the
// accessor's shape by switching to the given prototype. Best effort: the
// insert is skipped for prototype maps, dictionary maps, when the feature
// flag is off, or when the cache is full and compaction frees nothing.
func (a *TransitionsAccessor) PutPrototypeTransition(prototype *JSObject, target *Shape) {
	if a.shape.IsPrototypeMap() || a.shape.IsDictionaryMap() {
		return
	}
	if !a.isolate.flags.CachePrototypeTransitions {
		return
	}

	heap := a.isolate.heap
	cache := a.GetPrototypeTransitionsTable()
	need := cache.NumberOfEntries() + 1

	mu := &a.isolate.fullTransitionArrayAccess
	mu.Lock()
	if need > cache.Capacity() {
		// Grow only if compacting doesn't free space.
		if !cache.compact(heap) {
			if cache.Capacity() == MaxCachedPrototypeTransitions {
				mu.Unlock()
				return
			}
			// Growth allocates, and the lock is never held across an
			// allocating call.
			mu.Unlock()
			cache = heap.growPrototypeTransitions(cache, 2*need)
			a.Reload()
			a.setPrototypeTransitions(cache)
			mu.Lock()
		}
	}

	// Re-read the entry count; it may have been compacted above.
	last := cache.NumberOfEntries()
	cache.slots[last] = heap.MakeWeak(target)
	cache.setNumberOfEntries(last + 1)
	mu.Unlock()
}

// GetPrototypeTransition returns the cached shape derived by switching to
// the given prototype, or nil. Slot positions are not stable across a Put.
func (a *TransitionsAccessor) GetPrototypeTransition(prototype *JSObject) *Shape {
	heap := a.isolate.heap
	cache := a.GetPrototypeTransitionsTable()
	for i := 0; i < cache.NumberOfEntries(); i++ {
		target := heap.Deref(cache.slots[i])
		if target != nil && target.Prototype() == prototype {
			return target
		}
	}
	return nil
}

// GetPrototypeTransitionsTable returns the prototype sub-table, or nil when
// the encoding is not FullTransitionArray or the array carries none.
func (a *TransitionsAccessor) GetPrototypeTransitionsTable() *PrototypeTransitions {
	if a.Encoding() != EncodingFullTransitionArray {
		return nil
	}
	return a.transitions().GetPrototypeTransitions()
}

// setPrototypeTransitions installs the sub-table, promoting the shape to a
// full transition array first if needed.
func (a *TransitionsAccessor) setPrototypeTransitions(p *PrototypeTransitions) {
	a.EnsureHasFullTransitionArray()
	a.transitions().SetPrototypeTransitions(p)
}
