package objects

import "fmt"

// kNotFound is returned by the search functions when no entry matches.
const kNotFound = -1

// MaxNumberOfTransitions bounds both the memory of a transition array and
// its worst-case scan cost. Exceeding it indicates a degenerate program and
// is treated as a fatal defect.
const MaxNumberOfTransitions = 1536

// transitionEntry is one edge of the table: an interned key and a weak handle
// to the target shape.
type transitionEntry struct {
	key    *Name
	target WeakRef
}

// TransitionArray is the FullTransitionArray storage encoding: a sorted table
// of transition edges with slack capacity for future growth, optionally
// carrying the prototype transition sub-table.
//
// The table is kept in a strict total order: regular names by hash (string
// tiebreak), then kind (data before accessor), then attributes; special
// symbols sort after all regular names, ordered by fixed rank. Entries are
// unique on the full (key, kind, attributes) tuple among live targets; dead
// entries (cleared weak handles) linger until the array is rebuilt.
type TransitionArray struct {
	heap    *Heap
	entries []transitionEntry // len(entries) == capacity
	nof     int               // live prefix length
	proto   *PrototypeTransitions
}

// NumberOfTransitions returns the number of entries, counting entries whose
// weak target has been cleared but not yet discarded.
func (ta *TransitionArray) NumberOfTransitions() int { return ta.nof }

// Capacity returns the backing capacity, including slack.
func (ta *TransitionArray) Capacity() int { return len(ta.entries) }

func (ta *TransitionArray) setNumberOfTransitions(n int) { ta.nof = n }

// GetKey returns the key of entry i.
func (ta *TransitionArray) GetKey(i int) *Name { return ta.entries[i].key }

func (ta *TransitionArray) setKey(i int, key *Name) { ta.entries[i].key = key }

// GetTarget resolves the weak target of entry i, or nil if the collector has
// cleared it.
func (ta *TransitionArray) GetTarget(i int) *Shape {
	return ta.heap.Deref(ta.entries[i].target)
}

func (ta *TransitionArray) getRawTarget(i int) WeakRef { return ta.entries[i].target }

func (ta *TransitionArray) setRawTarget(i int, target WeakRef) { ta.entries[i].target = target }

func (ta *TransitionArray) set(i int, key *Name, target WeakRef) {
	ta.entries[i] = transitionEntry{key: key, target: target}
}

// HasPrototypeTransitions reports whether the array carries a prototype
// transition sub-table.
func (ta *TransitionArray) HasPrototypeTransitions() bool { return ta.proto != nil }

// GetPrototypeTransitions returns the prototype sub-table, or nil.
func (ta *TransitionArray) GetPrototypeTransitions() *PrototypeTransitions { return ta.proto }

// SetPrototypeTransitions installs the prototype sub-table.
func (ta *TransitionArray) SetPrototypeTransitions(p *PrototypeTransitions) { ta.proto = p }

// getTargetDetails returns the descriptor a sorted entry is ordered by:
// special transitions carry no descriptor, regular transitions use the
// target's terminal descriptor.
func getTargetDetails(key *Name, target *Shape) PropertyDetails {
	if key.IsSpecial() {
		return emptyPropertyDetails()
	}
	return target.LastDetails()
}

// compareKeys orders two full (key, kind, attributes) tuples.
func compareKeys(key1 *Name, kind1 PropertyKind, attrs1 PropertyAttributes,
	key2 *Name, kind2 PropertyKind, attrs2 PropertyAttributes) int {
	if cmp := compareNames(key1, key2); cmp != 0 {
		return cmp
	}
	return compareDetails(kind1, attrs1, kind2, attrs2)
}

// searchKey locates the first entry whose key equals name. On a miss it
// returns (kNotFound, insertionPoint) where insertionPoint is the index at
// which an entry with that name would be inserted.
func (ta *TransitionArray) searchKey(name *Name) (index, insertionPoint int) {
	for i := 0; i < ta.nof; i++ {
		cmp := compareNames(ta.GetKey(i), name)
		if cmp == 0 {
			return i, i
		}
		if cmp > 0 {
			return kNotFound, i
		}
	}
	return kNotFound, ta.nof
}

// SearchName locates the first entry with a matching name irrespective of
// kind and attributes. Returns kNotFound on a miss.
func (ta *TransitionArray) SearchName(name *Name) int {
	index, _ := ta.searchKey(name)
	return index
}

// SearchSpecial locates the entry for a special transition symbol.
func (ta *TransitionArray) SearchSpecial(symbol *Name) int {
	index, _ := ta.searchKey(symbol)
	return index
}

func (ta *TransitionArray) searchSpecial(symbol *Name) (index, insertionPoint int) {
	return ta.searchKey(symbol)
}

// SearchDetails scans the run of entries sharing GetKey(start) for a
// matching (kind, attributes), stopping as soon as the comparator shows the
// sorted position has been passed. Entries whose weak target has been
// cleared are skipped. On a miss the insertion point within the run is
// returned.
func (ta *TransitionArray) SearchDetails(start int, kind PropertyKind, attrs PropertyAttributes) (index, insertionPoint int) {
	key := ta.GetKey(start)
	i := start
	for ; i < ta.nof && ta.GetKey(i) == key; i++ {
		target := ta.GetTarget(i)
		if target == nil {
			continue
		}
		td := getTargetDetails(key, target)
		cmp := compareDetails(kind, attrs, td.Kind, td.Attributes)
		if cmp == 0 {
			return i, i
		}
		if cmp < 0 {
			break
		}
	}
	return kNotFound, i
}

// Search locates the entry for the full (name, kind, attributes) tuple. On a
// miss it returns (kNotFound, insertionPoint).
func (ta *TransitionArray) Search(kind PropertyKind, name *Name, attrs PropertyAttributes) (index, insertionPoint int) {
	start, insertionPoint := ta.searchKey(name)
	if start == kNotFound {
		return kNotFound, insertionPoint
	}
	return ta.SearchDetails(start, kind, attrs)
}

// SearchAndGetTarget resolves the target for the full tuple, or nil.
func (ta *TransitionArray) SearchAndGetTarget(kind PropertyKind, name *Name, attrs PropertyAttributes) *Shape {
	index, _ := ta.Search(kind, name, attrs)
	if index == kNotFound {
		return nil
	}
	return ta.GetTarget(index)
}

// ForEachTransitionTo visits every live edge whose key equals name,
// irrespective of kind and attributes.
func (ta *TransitionArray) ForEachTransitionTo(name *Name, callback func(*Shape)) {
	start := ta.SearchName(name)
	if start == kNotFound {
		return
	}
	key := ta.GetKey(start)
	for i := start; i < ta.nof && ta.GetKey(i) == key; i++ {
		if target := ta.GetTarget(i); target != nil {
			callback(target)
		}
	}
}

// Sort re-establishes the total order after bulk unsorted construction.
// In-place stable insertion sort; quadratic is fine under the hard cap.
func (ta *TransitionArray) Sort() {
	for i := 1; i < ta.nof; i++ {
		key := ta.GetKey(i)
		target := ta.getRawTarget(i)
		kind, attrs := ta.sortDetails(i)
		j := i - 1
		for ; j >= 0; j-- {
			tempKind, tempAttrs := ta.sortDetails(j)
			cmp := compareKeys(ta.GetKey(j), tempKind, tempAttrs, key, kind, attrs)
			if cmp <= 0 {
				break
			}
			ta.set(j+1, ta.GetKey(j), ta.getRawTarget(j))
		}
		ta.set(j+1, key, target)
	}
}

// sortDetails returns the (kind, attributes) entry i sorts by. Special and
// cleared entries sort as (data, none) under their key.
func (ta *TransitionArray) sortDetails(i int) (PropertyKind, PropertyAttributes) {
	key := ta.GetKey(i)
	if key.IsSpecial() {
		return KindData, AttrNone
	}
	target := ta.GetTarget(i)
	if target == nil {
		return KindData, AttrNone
	}
	d := target.LastDetails()
	return d.Kind, d.Attributes
}

// IsSortedNoDuplicates verifies the strict total order and tuple uniqueness.
// Used by the insertion paths when the verify-transitions flag is on.
func (ta *TransitionArray) IsSortedNoDuplicates() bool {
	for i := 1; i < ta.nof; i++ {
		prevKind, prevAttrs := ta.sortDetails(i - 1)
		kind, attrs := ta.sortDetails(i)
		cmp := compareKeys(ta.GetKey(i-1), prevKind, prevAttrs, ta.GetKey(i), kind, attrs)
		if cmp > 0 {
			return false
		}
		if cmp == 0 && ta.GetTarget(i-1) != nil && ta.GetTarget(i) != nil {
			return false
		}
	}
	return true
}

func (ta *TransitionArray) checkSorted(context string) {
	if !ta.IsSortedNoDuplicates() {
		panic(fmt.Sprintf("objects: transition array unsorted or duplicated after %s", context))
	}
}
