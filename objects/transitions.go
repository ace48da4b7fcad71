package objects

import (
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// TransitionsAccessor: per-shape transition storage state machine
// ---------------------------------------------------------------------------

// Encoding identifies which storage variant a shape's transition slot holds.
// Exactly one is active at a time; Insert only ever upgrades
// (Uninitialized/MigrationTarget -> Simple -> Full), except that a cleared
// weak handle makes MigrationTarget and SimpleTransition read back as
// Uninitialized.
type Encoding uint8

const (
	EncodingUninitialized Encoding = iota
	EncodingMigrationTarget
	EncodingSimpleTransition
	EncodingFullTransitionArray
	EncodingPrototypeInfo
)

func (e Encoding) String() string {
	switch e {
	case EncodingUninitialized:
		return "uninitialized"
	case EncodingMigrationTarget:
		return "migration-target"
	case EncodingSimpleTransition:
		return "simple"
	case EncodingFullTransitionArray:
		return "full"
	case EncodingPrototypeInfo:
		return "prototype-info"
	}
	return "unknown"
}

// TransitionFlag tells Insert whether the new edge is a plain property
// addition (eligible for the single-edge fast path) or a special transition
// that always requires a full array.
type TransitionFlag uint8

const (
	SimplePropertyTransition TransitionFlag = iota
	SpecialTransition
)

// RequestedLocation restricts FindTransitionToDataProperty.
type RequestedLocation uint8

const (
	AnyLocation RequestedLocation = iota
	FieldOnly
)

// TransitionsAccessor encapsulates access to the ways a shape stores
// transitions. It caches the storage slot and its derived encoding, which go
// stale whenever storage is replaced or the collector clears weak handles;
// every path that allocates re-derives them through Reload before relying on
// previously read state.
//
// A concurrent accessor is read-only: it takes the shared lock on full-array
// critical paths and refuses mutation.
type TransitionsAccessor struct {
	isolate    *Isolate
	shape      *Shape
	raw        *rawTransitions
	encoding   Encoding
	concurrent bool
	stale      bool
}

// NewTransitionsAccessor creates an accessor for single-writer use.
func NewTransitionsAccessor(iso *Isolate, shape *Shape) *TransitionsAccessor {
	a := &TransitionsAccessor{isolate: iso, shape: shape}
	a.Reload()
	return a
}

// NewConcurrentTransitionsAccessor creates a read-only accessor for use from
// background threads. Its full-array reads take the shared lock.
func NewConcurrentTransitionsAccessor(iso *Isolate, shape *Shape) *TransitionsAccessor {
	a := NewTransitionsAccessor(iso, shape)
	a.concurrent = true
	return a
}

// Reload re-derives the current storage slot and encoding from the shape.
// Required after any operation that may have allocated.
func (a *TransitionsAccessor) Reload() {
	a.raw = a.shape.raw.Load()
	a.encoding = getEncoding(a.isolate.heap, a.raw)
	a.stale = false
}

// getEncoding derives the active encoding from a raw storage slot. Cleared
// weak handles collapse to Uninitialized.
func getEncoding(heap *Heap, raw *rawTransitions) Encoding {
	if raw == nil {
		return EncodingUninitialized
	}
	switch raw.kind {
	case rawSimple:
		if heap.Deref(raw.ref) == nil {
			return EncodingUninitialized
		}
		return EncodingSimpleTransition
	case rawMigration:
		if heap.Deref(raw.ref) == nil {
			return EncodingUninitialized
		}
		return EncodingMigrationTarget
	case rawFull:
		return EncodingFullTransitionArray
	case rawPrototypeInfo:
		return EncodingPrototypeInfo
	}
	panic(fmt.Sprintf("objects: corrupt transition storage tag %d", raw.kind))
}

// Encoding returns the active storage encoding. Using an accessor whose
// cached state predates a storage replacement is a programming defect.
func (a *TransitionsAccessor) Encoding() Encoding {
	if a.stale {
		panic("objects: transitions accessor used without reload after storage replacement")
	}
	return a.encoding
}

// transitions returns the full transition array. Valid only when the
// encoding is EncodingFullTransitionArray.
func (a *TransitionsAccessor) transitions() *TransitionArray {
	return a.raw.array
}

// replaceTransitions publishes new storage with a single atomic store.
// Lock-free readers observe either the old or the fully-formed new storage.
func (a *TransitionsAccessor) replaceTransitions(raw *rawTransitions) {
	a.shape.raw.Store(raw)
	a.stale = true
}

func (a *TransitionsAccessor) simpleRaw(target *Shape) *rawTransitions {
	return &rawTransitions{kind: rawSimple, ref: a.isolate.heap.MakeWeak(target)}
}

// GetSimpleTransition returns the single cached target when the encoding is
// SimpleTransition, or nil.
func (a *TransitionsAccessor) GetSimpleTransition() *Shape {
	if a.Encoding() != EncodingSimpleTransition {
		return nil
	}
	return a.isolate.heap.Deref(a.raw.ref)
}

// HasSimpleTransitionTo reports whether the storage is exactly a simple
// transition to the given shape.
func (a *TransitionsAccessor) HasSimpleTransitionTo(shape *Shape) bool {
	return a.GetSimpleTransition() == shape
}

// IsMatchingMap reports whether target's terminal descriptor is exactly
// (name, kind, attributes).
func IsMatchingMap(target *Shape, name *Name, kind PropertyKind, attrs PropertyAttributes) bool {
	if target.LastKey() != name {
		return false
	}
	d := target.LastDetails()
	return d.Kind == kind && d.Attributes == attrs
}

// Insert adds or overwrites the edge (name, target) from the accessor's
// shape, upgrading the storage encoding as needed, and points target's back
// pointer at the shape. Growing past MaxNumberOfTransitions is a fatal
// defect. The accessor remains usable afterwards.
func (a *TransitionsAccessor) Insert(name *Name, target *Shape, flag TransitionFlag) {
	if a.concurrent {
		panic("objects: Insert on a concurrent transitions accessor")
	}
	if a.Encoding() == EncodingPrototypeInfo {
		panic("objects: Insert on a shape whose storage holds prototype info")
	}
	if a.isolate.flags.TraceTransitions {
		a.isolate.log.Debugf("insert %q -> shape %d (flag %d) on shape %d",
			name.String(), target.ID(), flag, a.shape.ID())
	}
	target.setBackPointer(a.shape)

	heap := a.isolate.heap

	// No transitions yet: install the new edge directly.
	if a.Encoding() == EncodingUninitialized || a.Encoding() == EncodingMigrationTarget {
		if flag == SimplePropertyTransition {
			a.replaceTransitions(a.simpleRaw(target))
			a.Reload()
			return
		}
		// The flag requires a full TransitionArray; allocate a 1-entry one.
		result := heap.newTransitionArray(1, 0)
		result.set(0, name, heap.MakeWeak(target))
		a.finishFullArray(result)
		return
	}

	if a.Encoding() == EncodingSimpleTransition {
		simple := a.GetSimpleTransition()

		if flag == SimplePropertyTransition {
			// Re-transition onto an equivalent shape: overwrite in place.
			key := simple.LastKey()
			oldDetails := simple.LastDetails()
			newDetails := getTargetDetails(name, target)
			if key == name && oldDetails.Kind == newDetails.Kind &&
				oldDetails.Attributes == newDetails.Attributes {
				a.replaceTransitions(a.simpleRaw(target))
				a.Reload()
				return
			}
		}

		// Otherwise allocate a full TransitionArray with slack for the new
		// entry. The allocation is a safepoint: reload, and if the old
		// simple target was cleared meanwhile, restart as a 1-entry array
		// instead of inserting a dangling duplicate.
		result := heap.newTransitionArray(1, 1)
		a.Reload()
		simple = a.GetSimpleTransition()
		if simple == nil {
			result.set(0, name, heap.MakeWeak(target))
			a.finishFullArray(result)
			return
		}

		// The original transition goes in index 0.
		result.set(0, simple.LastKey(), heap.MakeWeak(simple))

		// Find the sorted position for the new transition.
		var index, insertionIndex int
		if flag == SpecialTransition {
			index, insertionIndex = result.searchSpecial(name)
		} else {
			details := getTargetDetails(name, target)
			index, insertionIndex = result.Search(details.Kind, name, details.Attributes)
		}
		if index != kNotFound {
			panic("objects: simple transition already present in fresh array")
		}

		result.setNumberOfTransitions(2)
		if insertionIndex == 0 {
			// The new transition lands at index 0; move the original up.
			result.set(1, result.GetKey(0), result.getRawTarget(0))
		}
		result.set(insertionIndex, name, heap.MakeWeak(target))
		a.finishFullArray(result)
		return
	}

	// At this point the shape has a full TransitionArray.
	isSpecial := flag == SpecialTransition
	if isSpecial != name.IsSpecial() {
		panic("objects: transition flag disagrees with key kind")
	}
	var details PropertyDetails
	if isSpecial {
		details = emptyPropertyDetails()
	} else {
		details = getTargetDetails(name, target)
	}

	array := a.transitions()
	numberOfTransitions := array.NumberOfTransitions()

	var index, insertionIndex int
	if isSpecial {
		index, insertionIndex = array.searchSpecial(name)
	} else {
		index, insertionIndex = array.Search(details.Kind, name, details.Attributes)
	}

	// An existing entry with the identical tuple is overwritten, not
	// duplicated.
	if index != kNotFound {
		ref := heap.MakeWeak(target)
		a.isolate.fullTransitionArrayAccess.Lock()
		array.setRawTarget(index, ref)
		a.isolate.fullTransitionArrayAccess.Unlock()
		return
	}

	newNof := numberOfTransitions + 1
	if newNof > MaxNumberOfTransitions {
		a.isolate.log.Criticalf("shape %d exceeded the transition cap", a.shape.ID())
		panic(fmt.Sprintf("objects: shape exceeds %d transitions", MaxNumberOfTransitions))
	}

	// With free capacity, shift entries up under the exclusive lock so
	// shared-lock readers never observe a partially shifted table.
	if newNof <= array.Capacity() {
		ref := heap.MakeWeak(target)
		a.isolate.fullTransitionArrayAccess.Lock()
		array.setNumberOfTransitions(newNof)
		for i := numberOfTransitions; i > insertionIndex; i-- {
			array.set(i, array.GetKey(i-1), array.getRawTarget(i-1))
		}
		array.set(insertionIndex, name, ref)
		a.isolate.fullTransitionArrayAccess.Unlock()
		a.verify(array, "in-place insert")
		return
	}

	// We're gonna need a bigger TransitionArray.
	result := heap.newTransitionArray(newNof, slackForArraySize(numberOfTransitions, MaxNumberOfTransitions))

	// The allocation was a safepoint; the live view may have shrunk while it
	// ran. Recompute against the reloaded array before finalizing.
	a.Reload()
	array = a.transitions()
	if array.NumberOfTransitions() != numberOfTransitions {
		if isSpecial {
			index, insertionIndex = array.searchSpecial(name)
		} else {
			index, insertionIndex = array.Search(details.Kind, name, details.Attributes)
		}
		if index != kNotFound {
			panic("objects: entry appeared during transition array growth")
		}
		numberOfTransitions = array.NumberOfTransitions()
		newNof = numberOfTransitions + 1
		result.setNumberOfTransitions(newNof)
	}

	if array.HasPrototypeTransitions() {
		result.SetPrototypeTransitions(array.GetPrototypeTransitions())
	}

	for i := 0; i < insertionIndex; i++ {
		result.set(i, array.GetKey(i), array.getRawTarget(i))
	}
	result.set(insertionIndex, name, heap.MakeWeak(target))
	for i := insertionIndex; i < numberOfTransitions; i++ {
		result.set(i+1, array.GetKey(i), array.getRawTarget(i))
	}

	a.verify(result, "grown insert")
	a.replaceTransitions(&rawTransitions{kind: rawFull, array: result})
	a.Reload()
}

// finishFullArray publishes a freshly built array and reloads.
func (a *TransitionsAccessor) finishFullArray(result *TransitionArray) {
	a.verify(result, "array construction")
	a.replaceTransitions(&rawTransitions{kind: rawFull, array: result})
	a.Reload()
	if a.Encoding() != EncodingFullTransitionArray {
		panic("objects: full transition array publish did not take effect")
	}
}

func (a *TransitionsAccessor) verify(array *TransitionArray, context string) {
	if a.isolate.flags.VerifyTransitions {
		array.checkSorted(context)
	}
}

// slackForArraySize returns the extra capacity left in a grown array:
// bounded geometric growth, never past the hard cap.
func slackForArraySize(oldSize, sizeLimit int) int {
	slack := oldSize / 2
	if slack < 1 {
		slack = 1
	}
	if oldSize+slack > sizeLimit {
		slack = sizeLimit - oldSize
	}
	return slack
}

// SearchTransition returns the target of the edge (name, kind, attributes),
// or nil if no such edge exists.
func (a *TransitionsAccessor) SearchTransition(name *Name, kind PropertyKind, attrs PropertyAttributes) *Shape {
	switch a.Encoding() {
	case EncodingPrototypeInfo, EncodingUninitialized, EncodingMigrationTarget:
		return nil
	case EncodingSimpleTransition:
		target := a.isolate.heap.Deref(a.raw.ref)
		if target == nil || !IsMatchingMap(target, name, kind, attrs) {
			return nil
		}
		return target
	case EncodingFullTransitionArray:
		if a.concurrent {
			a.isolate.fullTransitionArrayAccess.RLock()
			defer a.isolate.fullTransitionArrayAccess.RUnlock()
		}
		return a.transitions().SearchAndGetTarget(kind, name, attrs)
	}
	panic("objects: unreachable encoding in SearchTransition")
}

// SearchSpecial returns the target of a special transition, or nil. Only the
// full array encoding can hold special transitions.
func (a *TransitionsAccessor) SearchSpecial(symbol *Name) *Shape {
	if a.Encoding() != EncodingFullTransitionArray {
		return nil
	}
	if a.concurrent {
		a.isolate.fullTransitionArrayAccess.RLock()
		defer a.isolate.fullTransitionArrayAccess.RUnlock()
	}
	index := a.transitions().SearchSpecial(symbol)
	if index == kNotFound {
		return nil
	}
	return a.transitions().GetTarget(index)
}

// FindTransitionToDataProperty searches for a plain data transition with the
// given name and no attributes, optionally requiring field location.
func (a *TransitionsAccessor) FindTransitionToDataProperty(name *Name, requested RequestedLocation) *Shape {
	target := a.SearchTransition(name, KindData, AttrNone)
	if target == nil {
		return nil
	}
	if requested == FieldOnly && target.LastDetails().Location != LocationField {
		return nil
	}
	return target
}

// FindTransitionToField is FindTransitionToDataProperty restricted to field
// properties.
func (a *TransitionsAccessor) FindTransitionToField(name *Name) *Shape {
	return a.FindTransitionToDataProperty(name, FieldOnly)
}

// ForEachTransitionTo visits every live edge whose key equals name,
// irrespective of kind and attributes.
func (a *TransitionsAccessor) ForEachTransitionTo(name *Name, callback func(*Shape)) {
	switch a.Encoding() {
	case EncodingPrototypeInfo, EncodingUninitialized, EncodingMigrationTarget:
		return
	case EncodingSimpleTransition:
		target := a.isolate.heap.Deref(a.raw.ref)
		if target != nil && target.LastKey() == name {
			callback(target)
		}
		return
	case EncodingFullTransitionArray:
		if a.concurrent {
			a.isolate.fullTransitionArrayAccess.RLock()
			defer a.isolate.fullTransitionArrayAccess.RUnlock()
		}
		a.transitions().ForEachTransitionTo(name, callback)
		return
	}
	panic("objects: unreachable encoding in ForEachTransitionTo")
}

// NumberOfTransitions returns the number of outgoing edges under the current
// encoding.
func (a *TransitionsAccessor) NumberOfTransitions() int {
	switch a.Encoding() {
	case EncodingPrototypeInfo, EncodingUninitialized, EncodingMigrationTarget:
		return 0
	case EncodingSimpleTransition:
		return 1
	case EncodingFullTransitionArray:
		return a.transitions().NumberOfTransitions()
	}
	panic("objects: unreachable encoding in NumberOfTransitions")
}

// CanHaveMoreTransitions reports whether another transition may be added.
// False for dictionary-mode shapes and for full arrays at the hard cap.
func (a *TransitionsAccessor) CanHaveMoreTransitions() bool {
	if a.shape.IsDictionaryMap() {
		return false
	}
	if a.Encoding() == EncodingFullTransitionArray {
		return a.transitions().NumberOfTransitions() < MaxNumberOfTransitions
	}
	return true
}

// ExpectedTransitionKey returns the single transition's key when the
// encoding is SimpleTransition, or nil.
func (a *TransitionsAccessor) ExpectedTransitionKey() *Name {
	target := a.GetSimpleTransition()
	if target == nil {
		return nil
	}
	return target.LastKey()
}

// ExpectedTransitionTarget returns the single transition's target when the
// encoding is SimpleTransition, or nil.
func (a *TransitionsAccessor) ExpectedTransitionTarget() *Shape {
	return a.GetSimpleTransition()
}

// SetMigrationTarget caches a forwarding pointer to the deprecated shape's
// replacement. Only shapes with empty transitions cache a migration target.
func (a *TransitionsAccessor) SetMigrationTarget(migrationTarget *Shape) {
	if a.Encoding() != EncodingUninitialized {
		return
	}
	if !a.shape.IsDeprecated() {
		panic("objects: migration target cached on a shape that is not deprecated")
	}
	a.replaceTransitions(&rawTransitions{kind: rawMigration, ref: a.isolate.heap.MakeWeak(migrationTarget)})
	a.Reload()
}

// GetMigrationTarget returns the cached migration target, or nil.
func (a *TransitionsAccessor) GetMigrationTarget() *Shape {
	if a.Encoding() != EncodingMigrationTarget {
		return nil
	}
	return a.isolate.heap.Deref(a.raw.ref)
}

// EnsureHasFullTransitionArray promotes the storage to a full transition
// array, preserving an existing simple transition.
func (a *TransitionsAccessor) EnsureHasFullTransitionArray() {
	if a.Encoding() == EncodingFullTransitionArray {
		return
	}
	nof := 1
	if a.Encoding() == EncodingUninitialized || a.Encoding() == EncodingMigrationTarget {
		nof = 0
	}
	result := a.isolate.heap.newTransitionArray(nof, 0)
	a.Reload() // the allocation was a safepoint
	if nof == 1 {
		if a.Encoding() == EncodingUninitialized {
			// Allocation cleared the simple target; trim the new array.
			result.setNumberOfTransitions(0)
		} else {
			target := a.GetSimpleTransition()
			result.set(0, target.LastKey(), a.isolate.heap.MakeWeak(target))
		}
	}
	a.replaceTransitions(&rawTransitions{kind: rawFull, array: result})
	a.Reload()
}

// HasIntegrityLevelTransitionTo checks whether a special transition to
// exactly the given shape exists for frozen, sealed or non-extensible, in
// that priority order. Returns the matching symbol and the attribute set the
// level imposes.
func (a *TransitionsAccessor) HasIntegrityLevelTransitionTo(to *Shape) (bool, *Name, PropertyAttributes) {
	roots := a.isolate.Roots()
	switch {
	case a.SearchSpecial(roots.FrozenSymbol) == to:
		return true, roots.FrozenSymbol, IntegrityFrozen
	case a.SearchSpecial(roots.SealedSymbol) == to:
		return true, roots.SealedSymbol, IntegritySealed
	case a.SearchSpecial(roots.NonExtensibleSymbol) == to:
		return true, roots.NonExtensibleSymbol, IntegrityNonExtensible
	}
	return false, nil, AttrNone
}

// TraverseTransitionTree walks the transition graph reachable from the
// accessor's shape in pre-order, visiting every live regular edge and every
// live prototype-transition edge. The walk uses an explicit stack, so depth
// is bounded by memory, not the call stack. The callback must not allocate
// transition storage or mutate transitions.
func (a *TransitionsAccessor) TraverseTransitionTree(callback func(*Shape)) {
	if a.concurrent {
		a.isolate.fullTransitionArrayAccess.RLock()
		defer a.isolate.fullTransitionArrayAccess.RUnlock()
	}
	a.traverseTransitionTreeInternal(callback)
}

func (a *TransitionsAccessor) traverseTransitionTreeInternal(callback func(*Shape)) {
	heap := a.isolate.heap
	stack := make([]*Shape, 0, 16)
	stack = append(stack, a.shape)

	// Pre-order iterative depth-first search.
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		callback(current)

		raw := current.raw.Load()
		switch getEncoding(heap, raw) {
		case EncodingPrototypeInfo, EncodingUninitialized, EncodingMigrationTarget:
		case EncodingSimpleTransition:
			if target := heap.Deref(raw.ref); target != nil {
				stack = append(stack, target)
			}
		case EncodingFullTransitionArray:
			array := raw.array
			if array.HasPrototypeTransitions() {
				proto := array.GetPrototypeTransitions()
				for i := 0; i < proto.NumberOfEntries(); i++ {
					if target := heap.Deref(proto.slots[i]); target != nil {
						stack = append(stack, target)
					}
				}
			}
			for i := 0; i < array.NumberOfTransitions(); i++ {
				if target := array.GetTarget(i); target != nil {
					stack = append(stack, target)
				}
			}
		}
	}
}

// PrintTransitions writes a one-line dump of each outgoing edge.
func (a *TransitionsAccessor) PrintTransitions(w io.Writer) {
	switch a.Encoding() {
	case EncodingSimpleTransition:
		target := a.GetSimpleTransition()
		if target != nil {
			printOneTransition(w, target.LastKey(), target)
		}
	case EncodingFullTransitionArray:
		array := a.transitions()
		for i := 0; i < array.NumberOfTransitions(); i++ {
			target := array.GetTarget(i)
			if target == nil {
				fmt.Fprintf(w, "  %q -> <cleared>\n", array.GetKey(i).String())
				continue
			}
			printOneTransition(w, array.GetKey(i), target)
		}
	}
}

func printOneTransition(w io.Writer, key *Name, target *Shape) {
	d := target.LastDetails()
	fmt.Fprintf(w, "  %q (%s, attrs %d) -> shape %d\n", key.String(), d.Kind, d.Attributes, target.ID())
}

// PrintTransitionTree writes an indented pre-order dump of the whole
// transition tree below the accessor's shape.
func (a *TransitionsAccessor) PrintTransitionTree(w io.Writer) {
	type frame struct {
		shape *Shape
		depth int
	}
	heap := a.isolate.heap
	stack := []frame{{a.shape, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := 0; i < f.depth; i++ {
			io.WriteString(w, "  ")
		}
		fmt.Fprintf(w, "shape %d\n", f.shape.ID())

		raw := f.shape.raw.Load()
		switch getEncoding(heap, raw) {
		case EncodingSimpleTransition:
			if target := heap.Deref(raw.ref); target != nil {
				stack = append(stack, frame{target, f.depth + 1})
			}
		case EncodingFullTransitionArray:
			array := raw.array
			for i := array.NumberOfTransitions() - 1; i >= 0; i-- {
				if target := array.GetTarget(i); target != nil {
					stack = append(stack, frame{target, f.depth + 1})
				}
			}
		}
	}
}
