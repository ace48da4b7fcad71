package objects

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/yashimwong/v8/flags"

	_ "github.com/tliron/commonlog/simple"
)

// newDataShape creates a shape whose terminal descriptor is a data field
// property with the given attributes.
func newDataShape(iso *Isolate, key *Name, attrs PropertyAttributes) *Shape {
	return iso.NewShapeWithDescriptor(key, PropertyDetails{
		Kind:       KindData,
		Attributes: attrs,
		Location:   LocationField,
	})
}

func newVerifyingIsolate() *Isolate {
	f := flags.Defaults()
	f.VerifyTransitions = true
	return NewIsolateWithFlags(f)
}

func TestFirstInsertBecomesSimpleTransition(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	s1 := newDataShape(iso, x, AttrNone)

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, s1, SimplePropertyTransition)

	if a.Encoding() != EncodingSimpleTransition {
		t.Fatalf("encoding = %s, want simple", a.Encoding())
	}
	if got := a.SearchTransition(x, KindData, AttrNone); got != s1 {
		t.Errorf("SearchTransition = %v, want s1", got)
	}
	if s1.BackPointer() != s0 {
		t.Error("Insert should point the target's back pointer at the origin")
	}
	if a.NumberOfTransitions() != 1 {
		t.Errorf("NumberOfTransitions = %d, want 1", a.NumberOfTransitions())
	}
	if a.ExpectedTransitionKey() != x || a.ExpectedTransitionTarget() != s1 {
		t.Error("expected-transition accessors should expose the single edge")
	}
}

func TestSecondInsertUpgradesToFullArray(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	y := iso.InternName("y")
	s1 := newDataShape(iso, x, AttrNone)
	s2 := newDataShape(iso, y, AttrNone)

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, s1, SimplePropertyTransition)
	a.Insert(y, s2, SimplePropertyTransition)

	if a.Encoding() != EncodingFullTransitionArray {
		t.Fatalf("encoding = %s, want full", a.Encoding())
	}
	array := a.transitions()
	if array.NumberOfTransitions() != 2 {
		t.Fatalf("count = %d, want 2", array.NumberOfTransitions())
	}
	if compareNames(array.GetKey(0), array.GetKey(1)) >= 0 {
		t.Error("entries should be in name order")
	}
	if a.SearchTransition(x, KindData, AttrNone) != s1 {
		t.Error("x should still be searchable after the upgrade")
	}
	if a.SearchTransition(y, KindData, AttrNone) != s2 {
		t.Error("y should be searchable after the upgrade")
	}
}

func TestSimpleReinsertEquivalentOverwritesInPlace(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	s1 := newDataShape(iso, x, AttrNone)
	s1b := newDataShape(iso, x, AttrNone)

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, s1, SimplePropertyTransition)
	a.Insert(x, s1b, SimplePropertyTransition)

	if a.Encoding() != EncodingSimpleTransition {
		t.Fatalf("re-transition onto an equivalent shape should stay simple, got %s", a.Encoding())
	}
	if got := a.SearchTransition(x, KindData, AttrNone); got != s1b {
		t.Errorf("SearchTransition = %v, want the overwritten target", got)
	}
}

func TestSpecialInsertForcesFullArray(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	frozen := iso.Roots().FrozenSymbol
	target := iso.NewShape()

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(frozen, target, SpecialTransition)

	if a.Encoding() != EncodingFullTransitionArray {
		t.Fatalf("encoding = %s, want full", a.Encoding())
	}
	if a.NumberOfTransitions() != 1 {
		t.Errorf("count = %d, want 1", a.NumberOfTransitions())
	}
	if a.SearchSpecial(frozen) != target {
		t.Error("SearchSpecial should find the frozen transition")
	}
}

func TestSearchSpecialNeverMatchesSimple(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	a := NewTransitionsAccessor(iso, s0)

	if a.SearchSpecial(iso.Roots().FrozenSymbol) != nil {
		t.Error("SearchSpecial on uninitialized storage should return nil")
	}
	a.Insert(x, newDataShape(iso, x, AttrNone), SimplePropertyTransition)
	if a.SearchSpecial(iso.Roots().FrozenSymbol) != nil {
		t.Error("SearchSpecial on a simple transition should return nil")
	}
}

func TestInsertIdenticalTupleOverwrites(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	y := iso.InternName("y")
	s1 := newDataShape(iso, x, AttrNone)
	s2 := newDataShape(iso, y, AttrNone)
	s1b := newDataShape(iso, x, AttrNone)

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, s1, SimplePropertyTransition)
	a.Insert(y, s2, SimplePropertyTransition)
	countBefore := a.NumberOfTransitions()
	capBefore := a.transitions().Capacity()

	a.Insert(x, s1b, SimplePropertyTransition)

	if a.NumberOfTransitions() != countBefore {
		t.Errorf("count changed from %d to %d on overwrite", countBefore, a.NumberOfTransitions())
	}
	if a.transitions().Capacity() != capBefore {
		t.Error("overwrite should not reallocate the array")
	}
	if a.SearchTransition(x, KindData, AttrNone) != s1b {
		t.Error("overwrite should replace the target")
	}
}

func TestInsertDistinctAttributesCoexist(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	plain := newDataShape(iso, x, AttrNone)
	readonly := newDataShape(iso, x, AttrReadOnly)

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, plain, SimplePropertyTransition)
	a.Insert(x, readonly, SimplePropertyTransition)

	if a.NumberOfTransitions() != 2 {
		t.Fatalf("count = %d, want 2 distinct tuples", a.NumberOfTransitions())
	}
	if a.SearchTransition(x, KindData, AttrNone) != plain {
		t.Error("plain tuple lost")
	}
	if a.SearchTransition(x, KindData, AttrReadOnly) != readonly {
		t.Error("readonly tuple lost")
	}
}

func TestGrowthLaw(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	a := NewTransitionsAccessor(iso, s0)

	prevCapacity := 0
	for i := 0; i < 40; i++ {
		key := iso.InternName("p" + strconv.Itoa(i))
		a.Insert(key, newDataShape(iso, key, AttrNone), SimplePropertyTransition)
		if a.Encoding() != EncodingFullTransitionArray {
			continue
		}
		array := a.transitions()
		if array.Capacity() < array.NumberOfTransitions() {
			t.Fatalf("capacity %d below count %d", array.Capacity(), array.NumberOfTransitions())
		}
		if array.Capacity() > MaxNumberOfTransitions {
			t.Fatalf("capacity %d exceeds the hard cap", array.Capacity())
		}
		if prevCapacity > 0 && array.Capacity() != prevCapacity && array.Capacity() <= prevCapacity {
			t.Fatalf("reallocation should grow capacity: %d -> %d", prevCapacity, array.Capacity())
		}
		prevCapacity = array.Capacity()
	}
	if a.NumberOfTransitions() != 40 {
		t.Errorf("count = %d, want 40", a.NumberOfTransitions())
	}
}

func TestTransitionCapIsFatal(t *testing.T) {
	iso := NewIsolate() // verification off: this inserts thousands of edges
	s0 := iso.NewShape()
	a := NewTransitionsAccessor(iso, s0)

	for i := 0; i < MaxNumberOfTransitions; i++ {
		key := iso.InternName("p" + strconv.Itoa(i))
		a.Insert(key, newDataShape(iso, key, AttrNone), SimplePropertyTransition)
	}
	if a.CanHaveMoreTransitions() {
		t.Error("CanHaveMoreTransitions should be false at the hard cap")
	}

	defer func() {
		if recover() == nil {
			t.Error("inserting past the hard cap should panic")
		}
	}()
	key := iso.InternName("overflow")
	a.Insert(key, newDataShape(iso, key, AttrNone), SimplePropertyTransition)
}

func TestCanHaveMoreTransitions(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	a := NewTransitionsAccessor(iso, s0)
	if !a.CanHaveMoreTransitions() {
		t.Error("a fresh shape can have transitions")
	}

	dict := iso.NewShape()
	dict.SetDictionaryMap(true)
	if NewTransitionsAccessor(iso, dict).CanHaveMoreTransitions() {
		t.Error("dictionary-mode shapes never gain transitions")
	}
}

func TestSimpleClearedDuringUpgradeRestartsCleanly(t *testing.T) {
	iso := newVerifyingIsolate()
	heap := iso.Heap()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	y := iso.InternName("y")
	s1 := newDataShape(iso, x, AttrNone)
	s2 := newDataShape(iso, y, AttrNone)

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, s1, SimplePropertyTransition)

	// Simulate a collection clearing the old simple target inside the
	// allocation that upgrades to a full array.
	heap.SetSafepointHook(func() {
		heap.SetSafepointHook(nil)
		heap.ClearTarget(s1)
	})
	a.Insert(y, s2, SimplePropertyTransition)

	if a.Encoding() != EncodingFullTransitionArray {
		t.Fatalf("encoding = %s, want full", a.Encoding())
	}
	if a.NumberOfTransitions() != 1 {
		t.Fatalf("count = %d, want only the new edge", a.NumberOfTransitions())
	}
	if a.SearchTransition(y, KindData, AttrNone) != s2 {
		t.Error("the new edge should be present")
	}
	if a.SearchTransition(x, KindData, AttrNone) != nil {
		t.Error("the cleared edge must not resurface")
	}
}

func TestArrayShrunkDuringGrowthIsRecomputed(t *testing.T) {
	iso := newVerifyingIsolate()
	heap := iso.Heap()
	s0 := iso.NewShape()
	a := NewTransitionsAccessor(iso, s0)

	names := []string{"a", "b", "c", "d"}
	targets := map[string]*Shape{}
	for _, s := range names {
		key := iso.InternName(s)
		target := newDataShape(iso, key, AttrNone)
		targets[s] = target
		a.Insert(key, target, SimplePropertyTransition)
	}
	array := a.transitions()
	if array.NumberOfTransitions() != array.Capacity() {
		t.Fatalf("test expects a full array, count %d capacity %d",
			array.NumberOfTransitions(), array.Capacity())
	}

	// During the growth allocation, simulate the collector clearing one
	// target and right-trimming the live view.
	heap.SetSafepointHook(func() {
		heap.SetSafepointHook(nil)
		last := array.NumberOfTransitions() - 1
		heap.ClearTarget(heap.Deref(array.getRawTarget(last)))
		array.setNumberOfTransitions(last)
	})
	e := iso.InternName("e")
	se := newDataShape(iso, e, AttrNone)
	a.Insert(e, se, SimplePropertyTransition)

	if a.NumberOfTransitions() != len(names) {
		t.Fatalf("count = %d, want %d (one trimmed, one inserted)",
			a.NumberOfTransitions(), len(names))
	}
	if a.SearchTransition(e, KindData, AttrNone) != se {
		t.Error("the new edge should be present after recomputation")
	}
	found := 0
	for _, s := range names {
		if a.SearchTransition(iso.InternName(s), KindData, AttrNone) != nil {
			found++
		}
	}
	if found != len(names)-1 {
		t.Errorf("%d original edges survived, want %d", found, len(names)-1)
	}
}

func TestForEachTransitionTo(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	y := iso.InternName("y")
	plain := newDataShape(iso, x, AttrNone)
	readonly := newDataShape(iso, x, AttrReadOnly)
	accessor := iso.NewShapeWithDescriptor(x, PropertyDetails{Kind: KindAccessor})

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, plain, SimplePropertyTransition)
	a.Insert(x, readonly, SimplePropertyTransition)
	a.Insert(x, accessor, SimplePropertyTransition)
	a.Insert(y, newDataShape(iso, y, AttrNone), SimplePropertyTransition)

	seen := map[*Shape]bool{}
	a.ForEachTransitionTo(x, func(s *Shape) { seen[s] = true })
	if len(seen) != 3 || !seen[plain] || !seen[readonly] || !seen[accessor] {
		t.Errorf("visited %d targets, want the 3 x-edges", len(seen))
	}
}

func TestForEachTransitionToSimpleYieldsAtMostOne(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	s1 := newDataShape(iso, x, AttrNone)

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, s1, SimplePropertyTransition)

	count := 0
	a.ForEachTransitionTo(x, func(*Shape) { count++ })
	if count != 1 {
		t.Errorf("simple encoding yielded %d callbacks, want 1", count)
	}
	a.ForEachTransitionTo(iso.InternName("y"), func(*Shape) { count++ })
	if count != 1 {
		t.Error("a non-matching name should yield no callback")
	}
}

func TestMigrationTargetRoundTrip(t *testing.T) {
	iso := newVerifyingIsolate()
	old := iso.NewShape()
	old.SetDeprecated(true)
	replacement := iso.NewShape()

	a := NewTransitionsAccessor(iso, old)
	a.SetMigrationTarget(replacement)

	if a.Encoding() != EncodingMigrationTarget {
		t.Fatalf("encoding = %s, want migration-target", a.Encoding())
	}
	if a.GetMigrationTarget() != replacement {
		t.Error("GetMigrationTarget should return the cached shape")
	}
	if a.NumberOfTransitions() != 0 {
		t.Error("a migration target is not a transition")
	}
}

func TestMigrationTargetCollapsesWhenCleared(t *testing.T) {
	iso := newVerifyingIsolate()
	old := iso.NewShape()
	old.SetDeprecated(true)
	replacement := iso.NewShape()

	a := NewTransitionsAccessor(iso, old)
	a.SetMigrationTarget(replacement)
	iso.Heap().ClearTarget(replacement)
	a.Reload()

	if a.Encoding() != EncodingUninitialized {
		t.Fatalf("encoding = %s, want uninitialized after the target vanished", a.Encoding())
	}
	if a.GetMigrationTarget() != nil {
		t.Error("GetMigrationTarget should return nil for a cleared target")
	}

	// The shape can start real transitions from scratch.
	x := iso.InternName("x")
	s1 := newDataShape(iso, x, AttrNone)
	a.Insert(x, s1, SimplePropertyTransition)
	if a.Encoding() != EncodingSimpleTransition {
		t.Error("insert after collapse should take the uninitialized path")
	}
}

func TestSetMigrationTargetIgnoredWithTransitions(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, newDataShape(iso, x, AttrNone), SimplePropertyTransition)

	a.SetMigrationTarget(iso.NewShape())
	if a.Encoding() != EncodingSimpleTransition {
		t.Error("SetMigrationTarget must not clobber existing transitions")
	}
}

func TestInsertOnPrototypeInfoPanics(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	s0.SetPrototypeInfo(&PrototypeInfo{RegistrySlot: -1})

	a := NewTransitionsAccessor(iso, s0)
	if a.Encoding() != EncodingPrototypeInfo {
		t.Fatalf("encoding = %s, want prototype-info", a.Encoding())
	}
	defer func() {
		if recover() == nil {
			t.Error("Insert on prototype-info storage should panic")
		}
	}()
	x := iso.InternName("x")
	a.Insert(x, newDataShape(iso, x, AttrNone), SimplePropertyTransition)
}

func TestHasIntegrityLevelTransitionTo(t *testing.T) {
	iso := newVerifyingIsolate()
	roots := iso.Roots()
	s0 := iso.NewShape()
	frozenShape := iso.NewShape()
	sealedShape := iso.NewShape()
	nonExtShape := iso.NewShape()

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(roots.FrozenSymbol, frozenShape, SpecialTransition)
	a.Insert(roots.SealedSymbol, sealedShape, SpecialTransition)
	a.Insert(roots.NonExtensibleSymbol, nonExtShape, SpecialTransition)

	cases := []struct {
		target *Shape
		symbol *Name
		level  PropertyAttributes
	}{
		{frozenShape, roots.FrozenSymbol, IntegrityFrozen},
		{sealedShape, roots.SealedSymbol, IntegritySealed},
		{nonExtShape, roots.NonExtensibleSymbol, IntegrityNonExtensible},
	}
	for _, c := range cases {
		ok, symbol, level := a.HasIntegrityLevelTransitionTo(c.target)
		if !ok || symbol != c.symbol || level != c.level {
			t.Errorf("HasIntegrityLevelTransitionTo(%v) = (%v, %v, %d), want (true, %v, %d)",
				c.target.ID(), ok, symbol, level, c.symbol, c.level)
		}
	}
	if ok, _, _ := a.HasIntegrityLevelTransitionTo(iso.NewShape()); ok {
		t.Error("an unrelated shape should not match any integrity level")
	}
}

func TestTraverseTransitionTreePreOrder(t *testing.T) {
	iso := newVerifyingIsolate()
	root := iso.NewShape()
	x := iso.InternName("x")
	y := iso.InternName("y")
	z := iso.InternName("z")
	shapeA := newDataShape(iso, x, AttrNone)
	shapeB := newDataShape(iso, y, AttrNone)
	shapeC := newDataShape(iso, z, AttrNone)

	// root -x-> A -y-> B, root -z-> C
	a := NewTransitionsAccessor(iso, root)
	a.Insert(x, shapeA, SimplePropertyTransition)
	a.Insert(z, shapeC, SimplePropertyTransition)
	NewTransitionsAccessor(iso, shapeA).Insert(y, shapeB, SimplePropertyTransition)

	var visited []*Shape
	a.Reload()
	a.TraverseTransitionTree(func(s *Shape) { visited = append(visited, s) })

	if len(visited) != 4 {
		t.Fatalf("visited %d shapes, want 4", len(visited))
	}
	if visited[0] != root {
		t.Error("pre-order traversal should visit the origin first")
	}
	index := map[*Shape]int{}
	for i, s := range visited {
		index[s] = i
	}
	if index[shapeA] > index[shapeB] {
		t.Error("a parent should be visited before its transition target")
	}
}

func TestTraverseIncludesPrototypeTransitions(t *testing.T) {
	iso := newVerifyingIsolate()
	root := iso.NewShape()
	x := iso.InternName("x")
	shapeA := newDataShape(iso, x, AttrNone)

	protoObj := NewJSObject(iso.NewShape())
	derived := iso.NewShape()
	derived.SetPrototype(protoObj)

	a := NewTransitionsAccessor(iso, root)
	a.Insert(x, shapeA, SimplePropertyTransition)
	a.Reload()
	a.PutPrototypeTransition(protoObj, derived)
	a.Reload()

	seen := map[*Shape]bool{}
	a.TraverseTransitionTree(func(s *Shape) { seen[s] = true })
	if !seen[root] || !seen[shapeA] || !seen[derived] {
		t.Errorf("traversal should reach regular and prototype edges, got %d shapes", len(seen))
	}
}

func TestTraverseSkipsClearedEdges(t *testing.T) {
	iso := newVerifyingIsolate()
	root := iso.NewShape()
	x := iso.InternName("x")
	y := iso.InternName("y")
	shapeA := newDataShape(iso, x, AttrNone)
	shapeB := newDataShape(iso, y, AttrNone)

	a := NewTransitionsAccessor(iso, root)
	a.Insert(x, shapeA, SimplePropertyTransition)
	a.Insert(y, shapeB, SimplePropertyTransition)
	iso.Heap().ClearTarget(shapeA)
	a.Reload()

	seen := map[*Shape]bool{}
	a.TraverseTransitionTree(func(s *Shape) { seen[s] = true })
	if seen[shapeA] {
		t.Error("cleared edges must not be traversed")
	}
	if !seen[shapeB] {
		t.Error("live edges must still be traversed")
	}
}

func TestFindTransitionToField(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	y := iso.InternName("y")
	fieldTarget := newDataShape(iso, x, AttrNone)
	descTarget := iso.NewShapeWithDescriptor(y, PropertyDetails{
		Kind: KindData, Attributes: AttrNone, Location: LocationDescriptor,
	})

	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, fieldTarget, SimplePropertyTransition)
	a.Insert(y, descTarget, SimplePropertyTransition)

	if a.FindTransitionToField(x) != fieldTarget {
		t.Error("FindTransitionToField should find the field-located target")
	}
	if a.FindTransitionToField(y) != nil {
		t.Error("FindTransitionToField must reject descriptor-located targets")
	}
	if a.FindTransitionToDataProperty(y, AnyLocation) != descTarget {
		t.Error("AnyLocation should accept descriptor-located targets")
	}
}

func TestPrintTransitions(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	y := iso.InternName("y")
	a := NewTransitionsAccessor(iso, s0)
	a.Insert(x, newDataShape(iso, x, AttrNone), SimplePropertyTransition)
	a.Insert(y, newDataShape(iso, y, AttrNone), SimplePropertyTransition)

	var sb strings.Builder
	a.PrintTransitions(&sb)
	out := sb.String()
	if !strings.Contains(out, `"x"`) || !strings.Contains(out, `"y"`) {
		t.Errorf("dump should mention both edges:\n%s", out)
	}

	sb.Reset()
	a.PrintTransitionTree(&sb)
	if !strings.Contains(sb.String(), "shape") {
		t.Error("tree dump should list shapes")
	}
}

func TestConcurrentReadersDuringInserts(t *testing.T) {
	iso := NewIsolate()
	s0 := iso.NewShape()
	writer := NewTransitionsAccessor(iso, s0)

	const total = 200
	keys := make([]*Name, total)
	for i := range keys {
		keys[i] = iso.InternName("p" + strconv.Itoa(i))
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				reader := NewConcurrentTransitionsAccessor(iso, s0)
				for _, key := range keys {
					if target := reader.SearchTransition(key, KindData, AttrNone); target != nil {
						if target.LastKey() != key {
							t.Error("reader observed a mismatched target")
							return
						}
					}
				}
			}
		}()
	}

	for _, key := range keys {
		writer.Insert(key, newDataShape(iso, key, AttrNone), SimplePropertyTransition)
	}
	close(done)
	wg.Wait()

	for _, key := range keys {
		if writer.SearchTransition(key, KindData, AttrNone) == nil {
			t.Fatalf("edge %q lost after concurrent phase", key.String())
		}
	}
}

func TestConcurrentAccessorRefusesInsert(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	a := NewConcurrentTransitionsAccessor(iso, s0)

	defer func() {
		if recover() == nil {
			t.Error("Insert on a concurrent accessor should panic")
		}
	}()
	x := iso.InternName("x")
	a.Insert(x, newDataShape(iso, x, AttrNone), SimplePropertyTransition)
}

func TestHasSimpleTransitionTo(t *testing.T) {
	iso := newVerifyingIsolate()
	s0 := iso.NewShape()
	x := iso.InternName("x")
	s1 := newDataShape(iso, x, AttrNone)

	a := NewTransitionsAccessor(iso, s0)
	if a.HasSimpleTransitionTo(s1) {
		t.Error("no transition yet")
	}
	a.Insert(x, s1, SimplePropertyTransition)
	if !a.HasSimpleTransitionTo(s1) {
		t.Error("simple transition to s1 should be detected")
	}
	if a.HasSimpleTransitionTo(iso.NewShape()) {
		t.Error("unrelated shape should not match")
	}
}
