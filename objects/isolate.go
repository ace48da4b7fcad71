package objects

import (
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"

	"github.com/yashimwong/v8/flags"
)

// ---------------------------------------------------------------------------
// Isolate: per-runtime shared state
// ---------------------------------------------------------------------------

// Roots holds the special transition symbols. They are created once per
// isolate; identity comparison against them classifies a transition as
// special.
type Roots struct {
	NonExtensibleSymbol            *Name
	SealedSymbol                   *Name
	FrozenSymbol                   *Name
	ElementsTransitionSymbol       *Name
	StrictFunctionTransitionSymbol *Name
}

// Isolate aggregates the state shared by all shapes of one runtime: the weak
// heap, the name table, the root symbols, the runtime flags, and the
// shared/exclusive lock guarding full transition array access.
type Isolate struct {
	heap  *Heap
	names *NameTable
	roots Roots
	flags *flags.Flags

	// fullTransitionArrayAccess serializes in-place mutation of a
	// FullTransitionArray against concurrent shared-lock readers. It is
	// never held across an allocating call.
	fullTransitionArrayAccess sync.RWMutex

	log commonlog.Logger

	nextShapeID atomic.Uint64
}

// NewIsolate creates an isolate with default flags.
func NewIsolate() *Isolate {
	return NewIsolateWithFlags(flags.Defaults())
}

// NewIsolateWithFlags creates an isolate with the given flags.
func NewIsolateWithFlags(f *flags.Flags) *Isolate {
	iso := &Isolate{
		heap:  newHeap(),
		names: NewNameTable(),
		flags: f,
		log:   commonlog.GetLogger("v8.objects"),
	}
	iso.roots = Roots{
		NonExtensibleSymbol:            newSpecialSymbol("<nonextensible>", rankNonExtensible),
		SealedSymbol:                   newSpecialSymbol("<sealed>", rankSealed),
		FrozenSymbol:                   newSpecialSymbol("<frozen>", rankFrozen),
		ElementsTransitionSymbol:       newSpecialSymbol("<elements-transition>", rankElementsTransition),
		StrictFunctionTransitionSymbol: newSpecialSymbol("<strict-function-transition>", rankStrictFunctionTransition),
	}
	return iso
}

// Heap returns the isolate's weak-reference heap.
func (iso *Isolate) Heap() *Heap { return iso.heap }

// Roots returns the isolate's special transition symbols.
func (iso *Isolate) Roots() *Roots { return &iso.roots }

// Flags returns the isolate's runtime flags.
func (iso *Isolate) Flags() *flags.Flags { return iso.flags }

// InternName returns the interned Name for a property name string.
func (iso *Isolate) InternName(s string) *Name {
	return iso.names.Intern(s)
}

// IsSpecialTransition reports whether the name is one of the special
// transition symbols (frozen, sealed, non-extensible, elements-kind,
// strict-function).
func (iso *Isolate) IsSpecialTransition(name *Name) bool {
	return name.IsSpecial()
}
