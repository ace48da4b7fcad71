package objects

import "sync/atomic"

// ---------------------------------------------------------------------------
// Shape: hidden class with a single polymorphic transition storage slot
// ---------------------------------------------------------------------------

// Shape describes an object's property layout. Shapes form a tree through
// back pointers; transitions fan out forward through the storage slot.
//
// The transition storage slot is polymorphic: depending on how many outgoing
// transitions the shape has, it holds nothing, a single weak handle, a full
// TransitionArray, a cached migration target, or repurposed prototype
// metadata. The slot is read and published only through atomic pointer
// operations so lock-free readers see either the old or the fully-formed new
// storage, never a partial one.
type Shape struct {
	id          uint64
	backPointer *Shape

	// Terminal descriptor: the property whose addition produced this shape.
	// Root shapes have no terminal descriptor (lastKey == nil).
	lastKey     *Name
	lastDetails PropertyDetails

	dictionaryMap bool
	deprecated    bool
	prototypeMap  bool

	prototype *JSObject

	raw atomic.Pointer[rawTransitions]
}

// NewShape creates a root shape with no terminal descriptor.
func (iso *Isolate) NewShape() *Shape {
	return &Shape{id: iso.nextShapeID.Add(1)}
}

// NewShapeWithDescriptor creates a shape whose terminal descriptor is the
// given (name, details) pair, as if it had been reached by adding that
// property.
func (iso *Isolate) NewShapeWithDescriptor(key *Name, details PropertyDetails) *Shape {
	s := iso.NewShape()
	s.lastKey = key
	s.lastDetails = details
	return s
}

// ID returns the shape's identity, unique within its isolate.
func (s *Shape) ID() uint64 { return s.id }

// BackPointer returns the shape this shape was transitioned from, or nil for
// a root shape.
func (s *Shape) BackPointer() *Shape { return s.backPointer }

func (s *Shape) setBackPointer(parent *Shape) { s.backPointer = parent }

// LastKey returns the name of the shape's terminal descriptor, or nil.
func (s *Shape) LastKey() *Name { return s.lastKey }

// LastDetails returns the details of the shape's terminal descriptor.
func (s *Shape) LastDetails() PropertyDetails { return s.lastDetails }

// IsDictionaryMap reports whether the shape uses dictionary-mode property
// storage. Dictionary-mode shapes never gain transitions.
func (s *Shape) IsDictionaryMap() bool { return s.dictionaryMap }

// SetDictionaryMap marks the shape as dictionary mode.
func (s *Shape) SetDictionaryMap(v bool) { s.dictionaryMap = v }

// IsDeprecated reports whether the shape has been replaced by a migration
// target.
func (s *Shape) IsDeprecated() bool { return s.deprecated }

// SetDeprecated marks the shape as deprecated.
func (s *Shape) SetDeprecated(v bool) { s.deprecated = v }

// IsPrototypeMap reports whether the shape belongs to an object used as a
// prototype. Prototype maps never cache prototype transitions.
func (s *Shape) IsPrototypeMap() bool { return s.prototypeMap }

// SetPrototypeMap marks the shape as a prototype map.
func (s *Shape) SetPrototypeMap(v bool) { s.prototypeMap = v }

// Prototype returns the object this shape's instances inherit from.
func (s *Shape) Prototype() *JSObject { return s.prototype }

// SetPrototype sets the shape's prototype pointer.
func (s *Shape) SetPrototype(p *JSObject) { s.prototype = p }

// SetPrototypeInfo repurposes the transition storage slot for prototype
// metadata. Only valid on shapes that will never gain transitions.
func (s *Shape) SetPrototypeInfo(info *PrototypeInfo) {
	s.raw.Store(&rawTransitions{kind: rawPrototypeInfo, info: info})
}

// PrototypeInfoData returns the prototype metadata stored in the transition
// slot, or nil if the slot holds transition storage.
func (s *Shape) PrototypeInfoData() *PrototypeInfo {
	raw := s.raw.Load()
	if raw == nil || raw.kind != rawPrototypeInfo {
		return nil
	}
	return raw.info
}

// rawTransitions is the value held by a shape's transition storage slot.
// A nil slot means Uninitialized.
type rawTransitions struct {
	kind  rawKind
	ref   WeakRef          // rawSimple, rawMigration
	array *TransitionArray // rawFull
	info  *PrototypeInfo   // rawPrototypeInfo
}

type rawKind uint8

const (
	rawSimple rawKind = iota
	rawMigration
	rawFull
	rawPrototypeInfo
)

// PrototypeInfo is opaque metadata stored in place of transitions on certain
// root shapes of prototype objects.
type PrototypeInfo struct {
	// RegistrySlot is the shape's slot in the prototype user registry, or -1.
	RegistrySlot int
}

// ---------------------------------------------------------------------------
// JSObject: the minimal object stub needed for prototype identity
// ---------------------------------------------------------------------------

// JSObject carries just enough of an object to give prototype transitions an
// identity to key on.
type JSObject struct {
	shape *Shape
}

// NewJSObject creates an object with the given shape.
func NewJSObject(shape *Shape) *JSObject {
	return &JSObject{shape: shape}
}

// Shape returns the object's current shape.
func (o *JSObject) Shape() *Shape { return o.shape }

// SetShape installs a new shape on the object.
func (o *JSObject) SetShape(s *Shape) { o.shape = s }
