package objects

// PropertyKind distinguishes data properties from accessor properties.
// Data sorts before Accessor in the transition array.
type PropertyKind uint8

const (
	KindData PropertyKind = iota
	KindAccessor
)

func (k PropertyKind) String() string {
	if k == KindAccessor {
		return "accessor"
	}
	return "data"
}

// PropertyAttributes is the attribute bitset of a property.
type PropertyAttributes uint8

const (
	AttrNone     PropertyAttributes = 0
	AttrReadOnly PropertyAttributes = 1 << 0
	AttrDontEnum PropertyAttributes = 1 << 1
	AttrDontDel  PropertyAttributes = 1 << 2
)

// Integrity levels, expressed as the attribute set they impose.
const (
	IntegrityNonExtensible = AttrNone
	IntegritySealed        = AttrDontDel
	IntegrityFrozen        = AttrReadOnly | AttrDontDel
)

// PropertyLocation tells whether a property's value lives in an object field
// or in the descriptor itself.
type PropertyLocation uint8

const (
	LocationField PropertyLocation = iota
	LocationDescriptor
)

// PropertyDetails is the terminal descriptor of a shape: the kind, attributes
// and location of the property whose addition produced that shape.
type PropertyDetails struct {
	Kind       PropertyKind
	Attributes PropertyAttributes
	Location   PropertyLocation
}

// emptyPropertyDetails is used for special transitions, which carry no
// property descriptor of their own.
func emptyPropertyDetails() PropertyDetails {
	return PropertyDetails{Kind: KindData, Attributes: AttrNone}
}

// compareDetails orders two descriptors within a run of equal names:
// kind first (data before accessor), then the attribute bits numerically.
func compareDetails(kind1 PropertyKind, attrs1 PropertyAttributes, kind2 PropertyKind, attrs2 PropertyAttributes) int {
	if kind1 != kind2 {
		if kind1 < kind2 {
			return -1
		}
		return 1
	}
	if attrs1 != attrs2 {
		if attrs1 < attrs2 {
			return -1
		}
		return 1
	}
	return 0
}
