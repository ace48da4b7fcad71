package objects

import (
	"strings"
	"sync"
)

// ---------------------------------------------------------------------------
// Name: Interned property names and special transition symbols
// ---------------------------------------------------------------------------

// Name is an interned property key. Two names obtained from the same
// NameTable are equal exactly when their pointers are equal, so transition
// search can compare identity instead of strings.
//
// A name is either a regular property name or one of the special transition
// symbols (non-extensible, sealed, frozen, elements-kind, strict-function).
// Special symbols are never interned by string; they exist only as the root
// symbols of an Isolate.
type Name struct {
	str         string
	hash        uint32
	specialRank int8 // -1 for regular names
}

// String returns the name's text. For special symbols this is a description
// like "<frozen>"; it is never used for identity.
func (n *Name) String() string {
	return n.str
}

// Hash returns the name's precomputed 32-bit hash.
func (n *Name) Hash() uint32 {
	return n.hash
}

// IsSpecial reports whether the name is one of the special transition symbols.
func (n *Name) IsSpecial() bool {
	return n.specialRank >= 0
}

// Special symbol ranks. The rank gives specials a fixed total order among
// themselves; they all sort after every regular name (see compareNames).
const (
	rankNonExtensible int8 = iota
	rankSealed
	rankFrozen
	rankElementsTransition
	rankStrictFunctionTransition
)

func newSpecialSymbol(desc string, rank int8) *Name {
	return &Name{str: desc, hash: hashString(desc), specialRank: rank}
}

// hashString is 32-bit FNV-1a. Any fixed hash works here; ordering only has
// to be internally consistent between sorting and searching.
func hashString(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// compareNames orders two names for the transition array.
//
// Regular names sort before all special symbols. Regular names order by hash,
// with a byte-wise string compare breaking hash ties so the order is total.
// Specials order by rank.
func compareNames(a, b *Name) int {
	if a == b {
		return 0
	}
	if a.IsSpecial() || b.IsSpecial() {
		switch {
		case !a.IsSpecial():
			return -1
		case !b.IsSpecial():
			return 1
		case a.specialRank < b.specialRank:
			return -1
		case a.specialRank > b.specialRank:
			return 1
		default:
			return 0
		}
	}
	if a.hash != b.hash {
		if a.hash < b.hash {
			return -1
		}
		return 1
	}
	return strings.Compare(a.str, b.str)
}

// ---------------------------------------------------------------------------
// NameTable: Interned names
// ---------------------------------------------------------------------------

// NameTable interns property name strings to unique *Name values.
// It is append-only and safe for concurrent use.
type NameTable struct {
	mu     sync.RWMutex
	byName map[string]*Name
}

// NewNameTable creates a new empty name table.
func NewNameTable() *NameTable {
	return &NameTable{
		byName: make(map[string]*Name),
	}
}

// Intern returns the unique Name for a string, creating it if needed.
func (nt *NameTable) Intern(s string) *Name {
	// Fast path: read-only lookup
	nt.mu.RLock()
	if n, ok := nt.byName[s]; ok {
		nt.mu.RUnlock()
		return n
	}
	nt.mu.RUnlock()

	// Slow path: need to add a new name
	nt.mu.Lock()
	defer nt.mu.Unlock()

	// Double-check after acquiring write lock
	if n, ok := nt.byName[s]; ok {
		return n
	}

	n := &Name{str: s, hash: hashString(s), specialRank: -1}
	nt.byName[s] = n
	return n
}

// Lookup returns the interned Name for a string, or nil if not present.
func (nt *NameTable) Lookup(s string) *Name {
	nt.mu.RLock()
	defer nt.mu.RUnlock()
	return nt.byName[s]
}

// Len returns the number of interned names.
func (nt *NameTable) Len() int {
	nt.mu.RLock()
	defer nt.mu.RUnlock()
	return len(nt.byName)
}
