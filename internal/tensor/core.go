package tensor

import "strings"

// Capability describes which accessor forms a core supports natively. It is
// inspected when walkers and indexers are built to pick the cheapest
// composition.
type Capability uint8

// Capability bits.
const (
	// CapWalker: the core can build a walker (every core can).
	CapWalker Capability = 1 << iota
	// CapFlat: the core owns a flat storage buffer.
	CapFlat
	// CapStrided: the core's descriptor addresses its root storage directly,
	// so elements can be resolved with Descriptor.Address without walking
	// the parent chain.
	CapStrided
)

// Has reports whether all bits of o are set.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// String implements fmt.Stringer.
func (c Capability) String() string {
	var parts []string
	if c.Has(CapWalker) {
		parts = append(parts, "walker")
	}
	if c.Has(CapFlat) {
		parts = append(parts, "flat")
	}
	if c.Has(CapStrided) {
		parts = append(parts, "strided")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// core is the shared contract of storage cores and view cores.
type core[T DType] interface {
	desc() *Descriptor
	caps() Capability
	// walker returns a fresh walker at the origin, using the cheapest
	// composition the capabilities allow.
	walker() Walker[T]
	// trivial reports whether traversing the core in order o visits the
	// elements of its root storage in storage order from offset 0.
	trivial(o Order) bool
	// trivialIndexer is only meaningful when trivial holds.
	trivialIndexer() Indexer[T]
	// root returns the root storage when CapStrided is set, nil otherwise.
	root() Storage[T]
	retain()
	release()
}

// indexerFor returns the cheapest flat random-access indexer over c in
// order o.
func indexerFor[T DType](c core[T], o Order) Indexer[T] {
	if c.trivial(o) {
		return c.trivialIndexer()
	}
	if c.caps().Has(CapStrided) {
		return newStridedIndexer(c.desc(), o, c.root())
	}
	return newWalkerIndexer(c.walker(), c.desc(), o)
}

// stridedWalker builds an address walker over the root storage of a
// CapStrided core.
func stridedWalker[T DType](c core[T]) Walker[T] {
	return newAddrWalker[T](c.desc(), c.root())
}
