// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import "sort"

// Filter decides whether a Descriptor is eligible for negotiation at all in
// a given Config (independent of what a particular exchange offers).
type Filter func(d *Descriptor) bool

// Sorter orders two eligible descriptors for negotiation preference; a
// negative return means a sorts before b (is preferred).
type Sorter func(a, b *Descriptor) int

// DefaultFilter admits every registered mechanism.
func DefaultFilter(*Descriptor) bool { return true }

// DefaultSorter orders by ascending Priority (lower values preferred),
// breaking ties by preferring mutual authentication over none, then
// non-plaintext over plaintext, then byte order of the name for
// determinism.
func DefaultSorter(a, b *Descriptor) int {
	if a.Priority != b.Priority {
		if a.Priority < b.Priority {
			return -1
		}
		return 1
	}
	if a.MutualAuth != b.MutualAuth {
		if a.MutualAuth {
			return -1
		}
		return 1
	}
	if a.Plaintext != b.Plaintext {
		if !a.Plaintext {
			return -1
		}
		return 1
	}
	switch {
	case a.Name.String() < b.Name.String():
		return -1
	case a.Name.String() > b.Name.String():
		return 1
	default:
		return 0
	}
}

// registry is the union of the compile-time builtin mechanism table and any
// mechanisms registered dynamically on a particular Config.
type registry struct {
	static  []*Descriptor
	dynamic []*Descriptor
}

// builtinMechanisms is populated by register.go's init function with every
// mechanism this package implements, plus the inert stubs from stubs.go. It
// is never mutated after init.
var builtinMechanisms []*Descriptor

func newRegistry(extra []*Descriptor) *registry {
	return &registry{static: builtinMechanisms, dynamic: extra}
}

// all returns every registered descriptor, static first, in insertion
// order, before filtering and sorting are applied.
func (r *registry) all() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.static)+len(r.dynamic))
	out = append(out, r.static...)
	out = append(out, r.dynamic...)
	return out
}

// eligible returns every descriptor admitted by filter, sorted by sorter.
func (r *registry) eligible(filter Filter, sorter Sorter) []*Descriptor {
	if filter == nil {
		filter = DefaultFilter
	}
	if sorter == nil {
		sorter = DefaultSorter
	}
	all := r.all()
	out := make([]*Descriptor, 0, len(all))
	for _, d := range all {
		if filter(d) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sorter(out[i], out[j]) < 0
	})
	return out
}

// lookup finds the (possibly filtered-out, by name only) descriptor with
// the given name, ignoring Filter — used by server negotiation, where an
// unfiltered name the client chose should still resolve to
// ErrUnknownMechanism rather than silently matching a different descriptor.
func (r *registry) lookup(name MechanismName) (*Descriptor, bool) {
	for _, d := range r.all() {
		if d.Name.Equal(name) {
			return d, true
		}
	}
	return nil, false
}
