// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import "fmt"

// MechanismName is a validated SASL mechanism name as defined by RFC 4422
// §3.1: 1 to 20 characters from the set A-Z, 0-9, hyphen, and underscore.
// Comparison between two MechanismNames is always byte-exact (SASL mechanism
// names are case sensitive).
type MechanismName struct {
	name string
}

// ParseMechanismName validates b against the RFC 4422 grammar
// (sasl-mech = 1*20(UPPER-ALPHA / DIGIT / "-" / "_")) and returns the
// resulting MechanismName.
func ParseMechanismName(b []byte) (MechanismName, error) {
	if len(b) < 1 || len(b) > 20 {
		return MechanismName{}, fmt.Errorf("%w: mechanism name length %d not in [1,20]", ErrMechanismParse, len(b))
	}
	for _, c := range b {
		if !isMechNameByte(c) {
			return MechanismName{}, fmt.Errorf("%w: invalid byte %q in mechanism name", ErrMechanismParse, c)
		}
	}
	return MechanismName{name: string(b)}, nil
}

// MustParseMechanismName is like ParseMechanismName but panics on error. It
// exists for package-level variable initializers where the name is a
// constant known to be valid.
func MustParseMechanismName(s string) MechanismName {
	m, err := ParseMechanismName([]byte(s))
	if err != nil {
		panic(err)
	}
	return m
}

// NewMechanismNameUnchecked builds a MechanismName without validating it
// against the RFC 4422 grammar. It exists for compile-time constants baked
// into descriptors built at package init time; callers MUST ensure name is 1
// to 20 bytes of A-Z, 0-9, "-", or "_" themselves, since this function
// performs no checking at all.
func NewMechanismNameUnchecked(name string) MechanismName {
	return MechanismName{name: name}
}

func isMechNameByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	default:
		return false
	}
}

// String returns the mechanism name's wire representation.
func (m MechanismName) String() string { return m.name }

// Equal reports whether m and o name the same mechanism, byte for byte.
func (m MechanismName) Equal(o MechanismName) bool { return m.name == o.name }

// IsZero reports whether m is the zero value (no mechanism parsed).
func (m MechanismName) IsZero() bool { return m.name == "" }

// HasSuffix reports whether the mechanism name ends in suffix; used to spot
// the "-PLUS" channel-binding variants without allocating.
func (m MechanismName) HasSuffix(suffix string) bool {
	n := len(m.name)
	s := len(suffix)
	return n >= s && m.name[n-s:] == suffix
}
