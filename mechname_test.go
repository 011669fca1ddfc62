// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"errors"
	"testing"
)

func TestParseMechanismName(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want bool
	}{
		{"plain", "PLAIN", true},
		{"scram plus", "SCRAM-SHA-256-PLUS", true},
		{"underscore", "X_MECH", true},
		{"single char", "X", true},
		{"twenty chars", "ABCDEFGHIJKLMNOPQRST", true},
		{"empty", "", false},
		{"too long", "ABCDEFGHIJKLMNOPQRSTU", false},
		{"lowercase", "plain", false},
		{"space", "PLAIN MECH", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMechanismName([]byte(tc.in))
			if tc.want && err != nil {
				t.Fatalf("expected %q to parse, got error: %v", tc.in, err)
			}
			if !tc.want {
				if err == nil {
					t.Fatalf("expected %q to be rejected", tc.in)
				}
				if !errors.Is(err, ErrMechanismParse) {
					t.Fatalf("expected ErrMechanismParse, got: %v", err)
				}
			}
		})
	}
}

func TestMechanismNameEqual(t *testing.T) {
	a := MustParseMechanismName("PLAIN")
	b := MustParseMechanismName("PLAIN")
	c := MustParseMechanismName("LOGIN")
	if !a.Equal(b) {
		t.Fatal("expected equal mechanism names to compare equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different mechanism names to compare unequal")
	}
}

func TestMechanismNameRoundTrip(t *testing.T) {
	for _, s := range []string{"PLAIN", "SCRAM-SHA-1-PLUS", "X_Y"} {
		m := MustParseMechanismName(s)
		if got := m.String(); got != s {
			t.Fatalf("round trip mismatch: got %q, want %q", got, s)
		}
	}
}

func TestMechanismNameHasSuffix(t *testing.T) {
	m := MustParseMechanismName("SCRAM-SHA-256-PLUS")
	if !m.HasSuffix("-PLUS") {
		t.Fatal("expected HasSuffix(-PLUS) to be true")
	}
	if MustParseMechanismName("SCRAM-SHA-256").HasSuffix("-PLUS") {
		t.Fatal("expected HasSuffix(-PLUS) to be false")
	}
}
