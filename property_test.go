// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import "testing"

func TestContextGetProperty(t *testing.T) {
	ctx := WithProperty(nil, AuthID, "alice")
	got, ok := GetProperty(ctx, AuthID)
	if !ok || got != "alice" {
		t.Fatalf("got (%q, %v), want (%q, true)", got, ok, "alice")
	}
	if _, ok := GetProperty(ctx, AuthzID); ok {
		t.Fatal("expected AuthzID to be absent")
	}
}

func TestContextLayering(t *testing.T) {
	ctx := WithProperty(nil, AuthID, "outer")
	ctx = WithProperty(ctx, AuthID, "inner")
	got, ok := GetProperty(ctx, AuthID)
	if !ok || got != "inner" {
		t.Fatalf("expected the most recently added provider to win, got %q", got)
	}
}

func TestContextNilIsEmpty(t *testing.T) {
	if _, ok := GetProperty[string](nil, AuthID); ok {
		t.Fatal("expected a nil Context to answer every lookup with ok=false")
	}
}

func TestRequestSatisfy(t *testing.T) {
	var got string
	req := newRequest(AuthID, &got)
	if req.Satisfied() {
		t.Fatal("a fresh Request must not report satisfied")
	}
	Satisfy(req, AuthID, "bob")
	if !req.Satisfied() || got != "bob" {
		t.Fatalf("got (%q, %v), want (%q, true)", got, req.Satisfied(), "bob")
	}
}

func TestRequestSatisfyWrongTagIsNoOp(t *testing.T) {
	var got string
	req := newRequest(AuthID, &got)
	Satisfy(req, AuthzID, "mallory")
	if req.Satisfied() || got != "" {
		t.Fatal("satisfying the wrong tag must be a silent no-op")
	}
}

func TestRequestSatisfyOnlyOnce(t *testing.T) {
	var got string
	req := newRequest(AuthID, &got)
	Satisfy(req, AuthID, "first")
	Satisfy(req, AuthID, "second")
	if got != "first" {
		t.Fatalf("second Satisfy call must be a no-op, got %q", got)
	}
}

func TestRequestIsProperty(t *testing.T) {
	var got string
	req := newRequest(AuthID, &got)
	if !IsProperty(req, AuthID) {
		t.Fatal("expected IsProperty(req, AuthID) to be true")
	}
	if IsProperty(req, AuthzID) {
		t.Fatal("expected IsProperty(req, AuthzID) to be false")
	}
}

func TestValidationTagSetGet(t *testing.T) {
	type outcome struct{ ok bool }
	tag := NewValidationTag[outcome]("test.outcome")

	var dest any
	v := newValidate(tag.Name(), &dest)
	SetValidation(v, tag, outcome{ok: true})

	got, ok := dest.(outcome)
	if !ok || !got.ok {
		t.Fatalf("expected SetValidation to store the typed value, got %#v", dest)
	}
}

func TestValidationTagMismatchIsNoOp(t *testing.T) {
	tagA := NewValidationTag[int]("test.a")
	tagB := NewValidationTag[string]("test.b")

	var dest any
	v := newValidate(tagA.Name(), &dest)
	SetValidation(v, tagB, "wrong type entirely")
	if dest != nil {
		t.Fatalf("expected mismatched-tag SetValidation to be a no-op, got %#v", dest)
	}
}
