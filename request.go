// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// Request is the write side of the property system: a mechanism hands one
// to an application's Callback to ask for exactly one named value. The
// callback may satisfy it (see Satisfy), ignore it (a no-op, since the
// callback may be a chain handling several unrelated properties), or
// satisfy a completely different property by mistake — which Request also
// treats as a no-op rather than an error, matching the framework's
// EarlyReturn semantics (see ErrNoValue for the "I was asked and I'm
// declining" case, which is distinct from "that wasn't for me").
//
// A Request is valid only for the duration of one Callback invocation and
// must not be retained past it.
type Request struct {
	name      string
	assign    func(v any) bool
	satisfied bool
}

// newRequest builds a Request for property p that writes into dest when
// satisfied.
func newRequest[T any](p Property[T], dest *T) *Request {
	return &Request{
		name: p.name,
		assign: func(v any) bool {
			t, ok := v.(T)
			if !ok {
				return false
			}
			*dest = t
			return true
		},
	}
}

// Name returns the property name this request is asking for, so that a
// generic callback can log or branch on it without importing the concrete
// property's value type.
func (r *Request) Name() string { return r.name }

// Satisfied reports whether some prior Satisfy call has already filled this
// request.
func (r *Request) Satisfied() bool { return r.satisfied }

// IsProperty reports whether this request is asking for property p — lets a
// Callback peek at what's being asked before committing to building a value
// for it.
func IsProperty[T any](r *Request, p Property[T]) bool {
	return r.name == p.name
}

// Satisfy attempts to provide value for property p. If r is not asking for
// p, or has already been satisfied by an earlier Satisfy call in the same
// Callback invocation, Satisfy is a silent no-op: callbacks are expected to
// chain satisfy calls for several properties without checking IsProperty
// first.
func Satisfy[T any](r *Request, p Property[T], value T) {
	if r.satisfied || r.name != p.name {
		return
	}
	if r.assign(value) {
		r.satisfied = true
	}
}
