// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// Callback is implemented by the application embedding SASL. A mechanism
// calls Callback whenever it needs a piece of data it cannot derive from its
// own state (a password, an authorization identity, ...); the server side of
// a mechanism calls Validate exactly once, at the point where it can decide
// whether the exchange succeeded.
//
// Client-only applications may implement Validate as a no-op returning nil
// — see CallbackFuncs for an adapter that makes this easy without writing a
// named type.
type Callback interface {
	// Callback is asked to satisfy req, optionally consulting ctx for
	// related data a mechanism has already made available (e.g. the
	// AuthID while being asked for Password). It should call Satisfy at
	// most once for the property req actually names; calling Satisfy for
	// an unrelated property is harmless but pointless.
	//
	// Returning ErrNoValue (or a mechanism-specific flavor of it, such as
	// ErrNoPassword) tells the mechanism the application has no answer for
	// this specific demand. Returning any other error aborts the exchange
	// with that error wrapped in a *CallbackError.
	Callback(mc *MechanismContext, ctx *Context, req *Request) error

	// Validate is called on the server side of a mechanism once it has
	// enough information to judge the exchange. It should call
	// SetValidation at most once. Returning a *ValidationError aborts the
	// exchange; returning nil without calling SetValidation leaves the
	// validation slot empty (GetValidation will report !ok).
	Validate(mc *MechanismContext, ctx *Context, v *Validate) error
}

// CallbackFuncs adapts two functions to the Callback interface, the way
// http.HandlerFunc adapts a function to http.Handler. Either field may be
// left nil: a nil CallbackFunc answers every request with ErrNoCallback; a
// nil ValidateFunc answers every validation with nil (no decision made).
type CallbackFuncs struct {
	CallbackFunc func(mc *MechanismContext, ctx *Context, req *Request) error
	ValidateFunc func(mc *MechanismContext, ctx *Context, v *Validate) error
}

// Callback implements Callback.
func (c CallbackFuncs) Callback(mc *MechanismContext, ctx *Context, req *Request) error {
	if c.CallbackFunc == nil {
		return ErrNoCallback
	}
	return c.CallbackFunc(mc, ctx, req)
}

// Validate implements Callback.
func (c CallbackFuncs) Validate(mc *MechanismContext, ctx *Context, v *Validate) error {
	if c.ValidateFunc == nil {
		return nil
	}
	return c.ValidateFunc(mc, ctx, v)
}

// RequestProperty is a small helper most mechanisms use to fetch exactly one
// property from the application's Callback in a single round trip: it tries
// ctx first (in case the value is already available without a callback
// round trip), then falls through to Callback.Callback.
func RequestProperty[T any](mc *MechanismContext, ctx *Context, p Property[T]) (T, error) {
	if v, ok := GetProperty(ctx, p); ok {
		return v, nil
	}
	var value T
	req := newRequest(p, &value)
	if err := mc.Callback(ctx, req); err != nil {
		var zero T
		return zero, err
	}
	if !req.satisfied {
		var zero T
		return zero, ErrNoValue
	}
	return value, nil
}
