// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// fixedCallback answers every property it knows a fixed value for and
// accepts (or rejects, via accept=false) unconditionally in Validate,
// independent of which property drove the request — useful for mechanisms
// like LOGIN, ANONYMOUS, and EXTERNAL where the interesting behavior is the
// round trip itself rather than a credential comparison.
type fixedCallback struct {
	authid         string
	authzid        string
	password       []byte
	anonymousToken string
	accept         bool
}

func (c fixedCallback) Callback(_ *MechanismContext, _ *Context, req *Request) error {
	Satisfy(req, AuthID, c.authid)
	Satisfy(req, AuthzID, c.authzid)
	Satisfy(req, Password, c.password)
	Satisfy(req, AnonymousToken, c.anonymousToken)
	return nil
}

func (c fixedCallback) Validate(_ *MechanismContext, _ *Context, v *Validate) error {
	if c.accept {
		SetValidation(v, NoValidation, NoValidationResult{})
	}
	return nil
}

func fixedTestConfig(cb Callback) *Config {
	return Builder().
		WithDefaultMechanisms().
		WithDefaultFilter().
		WithDefaultSorting().
		WithCallback(cb).
		NoCBSupport().
		NoValidation()
}
