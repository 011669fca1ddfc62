// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// init populates builtinMechanisms with every mechanism this package
// implements, plus the inert stubs from stubs.go. The order of this list is
// not the negotiation order; each Config sorts it with its Sorter. This
// is the program-wide immutable slice BuilderWantMechanisms.WithDefaultMechanisms
// and WithMechanisms build a registry's static set from; see registry.go.
func init() {
	builtinMechanisms = []*Descriptor{
		scramSHA256PlusDescriptor,
		scramSHA1PlusDescriptor,
		scramSHA256Descriptor,
		scramSHA1Descriptor,
		digestMD5Descriptor,
		externalDescriptor,
		cramMD5Descriptor,
		plainDescriptor,
		loginDescriptor,
		anonymousDescriptor,
		gssapiDescriptor,
		oauthBearerDescriptor,
		saml20Descriptor,
		openID20Descriptor,
		securIDDescriptor,
	}
}
