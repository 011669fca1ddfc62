// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// This file declares registry-only mechanism slots: names a server may
// legitimately advertise, or a caller may legitimately parse and look up,
// with no operational implementation behind them. Both constructors return
// ErrMechanismUnimplemented immediately rather than leaving Client/Server
// nil, so StartSuggested and StartServer report a clear error instead of
// silently skipping the mechanism during negotiation (see Descriptor's doc
// comment).
func unimplementedClient(*Config) (Mechanism, error) { return nil, ErrMechanismUnimplemented }
func unimplementedServer(*Config) (Mechanism, error) { return nil, ErrMechanismUnimplemented }

var gssapiDescriptor = &Descriptor{
	Name:     MustParseMechanismName("GSSAPI"),
	Priority: 700,
	Client:   unimplementedClient,
	Server:   unimplementedServer,
	First:    SideClient,
}

var oauthBearerDescriptor = &Descriptor{
	Name:     MustParseMechanismName("OAUTHBEARER"),
	Priority: 710,
	Client:   unimplementedClient,
	Server:   unimplementedServer,
	First:    SideClient,
}

var saml20Descriptor = &Descriptor{
	Name:     MustParseMechanismName("SAML20"),
	Priority: 720,
	Client:   unimplementedClient,
	Server:   unimplementedServer,
	First:    SideClient,
}

var openID20Descriptor = &Descriptor{
	Name:     MustParseMechanismName("OPENID20"),
	Priority: 730,
	Client:   unimplementedClient,
	Server:   unimplementedServer,
	First:    SideClient,
}

var securIDDescriptor = &Descriptor{
	Name:     MustParseMechanismName("SECURID"),
	Priority: 740,
	Client:   unimplementedClient,
	Server:   unimplementedServer,
	First:    SideClient,
}
