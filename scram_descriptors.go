// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// offerIfChannelBound is the Offer predicate for every "-PLUS" SCRAM
// descriptor: a -PLUS mechanism is only advertised when the exchange's
// Context reports channel-binding data is available at all. The protocol
// layer driving Advertise is expected to build its ctx with
// WithProperty(ctx, ChannelBindings, bytes) whenever the current connection
// is actually bound to something (e.g. TLS), since Offer only ever sees a
// Context, never the Config's cbCallback directly.
func offerIfChannelBound(ctx *Context) bool {
	_, ok := GetProperty(ctx, ChannelBindings)
	return ok
}

var scramSHA1Descriptor = &Descriptor{
	Name:       MustParseMechanismName("SCRAM-SHA-1"),
	Priority:   100,
	Client:     newSCRAMClientCtor(scramSHA1, false),
	Server:     newSCRAMServerCtor(scramSHA1, false),
	First:      SideClient,
	MutualAuth: true,
}

var scramSHA1PlusDescriptor = &Descriptor{
	Name:           MustParseMechanismName("SCRAM-SHA-1-PLUS"),
	Priority:       50,
	Client:         newSCRAMClientCtor(scramSHA1, true),
	Server:         newSCRAMServerCtor(scramSHA1, true),
	First:          SideClient,
	Offer:          offerIfChannelBound,
	MutualAuth:     true,
	ChannelBinding: true,
}

var scramSHA256Descriptor = &Descriptor{
	Name:       MustParseMechanismName("SCRAM-SHA-256"),
	Priority:   80,
	Client:     newSCRAMClientCtor(scramSHA256, false),
	Server:     newSCRAMServerCtor(scramSHA256, false),
	First:      SideClient,
	MutualAuth: true,
}

var scramSHA256PlusDescriptor = &Descriptor{
	Name:           MustParseMechanismName("SCRAM-SHA-256-PLUS"),
	Priority:       10,
	Client:         newSCRAMClientCtor(scramSHA256, true),
	Server:         newSCRAMServerCtor(scramSHA256, true),
	First:          SideClient,
	Offer:          offerIfChannelBound,
	MutualAuth:     true,
	ChannelBinding: true,
}
