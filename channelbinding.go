// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// ChannelBindingCallback is implemented by the protocol layer embedding
// SASL to supply channel-binding bytes for a named binding type (e.g.
// "tls-server-end-point", "tls-exporter"). Extracting those bytes from a
// particular TLS stack is explicitly out of scope for this package — it is
// the application's job to compute them (typically from
// tls.ConnectionState) and hand them over through this interface.
type ChannelBindingCallback interface {
	// GetChannelBindingData returns the channel-binding data for name, and
	// whether that binding type is available at all right now.
	GetChannelBindingData(name string) (data []byte, ok bool)
}

// NoChannelBindings is a ChannelBindingCallback that never has data for any
// binding type. It is the callback installed by BuilderWantCBSupport.NoCBSupport.
// With it installed, client negotiation (StartSuggested, SuggestMechanism)
// skips every "-PLUS" mechanism, and any channel-binding lookup fails with a
// *MissingChannelBindingDataError. It does not affect Advertise: whether a
// server advertises a "-PLUS" mechanism is decided by Descriptor.Offer from
// the Context passed to Advertise.
var NoChannelBindings ChannelBindingCallback = noChannelBindings{}

type noChannelBindings struct{}

func (noChannelBindings) GetChannelBindingData(string) ([]byte, bool) { return nil, false }

// NamedChannelBinding is a ChannelBindingCallback that answers exactly one
// binding type with a fixed byte slice — useful for tests, and for
// applications that only ever negotiate a single channel-binding type over
// their lifetime.
type NamedChannelBinding struct {
	Name string
	Data []byte
}

// GetChannelBindingData implements ChannelBindingCallback.
func (n NamedChannelBinding) GetChannelBindingData(name string) ([]byte, bool) {
	if name == n.Name {
		return n.Data, true
	}
	return nil, false
}
