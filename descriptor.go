// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import "bytes"

// Side identifies which end of an exchange a Session or a Descriptor
// constructor is for.
type Side uint8

const (
	// SideClient is the party that authenticates.
	SideClient Side = iota
	// SideServer is the party that judges the authentication.
	SideServer
)

// String implements fmt.Stringer.
func (s Side) String() string {
	switch s {
	case SideClient:
		return "client"
	case SideServer:
		return "server"
	default:
		return "unknown"
	}
}

// StepState is the coarse state a Mechanism reports after each Step.
type StepState uint8

const (
	// Running means the mechanism needs at least one more Step call
	// before it has a verdict.
	Running StepState = iota
	// Finished means the exchange is over; the mechanism must not be
	// stepped again.
	Finished
)

// StepResult is returned by a Mechanism's Step method.
type StepResult struct {
	State StepState
	// MessageSent records whether this Step call wrote anything to out.
	// Some mechanisms legitimately finish without a final message (for
	// example a server rejecting outright). The session wrapper answers
	// HasSentMessage from this bit as well as from len(out), so a Step that
	// sets it counts as having sent a message even when out is empty, since
	// a zero-length message is itself sometimes meaningful on the wire.
	MessageSent bool
}

// Mechanism is the per-session object that drives one mechanism through its
// step sequence. Implementations are constructed fresh by a Descriptor's
// Client or Server constructor for every Session — they are never reused
// across exchanges, and may hold mutable, sensitive state (nonces, derived
// keys) for the lifetime of one Session.
//
// The Session wrapper — not the Mechanism implementation — enforces the
// framework's invariants: a Mechanism is never stepped again after it
// reports Finished, and a Mechanism that is first on its Side always
// receives hasInput=false on the very first Step call.
type Mechanism interface {
	// Step advances the mechanism by one round. If hasInput is false,
	// input is meaningless (there is no prior peer message yet — this is
	// only ever true on the first Step of whichever side goes first); Step
	// must not use it. Step writes at most one outgoing message to out and
	// reports whether it needs to be driven further.
	Step(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error)
}

// ClientConstructor builds a fresh client-side Mechanism instance bound to
// cfg.
type ClientConstructor func(cfg *Config) (Mechanism, error)

// ServerConstructor builds a fresh server-side Mechanism instance bound to
// cfg.
type ServerConstructor func(cfg *Config) (Mechanism, error)

// OfferFunc decides whether a server should advertise its mechanism given
// the current exchange context (most commonly: is channel-binding data
// available at all, for "-PLUS" mechanisms).
type OfferFunc func(ctx *Context) bool

// SelectFunc decides, from the client's side, whether a descriptor is
// usable given the set of mechanism names the server actually offered.
type SelectFunc func(offered []MechanismName) bool

// Descriptor is the static metadata for one mechanism: its name, its
// relative priority, how to construct a client or server instance of it,
// which side speaks first, and the predicates negotiation uses to decide
// whether it's on the table at all for a given exchange.
//
// A Descriptor with a nil Client is never chosen by StartSuggested; a
// Descriptor with a nil Server is never matched by StartServer. The
// SECURID/SAML20/OPENID20/GSSAPI/OAUTHBEARER stubs in stubs.go set both to
// constructors that immediately fail with ErrMechanismUnimplemented instead
// of leaving them nil, so that they still show up in mechanism listings
// (RFC 4422 lets a server advertise mechanisms it can't actually complete,
// though this package discourages that in practice).
type Descriptor struct {
	Name     MechanismName
	Priority uint32
	Client   ClientConstructor
	Server   ServerConstructor
	First    Side
	Offer    OfferFunc
	Select   SelectFunc

	// Plaintext is true if a mechanism transmits the password (or an
	// equivalent secret) in a form recoverable without further
	// computation — PLAIN and LOGIN, notably — and should therefore only
	// be offered over an already-confidential channel.
	Plaintext bool
	// ChannelBinding is true if this mechanism variant ties the exchange
	// to an external secure channel (the "-PLUS" SCRAM mechanisms).
	ChannelBinding bool
	// MutualAuth is true if a successful exchange gives the client
	// cryptographic assurance it's talking to a server that knows the
	// shared secret too (SCRAM and DIGEST-MD5 qualify; PLAIN, LOGIN,
	// ANONYMOUS, EXTERNAL, and CRAM-MD5 do not).
	MutualAuth bool
}

func alwaysOffer(*Context) bool { return true }

func selectExact(name MechanismName) SelectFunc {
	return func(offered []MechanismName) bool {
		for _, o := range offered {
			if o.Equal(name) {
				return true
			}
		}
		return false
	}
}
