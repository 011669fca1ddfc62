// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// Property identifies one named piece of data a mechanism can demand from an
// application, or an application can push into a mechanism, without either
// side knowing the other's concrete type. T is the Go type the property's
// value takes (string, []byte, a small struct of derived SCRAM keys, ...).
//
// A Property's identity is its (comparable) name string; the payload travels
// through Context/Request as `any`, type-asserted back to T at the point of
// use. A mismatched assertion is treated exactly like an absent value:
// silently ignored rather than an error.
type Property[T any] struct {
	name string
}

// NewProperty declares a new property tag. Property tags are normally
// declared once as package-level variables (see the predeclared properties
// below) so that their name strings can't drift between call sites.
func NewProperty[T any](name string) Property[T] { return Property[T]{name: name} }

// Name returns the property's identity string.
func (p Property[T]) Name() string { return p.name }

// Predeclared credential properties.
var (
	// AuthID is the identity that is authenticating (the "username").
	AuthID = NewProperty[string]("sasl.AuthID")

	// AuthzID is the identity to act as once authenticated, which may
	// differ from AuthID. An empty AuthzID means "act as AuthID".
	AuthzID = NewProperty[string]("sasl.AuthzID")

	// Password is the plaintext password/passphrase associated with
	// AuthID.
	Password = NewProperty[[]byte]("sasl.Password")

	// AnonymousToken is the free-form trace token supplied by an ANONYMOUS
	// client (RFC 2245).
	AnonymousToken = NewProperty[string]("sasl.AnonymousToken")

	// Realm is the authentication realm a mechanism should operate within
	// (used by DIGEST-MD5).
	Realm = NewProperty[string]("sasl.Realm")
)

// Channel-binding properties.
var (
	// OverrideCBType lets an application steer a client away from the
	// channel-binding type it would otherwise pick automatically.
	OverrideCBType = NewProperty[string]("sasl.OverrideCBType")

	// ChannelBindings is the raw channel-binding data for the type
	// currently in use (see also ChannelBindingCallback, which is the
	// usual way this is supplied).
	ChannelBindings = NewProperty[[]byte]("sasl.ChannelBindings")
)

// SCRAM properties (RFC 5802).
var (
	// Iterations is the PBKDF2 iteration count for a SCRAM exchange.
	Iterations = NewProperty[uint32]("sasl.Iterations")

	// Salt is the PBKDF2 salt for a SCRAM exchange.
	Salt = NewProperty[[]byte]("sasl.Salt")

	// SaltedPassword is a precomputed PBKDF2(password, salt, i) value, for
	// applications that want to avoid re-deriving it on every exchange.
	SaltedPassword = NewProperty[[]byte]("sasl.SaltedPassword")

	// ScramStoredPassword lets a server supply pre-derived SCRAM
	// credentials straight from storage, bypassing PBKDF2 entirely. This
	// is the preferred way for a server to answer a SCRAM exchange.
	ScramStoredPassword = NewProperty[ScramStoredPasswordValue]("sasl.ScramStoredPassword")

	// ScramCachedPassword lets a server supply just the client/server keys
	// it has cached from a previous SaltedPassword derivation, avoiding a
	// second PBKDF2 run. The server must also supply Salt and Iterations
	// alongside it, matching whatever derivation produced the cached keys.
	ScramCachedPassword = NewProperty[ScramCachedPasswordValue]("sasl.ScramCachedPassword")
)

// ScramStoredPasswordValue is the value shape of the ScramStoredPassword
// property: everything a SCRAM server needs to verify a client's proof and
// compute its own signature without ever seeing the plaintext password.
type ScramStoredPasswordValue struct {
	Iterations uint32
	Salt       []byte
	StoredKey  []byte
	ServerKey  []byte
}

// ScramCachedPasswordValue is the value shape of the ScramCachedPassword
// property.
type ScramCachedPasswordValue struct {
	ClientKey []byte
	ServerKey []byte
}

// DIGEST-MD5 properties (RFC 2831).
var (
	// DigestCNonce lets a test harness or an application pin the client
	// nonce instead of letting the mechanism generate one randomly.
	DigestCNonce = NewProperty[string]("sasl.DigestCNonce")

	// DigestQOP names a DIGEST-MD5 quality-of-protection value ("auth",
	// "auth-int", or "auth-conf"). No mechanism in this package reads it:
	// DIGEST-MD5 here always offers and selects "auth", since the
	// confidentiality and integrity layers are out of scope.
	DigestQOP = NewProperty[string]("sasl.DigestQOP")

	// DigestURI is the "service/host" digest-uri a DIGEST-MD5 client
	// should present; if absent, the client uses "sasl/" followed by the
	// realm from the server's challenge (empty if it sent none).
	DigestURI = NewProperty[string]("sasl.DigestURI")
)
