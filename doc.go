// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package sasl implements the Simple Authentication and Security Layer as
// defined by RFC 4422.
//
// SASL is a framework that abstracts authentication so that any application
// protocol can use any of the supported mechanisms without the protocol
// needing to know the details of how a particular mechanism works, and
// without the mechanism needing to know the details of the protocol in which
// it's embedded. It negotiates a mechanism to use out of a list of mutually
// supported mechanisms and then performs the actual authentication in
// multiple steps. Each step is normally sent over the network to the other
// side which responds with more step data (see the Session type for how
// exchanges are driven).
//
// This package only implements the negotiation and session mechanics along
// with a handful of mechanisms that are common enough to always be built in
// (PLAIN, LOGIN, ANONYMOUS, EXTERNAL, CRAM-MD5, DIGEST-MD5, and the
// SCRAM-SHA-* family). Mechanisms that require out-of-band secrets or a
// ticket-granting service (GSSAPI/Kerberos, OAUTHBEARER, SAML20, OPENID20,
// SECURID) are registered as named stubs only — they advertise a name and
// priority but have no client or server implementation here.
//
// Applications never implement a mechanism's wire protocol themselves.
// Instead they implement Callback (to supply credentials and, on the server
// side, to judge the outcome of an exchange) and, optionally,
// ChannelBindingCallback (to supply channel-binding bytes from whatever TLS
// stack the protocol happens to run over). Everything else — which
// mechanism gets picked, how many round trips it takes, how the wire bytes
// are framed — is handled by this package.
package sasl
