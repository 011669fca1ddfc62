// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import "strings"

// digestQOP is a bitmask over the quality-of-protection values RFC 2831
// defines, mirroring the reference implementation's qop bitmask (see
// SPEC_FULL.md's SUPPLEMENTED FEATURES) rather than carrying the offered
// list around as raw strings. This package only ever negotiates
// digestQOPAuth — auth-int/auth-conf parse and print correctly but a
// mechanism step never selects them, since the confidentiality/integrity
// layer they'd require is explicitly out of scope.
type digestQOP uint8

const (
	digestQOPAuth digestQOP = 1 << iota
	digestQOPAuthInt
	digestQOPAuthConf
)

// parseDigestQOPList turns a comma-separated "qop" value into a bitmask,
// ignoring (rather than failing on) tokens it doesn't recognize — a server
// may legally offer a qop this package doesn't implement.
func parseDigestQOPList(s string) digestQOP {
	var q digestQOP
	for _, tok := range strings.Split(s, ",") {
		switch strings.TrimSpace(tok) {
		case "auth":
			q |= digestQOPAuth
		case "auth-int":
			q |= digestQOPAuthInt
		case "auth-conf":
			q |= digestQOPAuthConf
		}
	}
	return q
}

// String renders the bitmask back to its wire form, in RFC 2831's
// conventional auth/auth-int/auth-conf order.
func (q digestQOP) String() string {
	var toks []string
	if q&digestQOPAuth != 0 {
		toks = append(toks, "auth")
	}
	if q&digestQOPAuthInt != 0 {
		toks = append(toks, "auth-int")
	}
	if q&digestQOPAuthConf != 0 {
		toks = append(toks, "auth-conf")
	}
	return strings.Join(toks, ",")
}
