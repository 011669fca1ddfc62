// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"bytes"
	"fmt"
	"strings"
)

// splitGS2Header splits a SCRAM client-first message (or its stored copy)
// into its gs2-header — up to and including the second top-level comma —
// and the client-first-message-bare remainder.
func splitGS2Header(b []byte) (header, bare []byte, err error) {
	first := bytes.IndexByte(b, ',')
	if first < 0 {
		return nil, nil, fmt.Errorf("%w: SCRAM message missing gs2-header", ErrMechanismParse)
	}
	second := bytes.IndexByte(b[first+1:], ',')
	if second < 0 {
		return nil, nil, fmt.Errorf("%w: SCRAM message missing gs2-header", ErrMechanismParse)
	}
	second += first + 1
	return b[:second+1], b[second+1:], nil
}

// scramGS2Header is the parsed form of a client-first message's gs2-header.
type scramGS2Header struct {
	cbFlag  byte // 'n', 'y', or 'p'
	cbName  string
	authzid string
}

// parseGS2Header parses header, as produced by splitGS2Header (i.e. still
// carrying its trailing comma).
func parseGS2Header(header []byte) (scramGS2Header, error) {
	trimmed := header
	if len(trimmed) > 0 && trimmed[len(trimmed)-1] == ',' {
		trimmed = trimmed[:len(trimmed)-1]
	}
	parts := bytes.SplitN(trimmed, []byte{','}, 2)

	var g scramGS2Header
	flagTok := string(parts[0])
	switch {
	case flagTok == "n":
		g.cbFlag = 'n'
	case flagTok == "y":
		g.cbFlag = 'y'
	case strings.HasPrefix(flagTok, "p="):
		g.cbFlag = 'p'
		g.cbName = flagTok[2:]
	default:
		return scramGS2Header{}, fmt.Errorf("%w: invalid SCRAM gs2-cbind-flag %q", ErrMechanismParse, flagTok)
	}

	if len(parts) == 2 && len(parts[1]) > 0 {
		if !bytes.HasPrefix(parts[1], []byte("a=")) {
			return scramGS2Header{}, fmt.Errorf("%w: SCRAM gs2-header authzid field must be \"a=...\"", ErrMechanismParse)
		}
		g.authzid = scramUnescapeSaslname(string(parts[1][2:]))
	}
	return g, nil
}

// parseSCRAMAttributes parses a comma-separated list of single-letter
// key=value SCRAM attributes (n=, r=, s=, i=, c=, p=, v=, e=, ...). It does
// not handle quoting — SCRAM attribute values never need it, since the ones
// that could carry arbitrary bytes are always base64- or escape-encoded
// first.
func parseSCRAMAttributes(b []byte) (map[byte]string, error) {
	out := make(map[byte]string)
	for _, tok := range bytes.Split(b, []byte{','}) {
		if len(tok) < 2 || tok[1] != '=' {
			return nil, fmt.Errorf("%w: malformed SCRAM attribute %q", ErrMechanismParse, tok)
		}
		out[tok[0]] = string(tok[2:])
	}
	return out, nil
}
