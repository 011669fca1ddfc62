// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"bytes"
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

// digestMD5Descriptor is RFC 2831 DIGEST-MD5: server-first, two rounds each
// way, offering mutual authentication via the final rspauth exchange.
// Confidentiality/integrity qop levels parse (see digestQOP) but are never
// selected; only "auth" is operationally supported here.
var digestMD5Descriptor = &Descriptor{
	Name:       MustParseMechanismName("DIGEST-MD5"),
	Priority:   300,
	Client:     newDigestMD5Client,
	Server:     newDigestMD5Server,
	First:      SideServer,
	MutualAuth: true,
}

const digestNC = "00000001"

type digestMD5Client struct {
	step int
	// saved across step 1 so step 2 can verify rspauth
	ha1       []byte
	nonce     string
	cnonce    string
	qop       string
	digestURI string
}

func newDigestMD5Client(*Config) (Mechanism, error) { return &digestMD5Client{}, nil }

func (m *digestMD5Client) Step(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	switch m.step {
	case 0:
		return m.step1(mc, input, hasInput, out)
	case 1:
		return m.step2(input, hasInput)
	default:
		return StepResult{}, ErrMechanismCalledTooManyTimes
	}
}

func (m *digestMD5Client) step1(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 client expects a server challenge first", ErrUnexpectedInput)
	}
	params, err := parseDigestParams(input)
	if err != nil {
		return StepResult{}, err
	}
	nonce, ok := params.get("nonce")
	if !ok {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 challenge missing nonce", ErrMechanismParse)
	}
	realm, hasRealm := params.get("realm")
	qopOffered, _ := params.get("qop")
	qop := "auth"
	if qopOffered != "" && parseDigestQOPList(qopOffered)&digestQOPAuth == 0 {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 server does not offer qop=auth", ErrMechanismParse)
	}

	authid, err := RequestProperty(mc, nil, AuthID)
	if err != nil {
		return StepResult{}, err
	}
	password, err := RequestProperty(mc, nil, Password)
	if err != nil {
		return StepResult{}, err
	}
	authzid, err := RequestProperty(mc, nil, AuthzID)
	if err != nil && !errors.Is(err, ErrNoValue) {
		return StepResult{}, err
	}
	cnonce, err := RequestProperty(mc, nil, DigestCNonce)
	if err != nil {
		if !errors.Is(err, ErrNoValue) {
			return StepResult{}, err
		}
		cnonce = hexNonce(16, defaultRandReader)
	}
	digestURI, err := RequestProperty(mc, nil, DigestURI)
	if err != nil {
		if !errors.Is(err, ErrNoValue) {
			return StepResult{}, err
		}
		digestURI = "sasl/" + realm
	}

	ha1 := digestHA1(authid, realm, password, nonce, cnonce, authzid)
	response := digestResponse(ha1, nonce, digestNC, cnonce, qop, "AUTHENTICATE:"+digestURI)

	resp := digestParams{
		{Key: "username", Value: authid},
	}
	if hasRealm {
		resp = append(resp, digestPair{Key: "realm", Value: realm})
	}
	resp = append(resp,
		digestPair{Key: "nonce", Value: nonce},
		digestPair{Key: "cnonce", Value: cnonce},
		digestPair{Key: "nc", Value: digestNC},
		digestPair{Key: "qop", Value: qop},
		digestPair{Key: "digest-uri", Value: digestURI},
		digestPair{Key: "response", Value: response},
		digestPair{Key: "charset", Value: "utf-8"},
	)
	if authzid != "" {
		resp = append(resp, digestPair{Key: "authzid", Value: authzid})
	}
	out.WriteString(resp.String())

	m.ha1, m.nonce, m.cnonce, m.qop, m.digestURI = ha1, nonce, cnonce, qop, digestURI
	m.step++
	return StepResult{State: Running, MessageSent: true}, nil
}

func (m *digestMD5Client) step2(input []byte, hasInput bool) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 client expects a server final message", ErrUnexpectedInput)
	}
	params, err := parseDigestParams(input)
	if err != nil {
		return StepResult{}, err
	}
	rspauth, ok := params.get("rspauth")
	if !ok {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 final message missing rspauth", ErrMechanismParse)
	}
	expected := digestResponse(m.ha1, m.nonce, digestNC, m.cnonce, m.qop, ":"+m.digestURI)
	if subtle.ConstantTimeCompare([]byte(rspauth), []byte(expected)) != 1 {
		return StepResult{}, ErrAuthenticationFailure
	}
	m.step++
	return StepResult{State: Finished}, nil
}

type digestMD5Server struct {
	step  int
	nonce string
}

func newDigestMD5Server(*Config) (Mechanism, error) { return &digestMD5Server{}, nil }

func (m *digestMD5Server) Step(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	switch m.step {
	case 0:
		return m.step1(mc, hasInput, out)
	case 1:
		return m.step2(mc, input, hasInput, out)
	default:
		return StepResult{}, ErrMechanismCalledTooManyTimes
	}
}

func (m *digestMD5Server) step1(mc *MechanismContext, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if hasInput {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 server goes first", ErrUnexpectedInput)
	}
	realm, err := RequestProperty(mc, nil, Realm)
	if err != nil && !errors.Is(err, ErrNoValue) {
		return StepResult{}, err
	}
	m.nonce = hexNonce(16, defaultRandReader)

	challenge := digestParams{}
	if realm != "" {
		challenge = append(challenge, digestPair{Key: "realm", Value: realm})
	}
	challenge = append(challenge,
		digestPair{Key: "nonce", Value: m.nonce},
		digestPair{Key: "qop", Value: digestQOPAuth.String()},
		digestPair{Key: "charset", Value: "utf-8"},
		digestPair{Key: "algorithm", Value: "md5-sess"},
	)
	out.WriteString(challenge.String())
	m.step++
	return StepResult{State: Running, MessageSent: true}, nil
}

func (m *digestMD5Server) step2(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 server expects the client's response", ErrUnexpectedInput)
	}
	params, err := parseDigestParams(input)
	if err != nil {
		return StepResult{}, err
	}
	username, ok := params.get("username")
	if !ok {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 response missing username", ErrMechanismParse)
	}
	nonce, ok := params.get("nonce")
	if !ok || nonce != m.nonce {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 response echoes an unrecognized nonce", ErrMechanismParse)
	}
	cnonce, ok := params.get("cnonce")
	if !ok {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 response missing cnonce", ErrMechanismParse)
	}
	nc, ok := params.get("nc")
	if !ok {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 response missing nc", ErrMechanismParse)
	}
	qop, ok := params.get("qop")
	if !ok {
		qop = "auth"
	}
	digestURI, ok := params.get("digest-uri")
	if !ok {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 response missing digest-uri", ErrMechanismParse)
	}
	response, ok := params.get("response")
	if !ok {
		return StepResult{}, fmt.Errorf("%w: DIGEST-MD5 response missing response value", ErrMechanismParse)
	}
	realm, hasRealm := params.get("realm")
	authzid, _ := params.get("authzid")

	ctx := WithProperty(emptyContext, AuthID, username)
	if hasRealm {
		ctx = WithProperty(ctx, Realm, realm)
	}
	password, err := RequestProperty(mc, ctx, Password)
	if err != nil {
		return StepResult{}, err
	}

	ha1 := digestHA1(username, realm, password, nonce, cnonce, authzid)
	expected := digestResponse(ha1, nonce, nc, cnonce, qop, "AUTHENTICATE:"+digestURI)
	if subtle.ConstantTimeCompare([]byte(response), []byte(expected)) != 1 {
		return StepResult{}, ErrAuthenticationFailure
	}

	rspauth := digestResponse(ha1, nonce, nc, cnonce, qop, ":"+digestURI)
	out.WriteString((digestParams{{Key: "rspauth", Value: rspauth}}).String())

	if authzid != "" {
		ctx = WithProperty(ctx, AuthzID, authzid)
	}
	if err := mc.Validate(ctx); err != nil {
		return StepResult{}, err
	}
	m.step++
	return StepResult{State: Finished, MessageSent: true}, nil
}

// digestHA1 computes RFC 2831's H(A1): the MD5-sess construction binds the
// plain (unsalted) username:realm:password digest to this exchange's
// nonce/cnonce (and, if present, the authorization identity).
func digestHA1(username, realm string, password []byte, nonce, cnonce, authzid string) []byte {
	inner := md5.New()
	inner.Write([]byte(username))
	inner.Write([]byte{':'})
	inner.Write([]byte(realm))
	inner.Write([]byte{':'})
	inner.Write(password)
	h := inner.Sum(nil)

	outer := md5.New()
	outer.Write(h)
	outer.Write([]byte{':'})
	outer.Write([]byte(nonce))
	outer.Write([]byte{':'})
	outer.Write([]byte(cnonce))
	if authzid != "" {
		outer.Write([]byte{':'})
		outer.Write([]byte(authzid))
	}
	return outer.Sum(nil)
}

// digestResponse computes RFC 2831's response-value formula given a
// precomputed H(A1) and the A2 string (either "AUTHENTICATE:digest-uri" for
// the client's response or ":digest-uri" for the server's rspauth).
func digestResponse(ha1 []byte, nonce, nc, cnonce, qop, a2 string) string {
	ha2 := md5.Sum([]byte(a2))
	final := md5.New()
	final.Write([]byte(hex.EncodeToString(ha1)))
	final.Write([]byte{':'})
	final.Write([]byte(nonce))
	final.Write([]byte{':'})
	final.Write([]byte(nc))
	final.Write([]byte{':'})
	final.Write([]byte(cnonce))
	final.Write([]byte{':'})
	final.Write([]byte(qop))
	final.Write([]byte{':'})
	final.Write([]byte(hex.EncodeToString(ha2[:])))
	return hex.EncodeToString(final.Sum(nil))
}
