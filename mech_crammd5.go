// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"bytes"
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"
)

// cramMD5Descriptor is RFC 2195 CRAM-MD5: server-first, one challenge, one
// HMAC-MD5 response. It offers no mutual authentication and no channel
// binding, so it sits below the SCRAM/DIGEST-MD5 family in priority.
var cramMD5Descriptor = &Descriptor{
	Name:     MustParseMechanismName("CRAM-MD5"),
	Priority: 500,
	Client:   newCramMD5Client,
	Server:   newCramMD5Server,
	First:    SideServer,
}

type cramMD5Client struct{}

func newCramMD5Client(*Config) (Mechanism, error) { return &cramMD5Client{}, nil }

func (m *cramMD5Client) Step(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: CRAM-MD5 client expects a server challenge first", ErrUnexpectedInput)
	}
	authid, err := RequestProperty(mc, nil, AuthID)
	if err != nil {
		return StepResult{}, err
	}
	password, err := RequestProperty(mc, nil, Password)
	if err != nil {
		return StepResult{}, err
	}
	digest := hmacMD5Hex(password, input)
	out.WriteString(authid)
	out.WriteByte(' ')
	out.WriteString(digest)
	return StepResult{State: Finished, MessageSent: true}, nil
}

type cramMD5Server struct {
	challenge []byte
	done      bool
}

func newCramMD5Server(*Config) (Mechanism, error) { return &cramMD5Server{}, nil }

func (m *cramMD5Server) Step(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if !m.done && m.challenge == nil {
		if hasInput {
			return StepResult{}, fmt.Errorf("%w: CRAM-MD5 server goes first", ErrUnexpectedInput)
		}
		m.challenge = []byte(cramMD5Challenge(defaultRandReader))
		out.Write(m.challenge)
		return StepResult{State: Running, MessageSent: true}, nil
	}

	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: CRAM-MD5 server expects the client's response", ErrUnexpectedInput)
	}
	sp := bytes.IndexByte(input, ' ')
	if sp < 0 {
		return StepResult{}, fmt.Errorf("%w: CRAM-MD5 response missing authid/digest separator", ErrMechanismParse)
	}
	authid := string(input[:sp])
	provided, err := hex.DecodeString(string(input[sp+1:]))
	if err != nil {
		return StepResult{}, fmt.Errorf("%w: CRAM-MD5 digest is not valid hex", ErrMechanismParse)
	}

	ctx := WithProperty(emptyContext, AuthID, authid)
	password, err := RequestProperty(mc, ctx, Password)
	if err != nil {
		return StepResult{}, err
	}
	expected := hmac.New(md5.New, password)
	expected.Write(m.challenge)
	if !hmac.Equal(provided, expected.Sum(nil)) {
		return StepResult{}, ErrAuthenticationFailure
	}
	if err := mc.Validate(ctx); err != nil {
		return StepResult{}, err
	}
	return StepResult{State: Finished}, nil
}

func hmacMD5Hex(key, msg []byte) string {
	mac := hmac.New(md5.New, key)
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}

// cramMD5Hostname returns os.Hostname for every challenge, falling back to
// "localhost" rather than panicking when the hostname is unavailable.
func cramMD5Hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "localhost"
	}
	return h
}

// cramMD5Challenge builds a challenge of the form "<nonce.timestamp@host>"
// per RFC 2195's example — 20 hex digits (10 random bytes), a Unix
// timestamp, and the local hostname.
func cramMD5Challenge(src io.Reader) string {
	nonce := hexNonce(10, src)
	return fmt.Sprintf("<%s.%d@%s>", nonce, time.Now().Unix(), cramMD5Hostname())
}
