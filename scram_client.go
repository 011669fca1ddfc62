// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// scramClient drives the client side of RFC 5802/7677 SCRAM-SHA-{1,256}
// and their -PLUS channel-binding variants. One instance is good for
// exactly one Session.
type scramClient struct {
	suite scramSuite
	plus  bool
	step  int

	gs2Header       []byte
	clientFirstBare []byte
	clientNonce     string
	cbName          string

	serverKey   []byte
	authMessage []byte
}

func newSCRAMClientCtor(suite scramSuite, plus bool) ClientConstructor {
	return func(*Config) (Mechanism, error) {
		return &scramClient{suite: suite, plus: plus}, nil
	}
}

func (m *scramClient) Step(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	switch m.step {
	case 0:
		return m.step1(mc, hasInput, out)
	case 1:
		return m.step2(mc, input, hasInput, out)
	case 2:
		return m.step3(input, hasInput)
	default:
		return StepResult{}, ErrMechanismCalledTooManyTimes
	}
}

func (m *scramClient) step1(mc *MechanismContext, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if hasInput {
		return StepResult{}, fmt.Errorf("%w: SCRAM client does not expect a server challenge first", ErrUnexpectedInput)
	}
	authid, err := RequestProperty(mc, nil, AuthID)
	if err != nil {
		return StepResult{}, err
	}
	authzid, err := RequestProperty(mc, nil, AuthzID)
	if err != nil && !errors.Is(err, ErrNoValue) {
		return StepResult{}, err
	}

	var flag string
	if m.plus {
		cbName, err := RequestProperty(mc, nil, OverrideCBType)
		if err != nil {
			if !errors.Is(err, ErrNoValue) {
				return StepResult{}, err
			}
			cbName = "tls-server-end-point"
		}
		m.cbName = cbName
		flag = "p=" + cbName
	} else if mc.Config().ChannelBindingCallback() == NoChannelBindings {
		flag = "n"
	} else {
		flag = "y"
	}

	var header bytes.Buffer
	header.WriteString(flag)
	header.WriteByte(',')
	if authzid != "" {
		escaped, err := scramEscapeSaslname(authzid)
		if err != nil {
			return StepResult{}, err
		}
		header.WriteString("a=")
		header.WriteString(escaped)
	}
	header.WriteByte(',')
	m.gs2Header = header.Bytes()

	username, err := scramEscapeSaslname(authid)
	if err != nil {
		return StepResult{}, err
	}
	m.clientNonce = scramNonce(defaultRandReader)

	var bare bytes.Buffer
	bare.WriteString("n=")
	bare.WriteString(username)
	bare.WriteString(",r=")
	bare.WriteString(m.clientNonce)
	m.clientFirstBare = bare.Bytes()

	out.Write(m.gs2Header)
	out.Write(m.clientFirstBare)
	m.step++
	return StepResult{State: Running, MessageSent: true}, nil
}

func (m *scramClient) step2(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: SCRAM client expects the server-first message", ErrUnexpectedInput)
	}
	attrs, err := parseSCRAMAttributes(input)
	if err != nil {
		return StepResult{}, err
	}
	combinedNonce, ok := attrs['r']
	if !ok || !strings.HasPrefix(combinedNonce, m.clientNonce) {
		return StepResult{}, fmt.Errorf("%w: SCRAM server nonce does not extend the client nonce", ErrMechanismParse)
	}
	saltB64, ok := attrs['s']
	if !ok {
		return StepResult{}, fmt.Errorf("%w: SCRAM server-first message missing salt", ErrMechanismParse)
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return StepResult{}, fmt.Errorf("%w: SCRAM salt is not valid base64", ErrMechanismParse)
	}
	iterStr, ok := attrs['i']
	if !ok {
		return StepResult{}, fmt.Errorf("%w: SCRAM server-first message missing iteration count", ErrMechanismParse)
	}
	iterations, err := strconv.Atoi(iterStr)
	if err != nil || iterations < 1 {
		return StepResult{}, fmt.Errorf("%w: SCRAM iteration count is not a positive integer", ErrMechanismParse)
	}
	if min, allowWeak := mc.Config().MinSCRAMIterations(); uint32(iterations) < min && !allowWeak {
		return StepResult{}, fmt.Errorf("%w: SCRAM iteration count %d below configured floor %d", ErrMechanismParse, iterations, min)
	}

	saltedPassword, err := RequestProperty(mc, nil, SaltedPassword)
	if err != nil {
		if !errors.Is(err, ErrNoValue) {
			return StepResult{}, err
		}
		password, perr := RequestProperty(mc, nil, Password)
		if perr != nil {
			return StepResult{}, perr
		}
		normalized, perr := scramNormalizePassword(password)
		if perr != nil {
			return StepResult{}, perr
		}
		saltedPassword = m.suite.saltedPassword(normalized, salt, iterations)
	}

	clientKey := m.suite.hmac(saltedPassword, []byte("Client Key"))
	storedKey := m.suite.h(clientKey)
	m.serverKey = m.suite.hmac(saltedPassword, []byte("Server Key"))

	cbindData := append([]byte(nil), m.gs2Header...)
	if m.plus {
		cbData, err := mc.GetCBData(m.cbName)
		if err != nil {
			return StepResult{}, err
		}
		cbindData = append(cbindData, cbData...)
	}
	cbindB64 := base64.StdEncoding.EncodeToString(cbindData)

	var finalWithoutProof bytes.Buffer
	finalWithoutProof.WriteString("c=")
	finalWithoutProof.WriteString(cbindB64)
	finalWithoutProof.WriteString(",r=")
	finalWithoutProof.WriteString(combinedNonce)

	authMessage := bytes.Join([][]byte{m.clientFirstBare, input, finalWithoutProof.Bytes()}, []byte{','})
	clientSignature := m.suite.hmac(storedKey, authMessage)
	clientProof, err := scramXOR(clientKey, clientSignature)
	if err != nil {
		return StepResult{}, err
	}

	out.Write(finalWithoutProof.Bytes())
	out.WriteString(",p=")
	out.WriteString(base64.StdEncoding.EncodeToString(clientProof))

	m.authMessage = authMessage
	m.step++
	return StepResult{State: Running, MessageSent: true}, nil
}

func (m *scramClient) step3(input []byte, hasInput bool) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: SCRAM client expects the server-final message", ErrUnexpectedInput)
	}
	attrs, err := parseSCRAMAttributes(input)
	if err != nil {
		return StepResult{}, err
	}
	if errTok, ok := attrs['e']; ok {
		return StepResult{}, fmt.Errorf("%w: server reported %q", ErrAuthenticationFailure, errTok)
	}
	vB64, ok := attrs['v']
	if !ok {
		return StepResult{}, fmt.Errorf("%w: SCRAM server-final message missing verifier", ErrMechanismParse)
	}
	serverSignature, err := base64.StdEncoding.DecodeString(vB64)
	if err != nil {
		return StepResult{}, fmt.Errorf("%w: SCRAM server signature is not valid base64", ErrMechanismParse)
	}
	expected := m.suite.hmac(m.serverKey, m.authMessage)
	if subtle.ConstantTimeCompare(serverSignature, expected) != 1 {
		return StepResult{}, ErrAuthenticationFailure
	}
	return StepResult{State: Finished}, nil
}
