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
	"io"
	"strconv"
)

// scramServer drives the server side of RFC 5802/7677 SCRAM-SHA-{1,256}
// and their -PLUS channel-binding variants.
type scramServer struct {
	suite scramSuite
	plus  bool
	step  int

	gs2Header       []byte
	clientFirstBare []byte
	combinedNonce   string
	serverFirst     []byte
	storedKey       []byte
	serverKey       []byte
	authid          string
	authzid         string
	cbName          string
}

func newSCRAMServerCtor(suite scramSuite, plus bool) ServerConstructor {
	return func(*Config) (Mechanism, error) {
		return &scramServer{suite: suite, plus: plus}, nil
	}
}

func (m *scramServer) Step(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	switch m.step {
	case 0:
		return m.step1(mc, input, hasInput, out)
	case 1:
		return m.step2(mc, input, hasInput, out)
	default:
		return StepResult{}, ErrMechanismCalledTooManyTimes
	}
}

func (m *scramServer) step1(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: SCRAM server expects the client-first message first", ErrUnexpectedInput)
	}
	header, bare, err := splitGS2Header(input)
	if err != nil {
		return StepResult{}, err
	}
	gs2, err := parseGS2Header(header)
	if err != nil {
		return StepResult{}, err
	}
	if m.plus {
		if gs2.cbFlag != 'p' {
			return StepResult{}, fmt.Errorf("%w: client did not request channel binding on a -PLUS exchange", ErrAuthenticationFailure)
		}
		m.cbName = gs2.cbName
	} else if gs2.cbFlag == 'p' {
		return StepResult{}, fmt.Errorf("%w: client requested channel binding on a non-PLUS exchange", ErrMechanismParse)
	}

	attrs, err := parseSCRAMAttributes(bare)
	if err != nil {
		return StepResult{}, err
	}
	username, ok := attrs['n']
	if !ok {
		return StepResult{}, fmt.Errorf("%w: SCRAM client-first message missing username", ErrMechanismParse)
	}
	clientNonce, ok := attrs['r']
	if !ok {
		return StepResult{}, fmt.Errorf("%w: SCRAM client-first message missing nonce", ErrMechanismParse)
	}
	authid := scramUnescapeSaslname(username)

	ctx := WithProperty(emptyContext, AuthID, authid)
	salt, iterations, err := m.lookupCredential(mc, ctx)
	if err != nil {
		return StepResult{}, err
	}

	serverNonce := scramNonce(defaultRandReader)
	m.combinedNonce = clientNonce + serverNonce
	m.gs2Header = append([]byte(nil), header...)
	m.clientFirstBare = append([]byte(nil), bare...)
	m.authid = authid
	m.authzid = gs2.authzid

	var s1 bytes.Buffer
	s1.WriteString("r=")
	s1.WriteString(m.combinedNonce)
	s1.WriteString(",s=")
	s1.WriteString(base64.StdEncoding.EncodeToString(salt))
	s1.WriteString(",i=")
	s1.WriteString(strconv.Itoa(int(iterations)))
	m.serverFirst = s1.Bytes()

	out.Write(m.serverFirst)
	m.step++
	return StepResult{State: Running, MessageSent: true}, nil
}

// lookupCredential resolves the salted-password material for this exchange,
// preferring whichever shortcut the application's Callback can supply:
// ScramStoredPassword (fully pre-derived) first, then ScramCachedPassword
// (just the client/server keys from a previous derivation, paired with the
// Salt/Iterations the application already used to produce them), and only
// then falling back to deriving everything fresh from Password.
func (m *scramServer) lookupCredential(mc *MechanismContext, ctx *Context) ([]byte, uint32, error) {
	stored, err := RequestProperty(mc, ctx, ScramStoredPassword)
	if err == nil {
		m.storedKey = stored.StoredKey
		m.serverKey = stored.ServerKey
		return stored.Salt, stored.Iterations, nil
	}
	if !errors.Is(err, ErrNoValue) {
		return nil, 0, err
	}

	cached, err := RequestProperty(mc, ctx, ScramCachedPassword)
	if err == nil {
		salt, err := RequestProperty(mc, ctx, Salt)
		if err != nil {
			return nil, 0, err
		}
		iterations, err := RequestProperty(mc, ctx, Iterations)
		if err != nil {
			return nil, 0, err
		}
		m.storedKey = m.suite.h(cached.ClientKey)
		m.serverKey = cached.ServerKey
		return salt, iterations, nil
	}
	if !errors.Is(err, ErrNoValue) {
		return nil, 0, err
	}

	password, err := RequestProperty(mc, ctx, Password)
	if err != nil {
		return nil, 0, err
	}
	normalized, err := scramNormalizePassword(password)
	if err != nil {
		return nil, 0, err
	}
	salt := make([]byte, 16)
	if _, err := io.ReadFull(defaultRandReader, salt); err != nil {
		return nil, 0, err
	}
	iterations, _ := mc.Config().MinSCRAMIterations()
	saltedPassword := m.suite.saltedPassword(normalized, salt, int(iterations))
	clientKey := m.suite.hmac(saltedPassword, []byte("Client Key"))
	m.storedKey = m.suite.h(clientKey)
	m.serverKey = m.suite.hmac(saltedPassword, []byte("Server Key"))
	return salt, iterations, nil
}

func (m *scramServer) step2(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: SCRAM server expects the client-final message", ErrUnexpectedInput)
	}
	attrs, err := parseSCRAMAttributes(input)
	if err != nil {
		return StepResult{}, err
	}
	cbindB64, ok := attrs['c']
	if !ok {
		return StepResult{}, fmt.Errorf("%w: SCRAM client-final message missing channel-binding field", ErrMechanismParse)
	}
	nonce, ok := attrs['r']
	if !ok || nonce != m.combinedNonce {
		return StepResult{}, fmt.Errorf("%w: SCRAM client-final nonce does not match the combined nonce", ErrMechanismParse)
	}
	proofB64, ok := attrs['p']
	if !ok {
		return StepResult{}, fmt.Errorf("%w: SCRAM client-final message missing proof", ErrMechanismParse)
	}

	cbindInput, err := base64.StdEncoding.DecodeString(cbindB64)
	if err != nil {
		return StepResult{}, fmt.Errorf("%w: SCRAM cbind-input is not valid base64", ErrMechanismParse)
	}
	if !bytes.HasPrefix(cbindInput, m.gs2Header) {
		return StepResult{}, fmt.Errorf("%w: SCRAM cbind-input does not begin with the negotiated gs2-header", ErrMechanismParse)
	}
	cbData := cbindInput[len(m.gs2Header):]
	if m.plus {
		expectedCB, err := mc.GetCBData(m.cbName)
		if err != nil {
			return StepResult{}, err
		}
		if !bytes.Equal(cbData, expectedCB) {
			return StepResult{}, ErrAuthenticationFailure
		}
	} else if len(cbData) != 0 {
		return StepResult{}, fmt.Errorf("%w: SCRAM cbind-input carries data on a non-PLUS exchange", ErrMechanismParse)
	}

	proof, err := base64.StdEncoding.DecodeString(proofB64)
	if err != nil {
		return StepResult{}, fmt.Errorf("%w: SCRAM proof is not valid base64", ErrMechanismParse)
	}

	var finalWithoutProof bytes.Buffer
	finalWithoutProof.WriteString("c=")
	finalWithoutProof.WriteString(cbindB64)
	finalWithoutProof.WriteString(",r=")
	finalWithoutProof.WriteString(nonce)

	authMessage := bytes.Join([][]byte{m.clientFirstBare, m.serverFirst, finalWithoutProof.Bytes()}, []byte{','})
	clientSignature := m.suite.hmac(m.storedKey, authMessage)
	recoveredClientKey, err := scramXOR(proof, clientSignature)
	if err != nil {
		return StepResult{}, err
	}
	if subtle.ConstantTimeCompare(m.suite.h(recoveredClientKey), m.storedKey) != 1 {
		return StepResult{}, ErrAuthenticationFailure
	}

	serverSignature := m.suite.hmac(m.serverKey, authMessage)
	out.WriteString("v=")
	out.WriteString(base64.StdEncoding.EncodeToString(serverSignature))

	ctx := WithProperty(WithProperty(emptyContext, AuthID, m.authid), AuthzID, m.authzid)
	if err := mc.Validate(ctx); err != nil {
		return StepResult{}, err
	}
	m.step++
	return StepResult{State: Finished, MessageSent: true}, nil
}
