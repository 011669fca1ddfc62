// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"bytes"
	"errors"
	"fmt"
)

// plainDescriptor is RFC 4616 PLAIN: client-first, one round, the password
// transmitted as cleartext.
var plainDescriptor = &Descriptor{
	Name:      MustParseMechanismName("PLAIN"),
	Priority:  900,
	Client:    newPlainClient,
	Server:    newPlainServer,
	First:     SideClient,
	Plaintext: true,
}

type plainClient struct{}

func newPlainClient(*Config) (Mechanism, error) { return &plainClient{}, nil }

func (m *plainClient) Step(mc *MechanismContext, _ []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if hasInput {
		return StepResult{}, fmt.Errorf("%w: PLAIN client does not expect a server challenge", ErrUnexpectedInput)
	}
	authzid, err := RequestProperty(mc, nil, AuthzID)
	if err != nil && !errors.Is(err, ErrNoValue) {
		return StepResult{}, err
	}
	authid, err := RequestProperty(mc, nil, AuthID)
	if err != nil {
		return StepResult{}, err
	}
	password, err := RequestProperty(mc, nil, Password)
	if err != nil {
		return StepResult{}, err
	}
	out.WriteString(authzid)
	out.WriteByte(0)
	out.WriteString(authid)
	out.WriteByte(0)
	out.Write(password)
	return StepResult{State: Finished, MessageSent: true}, nil
}

type plainServer struct{}

func newPlainServer(*Config) (Mechanism, error) { return &plainServer{}, nil }

func (m *plainServer) Step(mc *MechanismContext, input []byte, hasInput bool, _ *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: PLAIN server expects the client's initial response first", ErrUnexpectedInput)
	}
	parts := bytes.Split(input, []byte{0})
	if len(parts) != 3 {
		return StepResult{}, fmt.Errorf("%w: PLAIN message must have exactly 3 NUL-separated fields", ErrMechanismParse)
	}
	authzid, authid, password := string(parts[0]), string(parts[1]), append([]byte(nil), parts[2]...)

	ctx := WithProperty(WithProperty(WithProperty(emptyContext, AuthzID, authzid), AuthID, authid), Password, password)
	if err := mc.ValidateOrFail(ctx); err != nil {
		return StepResult{}, err
	}
	return StepResult{State: Finished}, nil
}
