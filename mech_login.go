// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"bytes"
	"fmt"
)

// loginDescriptor is the de facto LOGIN mechanism (never formally an RFC):
// server-first, two rounds, prompting "User Name" then "Password".
var loginDescriptor = &Descriptor{
	Name:      MustParseMechanismName("LOGIN"),
	Priority:  910,
	Client:    newLoginClient,
	Server:    newLoginServer,
	First:     SideServer,
	Plaintext: true,
}

type loginClient struct {
	step int
}

func newLoginClient(*Config) (Mechanism, error) { return &loginClient{}, nil }

func (m *loginClient) Step(mc *MechanismContext, _ []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: LOGIN client expects a server prompt first", ErrUnexpectedInput)
	}
	switch m.step {
	case 0:
		authid, err := RequestProperty(mc, nil, AuthID)
		if err != nil {
			return StepResult{}, err
		}
		out.WriteString(authid)
		m.step++
		return StepResult{State: Running, MessageSent: true}, nil
	case 1:
		password, err := RequestProperty(mc, nil, Password)
		if err != nil {
			return StepResult{}, err
		}
		out.Write(password)
		m.step++
		return StepResult{State: Finished, MessageSent: true}, nil
	default:
		return StepResult{}, ErrMechanismCalledTooManyTimes
	}
}

type loginServer struct {
	step   int
	authid string
}

func newLoginServer(*Config) (Mechanism, error) { return &loginServer{}, nil }

func (m *loginServer) Step(mc *MechanismContext, input []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	switch m.step {
	case 0:
		if hasInput {
			return StepResult{}, fmt.Errorf("%w: LOGIN server goes first", ErrUnexpectedInput)
		}
		out.WriteString("User Name")
		m.step++
		return StepResult{State: Running, MessageSent: true}, nil
	case 1:
		if !hasInput {
			return StepResult{}, fmt.Errorf("%w: LOGIN server expects a username", ErrUnexpectedInput)
		}
		m.authid = string(input)
		out.WriteString("Password")
		m.step++
		return StepResult{State: Running, MessageSent: true}, nil
	case 2:
		if !hasInput {
			return StepResult{}, fmt.Errorf("%w: LOGIN server expects a password", ErrUnexpectedInput)
		}
		password := append([]byte(nil), input...)
		ctx := WithProperty(WithProperty(emptyContext, AuthID, m.authid), Password, password)
		if err := mc.ValidateOrFail(ctx); err != nil {
			return StepResult{}, err
		}
		m.step++
		return StepResult{State: Finished}, nil
	default:
		return StepResult{}, ErrMechanismCalledTooManyTimes
	}
}
