// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// anonymousDescriptor is RFC 2245 ANONYMOUS: client-first, one round, a
// free-form trace token in place of real credentials.
var anonymousDescriptor = &Descriptor{
	Name:     MustParseMechanismName("ANONYMOUS"),
	Priority: 950,
	Client:   newAnonymousClient,
	Server:   newAnonymousServer,
	First:    SideClient,
}

type anonymousClient struct{}

func newAnonymousClient(*Config) (Mechanism, error) { return &anonymousClient{}, nil }

func (m *anonymousClient) Step(mc *MechanismContext, _ []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if hasInput {
		return StepResult{}, fmt.Errorf("%w: ANONYMOUS client does not expect a server challenge", ErrUnexpectedInput)
	}
	token, err := RequestProperty(mc, nil, AnonymousToken)
	if err != nil {
		return StepResult{}, err
	}
	if l := len(token); l < 1 || l > 1020 {
		return StepResult{}, fmt.Errorf("%w: ANONYMOUS token length %d not in [1,1020] bytes", ErrMechanismParse, l)
	}
	if utf8.RuneCountInString(token) > 255 {
		return StepResult{}, fmt.Errorf("%w: ANONYMOUS token longer than 255 characters", ErrMechanismParse)
	}
	out.WriteString(token)
	return StepResult{State: Finished, MessageSent: true}, nil
}

type anonymousServer struct{}

func newAnonymousServer(*Config) (Mechanism, error) { return &anonymousServer{}, nil }

func (m *anonymousServer) Step(mc *MechanismContext, input []byte, hasInput bool, _ *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: ANONYMOUS server expects the client's token first", ErrUnexpectedInput)
	}
	if !utf8.Valid(input) {
		return StepResult{}, fmt.Errorf("%w: ANONYMOUS token is not valid UTF-8", ErrMechanismParse)
	}
	token := string(input)
	if l := len(token); l < 1 || l > 1020 {
		return StepResult{}, fmt.Errorf("%w: ANONYMOUS token length %d not in [1,1020] bytes", ErrMechanismParse, l)
	}
	if utf8.RuneCountInString(token) > 255 {
		return StepResult{}, fmt.Errorf("%w: ANONYMOUS token longer than 255 characters", ErrMechanismParse)
	}
	ctx := WithProperty(emptyContext, AnonymousToken, token)
	if err := mc.ValidateOrFail(ctx); err != nil {
		return StepResult{}, err
	}
	return StepResult{State: Finished}, nil
}
