// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"bytes"
	"errors"
	"fmt"
)

// externalDescriptor is EXTERNAL: client-first, one round, carrying only an
// authzid. The actual authentication context (a TLS client certificate, a
// Unix socket peer credential, ...) is assumed to have been established by a
// lower layer and is never represented in this package.
var externalDescriptor = &Descriptor{
	Name:     MustParseMechanismName("EXTERNAL"),
	Priority: 200,
	Client:   newExternalClient,
	Server:   newExternalServer,
	First:    SideClient,
}

type externalClient struct{}

func newExternalClient(*Config) (Mechanism, error) { return &externalClient{}, nil }

func (m *externalClient) Step(mc *MechanismContext, _ []byte, hasInput bool, out *bytes.Buffer) (StepResult, error) {
	if hasInput {
		return StepResult{}, fmt.Errorf("%w: EXTERNAL client does not expect a server challenge", ErrUnexpectedInput)
	}
	authzid, err := RequestProperty(mc, nil, AuthzID)
	if err != nil && !errors.Is(err, ErrNoValue) {
		return StepResult{}, err
	}
	out.WriteString(authzid)
	return StepResult{State: Finished, MessageSent: true}, nil
}

type externalServer struct{}

func newExternalServer(*Config) (Mechanism, error) { return &externalServer{}, nil }

func (m *externalServer) Step(mc *MechanismContext, input []byte, hasInput bool, _ *bytes.Buffer) (StepResult, error) {
	if !hasInput {
		return StepResult{}, fmt.Errorf("%w: EXTERNAL server expects the client's message first", ErrUnexpectedInput)
	}
	ctx := WithProperty(emptyContext, AuthzID, string(input))
	if err := mc.ValidateOrFail(ctx); err != nil {
		return StepResult{}, err
	}
	return StepResult{State: Finished}, nil
}
