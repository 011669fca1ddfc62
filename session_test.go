// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"errors"
	"testing"
)

// credentialCallback answers AuthID/AuthzID/Password from fixed fields and
// validates by simple equality against expectedPassword — enough to drive
// PLAIN and LOGIN through a full exchange in tests without pulling in a real
// user store. EXTERNAL and ANONYMOUS servers pass no Password, so Validate
// makes no decision for them.
type credentialCallback struct {
	authid           string
	authzid          string
	password         []byte
	anonymousToken   string
	expectedPassword string
}

func (c credentialCallback) Callback(_ *MechanismContext, _ *Context, req *Request) error {
	Satisfy(req, AuthID, c.authid)
	Satisfy(req, AuthzID, c.authzid)
	Satisfy(req, Password, c.password)
	Satisfy(req, AnonymousToken, c.anonymousToken)
	return nil
}

func (c credentialCallback) Validate(_ *MechanismContext, ctx *Context, v *Validate) error {
	password, ok := GetProperty(ctx, Password)
	if !ok {
		return nil
	}
	if string(password) == c.expectedPassword {
		SetValidation(v, NoValidation, NoValidationResult{})
	}
	return nil
}

func plainTestConfig(cb Callback) *Config {
	return Builder().
		WithDefaultMechanisms().
		WithDefaultFilter().
		WithDefaultSorting().
		WithCallback(cb).
		NoCBSupport().
		NoValidation()
}

func TestSessionPlainRoundTrip(t *testing.T) {
	clientCfg := plainTestConfig(credentialCallback{authid: "username", password: []byte("secret")})
	serverCfg := plainTestConfig(credentialCallback{expectedPassword: "secret"})

	client, err := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("PLAIN")})
	if err != nil {
		t.Fatalf("client negotiation failed: %v", err)
	}
	server, err := serverCfg.StartServer(MustParseMechanismName("PLAIN"))
	if err != nil {
		t.Fatalf("server negotiation failed: %v", err)
	}

	more, msg, err := client.Step(nil)
	if err != nil {
		t.Fatalf("client step failed: %v", err)
	}
	if more {
		t.Fatal("expected PLAIN client to finish in one round")
	}
	want := []byte("\x00username\x00secret")
	if string(msg) != string(want) {
		t.Fatalf("got message %q, want %q", msg, want)
	}

	more, _, err = server.Step(msg)
	if err != nil {
		t.Fatalf("server step failed: %v", err)
	}
	if more {
		t.Fatal("expected PLAIN server to finish in one round")
	}
	if !server.IsFinished() || !client.IsFinished() {
		t.Fatal("expected both sides to report Finished")
	}
}

func TestSessionPlainBadPassword(t *testing.T) {
	clientCfg := plainTestConfig(credentialCallback{authid: "username", password: []byte("secret")})
	serverCfg := plainTestConfig(credentialCallback{expectedPassword: "other"})

	client, _ := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("PLAIN")})
	server, _ := serverCfg.StartServer(MustParseMechanismName("PLAIN"))

	_, msg, _ := client.Step(nil)
	_, _, err := server.Step(msg)
	if !errors.Is(err, ErrAuthenticationFailure) {
		t.Fatalf("expected ErrAuthenticationFailure, got %v", err)
	}
}

func TestSessionStepAfterFinished(t *testing.T) {
	cfg := plainTestConfig(credentialCallback{authid: "u", password: []byte("p")})
	client, _ := cfg.StartSuggested([]MechanismName{MustParseMechanismName("PLAIN")})
	if _, _, err := client.Step(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := client.Step(nil); !errors.Is(err, ErrMechanismCalledTooManyTimes) {
		t.Fatalf("expected ErrMechanismCalledTooManyTimes, got %v", err)
	}
}

func TestSessionStepAfterErrorPanics(t *testing.T) {
	cfg := plainTestConfig(credentialCallback{authid: "u", password: []byte("p")})
	server, _ := cfg.StartServer(MustParseMechanismName("PLAIN"))

	// Malformed PLAIN input (no NUL separators) makes the first Step error.
	if _, _, err := server.Step([]byte("not-a-valid-plain-message")); err == nil {
		t.Fatal("expected the malformed message to produce an error")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected Step after an error to panic")
		}
	}()
	_, _, _ = server.Step(nil)
}

func TestSessionStep64RoundTrip(t *testing.T) {
	cfg := plainTestConfig(credentialCallback{authid: "u", password: []byte("p")})
	client, _ := cfg.StartSuggested([]MechanismName{MustParseMechanismName("PLAIN")})

	_, encoded, err := client.Step64(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) == 0 {
		t.Fatal("expected a non-empty base64-encoded message")
	}
}

func TestNegotiateNoMechanismAgreed(t *testing.T) {
	cfg := plainTestConfig(credentialCallback{})
	_, err := cfg.StartSuggested([]MechanismName{MustParseMechanismName("UNKNOWN-MECH")})
	if !errors.Is(err, ErrNoMechanismAgreed) {
		t.Fatalf("expected ErrNoMechanismAgreed, got %v", err)
	}
}

func TestNegotiateUnknownMechanismOnServer(t *testing.T) {
	cfg := plainTestConfig(credentialCallback{})
	_, err := cfg.StartServer(MustParseMechanismName("UNKNOWN-MECH"))
	if !errors.Is(err, ErrUnknownMechanism) {
		t.Fatalf("expected ErrUnknownMechanism, got %v", err)
	}
}

func TestAdvertiseHidesChannelBindingPlusVariants(t *testing.T) {
	cfg := plainTestConfig(credentialCallback{})
	names := cfg.Advertise(nil)
	for _, n := range names {
		if n.HasSuffix("-PLUS") {
			t.Fatalf("expected no -PLUS mechanism to be advertised without channel-binding data, got %s", n)
		}
	}

	ctx := WithProperty(nil, ChannelBindings, []byte("fake-cb-data"))
	names = cfg.Advertise(ctx)
	found := false
	for _, n := range names {
		if n.Equal(MustParseMechanismName("SCRAM-SHA-256-PLUS")) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected SCRAM-SHA-256-PLUS to be advertised once channel-binding data is available")
	}
}

// failingCallback returns an arbitrary, non-sentinel error from both
// Callback and Validate, to exercise the CallbackError/ValidationError
// boxing in MechanismContext.
type failingCallback struct {
	callbackErr error
	validateErr error
}

func (c failingCallback) Callback(_ *MechanismContext, _ *Context, _ *Request) error {
	return c.callbackErr
}

func (c failingCallback) Validate(_ *MechanismContext, _ *Context, _ *Validate) error {
	return c.validateErr
}

func TestCallbackErrorIsBoxed(t *testing.T) {
	boom := errors.New("boom")
	cfg := plainTestConfig(failingCallback{callbackErr: boom})
	client, _ := cfg.StartSuggested([]MechanismName{MustParseMechanismName("PLAIN")})

	_, _, err := client.Step(nil)
	var ce *CallbackError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a *CallbackError, got %v (%T)", err, err)
	}
	if !errors.Is(ce, boom) {
		t.Fatalf("expected the boxed error to unwrap to the original, got %v", ce.Unwrap())
	}
}

func TestCallbackErrorDoesNotBoxErrNoValue(t *testing.T) {
	cfg := plainTestConfig(failingCallback{callbackErr: ErrNoPassword})
	client, _ := cfg.StartSuggested([]MechanismName{MustParseMechanismName("PLAIN")})

	_, _, err := client.Step(nil)
	var ce *CallbackError
	if errors.As(err, &ce) {
		t.Fatalf("expected ErrNoPassword to pass through unboxed, got %v", err)
	}
	if !errors.Is(err, ErrNoValue) {
		t.Fatalf("expected ErrNoValue, got %v", err)
	}
}

func TestValidationErrorIsBoxed(t *testing.T) {
	boom := errors.New("boom")
	clientCfg := plainTestConfig(credentialCallback{authid: "u", password: []byte("p")})
	serverCfg := plainTestConfig(failingCallback{validateErr: boom})

	client, _ := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("PLAIN")})
	server, _ := serverCfg.StartServer(MustParseMechanismName("PLAIN"))

	_, msg, _ := client.Step(nil)
	_, _, err := server.Step(msg)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a *ValidationError, got %v (%T)", err, err)
	}
	if !errors.Is(ve, boom) {
		t.Fatalf("expected the boxed error to unwrap to the original, got %v", ve.Unwrap())
	}
}

func TestSuggestMechanism(t *testing.T) {
	cfg := plainTestConfig(credentialCallback{})
	name, ok := cfg.SuggestMechanism()
	if !ok {
		t.Fatal("expected a suggested mechanism")
	}
	if name.IsZero() {
		t.Fatal("expected a non-zero mechanism name")
	}
}
