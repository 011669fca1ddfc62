// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"errors"
	"testing"
)

func TestExternalRoundTrip(t *testing.T) {
	clientCfg := fixedTestConfig(fixedCallback{authzid: "admin"})
	serverCfg := fixedTestConfig(fixedCallback{accept: true})

	client, _ := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("EXTERNAL")})
	server, _ := serverCfg.StartServer(MustParseMechanismName("EXTERNAL"))

	_, msg, err := client.Step(nil)
	if err != nil {
		t.Fatalf("client step failed: %v", err)
	}
	if string(msg) != "admin" {
		t.Fatalf("got %q, want %q", msg, "admin")
	}

	more, _, err := server.Step(msg)
	if err != nil {
		t.Fatalf("server step failed: %v", err)
	}
	if more {
		t.Fatal("expected EXTERNAL server to finish in one round")
	}
}

func TestExternalEmptyAuthzIDAllowed(t *testing.T) {
	clientCfg := fixedTestConfig(fixedCallback{})
	client, _ := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("EXTERNAL")})

	_, msg, err := client.Step(nil)
	if err != nil {
		t.Fatalf("unexpected error with no authzid: %v", err)
	}
	if len(msg) != 0 {
		t.Fatalf("expected an empty message, got %q", msg)
	}
}

func TestExternalRejected(t *testing.T) {
	clientCfg := fixedTestConfig(fixedCallback{authzid: "admin"})
	serverCfg := fixedTestConfig(fixedCallback{accept: false})

	client, _ := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("EXTERNAL")})
	server, _ := serverCfg.StartServer(MustParseMechanismName("EXTERNAL"))

	_, msg, _ := client.Step(nil)
	if _, _, err := server.Step(msg); !errors.Is(err, ErrAuthenticationFailure) {
		t.Fatalf("expected ErrAuthenticationFailure, got %v", err)
	}
}
