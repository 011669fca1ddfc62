// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"errors"
	"testing"
)

func TestLoginRoundTrip(t *testing.T) {
	clientCfg := fixedTestConfig(fixedCallback{authid: "username", password: []byte("secret")})
	serverCfg := fixedTestConfig(fixedCallback{accept: true})

	client, err := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("LOGIN")})
	if err != nil {
		t.Fatalf("client negotiation failed: %v", err)
	}
	server, err := serverCfg.StartServer(MustParseMechanismName("LOGIN"))
	if err != nil {
		t.Fatalf("server negotiation failed: %v", err)
	}

	more, prompt1, err := server.Step(nil)
	if err != nil || !more || string(prompt1) != "User Name" {
		t.Fatalf("unexpected server step 1: more=%v msg=%q err=%v", more, prompt1, err)
	}

	more, authid, err := client.Step(prompt1)
	if err != nil || !more || string(authid) != "username" {
		t.Fatalf("unexpected client step 1: more=%v msg=%q err=%v", more, authid, err)
	}

	more, prompt2, err := server.Step(authid)
	if err != nil || !more || string(prompt2) != "Password" {
		t.Fatalf("unexpected server step 2: more=%v msg=%q err=%v", more, prompt2, err)
	}

	more, password, err := client.Step(prompt2)
	if err != nil || more || string(password) != "secret" {
		t.Fatalf("unexpected client step 2: more=%v msg=%q err=%v", more, password, err)
	}

	more, _, err = server.Step(password)
	if err != nil || more {
		t.Fatalf("unexpected server step 3: more=%v err=%v", more, err)
	}
	if !server.IsFinished() || !client.IsFinished() {
		t.Fatal("expected both sides to finish")
	}
}

func TestLoginRejected(t *testing.T) {
	clientCfg := fixedTestConfig(fixedCallback{authid: "username", password: []byte("secret")})
	serverCfg := fixedTestConfig(fixedCallback{accept: false})

	client, _ := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("LOGIN")})
	server, _ := serverCfg.StartServer(MustParseMechanismName("LOGIN"))

	_, prompt1, _ := server.Step(nil)
	_, authid, _ := client.Step(prompt1)
	_, prompt2, _ := server.Step(authid)
	_, password, _ := client.Step(prompt2)

	if _, _, err := server.Step(password); !errors.Is(err, ErrAuthenticationFailure) {
		t.Fatalf("expected ErrAuthenticationFailure, got %v", err)
	}
}
