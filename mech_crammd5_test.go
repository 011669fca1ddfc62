// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"errors"
	"testing"
)

// TestCramMD5ResponseVector is RFC 2195's worked example: challenge
// "<1896.697170952@postoffice.reston.mci.net>", password "tanstaaftanstaaf",
// authid "tim" must produce the response
// "tim b913a602c7eda7a495b4e6e7334d3890".
func TestCramMD5ResponseVector(t *testing.T) {
	challenge := "<1896.697170952@postoffice.reston.mci.net>"
	password := []byte("tanstaaftanstaaf")
	want := "b913a602c7eda7a495b4e6e7334d3890"

	got := hmacMD5Hex(password, []byte(challenge))
	if got != want {
		t.Fatalf("got digest %q, want %q", got, want)
	}
}

func TestCramMD5RoundTrip(t *testing.T) {
	clientCfg := fixedTestConfig(fixedCallback{authid: "tim", password: []byte("tanstaaftanstaaf")})
	serverCfg := fixedTestConfig(fixedCallback{password: []byte("tanstaaftanstaaf"), accept: true})

	client, _ := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("CRAM-MD5")})
	server, _ := serverCfg.StartServer(MustParseMechanismName("CRAM-MD5"))

	more, challenge, err := server.Step(nil)
	if err != nil || !more {
		t.Fatalf("unexpected server challenge step: more=%v err=%v", more, err)
	}

	more, response, err := client.Step(challenge)
	if err != nil || more {
		t.Fatalf("unexpected client response step: more=%v err=%v", more, err)
	}

	more, _, err = server.Step(response)
	if err != nil || more {
		t.Fatalf("unexpected server verify step: more=%v err=%v", more, err)
	}
	if !server.IsFinished() || !client.IsFinished() {
		t.Fatal("expected both sides to finish")
	}
}

func TestCramMD5BadPassword(t *testing.T) {
	clientCfg := fixedTestConfig(fixedCallback{authid: "tim", password: []byte("wrong-password")})
	serverCfg := fixedTestConfig(fixedCallback{password: []byte("tanstaaftanstaaf"), accept: true})

	client, _ := clientCfg.StartSuggested([]MechanismName{MustParseMechanismName("CRAM-MD5")})
	server, _ := serverCfg.StartServer(MustParseMechanismName("CRAM-MD5"))

	_, challenge, _ := server.Step(nil)
	_, response, _ := client.Step(challenge)

	if _, _, err := server.Step(response); !errors.Is(err, ErrAuthenticationFailure) {
		t.Fatalf("expected ErrAuthenticationFailure, got %v", err)
	}
}
