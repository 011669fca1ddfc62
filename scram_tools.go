// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"strings"

	"github.com/xdg-go/stringprep"
	"golang.org/x/crypto/pbkdf2"
)

// scramSuite binds a SCRAM mechanism variant to its underlying hash
// algorithm, so the client/server mechanism code is written once and
// instantiated twice (SHA-1, SHA-256) rather than duplicated.
type scramSuite struct {
	name string
	new  func() hash.Hash
	size int
}

var (
	scramSHA1   = scramSuite{name: "SCRAM-SHA-1", new: sha1.New, size: sha1.Size}
	scramSHA256 = scramSuite{name: "SCRAM-SHA-256", new: sha256.New, size: sha256.Size}
)

func (s scramSuite) hmac(key, msg []byte) []byte {
	mac := hmac.New(s.new, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

func (s scramSuite) h(data []byte) []byte {
	h := s.new()
	h.Write(data)
	return h.Sum(nil)
}

func (s scramSuite) saltedPassword(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, s.size, s.new)
}

// scramXOR XORs two equal-length byte slices, as RFC 5802's
// ClientProof = ClientKey XOR ClientSignature requires.
func scramXOR(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: SCRAM proof length does not match the negotiated hash size", ErrMechanismParse)
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

// scramEscapeSaslname applies SASLprep (RFC 4013) and then RFC 5802 §5.1's
// "=" → "=3D", "," → "=2C" escaping, used for both the client's n= username
// and the gs2-header's a= authzid.
func scramEscapeSaslname(s string) (string, error) {
	prepped, err := stringprep.SASLprep.Prepare(s)
	if err != nil {
		return "", fmt.Errorf("%w: SASLprep rejected %q: %v", ErrMechanismParse, s, err)
	}
	prepped = strings.ReplaceAll(prepped, "=", "=3D")
	prepped = strings.ReplaceAll(prepped, ",", "=2C")
	return prepped, nil
}

// scramUnescapeSaslname reverses scramEscapeSaslname's escaping (but not its
// SASLprep normalization, which is not invertible).
func scramUnescapeSaslname(s string) string {
	s = strings.ReplaceAll(s, "=2C", ",")
	s = strings.ReplaceAll(s, "=3D", "=")
	return s
}

// scramNormalizePassword applies SASLprep to a password before it is fed to
// PBKDF2, per RFC 5802's Normalize(password).
func scramNormalizePassword(password []byte) ([]byte, error) {
	prepped, err := stringprep.SASLprep.Prepare(string(password))
	if err != nil {
		return nil, fmt.Errorf("%w: SASLprep rejected the password", ErrMechanismParse)
	}
	return []byte(prepped), nil
}
