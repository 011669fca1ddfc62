// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// sessionState is the coarse state machine a Session moves through: Fresh
// (no Step call yet), Running (at least one Step call, not yet Finished),
// Finished (the mechanism reported it's done), or errored (a Step call
// returned an error — stepping again is a contract violation, and this
// implementation panics rather than silently continuing.
type sessionState uint8

const (
	sessFresh sessionState = iota
	sessRunning
	sessFinished
	sessErrored
)

// Session drives one mechanism instance through its step sequence on behalf
// of either a client or a server. Create one with Config.StartSuggested
// (client) or Config.StartServer (server); step it with Step or Step64 until
// IsFinished reports true.
//
// A Session is exclusively owned: it must not be used from more than one
// goroutine at a time, and must not be reused for a second exchange (build a
// new one instead — there is no Reset, since per-mechanism state here is
// allocated fresh and cheaply).
type Session struct {
	id     uuid.UUID
	side   Side
	config *Config
	mech   Mechanism

	mechName MechanismName
	first    bool // true if this side produces the first message

	state     sessionState
	stepCount int
	sentAny   bool

	validation          any
	validationSatisfied bool
}

func newSession(cfg *Config, side Side, d *Descriptor, mech Mechanism) *Session {
	return &Session{
		id:       uuid.New(),
		side:     side,
		config:   cfg,
		mech:     mech,
		mechName: d.Name,
		first:    d.First == side,
		state:    sessFresh,
	}
}

// ID returns a correlation id generated when the Session was created. It is
// never transmitted and exists purely so that applications can tie log
// lines or metrics for one exchange together.
func (s *Session) ID() uuid.UUID { return s.id }

// MechanismName returns the negotiated mechanism's name.
func (s *Session) MechanismName() MechanismName { return s.mechName }

// Side returns which side of the exchange this Session drives.
func (s *Session) Side() Side { return s.side }

// AreWeFirst reports whether this side produces the first message of the
// exchange (i.e. Step's first call will have hasInput=false internally and
// must be called with a nil/empty input from the caller).
func (s *Session) AreWeFirst() bool { return s.first }

// HasSentMessage reports whether any Step call on this Session has written
// a message to its output so far.
func (s *Session) HasSentMessage() bool { return s.sentAny }

// IsRunning reports whether the Session has been stepped at least once and
// has not yet finished.
func (s *Session) IsRunning() bool { return s.state == sessRunning }

// IsFinished reports whether the mechanism has reported Finished.
func (s *Session) IsFinished() bool { return s.state == sessFinished }

// Step advances the Session by one round. input is the raw (not
// base64-encoded) message the peer just sent; pass nil on the very first
// call if AreWeFirst is true. It returns whether another round is needed and
// the raw bytes (if any) to send to the peer.
//
// Calling Step again after IsFinished reports true returns
// ErrMechanismCalledTooManyTimes. Calling Step again after a previous call
// returned any other error is a contract violation and panics.
func (s *Session) Step(input []byte) (more bool, resp []byte, err error) {
	if s.state == sessErrored {
		panic("sasl: Step called on a Session that has already errored")
	}
	if s.state == sessFinished {
		return false, nil, ErrMechanismCalledTooManyTimes
	}

	hasInput := true
	if s.stepCount == 0 && s.first {
		hasInput = false
	}

	var out bytes.Buffer
	mc := &MechanismContext{sess: s}
	result, err := s.mech.Step(mc, input, hasInput, &out)
	s.stepCount++
	if err != nil {
		s.state = sessErrored
		return false, nil, err
	}

	if out.Len() > 0 || result.MessageSent {
		s.sentAny = true
	}
	if result.State == Finished {
		s.state = sessFinished
		return false, out.Bytes(), nil
	}
	s.state = sessRunning
	return true, out.Bytes(), nil
}

// Step64 is the base64-framed convenience form of Step: it base64-decodes
// input (standard alphabet, with padding) before calling Step, and
// base64-encodes whatever Step produced before returning it.
func (s *Session) Step64(input []byte) (more bool, resp []byte, err error) {
	var decoded []byte
	if len(input) > 0 {
		decoded = make([]byte, base64.StdEncoding.DecodedLen(len(input)))
		n, derr := base64.StdEncoding.Decode(decoded, input)
		if derr != nil {
			return false, nil, fmt.Errorf("%w: %v", ErrMechanismParse, derr)
		}
		decoded = decoded[:n]
	}
	more, raw, err := s.Step(decoded)
	if err != nil {
		return more, nil, err
	}
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(encoded, raw)
	return more, encoded, nil
}

// GetValidation reads the validation slot, returning ok=false if Validate
// was never called, never called SetValidation, or was called for a
// different tag than the one given — or if the Session has not yet
// finished, since validation results are only meaningful once the exchange
// completes.
func GetValidation[V any](s *Session, tag ValidationTag[V]) (V, bool) {
	var zero V
	if !s.IsFinished() || !s.validationSatisfied || tag.Name() != s.config.validationTagName {
		return zero, false
	}
	v, ok := s.validation.(V)
	if !ok {
		return zero, false
	}
	return v, true
}

// MechanismContext is the per-step handle a Mechanism implementation uses to
// reach the application Callback, channel-binding data, and — server side —
// the Session's validation slot. It is valid only for the duration of one
// Step call and must not be retained past it.
type MechanismContext struct {
	sess *Session
}

// Side returns which side this exchange is being driven from.
func (mc *MechanismContext) Side() Side { return mc.sess.side }

// Config returns the Config the owning Session was built from.
func (mc *MechanismContext) Config() *Config { return mc.sess.config }

// MechanismName returns the negotiated mechanism's name.
func (mc *MechanismContext) MechanismName() MechanismName { return mc.sess.mechName }

// callbackFn runs fn with the installed Callback (for Callback and Validate
// below), or returns ErrNoCallback if none is installed.
func (mc *MechanismContext) callbackFn(fn func(cb Callback) error) error {
	cb := mc.sess.config.callback
	if cb == nil {
		return ErrNoCallback
	}
	return fn(cb)
}

// Callback requests req from the application's installed Callback. Most
// mechanisms should prefer the free function RequestProperty, which also
// consults ctx before making a round trip.
func (mc *MechanismContext) Callback(ctx *Context, req *Request) error {
	return mc.callbackFn(func(cb Callback) error {
		if err := cb.Callback(mc, ctx, req); err != nil {
			return wrapCallbackError(err)
		}
		return nil
	})
}

// wrapCallbackError boxes err as a *CallbackError unless it is already one,
// or is ErrNoValue (or one of its mechanism-specific flavors) — the sentinel
// an application returns deliberately to decline a request, not an
// application-defined failure that needs boxing.
func wrapCallbackError(err error) error {
	if errors.Is(err, ErrNoValue) {
		return err
	}
	var ce *CallbackError
	if errors.As(err, &ce) {
		return err
	}
	return &CallbackError{Err: err}
}

// Validate invokes the application's Callback.Validate, giving it a fresh
// write-once Validate slot for this Session's configured ValidationTag. If
// the callback calls SetValidation with the matching tag, the value is
// stored on the Session and becomes readable through GetValidation once the
// exchange finishes.
func (mc *MechanismContext) Validate(ctx *Context) error {
	return mc.callbackFn(func(cb Callback) error {
		v := newValidate(mc.sess.config.validationTagName, &mc.sess.validation)
		if err := cb.Validate(mc, ctx, v); err != nil {
			return wrapValidationError(err)
		}
		if v.satisfied {
			mc.sess.validationSatisfied = true
		}
		return nil
	})
}

// wrapValidationError boxes err as a *ValidationError unless it is already
// one.
func wrapValidationError(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &ValidationError{Err: err}
}

// ValidateOrFail calls Validate and, when the application's Validate
// implementation reaches no decision at all (returns nil without calling
// SetValidation — a deliberate "no" rather than a CallbackError), turns that
// into ErrAuthenticationFailure. The server sides of PLAIN, LOGIN,
// ANONYMOUS, and EXTERNAL, which cannot check a credential themselves, use
// this instead of calling Validate directly, so that a bare password
// mismatch surfaces the same sentinel a proof-verification failure would.
// CRAM-MD5, DIGEST-MD5, and SCRAM verify their proof first and then call
// plain Validate.
func (mc *MechanismContext) ValidateOrFail(ctx *Context) error {
	if err := mc.Validate(ctx); err != nil {
		return err
	}
	if !mc.sess.validationSatisfied {
		return ErrAuthenticationFailure
	}
	return nil
}

// GetCBData fetches the channel-binding bytes for name from the Config's
// ChannelBindingCallback, returning a *MissingChannelBindingDataError if
// none are available.
func (mc *MechanismContext) GetCBData(name string) ([]byte, error) {
	cb := mc.sess.config.cbCallback
	if cb == nil {
		return nil, &MissingChannelBindingDataError{Name: name}
	}
	data, ok := cb.GetChannelBindingData(name)
	if !ok {
		return nil, &MissingChannelBindingDataError{Name: name}
	}
	return data, nil
}
