// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

import (
	"errors"
	"fmt"
)

// Sentinel errors returned from Session.Step, Session.Step64, and the
// mechanism implementations in this package. Use errors.Is to test for
// them; some carry additional context through wrapping (e.g.
// MissingChannelBindingDataError) and should be matched with errors.As
// instead.
var (
	// ErrMechanismParse is returned when a peer's message cannot be parsed
	// according to the mechanism's wire grammar.
	ErrMechanismParse = errors.New("sasl: malformed mechanism message")

	// ErrAuthenticationFailure is returned when an exchange completes but
	// the credentials presented were not valid (e.g. a SCRAM proof that
	// does not verify, or a PLAIN password mismatch).
	ErrAuthenticationFailure = errors.New("sasl: authentication failure")

	// ErrUnexpectedInput is returned when Step is called with input that a
	// mechanism does not expect for its current step (for example, input
	// on the very first step of a mechanism that goes first).
	ErrUnexpectedInput = errors.New("sasl: unexpected input for the current step")

	// ErrMechanismCalledTooManyTimes is returned when Step is called again
	// after a Session has already reported Finished.
	ErrMechanismCalledTooManyTimes = errors.New("sasl: mechanism stepped after it finished")

	// ErrUnknownMechanism is returned by negotiation when the registry has
	// no descriptor for a requested or offered mechanism name.
	ErrUnknownMechanism = errors.New("sasl: unknown mechanism")

	// ErrNoMechanismAgreed is returned by client negotiation when none of
	// the server-offered mechanism names are usable locally.
	ErrNoMechanismAgreed = errors.New("sasl: no mutually supported mechanism")

	// ErrMechanismUnimplemented is returned by stub descriptors (SECURID,
	// SAML20, OPENID20, GSSAPI, OAUTHBEARER) that exist only as registry
	// entries.
	ErrMechanismUnimplemented = errors.New("sasl: mechanism has no operational implementation")

	// ErrNoCallback is returned when a mechanism requests a property but no
	// Callback has been installed on the Config at all.
	ErrNoCallback = errors.New("sasl: no callback installed")

	// ErrNoValue is returned when a Callback declines to provide a
	// requested property (it was asked, and explicitly said no).
	ErrNoValue = errors.New("sasl: callback declined to provide a value")

	// Mechanism-specific flavors of ErrNoValue, surfaced so that callers
	// driving a protocol can give a more specific error to their own users
	// (e.g. an IMAP server distinguishing "no such user" wording).
	ErrNoAuthID         = fmt.Errorf("sasl: no authentication identity: %w", ErrNoValue)
	ErrNoPassword       = fmt.Errorf("sasl: no password: %w", ErrNoValue)
	ErrNoAuthzID        = fmt.Errorf("sasl: no authorization identity: %w", ErrNoValue)
	ErrNoAnonymousToken = fmt.Errorf("sasl: no anonymous token: %w", ErrNoValue)
)

// MissingChannelBindingDataError reports that the channel-binding callback
// installed on a Config had no data for the named binding type, or that no
// channel-binding callback was installed at all.
type MissingChannelBindingDataError struct {
	Name string
}

func (e *MissingChannelBindingDataError) Error() string {
	return fmt.Sprintf("sasl: missing channel binding data for %q", e.Name)
}

// Is reports whether target is also a *MissingChannelBindingDataError,
// regardless of Name, so that callers can use errors.Is(err,
// &MissingChannelBindingDataError{}) as a coarse check.
func (e *MissingChannelBindingDataError) Is(target error) bool {
	_, ok := target.(*MissingChannelBindingDataError)
	return ok
}

// CallbackError wraps an arbitrary error returned by an application's
// Callback implementation that does not fit ErrNoCallback or ErrNoValue —
// the "Other" / "Boxed" case from the error model.
type CallbackError struct {
	Err error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("sasl: callback error: %v", e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }

// ValidationError is returned by a server-side Callback.Validate
// implementation when it cannot reach a decision (as opposed to reaching a
// negative decision, which is expressed by the Validation result type
// itself, not an error).
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sasl: validation error: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
