// Package ceremony implements the registration and authentication state
// machines, wiring the codec, crypto, and protocol packages to the
// challenge/session/repository stores.
package ceremony

import (
	"fmt"

	"github.com/asgard/webauthnd/internal/webauthn/store"
)

// ChallengeUsedError and ChallengeExistsError are canonically defined in
// store, since the backing repository can itself raise them from its
// atomic mark_used/create_new guards; aliased here so
// callers can refer to ceremony.ChallengeUsedError uniformly.
type ChallengeUsedError = store.ChallengeUsedError
type ChallengeExistsError = store.ChallengeExistsError

// Resource-state errors, mapped to HTTP status by the handler layer.
type (
	UserExistsError         struct{ Name string }
	UserNotFoundError       struct{ Name string }
	CredentialNotFoundError struct{ ID string }
	CredentialIdInUseError  struct{ ID string }
	ChallengeNotFoundError  struct{ Value string }
	SessionNotFoundError    struct{ ID string }
)

func (e *UserExistsError) Error() string { return fmt.Sprintf("user already registered: %s", e.Name) }
func (e *UserNotFoundError) Error() string { return fmt.Sprintf("user not found: %s", e.Name) }
func (e *CredentialNotFoundError) Error() string {
	return fmt.Sprintf("credential not found: %s", e.ID)
}
func (e *CredentialIdInUseError) Error() string {
	return fmt.Sprintf("credential id already in use: %s", e.ID)
}
func (e *ChallengeNotFoundError) Error() string {
	return fmt.Sprintf("challenge not found: %s", e.Value)
}
func (e *SessionNotFoundError) Error() string { return "session not found" }

// Validation / protocol errors.
type (
	BadChallengeError             struct{}
	BadOriginError                struct{}
	BadSignCounterError           struct{}
	InvalidTypeError              struct{ Type string }
	AssertionVerificationError    struct{ Reason string }
)

func (e *BadChallengeError) Error() string   { return "bad challenge" }
func (e *BadOriginError) Error() string      { return "bad origin" }
func (e *BadSignCounterError) Error() string { return "bad sign counter" }
func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid credential type: %s", e.Type)
}
func (e *AssertionVerificationError) Error() string {
	return fmt.Sprintf("assertion verification failed: %s", e.Reason)
}
