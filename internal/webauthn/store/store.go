// Package store defines the repository and cache contracts the ceremony
// engine depends on.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/asgard/webauthnd/internal/webauthn/model"
)

// Challenge is a minted, possibly-consumed nonce.
type Challenge struct {
	Value    string
	Used     bool
	UsedTime *time.Time
	Created  time.Time
}

// ChallengeUsedError reports that mark_used observed the challenge already
// consumed, whether by the caller's own prior fetch or by a concurrent
// consumer racing through the store's atomic guard.
type ChallengeUsedError struct{ Value string }

func (e *ChallengeUsedError) Error() string { return "challenge is already used" }

// NewChallengeUsedError constructs a ChallengeUsedError for value.
func NewChallengeUsedError(value string) *ChallengeUsedError {
	return &ChallengeUsedError{Value: value}
}

// ChallengeExistsError reports a collision when minting a new challenge
// value.
type ChallengeExistsError struct{ Value string }

func (e *ChallengeExistsError) Error() string {
	return fmt.Sprintf("challenge already exists: %s", e.Value)
}

// NewChallengeExistsError constructs a ChallengeExistsError for value.
func NewChallengeExistsError(value string) *ChallengeExistsError {
	return &ChallengeExistsError{Value: value}
}

// UserRepository persists UserEntity records, keyed by name.
type UserRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Get(ctx context.Context, name string) (*model.UserEntity, error)
	Add(ctx context.Context, user model.UserEntity) error
	List(ctx context.Context) ([]model.UserEntity, error)
	DeleteCascade(ctx context.Context, name string) error
	AddCredentialRef(ctx context.Context, name, credentialID string) error
	CredentialIDsFor(ctx context.Context, name string) ([]string, error)
}

// CredentialRepository persists Credential records, keyed by credential id.
type CredentialRepository interface {
	Get(ctx context.Context, id string) (*model.Credential, error)
	Add(ctx context.Context, cred model.Credential) error
	Update(ctx context.Context, cred model.Credential) error
	Delete(ctx context.Context, id string) error
}

// ChallengeStore implements the single-use challenge lifecycle.
// Fetch-then-mark-used must be serializable per value.
type ChallengeStore interface {
	CreateNew(ctx context.Context) (*Challenge, error)
	Check(ctx context.Context, value string) (bool, error)
	Fetch(ctx context.Context, value string) (*Challenge, error)
	MarkUsed(ctx context.Context, value string) error
	Delete(ctx context.Context, value string) error
}

// SessionStore persists the opaque per-ceremony session map carried via the
// x-session header.
type SessionStore interface {
	Put(ctx context.Context, id string, values map[string]string) error
	Get(ctx context.Context, id string) (map[string]string, error)
}

// ConfigStore persists the singleton WebauthnPolicy document.
type ConfigStore interface {
	Get(ctx context.Context) (*model.WebauthnPolicy, error)
	Put(ctx context.Context, policy model.WebauthnPolicy) error
}
