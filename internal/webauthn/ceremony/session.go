package ceremony

import (
	"context"

	"github.com/google/uuid"

	"github.com/asgard/webauthnd/internal/webauthn/codec"
	"github.com/asgard/webauthnd/internal/webauthn/store"
)

// Stores bundles the repository/cache dependencies a ceremony operation
// needs.
type Stores struct {
	Users       store.UserRepository
	Credentials store.CredentialRepository
	Challenges  store.ChallengeStore
	Sessions    store.SessionStore
}

// newSessionID mints the opaque id carried via the x-session header
// a random UUIDv4's raw bytes,
// URL-base64 encoded.
func newSessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	b, err := id.MarshalBinary()
	if err != nil {
		return "", err
	}
	return codec.Base64URLEncode(b), nil
}

// consumeChallenge implements the fetch-then-mark-used step shared by both
// ceremony response legs.
func consumeChallenge(ctx context.Context, cs store.ChallengeStore, value string) error {
	if value == "" {
		return &ChallengeNotFoundError{}
	}
	ch, err := cs.Fetch(ctx, value)
	if err != nil {
		return err
	}
	if ch == nil {
		return &ChallengeNotFoundError{Value: value}
	}
	if ch.Used {
		return &ChallengeUsedError{Value: value}
	}
	return cs.MarkUsed(ctx, value)
}
