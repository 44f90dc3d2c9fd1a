package model

import (
	"crypto/rand"
	"fmt"

	"github.com/asgard/webauthnd/internal/webauthn/codec"
)

// UserEntity identifies a registrant by a stable name. Id is regenerated
// every time a UserEntity is built without one — only the credential id is
// the durable handle across registrations of the same name.
type UserEntity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// NewUserEntity builds a UserEntity with a freshly generated 32-byte
// URL-base64-encoded id. Name must be non-empty.
func NewUserEntity(name, displayName string) (*UserEntity, error) {
	if name == "" {
		return nil, fmt.Errorf("user entity: name is required")
	}
	id, err := randomID(32)
	if err != nil {
		return nil, err
	}
	return &UserEntity{
		ID:          codec.Base64URLEncode(id),
		Name:        name,
		DisplayName: displayName,
	}, nil
}

func randomID(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("random id: %w", err)
	}
	return b, nil
}
