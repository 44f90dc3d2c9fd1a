package model

import (
	"time"

	"github.com/asgard/webauthnd/internal/webauthn/cose"
)

// Credential is the durable record of a registered authenticator public
// key. Id is never reused across the store.
type Credential struct {
	ID                  string        `json:"id"`
	Type                PublicKeyCredentialType `json:"type"`
	Counter             uint32        `json:"counter"`
	AAGUID              []byte        `json:"aaguid"`
	CredentialPublicKey cose.Key      `json:"credentialPublicKey"`
	Flags               byte          `json:"flags"`
	Last                time.Time     `json:"last"`
}
