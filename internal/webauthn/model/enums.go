// Package model defines the WebAuthn data model: policy, user, credential,
// and the wire-level option/response types exchanged with the browser.
package model

import (
	"encoding/json"
	"fmt"
)

// COSEAlgorithm is a COSE algorithm identifier, per RFC 8152 §8 and the IANA
// COSE Algorithms registry. Only a handful of codes are understood for
// signature verification; the rest are recognized names only.
type COSEAlgorithm int64

const (
	AlgES256 COSEAlgorithm = -7
	AlgES384 COSEAlgorithm = -35
	AlgES512 COSEAlgorithm = -36
	AlgEdDSA COSEAlgorithm = -8
	AlgRS256 COSEAlgorithm = -257
	AlgRS384 COSEAlgorithm = -258
	AlgRS512 COSEAlgorithm = -259
)

func (a COSEAlgorithm) String() string {
	switch a {
	case AlgES256:
		return "ES256"
	case AlgES384:
		return "ES384"
	case AlgES512:
		return "ES512"
	case AlgEdDSA:
		return "EdDSA"
	case AlgRS256:
		return "RS256"
	case AlgRS384:
		return "RS384"
	case AlgRS512:
		return "RS512"
	default:
		return fmt.Sprintf("COSEAlgorithm(%d)", int64(a))
	}
}

func (a COSEAlgorithm) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(a))
}

func (a *COSEAlgorithm) UnmarshalJSON(b []byte) error {
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*a = COSEAlgorithm(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("cose algorithm: %w", err)
	}
	switch s {
	case "ES256":
		*a = AlgES256
	case "ES384":
		*a = AlgES384
	case "ES512":
		*a = AlgES512
	case "EdDSA":
		*a = AlgEdDSA
	case "RS256":
		*a = AlgRS256
	case "RS384":
		*a = AlgRS384
	case "RS512":
		*a = AlgRS512
	default:
		return fmt.Errorf("unknown cose algorithm name %q", s)
	}
	return nil
}

// PublicKeyCredentialType enumerates the `type` field of a credential.
type PublicKeyCredentialType string

const PublicKey PublicKeyCredentialType = "public-key"

// AuthenticatorAttachment constrains which class of authenticator may
// satisfy a ceremony.
type AuthenticatorAttachment string

const (
	AttachmentPlatform      AuthenticatorAttachment = "platform"
	AttachmentCrossPlatform AuthenticatorAttachment = "cross-platform"
	AttachmentMultiPlatform AuthenticatorAttachment = "multi-platform"
)

// ResidentKeyRequirement expresses the RP's preference for a discoverable
// credential.
type ResidentKeyRequirement string

const (
	ResidentKeyDiscouraged ResidentKeyRequirement = "discouraged"
	ResidentKeyPreferred   ResidentKeyRequirement = "preferred"
	ResidentKeyRequired    ResidentKeyRequirement = "required"
)

// UserVerificationRequirement expresses the RP's requirement that the
// authenticator perform user verification (PIN, biometric, etc).
type UserVerificationRequirement string

const (
	UserVerificationDiscouraged UserVerificationRequirement = "discouraged"
	UserVerificationPreferred   UserVerificationRequirement = "preferred"
	UserVerificationRequired    UserVerificationRequirement = "required"
)

// AttestationConveyancePreference expresses how much attestation detail the
// RP wants conveyed.
type AttestationConveyancePreference string

const (
	AttestationNone       AttestationConveyancePreference = "none"
	AttestationIndirect   AttestationConveyancePreference = "indirect"
	AttestationDirect     AttestationConveyancePreference = "direct"
	AttestationEnterprise AttestationConveyancePreference = "enterprise"
)

// AuthenticatorTransport enumerates the channel an authenticator may be
// reached over.
type AuthenticatorTransport string

const (
	TransportUSB      AuthenticatorTransport = "usb"
	TransportNFC      AuthenticatorTransport = "nfc"
	TransportBLE      AuthenticatorTransport = "ble"
	TransportInternal AuthenticatorTransport = "internal"
)
