package model

import "fmt"

// WebauthnPolicy is the effective Relying Party policy. Every field is
// required; WebauthnPolicyBuilder.Build refuses to build a partial policy.
type WebauthnPolicy struct {
	RPID                    string                           `json:"rpId"`
	RPName                  string                           `json:"rpName"`
	KeyType                 PublicKeyCredentialType          `json:"keyType"`
	Alg                     COSEAlgorithm                    `json:"alg"`
	AuthenticatorAttachment AuthenticatorAttachment          `json:"authenticatorAttachment"`
	ResidentKey             ResidentKeyRequirement           `json:"residentKey"`
	UserVerification        UserVerificationRequirement      `json:"userVerification"`
	Origin                  string                           `json:"origin"`
	Attestation             AttestationConveyancePreference  `json:"attestation"`
	Timeout                 int                              `json:"timeout"`
	ValidateSignCount       bool                             `json:"validateSignCount"`
	AuthenticatorTransports []AuthenticatorTransport         `json:"authenticatorTransports,omitempty"`
}

// Update applies a merge-patch: every field present on builder overwrites
// the corresponding field on the policy; absent fields are preserved.
func (p *WebauthnPolicy) Update(b WebauthnPolicyBuilder) {
	if b.RPID != nil {
		p.RPID = *b.RPID
	}
	if b.RPName != nil {
		p.RPName = *b.RPName
	}
	if b.KeyType != nil {
		p.KeyType = *b.KeyType
	}
	if b.Alg != nil {
		p.Alg = *b.Alg
	}
	if b.AuthenticatorAttachment != nil {
		p.AuthenticatorAttachment = *b.AuthenticatorAttachment
	}
	if b.ResidentKey != nil {
		p.ResidentKey = *b.ResidentKey
	}
	if b.UserVerification != nil {
		p.UserVerification = *b.UserVerification
	}
	if b.Origin != nil {
		p.Origin = *b.Origin
	}
	if b.Attestation != nil {
		p.Attestation = *b.Attestation
	}
	if b.Timeout != nil {
		p.Timeout = *b.Timeout
	}
	if b.ValidateSignCount != nil {
		p.ValidateSignCount = *b.ValidateSignCount
	}
	if b.AuthenticatorTransports != nil {
		p.AuthenticatorTransports = *b.AuthenticatorTransports
	}
}

// WebauthnPolicyBuilder accumulates policy fields before Build validates
// that every one of them was explicitly set. Every field is a pointer so
// that "unset" and "zero value" are distinguishable — required both for
// Build's completeness check and for Update's merge-patch semantics.
type WebauthnPolicyBuilder struct {
	RPID                    *string                          `json:"rpId,omitempty"`
	RPName                  *string                          `json:"rpName,omitempty"`
	KeyType                 *PublicKeyCredentialType         `json:"keyType,omitempty"`
	Alg                     *COSEAlgorithm                   `json:"alg,omitempty"`
	AuthenticatorAttachment *AuthenticatorAttachment         `json:"authenticatorAttachment,omitempty"`
	ResidentKey             *ResidentKeyRequirement          `json:"residentKey,omitempty"`
	UserVerification        *UserVerificationRequirement     `json:"userVerification,omitempty"`
	Origin                  *string                          `json:"origin,omitempty"`
	Attestation             *AttestationConveyancePreference `json:"attestation,omitempty"`
	Timeout                 *int                             `json:"timeout,omitempty"`
	ValidateSignCount       *bool                            `json:"validateSignCount,omitempty"`
	AuthenticatorTransports *[]AuthenticatorTransport        `json:"authenticatorTransports,omitempty"`
}

func NewWebauthnPolicyBuilder() *WebauthnPolicyBuilder {
	return &WebauthnPolicyBuilder{}
}

func (b *WebauthnPolicyBuilder) WithRPID(v string) *WebauthnPolicyBuilder {
	b.RPID = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithRPName(v string) *WebauthnPolicyBuilder {
	b.RPName = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithKeyType(v PublicKeyCredentialType) *WebauthnPolicyBuilder {
	b.KeyType = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithAlg(v COSEAlgorithm) *WebauthnPolicyBuilder {
	b.Alg = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithAuthenticatorAttachment(v AuthenticatorAttachment) *WebauthnPolicyBuilder {
	b.AuthenticatorAttachment = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithResidentKey(v ResidentKeyRequirement) *WebauthnPolicyBuilder {
	b.ResidentKey = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithUserVerification(v UserVerificationRequirement) *WebauthnPolicyBuilder {
	b.UserVerification = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithOrigin(v string) *WebauthnPolicyBuilder {
	b.Origin = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithAttestation(v AttestationConveyancePreference) *WebauthnPolicyBuilder {
	b.Attestation = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithTimeout(v int) *WebauthnPolicyBuilder {
	b.Timeout = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithValidateSignCount(v bool) *WebauthnPolicyBuilder {
	b.ValidateSignCount = &v
	return b
}

func (b *WebauthnPolicyBuilder) WithAuthenticatorTransports(v []AuthenticatorTransport) *WebauthnPolicyBuilder {
	b.AuthenticatorTransports = &v
	return b
}

// EmptyWebauthnPolicyError reports that a required policy field was never
// set before Build was called. Configuration errors of this shape are
// fatal at startup; see cmd/webauthnd.
type EmptyWebauthnPolicyError struct {
	Field string
}

func (e *EmptyWebauthnPolicyError) Error() string {
	return fmt.Sprintf("empty webauthn policy field: %s", e.Field)
}

// Build validates that every field of the policy was explicitly set and
// returns the resulting WebauthnPolicy. The checks run in field-declaration
// order so the first missing field is always reported, matching the
// reference builder this is modeled on.
func (b *WebauthnPolicyBuilder) Build() (*WebauthnPolicy, error) {
	switch {
	case b.RPID == nil:
		return nil, &EmptyWebauthnPolicyError{"rp_id"}
	case b.RPName == nil:
		return nil, &EmptyWebauthnPolicyError{"rp_name"}
	case b.KeyType == nil:
		return nil, &EmptyWebauthnPolicyError{"key_type"}
	case b.Alg == nil:
		return nil, &EmptyWebauthnPolicyError{"alg"}
	case b.AuthenticatorAttachment == nil:
		return nil, &EmptyWebauthnPolicyError{"authenticator_attachment"}
	case b.ResidentKey == nil:
		return nil, &EmptyWebauthnPolicyError{"resident_key"}
	case b.UserVerification == nil:
		return nil, &EmptyWebauthnPolicyError{"user_verification"}
	case b.Origin == nil:
		return nil, &EmptyWebauthnPolicyError{"origin"}
	case b.Attestation == nil:
		return nil, &EmptyWebauthnPolicyError{"attestation"}
	case b.Timeout == nil:
		return nil, &EmptyWebauthnPolicyError{"timeout"}
	case b.ValidateSignCount == nil:
		return nil, &EmptyWebauthnPolicyError{"validate_sign_count"}
	case b.AuthenticatorTransports == nil:
		return nil, &EmptyWebauthnPolicyError{"authenticator_transports"}
	}

	return &WebauthnPolicy{
		RPID:                    *b.RPID,
		RPName:                  *b.RPName,
		KeyType:                 *b.KeyType,
		Alg:                     *b.Alg,
		AuthenticatorAttachment: *b.AuthenticatorAttachment,
		ResidentKey:             *b.ResidentKey,
		UserVerification:        *b.UserVerification,
		Origin:                  *b.Origin,
		Attestation:             *b.Attestation,
		Timeout:                 *b.Timeout,
		ValidateSignCount:       *b.ValidateSignCount,
		AuthenticatorTransports: *b.AuthenticatorTransports,
	}, nil
}
