package model

// RelyingPartyEntity identifies the RP in outbound creation options.
type RelyingPartyEntity struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// PubKeyCredParam is one entry of pubKeyCredParams.
type PubKeyCredParam struct {
	Type PublicKeyCredentialType `json:"type"`
	Alg  COSEAlgorithm           `json:"alg"`
}

// AuthenticatorSelectionCriteria narrows which authenticators may satisfy a
// creation ceremony.
type AuthenticatorSelectionCriteria struct {
	AuthenticatorAttachment AuthenticatorAttachment     `json:"authenticatorAttachment,omitempty"`
	ResidentKey             ResidentKeyRequirement      `json:"residentKey,omitempty"`
	UserVerification        UserVerificationRequirement `json:"userVerification,omitempty"`
}

// PublicKeyCredentialCreationOptions is returned from the creation-challenge
// operation and fed to navigator.credentials.create().
type PublicKeyCredentialCreationOptions struct {
	RP                     RelyingPartyEntity             `json:"rp"`
	User                   UserEntity                     `json:"user"`
	Challenge              string                         `json:"challenge"`
	PubKeyCredParams       []PubKeyCredParam              `json:"pubKeyCredParams"`
	Timeout                int                            `json:"timeout"`
	Attestation            AttestationConveyancePreference `json:"attestation"`
	AuthenticatorSelection AuthenticatorSelectionCriteria  `json:"authenticatorSelection"`
}

// CredentialDescriptor identifies an allowed/excluded credential by id.
type CredentialDescriptor struct {
	Type       PublicKeyCredentialType  `json:"type"`
	ID         string                   `json:"id"`
	Transports []AuthenticatorTransport `json:"transports,omitempty"`
}

// PublicKeyCredentialRequestOptions is returned from the assertion-challenge
// operation and fed to navigator.credentials.get().
type PublicKeyCredentialRequestOptions struct {
	Challenge        string                       `json:"challenge"`
	Timeout          int                          `json:"timeout"`
	RPID             string                       `json:"rpId,omitempty"`
	AllowCredentials []CredentialDescriptor       `json:"allowCredentials"`
	UserVerification UserVerificationRequirement  `json:"userVerification"`
}

// NewCreationOptions builds creation options for a registration ceremony.
func NewCreationOptions(policy *WebauthnPolicy, user UserEntity, challenge string) PublicKeyCredentialCreationOptions {
	return PublicKeyCredentialCreationOptions{
		RP: RelyingPartyEntity{
			ID:   policy.RPID,
			Name: policy.RPName,
		},
		User:      user,
		Challenge: challenge,
		PubKeyCredParams: []PubKeyCredParam{
			{Type: PublicKey, Alg: policy.Alg},
		},
		Timeout:     policy.Timeout,
		Attestation: policy.Attestation,
		AuthenticatorSelection: AuthenticatorSelectionCriteria{
			AuthenticatorAttachment: policy.AuthenticatorAttachment,
			ResidentKey:             policy.ResidentKey,
			UserVerification:        policy.UserVerification,
		},
	}
}

// NewRequestOptions builds assertion options for an authentication ceremony.
// Only the single credential the caller passes is offered in allowCredentials.
func NewRequestOptions(policy *WebauthnPolicy, cred Credential, challenge string) PublicKeyCredentialRequestOptions {
	return PublicKeyCredentialRequestOptions{
		Challenge: challenge,
		Timeout:   policy.Timeout,
		RPID:      policy.RPID,
		AllowCredentials: []CredentialDescriptor{
			{Type: PublicKey, ID: cred.ID, Transports: policy.AuthenticatorTransports},
		},
		UserVerification: policy.UserVerification,
	}
}
