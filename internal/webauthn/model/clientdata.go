package model

// ClientDataType distinguishes the two ceremony legs the browser signs over.
type ClientDataType string

const (
	ClientDataCreate ClientDataType = "webauthn.create"
	ClientDataGet    ClientDataType = "webauthn.get"
)

// TokenBinding is carried through unvalidated; the core does not implement
// Token Binding verification.
type TokenBinding struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

// ClientData is the parsed form of clientDataJSON.
type ClientData struct {
	Type         ClientDataType `json:"type"`
	Challenge    string         `json:"challenge"`
	Origin       string         `json:"origin"`
	CrossOrigin  bool           `json:"crossOrigin,omitempty"`
	TokenBinding *TokenBinding  `json:"tokenBinding,omitempty"`
}

// AttestationResponse carries the two CBOR-bearing fields of a creation
// response.
type AttestationResponse struct {
	AttestationObject string `json:"attestationObject"`
	ClientDataJSON    string `json:"clientDataJSON"`
}

// CreationPublicKeyCredential is the browser's response to a creation
// challenge.
type CreationPublicKeyCredential struct {
	ID       string                   `json:"id"`
	RawID    string                   `json:"rawId"`
	Type     PublicKeyCredentialType  `json:"type"`
	Response AttestationResponse      `json:"response"`
}

// AssertionResponseFields carries the signed fields of an assertion
// response.
type AssertionResponseFields struct {
	AuthenticatorData string `json:"authenticatorData"`
	ClientDataJSON    string `json:"clientDataJSON"`
	Signature         string `json:"signature"`
	UserHandle        string `json:"userHandle,omitempty"`
}

// AssertionPublicKeyCredential is the browser's response to an assertion
// challenge.
type AssertionPublicKeyCredential struct {
	ID       string                  `json:"id"`
	RawID    string                  `json:"rawId"`
	Type     PublicKeyCredentialType `json:"type"`
	Response AssertionResponseFields `json:"response"`
}
