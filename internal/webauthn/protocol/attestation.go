package protocol

import "github.com/fxamacker/cbor/v2"

// Supported attestation statement formats.
const (
	FormatPacked = "packed"
	FormatNone   = "none"
)

// AttestationStatement is the decoded `attStmt` map. ecdaa_key_id and x5c
// round-trip but are not validated by this Relying Party: attestation-chain
// validation against the FIDO MDS is out of scope.
type AttestationStatement struct {
	Alg        int64    `cbor:"alg,omitempty"`
	Sig        []byte   `cbor:"sig,omitempty"`
	X5c        [][]byte `cbor:"x5c,omitempty"`
	EcdaaKeyID []byte   `cbor:"ecdaaKeyId,omitempty"`
}

// Attestation is the parsed attestation object plus the raw authData
// bytestring, preserved verbatim so the ceremony engine can hash exactly
// what the authenticator signed over.
type Attestation struct {
	Format        string
	Statement     AttestationStatement
	AuthData      *AuthenticatorData
	AuthDataBytes []byte
}

type rawAttestationObject struct {
	Fmt      string          `cbor:"fmt"`
	AttStmt  cbor.RawMessage `cbor:"attStmt"`
	AuthData []byte          `cbor:"authData"`
}

// ParseAttestationObject decodes the top-level CBOR map produced by
// navigator.credentials.create() and parses its nested
// authData bytestring.
func ParseAttestationObject(b []byte) (*Attestation, error) {
	var raw rawAttestationObject
	if err := cbor.Unmarshal(b, &raw); err != nil {
		return nil, &AttestationParseError{Err: err}
	}

	var stmt AttestationStatement
	switch raw.Fmt {
	case FormatPacked:
		if err := cbor.Unmarshal(raw.AttStmt, &stmt); err != nil {
			return nil, &AttestationParseError{Err: err}
		}
		if stmt.Alg == 0 {
			return nil, &AttestationParseError{Err: errMissingAlg}
		}
		if len(stmt.Sig) == 0 {
			return nil, &AttestationParseError{Err: errMissingSig}
		}
	case FormatNone:
		// att_stmt is empty; no signature present.
	default:
		return nil, &AttestationFormatTypeError{Format: raw.Fmt}
	}

	authData, err := ParseAuthenticatorData(raw.AuthData)
	if err != nil {
		return nil, err
	}

	return &Attestation{
		Format:        raw.Fmt,
		Statement:     stmt,
		AuthData:      authData,
		AuthDataBytes: raw.AuthData,
	}, nil
}

var errMissingAlg = simpleErr("attestation statement missing alg")
var errMissingSig = simpleErr("attestation statement missing sig")

type simpleErr string

func (e simpleErr) Error() string { return string(e) }
