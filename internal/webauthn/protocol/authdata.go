package protocol

import (
	"bytes"
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"

	"github.com/asgard/webauthnd/internal/webauthn/cose"
)

// Authenticator data flag bits.
const (
	FlagUserPresent           byte = 0x01
	FlagUserVerified          byte = 0x04
	FlagAttestedCredentialData byte = 0x40
	FlagExtensionData         byte = 0x80
)

// AttestedCredentialData is the authenticator-generated record binding a
// new public key to an aaguid and credential id.
type AttestedCredentialData struct {
	AAGUID              []byte
	CredentialID        []byte
	CredentialPublicKey *cose.Key
}

// AuthenticatorData is the parsed form of the authenticatorData byte layout:
// rp_id_hash[32] | flags[1] | counter[4 BE] | credential_data?
type AuthenticatorData struct {
	RPIDHash       []byte
	Flags          byte
	Counter        uint32
	CredentialData *AttestedCredentialData
	Raw            []byte
}

func (a *AuthenticatorData) IsUserPresent() bool {
	return a.Flags&FlagUserPresent != 0
}

func (a *AuthenticatorData) IsUserVerified() bool {
	return a.Flags&FlagUserVerified != 0
}

func (a *AuthenticatorData) HasAttestedCredentialData() bool {
	return a.Flags&FlagAttestedCredentialData != 0
}

// ParseAuthenticatorData parses a raw authenticatorData bytestring. The raw slice is
// preserved verbatim on the result for downstream hashing.
func ParseAuthenticatorData(raw []byte) (*AuthenticatorData, error) {
	if len(raw) < 37 {
		return nil, &AuthenticatorDataDeserializeError{"header: need at least 37 bytes"}
	}

	ad := &AuthenticatorData{
		RPIDHash: raw[0:32],
		Flags:    raw[32],
		Counter:  binary.BigEndian.Uint32(raw[33:37]),
		Raw:      raw,
	}

	rest := raw[37:]

	if !ad.HasAttestedCredentialData() {
		return ad, nil
	}

	if len(rest) < 18 {
		return nil, &AuthenticatorDataDeserializeError{"credential_data: need at least 18 bytes for aaguid+length"}
	}
	aaguid := rest[0:16]
	length := binary.BigEndian.Uint16(rest[16:18])
	rest = rest[18:]

	if len(rest) < int(length) {
		return nil, &AuthenticatorDataDeserializeError{"credential_data: credential_id truncated"}
	}
	if length == 0 {
		return nil, &AuthenticatorDataDeserializeError{"credential_data: zero-length credential_id"}
	}
	credID := rest[:length]
	rest = rest[length:]

	dec := cbor.NewDecoder(bytes.NewReader(rest))
	var coseKeyRaw cbor.RawMessage
	if err := dec.Decode(&coseKeyRaw); err != nil {
		return nil, &AuthenticatorDataDeserializeError{"credential_data: cose_key: " + err.Error()}
	}
	coseKey, err := cose.Decode(coseKeyRaw)
	if err != nil {
		return nil, &AuthenticatorDataDeserializeError{"credential_data: cose_key: " + err.Error()}
	}

	ad.CredentialData = &AttestedCredentialData{
		AAGUID:              aaguid,
		CredentialID:        credID,
		CredentialPublicKey: coseKey,
	}
	return ad, nil
}
