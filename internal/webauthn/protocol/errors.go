// Package protocol implements the CTAP/WebAuthn wire parsers: the
// authenticator-data byte layout and the CBOR attestation object.
package protocol

import "fmt"

// AuthenticatorDataDeserializeError reports a short read or malformed
// section while parsing authenticator data.
type AuthenticatorDataDeserializeError struct {
	Section string
}

func (e *AuthenticatorDataDeserializeError) Error() string {
	return fmt.Sprintf("authenticator data deserialize: %s", e.Section)
}

// AttestationFormatTypeError reports an attestation `fmt` other than
// `packed` or `none`.
type AttestationFormatTypeError struct {
	Format string
}

func (e *AttestationFormatTypeError) Error() string {
	return fmt.Sprintf("unsupported attestation format %q", e.Format)
}

// AttestationParseError wraps a CBOR decode failure on the top-level
// attestation object.
type AttestationParseError struct {
	Err error
}

func (e *AttestationParseError) Error() string {
	return fmt.Sprintf("attestation parse error: %v", e.Err)
}

func (e *AttestationParseError) Unwrap() error { return e.Err }

// ClientDataParseError wraps a JSON decode failure on clientDataJSON.
type ClientDataParseError struct {
	Err error
}

func (e *ClientDataParseError) Error() string {
	return fmt.Sprintf("client data parse error: %v", e.Err)
}

func (e *ClientDataParseError) Unwrap() error { return e.Err }
