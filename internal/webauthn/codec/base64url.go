// Package codec implements the base64url encoding WebAuthn wire values use.
package codec

import "encoding/base64"

// Base64URLEncode encodes b using the URL-safe, no-padding alphabet.
func Base64URLEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Base64URLDecode decodes s, rejecting characters outside the URL-safe
// alphabet. decode(encode(b)) == b for all byte strings.
func Base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
