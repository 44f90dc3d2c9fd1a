// Package crypto implements the fixed signature-verification table:
// ECDSA over P-256/P-384/P-521 and Ed25519, selected by COSE algorithm code.
package crypto

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"math/big"

	"github.com/asgard/webauthnd/internal/webauthn/cose"
)

// CryptoError wraps a verification backend failure distinct from a simple
// signature mismatch.
type CryptoError struct {
	Reason string
	Err    error
}

func (e *CryptoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("crypto: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("crypto: %s", e.Reason)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// InvalidAlgorithmError reports an alg code this package does not verify.
type InvalidAlgorithmError struct {
	Alg int64
}

func (e *InvalidAlgorithmError) Error() string {
	return fmt.Sprintf("crypto: unsupported algorithm %d", e.Alg)
}

// Verify checks signature over content under alg using pubKeyBytes in the
// materialized form cose.MaterializePublicKeyBytes produces. It returns
// (false, nil) for a structurally valid but non-matching signature, and a
// non-nil error only for a backend failure or an unrecognized alg.
func Verify(alg int64, pubKeyBytes, content, signature []byte) (bool, error) {
	switch alg {
	case cose.AlgES256:
		return verifyECDSA(elliptic.P256(), sha256.Sum256(content)[:], pubKeyBytes, signature)
	case cose.AlgES384:
		sum := sha512.Sum384(content)
		return verifyECDSA(elliptic.P384(), sum[:], pubKeyBytes, signature)
	case cose.AlgES512:
		sum := sha512.Sum512(content)
		return verifyECDSA(elliptic.P521(), sum[:], pubKeyBytes, signature)
	case cose.AlgEdDSA:
		return verifyEdDSA(pubKeyBytes, content, signature)
	default:
		return false, &InvalidAlgorithmError{Alg: alg}
	}
}

func verifyECDSA(curve elliptic.Curve, digest, pubKeyBytes, signature []byte) (bool, error) {
	x, y, err := unmarshalSEC1Point(curve, pubKeyBytes)
	if err != nil {
		return false, &CryptoError{Reason: "parsing EC public key", Err: err}
	}
	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	return ecdsa.VerifyASN1(pub, digest, signature), nil
}

func verifyEdDSA(pubKeyDER, content, signature []byte) (bool, error) {
	raw, err := extractEd25519Raw(pubKeyDER)
	if err != nil {
		return false, &CryptoError{Reason: "parsing Ed25519 public key", Err: err}
	}
	return ed25519.Verify(ed25519.PublicKey(raw), content, signature), nil
}

// unmarshalSEC1Point parses an uncompressed (0x04||x||y) point. Compressed
// points (0x03||x) are rejected here: point decompression is not
// implemented, matching the scope of this Relying Party (browsers always
// send uncompressed points for the curves this table supports).
func unmarshalSEC1Point(curve elliptic.Curve, b []byte) (*big.Int, *big.Int, error) {
	if len(b) == 0 || b[0] != 0x04 {
		return nil, nil, fmt.Errorf("unsupported or missing point prefix")
	}
	byteLen := (curve.Params().BitSize + 7) / 8
	if len(b) != 1+2*byteLen {
		return nil, nil, fmt.Errorf("invalid point length %d", len(b))
	}
	x := new(big.Int).SetBytes(b[1 : 1+byteLen])
	y := new(big.Int).SetBytes(b[1+byteLen:])
	if !curve.IsOnCurve(x, y) {
		return nil, nil, fmt.Errorf("point not on curve")
	}
	return x, y, nil
}

// extractEd25519Raw strips the fixed DER SPKI prefix this RP's codec layer
// always prepends, returning the 32-byte raw public key.
func extractEd25519Raw(der []byte) ([]byte, error) {
	const prefixLen = 12
	if len(der) != prefixLen+ed25519.PublicKeySize {
		return nil, fmt.Errorf("unexpected Ed25519 SPKI length %d", len(der))
	}
	return der[prefixLen:], nil
}
