package cose

// eddsaSPKIPrefix is the fixed DER SubjectPublicKeyInfo prefix for
// Ed25519, ASN.1: SEQUENCE { SEQUENCE { OID 1.3.101.112 } BIT STRING }.
var eddsaSPKIPrefix = []byte{0x30, 0x2A, 0x30, 0x05, 0x06, 0x03, 0x2B, 0x65, 0x70, 0x03, 0x21, 0x00}

const (
	AlgES256 int64 = -7
	AlgES384 int64 = -35
	AlgES512 int64 = -36
	AlgEdDSA int64 = -8
)

// MaterializePublicKeyBytes turns a COSE_Key into the byte form its
// algorithm's signature verifier expects:
//   - EdDSA: 44-byte DER SPKI (fixed prefix || 32-byte x).
//   - ES256/ES384/ES512: uncompressed SEC1 point 0x04||x||y, or compressed
//     0x03||x if y is absent.
//
// Any other alg fails with InvalidAlgorithmError.
func MaterializePublicKeyBytes(k *Key, alg int64) ([]byte, error) {
	switch alg {
	case AlgEdDSA:
		if len(k.X) == 0 {
			return nil, &MissingFieldError{"x"}
		}
		out := make([]byte, 0, len(eddsaSPKIPrefix)+len(k.X))
		out = append(out, eddsaSPKIPrefix...)
		out = append(out, k.X...)
		return out, nil
	case AlgES256, AlgES384, AlgES512:
		if len(k.X) == 0 {
			return nil, &MissingFieldError{"x"}
		}
		if len(k.Y) == 0 {
			out := make([]byte, 0, 1+len(k.X))
			out = append(out, 0x03)
			out = append(out, k.X...)
			return out, nil
		}
		out := make([]byte, 0, 1+len(k.X)+len(k.Y))
		out = append(out, 0x04)
		out = append(out, k.X...)
		out = append(out, k.Y...)
		return out, nil
	default:
		return nil, &InvalidAlgorithmError{Alg: alg}
	}
}
