// Package cose implements COSE_Key encoding/decoding (RFC 8152 §7), the
// CBOR integer-labeled map representation WebAuthn uses for authenticator
// public keys.
package cose

// Map labels, RFC 8152 §7.1 plus the EC2/OKP/Symmetric extensions.
const (
	LabelKty    = 1
	LabelKid    = 2
	LabelAlg    = 3
	LabelKeyOps = 4
	LabelBaseIV = 5

	LabelCrvOrK = -1 // crv for EC2/OKP, k for Symmetric
	LabelX      = -2
	LabelY      = -3
	LabelD      = -4
)

// KeyType is the COSE `kty` value.
type KeyType int64

const (
	KtyReserved  KeyType = 0
	KtyOKP       KeyType = 1
	KtyEC2       KeyType = 2
	KtySymmetric KeyType = 4
)

func (k KeyType) String() string {
	switch k {
	case KtyOKP:
		return "OKP"
	case KtyEC2:
		return "EC2"
	case KtySymmetric:
		return "Symmetric"
	default:
		return "Reserved"
	}
}

// Curve is the COSE `crv` value for EC2/OKP keys.
type Curve int64

const (
	CurveP256   Curve = 1
	CurveP384   Curve = 2
	CurveP521   Curve = 3
	CurveX25519 Curve = 4
	CurveX448   Curve = 5
	CurveEd25519 Curve = 6
	CurveEd448  Curve = 7
)

// KeyOp is one entry of the COSE `key_ops` set.
type KeyOp int64

const (
	KeyOpSign       KeyOp = 1
	KeyOpVerify     KeyOp = 2
	KeyOpEncrypt    KeyOp = 3
	KeyOpDecrypt    KeyOp = 4
	KeyOpWrapKey    KeyOp = 5
	KeyOpUnwrapKey  KeyOp = 6
	KeyOpDeriveKey  KeyOp = 7
	KeyOpDeriveBits KeyOp = 8
	KeyOpMACCreate  KeyOp = 9
	KeyOpMACVerify  KeyOp = 10
)

// Key is the decoded form of a COSE_Key. Only the fields relevant to
// WebAuthn signature verification are modeled; kid/base_iv/key_ops round
// trip but are not interpreted by the ceremony engine.
type Key struct {
	Kty     KeyType
	Alg     int64
	Crv     Curve
	X       []byte
	Y       []byte
	D       []byte
	K       []byte
	Kid     []byte
	KeyOps  []KeyOp
	BaseIV  []byte
}
