package cose

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// strictMode rejects duplicate map keys instead of silently keeping the
// last one, which is fxamacker/cbor's default. This is what makes
// DuplicateLabelError detectable.
var strictMode = func() cbor.DecMode {
	m, err := cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic(err)
	}
	return m
}()

var ktyNames = map[string]KeyType{
	"OKP":       KtyOKP,
	"EC2":       KtyEC2,
	"Symmetric": KtySymmetric,
}

var curveNames = map[string]Curve{
	"P-256":   CurveP256,
	"P-384":   CurveP384,
	"P-521":   CurveP521,
	"X25519":  CurveX25519,
	"X448":    CurveX448,
	"Ed25519": CurveEd25519,
	"Ed448":   CurveEd448,
}

// Decode parses a CBOR COSE_Key map. The kty/alg/crv values may be encoded
// as either their integer code or their canonical string name — both are
// accepted.
func Decode(data []byte) (*Key, error) {
	raw := map[int64]cbor.RawMessage{}
	if err := strictMode.Unmarshal(data, &raw); err != nil {
		var dup *cbor.DupMapKeyError
		if errors.As(err, &dup) {
			return nil, &DuplicateLabelError{Label: toInt64(dup.Key)}
		}
		return nil, &DecodeError{Reason: "top-level map", Err: err}
	}

	key := &Key{}

	ktyRaw, ok := raw[LabelKty]
	if !ok {
		return nil, &DecodeError{Reason: "missing kty label"}
	}
	kty, err := decodeKty(ktyRaw)
	if err != nil {
		return nil, err
	}
	key.Kty = kty

	if algRaw, ok := raw[LabelAlg]; ok {
		alg, err := decodeIntOrAlgName(algRaw)
		if err != nil {
			return nil, err
		}
		key.Alg = alg
	}

	if crvkRaw, ok := raw[LabelCrvOrK]; ok {
		if kty == KtySymmetric {
			k, err := decodeBytes(crvkRaw, "k")
			if err != nil {
				return nil, err
			}
			key.K = k
		} else {
			crv, err := decodeCurve(crvkRaw)
			if err != nil {
				return nil, err
			}
			key.Crv = crv
		}
	}

	if xRaw, ok := raw[LabelX]; ok {
		x, err := decodeBytes(xRaw, "x")
		if err != nil {
			return nil, err
		}
		key.X = x
	}
	if yRaw, ok := raw[LabelY]; ok {
		y, err := decodeBytes(yRaw, "y")
		if err != nil {
			return nil, err
		}
		key.Y = y
	}
	if dRaw, ok := raw[LabelD]; ok {
		d, err := decodeBytes(dRaw, "d")
		if err != nil {
			return nil, err
		}
		key.D = d
	}
	if kidRaw, ok := raw[LabelKid]; ok {
		kid, err := decodeBytes(kidRaw, "kid")
		if err != nil {
			return nil, err
		}
		key.Kid = kid
	}
	if baseIVRaw, ok := raw[LabelBaseIV]; ok {
		iv, err := decodeBytes(baseIVRaw, "base_iv")
		if err != nil {
			return nil, err
		}
		key.BaseIV = iv
	}
	if opsRaw, ok := raw[LabelKeyOps]; ok {
		ops, err := decodeKeyOps(opsRaw)
		if err != nil {
			return nil, err
		}
		key.KeyOps = ops
	}

	return key, nil
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

func decodeKty(raw cbor.RawMessage) (KeyType, error) {
	var asInt int64
	if err := cbor.Unmarshal(raw, &asInt); err == nil {
		return KeyType(asInt), nil
	}
	var asStr string
	if err := cbor.Unmarshal(raw, &asStr); err == nil {
		kty, ok := ktyNames[asStr]
		if !ok {
			return 0, &DecodeError{Reason: fmt.Sprintf("unknown kty name %q", asStr)}
		}
		return kty, nil
	}
	return 0, &DecodeError{Reason: "kty is neither int nor string"}
}

func decodeCurve(raw cbor.RawMessage) (Curve, error) {
	var asInt int64
	if err := cbor.Unmarshal(raw, &asInt); err == nil {
		return Curve(asInt), nil
	}
	var asStr string
	if err := cbor.Unmarshal(raw, &asStr); err == nil {
		crv, ok := curveNames[asStr]
		if !ok {
			return 0, &DecodeError{Reason: fmt.Sprintf("unknown curve name %q", asStr)}
		}
		return crv, nil
	}
	return 0, &DecodeError{Reason: "crv is neither int nor string"}
}

var algNames = map[string]int64{
	"ES256": -7,
	"ES384": -35,
	"ES512": -36,
	"EdDSA": -8,
	"RS256": -257,
	"RS384": -258,
	"RS512": -259,
}

func decodeIntOrAlgName(raw cbor.RawMessage) (int64, error) {
	var asInt int64
	if err := cbor.Unmarshal(raw, &asInt); err == nil {
		return asInt, nil
	}
	var asStr string
	if err := cbor.Unmarshal(raw, &asStr); err == nil {
		alg, ok := algNames[asStr]
		if !ok {
			return 0, &DecodeError{Reason: fmt.Sprintf("unknown alg name %q", asStr)}
		}
		return alg, nil
	}
	return 0, &DecodeError{Reason: "alg is neither int nor string"}
}

func decodeBytes(raw cbor.RawMessage, field string) ([]byte, error) {
	var b []byte
	if err := cbor.Unmarshal(raw, &b); err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("field %q is not a bytestring", field), Err: err}
	}
	return b, nil
}

func decodeKeyOps(raw cbor.RawMessage) ([]KeyOp, error) {
	var ints []int64
	if err := cbor.Unmarshal(raw, &ints); err == nil {
		ops := make([]KeyOp, len(ints))
		for i, v := range ints {
			ops[i] = KeyOp(v)
		}
		return ops, nil
	}
	var strs []string
	if err := cbor.Unmarshal(raw, &strs); err != nil {
		return nil, &DecodeError{Reason: "key_ops is not an array", Err: err}
	}
	names := map[string]KeyOp{
		"sign": KeyOpSign, "verify": KeyOpVerify, "encrypt": KeyOpEncrypt,
		"decrypt": KeyOpDecrypt, "wrap key": KeyOpWrapKey, "unwrap key": KeyOpUnwrapKey,
		"derive key": KeyOpDeriveKey, "derive bits": KeyOpDeriveBits,
		"MAC create": KeyOpMACCreate, "MAC verify": KeyOpMACVerify,
	}
	ops := make([]KeyOp, 0, len(strs))
	for _, s := range strs {
		op, ok := names[s]
		if !ok {
			return nil, &DecodeError{Reason: fmt.Sprintf("unknown key_ops name %q", s)}
		}
		ops = append(ops, op)
	}
	return ops, nil
}
