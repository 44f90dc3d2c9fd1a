package cose

import "github.com/fxamacker/cbor/v2"

// hasOp reports whether ops contains any of candidates.
func hasOp(ops []KeyOp, candidates ...KeyOp) bool {
	for _, op := range ops {
		for _, c := range candidates {
			if op == c {
				return true
			}
		}
	}
	return false
}

// Encode validates the key_ops/kty invariants and
// serializes the key to its canonical integer-labeled CBOR map. Output
// always uses integer label values and integer kty/alg/crv codes,
// regardless of whether Decode accepted string names for this key.
func Encode(k *Key) ([]byte, error) {
	switch k.Kty {
	case KtyEC2, KtyOKP:
		if hasOp(k.KeyOps, KeyOpVerify, KeyOpDeriveKey, KeyOpDeriveBits) {
			if len(k.X) == 0 {
				return nil, &MissingFieldError{"x"}
			}
			if k.Crv == 0 {
				return nil, &MissingFieldError{"crv"}
			}
		}
		if hasOp(k.KeyOps, KeyOpSign) {
			if len(k.D) == 0 {
				return nil, &MissingFieldError{"d"}
			}
			if k.Crv == 0 {
				return nil, &MissingFieldError{"crv"}
			}
		}
	case KtySymmetric:
		if hasOp(k.KeyOps, KeyOpEncrypt, KeyOpDecrypt, KeyOpWrapKey, KeyOpUnwrapKey, KeyOpMACCreate, KeyOpMACVerify) {
			if len(k.X) != 0 || len(k.Y) != 0 || len(k.D) != 0 {
				return nil, &DecodeError{Reason: "symmetric key must not carry x, y, or d"}
			}
			if len(k.K) == 0 {
				return nil, &MissingFieldError{"k"}
			}
		}
	}

	m := map[int64]interface{}{
		LabelKty: int64(k.Kty),
	}
	if k.Alg != 0 {
		m[LabelAlg] = k.Alg
	}
	if k.Kty == KtySymmetric {
		if len(k.K) != 0 {
			m[LabelCrvOrK] = k.K
		}
	} else if k.Crv != 0 {
		m[LabelCrvOrK] = int64(k.Crv)
	}
	if len(k.X) != 0 {
		m[LabelX] = k.X
	}
	if len(k.Y) != 0 {
		m[LabelY] = k.Y
	}
	if len(k.D) != 0 {
		m[LabelD] = k.D
	}
	if len(k.Kid) != 0 {
		m[LabelKid] = k.Kid
	}
	if len(k.BaseIV) != 0 {
		m[LabelBaseIV] = k.BaseIV
	}
	if len(k.KeyOps) != 0 {
		ops := make([]int64, len(k.KeyOps))
		for i, op := range k.KeyOps {
			ops[i] = int64(op)
		}
		m[LabelKeyOps] = ops
	}

	opts := cbor.CanonicalEncOptions()
	em, err := opts.EncMode()
	if err != nil {
		return nil, &DecodeError{Reason: "building canonical encoder", Err: err}
	}
	out, err := em.Marshal(m)
	if err != nil {
		return nil, &DecodeError{Reason: "marshal", Err: err}
	}
	return out, nil
}
