package signature

import (
	"encoding/hex"
	"fmt"
)

// Rotations returns the four variants of sig in the order
// [original, v rotated, type rotated, both rotated].
// The type only rotates between NoPrepend and Personal; a byte that cannot
// rotate keeps its value, so entries may repeat.
func Rotations(sig TypedSignature) [4]TypedSignature {
	v, _ := rotateV(sig[64])
	t := rotateType(sig[RawLength])

	out := [4]TypedSignature{sig, sig, sig, sig}
	out[1][64] = v
	out[2][RawLength] = t
	out[3][64] = v
	out[3][RawLength] = t
	return out
}

// AllRotations is Rotations over the hex wire form. The input must be 132 hex
// characters after an optional 0x. The first entry is the input as given;
// rotated bytes are written in lowercase and the rest of the input keeps its
// case.
func AllRotations(s string) ([]string, error) {
	stripped := StripHexPrefix(s)
	if len(stripped) != TypedLength*2 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSignature, s)
	}
	var sig TypedSignature
	if _, err := hex.Decode(sig[:], []byte(stripped)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSignature, s)
	}

	rs, v, t := stripped[:128], stripped[128:130], stripped[130:]
	rv, rt := v, t
	if b, ok := rotateV(sig[64]); ok {
		rv = hex.EncodeToString([]byte{b})
	}
	if b := rotateType(sig[RawLength]); b != sig[RawLength] {
		rt = hex.EncodeToString([]byte{b})
	}

	return []string{
		"0x" + stripped,
		"0x" + rs + rv + t,
		"0x" + rs + v + rt,
		"0x" + rs + rv + rt,
	}, nil
}

func rotateType(t byte) byte {
	switch Type(t) {
	case NoPrepend:
		return byte(Personal)
	case Personal:
		return byte(NoPrepend)
	default:
		return t
	}
}
