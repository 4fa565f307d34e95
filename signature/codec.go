// Package signature encodes, decodes, rotates and recovers typed signatures:
// a 65-byte ECDSA signature followed by one byte naming the hash-prefixing
// convention that was applied before signing.
package signature

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSignatureLength indicates a raw or typed signature of the wrong size.
	ErrInvalidSignatureLength = errors.New("signature: invalid signature length")

	// ErrInvalidVValue indicates a recovery id outside {0, 1, 27, 28}.
	ErrInvalidVValue = errors.New("signature: invalid v value")

	// ErrInvalidSignatureType indicates an unknown signature type tag.
	ErrInvalidSignatureType = errors.New("signature: invalid signature type")

	// ErrInvalidSignature indicates input that is not a typed signature.
	ErrInvalidSignature = errors.New("invalid signature")
)

const (
	// RawLength is the size of r ‖ s ‖ v.
	RawLength = 65

	// TypedLength is the size of a raw signature plus its type byte.
	TypedLength = RawLength + 1
)

// Type records which prefixing convention was applied to the hash before signing.
type Type byte

const (
	// NoPrepend means the digest was signed as-is.
	NoPrepend Type = 0

	// Decimal means "\x19Ethereum Signed Message:\n32" was prepended.
	Decimal Type = 1

	// Hexadecimal means "\x19Ethereum Signed Message:\n\x20" was prepended.
	Hexadecimal Type = 2

	// Personal means a personal_sign message (not a digest) was signed.
	Personal Type = 3
)

// Valid reports whether t is a known signature type.
func (t Type) Valid() bool {
	switch t {
	case NoPrepend, Decimal, Hexadecimal, Personal:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	switch t {
	case NoPrepend:
		return "NO_PREPEND"
	case Decimal:
		return "DECIMAL"
	case Hexadecimal:
		return "HEXADECIMAL"
	case Personal:
		return "PERSONAL"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

// TypedSignature is r ‖ s ‖ v ‖ type.
type TypedSignature [TypedLength]byte

// Parse decodes a hex typed signature, with or without 0x prefix.
// Only the length is checked; v and type are validated by Decode.
func Parse(s string) (TypedSignature, error) {
	var sig TypedSignature
	stripped := StripHexPrefix(s)
	if len(stripped) != TypedLength*2 {
		return sig, fmt.Errorf("%w: %s", ErrInvalidSignatureLength, s)
	}
	if _, err := hex.Decode(sig[:], []byte(stripped)); err != nil {
		return sig, fmt.Errorf("%w: %s", ErrInvalidSignature, s)
	}
	return sig, nil
}

// String returns the 0x-prefixed lowercase hex form (132 hex characters).
func (s TypedSignature) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// Bytes returns a copy of the signature bytes.
func (s TypedSignature) Bytes() []byte {
	b := make([]byte, TypedLength)
	copy(b, s[:])
	return b
}

// Raw returns a copy of r ‖ s ‖ v.
func (s TypedSignature) Raw() []byte {
	b := make([]byte, RawLength)
	copy(b, s[:RawLength])
	return b
}

// R returns the first 32 bytes.
func (s TypedSignature) R() []byte {
	return append([]byte(nil), s[:32]...)
}

// S returns bytes 32..64.
func (s TypedSignature) S() []byte {
	return append([]byte(nil), s[32:64]...)
}

// V returns the recovery id byte as stored.
func (s TypedSignature) V() byte {
	return s[64]
}

// Type returns the trailing type byte as stored.
func (s TypedSignature) Type() Type {
	return Type(s[RawLength])
}

// MarshalText implements encoding.TextMarshaler.
func (s TypedSignature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TypedSignature) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Encode normalizes v of raw to 27/28 and appends t.
func Encode(raw []byte, t Type) (TypedSignature, error) {
	if !t.Valid() {
		return TypedSignature{}, fmt.Errorf("%w: %d", ErrInvalidSignatureType, byte(t))
	}
	fixed, err := FixRawSignature(raw)
	if err != nil {
		return TypedSignature{}, err
	}
	return Tag(fixed, t)
}

// Tag appends t to raw without touching v. Wallet typed-data responses are
// tagged this way, which is why a recovery id may need rotating later.
func Tag(raw []byte, t Type) (TypedSignature, error) {
	var sig TypedSignature
	if len(raw) != RawLength {
		return sig, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureLength, len(raw), RawLength)
	}
	if !t.Valid() {
		return sig, fmt.Errorf("%w: %d", ErrInvalidSignatureType, byte(t))
	}
	copy(sig[:], raw)
	sig[RawLength] = byte(t)
	return sig, nil
}

// Decode splits a typed signature into its raw part and type.
func Decode(sig TypedSignature) ([]byte, Type, error) {
	t := sig.Type()
	if !t.Valid() {
		return nil, t, fmt.Errorf("%w: %d", ErrInvalidSignatureType, byte(t))
	}
	return sig.Raw(), t, nil
}

// DecodeString parses and decodes a hex typed signature.
func DecodeString(s string) ([]byte, Type, error) {
	sig, err := Parse(s)
	if err != nil {
		return nil, 0, err
	}
	return Decode(sig)
}

// FixRawSignature returns a copy of raw with v 0/1 mapped to 27/28.
func FixRawSignature(raw []byte) ([]byte, error) {
	if len(raw) != RawLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureLength, len(raw), RawLength)
	}
	fixed := append([]byte(nil), raw...)
	switch v := fixed[64]; v {
	case 0, 1:
		fixed[64] = v + 27
	case 27, 28:
	default:
		return nil, fmt.Errorf("%w: %02x", ErrInvalidVValue, v)
	}
	return fixed, nil
}

// RotateV returns a copy of raw with v toggled between 0/1 and 27/28
// indexing: 00↔1b, 01↔1c.
func RotateV(raw []byte) ([]byte, error) {
	if len(raw) != RawLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureLength, len(raw), RawLength)
	}
	rotated := append([]byte(nil), raw...)
	v, ok := rotateV(rotated[64])
	if !ok {
		return nil, fmt.Errorf("%w: %02x", ErrInvalidVValue, rotated[64])
	}
	rotated[64] = v
	return rotated, nil
}

func rotateV(v byte) (byte, bool) {
	switch v {
	case 0x00:
		return 0x1b, true
	case 0x01:
		return 0x1c, true
	case 0x1b:
		return 0x00, true
	case 0x1c:
		return 0x01, true
	default:
		return v, false
	}
}

// StripHexPrefix removes a leading 0x.
func StripHexPrefix(s string) string {
	return strings.TrimPrefix(s, "0x")
}
