package signature

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// PrependPersonal is the EIP-191 prefix without the message length.
	PrependPersonal = "\x19Ethereum Signed Message:\n"

	// PrependDecimal is the EIP-191 prefix for a 32-byte message, length as text.
	PrependDecimal = "\x19Ethereum Signed Message:\n32"

	// PrependHexadecimal is the EIP-191 prefix for a 32-byte message, length as one byte.
	PrependHexadecimal = "\x19Ethereum Signed Message:\n\x20"
)

// PrefixedHash returns the hash that was actually signed for digest under t.
// Personal signatures sign a message, not a digest, and are rejected here.
func PrefixedHash(digest common.Hash, t Type) (common.Hash, error) {
	switch t {
	case NoPrepend:
		return digest, nil
	case Decimal:
		return crypto.Keccak256Hash([]byte(PrependDecimal), digest.Bytes()), nil
	case Hexadecimal:
		return crypto.Keccak256Hash([]byte(PrependHexadecimal), digest.Bytes()), nil
	default:
		return common.Hash{}, fmt.Errorf("%w: %s cannot sign a digest", ErrInvalidSignatureType, t)
	}
}

// PersonalHash is the EIP-191 hash of message, identical to accounts.TextHash.
func PersonalHash(message string) common.Hash {
	return common.BytesToHash(accounts.TextHash([]byte(message)))
}

// RecoverDigest recovers the signer of digest. The prefix applied before
// hashing is taken from the signature's type byte.
func RecoverDigest(digest common.Hash, sig TypedSignature) (common.Address, error) {
	raw, t, err := Decode(sig)
	if err != nil {
		return common.Address{}, err
	}
	if t == Personal {
		return common.Address{}, fmt.Errorf("%w: personal signature over a digest", ErrInvalidSignatureType)
	}
	hash, err := PrefixedHash(digest, t)
	if err != nil {
		return common.Address{}, err
	}
	return recoverAddress(hash, raw)
}

// RecoverPersonal recovers the signer of a personal_sign message.
func RecoverPersonal(message string, sig TypedSignature) (common.Address, error) {
	raw, t, err := Decode(sig)
	if err != nil {
		return common.Address{}, err
	}
	if t != Personal {
		return common.Address{}, fmt.Errorf("%w: want %s, got %s", ErrInvalidSignatureType, Personal, t)
	}
	return recoverAddress(PersonalHash(message), raw)
}

// Recover dispatches on the type byte: personal signatures recover from
// message, everything else from digest.
func Recover(digest common.Hash, message string, sig TypedSignature) (common.Address, error) {
	if sig.Type() == Personal {
		return RecoverPersonal(message, sig)
	}
	return RecoverDigest(digest, sig)
}

func recoverAddress(hash common.Hash, raw []byte) (common.Address, error) {
	// crypto.SigToPub expects v in {0, 1}.
	rs := append([]byte(nil), raw...)
	switch rs[64] {
	case 27, 28:
		rs[64] -= 27
	case 0, 1:
	default:
		return common.Address{}, fmt.Errorf("%w: %02x", ErrInvalidVValue, rs[64])
	}
	pub, err := crypto.SigToPub(hash.Bytes(), rs)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// AddressesEqual compares two hex addresses ignoring case and 0x prefix.
// Empty input never matches.
func AddressesEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(StripHexPrefix(a), StripHexPrefix(b))
}
