// Package stark derives STARK-curve key pairs from arbitrary data.
package stark

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	starkcurve "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"
	"github.com/ethereum/go-ethereum/crypto"
	signing "github.com/mark3labs/dydx-signing"
)

var (
	// ErrEmptyData indicates key derivation from no input.
	ErrEmptyData = errors.New("stark: empty data")

	// ErrInvalidPrivateKey indicates a scalar outside [1, n).
	ErrInvalidPrivateKey = errors.New("stark: invalid private key")
)

// hexLength is the width of every hex value in a KeyPair.
const hexLength = 64

// PrivateKeyFromData returns keccak256(data) with the low five bits shifted
// out, which always lands below the curve order.
func PrivateKeyFromData(data []byte) (*big.Int, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	hash := crypto.Keccak256(data)
	return new(big.Int).Rsh(new(big.Int).SetBytes(hash), 5), nil
}

// PublicKey returns the affine coordinates of priv·G.
func PublicKey(priv *big.Int) (x, y *big.Int, err error) {
	if priv == nil || priv.Sign() <= 0 || priv.Cmp(fr.Modulus()) >= 0 {
		return nil, nil, ErrInvalidPrivateKey
	}

	_, g := starkcurve.Generators()
	var p starkcurve.G1Affine
	p.ScalarMultiplication(&g, priv)

	return p.X.BigInt(new(big.Int)), p.Y.BigInt(new(big.Int)), nil
}

// KeyPairFromPrivateKey builds the key pair for priv.
func KeyPairFromPrivateKey(priv *big.Int) (*signing.KeyPair, error) {
	x, y, err := PublicKey(priv)
	if err != nil {
		return nil, err
	}
	return &signing.KeyPair{
		PublicKey:            FormatHex(x),
		PublicKeyYCoordinate: FormatHex(y),
		PrivateKey:           FormatHex(priv),
	}, nil
}

// KeyPairFromData derives a key pair from data, usually a typed signature.
func KeyPairFromData(data []byte) (*signing.KeyPair, error) {
	priv, err := PrivateKeyFromData(data)
	if err != nil {
		return nil, err
	}
	return KeyPairFromPrivateKey(priv)
}

// ParsePrivateKey parses a hex private key, with or without 0x.
func ParsePrivateKey(s string) (*big.Int, error) {
	priv, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	if !ok {
		return nil, fmt.Errorf("%w: not hex", ErrInvalidPrivateKey)
	}
	if priv.Sign() <= 0 || priv.Cmp(fr.Modulus()) >= 0 {
		return nil, ErrInvalidPrivateKey
	}
	return priv, nil
}

// FormatHex renders n as 64 lowercase hex digits without 0x.
func FormatHex(n *big.Int) string {
	return fmt.Sprintf("%0*x", hexLength, n)
}

// IsOnCurve reports whether the hex coordinates name a point on the curve.
func IsOnCurve(x, y string) bool {
	xi, okX := new(big.Int).SetString(strings.TrimPrefix(x, "0x"), 16)
	yi, okY := new(big.Int).SetString(strings.TrimPrefix(y, "0x"), 16)
	if !okX || !okY {
		return false
	}
	var p starkcurve.G1Affine
	p.X.SetBigInt(xi)
	p.Y.SetBigInt(yi)
	return p.IsOnCurve()
}
