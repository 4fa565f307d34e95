// Package evm implements signing.Signer for Ethereum keys held in-process
// or behind a wallet provider reachable over JSON-RPC.
package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/eip712"
	"github.com/mark3labs/dydx-signing/signature"
)

// Signer implements signing.Signer. Addresses whose keys were loaded with
// WithPrivateKey, WithKeystore or WithMnemonic are signed locally; any other
// address is delegated to the provider.
type Signer struct {
	keys     map[common.Address]*ecdsa.PrivateKey
	order    []common.Address
	provider Provider
	logger   *slog.Logger
}

// SignerOption configures a Signer.
type SignerOption func(*Signer) error

// NewSigner creates a new signer with the given options.
func NewSigner(opts ...SignerOption) (*Signer, error) {
	s := &Signer{
		keys: make(map[common.Address]*ecdsa.PrivateKey),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if len(s.keys) == 0 && s.provider == nil {
		return nil, signing.ErrNoSigner
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// WithPrivateKey adds a private key from a hex string.
func WithPrivateKey(hexKey string) SignerOption {
	return func(s *Signer) error {
		hexKey = strings.TrimPrefix(hexKey, "0x")

		privateKey, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			return signing.ErrInvalidKey
		}

		s.addKey(privateKey)
		return nil
	}
}

// WithProvider sets the wallet provider used for addresses without a local key.
func WithProvider(provider Provider) SignerOption {
	return func(s *Signer) error {
		if provider == nil {
			return signing.ErrProviderUnavailable
		}
		s.provider = provider
		return nil
	}
}

// WithRPCURL dials a wallet provider at url (http, ws or ipc).
func WithRPCURL(url string) SignerOption {
	return func(s *Signer) error {
		client, err := rpc.DialContext(context.Background(), url)
		if err != nil {
			return fmt.Errorf("%w: %v", signing.ErrProviderUnavailable, err)
		}
		s.provider = client
		return nil
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) SignerOption {
	return func(s *Signer) error {
		s.logger = logger
		return nil
	}
}

func (s *Signer) addKey(privateKey *ecdsa.PrivateKey) {
	address := crypto.PubkeyToAddress(privateKey.PublicKey)
	if _, ok := s.keys[address]; !ok {
		s.order = append(s.order, address)
	}
	s.keys[address] = privateKey
}

// Addresses returns the addresses of the locally held keys in the order they were added.
func (s *Signer) Addresses() []common.Address {
	out := make([]common.Address, len(s.order))
	copy(out, s.order)
	return out
}

// Address returns the first locally held address, or the zero address.
func (s *Signer) Address() common.Address {
	if len(s.order) == 0 {
		return common.Address{}
	}
	return s.order[0]
}

// Close releases the provider when it has a Close method, such as the
// client dialed by WithRPCURL. The signer must not be used afterwards.
func (s *Signer) Close() {
	if closer, ok := s.provider.(interface{ Close() }); ok {
		closer.Close()
	}
}

// SignsLocally reports whether method can be served by a locally held key.
// MetaMask, MetaMaskLatest and CoinbaseWallet always need the provider.
func SignsLocally(method signing.SigningMethod) bool {
	r, ok := routes[method]
	return ok && r.local != nil
}

// HasKey reports whether address is signed locally.
func (s *Signer) HasKey(address common.Address) bool {
	_, ok := s.keys[address]
	return ok
}

// Sign implements signing.Signer.
func (s *Signer) Sign(ctx context.Context, address common.Address, method signing.SigningMethod, payload eip712.Payload) (signature.TypedSignature, error) {
	r, ok := routes[method]
	if !ok {
		return signature.TypedSignature{}, signing.NewSigningError(
			signing.ErrCodeInvalidSigningMethod,
			fmt.Sprintf("invalid signing method %q", method),
			nil,
		)
	}

	if key, ok := s.keys[address]; ok && r.local != nil {
		s.logger.Debug("signing locally", "address", address.Hex(), "method", method)
		return r.local(key, payload)
	}

	if s.provider == nil {
		return signature.TypedSignature{}, signing.NewSigningError(
			signing.ErrCodeProviderUnavailable,
			"no local key or provider for address",
			nil,
		).WithDetails("address", address.Hex())
	}

	s.logger.Debug("signing with provider", "address", address.Hex(), "method", method)
	return r.remote(ctx, s, address, payload)
}

// Verify checks sig against payload for address. Personal signatures are
// checked against the personal message, all others against the digest.
func Verify(address common.Address, payload eip712.Payload, sig signature.TypedSignature) (bool, error) {
	if !sig.Type().Valid() {
		return false, fmt.Errorf("%w: %d", signature.ErrInvalidSignatureType, byte(sig.Type()))
	}
	recovered, err := signature.Recover(payload.Digest, payload.PersonalMessage, sig)
	if err != nil {
		return false, nil
	}
	return recovered == address, nil
}

func signHash(key *ecdsa.PrivateKey, hash common.Hash, t signature.Type) (signature.TypedSignature, error) {
	raw, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return signature.TypedSignature{}, signing.NewSigningError(signing.ErrCodeSigningFailed, "local signing failed", err)
	}
	return signature.Encode(raw, t)
}
