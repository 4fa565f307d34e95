// Package onboarding derives a user's STARK key pair and default API
// credentials from signatures on fixed onboarding messages. The same
// Ethereum key signing the same message on the same network always yields
// the same keys, so nothing needs to be stored server-side.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/action"
	"github.com/mark3labs/dydx-signing/signature"
	"github.com/mark3labs/dydx-signing/stark"
	"github.com/mark3labs/dydx-signing/validation"
)

// DefaultMethod is used when no signing method is given.
const DefaultMethod = signing.SigningMethodTypedData

// ErrStarkKeyNotFound indicates that no signature rotation yields the registered key.
var ErrStarkKeyNotFound = errors.New("onboarding: no signature rotation matches the registered STARK key")

// Onboarding signs the onboarding messages for one network and derives keys from them.
type Onboarding struct {
	cfg    signing.Config
	action *action.Onboarding
	logger *slog.Logger
}

// Option configures Onboarding.
type Option func(*Onboarding)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Onboarding) {
		o.logger = logger
	}
}

// New creates an Onboarding that signs with signer on the network in cfg.
func New(signer signing.Signer, cfg signing.Config, opts ...Option) (*Onboarding, error) {
	if signer == nil {
		return nil, signing.ErrNoSigner
	}

	o := &Onboarding{cfg: cfg}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	a, err := action.NewOnboarding(cfg, action.WithSigner(signer), action.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	o.action = a
	return o, nil
}

// Action returns the underlying onboarding action, for verification.
func (o *Onboarding) Action() *action.Onboarding {
	return o.action
}

// Message returns the onboarding message for text on this network.
func (o *Onboarding) Message(text signing.OnboardingActionString) action.OnboardingMessage {
	return action.NewOnboardingMessage(o.cfg, text)
}

// SignOnboarding signs the onboarding message. The result authenticates the
// onboarding request and seeds the default API credentials.
func (o *Onboarding) SignOnboarding(ctx context.Context, address common.Address, method signing.SigningMethod) (signature.TypedSignature, error) {
	if method == "" {
		method = DefaultMethod
	}
	return o.action.Sign(ctx, address, method, o.Message(signing.OnboardingActionOnboarding))
}

// DeriveStarkKey derives the STARK key pair of address.
func (o *Onboarding) DeriveStarkKey(ctx context.Context, address common.Address, method signing.SigningMethod) (*signing.KeyPair, error) {
	sig, err := o.signForDerivation(ctx, address, method, signing.OnboardingActionKeyDerivation)
	if err != nil {
		return nil, err
	}
	return KeyPairFromSignature(sig)
}

// RecoverDefaultApiCredentials derives the default API credentials of address.
func (o *Onboarding) RecoverDefaultApiCredentials(ctx context.Context, address common.Address, method signing.SigningMethod) (*signing.ApiKeyCredentials, error) {
	sig, err := o.signForDerivation(ctx, address, method, signing.OnboardingActionOnboarding)
	if err != nil {
		return nil, err
	}
	return ApiCredentialsFromSignature(sig), nil
}

// DeriveAllStarkKeys derives a key pair from each rotation of the key
// derivation signature, dropping duplicates. The first entry is the key
// DeriveStarkKey returns.
func (o *Onboarding) DeriveAllStarkKeys(ctx context.Context, address common.Address, method signing.SigningMethod) ([]*signing.KeyPair, error) {
	sig, err := o.signForDerivation(ctx, address, method, signing.OnboardingActionKeyDerivation)
	if err != nil {
		return nil, err
	}

	rotations := signature.Rotations(sig)
	seen := make(map[signature.TypedSignature]struct{}, len(rotations))
	keys := make([]*signing.KeyPair, 0, len(rotations))
	for _, r := range rotations {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}

		kp, err := KeyPairFromSignature(r)
		if err != nil {
			return nil, err
		}
		keys = append(keys, kp)
	}
	return keys, nil
}

// FindStarkKey returns the derived key pair whose public key equals
// registeredPublicKey, trying every signature rotation.
func (o *Onboarding) FindStarkKey(ctx context.Context, address common.Address, method signing.SigningMethod, registeredPublicKey string) (*signing.KeyPair, error) {
	if err := validation.ValidateStarkKey(registeredPublicKey); err != nil {
		return nil, err
	}
	keys, err := o.DeriveAllStarkKeys(ctx, address, method)
	if err != nil {
		return nil, err
	}

	want := normalizeKey(registeredPublicKey)
	for i, kp := range keys {
		if kp.PublicKey == want {
			o.logger.Debug("matched registered stark key", "address", address.Hex(), "rotation", i)
			return kp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrStarkKeyNotFound, registeredPublicKey)
}

func (o *Onboarding) signForDerivation(ctx context.Context, address common.Address, method signing.SigningMethod, text signing.OnboardingActionString) (signature.TypedSignature, error) {
	if method == "" {
		method = DefaultMethod
	}
	if !method.Valid() {
		return signature.TypedSignature{}, signing.NewSigningError(
			signing.ErrCodeInvalidSigningMethod,
			fmt.Sprintf("invalid signing method %q", method),
			nil,
		)
	}
	if !method.Deterministic() {
		return signature.TypedSignature{}, signing.NewSigningError(
			signing.ErrCodeUnsupportedDerivationMethod,
			fmt.Sprintf("%s signatures cannot be replayed for key derivation", method),
			nil,
		)
	}

	o.logger.Debug("deriving from onboarding signature",
		"address", address.Hex(),
		"action", text,
		"method", method,
		"chainId", o.cfg.NetworkID,
	)
	return o.action.Sign(ctx, address, method, o.Message(text))
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "0x"))
	if len(key) < 64 {
		key = strings.Repeat("0", 64-len(key)) + key
	}
	return key
}

// KeyPairFromSignature derives a STARK key pair from the full typed
// signature bytes.
func KeyPairFromSignature(sig signature.TypedSignature) (*signing.KeyPair, error) {
	return stark.KeyPairFromData(sig.Bytes())
}

// KeyPairFromData derives a STARK key pair from arbitrary data.
func KeyPairFromData(data []byte) (*signing.KeyPair, error) {
	return stark.KeyPairFromData(data)
}
