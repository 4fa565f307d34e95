// Package action binds message shapes to the EIP-712 domain and a Signer.
//
// An Action is generic over its message type. The concrete actions used by
// the exchange are Onboarding, ApiKey, EthPrivate and OffChain; each only
// fixes the struct shape, optionally as a function of the chain id.
package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/eip712"
	"github.com/mark3labs/dydx-signing/signature"
)

// Message is an action payload. Fields returns the struct member values by
// name; omitted members are reported as missing when hashing.
type Message interface {
	Fields() map[string]string
}

// Expiring is implemented by messages that stop verifying after a deadline.
type Expiring interface {
	ExpiresAt() time.Time
}

// StructSelector returns the struct shape active on chainID.
type StructSelector func(chainID int64) eip712.Struct

// Fixed returns a selector that ignores the chain id.
func Fixed(s eip712.Struct) StructSelector {
	return func(int64) eip712.Struct { return s }
}

// Action signs and verifies messages of type M.
type Action[M Message] struct {
	shape  eip712.Struct
	domain eip712.Domain
	signer signing.Signer
	clock  *signing.Clock
	logger *slog.Logger
}

type options struct {
	signer signing.Signer
	clock  *signing.Clock
	logger *slog.Logger
}

// Option configures an Action.
type Option func(*options)

// WithSigner sets the signer used by Sign.
func WithSigner(signer signing.Signer) Option {
	return func(o *options) {
		o.signer = signer
	}
}

// WithClock sets the clock used to check expirations.
func WithClock(clock *signing.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates an action for cfg whose shape is chosen by selector.
func New[M Message](cfg signing.Config, selector StructSelector, opts ...Option) (*Action[M], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = signing.NewClock()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &Action[M]{
		shape:  selector(cfg.NetworkID),
		domain: cfg.Domain(),
		signer: o.signer,
		clock:  o.clock,
		logger: o.logger,
	}, nil
}

// Struct returns the struct shape active for this action's network.
func (a *Action[M]) Struct() eip712.Struct {
	return a.shape
}

// Domain returns the EIP-712 domain.
func (a *Action[M]) Domain() eip712.Domain {
	return a.domain
}

// Hash returns the EIP-712 digest of msg.
func (a *Action[M]) Hash(msg M) (common.Hash, error) {
	structHash, err := a.shape.Hash(msg.Fields())
	if err != nil {
		return common.Hash{}, fieldError(err)
	}
	return eip712.Digest(a.domain.Hash(), structHash), nil
}

// TypedData returns the wallet typed-data payload for msg.
func (a *Action[M]) TypedData(msg M) (eip712.TypedData, error) {
	fields := msg.Fields()
	if _, err := a.shape.Values(fields); err != nil {
		return eip712.TypedData{}, fieldError(err)
	}
	return eip712.NewTypedData(a.domain, a.shape, fields), nil
}

// PersonalMessage returns the personal_sign text for msg.
func (a *Action[M]) PersonalMessage(msg M) (string, error) {
	fields := msg.Fields()
	if _, err := a.shape.Values(fields); err != nil {
		return "", fieldError(err)
	}
	return eip712.PersonalMessage(a.domain, fields)
}

// Payload returns every representation of msg a signing method may need.
func (a *Action[M]) Payload(msg M) (eip712.Payload, error) {
	digest, err := a.Hash(msg)
	if err != nil {
		return eip712.Payload{}, err
	}
	fields := msg.Fields()
	personal, err := eip712.PersonalMessage(a.domain, fields)
	if err != nil {
		return eip712.Payload{}, err
	}
	return eip712.Payload{
		Digest:          digest,
		TypedData:       eip712.NewTypedData(a.domain, a.shape, fields),
		PersonalMessage: personal,
	}, nil
}

// Sign signs msg for address with method.
func (a *Action[M]) Sign(ctx context.Context, address common.Address, method signing.SigningMethod, msg M) (signature.TypedSignature, error) {
	if a.signer == nil {
		return signature.TypedSignature{}, signing.ErrNoSigner
	}
	if !method.Valid() {
		return signature.TypedSignature{}, signing.NewSigningError(
			signing.ErrCodeInvalidSigningMethod,
			fmt.Sprintf("invalid signing method %q", method),
			nil,
		)
	}

	payload, err := a.Payload(msg)
	if err != nil {
		return signature.TypedSignature{}, err
	}

	a.logger.Debug("signing action",
		"primaryType", a.shape.PrimaryType,
		"chainId", a.domain.ChainID,
		"method", method,
	)
	return a.signer.Sign(ctx, address, method, payload)
}

// Verify reports whether sig over msg was produced by expected. Personal
// signatures are checked against the personal message, all other types
// against the digest. Messages implementing Expiring fail once their
// expiration is not after the clock's current time.
//
// A malformed type byte or a message of the wrong shape is an error; a
// signature that does not recover to expected is not.
func (a *Action[M]) Verify(sig signature.TypedSignature, expected common.Address, msg M) (bool, error) {
	if _, _, err := signature.Decode(sig); err != nil {
		return false, err
	}

	payload, err := a.Payload(msg)
	if err != nil {
		return false, err
	}

	recovered, err := signature.Recover(payload.Digest, payload.PersonalMessage, sig)
	if err != nil {
		a.logger.Debug("signature recovery failed", "error", err)
		return false, nil
	}
	if !signature.AddressesEqual(recovered.Hex(), expected.Hex()) {
		return false, nil
	}

	if e, ok := any(msg).(Expiring); ok {
		if !e.ExpiresAt().After(a.clock.Now()) {
			return false, nil
		}
	}
	return true, nil
}

// VerifyString parses sig and calls Verify.
func (a *Action[M]) VerifyString(sig string, expected common.Address, msg M) (bool, error) {
	parsed, err := signature.Parse(sig)
	if err != nil {
		return false, err
	}
	return a.Verify(parsed, expected, msg)
}

func fieldError(err error) error {
	if errors.Is(err, eip712.ErrMissingField) || errors.Is(err, eip712.ErrUnexpectedField) {
		return signing.NewSigningError(signing.ErrCodeMissingRequiredField, "message does not match struct", err)
	}
	return err
}
