package signing

import (
	"errors"
	"fmt"
)

// Standard signing error definitions

var (
	// ErrInvalidSigningMethod indicates a SigningMethod outside the supported set.
	ErrInvalidSigningMethod = errors.New("signing: invalid signing method")

	// ErrProviderUnavailable indicates that no wallet provider is configured
	// for an address that is not held locally.
	ErrProviderUnavailable = errors.New("signing: provider unavailable")

	// ErrProviderRPC indicates that the wallet provider answered with an error object.
	ErrProviderRPC = errors.New("signing: provider rpc error")

	// ErrMissingRequiredField indicates that a message does not match the
	// struct shape active for the configured network.
	ErrMissingRequiredField = errors.New("signing: missing or unexpected message field")

	// ErrUnsupportedDerivationMethod indicates a signing method whose output
	// cannot be replayed deterministically for key derivation.
	ErrUnsupportedDerivationMethod = errors.New("signing: signing method not supported for key derivation")

	// ErrSigningFailed indicates that producing a signature failed.
	ErrSigningFailed = errors.New("signing: signing failed")

	// ErrInvalidKey indicates an invalid private key.
	ErrInvalidKey = errors.New("signing: invalid private key")

	// ErrInvalidKeystore indicates a keystore file that cannot be read or
	// decrypted, or whose address does not match its key.
	ErrInvalidKeystore = errors.New("signing: invalid keystore file")

	// ErrInvalidMnemonic indicates an invalid BIP39 mnemonic phrase.
	ErrInvalidMnemonic = errors.New("signing: invalid mnemonic phrase")

	// ErrInvalidNetwork indicates an unknown or invalid network id.
	ErrInvalidNetwork = errors.New("signing: invalid or unsupported network")

	// ErrInvalidConfig indicates an invalid configuration value.
	ErrInvalidConfig = errors.New("signing: invalid configuration")

	// ErrInvalidCredentials indicates malformed API key credentials.
	ErrInvalidCredentials = errors.New("signing: invalid api key credentials")

	// ErrNoSigner indicates a signer built with neither local keys nor a provider.
	ErrNoSigner = errors.New("signing: no local key or provider configured")
)

// ErrorCode classifies a SigningError.
type ErrorCode string

const (
	ErrCodeInvalidSigningMethod        ErrorCode = "INVALID_SIGNING_METHOD"
	ErrCodeProviderUnavailable         ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderRPC                 ErrorCode = "PROVIDER_RPC_ERROR"
	ErrCodeMissingRequiredField        ErrorCode = "MISSING_REQUIRED_FIELD"
	ErrCodeUnsupportedDerivationMethod ErrorCode = "UNSUPPORTED_DERIVATION_METHOD"
	ErrCodeSigningFailed               ErrorCode = "SIGNING_FAILED"
)

// SigningError carries a code, a message and the underlying cause of a
// failed signing attempt.
type SigningError struct {
	Code    ErrorCode
	Message string
	Err     error
	Details map[string]interface{}
}

// NewSigningError creates a SigningError with an initialized Details map.
func NewSigningError(code ErrorCode, message string, err error) *SigningError {
	return &SigningError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// WithDetails sets a detail entry and returns the error for chaining.
func (e *SigningError) WithDetails(key string, value interface{}) *SigningError {
	e.Details[key] = value
	return e
}

// Is matches the sentinel corresponding to e.Code, so callers can test a
// SigningError with errors.Is(err, ErrProviderRPC) and still reach the
// wrapped cause through Unwrap.
func (e *SigningError) Is(target error) bool {
	switch e.Code {
	case ErrCodeInvalidSigningMethod:
		return target == ErrInvalidSigningMethod
	case ErrCodeProviderUnavailable:
		return target == ErrProviderUnavailable
	case ErrCodeProviderRPC:
		return target == ErrProviderRPC
	case ErrCodeMissingRequiredField:
		return target == ErrMissingRequiredField
	case ErrCodeUnsupportedDerivationMethod:
		return target == ErrUnsupportedDerivationMethod
	case ErrCodeSigningFailed:
		return target == ErrSigningFailed
	default:
		return false
	}
}
