package signing

import "strings"

// SigningMethod selects how a signature is obtained for an action.
type SigningMethod string

const (
	// SigningMethodCompatibility signs the unprefixed digest and falls back
	// to the EIP-191 prefixed interpretation if the result does not self-verify.
	SigningMethodCompatibility SigningMethod = "Compatibility"

	// SigningMethodUnsafeHash signs the EIP-712 digest with no prefix.
	SigningMethodUnsafeHash SigningMethod = "UnsafeHash"

	// SigningMethodHash signs the EIP-712 digest with the EIP-191 prefix (eth_sign).
	SigningMethodHash SigningMethod = "Hash"

	// SigningMethodTypedData signs the structured payload (eth_signTypedData).
	SigningMethodTypedData SigningMethod = "TypedData"

	// SigningMethodMetaMask uses eth_signTypedData_v3 with a JSON string payload.
	SigningMethodMetaMask SigningMethod = "MetaMask"

	// SigningMethodMetaMaskLatest uses eth_signTypedData_v4 with a JSON string payload.
	SigningMethodMetaMaskLatest SigningMethod = "MetaMaskLatest"

	// SigningMethodCoinbaseWallet uses eth_signTypedData_v4 with an object payload.
	SigningMethodCoinbaseWallet SigningMethod = "CoinbaseWallet"

	// SigningMethodPersonal signs a deterministic JSON rendering with personal_sign.
	SigningMethodPersonal SigningMethod = "Personal"
)

// SigningMethods lists every supported SigningMethod.
var SigningMethods = []SigningMethod{
	SigningMethodCompatibility,
	SigningMethodUnsafeHash,
	SigningMethodHash,
	SigningMethodTypedData,
	SigningMethodMetaMask,
	SigningMethodMetaMaskLatest,
	SigningMethodCoinbaseWallet,
	SigningMethodPersonal,
}

// Valid reports whether m is a supported signing method.
func (m SigningMethod) Valid() bool {
	for _, known := range SigningMethods {
		if m == known {
			return true
		}
	}
	return false
}

// ParseSigningMethod resolves a method name case-insensitively.
func ParseSigningMethod(name string) (SigningMethod, error) {
	for _, known := range SigningMethods {
		if strings.EqualFold(string(known), name) {
			return known, nil
		}
	}
	return "", ErrInvalidSigningMethod
}

// Deterministic reports whether signatures produced with m can be replayed
// to re-derive the same keys.
func (m SigningMethod) Deterministic() bool {
	switch m {
	case SigningMethodHash,
		SigningMethodTypedData,
		SigningMethodMetaMask,
		SigningMethodMetaMaskLatest,
		SigningMethodCoinbaseWallet,
		SigningMethodPersonal:
		return true
	default:
		return false
	}
}

// OnboardingActionString is the fixed action text signed during onboarding.
// These strings are part of key derivation and must never change.
type OnboardingActionString string

const (
	// OnboardingActionOnboarding is signed to derive the default API credentials.
	OnboardingActionOnboarding OnboardingActionString = "dYdX Onboarding"

	// OnboardingActionKeyDerivation is signed to derive the STARK key pair.
	OnboardingActionKeyDerivation OnboardingActionString = "dYdX STARK Key"
)

// KeyPair is a STARK-curve key pair. All values are 64-character lowercase
// hex strings without a 0x prefix.
type KeyPair struct {
	// PublicKey is the x coordinate of the public point.
	PublicKey string `json:"publicKey"`

	// PublicKeyYCoordinate is needed when registering the key.
	PublicKeyYCoordinate string `json:"publicKeyYCoordinate"`

	// PrivateKey is the scalar.
	PrivateKey string `json:"privateKey"`
}

// ApiKeyCredentials are the default exchange API credentials derived from
// the onboarding signature.
type ApiKeyCredentials struct {
	// Key is UUID formatted (8-4-4-4-12 hex).
	Key string `json:"key"`

	// Secret is a 40 character base64url string.
	Secret string `json:"secret"`

	// Passphrase is a 20 character base64url string.
	Passphrase string `json:"passphrase"`
}
