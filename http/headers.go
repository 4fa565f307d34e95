// Package http attaches the exchange's signed authentication headers to
// outgoing requests.
package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/onboarding"
)

// Header names.
const (
	HeaderSignature       = "DYDX-SIGNATURE"
	HeaderTimestamp       = "DYDX-TIMESTAMP"
	HeaderEthereumAddress = "DYDX-ETHEREUM-ADDRESS"
	HeaderApiKey          = "DYDX-API-KEY"
	HeaderPassphrase      = "DYDX-PASSPHRASE"
)

// OnboardingHeaders returns the headers of the onboarding request for
// address: the onboarding signature and the address itself.
func OnboardingHeaders(ctx context.Context, o *onboarding.Onboarding, address common.Address, method signing.SigningMethod) (http.Header, error) {
	sig, err := o.SignOnboarding(ctx, address, method)
	if err != nil {
		return nil, err
	}

	h := make(http.Header)
	h.Set(HeaderSignature, sig.String())
	h.Set(HeaderEthereumAddress, address.Hex())
	return h, nil
}

// SignApiKeyRequest returns the base64 HMAC-SHA256 of
// timestamp ‖ method ‖ requestPath ‖ body keyed with the decoded secret.
func SignApiKeyRequest(secret, timestamp, method, requestPath, body string) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(timestamp + method + requestPath + body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Secrets are issued base64url without padding; standard alphabets are
// accepted as well.
func decodeSecret(secret string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	} {
		if key, err := enc.DecodeString(secret); err == nil {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w: api secret is not base64", signing.ErrInvalidCredentials)
}
