package http

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/action"
)

// EthPrivateTransport is a RoundTripper that authenticates every request
// with an Ethereum signature over {method, requestPath, body, timestamp}.
type EthPrivateTransport struct {
	// Base is the underlying RoundTripper (typically http.DefaultTransport).
	Base http.RoundTripper

	// Action signs the request message.
	Action *action.EthPrivate

	// Address is the signing Ethereum address.
	Address common.Address

	// SigningMethod defaults to SigningMethodHash.
	SigningMethod signing.SigningMethod

	// Clock supplies the request timestamp. Defaults to signing.NewClock().
	Clock *signing.Clock

	// OnSign is called after each request with the outcome.
	OnSign SignCallback
}

// RoundTrip implements http.RoundTripper.
func (t *EthPrivateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	method := t.SigningMethod
	if method == "" {
		method = signing.SigningMethodHash
	}

	body, err := readBody(req)
	if err != nil {
		return nil, t.fail(req, method, startTime, err)
	}

	timestamp := clockOrDefault(t.Clock).ISOString()
	msg := action.EthPrivateMessage{
		Method:      req.Method,
		RequestPath: req.URL.RequestURI(),
		Body:        string(body),
		Timestamp:   timestamp,
	}

	sig, err := t.Action.Sign(req.Context(), t.Address, method, msg)
	if err != nil {
		return nil, t.fail(req, method, startTime, err)
	}

	signed := RequestWithBody(req, body)
	signed.Header.Set(HeaderSignature, sig.String())
	signed.Header.Set(HeaderTimestamp, timestamp)
	signed.Header.Set(HeaderEthereumAddress, t.Address.Hex())

	resp, err := baseOrDefault(t.Base).RoundTrip(signed)
	if err != nil {
		return nil, t.fail(req, method, startTime, err)
	}

	if t.OnSign != nil {
		t.OnSign(SignEvent{
			Type:      SignEventSuccess,
			Timestamp: time.Now(),
			Method:    req.Method,
			URL:       req.URL.String(),
			Address:   t.Address,
			Signing:   method,
			Duration:  time.Since(startTime),
		})
	}
	return resp, nil
}

func (t *EthPrivateTransport) fail(req *http.Request, method signing.SigningMethod, startTime time.Time, err error) error {
	if t.OnSign != nil {
		t.OnSign(SignEvent{
			Type:      SignEventFailure,
			Timestamp: time.Now(),
			Method:    req.Method,
			URL:       req.URL.String(),
			Address:   t.Address,
			Signing:   method,
			Error:     err,
			Duration:  time.Since(startTime),
		})
	}
	return err
}

// ApiKeyTransport is a RoundTripper that authenticates every request with
// API key credentials and an HMAC signature.
type ApiKeyTransport struct {
	// Base is the underlying RoundTripper (typically http.DefaultTransport).
	Base http.RoundTripper

	// Credentials are the API key, secret and passphrase.
	Credentials signing.ApiKeyCredentials

	// Clock supplies the request timestamp. Defaults to signing.NewClock().
	Clock *signing.Clock
}

// RoundTrip implements http.RoundTripper.
func (t *ApiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := readBody(req)
	if err != nil {
		return nil, err
	}

	timestamp := clockOrDefault(t.Clock).ISOString()
	sig, err := SignApiKeyRequest(t.Credentials.Secret, timestamp, req.Method, req.URL.RequestURI(), string(body))
	if err != nil {
		return nil, err
	}

	signed := RequestWithBody(req, body)
	signed.Header.Set(HeaderSignature, sig)
	signed.Header.Set(HeaderApiKey, t.Credentials.Key)
	signed.Header.Set(HeaderTimestamp, timestamp)
	signed.Header.Set(HeaderPassphrase, t.Credentials.Passphrase)

	return baseOrDefault(t.Base).RoundTrip(signed)
}

func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	return io.ReadAll(req.Body)
}

func baseOrDefault(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		return http.DefaultTransport
	}
	return base
}

func clockOrDefault(clock *signing.Clock) *signing.Clock {
	if clock == nil {
		return signing.NewClock()
	}
	return clock
}

// RequestWithBody clones an HTTP request with a new body.
// This is needed because request bodies can only be read once.
func RequestWithBody(req *http.Request, body []byte) *http.Request {
	clone := req.Clone(req.Context())
	if body == nil {
		clone.Body = http.NoBody
		clone.ContentLength = 0
		return clone
	}
	clone.Body = io.NopCloser(bytes.NewReader(body))
	clone.ContentLength = int64(len(body))
	return clone
}
