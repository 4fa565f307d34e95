package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/action"
	"github.com/mark3labs/dydx-signing/validation"
)

// Client is an HTTP client that signs every request it sends.
// It wraps a standard http.Client and signs via a custom RoundTripper.
type Client struct {
	*http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// NewClient creates a new signing HTTP client.
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		Client: &http.Client{},
	}

	if client.Transport == nil {
		client.Transport = http.DefaultTransport
	}

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	return client, nil
}

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		c.Client = httpClient
		if c.Transport == nil {
			c.Transport = http.DefaultTransport
		}
		return nil
	}
}

// WithEthPrivate signs requests as address with a, using method.
func WithEthPrivate(a *action.EthPrivate, address common.Address, method signing.SigningMethod) ClientOption {
	return func(c *Client) error {
		if a == nil {
			return signing.ErrNoSigner
		}
		c.Transport = &EthPrivateTransport{
			Base:          c.Transport,
			Action:        a,
			Address:       address,
			SigningMethod: method,
		}
		return nil
	}
}

// WithApiKey signs requests with API key credentials.
func WithApiKey(creds signing.ApiKeyCredentials) ClientOption {
	return func(c *Client) error {
		if err := validation.ValidateApiKeyCredentials(creds); err != nil {
			return err
		}
		c.Transport = &ApiKeyTransport{
			Base:        c.Transport,
			Credentials: creds,
		}
		return nil
	}
}

// WithClock sets the clock of the signing transport. Apply it after
// WithEthPrivate or WithApiKey.
func WithClock(clock *signing.Clock) ClientOption {
	return func(c *Client) error {
		switch t := c.Transport.(type) {
		case *EthPrivateTransport:
			t.Clock = clock
		case *ApiKeyTransport:
			t.Clock = clock
		}
		return nil
	}
}

// WithSignCallback sets the callback of the Ethereum signing transport.
// Apply it after WithEthPrivate.
func WithSignCallback(callback SignCallback) ClientOption {
	return func(c *Client) error {
		if t, ok := c.Transport.(*EthPrivateTransport); ok {
			t.OnSign = callback
		}
		return nil
	}
}
