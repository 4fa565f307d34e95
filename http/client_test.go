package http

import (
	"errors"
	"net/http"
	"testing"
	"time"

	signing "github.com/mark3labs/dydx-signing"
)

func TestNewClient(t *testing.T) {
	a, signer := newEthPrivate(t)

	tests := []struct {
		name    string
		opts    []ClientOption
		wantErr error
		check   func(t *testing.T, c *Client)
	}{
		{
			name: "no options uses default transport",
			check: func(t *testing.T, c *Client) {
				if c.Transport != http.DefaultTransport {
					t.Errorf("Transport = %T, want default", c.Transport)
				}
			},
		},
		{
			name: "eth private wraps custom client",
			opts: []ClientOption{
				WithHTTPClient(&http.Client{Timeout: 5 * time.Second}),
				WithEthPrivate(a, signer.Address(), signing.SigningMethodPersonal),
			},
			check: func(t *testing.T, c *Client) {
				if c.Timeout != 5*time.Second {
					t.Errorf("Timeout = %v", c.Timeout)
				}
				tr, ok := c.Transport.(*EthPrivateTransport)
				if !ok {
					t.Fatalf("Transport = %T, want *EthPrivateTransport", c.Transport)
				}
				if tr.Base != http.DefaultTransport {
					t.Errorf("Base = %T", tr.Base)
				}
				if tr.SigningMethod != signing.SigningMethodPersonal {
					t.Errorf("SigningMethod = %s", tr.SigningMethod)
				}
			},
		},
		{
			name: "clock applied to api key transport",
			opts: []ClientOption{
				WithApiKey(testCredentials),
				WithClock(signing.NewFixedClock(fixedNow)),
			},
			check: func(t *testing.T, c *Client) {
				tr, ok := c.Transport.(*ApiKeyTransport)
				if !ok {
					t.Fatalf("Transport = %T, want *ApiKeyTransport", c.Transport)
				}
				if tr.Clock == nil || !tr.Clock.Now().Equal(fixedNow) {
					t.Error("clock not applied")
				}
			},
		},
		{
			name:    "nil action",
			opts:    []ClientOption{WithEthPrivate(nil, signer.Address(), "")},
			wantErr: signing.ErrNoSigner,
		},
		{
			name: "bad api secret",
			opts: []ClientOption{WithApiKey(signing.ApiKeyCredentials{
				Key:        testCredentials.Key,
				Secret:     "%%%",
				Passphrase: testCredentials.Passphrase,
			})},
			wantErr: signing.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestRequestWithBody(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "http://example.com/v3/orders", nil)

	clone := RequestWithBody(req, []byte("abc"))
	if clone.ContentLength != 3 {
		t.Errorf("ContentLength = %d", clone.ContentLength)
	}
	clone.Header.Set("X-Test", "1")
	if req.Header.Get("X-Test") != "" {
		t.Error("clone shares headers with the original")
	}

	empty := RequestWithBody(req, nil)
	if empty.Body != http.NoBody || empty.ContentLength != 0 {
		t.Error("nil body should become NoBody")
	}
}
