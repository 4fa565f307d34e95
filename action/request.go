package action

import (
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/eip712"
)

// RequestStruct is the shape of API-key and Ethereum-authenticated request
// actions. Both actions share it; servers verify either with the same type string.
var RequestStruct = eip712.NewStruct(signing.DefaultDomainName, "method", "requestPath", "body", "timestamp")

// RequestMessage describes one HTTP request.
type RequestMessage struct {
	Method      string
	RequestPath string
	Body        string
	Timestamp   string
}

// Fields implements Message.
func (m RequestMessage) Fields() map[string]string {
	return map[string]string{
		"method":      m.Method,
		"requestPath": m.RequestPath,
		"body":        m.Body,
		"timestamp":   m.Timestamp,
	}
}

type (
	// ApiKeyMessage authorizes API key management requests.
	ApiKeyMessage = RequestMessage

	// EthPrivateMessage authorizes requests authenticated by Ethereum key.
	EthPrivateMessage = RequestMessage

	// ApiKey signs ApiKeyMessage.
	ApiKey = Action[RequestMessage]

	// EthPrivate signs EthPrivateMessage.
	EthPrivate = Action[RequestMessage]
)

// NewApiKey creates the API-key action for cfg.
func NewApiKey(cfg signing.Config, opts ...Option) (*ApiKey, error) {
	return New[RequestMessage](cfg, Fixed(RequestStruct), opts...)
}

// NewEthPrivate creates the Ethereum-authenticated request action for cfg.
func NewEthPrivate(cfg signing.Config, opts ...Option) (*EthPrivate, error) {
	return New[RequestMessage](cfg, Fixed(RequestStruct), opts...)
}
