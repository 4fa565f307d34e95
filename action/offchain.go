package action

import (
	"time"

	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/eip712"
)

// ExpirationLayout renders expirations as RFC 1123 with a literal GMT zone.
const ExpirationLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

const onboardingStaticString = "DYDX-ONBOARDING"

// OffChainStruct is the shape of expiring off-chain actions.
var OffChainStruct = eip712.NewStruct(signing.DefaultDomainName, "action", "expiration")

// OffChainMessage is an action string that stops verifying at Expiration.
type OffChainMessage struct {
	Action     string
	Expiration time.Time
}

// Fields implements Message.
func (m OffChainMessage) Fields() map[string]string {
	return map[string]string{
		"action":     m.Action,
		"expiration": m.Expiration.UTC().Format(ExpirationLayout),
	}
}

// ExpiresAt implements Expiring.
func (m OffChainMessage) ExpiresAt() time.Time {
	return m.Expiration
}

// OffChain signs OffChainMessage.
type OffChain = Action[OffChainMessage]

// NewOffChain creates the expiring off-chain action for cfg.
func NewOffChain(cfg signing.Config, opts ...Option) (*OffChain, error) {
	return New[OffChainMessage](cfg, Fixed(OffChainStruct), opts...)
}

// OnboardingActionString is the action text of an expiring onboarding authorization.
func OnboardingActionString() string {
	return onboardingStaticString
}

// APIKeyActionString is the action text authorizing one API key request:
// body, request path and method concatenated.
func APIKeyActionString(method, requestPath, body string) string {
	return body + requestPath + method
}
