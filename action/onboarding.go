package action

import (
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/eip712"
)

var (
	// OnboardingStructPrimary is the onboarding shape on the primary network.
	OnboardingStructPrimary = eip712.NewStruct(signing.DefaultDomainName, "action", "onlySignOn")

	// OnboardingStructTestnet is the onboarding shape everywhere else.
	OnboardingStructTestnet = eip712.NewStruct(signing.DefaultDomainName, "action")
)

// OnboardingStruct selects the onboarding shape for chainID.
func OnboardingStruct(chainID int64) eip712.Struct {
	if signing.IsPrimary(chainID) {
		return OnboardingStructPrimary
	}
	return OnboardingStructTestnet
}

// OnboardingMessage is signed to onboard and to derive keys. OnlySignOn is
// required on the primary network and must be empty elsewhere.
type OnboardingMessage struct {
	Action     signing.OnboardingActionString
	OnlySignOn string
}

// NewOnboardingMessage returns the message for action with OnlySignOn taken from cfg.
func NewOnboardingMessage(cfg signing.Config, action signing.OnboardingActionString) OnboardingMessage {
	return OnboardingMessage{Action: action, OnlySignOn: cfg.OnlySignOn}
}

// Fields implements Message.
func (m OnboardingMessage) Fields() map[string]string {
	fields := map[string]string{"action": string(m.Action)}
	if m.OnlySignOn != "" {
		fields["onlySignOn"] = m.OnlySignOn
	}
	return fields
}

// Onboarding signs OnboardingMessage.
type Onboarding = Action[OnboardingMessage]

// NewOnboarding creates the onboarding action for cfg.
func NewOnboarding(cfg signing.Config, opts ...Option) (*Onboarding, error) {
	return New[OnboardingMessage](cfg, OnboardingStruct, opts...)
}
