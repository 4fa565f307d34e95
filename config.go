package signing

import (
	"fmt"

	"github.com/mark3labs/dydx-signing/eip712"
)

const (
	// DefaultDomainName is the EIP-712 domain name and primary type.
	DefaultDomainName = "dYdX"

	// DefaultVersion is the EIP-712 domain version.
	DefaultVersion = "1.0"
)

// Config holds the values fixed at construction for every action.
type Config struct {
	// NetworkID is the chain id bound into the domain separator.
	NetworkID int64

	// DomainName is the EIP-712 domain name; it doubles as primary type.
	DomainName string

	// Version is the EIP-712 domain version.
	Version string

	// OnlySignOn is the origin added to onboarding messages on the primary network.
	OnlySignOn string
}

// DefaultConfig returns the configuration used by the exchange for networkID.
func DefaultConfig(networkID int64) Config {
	cfg := Config{
		NetworkID:  networkID,
		DomainName: DefaultDomainName,
		Version:    DefaultVersion,
	}
	if IsPrimary(networkID) {
		cfg.OnlySignOn = DefaultOnlySignOn
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.NetworkID <= 0 {
		return fmt.Errorf("%w: network id must be positive, got %d", ErrInvalidConfig, c.NetworkID)
	}
	if c.DomainName == "" {
		return fmt.Errorf("%w: domain name cannot be empty", ErrInvalidConfig)
	}
	if c.Version == "" {
		return fmt.Errorf("%w: version cannot be empty", ErrInvalidConfig)
	}
	if IsPrimary(c.NetworkID) && c.OnlySignOn == "" {
		return fmt.Errorf("%w: onlySignOn is required on the primary network", ErrInvalidConfig)
	}
	if !IsPrimary(c.NetworkID) && c.OnlySignOn != "" {
		return fmt.Errorf("%w: onlySignOn is only used on the primary network", ErrInvalidConfig)
	}
	return nil
}

// Domain returns the EIP-712 domain for the configuration.
func (c Config) Domain() eip712.Domain {
	return eip712.Domain{
		Name:    c.DomainName,
		Version: c.Version,
		ChainID: c.NetworkID,
	}
}
