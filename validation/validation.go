// Package validation checks user-supplied addresses, keys and credentials
// before they reach the signers.
package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	signing "github.com/mark3labs/dydx-signing"
)

var (
	// evmAddressRegex matches Ethereum-style addresses (0x followed by 40 hex chars)
	evmAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

	// starkKeyRegex matches a STARK field element as hex, with or without 0x
	starkKeyRegex = regexp.MustCompile(`^(0x)?[a-fA-F0-9]{1,64}$`)

	// secretRegex and passphraseRegex match unpadded base64url strings of the derived lengths
	secretRegex     = regexp.MustCompile(`^[A-Za-z0-9_-]{40}$`)
	passphraseRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{20}$`)
)

// ValidateAddress validates an Ethereum address.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !evmAddressRegex.MatchString(address) {
		return fmt.Errorf("invalid address format: %s (expected 0x followed by 40 hex characters)", address)
	}
	return nil
}

// ValidateStarkKey validates a hex-encoded STARK key, public or private.
func ValidateStarkKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: stark key cannot be empty", signing.ErrInvalidKey)
	}
	if !starkKeyRegex.MatchString(key) {
		return fmt.Errorf("%w: invalid stark key format: %s (expected up to 64 hex characters)", signing.ErrInvalidKey, key)
	}
	return nil
}

// ValidateApiKeyCredentials checks the shape of derived API credentials:
// a UUID key, a 40 character secret and a 20 character passphrase.
func ValidateApiKeyCredentials(creds signing.ApiKeyCredentials) error {
	if len(creds.Key) != 36 {
		return fmt.Errorf("%w: key must be a hyphenated uuid", signing.ErrInvalidCredentials)
	}
	if _, err := uuid.Parse(creds.Key); err != nil {
		return fmt.Errorf("%w: key: %v", signing.ErrInvalidCredentials, err)
	}
	if !secretRegex.MatchString(creds.Secret) {
		return fmt.Errorf("%w: secret must be 40 base64url characters", signing.ErrInvalidCredentials)
	}
	if !passphraseRegex.MatchString(creds.Passphrase) {
		return fmt.Errorf("%w: passphrase must be 20 base64url characters", signing.ErrInvalidCredentials)
	}
	return nil
}
