// Package eip712 hashes the exchange's off-chain action messages per EIP-712
// and renders the equivalent typed-data and personal-sign payloads.
package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DomainTypeString is the EIP712Domain type used by every action. The domain
// is bound to an application, not to a contract, so verifyingContract is absent.
const DomainTypeString = "EIP712Domain(string name,string version,uint256 chainId)"

var domainTypeHash = crypto.Keccak256Hash([]byte(DomainTypeString))

// DomainFields describes DomainTypeString for typed-data payloads.
var DomainFields = []Field{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
}

// Domain is the application-level EIP-712 domain.
type Domain struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	ChainID int64  `json:"chainId"`
}

// Hash returns the domain separator.
func (d Domain) Hash() common.Hash {
	return DomainHash(d.Name, d.Version, d.ChainID)
}

// DomainHash computes
// keccak256(typeHash ‖ keccak256(name) ‖ keccak256(version) ‖ uint256(chainId)).
func DomainHash(name, version string, chainID int64) common.Hash {
	return crypto.Keccak256Hash(
		domainTypeHash.Bytes(),
		HashString(name).Bytes(),
		HashString(version).Bytes(),
		common.LeftPadBytes(big.NewInt(chainID).Bytes(), 32),
	)
}

// HashString is the EIP-712 encoding of a string value.
func HashString(s string) common.Hash {
	return crypto.Keccak256Hash([]byte(s))
}
