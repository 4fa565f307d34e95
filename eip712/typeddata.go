package eip712

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// TypedData is the payload sent to wallets with eth_signTypedData and its
// versioned variants.
type TypedData struct {
	Types       map[string][]Field `json:"types"`
	Domain      Domain             `json:"domain"`
	PrimaryType string             `json:"primaryType"`
	Message     map[string]string  `json:"message"`
}

// NewTypedData builds the payload for a message of shape s.
func NewTypedData(domain Domain, s Struct, message map[string]string) TypedData {
	return TypedData{
		Types: map[string][]Field{
			"EIP712Domain": DomainFields,
			s.PrimaryType:  s.Fields,
		},
		Domain:      domain,
		PrimaryType: s.PrimaryType,
		Message:     message,
	}
}

// JSON returns the payload serialized as a string, the form expected by
// eth_signTypedData_v3 and eth_signTypedData_v4 on MetaMask.
func (td TypedData) JSON() (string, error) {
	data, err := json.Marshal(td)
	if err != nil {
		return "", fmt.Errorf("failed to marshal typed data: %w", err)
	}
	return string(data), nil
}

// APITypes converts the payload to go-ethereum's representation.
func (td TypedData) APITypes() apitypes.TypedData {
	types := make(apitypes.Types, len(td.Types))
	for name, fields := range td.Types {
		converted := make([]apitypes.Type, len(fields))
		for i, f := range fields {
			converted[i] = apitypes.Type{Name: f.Name, Type: f.Type}
		}
		types[name] = converted
	}

	message := make(apitypes.TypedDataMessage, len(td.Message))
	for k, v := range td.Message {
		message[k] = v
	}

	return apitypes.TypedData{
		Types:       types,
		PrimaryType: td.PrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:    td.Domain.Name,
			Version: td.Domain.Version,
			ChainId: (*math.HexOrDecimal256)(big.NewInt(td.Domain.ChainID)),
		},
		Message: message,
	}
}

// Hash returns the EIP-712 digest of the payload as computed by go-ethereum.
func (td TypedData) Hash() (common.Hash, error) {
	hash, _, err := apitypes.TypedDataAndHash(td.APITypes())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash typed data: %w", err)
	}
	return common.BytesToHash(hash), nil
}

// Payload carries every representation of one message that a signing
// method may need.
type Payload struct {
	// Digest is the canonical EIP-712 digest.
	Digest common.Hash

	// TypedData is the structured payload for wallet RPC and local typed-data signing.
	TypedData TypedData

	// PersonalMessage is the deterministic personal_sign text.
	PersonalMessage string
}
