package signing

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mark3labs/dydx-signing/eip712"
	"github.com/mark3labs/dydx-signing/signature"
)

// Signer obtains signatures for off-chain actions.
// Implementations hold local keys, talk to a wallet provider, or both.
type Signer interface {
	// Sign returns a typed signature over payload using the given method.
	// The payload carries every representation a method may need: the
	// EIP-712 digest, the structured typed data and the personal-sign text.
	Sign(ctx context.Context, address common.Address, method SigningMethod, payload eip712.Payload) (signature.TypedSignature, error)
}
