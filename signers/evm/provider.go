package evm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	signing "github.com/mark3labs/dydx-signing"
)

// Provider is a wallet reachable over JSON-RPC. *rpc.Client satisfies it.
type Provider interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

func (s *Signer) ethSign(ctx context.Context, address common.Address, digest common.Hash) ([]byte, error) {
	return s.call(ctx, rpcEthSign, address, hexutil.Bytes(digest.Bytes()))
}

// call issues method with params [address, data] and decodes the hex
// signature in the result. The 0x prefix is optional in responses.
func (s *Signer) call(ctx context.Context, method string, address common.Address, data interface{}) ([]byte, error) {
	var result string
	if err := s.provider.CallContext(ctx, &result, method, address, data); err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			return nil, signing.NewSigningError(signing.ErrCodeProviderRPC, rpcErr.Error(), err).
				WithDetails("method", method).
				WithDetails("code", rpcErr.ErrorCode())
		}
		return nil, signing.NewSigningError(signing.ErrCodeProviderUnavailable, "provider call failed", err).
			WithDetails("method", method)
	}

	raw := common.FromHex(result)
	if len(raw) != 65 {
		return nil, signing.NewSigningError(
			signing.ErrCodeSigningFailed,
			fmt.Sprintf("provider returned %d signature bytes", len(raw)),
			nil,
		).WithDetails("method", method)
	}
	return raw, nil
}
