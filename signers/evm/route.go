package evm

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/eip712"
	"github.com/mark3labs/dydx-signing/signature"
)

// route is how one SigningMethod obtains a signature from a local key and
// from a provider. Wallet-specific methods have no local branch and always
// go to the provider.
type route struct {
	local  func(key *ecdsa.PrivateKey, payload eip712.Payload) (signature.TypedSignature, error)
	remote func(ctx context.Context, s *Signer, address common.Address, payload eip712.Payload) (signature.TypedSignature, error)
}

// payloadShape is how typed data is placed in the RPC params.
type payloadShape int

const (
	shapeObject payloadShape = iota
	shapeJSONString
)

// Provider RPC method names.
const (
	rpcEthSign         = "eth_sign"
	rpcSignTypedData   = "eth_signTypedData"
	rpcSignTypedDataV3 = "eth_signTypedData_v3"
	rpcSignTypedDataV4 = "eth_signTypedData_v4"
	rpcPersonalSign    = "personal_sign"
)

var routes = map[signing.SigningMethod]route{
	signing.SigningMethodHash: {
		local:  localHash,
		remote: remoteHash(signature.Decimal),
	},
	signing.SigningMethodUnsafeHash: {
		local:  localUnsafeHash,
		remote: remoteHash(signature.NoPrepend),
	},
	signing.SigningMethodCompatibility: {
		local:  localCompatibility,
		remote: remoteCompatibility,
	},
	signing.SigningMethodTypedData: {
		local:  localTypedData,
		remote: remoteTypedData(rpcSignTypedData, shapeObject),
	},
	signing.SigningMethodMetaMask: {
		remote: remoteTypedData(rpcSignTypedDataV3, shapeJSONString),
	},
	signing.SigningMethodMetaMaskLatest: {
		remote: remoteTypedData(rpcSignTypedDataV4, shapeJSONString),
	},
	signing.SigningMethodCoinbaseWallet: {
		remote: remoteTypedData(rpcSignTypedDataV4, shapeObject),
	},
	signing.SigningMethodPersonal: {
		local:  localPersonal,
		remote: remotePersonal,
	},
}

func localHash(key *ecdsa.PrivateKey, payload eip712.Payload) (signature.TypedSignature, error) {
	hash, err := signature.PrefixedHash(payload.Digest, signature.Decimal)
	if err != nil {
		return signature.TypedSignature{}, err
	}
	return signHash(key, hash, signature.Decimal)
}

func localUnsafeHash(key *ecdsa.PrivateKey, payload eip712.Payload) (signature.TypedSignature, error) {
	return signHash(key, payload.Digest, signature.NoPrepend)
}

// A local key never prefixes on its own, so the unsafe signature always
// verifies and Compatibility is UnsafeHash.
func localCompatibility(key *ecdsa.PrivateKey, payload eip712.Payload) (signature.TypedSignature, error) {
	return localUnsafeHash(key, payload)
}

func localTypedData(key *ecdsa.PrivateKey, payload eip712.Payload) (signature.TypedSignature, error) {
	hash, err := payload.TypedData.Hash()
	if err != nil {
		return signature.TypedSignature{}, signing.NewSigningError(signing.ErrCodeSigningFailed, "hash typed data", err)
	}
	return signHash(key, hash, signature.NoPrepend)
}

func localPersonal(key *ecdsa.PrivateKey, payload eip712.Payload) (signature.TypedSignature, error) {
	return signHash(key, signature.PersonalHash(payload.PersonalMessage), signature.Personal)
}

func remoteHash(t signature.Type) func(context.Context, *Signer, common.Address, eip712.Payload) (signature.TypedSignature, error) {
	return func(ctx context.Context, s *Signer, address common.Address, payload eip712.Payload) (signature.TypedSignature, error) {
		raw, err := s.ethSign(ctx, address, payload.Digest)
		if err != nil {
			return signature.TypedSignature{}, err
		}
		return signature.Encode(raw, t)
	}
}

// Some providers prefix eth_sign input even when asked not to. The raw
// signature is tried as NO_PREPEND first and re-tagged DECIMAL when it does
// not recover to address.
func remoteCompatibility(ctx context.Context, s *Signer, address common.Address, payload eip712.Payload) (signature.TypedSignature, error) {
	raw, err := s.ethSign(ctx, address, payload.Digest)
	if err != nil {
		return signature.TypedSignature{}, err
	}

	unsafeSig, err := signature.Encode(raw, signature.NoPrepend)
	if err != nil {
		return signature.TypedSignature{}, err
	}
	if ok, _ := Verify(address, payload, unsafeSig); ok {
		return unsafeSig, nil
	}

	s.logger.Warn("unprefixed signature did not verify, using prefixed interpretation", "address", address.Hex())
	return signature.Encode(raw, signature.Decimal)
}

func remoteTypedData(method string, shape payloadShape) func(context.Context, *Signer, common.Address, eip712.Payload) (signature.TypedSignature, error) {
	return func(ctx context.Context, s *Signer, address common.Address, payload eip712.Payload) (signature.TypedSignature, error) {
		var data interface{} = payload.TypedData
		if shape == shapeJSONString {
			encoded, err := payload.TypedData.JSON()
			if err != nil {
				return signature.TypedSignature{}, signing.NewSigningError(signing.ErrCodeSigningFailed, "encode typed data", err)
			}
			data = encoded
		}

		raw, err := s.call(ctx, method, address, data)
		if err != nil {
			return signature.TypedSignature{}, err
		}
		// Wallet typed-data responses are tagged as returned; the recovery id
		// is left for rotation to reconcile.
		return signature.Tag(raw, signature.NoPrepend)
	}
}

func remotePersonal(ctx context.Context, s *Signer, address common.Address, payload eip712.Payload) (signature.TypedSignature, error) {
	raw, err := s.call(ctx, rpcPersonalSign, address, payload.PersonalMessage)
	if err != nil {
		return signature.TypedSignature{}, err
	}
	return signature.Encode(raw, signature.Personal)
}
