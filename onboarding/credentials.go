package onboarding

import (
	"encoding/base64"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	signing "github.com/mark3labs/dydx-signing"
	"github.com/mark3labs/dydx-signing/signature"
)

// ApiCredentialsFromSignature splits sig into r and s and derives
//
//	secret     = base64url(keccak(r)[0:30])
//	key        = uuid(keccak(s)[0:16])
//	passphrase = base64url(keccak(s)[16:31])
func ApiCredentialsFromSignature(sig signature.TypedSignature) *signing.ApiKeyCredentials {
	hashedR := crypto.Keccak256(sig.R())
	hashedS := crypto.Keccak256(sig.S())

	// 16 bytes always form a valid UUID.
	key, _ := uuid.FromBytes(hashedS[:16])

	return &signing.ApiKeyCredentials{
		Key:        key.String(),
		Secret:     base64.RawURLEncoding.EncodeToString(hashedR[:30]),
		Passphrase: base64.RawURLEncoding.EncodeToString(hashedS[16:31]),
	}
}
