package evm

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	signing "github.com/mark3labs/dydx-signing"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// WithKeystore adds the key held in an encrypted JSON keystore file
// (version 1 or 3).
func WithKeystore(path, password string) SignerOption {
	return func(s *Signer) error {
		key, err := readKeystore(path, password)
		if err != nil {
			return err
		}
		s.addKey(key)
		return nil
	}
}

// WithMnemonic adds the key at m/44'/60'/0'/0/{accountIndex} of a BIP39
// mnemonic with an empty passphrase.
func WithMnemonic(mnemonic string, accountIndex uint32) SignerOption {
	return func(s *Signer) error {
		key, err := mnemonicKey(mnemonic, accountIndex)
		if err != nil {
			return err
		}
		s.addKey(key)
		return nil
	}
}

func readKeystore(path, password string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", signing.ErrInvalidKeystore, err)
	}

	key, err := keystore.DecryptKey(data, password)
	switch {
	case errors.Is(err, keystore.ErrDecrypt):
		return nil, fmt.Errorf("%w: wrong password for %s", signing.ErrInvalidKeystore, path)
	case err != nil:
		return nil, fmt.Errorf("%w: cannot decode %s: %v", signing.ErrInvalidKeystore, path, err)
	}

	// The plaintext address, when present, must belong to the decrypted key.
	var header struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &header); err == nil && header.Address != "" {
		if stated := common.HexToAddress(header.Address); stated != key.Address {
			return nil, fmt.Errorf("%w: %s names %s but holds the key for %s",
				signing.ErrInvalidKeystore, path, stated.Hex(), key.Address.Hex())
		}
	}
	return key.PrivateKey, nil
}

func mnemonicKey(mnemonic string, index uint32) (*ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, signing.ErrInvalidMnemonic
	}

	node, err := bip32.NewMasterKey(bip39.NewSeed(mnemonic, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: master key: %v", signing.ErrInvalidMnemonic, err)
	}
	for depth, child := range hdPath(index) {
		if node, err = node.NewChildKey(child); err != nil {
			return nil, fmt.Errorf("%w: depth %d: %v", signing.ErrInvalidMnemonic, depth+1, err)
		}
	}

	key, err := crypto.ToECDSA(node.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", signing.ErrInvalidMnemonic, err)
	}
	return key, nil
}

// hdPath is the BIP44 Ethereum path m/44'/60'/0'/0/index.
func hdPath(index uint32) []uint32 {
	const h = bip32.FirstHardenedChild
	return []uint32{h + 44, h + 60, h, 0, index}
}
