package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// basePath is m/44'/60'/0'/0; the account index is appended as the last,
// non-hardened component.
var basePath = []uint32{
	bip32.FirstHardenedChild + 44,
	bip32.FirstHardenedChild + 60,
	bip32.FirstHardenedChild + 0,
	0,
}

// ValidMnemonic reports whether the mnemonic has a valid BIP39 checksum.
func ValidMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// DeriveKey derives an ECDSA private key from a mnemonic at the given account index.
// Path: m/44'/60'/0'/0/{index}
func DeriveKey(mnemonic string, index uint32) (*ecdsa.PrivateKey, error) {
	seed := bip39.NewSeed(mnemonic, "")

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("creating master key: %w", err)
	}

	for depth, child := range append(append([]uint32{}, basePath...), index) {
		key, err = key.NewChildKey(child)
		if err != nil {
			return nil, fmt.Errorf("deriving depth %d: %w", depth+1, err)
		}
	}

	privateKey, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return nil, fmt.Errorf("converting to ECDSA: %w", err)
	}

	return privateKey, nil
}

// DeriveAddress derives an Ethereum address from a mnemonic at the given account index.
func DeriveAddress(mnemonic string, index uint32) (common.Address, error) {
	key, err := DeriveKey(mnemonic, index)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}
