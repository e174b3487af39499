package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// CodeUserRejected is the EIP-1193 provider error code for a request the
// account holder declined.
const CodeUserRejected = 4001

// RejectedError is returned when the account holder declines to sign.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return "user rejected the request"
	}
	return "user rejected the request: " + e.Reason
}

// ErrorCode implements the go-ethereum rpc.Error interface.
func (e *RejectedError) ErrorCode() int { return CodeUserRejected }

// Signer is the acting account: it knows its address and signs transactions.
type Signer interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// KeySigner signs with an in-memory private key.
type KeySigner struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

// SignerFromMnemonic derives the key at index and wraps it.
func SignerFromMnemonic(mnemonic string, index uint32) (*KeySigner, error) {
	key, err := DeriveKey(mnemonic, index)
	if err != nil {
		return nil, err
	}
	return NewKeySigner(key), nil
}

func (s *KeySigner) Address() common.Address { return s.addr }

func (s *KeySigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing tx: %w", err)
	}
	return signed, nil
}

// PromptFunc asks the account holder to approve a transaction.
type PromptFunc func(ctx context.Context, tx *types.Transaction) (bool, error)

// ConfirmingSigner asks for approval before delegating to the inner signer.
// A declined prompt yields a *RejectedError.
type ConfirmingSigner struct {
	inner  Signer
	prompt PromptFunc
}

func NewConfirmingSigner(inner Signer, prompt PromptFunc) *ConfirmingSigner {
	return &ConfirmingSigner{inner: inner, prompt: prompt}
}

func (s *ConfirmingSigner) Address() common.Address { return s.inner.Address() }

func (s *ConfirmingSigner) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	ok, err := s.prompt(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("confirmation prompt: %w", err)
	}
	if !ok {
		return nil, &RejectedError{Reason: "declined at prompt"}
	}
	return s.inner.SignTx(ctx, tx, chainID)
}
