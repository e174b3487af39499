package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Standard test mnemonic used by hardhat/anvil.
const testMnemonic = "test test test test test test test test test test test junk"

func TestDeriveAddressMatchesWellKnownAccount(t *testing.T) {
	addr, err := DeriveAddress(testMnemonic, 0)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), addr)
}

func TestKeySignerSignsForChain(t *testing.T) {
	s, err := SignerFromMnemonic(testMnemonic, 1)
	require.NoError(t, err)

	to := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	tx := types.NewTx(&types.LegacyTx{Nonce: 0, To: &to, Value: big.NewInt(1), Gas: 21000, GasPrice: big.NewInt(1)})

	signed, err := s.SignTx(context.Background(), tx, big.NewInt(1))
	require.NoError(t, err)

	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), signed)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), from)
}

func TestConfirmingSignerRejects(t *testing.T) {
	inner, err := SignerFromMnemonic(testMnemonic, 0)
	require.NoError(t, err)

	s := NewConfirmingSigner(inner, func(context.Context, *types.Transaction) (bool, error) {
		return false, nil
	})
	to := common.Address{}
	tx := types.NewTx(&types.LegacyTx{To: &to, Value: big.NewInt(0), Gas: 21000, GasPrice: big.NewInt(1)})

	_, err = s.SignTx(context.Background(), tx, big.NewInt(1))
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, CodeUserRejected, rejected.ErrorCode())
	assert.Equal(t, inner.Address(), s.Address())
}
