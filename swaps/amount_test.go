package swaps

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/chain/chaintest"
)

func TestToSignificant(t *testing.T) {
	eth, usdc := mustToken("ETH"), mustToken("USDC")

	tests := []struct {
		amount TokenAmount
		want   string
	}{
		{NewAmount(eth, wei("1000000000000000000")), "1"},
		{NewAmount(eth, wei("1234500000000000000")), "1.23"},
		{NewAmount(eth, wei("1235000000000000000")), "1.24"},
		{NewAmount(eth, wei("123456000000000000000")), "123"},
		{NewAmount(eth, wei("1234567000000000000000")), "1230"},
		{NewAmount(eth, wei("123456000000000")), "0.000123"},
		{NewAmount(eth, wei("9996000000000000000")), "10"},
		{NewAmount(usdc, wei("1500000")), "1.5"},
		{NewAmount(usdc, big.NewInt(0)), "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.amount.ToSignificant(3), tt.amount.Raw.String())
	}
}

func TestParseAmount(t *testing.T) {
	usdc := mustToken("USDC")

	a, err := ParseAmount(usdc, "12.5")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12500000), a.Raw)
	assert.Equal(t, "12.5", a.ToExact())

	_, err = ParseAmount(usdc, "0.0000001")
	assert.Error(t, err)

	_, err = ParseAmount(usdc, "-1")
	assert.Error(t, err)

	_, err = ParseAmount(usdc, "abc")
	assert.Error(t, err)
}

func TestParseToken(t *testing.T) {
	ctx := context.Background()

	eth, err := ParseToken(ctx, nil, mainnet, "eth")
	require.NoError(t, err)
	assert.True(t, eth.Native)

	usdc, err := ParseToken(ctx, nil, mainnet, "USDC-0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	require.NoError(t, err)
	assert.EqualValues(t, 6, usdc.Decimals)

	_, err = ParseToken(ctx, nil, mainnet, "NOPE")
	assert.Error(t, err)

	_, err = ParseToken(ctx, nil, mainnet, "X-0xnothex")
	assert.Error(t, err)
}

func TestParseTokenFetchesUnknownDecimals(t *testing.T) {
	backend := chaintest.New()
	backend.CallFunc = func(msg ethereum.CallMsg) ([]byte, error) {
		require.Equal(t, "decimals", chaintest.Method(chain.ERC20ABI, msg.Data))
		return chaintest.Returns(chain.ERC20ABI, "decimals", uint8(9)), nil
	}

	tok, err := ParseToken(context.Background(), backend, mainnet, "ampl-0xD46bA6D942050d489DBd938a2C909A5d5039A161")
	require.NoError(t, err)
	assert.Equal(t, "AMPL", tok.Symbol)
	assert.EqualValues(t, 9, tok.Decimals)
	assert.Equal(t, common.HexToAddress("0xD46bA6D942050d489DBd938a2C909A5d5039A161"), tok.Address)
}

func TestTokenEqualAndWrapped(t *testing.T) {
	eth, weth := mustToken("ETH"), mustToken("WETH")
	assert.False(t, eth.Equal(weth))
	assert.True(t, eth.Equal(mustToken("ETH")))
	assert.Equal(t, mainnet.WETH, eth.Wrapped(mainnet))
	assert.Equal(t, "ETH", eth.String())
}
