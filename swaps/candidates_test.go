package swaps

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Unix(1600000000, 0)

func testEnv() Env {
	n := mainnet
	return Env{Account: testAccount, Network: &n, Now: testNow}
}

func methods(t *testing.T, trade *Trade, opts Options, env Env) []string {
	t.Helper()
	var out []string
	for _, c := range BuildCandidates(trade, opts, env) {
		out = append(out, c.Method)
	}
	return out
}

func TestBuildCandidatesV2MethodSelection(t *testing.T) {
	eth, dai, usdc := mustToken("ETH"), mustToken("DAI"), mustToken("USDC")

	tests := []struct {
		name  string
		trade *Trade
		want  []string
	}{
		{"exact eth in", newTrade(ExactInput, eth, dai, "1000000000000000000", "350000000000000000000", VersionV2()),
			[]string{"swapExactETHForTokens", "swapExactETHForTokensSupportingFeeOnTransferTokens"}},
		{"exact tokens in for eth", newTrade(ExactInput, dai, eth, "350000000000000000000", "1000000000000000000", VersionV2()),
			[]string{"swapExactTokensForETH", "swapExactTokensForETHSupportingFeeOnTransferTokens"}},
		{"exact tokens in", newTrade(ExactInput, usdc, dai, "1000000", "999000000000000000", VersionV2()),
			[]string{"swapExactTokensForTokens", "swapExactTokensForTokensSupportingFeeOnTransferTokens"}},
		{"eth for exact tokens", newTrade(ExactOutput, eth, dai, "1000000000000000000", "350000000000000000000", VersionV2()),
			[]string{"swapETHForExactTokens"}},
		{"tokens for exact eth", newTrade(ExactOutput, dai, eth, "350000000000000000000", "1000000000000000000", VersionV2()),
			[]string{"swapTokensForExactETH"}},
		{"tokens for exact tokens", newTrade(ExactOutput, usdc, dai, "1000000", "999000000000000000", VersionV2()),
			[]string{"swapTokensForExactTokens"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, methods(t, tt.trade, Options{}, testEnv()))
		})
	}
}

func TestBuildCandidatesV2Arguments(t *testing.T) {
	eth, dai := mustToken("ETH"), mustToken("DAI")
	trade := newTrade(ExactInput, eth, dai, "1000000000000000000", "350000000000000000000", VersionV2())

	calls := BuildCandidates(trade, Options{SlippageBps: 50, DeadlineSeconds: 600}, testEnv())
	require.Len(t, calls, 2)

	plain := calls[0]
	assert.Equal(t, mainnet.V2Router, plain.To)
	assert.Equal(t, wei("1000000000000000000"), plain.Value)

	// 350e18 * 10000 / 10050
	assert.Equal(t, wei("348258706467661691542"), plain.Args[0])
	assert.Equal(t, []common.Address{mainnet.WETH, dai.Address}, plain.Args[1])
	assert.Equal(t, testAccount, plain.Args[2])
	assert.Equal(t, big.NewInt(testNow.Unix()+600), plain.Args[3])

	// both variants share arguments
	assert.Equal(t, plain.Args, calls[1].Args)
	_, err := plain.Data()
	require.NoError(t, err)
}

func TestBuildCandidatesZeroSlippageIsExact(t *testing.T) {
	eth, dai := mustToken("ETH"), mustToken("DAI")
	trade := newTrade(ExactInput, eth, dai, "1000000000000000000", "350000000000000000000", VersionV2())

	calls := BuildCandidates(trade, Options{}, testEnv())
	require.Len(t, calls, 2)
	assert.Equal(t, wei("350000000000000000000"), calls[0].Args[0])
}

func TestBuildCandidatesRejectsSlippageOutOfRange(t *testing.T) {
	eth, dai := mustToken("ETH"), mustToken("DAI")
	trade := newTrade(ExactInput, eth, dai, "1", "1", VersionV2())

	assert.Empty(t, BuildCandidates(trade, Options{SlippageBps: 10000}, testEnv()))
	assert.ErrorIs(t, Options{SlippageBps: 10001}.Validate(), ErrInvalidSlippage)
	assert.NoError(t, Options{SlippageBps: 9999}.Validate())
}

func TestBuildCandidatesExactOutputUsesMaximumInput(t *testing.T) {
	dai, usdc := mustToken("DAI"), mustToken("USDC")
	trade := newTrade(ExactOutput, usdc, dai, "1000000", "999000000000000000", VersionV2())

	calls := BuildCandidates(trade, Options{SlippageBps: 100}, testEnv())
	require.Len(t, calls, 1)
	assert.Equal(t, wei("999000000000000000"), calls[0].Args[0])
	assert.Equal(t, wei("1010000"), calls[0].Args[1])
	assert.Zero(t, calls[0].Value.Sign())
}

func TestBuildCandidatesV1(t *testing.T) {
	eth, dai, usdc := mustToken("ETH"), mustToken("DAI"), mustToken("USDC")
	v1 := VersionV1(testExchange)

	tests := []struct {
		name   string
		trade  *Trade
		method string
		nargs  int
	}{
		{"eth to token input", newTrade(ExactInput, eth, dai, "1000000000000000000", "350000000000000000000", v1), "ethToTokenTransferInput", 3},
		{"token to eth input", newTrade(ExactInput, dai, eth, "350000000000000000000", "1000000000000000000", v1), "tokenToEthTransferInput", 4},
		{"token to token input", newTrade(ExactInput, usdc, dai, "1000000", "999000000000000000", v1), "tokenToTokenTransferInput", 6},
		{"eth to token output", newTrade(ExactOutput, eth, dai, "1000000000000000000", "350000000000000000000", v1), "ethToTokenTransferOutput", 3},
		{"token to eth output", newTrade(ExactOutput, dai, eth, "350000000000000000000", "1000000000000000000", v1), "tokenToEthTransferOutput", 4},
		{"token to token output", newTrade(ExactOutput, usdc, dai, "1000000", "999000000000000000", v1), "tokenToTokenTransferOutput", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := BuildCandidates(tt.trade, Options{}, testEnv())
			require.Len(t, calls, 1)
			assert.Equal(t, tt.method, calls[0].Method)
			assert.Equal(t, testExchange, calls[0].To)
			assert.Len(t, calls[0].Args, tt.nargs)
			_, err := calls[0].Data()
			require.NoError(t, err)
		})
	}
}

func TestBuildCandidatesV1TokenToTokenBounds(t *testing.T) {
	dai, usdc := mustToken("DAI"), mustToken("USDC")

	in := BuildCandidates(newTrade(ExactInput, usdc, dai, "1000000", "999000000000000000", VersionV1(testExchange)), Options{}, testEnv())
	require.Len(t, in, 1)
	assert.Equal(t, big.NewInt(1), in[0].Args[2])
	assert.Equal(t, dai.Address, in[0].Args[5])

	out := BuildCandidates(newTrade(ExactOutput, usdc, dai, "1000000", "999000000000000000", VersionV1(testExchange)), Options{}, testEnv())
	require.Len(t, out, 1)
	assert.Equal(t, math.MaxBig256, out[0].Args[2])
}

func TestBuildCandidatesNotReady(t *testing.T) {
	eth, dai := mustToken("ETH"), mustToken("DAI")
	trade := newTrade(ExactInput, eth, dai, "1", "1", VersionV2())

	env := testEnv()
	env.Account = common.Address{}
	assert.Empty(t, BuildCandidates(trade, Options{}, env), "missing account")

	env = testEnv()
	env.Network = nil
	assert.Empty(t, BuildCandidates(trade, Options{}, env), "missing backend")

	assert.Empty(t, BuildCandidates(newTrade(ExactInput, eth, dai, "1", "1", RouteVersion{}), Options{}, testEnv()), "missing version")
	assert.Empty(t, BuildCandidates(newTrade(ExactInput, eth, dai, "1", "1", RouteVersion{Kind: V1}), Options{}, testEnv()), "missing exchange")
	assert.Empty(t, BuildCandidates(trade, Options{Recipient: "vitalik.eth"}, testEnv()), "unresolved recipient")
	assert.Empty(t, BuildCandidates(nil, Options{}, testEnv()), "missing trade")
}

func TestBuildCandidatesExplicitRecipient(t *testing.T) {
	eth, dai := mustToken("ETH"), mustToken("DAI")
	trade := newTrade(ExactInput, eth, dai, "1", "1", VersionV2())

	other := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	env := testEnv()
	env.Recipient = &other

	calls := BuildCandidates(trade, Options{Recipient: "0x000000000000000000000000000000000000dEaD"}, env)
	require.Len(t, calls, 2)
	assert.Equal(t, other, calls[0].Args[2])
}

func TestMinimumAmountOutRoundTrip(t *testing.T) {
	eth, dai := mustToken("ETH"), mustToken("DAI")
	for _, bps := range []uint32{1, 50, 100, 300, 1234, 4999} {
		trade := newTrade(ExactInput, eth, dai, "1000000000000000000", "350123456789012345678", VersionV2())
		minOut := trade.MinimumAmountOut(bps)

		implied := ImpliedSlippageBps(trade.OutputAmount.Raw, minOut)
		reencoded := trade.MinimumAmountOut(uint32(implied.Round(0).IntPart()))

		diff := new(big.Int).Sub(reencoded, minOut)
		assert.LessOrEqual(t, diff.CmpAbs(big.NewInt(1)), 0, "bps=%d", bps)
		assert.InDelta(t, float64(bps), implied.InexactFloat64(), 0.01, "bps=%d", bps)
	}
}
