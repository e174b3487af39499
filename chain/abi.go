package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	// ERC-20 subset used for balances, allowances and approvals.
	ERC20ABIJSON = `[{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}]`
	// Uniswap V2 Router02 swap methods.
	V2RouterABIJSON = `[{"type":"function","name":"swapExactTokensForTokens","stateMutability":"nonpayable","inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"amounts","type":"uint256[]"}]},{"type":"function","name":"swapExactETHForTokens","stateMutability":"payable","inputs":[{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"amounts","type":"uint256[]"}]},{"type":"function","name":"swapExactTokensForETH","stateMutability":"nonpayable","inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"amounts","type":"uint256[]"}]},{"type":"function","name":"swapExactTokensForTokensSupportingFeeOnTransferTokens","stateMutability":"nonpayable","inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[]},{"type":"function","name":"swapExactETHForTokensSupportingFeeOnTransferTokens","stateMutability":"payable","inputs":[{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[]},{"type":"function","name":"swapExactTokensForETHSupportingFeeOnTransferTokens","stateMutability":"nonpayable","inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[]},{"type":"function","name":"swapTokensForExactTokens","stateMutability":"nonpayable","inputs":[{"name":"amountOut","type":"uint256"},{"name":"amountInMax","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"amounts","type":"uint256[]"}]},{"type":"function","name":"swapETHForExactTokens","stateMutability":"payable","inputs":[{"name":"amountOut","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"amounts","type":"uint256[]"}]},{"type":"function","name":"swapTokensForExactETH","stateMutability":"nonpayable","inputs":[{"name":"amountOut","type":"uint256"},{"name":"amountInMax","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"amounts","type":"uint256[]"}]}]`
	V2PairABIJSON = `[{"type":"function","name":"getReserves","stateMutability":"view","inputs":[],"outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}]},{"type":"function","name":"token0","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},{"type":"function","name":"token1","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}]`
	// Uniswap V1 exchange transfer methods.
	V1ExchangeABIJSON = `[{"type":"function","name":"ethToTokenTransferInput","stateMutability":"payable","inputs":[{"name":"min_tokens","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[{"name":"out","type":"uint256"}]},{"type":"function","name":"tokenToEthTransferInput","stateMutability":"nonpayable","inputs":[{"name":"tokens_sold","type":"uint256"},{"name":"min_eth","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[{"name":"out","type":"uint256"}]},{"type":"function","name":"tokenToTokenTransferInput","stateMutability":"nonpayable","inputs":[{"name":"tokens_sold","type":"uint256"},{"name":"min_tokens_bought","type":"uint256"},{"name":"min_eth_bought","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"recipient","type":"address"},{"name":"token_addr","type":"address"}],"outputs":[{"name":"out","type":"uint256"}]},{"type":"function","name":"ethToTokenTransferOutput","stateMutability":"payable","inputs":[{"name":"tokens_bought","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[{"name":"out","type":"uint256"}]},{"type":"function","name":"tokenToEthTransferOutput","stateMutability":"nonpayable","inputs":[{"name":"eth_bought","type":"uint256"},{"name":"max_tokens","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[{"name":"out","type":"uint256"}]},{"type":"function","name":"tokenToTokenTransferOutput","stateMutability":"nonpayable","inputs":[{"name":"tokens_bought","type":"uint256"},{"name":"max_tokens_sold","type":"uint256"},{"name":"max_eth_sold","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"recipient","type":"address"},{"name":"token_addr","type":"address"}],"outputs":[{"name":"out","type":"uint256"}]}]`
	V1FactoryABIJSON = `[{"type":"function","name":"getExchange","stateMutability":"view","inputs":[{"name":"token","type":"address"}],"outputs":[{"name":"out","type":"address"}]}]`
	// 1inch OneSplit aggregator.
	OneSplitABIJSON = `[{"type":"function","name":"swap","stateMutability":"payable","inputs":[{"name":"fromToken","type":"address"},{"name":"destToken","type":"address"},{"name":"amount","type":"uint256"},{"name":"minReturn","type":"uint256"},{"name":"distribution","type":"uint256[]"},{"name":"flags","type":"uint256"}],"outputs":[{"name":"returnAmount","type":"uint256"}]},{"type":"function","name":"getExpectedReturn","stateMutability":"view","inputs":[{"name":"fromToken","type":"address"},{"name":"destToken","type":"address"},{"name":"amount","type":"uint256"},{"name":"parts","type":"uint256"},{"name":"flags","type":"uint256"}],"outputs":[{"name":"returnAmount","type":"uint256"},{"name":"distribution","type":"uint256[]"}]}]`
	// Mooniswap V1 pool.
	MooniswapABIJSON = `[{"type":"function","name":"swap","stateMutability":"payable","inputs":[{"name":"src","type":"address"},{"name":"dst","type":"address"},{"name":"amount","type":"uint256"},{"name":"minReturn","type":"uint256"},{"name":"referral","type":"address"}],"outputs":[{"name":"result","type":"uint256"}]},{"type":"function","name":"getBalanceForAddition","stateMutability":"view","inputs":[{"name":"token","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"getBalanceForRemoval","stateMutability":"view","inputs":[{"name":"token","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}]`
	MooniswapFactoryABIJSON = `[{"type":"function","name":"pools","stateMutability":"view","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],"outputs":[{"name":"","type":"address"}]}]`
	ENSRegistryABIJSON = `[{"type":"function","name":"resolver","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}]`
	ENSResolverABIJSON = `[{"type":"function","name":"addr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}]`
	// Synthetix-style staking rewards pool used by the YAM farms.
	StakingPoolABIJSON = `[{"type":"function","name":"stake","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},{"type":"function","name":"getReward","stateMutability":"nonpayable","inputs":[],"outputs":[]},{"type":"function","name":"exit","stateMutability":"nonpayable","inputs":[],"outputs":[]},{"type":"function","name":"earned","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}]`
	YamABIJSON = `[{"type":"function","name":"yamsScalingFactor","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}]`
	Multicall3ABIJSON = `[{"type":"function","name":"aggregate3","stateMutability":"payable","inputs":[{"name":"calls","type":"tuple[]","components":[{"name":"target","type":"address"},{"name":"allowFailure","type":"bool"},{"name":"callData","type":"bytes"}]}],"outputs":[{"name":"returnData","type":"tuple[]","components":[{"name":"success","type":"bool"},{"name":"returnData","type":"bytes"}]}]},{"type":"function","name":"getEthBalance","stateMutability":"view","inputs":[{"name":"addr","type":"address"}],"outputs":[{"name":"balance","type":"uint256"}]}]`
)

var (
	ERC20ABI = mustParse(ERC20ABIJSON)
	V2RouterABI = mustParse(V2RouterABIJSON)
	V2PairABI = mustParse(V2PairABIJSON)
	V1ExchangeABI = mustParse(V1ExchangeABIJSON)
	V1FactoryABI = mustParse(V1FactoryABIJSON)
	OneSplitABI = mustParse(OneSplitABIJSON)
	MooniswapABI = mustParse(MooniswapABIJSON)
	MooniswapFactoryABI = mustParse(MooniswapFactoryABIJSON)
	ENSRegistryABI = mustParse(ENSRegistryABIJSON)
	ENSResolverABI = mustParse(ENSResolverABIJSON)
	StakingPoolABI = mustParse(StakingPoolABIJSON)
	YamABI = mustParse(YamABIJSON)
	Multicall3ABI = mustParse(Multicall3ABIJSON)
)

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
