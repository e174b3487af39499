package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/RaghavSood/swapdesk/balances"
	"github.com/RaghavSood/swapdesk/desk"
	"github.com/RaghavSood/swapdesk/farm"
	"github.com/RaghavSood/swapdesk/mooniswap"
	"github.com/RaghavSood/swapdesk/swaps"
	"github.com/RaghavSood/swapdesk/txlog"
)

type tradeFlags struct {
	in, out, amount, path, version string
	exactOut                       bool
}

func (f *tradeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.in, "in", "ETH", "input token (SYMBOL or SYMBOL-0xADDRESS)")
	fs.StringVar(&f.out, "out", "", "output token")
	fs.StringVar(&f.amount, "amount", "", "amount in token units")
	fs.StringVar(&f.path, "via", "", "comma separated intermediate tokens for V2 routes")
	fs.StringVar(&f.version, "version", "v2", "v1 or v2")
	fs.BoolVar(&f.exactOut, "exact-out", false, "amount is the desired output")
}

// trade prices the requested trade against live reserves.
func (f *tradeFlags) trade(ctx context.Context, d *desk.Desk) (*swaps.Trade, error) {
	if f.out == "" || f.amount == "" {
		return nil, errors.New("-out and -amount are required")
	}
	in, err := swaps.ParseToken(ctx, d.Client, d.Network, f.in)
	if err != nil {
		return nil, err
	}
	out, err := swaps.ParseToken(ctx, d.Client, d.Network, f.out)
	if err != nil {
		return nil, err
	}

	tradeType := swaps.ExactInput
	amountToken := in
	if f.exactOut {
		tradeType = swaps.ExactOutput
		amountToken = out
	}
	amount, err := swaps.ParseAmount(amountToken, f.amount)
	if err != nil {
		return nil, err
	}

	version, err := swaps.ParseVersion(f.version)
	if err != nil {
		return nil, err
	}
	if version.Kind == swaps.V1 {
		return d.Reserves.BuildV1Trade(ctx, in, out, amount, tradeType)
	}

	path := []swaps.Token{in}
	if f.path != "" {
		for _, s := range strings.Split(f.path, ",") {
			hop, err := swaps.ParseToken(ctx, d.Client, d.Network, strings.TrimSpace(s))
			if err != nil {
				return nil, err
			}
			path = append(path, hop)
		}
	}
	path = append(path, out)
	return d.Reserves.BuildTrade(ctx, path, amount, tradeType)
}

// slippageBps picks the -slippage flag over the configured tolerance. A
// negative flag means the flag was not given.
func slippageBps(flagBps int, configured int64) (uint32, error) {
	bps := configured
	if flagBps >= 0 {
		bps = int64(flagBps)
	}
	if bps < 0 || bps >= swaps.MaxSlippageBps {
		return 0, fmt.Errorf("slippage %d bps: %w", bps, swaps.ErrInvalidSlippage)
	}
	return uint32(bps), nil
}

func printTrade(t *swaps.Trade, slippageBps uint32) {
	fmt.Printf("%s %s -> %s %s (%s, %s)\n",
		t.InputAmount.ToSignificant(6), t.InputAmount.Token.Symbol,
		t.OutputAmount.ToSignificant(6), t.OutputAmount.Token.Symbol,
		t.Version, t.Type)
	if t.Type == swaps.ExactInput {
		minOut := swaps.NewAmount(t.OutputAmount.Token, t.MinimumAmountOut(slippageBps))
		fmt.Printf("minimum received: %s %s\n", minOut.ToSignificant(6), minOut.Token.Symbol)
	} else {
		maxIn := swaps.NewAmount(t.InputAmount.Token, t.MaximumAmountIn(slippageBps))
		fmt.Printf("maximum sold: %s %s\n", maxIn.ToSignificant(6), maxIn.Token.Symbol)
	}
}

func runQuote(ctx context.Context, d *desk.Desk, args []string) error {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	var tf tradeFlags
	tf.register(fs)
	to := fs.String("to", "", "recipient address or ENS name")
	fs.Parse(args)

	trade, err := tf.trade(ctx, d)
	if err != nil {
		return err
	}
	opts := d.Options(*to)
	printTrade(trade, opts.SlippageBps)

	gas, err := d.Swaps.Estimate(ctx, trade, opts)
	if err != nil {
		return err
	}
	fmt.Printf("gas limit: %d\n", gas)
	return nil
}

func runSwap(ctx context.Context, d *desk.Desk, args []string) error {
	fs := flag.NewFlagSet("swap", flag.ExitOnError)
	var tf tradeFlags
	tf.register(fs)
	to := fs.String("to", "", "recipient address or ENS name")
	slippage := fs.Int("slippage", -1, "slippage tolerance in basis points (default from config)")
	deadline := fs.Uint64("deadline", 0, "deadline in seconds from now (default from config)")
	fs.Parse(args)

	trade, err := tf.trade(ctx, d)
	if err != nil {
		return err
	}
	opts := d.Options(*to)
	opts.SlippageBps, err = slippageBps(*slippage, d.Config.SlippageBps)
	if err != nil {
		return err
	}
	if *deadline > 0 {
		opts.DeadlineSeconds = *deadline
	}
	printTrade(trade, opts.SlippageBps)

	hash, err := d.Swaps.Swap(ctx, trade, opts)
	if err != nil {
		return err
	}
	return printSubmitted(d, hash)
}

func runMoonswap(ctx context.Context, d *desk.Desk, args []string) error {
	fs := flag.NewFlagSet("moonswap", flag.ExitOnError)
	in := fs.String("in", "ETH", "input token")
	out := fs.String("out", "", "output token")
	amountStr := fs.String("amount", "", "input amount in token units")
	strategy := fs.String("strategy", "auto", "auto, pool or aggregator")
	slippage := fs.Int("slippage", -1, "slippage tolerance in basis points (default from config)")
	fs.Parse(args)

	if *out == "" || *amountStr == "" {
		return errors.New("-out and -amount are required")
	}
	from, err := swaps.ParseToken(ctx, d.Client, d.Network, *in)
	if err != nil {
		return err
	}
	to, err := swaps.ParseToken(ctx, d.Client, d.Network, *out)
	if err != nil {
		return err
	}
	amount, err := swaps.ParseAmount(from, *amountStr)
	if err != nil {
		return err
	}

	q, err := d.Swapper.Quote(ctx, amount, to)
	if err != nil {
		return err
	}

	bps, err := slippageBps(*slippage, d.Config.SlippageBps)
	if err != nil {
		return err
	}

	chosen := mooniswap.ChooseStrategy(q.Distribution)
	switch *strategy {
	case "pool":
		chosen = mooniswap.StrategyPool
	case "aggregator":
		chosen = mooniswap.StrategyAggregator
	case "auto":
	default:
		return fmt.Errorf("unknown strategy %q", *strategy)
	}

	fmt.Printf("%s via %s\n", mooniswap.Summary(q), chosen)
	if chosen == mooniswap.StrategyAggregator {
		gas, err := d.Swapper.EstimateBoth(ctx, q, bps)
		if err == nil {
			fmt.Printf("gas limit: %s (with CHI: %s)\n", gasText(gas.Regular), gasText(gas.Chi))
		}
	}

	hash, err := d.Swapper.Swap(ctx, q, chosen, bps)
	if err != nil {
		return err
	}
	return printSubmitted(d, hash)
}

func gasText(g *uint64) string {
	if g == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *g)
}

func runApprove(ctx context.Context, d *desk.Desk, args []string) error {
	fs := flag.NewFlagSet("approve", flag.ExitOnError)
	tokenStr := fs.String("token", "", "token to approve")
	spender := fs.String("spender", d.Network.V2Router.Hex(), "spender address")
	fs.Parse(args)

	if !common.IsHexAddress(*spender) {
		return fmt.Errorf("invalid spender %q", *spender)
	}
	token, err := swaps.ParseToken(ctx, d.Client, d.Network, *tokenStr)
	if err != nil {
		return err
	}
	hash, err := balances.Approve(ctx, d.Executor, token, common.HexToAddress(*spender))
	if err != nil {
		return err
	}
	return printSubmitted(d, hash)
}

type poolFlags struct {
	address, token, name, amount string
}

func (f *poolFlags) register(fs *flag.FlagSet, withAmount bool) {
	fs.StringVar(&f.address, "pool", "", "staking pool address")
	fs.StringVar(&f.token, "token", "", "token the pool accepts")
	fs.StringVar(&f.name, "name", "", "pool name for summaries (default: token symbol)")
	if withAmount {
		fs.StringVar(&f.amount, "amount", "", "amount in token units")
	}
}

func (f *poolFlags) pool(ctx context.Context, d *desk.Desk) (farm.Pool, error) {
	if !common.IsHexAddress(f.address) {
		return farm.Pool{}, fmt.Errorf("invalid pool address %q", f.address)
	}
	token, err := swaps.ParseToken(ctx, d.Client, d.Network, f.token)
	if err != nil {
		return farm.Pool{}, err
	}
	name := f.name
	if name == "" {
		name = token.Symbol
	}
	return farm.Pool{Name: name, Address: common.HexToAddress(f.address), Token: token}, nil
}

func runStake(ctx context.Context, d *desk.Desk, args []string) error {
	return poolAmountAction(ctx, d, "stake", args, func(p farm.Pool, a swaps.TokenAmount) (common.Hash, error) {
		need, err := d.Farm.NeedsApproval(ctx, p, d.Signer.Address(), a.Raw)
		if err != nil {
			return common.Hash{}, err
		}
		if need {
			fmt.Printf("%s pool needs an allowance first\n", p.Name)
			hash, err := d.Farm.Approve(ctx, p)
			if err != nil {
				return common.Hash{}, err
			}
			if err := printSubmitted(d, hash); err != nil {
				return common.Hash{}, err
			}
		}
		return d.Farm.Stake(ctx, p, a)
	})
}

func runUnstake(ctx context.Context, d *desk.Desk, args []string) error {
	return poolAmountAction(ctx, d, "unstake", args, func(p farm.Pool, a swaps.TokenAmount) (common.Hash, error) {
		return d.Farm.Unstake(ctx, p, a)
	})
}

func poolAmountAction(ctx context.Context, d *desk.Desk, name string, args []string, act func(farm.Pool, swaps.TokenAmount) (common.Hash, error)) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var pf poolFlags
	pf.register(fs, true)
	fs.Parse(args)

	pool, err := pf.pool(ctx, d)
	if err != nil {
		return err
	}
	amount, err := swaps.ParseAmount(pool.Token, pf.amount)
	if err != nil {
		return err
	}
	hash, err := act(pool, amount)
	if err != nil {
		return err
	}
	return printSubmitted(d, hash)
}

func runHarvest(ctx context.Context, d *desk.Desk, args []string) error {
	return poolAction(ctx, d, "harvest", args, d.Farm.Harvest)
}

func runRedeem(ctx context.Context, d *desk.Desk, args []string) error {
	return poolAction(ctx, d, "redeem", args, d.Farm.Redeem)
}

func poolAction(ctx context.Context, d *desk.Desk, name string, args []string, act func(context.Context, farm.Pool) (common.Hash, error)) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var pf poolFlags
	pf.register(fs, false)
	fs.Parse(args)

	pool, err := pf.pool(ctx, d)
	if err != nil {
		return err
	}
	hash, err := act(ctx, pool)
	if err != nil {
		return err
	}
	return printSubmitted(d, hash)
}

func runFarm(ctx context.Context, d *desk.Desk, args []string) error {
	fs := flag.NewFlagSet("farm", flag.ExitOnError)
	var pf poolFlags
	pf.register(fs, false)
	fs.Parse(args)

	pool, err := pf.pool(ctx, d)
	if err != nil {
		return err
	}
	account := d.Signer.Address()

	staked, err := d.Farm.Staked(ctx, pool, account)
	if err != nil {
		return err
	}
	earned, err := d.Farm.Earned(ctx, pool, account)
	if err != nil {
		return err
	}
	fmt.Printf("staked: %s %s\n", staked.ToSignificant(6), staked.Token.Symbol)
	fmt.Printf("earned: %s %s\n", earned.ToSignificant(6), earned.Token.Symbol)

	if factor, err := d.Farm.ScalingFactor(ctx); err == nil {
		fmt.Printf("scaling factor: %s\n", factor.StringFixed(4))
	}
	return nil
}

func runBalance(ctx context.Context, d *desk.Desk, _ []string) error {
	bals, err := d.Balances.Balances(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("account %s\n", d.Balances.Owner().Hex())
	for _, b := range bals {
		fmt.Printf("  %-6s %s\n", b.Symbol, b.Formatted)
	}
	return nil
}

func runExport(ctx context.Context, d *desk.Desk, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "transactions.parquet", "output file")
	limit := fs.Int64("limit", 10000, "maximum number of transactions")
	fs.Parse(args)

	rows, err := d.Store.ListRecentTransactions(ctx, *limit)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}
	records := make([]txlog.Record, len(rows))
	for i, r := range rows {
		records[i] = r.Record()
	}
	if err := txlog.ExportParquet(*out, records); err != nil {
		return err
	}
	fmt.Printf("wrote %d transactions to %s\n", len(records), *out)
	return nil
}

func printSubmitted(d *desk.Desk, hash common.Hash) error {
	summary := ""
	if r, ok := d.Log.Find(hash); ok {
		summary = r.Summary
	}
	fmt.Printf("submitted %s\n  %s\n  %s\n", summary, hash.Hex(), d.Config.ExplorerTxURL(hash.Hex()))
	return nil
}
