package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/joho/godotenv"

	"github.com/RaghavSood/swapdesk/config"
	"github.com/RaghavSood/swapdesk/desk"
	"github.com/RaghavSood/swapdesk/execution"
	"github.com/RaghavSood/swapdesk/logging"
)

const usage = `usage: swapcli [-config config.json] <command> [flags]

commands:
  quote     price a trade and estimate its gas
  swap      swap through the V2 router or a V1 exchange
  moonswap  swap through OneSplit or a Mooniswap pool
  approve   grant a spender an unlimited allowance
  stake     deposit into a staking pool
  unstake   withdraw from a staking pool
  harvest   claim staking rewards
  redeem    withdraw everything and claim rewards
  farm      show stake, rewards and the scaling factor
  balance   show account balances
  export    write the transaction history to a parquet file
`

type command func(ctx context.Context, d *desk.Desk, args []string) error

var commands = map[string]command{
	"quote":    runQuote,
	"swap":     runSwap,
	"moonswap": runMoonswap,
	"approve":  runApprove,
	"stake":    runStake,
	"unstake":  runUnstake,
	"harvest":  runHarvest,
	"redeem":   runRedeem,
	"farm":     runFarm,
	"balance":  runBalance,
	"export":   runExport,
}

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup runs before the process exits.
func run() int {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.json", "path to config file")
	yes := flag.Bool("yes", false, "sign without asking for confirmation")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prompt := confirm
	if *yes {
		prompt = nil
	}
	d, err := desk.Open(ctx, cfg, prompt, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		return 1
	}
	defer d.Close()

	stopPersist := d.Persist()
	err = cmd(ctx, d, flag.Args()[1:])
	stopPersist()

	if err != nil {
		report(err)
		return 1
	}
	return 0
}

// confirm asks on stdin before anything is signed.
func confirm(_ context.Context, tx *types.Transaction) (bool, error) {
	to := "contract creation"
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	fmt.Printf("Send transaction to %s (value %s wei, gas limit %d)? [y/N] ", to, tx.Value(), tx.Gas())

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// report prints what the user needs to know about a failed action.
func report(err error) {
	var estErr *execution.EstimateError
	var subErr *execution.SubmitError
	switch {
	case errors.Is(err, execution.ErrRejected):
		fmt.Fprintln(os.Stderr, "Transaction rejected.")
	case errors.As(err, &estErr):
		fmt.Fprintln(os.Stderr, estErr.Error())
	case errors.As(err, &subErr):
		fmt.Fprintln(os.Stderr, subErr.Error())
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
