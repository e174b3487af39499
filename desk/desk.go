// Package desk wires the node client, signer, transaction log and the swap,
// farm and balance components for one configured account.
package desk

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/apilog"
	"github.com/RaghavSood/swapdesk/balances"
	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/config"
	"github.com/RaghavSood/swapdesk/db"
	"github.com/RaghavSood/swapdesk/ens"
	"github.com/RaghavSood/swapdesk/execution"
	"github.com/RaghavSood/swapdesk/farm"
	"github.com/RaghavSood/swapdesk/mooniswap"
	"github.com/RaghavSood/swapdesk/reserves"
	"github.com/RaghavSood/swapdesk/swaps"
	"github.com/RaghavSood/swapdesk/txlog"
	"github.com/RaghavSood/swapdesk/wallet"
)

type Desk struct {
	Config   *config.Config
	Network  chain.Network
	Store    *db.Store
	Client   *ethclient.Client
	Signer   wallet.Signer
	Log      *txlog.Log
	Executor *execution.Executor
	Resolver *ens.Resolver
	Reserves *reserves.Reader
	Swaps    *swaps.Manager
	Swapper  *mooniswap.Swapper
	Farm     *farm.Farm
	Balances *balances.Reader

	logger *zap.Logger
}

// Open connects everything. A non-nil prompt wraps the key signer so every
// transaction is confirmed before it is signed.
func Open(ctx context.Context, cfg *config.Config, prompt wallet.PromptFunc, logger *zap.Logger) (*Desk, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	network, err := chain.Lookup(cfg.ChainID)
	if err != nil {
		return nil, err
	}

	store, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	client, err := apilog.Dial(ctx, cfg.RPCURL, store, logger.Named("apilog"))
	if err != nil {
		store.Close()
		return nil, err
	}

	remote, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		store.Close()
		return nil, fmt.Errorf("querying chain id: %w", err)
	}
	if remote.Int64() != cfg.ChainID {
		client.Close()
		store.Close()
		return nil, fmt.Errorf("rpc serves chain %s, config expects %d", remote, cfg.ChainID)
	}

	keySigner, err := wallet.SignerFromMnemonic(cfg.Mnemonic, cfg.AccountIndex)
	if err != nil {
		client.Close()
		store.Close()
		return nil, fmt.Errorf("deriving account: %w", err)
	}
	var signer wallet.Signer = keySigner
	if prompt != nil {
		signer = wallet.NewConfirmingSigner(keySigner, prompt)
	}

	log := txlog.New(logger.Named("txlog"))
	exec := execution.NewExecutor(
		execution.NewSequencer(client, logger.Named("sequencer")),
		execution.NewSubmitter(client, signer, cfg.ChainID, uint64(cfg.GasMarginBps), log, logger.Named("submitter")),
	)
	resolver := ens.NewResolver(client, network.ENSRegistry, logger.Named("ens"))

	reward, _ := network.TokenBySymbol("YAM")

	d := &Desk{
		Config:   cfg,
		Network:  network,
		Store:    store,
		Client:   client,
		Signer:   signer,
		Log:      log,
		Executor: exec,
		Resolver: resolver,
		Reserves: reserves.NewReader(client, network),
		Swaps:    swaps.NewManager(&network, exec, resolver, logger.Named("swaps")),
		Swapper:  mooniswap.NewSwapper(network, client, exec, mooniswap.ReferralFrom(cfg.ReferralAddress), logger.Named("mooniswap")),
		Farm:     farm.New(client, exec, swaps.TokenFromInfo(network.ChainID, reward), logger.Named("farm")),
		Balances: balances.NewReader(client, network, signer.Address()),
		logger:   logger,
	}

	logger.Info("desk ready",
		zap.String("network", network.Name),
		zap.Stringer("account", signer.Address()))
	return d, nil
}

// Persist mirrors new log records into the database in the background. The
// returned func stops it once every record appended so far is written.
func (d *Desk) Persist() (stop func()) {
	records, cancel := d.Log.Subscribe(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Store.Persist(context.Background(), records, d.logger.Named("persist"))
	}()
	return func() {
		cancel()
		<-done
	}
}

// Options returns swap options seeded from the configured defaults.
func (d *Desk) Options(recipient string) swaps.Options {
	return swaps.Options{
		SlippageBps:     uint32(d.Config.SlippageBps),
		DeadlineSeconds: uint64(d.Config.DeadlineSeconds),
		Recipient:       recipient,
	}
}

func (d *Desk) Close() {
	d.Client.Close()
	d.Store.Close()
}
