package bot

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/RaghavSood/swapdesk/balances"
	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/chain/chaintest"
	"github.com/RaghavSood/swapdesk/config"
	"github.com/RaghavSood/swapdesk/db"
)

var (
	mainnet = chain.Networks[chain.Mainnet]
	owner   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

type fakeSender struct{ sent []tgbotapi.MessageConfig }

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

type fakeTxs struct {
	rows []db.Transaction
	err  error
}

func (f fakeTxs) ListRecentTransactions(context.Context, int64) ([]db.Transaction, error) {
	return f.rows, f.err
}

func newTestBot(txs TxLister) (*Bot, *fakeSender) {
	backend := chaintest.New()
	backend.CallFunc = chaintest.Multicall(chain.Multicall3ABI, mainnet.Multicall3, func(target common.Address, _ []byte) []byte {
		if target == mainnet.Multicall3 {
			return chaintest.Word(big.NewInt(2e18))
		}
		return chaintest.Word(big.NewInt(0))
	})

	sender := &fakeSender{}
	cfg := &config.Config{ChainID: 1, NotifyChatID: 42}
	return newBot(sender, cfg, balances.NewReader(backend, mainnet, owner), txs, nil), sender
}

func TestRespond(t *testing.T) {
	b, _ := newTestBot(fakeTxs{rows: []db.Transaction{
		{Hash: "0xabc", Summary: "Swap 1 ETH for 2000 DAI", Status: db.StatusConfirmed},
	}})
	ctx := context.Background()

	assert.Contains(t, b.respond(ctx, "address"), owner.Hex())
	assert.Equal(t, "*Balances*\n2 ETH", b.respond(ctx, "balance"))
	assert.Equal(t, "*Recent transactions*\n• Swap 1 ETH for 2000 DAI (confirmed) [tx](https://etherscan.io/tx/0xabc)", b.respond(ctx, "txs"))
	assert.Contains(t, b.respond(ctx, "nope"), "Unknown command")
}

func TestRespondErrors(t *testing.T) {
	b, _ := newTestBot(fakeTxs{err: errors.New("disk I/O error")})
	txt := b.respond(context.Background(), "txs")
	assert.NotContains(t, txt, "disk")

	b, _ = newTestBot(fakeTxs{})
	assert.Equal(t, "No transactions yet.", b.respond(context.Background(), "txs"))
}

func TestNotify(t *testing.T) {
	b, sender := newTestBot(fakeTxs{})
	assert.NoError(t, b.Notify("*Submitted*\nApprove DAI"))

	if assert.Len(t, sender.sent, 1) {
		assert.Equal(t, int64(42), sender.sent[0].ChatID)
		assert.Equal(t, "Markdown", sender.sent[0].ParseMode)
		assert.Contains(t, sender.sent[0].Text, "Approve DAI")
	}
}
