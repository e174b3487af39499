// Package bot is the operator's Telegram surface: account and balance
// lookups plus a push for every submitted transaction.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/balances"
	"github.com/RaghavSood/swapdesk/config"
	"github.com/RaghavSood/swapdesk/db"
)

const recentLimit = 10

// Sender is the outgoing half of the Telegram API.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	config   *config.Config
	balances *balances.Reader
	txs      TxLister
	logger   *zap.Logger
}

// TxLister lists persisted transactions, newest first.
type TxLister interface {
	ListRecentTransactions(ctx context.Context, limit int64) ([]db.Transaction, error)
}

func New(cfg *config.Config, bals *balances.Reader, txs TxLister, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("creating bot API: %w", err)
	}

	b := newBot(api, cfg, bals, txs, logger)
	b.api = api

	b.logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))
	return b, nil
}

func newBot(sender Sender, cfg *config.Config, bals *balances.Reader, txs TxLister, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{sender: sender, config: cfg, balances: bals, txs: txs, logger: logger}
}

// Run handles commands until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			if update.Message.Chat.ID != b.config.NotifyChatID {
				b.reply(update.Message, "You are not authorized to use this bot.")
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		return
	}
	b.reply(msg, b.respond(ctx, msg.Command()))
}

func (b *Bot) respond(ctx context.Context, command string) string {
	switch command {
	case "start", "help":
		return "Welcome to swapdesk! Use /address, /balance or /txs."
	case "address":
		return fmt.Sprintf("Acting account: `%s`", b.balances.Owner().Hex())
	case "balance":
		return b.balanceText(ctx)
	case "txs":
		return b.txsText(ctx)
	default:
		return "Unknown command. Use /help to see what I can do."
	}
}

func (b *Bot) balanceText(ctx context.Context) string {
	bals, err := b.balances.Balances(ctx)
	if err != nil {
		b.logger.Warn("fetching balances", zap.Error(err))
		return "Could not fetch balances right now. Please try again."
	}

	var sb strings.Builder
	sb.WriteString("*Balances*\n")
	for _, bal := range bals {
		if bal.Raw.Sign() == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s %s\n", bal.Formatted, bal.Symbol)
	}
	if sb.Len() == len("*Balances*\n") {
		sb.WriteString("No balances.")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) txsText(ctx context.Context) string {
	txs, err := b.txs.ListRecentTransactions(ctx, recentLimit)
	if err != nil {
		b.logger.Warn("listing transactions", zap.Error(err))
		return "Could not list transactions right now. Please try again."
	}
	if len(txs) == 0 {
		return "No transactions yet."
	}

	var sb strings.Builder
	sb.WriteString("*Recent transactions*\n")
	for _, tx := range txs {
		fmt.Fprintf(&sb, "• %s (%s) [tx](%s)\n", tx.Summary, tx.Status, b.config.ExplorerTxURL(tx.Hash))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Notify sends text to the configured chat.
func (b *Bot) Notify(text string) error {
	msg := tgbotapi.NewMessage(b.config.NotifyChatID, text)
	msg.ParseMode = "Markdown"
	msg.DisableWebPagePreview = true
	if _, err := b.sender.Send(msg); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	reply.ParseMode = "Markdown"
	if _, err := b.sender.Send(reply); err != nil {
		b.logger.Warn("sending reply", zap.Error(err))
	}
}
