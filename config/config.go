package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const envPrefix = "swapdesk"

type Config struct {
	// JSON-RPC endpoint of the execution client
	RPCURL string `mapstructure:"rpc_url"`

	// Chain the RPC endpoint serves; selects the contract address table
	ChainID int64 `mapstructure:"chain_id"`

	// BIP39 mnemonic for wallet derivation
	Mnemonic string `mapstructure:"mnemonic"`

	// BIP44 account index used as the acting account
	AccountIndex uint32 `mapstructure:"account_index"`

	// Path to SQLite database
	DatabasePath string `mapstructure:"database_path"`

	// Telegram bot token from @BotFather; empty disables the bot
	TelegramToken string `mapstructure:"telegram_token"`

	// Chat that receives transaction notifications
	NotifyChatID int64 `mapstructure:"notify_chat_id"`

	// HTTP server port (default 8080)
	Port int `mapstructure:"port"`

	// Optional password to protect the API; empty = public
	DashboardPassword string `mapstructure:"dashboard_password"`

	// Mooniswap referral beneficiary; malformed or empty uses the built-in default
	ReferralAddress string `mapstructure:"referral_address"`

	// Safety margin added to gas estimates, in basis points (1000 = +10%)
	GasMarginBps int64 `mapstructure:"gas_margin_bps"`

	// Default slippage tolerance in basis points
	SlippageBps int64 `mapstructure:"slippage_bps"`

	// Default swap deadline, seconds from now
	DeadlineSeconds int64 `mapstructure:"deadline_seconds"`

	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	Development bool     `mapstructure:"development"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// Load reads the JSON config at path, overlays SWAPDESK_* environment variables
// and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file %q not found: %w", path, err)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chain_id", 1)
	v.SetDefault("database_path", "swapdesk.db")
	v.SetDefault("port", 8080)
	v.SetDefault("gas_margin_bps", 1000)
	v.SetDefault("slippage_bps", 50)
	v.SetDefault("deadline_seconds", 20*60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.output_paths", []string{"stdout"})

	// AutomaticEnv only sees keys viper already knows about.
	v.SetDefault("rpc_url", "")
	v.SetDefault("mnemonic", "")
	v.SetDefault("account_index", 0)
	v.SetDefault("telegram_token", "")
	v.SetDefault("notify_chat_id", 0)
	v.SetDefault("dashboard_password", "")
	v.SetDefault("referral_address", "")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var err error
	if c.RPCURL == "" {
		err = multierr.Append(err, errors.New("rpc_url is required"))
	}
	if c.Mnemonic == "" {
		err = multierr.Append(err, errors.New("mnemonic is required"))
	}
	if c.ChainID <= 0 {
		err = multierr.Append(err, errors.New("chain_id must be positive"))
	}
	if c.DatabasePath == "" {
		err = multierr.Append(err, errors.New("database_path is required"))
	}
	if c.GasMarginBps < 0 {
		err = multierr.Append(err, errors.New("gas_margin_bps must not be negative"))
	}
	if c.SlippageBps < 0 || c.SlippageBps >= 10000 {
		err = multierr.Append(err, errors.New("slippage_bps must be in [0, 10000)"))
	}
	if c.DeadlineSeconds <= 0 {
		err = multierr.Append(err, errors.New("deadline_seconds must be positive"))
	}
	if c.TelegramToken != "" && c.NotifyChatID == 0 {
		err = multierr.Append(err, errors.New("notify_chat_id is required when telegram_token is set"))
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	return err
}

// Referral returns the configured referral address when it is a valid hex
// address.
func (c *Config) Referral() (common.Address, bool) {
	if c.ReferralAddress == "" || !common.IsHexAddress(c.ReferralAddress) {
		return common.Address{}, false
	}
	return common.HexToAddress(c.ReferralAddress), true
}

// ExplorerTxURL returns a block explorer link for a transaction hash.
func (c *Config) ExplorerTxURL(txHash string) string {
	switch c.ChainID {
	case 1:
		return "https://etherscan.io/tx/" + txHash
	case 5:
		return "https://goerli.etherscan.io/tx/" + txHash
	case 11155111:
		return "https://sepolia.etherscan.io/tx/" + txHash
	default:
		return txHash
	}
}
