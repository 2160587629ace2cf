// Package config loads runtime settings from an optional config file, a .env
// file, SPLTC_ environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/pinning"
	"spl-token-creator/internal/solana"
)

// EnvPrefix prefixes every environment variable, e.g. SPLTC_RPC_ENDPOINT.
const EnvPrefix = "SPLTC"

// DefaultOperatorAddress receives the service fee unless overridden.
const DefaultOperatorAddress = "Bdwf9SWWnPZT3EP5VSiGfRvSowahxdyUUYLM3RANrXQ2"

// Config is the full runtime configuration.
type Config struct {
	RPC      RPCConfig      `mapstructure:"rpc"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Pinata   PinataConfig   `mapstructure:"pinata"`
	Fees     FeesConfig     `mapstructure:"fees"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Status   StatusConfig   `mapstructure:"status"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// RPCConfig configures the Solana JSON-RPC client.
type RPCConfig struct {
	Endpoint            string        `mapstructure:"endpoint"`
	WSEndpoint          string        `mapstructure:"ws_endpoint"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRetries          int           `mapstructure:"max_retries"`
	ConfirmPollInterval time.Duration `mapstructure:"confirm_poll_interval"`
}

// WalletConfig locates the signing keypair.
type WalletConfig struct {
	KeypairPath string `mapstructure:"keypair_path"`
}

// PinataConfig holds the pinning service credentials.
type PinataConfig struct {
	APIKey       string `mapstructure:"api_key"`
	SecretAPIKey string `mapstructure:"secret_api_key"`
	JWT          string `mapstructure:"jwt"`
	APIURL       string `mapstructure:"api_url"`
	GatewayURL   string `mapstructure:"gateway_url"`
}

// FeesConfig holds SOL prices as decimal strings.
type FeesConfig struct {
	BaseSOL          string `mapstructure:"base_sol"`
	RevokeExtraSOL   string `mapstructure:"revoke_extra_sol"`
	NetworkBufferSOL string `mapstructure:"network_buffer_sol"`
	TransferSOL      string `mapstructure:"transfer_sol"`
	OperatorAddress  string `mapstructure:"operator_address"`
}

// MetadataConfig sets the creator listed in token metadata.
type MetadataConfig struct {
	CreatorName string `mapstructure:"creator_name"`
	CreatorSite string `mapstructure:"creator_site"`
}

// StatusConfig configures the status reporter.
type StatusConfig struct {
	ClearAfter time.Duration `mapstructure:"clear_after"`
}

// StorageConfig selects run history storage.
type StorageConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
	UseMemory     bool   `mapstructure:"use_memory"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"rpc-endpoint":    "rpc.endpoint",
	"ws-endpoint":     "rpc.ws_endpoint",
	"keypair":         "wallet.keypair_path",
	"postgres-dsn":    "storage.postgres_dsn",
	"clickhouse-dsn":  "storage.clickhouse_dsn",
	"use-memory":      "storage.use_memory",
	"addr":            "server.addr",
	"log-level":       "log.level",
	"log-development": "log.development",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc.endpoint", "https://api.mainnet-beta.solana.com")
	v.SetDefault("rpc.ws_endpoint", "")
	v.SetDefault("rpc.timeout", 30*time.Second)
	v.SetDefault("rpc.max_retries", 3)
	v.SetDefault("rpc.confirm_poll_interval", solana.DefaultConfirmPollInterval)
	v.SetDefault("wallet.keypair_path", "")
	v.SetDefault("pinata.api_key", "")
	v.SetDefault("pinata.secret_api_key", "")
	v.SetDefault("pinata.jwt", "")
	v.SetDefault("pinata.api_url", pinning.DefaultAPIURL)
	v.SetDefault("pinata.gateway_url", pinning.DefaultGatewayURL)
	v.SetDefault("fees.base_sol", domain.DefaultBaseCost.String())
	v.SetDefault("fees.revoke_extra_sol", domain.DefaultRevokeExtra.String())
	v.SetDefault("fees.network_buffer_sol", domain.DefaultNetworkFeeBuffer.String())
	v.SetDefault("fees.transfer_sol", domain.DefaultBaseCost.String())
	v.SetDefault("fees.operator_address", DefaultOperatorAddress)
	v.SetDefault("metadata.creator_name", pinning.DefaultCreatorName)
	v.SetDefault("metadata.creator_site", pinning.DefaultCreatorSite)
	v.SetDefault("status.clear_after", 5*time.Second)
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.clickhouse_dsn", "")
	v.SetDefault("storage.use_memory", true)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads configuration. configFile and flags are optional. Precedence,
// highest first: flags, environment, .env file, config file, defaults.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := LoadEnvFile(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LoadEnvFile exports the variables of a dotenv file that are not already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		// Don't override existing env vars
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, env.GetString(key)); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.RPC.Endpoint) == "" {
		errs = append(errs, errors.New("rpc.endpoint is required"))
	}
	if err := c.PinataConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := solana.ParseWalletAddress(c.Fees.OperatorAddress); err != nil {
		errs = append(errs, fmt.Errorf("fees.operator_address: %w", err))
	}
	if _, err := c.FeePolicy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseSOL("fees.transfer_sol", c.Fees.TransferSOL); err != nil {
		errs = append(errs, err)
	}
	if !c.Storage.UseMemory && (c.Storage.PostgresDSN == "" || c.Storage.ClickhouseDSN == "") {
		errs = append(errs, errors.New("storage.postgres_dsn and storage.clickhouse_dsn are required unless storage.use_memory is set"))
	}

	return errors.Join(errs...)
}

// PinataConfig converts to the pinning client configuration.
func (c *Config) PinataConfig() pinning.Config {
	return pinning.Config{
		APIKey:       c.Pinata.APIKey,
		SecretAPIKey: c.Pinata.SecretAPIKey,
		JWT:          c.Pinata.JWT,
		APIURL:       c.Pinata.APIURL,
		GatewayURL:   c.Pinata.GatewayURL,
	}
}

// FeePolicy parses the configured prices.
func (c *Config) FeePolicy() (domain.FeePolicy, error) {
	base, err := parseSOL("fees.base_sol", c.Fees.BaseSOL)
	if err != nil {
		return domain.FeePolicy{}, err
	}
	extra, err := parseSOL("fees.revoke_extra_sol", c.Fees.RevokeExtraSOL)
	if err != nil {
		return domain.FeePolicy{}, err
	}
	buffer, err := parseSOL("fees.network_buffer_sol", c.Fees.NetworkBufferSOL)
	if err != nil {
		return domain.FeePolicy{}, err
	}
	return domain.FeePolicy{BaseCost: base, RevokeExtra: extra, NetworkFeeBuffer: buffer}, nil
}

// FeeLamports returns the fee transferred to the operator.
func (c *Config) FeeLamports() (uint64, error) {
	sol, err := parseSOL("fees.transfer_sol", c.Fees.TransferSOL)
	if err != nil {
		return 0, err
	}
	return domain.SOLToLamports(sol), nil
}

// Creator returns the metadata creator.
func (c *Config) Creator() pinning.Creator {
	return pinning.Creator{Name: c.Metadata.CreatorName, Site: c.Metadata.CreatorSite}
}

func parseSOL(key, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: invalid amount %q: %w", key, s, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%s: negative amount %s", key, s)
	}
	return d, nil
}
