package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bundler-sim/bundler_sim/internal/simulator"
)

const (
	defaultAppName        = "BundlerSim"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultChainVariant   = "evm"
	defaultBalancePolicy  = BalancePolicyPersist
	defaultLoginRateLimit = 5

	configFileEnvVar       = "BUNDLER_CONFIG"
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Balance policies for addresses the ledger has never seen.
const (
	// BalancePolicyPersist stores the random initial balance on first query.
	BalancePolicyPersist = "persist"
	// BalancePolicyEphemeral reports a fresh random balance and stores nothing.
	BalancePolicyEphemeral = "ephemeral"
)

// SeedUser is a login account created at startup.
type SeedUser struct {
	Username string `mapstructure:"username"`
	PIN      string `mapstructure:"pin"`
	Role     string `mapstructure:"role"`
}

// Config captures application runtime configuration loaded from the
// environment and an optional YAML file.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	LoginRateLimit int
	CORSOrigins    string
	FrontendPath   string

	ChainVariant   string
	BalancePolicy  string
	SimulateDelays bool
	Simulation     simulator.Config
	Users          []SeedUser
}

// Load reads configuration values. Environment variables win over the file
// named by BUNDLER_CONFIG.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path := v.GetString(configFileEnvVar); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	def := simulator.DefaultConfig()

	v.SetDefault("APP_NAME", defaultAppName)
	v.SetDefault("APP_ENV", defaultAppEnv)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOGIN_RATE_LIMIT", defaultLoginRateLimit)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("FRONTEND_PATH", "")
	v.SetDefault("CHAIN_VARIANT", defaultChainVariant)
	v.SetDefault("BALANCE_POLICY", defaultBalancePolicy)
	v.SetDefault("SIMULATE_DELAYS", true)
	v.SetDefault("RECORD_BUNDLES", def.RecordBundles)
	v.SetDefault("FUNDING_SUCCESS_PROBABILITY", def.Funding.SuccessProbability)
	v.SetDefault("WITHDRAWAL_SUCCESS_PROBABILITY", def.Withdrawal.SuccessProbability)
	v.SetDefault("BUNDLE_SUCCESS_PROBABILITY", def.Bundle.SuccessProbability)
	v.SetDefault("TOKEN_SUCCESS_PROBABILITY", def.Token.SuccessProbability)
	v.SetDefault("DEFAULT_FUND_AMOUNT", def.DefaultFundAmount)
	v.SetDefault("DEFAULT_PRIORITY_FEE", def.DefaultPriorityFee)
	v.SetDefault("DEFAULT_TOKEN_PLATFORM", def.Token.DefaultPlatform)
	v.SetDefault("ADMIN_USERNAME", "walshadmin")
	v.SetDefault("ADMIN_PIN", "612599")
	v.SetDefault("DEMO_USERNAME", "demo")
	v.SetDefault("DEMO_PIN", "123456")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppName:        v.GetString("APP_NAME"),
		AppEnv:         v.GetString("APP_ENV"),
		Port:           v.GetString("PORT"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		RedisURL:       v.GetString("REDIS_URL"),
		LoginRateLimit: v.GetInt("LOGIN_RATE_LIMIT"),
		CORSOrigins:    v.GetString("CORS_ORIGINS"),
		FrontendPath:   v.GetString("FRONTEND_PATH"),
		ChainVariant:   strings.ToLower(v.GetString("CHAIN_VARIANT")),
		BalancePolicy:  strings.ToLower(v.GetString("BALANCE_POLICY")),
		SimulateDelays: v.GetBool("SIMULATE_DELAYS"),
	}

	var err error
	if cfg.ShutdownPeriod, err = duration(v, shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = duration(v, idemTTLSecondsEnvVar, idemTTLDurEnvVar, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}

	sim := simulator.DefaultConfig()
	sim.RecordBundles = v.GetBool("RECORD_BUNDLES")
	sim.Funding.SuccessProbability = v.GetFloat64("FUNDING_SUCCESS_PROBABILITY")
	sim.Withdrawal.SuccessProbability = v.GetFloat64("WITHDRAWAL_SUCCESS_PROBABILITY")
	sim.Bundle.SuccessProbability = v.GetFloat64("BUNDLE_SUCCESS_PROBABILITY")
	sim.Token.SuccessProbability = v.GetFloat64("TOKEN_SUCCESS_PROBABILITY")
	sim.DefaultFundAmount = v.GetFloat64("DEFAULT_FUND_AMOUNT")
	sim.DefaultPriorityFee = v.GetFloat64("DEFAULT_PRIORITY_FEE")
	sim.Token.DefaultPlatform = v.GetString("DEFAULT_TOKEN_PLATFORM")
	cfg.Simulation = sim

	if err := v.UnmarshalKey("users", &cfg.Users); err != nil {
		return Config{}, fmt.Errorf("invalid users: %w", err)
	}
	if len(cfg.Users) == 0 {
		cfg.Users = []SeedUser{
			{Username: v.GetString("ADMIN_USERNAME"), PIN: v.GetString("ADMIN_PIN"), Role: "admin"},
			{Username: v.GetString("DEMO_USERNAME"), PIN: v.GetString("DEMO_PIN"), Role: "user"},
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unusable combinations.
func (c Config) Validate() error {
	switch c.ChainVariant {
	case "evm", "solana":
	default:
		return fmt.Errorf("invalid CHAIN_VARIANT %q", c.ChainVariant)
	}
	switch c.BalancePolicy {
	case BalancePolicyPersist, BalancePolicyEphemeral:
	default:
		return fmt.Errorf("invalid BALANCE_POLICY %q", c.BalancePolicy)
	}
	if c.LoginRateLimit < 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must not be negative")
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("invalid simulation settings: %w", err)
	}
	return nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a local environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// duration prefers an integer seconds key over a Go duration key.
func duration(v *viper.Viper, secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if raw := v.GetString(secondsKey); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if raw := v.GetString(durationKey); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}
