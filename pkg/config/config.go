package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type ChainConfig struct {
	ChainID      int    `yaml:"chain_id"`
	Name         string `yaml:"name"`
	RPCURL       string `yaml:"rpc_url"`
	NativeToken  string `yaml:"native_token"`
	Router       string `yaml:"router"`
	Factory      string `yaml:"factory"`
	WrappedToken string `yaml:"wrapped_token"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Chains   map[string]ChainConfig `yaml:"chains"`
	Analysis struct {
		ModuleTimeout    time.Duration `yaml:"module_timeout"`
		PipelineDeadline time.Duration `yaml:"pipeline_deadline"`
		CacheTTL         time.Duration `yaml:"cache_ttl"`
		ScamDatabasePath string        `yaml:"scam_database_path"`
	} `yaml:"analysis"`
	Honeypot struct {
		StepTimeout     time.Duration `yaml:"step_timeout"`
		BuyAmountWei    string        `yaml:"buy_amount_wei"`
		MajorPoolTokens float64       `yaml:"major_pool_tokens"`
		MajorPoolUSD    float64       `yaml:"major_pool_usd"`
	} `yaml:"honeypot"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Alerts struct {
		Enabled       bool     `yaml:"enabled"`
		Brokers       []string `yaml:"brokers"`
		Topic         string   `yaml:"topic"`
		RiskThreshold float64  `yaml:"risk_threshold"`
	} `yaml:"alerts"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled"`
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"rate_limit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// RPC endpoints are usually injected via env (ETHEREUM_RPC, BSC_RPC, POLYGON_RPC).
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	for name, chain := range c.Chains {
		env := strings.ToUpper(name) + "_RPC"
		if v := os.Getenv(env); v != "" {
			chain.RPCURL = v
			c.Chains[name] = chain
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := splitHostPort(v)
		c.Redis.Host = host
		if port != 0 {
			c.Redis.Port = port
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Alerts.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SCAM_DATABASE_PATH"); v != "" {
		c.Analysis.ScamDatabasePath = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Analysis.ModuleTimeout == 0 {
		c.Analysis.ModuleTimeout = 15 * time.Second
	}
	if c.Analysis.PipelineDeadline == 0 {
		c.Analysis.PipelineDeadline = 90 * time.Second
	}
	if c.Analysis.CacheTTL == 0 {
		c.Analysis.CacheTTL = 10 * time.Minute
	}
	if c.Honeypot.StepTimeout == 0 {
		c.Honeypot.StepTimeout = 10 * time.Second
	}
	if c.Honeypot.BuyAmountWei == "" {
		c.Honeypot.BuyAmountWei = "100000000000000000" // 0.1 native
	}
	if c.Honeypot.MajorPoolTokens == 0 {
		c.Honeypot.MajorPoolTokens = 10_000
	}
	if c.Honeypot.MajorPoolUSD == 0 {
		c.Honeypot.MajorPoolUSD = 1_000_000
	}
	if c.Alerts.RiskThreshold == 0 {
		c.Alerts.RiskThreshold = 70
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Chains) == 0 {
		return fmt.Errorf("at least one chain must be configured")
	}
	for name, chain := range c.Chains {
		if chain.RPCURL == "" {
			return fmt.Errorf("chains.%s.rpc_url is required", name)
		}
		if chain.Router == "" || chain.Factory == "" || chain.WrappedToken == "" {
			return fmt.Errorf("chains.%s requires router, factory and wrapped_token", name)
		}
	}
	if c.Alerts.Enabled && len(c.Alerts.Brokers) == 0 {
		return fmt.Errorf("alerts.brokers are required when alerts are enabled")
	}
	return nil
}

// Chain returns the configuration for a chain name, case-insensitive.
func (c *Config) Chain(name string) (ChainConfig, bool) {
	chain, ok := c.Chains[strings.ToLower(name)]
	return chain, ok
}

func splitHostPort(addr string) (string, int) {
	host := addr
	port := 0
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
		fmt.Sscanf(addr[i+1:], "%d", &port)
	}
	return host, port
}
