package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
chains:
  ethereum:
    chain_id: 1
    rpc_url: http://localhost:8545
    router: "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"
    factory: "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"
    wrapped_token: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Analysis.ModuleTimeout != 15*time.Second {
		t.Fatalf("module timeout = %v, want 15s", cfg.Analysis.ModuleTimeout)
	}
	if cfg.Honeypot.BuyAmountWei != "100000000000000000" {
		t.Fatalf("buy amount = %q", cfg.Honeypot.BuyAmountWei)
	}
	if cfg.Honeypot.MajorPoolTokens != 10_000 || cfg.Honeypot.MajorPoolUSD != 1_000_000 {
		t.Fatalf("major pool thresholds = %v/%v", cfg.Honeypot.MajorPoolTokens, cfg.Honeypot.MajorPoolUSD)
	}
	if cfg.Alerts.RiskThreshold != 70 {
		t.Fatalf("alert threshold = %v, want 70", cfg.Alerts.RiskThreshold)
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	bad := `
chains:
  ethereum:
    rpc_url: http://localhost:8545
    router: "0x1"
    factory: "0x2"
    wrapped_token: "0x3"
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsChainWithoutRouter(t *testing.T) {
	bad := `
environment: test
chains:
  ethereum:
    rpc_url: http://localhost:8545
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsNoChains(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: test\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadWithEnvOverridesRPC(t *testing.T) {
	t.Setenv("ETHEREUM_RPC", "http://override:8545")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Chains["ethereum"].RPCURL != "http://override:8545" {
		t.Fatalf("rpc url = %s, want env override", cfg.Chains["ethereum"].RPCURL)
	}
}

func TestLoadWithEnvRedisAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis-prod:6380")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Redis.Host != "redis-prod" || cfg.Redis.Port != 6380 {
		t.Fatalf("redis = %s:%d, want redis-prod:6380", cfg.Redis.Host, cfg.Redis.Port)
	}
}

func TestChainLookupCaseInsensitive(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := cfg.Chain("Ethereum"); !ok {
		t.Fatalf("mixed-case chain lookup failed")
	}
	if _, ok := cfg.Chain("solana"); ok {
		t.Fatalf("unknown chain lookup succeeded")
	}
}

func TestAlertsRequireBrokers(t *testing.T) {
	bad := minimalYAML + `
alerts:
  enabled: true
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("enabled alerts without brokers should fail validation")
	}
}
