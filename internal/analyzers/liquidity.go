package analyzers

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"RugScan/internal/domain/models"
	"RugScan/pkg/config"
	"RugScan/pkg/eth"
)

// LiquidityAnalyzer inspects the token's V2 pair against the wrapped native
// token and bands the USD liquidity estimate. The USD value is derived from
// the wrapped-native reserve and a configured native price; it is an
// order-of-magnitude signal, not an oracle quote.
type LiquidityAnalyzer struct {
	chain          config.ChainConfig
	nativePriceUSD float64
}

func NewLiquidityAnalyzer(chain config.ChainConfig, nativePriceUSD float64) *LiquidityAnalyzer {
	if nativePriceUSD <= 0 {
		nativePriceUSD = 2500
	}
	return &LiquidityAnalyzer{chain: chain, nativePriceUSD: nativePriceUSD}
}

func (a *LiquidityAnalyzer) Name() string { return "liquidity_pool" }

func (a *LiquidityAnalyzer) Analyze(ctx context.Context, address string, client *eth.Client) (*models.ModuleResult, error) {
	warnings := []string{}
	data := map[string]any{}
	features := map[string]float64{}
	risk := 0.0

	pair, err := client.GetPair(ctx, a.chain.Factory, address, a.chain.WrappedToken)
	if err != nil {
		return nil, fmt.Errorf("pair lookup: %w", err)
	}

	if pair == "" {
		warnings = append(warnings, "No DEX pair found - high risk")
		warnings = append(warnings, "Liquidity not locked - withdrawal risk")
		data["pair"] = nil
		data["total_liquidity_usd"] = 0.0
		data["is_locked"] = false
		features["liquidity_usd"] = 0.05
		features["lp_locked"] = 0
		return &models.ModuleResult{
			Module:    a.Name(),
			RiskScore: 55, // 35 no pair + 20 unlocked
			Warnings:  warnings,
			Data:      data,
			Features:  features,
		}, nil
	}
	data["pair"] = pair

	wnativeReserve, err := client.BalanceOf(ctx, a.chain.WrappedToken, pair)
	if err != nil {
		warnings = append(warnings, "Could not fetch liquidity data")
		data["total_liquidity_usd"] = 50_000.0 // conservative estimate
		risk += 20
	} else {
		reserve := normalize(wnativeReserve, 18)
		liquidityUSD := reserve * a.nativePriceUSD * 2
		data["total_liquidity_usd"] = liquidityUSD
		data["wnative_reserve"] = reserve

		switch {
		case liquidityUSD < 10_000:
			warnings = append(warnings, "CRITICAL: Very low liquidity (<$10k)")
			risk += 40
		case liquidityUSD < 50_000:
			warnings = append(warnings, "LOW: Limited liquidity (<$50k)")
			risk += 25
		case liquidityUSD < 100_000:
			warnings = append(warnings, "Moderate liquidity (<$100k)")
			risk += 10
		}
		features["liquidity_usd"] = min(liquidityUSD/1_000_000, 1.0)
	}

	// Lock registries are chain-specific services; without one the safe
	// assumption is unlocked.
	data["is_locked"] = false
	features["lp_locked"] = 0
	warnings = append(warnings, "Liquidity not locked - withdrawal risk")
	risk += 20

	return &models.ModuleResult{
		Module:    a.Name(),
		RiskScore: min(risk, 100),
		Warnings:  warnings,
		Data:      data,
		Features:  features,
	}, nil
}

// normalize converts a raw integer token amount to a float at the given
// decimals. Precision loss is fine for banding.
func normalize(v *big.Int, decimals uint8) float64 {
	f, _ := new(big.Float).SetInt(v).Float64()
	return f / math.Pow10(int(decimals))
}
