package analyzers

import (
	"context"
	"fmt"
	"math/big"

	"RugScan/internal/domain/models"
	"RugScan/pkg/eth"
)

var (
	buyTaxGetters  = []string{"buyTax", "_buyTax", "taxFee", "_taxFee"}
	sellTaxGetters = []string{"sellTax", "_sellTax", "taxFee", "_taxFee"}
)

// TokenomicsAnalyzer probes the common tax getter conventions and scores the
// declared buy/sell taxes. Contracts that expose no getters simply yield no
// tax signal; hidden fee logic is the honeypot simulator's problem.
type TokenomicsAnalyzer struct{}

func NewTokenomicsAnalyzer() *TokenomicsAnalyzer { return &TokenomicsAnalyzer{} }

func (a *TokenomicsAnalyzer) Name() string { return "tokenomics" }

func (a *TokenomicsAnalyzer) Analyze(ctx context.Context, address string, client *eth.Client) (*models.ModuleResult, error) {
	warnings := []string{}
	data := map[string]any{}
	features := map[string]float64{}
	risk := 0.0

	buyTax := probeTax(ctx, client, address, buyTaxGetters)
	sellTax := probeTax(ctx, client, address, sellTaxGetters)

	data["buy_tax"] = buyTax
	data["sell_tax"] = sellTax
	data["has_tax_functions"] = buyTax != nil || sellTax != nil

	bt := 0.0
	st := 0.0
	if buyTax != nil {
		bt = *buyTax
	}
	if sellTax != nil {
		st = *sellTax
	}

	if bt > 10 {
		warnings = append(warnings, fmt.Sprintf("High buy tax: %.1f%%", bt))
		risk += 20
	}
	if st > 15 {
		warnings = append(warnings, fmt.Sprintf("High sell tax: %.1f%%", st))
		risk += 25
	}
	if bt+st > 20 {
		warnings = append(warnings, fmt.Sprintf("Excessive total tax: %.1f%%", bt+st))
		risk += 15
	}
	if st-bt > 10 {
		warnings = append(warnings, "Sell tax much higher than buy tax - exit penalty pattern")
		risk += 20
	}

	features["buy_tax"] = bt / 100
	features["sell_tax"] = st / 100
	features["total_tax"] = (bt + st) / 100
	features["tax_difference"] = abs(st-bt) / 100

	return &models.ModuleResult{
		Module:    a.Name(),
		RiskScore: min(risk, 100),
		Warnings:  warnings,
		Data:      data,
		Features:  features,
	}, nil
}

// probeTax tries each getter until one answers. Values above 100 are assumed
// to be basis points.
func probeTax(ctx context.Context, client *eth.Client, address string, getters []string) *float64 {
	for _, getter := range getters {
		v, err := client.TokenUint(ctx, address, getter)
		if err != nil {
			continue
		}
		tax := taxPercent(v)
		return &tax
	}
	return nil
}

func taxPercent(v *big.Int) float64 {
	f, _ := new(big.Float).SetInt(v).Float64()
	if f > 100 {
		return f / 100
	}
	return f
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
