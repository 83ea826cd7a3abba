package analyzers

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"RugScan/internal/domain/models"
	"RugScan/pkg/eth"
)

// holderScanBlocks is the trailing block window sampled for Transfer events.
const holderScanBlocks = 20_000

// HolderAnalyzer estimates holder concentration from recent Transfer events.
// Without an indexer only a sample is visible, so the result carries explicit
// sample-size caveats instead of pretending to be exhaustive.
type HolderAnalyzer struct{}

func NewHolderAnalyzer() *HolderAnalyzer { return &HolderAnalyzer{} }

func (a *HolderAnalyzer) Name() string { return "holder_analysis" }

func (a *HolderAnalyzer) Analyze(ctx context.Context, address string, client *eth.Client) (*models.ModuleResult, error) {
	warnings := []string{}
	data := map[string]any{}
	features := map[string]float64{}
	risk := 0.0

	head, err := client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("head block: %w", err)
	}
	from := uint64(0)
	if head > holderScanBlocks {
		from = head - holderScanBlocks
	}

	logs, err := client.GetLogs(ctx, eth.LogFilter{
		Address:   address,
		Topics:    []string{eth.TransferTopic},
		FromBlock: from,
		ToBlock:   head,
	})
	if err != nil {
		return nil, fmt.Errorf("transfer logs: %w", err)
	}

	balances := map[string]*big.Int{}
	for _, lg := range logs {
		if len(lg.Topics) < 3 {
			continue
		}
		fromAddr := topicAddress(lg.Topics[1])
		toAddr := topicAddress(lg.Topics[2])
		value, ok := new(big.Int).SetString(strings.TrimPrefix(lg.Data, "0x"), 16)
		if !ok {
			continue
		}
		if fromAddr != eth.ZeroAddress {
			bal := balances[fromAddr]
			if bal == nil {
				bal = new(big.Int)
			}
			balances[fromAddr] = new(big.Int).Sub(bal, value)
		}
		if toAddr != eth.ZeroAddress {
			bal := balances[toAddr]
			if bal == nil {
				bal = new(big.Int)
			}
			balances[toAddr] = new(big.Int).Add(bal, value)
		}
	}

	// Keep positive sampled balances only; outflow-only wallets are noise.
	holders := make([]*big.Int, 0, len(balances))
	total := new(big.Int)
	for _, bal := range balances {
		if bal.Sign() > 0 {
			holders = append(holders, bal)
			total.Add(total, bal)
		}
	}
	sampleSize := len(holders)
	data["analyzed_wallet_count"] = sampleSize

	if sampleSize == 0 || total.Sign() == 0 {
		return &models.ModuleResult{
			Module:    a.Name(),
			RiskScore: 20,
			Warnings:  []string{"No transfer activity in the sampled window - cannot assess distribution"},
			Data:      data,
			Features:  map[string]float64{"top_10_concentration": 0, "holder_sample_size": 0},
		}, nil
	}

	sort.Slice(holders, func(i, j int) bool { return holders[i].Cmp(holders[j]) > 0 })

	top10 := new(big.Int)
	for i := 0; i < len(holders) && i < 10; i++ {
		top10.Add(top10, holders[i])
	}
	top10Ratio := ratio(top10, total)
	gini := giniCoefficient(holders, total)

	switch {
	case top10Ratio > 0.9:
		risk += 60
		warnings = append(warnings, fmt.Sprintf("EXTREME CENTRALIZATION: Top 10 holders own %.1f%% of sampled supply", top10Ratio*100))
	case top10Ratio > 0.7:
		risk += 40
		warnings = append(warnings, fmt.Sprintf("High Centralization: Top 10 own %.1f%%", top10Ratio*100))
	case top10Ratio > 0.5:
		risk += 15
		warnings = append(warnings, fmt.Sprintf("Concentrated supply: Top 10 own %.1f%%", top10Ratio*100))
	}
	if gini > 0.8 {
		risk += 10
		warnings = append(warnings, "High inequality between active holders")
	}
	if sampleSize < 20 {
		risk += 15
		warnings = append(warnings, fmt.Sprintf("Limited sample size (%d holders) - results may not be representative", sampleSize))
	} else if sampleSize < 100 {
		risk += 5
		warnings = append(warnings, fmt.Sprintf("Moderate sample size (%d holders) - consider as estimation", sampleSize))
	}

	data["top_10_ratio"] = round4(top10Ratio)
	data["gini_coefficient"] = round4(gini)
	features["top_10_concentration"] = top10Ratio
	features["gini_coefficient"] = gini
	features["holder_sample_size"] = min(float64(sampleSize)/1000, 1.0)

	return &models.ModuleResult{
		Module:    a.Name(),
		RiskScore: min(risk, 100),
		Warnings:  warnings,
		Data:      data,
		Features:  features,
	}, nil
}

func topicAddress(topic string) string {
	s := strings.TrimPrefix(strings.ToLower(topic), "0x")
	if len(s) < 40 {
		return eth.ZeroAddress
	}
	return "0x" + s[len(s)-40:]
}

func ratio(part, total *big.Int) float64 {
	p := new(big.Float).SetInt(part)
	t := new(big.Float).SetInt(total)
	out, _ := new(big.Float).Quo(p, t).Float64()
	return out
}

// giniCoefficient over descending-sorted balances.
func giniCoefficient(sorted []*big.Int, total *big.Int) float64 {
	n := len(sorted)
	if n <= 1 {
		return 0
	}
	// Work on ascending order for the standard formula.
	weighted := new(big.Int)
	for i := n - 1; i >= 0; i-- {
		rank := int64(n - i) // ascending rank
		weighted.Add(weighted, new(big.Int).Mul(big.NewInt(rank), sorted[i]))
	}
	num := ratio(weighted, total)
	return (2*num - float64(n+1)) / float64(n)
}

func round4(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}
