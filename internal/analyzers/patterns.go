package analyzers

import (
	"context"
	"fmt"
	"strings"

	"RugScan/internal/domain/models"
	"RugScan/internal/domain/service"
	"RugScan/pkg/eth"
)

// honeypotSelectors are bytecode fragments common in trade-restricting
// contracts: blacklist storage, per-wallet caps and sell cooldowns.
var honeypotSelectors = map[string]string{
	"blacklist_check": "f9f92be4",
	"max_tx_amount":   "8da5cb5b7c025200",
	"cooldown_timer":  "a9059cbb00000000",
	"trading_enabled": "8a8c523c",
}

// PatternAnalyzer compares a contract against the known-scam database and
// common honeypot bytecode fragments.
type PatternAnalyzer struct {
	scamDB service.ScamDatabase
}

func NewPatternAnalyzer(scamDB service.ScamDatabase) *PatternAnalyzer {
	return &PatternAnalyzer{scamDB: scamDB}
}

func (a *PatternAnalyzer) Name() string { return "pattern_matching" }

func (a *PatternAnalyzer) Analyze(ctx context.Context, address string, client *eth.Client) (*models.ModuleResult, error) {
	warnings := []string{}
	data := map[string]any{}
	features := map[string]float64{}
	risk := 0.0

	if a.scamDB != nil && a.scamDB.IsKnownScam(address) {
		return &models.ModuleResult{
			Module:    a.Name(),
			RiskScore: 100,
			Warnings:  []string{"Address is in the known scam database"},
			Data:      map[string]any{"is_known_scam": true},
			Features:  map[string]float64{"is_known_scam": 1},
		}, nil
	}
	features["is_known_scam"] = 0
	data["is_known_scam"] = false

	bytecode, err := client.CodeAt(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch bytecode: %w", err)
	}
	lower := strings.ToLower(bytecode)

	found := []string{}
	for name, fragment := range honeypotSelectors {
		if strings.Contains(lower, fragment) {
			found = append(found, name)
		}
	}
	if len(found) >= 2 {
		warnings = append(warnings, fmt.Sprintf("%d honeypot-like bytecode patterns detected", len(found)))
		risk += float64(len(found)) * 15
	} else if len(found) == 1 {
		warnings = append(warnings, "Honeypot-like bytecode pattern: "+found[0])
		risk += 10
	}
	data["honeypot_patterns"] = found
	features["honeypot_pattern_count"] = float64(len(found))
	features["bytecode_size_normalized"] = min(float64(len(bytecode))/50000, 1.0)

	return &models.ModuleResult{
		Module:    a.Name(),
		RiskScore: min(risk, 100),
		Warnings:  warnings,
		Data:      data,
		Features:  features,
	}, nil
}
