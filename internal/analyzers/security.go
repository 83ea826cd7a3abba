package analyzers

import (
	"context"
	"fmt"
	"strings"

	"RugScan/internal/domain/models"
	"RugScan/pkg/eth"
)

// dangerousSelectors maps function names to the 4-byte selectors scanned for
// in deployed bytecode. "ff" is the SELFDESTRUCT opcode, not a selector.
var dangerousSelectors = []struct {
	name     string
	pattern  string
	critical bool
}{
	{"mint", "40c10f19", true},
	{"burn", "42966c68", false},
	{"pause", "8456cb59", false},
	{"blacklist", "f9f92be4", false},
	{"setTaxes", "8c0b5e22", false},
	{"renounceOwnership", "715018a6", false},
	{"transferOwnership", "f2fde38b", false},
	{"selfdestruct", "ff", true},
}

// SecurityAnalyzer scans deployed bytecode for administrative and destructive
// capabilities.
type SecurityAnalyzer struct{}

func NewSecurityAnalyzer() *SecurityAnalyzer { return &SecurityAnalyzer{} }

func (a *SecurityAnalyzer) Name() string { return "contract_security" }

func (a *SecurityAnalyzer) Analyze(ctx context.Context, address string, client *eth.Client) (*models.ModuleResult, error) {
	warnings := []string{}
	data := map[string]any{}
	features := map[string]float64{}
	risk := 0.0

	bytecode, err := client.CodeAt(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch bytecode: %w", err)
	}

	if bytecode == "" {
		// Distinguish "no contract here" from "bytecode retrieval degraded".
		info, infoErr := client.GetContractInfo(ctx, address)
		if infoErr == nil && info.IsContract {
			return &models.ModuleResult{
				Module:    a.Name(),
				RiskScore: 30,
				Warnings:  []string{"Bytecode unavailable (possible RPC limit or large contract)"},
				Data:      map[string]any{"bytecode_length": 0, "is_contract": true},
				Features:  map[string]float64{"has_bytecode": 0.5},
			}, nil
		}
		return &models.ModuleResult{
			Module:    a.Name(),
			RiskScore: 100,
			Warnings:  []string{"Contract bytecode not found - possible EOA or fake contract"},
			Data:      map[string]any{"bytecode_length": 0, "is_contract": false},
			Features:  map[string]float64{"has_bytecode": 0},
		}, nil
	}

	lower := strings.ToLower(bytecode)
	data["bytecode_length"] = len(bytecode)
	features["has_bytecode"] = 1

	found := []string{}
	for _, sel := range dangerousSelectors {
		if strings.Contains(lower, sel.pattern) {
			found = append(found, sel.name)
			features["has_"+sel.name] = 1
			risk += 10
			if sel.critical {
				warnings = append(warnings, fmt.Sprintf("CRITICAL: Contract has %s() capability", sel.name))
				risk += 10
			} else {
				warnings = append(warnings, fmt.Sprintf("Contract has %s() function", sel.name))
			}
		}
	}
	data["dangerous_functions"] = found
	features["dangerous_function_count"] = float64(len(found))

	// Upgradeable proxies can swap the entire implementation after launch.
	isProxy := strings.Contains(lower, "delegatecall") || strings.Contains(lower, "360894a13ba1a321")
	if isProxy {
		warnings = append(warnings, "Contract appears to be upgradeable (proxy)")
		risk += 20
		features["is_upgradeable"] = 1
	} else {
		features["is_upgradeable"] = 0
	}
	data["is_upgradeable"] = isProxy

	if len(bytecode) < 100 {
		warnings = append(warnings, "Suspiciously small contract bytecode")
		risk += 15
	}
	features["bytecode_size"] = min(float64(len(bytecode))/10000, 1.0)

	return &models.ModuleResult{
		Module:    a.Name(),
		RiskScore: min(risk, 100),
		Warnings:  warnings,
		Data:      data,
		Features:  features,
	}, nil
}
