package models

import "time"

// ModuleResult is the fixed result shape every analyzer produces. Results are
// built once by an analyzer (or synthesized by the orchestrator on failure)
// and never mutated afterwards.
type ModuleResult struct {
	Module     string             `json:"module_name"`
	RiskScore  float64            `json:"risk_score"`
	Confidence *float64           `json:"confidence,omitempty"`
	Warnings   []string           `json:"warnings"`
	Data       map[string]any     `json:"data"`
	Features   map[string]float64 `json:"features,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// FailedModuleResult synthesizes the neutral-risk placeholder used when an
// analyzer fails, times out or panics.
func FailedModuleResult(module string, err error) *ModuleResult {
	return &ModuleResult{
		Module:    module,
		RiskScore: 50,
		Warnings:  []string{"Module failed: " + err.Error()},
		Data:      map[string]any{},
		Features:  map[string]float64{},
		Error:     err.Error(),
	}
}

// FusionResult is the terminal output of the score fusion engine.
type FusionResult struct {
	RiskScore         float64            `json:"risk_score"`
	MLScore           *float64           `json:"ml_score,omitempty"`
	ModuleAverage     float64            `json:"module_average"`
	Confidence        int                `json:"confidence"`
	FeatureImportance map[string]float64 `json:"feature_importance,omitempty"`
	OverrideReason    *string            `json:"override_reason,omitempty"`
}

// ContractInfo is the token identity block embedded in the response.
type ContractInfo struct {
	Address     string   `json:"address"`
	Name        *string  `json:"name,omitempty"`
	Symbol      *string  `json:"symbol,omitempty"`
	Decimals    *uint8   `json:"decimals,omitempty"`
	TotalSupply *float64 `json:"total_supply,omitempty"`
	Chain       string   `json:"chain"`
}

// AnalysisResponse is the complete result of one analysis request. The
// honeypot simulation is a separate field: it is evidence carried beside the
// fused score, never folded into it.
type AnalysisResponse struct {
	Address      string                   `json:"address"`
	Chain        string                   `json:"chain"`
	ContractInfo *ContractInfo            `json:"contract_info"`
	RiskScore    float64                  `json:"risk_score"`
	RiskLevel    string                   `json:"risk_level"`
	Confidence   int                      `json:"confidence"`
	Modules      map[string]*ModuleResult `json:"modules"`

	HoneypotSimulation *SimulationResult `json:"honeypot_simulation,omitempty"`

	Warnings        []string `json:"warnings"`
	RedFlags        []string `json:"red_flags"`
	Recommendations []string `json:"recommendations"`

	MLScore           *float64           `json:"ml_score,omitempty"`
	ModuleAverage     float64            `json:"module_average"`
	FeatureImportance map[string]float64 `json:"feature_importance,omitempty"`
	OverrideReason    *string            `json:"override_reason,omitempty"`

	Timestamp  time.Time `json:"timestamp"`
	DurationMS float64   `json:"analysis_duration_ms"`
	Cached     bool      `json:"cached"`
}

// QuickCheckResponse is the lightweight cached-data answer.
type QuickCheckResponse struct {
	Address     string  `json:"address"`
	Chain       string  `json:"chain"`
	RiskScore   float64 `json:"risk_score"`
	RiskLevel   string  `json:"risk_level"`
	IsKnownScam bool    `json:"is_known_scam"`
	Cached      bool    `json:"cached"`
	Message     string  `json:"message,omitempty"`
}

// RiskLevel bands a 0-100 score into the reporting levels.
func RiskLevel(score float64) string {
	switch {
	case score >= 80:
		return "CRITICAL"
	case score >= 60:
		return "HIGH"
	case score >= 40:
		return "MEDIUM"
	case score >= 20:
		return "LOW"
	default:
		return "MINIMAL"
	}
}
