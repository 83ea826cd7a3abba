package usecase

import (
	"math"
	"strings"

	"RugScan/internal/domain/models"
	"RugScan/internal/domain/service"
	"RugScan/pkg/logger"
)

// moduleWeights expresses the relative trust placed in each analyzer when
// computing the weighted average. Unknown modules get defaultWeight.
var moduleWeights = map[string]float64{
	"contract_security": 3.0,
	"liquidity_pool":    2.5,
	"holder_analysis":   2.0,
	"transfer_anomaly":  1.5,
	"pattern_matching":  1.0,
	"tokenomics":        1.0,
}

const defaultWeight = 1.0

// bytecodeWarningMarkers identify a security warning that signals the
// bytecode could not be inspected at all.
var bytecodeWarningMarkers = []string{"unavailable", "obfuscated", "not found"}

// FusionEngine combines per-module risk scores with the ensemble estimate
// into one final score. Deal-breaker overrides run before blending and win
// outright.
type FusionEngine struct {
	scorer service.EnsembleScorer
	log    *logger.Logger
}

func NewFusionEngine(scorer service.EnsembleScorer, log *logger.Logger) *FusionEngine {
	return &FusionEngine{scorer: scorer, log: log}
}

// Fuse produces the final fused score for a set of module results and the
// merged feature vector. It never fails: a broken scorer degrades to the
// module average at reduced confidence.
func (f *FusionEngine) Fuse(results map[string]*models.ModuleResult, features map[string]float64) *models.FusionResult {
	avg := f.moduleAverage(results)

	if override := f.checkDealBreakers(results, avg); override != nil {
		return override
	}

	ml, mlOK := f.predict(features)
	if !mlOK {
		ml = avg
	}

	var blended float64
	var confidence int
	switch {
	case mlOK && ml > 70 && avg > 60:
		blended = 0.7*ml + 0.3*avg
		confidence = 90
	case math.Abs(ml-avg) < 10:
		blended = 0.6*ml + 0.4*avg
		confidence = 75
	default:
		blended = 0.3*ml + 0.7*avg
		confidence = 50
	}
	if !mlOK && confidence > 50 {
		confidence = 50
	}

	res := &models.FusionResult{
		RiskScore:     round2(clamp(blended)),
		ModuleAverage: round2(avg),
		Confidence:    confidence,
	}
	if mlOK {
		mlScore := round2(clamp(ml))
		res.MLScore = &mlScore
		res.FeatureImportance = f.scorer.FeatureImportance(features)
	}
	return res
}

// moduleAverage is the trust-weighted mean of the module risk scores. Scores
// are clamped per module so one misbehaving analyzer cannot push the average
// out of range.
func (f *FusionEngine) moduleAverage(results map[string]*models.ModuleResult) float64 {
	var sum, total float64
	for name, res := range results {
		if res == nil {
			continue
		}
		w, ok := moduleWeights[name]
		if !ok {
			w = defaultWeight
		}
		sum += clamp(res.RiskScore) * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// predict runs the ensemble scorer with panic containment. A nil scorer, an
// error or a panic all collapse to "use the module average for both scores",
// which the caller then caps at confidence 50.
func (f *FusionEngine) predict(features map[string]float64) (ml float64, ok bool) {
	fallback := func() (float64, bool) { return 0, false }
	if f.scorer == nil {
		return fallback()
	}
	defer func() {
		if r := recover(); r != nil {
			f.log.Error("ensemble scorer panicked", logger.Any("panic", r))
			ml, ok = fallback()
		}
	}()
	score, err := f.scorer.Predict(features)
	if err != nil {
		f.log.Warn("ensemble scorer failed, using module average", logger.Error(err))
		return fallback()
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		f.log.Warn("ensemble scorer returned non-finite score, using module average")
		return fallback()
	}
	return clamp(score), true
}

// checkDealBreakers applies the hard override rules. The first matching rule
// wins; both floor the final score regardless of what blending would say.
func (f *FusionEngine) checkDealBreakers(results map[string]*models.ModuleResult, avg float64) *models.FusionResult {
	if sec, ok := results["contract_security"]; ok && sec != nil && sec.RiskScore >= 50 && hasBytecodeWarning(sec.Warnings) {
		return f.overrideResult(75, 90, "bytecode unavailable or obfuscated", avg)
	}

	liq := moduleScore(results, "liquidity_pool")
	tra := moduleScore(results, "transfer_anomaly")
	if liq >= 60 && tra >= 30 {
		return f.overrideResult(70, 85, "very low liquidity with no trading activity", avg)
	}
	return nil
}

func (f *FusionEngine) overrideResult(score float64, confidence int, reason string, avg float64) *models.FusionResult {
	f.log.Warn("deal-breaker override applied",
		logger.String("reason", reason), logger.Float64("score", score))
	return &models.FusionResult{
		RiskScore:      score,
		ModuleAverage:  round2(avg),
		Confidence:     confidence,
		OverrideReason: &reason,
	}
}

func hasBytecodeWarning(warnings []string) bool {
	for _, w := range warnings {
		lower := strings.ToLower(w)
		if !strings.Contains(lower, "bytecode") {
			continue
		}
		for _, marker := range bytecodeWarningMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

func moduleScore(results map[string]*models.ModuleResult, name string) float64 {
	if res, ok := results[name]; ok && res != nil {
		return res.RiskScore
	}
	return 0
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
