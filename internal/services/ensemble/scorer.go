package ensemble

import (
	"fmt"
)

// featureWeights is the deterministic linear model used when no trained
// ensemble artifact is deployed. Negative weights reduce risk.
var featureWeights = map[string]float64{
	"is_known_scam":          100,
	"has_mint":               15,
	"has_selfdestruct":       20,
	"is_upgradeable":         15,
	"lp_locked":              -20,
	"top_10_concentration":   30,
	"anomaly_score":          25,
	"total_tax":              20,
	"honeypot_pattern_count": 10,
}

const baseScore = 30

// Scorer is the default ensemble risk estimator: a weighted sum over the
// merged feature vector, clamped to [0,100].
type Scorer struct{}

func New() *Scorer { return &Scorer{} }

// Predict returns the estimated risk score for the feature vector.
func (s *Scorer) Predict(features map[string]float64) (float64, error) {
	if features == nil {
		return 0, fmt.Errorf("nil feature vector")
	}
	score := float64(baseScore)
	for name, weight := range featureWeights {
		if v, ok := features[name]; ok {
			score += v * weight
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}

// FeatureImportance reports the features that dominated the estimate.
func (s *Scorer) FeatureImportance(features map[string]float64) map[string]float64 {
	importance := map[string]float64{}
	if features["is_known_scam"] > 0 {
		importance["is_known_scam"] = 1.0
	}
	if features["lp_locked"] == 0 {
		importance["no_lp_lock"] = 0.8
	}
	if features["has_mint"] > 0 {
		importance["has_mint_function"] = 0.7
	}
	if features["top_10_concentration"] > 0.5 {
		importance["high_concentration"] = 0.6
	}
	return importance
}
