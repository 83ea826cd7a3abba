package service

import (
	"context"

	"RugScan/internal/domain/models"
	"RugScan/pkg/eth"
)

// Analyzer scores one risk dimension of a token contract. Implementations
// should return a well-formed ModuleResult and keep their own failures inside
// the (result, error) contract; the orchestrator tolerates violations anyway.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, address string, client *eth.Client) (*models.ModuleResult, error)
}

// EnsembleScorer estimates a 0-100 risk score from the merged feature vector.
// It may be unconfigured (nil), in which case fusion falls back to the
// weighted module average.
type EnsembleScorer interface {
	Predict(features map[string]float64) (float64, error)
	FeatureImportance(features map[string]float64) map[string]float64
}

// ScamDatabase answers membership queries against the known-scam address set.
// Implementations load once and are read-only afterwards.
type ScamDatabase interface {
	IsKnownScam(address string) bool
	Size() int
}
