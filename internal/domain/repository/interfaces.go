package repository

import (
	"context"
	"time"

	"RugScan/internal/domain/models"
)

// AnalysisCache stores completed analysis responses keyed by chain+address.
// This is a response cache with a TTL, not historical persistence.
type AnalysisCache interface {
	Get(ctx context.Context, chain, address string) (*models.AnalysisResponse, error)
	Set(ctx context.Context, chain, address string, resp *models.AnalysisResponse, ttl time.Duration) error
	Invalidate(ctx context.Context, chain, address string) error
}

// AlertPublisher pushes high-risk detections to an external feed. A nil
// publisher disables alerting.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *RiskAlert) error
	Close() error
}

// RiskAlert is the payload published for analyses at or above the alert
// threshold.
type RiskAlert struct {
	Address   string    `json:"address"`
	Chain     string    `json:"chain"`
	RiskScore float64   `json:"risk_score"`
	RiskLevel string    `json:"risk_level"`
	Verdict   string    `json:"honeypot_verdict,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Metrics records operational measurements for the analysis pipeline.
type Metrics interface {
	RecordAnalysis(chain, riskLevel string)
	RecordModuleDuration(module string, seconds float64)
	RecordModuleFailure(module string)
	RecordVerdict(verdict string)
	RecordCacheHit(hit bool)
	RecordError(kind string)
}
