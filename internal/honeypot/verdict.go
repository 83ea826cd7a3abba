package honeypot

import "RugScan/internal/domain/models"

// DeriveVerdict maps the ordered step outcomes to a verdict. It is a pure
// function: identical outcomes always produce the identical verdict and
// confidence. A skipped sell reflects missing liquidity, not a trading
// restriction, so it can never produce HONEYPOT.
func DeriveVerdict(buySucceeded bool, sell models.StepOutcome) (models.Verdict, models.VerdictConfidence) {
	if sell == models.StepSkipped {
		if buySucceeded {
			return models.VerdictSafe, models.ConfidenceMedium
		}
		return models.VerdictLocked, models.ConfidenceHigh
	}

	sellSucceeded := sell == models.StepSucceeded
	switch {
	case buySucceeded && sellSucceeded:
		return models.VerdictSafe, models.ConfidenceHigh
	case buySucceeded && !sellSucceeded:
		return models.VerdictHoneypot, models.ConfidenceVeryHigh
	case !buySucceeded && !sellSucceeded:
		return models.VerdictLocked, models.ConfidenceHigh
	default:
		return models.VerdictSuspicious, models.ConfidenceMedium
	}
}

// verdictFeature encodes the verdict for the feature vector.
func verdictFeature(v models.Verdict) float64 {
	switch v {
	case models.VerdictSafe:
		return 0
	case models.VerdictHoneypot:
		return 1
	case models.VerdictLocked:
		return 0.8
	case models.VerdictSuspicious:
		return 0.6
	default:
		return 0.5
	}
}
