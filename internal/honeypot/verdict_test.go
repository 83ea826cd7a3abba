package honeypot

import (
	"testing"

	"RugScan/internal/domain/models"
)

func TestDeriveVerdict(t *testing.T) {
	cases := []struct {
		name       string
		buy        bool
		sell       models.StepOutcome
		verdict    models.Verdict
		confidence models.VerdictConfidence
	}{
		{"buy ok, sell skipped", true, models.StepSkipped, models.VerdictSafe, models.ConfidenceMedium},
		{"buy fail, sell skipped", false, models.StepSkipped, models.VerdictLocked, models.ConfidenceHigh},
		{"buy ok, sell ok", true, models.StepSucceeded, models.VerdictSafe, models.ConfidenceHigh},
		{"buy ok, sell fail", true, models.StepFailed, models.VerdictHoneypot, models.ConfidenceVeryHigh},
		{"buy fail, sell fail", false, models.StepFailed, models.VerdictLocked, models.ConfidenceHigh},
		{"buy fail, sell ok", false, models.StepSucceeded, models.VerdictSuspicious, models.ConfidenceMedium},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, confidence := DeriveVerdict(tc.buy, tc.sell)
			if verdict != tc.verdict || confidence != tc.confidence {
				t.Fatalf("got %s/%s, want %s/%s", verdict, confidence, tc.verdict, tc.confidence)
			}
		})
	}
}

func TestDeriveVerdictDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		verdict, confidence := DeriveVerdict(true, models.StepFailed)
		if verdict != models.VerdictHoneypot || confidence != models.ConfidenceVeryHigh {
			t.Fatalf("verdict not stable on iteration %d", i)
		}
	}
}

func TestSkippedSellNeverHoneypot(t *testing.T) {
	for _, buy := range []bool{true, false} {
		verdict, _ := DeriveVerdict(buy, models.StepSkipped)
		if verdict == models.VerdictHoneypot {
			t.Fatalf("skipped sell produced HONEYPOT with buy=%v", buy)
		}
	}
}
