package ensemble

import "testing"

func TestPredictBaseScore(t *testing.T) {
	score, err := New().Predict(map[string]float64{})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if score != 30 {
		t.Fatalf("empty features = %v, want base 30", score)
	}
}

func TestPredictKnownScamSaturates(t *testing.T) {
	score, err := New().Predict(map[string]float64{"is_known_scam": 1})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if score != 100 {
		t.Fatalf("known scam = %v, want 100", score)
	}
}

func TestPredictLockedLiquidityReducesRisk(t *testing.T) {
	s := New()
	locked, _ := s.Predict(map[string]float64{"lp_locked": 1})
	unlocked, _ := s.Predict(map[string]float64{"lp_locked": 0})
	if locked >= unlocked {
		t.Fatalf("locked %v should score below unlocked %v", locked, unlocked)
	}
	if locked < 0 {
		t.Fatalf("score escaped lower bound: %v", locked)
	}
}

func TestPredictNilFeatures(t *testing.T) {
	if _, err := New().Predict(nil); err == nil {
		t.Fatalf("nil features should error")
	}
}

func TestPredictIgnoresUnknownFeatures(t *testing.T) {
	s := New()
	base, _ := s.Predict(map[string]float64{})
	withNoise, _ := s.Predict(map[string]float64{"some_future_feature": 42})
	if base != withNoise {
		t.Fatalf("unknown feature changed the score: %v vs %v", base, withNoise)
	}
}

func TestFeatureImportance(t *testing.T) {
	imp := New().FeatureImportance(map[string]float64{
		"is_known_scam":        1,
		"lp_locked":            0,
		"has_mint":             1,
		"top_10_concentration": 0.8,
	})
	for _, key := range []string{"is_known_scam", "no_lp_lock", "has_mint_function", "high_concentration"} {
		if _, ok := imp[key]; !ok {
			t.Fatalf("missing importance entry %s in %v", key, imp)
		}
	}
}
