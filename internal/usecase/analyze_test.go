package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"RugScan/internal/domain/models"
)

type stubCache struct {
	entries map[string]*models.AnalysisResponse
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: map[string]*models.AnalysisResponse{}}
}

func (s *stubCache) Get(_ context.Context, chain, address string) (*models.AnalysisResponse, error) {
	return s.entries[chain+":"+address], nil
}

func (s *stubCache) Set(_ context.Context, chain, address string, resp *models.AnalysisResponse, _ time.Duration) error {
	s.sets++
	s.entries[chain+":"+address] = resp
	return nil
}

func (s *stubCache) Invalidate(_ context.Context, chain, address string) error {
	delete(s.entries, chain+":"+address)
	return nil
}

type stubScamDB struct{ scams map[string]bool }

func (s *stubScamDB) IsKnownScam(address string) bool { return s.scams[strings.ToLower(address)] }
func (s *stubScamDB) Size() int                       { return len(s.scams) }

func newQuickCheckUseCase(t *testing.T, cache *stubCache, scamDB *stubScamDB) *AnalysisUseCase {
	t.Helper()
	chains := map[string]*ChainRuntime{"ethereum": {}}
	return NewAnalysisUseCase(chains, NewFusionEngine(nil, testLogger(t)), scamDB, cache, nil, noopMetrics{}, testLogger(t), time.Minute, time.Minute, 70)
}

const checkAddr = "0x1111111111111111111111111111111111111111"

func TestQuickCheckKnownScam(t *testing.T) {
	uc := newQuickCheckUseCase(t, newStubCache(), &stubScamDB{scams: map[string]bool{checkAddr: true}})

	res, err := uc.QuickCheck(context.Background(), &models.QuickCheckRequest{Address: checkAddr, Chain: "ethereum"})
	if err != nil {
		t.Fatalf("quick check: %v", err)
	}
	if !res.IsKnownScam || res.RiskScore != 100 || res.RiskLevel != "CRITICAL" {
		t.Fatalf("unexpected response %+v", res)
	}
}

func TestQuickCheckCachedAnalysis(t *testing.T) {
	cache := newStubCache()
	cache.entries["ethereum:"+checkAddr] = &models.AnalysisResponse{RiskScore: 42, RiskLevel: "MEDIUM"}
	uc := newQuickCheckUseCase(t, cache, &stubScamDB{})

	res, err := uc.QuickCheck(context.Background(), &models.QuickCheckRequest{Address: checkAddr, Chain: "ethereum"})
	if err != nil {
		t.Fatalf("quick check: %v", err)
	}
	if !res.Cached || res.RiskScore != 42 {
		t.Fatalf("unexpected response %+v", res)
	}
}

func TestQuickCheckUnknownToken(t *testing.T) {
	uc := newQuickCheckUseCase(t, newStubCache(), &stubScamDB{})

	res, err := uc.QuickCheck(context.Background(), &models.QuickCheckRequest{Address: checkAddr, Chain: "ethereum"})
	if err != nil {
		t.Fatalf("quick check: %v", err)
	}
	if res.RiskLevel != "UNKNOWN" || res.RiskScore != 50 || res.Cached {
		t.Fatalf("unexpected response %+v", res)
	}
}

func TestQuickCheckRejectsBadInput(t *testing.T) {
	uc := newQuickCheckUseCase(t, newStubCache(), &stubScamDB{})

	if _, err := uc.QuickCheck(context.Background(), &models.QuickCheckRequest{Address: "0x123", Chain: "ethereum"}); err == nil {
		t.Fatalf("short address should error")
	}
	if _, err := uc.QuickCheck(context.Background(), &models.QuickCheckRequest{Address: checkAddr, Chain: "solana"}); err == nil {
		t.Fatalf("unknown chain should error")
	}
}

func TestAnalyzeServesCachedResponse(t *testing.T) {
	cache := newStubCache()
	cache.entries["ethereum:"+checkAddr] = &models.AnalysisResponse{Address: checkAddr, RiskScore: 33}
	uc := newQuickCheckUseCase(t, cache, &stubScamDB{})

	res, err := uc.Analyze(context.Background(), &models.AnalyzeRequest{Address: checkAddr, Chain: "ethereum"}, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !res.Cached || res.RiskScore != 33 {
		t.Fatalf("expected cached response, got %+v", res)
	}
	if cache.sets != 0 {
		t.Fatalf("cache hit should not re-store")
	}
}

func TestRedFlagsSelection(t *testing.T) {
	results := map[string]*models.ModuleResult{
		"contract_security": {RiskScore: 90, Warnings: []string{"w1", "w2", "w3"}},
		"liquidity_pool":    {RiskScore: 40, Warnings: []string{"low risk warning"}},
		"tokenomics":        {RiskScore: 75, Warnings: []string{"w1", "tax warning"}},
	}
	sim := &models.SimulationResult{Verdict: models.VerdictHoneypot}

	flags := redFlags(results, sim)

	if len(flags) == 0 || !strings.Contains(flags[0], "HONEYPOT") {
		t.Fatalf("honeypot flag should lead: %v", flags)
	}
	if len(flags) > 5 {
		t.Fatalf("too many flags: %v", flags)
	}
	for _, f := range flags {
		if f == "w3" {
			t.Fatalf("more than two warnings taken from one module")
		}
		if f == "low risk warning" {
			t.Fatalf("low-risk module contributed a red flag")
		}
	}
	seen := map[string]int{}
	for _, f := range flags {
		seen[f]++
		if seen[f] > 1 {
			t.Fatalf("duplicate flag %q", f)
		}
	}
}

func TestRecommendationsBands(t *testing.T) {
	if recs := recommendations(85, models.VerdictSafe); !strings.Contains(recs[0], "DO NOT BUY") {
		t.Fatalf("critical band: %v", recs)
	}
	if recs := recommendations(10, models.VerdictHoneypot); !strings.Contains(recs[0], "Selling appears blocked") {
		t.Fatalf("honeypot verdict should lead recommendations: %v", recs)
	}
}

func TestLiquidityHintExtraction(t *testing.T) {
	results := map[string]*models.ModuleResult{
		"liquidity_pool": {Data: map[string]any{"total_liquidity_usd": 123456.0}},
	}
	hint := liquidityHint(results)
	if hint.USD == nil || *hint.USD != 123456.0 {
		t.Fatalf("hint = %+v", hint)
	}

	if hint := liquidityHint(map[string]*models.ModuleResult{}); hint.USD != nil {
		t.Fatalf("missing module should yield empty hint")
	}
}
