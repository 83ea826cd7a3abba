package usecase

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"RugScan/internal/domain/models"
	"RugScan/internal/domain/repository"
	"RugScan/internal/domain/service"
	"RugScan/internal/honeypot"
	"RugScan/pkg/config"
	"RugScan/pkg/eth"
	"RugScan/pkg/logger"
)

// ChainRuntime bundles everything the pipeline needs for one chain.
type ChainRuntime struct {
	Config       config.ChainConfig
	Client       *eth.Client
	Orchestrator *ModuleOrchestrator
	Simulator    *honeypot.Simulator
}

// ProgressFunc receives pipeline stage notifications; used by the websocket
// handler to stream progress. May be nil.
type ProgressFunc func(stage, message string)

// AnalysisUseCase drives the full analysis pipeline: modules, honeypot
// simulation, fusion, response assembly, caching and alerting. Concurrent
// requests for the same chain+address share one in-flight analysis.
type AnalysisUseCase struct {
	chains         map[string]*ChainRuntime
	fusion         *FusionEngine
	scamDB         service.ScamDatabase
	cache          repository.AnalysisCache
	alerts         repository.AlertPublisher
	metrics        repository.Metrics
	log            *logger.Logger
	cacheTTL       time.Duration
	deadline       time.Duration
	alertThreshold float64

	group singleflight.Group

	mu     sync.Mutex
	recent []RecentAnalysis
}

// RecentAnalysis is one entry of the bounded in-memory history served by the
// monitoring endpoint.
type RecentAnalysis struct {
	Address   string    `json:"address"`
	Chain     string    `json:"chain"`
	RiskScore float64   `json:"risk_score"`
	RiskLevel string    `json:"risk_level"`
	Verdict   string    `json:"honeypot_verdict"`
	Timestamp time.Time `json:"timestamp"`
}

const recentLimit = 100

func NewAnalysisUseCase(
	chains map[string]*ChainRuntime,
	fusion *FusionEngine,
	scamDB service.ScamDatabase,
	cache repository.AnalysisCache,
	alerts repository.AlertPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
	cacheTTL, deadline time.Duration,
	alertThreshold float64,
) *AnalysisUseCase {
	if deadline <= 0 {
		deadline = 90 * time.Second
	}
	return &AnalysisUseCase{
		chains:         chains,
		fusion:         fusion,
		scamDB:         scamDB,
		cache:          cache,
		alerts:         alerts,
		metrics:        metrics,
		log:            log,
		cacheTTL:       cacheTTL,
		deadline:       deadline,
		alertThreshold: alertThreshold,
	}
}

// Chains lists the configured chain names.
func (u *AnalysisUseCase) Chains() []string {
	names := make([]string, 0, len(u.chains))
	for name := range u.chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChainHealth probes every configured RPC endpoint concurrently and reports
// reachability per chain.
func (u *AnalysisUseCase) ChainHealth(ctx context.Context) map[string]bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]bool, len(u.chains))
	)
	for name, rt := range u.chains {
		if rt.Client == nil {
			mu.Lock()
			out[name] = false
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(name string, rt *ChainRuntime) {
			defer wg.Done()
			_, err := rt.Client.BlockNumber(probeCtx)
			mu.Lock()
			out[name] = err == nil
			mu.Unlock()
		}(name, rt)
	}
	wg.Wait()
	return out
}

// Analyze runs (or reuses) a full analysis for the token. Cache hits are
// returned immediately; concurrent misses for the same token are deduplicated
// so the pipeline runs once.
func (u *AnalysisUseCase) Analyze(ctx context.Context, req *models.AnalyzeRequest, progress ProgressFunc) (*models.AnalysisResponse, error) {
	address := strings.ToLower(req.Address)
	if !eth.IsAddress(address) {
		return nil, fmt.Errorf("invalid address: %s", req.Address)
	}
	chain := strings.ToLower(req.Chain)
	rt, ok := u.chains[chain]
	if !ok {
		return nil, fmt.Errorf("unsupported chain: %s", req.Chain)
	}

	if req.ForceRefresh {
		if err := u.cache.Invalidate(ctx, chain, address); err != nil {
			u.log.Warn("cache invalidate failed", logger.Error(err))
		}
	} else if cached, err := u.cache.Get(ctx, chain, address); err == nil && cached != nil {
		u.metrics.RecordCacheHit(true)
		cached.Cached = true
		return cached, nil
	}
	u.metrics.RecordCacheHit(false)

	key := chain + ":" + address
	v, err, _ := u.group.Do(key, func() (any, error) {
		return u.runPipeline(ctx, rt, chain, address, progress)
	})
	if err != nil {
		u.metrics.RecordError("pipeline")
		return nil, err
	}
	return v.(*models.AnalysisResponse), nil
}

func (u *AnalysisUseCase) runPipeline(ctx context.Context, rt *ChainRuntime, chain, address string, progress ProgressFunc) (*models.AnalysisResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.deadline)
	defer cancel()

	start := time.Now()
	notify := func(stage, msg string) {
		if progress != nil {
			progress(stage, msg)
		}
	}

	notify("contract_info", "Fetching contract metadata")
	info, err := rt.Client.GetContractInfo(ctx, address)
	if err != nil {
		u.log.Warn("contract info unavailable",
			logger.String("address", address), logger.Error(err))
	}

	notify("modules", "Running analysis modules")
	results := rt.Orchestrator.Run(ctx, address, rt.Client)
	features := rt.Orchestrator.MergeFeatures(results)

	notify("honeypot", "Simulating buy and sell")
	sim := rt.Simulator.Simulate(ctx, address, liquidityHint(results))
	for k, v := range sim.Features {
		features[k] = v
	}
	u.metrics.RecordVerdict(string(sim.Verdict))

	notify("fusion", "Fusing risk scores")
	fused := u.fusion.Fuse(results, features)

	resp := u.assemble(chain, address, info, results, sim, fused)
	resp.DurationMS = float64(time.Since(start).Microseconds()) / 1000

	u.metrics.RecordAnalysis(chain, resp.RiskLevel)
	u.remember(resp, sim)

	if err := u.cache.Set(ctx, chain, address, resp, u.cacheTTL); err != nil {
		u.log.Warn("cache store failed", logger.Error(err))
	}
	u.publishAlert(ctx, resp, sim)

	notify("complete", "Analysis complete")
	u.log.Info("analysis complete",
		logger.String("chain", chain),
		logger.String("address", address),
		logger.Float64("risk_score", resp.RiskScore),
		logger.String("risk_level", resp.RiskLevel),
		logger.String("verdict", string(sim.Verdict)),
		logger.Duration("duration", time.Since(start)))

	return resp, nil
}

// liquidityHint extracts the liquidity module's USD estimate for the
// honeypot simulator's major-pool classification.
func liquidityHint(results map[string]*models.ModuleResult) models.LiquidityHint {
	liq, ok := results["liquidity_pool"]
	if !ok || liq == nil {
		return models.LiquidityHint{}
	}
	if usd, ok := liq.Data["total_liquidity_usd"].(float64); ok {
		return models.LiquidityHint{USD: &usd}
	}
	return models.LiquidityHint{}
}

func (u *AnalysisUseCase) assemble(chain, address string, info *eth.ContractInfo, results map[string]*models.ModuleResult, sim *models.SimulationResult, fused *models.FusionResult) *models.AnalysisResponse {
	warnings := []string{}
	for _, name := range sortedModules(results) {
		warnings = append(warnings, results[name].Warnings...)
	}
	warnings = append(warnings, sim.Warnings...)

	resp := &models.AnalysisResponse{
		Address:            address,
		Chain:              chain,
		ContractInfo:       contractInfo(info, chain),
		RiskScore:          fused.RiskScore,
		RiskLevel:          models.RiskLevel(fused.RiskScore),
		Confidence:         fused.Confidence,
		Modules:            results,
		HoneypotSimulation: sim,
		Warnings:           warnings,
		RedFlags:           redFlags(results, sim),
		Recommendations:    recommendations(fused.RiskScore, sim.Verdict),
		MLScore:            fused.MLScore,
		ModuleAverage:      fused.ModuleAverage,
		FeatureImportance:  fused.FeatureImportance,
		OverrideReason:     fused.OverrideReason,
		Timestamp:          time.Now().UTC(),
	}
	return resp
}

func contractInfo(info *eth.ContractInfo, chain string) *models.ContractInfo {
	if info == nil {
		return nil
	}
	out := &models.ContractInfo{
		Address:  info.Address,
		Name:     info.Name,
		Symbol:   info.Symbol,
		Decimals: info.Decimals,
		Chain:    chain,
	}
	if info.TotalSupply != nil {
		decimals := uint8(18)
		if info.Decimals != nil {
			decimals = *info.Decimals
		}
		f, _ := new(big.Float).SetInt(info.TotalSupply).Float64()
		supply := f / math.Pow10(int(decimals))
		out.TotalSupply = &supply
	}
	return out
}

// redFlags picks the leading warnings of the highest-risk modules: up to two
// per module scoring 70 or above, five total, deduplicated. A HONEYPOT
// verdict always leads the list.
func redFlags(results map[string]*models.ModuleResult, sim *models.SimulationResult) []string {
	flags := []string{}
	seen := map[string]bool{}
	add := func(flag string) {
		if len(flags) < 5 && !seen[flag] {
			seen[flag] = true
			flags = append(flags, flag)
		}
	}

	if sim.Verdict == models.VerdictHoneypot {
		add("HONEYPOT DETECTED: tokens can be bought but not sold")
	}
	for _, name := range sortedModules(results) {
		res := results[name]
		if res.RiskScore < 70 {
			continue
		}
		for i, w := range res.Warnings {
			if i >= 2 {
				break
			}
			add(w)
		}
	}
	return flags
}

func recommendations(score float64, verdict models.Verdict) []string {
	recs := []string{}
	switch {
	case score >= 80:
		recs = append(recs,
			"DO NOT BUY - critical risk indicators detected",
			"If you hold this token, consider exiting immediately")
	case score >= 60:
		recs = append(recs,
			"High risk - avoid unless you fully understand the contract",
			"Verify the contract source and liquidity lock before any trade")
	case score >= 40:
		recs = append(recs,
			"Moderate risk - trade only small amounts",
			"Monitor liquidity and holder distribution before increasing exposure")
	default:
		recs = append(recs,
			"No major risk indicators found",
			"Always do your own research - automated analysis is not financial advice")
	}
	if verdict == models.VerdictHoneypot {
		recs = append([]string{"Selling appears blocked - do not buy this token"}, recs...)
	}
	return recs
}

func (u *AnalysisUseCase) publishAlert(ctx context.Context, resp *models.AnalysisResponse, sim *models.SimulationResult) {
	if u.alerts == nil || resp.RiskScore < u.alertThreshold {
		return
	}
	alert := &repository.RiskAlert{
		Address:   resp.Address,
		Chain:     resp.Chain,
		RiskScore: resp.RiskScore,
		RiskLevel: resp.RiskLevel,
		Verdict:   string(sim.Verdict),
		Timestamp: resp.Timestamp,
	}
	if err := u.alerts.PublishAlert(ctx, alert); err != nil {
		u.log.Warn("alert publish failed", logger.Error(err))
		u.metrics.RecordError("alert_publish")
	}
}

func (u *AnalysisUseCase) remember(resp *models.AnalysisResponse, sim *models.SimulationResult) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.recent = append(u.recent, RecentAnalysis{
		Address:   resp.Address,
		Chain:     resp.Chain,
		RiskScore: resp.RiskScore,
		RiskLevel: resp.RiskLevel,
		Verdict:   string(sim.Verdict),
		Timestamp: resp.Timestamp,
	})
	if len(u.recent) > recentLimit {
		u.recent = u.recent[len(u.recent)-recentLimit:]
	}
}

// RecentAnalyses returns up to limit completed analyses newer than since,
// newest first. A zero since returns everything retained.
func (u *AnalysisUseCase) RecentAnalyses(limit int, since time.Time) []RecentAnalysis {
	u.mu.Lock()
	defer u.mu.Unlock()
	if limit <= 0 || limit > len(u.recent) {
		limit = len(u.recent)
	}
	out := make([]RecentAnalysis, 0, limit)
	for i := len(u.recent) - 1; i >= 0 && len(out) < limit; i-- {
		if u.recent[i].Timestamp.Before(since) {
			break
		}
		out = append(out, u.recent[i])
	}
	return out
}

// ScamDatabaseSize reports the loaded scam list size for monitoring.
func (u *AnalysisUseCase) ScamDatabaseSize() int {
	if u.scamDB == nil {
		return 0
	}
	return u.scamDB.Size()
}

// QuickCheck answers from the scam database and the cache only; it never
// touches the chain.
func (u *AnalysisUseCase) QuickCheck(ctx context.Context, req *models.QuickCheckRequest) (*models.QuickCheckResponse, error) {
	address := strings.ToLower(req.Address)
	if !eth.IsAddress(address) {
		return nil, fmt.Errorf("invalid address: %s", req.Address)
	}
	chain := strings.ToLower(req.Chain)
	if _, ok := u.chains[chain]; !ok {
		return nil, fmt.Errorf("unsupported chain: %s", req.Chain)
	}

	if u.scamDB != nil && u.scamDB.IsKnownScam(address) {
		return &models.QuickCheckResponse{
			Address:     address,
			Chain:       chain,
			RiskScore:   100,
			RiskLevel:   "CRITICAL",
			IsKnownScam: true,
			Message:     "Address found in known scam database",
		}, nil
	}

	if cached, err := u.cache.Get(ctx, chain, address); err == nil && cached != nil {
		return &models.QuickCheckResponse{
			Address:   address,
			Chain:     chain,
			RiskScore: cached.RiskScore,
			RiskLevel: cached.RiskLevel,
			Cached:    true,
		}, nil
	}

	return &models.QuickCheckResponse{
		Address:   address,
		Chain:     chain,
		RiskScore: 50,
		RiskLevel: "UNKNOWN",
		Message:   "No cached analysis - run a full analysis for a reliable score",
	}, nil
}

func sortedModules(results map[string]*models.ModuleResult) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
