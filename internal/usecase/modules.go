package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"RugScan/internal/domain/models"
	"RugScan/internal/domain/repository"
	"RugScan/internal/domain/service"
	"RugScan/pkg/eth"
	"RugScan/pkg/logger"
)

// securityModule is the analyzer the zero-risk consistency rule applies to.
const securityModule = "contract_security"

// ModuleOrchestrator fans out all registered analyzers, isolates their
// failures and normalizes results. One analyzer failing, panicking or timing
// out never aborts the others.
type ModuleOrchestrator struct {
	analyzers []service.Analyzer
	timeout   time.Duration
	log       *logger.Logger
	metrics   repository.Metrics
}

func NewModuleOrchestrator(analyzers []service.Analyzer, timeout time.Duration, log *logger.Logger, metrics repository.Metrics) *ModuleOrchestrator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ModuleOrchestrator{analyzers: analyzers, timeout: timeout, log: log, metrics: metrics}
}

// Names returns the analyzer names in registration order. Feature merging is
// defined against this order.
func (o *ModuleOrchestrator) Names() []string {
	names := make([]string, 0, len(o.analyzers))
	for _, a := range o.analyzers {
		names = append(names, a.Name())
	}
	return names
}

// Run executes every analyzer concurrently with a per-module timeout and
// returns one ModuleResult per analyzer. Failures are folded into the
// neutral-risk placeholder, never propagated.
func (o *ModuleOrchestrator) Run(ctx context.Context, address string, client *eth.Client) map[string]*models.ModuleResult {
	type item struct {
		name   string
		result *models.ModuleResult
	}
	ch := make(chan item, len(o.analyzers))
	var wg sync.WaitGroup

	for _, a := range o.analyzers {
		wg.Add(1)
		go func(a service.Analyzer) {
			defer wg.Done()
			ch <- item{a.Name(), o.runOne(ctx, a, address, client)}
		}(a)
	}

	go func() { wg.Wait(); close(ch) }()

	results := make(map[string]*models.ModuleResult, len(o.analyzers))
	for it := range ch {
		results[it.name] = it.result
	}

	o.applySecurityConsistencyRule(results)
	return results
}

// runOne isolates a single analyzer invocation: its own timeout, panic
// recovery, and failure folding.
func (o *ModuleOrchestrator) runOne(ctx context.Context, a service.Analyzer, address string, client *eth.Client) (result *models.ModuleResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("analyzer panicked", logger.String("module", a.Name()), logger.Any("panic", r))
			o.metrics.RecordModuleFailure(a.Name())
			result = models.FailedModuleResult(a.Name(), fmt.Errorf("panic: %v", r))
		}
		o.metrics.RecordModuleDuration(a.Name(), time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	res, err := a.Analyze(ctx, address, client)
	if err != nil {
		o.log.Warn("analyzer failed", logger.String("module", a.Name()), logger.Error(err))
		o.metrics.RecordModuleFailure(a.Name())
		return models.FailedModuleResult(a.Name(), err)
	}
	if res == nil {
		o.metrics.RecordModuleFailure(a.Name())
		return models.FailedModuleResult(a.Name(), fmt.Errorf("analyzer returned no result"))
	}
	return res
}

// applySecurityConsistencyRule treats a zero-risk, zero-warning security scan
// as a suspicious signal: honest scans of real contracts almost always
// surface at least one administrative function, so zero findings usually
// means bytecode retrieval silently failed.
func (o *ModuleOrchestrator) applySecurityConsistencyRule(results map[string]*models.ModuleResult) {
	sec, ok := results[securityModule]
	if !ok || sec.RiskScore != 0 || len(sec.Warnings) > 0 {
		return
	}
	o.log.Warn("security module reported zero risk with no findings, treating as suspicious bytecode")
	results[securityModule] = &models.ModuleResult{
		Module:    securityModule,
		RiskScore: 50,
		Warnings: []string{
			"CRITICAL: Contract bytecode unavailable or obfuscated",
			"Cannot verify contract safety - HIGH RISK",
		},
		Data:     sec.Data,
		Features: sec.Features,
	}
}

// MergeFeatures folds every module's feature map into one vector. The merge
// is last-writer-wins in analyzer registration order; analyzers may
// legitimately share feature names. Non-finite values are dropped at the
// boundary to catch type-confusion bugs early.
func (o *ModuleOrchestrator) MergeFeatures(results map[string]*models.ModuleResult) map[string]float64 {
	features := map[string]float64{}
	for _, name := range o.Names() {
		res, ok := results[name]
		if !ok {
			continue
		}
		for key, value := range res.Features {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				o.log.Warn("dropping non-finite feature",
					logger.String("module", name), logger.String("feature", key))
				continue
			}
			features[key] = value
		}
	}
	return features
}
