package di

import (
	"fmt"
	"time"

	"RugScan/internal/analyzers"
	domrepo "RugScan/internal/domain/repository"
	"RugScan/internal/domain/service"
	"RugScan/internal/honeypot"
	internalrepo "RugScan/internal/repository"
	"RugScan/internal/services/ensemble"
	"RugScan/internal/usecase"
	"RugScan/pkg/cache"
	"RugScan/pkg/config"
	"RugScan/pkg/eth"
	pkgkafka "RugScan/pkg/kafka"
	"RugScan/pkg/logger"
	"RugScan/pkg/metrics"
	"RugScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCacheService picks the cache backend: layered memory+Redis when
// Redis is enabled, memory-only otherwise.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideAnalysisCache creates the analysis response cache repository.
func ProvideAnalysisCache(c cache.Service) domrepo.AnalysisCache {
	return internalrepo.NewAnalysisCacheRepo(c)
}

// ProvideScamDatabase loads the known-scam address set.
func ProvideScamDatabase(cfg *config.Config, log *logger.Logger) (service.ScamDatabase, error) {
	return internalrepo.LoadScamDB(cfg.Analysis.ScamDatabasePath, log)
}

// ProvideAlertPublisher creates the Kafka alert publisher, or nil when
// alerting is disabled.
func ProvideAlertPublisher(cfg *config.Config) (domrepo.AlertPublisher, error) {
	if !cfg.Alerts.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Alerts.Brokers),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithTimeouts(10*time.Second, 10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	topic := cfg.Alerts.Topic
	if topic == "" {
		topic = "rugscan.alerts"
	}
	return internalrepo.NewKafkaAlertPublisher(producer, topic), nil
}

// ProvideEnsembleScorer creates the default linear ensemble scorer.
func ProvideEnsembleScorer() service.EnsembleScorer {
	return ensemble.New()
}

// ProvideFusionEngine creates the score fusion engine.
func ProvideFusionEngine(scorer service.EnsembleScorer, log *logger.Logger) *usecase.FusionEngine {
	return usecase.NewFusionEngine(scorer, log)
}

// ProvideChainRuntimes builds per-chain clients, analyzer sets and honeypot
// simulators. Analyzer registration order is fixed: feature merging depends
// on it.
func ProvideChainRuntimes(
	cfg *config.Config,
	scamDB service.ScamDatabase,
	log *logger.Logger,
	m domrepo.Metrics,
) (map[string]*usecase.ChainRuntime, error) {
	buyAmount, err := eth.ParseWei(cfg.Honeypot.BuyAmountWei)
	if err != nil {
		return nil, fmt.Errorf("honeypot.buy_amount_wei: %w", err)
	}

	runtimes := make(map[string]*usecase.ChainRuntime, len(cfg.Chains))
	for name, chain := range cfg.Chains {
		client, err := eth.NewClient(chain.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("chain %s: %w", name, err)
		}

		mods := []service.Analyzer{
			analyzers.NewSecurityAnalyzer(),
			analyzers.NewHolderAnalyzer(),
			analyzers.NewLiquidityAnalyzer(chain, 0),
			analyzers.NewTransferAnalyzer(),
			analyzers.NewPatternAnalyzer(scamDB),
			analyzers.NewTokenomicsAnalyzer(),
		}

		runtimes[name] = &usecase.ChainRuntime{
			Config:       chain,
			Client:       client,
			Orchestrator: usecase.NewModuleOrchestrator(mods, cfg.Analysis.ModuleTimeout, log, m),
			Simulator: honeypot.New(client, chain, log, honeypot.Options{
				StepTimeout:     cfg.Honeypot.StepTimeout,
				BuyAmountWei:    buyAmount,
				MajorPoolTokens: cfg.Honeypot.MajorPoolTokens,
				MajorPoolUSD:    cfg.Honeypot.MajorPoolUSD,
			}),
		}
	}
	return runtimes, nil
}

// ProvideAnalysisUseCase assembles the full analysis pipeline.
func ProvideAnalysisUseCase(
	chains map[string]*usecase.ChainRuntime,
	fusion *usecase.FusionEngine,
	scamDB service.ScamDatabase,
	analysisCache domrepo.AnalysisCache,
	alerts domrepo.AlertPublisher,
	m domrepo.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(
		chains,
		fusion,
		scamDB,
		analysisCache,
		alerts,
		m,
		log,
		cfg.Analysis.CacheTTL,
		cfg.Analysis.PipelineDeadline,
		cfg.Alerts.RiskThreshold,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	uc *usecase.AnalysisUseCase,
	alerts domrepo.AlertPublisher,
) *server.App {
	return server.New(cfg, log, uc, alerts)
}
