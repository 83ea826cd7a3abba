//go:build wireinject
// +build wireinject

package di

import (
	"RugScan/pkg/config"
	"RugScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCacheService,
		ProvideAnalysisCache,
		ProvideScamDatabase,
		ProvideAlertPublisher,

		// Analysis pipeline
		ProvideEnsembleScorer,
		ProvideFusionEngine,
		ProvideChainRuntimes,
		ProvideAnalysisUseCase,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
