//go:build wireinject
// +build wireinject

package di

import (
	"FusionGate/pkg/config"
	"FusionGate/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Pipeline stages
		ProvideEngine,
		ProvideStabilizer,
		ProvideController,
		ProvideScanner,
		ProvideScorer,
		ProvideTrigger,
		ProvideEvaluator,

		// Boundary adapters
		ProvideIntake,
		ProvideFeedStream,
		ProvideFeedCollector,
		ProvideCache,
		ProvideStateStore,
		ProvideTriggerPublisher,
		ProvideKafkaConsumer,
		ProvideKafkaPerfHandler,

		// Use cases and surfaces
		ProvideRunner,
		ProvidePipelineHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
