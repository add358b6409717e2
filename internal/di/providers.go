package di

import (
	"fmt"
	"net"
	"strconv"

	"FusionGate/internal/decision"
	"FusionGate/internal/divergence"
	"FusionGate/internal/domain/repository"
	"FusionGate/internal/fusion"
	"FusionGate/internal/handler/api"
	mid "FusionGate/internal/middleware"
	internalrepo "FusionGate/internal/repository"
	"FusionGate/internal/service/feed"
	"FusionGate/internal/usecase"
	"FusionGate/pkg/cache"
	"FusionGate/pkg/config"
	pkgkafka "FusionGate/pkg/kafka"
	"FusionGate/pkg/logger"
	"FusionGate/pkg/metrics"
	"FusionGate/pkg/server"
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
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngine creates the fusion engine from config.
func ProvideEngine(cfg *config.Config) *fusion.Engine {
	f := cfg.Pipeline.Fusion
	return fusion.NewEngine(fusion.EngineConfig{
		Weights: fusion.Weights{
			Core:       f.CoreWeight,
			Divergence: f.DivergenceWeight,
			Stabilizer: f.StabilizerWeight,
		},
		Penalties: fusion.PenaltyWeights{
			Stability:   f.StabilityPenalty,
			Correlation: f.CorrelationPenalty,
		},
		HistorySize: f.HistorySize,
	})
}

// ProvideStabilizer creates the fusion stabilizer from config.
func ProvideStabilizer(cfg *config.Config) *fusion.Stabilizer {
	s := cfg.Pipeline.Stabilizer
	return fusion.NewStabilizer(fusion.StabilizerConfig{
		SmoothingFactor:     s.SmoothingFactor,
		ConfidenceWeight:    s.ConfidenceDecay,
		NoiseGate:           s.NoiseGate,
		DriftThreshold:      s.MaxJump,
		VolatilityDampening: s.VolatilityPenalty,
		ShieldPenalty:       s.InstabilityPenalty,
		HistorySize:         s.HistorySize,
	})
}

// ProvideController creates the divergence threat controller from config.
func ProvideController(cfg *config.Config) *divergence.Controller {
	d := cfg.Pipeline.Divergence
	return divergence.NewController(divergence.ControllerConfig{
		StrengthWeight:   d.StrengthWeight,
		ConfidenceWeight: d.ConfidenceWeight,
		VolatilityWeight: d.VolatilityWeight,
		ModerateAt:       d.ModerateAbove,
		ElevatedAt:       d.ElevatedAbove,
		SevereAt:         d.SevereAbove,
		HistorySize:      d.HistorySize,
	})
}

// ProvideScanner creates the reality divergence scanner from config.
func ProvideScanner(cfg *config.Config) *divergence.Scanner {
	r := cfg.Pipeline.Reality
	return divergence.NewScanner(divergence.ScannerConfig{
		LiveHistorySize: r.LiveHistorySize,
		AlignedBelow:    r.AlignedBelow,
		DriftingBelow:   r.DriftingBelow,
	})
}

// ProvideScorer creates the decision scorer from config.
func ProvideScorer(cfg *config.Config) *decision.Scorer {
	sc := decision.DefaultScorerConfig()
	if cfg.Pipeline.Decision.EnterAbove > 0 {
		sc.EnterAbove = cfg.Pipeline.Decision.EnterAbove
	}
	return decision.NewScorer(sc)
}

// ProvideTrigger creates the trade trigger from config.
func ProvideTrigger(cfg *config.Config) *decision.Trigger {
	return decision.NewTrigger(cfg.Pipeline.Trigger.Cooldown)
}

// ProvideEvaluator wires the pipeline stages.
func ProvideEvaluator(
	engine *fusion.Engine,
	stabilizer *fusion.Stabilizer,
	controller *divergence.Controller,
	scanner *divergence.Scanner,
	scorer *decision.Scorer,
	trigger *decision.Trigger,
	m repository.Metrics,
) *usecase.Evaluator {
	return usecase.NewEvaluator(engine, stabilizer, controller, scanner, scorer, trigger, m)
}

// ProvideIntake creates the feed intake middleware with the evaluator as
// performance sink.
func ProvideIntake(m repository.Metrics, eval *usecase.Evaluator) *mid.Intake {
	return mid.NewIntake(m, mid.WithPerfSink(eval))
}

// ProvideFeedStream creates the configured feed stream.
func ProvideFeedStream(cfg *config.Config) repository.FeedStream {
	if cfg.Feed.Mode == "ws" {
		return feed.NewClient(
			cfg.Feed.WebSocketURL,
			cfg.Feed.Token,
			cfg.Feed.ReconnectDelay,
			cfg.Feed.PingInterval,
		)
	}
	return feed.NewSim(cfg.Feed.SimInterval)
}

// ProvideFeedCollector creates the feed collector use case.
func ProvideFeedCollector(stream repository.FeedStream, intake *mid.Intake, m repository.Metrics) *usecase.FeedCollector {
	return usecase.NewFeedCollector(stream, intake, m)
}

// ProvideCache creates the configured cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(redisHost(cfg.Cache.Redis.Addr)),
			cache.WithRedisPort(redisPort(cfg.Cache.Redis.Addr)),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideStateStore creates the cycle result state store.
func ProvideStateStore(c cache.Service, cfg *config.Config) repository.StateStore {
	return internalrepo.NewCacheStateStore(c, cfg.Cache.TTL)
}

// ProvideTriggerPublisher creates the trigger publisher; a no-op publisher
// when Kafka is disabled.
func ProvideTriggerPublisher(cfg *config.Config) (repository.TriggerPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopTriggerPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaTriggerPublisher(producer, cfg.Kafka.TriggerTopic), nil
}

// ProvideKafkaConsumer creates the performance intake consumer, nil when
// Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaPerfHandler registers the performance snapshot handler.
func ProvideKafkaPerfHandler(eval *usecase.Evaluator, m repository.Metrics, cfg *config.Config) *usecase.KafkaPerfHandler {
	return usecase.NewKafkaPerfHandler(cfg.Kafka.PerformanceTopic, eval, m)
}

// ProvideRunner creates the tick runner.
func ProvideRunner(
	eval *usecase.Evaluator,
	intake *mid.Intake,
	store repository.StateStore,
	pub repository.TriggerPublisher,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.Runner {
	return usecase.NewRunner(eval, intake, store, pub, m, l, cfg.Pipeline.TickInterval)
}

// ProvidePipelineHandler creates the HTTP handler.
func ProvidePipelineHandler(l *logger.Logger, eval *usecase.Evaluator) *api.PipelineEchoHandler {
	return api.NewPipelineEchoHandler(l, eval)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	collector *usecase.FeedCollector,
	runner *usecase.Runner,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaPerfHandler,
	handler *api.PipelineEchoHandler,
	pub repository.TriggerPublisher,
	store repository.StateStore,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, l, collector, runner, consumer, kh, handler, pub, store)
}

func redisHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func redisPort(addr string) int {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return 6379
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return 6379
	}
	return n
}
