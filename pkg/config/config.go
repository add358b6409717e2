package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Pipeline struct {
		TickInterval time.Duration `yaml:"tick_interval" default:"1s"`
		Fusion       struct {
			CoreWeight         float64 `yaml:"core_weight" default:"0.60"`
			DivergenceWeight   float64 `yaml:"divergence_weight" default:"0.25"`
			StabilizerWeight   float64 `yaml:"stabilizer_weight" default:"0.15"`
			StabilityPenalty   float64 `yaml:"stability_penalty" default:"0.25"`
			CorrelationPenalty float64 `yaml:"correlation_penalty" default:"0.30"`
			HistorySize        int     `yaml:"history_size" default:"20"`
		} `yaml:"fusion"`
		Stabilizer struct {
			SmoothingFactor    float64 `yaml:"smoothing_factor" default:"0.35"`
			ConfidenceDecay    float64 `yaml:"confidence_decay" default:"0.25"`
			NoiseGate          float64 `yaml:"noise_gate" default:"0.7"`
			MaxJump            float64 `yaml:"max_jump" default:"12"`
			VolatilityPenalty  float64 `yaml:"volatility_penalty" default:"0.15"`
			InstabilityPenalty float64 `yaml:"instability_penalty" default:"0.22"`
			HistorySize        int     `yaml:"history_size" default:"25"`
		} `yaml:"stabilizer"`
		Divergence struct {
			StrengthWeight   float64 `yaml:"strength_weight" default:"0.5"`
			ConfidenceWeight float64 `yaml:"confidence_weight" default:"0.35"`
			VolatilityWeight float64 `yaml:"volatility_weight" default:"0.15"`
			ModerateAbove    float64 `yaml:"moderate_above" default:"25"`
			ElevatedAbove    float64 `yaml:"elevated_above" default:"50"`
			SevereAbove      float64 `yaml:"severe_above" default:"75"`
			HistorySize      int     `yaml:"history_size" default:"200"`
		} `yaml:"divergence"`
		Reality struct {
			LiveHistorySize int     `yaml:"live_history_size" default:"100"`
			AlignedBelow    float64 `yaml:"aligned_below" default:"0.1"`
			DriftingBelow   float64 `yaml:"drifting_below" default:"0.3"`
		} `yaml:"reality"`
		Decision struct {
			EnterAbove float64 `yaml:"enter_above" default:"60"`
		} `yaml:"decision"`
		Trigger struct {
			Cooldown time.Duration `yaml:"cooldown" default:"3m"`
		} `yaml:"trigger"`
	} `yaml:"pipeline"`
	Feed struct {
		Mode           string        `yaml:"mode" default:"sim"`
		WebSocketURL   string        `yaml:"websocket_url"`
		Token          string        `yaml:"token"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
		SimInterval    time.Duration `yaml:"sim_interval" default:"2s"`
	} `yaml:"feed"`
	Kafka struct {
		Enabled          bool     `yaml:"enabled"`
		Brokers          []string `yaml:"brokers"`
		PerformanceTopic string   `yaml:"performance_topic" default:"perf-snapshots"`
		TriggerTopic     string   `yaml:"trigger_topic" default:"trade-triggers"`
		RequiredAcks     int      `yaml:"required_acks" default:"1"`
		Compression      string   `yaml:"compression" default:"snappy"`
		Producer         struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"fusiongate"`
			Workers    int           `yaml:"workers" default:"2"`
			BufferSize int           `yaml:"buffer_size" default:"256"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"250ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"10485760"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Cache struct {
		Backend string        `yaml:"backend" default:"memory"`
		TTL     time.Duration `yaml:"ttl" default:"10m"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file. Defaults are applied
// before the file is parsed, so the file only needs to override.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FEED_MODE"); v != "" {
		c.Feed.Mode = v
	}
	if v := os.Getenv("FEED_TOKEN"); v != "" {
		c.Feed.Token = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Backend = "redis"
		c.Cache.Redis.Addr = v
	}

	return c, c.Validate()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Feed.Mode != "ws" && c.Feed.Mode != "sim" {
		return fmt.Errorf("feed.mode must be 'ws' or 'sim', got '%s'", c.Feed.Mode)
	}
	if c.Feed.Mode == "ws" && c.Feed.WebSocketURL == "" {
		return fmt.Errorf("feed.websocket_url is required in ws mode")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Pipeline.TickInterval <= 0 {
		return fmt.Errorf("pipeline.tick_interval must be positive")
	}
	return nil
}
