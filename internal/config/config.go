// Package config loads pipeline configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full pipeline configuration.
type Config struct {
	Service       ServiceConfig
	Engine        EngineConfig
	Transcode     TranscodeConfig
	Models        ModelConfig
	Capture       CaptureConfig
	Output        OutputConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig identifies this process to downstream consumers.
type ServiceConfig struct {
	Principal string
}

// EngineConfig selects and tunes the transcription engine.
type EngineConfig struct {
	// Provider is one of openai, google, fake.
	Provider string
	// BaseURL is the OpenAI-compatible API root.
	BaseURL string
	APIKey  string
	Model   string
	// Language is the expected spoken language; empty lets the engine detect.
	Language string
	// Translate asks the engine for an English translation.
	Translate bool
	// Strategy is one of default, greedy, beam_search.
	Strategy  string
	BestOf    int
	BeamWidth int
}

// TranscodeConfig tunes the ffmpeg input conversion.
type TranscodeConfig struct {
	FFmpegPath string
	TempDir    string
}

// ModelConfig tunes model artifact resolution.
type ModelConfig struct {
	Dir      string
	BaseURL  string
	Progress bool
}

// CaptureConfig tunes the live capture window.
type CaptureConfig struct {
	ChunkDuration      time.Duration
	WindowCapacity     int
	SilenceThresholdDB float64
	DropStartSilence   time.Duration
	MinDuration        time.Duration
	MaxDuration        time.Duration
	PauseDuration      time.Duration
	Stereo             bool
}

// OutputConfig tunes subtitle serialization.
type OutputConfig struct {
	// Format is one of srt, vtt, both.
	Format string
	// ConvertMode is one of none, s2twp, tw2sp.
	ConvertMode string
}

// KafkaConfig tunes the optional event publisher.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicState   string
	TopicSegment string
	Principal    string
}

// ObservabilityConfig tunes logging and metrics.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
	// MetricsAddr enables the metrics HTTP server when non-empty.
	MetricsAddr string
}

// Load reads configuration from the environment, applying defaults for
// anything unset or unparsable.
func Load() *Config {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-subtitle-generator")

	return &Config{
		Service: ServiceConfig{
			Principal: principal,
		},
		Engine: EngineConfig{
			Provider:  envOrDefault("ENGINE_PROVIDER", "openai"),
			BaseURL:   envOrDefault("ENGINE_BASE_URL", "http://localhost:8080/v1"),
			APIKey:    envOrDefault("ENGINE_API_KEY", ""),
			Model:     envOrDefault("ENGINE_MODEL", "whisper-1"),
			Language:  envOrDefault("ENGINE_LANGUAGE", ""),
			Translate: envOrDefaultBool("ENGINE_TRANSLATE", false),
			Strategy:  envOrDefault("ENGINE_STRATEGY", "default"),
			BestOf:    envOrDefaultInt("ENGINE_BEST_OF", 1),
			BeamWidth: envOrDefaultInt("ENGINE_BEAM_WIDTH", 5),
		},
		Transcode: TranscodeConfig{
			FFmpegPath: envOrDefault("FFMPEG_PATH", "ffmpeg"),
			TempDir:    envOrDefault("TRANSCODE_TEMP_DIR", ""),
		},
		Models: ModelConfig{
			Dir:      envOrDefault("MODEL_DIR", "models"),
			BaseURL:  envOrDefault("MODEL_BASE_URL", ""),
			Progress: envOrDefaultBool("MODEL_DOWNLOAD_PROGRESS", true),
		},
		Capture: CaptureConfig{
			ChunkDuration:      envOrDefaultDuration("CAPTURE_CHUNK_DURATION", time.Second),
			WindowCapacity:     envOrDefaultInt("CAPTURE_WINDOW_CAPACITY", 12),
			SilenceThresholdDB: envOrDefaultFloat("CAPTURE_SILENCE_THRESHOLD_DB", -40),
			DropStartSilence:   envOrDefaultDuration("CAPTURE_DROP_START_SILENCE", 250*time.Millisecond),
			MinDuration:        envOrDefaultDuration("CAPTURE_MIN_DURATION", 7*time.Second),
			MaxDuration:        envOrDefaultDuration("CAPTURE_MAX_DURATION", 11*time.Second),
			PauseDuration:      envOrDefaultDuration("CAPTURE_PAUSE_DURATION", 333*time.Millisecond),
			Stereo:             envOrDefaultBool("CAPTURE_STEREO", true),
		},
		Output: OutputConfig{
			Format:      envOrDefault("OUTPUT_FORMAT", "srt"),
			ConvertMode: envOrDefault("CONVERT_MODE", "none"),
		},
		Kafka: KafkaConfig{
			Enabled:      envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:      envList("KAFKA_BROKERS"),
			TopicState:   envOrDefault("KAFKA_TOPIC_STATE", "subtitle.session.state"),
			TopicSegment: envOrDefault("KAFKA_TOPIC_SEGMENT", "subtitle.session.segment"),
			Principal:    envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "console"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ""),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
