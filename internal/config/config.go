package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/grib-parity/internal/domain"
)

// Config holds all tool settings, populated from environment variables and
// optionally overridden by a YAML file.
type Config struct {
	LogLevel  string
	LogFormat string

	// HTTPAddr enables the metrics/health server when non-empty. The CLI
	// tools default it off; a long-running harness sets HTTP_ADDR.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	KafkaBrokers        []string
	KafkaReferenceTopic string
	KafkaCandidateTopic string
	KafkaRecordsTopic   string
	KafkaGroupID        string

	// Mapbox geocoding configuration, used by the wind spot-check tool.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	Tolerances domain.Tolerances
	Sampling   domain.SamplingPolicy
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeoutStr := sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s")
	mapboxTimeout, err2 := time.ParseDuration(mapboxTimeoutStr)
	if err2 != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	valueTol, err := parseFloatEnv("VALUE_TOLERANCE", domain.DefaultTolerances.Value)
	if err != nil {
		return nil, err
	}
	meanTol, err := parseFloatEnv("MEAN_TOLERANCE", domain.DefaultTolerances.Mean)
	if err != nil {
		return nil, err
	}

	headCount, err := parseIntEnv("SAMPLE_HEAD_COUNT", domain.DefaultSamplingPolicy.HeadCount)
	if err != nil {
		return nil, err
	}
	blockSize, err := parseIntEnv("SAMPLE_BLOCK_SIZE", domain.DefaultSamplingPolicy.BlockSize)
	if err != nil {
		return nil, err
	}
	blockHead, err := parseIntEnv("SAMPLE_BLOCK_HEAD", domain.DefaultSamplingPolicy.BlockHead)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReferenceTopic: sharedcfg.EnvOrDefault("KAFKA_REFERENCE_TOPIC", "decode-runs-reference"),
		KafkaCandidateTopic: sharedcfg.EnvOrDefault("KAFKA_CANDIDATE_TOPIC", "decode-runs-candidate"),
		KafkaRecordsTopic:   sharedcfg.EnvOrDefault("KAFKA_RECORDS_TOPIC", "decode-records"),
		KafkaGroupID:        sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "grib-parity"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		Tolerances: domain.Tolerances{Value: valueTol, Mean: meanTol},
		Sampling:   domain.SamplingPolicy{HeadCount: headCount, BlockSize: blockSize, BlockHead: blockHead},
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.Tolerances.Value < 0 || cfg.Tolerances.Mean < 0 {
		return nil, errors.New("tolerances must be non-negative")
	}
	if cfg.Sampling.HeadCount < 0 || cfg.Sampling.BlockSize < 0 || cfg.Sampling.BlockHead < 0 {
		return nil, errors.New("sampling parameters must be non-negative")
	}

	return cfg, nil
}

// fileOverrides mirrors the YAML override file. Pointer fields distinguish
// "absent" from an explicit zero.
type fileOverrides struct {
	Tolerances struct {
		Value *float64 `yaml:"value"`
		Mean  *float64 `yaml:"mean"`
	} `yaml:"tolerances"`
	Sampling struct {
		HeadCount *int `yaml:"head_count"`
		BlockSize *int `yaml:"block_size"`
		BlockHead *int `yaml:"block_head"`
	} `yaml:"sampling"`
}

// ApplyFile overlays tolerance and sampling settings from a YAML file onto
// the loaded configuration. Fields absent from the file keep their values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var f fileOverrides
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if f.Tolerances.Value != nil {
		c.Tolerances.Value = *f.Tolerances.Value
	}
	if f.Tolerances.Mean != nil {
		c.Tolerances.Mean = *f.Tolerances.Mean
	}
	if f.Sampling.HeadCount != nil {
		c.Sampling.HeadCount = *f.Sampling.HeadCount
	}
	if f.Sampling.BlockSize != nil {
		c.Sampling.BlockSize = *f.Sampling.BlockSize
	}
	if f.Sampling.BlockHead != nil {
		c.Sampling.BlockHead = *f.Sampling.BlockHead
	}

	if c.Tolerances.Value < 0 || c.Tolerances.Mean < 0 {
		return fmt.Errorf("config file %s: tolerances must be non-negative", path)
	}
	if c.Sampling.HeadCount < 0 || c.Sampling.BlockSize < 0 || c.Sampling.BlockHead < 0 {
		return fmt.Errorf("config file %s: sampling parameters must be non-negative", path)
	}
	return nil
}

func parseFloatEnv(name string, def float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func parseIntEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
