package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.HTTPAddr, "HTTP server is off unless HTTP_ADDR is set")
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "decode-runs-reference", cfg.KafkaReferenceTopic)
	assert.Equal(t, "decode-runs-candidate", cfg.KafkaCandidateTopic)
	assert.Equal(t, "decode-records", cfg.KafkaRecordsTopic)
	assert.Equal(t, "grib-parity", cfg.KafkaGroupID)
	assert.False(t, cfg.MapboxEnabled)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)

	assert.Equal(t, 1e-6, cfg.Tolerances.Value)
	assert.Equal(t, 1e-4, cfg.Tolerances.Mean)
	assert.Equal(t, 5, cfg.Sampling.HeadCount)
	assert.Equal(t, 51, cfg.Sampling.BlockSize)
	assert.Equal(t, 2, cfg.Sampling.BlockHead)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_REFERENCE_TOPIC", "ref-runs")
	t.Setenv("KAFKA_CANDIDATE_TOPIC", "cand-runs")
	t.Setenv("VALUE_TOLERANCE", "1e-5")
	t.Setenv("MEAN_TOLERANCE", "1e-3")
	t.Setenv("SAMPLE_HEAD_COUNT", "10")
	t.Setenv("SAMPLE_BLOCK_SIZE", "100")
	t.Setenv("SAMPLE_BLOCK_HEAD", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "ref-runs", cfg.KafkaReferenceTopic)
	assert.Equal(t, "cand-runs", cfg.KafkaCandidateTopic)
	assert.Equal(t, 1e-5, cfg.Tolerances.Value)
	assert.Equal(t, 1e-3, cfg.Tolerances.Mean)
	assert.Equal(t, 10, cfg.Sampling.HeadCount)
	assert.Equal(t, 100, cfg.Sampling.BlockSize)
	assert.Equal(t, 3, cfg.Sampling.BlockHead)
}

func TestLoad_InvalidTolerance(t *testing.T) {
	t.Setenv("VALUE_TOLERANCE", "not-a-number")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALUE_TOLERANCE")
}

func TestLoad_NegativeTolerance(t *testing.T) {
	t.Setenv("MEAN_TOLERANCE", "-1e-4")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidSampling(t *testing.T) {
	t.Setenv("SAMPLE_BLOCK_SIZE", "fifty-one")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAMPLE_BLOCK_SIZE")
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "pk.test-token")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestApplyFile_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parity.yaml")
	content := "tolerances:\n  value: 1e-8\nsampling:\n  head_count: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyFile(path))

	assert.Equal(t, 1e-8, cfg.Tolerances.Value)
	assert.Equal(t, 1e-4, cfg.Tolerances.Mean, "absent fields keep their values")
	assert.Equal(t, 7, cfg.Sampling.HeadCount)
	assert.Equal(t, 51, cfg.Sampling.BlockSize)
}

func TestApplyFile_Missing(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Error(t, cfg.ApplyFile(filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestApplyFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerances: [not a map"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	err = cfg.ApplyFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestApplyFile_NegativeValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerances:\n  value: -1.0\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Error(t, cfg.ApplyFile(path))
}
