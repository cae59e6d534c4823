package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "SITE_ID", cfg.Catalog.IDColumn)
	assert.Equal(t, "LABEL", cfg.Catalog.LabelColumn)
	assert.Equal(t, "_manifest.csv", cfg.Catalog.ManifestFile)
	assert.Equal(t, "FullAddress", cfg.Shards.AddressColumn)
	assert.Equal(t, 1, cfg.Shards.Parallelism)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, "standard", cfg.Enrich.Provider)
	assert.Equal(t, 1000, cfg.Enrich.IntervalMS)
	assert.Equal(t, "; ", cfg.Enrich.Delimiter)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CATCHMENT_LOG_LEVEL", "debug")
	t.Setenv("CATCHMENT_SHARDS_PARALLELISM", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Shards.Parallelism)
}

func TestEnrichInterval(t *testing.T) {
	e := EnrichConfig{IntervalMS: 1500}
	assert.Equal(t, 1500*time.Millisecond, e.Interval())
}
