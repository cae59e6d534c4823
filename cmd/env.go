package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/alanrrz/catchment-cli/internal/cache"
	"github.com/alanrrz/catchment-cli/internal/catalog"
	"github.com/alanrrz/catchment-cli/internal/fetcher"
	"github.com/alanrrz/catchment-cli/internal/pipeline"
	"github.com/alanrrz/catchment-cli/internal/shard"
)

// env holds the shared collaborators commands build once per invocation.
type env struct {
	Pipeline *pipeline.Pipeline
	cache    *cache.ShardCache
}

// Close releases held resources.
func (e *env) Close() {
	if e.cache != nil {
		_ = e.cache.Close()
	}
}

// initPipeline wires the fetcher, optional session cache, catalog loader,
// and shard loader from configuration.
func initPipeline() (*env, error) {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
	})

	var shardCache *cache.ShardCache
	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			// The cache is an optimization; a broken cache file should not
			// stop the run.
			zap.L().Warn("shard cache unavailable", zap.String("path", cfg.Cache.Path), zap.Error(err))
		} else {
			shardCache = c
		}
	}

	cat := catalog.NewLoader(f, cfg.Catalog)
	shards := shard.NewLoader(f, cfg.Catalog.BaseURL, cfg.Shards, shardCache)

	return &env{
		Pipeline: pipeline.New(cat, shards),
		cache:    shardCache,
	}, nil
}
