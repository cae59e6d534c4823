// Package shard loads partitioned address-shard files and merges them into
// one record set, tolerating partial shard failure.
package shard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alanrrz/catchment-cli/internal/cache"
	"github.com/alanrrz/catchment-cli/internal/config"
	"github.com/alanrrz/catchment-cli/internal/fetcher"
)

// AddressRecord is one address row projected from a shard.
type AddressRecord struct {
	Latitude    float64
	Longitude   float64
	FullAddress string
}

// FailedShard records a shard that could not be loaded. The pipeline
// continues with whatever subset loaded; failures are surfaced, not fatal.
type FailedShard struct {
	Path string
	Err  error
}

// SchemaError indicates the bound coordinate columns were absent from every
// shard that could be fetched. This is a caller-facing configuration error,
// not a retryable condition.
type SchemaError struct {
	Missing   []string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("shard: columns %s not found in any shard (available: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// Loader fetches and merges address shards.
type Loader struct {
	fetcher fetcher.Fetcher
	baseURL string
	cols    config.ShardsConfig
	cache   *cache.ShardCache
}

// NewLoader creates a shard Loader. cache may be nil to disable the session
// payload cache.
func NewLoader(f fetcher.Fetcher, baseURL string, cols config.ShardsConfig, c *cache.ShardCache) *Loader {
	if cols.Parallelism < 1 {
		cols.Parallelism = 1
	}
	return &Loader{fetcher: f, baseURL: strings.TrimRight(baseURL, "/"), cols: cols, cache: c}
}

type shardResult struct {
	records   []AddressRecord
	err       error
	available []string // header of a fetched shard that lacked the bound columns
}

// Load fetches each shard path, projects the bound latitude/longitude/address
// columns, and concatenates the successfully loaded shards in input order.
// Rows missing a coordinate are dropped; they cannot participate in spatial
// containment tests. An empty path list returns an empty record set.
func (l *Loader) Load(ctx context.Context, paths []string) ([]AddressRecord, []FailedShard, error) {
	if len(paths) == 0 {
		return nil, nil, nil
	}

	results := make([]shardResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cols.Parallelism)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = l.loadOne(gctx, path)
			return nil
		})
	}
	_ = g.Wait() // per-shard errors live in results, never abort the group

	var merged []AddressRecord
	var failed []FailedShard
	var available []string
	loadedAny := false

	// Reassemble in input-path order regardless of fetch completion order.
	for i, res := range results {
		if res.err != nil {
			failed = append(failed, FailedShard{Path: paths[i], Err: res.err})
			if res.available != nil {
				available = res.available
			}
			zap.L().Warn("shard load failed",
				zap.String("path", paths[i]),
				zap.Error(res.err),
			)
			continue
		}
		loadedAny = true
		merged = append(merged, res.records...)
	}

	if !loadedAny && available != nil {
		return nil, failed, &SchemaError{
			Missing:   []string{l.cols.LatColumn, l.cols.LonColumn},
			Available: available,
		}
	}

	zap.L().Info("shards merged",
		zap.Int("requested", len(paths)),
		zap.Int("failed", len(failed)),
		zap.Int("rows", len(merged)),
	)
	return merged, failed, nil
}

func (l *Loader) loadOne(ctx context.Context, path string) shardResult {
	payload, err := l.payload(ctx, path)
	if err != nil {
		return shardResult{err: err}
	}

	table, err := fetcher.ReadTable(bytes.NewReader(payload))
	if err != nil {
		return shardResult{err: err}
	}

	projected, err := table.Project(l.cols.LatColumn, l.cols.LonColumn, l.cols.AddressColumn)
	if err != nil {
		return shardResult{err: err, available: table.Columns}
	}

	records := make([]AddressRecord, 0, len(projected.Rows))
	for _, row := range projected.Rows {
		lat, latErr := strconv.ParseFloat(row[0], 64)
		lon, lonErr := strconv.ParseFloat(row[1], 64)
		if latErr != nil || lonErr != nil {
			continue // no coordinate, cannot be filtered
		}
		records = append(records, AddressRecord{
			Latitude:    lat,
			Longitude:   lon,
			FullAddress: row[2],
		})
	}
	return shardResult{records: records}
}

// payload returns the raw shard bytes, consulting the session cache first.
func (l *Loader) payload(ctx context.Context, path string) ([]byte, error) {
	if l.cache != nil {
		data, hit, err := l.cache.Get(ctx, path)
		if err != nil {
			zap.L().Warn("shard cache read failed", zap.String("path", path), zap.Error(err))
		} else if hit {
			return data, nil
		}
	}

	body, err := l.fetcher.Download(ctx, l.baseURL+"/"+path)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Put(ctx, path, data); err != nil {
			zap.L().Warn("shard cache write failed", zap.String("path", path), zap.Error(err))
		}
	}
	return data, nil
}
