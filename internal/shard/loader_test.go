package shard

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanrrz/catchment-cli/internal/config"
)

type stubFetcher map[string]string

func (s stubFetcher) Download(_ context.Context, url string) (io.ReadCloser, error) {
	body, ok := s[url]
	if !ok {
		return nil, eris.Errorf("no fixture for %s", url)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func shardCols() config.ShardsConfig {
	return config.ShardsConfig{
		LatColumn:     "LAT",
		LonColumn:     "LON",
		AddressColumn: "FullAddress",
		Parallelism:   4,
	}
}

func TestLoad_MergesInInputOrder(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/shards/a.csv": "LAT,LON,FullAddress\n34.0,-118.1,100 First St\n34.1,-118.2,200 Second St\n",
		"https://bucket.test/shards/b.csv": "FullAddress,LAT,LON\n300 Third St,34.2,-118.3\n",
	}
	l := NewLoader(f, "https://bucket.test", shardCols(), nil)

	records, failed, err := l.Load(context.Background(), []string{"shards/a.csv", "shards/b.csv"})
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, records, 3)

	// Concatenation follows the path list even with parallel fetches, and
	// column projection is positional by name, not by file layout.
	assert.Equal(t, "100 First St", records[0].FullAddress)
	assert.Equal(t, "200 Second St", records[1].FullAddress)
	assert.Equal(t, "300 Third St", records[2].FullAddress)
	assert.InDelta(t, 34.2, records[2].Latitude, 1e-9)
	assert.InDelta(t, -118.3, records[2].Longitude, 1e-9)
}

func TestLoad_PartialFailure(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/shards/a.csv": "LAT,LON,FullAddress\n34.0,-118.1,100 First St\n",
	}
	l := NewLoader(f, "https://bucket.test", shardCols(), nil)

	records, failed, err := l.Load(context.Background(), []string{"shards/a.csv", "shards/missing.csv"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, failed, 1)
	assert.Equal(t, "shards/missing.csv", failed[0].Path)
	assert.Error(t, failed[0].Err)
}

func TestLoad_EmptyPaths(t *testing.T) {
	l := NewLoader(stubFetcher{}, "https://bucket.test", shardCols(), nil)

	records, failed, err := l.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, failed)
}

func TestLoad_SchemaError(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/shards/a.csv": "x,y,addr\n1,2,somewhere\n",
	}
	l := NewLoader(f, "https://bucket.test", shardCols(), nil)

	_, failed, err := l.Load(context.Background(), []string{"shards/a.csv"})
	require.Error(t, err)
	require.Len(t, failed, 1)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"LAT", "LON"}, schemaErr.Missing)
	assert.Equal(t, []string{"x", "y", "addr"}, schemaErr.Available)
}

func TestLoad_SchemaMismatchInOneShardIsPartial(t *testing.T) {
	// One good shard keeps the run alive; the mismatched shard is reported
	// as failed rather than escalating to a schema error.
	f := stubFetcher{
		"https://bucket.test/shards/good.csv": "LAT,LON,FullAddress\n34.0,-118.1,100 First St\n",
		"https://bucket.test/shards/bad.csv":  "x,y,addr\n1,2,somewhere\n",
	}
	l := NewLoader(f, "https://bucket.test", shardCols(), nil)

	records, failed, err := l.Load(context.Background(), []string{"shards/good.csv", "shards/bad.csv"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.Len(t, failed, 1)
	assert.Equal(t, "shards/bad.csv", failed[0].Path)
}

func TestLoad_DropsRowsWithoutCoordinates(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/shards/a.csv": "LAT,LON,FullAddress\n" +
			"34.0,-118.1,100 First St\n" +
			",,200 Second St\n" +
			"bad,-118.3,300 Third St\n",
	}
	l := NewLoader(f, "https://bucket.test", shardCols(), nil)

	records, failed, err := l.Load(context.Background(), []string{"shards/a.csv"})
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, records, 1)
	assert.Equal(t, "100 First St", records[0].FullAddress)
}
