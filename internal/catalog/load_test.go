package catalog

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanrrz/catchment-cli/internal/config"
)

type stubFetcher map[string]string

func (s stubFetcher) Download(_ context.Context, url string) (io.ReadCloser, error) {
	body, ok := s[url]
	if !ok {
		return nil, assert.AnError
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func testCatalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		BaseURL:      "https://bucket.test/data",
		SitesFile:    "sites.csv",
		ManifestFile: "_manifest.csv",
		IDColumn:     "SITE_ID",
		LabelColumn:  "LABEL",
		LatColumn:    "LAT",
		LonColumn:    "LON",
		BoundaryCol:  "boundary_id",
		PathsCol:     "files",
	}
}

func TestLoadSites(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/data/sites.csv": "SITE_ID,LABEL,LAT,LON\n" +
			"2,Zinnia High,34.1,-118.2\n" +
			"1,Adams Elementary,34.0,-118.1\n" +
			",Orphan Row,0,0\n",
	}
	l := NewLoader(f, testCatalogConfig())

	sites, err := l.LoadSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 2)

	// Sorted by label; the row with no ID is skipped.
	assert.Equal(t, "Adams Elementary", sites[0].Label)
	assert.Equal(t, "1", sites[0].ID)
	assert.InDelta(t, 34.0, sites[0].Latitude, 1e-9)
	assert.InDelta(t, -118.1, sites[0].Longitude, 1e-9)
	assert.Equal(t, "Zinnia High", sites[1].Label)
}

func TestLoadSites_DuplicateLabel(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/data/sites.csv": "SITE_ID,LABEL,LAT,LON\n" +
			"1,Same Name,0,0\n" +
			"2,Same Name,0,0\n",
	}
	l := NewLoader(f, testCatalogConfig())

	_, err := l.LoadSites(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate site label")
}

func TestLoadSites_MissingColumns(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/data/sites.csv": "id,name\n1,A\n",
	}
	l := NewLoader(f, testCatalogConfig())

	_, err := l.LoadSites(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: id, name")
}

func TestLoadManifest(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/data/_manifest.csv": "boundary_id,files\n" +
			`1,"[""shards/1/a.csv"",""shards/1/b.csv""]"` + "\n" +
			"2,\n",
	}
	l := NewLoader(f, testCatalogConfig())

	entries, err := l.LoadManifest(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, []string{"shards/1/a.csv", "shards/1/b.csv"}, entries[0].ShardPaths)
	assert.Empty(t, entries[1].ShardPaths)
}

func TestLoadManifest_BadPaths(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/data/_manifest.csv": "boundary_id,files\n1,not-json\n",
	}
	l := NewLoader(f, testCatalogConfig())

	_, err := l.LoadManifest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `manifest paths for boundary "1"`)
}

func TestLoad_EndToEnd(t *testing.T) {
	f := stubFetcher{
		"https://bucket.test/data/sites.csv": "SITE_ID,LABEL,LAT,LON\n" +
			"1,Adams Elementary,34.0,-118.1\n" +
			"2,Burbank Middle,34.2,-118.3\n",
		"https://bucket.test/data/_manifest.csv": "boundary_id,files\n" +
			`1,"[""shards/1/a.csv""]"` + "\n",
	}
	l := NewLoader(f, testCatalogConfig())

	resolved, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, []string{"shards/1/a.csv"}, resolved[0].ShardPaths)
	assert.Empty(t, resolved[1].ShardPaths)
}
