package catalog

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/alanrrz/catchment-cli/internal/config"
	"github.com/alanrrz/catchment-cli/internal/fetcher"
)

// Loader fetches the site catalog and shard manifest from the configured
// storage bucket. Both are fetched once per session; the results are
// reference data and never mutate.
type Loader struct {
	fetcher fetcher.Fetcher
	cfg     config.CatalogConfig
}

// NewLoader creates a catalog Loader.
func NewLoader(f fetcher.Fetcher, cfg config.CatalogConfig) *Loader {
	return &Loader{fetcher: f, cfg: cfg}
}

func (l *Loader) url(file string) string {
	base := strings.TrimRight(l.cfg.BaseURL, "/")
	return base + "/" + file
}

// LoadSites fetches and parses the site table. Sites are sorted by label so
// selector ordering is stable; duplicate labels are rejected because the
// label doubles as the user-facing selector key.
func (l *Loader) LoadSites(ctx context.Context) ([]Site, error) {
	body, err := l.fetcher.Download(ctx, l.url(l.cfg.SitesFile))
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: fetch %s", l.cfg.SitesFile)
	}
	defer body.Close() //nolint:errcheck

	table, err := fetcher.ReadTable(body)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", l.cfg.SitesFile)
	}

	idIdx := table.Index(l.cfg.IDColumn)
	labelIdx := table.Index(l.cfg.LabelColumn)
	latIdx := table.Index(l.cfg.LatColumn)
	lonIdx := table.Index(l.cfg.LonColumn)
	if idIdx < 0 || labelIdx < 0 {
		return nil, eris.Errorf("catalog: site columns %q/%q not found (available: %s)",
			l.cfg.IDColumn, l.cfg.LabelColumn, strings.Join(table.Columns, ", "))
	}

	sites := make([]Site, 0, len(table.Rows))
	for _, row := range table.Rows {
		site := Site{
			ID:    table.Cell(row, idIdx),
			Label: table.Cell(row, labelIdx),
		}
		if site.ID == "" {
			continue
		}
		site.Latitude, _ = strconv.ParseFloat(table.Cell(row, latIdx), 64)
		site.Longitude, _ = strconv.ParseFloat(table.Cell(row, lonIdx), 64)
		sites = append(sites, site)
	}

	sort.Slice(sites, func(i, j int) bool { return sites[i].Label < sites[j].Label })

	seen := make(map[string]struct{}, len(sites))
	for _, s := range sites {
		if _, dup := seen[s.Label]; dup {
			return nil, eris.Errorf("catalog: duplicate site label %q", s.Label)
		}
		seen[s.Label] = struct{}{}
	}

	zap.L().Debug("catalog: loaded sites", zap.Int("count", len(sites)))
	return sites, nil
}

// LoadManifest fetches and parses the shard manifest. The paths column holds
// one JSON array of relative shard paths per row.
func (l *Loader) LoadManifest(ctx context.Context) ([]ManifestEntry, error) {
	body, err := l.fetcher.Download(ctx, l.url(l.cfg.ManifestFile))
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: fetch %s", l.cfg.ManifestFile)
	}
	defer body.Close() //nolint:errcheck

	table, err := fetcher.ReadTable(body)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", l.cfg.ManifestFile)
	}

	boundaryIdx := table.Index(l.cfg.BoundaryCol)
	pathsIdx := table.Index(l.cfg.PathsCol)
	if boundaryIdx < 0 || pathsIdx < 0 {
		return nil, eris.Errorf("catalog: manifest columns %q/%q not found (available: %s)",
			l.cfg.BoundaryCol, l.cfg.PathsCol, strings.Join(table.Columns, ", "))
	}

	entries := make([]ManifestEntry, 0, len(table.Rows))
	for _, row := range table.Rows {
		entry := ManifestEntry{BoundaryID: table.Cell(row, boundaryIdx)}
		if entry.BoundaryID == "" {
			continue
		}
		raw := table.Cell(row, pathsIdx)
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &entry.ShardPaths); err != nil {
				return nil, eris.Wrapf(err, "catalog: manifest paths for boundary %q", entry.BoundaryID)
			}
		}
		entries = append(entries, entry)
	}

	zap.L().Debug("catalog: loaded manifest", zap.Int("count", len(entries)))
	return entries, nil
}

// Load fetches both catalog inputs and resolves them in one step.
func (l *Loader) Load(ctx context.Context) ([]ResolvedSite, error) {
	sites, err := l.LoadSites(ctx)
	if err != nil {
		return nil, err
	}
	manifest, err := l.LoadManifest(ctx)
	if err != nil {
		return nil, err
	}
	return Resolve(sites, manifest)
}
