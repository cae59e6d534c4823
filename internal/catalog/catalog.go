// Package catalog resolves named sites to their partitioned address-shard
// sets by joining the site table against the shard manifest.
package catalog

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Site is one selectable site from the catalog.
type Site struct {
	ID        string
	Label     string
	Latitude  float64
	Longitude float64
}

// ManifestEntry maps a boundary identifier to its shard file paths.
type ManifestEntry struct {
	BoundaryID string
	ShardPaths []string
}

// ResolvedSite is a Site joined with its manifest entry. A site with no
// manifest match carries an empty ShardPaths.
type ResolvedSite struct {
	Site
	ShardPaths []string
}

// ErrJoinFailure indicates the site/manifest join matched nothing at all,
// which points at a key-name or data mismatch rather than a per-site gap.
var ErrJoinFailure = eris.New("catalog: no site matched any manifest entry")

// joinKey normalizes an identifier for joining. Both sides of the join go
// through the same string cast so numeric-looking IDs cannot silently
// mismatch on type or padding.
func joinKey(id string) string {
	return strings.TrimSpace(id)
}

// Resolve left-joins sites against the manifest on their normalized IDs.
// Every site appears exactly once in the output, in input order. When zero
// sites match any manifest entry the join is considered misconfigured and
// ErrJoinFailure is returned.
func Resolve(sites []Site, manifest []ManifestEntry) ([]ResolvedSite, error) {
	byBoundary := make(map[string]ManifestEntry, len(manifest))
	for _, entry := range manifest {
		byBoundary[joinKey(entry.BoundaryID)] = entry
	}

	resolved := make([]ResolvedSite, 0, len(sites))
	matched := 0
	for _, site := range sites {
		rs := ResolvedSite{Site: site}
		if entry, ok := byBoundary[joinKey(site.ID)]; ok {
			rs.ShardPaths = entry.ShardPaths
			matched++
		}
		resolved = append(resolved, rs)
	}

	if len(sites) > 0 && matched == 0 {
		return nil, eris.Wrapf(ErrJoinFailure,
			"catalog: %d sites, %d manifest entries, zero matches", len(sites), len(manifest))
	}

	return resolved, nil
}

// FindSite locates a resolved site by ID or, failing that, by label.
func FindSite(resolved []ResolvedSite, key string) (ResolvedSite, bool) {
	for _, rs := range resolved {
		if joinKey(rs.ID) == joinKey(key) {
			return rs, true
		}
	}
	for _, rs := range resolved {
		if strings.EqualFold(strings.TrimSpace(rs.Label), strings.TrimSpace(key)) {
			return rs, true
		}
	}
	return ResolvedSite{}, false
}

// ExportFilename derives a download filename from the site label, replacing
// spaces with underscores.
func (rs ResolvedSite) ExportFilename() string {
	label := strings.TrimSpace(rs.Label)
	if label == "" {
		label = joinKey(rs.ID)
	}
	return strings.ReplaceAll(label, " ", "_") + ".csv"
}
