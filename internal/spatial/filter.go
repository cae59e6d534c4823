package spatial

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/alanrrz/catchment-cli/internal/shard"
)

// ErrNoPolygons is returned when filtering is requested with zero drawn
// shapes. Callers must treat this as "no filter requested yet" and withhold
// results rather than filtering to the empty set.
var ErrNoPolygons = eris.New("spatial: no polygons to filter against")

// Contains reports whether the point lies inside the polygon: inside the
// outer ring and outside every hole. Points exactly on an edge may be
// excluded; that is the accepted boundary semantics.
func Contains(poly *geom.Polygon, point geom.Coord) bool {
	if poly == nil || poly.NumLinearRings() == 0 {
		return false
	}
	if !xy.IsPointInRing(poly.Layout(), point, poly.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < poly.NumLinearRings(); i++ {
		if xy.IsPointInRing(poly.Layout(), point, poly.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

// Filter returns the subset of records whose point lies inside at least one
// polygon. Points are built as (x=longitude, y=latitude), the reverse of the
// record's field order.
func Filter(records []shard.AddressRecord, polygons []*geom.Polygon) ([]shard.AddressRecord, error) {
	if len(polygons) == 0 {
		return nil, ErrNoPolygons
	}

	var kept []shard.AddressRecord
	for _, rec := range records {
		point := geom.Coord{rec.Longitude, rec.Latitude}
		for _, poly := range polygons {
			if Contains(poly, point) {
				kept = append(kept, rec)
				break
			}
		}
	}

	zap.L().Info("spatial filter applied",
		zap.Int("in", len(records)),
		zap.Int("out", len(kept)),
		zap.Int("polygons", len(polygons)),
	)
	return kept, nil
}
