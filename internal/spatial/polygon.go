// Package spatial filters address points against user-drawn planar regions.
package spatial

import (
	"encoding/json"
	"fmt"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// FromGeoJSON decodes drawn shapes into polygons. The input may be a
// FeatureCollection, a single Feature, or a bare geometry; rectangles arrive
// as four-corner polygons. Non-areal geometries are skipped.
func FromGeoJSON(data []byte) ([]*geom.Polygon, error) {
	// The geojson types validate their "type" member during unmarshal, so a
	// successful decode means the input really was that shape. An empty
	// FeatureCollection legitimately yields zero polygons.
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err == nil {
		var polys []*geom.Polygon
		for _, f := range fc.Features {
			polys = append(polys, fromGeometry(f.Geometry)...)
		}
		return polys, nil
	}

	var f geojson.Feature
	if err := json.Unmarshal(data, &f); err == nil && f.Geometry != nil {
		return fromGeometry(f.Geometry), nil
	}

	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return nil, eris.Wrap(err, "spatial: parse geojson")
	}
	return fromGeometry(g), nil
}

// fromGeometry extracts the polygons of a decoded geometry.
func fromGeometry(g geom.T) []*geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{t}
	case *geom.MultiPolygon:
		polys := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
		return polys
	default:
		if g != nil {
			zap.L().Debug("spatial: skipping non-areal geometry",
				zap.String("type", fmt.Sprintf("%T", g)),
			)
		}
		return nil
	}
}

// FromShapefile reads boundary polygons from a shapefile. Each part of a
// multi-part shape becomes its own polygon.
func FromShapefile(path string) ([]*geom.Polygon, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "spatial: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	var polys []*geom.Polygon
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		p, ok := shape.(*shp.Polygon)
		if !ok || p.NumParts == 0 || len(p.Points) == 0 {
			skipped++
			continue
		}

		for i := int32(0); i < p.NumParts; i++ {
			start := p.Parts[i]
			end := int32(len(p.Points))
			if i+1 < p.NumParts {
				end = p.Parts[i+1]
			}

			flat := make([]float64, 0, (end-start)*2)
			for j := start; j < end; j++ {
				flat = append(flat, p.Points[j].X, p.Points[j].Y)
			}

			poly := geom.NewPolygon(geom.XY)
			if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
				skipped++
				continue
			}
			polys = append(polys, poly)
		}
	}

	if skipped > 0 {
		zap.L().Debug("spatial: skipped shapefile records", zap.Int("skipped", skipped))
	}

	return polys, nil
}
