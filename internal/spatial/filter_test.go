package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/alanrrz/catchment-cli/internal/shard"
)

// square returns a unit-aligned square polygon from (x0,y0) to (x1,y1).
func square(x0, y0, x1, y1 float64) *geom.Polygon {
	poly := geom.NewPolygon(geom.XY)
	_ = poly.Push(geom.NewLinearRingFlat(geom.XY, []float64{
		x0, y0, x1, y0, x1, y1, x0, y1, x0, y0,
	}))
	return poly
}

func TestContains(t *testing.T) {
	poly := square(0, 0, 10, 10)

	assert.True(t, Contains(poly, geom.Coord{5, 5}))
	assert.False(t, Contains(poly, geom.Coord{15, 5}))
	assert.False(t, Contains(poly, geom.Coord{-1, -1}))
}

func TestContains_Hole(t *testing.T) {
	poly := square(0, 0, 10, 10)
	_ = poly.Push(geom.NewLinearRingFlat(geom.XY, []float64{
		4, 4, 6, 4, 6, 6, 4, 6, 4, 4,
	}))

	assert.True(t, Contains(poly, geom.Coord{2, 2}))
	assert.False(t, Contains(poly, geom.Coord{5, 5})) // inside the hole
}

func TestContains_Empty(t *testing.T) {
	assert.False(t, Contains(nil, geom.Coord{0, 0}))
	assert.False(t, Contains(geom.NewPolygon(geom.XY), geom.Coord{0, 0}))
}

func TestFilter_UnionAcrossPolygons(t *testing.T) {
	records := []shard.AddressRecord{
		{Latitude: 5, Longitude: 5, FullAddress: "in first"},
		{Latitude: 25, Longitude: 25, FullAddress: "in second"},
		{Latitude: 50, Longitude: 50, FullAddress: "in neither"},
	}
	polygons := []*geom.Polygon{
		square(0, 0, 10, 10),
		square(20, 20, 30, 30),
	}

	kept, err := Filter(records, polygons)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, "in first", kept[0].FullAddress)
	assert.Equal(t, "in second", kept[1].FullAddress)
}

func TestFilter_CoordinateOrder(t *testing.T) {
	// A point at lat 5, lon 40 only falls in a polygon spanning x 35..45,
	// y 0..10. If lat/lon were swapped into the point it would miss.
	records := []shard.AddressRecord{{Latitude: 5, Longitude: 40, FullAddress: "east"}}
	polygons := []*geom.Polygon{square(35, 0, 45, 10)}

	kept, err := Filter(records, polygons)
	require.NoError(t, err)
	require.Len(t, kept, 1)

	kept, err = Filter(records, []*geom.Polygon{square(0, 35, 10, 45)})
	require.NoError(t, err)
	assert.Empty(t, kept)
}

func TestFilter_NoPolygons(t *testing.T) {
	records := []shard.AddressRecord{{Latitude: 5, Longitude: 5}}

	_, err := Filter(records, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPolygons)
}

func TestFilter_EmptyRecords(t *testing.T) {
	kept, err := Filter(nil, []*geom.Polygon{square(0, 0, 1, 1)})
	require.NoError(t, err)
	assert.Empty(t, kept)
}
