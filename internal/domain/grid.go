package domain

import (
	"errors"
	"math"
)

// errNoGridGeometry means a record lacks the shape fields needed to map
// between flat indices and coordinates.
var errNoGridGeometry = errors.New("record has no usable grid geometry")

// GridGeometry maps flat array indices onto a regular latitude/longitude
// raster, reconstructed from a record's grid-description metadata. Rows run
// from the first to the last grid-point latitude, columns from the first to
// the last longitude, row-major.
type GridGeometry struct {
	Ni, Nj            int
	FirstLat, LastLat float64
	FirstLon, LastLon float64
}

// Geometry derives the raster mapping from a record's metadata. It fails when
// the shape or corner fields are absent.
func (r *MessageRecord) Geometry() (GridGeometry, error) {
	if r.Ni == nil || r.Nj == nil || *r.Ni <= 0 || *r.Nj <= 0 {
		return GridGeometry{}, errNoGridGeometry
	}
	if r.LatitudeOfFirstGridPoint == nil || r.LatitudeOfLastGridPoint == nil ||
		r.LongitudeOfFirstGridPoint == nil || r.LongitudeOfLastGridPoint == nil {
		return GridGeometry{}, errNoGridGeometry
	}
	return GridGeometry{
		Ni:       *r.Ni,
		Nj:       *r.Nj,
		FirstLat: *r.LatitudeOfFirstGridPoint,
		LastLat:  *r.LatitudeOfLastGridPoint,
		FirstLon: *r.LongitudeOfFirstGridPoint,
		LastLon:  *r.LongitudeOfLastGridPoint,
	}, nil
}

// LatLon returns the coordinates of flat index i.
func (g GridGeometry) LatLon(i int) (lat, lon float64) {
	row := i / g.Ni
	col := i % g.Ni
	return g.FirstLat + float64(row)*g.latStep(), g.FirstLon + float64(col)*g.lonStep()
}

// NearestIndex returns the flat index of the grid point closest to the target,
// by clamped rounding on each axis. Distance is Euclidean in degree space,
// which is what the reference spot-check tooling used; fine for picking a
// neighboring cell, not for real geodesy.
func (g GridGeometry) NearestIndex(lat, lon float64) int {
	var row, col int
	if s := g.latStep(); s != 0 {
		row = clampRound((lat-g.FirstLat)/s, g.Nj-1)
	}
	if s := g.lonStep(); s != 0 {
		col = clampRound((lon-g.FirstLon)/s, g.Ni-1)
	}
	return row*g.Ni + col
}

func (g GridGeometry) latStep() float64 {
	if g.Nj <= 1 {
		return 0
	}
	return (g.LastLat - g.FirstLat) / float64(g.Nj-1)
}

func (g GridGeometry) lonStep() float64 {
	if g.Ni <= 1 {
		return 0
	}
	return (g.LastLon - g.FirstLon) / float64(g.Ni-1)
}

func clampRound(x float64, maxIdx int) int {
	if maxIdx <= 0 {
		return 0
	}
	i := int(math.Round(x))
	if i < 0 {
		return 0
	}
	if i > maxIdx {
		return maxIdx
	}
	return i
}
