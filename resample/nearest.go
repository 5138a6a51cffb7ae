/*
Copyright © 2024 the FY3-Reader authors.
This file is part of FY3-Reader.

FY3-Reader is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FY3-Reader is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FY3-Reader.  If not, see <http://www.gnu.org/licenses/>.
*/

package resample

import (
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// sample is a valid swath observation.
type sample struct {
	lon, lat, v float64
}

func (p sample) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(sample)
	switch d {
	case 0:
		return p.lon - q.lon
	case 1:
		return p.lat - q.lat
	default:
		panic("resample: illegal dimension")
	}
}

func (p sample) Dims() int { return 2 }

// Distance returns the squared planar distance in degrees.
func (p sample) Distance(c kdtree.Comparable) float64 {
	q := c.(sample)
	dx := p.lon - q.lon
	dy := p.lat - q.lat
	return dx*dx + dy*dy
}

type samples []sample

func (p samples) Index(i int) kdtree.Comparable         { return p[i] }
func (p samples) Len() int                              { return len(p) }
func (p samples) Pivot(d kdtree.Dim) int                { return plane{Dim: d, samples: p}.Pivot() }
func (p samples) Slice(start, end int) kdtree.Interface { return p[start:end] }

type plane struct {
	kdtree.Dim
	samples
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.samples[i].lon < p.samples[j].lon
	case 1:
		return p.samples[i].lat < p.samples[j].lat
	default:
		panic("resample: illegal dimension")
	}
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.samples = p.samples[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.samples[i], p.samples[j] = p.samples[j], p.samples[i]
}

// validSamples returns the observations whose coordinates and value
// are all finite.
func validSamples(lon, lat, data *sparse.DenseArray) samples {
	var pts samples
	for i, v := range data.Elements {
		x, y := lon.Elements[i], lat.Elements[i]
		if finite(x) && finite(y) && finite(v) {
			pts = append(pts, sample{lon: x, lat: y, v: v})
		}
	}
	return pts
}

// spacing returns the largest distance from any sample to its
// nearest other sample. It is zero for fewer than two samples.
func spacing(tree *kdtree.Tree, pts samples) float64 {
	if len(pts) < 2 {
		return 0
	}
	var max2 float64
	for _, p := range pts {
		k := kdtree.NewNKeeper(2)
		tree.NearestSet(k, p)
		// The closest entry is the query itself.
		d2 := math.Inf(-1)
		for _, c := range k.Heap {
			if c.Comparable != nil && c.Dist > d2 {
				d2 = c.Dist
			}
		}
		if d2 > max2 {
			max2 = d2
		}
	}
	return math.Sqrt(max2)
}

// nearest assigns each cell the value of the closest valid sample,
// leaving cells farther than twice the swath sample spacing as NaN.
func nearest(lon, lat, data *sparse.DenseArray, g *Grid) *sparse.DenseArray {
	out := nanDense(g.Rows, g.Cols)
	pts := validSamples(lon, lat, data)
	if len(pts) == 0 {
		return out
	}
	tree := kdtree.New(append(samples{}, pts...), false)
	threshold := 2 * spacing(tree, pts)
	for i := 0; i < g.Rows; i++ {
		y := g.Lat(i)
		for j := 0; j < g.Cols; j++ {
			q := sample{lon: g.Lon(j), lat: y}
			c, d2 := tree.Nearest(q)
			if c == nil || math.Sqrt(d2) > threshold {
				continue
			}
			out.Elements[i*g.Cols+j] = c.(sample).v
		}
	}
	return out
}
