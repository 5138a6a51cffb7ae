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
)

const baryEps = 1e-9

// vertex is a swath sample in a triangle, with its sensor row and column.
type vertex struct {
	x, y     float64
	row, col int
}

// triangles calls fn for every triangle of the sensor grid whose three
// vertices satisfy ok. Each quad of adjacent samples is split into two
// triangles along the same diagonal.
func triangles(lon, lat *sparse.DenseArray, ok func(k int) bool, fn func(t [3]vertex)) {
	rows, cols := lon.Shape[0], lon.Shape[1]
	v := func(i, j int) vertex {
		k := i*cols + j
		return vertex{x: lon.Elements[k], y: lat.Elements[k], row: i, col: j}
	}
	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			a, b, c, d := i*cols+j, (i+1)*cols+j, i*cols+j+1, (i+1)*cols+j+1
			if ok(a) && ok(b) && ok(c) {
				fn([3]vertex{v(i, j), v(i+1, j), v(i, j+1)})
			}
			if ok(b) && ok(d) && ok(c) {
				fn([3]vertex{v(i+1, j), v(i+1, j+1), v(i, j+1)})
			}
		}
	}
}

// cellRange returns the inclusive index range of grid nodes
// start+k*step that fall within [lo, hi].
func cellRange(lo, hi, start, step float64, n int) (int, int) {
	if step == 0 {
		if start >= lo-baryEps && start <= hi+baryEps {
			return 0, 0
		}
		return 1, 0
	}
	k0 := int(math.Ceil((lo-start)/step - baryEps))
	k1 := int(math.Floor((hi-start)/step + baryEps))
	if k0 < 0 {
		k0 = 0
	}
	if k1 > n-1 {
		k1 = n - 1
	}
	return k0, k1
}

// rasterize calls fn with the barycentric weights of every grid node
// inside triangle t. Degenerate triangles are skipped.
func rasterize(t [3]vertex, g *Grid, fn func(i, j int, w [3]float64)) {
	x0, y0 := t[0].x, t[0].y
	x1, y1 := t[1].x, t[1].y
	x2, y2 := t[2].x, t[2].y
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det == 0 || math.IsNaN(det) {
		return
	}
	dx, dy := g.step()
	j0, j1 := cellRange(math.Min(x0, math.Min(x1, x2)), math.Max(x0, math.Max(x1, x2)),
		g.Bounds.Min.X, dx, g.Cols)
	i0, i1 := cellRange(math.Min(y0, math.Min(y1, y2)), math.Max(y0, math.Max(y1, y2)),
		g.Bounds.Min.Y, dy, g.Rows)
	for i := i0; i <= i1; i++ {
		py := g.Lat(i)
		for j := j0; j <= j1; j++ {
			px := g.Lon(j)
			w0 := ((y1-y2)*(px-x2) + (x2-x1)*(py-y2)) / det
			w1 := ((y2-y0)*(px-x2) + (x0-x2)*(py-y2)) / det
			w2 := 1 - w0 - w1
			if w0 < -baryEps || w1 < -baryEps || w2 < -baryEps {
				continue
			}
			fn(i, j, [3]float64{w0, w1, w2})
		}
	}
}
