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

import "github.com/ctessum/sparse"

// linear interpolates barycentrically within the triangles of valid
// samples. Cells outside every triangle are NaN. Where triangles
// overlap the first one written wins.
func linear(lon, lat, data *sparse.DenseArray, g *Grid) *sparse.DenseArray {
	out := nanDense(g.Rows, g.Cols)
	written := make([]bool, g.Rows*g.Cols)
	ok := func(k int) bool {
		return finite(lon.Elements[k]) && finite(lat.Elements[k]) && finite(data.Elements[k])
	}
	cols := data.Shape[1]
	triangles(lon, lat, ok, func(t [3]vertex) {
		var v [3]float64
		for n, p := range t {
			v[n] = data.Elements[p.row*cols+p.col]
		}
		rasterize(t, g, func(i, j int, w [3]float64) {
			k := i*g.Cols + j
			if written[k] {
				return
			}
			written[k] = true
			out.Elements[k] = w[0]*v[0] + w[1]*v[1] + w[2]*v[2]
		})
	})
	return out
}
