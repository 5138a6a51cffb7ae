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

// cubicA is the free parameter of the cubic convolution kernel.
const cubicA = -0.5

func cubicWeight(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x <= 1:
		return (cubicA+2)*x*x*x - (cubicA+3)*x*x + 1
	case x < 2:
		return cubicA*x*x*x - 5*cubicA*x*x + 8*cubicA*x - 4*cubicA
	}
	return 0
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// bicubic maps every grid node to fractional sensor coordinates by
// linear interpolation over the triangulated swath geolocation, then
// samples data there with a 4x4 cubic convolution kernel.
func bicubic(lon, lat, data *sparse.DenseArray, g *Grid) *sparse.DenseArray {
	n := g.Rows * g.Cols
	rowIdx := make([]float64, n)
	colIdx := make([]float64, n)
	written := make([]bool, n)
	ok := func(k int) bool {
		return finite(lon.Elements[k]) && finite(lat.Elements[k])
	}
	triangles(lon, lat, ok, func(t [3]vertex) {
		rasterize(t, g, func(i, j int, w [3]float64) {
			k := i*g.Cols + j
			if written[k] {
				return
			}
			written[k] = true
			rowIdx[k] = w[0]*float64(t[0].row) + w[1]*float64(t[1].row) + w[2]*float64(t[2].row)
			colIdx[k] = w[0]*float64(t[0].col) + w[1]*float64(t[1].col) + w[2]*float64(t[2].col)
		})
	})
	out := nanDense(g.Rows, g.Cols)
	rows, cols := data.Shape[0], data.Shape[1]
	for k := range out.Elements {
		if written[k] {
			out.Elements[k] = cubicSample(data.Elements, rows, cols, rowIdx[k], colIdx[k])
		}
	}
	return out
}

// cubicSample evaluates the cubic convolution of data at fractional
// position (r, c), replicating edge samples. If any of the 16 taps is
// NaN it falls back to bilinear interpolation of the valid samples
// among the 4 nearest.
func cubicSample(data []float64, rows, cols int, r, c float64) float64 {
	r0, c0 := int(math.Floor(r)), int(math.Floor(c))
	var sum float64
	for m := -1; m <= 2; m++ {
		wr := cubicWeight(r - float64(r0+m))
		rr := clamp(r0+m, 0, rows-1)
		for n := -1; n <= 2; n++ {
			v := data[rr*cols+clamp(c0+n, 0, cols-1)]
			if math.IsNaN(v) {
				return bilinearSample(data, rows, cols, r, c)
			}
			sum += wr * cubicWeight(c-float64(c0+n)) * v
		}
	}
	return sum
}

func bilinearSample(data []float64, rows, cols int, r, c float64) float64 {
	r0, c0 := int(math.Floor(r)), int(math.Floor(c))
	fr, fc := r-float64(r0), c-float64(c0)
	var sum, wsum float64
	for m := 0; m <= 1; m++ {
		wr := 1 - fr
		if m == 1 {
			wr = fr
		}
		rr := clamp(r0+m, 0, rows-1)
		for n := 0; n <= 1; n++ {
			wc := 1 - fc
			if n == 1 {
				wc = fc
			}
			v := data[rr*cols+clamp(c0+n, 0, cols-1)]
			if math.IsNaN(v) || wr*wc == 0 {
				continue
			}
			sum += wr * wc * v
			wsum += wr * wc
		}
	}
	if wsum == 0 {
		return math.NaN()
	}
	return sum / wsum
}
