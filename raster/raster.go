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

// Package raster places color pixels on a map-projected raster of
// the same shape and fills interior holes left by the placement.
package raster

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/dhconnelly/rtreego"

	"github.com/BigShuiTai/FY3-Reader/composite"
)

// haloIterations is the number of 4-connected dilations applied to
// the placed-pixel mask when looking for holes.
const haloIterations = 2

// Result is the output of Project.
type Result struct {
	Image *composite.RGB

	// Filled is the number of hole pixels copied from their
	// nearest placed neighbor.
	Filled int
}

// Project places each pixel of img, located at lon and lat, into an
// image of the same shape according to its projected position, then
// fills empty pixels that lie within the dilated footprint of placed
// pixels from the nearest placed one.
func Project(lon, lat *sparse.DenseArray, img *composite.RGB, o Options) (*Result, error) {
	rows, cols := img.Rows, img.Cols
	if len(lon.Shape) != 2 || lon.Shape[0] != rows || lon.Shape[1] != cols ||
		len(lat.Shape) != 2 || lat.Shape[0] != rows || lat.Shape[1] != cols {
		return nil, fmt.Errorf("raster: coordinate shapes %v, %v do not match image %dx%d",
			lon.Shape, lat.Shape, rows, cols)
	}
	fwd, err := o.Forward()
	if err != nil {
		return nil, err
	}

	n := rows * cols
	xs := make([]float64, n)
	ys := make([]float64, n)
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for k := 0; k < n; k++ {
		x, y, err := fwd(lon.Elements[k], lat.Elements[k])
		if err != nil || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			xs[k], ys[k] = math.NaN(), math.NaN()
			continue
		}
		xs[k], ys[k] = x, y
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}

	out := composite.NewRGB(rows, cols)
	valid := make([]bool, n)
	for k := 0; k < n; k++ {
		if math.IsNaN(xs[k]) {
			continue
		}
		i := scale(ys[k], ymin, ymax, rows)
		j := scale(xs[k], xmin, xmax, cols)
		out.Set(i, j, img.At(k/cols, k%cols))
		valid[i*cols+j] = true
	}

	filled := fillHoles(out, valid)
	return &Result{Image: out, Filled: filled}, nil
}

// scale maps v in [lo, hi] onto an index in [0, n-1].
func scale(v, lo, hi float64, n int) int {
	if hi == lo {
		return 0
	}
	k := int(math.Floor((v-lo)/(hi-lo)*float64(n-1) + 1e-6))
	if k < 0 {
		return 0
	}
	if k > n-1 {
		return n - 1
	}
	return k
}

// halo returns the mask dilated haloIterations times with a
// 4-connected cross.
func halo(mask []bool, rows, cols int) []bool {
	cur := append([]bool{}, mask...)
	for it := 0; it < haloIterations; it++ {
		next := append([]bool{}, cur...)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if !cur[i*cols+j] {
					continue
				}
				if i > 0 {
					next[(i-1)*cols+j] = true
				}
				if i < rows-1 {
					next[(i+1)*cols+j] = true
				}
				if j > 0 {
					next[i*cols+j-1] = true
				}
				if j < cols-1 {
					next[i*cols+j+1] = true
				}
			}
		}
		cur = next
	}
	return cur
}

type placed struct {
	row, col int
	rect     rtreego.Rect
}

func (p *placed) Bounds() rtreego.Rect { return p.rect }

// fillHoles copies into every empty pixel inside the halo of the
// placed pixels the value of the nearest placed pixel. It returns the
// number of filled pixels.
func fillHoles(img *composite.RGB, valid []bool) int {
	rows, cols := img.Rows, img.Cols
	h := halo(valid, rows, cols)
	var holes []int
	for k, in := range h {
		if in && !valid[k] && img.Empty(k/cols, k%cols) {
			holes = append(holes, k)
		}
	}
	if len(holes) == 0 {
		return 0
	}
	const tol = 1e-3
	tree := rtreego.NewTree(2, 25, 50)
	for k, ok := range valid {
		if !ok {
			continue
		}
		i, j := k/cols, k%cols
		rect, err := rtreego.NewRect(rtreego.Point{float64(i) - tol, float64(j) - tol}, []float64{2 * tol, 2 * tol})
		if err != nil {
			continue
		}
		tree.Insert(&placed{row: i, col: j, rect: rect})
	}
	src := img.Copy()
	for _, k := range holes {
		nn := tree.NearestNeighbor(rtreego.Point{float64(k / cols), float64(k % cols)})
		if nn == nil {
			continue
		}
		p := nn.(*placed)
		img.Set(k/cols, k%cols, src.At(p.row, p.col))
	}
	return len(holes)
}
