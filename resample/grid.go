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
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// Grid is a regular longitude-latitude grid. Columns run west to east
// and rows run south to north, so row 0 holds the minimum latitude.
type Grid struct {
	Rows, Cols int
	Bounds     *geom.Bounds
}

// Extent returns the bounding box of the finite coordinate pairs in
// lon and lat, and the number of such pairs.
func Extent(lon, lat *sparse.DenseArray) (*geom.Bounds, int) {
	b := geom.NewBounds()
	n := 0
	for i, x := range lon.Elements {
		y := lat.Elements[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		b.Extend(geom.NewBoundsPoint(geom.Point{X: x, Y: y}))
		n++
	}
	return b, n
}

// NewGrid returns a rows x cols grid spanning the extent of the finite
// coordinates in lon and lat.
func NewGrid(lon, lat *sparse.DenseArray, rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("resample: invalid target shape %dx%d", rows, cols)
	}
	if !sameShape(lon.Shape, lat.Shape) {
		return nil, fmt.Errorf("resample: longitude shape %v != latitude shape %v", lon.Shape, lat.Shape)
	}
	b, n := Extent(lon, lat)
	if n == 0 {
		return nil, fmt.Errorf("resample: no valid geolocation")
	}
	return &Grid{Rows: rows, Cols: cols, Bounds: b}, nil
}

func linspace(start, stop float64, n, i int) float64 {
	if n == 1 {
		return start
	}
	if i == n-1 {
		return stop
	}
	return start + float64(i)*(stop-start)/float64(n-1)
}

// Lon returns the longitude of column j.
func (g *Grid) Lon(j int) float64 { return linspace(g.Bounds.Min.X, g.Bounds.Max.X, g.Cols, j) }

// Lat returns the latitude of row i.
func (g *Grid) Lat(i int) float64 { return linspace(g.Bounds.Min.Y, g.Bounds.Max.Y, g.Rows, i) }

// step returns the column and row spacing.
func (g *Grid) step() (dx, dy float64) {
	if g.Cols > 1 {
		dx = (g.Bounds.Max.X - g.Bounds.Min.X) / float64(g.Cols-1)
	}
	if g.Rows > 1 {
		dy = (g.Bounds.Max.Y - g.Bounds.Min.Y) / float64(g.Rows-1)
	}
	return
}

// LonLats returns the 2-D longitude and latitude arrays of g.
func (g *Grid) LonLats() (lon, lat *sparse.DenseArray) {
	lon = sparse.ZerosDense(g.Rows, g.Cols)
	lat = sparse.ZerosDense(g.Rows, g.Cols)
	for i := 0; i < g.Rows; i++ {
		y := g.Lat(i)
		for j := 0; j < g.Cols; j++ {
			lon.Elements[i*g.Cols+j] = g.Lon(j)
			lat.Elements[i*g.Cols+j] = y
		}
	}
	return lon, lat
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func nanDense(rows, cols int) *sparse.DenseArray {
	a := sparse.ZerosDense(rows, cols)
	for i := range a.Elements {
		a.Elements[i] = math.NaN()
	}
	return a
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
