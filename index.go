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

package fy3reader

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/golang/groupcache/lru"
)

// Box is a geographic bounding box in degrees.
type Box struct {
	LatMin, LatMax, LonMin, LonMax float64
}

func (b Box) valid() bool {
	for _, v := range []float64{b.LatMin, b.LatMax, b.LonMin, b.LonMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.LatMin <= b.LatMax && b.LonMin <= b.LonMax
}

// boxMargin widens the requested box when selecting pixels.
const boxMargin = 0.5

// indexCacheSize is the number of pixel windows remembered per grid.
const indexCacheSize = 2

// Window is an inclusive range of swath rows and columns.
type Window struct {
	Row0, Row1, Col0, Col1 int
}

// Rows returns the number of rows in w.
func (w Window) Rows() int { return w.Row1 - w.Row0 + 1 }

// Cols returns the number of columns in w.
func (w Window) Cols() int { return w.Col1 - w.Col0 + 1 }

// geoIndex maps bounding boxes to pixel windows of one geolocation
// grid. A new index must be built whenever the grid changes.
type geoIndex struct {
	lon, lat *sparse.DenseArray
	cache    *lru.Cache
}

func newGeoIndex(lon, lat *sparse.DenseArray) *geoIndex {
	return &geoIndex{lon: lon, lat: lat, cache: lru.New(indexCacheSize)}
}

// window returns the smallest window containing every pixel strictly
// inside b widened by boxMargin.
func (x *geoIndex) window(b Box) (Window, error) {
	if v, ok := x.cache.Get(b); ok {
		return v.(Window), nil
	}
	cols := x.lon.Shape[1]
	w := Window{Row0: math.MaxInt32, Row1: -1, Col0: math.MaxInt32, Col1: -1}
	for k, lon := range x.lon.Elements {
		lat := x.lat.Elements[k]
		if !(lat > b.LatMin-boxMargin && lat < b.LatMax+boxMargin &&
			lon > b.LonMin-boxMargin && lon < b.LonMax+boxMargin) {
			continue
		}
		i, j := k/cols, k%cols
		if i < w.Row0 {
			w.Row0 = i
		}
		if i > w.Row1 {
			w.Row1 = i
		}
		if j < w.Col0 {
			w.Col0 = j
		}
		if j > w.Col1 {
			w.Col1 = j
		}
	}
	if w.Row1 < 0 {
		return Window{}, fmt.Errorf("no pixels inside %+v", b)
	}
	x.cache.Add(b, w)
	return w, nil
}

// subset copies the window w of the 2-D array a.
func subset(a *sparse.DenseArray, w Window) *sparse.DenseArray {
	cols := a.Shape[1]
	out := sparse.ZerosDense(w.Rows(), w.Cols())
	for i := w.Row0; i <= w.Row1; i++ {
		copy(out.Elements[(i-w.Row0)*out.Shape[1]:(i-w.Row0+1)*out.Shape[1]],
			a.Elements[i*cols+w.Col0:i*cols+w.Col1+1])
	}
	return out
}
