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

// Package resample interpolates scattered swath samples onto regular
// longitude-latitude grids.
package resample

import (
	"fmt"
	"strings"

	"github.com/ctessum/sparse"
)

// Method is an interpolation strategy.
type Method string

// Interpolation strategies.
const (
	Nearest Method = "nearest"
	Linear  Method = "linear"
	Bicubic Method = "bicubic"
)

// ParseMethod parses an interpolation strategy name. "spline" is
// accepted as an alias for linear.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return Nearest, nil
	case "linear", "spline":
		return Linear, nil
	case "bicubic":
		return Bicubic, nil
	}
	return "", fmt.Errorf("resample: unknown method %q", s)
}

// Valid reports whether m is a supported strategy.
func (m Method) Valid() bool {
	switch m {
	case Nearest, Linear, Bicubic:
		return true
	}
	return false
}

// Regrid interpolates data, located at the swath coordinates lon and
// lat, onto g. All three inputs must share one 2-D shape. Cells the
// method cannot fill are NaN.
func Regrid(m Method, lon, lat, data *sparse.DenseArray, g *Grid) (*sparse.DenseArray, error) {
	if len(data.Shape) != 2 {
		return nil, fmt.Errorf("resample: data must be 2-D, got shape %v", data.Shape)
	}
	if !sameShape(lon.Shape, data.Shape) || !sameShape(lat.Shape, data.Shape) {
		return nil, fmt.Errorf("resample: coordinate shapes %v, %v do not match data shape %v",
			lon.Shape, lat.Shape, data.Shape)
	}
	switch m {
	case Nearest:
		return nearest(lon, lat, data, g), nil
	case Linear:
		return linear(lon, lat, data, g), nil
	case Bicubic:
		return bicubic(lon, lat, data, g), nil
	}
	return nil, fmt.Errorf("resample: unknown method %q", string(m))
}
