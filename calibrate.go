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

	"github.com/BigShuiTai/FY3-Reader/internal/h5"
)

// CalibrateBT converts a raw count to brightness temperature. A slope
// of exactly zero is treated as one.
func CalibrateBT(x, intercept, slope float64) float64 {
	if slope == 0 {
		slope = 1
	}
	return x*slope + intercept
}

// coefficients selects a calibration coefficient for each pixel of
// one channel. c may hold a single value, one value per channel, one
// value per pixel, or one value per pixel of every channel laid out
// like the cube. An attribute of rank 2 or more is never read as
// per-channel, whatever its length.
type coefficients struct {
	c           []float64
	shape       []int
	channel     int
	nchan       int
	npix        int
	channelLast bool
}

func (k coefficients) at(pixel int) (float64, error) {
	n := len(k.c)
	switch {
	case n == 1:
		return k.c[0], nil
	case len(k.shape) <= 1 && n == k.nchan:
		return k.c[k.channel], nil
	case n == k.npix:
		return k.c[pixel], nil
	case len(k.shape) > 1 && n == k.nchan*k.npix:
		if k.channelLast {
			return k.c[pixel*k.nchan+k.channel], nil
		}
		return k.c[k.channel*k.npix+pixel], nil
	}
	return 0, fmt.Errorf("calibration coefficients of shape %v for %d channels of %d pixels", k.shape, k.nchan, k.npix)
}

// extractChannel returns channel ch of a [channel, row, col] or
// [row, col, channel] cube as a calibrated 2-D field. Values equal to
// the cube's fill value become NaN.
func extractChannel(cube *h5.Dataset, ch int, channelLast bool) (*sparse.DenseArray, error) {
	if cube.Rank() != 3 {
		return nil, fmt.Errorf("cube %s has rank %d, want 3", cube.Name, cube.Rank())
	}
	var rows, cols, nchan int
	if channelLast {
		rows, cols, nchan = cube.Shape[0], cube.Shape[1], cube.Shape[2]
	} else {
		nchan, rows, cols = cube.Shape[0], cube.Shape[1], cube.Shape[2]
	}
	if ch < 0 || ch >= nchan {
		return nil, fmt.Errorf("cube %s has %d channels, want index %d", cube.Name, nchan, ch)
	}
	intercept, ok := cube.Attrs.Floats("Intercept")
	if !ok || len(intercept) == 0 {
		intercept = []float64{0}
	}
	slope, ok := cube.Attrs.Floats("Slope")
	if !ok || len(slope) == 0 {
		slope = []float64{1}
	}
	fill, hasFill := fillValue(cube.Attrs)
	npix := rows * cols
	ki := coefficients{c: intercept, channel: ch, nchan: nchan, npix: npix, channelLast: channelLast}
	ks := ki
	ki.shape, _ = cube.Attrs.Shape("Intercept")
	ks.c = slope
	ks.shape, _ = cube.Attrs.Shape("Slope")

	out := sparse.ZerosDense(rows, cols)
	for p := 0; p < npix; p++ {
		var raw float64
		if channelLast {
			raw = cube.Data[p*nchan+ch]
		} else {
			raw = cube.Data[ch*npix+p]
		}
		if hasFill && raw == fill {
			out.Elements[p] = math.NaN()
			continue
		}
		a, err := ki.at(p)
		if err != nil {
			return nil, fmt.Errorf("intercept: %v", err)
		}
		b, err := ks.at(p)
		if err != nil {
			return nil, fmt.Errorf("slope: %v", err)
		}
		out.Elements[p] = CalibrateBT(raw, a, b)
	}
	return out, nil
}

func fillValue(a h5.Attributes) (float64, bool) {
	for _, key := range []string{"FillValue", "_FillValue"} {
		if v, ok := a.Floats(key); ok && len(v) > 0 {
			return v[0], true
		}
	}
	return 0, false
}

// maskSentinel replaces values equal to the sentinel, compared at
// single precision, with NaN.
func maskSentinel(a *sparse.DenseArray, sentinel float64) {
	s := float32(sentinel)
	for i, v := range a.Elements {
		if float32(v) == s {
			a.Elements[i] = math.NaN()
		}
	}
}

// maskCoordinates replaces latitudes outside [-90, 90] and longitudes
// outside [-180, 180] with NaN in both arrays.
func maskCoordinates(lon, lat *sparse.DenseArray) {
	for i := range lon.Elements {
		x, y := lon.Elements[i], lat.Elements[i]
		if !(x >= -180 && x <= 180) || !(y >= -90 && y <= 90) {
			lon.Elements[i] = math.NaN()
			lat.Elements[i] = math.NaN()
		}
	}
}
