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

package raster

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"

	"github.com/BigShuiTai/FY3-Reader/composite"
)

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func regular(rows, cols int, lon0, lat0, step float64) (lon, lat *sparse.DenseArray) {
	lon = sparse.ZerosDense(rows, cols)
	lat = sparse.ZerosDense(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			lon.Set(lon0+float64(j)*step, i, j)
			lat.Set(lat0+float64(i)*step, i, j)
		}
	}
	return
}

func TestProjectIdentity(t *testing.T) {
	lon, lat := regular(2, 2, 120, 20, 0.5)
	img := composite.NewRGB(2, 2)
	img.Set(0, 0, [3]uint8{1, 2, 3})
	img.Set(0, 1, [3]uint8{4, 5, 6})
	img.Set(1, 0, [3]uint8{7, 8, 9})
	img.Set(1, 1, [3]uint8{10, 11, 12})
	r, err := Project(lon, lat, img, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if r.Filled != 0 {
		t.Errorf("filled %d pixels, want 0", r.Filled)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if r.Image.At(i, j) != img.At(i, j) {
				t.Errorf("(%d,%d) = %v, want %v", i, j, r.Image.At(i, j), img.At(i, j))
			}
		}
	}
}

func TestProjectRegularGridNoFill(t *testing.T) {
	lon, lat := regular(20, 30, 100, 10, 0.25)
	img := composite.NewRGB(20, 30)
	for k := range img.Pix {
		img.Pix[k] = 100
	}
	r, err := Project(lon, lat, img, Options{Projection: "eqc", CentralMeridian: 105})
	if err != nil {
		t.Fatal(err)
	}
	if r.Filled != 0 {
		t.Errorf("filled %d pixels, want 0", r.Filled)
	}
}

func TestProjectFillsHole(t *testing.T) {
	lon, lat := regular(3, 3, 0, 0, 1)
	img := composite.NewRGB(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			img.Set(i, j, [3]uint8{50, 50, 50})
		}
	}
	img.Set(1, 1, [3]uint8{200, 0, 0})
	// Move the center sample onto the corner so its own pixel stays empty.
	lon.Elements[4], lat.Elements[4] = 0, 0

	r, err := Project(lon, lat, img, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if r.Filled != 1 {
		t.Errorf("filled %d pixels, want 1", r.Filled)
	}
	if px := r.Image.At(0, 0); px != [3]uint8{200, 0, 0} {
		t.Errorf("corner = %v, the last write should win", px)
	}
	if px := r.Image.At(1, 1); px != [3]uint8{50, 50, 50} {
		t.Errorf("hole = %v, want neighbor value", px)
	}
}

func TestProjectSkipsInvalidCoordinates(t *testing.T) {
	lon, lat := regular(2, 2, 0, 0, 1)
	lon.Set(math.NaN(), 1, 1)
	img := composite.NewRGB(2, 2)
	for k := range img.Pix {
		img.Pix[k] = 9
	}
	r, err := Project(lon, lat, img, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// The remaining pixel lies inside the halo and is filled.
	if r.Filled != 1 {
		t.Errorf("filled %d, want 1", r.Filled)
	}
	if px := r.Image.At(1, 1); px != [3]uint8{9, 9, 9} {
		t.Errorf("filled pixel = %v", px)
	}
}

func TestProjectShapeMismatch(t *testing.T) {
	lon, lat := regular(2, 3, 0, 0, 1)
	if _, err := Project(lon, lat, composite.NewRGB(3, 2), DefaultOptions()); err == nil {
		t.Error("shape mismatch should fail")
	}
}

func TestForward(t *testing.T) {
	fwd, err := Options{CentralMeridian: 120}.Forward()
	if err != nil {
		t.Fatal(err)
	}
	x, y, err := fwd(120, 0)
	if err != nil {
		t.Fatal(err)
	}
	if x != 0 || y != 0 {
		t.Errorf("origin = (%g, %g)", x, y)
	}
	x, _, _ = fwd(121, 0)
	if want := 6378137 * math.Pi / 180; different(x, want, 1e-9) {
		t.Errorf("one degree = %g m, want %g", x, want)
	}
	// Longitudes wrap around the central meridian.
	x, _, _ = fwd(-179, 0)
	if want := 61 * 6378137 * math.Pi / 180; different(x, want, 1e-9) {
		t.Errorf("-179 = %g m, want %g", x, want)
	}

	if _, err := (Options{Projection: "merc"}).Forward(); err != nil {
		t.Errorf("merc: %v", err)
	}
	if _, err := (Options{Projection: "nonsense"}).Forward(); err == nil {
		t.Error("unknown projection should fail")
	}
}

func TestRectilinear(t *testing.T) {
	for name, want := range map[string]bool{
		"": true, "eqc": true, "LongLat": true, "latlong": true,
		"merc": false, "stere": false,
	} {
		if got := (Options{Projection: name}).Rectilinear(); got != want {
			t.Errorf("%q: got %v, want %v", name, got, want)
		}
	}
}
