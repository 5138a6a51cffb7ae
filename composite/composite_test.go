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

package composite

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func filled(rows, cols int, v float64) *sparse.DenseArray {
	a := sparse.ZerosDense(rows, cols)
	for i := range a.Elements {
		a.Elements[i] = v
	}
	return a
}

func TestPCT(t *testing.T) {
	r, err := PCT89.Evaluate([]*sparse.DenseArray{filled(2, 3, 280), filled(2, 3, 200)})
	if err != nil {
		t.Fatal(err)
	}
	if r.Image != nil {
		t.Error("scalar product produced an image")
	}
	for i, v := range r.Field.Elements {
		if different(v, 336, 1e-12) {
			t.Errorf("89_pct[%d] = %g, want 336", i, v)
		}
	}

	r, err = PCT37.Evaluate([]*sparse.DenseArray{filled(1, 1, 250), filled(1, 1, 200)})
	if err != nil {
		t.Fatal(err)
	}
	if want := 2.15*250 - 1.15*200; different(r.Field.Elements[0], want, 1e-12) {
		t.Errorf("37_pct = %g, want %g", r.Field.Elements[0], want)
	}
}

func TestPCTPropagatesNaN(t *testing.T) {
	v := filled(1, 2, 280)
	v.Elements[1] = math.NaN()
	r, err := PCT89.Evaluate([]*sparse.DenseArray{v, filled(1, 2, 200)})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(r.Field.Elements[1]) {
		t.Errorf("got %g, want NaN", r.Field.Elements[1])
	}
}

func TestColor89(t *testing.T) {
	r, err := Color89.Evaluate([]*sparse.DenseArray{filled(2, 2, 300), filled(2, 2, 260)})
	if err != nil {
		t.Fatal(err)
	}
	if r.Image.Rows != 2 || r.Image.Cols != 2 {
		t.Fatalf("image shape %dx%d", r.Image.Rows, r.Image.Cols)
	}
	want := [3]uint8{0, 64, 209}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if px := r.Image.At(i, j); px != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", i, j, px, want)
			}
		}
	}
}

// 37_color places 37V in green and 37H in blue.
func TestColor37(t *testing.T) {
	r, err := Color37.Evaluate([]*sparse.DenseArray{filled(1, 2, 245), filled(1, 2, 225)})
	if err != nil {
		t.Fatal(err)
	}
	want := [3]uint8{153, 150, 128}
	for j := 0; j < 2; j++ {
		if px := r.Image.At(0, j); px != want {
			t.Errorf("pixel (0,%d) = %v, want %v", j, px, want)
		}
	}
}

func TestHydrometeor(t *testing.T) {
	r, err := Hydrometeor.Evaluate([]*sparse.DenseArray{
		filled(1, 1, 280), filled(1, 1, 250), filled(1, 1, 270), filled(1, 1, 240),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := [3]uint8{0, 137, 39}
	if px := r.Image.At(0, 0); px != want {
		t.Errorf("pixel = %v, want %v", px, want)
	}
}

func TestColor89MWHS(t *testing.T) {
	r, err := Color89MWHS.Evaluate([]*sparse.DenseArray{filled(1, 1, 305), filled(1, 1, 245)})
	if err != nil {
		t.Fatal(err)
	}
	if px := r.Image.At(0, 0); px != [3]uint8{0, 0, 0} {
		t.Errorf("pixel = %v", px)
	}
}

func TestGray(t *testing.T) {
	tests := []struct {
		g    Gray
		v    float64
		want uint8
	}{
		{Gray{Min: 0, Max: 1}, 0, 0},
		{Gray{Min: 0, Max: 1}, 1, 255},
		{Gray{Min: 0, Max: 1}, 2, 255},
		{Gray{Min: 0, Max: 1}, -1, 0},
		{Gray{Min: 0, Max: 1}, 0.5, 128},
		{Gray{Min: 0, Max: 1, Inverted: true}, 0, 255},
		{Gray{Min: 0, Max: 1, Inverted: true}, 1, 0},
		{Gray{Min: 0, Max: 1}, math.NaN(), 0},
		{Gray{Min: 0, Max: 1, Inverted: true}, math.NaN(), 0},
		{Gray{Min: 0, Max: 1}, math.Inf(1), 255},
	}
	for _, test := range tests {
		if got := test.g.Code(test.v); got != test.want {
			t.Errorf("%+v.Code(%g) = %d, want %d", test.g, test.v, got, test.want)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	if _, err := PCT89.Evaluate([]*sparse.DenseArray{filled(1, 1, 1)}); err == nil {
		t.Error("wrong input count should fail")
	}
	if _, err := PCT89.Evaluate([]*sparse.DenseArray{filled(1, 2, 1), filled(2, 1, 1)}); err == nil {
		t.Error("shape mismatch should fail")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		p, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		if p.Name != name {
			t.Errorf("%s: got %s", name, p.Name)
		}
	}
	if _, err := Lookup("10_color"); err == nil {
		t.Error("unknown product should fail")
	}
}

func TestRGBWindowAndImage(t *testing.T) {
	m := NewRGB(3, 3)
	m.Set(1, 2, [3]uint8{1, 2, 3})
	w := m.Window(1, 2, 1, 2)
	if w.Rows != 2 || w.Cols != 2 || w.At(0, 1) != [3]uint8{1, 2, 3} {
		t.Errorf("window: %+v", w)
	}
	if !m.Empty(0, 0) || m.Empty(1, 2) {
		t.Error("Empty")
	}
	img := m.Image()
	if c := img.NRGBAAt(2, 1); c.R != 1 || c.G != 2 || c.B != 3 || c.A != 255 {
		t.Errorf("image pixel: %+v", c)
	}
}
