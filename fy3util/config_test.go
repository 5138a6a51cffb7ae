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


package fy3util

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lnashier/viper"

	fy3reader "github.com/BigShuiTai/FY3-Reader"
	"github.com/BigShuiTai/FY3-Reader/resample"
)

func TestParseBox(t *testing.T) {
	b, err := ParseBox("10, 20.5,100,-170")
	if err != nil {
		t.Fatal(err)
	}
	want := fy3reader.Box{LatMin: 10, LatMax: 20.5, LonMin: 100, LonMax: -170}
	if b != want {
		t.Errorf("have %+v, want %+v", b, want)
	}
	for _, s := range []string{"", "1,2,3", "1,2,3,x", "1,2,3,4,5"} {
		if _, err := ParseBox(s); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
}

func TestToIntSliceE(t *testing.T) {
	tests := []struct {
		in   interface{}
		want []int
	}{
		{in: nil, want: nil},
		{in: "", want: nil},
		{in: "[]", want: nil},
		{in: "[6,8]", want: []int{6, 8}},
		{in: "6, 8", want: []int{6, 8}},
		{in: []int{3, 4}, want: []int{3, 4}},
		{in: []interface{}{int64(3), 4.0}, want: []int{3, 4}},
	}
	for _, test := range tests {
		have, err := toIntSliceE(test.in)
		if err != nil {
			t.Errorf("%#v: %v", test.in, err)
			continue
		}
		if !reflect.DeepEqual(have, test.want) {
			t.Errorf("%#v: have %v, want %v", test.in, have, test.want)
		}
	}
	if _, err := toIntSliceE("[6,x]"); err == nil {
		t.Error("expected an error")
	}
}

func writeRegions(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "regions.toml")
	const regions = `
[regions.west_pacific]
lat_min = 0.0
lat_max = 40.0
lon_min = 100.0
lon_max = 180.0

[regions.south_china_sea]
lat_min = 5.0
lat_max = 25.0
lon_min = 105.0
lon_max = 125.0
`
	if err := os.WriteFile(path, []byte(regions), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadRegions(t *testing.T) {
	r, err := ReadRegions(writeRegions(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 2 {
		t.Fatalf("have %d regions, want 2", len(r))
	}
	want := fy3reader.Box{LatMin: 5, LatMax: 25, LonMin: 105, LonMax: 125}
	if b := r["south_china_sea"].Box(); b != want {
		t.Errorf("have %+v, want %+v", b, want)
	}
	if _, err := ReadRegions(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCropBox(t *testing.T) {
	regions := writeRegions(t)
	tests := []struct {
		name     string
		settings map[string]interface{}
		want     *fy3reader.Box
		err      bool
	}{
		{name: "none"},
		{
			name:     "box",
			settings: map[string]interface{}{"box": "1,2,3,4", "region": "west_pacific", "regions": regions},
			want:     &fy3reader.Box{LatMin: 1, LatMax: 2, LonMin: 3, LonMax: 4},
		},
		{
			name:     "region",
			settings: map[string]interface{}{"region": "west_pacific", "regions": regions},
			want:     &fy3reader.Box{LatMin: 0, LatMax: 40, LonMin: 100, LonMax: 180},
		},
		{name: "unknown region", settings: map[string]interface{}{"region": "atlantic", "regions": regions}, err: true},
		{name: "no file", settings: map[string]interface{}{"region": "west_pacific"}, err: true},
		{name: "bad box", settings: map[string]interface{}{"box": "1,2"}, err: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := viper.New()
			for k, v := range test.settings {
				cfg.Set(k, v)
			}
			b, ok, err := cropBox(cfg)
			if test.err {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if ok != (test.want != nil) {
				t.Fatalf("ok = %v", ok)
			}
			if ok && b != *test.want {
				t.Errorf("have %+v, want %+v", b, *test.want)
			}
		})
	}
}

func TestNewProcessConfig(t *testing.T) {
	cfg := viper.New()
	cfg.Set("model", "FY3D_MWRI_L1")
	cfg.Set("dataset", "89_color")
	cfg.Set("resampler", "spline")
	cfg.Set("shape", "[6,8]")
	cfg.Set("central-meridian", 120.0)
	cfg.Set("box", "10,20,100,110")
	p, err := newProcessConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if p.method != resample.Linear {
		t.Errorf("method = %q", p.method)
	}
	if !reflect.DeepEqual(p.shape, []int{6, 8}) {
		t.Errorf("shape = %v", p.shape)
	}
	if p.projection.Projection != "eqc" || p.projection.CentralMeridian != 120 {
		t.Errorf("projection = %+v", p.projection)
	}
	if p.box == nil || p.box.LatMax != 20 {
		t.Errorf("box = %v", p.box)
	}

	for _, bad := range []map[string]interface{}{
		{"dataset": "89_color"},
		{"model": "FY3D_MWRI_L1"},
		{"model": "FY3D_MWRI_L1", "dataset": "89_color", "resampler": "cubic"},
		{"model": "FY3D_MWRI_L1", "dataset": "89_color", "resampler": "nearest", "shape": "[0,8]"},
		{"model": "FY3D_MWRI_L1", "dataset": "89_color", "resampler": "nearest", "shape": "[1,2,3]"},
	} {
		cfg := viper.New()
		for k, v := range bad {
			cfg.Set(k, v)
		}
		if _, err := newProcessConfig(cfg); err == nil {
			t.Errorf("%v: expected an error", bad)
		}
	}
}

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
