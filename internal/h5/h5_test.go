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

package h5

import (
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestFlatten(t *testing.T) {
	data, shape, err := flatten([][][]int16{
		{{1, 2}, {3, 4}, {5, 6}},
		{{7, 8}, {9, 10}, {11, 12}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(shape, []int{2, 3, 2}) {
		t.Errorf("shape: %v", shape)
	}
	if len(data) != 12 || data[0] != 1 || data[5] != 6 || data[11] != 12 {
		t.Errorf("data: %v", data)
	}

	data, shape, err = flatten(float32(2.5))
	if err != nil {
		t.Fatal(err)
	}
	if len(shape) != 0 || len(data) != 1 || data[0] != 2.5 {
		t.Errorf("scalar: %v %v", data, shape)
	}

	if _, _, err = flatten([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("ragged array should fail")
	}
	if _, _, err = flatten([]string{"a"}); err == nil {
		t.Error("string array should fail")
	}
}

func TestMemLookup(t *testing.T) {
	m := NewMem()
	m.SetAttr("Satellite Name", "FY-3D")
	m.Put("Geolocation/Latitude", []int{2, 2}, []float64{1, 2, 3, 4}, Attributes{"units": "degree"})

	ds, err := Lookup(m, "/Geolocation/Latitude")
	if err != nil {
		t.Fatal(err)
	}
	if ds.Rank() != 2 || ds.Data[3] != 4 {
		t.Errorf("dataset: %+v", ds)
	}
	if u, ok := ds.Attrs.String("units"); !ok || u != "degree" {
		t.Errorf("units: %q", u)
	}
	ds.Data[0] = 100
	again, _ := Lookup(m, "Geolocation/Latitude")
	if again.Data[0] != 1 {
		t.Error("Dataset must return a copy")
	}

	if _, err := Lookup(m, "Geolocation/Longitude"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing dataset: %v", err)
	}
	if _, err := Descend(m, "Calibration"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing group: %v", err)
	}
	g, err := Descend(m, "Geolocation")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(g.Datasets(), []string{"Latitude"}) {
		t.Errorf("datasets: %v", g.Datasets())
	}
	if s, _ := m.Attrs().String("Satellite Name"); s != "FY-3D" {
		t.Errorf("satellite: %q", s)
	}
}

func TestDecodeText(t *testing.T) {
	if s := DecodeText([]byte("FY-3D")); s != "FY-3D" {
		t.Errorf("ascii: %q", s)
	}
	if s := DecodeText([]byte{0xB7, 0xE7, 0xD4, 0xC6}); s != "风云" {
		t.Errorf("gbk: %q", s)
	}
}

func TestFileIsGroup(t *testing.T) {
	var f interface{} = &File{}
	if _, ok := f.(Group); !ok {
		t.Error("*File does not implement Group")
	}
	if _, ok := f.(io.Closer); !ok {
		t.Error("*File does not implement io.Closer")
	}
}

// attrMap is an ordered in-memory attribute map.
type attrMap struct {
	keys []string
	vals map[string]interface{}
}

func (m attrMap) Keys() []string { return m.keys }

func (m attrMap) Get(key string) (interface{}, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m attrMap) GetType(key string) (string, bool) { return "", false }
func (m attrMap) GetGoType(key string) (string, bool) { return "", false }

func TestConvertAttributesShape(t *testing.T) {
	a := convertAttributes(attrMap{
		keys: []string{"Slope", "Intercept", "Offset", "units"},
		vals: map[string]interface{}{
			"Slope":     [][]float32{{1, 2}, {3, 4}},
			"Intercept": []float32{5, 6, 7, 8},
			"Offset":    float64(9),
			"units":     "K",
		},
	})
	cases := []struct {
		key   string
		shape []int
		data  []float64
	}{
		{"Slope", []int{2, 2}, []float64{1, 2, 3, 4}},
		{"Intercept", []int{4}, []float64{5, 6, 7, 8}},
		{"Offset", []int{1}, []float64{9}},
	}
	for _, c := range cases {
		shape, ok := a.Shape(c.key)
		if !ok || !reflect.DeepEqual(shape, c.shape) {
			t.Errorf("%s shape = %v, want %v", c.key, shape, c.shape)
		}
		data, ok := a.Floats(c.key)
		if !ok || !reflect.DeepEqual(data, c.data) {
			t.Errorf("%s data = %v, want %v", c.key, data, c.data)
		}
	}
	if _, ok := a.Shape("units"); ok {
		t.Error("string attribute has a shape")
	}
}

func TestMemArrayAttribute(t *testing.T) {
	m := NewMem()
	m.SetAttr("Slope", Array{Shape: []int{1, 3}, Data: []float64{1, 2, 3}})
	shape, ok := m.Attrs().Shape("Slope")
	if !ok || !reflect.DeepEqual(shape, []int{1, 3}) {
		t.Errorf("shape = %v", shape)
	}
	if f, _ := m.Attrs().Floats("Slope"); len(f) != 3 || f[2] != 3 {
		t.Errorf("data = %v", f)
	}
}
