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
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"golang.org/x/text/encoding/simplifiedchinese"
)

var _ Group = (*File)(nil)

// File is an open container on disk.
type File struct {
	cdfGroup
	root api.Group
}

// Open opens the HDF5 or NetCDF file at path.
func Open(path string) (*File, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("h5: opening %s: %v", path, err)
	}
	return &File{cdfGroup: cdfGroup{g: g}, root: g}, nil
}

// Close releases the file handle.
func (f *File) Close() error {
	f.root.Close()
	return nil
}

type cdfGroup struct {
	g api.Group
}

func (c cdfGroup) Attrs() Attributes {
	return convertAttributes(c.g.Attributes())
}

func (c cdfGroup) Group(path string) (Group, error) {
	cur := c.g
	for _, name := range splitPath(path) {
		found := false
		for _, sub := range cur.ListSubgroups() {
			if sub == name {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrNotFound
		}
		next, err := cur.GetGroup(name)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cdfGroup{g: cur}, nil
}

func (c cdfGroup) Dataset(path string) (*Dataset, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, ErrNotFound
	}
	parent := Group(c)
	if len(parts) > 1 {
		var err error
		parent, err = c.Group(strings.Join(parts[:len(parts)-1], "/"))
		if err != nil {
			return nil, err
		}
	}
	g := parent.(cdfGroup).g
	name := parts[len(parts)-1]
	found := false
	for _, v := range g.ListVariables() {
		if v == name {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, err
	}
	data, shape, err := flatten(v.Values)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return &Dataset{
		Name:  name,
		Shape: shape,
		Data:  data,
		Attrs: convertAttributes(v.Attributes),
	}, nil
}

func (c cdfGroup) Datasets() []string {
	return c.g.ListVariables()
}

func convertAttributes(m api.AttributeMap) Attributes {
	a := make(Attributes)
	if m == nil {
		return a
	}
	for _, k := range m.Keys() {
		v, ok := m.Get(k)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			a[k] = DecodeText([]byte(t))
		case []string:
			if len(t) > 0 {
				a[k] = DecodeText([]byte(t[0]))
			}
		default:
			f, shape, err := flatten(v)
			if err != nil {
				continue
			}
			if len(shape) > 1 {
				a[k] = Array{Shape: shape, Data: f}
				continue
			}
			a[k] = f
		}
	}
	return a
}

// DecodeText converts attribute bytes to a UTF-8 string. Producer
// metadata is sometimes written in GBK.
func DecodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	s, err := simplifiedchinese.GBK.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// flatten converts nested slices of numbers into a row-major
// []float64 and its shape. Scalars have an empty shape.
func flatten(v interface{}) ([]float64, []int, error) {
	rv := reflect.ValueOf(v)
	var shape []int
	for t := rv; t.Kind() == reflect.Slice || t.Kind() == reflect.Array; {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
		t = t.Index(0)
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	out := make([]float64, 0, n)
	var walk func(x reflect.Value) error
	walk = func(x reflect.Value) error {
		switch x.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < x.Len(); i++ {
				if err := walk(x.Index(i)); err != nil {
					return err
				}
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out = append(out, float64(x.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out = append(out, float64(x.Uint()))
		case reflect.Float32, reflect.Float64:
			out = append(out, x.Float())
		case reflect.Interface:
			return walk(x.Elem())
		default:
			return fmt.Errorf("h5: unsupported element type %s", x.Type())
		}
		return nil
	}
	if err := walk(rv); err != nil {
		return nil, nil, err
	}
	if len(out) != n {
		return nil, nil, fmt.Errorf("h5: ragged array: %d values for shape %v", len(out), shape)
	}
	return out, shape, nil
}
