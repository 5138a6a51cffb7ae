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
	"sort"
	"strings"
)

// Mem is an in-memory Group. It is used to build synthetic
// granules.
type Mem struct {
	attrs    Attributes
	groups   map[string]*Mem
	datasets map[string]*Dataset
}

// NewMem returns an empty in-memory group.
func NewMem() *Mem {
	return &Mem{
		attrs:    make(Attributes),
		groups:   make(map[string]*Mem),
		datasets: make(map[string]*Dataset),
	}
}

// SetAttr sets an attribute. Numeric values are stored as []float64
// and Array values keep their shape.
func (m *Mem) SetAttr(key string, v interface{}) *Mem {
	switch t := v.(type) {
	case string:
		m.attrs[key] = t
	case []byte:
		m.attrs[key] = DecodeText(t)
	case float64:
		m.attrs[key] = []float64{t}
	case int:
		m.attrs[key] = []float64{float64(t)}
	case []float64:
		m.attrs[key] = t
	case Array:
		m.attrs[key] = t
	default:
		panic(fmt.Errorf("h5: unsupported attribute type %T", v))
	}
	return m
}

// Mkdir returns the group at path, creating it and any missing parents.
func (m *Mem) Mkdir(path string) *Mem {
	cur := m
	for _, p := range splitPath(path) {
		next, ok := cur.groups[p]
		if !ok {
			next = NewMem()
			cur.groups[p] = next
		}
		cur = next
	}
	return cur
}

// Put stores a dataset at path, creating parent groups as needed.
func (m *Mem) Put(path string, shape []int, data []float64, attrs Attributes) *Dataset {
	parts := splitPath(path)
	if len(parts) == 0 {
		panic("h5: empty dataset path")
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	if n != len(data) {
		panic(fmt.Errorf("h5: %d values for shape %v", len(data), shape))
	}
	if attrs == nil {
		attrs = make(Attributes)
	}
	parent := m
	if len(parts) > 1 {
		parent = m.Mkdir(strings.Join(parts[:len(parts)-1], "/"))
	}
	ds := &Dataset{
		Name:  parts[len(parts)-1],
		Shape: append([]int{}, shape...),
		Data:  data,
		Attrs: attrs,
	}
	parent.datasets[ds.Name] = ds
	return ds
}

// Attrs implements Group.
func (m *Mem) Attrs() Attributes { return m.attrs }

// Group implements Group.
func (m *Mem) Group(path string) (Group, error) {
	cur := m
	for _, p := range splitPath(path) {
		next, ok := cur.groups[p]
		if !ok {
			return nil, ErrNotFound
		}
		cur = next
	}
	return cur, nil
}

// Dataset implements Group. The returned dataset shares no memory
// with the stored one.
func (m *Mem) Dataset(path string) (*Dataset, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, ErrNotFound
	}
	g, err := m.Group(strings.Join(parts[:len(parts)-1], "/"))
	if err != nil {
		return nil, err
	}
	ds, ok := g.(*Mem).datasets[parts[len(parts)-1]]
	if !ok {
		return nil, ErrNotFound
	}
	attrs := make(Attributes, len(ds.Attrs))
	for k, v := range ds.Attrs {
		attrs[k] = v
	}
	return &Dataset{
		Name:  ds.Name,
		Shape: append([]int{}, ds.Shape...),
		Data:  append([]float64{}, ds.Data...),
		Attrs: attrs,
	}, nil
}

// Datasets implements Group.
func (m *Mem) Datasets() []string {
	names := make([]string, 0, len(m.datasets))
	for k := range m.datasets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
