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

// Package h5 provides read-only access to hierarchical scientific
// containers (HDF5 and NetCDF-4) as a tree of groups, numeric datasets
// and attributes.
package h5

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a group, dataset or attribute does not exist.
var ErrNotFound = errors.New("h5: not found")

// Group is a node in a container. Paths passed to Group and Dataset
// are relative to the receiver and may contain "/" separators.
type Group interface {
	// Attrs returns the attributes attached to the group.
	Attrs() Attributes

	// Group returns the child group at the given path.
	Group(path string) (Group, error)

	// Dataset reads the dataset at the given path.
	Dataset(path string) (*Dataset, error)

	// Datasets lists the names of the datasets directly under the group.
	Datasets() []string
}

// Dataset holds a numeric array in row-major order.
type Dataset struct {
	Name  string
	Shape []int
	Data  []float64
	Attrs Attributes
}

// Rank returns the number of dimensions of d.
func (d *Dataset) Rank() int { return len(d.Shape) }

// Attributes maps attribute names to values. Values are strings,
// []float64 for scalar and 1-D numbers, or Array.
type Attributes map[string]interface{}

// Array is a numeric attribute of rank 2 or more, in row-major order.
type Array struct {
	Shape []int
	Data  []float64
}

// String returns the text value of the named attribute.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Floats returns the numeric value of the named attribute.
func (a Attributes) Floats(key string) ([]float64, bool) {
	v, ok := a[key]
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case []float64:
		return t, true
	case Array:
		return t.Data, true
	}
	return nil, false
}

// Shape returns the dimensions of the named numeric attribute.
func (a Attributes) Shape(key string) ([]int, bool) {
	switch t := a[key].(type) {
	case []float64:
		return []int{len(t)}, true
	case Array:
		return t.Shape, true
	}
	return nil, false
}

// Keys returns the attribute names in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// splitPath splits a container path into its non-empty components.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Lookup reads the dataset at an absolute or relative path below g,
// descending one group at a time.
func Lookup(g Group, path string) (*Dataset, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, fmt.Errorf("h5: empty dataset path")
	}
	parent, err := Descend(g, strings.Join(parts[:len(parts)-1], "/"))
	if err != nil {
		return nil, err
	}
	ds, err := parent.Dataset(parts[len(parts)-1])
	if err != nil {
		return nil, fmt.Errorf("h5: dataset %q: %w", path, err)
	}
	return ds, nil
}

// Descend returns the group at path below g. An empty path returns g.
func Descend(g Group, path string) (Group, error) {
	cur := g
	for _, p := range splitPath(path) {
		next, err := cur.Group(p)
		if err != nil {
			return nil, fmt.Errorf("h5: group %q: %w", path, err)
		}
		cur = next
	}
	return cur, nil
}
