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
	"fmt"
	"sort"
)

var (
	// PCT89 is the 89 GHz polarization-corrected temperature from
	// inputs (89V, 89H).
	PCT89 = &Product{
		Name:    "89_pct",
		Inputs:  2,
		Derived: []Linear{{A: 0, B: 1, WA: 1.7, WB: 0.7}},
	}

	// Color89 is the 89 GHz false-color image from inputs (89V, 89H).
	Color89 = &Product{
		Name:    "89_color",
		Inputs:  2,
		Derived: []Linear{{A: 0, B: 1, WA: 1.7, WB: 0.7}},
		Bands: []Band{
			{Source: 2, Gray: Gray{Min: 212, Max: 295, Inverted: true}},
			{Source: 1, Gray: Gray{Min: 245, Max: 305}},
			{Source: 0, Gray: Gray{Min: 255, Max: 310}},
		},
	}

	// PCT37 is the 37 GHz polarization-corrected temperature from
	// inputs (37V, 37H).
	PCT37 = &Product{
		Name:    "37_pct",
		Inputs:  2,
		Derived: []Linear{{A: 0, B: 1, WA: 2.15, WB: 1.15}},
	}

	// Color37 is the 37 GHz false-color image from inputs (37V, 37H).
	Color37 = &Product{
		Name:    "37_color",
		Inputs:  2,
		Derived: []Linear{{A: 0, B: 1, WA: 2.15, WB: 1.15}},
		Bands: []Band{
			{Source: 2, Gray: Gray{Min: 260, Max: 280, Inverted: true}},
			{Source: 0, Gray: Gray{Min: 195, Max: 280}},
			{Source: 1, Gray: Gray{Min: 170, Max: 280}},
		},
	}

	// Hydrometeor is the hydrometeor-type image from inputs
	// (89V, 89H, 19V, 19H).
	Hydrometeor = &Product{
		Name:   "hydrometeor_type",
		Inputs: 4,
		Derived: []Linear{
			{A: 0, B: 1, WA: 1.7, WB: 0.7}, // 4: 89 GHz PCT
			{A: 2, B: 3, WA: 1, WB: 1},     // 5: 19 GHz polarization difference
		},
		Bands: []Band{
			{Source: 4, Gray: Gray{Min: 205, Max: 290, Inverted: true}},
			{Source: 5, Gray: Gray{Min: 0, Max: 65, Inverted: true}},
			{Source: 1, Gray: Gray{Min: 240, Max: 305}},
		},
	}

	// Color89MWHS is the humidity-sounder false-color image from
	// inputs (166H, 89H).
	Color89MWHS = &Product{
		Name:   "89_color_mwhs",
		Inputs: 2,
		Bands: []Band{
			{Source: 0, Gray: Gray{Min: 120, Max: 305, Inverted: true}},
			{Source: 1, Gray: Gray{Min: 245, Max: 305}},
			{Source: 1, Gray: Gray{Min: 245, Max: 305}},
		},
	}
)

var products = map[string]*Product{}

func init() {
	for _, p := range []*Product{PCT89, Color89, PCT37, Color37, Hydrometeor, Color89MWHS} {
		products[p.Name] = p
	}
}

// Lookup returns the product with the given name.
func Lookup(name string) (*Product, error) {
	p, ok := products[name]
	if !ok {
		return nil, fmt.Errorf("composite: unknown product %q", name)
	}
	return p, nil
}

// Names returns the names of all products in sorted order.
func Names() []string {
	names := make([]string, 0, len(products))
	for n := range products {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
