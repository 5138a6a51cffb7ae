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

// Package composite derives polarization-corrected temperatures and
// false-color images from co-registered brightness temperature fields.
package composite

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Linear is the weighted difference WA*A - WB*B of two operands.
// Operands are numbered with the inputs first, followed by the
// Linear terms in the order they are defined.
type Linear struct {
	A, B   int
	WA, WB float64
}

// Band maps one operand onto an 8-bit color channel.
type Band struct {
	Source int
	Gray
}

// Product is a band-math recipe. A product without Bands yields
// the scalar field of its single Linear term.
type Product struct {
	Name    string
	Inputs  int
	Derived []Linear
	Bands   []Band
}

// Visual reports whether p produces an image.
func (p *Product) Visual() bool { return len(p.Bands) > 0 }

// Result holds the output of a Product. Exactly one of Field and
// Image is set.
type Result struct {
	Field *sparse.DenseArray
	Image *RGB
}

// Evaluate applies p to fields, which must be ordered as the product's
// inputs and share one 2-D shape.
func (p *Product) Evaluate(fields []*sparse.DenseArray) (*Result, error) {
	if len(fields) != p.Inputs {
		return nil, fmt.Errorf("composite: %s takes %d inputs, got %d", p.Name, p.Inputs, len(fields))
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("composite: %s has no inputs", p.Name)
	}
	shape := fields[0].Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("composite: %s: fields must be 2-D, got shape %v", p.Name, shape)
	}
	for i, f := range fields[1:] {
		if !sameShape(f.Shape, shape) {
			return nil, fmt.Errorf("composite: %s: input %d has shape %v, want %v", p.Name, i+1, f.Shape, shape)
		}
	}
	operands := make([]*sparse.DenseArray, 0, len(fields)+len(p.Derived))
	operands = append(operands, fields...)
	for _, l := range p.Derived {
		if l.A >= len(operands) || l.B >= len(operands) || l.A < 0 || l.B < 0 {
			return nil, fmt.Errorf("composite: %s: operand out of range", p.Name)
		}
		operands = append(operands, l.apply(operands[l.A], operands[l.B]))
	}
	if !p.Visual() {
		if len(p.Derived) != 1 {
			return nil, fmt.Errorf("composite: %s: scalar product needs one derived term", p.Name)
		}
		return &Result{Field: operands[len(operands)-1]}, nil
	}
	img := NewRGB(shape[0], shape[1])
	for c, b := range p.Bands {
		if c > 2 {
			break
		}
		if b.Source < 0 || b.Source >= len(operands) {
			return nil, fmt.Errorf("composite: %s: band %d operand out of range", p.Name, c)
		}
		for i, v := range operands[b.Source].Elements {
			img.Pix[i*3+c] = b.Code(v)
		}
	}
	return &Result{Image: img}, nil
}

func (l Linear) apply(a, b *sparse.DenseArray) *sparse.DenseArray {
	out := sparse.ZerosDense(a.Shape...)
	for i, va := range a.Elements {
		out.Elements[i] = l.WA*va - l.WB*b.Elements[i]
	}
	return out
}

// Gray is a clipped linear grayscale scale from Min to Max.
type Gray struct {
	Min, Max float64
	Inverted bool
}

// Code returns the 8-bit level of v. The clipped value is normalized to
// [0, 1] and quantized as floor(n*256) capped at 255. Inverted scales
// return 255 minus that level. NaN maps to 0.
func (g Gray) Code(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(g.Min, math.Min(g.Max, v))
	n := (v - g.Min) / (g.Max - g.Min)
	k := int(math.Floor(n * 256))
	if k > 255 {
		k = 255
	} else if k < 0 {
		k = 0
	}
	if g.Inverted {
		return uint8(255 - k)
	}
	return uint8(k)
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
