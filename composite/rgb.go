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
	"image"
	"image/color"
)

// RGB is a row-major 8-bit three-channel image. Row 0 corresponds
// to the first row of the grid it was computed on.
type RGB struct {
	Rows, Cols int
	Pix        []uint8
}

// NewRGB returns a zeroed image.
func NewRGB(rows, cols int) *RGB {
	return &RGB{Rows: rows, Cols: cols, Pix: make([]uint8, rows*cols*3)}
}

// At returns the pixel at row i, column j.
func (m *RGB) At(i, j int) [3]uint8 {
	k := (i*m.Cols + j) * 3
	return [3]uint8{m.Pix[k], m.Pix[k+1], m.Pix[k+2]}
}

// Set sets the pixel at row i, column j.
func (m *RGB) Set(i, j int, px [3]uint8) {
	k := (i*m.Cols + j) * 3
	copy(m.Pix[k:k+3], px[:])
}

// Empty reports whether all channels of pixel (i, j) are zero.
func (m *RGB) Empty(i, j int) bool {
	return m.At(i, j) == [3]uint8{}
}

// Window returns a copy of rows r0..r1 and columns c0..c1, inclusive.
func (m *RGB) Window(r0, r1, c0, c1 int) *RGB {
	out := NewRGB(r1-r0+1, c1-c0+1)
	for i := r0; i <= r1; i++ {
		src := (i*m.Cols + c0) * 3
		dst := (i - r0) * out.Cols * 3
		copy(out.Pix[dst:dst+out.Cols*3], m.Pix[src:src+out.Cols*3])
	}
	return out
}

// Copy returns a deep copy of m.
func (m *RGB) Copy() *RGB {
	out := NewRGB(m.Rows, m.Cols)
	copy(out.Pix, m.Pix)
	return out
}

// Image converts m to an image with the last row at the top, so that
// grids with ascending latitude display north up.
func (m *RGB) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Cols, m.Rows))
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			px := m.At(i, j)
			img.SetNRGBA(j, m.Rows-1-i, color.NRGBA{R: px[0], G: px[1], B: px[2], A: 255})
		}
	}
	return img
}
