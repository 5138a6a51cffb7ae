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

package fy3reader

import (
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"

	"github.com/BigShuiTai/FY3-Reader/resample"
)

// DefaultExtentTolerance is the default number of degrees by which a
// cropped region may exceed the requested box when extent checking is
// enabled.
const DefaultExtentTolerance = 5.0

type cropConfig struct {
	check     bool
	tolerance float64
}

// CropOption configures Crop.
type CropOption func(*cropConfig)

// CheckExtent makes Crop fail with ErrCropTooLarge when the cropped
// geolocation extends more than tolerance degrees beyond the box on any
// side. A non-positive tolerance selects DefaultExtentTolerance.
func CheckExtent(tolerance float64) CropOption {
	return func(c *cropConfig) {
		c.check = true
		if tolerance <= 0 {
			tolerance = DefaultExtentTolerance
		}
		c.tolerance = tolerance
	}
}

// Crop restricts the current geolocation and data to the pixel window
// covering b.
func (d *Dataset) Crop(b Box, opts ...CropOption) error {
	if d.state == nil {
		return fmt.Errorf("fy3reader.Crop: %w", ErrNotLoaded)
	}
	if !b.valid() {
		return fmt.Errorf("fy3reader.Crop: %w: box %+v", ErrInvalidParameter, b)
	}
	if c, ok := d.state.(Composite); ok && c.Image != nil && !c.Projection.Rectilinear() {
		return fmt.Errorf("fy3reader.Crop: %w: image placed with projection %q cannot be cropped by geolocation",
			ErrInvalidParameter, c.Projection.Projection)
	}
	var cfg cropConfig
	for _, o := range opts {
		o(&cfg)
	}
	w, err := d.index.window(b)
	if err != nil {
		return fmt.Errorf("fy3reader.Crop: %w: %v", ErrInvalidParameter, err)
	}
	lon, lat := subset(d.lon, w), subset(d.lat, w)
	if cfg.check {
		ext, n := resample.Extent(lon, lat)
		if n > 0 && (ext.Min.Y < b.LatMin-cfg.tolerance || ext.Max.Y > b.LatMax+cfg.tolerance ||
			ext.Min.X < b.LonMin-cfg.tolerance || ext.Max.X > b.LonMax+cfg.tolerance) {
			return fmt.Errorf("fy3reader.Crop: %w: window spans lat [%g, %g], lon [%g, %g]",
				ErrCropTooLarge, ext.Min.Y, ext.Max.Y, ext.Min.X, ext.Max.X)
		}
	}

	var s State
	switch st := d.state.(type) {
	case Scalar:
		s = Scalar{Field: subset(st.Field, w)}
	case Pending:
		fields := make([]*sparse.DenseArray, len(st.Fields))
		for i, f := range st.Fields {
			fields[i] = subset(f, w)
		}
		s = Pending{Fields: fields, Composite: st.Composite}
	case Composite:
		c := Composite{Filled: st.Filled, Projection: st.Projection}
		if st.Field != nil {
			c.Field = subset(st.Field, w)
		}
		if st.Image != nil {
			c.Image = st.Image.Window(w.Row0, w.Row1, w.Col0, w.Col1)
		}
		s = c
	}
	d.commit(d.name, s, lon, lat)
	d.Log.WithFields(logrus.Fields{
		"dataset": d.name,
		"box":     b,
		"window":  w,
	}).Debug("fy3reader cropped dataset")
	return nil
}
