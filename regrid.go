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

	"github.com/BigShuiTai/FY3-Reader/raster"
	"github.com/BigShuiTai/FY3-Reader/resample"
)

// Resample interpolates the current data onto a rows x cols regular
// grid spanning the current geolocation. A pending composite is
// evaluated on the new grid, and image products are then placed with
// the projection o. An already projected image is left unchanged.
func (d *Dataset) Resample(m resample.Method, rows, cols int, o raster.Options) error {
	if d.state == nil {
		return fmt.Errorf("fy3reader.Resample: %w", ErrNotLoaded)
	}
	if !m.Valid() {
		return fmt.Errorf("fy3reader.Resample: %w: method %q", ErrInvalidParameter, string(m))
	}
	if rows < 1 || cols < 1 {
		return fmt.Errorf("fy3reader.Resample: %w: shape %dx%d", ErrInvalidParameter, rows, cols)
	}
	log := d.Log.WithFields(logrus.Fields{
		"dataset": d.name,
		"method":  m,
		"shape":   []int{rows, cols},
	})

	var src *sparse.DenseArray
	switch st := d.state.(type) {
	case Scalar:
		src = st.Field
	case Composite:
		if st.Image != nil {
			log.Warn("fy3reader: composite image is already projected; not resampling")
			return nil
		}
		src = st.Field
	}

	g, err := resample.NewGrid(d.lon, d.lat, rows, cols)
	if err != nil {
		return fmt.Errorf("fy3reader.Resample: %v", err)
	}
	glon, glat := g.LonLats()

	if src != nil {
		out, err := resample.Regrid(m, d.lon, d.lat, src, g)
		if err != nil {
			return fmt.Errorf("fy3reader.Resample: %v", err)
		}
		var s State = Scalar{Field: out}
		if _, ok := d.state.(Composite); ok {
			s = Composite{Field: out}
		}
		d.commit(d.name, s, glon, glat)
		log.Debug("fy3reader resampled dataset")
		return nil
	}

	p := d.state.(Pending)
	fields := make([]*sparse.DenseArray, len(p.Fields))
	for i, f := range p.Fields {
		if fields[i], err = resample.Regrid(m, d.lon, d.lat, f, g); err != nil {
			return fmt.Errorf("fy3reader.Resample: %s: %v", p.Composite.Channels[i], err)
		}
	}
	r, err := p.Composite.Product.Evaluate(fields)
	if err != nil {
		return fmt.Errorf("fy3reader.Resample: %v", err)
	}
	c := Composite{Field: r.Field}
	if r.Image != nil {
		pr, err := raster.Project(glon, glat, r.Image, o)
		if err != nil {
			return fmt.Errorf("fy3reader.Resample: %w: %v", ErrInvalidParameter, err)
		}
		c.Image = pr.Image
		c.Filled = pr.Filled
		c.Projection = o
		log = log.WithField("filled", pr.Filled)
	}
	d.commit(d.name, c, glon, glat)
	log.Debug("fy3reader evaluated composite")
	return nil
}
