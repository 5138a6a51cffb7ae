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

	"github.com/BigShuiTai/FY3-Reader/internal/h5"
)

type loadConfig struct {
	level int
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

// GeolocationLevel selects the level of a geolocation grid with a
// level axis. For the precipitation radar, level 0 is the ellipsoid
// surface and level 1 is about 18 km above it.
func GeolocationLevel(level int) LoadOption {
	return func(c *loadConfig) { c.level = level }
}

// Load reads the native channel or composite identified by id,
// replacing the current state and geolocation.
func (d *Dataset) Load(id string, opts ...LoadOption) error {
	var cfg loadConfig
	for _, o := range opts {
		o(&cfg)
	}
	levels := d.model.Levels
	if levels == 0 {
		levels = 1
	}
	if cfg.level < 0 || cfg.level >= levels {
		return fmt.Errorf("fy3reader.Load: %w: geolocation level %d not in [0, %d)",
			ErrInvalidParameter, cfg.level, levels)
	}

	if spec, ok := d.model.compositeSpec(id); ok {
		fields := make([]*sparse.DenseArray, len(spec.Channels))
		var lon, lat *sparse.DenseArray
		for i, ch := range spec.Channels {
			f, lo, la, err := d.read(ch, cfg)
			if err != nil {
				return fmt.Errorf("fy3reader.Load: composite %s: %w", id, err)
			}
			if lon != nil && !sameShape(f.Shape, fields[0].Shape) {
				return fmt.Errorf("fy3reader.Load: composite %s: %s has shape %v, want %v",
					id, ch, f.Shape, fields[0].Shape)
			}
			fields[i] = f
			lon, lat = lo, la
		}
		d.commit(id, Pending{Fields: fields, Composite: spec}, lon, lat)
		d.Log.WithFields(logrus.Fields{
			"dataset":  id,
			"channels": spec.Channels,
			"shape":    fields[0].Shape,
		}).Debug("fy3reader loaded composite")
		return nil
	}

	f, lon, lat, err := d.read(id, cfg)
	if err != nil {
		return fmt.Errorf("fy3reader.Load: %w", err)
	}
	d.commit(id, Scalar{Field: f}, lon, lat)
	d.Log.WithFields(logrus.Fields{
		"dataset": id,
		"shape":   f.Shape,
	}).Debug("fy3reader loaded dataset")
	return nil
}

// read returns the calibrated field of a native dataset and its
// geolocation.
func (d *Dataset) read(id string, cfg loadConfig) (field, lon, lat *sparse.DenseArray, err error) {
	sec, ch, ok := d.model.channel(id)
	if !ok {
		sec = d.variableSection(id)
		if sec == nil {
			return nil, nil, nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, id)
		}
	}
	if sec.Variables != "" {
		ds, err := h5.Lookup(d.file, sec.Variables+"/"+id)
		if err != nil {
			return nil, nil, nil, err
		}
		if ds.Rank() != 2 {
			return nil, nil, nil, fmt.Errorf("dataset %s has rank %d, want 2", id, ds.Rank())
		}
		field = dense(ds)
	} else {
		cube, err := h5.Lookup(d.file, sec.Cube)
		if err != nil {
			return nil, nil, nil, err
		}
		if field, err = extractChannel(cube, ch, sec.ChannelLast); err != nil {
			return nil, nil, nil, fmt.Errorf("%s: %v", id, err)
		}
	}
	if d.model.HasSentinel {
		maskSentinel(field, d.model.Sentinel)
	}
	lon, lat, err = d.geolocation(sec, cfg.level)
	if err != nil {
		return nil, nil, nil, err
	}
	if !sameShape(lon.Shape, field.Shape) {
		return nil, nil, nil, fmt.Errorf("%s has shape %v but geolocation has shape %v",
			id, field.Shape, lon.Shape)
	}
	return field, lon, lat, nil
}

// variableSection returns the section whose variable group holds id.
func (d *Dataset) variableSection(id string) *Section {
	for i, s := range d.model.Sections {
		if s.Variables == "" {
			continue
		}
		g, err := h5.Descend(d.file, s.Variables)
		if err != nil {
			continue
		}
		for _, v := range g.Datasets() {
			if v == id {
				return &d.model.Sections[i]
			}
		}
	}
	return nil
}

// geolocation reads the coordinate grid of a section, selecting the
// given level when the grid has a level axis.
func (d *Dataset) geolocation(sec *Section, level int) (lon, lat *sparse.DenseArray, err error) {
	read := func(path string) (*sparse.DenseArray, error) {
		ds, err := h5.Lookup(d.file, path)
		if err != nil {
			return nil, err
		}
		switch ds.Rank() {
		case 2:
			return dense(ds), nil
		case 3:
			rows, cols, nl := ds.Shape[0], ds.Shape[1], ds.Shape[2]
			if level >= nl {
				return nil, fmt.Errorf("%w: %s has %d levels, want index %d",
					ErrInvalidParameter, path, nl, level)
			}
			out := sparse.ZerosDense(rows, cols)
			for p := range out.Elements {
				out.Elements[p] = ds.Data[p*nl+level]
			}
			return out, nil
		}
		return nil, fmt.Errorf("%s has rank %d", path, ds.Rank())
	}
	if lat, err = read(sec.Latitude); err != nil {
		return nil, nil, err
	}
	if lon, err = read(sec.Longitude); err != nil {
		return nil, nil, err
	}
	if !sameShape(lon.Shape, lat.Shape) {
		return nil, nil, fmt.Errorf("longitude shape %v != latitude shape %v", lon.Shape, lat.Shape)
	}
	if d.model.HasSentinel {
		maskSentinel(lon, d.model.Sentinel)
		maskSentinel(lat, d.model.Sentinel)
	}
	maskCoordinates(lon, lat)
	return lon, lat, nil
}

// dense copies a dataset into a new array.
func dense(ds *h5.Dataset) *sparse.DenseArray {
	a := sparse.ZerosDense(ds.Shape...)
	copy(a.Elements, ds.Data)
	return a
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
