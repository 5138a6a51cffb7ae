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


package fy3util

import (
	"context"

	"github.com/sirupsen/logrus"

	fy3reader "github.com/BigShuiTai/FY3-Reader"
)

// Process stages the granule at path and runs the load, crop and
// resample pipeline on it as configured by p.
func Process(ctx context.Context, path string, p *processConfig) (*Summary, error) {
	d, cleanup, err := open(ctx, path, p.model)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	defer d.Close()
	return run(d, p)
}

func run(d *fy3reader.Dataset, p *processConfig) (*Summary, error) {
	log := logrus.WithFields(logrus.Fields{
		"model":   p.model,
		"dataset": p.dataset,
	})
	if err := d.Load(p.dataset, fy3reader.GeolocationLevel(p.level)); err != nil {
		return nil, err
	}
	if p.box != nil {
		var opts []fy3reader.CropOption
		if p.strict {
			opts = append(opts, fy3reader.CheckExtent(p.tolerance))
		}
		if err := d.Crop(*p.box, opts...); err != nil {
			return nil, err
		}
	}

	// A pending composite is only evaluated by resampling, so it is
	// resampled onto the swath shape when no shape is set.
	shape := p.shape
	if _, pending := d.State().(fy3reader.Pending); pending && shape == nil {
		lon, _ := d.LonLats()
		shape = lon.Shape
	}
	if shape != nil {
		if err := d.Resample(p.method, shape[0], shape[1], p.projection); err != nil {
			return nil, err
		}
	}
	s, err := Summarize(d)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"kind":  s.Kind,
		"shape": s.Shape,
	}).Info("fy3 processed dataset")
	return s, nil
}
