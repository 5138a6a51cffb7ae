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
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	fy3reader "github.com/BigShuiTai/FY3-Reader"
	"github.com/BigShuiTai/FY3-Reader/raster"
	"github.com/BigShuiTai/FY3-Reader/resample"
)

// ParseBox parses a "latmin,latmax,lonmin,lonmax" string.
func ParseBox(s string) (fy3reader.Box, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return fy3reader.Box{}, fmt.Errorf("fy3util: box %q must have 4 comma-separated values", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := cast.ToFloat64E(strings.TrimSpace(p))
		if err != nil {
			return fy3reader.Box{}, fmt.Errorf("fy3util: box %q: %v", s, err)
		}
		v[i] = f
	}
	return fy3reader.Box{LatMin: v[0], LatMax: v[1], LonMin: v[2], LonMax: v[3]}, nil
}

// Region is a named crop box in a regions file.
type Region struct {
	LatMin float64 `toml:"lat_min"`
	LatMax float64 `toml:"lat_max"`
	LonMin float64 `toml:"lon_min"`
	LonMax float64 `toml:"lon_max"`
}

// Box returns the region as a crop box.
func (r Region) Box() fy3reader.Box {
	return fy3reader.Box{LatMin: r.LatMin, LatMax: r.LatMax, LonMin: r.LonMin, LonMax: r.LonMax}
}

// ReadRegions reads named regions from a TOML file of the form
//
//	[regions.west_pacific]
//	lat_min = 0.0
//	lat_max = 40.0
//	lon_min = 100.0
//	lon_max = 180.0
func ReadRegions(path string) (map[string]Region, error) {
	var f struct {
		Regions map[string]Region `toml:"regions"`
	}
	if _, err := toml.DecodeFile(os.ExpandEnv(path), &f); err != nil {
		return nil, fmt.Errorf("fy3util: problem reading regions file: %v", err)
	}
	return f.Regions, nil
}

// cropBox returns the crop box selected by the configuration, if any.
// An explicit box takes precedence over a named region.
func cropBox(cfg *viper.Viper) (fy3reader.Box, bool, error) {
	if s := cfg.GetString("box"); s != "" {
		b, err := ParseBox(s)
		return b, err == nil, err
	}
	name := cfg.GetString("region")
	if name == "" {
		return fy3reader.Box{}, false, nil
	}
	file := cfg.GetString("regions")
	if file == "" {
		return fy3reader.Box{}, false, fmt.Errorf("fy3util: region %q requested but no regions file is set", name)
	}
	regions, err := ReadRegions(file)
	if err != nil {
		return fy3reader.Box{}, false, err
	}
	r, ok := regions[name]
	if !ok {
		return fy3reader.Box{}, false, fmt.Errorf("fy3util: region %q not found in %s", name, file)
	}
	return r.Box(), true, nil
}

// gridShape returns the configured output shape, or nil when the
// swath shape should be kept.
func gridShape(cfg *viper.Viper) ([]int, error) {
	shape, err := toIntSliceE(cfg.Get("shape"))
	if err != nil {
		return nil, fmt.Errorf("fy3util: invalid shape: %v", err)
	}
	switch len(shape) {
	case 0:
		return nil, nil
	case 2:
		if shape[0] < 1 || shape[1] < 1 {
			return nil, fmt.Errorf("fy3util: invalid shape %v", shape)
		}
		return shape, nil
	}
	return nil, fmt.Errorf("fy3util: shape %v must have 2 values", shape)
}

// toIntSliceE converts a configuration value to []int. Flags arrive
// as strings such as "[6,6]", configuration files as []interface{}.
func toIntSliceE(v interface{}) ([]int, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []int:
		return t, nil
	case []interface{}:
		o := make([]int, len(t))
		for i, e := range t {
			n, err := cast.ToIntE(e)
			if err != nil {
				return nil, err
			}
			o[i] = n
		}
		return o, nil
	case string:
		t = strings.Trim(strings.TrimSpace(t), "[]")
		if t == "" {
			return nil, nil
		}
		parts := strings.Split(t, ",")
		o := make([]int, len(parts))
		for i, p := range parts {
			n, err := cast.ToIntE(strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			o[i] = n
		}
		return o, nil
	}
	return cast.ToIntSliceE(v)
}

// processConfig collects the pipeline settings from cfg.
type processConfig struct {
	model, dataset string
	level          int
	box            *fy3reader.Box
	strict         bool
	tolerance      float64
	method         resample.Method
	shape          []int
	projection     raster.Options
}

func newProcessConfig(cfg *viper.Viper) (*processConfig, error) {
	p := &processConfig{
		model:     cfg.GetString("model"),
		dataset:   cfg.GetString("dataset"),
		level:     cfg.GetInt("level"),
		strict:    cfg.GetBool("strict"),
		tolerance: cfg.GetFloat64("tolerance"),
	}
	if p.model == "" {
		return nil, fmt.Errorf("fy3util: the model must be set; one of %s", strings.Join(fy3reader.ModelNames(), ", "))
	}
	if p.dataset == "" {
		return nil, fmt.Errorf("fy3util: the dataset must be set")
	}
	b, ok, err := cropBox(cfg)
	if err != nil {
		return nil, err
	}
	if ok {
		p.box = &b
	}
	if p.method, err = resample.ParseMethod(cfg.GetString("resampler")); err != nil {
		return nil, fmt.Errorf("fy3util: %v", err)
	}
	if p.shape, err = gridShape(cfg); err != nil {
		return nil, err
	}
	p.projection = raster.DefaultOptions()
	if s := cfg.GetString("projection"); s != "" {
		p.projection.Projection = s
	}
	p.projection.CentralMeridian = cfg.GetFloat64("central-meridian")
	p.projection.LatTrueScale = cfg.GetFloat64("lat-true-scale")
	return p, nil
}
