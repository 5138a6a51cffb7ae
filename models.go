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
	"sort"

	"github.com/BigShuiTai/FY3-Reader/composite"
)

// Channel is a native instrument channel.
type Channel struct {
	// ID is the public dataset identifier, e.g. "btemp_89.0v".
	ID string

	// Label is the exact channel name, e.g. "btemp_36.5v".
	Label string
}

// Section is a group of channels that share one geolocation grid and
// one brightness temperature cube.
type Section struct {
	Name string

	// Latitude and Longitude are the geolocation dataset paths.
	Latitude, Longitude string

	// Cube is the path of the calibrated brightness temperature array,
	// indexed [channel, row, col], or [row, col, channel] when
	// ChannelLast is set.
	Cube        string
	ChannelLast bool
	Channels    []Channel

	// Variables, when set, is a group whose 2-D datasets are offered
	// directly as uncalibrated fields instead of cube channels.
	Variables string
}

// CompositeSpec binds a band-math product to the channels it takes.
type CompositeSpec struct {
	Name     string
	Channels []string
	Product  *composite.Product
}

// Model describes the file layout of one instrument on one platform.
type Model struct {
	Name string

	// Satellite must match the granule's "Satellite Name" attribute.
	Satellite string

	Sections   []Section
	Composites []CompositeSpec

	// Sentinel, when HasSentinel is set, marks invalid data and
	// coordinate values.
	Sentinel    float64
	HasSentinel bool

	// Levels is the length of the trailing geolocation level axis, or
	// zero for 2-D geolocation.
	Levels int
}

// compositeSpec returns the named composite.
func (m *Model) compositeSpec(name string) (*CompositeSpec, bool) {
	for i := range m.Composites {
		if m.Composites[i].Name == name {
			return &m.Composites[i], true
		}
	}
	return nil, false
}

// channel returns the section and cube index of a native channel.
func (m *Model) channel(id string) (*Section, int, bool) {
	for s := range m.Sections {
		for i, c := range m.Sections[s].Channels {
			if c.ID == id {
				return &m.Sections[s], i, true
			}
		}
	}
	return nil, 0, false
}

// CompositeNames returns the names of the model's composites in
// registration order.
func (m *Model) CompositeNames() []string {
	names := make([]string, len(m.Composites))
	for i, c := range m.Composites {
		names[i] = c.Name
	}
	return names
}

var mwriWindow = []Channel{
	{"btemp_10.0v", "btemp_10.65v"}, {"btemp_10.0h", "btemp_10.65h"},
	{"btemp_18.0v", "btemp_18.7v"}, {"btemp_18.0h", "btemp_18.7h"},
	{"btemp_23.0v", "btemp_23.8v"}, {"btemp_23.0h", "btemp_23.8h"},
	{"btemp_37.0v", "btemp_36.5v"}, {"btemp_37.0h", "btemp_36.5h"},
	{"btemp_89.0v", "btemp_89.0v"}, {"btemp_89.0h", "btemp_89.0h"},
}

var mwriSounding = []Channel{
	{"btemp_50.0v", "btemp_50.3v"}, {"btemp_50.0h", "btemp_50.3h"},
	{"btemp_52.0v", "btemp_52.61v"}, {"btemp_52.0h", "btemp_52.61h"},
	{"btemp_53.24v", "btemp_53.24v"}, {"btemp_53.24h", "btemp_53.24h"},
	{"btemp_53.75v", "btemp_53.75v"}, {"btemp_53.75h", "btemp_53.75h"},
	{"btemp_118.0_3v", "btemp_118.7503_3.2v"}, {"btemp_118.0_2v", "btemp_118.7503_2.1v"},
	{"btemp_118.0_1.4v", "btemp_118.7503_1.4v"}, {"btemp_118.0_1.2v", "btemp_118.7503_1.2v"},
	{"btemp_165.5v", "btemp_165.5_0.75v"},
	{"btemp_183.0_2v", "btemp_183.31_2v"}, {"btemp_183.0_3v", "btemp_183.31_3.4v"},
	{"btemp_183.0_7v", "btemp_183.31_7v"},
}

func mwhsChannels(tenth string) []Channel {
	ids := []string{
		"btemp_89h", "btemp_118.008v", "btemp_118.02v", "btemp_118.03v",
		"btemp_118.08v", "btemp_118.11v", "btemp_118.25v", "btemp_118.3v",
		"btemp_118.5v", tenth, "btemp_183.1v", "btemp_183.18v",
		"btemp_183.3v", "btemp_183.45v", "btemp_183.7v",
	}
	ch := make([]Channel, len(ids))
	for i, id := range ids {
		ch[i] = Channel{ID: id, Label: id}
	}
	return ch
}

func mwriComposites() []CompositeSpec {
	pair89 := []string{"btemp_89.0v", "btemp_89.0h"}
	pair37 := []string{"btemp_37.0v", "btemp_37.0h"}
	return []CompositeSpec{
		{Name: "89_pct", Channels: pair89, Product: composite.PCT89},
		{Name: "89_color", Channels: pair89, Product: composite.Color89},
		{Name: "37_pct", Channels: pair37, Product: composite.PCT37},
		{Name: "37_color", Channels: pair37, Product: composite.Color37},
		{Name: "hydrometeor_type",
			Channels: []string{"btemp_89.0v", "btemp_89.0h", "btemp_18.0v", "btemp_18.0h"},
			Product:  composite.Hydrometeor},
	}
}

func mwhsModel(name, satellite, tenth string) *Model {
	m := &Model{
		Name:      name,
		Satellite: satellite,
		Sections: []Section{{
			Name:      "Data",
			Latitude:  "Geolocation/Latitude",
			Longitude: "Geolocation/Longitude",
			Cube:      "Data/Earth_Obs_BT",
			Channels:  mwhsChannels(tenth),
		}},
	}
	if tenth == "btemp_166h" {
		m.Composites = []CompositeSpec{{
			Name:     "89_color_mwhs",
			Channels: []string{"btemp_166h", "btemp_89h"},
			Product:  composite.Color89MWHS,
		}}
	}
	return m
}

var models = map[string]*Model{}

func register(m *Model) { models[m.Name] = m }

func init() {
	register(&Model{
		Name:      "FY3D_MWRI_L1",
		Satellite: "FY-3D",
		Sections: []Section{{
			Name:      "Calibration",
			Latitude:  "Geolocation/Latitude",
			Longitude: "Geolocation/Longitude",
			Cube:      "Calibration/EARTH_OBSERVE_BT_10_to_89GHz",
			Channels:  mwriWindow,
		}},
		Composites: mwriComposites(),
	})
	register(&Model{
		Name:      "FY3F_MWRI_L1",
		Satellite: "FY-3F",
		Sections: []Section{
			{
				Name:        "Window Channel",
				Latitude:    "Window Channel/Geolocation/Latitude",
				Longitude:   "Window Channel/Geolocation/Longitude",
				Cube:        "Window Channel/Calibration/EARTH_OBSERVE_BT",
				ChannelLast: true,
				Channels:    mwriWindow,
			},
			{
				Name:        "Sounding Channel",
				Latitude:    "Sounding Channel/Geolocation/Latitude",
				Longitude:   "Sounding Channel/Geolocation/Longitude",
				Cube:        "Sounding Channel/Calibration/EARTH_OBSERVE_BT",
				ChannelLast: true,
				Channels:    mwriSounding,
			},
		},
		Composites: mwriComposites(),
	})
	register(&Model{
		Name:      "FY3G_MWRI_L1",
		Satellite: "FY-3G",
		Sections: []Section{
			{
				Name:        "S1",
				Latitude:    "S1/Geolocation/Latitude",
				Longitude:   "S1/Geolocation/Longitude",
				Cube:        "S1/Data/EARTH_OBSERVE_BT_10_to_89GHz",
				ChannelLast: true,
				Channels:    mwriWindow,
			},
			{
				Name:        "S2",
				Latitude:    "S2/Geolocation/Latitude",
				Longitude:   "S2/Geolocation/Longitude",
				Cube:        "S2/Data/EARTH_OBSERVE_BT_50_to_183GHz",
				ChannelLast: true,
				Channels:    mwriSounding,
			},
		},
		Composites: mwriComposites(),
	})
	register(mwhsModel("FY3D_MWHS_L1", "FY-3D", "btemp_150h"))
	register(mwhsModel("FY3E_MWHS_L1", "FY-3E", "btemp_166h"))
	register(mwhsModel("FY3F_MWHS_L1", "FY-3F", "btemp_166h"))
	register(mwhsModel("FY3H_MWHS_L1", "FY-3H", "btemp_166h"))
	register(&Model{
		Name:      "FY3G_PMR_L2",
		Satellite: "FY-3G",
		Sections: []Section{{
			Name:      "SLV",
			Latitude:  "Geo_Fields/Latitude",
			Longitude: "Geo_Fields/Longitude",
			Variables: "SLV",
		}},
		Sentinel:    -9999.9,
		HasSentinel: true,
		Levels:      2,
	})
}

// LookupModel returns the registered model with the given name.
func LookupModel(name string) (*Model, error) {
	m, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("fy3reader.LookupModel: %w: %q", ErrInvalidParameter, name)
	}
	return m, nil
}

// ModelNames returns the names of all registered models in sorted order.
func ModelNames() []string {
	names := make([]string, 0, len(models))
	for n := range models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
