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

// Package fy3reader reads passive-microwave swaths from FengYun-3
// satellite granules, and crops, resamples and composites them.
package fy3reader

import (
	"fmt"
	"io"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"

	"github.com/BigShuiTai/FY3-Reader/composite"
	"github.com/BigShuiTai/FY3-Reader/internal/h5"
	"github.com/BigShuiTai/FY3-Reader/raster"
)

// Version is the version of this software.
const Version = "0.4.0"

// State is the content of a Dataset after an operation. It is one of
// Scalar, Pending or Composite.
type State interface {
	isState()
}

// Scalar holds a single calibrated field.
type Scalar struct {
	Field *sparse.DenseArray
}

// Pending holds the constituent fields of a composite that has been
// loaded but not yet evaluated.
type Pending struct {
	Fields    []*sparse.DenseArray
	Composite *CompositeSpec
}

// Composite holds the evaluated output of a composite. Exactly one of
// Field and Image is set.
type Composite struct {
	Field *sparse.DenseArray
	Image *composite.RGB

	// Filled is the number of hole pixels filled when the image was
	// projected.
	Filled int

	// Projection places Image. The dataset geolocation describes the
	// image rows and columns only when it is rectilinear.
	Projection raster.Options
}

func (Scalar) isState()    {}
func (Pending) isState()   {}
func (Composite) isState() {}

// Dataset is an open granule of one instrument model. Its methods
// are not safe for concurrent use.
type Dataset struct {
	// Log receives progress messages. It defaults to the standard logger.
	Log logrus.FieldLogger

	model  *Model
	file   h5.Group
	closer io.Closer

	name     string
	state    State
	lon, lat *sparse.DenseArray
	index    *geoIndex
}

// New returns a Dataset reading g according to model m.
// The granule's platform must match the model.
func New(g h5.Group, m *Model) (*Dataset, error) {
	if m == nil {
		return nil, fmt.Errorf("fy3reader.New: %w: nil model", ErrInvalidParameter)
	}
	sat, _ := g.Attrs().String(attrSatellite)
	if sat != m.Satellite {
		return nil, fmt.Errorf("fy3reader.New: %w: granule is %q, model %s expects %q",
			ErrUnsupportedSatellite, sat, m.Name, m.Satellite)
	}
	d := &Dataset{
		Log:   logrus.StandardLogger(),
		model: m,
		file:  g,
	}
	if c, ok := g.(io.Closer); ok {
		d.closer = c
	}
	return d, nil
}

// Open opens the granule at path with the named model.
func Open(path, model string) (*Dataset, error) {
	m, err := LookupModel(model)
	if err != nil {
		return nil, err
	}
	f, err := h5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fy3reader.Open: %v", err)
	}
	d, err := New(f, m)
	if err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the underlying file.
func (d *Dataset) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// Model returns the model d was opened with.
func (d *Dataset) Model() *Model { return d.model }

// Name returns the identifier of the currently loaded dataset.
func (d *Dataset) Name() string { return d.name }

// State returns the current content of d, or nil if nothing is loaded.
func (d *Dataset) State() State { return d.state }

// LonLats returns the current geolocation grid. For a composite image
// placed with a projection that is not rectilinear, the grid is the
// one the image was evaluated on, not the image pixel locations.
func (d *Dataset) LonLats() (lon, lat *sparse.DenseArray) { return d.lon, d.lat }

// Field returns the current scalar field.
func (d *Dataset) Field() (*sparse.DenseArray, error) {
	switch s := d.state.(type) {
	case Scalar:
		return s.Field, nil
	case Composite:
		if s.Field != nil {
			return s.Field, nil
		}
		return nil, fmt.Errorf("fy3reader.Field: %s is an image", d.name)
	case Pending:
		return nil, fmt.Errorf("fy3reader.Field: composite %s has not been resampled", d.name)
	}
	return nil, fmt.Errorf("fy3reader.Field: %w", ErrNotLoaded)
}

// Fields returns the constituent fields of a pending composite.
func (d *Dataset) Fields() ([]*sparse.DenseArray, error) {
	if s, ok := d.state.(Pending); ok {
		return s.Fields, nil
	}
	if d.state == nil {
		return nil, fmt.Errorf("fy3reader.Fields: %w", ErrNotLoaded)
	}
	return nil, fmt.Errorf("fy3reader.Fields: %s is not a pending composite", d.name)
}

// Image returns the current composite image.
func (d *Dataset) Image() (*composite.RGB, error) {
	if s, ok := d.state.(Composite); ok && s.Image != nil {
		return s.Image, nil
	}
	if d.state == nil {
		return nil, fmt.Errorf("fy3reader.Image: %w", ErrNotLoaded)
	}
	return nil, fmt.Errorf("fy3reader.Image: %s has no image", d.name)
}

// AllAvailableDatasets returns the native dataset identifiers in table
// order.
func (d *Dataset) AllAvailableDatasets() []string {
	var ids []string
	for _, s := range d.model.Sections {
		if s.Variables != "" {
			g, err := h5.Descend(d.file, s.Variables)
			if err != nil {
				continue
			}
			ids = append(ids, g.Datasets()...)
			continue
		}
		for _, c := range s.Channels {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// ExactName returns the exact channel name of a native dataset.
func (d *Dataset) ExactName(id string) (string, error) {
	if s, i, ok := d.model.channel(id); ok {
		return s.Channels[i].Label, nil
	}
	for _, v := range d.AllAvailableDatasets() {
		if v == id {
			return id, nil
		}
	}
	return "", fmt.Errorf("fy3reader.ExactName: %w: %q", ErrDatasetNotFound, id)
}

// commit replaces the dataset state and geolocation in one step.
func (d *Dataset) commit(name string, s State, lon, lat *sparse.DenseArray) {
	gridChanged := lon != d.lon || lat != d.lat
	d.name = name
	d.state = s
	d.lon, d.lat = lon, lat
	if gridChanged || d.index == nil {
		d.index = newGeoIndex(lon, lat)
	}
}
