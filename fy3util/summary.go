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
	"io"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	fy3reader "github.com/BigShuiTai/FY3-Reader"
	"github.com/BigShuiTai/FY3-Reader/resample"
)

// Summary describes the state of a dataset after processing.
type Summary struct {
	Dataset string
	Kind    string
	Shape   []int

	// Extent of the valid geolocation.
	LatMin, LatMax, LonMin, LonMax float64

	// Statistics over the finite values of a scalar field.
	Min, Max, Mean, StdDev float64
	NaNFraction            float64

	// Image statistics.
	Painted, Filled int
}

// Summarize computes a Summary of the current state of d.
func Summarize(d *fy3reader.Dataset) (*Summary, error) {
	lon, lat := d.LonLats()
	if lon == nil {
		return nil, fmt.Errorf("fy3util.Summarize: %w", fy3reader.ErrNotLoaded)
	}
	s := &Summary{Dataset: d.Name()}
	if ext, n := resample.Extent(lon, lat); n > 0 {
		s.LatMin, s.LatMax = ext.Min.Y, ext.Max.Y
		s.LonMin, s.LonMax = ext.Min.X, ext.Max.X
	}
	switch st := d.State().(type) {
	case fy3reader.Scalar:
		s.Kind = "scalar"
		s.fieldStats(st.Field)
	case fy3reader.Pending:
		s.Kind = "pending"
		s.fieldStats(st.Fields[0])
	case fy3reader.Composite:
		s.Filled = st.Filled
		if st.Image != nil {
			s.Kind = "image"
			s.Shape = []int{st.Image.Rows, st.Image.Cols}
			for i := 0; i < st.Image.Rows; i++ {
				for j := 0; j < st.Image.Cols; j++ {
					if !st.Image.Empty(i, j) {
						s.Painted++
					}
				}
			}
		} else {
			s.Kind = "composite"
			s.fieldStats(st.Field)
		}
	}
	return s, nil
}

func (s *Summary) fieldStats(f *sparse.DenseArray) {
	s.Shape = append([]int(nil), f.Shape...)
	vals := make([]float64, 0, len(f.Elements))
	for _, v := range f.Elements {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	if len(f.Elements) > 0 {
		s.NaNFraction = float64(len(f.Elements)-len(vals)) / float64(len(f.Elements))
	}
	if len(vals) == 0 {
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return
	}
	s.Min, s.Max = floats.Min(vals), floats.Max(vals)
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
}

// Print writes s to w.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "dataset:  %s (%s)\n", s.Dataset, s.Kind)
	fmt.Fprintf(w, "shape:    %v\n", s.Shape)
	fmt.Fprintf(w, "extent:   lat [%.3f, %.3f] lon [%.3f, %.3f]\n", s.LatMin, s.LatMax, s.LonMin, s.LonMax)
	if s.Kind == "image" {
		fmt.Fprintf(w, "painted:  %d\n", s.Painted)
		fmt.Fprintf(w, "filled:   %d\n", s.Filled)
		return
	}
	fmt.Fprintf(w, "min:      %.3f\n", s.Min)
	fmt.Fprintf(w, "max:      %.3f\n", s.Max)
	fmt.Fprintf(w, "mean:     %.3f\n", s.Mean)
	fmt.Fprintf(w, "stddev:   %.3f\n", s.StdDev)
	fmt.Fprintf(w, "nan:      %.1f%%\n", 100*s.NaNFraction)
}
