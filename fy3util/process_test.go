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
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/kr/pretty"

	fy3reader "github.com/BigShuiTai/FY3-Reader"
	"github.com/BigShuiTai/FY3-Reader/internal/h5"
	"github.com/BigShuiTai/FY3-Reader/raster"
	"github.com/BigShuiTai/FY3-Reader/resample"
)

// mwriGranule builds an FY-3D MWRI granule with a rows x cols swath at
// lon = 100 + col, lat = 10 + row, 89V = v and 89H = h, and 250 K on
// the other channels. Raw counts are stored as (bt - 100) / 0.5.
func mwriGranule(rows, cols int, v, h float64) *h5.Mem {
	g := h5.NewMem()
	g.SetAttr("Satellite Name", "FY-3D")
	lat := make([]float64, rows*cols)
	lon := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			lat[i*cols+j] = 10 + float64(i)
			lon[i*cols+j] = 100 + float64(j)
		}
	}
	g.Put("Geolocation/Latitude", []int{rows, cols}, lat, nil)
	g.Put("Geolocation/Longitude", []int{rows, cols}, lon, nil)
	const nch = 10
	raw := make([]float64, nch*rows*cols)
	for c := 0; c < nch; c++ {
		bt := 250.0
		switch c {
		case 8:
			bt = v
		case 9:
			bt = h
		}
		for p := 0; p < rows*cols; p++ {
			raw[c*rows*cols+p] = (bt - 100) / 0.5
		}
	}
	slope, intercept := make([]float64, nch), make([]float64, nch)
	for c := range slope {
		slope[c], intercept[c] = 0.5, 100
	}
	g.Put("Calibration/EARTH_OBSERVE_BT_10_to_89GHz", []int{nch, rows, cols}, raw, h5.Attributes{
		"Slope":     slope,
		"Intercept": intercept,
		"FillValue": []float64{65535},
	})
	return g
}

func newTestDataset(t *testing.T, g *h5.Mem) *fy3reader.Dataset {
	m, err := fy3reader.LookupModel("FY3D_MWRI_L1")
	if err != nil {
		t.Fatal(err)
	}
	d, err := fy3reader.New(g, m)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRunScalar(t *testing.T) {
	g := mwriGranule(6, 6, 280, 250)
	cube, err := g.Dataset("Calibration/EARTH_OBSERVE_BT_10_to_89GHz")
	if err != nil {
		t.Fatal(err)
	}
	cube.Data[8*36+2*6+2] = 65535 // 89V at (2, 2)
	g.Put("Calibration/EARTH_OBSERVE_BT_10_to_89GHz", cube.Shape, cube.Data, cube.Attrs)

	d := newTestDataset(t, g)
	s, err := run(d, &processConfig{
		model:   "FY3D_MWRI_L1",
		dataset: "btemp_89.0v",
		box:     &fy3reader.Box{LatMin: 11, LatMax: 13, LonMin: 101, LonMax: 103},
		method:  resample.Nearest,
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Kind != "scalar" || len(s.Shape) != 2 || s.Shape[0] != 3 || s.Shape[1] != 3 {
		t.Fatalf("summary %+v", s)
	}
	if s.Min != 280 || s.Max != 280 || different(s.Mean, 280, 1e-12) {
		t.Errorf("min %g, max %g, mean %g", s.Min, s.Max, s.Mean)
	}
	if different(s.NaNFraction, 1.0/9, 1e-12) {
		t.Errorf("nan fraction %g", s.NaNFraction)
	}
	if s.LatMin != 11 || s.LatMax != 13 || s.LonMin != 101 || s.LonMax != 103 {
		t.Errorf("extent %+v", s)
	}
}

func TestRunCompositeImage(t *testing.T) {
	d := newTestDataset(t, mwriGranule(4, 4, 300, 260))
	s, err := run(d, &processConfig{
		model:      "FY3D_MWRI_L1",
		dataset:    "89_color",
		method:     resample.Nearest,
		projection: raster.DefaultOptions(),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := &Summary{
		Dataset: "89_color",
		Kind:    "image",
		Shape:   []int{4, 4},
		LatMin:  10,
		LatMax:  13,
		LonMin:  100,
		LonMax:  103,
		Painted: 16,
	}
	if diff := pretty.Diff(s, want); len(diff) != 0 {
		t.Fatal(diff)
	}
	var b bytes.Buffer
	s.Print(&b)
	if !strings.Contains(b.String(), "painted:  16") {
		t.Errorf("unexpected output:\n%s", b.String())
	}
}

func TestRunCompositeField(t *testing.T) {
	d := newTestDataset(t, mwriGranule(5, 5, 250, 250))
	s, err := run(d, &processConfig{
		model:      "FY3D_MWRI_L1",
		dataset:    "89_pct",
		method:     resample.Linear,
		shape:      []int{3, 3},
		projection: raster.DefaultOptions(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Kind != "composite" || s.Shape[0] != 3 || s.Shape[1] != 3 {
		t.Fatalf("summary %+v", s)
	}
	if different(s.Mean, 250, 1e-9) || s.NaNFraction != 0 {
		t.Errorf("mean %g, nan fraction %g", s.Mean, s.NaNFraction)
	}
}

func TestRunStrictCrop(t *testing.T) {
	g := mwriGranule(6, 6, 280, 250)
	lon, err := g.Dataset("Geolocation/Longitude")
	if err != nil {
		t.Fatal(err)
	}
	lon.Data[3*6+3] = 150
	g.Put("Geolocation/Longitude", lon.Shape, lon.Data, nil)

	p := &processConfig{
		model:     "FY3D_MWRI_L1",
		dataset:   "btemp_89.0v",
		box:       &fy3reader.Box{LatMin: 12, LatMax: 14, LonMin: 102, LonMax: 105},
		strict:    true,
		tolerance: fy3reader.DefaultExtentTolerance,
		method:    resample.Nearest,
	}
	if _, err := run(newTestDataset(t, g), p); err == nil {
		t.Fatal("expected an error")
	}
	p.strict = false
	if _, err := run(newTestDataset(t, g), p); err != nil {
		t.Fatal(err)
	}
}

func TestSummarizeNotLoaded(t *testing.T) {
	d := newTestDataset(t, mwriGranule(2, 2, 250, 250))
	if _, err := Summarize(d); err == nil {
		t.Error("expected an error")
	}
}

func TestFieldStatsAllNaN(t *testing.T) {
	var s Summary
	f := sparse.ZerosDense(1, 2)
	f.Elements[0], f.Elements[1] = math.NaN(), math.NaN()
	s.fieldStats(f)
	if s.NaNFraction != 1 || !math.IsNaN(s.Mean) {
		t.Errorf("summary %+v", s)
	}
}
