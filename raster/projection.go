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

package raster

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom/proj"
)

const deg2rad = math.Pi / 180

// Options configures the map projection used to place pixels.
type Options struct {
	// Projection is a PROJ.4 projection name. The default is "eqc".
	Projection string

	// CentralMeridian and LatTrueScale are in degrees.
	CentralMeridian float64
	LatTrueScale    float64

	// FalseEasting and FalseNorthing are in meters.
	FalseEasting, FalseNorthing float64
}

// DefaultOptions returns the equidistant cylindrical projection
// centered on the prime meridian.
func DefaultOptions() Options {
	return Options{Projection: "eqc"}
}

// Rectilinear reports whether projected x depends linearly on
// longitude alone and y linearly on latitude alone. Only then do the
// rows and columns of a placed image follow a regular longitude-latitude
// grid.
func (o Options) Rectilinear() bool {
	switch strings.ToLower(o.Projection) {
	case "", "eqc", "longlat", "latlong":
		return true
	}
	return false
}

// ProjString returns the PROJ.4 definition of o.
func (o Options) ProjString() string {
	name := o.Projection
	if name == "" {
		name = "eqc"
	}
	return fmt.Sprintf("+proj=%s +lon_0=%g +lat_ts=%g +x_0=%g +y_0=%g +datum=WGS84 +no_defs",
		name, o.CentralMeridian, o.LatTrueScale, o.FalseEasting, o.FalseNorthing)
}

// Forward returns a function converting longitude and latitude in
// degrees to projected coordinates.
func (o Options) Forward() (proj.Transformer, error) {
	dst, err := proj.Parse(o.ProjString())
	if err != nil {
		return nil, fmt.Errorf("raster: parsing projection %q: %v", o.Projection, err)
	}
	if strings.EqualFold(dst.Name, "eqc") {
		return equirectangular(dst), nil
	}
	if _, _, err := dst.Transformers(); err != nil {
		return nil, fmt.Errorf("raster: unsupported projection %q", o.Projection)
	}
	src, err := proj.Parse("+proj=longlat +datum=WGS84 +no_defs")
	if err != nil {
		return nil, err
	}
	return src.NewTransform(dst)
}

// equirectangular is the forward equidistant cylindrical projection
// on a sphere of the reference's semi-major axis.
func equirectangular(sr *proj.SR) proj.Transformer {
	orZero := func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	}
	a := sr.A
	lon0, lat0, latTS := orZero(sr.Long0), orZero(sr.Lat0), orZero(sr.LatTS)
	x0, y0 := orZero(sr.X0), orZero(sr.Y0)
	rc := math.Cos(latTS)
	return func(lon, lat float64) (float64, float64, error) {
		dl := math.Remainder(lon*deg2rad-lon0, 2*math.Pi)
		return x0 + a*dl*rc, y0 + a*(lat*deg2rad-lat0), nil
	}
}
