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
	"strings"
	"time"

	"github.com/BigShuiTai/FY3-Reader/internal/h5"
)

const (
	attrSatellite  = "Satellite Name"
	attrBeginDate  = "Observing Beginning Date"
	attrBeginClock = "Observing Beginning Time"
	attrEndDate    = "Observing Ending Date"
	attrEndClock   = "Observing Ending Time"
)

var observingLayouts = []string{
	"2006-01-02 15:04:05.000000",
	"2006-01-02 15:04:05",
}

// parseObservingTime combines a date attribute and a time attribute
// into a UTC timestamp.
func parseObservingTime(date, clock string) (time.Time, error) {
	s := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	var err error
	for _, layout := range observingLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// Attrs returns the granule's global attributes.
func (d *Dataset) Attrs() h5.Attributes {
	return d.file.Attrs()
}

// PlatformName returns the "Satellite Name" attribute.
func (d *Dataset) PlatformName() string {
	s, _ := d.Attrs().String(attrSatellite)
	return s
}

// StartTime returns the observation start time.
func (d *Dataset) StartTime() (time.Time, error) {
	return d.observingTime(attrBeginDate, attrBeginClock)
}

// EndTime returns the observation end time.
func (d *Dataset) EndTime() (time.Time, error) {
	return d.observingTime(attrEndDate, attrEndClock)
}

func (d *Dataset) observingTime(dateKey, clockKey string) (time.Time, error) {
	a := d.Attrs()
	date, ok1 := a.String(dateKey)
	clock, ok2 := a.String(clockKey)
	if !ok1 || !ok2 {
		return time.Time{}, fmt.Errorf("fy3reader: missing %q or %q attribute", dateKey, clockKey)
	}
	t, err := parseObservingTime(date, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("fy3reader: parsing observing time: %v", err)
	}
	return t, nil
}
