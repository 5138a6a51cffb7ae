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

import "errors"

// Errors returned by Dataset operations. They are wrapped with the
// operation name and can be matched with errors.Is.
var (
	// ErrUnsupportedSatellite means the granule's platform does not
	// match the selected model.
	ErrUnsupportedSatellite = errors.New("unsupported satellite")

	// ErrDatasetNotFound means the dataset or composite identifier is
	// not offered by the model.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrNotLoaded means an operation requires a prior Load.
	ErrNotLoaded = errors.New("no dataset loaded")

	// ErrInvalidParameter means an argument was out of range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrCropTooLarge means a cropped region exceeds the requested box
	// by more than the allowed tolerance.
	ErrCropTooLarge = errors.New("crop region too large")
)
