// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package brainvision

import (
	"fmt"
	"path/filepath"
)

// Recording combines the header, markers and data of a BrainVision recording.
type Recording struct {
	Header  *Header
	Markers *Markers
	Data    *Data
}

// Open reads a BrainVision recording. The marker and data files are
// resolved relative to the directory of the header file.
func Open(headerPath string) (*Recording, error) {
	hdr, err := ReadHeader(headerPath)
	if err != nil {
		return nil, err
	}

	if hdr.DataFormat != DataFormatBinary {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDataFormat, hdr.DataFormat)
	}
	if hdr.DataType != DataTypeTimeDomain {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDataType, hdr.DataType)
	}

	dir := filepath.Dir(headerPath)

	markers, err := ReadMarkers(filepath.Join(dir, hdr.MarkerFile))
	if err != nil {
		return nil, err
	}

	data, err := ReadData(filepath.Join(dir, hdr.DataFile), hdr.NumChannels,
		hdr.BinaryFormat, hdr.DataOrientation, hdr.BigEndian)
	if err != nil {
		return nil, err
	}

	return &Recording{
		Header:  hdr,
		Markers: markers,
		Data:    data,
	}, nil
}

// Scale converts the data to physical units using the header's channel
// resolutions. It can only be applied once.
func (r *Recording) Scale() error {
	return r.Data.Scale(r.Header.Channels)
}

// SamplingRate returns the sampling rate in Hz, or 0 if the sampling
// interval is unknown.
func (r *Recording) SamplingRate() float64 {
	if r.Header.SamplingInterval <= 0 {
		return 0
	}
	return 1e6 / float64(r.Header.SamplingInterval)
}
