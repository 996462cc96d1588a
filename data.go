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
	"os"
)

// Data holds the decoded samples of a BrainVision data file (.eeg).
type Data struct {
	Path     string      // Path of the data file
	Channels int         // Number of channels
	Samples  [][]float64 // Samples indexed by channel, all of equal length
	scaled   bool
}

// ReadData reads and decodes a BrainVision data file.
func ReadData(path string, channels int, format BinaryFormat, orientation DataOrientation, bigEndian bool) (*Data, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading data file %q: %w", path, err)
	}

	return DecodeData(path, buf, channels, format, orientation, bigEndian)
}

// DecodeData decodes the contents of a BrainVision data file.
func DecodeData(path string, buf []byte, channels int, format BinaryFormat, orientation DataOrientation, bigEndian bool) (*Data, error) {
	samples, err := DecodeSamples(buf, format, bigEndian)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrEmptyBinary
	}

	data, err := Reassemble(samples, channels, orientation)
	if err != nil {
		return nil, err
	}

	return &Data{
		Path:     path,
		Channels: len(data),
		Samples:  data,
	}, nil
}

// Len returns the number of samples per channel.
func (d *Data) Len() int {
	if len(d.Samples) == 0 {
		return 0
	}
	return len(d.Samples[0])
}

// Scale converts the samples to physical units using the channel
// resolutions. It returns ErrAlreadyScaled if called more than once.
func (d *Data) Scale(info []ChannelInfo) error {
	if d.scaled {
		return ErrAlreadyScaled
	}
	if err := ScaleChannels(d.Samples, info); err != nil {
		return err
	}
	d.scaled = true
	return nil
}

// Scaled reports whether Scale has been applied.
func (d *Data) Scaled() bool {
	return d.scaled
}
