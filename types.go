// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package brainvision

import "time"

// Header represents the BrainVision header file (.vhdr).
type Header struct {
	Version          string          // Version of the header file format (usually "1.0")
	Codepage         Codepage        // Text encoding of the header and marker files
	DataFile         string          // Name of the binary data file, relative to the header
	MarkerFile       string          // Name of the marker file, relative to the header
	DataFormat       DataFormat      // Encoding of the data file (only BINARY is decoded)
	DataOrientation  DataOrientation // Interleaving of the samples in the data file
	DataType         DataType        // Time or frequency domain
	NumChannels      int             // Number of channels in the data file
	SamplingInterval int             // Sampling interval in microseconds

	BinaryFormat BinaryFormat // Sample encoding of the data file
	BigEndian    bool         // Byte order of the samples, little endian if false

	Channels []ChannelInfo // Per-channel metadata, in data file order

	RecorderVersion string // Version of the recording software, if present

	AmpChannels         int // Number of channels reported by the amplifier setup
	AmpSamplingRate     int // Sampling rate in Hz reported by the amplifier setup
	AmpSamplingInterval int // Sampling interval in µS reported by the amplifier setup

	ReferenceLabel    string // Name of the reference channel
	ReferencePhysChan int    // Physical channel number of the reference

	GoodLevel int // Good impedance level in kOhms
	BadLevel  int // Bad impedance level in kOhms

	StartTime time.Time // Start of the recording, only used when writing
}

// ChannelInfo describes a single channel in the data file.
type ChannelInfo struct {
	Name       string   // Header key of the channel (e.g. Ch1)
	Label      string   // Label of the channel (e.g. Fp1)
	Reference  string   // Name of the reference channel, empty for the common reference
	Resolution *float64 // Scale factor from raw sample to Unit, nil if absent
	Unit       DataUnit // Physical unit after scaling
}

// Marker represents a single entry of the marker file (.vmrk).
type Marker struct {
	Name        string    // Marker key (e.g. Mk1)
	Type        string    // Type of the marker (e.g. Stimulus, New Segment)
	Description string    // Description of the marker (e.g. S  1)
	Position    int       // Position in data points, 1-based
	Points      int       // Length in data points
	Channel     int       // Channel number, 0 for all channels
	Date        time.Time // Only set for New Segment markers
}

// Markers represents the BrainVision marker file (.vmrk).
type Markers struct {
	Version  string   // Version of the marker file format
	Codepage Codepage // Text encoding of the marker file
	DataFile string   // Name of the data file the markers refer to
	Entries  []Marker // Marker entries in file order
}

// StartTime returns the date of the first New Segment marker.
func (m *Markers) StartTime() (time.Time, bool) {
	for _, mk := range m.Entries {
		if mk.Type == "New Segment" && !mk.Date.IsZero() {
			return mk.Date, true
		}
	}
	return time.Time{}, false
}

// Resolution returns a pointer to v, for use in ChannelInfo literals.
func Resolution(v float64) *float64 {
	return &v
}
