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
	"errors"
	"fmt"
)

var (
	ErrInvalidBinaryFormat    = errors.New("invalid binary format")
	ErrInvalidDataOrientation = errors.New("invalid data orientation")
	ErrInvalidChannelCount    = errors.New("invalid channel count")
	ErrEmptyBinary            = errors.New("empty binary file")
	ErrInvalidHeaderVersion   = errors.New("could not parse header version")
	ErrInvalidMarkerVersion   = errors.New("could not parse marker file version")
	ErrUnsupportedDataFormat  = errors.New("unsupported data format")
	ErrUnsupportedDataType    = errors.New("unsupported data type")
	ErrAlreadyScaled          = errors.New("channels already scaled")
)

// BinaryLengthError reports a data buffer whose length is not a multiple
// of the sample width.
type BinaryLengthError struct {
	Format BinaryFormat
	Offset int // Bytes consumed by whole samples
	Length int // Total bytes in the buffer
}

func (e *BinaryLengthError) Error() string {
	return fmt.Sprintf("invalid binary dimensions for binary with format %s: parser stopped at byte %d while binary contains %d bytes",
		e.Format, e.Offset, e.Length)
}

// OrientationError reports a sample count that does not split evenly
// into the declared number of channels.
type OrientationError struct {
	Orientation DataOrientation
	Expected    int
	Got         int
}

func (e *OrientationError) Error() string {
	return fmt.Sprintf("invalid binary data orientation for orientation %s: expected %d values, got %d values",
		e.Orientation, e.Expected, e.Got)
}

type ChannelMismatchError struct {
	Channels int
	Metadata int
}

func (e *ChannelMismatchError) Error() string {
	return fmt.Sprintf("mismatching channel data dimensions: data has %d channels while channel info has %d entries",
		e.Channels, e.Metadata)
}

type MalformedChannelError struct {
	Channel  int
	Expected int
	Got      int
}

func (e *MalformedChannelError) Error() string {
	return fmt.Sprintf("malformed channel data: expected %d samples in channel %d, found %d",
		e.Expected, e.Channel, e.Got)
}

// ValidationError reports an inconsistency between the parts of a recording.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
