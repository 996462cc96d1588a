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
	"encoding/binary"
	"math"
)

// DecodeSamples reinterprets buf as a sequence of samples of the given
// format and byte order, widened to float64.
func DecodeSamples(buf []byte, format BinaryFormat, bigEndian bool) ([]float64, error) {
	width := format.Width()
	if width == 0 {
		return nil, ErrInvalidBinaryFormat
	}

	// Whole samples only, a trailing partial sample is an error.
	n := len(buf) / width
	if n*width != len(buf) {
		return nil, &BinaryLengthError{Format: format, Offset: n * width, Length: len(buf)}
	}

	order := byteOrder(bigEndian)

	samples := make([]float64, n)
	for i := range samples {
		chunk := buf[i*width : (i+1)*width]

		switch format {
		case FormatIEEEFloat32:
			samples[i] = float64(math.Float32frombits(order.Uint32(chunk)))
		case FormatInt32:
			samples[i] = float64(int32(order.Uint32(chunk)))
		case FormatInt16:
			samples[i] = float64(int16(order.Uint16(chunk)))
		case FormatUint16:
			samples[i] = float64(order.Uint16(chunk))
		}
	}

	return samples, nil
}

func byteOrder(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
