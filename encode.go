// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package brainvision

import "math"

// EncodeSamples is the inverse of DecodeSamples. Integer formats round to
// the nearest value and saturate at the limits of the type, NaN becomes 0.
func EncodeSamples(samples []float64, format BinaryFormat, bigEndian bool) ([]byte, error) {
	width := format.Width()
	if width == 0 {
		return nil, ErrInvalidBinaryFormat
	}

	order := byteOrder(bigEndian)

	buf := make([]byte, len(samples)*width)
	for i, v := range samples {
		chunk := buf[i*width : (i+1)*width]

		switch format {
		case FormatIEEEFloat32:
			order.PutUint32(chunk, math.Float32bits(float32(v)))
		case FormatInt32:
			order.PutUint32(chunk, uint32(int32(clamp(v, math.MinInt32, math.MaxInt32))))
		case FormatInt16:
			order.PutUint16(chunk, uint16(int16(clamp(v, math.MinInt16, math.MaxInt16))))
		case FormatUint16:
			order.PutUint16(chunk, uint16(clamp(v, 0, math.MaxUint16)))
		}
	}

	return buf, nil
}

// clamp rounds v and saturates it to [lo, hi]. NaN has no integer
// representation and is encoded as 0.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
