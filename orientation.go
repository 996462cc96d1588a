// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package brainvision

// Reassemble splits a flat sample sequence into one sequence per channel
// according to the data orientation. Every channel ends up with the same
// number of samples, or an *OrientationError is returned.
func Reassemble(samples []float64, channels int, orientation DataOrientation) ([][]float64, error) {
	if channels <= 0 {
		return nil, ErrInvalidChannelCount
	}

	switch orientation {
	case OrientationMultiplexed:
		return demultiplex(samples, channels)
	case OrientationVectorized:
		return devectorize(samples, channels)
	default:
		return nil, ErrInvalidDataOrientation
	}
}

// demultiplex assigns sample i to channel i % channels.
func demultiplex(samples []float64, channels int) ([][]float64, error) {
	chanLen := len(samples) / channels
	data := makeChannels(channels, chanLen)

	ch := 0
	for _, v := range samples {
		if ch == channels {
			ch = 0
		}
		data[ch] = append(data[ch], v)
		ch++
	}

	if len(data[0])*channels != len(samples) {
		return nil, &OrientationError{
			Orientation: OrientationMultiplexed,
			Expected:    len(data[0]) * channels,
			Got:         len(samples),
		}
	}

	return data, nil
}

// devectorize assigns sample i to channel i / (len(samples) / channels).
func devectorize(samples []float64, channels int) ([][]float64, error) {
	chanLen := len(samples) / channels
	if chanLen*channels != len(samples) {
		return nil, &OrientationError{
			Orientation: OrientationVectorized,
			Expected:    chanLen * channels,
			Got:         len(samples),
		}
	}

	data := makeChannels(channels, chanLen)
	for ch := range data {
		data[ch] = append(data[ch], samples[ch*chanLen:(ch+1)*chanLen]...)
	}

	return data, nil
}

func makeChannels(channels, chanLen int) [][]float64 {
	data := make([][]float64, channels)
	for i := range data {
		data[i] = make([]float64, 0, chanLen)
	}
	return data
}
