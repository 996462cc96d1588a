// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package brainvision

import "gonum.org/v1/gonum/floats"

// ScaleChannels multiplies every sample of data[i] by the resolution of
// info[i], in place. Channels without a resolution are left untouched.
//
// Calling ScaleChannels twice on the same data scales it twice.
func ScaleChannels(data [][]float64, info []ChannelInfo) error {
	if len(data) != len(info) {
		return &ChannelMismatchError{Channels: len(data), Metadata: len(info)}
	}
	if len(data) == 0 {
		return nil
	}

	chanLen := len(data[0])
	for i := range data {
		if len(data[i]) != chanLen {
			return &MalformedChannelError{Channel: i, Expected: chanLen, Got: len(data[i])}
		}
	}

	for i := range data {
		if info[i].Resolution == nil {
			continue
		}
		floats.Scale(*info[i].Resolution, data[i])
	}

	return nil
}
