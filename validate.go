// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package brainvision

import "fmt"

// Validate checks that the channel count agrees across the header, the
// amplifier setup, the channel infos and the decoded data.
func (r *Recording) Validate() error {
	n := r.Header.NumChannels

	// The amplifier setup block is optional.
	if r.Header.AmpChannels != 0 && n != r.Header.AmpChannels {
		return channelMismatch("AMP", n, r.Header.AmpChannels)
	}
	if n != len(r.Header.Channels) {
		return channelMismatch("channel info", n, len(r.Header.Channels))
	}
	if n != len(r.Data.Samples) {
		return channelMismatch("data", n, len(r.Data.Samples))
	}

	return nil
}

func channelMismatch(where string, header, got int) error {
	return &ValidationError{
		Msg: fmt.Sprintf("channel mismatch: channels in header %d, channels in %s %d", header, where, got),
	}
}
