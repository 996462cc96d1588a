// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package brainvision_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenPSG/brainvision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	rec, err := brainvision.Open("testdata/sample.vhdr")
	require.NoError(t, err)

	require.NoError(t, rec.Validate())
	assert.Equal(t, filepath.Join("testdata", "sample.eeg"), rec.Data.Path)
	assert.Equal(t, 3, rec.Data.Channels)
	assert.Equal(t, 4, rec.Data.Len())
	assert.Len(t, rec.Markers.Entries, 3)
	assert.InDelta(t, 500.0, rec.SamplingRate(), 1e-9)

	// Raw digital values
	assert.Equal(t, [][]float64{
		{1, 2, 3, 4},
		{-1, -2, -3, -4},
		{100, 200, 300, 400},
	}, rec.Data.Samples)

	// Physical values
	require.NoError(t, rec.Scale())
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, rec.Data.Samples[0])
	assert.Equal(t, []float64{-1, -2, -3, -4}, rec.Data.Samples[1])
	for i, v := range []float64{10, 20, 30, 40} {
		assert.InDelta(t, v, rec.Data.Samples[2][i], 1e-9)
	}

	require.ErrorIs(t, rec.Scale(), brainvision.ErrAlreadyScaled)
}

func TestOpenErrors(t *testing.T) {
	header, err := os.ReadFile("testdata/sample.vhdr")
	require.NoError(t, err)
	markers, err := os.ReadFile("testdata/sample.vmrk")
	require.NoError(t, err)
	samples, err := os.ReadFile("testdata/sample.eeg")
	require.NoError(t, err)

	// setup copies the sample recording into a temporary directory, with
	// the header and data optionally rewritten.
	setup := func(t *testing.T, replace map[string]string, data []byte) string {
		dir := t.TempDir()

		hdr := string(header)
		for from, to := range replace {
			hdr = strings.Replace(hdr, from, to, 1)
		}

		require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.vhdr"), []byte(hdr), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.vmrk"), markers, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.eeg"), data, 0o644))

		return filepath.Join(dir, "sample.vhdr")
	}

	t.Run("MissingHeader", func(t *testing.T) {
		_, err := brainvision.Open("")
		require.Error(t, err)
	})

	t.Run("MissingMarkers", func(t *testing.T) {
		path := setup(t, map[string]string{"MarkerFile=sample.vmrk": "MarkerFile=other.vmrk"}, samples)
		_, err := brainvision.Open(path)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("EmptyData", func(t *testing.T) {
		_, err := brainvision.Open(setup(t, nil, nil))
		require.ErrorIs(t, err, brainvision.ErrEmptyBinary)
	})

	t.Run("TruncatedData", func(t *testing.T) {
		_, err := brainvision.Open(setup(t, nil, samples[:len(samples)-1]))

		var lengthErr *brainvision.BinaryLengthError
		require.True(t, errors.As(err, &lengthErr))
		assert.Equal(t, len(samples)-2, lengthErr.Offset)
		assert.Equal(t, len(samples)-1, lengthErr.Length)
	})

	t.Run("ChannelCount", func(t *testing.T) {
		path := setup(t, map[string]string{"NumberOfChannels=3": "NumberOfChannels=5"}, samples)
		_, err := brainvision.Open(path)

		var orientationErr *brainvision.OrientationError
		require.True(t, errors.As(err, &orientationErr))
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		path := setup(t, map[string]string{"BinaryFormat=INT_16": "BinaryFormat=INT_8"}, samples)
		_, err := brainvision.Open(path)
		require.ErrorIs(t, err, brainvision.ErrInvalidBinaryFormat)
	})

	t.Run("UnknownOrientation", func(t *testing.T) {
		path := setup(t, map[string]string{"DataOrientation=MULTIPLEXED": "DataOrientation=INTERLEAVED"}, samples)
		_, err := brainvision.Open(path)
		require.ErrorIs(t, err, brainvision.ErrInvalidDataOrientation)
	})

	t.Run("ASCII", func(t *testing.T) {
		path := setup(t, map[string]string{"DataFormat=BINARY": "DataFormat=ASCII"}, samples)
		_, err := brainvision.Open(path)
		require.ErrorIs(t, err, brainvision.ErrUnsupportedDataFormat)
	})

	t.Run("FrequencyDomain", func(t *testing.T) {
		path := setup(t, map[string]string{"NumberOfChannels=3": "NumberOfChannels=3\nDataType=FREQUENCYDOMAIN"}, samples)
		_, err := brainvision.Open(path)
		require.ErrorIs(t, err, brainvision.ErrUnsupportedDataType)
	})
}

func TestValidate(t *testing.T) {
	rec, err := brainvision.Open("testdata/sample.vhdr")
	require.NoError(t, err)

	rec.Header.AmpChannels = 71
	err = rec.Validate()
	var validationErr *brainvision.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "channel mismatch: channels in header 3, channels in AMP 71", err.Error())

	rec.Header.AmpChannels = 0
	require.NoError(t, rec.Validate())

	rec.Header.Channels = rec.Header.Channels[:2]
	require.EqualError(t, rec.Validate(), "channel mismatch: channels in header 3, channels in channel info 2")

	rec.Header.NumChannels = 2
	require.EqualError(t, rec.Validate(), "channel mismatch: channels in header 2, channels in data 3")
}
