// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/OpenPSG/brainvision/internal/edf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	hdr := edf.Header{
		PatientID:          "Patient X",
		RecordingID:        "Recording 1",
		StartTime:          time.Date(2024, time.May, 4, 22, 13, 7, 0, time.UTC),
		DataRecordDuration: time.Second,
		Signals: []edf.Signal{
			{
				Label:             "EEG Fpz-Cz",
				TransducerType:    "AgAgCl electrode",
				PhysicalDimension: "uV",
				PhysicalMin:       -500,
				PhysicalMax:       500,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				SamplesPerRecord:  4,
			},
		},
	}

	physical := []float64{-500, -250, 0, 250, 500, 1000}

	var buf bytes.Buffer
	require.NoError(t, edf.Write(&buf, hdr, [][]float64{physical}))

	b := buf.Bytes()
	require.Len(t, b, 512+2*4*2)

	field := func(from, to int) string {
		return strings.TrimSpace(string(b[from:to]))
	}

	assert.Equal(t, "0", field(0, 8))
	assert.Equal(t, "Patient X", field(8, 88))
	assert.Equal(t, "04.05.24", field(168, 176))
	assert.Equal(t, "22.13.07", field(176, 184))
	assert.Equal(t, "512", field(184, 192))
	assert.Equal(t, "2", field(236, 244))
	assert.Equal(t, "1", field(244, 252))
	assert.Equal(t, "1", field(252, 256))
	assert.Equal(t, "EEG Fpz-Cz", field(256, 272))
	assert.Equal(t, "uV", field(352, 360))
	assert.Equal(t, "-500", field(360, 368))
	assert.Equal(t, "500", field(368, 376))
	assert.Equal(t, "-2048", field(376, 384))
	assert.Equal(t, "2047", field(384, 392))
	assert.Equal(t, "4", field(472, 480))

	spr, err := strconv.Atoi(field(472, 480))
	require.NoError(t, err)
	require.Equal(t, 4, spr)

	// Out of range values saturate, the padding is physical zero.
	expected := []float64{-500, -250, 0, 250, 500, 500, 0, 0}
	for i, want := range expected {
		digital := int16(binary.LittleEndian.Uint16(b[512+i*2:]))
		got := -500 + (float64(digital)+2048)*1000/4095
		assert.InDelta(t, want, got, 0.5, "sample %d", i)
	}
}

func TestWriteErrors(t *testing.T) {
	hdr := edf.Header{
		DataRecordDuration: time.Second,
		Signals:            []edf.Signal{{Label: "A", PhysicalMin: -1, PhysicalMax: 1, DigitalMin: -1, DigitalMax: 1}},
	}

	var buf bytes.Buffer
	require.Error(t, edf.Write(&buf, hdr, [][]float64{{0}}))

	hdr.Signals[0].SamplesPerRecord = 1
	require.Error(t, edf.Write(&buf, hdr, nil))
}

func TestWritePhysicalRange(t *testing.T) {
	tests := []struct {
		name       string
		pmin, pmax float64
		wantMin    string
		wantMax    string
	}{
		{"Volts", -5e-5, 5e-5, "-5e-05", "5e-05"},
		{"Large", -123456789.5, 123456789.5, "-1.3e+08", "1.3e+08"},
		{"Fraction", -0.123456789, 0.987654321, "-0.12346", "0.987655"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hdr := edf.Header{
				DataRecordDuration: time.Second,
				Signals: []edf.Signal{{
					Label:            "EEG",
					PhysicalMin:      tt.pmin,
					PhysicalMax:      tt.pmax,
					DigitalMin:       -32768,
					DigitalMax:       32767,
					SamplesPerRecord: 2,
				}},
			}

			var buf bytes.Buffer
			require.NoError(t, edf.Write(&buf, hdr, [][]float64{{tt.pmin, tt.pmax}}))

			b := buf.Bytes()
			pmin := strings.TrimSpace(string(b[360:368]))
			pmax := strings.TrimSpace(string(b[368:376]))
			assert.Equal(t, tt.wantMin, pmin)
			assert.Equal(t, tt.wantMax, pmax)

			// The header range contains the data and decodes it back.
			physMin, err := strconv.ParseFloat(pmin, 64)
			require.NoError(t, err)
			physMax, err := strconv.ParseFloat(pmax, 64)
			require.NoError(t, err)
			require.LessOrEqual(t, physMin, tt.pmin)
			require.GreaterOrEqual(t, physMax, tt.pmax)

			step := (physMax - physMin) / 65535
			for i, want := range []float64{tt.pmin, tt.pmax} {
				digital := int16(binary.LittleEndian.Uint16(b[512+i*2:]))
				got := physMin + (float64(digital)+32768)*step
				assert.InDelta(t, want, got, step, "sample %d", i)
			}
		})
	}

	hdr := edf.Header{
		DataRecordDuration: time.Second,
		Signals:            []edf.Signal{{Label: "EEG", PhysicalMin: math.Inf(-1), PhysicalMax: 1, DigitalMin: -1, DigitalMax: 1, SamplesPerRecord: 1}},
	}
	var buf bytes.Buffer
	require.Error(t, edf.Write(&buf, hdr, [][]float64{{0}}))
}

func TestWriteRecordSize(t *testing.T) {
	signal := edf.Signal{Label: "EEG", PhysicalMin: -1, PhysicalMax: 1, DigitalMin: -32768, DigitalMax: 32767, SamplesPerRecord: 500}

	hdr := edf.Header{DataRecordDuration: time.Second}
	channels := make([][]float64, 64)
	for range channels {
		hdr.Signals = append(hdr.Signals, signal)
	}

	var buf bytes.Buffer
	require.Error(t, edf.Write(&buf, hdr, channels))

	// Half second records fit.
	hdr.DataRecordDuration = 500 * time.Millisecond
	for i := range hdr.Signals {
		hdr.Signals[i].SamplesPerRecord = 250
	}
	buf.Reset()
	require.NoError(t, edf.Write(&buf, hdr, channels))
	assert.Equal(t, "0.5", strings.TrimSpace(string(buf.Bytes()[244:252])))
}
