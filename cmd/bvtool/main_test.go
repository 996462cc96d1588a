// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/OpenPSG/brainvision"
	"github.com/OpenPSG/brainvision/internal/edf"
)

const sampleHeader = "../../testdata/sample.vhdr"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	// Never pick up the config of the user running the tests.
	configPath := filepath.Join(t.TempDir(), "missing.yaml")
	err := app.Run(context.Background(), append([]string{"bvtool", "--config", configPath}, args...))
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nscale: true\npretty_json: false\n"), 0o644))

	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.LogFormat)
	require.NotNil(t, cfg.Scale)
	assert.True(t, *cfg.Scale)
	require.NotNil(t, cfg.PrettyJSON)
	assert.False(t, *cfg.PrettyJSON)

	require.NoError(t, os.WriteFile(path, []byte("scale: [1, 2\n"), 0o644))
	_, err = LoadConfig(path)
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", sampleHeader)
	require.NoError(t, err)

	assert.Contains(t, out, "INT_16")
	assert.Contains(t, out, "500 Hz")
	assert.Contains(t, out, "Fp1")
	assert.Contains(t, out, "EOG,left")
	assert.Contains(t, out, "1999-03-11T14:03:12.003012Z")
	assert.Contains(t, out, "New Segment")
	assert.Contains(t, out, "eyes,closed")
}

func TestExport(t *testing.T) {
	t.Run("Raw", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.json")
		_, err := run(t, "export", "--out", path, sampleHeader)
		require.NoError(t, err)

		doc := readExport(t, path)
		assert.False(t, doc.Scaled)
		assert.Equal(t, 500.0, doc.SamplingRate)
		require.NotNil(t, doc.StartTime)
		require.Len(t, doc.Channels, 3)
		assert.Equal(t, []float64{1, 2, 3, 4}, doc.Channels[0].Samples)
		assert.Equal(t, "EOG,left", doc.Channels[2].Label)
		assert.Equal(t, "Fz", doc.Channels[2].Reference)
		assert.Equal(t, "mV", doc.Channels[2].Unit)
		assert.Equal(t, 4, doc.Channels[1].Stats.Samples)
		assert.InDelta(t, -2.5, doc.Channels[1].Stats.Mean, 1e-12)
		require.Len(t, doc.Markers, 3)
		assert.Equal(t, "S  1", doc.Markers[1].Description)
		assert.Nil(t, doc.Markers[1].Date)
	})

	t.Run("Scaled", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.json")
		_, err := run(t, "export", "--scale", "--pretty", "--out", path, sampleHeader)
		require.NoError(t, err)

		doc := readExport(t, path)
		assert.True(t, doc.Scaled)
		assert.Equal(t, []float64{0.5, 1, 1.5, 2}, doc.Channels[0].Samples)
		assert.Equal(t, []float64{-1, -2, -3, -4}, doc.Channels[1].Samples)
		assert.InDeltaSlice(t, []float64{10, 20, 30, 40}, doc.Channels[2].Samples, 1e-9)
	})

	t.Run("ScaleFromConfig", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("scale: true\n"), 0o644))

		path := filepath.Join(dir, "sample.json")
		app := newApp()
		app.Writer = io.Discard
		app.ErrWriter = io.Discard
		err := app.Run(context.Background(), []string{"bvtool", "--config", configPath, "export", "--out", path, sampleHeader})
		require.NoError(t, err)

		doc := readExport(t, path)
		assert.True(t, doc.Scaled)
		assert.Equal(t, []float64{0.5, 1, 1.5, 2}, doc.Channels[0].Samples)
	})
}

func readExport(t *testing.T, path string) exportDocument {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc exportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestConvert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.edf")
	_, err := run(t, "convert", "--out", path, sampleHeader)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// 256 byte fixed header, 256 bytes per signal, one record of 500 samples per signal.
	require.Len(t, data, 256+3*256+3*500*2)
	assert.Equal(t, "0       ", string(data[0:8]))
	assert.Equal(t, "11.03.99", string(data[168:176]))
	assert.Equal(t, "1       ", string(data[236:244]))
	assert.Equal(t, "3   ", string(data[252:256]))
	assert.Equal(t, "Fp1", string(bytes.TrimSpace(data[256:272])))
	assert.Equal(t, "EOG,left-Fz", string(bytes.TrimSpace(data[288:304])))
}

func TestEDFHeader(t *testing.T) {
	rec, err := brainvision.Open(sampleHeader)
	require.NoError(t, err)
	require.NoError(t, rec.Scale())

	hdr, err := edfHeader(rec, "X X X X")
	require.NoError(t, err)

	assert.Equal(t, time.Second, hdr.DataRecordDuration)
	assert.Equal(t, time.Date(1999, time.March, 11, 14, 3, 12, 3012000, time.UTC), hdr.StartTime)
	require.Len(t, hdr.Signals, 3)
	assert.Equal(t, 500, hdr.Signals[0].SamplesPerRecord)
	assert.Equal(t, "uV", hdr.Signals[0].PhysicalDimension)
	assert.Equal(t, 0.5, hdr.Signals[0].PhysicalMin)
	assert.Equal(t, 2.0, hdr.Signals[0].PhysicalMax)
	assert.Equal(t, -32768, hdr.Signals[0].DigitalMin)
	assert.Equal(t, 32767, hdr.Signals[0].DigitalMax)

	rec.Header.SamplingInterval = 3
	_, err = edfHeader(rec, "X X X X")
	require.Error(t, err)
}

func TestPhysicalRange(t *testing.T) {
	lo, hi := physicalRange(nil)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 1.0, hi)

	lo, hi = physicalRange([]float64{3, 3, 3})
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 4.0, hi)

	lo, hi = physicalRange([]float64{-5, 1, 7})
	assert.Equal(t, -5.0, lo)
	assert.Equal(t, 7.0, hi)
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", sampleHeader)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, err = run(t, "validate", filepath.Join(t.TempDir(), "missing.vhdr"))
	require.Error(t, err)

	_, err = run(t, "validate")
	require.Error(t, err)
}

func TestRecordLayout(t *testing.T) {
	tests := []struct {
		hz, channels int
		spr          int
		duration     time.Duration
	}{
		{500, 3, 500, time.Second},
		{500, 64, 250, 500 * time.Millisecond},
		{512, 1000, 16, 31250 * time.Microsecond},
	}

	for _, tt := range tests {
		spr, duration, err := recordLayout(tt.hz, tt.channels)
		require.NoError(t, err)
		assert.Equal(t, tt.spr, spr)
		assert.Equal(t, tt.duration, duration)
		assert.LessOrEqual(t, spr*tt.channels*2, edf.MaxRecordSize)
	}

	_, _, err := recordLayout(500, 40000)
	require.Error(t, err)
}

func TestWriteJSONFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "doc.json")
	require.NoError(t, writeJSONFile(path, map[string]int{"channels": 3}, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"channels\": 3\n}\n", string(data))

	require.Error(t, writeJSONFile(filepath.Join(dir, "missing", "doc.json"), nil, false))
}
