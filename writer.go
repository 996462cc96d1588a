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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Writer writes BrainVision recordings.
type Writer struct {
	hdr        *Header
	headerPath string
	f          *os.File
	w          *bufio.Writer
	vectorized [][]float64 // Channels buffered until Close for VECTORIZED data.
	markers    []Marker
	samples    int // Number of samples per channel written so far.
}

// Create creates a new BrainVision recording. The header is written to
// headerPath, the data and marker files are created next to it.
func Create(headerPath string, hdr Header) (*Writer, error) {
	if len(hdr.Channels) == 0 {
		return nil, ErrInvalidChannelCount
	}
	if hdr.BinaryFormat.Width() == 0 {
		return nil, ErrInvalidBinaryFormat
	}
	if hdr.DataOrientation == OrientationUnknown {
		return nil, ErrInvalidDataOrientation
	}
	for i, ch := range hdr.Channels {
		if ch.Resolution != nil && *ch.Resolution == 0 {
			return nil, fmt.Errorf("channel %d has a zero resolution", i)
		}
	}

	base := strings.TrimSuffix(filepath.Base(headerPath), filepath.Ext(headerPath))

	hdr.Version = "1.0"
	hdr.Codepage = CodepageUTF8
	hdr.DataFormat = DataFormatBinary
	hdr.DataType = DataTypeTimeDomain
	hdr.NumChannels = len(hdr.Channels)
	if hdr.DataFile == "" {
		hdr.DataFile = base + ".eeg"
	}
	if hdr.MarkerFile == "" {
		hdr.MarkerFile = base + ".vmrk"
	}

	f, err := os.Create(filepath.Join(filepath.Dir(headerPath), hdr.DataFile))
	if err != nil {
		return nil, fmt.Errorf("error creating data file: %w", err)
	}

	bw := &Writer{
		hdr:        &hdr,
		headerPath: headerPath,
		f:          f,
		w:          bufio.NewWriter(f),
	}
	if hdr.DataOrientation == OrientationVectorized {
		bw.vectorized = make([][]float64, hdr.NumChannels)
	}

	return bw, nil
}

// AddMarker appends a marker to the marker file written on Close.
func (bw *Writer) AddMarker(mk Marker) {
	bw.markers = append(bw.markers, mk)
}

// WriteRecord appends physical values for every channel. Each value is
// divided by the channel resolution before it is encoded.
func (bw *Writer) WriteRecord(signals [][]float64) error {
	if len(signals) != bw.hdr.NumChannels {
		return fmt.Errorf("expected %d signals, got %d", bw.hdr.NumChannels, len(signals))
	}

	n := len(signals[0])
	for i, signal := range signals {
		if len(signal) != n {
			return &MalformedChannelError{Channel: i, Expected: n, Got: len(signal)}
		}
	}

	if bw.vectorized != nil {
		for i, signal := range signals {
			for _, v := range signal {
				bw.vectorized[i] = append(bw.vectorized[i], bw.toRaw(i, v))
			}
		}
		bw.samples += n
		return nil
	}

	raw := make([]float64, 0, n*len(signals))
	for j := 0; j < n; j++ {
		for i := range signals {
			raw = append(raw, bw.toRaw(i, signals[i][j]))
		}
	}

	if err := bw.writeSamples(raw); err != nil {
		return err
	}

	bw.samples += n
	return nil
}

// Close flushes the data file and writes the header and marker files.
func (bw *Writer) Close() error {
	for _, signal := range bw.vectorized {
		if err := bw.writeSamples(signal); err != nil {
			_ = bw.f.Close()
			return err
		}
	}

	if err := bw.w.Flush(); err != nil {
		_ = bw.f.Close()
		return fmt.Errorf("error writing data file: %w", err)
	}
	if err := bw.f.Close(); err != nil {
		return fmt.Errorf("error closing data file: %w", err)
	}

	if len(bw.markers) == 0 && !bw.hdr.StartTime.IsZero() {
		bw.markers = append(bw.markers, Marker{
			Type:     "New Segment",
			Position: 1,
			Points:   1,
			Date:     bw.hdr.StartTime,
		})
	}

	if err := writeFile(bw.headerPath, func(w io.Writer) error {
		return WriteHeader(w, bw.hdr)
	}); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	markerPath := filepath.Join(filepath.Dir(bw.headerPath), bw.hdr.MarkerFile)
	if err := writeFile(markerPath, func(w io.Writer) error {
		return WriteMarkers(w, bw.hdr.DataFile, bw.markers)
	}); err != nil {
		return fmt.Errorf("error writing markers: %w", err)
	}

	return nil
}

func (bw *Writer) writeSamples(raw []float64) error {
	b, err := EncodeSamples(raw, bw.hdr.BinaryFormat, bw.hdr.BigEndian)
	if err != nil {
		return err
	}
	if _, err := bw.w.Write(b); err != nil {
		return fmt.Errorf("error writing data file: %w", err)
	}
	return nil
}

// toRaw converts a physical value to the raw sample unit of channel i.
func (bw *Writer) toRaw(i int, physical float64) float64 {
	if res := bw.hdr.Channels[i].Resolution; res != nil {
		return physical / *res
	}
	return physical
}

// WriteHeader writes a BrainVision header file.
func WriteHeader(w io.Writer, hdr *Header) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Brain Vision Data Exchange Header File Version %s\n", hdr.Version)
	fmt.Fprintf(bw, "; Data created by github.com/OpenPSG/brainvision\n\n")

	fmt.Fprintf(bw, "[Common Infos]\n")
	fmt.Fprintf(bw, "Codepage=%s\n", hdr.Codepage)
	fmt.Fprintf(bw, "DataFile=%s\n", hdr.DataFile)
	fmt.Fprintf(bw, "MarkerFile=%s\n", hdr.MarkerFile)
	fmt.Fprintf(bw, "DataFormat=%s\n", hdr.DataFormat)
	fmt.Fprintf(bw, "; Data orientation: MULTIPLEXED=ch1,pt1, ch2,pt1 ...\n")
	fmt.Fprintf(bw, "DataOrientation=%s\n", hdr.DataOrientation)
	fmt.Fprintf(bw, "DataType=%s\n", hdr.DataType)
	fmt.Fprintf(bw, "NumberOfChannels=%d\n", hdr.NumChannels)
	fmt.Fprintf(bw, "; Sampling interval in microseconds\n")
	fmt.Fprintf(bw, "SamplingInterval=%d\n\n", hdr.SamplingInterval)

	fmt.Fprintf(bw, "[Binary Infos]\n")
	fmt.Fprintf(bw, "BinaryFormat=%s\n", hdr.BinaryFormat)
	fmt.Fprintf(bw, "UseBigEndianOrder=%s\n\n", yesNo(hdr.BigEndian))

	fmt.Fprintf(bw, "[Channel Infos]\n")
	fmt.Fprintf(bw, "; Each entry: Ch<Channel number>=<Name>,<Reference channel name>,\n")
	fmt.Fprintf(bw, "; <Resolution in \"Unit\">,<Unit>, Future extensions..\n")
	fmt.Fprintf(bw, "; Fields are delimited by commas, some fields might be omitted (empty).\n")
	fmt.Fprintf(bw, "; Commas in channel names are coded as \"\\1\".\n")
	for i, ch := range hdr.Channels {
		var res string
		if ch.Resolution != nil {
			res = strconv.FormatFloat(*ch.Resolution, 'g', -1, 64)
		}
		fmt.Fprintf(bw, "Ch%d=%s,%s,%s,%s\n", i+1, escapeField(ch.Label), escapeField(ch.Reference), res, ch.Unit)
	}

	return bw.Flush()
}

// WriteMarkers writes a BrainVision marker file. Marker names are
// assigned in order (Mk1, Mk2, ...).
func WriteMarkers(w io.Writer, dataFile string, markers []Marker) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Brain Vision Data Exchange Marker File, Version 1.0\n\n")

	fmt.Fprintf(bw, "[Common Infos]\n")
	fmt.Fprintf(bw, "Codepage=%s\n", CodepageUTF8)
	fmt.Fprintf(bw, "DataFile=%s\n\n", dataFile)

	fmt.Fprintf(bw, "[Marker Infos]\n")
	fmt.Fprintf(bw, "; Each entry: Mk<Marker number>=<Type>,<Description>,<Position in data points>,\n")
	fmt.Fprintf(bw, "; <Size in data points>, <Channel number (0 = marker is related to all channels)>\n")
	fmt.Fprintf(bw, "; Fields are delimited by commas, some fields might be omitted (empty).\n")
	fmt.Fprintf(bw, "; Commas in type or description text are coded as \"\\1\".\n")
	for i, mk := range markers {
		fmt.Fprintf(bw, "Mk%d=%s,%s,%d,%d,%d", i+1, escapeField(mk.Type), escapeField(mk.Description),
			mk.Position, mk.Points, mk.Channel)
		if !mk.Date.IsZero() {
			fmt.Fprintf(bw, ",%s", FormatTimecode(mk.Date))
		}
		fmt.Fprintf(bw, "\n")
	}

	return bw.Flush()
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func escapeField(s string) string {
	return strings.ReplaceAll(s, ",", `\1`)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
