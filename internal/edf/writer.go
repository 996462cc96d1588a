// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package edf exports decoded recordings as EDF files.
package edf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
)

// Header represents the EDF file header.
type Header struct {
	PatientID          string        // Identification of the patient
	RecordingID        string        // Identification of the recording session
	StartTime          time.Time     // Start date of the recording
	DataRecordDuration time.Duration // Duration of a single data record, whole seconds
	Signals            []Signal      // Details of each signal
}

// Signal represents the characteristics of each signal in the EDF file.
type Signal struct {
	Label             string  // Label of the signal (e.g., EEG Fpz-Cz)
	TransducerType    string  // Type of transducer used
	PhysicalDimension string  // Physical dimension (e.g., uV, mV)
	PhysicalMin       float64 // Minimum physical value
	PhysicalMax       float64 // Maximum physical value
	DigitalMin        int     // Minimum digital value
	DigitalMax        int     // Maximum digital value
	Prefiltering      string  // Pre-filtering information
	SamplesPerRecord  int     // Number of samples in each data record for this signal
}

// MaxRecordSize is the largest data record, in bytes, recommended by the
// EDF standard.
const MaxRecordSize = 61440

// calibration holds the physical range of a signal as it is written to the
// header, and as it is parsed back by a reader.
type calibration struct {
	pmin, pmax       string
	physMin, physMax float64
}

// Write writes a complete EDF file. channels holds the physical values of
// each signal. The last data record is padded with zeros.
func Write(w io.Writer, hdr Header, channels [][]float64) error {
	if len(channels) != len(hdr.Signals) {
		return fmt.Errorf("expected %d signals, got %d", len(hdr.Signals), len(channels))
	}

	duration, err := formatNumber(hdr.DataRecordDuration.Seconds(), nil)
	if err != nil || hdr.DataRecordDuration <= 0 {
		return fmt.Errorf("invalid data record duration %s", hdr.DataRecordDuration)
	}

	records, recordSize := 0, 0
	cals := make([]calibration, len(hdr.Signals))
	for i, sig := range hdr.Signals {
		if sig.SamplesPerRecord <= 0 {
			return fmt.Errorf("signal %d has no samples per record", i)
		}
		n := (len(channels[i]) + sig.SamplesPerRecord - 1) / sig.SamplesPerRecord
		records = max(records, n)
		recordSize += sig.SamplesPerRecord * 2

		if cals[i], err = calibrate(sig); err != nil {
			return fmt.Errorf("signal %d: %w", i, err)
		}
	}

	if recordSize > MaxRecordSize {
		return fmt.Errorf("data record too large: %d bytes, max is %d bytes", recordSize, MaxRecordSize)
	}

	bw := bufio.NewWriter(w)

	if err := writeHeader(bw, &hdr, cals, duration, records); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	buf := make([]byte, 2)
	for r := 0; r < records; r++ {
		for i, sig := range hdr.Signals {
			for j := r * sig.SamplesPerRecord; j < (r+1)*sig.SamplesPerRecord; j++ {
				var physical float64
				if j < len(channels[i]) {
					physical = channels[i][j]
				}

				digital := convertPhysicalToDigital(physical, cals[i].physMin, cals[i].physMax, sig.DigitalMin, sig.DigitalMax)
				binary.LittleEndian.PutUint16(buf, uint16(digital))
				if _, err := bw.Write(buf); err != nil {
					return fmt.Errorf("error writing data record: %w", err)
				}
			}
		}
	}

	return bw.Flush()
}

func writeHeader(bw *bufio.Writer, hdr *Header, cals []calibration, duration string, records int) error {
	ns := len(hdr.Signals)

	fixed := []struct {
		width int
		value string
	}{
		{8, "0"},
		{80, hdr.PatientID},
		{80, hdr.RecordingID},
		{8, hdr.StartTime.Format("02.01.06")},
		{8, hdr.StartTime.Format("15.04.05")},
		{8, strconv.Itoa(256 + ns*256)},
		{44, ""},
		{8, strconv.Itoa(records)},
		{8, duration},
		{4, strconv.Itoa(ns)},
	}
	for _, f := range fixed {
		if err := writeField(bw, f.width, f.value); err != nil {
			return err
		}
	}

	// Signal fields are stored column by column.
	columns := []struct {
		width int
		value func(i int) string
	}{
		{16, func(i int) string { return hdr.Signals[i].Label }},
		{80, func(i int) string { return hdr.Signals[i].TransducerType }},
		{8, func(i int) string { return hdr.Signals[i].PhysicalDimension }},
		{8, func(i int) string { return cals[i].pmin }},
		{8, func(i int) string { return cals[i].pmax }},
		{8, func(i int) string { return strconv.Itoa(hdr.Signals[i].DigitalMin) }},
		{8, func(i int) string { return strconv.Itoa(hdr.Signals[i].DigitalMax) }},
		{80, func(i int) string { return hdr.Signals[i].Prefiltering }},
		{8, func(i int) string { return strconv.Itoa(hdr.Signals[i].SamplesPerRecord) }},
		{32, func(i int) string { return "" }},
	}
	for _, c := range columns {
		for i := range hdr.Signals {
			if err := writeField(bw, c.width, c.value(i)); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeField writes value as a space padded ASCII field, truncated to width.
func writeField(bw *bufio.Writer, width int, value string) error {
	if len(value) > width {
		value = value[:width]
	}
	_, err := fmt.Fprintf(bw, "%-*s", width, value)
	return err
}

// convertPhysicalToDigital converts a physical value to a digital value using the calibration factors.
func convertPhysicalToDigital(physical float64, pmin, pmax float64, dmin, dmax int) int16 {
	if pmax == pmin {
		return 0 // Avoid division by zero
	}
	digital := math.Round((physical-pmin)*float64(dmax-dmin)/(pmax-pmin)) + float64(dmin)
	return int16(math.Max(float64(dmin), math.Min(float64(dmax), digital)))
}

// calibrate formats the physical range of sig for the header, rounding
// outwards so that every sample stays inside it. The digital conversion uses
// the formatted values so that readers recover the same physical values.
func calibrate(sig Signal) (calibration, error) {
	var (
		cal calibration
		err error
	)
	if cal.pmin, err = formatNumber(sig.PhysicalMin, math.Floor); err != nil {
		return cal, fmt.Errorf("physical minimum: %w", err)
	}
	if cal.pmax, err = formatNumber(sig.PhysicalMax, math.Ceil); err != nil {
		return cal, fmt.Errorf("physical maximum: %w", err)
	}

	cal.physMin, _ = strconv.ParseFloat(cal.pmin, 64)
	cal.physMax, _ = strconv.ParseFloat(cal.pmax, 64)
	if cal.physMin >= cal.physMax {
		return cal, fmt.Errorf("empty physical range %s to %s", cal.pmin, cal.pmax)
	}
	if sig.DigitalMin >= sig.DigitalMax {
		return cal, fmt.Errorf("digital minimum %d is not below digital maximum %d", sig.DigitalMin, sig.DigitalMax)
	}

	return cal, nil
}

// formatNumber formats v with the most precision that fits an 8 character
// header field. Values that cannot be represented exactly are rounded with
// round (math.Floor or math.Ceil) at the last kept digit, or to the nearest
// value if round is nil.
func formatNumber(v float64, round func(float64) float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%g cannot be stored in the header", v)
	}

	for prec := 8; prec > 0; prec-- {
		s := strconv.FormatFloat(v, 'g', prec, 64)
		if round != nil {
			if parsed, _ := strconv.ParseFloat(s, 64); parsed != v {
				scale := math.Pow(10, math.Floor(math.Log10(math.Abs(v)))-float64(prec-1))
				s = strconv.FormatFloat(round(v/scale)*scale, 'g', prec, 64)
			}
		}
		if len(s) <= 8 {
			return s, nil
		}
	}

	return "", fmt.Errorf("%g does not fit in 8 characters", v)
}
