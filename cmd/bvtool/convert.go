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
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gonum.org/v1/gonum/floats"

	"github.com/OpenPSG/brainvision"
	"github.com/OpenPSG/brainvision/internal/edf"
	"github.com/OpenPSG/brainvision/internal/logger"
)

// EDF uses 01.01.85 as the start date when the real one is unknown.
var edfUnknownStart = time.Date(1985, time.January, 1, 0, 0, 0, 0, time.UTC)

func convertCmd(opts *globalOptions) *cli.Command {
	var (
		out       string
		patientID string
	)

	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a recording to EDF",
		ArgsUsage: "<header.vhdr>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output EDF file (defaults to the header name with an .edf extension)",
				Destination: &out,
			},
			&cli.StringFlag{
				Name:        "patient",
				Usage:       "patient identification written to the EDF header",
				Value:       "X X X X",
				Destination: &patientID,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := opts.setup(ctx, cmd)
			if err != nil {
				return err
			}
			// EDF stores physical ranges, so the samples must be in physical units.
			opts.scale = true

			rec, err := opts.openRecording(ctx, cmd)
			if err != nil {
				return err
			}

			if out == "" {
				headerPath := cmd.Args().First()
				out = strings.TrimSuffix(headerPath, filepath.Ext(headerPath)) + ".edf"
			}

			hdr, err := edfHeader(rec, patientID)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if err := writeEDF(out, hdr, rec.Data.Samples); err != nil {
				return cli.Exit(fmt.Sprintf("error: write EDF: %v", err), 1)
			}

			logger.FromContext(ctx).Info("Converted recording",
				slog.String("out", out),
				slog.Int("signals", len(hdr.Signals)),
				slog.Int("samplesPerRecord", hdr.Signals[0].SamplesPerRecord))
			return nil
		},
	}
}

// edfHeader describes a scaled recording as EDF signals. Data records are
// one second long unless that exceeds the EDF record size limit.
func edfHeader(rec *brainvision.Recording, patientID string) (edf.Header, error) {
	rate := rec.SamplingRate()
	hz := int(math.Round(rate))
	if hz <= 0 || math.Abs(rate-float64(hz)) > 1e-6 {
		return edf.Header{}, fmt.Errorf("sampling rate %g Hz is not a whole number", rate)
	}
	if rec.Data.Channels == 0 {
		return edf.Header{}, brainvision.ErrInvalidChannelCount
	}

	spr, duration, err := recordLayout(hz, rec.Data.Channels)
	if err != nil {
		return edf.Header{}, err
	}

	start, ok := rec.Markers.StartTime()
	if !ok {
		start = edfUnknownStart
	}

	hdr := edf.Header{
		PatientID:          patientID,
		RecordingID:        "Startdate " + strings.ToUpper(start.Format("02-Jan-2006")) + " X X BrainVision",
		StartTime:          start,
		DataRecordDuration: duration,
		Signals:            make([]edf.Signal, rec.Data.Channels),
	}

	for i, samples := range rec.Data.Samples {
		var ch brainvision.ChannelInfo
		if i < len(rec.Header.Channels) {
			ch = rec.Header.Channels[i]
		}

		pmin, pmax := physicalRange(samples)
		hdr.Signals[i] = edf.Signal{
			Label:             ch.Label,
			PhysicalDimension: edfDimension(ch.Unit),
			PhysicalMin:       pmin,
			PhysicalMax:       pmax,
			DigitalMin:        math.MinInt16,
			DigitalMax:        math.MaxInt16,
			SamplesPerRecord:  spr,
		}
		if ch.Reference != "" {
			hdr.Signals[i].Label = ch.Label + "-" + ch.Reference
		}
	}

	return hdr, nil
}

// recordLayout splits each second into the fewest data records that fit
// the EDF record size limit. A record must hold a whole number of samples
// and its duration must be exact in the 8 character header field.
func recordLayout(hz, channels int) (int, time.Duration, error) {
	for parts := 1; parts <= hz; parts++ {
		if hz%parts != 0 || int(time.Second)%parts != 0 {
			continue
		}
		if len(strconv.FormatFloat(1/float64(parts), 'g', -1, 64)) > 8 {
			continue
		}
		spr := hz / parts
		if spr*channels*2 <= edf.MaxRecordSize {
			return spr, time.Second / time.Duration(parts), nil
		}
	}
	return 0, 0, fmt.Errorf("%d channels do not fit in an EDF data record", channels)
}

// physicalRange returns the range of x, widened so that it is never empty.
func physicalRange(x []float64) (float64, float64) {
	if len(x) == 0 {
		return -1, 1
	}

	lo, hi := floats.Min(x), floats.Max(x)
	if lo == hi {
		return lo - 1, hi + 1
	}
	return lo, hi
}

// edfDimension spells a unit in the ASCII only header of an EDF file.
func edfDimension(u brainvision.DataUnit) string {
	switch u {
	case brainvision.UnitMicroV:
		return "uV"
	case brainvision.UnitMicroS:
		return "uS"
	case brainvision.UnitCelsius:
		return "degC"
	case brainvision.UnitNA:
		return ""
	default:
		return u.String()
	}
}

func writeEDF(path string, hdr edf.Header, channels [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := edf.Write(f, hdr, channels); err != nil {
		return err
	}
	return f.Close()
}
