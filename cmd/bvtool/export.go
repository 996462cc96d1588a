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
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/OpenPSG/brainvision"
	"github.com/OpenPSG/brainvision/internal/logger"
	"github.com/OpenPSG/brainvision/internal/stats"
)

type exportDocument struct {
	Version         string          `json:"version"`
	BinaryFormat    string          `json:"binary_format"`
	Orientation     string          `json:"orientation"`
	BigEndian       bool            `json:"big_endian"`
	SamplingRate    float64         `json:"sampling_rate_hz"`
	StartTime       *time.Time      `json:"start_time,omitempty"`
	RecorderVersion string          `json:"recorder_version,omitempty"`
	Scaled          bool            `json:"scaled"`
	Channels        []exportChannel `json:"channels"`
	Markers         []exportMarker  `json:"markers"`
}

type exportChannel struct {
	Label      string        `json:"label"`
	Reference  string        `json:"reference,omitempty"`
	Resolution *float64      `json:"resolution,omitempty"`
	Unit       string        `json:"unit"`
	Stats      stats.Summary `json:"stats"`
	Samples    []float64     `json:"samples"`
}

type exportMarker struct {
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	Position    int        `json:"position"`
	Points      int        `json:"points"`
	Channel     int        `json:"channel"`
	Date        *time.Time `json:"date,omitempty"`
}

func exportCmd(opts *globalOptions) *cli.Command {
	var out string

	return &cli.Command{
		Name:      "export",
		Usage:     "Export a recording as JSON",
		ArgsUsage: "<header.vhdr>",
		Flags: []cli.Flag{
			scaleFlag(opts),
			&cli.BoolFlag{
				Name:        "pretty",
				Usage:       "indent the JSON output",
				Destination: &opts.prettyJSON,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file, - for stdout",
				Value:       "-",
				Destination: &out,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := opts.setup(ctx, cmd)
			if err != nil {
				return err
			}

			rec, err := opts.openRecording(ctx, cmd)
			if err != nil {
				return err
			}

			doc := newExportDocument(rec)
			if out == "-" {
				err = writeJSON(cmd.Root().Writer, doc, opts.prettyJSON)
			} else {
				err = writeJSONFile(out, doc, opts.prettyJSON)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: write JSON: %v", err), 1)
			}

			logger.FromContext(ctx).Info("Exported recording",
				slog.String("out", out), slog.Int("channels", rec.Data.Channels))
			return nil
		},
	}
}

func newExportDocument(rec *brainvision.Recording) *exportDocument {
	doc := &exportDocument{
		Version:         rec.Header.Version,
		BinaryFormat:    rec.Header.BinaryFormat.String(),
		Orientation:     rec.Header.DataOrientation.String(),
		BigEndian:       rec.Header.BigEndian,
		SamplingRate:    rec.SamplingRate(),
		RecorderVersion: rec.Header.RecorderVersion,
		Scaled:          rec.Data.Scaled(),
		Channels:        make([]exportChannel, len(rec.Data.Samples)),
		Markers:         make([]exportMarker, len(rec.Markers.Entries)),
	}
	if start, ok := rec.Markers.StartTime(); ok {
		doc.StartTime = &start
	}

	for i, samples := range rec.Data.Samples {
		var ch brainvision.ChannelInfo
		if i < len(rec.Header.Channels) {
			ch = rec.Header.Channels[i]
		}
		doc.Channels[i] = exportChannel{
			Label:      ch.Label,
			Reference:  ch.Reference,
			Resolution: ch.Resolution,
			Unit:       ch.Unit.String(),
			Stats:      stats.Summarize(samples),
			Samples:    samples,
		}
	}

	for i, mk := range rec.Markers.Entries {
		doc.Markers[i] = exportMarker{
			Name:        mk.Name,
			Type:        mk.Type,
			Description: mk.Description,
			Position:    mk.Position,
			Points:      mk.Points,
			Channel:     mk.Channel,
		}
		if !mk.Date.IsZero() {
			date := mk.Date
			doc.Markers[i].Date = &date
		}
	}

	return doc
}

func writeJSONFile(path string, v any, pretty bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeJSON(f, v, pretty); err != nil {
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(append(data, '\n'))
	return err
}
