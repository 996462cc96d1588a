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
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/OpenPSG/brainvision"
	"github.com/OpenPSG/brainvision/internal/stats"
)

func inspectCmd(opts *globalOptions) *cli.Command {
	var showMarkers bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header, markers and channel statistics of a recording",
		ArgsUsage: "<header.vhdr>",
		Flags: []cli.Flag{
			scaleFlag(opts),
			&cli.BoolFlag{
				Name:        "markers",
				Usage:       "list every marker",
				Value:       true,
				Destination: &showMarkers,
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

			if err := printRecording(cmd.Root().Writer, rec, showMarkers); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}

func printRecording(w io.Writer, rec *brainvision.Recording, showMarkers bool) error {
	hdr := rec.Header

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Version:\t%s\n", hdr.Version)
	fmt.Fprintf(tw, "Codepage:\t%s\n", hdr.Codepage)
	fmt.Fprintf(tw, "Data file:\t%s\n", hdr.DataFile)
	fmt.Fprintf(tw, "Marker file:\t%s\n", hdr.MarkerFile)
	fmt.Fprintf(tw, "Binary format:\t%s\n", hdr.BinaryFormat)
	fmt.Fprintf(tw, "Orientation:\t%s\n", hdr.DataOrientation)
	fmt.Fprintf(tw, "Big endian:\t%t\n", hdr.BigEndian)
	fmt.Fprintf(tw, "Channels:\t%d\n", hdr.NumChannels)
	fmt.Fprintf(tw, "Samples per channel:\t%d\n", rec.Data.Len())
	if rate := rec.SamplingRate(); rate > 0 {
		fmt.Fprintf(tw, "Sampling rate:\t%g Hz\n", rate)
		duration := time.Duration(float64(rec.Data.Len()) / rate * float64(time.Second))
		fmt.Fprintf(tw, "Duration:\t%s\n", duration)
	}
	if start, ok := rec.Markers.StartTime(); ok {
		fmt.Fprintf(tw, "Start time:\t%s\n", start.Format(time.RFC3339Nano))
	}
	if hdr.RecorderVersion != "" {
		fmt.Fprintf(tw, "Recorder version:\t%s\n", hdr.RecorderVersion)
	}
	if hdr.ReferenceLabel != "" {
		fmt.Fprintf(tw, "Reference:\t%s (%d)\n", hdr.ReferenceLabel, hdr.ReferencePhysChan)
	}
	fmt.Fprintf(tw, "Scaled:\t%t\n", rec.Data.Scaled())
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tLabel\tRef\tResolution\tUnit\tMin\tMax\tMean\tStdDev\tRMS\t")
	for i, s := range stats.SummarizeAll(rec.Data.Samples) {
		var ch brainvision.ChannelInfo
		if i < len(hdr.Channels) {
			ch = hdr.Channels[i]
		}
		res := "-"
		if ch.Resolution != nil {
			res = fmt.Sprintf("%g", *ch.Resolution)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t\n",
			i+1, ch.Label, ch.Reference, res, ch.Unit, s.Min, s.Max, s.Mean, s.StdDev, s.RMS)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !showMarkers || len(rec.Markers.Entries) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tType\tDescription\tPosition\tPoints\tChannel")
	for _, mk := range rec.Markers.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			mk.Name, mk.Type, mk.Description, mk.Position, mk.Points, mk.Channel)
	}
	return tw.Flush()
}
