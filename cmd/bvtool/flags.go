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

	"github.com/urfave/cli/v3"

	"github.com/OpenPSG/brainvision"
	"github.com/OpenPSG/brainvision/internal/logger"
)

type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	scale      bool
	prettyJSON bool
}

func (o *globalOptions) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config file",
			Value:       configPath(),
			Destination: &o.configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("BVTOOL_LOG_LEVEL"),
			Destination: &o.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &o.logFormat,
		},
	}
}

func scaleFlag(o *globalOptions) cli.Flag {
	return &cli.BoolFlag{
		Name:        "scale",
		Usage:       "scale samples to physical units using the channel resolutions",
		Destination: &o.scale,
	}
}

// setup loads the config file, applies it to flags that were not set
// explicitly and attaches the logger to the returned context.
func (o *globalOptions) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	applyConfig(cmd, cfg, o)

	log, err := logger.New(cmd.Root().ErrWriter, o.logLevel, o.logFormat)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	return logger.WithContext(ctx, log), nil
}

// openRecording opens the recording named by the first argument and
// scales it if requested.
func (o *globalOptions) openRecording(ctx context.Context, cmd *cli.Command) (*brainvision.Recording, error) {
	if cmd.Args().Len() != 1 {
		return nil, cli.Exit("error: expected exactly one header file argument", 1)
	}
	headerPath := cmd.Args().First()
	log := logger.FromContext(ctx).With(slog.String("header", headerPath))

	rec, err := brainvision.Open(headerPath)
	if err != nil {
		log.Error("Failed to open recording", slog.Any("error", err))
		return nil, cli.Exit(fmt.Sprintf("error: open recording: %v", err), 1)
	}

	log.Debug("Opened recording",
		slog.Int("channels", rec.Data.Channels),
		slog.Int("samples", rec.Data.Len()),
		slog.String("format", rec.Header.BinaryFormat.String()),
		slog.String("orientation", rec.Header.DataOrientation.String()))

	if o.scale {
		if err := rec.Scale(); err != nil {
			log.Error("Failed to scale channels", slog.Any("error", err))
			return nil, cli.Exit(fmt.Sprintf("error: scale channels: %v", err), 1)
		}
	}

	return rec, nil
}
