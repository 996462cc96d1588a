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

	"github.com/OpenPSG/brainvision/internal/logger"
)

func validateCmd(opts *globalOptions) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check that the header, channel infos and data of a recording agree",
		ArgsUsage: "<header.vhdr>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, err := opts.setup(ctx, cmd)
			if err != nil {
				return err
			}

			rec, err := opts.openRecording(ctx, cmd)
			if err != nil {
				return err
			}

			log := logger.FromContext(ctx).With(slog.String("header", cmd.Args().First()))
			if err := rec.Validate(); err != nil {
				log.Warn("Recording is invalid", slog.Any("error", err))
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			log.Info("Recording is valid")
			_, _ = fmt.Fprintln(cmd.Root().Writer, "ok")
			return nil
		},
	}
}
