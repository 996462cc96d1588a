// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package stats summarises decoded channel data.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a single channel.
type Summary struct {
	Samples int     `json:"samples"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	RMS     float64 `json:"rms"`
}

// Summarize computes the statistics of x. An empty channel yields a zero
// Summary.
func Summarize(x []float64) Summary {
	if len(x) == 0 {
		return Summary{}
	}

	s := Summary{
		Samples: len(x),
		Min:     floats.Min(x),
		Max:     floats.Max(x),
	}
	s.Mean, s.StdDev = stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		s.StdDev = 0
	}
	s.RMS = floats.Norm(x, 2) / math.Sqrt(float64(len(x)))

	return s
}

// SummarizeAll computes the statistics of every channel.
func SummarizeAll(channels [][]float64) []Summary {
	summaries := make([]Summary, len(channels))
	for i, x := range channels {
		summaries[i] = Summarize(x)
	}
	return summaries
}
