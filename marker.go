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
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	markerVersionRe = regexp.MustCompile(`Brain ?Vision Data Exchange Marker File,? Version (\d+\.\d+)`)
	markerEntryRe   = regexp.MustCompile(`(?m)^[ \t]*(Mk\d+)=([^\r\n]*)`)
)

// timecodeLayout is the marker date format, e.g. 19990311140312003012 for
// 11 March 1999, 14:03:12.003012.
const timecodeLayout = "20060102150405.000000"

// ReadMarkers reads a BrainVision marker file.
func ReadMarkers(path string) (*Markers, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading marker file %q: %w", path, err)
	}

	return ParseMarkers(string(b))
}

// ParseMarkers parses the contents of a BrainVision marker file.
func ParseMarkers(text string) (*Markers, error) {
	version, ok := capture(markerVersionRe, text)
	if !ok {
		return nil, ErrInvalidMarkerVersion
	}

	m := &Markers{
		Version:  version,
		Codepage: ParseCodepage(keyValue(text, "Codepage")),
		DataFile: keyValue(text, "DataFile"),
	}

	for _, match := range markerEntryRe.FindAllStringSubmatch(section(text, "Marker Infos"), -1) {
		mk, err := parseMarker(match[1], match[2])
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, mk)
	}

	return m, nil
}

// parseMarker parses "<type>,<description>,<position>,<points>,<channel>[,<date>]".
func parseMarker(name, value string) (Marker, error) {
	fields := strings.Split(value, ",")
	if len(fields) < 5 {
		return Marker{}, fmt.Errorf("error parsing marker %s: expected at least 5 fields, got %d", name, len(fields))
	}

	mk := Marker{
		Name:        name,
		Type:        strings.ReplaceAll(fields[0], `\1`, ","),
		Description: strings.ReplaceAll(fields[1], `\1`, ","),
	}

	var err error
	if mk.Position, err = strconv.Atoi(strings.TrimSpace(fields[2])); err != nil {
		return Marker{}, fmt.Errorf("error parsing marker %s position: %w", name, err)
	}
	if mk.Points, err = optionalInt(fields[3], 1); err != nil {
		return Marker{}, fmt.Errorf("error parsing marker %s length: %w", name, err)
	}
	if mk.Channel, err = optionalInt(fields[4], 0); err != nil {
		return Marker{}, fmt.Errorf("error parsing marker %s channel: %w", name, err)
	}

	// Unknown dates are written as zeros, those and malformed dates are
	// treated as absent.
	if len(fields) > 5 {
		if date, err := ParseTimecode(strings.TrimSpace(fields[5])); err == nil {
			mk.Date = date
		}
	}

	return mk, nil
}

// optionalInt parses an integer field that may be left empty.
func optionalInt(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

// ParseTimecode parses a 20 digit marker date (YYYYMMDDhhmmssuuuuuu) as UTC.
func ParseTimecode(s string) (time.Time, error) {
	if len(s) != 20 {
		return time.Time{}, fmt.Errorf("invalid timecode %q: expected 20 digits", s)
	}
	return time.Parse(timecodeLayout, s[:14]+"."+s[14:])
}

// FormatTimecode formats t as a 20 digit marker date.
func FormatTimecode(t time.Time) string {
	return strings.Replace(t.UTC().Format(timecodeLayout), ".", "", 1)
}
