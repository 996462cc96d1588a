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
)

var (
	headerVersionRe = regexp.MustCompile(`Brain ?Vision Data Exchange Header File,? Version (\d+\.\d+)`)
	channelInfoRe   = regexp.MustCompile(`(?m)^[ \t]*(Ch\d+)=([^\r\n]*)`)
	sectionRe       = regexp.MustCompile(`(?m)^[ \t]*\[[^\]\r\n]+\]`)

	recorderVersionRe     = regexp.MustCompile(`BrainVision Recorder Professional\s+-\s+V\. ([^\r\n]*)`)
	ampChannelsRe         = regexp.MustCompile(`Number of channels:[ \t]*(\d+)`)
	ampSamplingRateRe     = regexp.MustCompile(`Sampling Rate \[Hz\]:[ \t]*(\d+)`)
	ampSamplingIntervalRe = regexp.MustCompile(`Sampling Interval \[(?:µ|u)S\]:[ \t]*(\d+)`)
	referenceLabelRe      = regexp.MustCompile(`Reference Channel Name[ \t]*=[ \t]*(\S+)`)
	referencePhysChanRe   = regexp.MustCompile(`Reference Phys\. Chn\.[ \t]*=[ \t]*(\d+)`)
	goodLevelRe           = regexp.MustCompile(`Good Level \[kOhms\][ \t]*=[ \t]*(\d+)`)
	badLevelRe            = regexp.MustCompile(`Bad Level \[kOhms\][ \t]*=[ \t]*(\d+)`)
)

// keyRe matches "<key>=<value>" lines of the common and binary info sections.
var keyRe = map[string]*regexp.Regexp{}

func init() {
	for _, key := range []string{
		"Codepage", "DataFile", "MarkerFile", "DataFormat", "DataOrientation",
		"DataType", "NumberOfChannels", "SamplingInterval", "BinaryFormat",
		"UseBigEndianOrder",
	} {
		keyRe[key] = regexp.MustCompile(`(?m)^[ \t]*` + key + `=([^\r\n]*)`)
	}
}

// ReadHeader reads a BrainVision header file.
func ReadHeader(path string) (*Header, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading header file %q: %w", path, err)
	}

	return ParseHeader(string(b))
}

// ParseHeader parses the contents of a BrainVision header file. Only the
// version line is required, absent fields are left at their zero value.
func ParseHeader(text string) (*Header, error) {
	version, ok := capture(headerVersionRe, text)
	if !ok {
		return nil, ErrInvalidHeaderVersion
	}

	hdr := &Header{Version: version}

	hdr.Codepage = ParseCodepage(keyValue(text, "Codepage"))
	hdr.DataFile = keyValue(text, "DataFile")
	hdr.MarkerFile = keyValue(text, "MarkerFile")
	hdr.DataFormat = ParseDataFormat(keyValue(text, "DataFormat"))
	hdr.DataOrientation = ParseDataOrientation(keyValue(text, "DataOrientation"))
	hdr.DataType = ParseDataType(keyValue(text, "DataType"))
	hdr.NumChannels = parseInt(keyValue(text, "NumberOfChannels"))
	hdr.SamplingInterval = parseInt(keyValue(text, "SamplingInterval"))

	hdr.BinaryFormat = ParseBinaryFormat(keyValue(text, "BinaryFormat"))
	hdr.BigEndian = keyValue(text, "UseBigEndianOrder") == "YES"

	hdr.Channels = parseChannelInfo(section(text, "Channel Infos"))

	hdr.RecorderVersion, _ = capture(recorderVersionRe, text)
	hdr.AmpChannels = captureInt(ampChannelsRe, text)
	hdr.AmpSamplingRate = captureInt(ampSamplingRateRe, text)
	hdr.AmpSamplingInterval = captureInt(ampSamplingIntervalRe, text)
	hdr.ReferenceLabel, _ = capture(referenceLabelRe, text)
	hdr.ReferencePhysChan = captureInt(referencePhysChanRe, text)
	hdr.GoodLevel = captureInt(goodLevelRe, text)
	hdr.BadLevel = captureInt(badLevelRe, text)

	return hdr, nil
}

// parseChannelInfo parses the "Ch<n>=<label>,<ref>,<resolution>,<unit>"
// entries. Commas in labels are coded as "\1".
func parseChannelInfo(text string) []ChannelInfo {
	var channels []ChannelInfo
	for _, m := range channelInfoRe.FindAllStringSubmatch(text, -1) {
		fields := strings.Split(m[2], ",")
		if len(fields) < 3 {
			continue
		}

		ch := ChannelInfo{
			Name:      m[1],
			Label:     strings.ReplaceAll(fields[0], `\1`, ","),
			Reference: strings.ReplaceAll(fields[1], `\1`, ","),
		}

		if res, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64); err == nil {
			ch.Resolution = &res
		}

		var unit string
		if len(fields) > 3 {
			unit = strings.TrimSpace(fields[3])
		}
		ch.Unit = ParseDataUnit(unit)

		channels = append(channels, ch)
	}
	return channels
}

// section returns the body of "[name]" up to the next section header, or
// an empty string if the section is absent.
func section(text, name string) string {
	start := strings.Index(text, "["+name+"]")
	if start < 0 {
		return ""
	}
	body := text[start+len(name)+2:]
	if end := sectionRe.FindStringIndex(body); end != nil {
		body = body[:end[0]]
	}
	return body
}

func keyValue(text, key string) string {
	v, _ := capture(keyRe[key], text)
	return v
}

func capture(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func captureInt(re *regexp.Regexp, text string) int {
	v, _ := capture(re, text)
	return parseInt(v)
}

func parseInt(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}
