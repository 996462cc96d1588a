// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package brainvision

// BinaryFormat is the sample encoding of the binary data file.
type BinaryFormat int

const (
	FormatUnknown BinaryFormat = iota
	FormatIEEEFloat32
	FormatInt32
	FormatInt16
	FormatUint16
)

// ParseBinaryFormat maps a BinaryFormat header token to a BinaryFormat.
func ParseBinaryFormat(s string) BinaryFormat {
	switch s {
	case "IEEE_FLOAT_32":
		return FormatIEEEFloat32
	case "INT_32":
		return FormatInt32
	case "INT_16":
		return FormatInt16
	case "UINT_16":
		return FormatUint16
	default:
		return FormatUnknown
	}
}

func (f BinaryFormat) String() string {
	switch f {
	case FormatIEEEFloat32:
		return "IEEE_FLOAT_32"
	case FormatInt32:
		return "INT_32"
	case FormatInt16:
		return "INT_16"
	case FormatUint16:
		return "UINT_16"
	default:
		return "Unknown"
	}
}

// Width returns the number of bytes per sample, or 0 for FormatUnknown.
func (f BinaryFormat) Width() int {
	switch f {
	case FormatIEEEFloat32, FormatInt32:
		return 4
	case FormatInt16, FormatUint16:
		return 2
	default:
		return 0
	}
}

// DataOrientation is the interleaving of channels in the binary data file.
type DataOrientation int

const (
	OrientationUnknown DataOrientation = iota
	// OrientationMultiplexed stores one sample of every channel before the
	// next sample of any channel.
	OrientationMultiplexed
	// OrientationVectorized stores all samples of a channel contiguously.
	OrientationVectorized
)

// ParseDataOrientation maps a DataOrientation header token to a DataOrientation.
func ParseDataOrientation(s string) DataOrientation {
	switch s {
	case "MULTIPLEXED":
		return OrientationMultiplexed
	case "VECTORIZED":
		return OrientationVectorized
	default:
		return OrientationUnknown
	}
}

func (o DataOrientation) String() string {
	switch o {
	case OrientationMultiplexed:
		return "MULTIPLEXED"
	case OrientationVectorized:
		return "VECTORIZED"
	default:
		return "Unknown"
	}
}

type DataFormat int

const (
	DataFormatUnknown DataFormat = iota
	DataFormatBinary
	DataFormatASCII
)

func ParseDataFormat(s string) DataFormat {
	switch s {
	case "BINARY":
		return DataFormatBinary
	case "ASCII":
		return DataFormatASCII
	default:
		return DataFormatUnknown
	}
}

func (f DataFormat) String() string {
	switch f {
	case DataFormatBinary:
		return "BINARY"
	case DataFormatASCII:
		return "ASCII"
	default:
		return "Unknown"
	}
}

type DataType int

const (
	DataTypeUnknown DataType = iota
	DataTypeTimeDomain
	DataTypeFrequencyDomain
)

// ParseDataType maps a DataType header token to a DataType. An absent
// token means time domain.
func ParseDataType(s string) DataType {
	switch s {
	case "", "TIMEDOMAIN":
		return DataTypeTimeDomain
	case "FREQUENCYDOMAIN":
		return DataTypeFrequencyDomain
	default:
		return DataTypeUnknown
	}
}

func (t DataType) String() string {
	switch t {
	case DataTypeTimeDomain:
		return "TIMEDOMAIN"
	case DataTypeFrequencyDomain:
		return "FREQUENCYDOMAIN"
	default:
		return "Unknown"
	}
}

type Codepage int

const (
	CodepageUnknown Codepage = iota
	CodepageUTF8
	CodepageASCII
)

func ParseCodepage(s string) Codepage {
	switch s {
	case "UTF-8":
		return CodepageUTF8
	case "ASCII":
		return CodepageASCII
	default:
		return CodepageUnknown
	}
}

func (c Codepage) String() string {
	switch c {
	case CodepageUTF8:
		return "UTF-8"
	case CodepageASCII:
		return "ASCII"
	default:
		return "Unknown"
	}
}

// DataUnit is the physical unit of a channel after scaling.
type DataUnit int

const (
	UnitNA DataUnit = iota
	UnitV
	UnitMilliV
	UnitMicroV
	UnitNanoV
	UnitCelsius
	UnitSiemens
	UnitMicroS
	UnitARU // breathing data
	UnitNewton
)

// ParseDataUnit maps a channel unit token to a DataUnit. An empty token is
// microvolts, anything unrecognised is UnitNA.
func ParseDataUnit(s string) DataUnit {
	switch s {
	case "V":
		return UnitV
	case "mV":
		return UnitMilliV
	case "", "uV", "µV":
		return UnitMicroV
	case "nV":
		return UnitNanoV
	case "C", "°C":
		return UnitCelsius
	case "S":
		return UnitSiemens
	case "uS", "µS":
		return UnitMicroS
	case "ARU":
		return UnitARU
	case "N":
		return UnitNewton
	default:
		return UnitNA
	}
}

func (u DataUnit) String() string {
	switch u {
	case UnitV:
		return "V"
	case UnitMilliV:
		return "mV"
	case UnitMicroV:
		return "µV"
	case UnitNanoV:
		return "nV"
	case UnitCelsius:
		return "°C"
	case UnitSiemens:
		return "S"
	case UnitMicroS:
		return "µS"
	case UnitARU:
		return "ARU"
	case UnitNewton:
		return "N"
	default:
		return "n/a"
	}
}
