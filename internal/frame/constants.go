// go-pn532-hce
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-pn532-hce.
//
// go-pn532-hce is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-pn532-hce is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-pn532-hce; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package frame implements the PN532 normal information frame, its
// checksums and the CRC_A used for raw ISO/IEC 14443 frames.
package frame

// TFI values
const (
	HostToPn532 = 0xD4
	Pn532ToHost = 0xD5
)

// Framing bytes around LEN/LCS and the payload
const (
	Preamble   = 0x00
	StartCode1 = 0x00
	StartCode2 = 0xFF
	Postamble  = 0x00
)

const (
	// MaxFrameDataLength is the largest LEN of a normal frame. LEN counts
	// the TFI, leaving 254 bytes for the command and its parameters.
	MaxFrameDataLength = 255
	// HeaderLength covers preamble, start code, LEN, LCS and TFI.
	HeaderLength = 6
	// LongPreambleLength zeros wake the chip from power-down over HSU.
	LongPreambleLength = 20
)

var (
	// AckFrame is sent by both sides to acknowledge a command frame.
	AckFrame   = []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}
	StartCode  = []byte{Preamble, StartCode1, StartCode2}
	LongWakeup = make([]byte, LongPreambleLength)
)
