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

package pn532

// PN532 command codes. A reply echoes the command code plus one.
const (
	cmdGetFirmwareVersion  = 0x02
	cmdWriteRegister       = 0x08
	cmdSAMConfiguration    = 0x14
	cmdRFConfiguration     = 0x32
	cmdInDataExchange      = 0x40
	cmdInCommunicateThru   = 0x42
	cmdInListPassiveTarget = 0x4A
	cmdTgInitAsTarget      = 0x8C
)

// RFConfiguration config items
const (
	rfItemField      = 0x01
	rfItemMaxRetries = 0x05
	// auto RFCA on, RF field off
	rfFieldAutoRFCAOff = 0x02
)

// InListPassiveTarget baud rate / modulation
const (
	brTy106TypeA = 0x00
	brTy106TypeB = 0x03
)

const (
	samModeNormal   = 0x01
	firmwareIC      = 0x32
	firmwareReplyN  = 5
	targetModePICC  = 0x05
	maxTargetsOne   = 0x01
	afiAllFamilies  = 0x00
	typeBFallbackTg = 0x03
)

// Type B frames sent through InCommunicateThru
const (
	wupbCommand    = 0x05
	wupbParam      = 0x08
	sDeselectBlock = 0xC2
)

// CIU_BitFraming register (0x633D). Writing 0 clears TxLastBits so
// InCommunicateThru sends whole bytes.
var bitFramingRegister = []byte{0x63, 0x3D, 0x00}
