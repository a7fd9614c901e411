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

package frame

const crc16AInit = 0x6363

// CRC16A computes the ISO/IEC 14443-3 Type A CRC of data.
// The result is in transmission order (low byte first).
func CRC16A(data []byte) [2]byte {
	crc := uint16(crc16AInit)
	for _, b := range data {
		ch := b ^ byte(crc&0x00FF)
		ch ^= ch << 4
		crc = (crc >> 8) ^ (uint16(ch) << 8) ^ (uint16(ch) << 3) ^ (uint16(ch) >> 4)
	}
	return [2]byte{byte(crc & 0xFF), byte(crc >> 8)}
}

// WithCRC16A returns a copy of data with its CRC_A appended.
func WithCRC16A(data []byte) []byte {
	crc := CRC16A(data)
	out := make([]byte, 0, len(data)+2)
	out = append(out, data...)
	return append(out, crc[0], crc[1])
}
