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

// Package apdu builds ISO/IEC 7816-4 command APDUs and checks response
// APDUs against expected fixtures.
package apdu

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Instruction bytes
const (
	insSelect     = 0xA4
	insReadBinary = 0xB0
)

// Status words
const (
	SWSuccess      uint16 = 0x9000
	SWFileNotFound uint16 = 0x6A82
	SWWrongP1P2    uint16 = 0x6B00
	SWInsNotSupp   uint16 = 0x6D00
	SWClaNotSupp   uint16 = 0x6E00
)

// ErrMalformed is returned for hex input that is not a valid APDU.
var ErrMalformed = errors.New("malformed APDU")

// SelectAID builds SELECT by DF name: 00 A4 04 00 Lc AID
func SelectAID(aid []byte) []byte {
	cmd := make([]byte, 0, 5+len(aid))
	cmd = append(cmd, 0x00, insSelect, 0x04, 0x00, byte(len(aid)))
	return append(cmd, aid...)
}

// SelectAIDHex is SelectAID for an AID written as hex.
func SelectAIDHex(aid string) ([]byte, error) {
	b, err := decodeHex(aid)
	if err != nil {
		return nil, fmt.Errorf("AID %q: %w", aid, err)
	}
	if len(b) < 5 || len(b) > 16 {
		return nil, fmt.Errorf("%w: AID must be 5 to 16 bytes, got %d", ErrMalformed, len(b))
	}
	return SelectAID(b), nil
}

// SelectFile builds SELECT by file identifier, first or only occurrence,
// no response data: 00 A4 00 0C 02 FID
func SelectFile(fid uint16) []byte {
	return []byte{0x00, insSelect, 0x00, 0x0C, 0x02, byte(fid >> 8), byte(fid)}
}

// ReadBinary builds READ BINARY of le bytes at offset in the current file.
func ReadBinary(offset uint16, le byte) []byte {
	return []byte{0x00, insReadBinary, byte(offset >> 8), byte(offset), le}
}

// StatusWord returns the trailing SW1 SW2 of a response, or 0 if the
// response is shorter than two bytes.
func StatusWord(resp []byte) uint16 {
	if len(resp) < 2 {
		return 0
	}
	return uint16(resp[len(resp)-2])<<8 | uint16(resp[len(resp)-1])
}

// IsSuccess reports whether resp ends in 90 00.
func IsSuccess(resp []byte) bool {
	return StatusWord(resp) == SWSuccess
}

// Data returns resp without its status word.
func Data(resp []byte) []byte {
	if len(resp) < 2 {
		return nil
	}
	return resp[:len(resp)-2]
}

// ParseHexAPDUs decodes one APDU per hex string. Spaces are ignored.
func ParseHexAPDUs(cmds []string) ([][]byte, error) {
	out := make([][]byte, 0, len(cmds))
	for i, s := range cmds {
		b, err := decodeHex(s)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		if len(b) < 4 {
			return nil, fmt.Errorf("command %d: %w: header needs 4 bytes, got %d", i, ErrMalformed, len(b))
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return b, nil
}
