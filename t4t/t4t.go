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

// Package t4t reads NDEF messages from NFC Forum Type 4 Tags, which is what
// an Android HCE service exposes when it emulates an NDEF tag.
package t4t

import (
	"errors"
	"fmt"

	"github.com/hsanjuan/go-ndef"

	"github.com/ZaparooProject/go-pn532-hce/apdu"
)

// NDEF Tag Application and file identifiers, mapping version 2.0
var ApplicationAID = []byte{0xD2, 0x76, 0x00, 0x00, 0x85, 0x01, 0x01}

const (
	CCFileID        uint16 = 0xE103
	ccLength               = 15
	ndefFileControl        = 0x04
	accessGranted          = 0x00
	maxReadChunk           = 0xFF
)

var (
	ErrStatus      = errors.New("unexpected status word")
	ErrMalformedCC = errors.New("malformed capability container")
	ErrNotReadable = errors.New("NDEF file is not readable")
	ErrNoNDEF      = errors.New("NDEF file is empty")
)

// StatusError carries the status word of a failed command.
type StatusError struct {
	Op string
	SW uint16
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %04X", e.Op, e.SW)
}

func (*StatusError) Unwrap() error {
	return ErrStatus
}

// Exchanger sends one command APDU and returns the response APDU.
// pn532.TagSession satisfies it.
type Exchanger interface {
	Exchange(command []byte) ([]byte, error)
}

// CapabilityContainer is the parsed CC file.
type CapabilityContainer struct {
	MappingVersion byte
	MaxRead        uint16
	MaxWrite       uint16
	FileID         uint16
	MaxSize        uint16
	ReadAccess     byte
	WriteAccess    byte
}

// ParseCapabilityContainer parses the first NDEF File Control TLV of a CC file.
func ParseCapabilityContainer(b []byte) (*CapabilityContainer, error) {
	if len(b) < ccLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedCC, len(b))
	}
	if b[7] != ndefFileControl || b[8] < 6 {
		return nil, fmt.Errorf("%w: no NDEF file control TLV", ErrMalformedCC)
	}
	cc := &CapabilityContainer{
		MappingVersion: b[2],
		MaxRead:        be16(b[3:5]),
		MaxWrite:       be16(b[5:7]),
		FileID:         be16(b[9:11]),
		MaxSize:        be16(b[11:13]),
		ReadAccess:     b[13],
		WriteAccess:    b[14],
	}
	if cc.MaxRead == 0 {
		return nil, fmt.Errorf("%w: MLe is zero", ErrMalformedCC)
	}
	return cc, nil
}

// ReadNDEF selects the NDEF application, reads the capability container
// and then the NDEF file, and parses its message.
func ReadNDEF(x Exchanger) (*ndef.Message, error) {
	if _, err := command(x, "select NDEF application", append(apdu.SelectAID(ApplicationAID), 0x00)); err != nil {
		return nil, err
	}
	if _, err := command(x, "select CC file", apdu.SelectFile(CCFileID)); err != nil {
		return nil, err
	}
	raw, err := command(x, "read CC file", apdu.ReadBinary(0, ccLength))
	if err != nil {
		return nil, err
	}
	cc, err := ParseCapabilityContainer(raw)
	if err != nil {
		return nil, err
	}
	if cc.ReadAccess != accessGranted {
		return nil, fmt.Errorf("%w: access byte %02X", ErrNotReadable, cc.ReadAccess)
	}

	if _, err := command(x, "select NDEF file", apdu.SelectFile(cc.FileID)); err != nil {
		return nil, err
	}
	nlenRaw, err := command(x, "read NLEN", apdu.ReadBinary(0, 2))
	if err != nil {
		return nil, err
	}
	if len(nlenRaw) != 2 {
		return nil, fmt.Errorf("%w: NLEN of %d bytes", ErrMalformedCC, len(nlenRaw))
	}
	nlen := int(be16(nlenRaw))
	if nlen == 0 {
		return nil, ErrNoNDEF
	}
	if cc.MaxSize >= 2 && nlen > int(cc.MaxSize)-2 {
		return nil, fmt.Errorf("%w: NLEN %d exceeds file size %d", ErrMalformedCC, nlen, cc.MaxSize)
	}

	chunk := min(int(cc.MaxRead), maxReadChunk)
	body := make([]byte, 0, nlen)
	for len(body) < nlen {
		n := min(chunk, nlen-len(body))
		offset := 2 + len(body)
		part, err := command(x, "read NDEF", apdu.ReadBinary(uint16(offset), byte(n)))
		if err != nil {
			return nil, err
		}
		if len(part) == 0 {
			return nil, fmt.Errorf("read NDEF at offset %d: empty response", offset)
		}
		body = append(body, part...)
	}

	msg := &ndef.Message{}
	if _, err := msg.Unmarshal(body[:nlen]); err != nil {
		return nil, fmt.Errorf("parse NDEF message: %w", err)
	}
	return msg, nil
}

func command(x Exchanger, op string, cmd []byte) ([]byte, error) {
	resp, err := x.Exchange(cmd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !apdu.IsSuccess(resp) {
		return nil, &StatusError{Op: op, SW: apdu.StatusWord(resp)}
	}
	return apdu.Data(resp), nil
}

func be16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
