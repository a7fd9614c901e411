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

package testing

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/hsanjuan/go-ndef"
)

// CardType is the RF technology a virtual card answers to
type CardType int

const (
	CardTypeA CardType = iota
	CardTypeB
)

// Type 4 Tag identifiers
var (
	NDEFApplicationAID = []byte{0xD2, 0x76, 0x00, 0x00, 0x85, 0x01, 0x01}
)

const (
	CCFileID   uint16 = 0xE103
	NDEFFileID uint16 = 0xE104
	// DefaultMaxRead is the MLe advertised in the capability container
	DefaultMaxRead = 0x3B
	ndefMaxSize    = 0x0400
)

var (
	swOK           = []byte{0x90, 0x00}
	swFileNotFound = []byte{0x6A, 0x82}
	swWrongP1P2    = []byte{0x6B, 0x00}
	swInsNotSupp   = []byte{0x6D, 0x00}
)

// VirtualCard simulates a phone running an HCE service, or any other
// ISO-DEP card. It answers APDUs from fixtures first and otherwise from
// a built-in Type 4 Tag NDEF application once one is installed.
type VirtualCard struct {
	fixtures map[string][]byte
	received [][]byte
	ndefFile []byte
	NFCID    []byte
	ATS      []byte
	SensBRes []byte
	// AppearsOnPoll is the 1-based Type A poll the card first answers.
	// Zero means it answers from the start.
	AppearsOnPoll int
	Type          CardType
	selected      uint16
	maxRead       int
	mu            sync.Mutex
	SensRes       [2]byte
	SelRes        byte
	appSelected   bool
	Present       bool
}

// NewTypeACard creates an ISO-DEP Type A card with the test fixture values.
func NewTypeACard() *VirtualCard {
	return &VirtualCard{
		Type:     CardTypeA,
		SensRes:  TestSensRes,
		SelRes:   TestSelRes,
		NFCID:    bytes.Clone(TestNFCID),
		ATS:      bytes.Clone(TestATS),
		Present:  true,
		fixtures: make(map[string][]byte),
		maxRead:  DefaultMaxRead,
	}
}

// NewTypeBCard creates an ISO/IEC 14443-4 Type B card with the test fixture values.
func NewTypeBCard() *VirtualCard {
	return &VirtualCard{
		Type:     CardTypeB,
		SensBRes: bytes.Clone(TestSensBRes),
		Present:  true,
		fixtures: make(map[string][]byte),
		maxRead:  DefaultMaxRead,
	}
}

// RespondTo makes the card answer command with response.
func (c *VirtualCard) RespondTo(command, response []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fixtures[hex.EncodeToString(command)] = bytes.Clone(response)
}

// SetNDEFText installs the NDEF application holding a single text record.
func (c *VirtualCard) SetNDEFText(text string) error {
	return c.SetNDEFMessage(ndef.NewTextMessage(text, "en"))
}

// SetNDEFMessage installs the NDEF application holding msg.
func (c *VirtualCard) SetNDEFMessage(msg *ndef.Message) error {
	payload, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("marshal NDEF message: %w", err)
	}
	if len(payload)+2 > ndefMaxSize {
		return fmt.Errorf("NDEF message of %d bytes does not fit", len(payload))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ndefFile = append([]byte{byte(len(payload) >> 8), byte(len(payload))}, payload...)
	return nil
}

// SetMaxRead changes the MLe advertised in the capability container.
func (c *VirtualCard) SetMaxRead(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxRead = n
}

// Remove takes the card out of the field
func (c *VirtualCard) Remove() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Present = false
}

// Insert puts the card back in the field
func (c *VirtualCard) Insert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Present = true
}

// Received returns every APDU the card was sent.
func (c *VirtualCard) Received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.received))
	copy(out, c.received)
	return out
}

func (c *VirtualCard) visible(t CardType, poll int) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Present || c.Type != t {
		return false
	}
	return poll >= c.AppearsOnPoll
}

// Process answers one command APDU.
func (c *VirtualCard) Process(command []byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, bytes.Clone(command))

	if resp, ok := c.fixtures[hex.EncodeToString(command)]; ok {
		return bytes.Clone(resp)
	}
	if c.ndefFile == nil {
		return bytes.Clone(swInsNotSupp)
	}
	return c.processType4(command)
}

func (c *VirtualCard) processType4(command []byte) []byte {
	if len(command) < 4 || command[0] != 0x00 {
		return bytes.Clone(swInsNotSupp)
	}
	ins, p1, p2 := command[1], command[2], command[3]

	switch {
	case ins == 0xA4 && p1 == 0x04:
		aid := lcData(command)
		c.appSelected = bytes.Equal(aid, NDEFApplicationAID)
		c.selected = 0
		if !c.appSelected {
			return bytes.Clone(swFileNotFound)
		}
		return bytes.Clone(swOK)

	case ins == 0xA4 && p1 == 0x00:
		fid := lcData(command)
		if !c.appSelected || len(fid) != 2 {
			return bytes.Clone(swFileNotFound)
		}
		id := uint16(fid[0])<<8 | uint16(fid[1])
		if id != CCFileID && id != NDEFFileID {
			return bytes.Clone(swFileNotFound)
		}
		c.selected = id
		return bytes.Clone(swOK)

	case ins == 0xB0:
		file := c.currentFile()
		if file == nil {
			return bytes.Clone(swFileNotFound)
		}
		offset := int(p1)<<8 | int(p2)
		le := 256
		if len(command) > 4 && command[4] != 0 {
			le = int(command[4])
		}
		if offset > len(file) {
			return bytes.Clone(swWrongP1P2)
		}
		end := min(offset+le, len(file))
		return append(bytes.Clone(file[offset:end]), swOK...)

	default:
		return bytes.Clone(swInsNotSupp)
	}
}

func (c *VirtualCard) currentFile() []byte {
	switch c.selected {
	case CCFileID:
		return c.capabilityContainer()
	case NDEFFileID:
		return c.ndefFile
	default:
		return nil
	}
}

// capabilityContainer is the 15 byte CC file of a mapping version 2.0 tag
// with one read-only NDEF file.
func (c *VirtualCard) capabilityContainer() []byte {
	return []byte{
		0x00, 0x0F,                                       // CCLEN
		0x20,                                             // mapping version
		byte(c.maxRead >> 8), byte(c.maxRead & 0xFF),     // MLe
		0x00, 0xFF,                                       // MLc
		0x04, 0x06,                                       // NDEF file control TLV
		byte(NDEFFileID >> 8), byte(NDEFFileID & 0xFF),   // file id
		byte(ndefMaxSize >> 8), byte(ndefMaxSize & 0xFF), // max file size
		0x00,                                             // read access
		0xFF,                                             // write access: none
	}
}

func lcData(command []byte) []byte {
	if len(command) < 5 {
		return nil
	}
	lc := int(command[4])
	if len(command) < 5+lc {
		return nil
	}
	return command[5 : 5+lc]
}
