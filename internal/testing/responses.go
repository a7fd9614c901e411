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

// Command codes understood by the simulator
const (
	CmdGetFirmwareVersion  = 0x02
	CmdWriteRegister       = 0x08
	CmdSAMConfiguration    = 0x14
	CmdRFConfiguration     = 0x32
	CmdInDataExchange      = 0x40
	CmdInCommunicateThru   = 0x42
	CmdInListPassiveTarget = 0x4A
	CmdTgInitAsTarget      = 0x8C
)

// InListPassiveTarget modulation types
const (
	BrTy106TypeA = 0x00
	BrTy106TypeB = 0x03
)

// PN532 status bytes
const (
	StatusTimeout  = 0x01
	StatusCRCError = 0x02
)

// BuildFirmwareVersionResponse creates a GetFirmwareVersion reply
func BuildFirmwareVersionResponse(ver, rev, support byte) []byte {
	return []byte{CmdGetFirmwareVersion + 1, 0x32, ver, rev, support}
}

// BuildNoTargetResponse creates an empty InListPassiveTarget reply
func BuildNoTargetResponse() []byte {
	return []byte{CmdInListPassiveTarget + 1, 0x00}
}

// BuildTypeAListing creates an InListPassiveTarget reply for a Type A card:
// Tg, SENS_RES, SEL_RES, NFCID length and NFCID, then the ATS with its
// length byte when the card has one.
func BuildTypeAListing(tg byte, card *VirtualCard) []byte {
	resp := []byte{CmdInListPassiveTarget + 1, 0x01, tg}
	resp = append(resp, card.SensRes[:]...)
	resp = append(resp, card.SelRes, byte(len(card.NFCID)))
	resp = append(resp, card.NFCID...)
	if len(card.ATS) > 0 {
		resp = append(resp, byte(len(card.ATS)+1))
		resp = append(resp, card.ATS...)
	}
	return resp
}

// BuildTypeBListing creates an InListPassiveTarget reply for a Type B card:
// Tg, ATQB, then a one byte ATTRIB_RES.
func BuildTypeBListing(tg byte, card *VirtualCard) []byte {
	resp := []byte{CmdInListPassiveTarget + 1, 0x01, tg}
	resp = append(resp, card.SensBRes...)
	return append(resp, 0x01, 0x00)
}

// BuildDataExchangeResponse creates a successful InDataExchange reply
func BuildDataExchangeResponse(data []byte) []byte {
	return append([]byte{CmdInDataExchange + 1, 0x00}, data...)
}

// BuildErrorResponse creates a reply carrying an error status for cmd
func BuildErrorResponse(cmd, status byte) []byte {
	return []byte{cmd + 1, status}
}

// Fixture values for the default virtual cards
var (
	TestSensRes  = [2]byte{0x04, 0x00}
	TestNFCID    = []byte{0x12, 0x34, 0x56}
	TestATS      = []byte{0x75, 0x80, 0x81, 0x02, 0x80}
	TestPUPI     = []byte{0x01, 0x02, 0x03, 0x04}
	TestSensBRes = []byte{
		0x50,
		0x01, 0x02, 0x03, 0x04, // PUPI
		0x00, 0x00, 0x00, 0x00, // application data
		0x00, 0x81, 0x71,       // protocol info, ISO/IEC 14443-4 compliant
	}
)

const TestSelRes = 0x20
