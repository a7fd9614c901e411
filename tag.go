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

import (
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-pn532-hce/apdu"
)

// TagSession is a discovered target that APDUs can be exchanged with.
// A session is only valid until the field is muted or the next poll.
type TagSession interface {
	// TargetID is the PN532 logical target number
	TargetID() byte
	// Exchange sends one APDU and returns the response APDU
	Exchange(command []byte) ([]byte, error)
	// Transact sends commands in order and checks each response against
	// expected. It stops at the first mismatch.
	Transact(commands [][]byte, expected []apdu.Expect) bool
}

type session struct {
	device   *Device
	epoch    uint64
	targetID byte
}

func (s *session) TargetID() byte {
	return s.targetID
}

func (s *session) released() error {
	if s.epoch != s.device.epoch {
		return fmt.Errorf("%w: target %d", ErrTagReleased, s.targetID)
	}
	return nil
}

func (s *session) Exchange(command []byte) ([]byte, error) {
	if err := s.released(); err != nil {
		return nil, err
	}
	data := make([]byte, 0, len(command)+1)
	data = append(data, s.targetID)
	data = append(data, command...)
	return s.device.Transceive(data)
}

func (s *session) Transact(commands [][]byte, expected []apdu.Expect) bool {
	log := s.device.log
	if len(commands) != len(expected) {
		log.Error().
			Int("commands", len(commands)).
			Int("expected", len(expected)).
			Msg("command and expected response counts differ")
		return false
	}

	// a wildcard must not turn a released session into a success
	if err := s.released(); err != nil {
		log.Error().Err(err).Msg("transaction on released tag")
		return false
	}

	log.Debug().Int("commands", len(commands)).Msg("starting transaction")
	for i, cmd := range commands {
		resp, err := s.Exchange(cmd)
		if errors.Is(err, ErrTagReleased) {
			log.Error().Err(err).Int("index", i).Msg("tag released during transaction")
			return false
		}
		if expected[i].Any {
			continue
		}
		if err != nil || !expected[i].Matches(resp) {
			log.Error().
				Err(err).
				Int("index", i).
				Hex("received", resp).
				Hex("expected", expected[i].Data).
				Msg("unexpected APDU")
			return false
		}
	}
	return true
}

// TypeATag is an ISO/IEC 14443 Type A target
type TypeATag struct {
	session
	NFCID   []byte
	ATS     []byte
	SensRes [2]byte
	SelRes  byte
}

// SupportsISODEP reports whether SEL_RES advertises ISO/IEC 14443-4
func (t *TypeATag) SupportsISODEP() bool {
	return t.SelRes&0x20 != 0
}

// TypeBTag is an ISO/IEC 14443 Type B target
type TypeBTag struct {
	session
	// SensBRes is the SENSB_RES (ATQB) answer to WUPB, starting with 0x50
	SensBRes []byte
}

// PUPI returns the pseudo-unique PICC identifier, or nil if SensBRes is short
func (t *TypeBTag) PUPI() []byte {
	if len(t.SensBRes) < 5 {
		return nil
	}
	return t.SensBRes[1:5]
}

// ApplicationData returns the four application data bytes, AFI first
func (t *TypeBTag) ApplicationData() []byte {
	if len(t.SensBRes) < 9 {
		return nil
	}
	return t.SensBRes[5:9]
}

// ProtocolInfo returns the protocol info bytes that follow the application data
func (t *TypeBTag) ProtocolInfo() []byte {
	if len(t.SensBRes) < 10 {
		return nil
	}
	return t.SensBRes[9:]
}

// SupportsISO14443_4 reports whether the Protocol_Type bit for
// ISO/IEC 14443-4 compliance is set.
func (t *TypeBTag) SupportsISO14443_4() bool {
	info := t.ProtocolInfo()
	return len(info) >= 2 && info[1]&0x01 != 0
}

var (
	_ TagSession = (*TypeATag)(nil)
	_ TagSession = (*TypeBTag)(nil)
)
