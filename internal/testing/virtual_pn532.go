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

// Package testing provides a wire-level PN532 simulator and a virtual card
// for exercising the driver without hardware.
//
// VirtualPN532 implements the driver's Transport: bytes the host writes
// are parsed as PN532 frames and answered with ACK and response frames,
// which the host then reads back. Reads with nothing queued return 0
// bytes, the same way a serial port reports a read timeout.
package testing

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/ZaparooProject/go-pn532-hce/internal/frame"
)

// ErrClosed is returned by I/O after Close.
var ErrClosed = errors.New("virtual PN532 closed")

// Responder produces the reply to one command: the response code followed
// by response data, without TFI. A nil reply means the chip stays silent
// after the ACK.
type Responder func(params []byte) []byte

// VirtualPN532 simulates a PN532 on the far end of a serial link.
type VirtualPN532 struct {
	card         *VirtualCard
	responders   map[byte]Responder
	silent       map[byte]bool
	written      bytes.Buffer
	rx           bytes.Buffer
	tx           bytes.Buffer
	commands     [][]byte
	broadcasts   [][]byte
	timeouts     []time.Duration
	targetParams []byte
	firmware     []byte
	lastReply    []byte
	truncateNext int
	pollsA       int
	acks         int
	drains       int
	inputResets  int
	mu           sync.Mutex
	fieldOn      bool
	activated    bool
	corruptNext  bool
	dropNextACK  bool
	closed       bool
}

// NewVirtualPN532 creates a simulator reporting firmware PN532 v1.6 with
// no card in the field.
func NewVirtualPN532() *VirtualPN532 {
	return &VirtualPN532{
		responders: make(map[byte]Responder),
		silent:     make(map[byte]bool),
		firmware:   []byte{CmdGetFirmwareVersion + 1, 0x32, 0x01, 0x06, 0x07},
	}
}

// Write receives bytes from the host and answers every complete frame.
func (v *VirtualPN532) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, ErrClosed
	}
	v.written.Write(p)
	v.rx.Write(p)
	v.processReceived()
	return len(p), nil
}

// Read returns queued reply bytes, or 0 bytes when nothing is queued.
func (v *VirtualPN532) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, ErrClosed
	}
	if v.tx.Len() == 0 {
		return 0, nil
	}
	n, _ := v.tx.Read(p)
	return n, nil
}

// Drain is a no-op apart from being counted.
func (v *VirtualPN532) Drain() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drains++
	return nil
}

// ResetInputBuffer discards replies the host has not read yet.
func (v *VirtualPN532) ResetInputBuffer() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputResets++
	v.tx.Reset()
	return nil
}

// ResetOutputBuffer discards partially written host frames.
func (v *VirtualPN532) ResetOutputBuffer() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rx.Reset()
	return nil
}

// SetReadTimeout records the timeout; reads never block.
func (v *VirtualPN532) SetReadTimeout(timeout time.Duration) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.timeouts = append(v.timeouts, timeout)
	return nil
}

// Close makes later reads and writes fail.
func (v *VirtualPN532) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

// SetCard places card in range of the antenna. nil removes it.
func (v *VirtualPN532) SetCard(card *VirtualCard) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.card = card
	v.activated = false
}

// SetFirmwareReply replaces the GetFirmwareVersion reply.
func (v *VirtualPN532) SetFirmwareReply(reply []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.firmware = reply
}

// SetResponder overrides the reply to cmd.
func (v *VirtualPN532) SetResponder(cmd byte, r Responder) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.responders[cmd] = r
}

// Silence makes the chip ignore cmd entirely: no ACK, no reply.
func (v *VirtualPN532) Silence(cmd byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.silent[cmd] = true
}

// ClearFaults removes responders, silenced commands and pending fault
// injections so the chip answers normally again.
func (v *VirtualPN532) ClearFaults() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.responders = make(map[byte]Responder)
	v.silent = make(map[byte]bool)
	v.corruptNext = false
	v.truncateNext = 0
	v.dropNextACK = false
}

// InjectChecksumError corrupts the data checksum of the next reply.
func (v *VirtualPN532) InjectChecksumError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.corruptNext = true
}

// TruncateNextReply cuts the next reply frame to n bytes.
func (v *VirtualPN532) TruncateNextReply(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.truncateNext = n
}

// DropNextACK skips the ACK before the next reply.
func (v *VirtualPN532) DropNextACK() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dropNextACK = true
}

// Commands returns every command received, code first, in order.
func (v *VirtualPN532) Commands() [][]byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([][]byte, len(v.commands))
	copy(out, v.commands)
	return out
}

// CommandCodes returns the code of every command received, in order.
func (v *VirtualPN532) CommandCodes() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]byte, 0, len(v.commands))
	for _, c := range v.commands {
		out = append(out, c[0])
	}
	return out
}

// Count returns how many times cmd was received.
func (v *VirtualPN532) Count(cmd byte) int {
	n := 0
	for _, c := range v.CommandCodes() {
		if c == cmd {
			n++
		}
	}
	return n
}

// ClearLog forgets received commands, broadcasts and written bytes.
func (v *VirtualPN532) ClearLog() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.commands = nil
	v.broadcasts = nil
	v.written.Reset()
	v.acks = 0
}

// Written returns every byte the host wrote.
func (v *VirtualPN532) Written() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return bytes.Clone(v.written.Bytes())
}

// Broadcasts returns InCommunicateThru payloads with their CRC removed.
func (v *VirtualPN532) Broadcasts() [][]byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([][]byte, len(v.broadcasts))
	copy(out, v.broadcasts)
	return out
}

// ReadTimeouts returns every timeout the host set, in order.
func (v *VirtualPN532) ReadTimeouts() []time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]time.Duration(nil), v.timeouts...)
}

// TargetModeParams returns the parameters of the last TgInitAsTarget.
func (v *VirtualPN532) TargetModeParams() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return bytes.Clone(v.targetParams)
}

// ACKs returns how many ACK frames the host sent.
func (v *VirtualPN532) ACKs() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.acks
}

// Drains returns how many times the host drained its output.
func (v *VirtualPN532) Drains() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.drains
}

// InputResets returns how many times the host discarded unread replies.
func (v *VirtualPN532) InputResets() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inputResets
}

// FieldOn reports whether the RF field is on.
func (v *VirtualPN532) FieldOn() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fieldOn
}

// PendingReply reports whether reply bytes are waiting to be read.
func (v *VirtualPN532) PendingReply() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tx.Len() > 0
}

var startCode = []byte{frame.StartCode1, frame.StartCode2}

// processReceived consumes complete frames from rx. Leading zeros,
// postambles and frames with bad checksums are skipped.
func (v *VirtualPN532) processReceived() {
	for {
		data := v.rx.Bytes()
		i := bytes.Index(data, startCode)
		if i < 0 {
			// keep a trailing zero that may begin the next start code
			if n := len(data); n > 0 && data[n-1] == frame.StartCode1 {
				v.rx.Next(n - 1)
			} else {
				v.rx.Reset()
			}
			return
		}
		v.rx.Next(i)
		data = v.rx.Bytes()
		if len(data) < 4 {
			return
		}

		length, lcs := data[2], data[3]
		switch {
		case length == 0x00 && lcs == 0xFF:
			v.rx.Next(4)
			v.acks++
			continue
		case length == 0xFF && lcs == 0x00:
			v.rx.Next(4)
			v.tx.Write(v.lastReply)
			continue
		case length+lcs != 0 || length == 0:
			v.rx.Next(2)
			continue
		}

		total := 4 + int(length) + 1
		if len(data) < total {
			return
		}
		body := data[4 : 4+int(length)]
		dcs := data[4+int(length)]
		valid := body[0] == frame.HostToPn532 && frame.CalculateChecksum(body)+dcs == 0 && len(body) > 1
		cmd := bytes.Clone(body[1:])
		v.rx.Next(total)
		if valid {
			v.handle(cmd)
		}
	}
}

func (v *VirtualPN532) handle(cmd []byte) {
	v.commands = append(v.commands, cmd)
	code, params := cmd[0], cmd[1:]
	if v.silent[code] {
		return
	}

	if v.dropNextACK {
		v.dropNextACK = false
	} else {
		v.tx.Write(frame.AckFrame)
	}

	var reply []byte
	if r, ok := v.responders[code]; ok {
		reply = r(params)
	} else {
		reply = v.defaultReply(code, params)
	}
	if reply == nil {
		return
	}

	out, err := frame.EncodeWithTFI(frame.Pn532ToHost, reply)
	if err != nil {
		return
	}
	if v.corruptNext {
		v.corruptNext = false
		out[len(out)-2] ^= 0xFF
	}
	if v.truncateNext > 0 && v.truncateNext < len(out) {
		out = out[:v.truncateNext]
		v.truncateNext = 0
	}
	v.lastReply = out
	v.tx.Write(out)
}

func (v *VirtualPN532) defaultReply(code byte, params []byte) []byte {
	switch code {
	case CmdGetFirmwareVersion:
		return v.firmware
	case CmdSAMConfiguration, CmdWriteRegister:
		return []byte{code + 1}
	case CmdRFConfiguration:
		v.handleRFConfiguration(params)
		return []byte{code + 1}
	case CmdInListPassiveTarget:
		return v.handleInListPassiveTarget(params)
	case CmdInCommunicateThru:
		return v.handleInCommunicateThru(params)
	case CmdInDataExchange:
		return v.handleInDataExchange(params)
	case CmdTgInitAsTarget:
		v.targetParams = bytes.Clone(params)
		return nil
	default:
		// syntax error frame
		return []byte{0x7F}
	}
}

func (v *VirtualPN532) handleRFConfiguration(params []byte) {
	if len(params) >= 2 && params[0] == 0x01 {
		v.fieldOn = params[1]&0x01 != 0
		if !v.fieldOn {
			v.activated = false
		}
	}
}

func (v *VirtualPN532) handleInListPassiveTarget(params []byte) []byte {
	v.fieldOn = true
	v.activated = false
	none := []byte{CmdInListPassiveTarget + 1, 0x00}
	if len(params) < 2 {
		return none
	}

	switch params[1] {
	case BrTy106TypeA:
		v.pollsA++
		if !v.card.visible(CardTypeA, v.pollsA) {
			return none
		}
		v.activated = true
		return BuildTypeAListing(1, v.card)
	case BrTy106TypeB:
		if !v.card.visible(CardTypeB, 0) {
			return none
		}
		v.activated = true
		return BuildTypeBListing(1, v.card)
	default:
		return none
	}
}

func (v *VirtualPN532) handleInCommunicateThru(params []byte) []byte {
	noAnswer := []byte{CmdInCommunicateThru + 1, StatusTimeout}
	if len(params) < 3 {
		return noAnswer
	}
	data, crc := params[:len(params)-2], params[len(params)-2:]
	if sum := frame.CRC16A(data); !bytes.Equal(sum[:], crc) {
		return []byte{CmdInCommunicateThru + 1, StatusCRCError}
	}
	v.broadcasts = append(v.broadcasts, bytes.Clone(data))

	switch {
	case data[0] == 0x05 && len(data) == 3:
		if !v.card.visible(CardTypeB, 0) {
			return noAnswer
		}
		v.activated = false
		return append([]byte{CmdInCommunicateThru + 1, 0x00}, v.card.SensBRes...)
	case data[0] == 0xC2 && v.activated:
		v.activated = false
		return []byte{CmdInCommunicateThru + 1, 0x00, 0xC2}
	default:
		return noAnswer
	}
}

func (v *VirtualPN532) handleInDataExchange(params []byte) []byte {
	if len(params) < 1 || !v.activated || v.card == nil {
		return []byte{CmdInDataExchange + 1, StatusTimeout}
	}
	resp := v.card.Process(params[1:])
	return append([]byte{CmdInDataExchange + 1, 0x00}, resp...)
}
