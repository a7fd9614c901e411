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
	"fmt"

	"github.com/ZaparooProject/go-pn532-hce/internal/frame"
)

// PollA looks for one ISO/IEC 14443 Type A target. It returns nil, nil when
// nothing answers, including when the chip reply is missing or garbled.
func (d *Device) PollA() (*TypeATag, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	d.log.Debug().Msg("polling A")
	d.epoch++

	resp, err := d.sendCommand(cmdInListPassiveTarget, []byte{maxTargetsOne, brTy106TypeA}, commandOpts{})
	if err != nil {
		return nil, d.noTarget(err)
	}

	c := frame.NewCursor(resp)
	if c.Byte() == 0 {
		if c.Err() != nil {
			d.log.Warn().Err(c.Err()).Msg("poll A reply has no target count")
		}
		return nil, nil
	}

	tag := &TypeATag{session: d.newSession(c.Byte())}
	copy(tag.SensRes[:], c.Bytes(2))
	tag.SelRes = c.Byte()
	tag.NFCID = c.Bytes(int(c.Byte()))
	// ATS is absent for targets without ISO-DEP
	if c.Err() == nil && c.Remaining() > 0 {
		tag.ATS = c.Bytes(int(c.Byte()) - 1)
	}
	if c.Err() != nil {
		d.log.Warn().Err(c.Err()).Hex("reply", resp).Msg("truncated poll A target data")
		return nil, nil
	}

	d.log.Debug().
		Uint8("target", tag.targetID).
		Hex("sens_res", tag.SensRes[:]).
		Uint8("sel_res", tag.SelRes).
		Hex("nfcid", tag.NFCID).
		Hex("ats", tag.ATS).
		Msg("found type A target")
	return tag, nil
}

// PollB looks for one ISO/IEC 14443 Type B target. After the listing it
// deselects whatever was activated and wakes the field again with WUPB,
// returning the SENSB_RES of whatever answers.
func (d *Device) PollB() (*TypeBTag, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	d.log.Debug().Msg("polling B")
	d.epoch++

	resp, err := d.sendCommand(cmdInListPassiveTarget, []byte{maxTargetsOne, brTy106TypeB, afiAllFamilies}, commandOpts{})
	if err != nil {
		return nil, d.noTarget(err)
	}

	afi := byte(afiAllFamilies)
	targetID := byte(typeBFallbackTg)
	c := frame.NewCursor(resp)
	if c.Byte() > 0 {
		tg := c.Byte()
		atqb := c.Bytes(12)
		if c.Err() == nil {
			targetID = tg
			afi = atqb[5]
		}
	}

	if err := d.broadcast([]byte{sDeselectBlock}); err != nil {
		if !isFrameError(err) {
			return nil, err
		}
		d.log.Debug().Err(err).Msg("no reply to deselect")
	}

	if _, err := d.sendCommand(cmdWriteRegister, bitFramingRegister, commandOpts{}); err != nil && !isFrameError(err) {
		return nil, err
	}

	resp, err = d.sendCommand(cmdInCommunicateThru, frame.WithCRC16A([]byte{wupbCommand, afi, wupbParam}), commandOpts{})
	if err != nil {
		return nil, d.noTarget(err)
	}
	if len(resp) < 2 || resp[0] != 0x00 {
		d.log.Debug().Hex("reply", resp).Msg("no answer to WUPB")
		return nil, nil
	}

	tag := &TypeBTag{
		session:  d.newSession(targetID),
		SensBRes: resp[1:],
	}
	d.log.Debug().
		Uint8("target", targetID).
		Uint8("afi", afi).
		Hex("sensb_res", tag.SensBRes).
		Msg("found type B target")
	return tag, nil
}

// SendBroadcast transmits payload with a CRC_A appended, outside of any
// target session. The chip must acknowledge it; a status byte reporting
// that nothing answered is expected and not an error.
func (d *Device) SendBroadcast(payload []byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.broadcast(payload)
}

func (d *Device) broadcast(payload []byte) error {
	d.log.Debug().Hex("payload", payload).Msg("sending broadcast")

	// send whole bytes
	if _, err := d.sendCommand(cmdWriteRegister, bitFramingRegister, commandOpts{}); err != nil && !isFrameError(err) {
		return err
	}

	resp, err := d.sendCommand(cmdInCommunicateThru, frame.WithCRC16A(payload), commandOpts{})
	if err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	if len(resp) > 0 && resp[0] != 0x00 {
		d.log.Debug().Uint8("status", resp[0]).Msg("broadcast status")
	}
	return nil
}

// Transceive sends data with InDataExchange and returns the target's
// reply. data starts with the target number. A non-zero status byte is
// returned as *ExchangeError; a missing reply as ErrNoResponse. Both are
// retryable.
func (d *Device) Transceive(data []byte) ([]byte, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	d.log.Debug().Hex("data", data).Msg("transceive")

	resp, err := d.sendCommand(cmdInDataExchange, data, commandOpts{timeout: d.config.ExchangeTimeout})
	if err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("%w: %w: missing status byte", ErrNoResponse, ErrFrameTruncated)
	}
	if resp[0] != 0x00 {
		xerr := &ExchangeError{Status: resp[0]}
		d.log.Error().Err(xerr).Msg("error exchanging data")
		return nil, xerr
	}
	return resp[1:], nil
}

// Mute switches the RF field off. Any tag sessions become stale.
func (d *Device) Mute() error {
	if err := d.ready(); err != nil {
		return err
	}
	d.log.Debug().Msg("muting")
	d.epoch++

	if _, err := d.sendCommand(cmdRFConfiguration, []byte{rfItemField, rfFieldAutoRFCAOff}, commandOpts{}); err != nil {
		if !isFrameError(err) {
			return err
		}
		d.log.Warn().Err(err).Msg("no reply to mute")
	}
	return nil
}

// noTarget turns a missing or unreadable reply into "no target".
// Transport failures still surface.
func (d *Device) noTarget(err error) error {
	if isFrameError(err) {
		d.log.Warn().Err(err).Msg("no usable poll reply")
		return nil
	}
	return err
}

func (d *Device) newSession(targetID byte) session {
	return session{device: d, epoch: d.epoch, targetID: targetID}
}

