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
	"time"

	"github.com/ZaparooProject/go-pn532-hce/internal/frame"
)

type commandOpts struct {
	// timeout overrides the default read timeout for this command
	timeout time.Duration
	// wakeup prefixes the frame with the long zero preamble
	wakeup bool
}

// sendCommand writes one command frame and returns the reply with the
// echoed response code stripped. A response code other than cmd+1 is
// logged and the reply is returned anyway.
func (d *Device) sendCommand(cmd byte, params []byte, opts commandOpts) ([]byte, error) {
	resp, err := d.sendRaw(cmd, params, opts)
	if err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		d.log.Warn().Uint8("cmd", cmd).Msg("empty reply")
		return resp, nil
	}
	if resp[0] != cmd+1 {
		d.log.Warn().
			Uint8("cmd", cmd).
			Uint8("want", cmd+1).
			Uint8("got", resp[0]).
			Err(ErrUnexpectedResponseCode).
			Msg("unexpected response code")
	}
	return resp[1:], nil
}

// sendRaw writes one command frame and returns the decoded reply data,
// response code included.
func (d *Device) sendRaw(cmd byte, params []byte, opts commandOpts) ([]byte, error) {
	data := make([]byte, 0, len(params)+1)
	data = append(data, cmd)
	data = append(data, params...)

	// oversized data is the only encode failure
	pkt, err := frame.Encode(data)
	if err != nil {
		return nil, NewDataTooLargeError("encode", d.config.DeviceName, len(data))
	}
	if opts.wakeup {
		pkt = append(append(make([]byte, 0, len(frame.LongWakeup)+len(pkt)), frame.LongWakeup...), pkt...)
	}

	timeout := opts.timeout
	if timeout == 0 {
		timeout = d.config.Timeout
	}
	if err := d.setReadTimeout(timeout); err != nil {
		return nil, err
	}
	defer func() {
		if err := d.setReadTimeout(d.config.Timeout); err != nil {
			d.log.Warn().Err(err).Msg("failed to restore read timeout")
		}
	}()

	d.log.Debug().Hex("frame", pkt).Msg("sending frame")
	if _, err := d.transport.Write(pkt); err != nil {
		return nil, NewTransportError("write", d.config.DeviceName,
			fmt.Errorf("%w: %w", ErrTransportWrite, err), ErrorTypeTransient)
	}

	resp, err := frame.Decode(d.transport, d.log)
	if err != nil {
		if isFrameError(err) {
			d.log.Debug().Err(err).Uint8("cmd", cmd).Msg("no usable reply")
			// drop whatever is left of the bad frame so the next command
			// starts reading at its own ACK
			if rerr := d.transport.ResetInputBuffer(); rerr != nil {
				return nil, NewTransportError("reset input", d.config.DeviceName, rerr, ErrorTypeTransient)
			}
			if !errors.Is(err, ErrNoResponse) {
				err = fmt.Errorf("%w: %w", ErrNoResponse, err)
			}
			return nil, err
		}
		return nil, NewTransportError("read", d.config.DeviceName,
			fmt.Errorf("%w: %w", ErrTransportRead, err), ErrorTypeTransient)
	}
	return resp, nil
}

func (d *Device) setReadTimeout(timeout time.Duration) error {
	if timeout == d.readTimeout {
		return nil
	}
	if err := d.transport.SetReadTimeout(timeout); err != nil {
		return NewTransportError("set timeout", d.config.DeviceName, err, ErrorTypePermanent)
	}
	d.readTimeout = timeout
	return nil
}
