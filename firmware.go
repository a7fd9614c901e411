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

import "fmt"

// FirmwareVersion contains PN532 firmware information
type FirmwareVersion struct {
	IC       byte
	Version  byte
	Revision byte
	Support  byte
}

func (f *FirmwareVersion) String() string {
	return fmt.Sprintf("PN5%02X v%d.%d", f.IC, f.Version, f.Revision)
}

// SupportsISO14443A reports whether the firmware handles Type A targets
func (f *FirmwareVersion) SupportsISO14443A() bool {
	return f.Support&0x01 != 0
}

// SupportsISO14443B reports whether the firmware handles Type B targets
func (f *FirmwareVersion) SupportsISO14443B() bool {
	return f.Support&0x02 != 0
}

// SupportsISO18092 reports whether the firmware handles NFCIP-1
func (f *FirmwareVersion) SupportsISO18092() bool {
	return f.Support&0x04 != 0
}

// getFirmwareVersion is the first command after wake-up, so it carries the
// long preamble. The reply must be exactly [0x03, 0x32, ver, rev, support].
func (d *Device) getFirmwareVersion() (*FirmwareVersion, error) {
	resp, err := d.sendRaw(cmdGetFirmwareVersion, nil, commandOpts{wakeup: true})
	if err != nil {
		return nil, err
	}
	if len(resp) != firmwareReplyN || resp[0] != cmdGetFirmwareVersion+1 || resp[1] != firmwareIC {
		return nil, fmt.Errorf("%w: % X", ErrFirmwareMismatch, resp)
	}
	return &FirmwareVersion{
		IC:       resp[1],
		Version:  resp[2],
		Revision: resp[3],
		Support:  resp[4],
	}, nil
}
