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

// Emulated card parameters for target mode
var (
	targetSensRes = []byte{0x04, 0x00}
	targetNFCID1  = []byte{0x12, 0x34, 0x56}
)

const (
	targetSelRes        = 0x20
	feliCaParamsLength  = 18
	nfcid3Length        = 10
	targetModeParamSize = 1 + 2 + 3 + 1 + feliCaParamsLength + nfcid3Length + 2
)

// InitializeTargetMode configures the PN532 to act as an ISO-DEP capable
// Type A card (PICC only, passive). The chip only replies once an external
// reader activates it, so a missing reply is logged and not an error.
func (d *Device) InitializeTargetMode() error {
	if err := d.ready(); err != nil {
		return err
	}
	d.log.Debug().Msg("initializing target mode")
	d.epoch++

	params := make([]byte, 0, targetModeParamSize)
	params = append(params, targetModePICC)
	params = append(params, targetSensRes...)
	params = append(params, targetNFCID1...)
	params = append(params, targetSelRes)
	params = append(params, make([]byte, feliCaParamsLength)...)
	params = append(params, make([]byte, nfcid3Length)...)
	// LEN Gt, LEN Tk
	params = append(params, 0x00, 0x00)

	resp, err := d.sendCommand(cmdTgInitAsTarget, params, commandOpts{})
	if err != nil {
		if !isFrameError(err) {
			return err
		}
		d.log.Debug().Err(err).Msg("no initiator activated target mode yet")
		return nil
	}
	d.log.Debug().Hex("activation", resp).Msg("activated as target")
	return nil
}
