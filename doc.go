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

/*
Package pn532 drives a PN532 NFC controller over a serial link to reach
phones emulating Type 4 tags (host card emulation).

The PN532 acts as the initiator. Each primitive sends one command frame and
waits for the ACK and the reply, so a Device is a strictly synchronous,
single-goroutine object.

Features:
  - UART transport with serial port auto-detection
  - ISO14443 Type A and Type B polling
  - Raw broadcast frames with CRC_A appended (custom polling loops)
  - APDU exchange with wildcard response matching
  - Type 4 NDEF reads (package t4t)
  - Poll-and-transact loop with a bounded attempt count (package polling)

Basic Usage:

	device, err := pn532.Open("/dev/ttyUSB0",
	    pn532.WithLogger(zerolog.New(os.Stderr)),
	)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	tag, err := device.PollA()
	if err != nil {
	    log.Fatal(err)
	}
	if tag != nil {
	    ok := tag.Transact(
	        [][]byte{apdu.SelectAID(aid)},
	        []apdu.Expect{apdu.ExpectBytes([]byte{0x90, 0x00})},
	    )
	    fmt.Println("transacted:", ok)
	}
	_ = device.Mute()

An empty path to Open selects the first detected serial port.

Sessions:

A tag returned by PollA or PollB is only valid until the next poll, Mute,
target mode or Close. Exchanging through a stale tag returns ErrTagReleased
without touching the wire.

Error Handling:

Missing or corrupt replies are reported as ErrNoResponse and are retryable:

	if pn532.IsRetryable(err) {
	    // poll again
	}

Initialization failures are returned as *InitError naming the failed stage.

Thread Safety:

Device operations are not thread-safe. If you need concurrent access,
implement appropriate synchronization in your application.
*/
package pn532
