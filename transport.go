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

import "time"

// Transport is the byte stream to a PN532. It is the subset of
// go.bug.st/serial.Port the driver uses, so an open serial port satisfies
// it directly; transport/uart adds error wrapping and close tracking.
//
// Read must return 0 bytes and a nil error when the read timeout expires
// with nothing received.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)

	// Drain waits until all written bytes have been transmitted
	Drain() error

	ResetInputBuffer() error
	ResetOutputBuffer() error

	// SetReadTimeout sets how long a Read blocks waiting for data
	SetReadTimeout(timeout time.Duration) error

	Close() error
}
