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

package frame

import "fmt"

// Cursor reads response fields front to back without copying or mutating
// the underlying buffer. The first short read is sticky: later reads return
// zero values and Err reports what ran out.
type Cursor struct {
	err error
	buf []byte
	off int
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Byte returns the next byte.
func (c *Cursor) Byte() byte {
	if !c.need(1, "byte") {
		return 0
	}
	b := c.buf[c.off]
	c.off++
	return b
}

// Bytes returns the next n bytes. The result aliases the cursor's buffer
// and has its capacity clipped so appends cannot clobber later fields.
func (c *Cursor) Bytes(n int) []byte {
	if n < 0 {
		c.fail(fmt.Errorf("%w: negative field length %d at offset %d", ErrFrameTruncated, n, c.off))
		return nil
	}
	if !c.need(n, "field") {
		return nil
	}
	b := c.buf[c.off : c.off+n : c.off+n]
	c.off += n
	return b
}

// Rest returns everything not yet consumed.
func (c *Cursor) Rest() []byte {
	if c.err != nil {
		return nil
	}
	b := c.buf[c.off:]
	c.off = len(c.buf)
	return b
}

// Remaining reports how many bytes are left.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// Offset reports how many bytes have been consumed.
func (c *Cursor) Offset() int {
	return c.off
}

// Err returns the first short-read error, if any.
func (c *Cursor) Err() error {
	return c.err
}

func (c *Cursor) need(n int, what string) bool {
	if c.err != nil {
		return false
	}
	if c.Remaining() < n {
		c.fail(fmt.Errorf("%w: %s of %d bytes at offset %d, %d left",
			ErrFrameTruncated, what, n, c.off, c.Remaining()))
		return false
	}
	return true
}

func (c *Cursor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}
