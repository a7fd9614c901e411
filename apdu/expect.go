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

package apdu

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Wildcard in a fixture accepts any response.
const Wildcard = "*"

// Expect is the response expected for one command APDU.
type Expect struct {
	Data []byte
	Any  bool
}

// ExpectBytes expects exactly b.
func ExpectBytes(b []byte) Expect {
	return Expect{Data: b}
}

// ExpectAny accepts any response, including none.
func ExpectAny() Expect {
	return Expect{Any: true}
}

// Matches reports whether resp satisfies the expectation byte for byte.
func (e Expect) Matches(resp []byte) bool {
	return e.Any || bytes.Equal(resp, e.Data)
}

func (e Expect) String() string {
	if e.Any {
		return Wildcard
	}
	return hex.EncodeToString(e.Data)
}

// ParseExpectations reads fixture strings, each either hex or "*".
func ParseExpectations(fixtures []string) ([]Expect, error) {
	out := make([]Expect, 0, len(fixtures))
	for i, s := range fixtures {
		if s == Wildcard {
			out = append(out, ExpectAny())
			continue
		}
		b, err := decodeHex(s)
		if err != nil {
			return nil, fmt.Errorf("response %d: %w", i, err)
		}
		out = append(out, ExpectBytes(b))
	}
	return out, nil
}
