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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectMatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		expect Expect
		resp   []byte
		want   bool
	}{
		{name: "exact", expect: ExpectBytes([]byte{0x90, 0x00}), resp: []byte{0x90, 0x00}, want: true},
		{name: "differs", expect: ExpectBytes([]byte{0x90, 0x00}), resp: []byte{0x6A, 0x82}, want: false},
		{name: "prefix only", expect: ExpectBytes([]byte{0x90, 0x00}), resp: []byte{0x90}, want: false},
		{name: "longer", expect: ExpectBytes([]byte{0x90, 0x00}), resp: []byte{0x01, 0x90, 0x00}, want: false},
		{name: "absent", expect: ExpectBytes([]byte{0x90, 0x00}), resp: nil, want: false},
		{name: "wildcard", expect: ExpectAny(), resp: []byte{0x6F, 0x00}, want: true},
		{name: "wildcard absent", expect: ExpectAny(), resp: nil, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.expect.Matches(tt.resp))
		})
	}
}

func TestParseExpectations(t *testing.T) {
	t.Parallel()

	got, err := ParseExpectations([]string{"9000", "*", "01 02 90 00"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, ExpectBytes([]byte{0x90, 0x00}), got[0])
	assert.True(t, got[1].Any)
	assert.Equal(t, []byte{0x01, 0x02, 0x90, 0x00}, got[2].Data)

	assert.Equal(t, "9000", got[0].String())
	assert.Equal(t, "*", got[1].String())

	_, err = ParseExpectations([]string{"9000", "90 0"})
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "response 1")
}
