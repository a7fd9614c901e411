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

package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualCard_Fixtures(t *testing.T) {
	t.Parallel()
	card := NewTypeACard()
	card.RespondTo([]byte{0x00, 0xA4, 0x04, 0x00, 0x05, 0xF0, 0x01, 0x02, 0x03, 0x04}, []byte{0x90, 0x00})

	assert.Equal(t, []byte{0x90, 0x00}, card.Process([]byte{0x00, 0xA4, 0x04, 0x00, 0x05, 0xF0, 0x01, 0x02, 0x03, 0x04}))
	assert.Equal(t, []byte{0x6D, 0x00}, card.Process([]byte{0x80, 0x10, 0x00, 0x00}))
	assert.Len(t, card.Received(), 2)
}

func TestVirtualCard_Type4(t *testing.T) {
	t.Parallel()
	card := NewTypeACard()
	require.NoError(t, card.SetNDEFText("hi"))

	// files are not reachable before the application is selected
	assert.Equal(t, swFileNotFound, card.Process([]byte{0x00, 0xA4, 0x00, 0x0C, 0x02, 0xE1, 0x03}))

	selectApp := append([]byte{0x00, 0xA4, 0x04, 0x00, 0x07}, NDEFApplicationAID...)
	assert.Equal(t, swOK, card.Process(selectApp))
	assert.Equal(t, swOK, card.Process([]byte{0x00, 0xA4, 0x00, 0x0C, 0x02, 0xE1, 0x03}))

	cc := card.Process([]byte{0x00, 0xB0, 0x00, 0x00, 0x0F})
	require.Len(t, cc, 17)
	assert.Equal(t, []byte{0x00, 0x0F, 0x20, 0x00, DefaultMaxRead}, cc[:5])
	assert.Equal(t, []byte{0xE1, 0x04}, cc[9:11])

	assert.Equal(t, swOK, card.Process([]byte{0x00, 0xA4, 0x00, 0x0C, 0x02, 0xE1, 0x04}))
	nlen := card.Process([]byte{0x00, 0xB0, 0x00, 0x00, 0x02})
	require.Len(t, nlen, 4)
	assert.NotZero(t, nlen[1])

	assert.Equal(t, swWrongP1P2, card.Process([]byte{0x00, 0xB0, 0x10, 0x00, 0x02}))
	assert.Equal(t, swFileNotFound, card.Process([]byte{0x00, 0xA4, 0x00, 0x0C, 0x02, 0xE1, 0x05}))
}

func TestVirtualCard_Visibility(t *testing.T) {
	t.Parallel()
	var none *VirtualCard
	assert.False(t, none.visible(CardTypeA, 1))

	card := NewTypeBCard()
	assert.True(t, card.visible(CardTypeB, 0))
	assert.False(t, card.visible(CardTypeA, 1))
	card.Remove()
	assert.False(t, card.visible(CardTypeB, 0))
	card.Insert()
	assert.True(t, card.visible(CardTypeB, 0))
}
