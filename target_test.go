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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	virt "github.com/ZaparooProject/go-pn532-hce/internal/testing"
)

func TestInitializeTargetMode(t *testing.T) {
	t.Parallel()
	device, sim := newReadyDevice(t)

	require.NoError(t, device.InitializeTargetMode())

	want := []byte{0x05, 0x04, 0x00, 0x12, 0x34, 0x56, 0x20}
	want = append(want, make([]byte, 18+10+2)...)
	assert.Equal(t, want, sim.TargetModeParams())
	assert.Len(t, sim.TargetModeParams(), 37)
	assert.Equal(t, []byte{virt.CmdTgInitAsTarget}, sim.CommandCodes())
}

func TestInitializeTargetMode_Activated(t *testing.T) {
	t.Parallel()
	device, sim := newReadyDevice(t)
	sim.SetResponder(virt.CmdTgInitAsTarget, func([]byte) []byte {
		// mode byte then the initiator command
		return []byte{0x8D, 0x04, 0xE0, 0x80}
	})

	require.NoError(t, device.InitializeTargetMode())
}

func TestInitializeTargetMode_InvalidatesSessions(t *testing.T) {
	t.Parallel()
	device, sim := newReadyDevice(t)
	sim.SetCard(virt.NewTypeACard())

	tag, err := device.PollA()
	require.NoError(t, err)
	require.NotNil(t, tag)

	require.NoError(t, device.InitializeTargetMode())
	_, err = tag.Exchange([]byte{0x00, 0xA4, 0x04, 0x00})
	require.ErrorIs(t, err, ErrTagReleased)
}
