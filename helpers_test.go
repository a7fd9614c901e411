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

	"github.com/stretchr/testify/require"

	virt "github.com/ZaparooProject/go-pn532-hce/internal/testing"
)

// newReadyDevice returns an initialized device on a fresh simulator with
// the init traffic cleared from the simulator log.
func newReadyDevice(t *testing.T, opts ...Option) (*Device, *virt.VirtualPN532) {
	t.Helper()
	sim := virt.NewVirtualPN532()
	device, err := New(sim, opts...)
	require.NoError(t, err)
	require.NoError(t, device.Init())
	sim.ClearLog()
	return device, sim
}

func wireFrame(t *testing.T, data ...byte) []byte {
	t.Helper()
	out := []byte{0x00, 0x00, 0xFF, byte(len(data) + 1), byte(-(len(data) + 1)), 0xD4}
	sum := byte(0xD4)
	for _, b := range data {
		sum += b
	}
	out = append(out, data...)
	return append(out, -sum, 0x00)
}
