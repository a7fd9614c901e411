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

package uart

import (
	"context"
	"errors"
	"testing"

	"github.com/ZaparooProject/go-pn532-hce/detection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func stubPorts(t *testing.T, ports []*enumerator.PortDetails, err error) {
	t.Helper()
	orig := listPorts
	listPorts = func() ([]*enumerator.PortDetails, error) { return ports, err }
	t.Cleanup(func() { listPorts = orig })
}

// These tests replace the package-level port lister and so do not run in parallel.

func TestDetect_SafeModeFiltersPorts(t *testing.T) {
	stubPorts(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043"},
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "1a86", PID: "7523", Product: "USB Serial"},
		{Name: "/dev/ttyUSB1", IsUSB: true, VID: "1234", PID: "5678", SerialNumber: "A1"},
	}, nil)

	opts := detection.DefaultOptions()
	devices, err := New().Detect(context.Background(), &opts)
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "/dev/ttyUSB0", devices[0].Path)
	assert.Equal(t, "USB Serial", devices[0].Name)
	assert.Equal(t, "CH340", devices[0].Metadata["bridge"])
	assert.Equal(t, detection.Medium, devices[0].Confidence)

	assert.Equal(t, "/dev/ttyUSB1", devices[1].Path)
	assert.Equal(t, "1234:5678", devices[1].Metadata["vidpid"])
	assert.Equal(t, "A1", devices[1].Metadata["serial"])
	assert.Equal(t, detection.Low, devices[1].Confidence)
}

func TestDetect_PassiveModeKeepsEverything(t *testing.T) {
	stubPorts(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043"},
	}, nil)

	opts := detection.Options{Mode: detection.Passive, IgnorePaths: []string{"/dev/ttyS0"}}
	devices, err := New().Detect(context.Background(), &opts)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "/dev/ttyACM0", devices[0].Path)
}

func TestDetect_NoPorts(t *testing.T) {
	stubPorts(t, nil, nil)

	opts := detection.DefaultOptions()
	_, err := New().Detect(context.Background(), &opts)
	require.ErrorIs(t, err, detection.ErrNoDevicesFound)
}

func TestDetect_EnumeratorError(t *testing.T) {
	boom := errors.New("udev unavailable")
	stubPorts(t, nil, boom)

	opts := detection.DefaultOptions()
	_, err := New().Detect(context.Background(), &opts)
	require.ErrorIs(t, err, boom)
}
