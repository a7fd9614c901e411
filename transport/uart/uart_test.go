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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

type fakePort struct {
	serial.Port
	mode     *serial.Mode
	writeErr error
	written  []byte
	toRead   []byte
	timeouts []time.Duration
	shortBy  int
	closed   int
}

func (f *fakePort) Read(p []byte) (int, error) {
	n := copy(p, f.toRead)
	f.toRead = f.toRead[n:]
	return n, nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	n := len(p) - f.shortBy
	f.written = append(f.written, p[:n]...)
	return n, nil
}

func (*fakePort) Drain() error             { return nil }
func (*fakePort) ResetInputBuffer() error  { return nil }
func (*fakePort) ResetOutputBuffer() error { return nil }

func (f *fakePort) SetReadTimeout(d time.Duration) error {
	f.timeouts = append(f.timeouts, d)
	return nil
}

func (f *fakePort) Close() error {
	f.closed++
	return nil
}

// newFakeTransport swaps the package-level openPort, so callers must not
// run in parallel.
func newFakeTransport(t *testing.T, port *fakePort) *Transport {
	t.Helper()
	openPort = func(_ string, mode *serial.Mode) (serial.Port, error) {
		port.mode = mode
		return port, nil
	}
	t.Cleanup(func() { openPort = serial.Open })

	tr, err := New("/dev/ttyUSB0")
	require.NoError(t, err)
	return tr
}

func TestNew_ConfiguresPort(t *testing.T) {
	port := &fakePort{}
	tr := newFakeTransport(t, port)

	require.NotNil(t, port.mode)
	assert.Equal(t, BaudRate, port.mode.BaudRate)
	assert.Equal(t, 8, port.mode.DataBits)
	assert.Equal(t, serial.NoParity, port.mode.Parity)
	assert.Equal(t, serial.OneStopBit, port.mode.StopBits)
	assert.Equal(t, []time.Duration{DefaultReadTimeout}, port.timeouts)
	assert.Equal(t, "/dev/ttyUSB0", tr.PortName())
	assert.True(t, tr.IsConnected())
}

func TestNew_OpenFails(t *testing.T) {
	errBusy := errors.New("port busy")
	openPort = func(string, *serial.Mode) (serial.Port, error) { return nil, errBusy }
	t.Cleanup(func() { openPort = serial.Open })

	tr, err := New("/dev/ttyUSB0")
	require.ErrorIs(t, err, errBusy)
	assert.Nil(t, tr)
}

func TestTransport_ReadWrite(t *testing.T) {
	port := &fakePort{toRead: []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}}
	tr := newFakeTransport(t, port)

	n, err := tr.Write([]byte{0x55, 0x55})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x55, 0x55}, port.written)

	buf := make([]byte, 4)
	n, err = tr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0x00, 0x00, 0xFF, 0x00}, buf)
}

func TestTransport_ShortWrite(t *testing.T) {
	port := &fakePort{shortBy: 1}
	tr := newFakeTransport(t, port)

	n, err := tr.Write([]byte{0x01, 0x02, 0x03})
	require.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, err.Error(), "short write")
}

func TestTransport_SetReadTimeoutSkipsUnchanged(t *testing.T) {
	port := &fakePort{}
	tr := newFakeTransport(t, port)

	require.NoError(t, tr.SetReadTimeout(DefaultReadTimeout))
	require.NoError(t, tr.SetReadTimeout(time.Second))
	require.NoError(t, tr.SetReadTimeout(time.Second))

	assert.Equal(t, []time.Duration{DefaultReadTimeout, time.Second}, port.timeouts)
}

func TestTransport_Close(t *testing.T) {
	port := &fakePort{}
	tr := newFakeTransport(t, port)

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.Equal(t, 1, port.closed)
	assert.False(t, tr.IsConnected())

	_, err := tr.Read(make([]byte, 1))
	require.ErrorIs(t, err, ErrClosed)
	_, err = tr.Write([]byte{0x00})
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, tr.Drain(), ErrClosed)
	require.ErrorIs(t, tr.SetReadTimeout(time.Second), ErrClosed)
}
