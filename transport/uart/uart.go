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

// Package uart implements the PN532 byte transport over a serial port.
package uart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// BaudRate is the PN532 HSU default.
	BaudRate = 115200
	// DefaultReadTimeout bounds each Read call.
	DefaultReadTimeout = 500 * time.Millisecond
)

// ErrClosed is returned by operations on a closed transport.
var ErrClosed = errors.New("uart transport closed")

// openPort is swapped out by tests.
var openPort = serial.Open

// Transport is a serial connection to a PN532. Read returns 0 bytes and
// no error when the read timeout expires with nothing received.
type Transport struct {
	port     serial.Port
	portName string
	timeout  time.Duration
	mu       sync.Mutex
}

// New opens portName at 115200 8N1.
func New(portName string) (*Transport, error) {
	port, err := openPort(portName, &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open UART port %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(DefaultReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set UART read timeout: %w", err)
	}

	return &Transport{
		port:     port,
		portName: portName,
		timeout:  DefaultReadTimeout,
	}, nil
}

// PortName returns the path the transport was opened with
func (t *Transport) PortName() string {
	return t.portName
}

// Read reads up to len(p) bytes, blocking for at most the read timeout.
func (t *Transport) Read(p []byte) (int, error) {
	port, err := t.livePort()
	if err != nil {
		return 0, err
	}
	n, err := port.Read(p)
	if err != nil {
		return n, fmt.Errorf("UART read failed: %w", err)
	}
	return n, nil
}

// Write writes p in full.
func (t *Transport) Write(p []byte) (int, error) {
	port, err := t.livePort()
	if err != nil {
		return 0, err
	}
	n, err := port.Write(p)
	if err != nil {
		return n, fmt.Errorf("UART write failed: %w", err)
	}
	if n != len(p) {
		return n, fmt.Errorf("UART short write: %d of %d bytes", n, len(p))
	}
	return n, nil
}

// Drain blocks until everything written has been transmitted.
func (t *Transport) Drain() error {
	port, err := t.livePort()
	if err != nil {
		return err
	}
	if err := port.Drain(); err != nil {
		return fmt.Errorf("UART drain failed: %w", err)
	}
	return nil
}

// ResetInputBuffer discards unread received bytes.
func (t *Transport) ResetInputBuffer() error {
	port, err := t.livePort()
	if err != nil {
		return err
	}
	if err := port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("UART input reset failed: %w", err)
	}
	return nil
}

// ResetOutputBuffer discards bytes not yet transmitted.
func (t *Transport) ResetOutputBuffer() error {
	port, err := t.livePort()
	if err != nil {
		return err
	}
	if err := port.ResetOutputBuffer(); err != nil {
		return fmt.Errorf("UART output reset failed: %w", err)
	}
	return nil
}

// SetReadTimeout sets how long a Read waits for the first byte.
func (t *Transport) SetReadTimeout(timeout time.Duration) error {
	port, err := t.livePort()
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if timeout == t.timeout {
		return nil
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("UART set timeout failed: %w", err)
	}
	t.timeout = timeout
	return nil
}

// Close closes the port. Pending and later reads fail.
func (t *Transport) Close() error {
	t.mu.Lock()
	port := t.port
	t.port = nil
	t.mu.Unlock()

	if port == nil {
		return nil
	}
	if err := port.Close(); err != nil {
		return fmt.Errorf("UART close failed: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

func (t *Transport) livePort() (serial.Port, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return nil, ErrClosed
	}
	return t.port, nil
}
