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
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Default timeouts
const (
	DefaultTimeout         = 500 * time.Millisecond
	DefaultInitTimeout     = 1 * time.Second
	DefaultExchangeTimeout = 5 * time.Second
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// Logger receives all device records. Each record carries a "device" field.
	Logger zerolog.Logger
	// DeviceName tags log records and transport errors, usually the port path
	DeviceName string
	// Timeout is the read timeout for ordinary commands
	Timeout time.Duration
	// InitTimeout applies to SAMConfiguration and RFConfiguration during Init
	InitTimeout time.Duration
	// ExchangeTimeout applies to InDataExchange, which waits on the tag
	ExchangeTimeout time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Logger:          zerolog.Nop(),
		DeviceName:      "pn532",
		Timeout:         DefaultTimeout,
		InitTimeout:     DefaultInitTimeout,
		ExchangeTimeout: DefaultExchangeTimeout,
	}
}

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithLogger sets the logger used for device records
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Device) error {
		d.config.Logger = logger
		return nil
	}
}

// WithDeviceName sets the name attached to log records and errors
func WithDeviceName(name string) Option {
	return func(d *Device) error {
		d.config.DeviceName = name
		return nil
	}
}

// WithTimeout sets the default read timeout
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if err := validTimeout(timeout); err != nil {
			return err
		}
		d.config.Timeout = timeout
		return nil
	}
}

// WithInitTimeout sets the read timeout for the configuration steps of Init
func WithInitTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if err := validTimeout(timeout); err != nil {
			return err
		}
		d.config.InitTimeout = timeout
		return nil
	}
}

// WithExchangeTimeout sets the read timeout for data exchange with a tag
func WithExchangeTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if err := validTimeout(timeout); err != nil {
			return err
		}
		d.config.ExchangeTimeout = timeout
		return nil
	}
}

func validTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidParameter, timeout)
	}
	return nil
}
