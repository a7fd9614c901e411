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
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-pn532-hce/detection"
	// registers the serial port detector used by Open("")
	_ "github.com/ZaparooProject/go-pn532-hce/detection/uart"
	"github.com/ZaparooProject/go-pn532-hce/internal/frame"
	"github.com/ZaparooProject/go-pn532-hce/transport/uart"
)

// InitState is the position of a Device in the initialization handshake.
type InitState int

const (
	StateUninitialized InitState = iota
	StateAwaitingFirmwareAck
	StateConfiguring
	StateReady
)

func (s InitState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAwaitingFirmwareAck:
		return "awaiting firmware ack"
	case StateConfiguring:
		return "configuring"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("InitState(%d)", int(s))
	}
}

// Device represents a PN532 NFC reader driven as an initiator.
//
// Thread Safety: Device is NOT thread-safe. All methods must be called from
// a single goroutine or protected with external synchronization.
type Device struct {
	transport Transport
	config    *DeviceConfig
	firmware  *FirmwareVersion
	log       zerolog.Logger
	state     InitState
	// epoch advances whenever the RF field is reset or a new poll starts.
	// Tag sessions from an older epoch are stale.
	epoch uint64
	// readTimeout is the timeout currently applied to the transport
	readTimeout time.Duration
}

// New creates a new PN532 device with the given transport. The device must
// be initialized with Init before use.
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidParameter)
	}

	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	device.log = device.config.Logger.With().Str("device", device.config.DeviceName).Logger()
	return device, nil
}

// detectDevices and openTransport are replaced in tests.
var (
	detectDevices = detection.DetectAll
	openTransport = func(path string) (Transport, error) {
		return uart.New(path)
	}
)

// Open connects to the PN532 on the serial port at path and initializes it.
// An empty path uses the first serial port found by detection.
func Open(path string, opts ...Option) (*Device, error) {
	if path == "" {
		found, err := firstDetectedPort()
		if err != nil {
			return nil, err
		}
		path = found
	}

	transport, err := openTransport(path)
	if err != nil {
		return nil, NewTransportError("open", path, fmt.Errorf("%w: %w", ErrDeviceNotFound, err), ErrorTypePermanent)
	}

	device, err := New(transport, append([]Option{WithDeviceName(path)}, opts...)...)
	if err != nil {
		_ = transport.Close()
		return nil, err
	}

	if err := device.Init(); err != nil {
		_ = transport.Close()
		return nil, err
	}
	return device, nil
}

func firstDetectedPort() (string, error) {
	opts := detection.DefaultOptions()
	devices, err := detectDevices(&opts)
	if err != nil && !errors.Is(err, detection.ErrNoDevicesFound) {
		return "", NewTransportError("detect", "", fmt.Errorf("%w: %w", ErrDeviceNotFound, err), ErrorTypePermanent)
	}
	if len(devices) == 0 {
		return "", NewTransportError("detect", "", ErrDeviceNotFound, ErrorTypePermanent)
	}
	return devices[0].Path, nil
}

// Init runs the wake-up and configuration handshake. On failure the device
// is left Uninitialized and the error is an *InitError.
func (d *Device) Init() error {
	d.state = StateUninitialized
	d.firmware = nil

	if err := d.wakeup(); err != nil {
		return d.initFailed(StageWakeup, err)
	}
	d.state = StateAwaitingFirmwareAck

	fw, err := d.getFirmwareVersion()
	if err != nil {
		return d.initFailed(StageFirmware, err)
	}
	d.firmware = fw
	d.log.Info().Str("firmware", fw.String()).Msg("found PN532")
	d.state = StateConfiguring

	if _, err := d.sendCommand(cmdSAMConfiguration, []byte{samModeNormal, 0x00}, commandOpts{
		timeout: d.config.InitTimeout,
		wakeup:  true,
	}); err != nil {
		return d.initFailed(StageSAM, err)
	}

	if err := d.transport.ResetInputBuffer(); err != nil {
		return d.initFailed(StageSAM, NewTransportError("reset input", d.config.DeviceName, err, ErrorTypeTransient))
	}

	// MxRtyATR, MxRtyPSL and MxRtyPassiveActivation all 0: try once per poll
	if _, err := d.sendCommand(cmdRFConfiguration, []byte{rfItemMaxRetries, 0x00, 0x00, 0x00}, commandOpts{
		timeout: d.config.InitTimeout,
	}); err != nil {
		return d.initFailed(StageRF, err)
	}

	d.state = StateReady
	d.log.Debug().Msg("PN532 ready")
	return nil
}

func (d *Device) initFailed(stage InitStage, err error) error {
	d.state = StateUninitialized
	d.log.Error().Err(err).Str("stage", string(stage)).Msg("initialization failed")
	return &InitError{Stage: stage, Err: err}
}

// wakeup flushes pending output, then sends a long run of zeros followed
// by an ACK so the chip leaves low-power mode and drops any half-received
// frame.
func (d *Device) wakeup() error {
	if err := d.transport.Drain(); err != nil {
		return NewTransportError("drain", d.config.DeviceName, err, ErrorTypeTransient)
	}

	seq := make([]byte, 0, len(frame.LongWakeup)+len(frame.AckFrame))
	seq = append(seq, frame.LongWakeup...)
	seq = append(seq, frame.AckFrame...)
	if _, err := d.transport.Write(seq); err != nil {
		return NewTransportError("write", d.config.DeviceName, fmt.Errorf("%w: %w", ErrTransportWrite, err), ErrorTypeTransient)
	}

	if err := d.transport.ResetInputBuffer(); err != nil {
		return NewTransportError("reset input", d.config.DeviceName, err, ErrorTypeTransient)
	}
	return nil
}

// State returns where the device is in the initialization handshake
func (d *Device) State() InitState {
	return d.state
}

// FirmwareVersion returns the version read during Init, or nil before that
func (d *Device) FirmwareVersion() *FirmwareVersion {
	return d.firmware
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Close closes the device connection
func (d *Device) Close() error {
	d.state = StateUninitialized
	d.epoch++
	if d.transport != nil {
		if err := d.transport.Close(); err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	return nil
}

func (d *Device) ready() error {
	if d.state != StateReady {
		return fmt.Errorf("%w: state is %s", ErrDeviceNotReady, d.state)
	}
	return nil
}
