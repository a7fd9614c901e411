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

// Package uart finds serial ports that may have a PN532 attached.
package uart

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/go-pn532-hce/detection"
	"go.bug.st/serial/enumerator"
)

// knownBridges are USB-serial chips commonly fitted to PN532 breakout boards.
var knownBridges = map[string]string{
	"1A86:7523": "CH340",
	"10C4:EA60": "CP210x",
	"0403:6001": "FT232R",
	"067B:2303": "PL2303",
}

// listPorts is swapped out by tests.
var listPorts = enumerator.GetDetailedPortsList

type detector struct{}

// New creates a new serial port detector
func New() detection.Detector {
	return &detector{}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "uart"
}

// Detect lists serial ports. In Safe mode only USB ports that are not
// blocklisted are returned; Passive mode returns every port.
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(ports))
	for _, port := range ports {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		if device, ok := toDeviceInfo(port, opts); ok {
			devices = append(devices, device)
		}
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

func toDeviceInfo(port *enumerator.PortDetails, opts *detection.Options) (detection.DeviceInfo, bool) {
	if port == nil || detection.IsPathIgnored(port.Name, opts.IgnorePaths) {
		return detection.DeviceInfo{}, false
	}

	vidpid := detection.FormatVIDPID(port.VID, port.PID)
	if opts.Mode != detection.Passive {
		if !port.IsUSB {
			return detection.DeviceInfo{}, false
		}
		if vidpid != "" && detection.IsBlocked(vidpid, opts.Blocklist) {
			return detection.DeviceInfo{}, false
		}
	}

	device := detection.DeviceInfo{
		Transport:  "uart",
		Path:       port.Name,
		Name:       port.Name,
		Confidence: detection.Low,
		Metadata:   map[string]string{},
	}
	if port.Product != "" {
		device.Name = port.Product
	}
	if vidpid != "" {
		device.Metadata["vidpid"] = vidpid
	}
	if port.SerialNumber != "" {
		device.Metadata["serial"] = port.SerialNumber
	}
	if bridge, ok := knownBridges[vidpid]; ok {
		device.Metadata["bridge"] = bridge
		device.Confidence = detection.Medium
	}
	return device, true
}
