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

// Package detection discovers PN532 readers attached to the host.
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Detection errors
var (
	ErrNoDevicesFound      = errors.New("no PN532 devices found")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	ErrDetectionTimeout    = errors.New("device detection timed out")
)

// Mode controls how aggressively detectors look for devices.
type Mode int

const (
	// Passive only lists ports; nothing is opened.
	Passive Mode = iota
	// Safe lists ports and filters known problematic devices.
	Safe
)

// Confidence ranks how likely a detected port is to be a PN532.
type Confidence int

const (
	Low Confidence = iota
	Medium
	High
)

// DeviceInfo describes a candidate reader.
type DeviceInfo struct {
	Metadata   map[string]string
	Transport  string
	Path       string
	Name       string
	Confidence Confidence
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s:%s", d.Transport, d.Path)
}

// Options configures detection.
type Options struct {
	// IgnorePaths lists device paths that must never be returned.
	IgnorePaths []string
	// Blocklist holds VID:PID pairs that must not be returned.
	Blocklist []string
	Timeout   time.Duration
	Mode      Mode
}

// DefaultOptions returns the options used by pn532.Open when no path is given.
func DefaultOptions() Options {
	return Options{
		Mode:      Safe,
		Timeout:   5 * time.Second,
		Blocklist: DefaultBlocklist(),
	}
}

// Detector finds devices for one transport type.
type Detector interface {
	Transport() string
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.Mutex
	registry   []Detector
)

// RegisterDetector makes a detector available to DetectAll. Detector
// packages call this from init.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, d)
}

// DetectAll runs every registered detector and returns the candidates,
// highest confidence first.
func DetectAll(opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}

	registryMu.Lock()
	detectors := append([]Detector(nil), registry...)
	registryMu.Unlock()

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var devices []DeviceInfo
	for _, d := range detectors {
		found, err := d.Detect(ctx, opts)
		if err != nil {
			if errors.Is(err, ErrNoDevicesFound) || errors.Is(err, ErrUnsupportedPlatform) {
				continue
			}
			return nil, fmt.Errorf("%s detection failed: %w", d.Transport(), err)
		}
		devices = append(devices, found...)
	}

	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Confidence > devices[j].Confidence
	})
	return devices, nil
}
