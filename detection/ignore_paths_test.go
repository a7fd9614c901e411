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

package detection

import (
	"testing"
)

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	tests := getPathIgnoredTests()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsPathIgnored(tt.devicePath, tt.ignorePaths)
			if result != tt.expected {
				t.Errorf("IsPathIgnored(%q, %v) = %v, want %v",
					tt.devicePath, tt.ignorePaths, result, tt.expected)
			}
		})
	}
}

type pathIgnoredTest struct {
	name        string
	devicePath  string
	ignorePaths []string
	expected    bool
}

//nolint:funlen // Test data function, acceptable to be longer
func getPathIgnoredTests() []pathIgnoredTest {
	basicTests := []pathIgnoredTest{
		{
			name:        "empty ignore list",
			devicePath:  "/dev/ttyUSB0",
			ignorePaths: []string{},
			expected:    false,
		},
		{
			name:        "empty device path",
			devicePath:  "",
			ignorePaths: []string{"/dev/ttyUSB0"},
			expected:    false,
		},
		{
			name:        "exact match unix path",
			devicePath:  "/dev/ttyUSB0",
			ignorePaths: []string{"/dev/ttyUSB0"},
			expected:    true,
		},
		{
			name:        "exact match windows path",
			devicePath:  "COM2",
			ignorePaths: []string{"COM2"},
			expected:    true,
		},
	}

	caseTests := []pathIgnoredTest{
		{
			name:        "case insensitive match",
			devicePath:  "/dev/ttyUSB0",
			ignorePaths: []string{"/DEV/TTYUSB0"},
			expected:    true,
		},
		{
			name:        "windows case insensitive",
			devicePath:  "com2",
			ignorePaths: []string{"COM2"},
			expected:    true,
		},
	}

	multipleTests := []pathIgnoredTest{
		{
			name:        "no match",
			devicePath:  "/dev/ttyUSB1",
			ignorePaths: []string{"/dev/ttyUSB0"},
			expected:    false,
		},
		{
			name:        "multiple paths with match",
			devicePath:  "/dev/ttyUSB1",
			ignorePaths: []string{"/dev/ttyUSB0", "/dev/ttyUSB1", "COM2"},
			expected:    true,
		},
		{
			name:        "multiple paths no match",
			devicePath:  "/dev/ttyUSB2",
			ignorePaths: []string{"/dev/ttyUSB0", "/dev/ttyUSB1", "COM2"},
			expected:    false,
		},
	}

	specialTests := []pathIgnoredTest{
		{
			name:        "macOS callout device",
			devicePath:  "/dev/cu.usbserial-1410",
			ignorePaths: []string{"/dev/cu.usbserial-1410"},
			expected:    true,
		},
		{
			name:        "by-id symlink path",
			devicePath:  "/dev/serial/by-id/usb-1a86_USB_Serial-if00-port0",
			ignorePaths: []string{"/dev/serial/by-id/usb-1a86_USB_Serial-if00-port0"},
			expected:    true,
		},
		{
			name:        "path with relative components",
			devicePath:  "/dev/../dev/ttyUSB0",
			ignorePaths: []string{"/dev/ttyUSB0"},
			expected:    true,
		},
		{
			name:        "empty strings in ignore list",
			devicePath:  "/dev/ttyUSB0",
			ignorePaths: []string{"", "/dev/ttyUSB0", ""},
			expected:    true,
		},
	}

	result := make([]pathIgnoredTest, 0, len(basicTests)+len(caseTests)+len(multipleTests)+len(specialTests))
	result = append(result, basicTests...)
	result = append(result, caseTests...)
	result = append(result, multipleTests...)
	result = append(result, specialTests...)
	return result
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if opts.IgnorePaths != nil {
		t.Errorf("DefaultOptions().IgnorePaths should be nil, got %v", opts.IgnorePaths)
	}
	if opts.Mode != Safe {
		t.Errorf("DefaultOptions().Mode = %v, want Safe", opts.Mode)
	}
	if !IsBlocked("2341:0043", opts.Blocklist) {
		t.Error("default blocklist should contain the Arduino Uno")
	}
	if IsBlocked("1A86:7523", opts.Blocklist) {
		t.Error("default blocklist should not contain the CH340 bridge")
	}
}

func TestFormatVIDPID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		vid, pid, want string
	}{
		{vid: "1a86", pid: "7523", want: "1A86:7523"},
		{vid: "0x10c4", pid: "0xea60", want: "10C4:EA60"},
		{vid: "", pid: "7523", want: ""},
		{vid: "0403", pid: "", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		if got := FormatVIDPID(tt.vid, tt.pid); got != tt.want {
			t.Errorf("FormatVIDPID(%q, %q) = %q, want %q", tt.vid, tt.pid, got, tt.want)
		}
	}
}

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	blocklist := []string{" 2341:0043 ", "abcd:ef01"}
	if !IsBlocked("2341:0043", blocklist) {
		t.Error("exact entry should be blocked")
	}
	if !IsBlocked("ABCD:EF01", blocklist) {
		t.Error("blocklist match should ignore case")
	}
	if IsBlocked("1A86:7523", blocklist) {
		t.Error("unlisted device should not be blocked")
	}
	if IsBlocked("", blocklist) || IsBlocked("2341", blocklist) {
		t.Error("malformed ids should not be blocked")
	}
}

func TestIsBlocked_VendorWildcard(t *testing.T) {
	t.Parallel()

	blocklist := []string{"2341:*"}
	for _, vidpid := range []string{"2341:0043", "2341:8036", "2341:ABCD"} {
		if !IsBlocked(vidpid, blocklist) {
			t.Errorf("IsBlocked(%q) = false, want true for vendor wildcard", vidpid)
		}
	}
	if IsBlocked("2342:0043", blocklist) {
		t.Error("wildcard should only cover its own vendor")
	}
}
