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
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB VID:PID entries never picked when Open
// auto-selects a reader port. A "*" product id blocks the whole vendor.
func DefaultBlocklist() []string {
	return []string{
		"2341:*",    // Arduino boards reset when DTR toggles on open
		"2A03:*",    // Arduino clones under the arduino.org vendor id
		"1366:0105", // SEGGER J-Link CDC port
	}
}

// IsBlocked reports whether vidpid matches an entry of blocklist, ignoring
// case and surrounding spaces.
func IsBlocked(vidpid string, blocklist []string) bool {
	vid, pid, ok := strings.Cut(strings.TrimSpace(vidpid), ":")
	if !ok {
		return false
	}
	for _, entry := range blocklist {
		bvid, bpid, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || !strings.EqualFold(vid, bvid) {
			continue
		}
		if bpid == "*" || strings.EqualFold(pid, bpid) {
			return true
		}
	}
	return false
}

// FormatVIDPID renders enumerator VID and PID strings as "VID:PID" in
// upper case. It returns "" when either id is missing.
func FormatVIDPID(vid, pid string) string {
	vid = hexID(vid)
	pid = hexID(pid)
	if vid == "" || pid == "" {
		return ""
	}
	return vid + ":" + pid
}

func hexID(id string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(id)), "0x"))
}

// IsPathIgnored reports whether devicePath is one of ignorePaths. Paths
// are cleaned and compared case-insensitively so "COM2" matches "com2".
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	want := portKey(devicePath)
	for _, p := range ignorePaths {
		if p != "" && portKey(p) == want {
			return true
		}
	}
	return false
}

func portKey(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
