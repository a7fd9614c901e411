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

package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Frame errors. None of these are fatal to the device; a failed read is
// reported to the caller as a missing response.
var (
	ErrNoResponse           = errors.New("no response from PN532")
	ErrNoACK                = errors.New("no ACK received from PN532")
	ErrFrameTruncated       = errors.New("frame truncated")
	ErrUnexpectedFrameStart = errors.New("unexpected frame start")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrUnexpectedTFI        = errors.New("unexpected TFI byte")
	ErrDataTooLarge         = errors.New("data too large for normal frame")
)

// Encode wraps command data (opcode followed by parameters) in a normal
// host-to-PN532 information frame.
func Encode(data []byte) ([]byte, error) {
	return EncodeWithTFI(HostToPn532, data)
}

// EncodeWithTFI builds a normal information frame with the given direction byte.
func EncodeWithTFI(tfi byte, data []byte) ([]byte, error) {
	if len(data)+1 > MaxFrameDataLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, len(data))
	}

	length := byte(len(data) + 1) // LEN counts the TFI
	out := make([]byte, 0, len(data)+8)
	out = append(out,
		Preamble, StartCode1, StartCode2,
		length, CalculateLengthChecksum(length),
		tfi,
	)
	out = append(out, data...)
	out = append(out, CalculateDataChecksum(tfi, data), Postamble)
	return out, nil
}

// Decode reads one ACK and one response frame from rw and returns the
// response data that follows the TFI. After a valid frame the ACK literal
// is written back to rw as the chip protocol requires.
//
// ErrNoResponse is returned when the first read of either frame times out
// with nothing received. When not even the ACK arrived it also wraps
// ErrNoACK.
func Decode(rw io.ReadWriter, log zerolog.Logger) ([]byte, error) {
	ack, err := readN(rw, len(AckFrame))
	if err != nil {
		return nil, err
	}
	if len(ack) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoResponse, ErrNoACK)
	}
	if !bytes.Equal(ack, AckFrame) {
		log.Warn().Hex("got", ack).Msg("did not get ACK frame")
	}

	header, err := readN(rw, HeaderLength)
	if err != nil {
		return nil, err
	}
	switch {
	case len(header) == 0:
		return nil, ErrNoResponse
	case len(header) < HeaderLength:
		return nil, fmt.Errorf("%w: header %x", ErrFrameTruncated, header)
	case !bytes.Equal(header[:3], StartCode):
		return nil, fmt.Errorf("%w: %x", ErrUnexpectedFrameStart, header[:3])
	}

	length, lcs, tfi := header[3], header[4], header[5]
	if length+lcs != 0 {
		return nil, fmt.Errorf("%w: LEN %02x LCS %02x", ErrChecksumMismatch, length, lcs)
	}
	if length == 0 {
		return nil, fmt.Errorf("%w: zero length", ErrFrameTruncated)
	}
	if tfi != Pn532ToHost {
		return nil, fmt.Errorf("%w: %02x", ErrUnexpectedTFI, tfi)
	}

	// LEN-1 data bytes (LEN includes the TFI already read), DCS and the
	// postamble. The postamble is consumed before any check so a bad frame
	// leaves nothing behind for the next read.
	body, err := readN(rw, int(length)+1)
	if err != nil {
		return nil, err
	}
	if len(body) < int(length) {
		return nil, fmt.Errorf("%w: want %d data bytes, got %d", ErrFrameTruncated, length, len(body))
	}
	data, dcs, postamble := body[:length-1], body[length-1], body[length:]
	if tfi+CalculateChecksum(data)+dcs != 0 {
		return nil, fmt.Errorf("%w: DCS %02x", ErrChecksumMismatch, dcs)
	}
	if len(postamble) == 0 || postamble[0] != Postamble {
		log.Warn().Hex("got", postamble).Msg("unexpected postamble")
	}

	if _, err := rw.Write(AckFrame); err != nil {
		return nil, fmt.Errorf("write ACK: %w", err)
	}

	log.Debug().Hex("header", header).Hex("data", data).Msg("received frame")
	return data, nil
}

// readN reads until n bytes arrive or a read returns nothing. Serial ports
// signal a read timeout with a zero-length read, so a short result means
// the device went quiet.
func readN(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		m, err := r.Read(buf[got:])
		got += m
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return buf[:got], fmt.Errorf("read frame: %w", err)
		}
		if m == 0 {
			break
		}
	}
	return buf[:got], nil
}
