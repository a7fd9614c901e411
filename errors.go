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

	"github.com/ZaparooProject/go-pn532-hce/internal/frame"
)

// Transport errors
var (
	ErrTransportRead  = errors.New("transport read failed")
	ErrTransportWrite = errors.New("transport write failed")
	ErrDeviceNotFound = errors.New("PN532 device not found")
)

// Frame errors. A frame error means the command produced no usable reply;
// primitives that may legitimately see silence treat it as "nothing there".
// ErrNoACK always comes wrapped together with ErrNoResponse.
var (
	ErrNoResponse           = frame.ErrNoResponse
	ErrNoACK                = frame.ErrNoACK
	ErrFrameTruncated       = frame.ErrFrameTruncated
	ErrUnexpectedFrameStart = frame.ErrUnexpectedFrameStart
	ErrChecksumMismatch     = frame.ErrChecksumMismatch
	ErrUnexpectedTFI        = frame.ErrUnexpectedTFI
	ErrDataTooLarge         = frame.ErrDataTooLarge
)

// Device errors
var (
	ErrFirmwareMismatch       = errors.New("unexpected firmware version reply")
	ErrUnexpectedResponseCode = errors.New("unexpected response code")
	ErrDeviceNotReady         = errors.New("device not initialized")
	ErrTagReleased            = errors.New("tag session no longer valid")
	ErrTagNotFound            = errors.New("tag not found")
	ErrInvalidParameter       = errors.New("invalid parameter")
)

// ErrorType classifies errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away by trying again
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on the next attempt
	ErrorTypeTransient
	// ErrorTypeTimeout errors mean the device did not answer in time
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypePermanent:
		return "permanent"
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// TransportError wraps an error from the byte transport with the operation
// and port it happened on.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error. Transient and timeout errors
// are marked retryable.
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Err:       err,
		Op:        op,
		Port:      port,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewDataTooLargeError creates a permanent error for a payload of n bytes
// that does not fit a normal frame.
func NewDataTooLargeError(op, port string, n int) *TransportError {
	return NewTransportError(op, port, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, n), ErrorTypePermanent)
}

// InitStage names the step of the initialization handshake that failed.
type InitStage string

const (
	StageWakeup   InitStage = "wakeup"
	StageFirmware InitStage = "firmware version"
	StageSAM      InitStage = "SAM configuration"
	StageRF       InitStage = "RF configuration"
)

// InitError is returned by Init. Initialization failures are fatal: the
// device stays Uninitialized.
type InitError struct {
	Err   error
	Stage InitStage
}

func (e *InitError) Error() string {
	return fmt.Sprintf("PN532 init failed at %s: %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ExchangeError is a non-zero status byte from InDataExchange. The tag may
// have left the field or rejected the frame; the device itself is fine.
type ExchangeError struct {
	Status byte
}

func (e *ExchangeError) Error() string {
	if text, ok := statusText[e.Status&0x3F]; ok {
		return fmt.Sprintf("data exchange failed with status 0x%02X (%s)", e.Status, text)
	}
	return fmt.Sprintf("data exchange failed with status 0x%02X", e.Status)
}

// Timeout reports whether the target did not answer.
func (e *ExchangeError) Timeout() bool {
	return e.Status&0x3F == 0x01
}

// PN532 error codes, lower six bits of the status byte
var statusText = map[byte]string{
	0x01: "timeout",
	0x02: "CRC error",
	0x03: "parity error",
	0x04: "erroneous bit count",
	0x05: "framing error",
	0x06: "bit collision",
	0x07: "buffer size insufficient",
	0x09: "RF buffer overflow",
	0x0A: "RF field not switched on",
	0x0B: "RF protocol error",
	0x0D: "overheating",
	0x0E: "internal buffer overflow",
	0x10: "invalid parameter",
	0x13: "data format error",
	0x27: "command not acceptable",
	0x29: "target released",
	0x2A: "card ID mismatch",
	0x2B: "card disappeared",
}

var retryableErrors = []error{
	ErrTransportRead,
	ErrTransportWrite,
	ErrNoResponse,
	ErrFrameTruncated,
	ErrUnexpectedFrameStart,
	ErrChecksumMismatch,
	ErrUnexpectedTFI,
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	var xe *ExchangeError
	if errors.As(err, &xe) {
		return true
	}

	for _, target := range retryableErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetErrorType classifies err.
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	var xe *ExchangeError
	if errors.As(err, &xe) {
		if xe.Timeout() {
			return ErrorTypeTimeout
		}
		return ErrorTypeTransient
	}

	switch {
	case errors.Is(err, ErrNoResponse):
		return ErrorTypeTimeout
	case IsRetryable(err):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}

// isFrameError reports whether err came from decoding a reply rather than
// from the transport itself.
func isFrameError(err error) bool {
	return errors.Is(err, ErrNoResponse) ||
		errors.Is(err, ErrFrameTruncated) ||
		errors.Is(err, ErrUnexpectedFrameStart) ||
		errors.Is(err, ErrChecksumMismatch) ||
		errors.Is(err, ErrUnexpectedTFI)
}
