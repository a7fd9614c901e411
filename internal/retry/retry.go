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

// Package retry drives bounded attempt loops
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when every attempt ran without finishing.
var ErrExhausted = errors.New("attempts exhausted")

// Operation is one attempt. attempt counts from 1.
// Returns: result, done, error
//   - done: true when no further attempts are needed
//   - error: a failure that stops the loop at once
type Operation[T any] func(attempt int) (T, bool, error)

// Config configures the attempt loop
type Config struct {
	// OnRetry runs between attempts, not after the last one
	OnRetry     func(attempt int) error
	Description string
	MaxAttempts int
	Delay       time.Duration
}

// Do runs operation until it reports done, fails, or MaxAttempts attempts
// have run. ctx is only checked between attempts; an attempt in progress is
// never interrupted. The result of the last attempt is returned alongside
// ErrExhausted.
func Do[T any](ctx context.Context, config Config, operation Operation[T]) (T, error) {
	var result T
	if config.MaxAttempts < 1 {
		return result, fmt.Errorf("%s: max attempts must be at least 1, got %d", config.Description, config.MaxAttempts)
	}

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("%s: %w", config.Description, err)
		}

		var done bool
		var err error
		result, done, err = operation(attempt)
		if err != nil {
			return result, err
		}
		if done {
			return result, nil
		}

		if attempt == config.MaxAttempts {
			break
		}
		if err := executeRetryCallback(config, attempt); err != nil {
			return result, err
		}
		if err := sleep(ctx, config.Delay); err != nil {
			return result, fmt.Errorf("%s: %w", config.Description, err)
		}
	}

	return result, fmt.Errorf("%s: %w after %d attempts", config.Description, ErrExhausted, config.MaxAttempts)
}

func executeRetryCallback(config Config, attempt int) error {
	if config.OnRetry != nil {
		return config.OnRetry(attempt)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
