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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_StopsWhenDone(t *testing.T) {
	t.Parallel()
	calls := 0
	got, err := Do(context.Background(), Config{Description: "test", MaxAttempts: 5}, func(attempt int) (int, bool, error) {
		calls++
		return attempt * 10, attempt == 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 30, got)
	assert.Equal(t, 3, calls)
}

func TestDo_Exhausted(t *testing.T) {
	t.Parallel()
	var retried []int
	cfg := Config{
		Description: "poll",
		MaxAttempts: 4,
		OnRetry: func(attempt int) error {
			retried = append(retried, attempt)
			return nil
		},
	}

	got, err := Do(context.Background(), cfg, func(attempt int) (int, bool, error) {
		return attempt, false, nil
	})
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 4, got)
	assert.Equal(t, []int{1, 2, 3}, retried)
	assert.Contains(t, err.Error(), "poll")
}

func TestDo_OperationError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	calls := 0
	_, err := Do(context.Background(), Config{MaxAttempts: 5}, func(int) (struct{}, bool, error) {
		calls++
		return struct{}{}, false, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDo_RetryCallbackError(t *testing.T) {
	t.Parallel()
	stop := errors.New("stop")
	calls := 0
	_, err := Do(context.Background(), Config{
		MaxAttempts: 5,
		OnRetry:     func(int) error { return stop },
	}, func(int) (int, bool, error) {
		calls++
		return 0, false, nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCheckedBetweenAttempts(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, Config{MaxAttempts: 10}, func(int) (int, bool, error) {
		calls++
		// cancellation during an attempt does not cut it short
		cancel()
		return 0, false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_Delay(t *testing.T) {
	t.Parallel()
	start := time.Now()
	_, err := Do(context.Background(), Config{MaxAttempts: 3, Delay: 5 * time.Millisecond}, func(int) (int, bool, error) {
		return 0, false, nil
	})
	require.ErrorIs(t, err, ErrExhausted)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestDo_InvalidConfig(t *testing.T) {
	t.Parallel()
	_, err := Do(context.Background(), Config{}, func(int) (int, bool, error) {
		t.Fatal("operation must not run")
		return 0, false, nil
	})
	require.Error(t, err)
}
