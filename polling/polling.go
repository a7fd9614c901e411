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

// Package polling drives the poll-and-transact loop used to reach a phone
// emulating a Type 4 tag.
package polling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	pn532 "github.com/ZaparooProject/go-pn532-hce"
	"github.com/ZaparooProject/go-pn532-hce/apdu"
	"github.com/ZaparooProject/go-pn532-hce/internal/retry"
)

// DefaultAttempts is the number of poll iterations before giving up.
const DefaultAttempts = 50

// Reader is the subset of *pn532.Device the loop needs.
type Reader interface {
	PollA() (*pn532.TypeATag, error)
	SendBroadcast(payload []byte) error
	Mute() error
}

// Config holds loop settings.
type Config struct {
	Logger   zerolog.Logger
	Attempts int
	// Interval is the pause between a missed poll and the next one
	Interval time.Duration
}

// DefaultConfig returns a config with DefaultAttempts and a no-op logger.
func DefaultConfig() *Config {
	return &Config{
		Logger:   zerolog.Nop(),
		Attempts: DefaultAttempts,
	}
}

type outcome struct {
	found      bool
	transacted bool
}

// PollAndTransact polls for a Type A target up to cfg.Attempts times. When a
// target answers, commands are sent through Transact, the field is muted and
// the loop stops. Otherwise customFrame, if non-nil, is broadcast and the
// field is muted before the next attempt.
//
// ctx is checked between attempts and during the Interval pause. Reader
// errors abort the loop and are returned with whatever was achieved so far.
func PollAndTransact(
	ctx context.Context,
	r Reader,
	commands [][]byte,
	expected []apdu.Expect,
	customFrame []byte,
	cfg *Config,
) (found, transacted bool, err error) {
	if r == nil {
		return false, false, fmt.Errorf("%w: reader cannot be nil", pn532.ErrInvalidParameter)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	log := cfg.Logger.With().Str("run", uuid.NewString()).Logger()
	log.Debug().Int("attempts", attempts).Int("commands", len(commands)).Msg("polling started")

	res, err := retry.Do(ctx, retry.Config{
		Description: "poll and transact",
		MaxAttempts: attempts,
		Delay:       cfg.Interval,
		OnRetry: func(attempt int) error {
			log.Debug().Int("attempt", attempt+1).Dur("interval", cfg.Interval).Msg("retrying poll")
			return nil
		},
	}, func(attempt int) (outcome, bool, error) {
		return pollOnce(r, commands, expected, customFrame, log.With().Int("attempt", attempt).Logger())
	})

	switch {
	case errors.Is(err, retry.ErrExhausted):
		log.Debug().Msg("no target found")
		return false, false, nil
	case err != nil:
		log.Warn().Err(err).Msg("polling aborted")
		return res.found, res.transacted, err
	}

	log.Info().Bool("transacted", res.transacted).Msg("polling finished")
	return res.found, res.transacted, nil
}

func pollOnce(
	r Reader,
	commands [][]byte,
	expected []apdu.Expect,
	customFrame []byte,
	log zerolog.Logger,
) (outcome, bool, error) {
	tag, err := r.PollA()
	if err != nil {
		return outcome{}, false, fmt.Errorf("poll: %w", err)
	}

	if tag != nil {
		log.Info().
			Uint8("target", tag.TargetID()).
			Hex("nfcid", tag.NFCID).
			Msg("target found")
		res := outcome{found: true, transacted: tag.Transact(commands, expected)}
		if err := r.Mute(); err != nil {
			return res, false, fmt.Errorf("mute: %w", err)
		}
		return res, true, nil
	}

	if customFrame != nil {
		if err := r.SendBroadcast(customFrame); err != nil {
			return outcome{}, false, err
		}
	}
	if err := r.Mute(); err != nil {
		return outcome{}, false, fmt.Errorf("mute: %w", err)
	}
	return outcome{}, false, nil
}
