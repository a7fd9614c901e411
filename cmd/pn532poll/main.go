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

// Command pn532poll drives a PN532 reader over a serial port. By default it
// loops over Type A polling, an optional custom broadcast frame, Type B
// polling and a field reset until interrupted.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	pn532 "github.com/ZaparooProject/go-pn532-hce"
	"github.com/ZaparooProject/go-pn532-hce/apdu"
	"github.com/ZaparooProject/go-pn532-hce/polling"
	"github.com/ZaparooProject/go-pn532-hce/t4t"
)

type config struct {
	path         *string
	pollingFrame *string
	apdus        *string
	expect       *string
	attempts     *int
	interval     *time.Duration
	readNDEF     *bool
	debug        *bool
}

func parseFlags() *config {
	cfg := &config{
		path: flag.String("path", "",
			"Serial device path (e.g., /dev/ttyUSB0 or COM3). Leave empty for auto-detection."),
		pollingFrame: flag.String("polling-frame", "", "Optional custom polling frame in hex"),
		apdus: flag.String("apdu", "",
			"Comma-separated hex APDUs to send to the first Type A target, then exit"),
		expect: flag.String("expect", "",
			"Comma-separated hex responses expected for -apdu; '*' matches anything (default: all '*')"),
		attempts: flag.Int("attempts", polling.DefaultAttempts, "Poll attempts for -apdu and -ndef"),
		interval: flag.Duration("interval", 0, "Pause between missed polls for -apdu"),
		readNDEF: flag.Bool("ndef", false, "Read the NDEF message from the first Type 4 target, then exit"),
		debug:    flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()
	return cfg
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

func parseHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func main() {
	cfg := parseFlags()
	log := newLogger(*cfg.debug)

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("polling failed")
		os.Exit(1)
	}
}

func run(cfg *config, log zerolog.Logger) error {
	var frame []byte
	if *cfg.pollingFrame != "" {
		var err error
		if frame, err = parseHex(*cfg.pollingFrame); err != nil {
			return fmt.Errorf("failed to parse polling frame: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	device, err := pn532.Open(*cfg.path, pn532.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := device.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("close failed")
		}
	}()
	log.Info().Stringer("firmware", device.FirmwareVersion()).Msg("reader ready")

	switch {
	case *cfg.apdus != "":
		return transact(ctx, device, cfg, frame, log)
	case *cfg.readNDEF:
		return readNDEF(ctx, device, *cfg.attempts, log)
	default:
		return pollLoop(ctx, device, frame, log)
	}
}

func pollLoop(ctx context.Context, device *pn532.Device, frame []byte, log zerolog.Logger) error {
	for ctx.Err() == nil {
		tagA, err := device.PollA()
		if err != nil {
			return err
		}
		if tagA != nil {
			log.Info().
				Hex("nfcid", tagA.NFCID).
				Hex("ats", tagA.ATS).
				Bool("iso_dep", tagA.SupportsISODEP()).
				Msg("type A target")
		}

		if frame != nil {
			if err := device.SendBroadcast(frame); err != nil {
				return err
			}
		}

		tagB, err := device.PollB()
		if err != nil {
			return err
		}
		if tagB != nil {
			log.Info().
				Hex("pupi", tagB.PUPI()).
				Hex("app_data", tagB.ApplicationData()).
				Hex("protocol_info", tagB.ProtocolInfo()).
				Msg("type B target")
		}

		if err := device.Mute(); err != nil {
			return err
		}
	}
	return nil
}

func transact(ctx context.Context, device *pn532.Device, cfg *config, frame []byte, log zerolog.Logger) error {
	commands, err := apdu.ParseHexAPDUs(splitList(*cfg.apdus))
	if err != nil {
		return err
	}
	fixtures := splitList(*cfg.expect)
	if fixtures == nil {
		fixtures = make([]string, len(commands))
		for i := range fixtures {
			fixtures[i] = apdu.Wildcard
		}
	}
	expected, err := apdu.ParseExpectations(fixtures)
	if err != nil {
		return err
	}

	found, transacted, err := polling.PollAndTransact(ctx, device, commands, expected, frame, &polling.Config{
		Logger:   log,
		Attempts: *cfg.attempts,
		Interval: *cfg.interval,
	})
	if err != nil {
		return err
	}
	log.Info().Bool("found", found).Bool("transacted", transacted).Msg("done")
	if !transacted {
		return errors.New("transaction did not complete")
	}
	return nil
}

func readNDEF(ctx context.Context, device *pn532.Device, attempts int, log zerolog.Logger) error {
	for i := 0; i < attempts && ctx.Err() == nil; i++ {
		tag, err := device.PollA()
		if err != nil {
			return err
		}
		if tag == nil {
			if err := device.Mute(); err != nil {
				return err
			}
			continue
		}

		msg, readErr := t4t.ReadNDEF(tag)
		if err := device.Mute(); err != nil {
			log.Warn().Err(err).Msg("mute failed")
		}
		if readErr != nil {
			return readErr
		}
		_, _ = fmt.Println(msg.String())
		return nil
	}
	return pn532.ErrTagNotFound
}
