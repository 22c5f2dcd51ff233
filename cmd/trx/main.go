// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command trx reads a CSV stream of client transaction events and writes
// the final per-client account snapshots to standard output.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/naamancurtis/trx/dispatcher"
	"github.com/naamancurtis/trx/internal/config"
	"github.com/naamancurtis/trx/internal/csvio"
	"github.com/naamancurtis/trx/internal/metrics"
	"github.com/naamancurtis/trx/internal/telemetry"
	"github.com/naamancurtis/trx/ledger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the testable body of main: it never calls os.Exit itself, and it
// recovers a panic raised on its own goroutine (the serial topology's
// engine calls, and snapshot derivation in Finalize for every topology) so
// such an invariant violation becomes a clean non-zero exit instead of a
// bare stack trace on stderr. A panic inside a sharded worker or actor
// goroutine is not recovered here; it terminates the process directly.
func run(args []string, stdout, stderr *os.File) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "trx: fatal: %v\n", r)
			exitCode = 1
		}
	}()

	fs := config.BuildFlagSet()
	v, err := config.BuildViper(fs, args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "trx: %v\n", err)
		return 1
	}

	var inputPath string
	if rest := fs.Args(); len(rest) > 0 {
		inputPath = rest[0]
	}

	cfg, err := config.BuildConfig(v, inputPath)
	if err != nil {
		fmt.Fprintf(stderr, "trx: %v\n", err)
		return 1
	}

	log, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "trx: building logger: %v\n", err)
		return 1
	}
	defer log.Sync() //nolint:errcheck // best-effort flush on exit

	in, err := os.Open(cfg.InputPath)
	if err != nil {
		fmt.Fprintf(stderr, "trx: opening input: %v\n", err)
		return 1
	}
	defer in.Close()

	met := metrics.New()
	recorder := metrics.WrapRecorder(met, telemetry.New(log.Sugar()))
	engine := ledger.NewEngine(recorder)

	d := buildDispatcher(cfg, engine)

	malformed := telemetry.New(log.Sugar())
	decodeErr := csvio.DecodeEvents(in, malformed, func(evt ledger.Event) {
		met.ObserveEvent(evt.Kind)
		d.Ingest(evt)
	})
	if decodeErr != nil {
		fmt.Fprintf(stderr, "trx: decoding input: %v\n", decodeErr)
		return 1
	}

	snapshots := d.Finalize()

	if cfg.Metrics {
		logFinalMetrics(log.Sugar(), met, snapshots)
	}

	if err := csvio.EncodeSnapshots(stdout, snapshots); err != nil {
		fmt.Fprintf(stderr, "trx: writing output: %v\n", err)
		return 1
	}

	return 0
}

func buildDispatcher(cfg config.Config, engine *ledger.Engine) dispatcher.Dispatcher {
	switch cfg.Topology {
	case config.TopologySharded:
		return dispatcher.NewSharded(engine, cfg.Workers, cfg.QueueSize)
	case config.TopologyActor:
		return dispatcher.NewActorPerClient(engine, cfg.QueueSize)
	default:
		return dispatcher.NewSerial(engine)
	}
}

func logFinalMetrics(log *zap.SugaredLogger, met *metrics.Metrics, snapshots []ledger.Snapshot) {
	locked := 0
	for _, snap := range snapshots {
		if snap.Locked {
			locked++
		}
	}
	met.SetAccountsLocked(locked)
	met.SetClientsTotal(len(snapshots))
	log.Infow("run complete", "clients", len(snapshots), "locked", locked)
}
