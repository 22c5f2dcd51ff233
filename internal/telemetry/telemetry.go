// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package telemetry is the sink for every row-level and semantic-ignore
// event spec'd for the engine: it observes, it never aborts the stream, and
// its output never feeds back into the dispatcher's control flow.
package telemetry

import (
	"go.uber.org/zap"

	"github.com/naamancurtis/trx/ledger"
)

// Recorder implements ledger.Recorder on top of a structured logger. It is
// safe for concurrent use by multiple dispatcher workers/actors, since
// zap.Logger itself is.
type Recorder struct {
	log *zap.SugaredLogger
}

var _ ledger.Recorder = (*Recorder)(nil)

// New wraps log as a ledger.Recorder.
func New(log *zap.SugaredLogger) *Recorder {
	return &Recorder{log: log}
}

// RecordIgnored implements ledger.Recorder.
func (r *Recorder) RecordIgnored(evt ledger.Event, reason ledger.IgnoreReason) {
	r.log.Infow("event ignored",
		"client", evt.Client,
		"tx", evt.Tx,
		"kind", evt.Kind.String(),
		"reason", reason.String(),
	)
}

// RecordMalformedRow reports a CSV row that failed to decode into an Event
// at all (bad type, missing/unparseable amount, wrong sign). This is the
// row-level malformed-input half of the taxonomy; RecordIgnored covers the
// semantic-rejection half.
func (r *Recorder) RecordMalformedRow(row []string, cause error) {
	r.log.Warnw("malformed input row skipped", "row", row, "cause", cause)
}

// NewLogger builds a zap logger at the given level ("debug", "info", "warn",
// "error"; defaults to "info" on an unrecognized value), writing to stderr
// so stdout stays reserved for the CSV snapshot output the CLI writes.
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	var lvl zap.AtomicLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = lvl

	return cfg.Build()
}
