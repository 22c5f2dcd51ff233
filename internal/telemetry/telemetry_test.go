// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/naamancurtis/trx/ledger"
	"github.com/naamancurtis/trx/money"
)

func newObserved() (*Recorder, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core).Sugar()
	return New(log), logs
}

func TestRecorder_RecordIgnored(t *testing.T) {
	r, logs := newObserved()
	amt, err := money.ParseString("1.0")
	require.NoError(t, err)

	r.RecordIgnored(ledger.Event{Kind: ledger.Withdrawal, Client: 7, Tx: 42, Amount: amt}, ledger.ReasonInsufficientFunds)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "event ignored", entry.Message)

	fields := entry.ContextMap()
	assert.EqualValues(t, 7, fields["client"])
	assert.EqualValues(t, 42, fields["tx"])
	assert.Equal(t, "withdrawal", fields["kind"])
	assert.Equal(t, ledger.ReasonInsufficientFunds.String(), fields["reason"])
}

func TestRecorder_RecordMalformedRow(t *testing.T) {
	r, logs := newObserved()
	r.RecordMalformedRow([]string{"bogus", "1", "1", ""}, assert.AnError)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "malformed input row skipped", logs.All()[0].Message)
}

func TestNewLogger_DefaultsOnUnknownLevel(t *testing.T) {
	log, err := NewLogger("not-a-real-level")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNewLogger_Debug(t *testing.T) {
	log, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}
