// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package csvio decodes the header-bearing input CSV into ledger.Events and
// encodes ledger.Snapshots back out. It is the only place in the module
// that knows the wire format described for the CLI; ledger and dispatcher
// never see a CSV row.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/naamancurtis/trx/ledger"
	"github.com/naamancurtis/trx/money"
)

// MalformedRowHandler observes an input row that failed to decode into an
// Event at all. Decoding continues with the next row.
type MalformedRowHandler interface {
	RecordMalformedRow(row []string, cause error)
}

// DiscardMalformedRows implements MalformedRowHandler by dropping every
// report. Useful for tests that don't care about telemetry.
type DiscardMalformedRows struct{}

// RecordMalformedRow implements MalformedRowHandler.
func (DiscardMalformedRows) RecordMalformedRow([]string, error) {}

var header = []string{"type", "client", "tx", "amount"}

// DecodeEvents reads a header-bearing CSV from r and calls emit for every
// row that parses into a valid ledger.Event. Rows that fail to parse are
// reported to onMalformed and skipped; decoding continues. It returns a
// non-nil error only for I/O or gross structural failures (missing or
// mismatched header, reader error) — per the taxonomy, a malformed row,
// including a data row with the wrong column count, is never such a failure.
func DecodeEvents(r io.Reader, onMalformed MalformedRowHandler, emit func(ledger.Event)) error {
	if onMalformed == nil {
		onMalformed = DiscardMalformedRows{}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if err != nil {
		return fmt.Errorf("csvio: reading header: %w", err)
	}
	if !headerMatches(head) {
		return fmt.Errorf("csvio: unexpected header %v, want %v", head, header)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("csvio: reading row: %w", err)
		}

		evt, err := decodeRow(row)
		if err != nil {
			onMalformed.RecordMalformedRow(row, err)
			continue
		}
		emit(evt)
	}
}

func headerMatches(got []string) bool {
	if len(got) != len(header) {
		return false
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(got[i])) != col {
			return false
		}
	}
	return true
}

func decodeRow(row []string) (ledger.Event, error) {
	if len(row) != 4 {
		return ledger.Event{}, fmt.Errorf("expected 4 columns, got %d", len(row))
	}

	kind, err := decodeKind(strings.TrimSpace(row[0]))
	if err != nil {
		return ledger.Event{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil {
		return ledger.Event{}, fmt.Errorf("parsing client: %w", err)
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return ledger.Event{}, fmt.Errorf("parsing tx: %w", err)
	}

	evt := ledger.Event{
		Kind:   kind,
		Client: ledger.ClientID(client),
		Tx:     ledger.TxID(tx),
	}

	rawAmount := strings.TrimSpace(row[3])
	switch kind {
	case ledger.Deposit, ledger.Withdrawal:
		if rawAmount == "" {
			return ledger.Event{}, fmt.Errorf("%s requires an amount", kind)
		}
		amt, err := money.ParseString(rawAmount)
		if err != nil {
			return ledger.Event{}, fmt.Errorf("parsing amount: %w", err)
		}
		if amt.Sign() <= 0 {
			return ledger.Event{}, fmt.Errorf("amount must be positive, got %s", amt)
		}
		evt.Amount = amt
	default:
		if rawAmount != "" {
			return ledger.Event{}, fmt.Errorf("%s must not carry an amount", kind)
		}
	}

	return evt, nil
}

func decodeKind(s string) (ledger.EventKind, error) {
	switch strings.ToLower(s) {
	case "deposit":
		return ledger.Deposit, nil
	case "withdrawal":
		return ledger.Withdrawal, nil
	case "dispute":
		return ledger.Dispute, nil
	case "resolve":
		return ledger.Resolve, nil
	case "chargeback":
		return ledger.Chargeback, nil
	default:
		return 0, fmt.Errorf("unrecognized event type %q", s)
	}
}

// EncodeSnapshots writes a header-bearing CSV of snapshots to w, in the
// order given: ordering is the dispatcher's unspecified iteration order,
// unchanged here.
func EncodeSnapshots(w io.Writer, snapshots []ledger.Snapshot) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("csvio: writing header: %w", err)
	}

	for _, snap := range snapshots {
		row := []string{
			strconv.FormatUint(uint64(snap.Client), 10),
			snap.Available.String(),
			snap.Held.String(),
			snap.Total.String(),
			strconv.FormatBool(snap.Locked),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("csvio: writing row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csvio: flushing: %w", err)
	}
	return nil
}
