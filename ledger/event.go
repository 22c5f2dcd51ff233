// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger implements the per-client dispute state machine: the
// Account and TransactionLog types it mutates, and the pure Engine.Apply
// transition function. It has no knowledge of how events arrive (CSV,
// network, tests) or how clients are scheduled across goroutines — that is
// the dispatcher's job.
package ledger

import "github.com/naamancurtis/trx/money"

// ClientID identifies the owner of an account.
type ClientID uint16

// TxID identifies a transaction. It is assumed globally unique across the
// input stream; the engine does not detect duplicates beyond the
// first-writer-wins policy documented on TransactionLog.Insert.
type TxID uint32

// EventKind is the closed set of event variants the engine accepts.
type EventKind uint8

const (
	Deposit EventKind = iota
	Withdrawal
	Dispute
	Resolve
	Chargeback
)

func (k EventKind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Dispute:
		return "dispute"
	case Resolve:
		return "resolve"
	case Chargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// Event is a tagged variant over the five kinds the system understands.
// Amount is only meaningful for Deposit and Withdrawal.
type Event struct {
	Kind   EventKind
	Client ClientID
	Tx     TxID
	Amount money.Money
}
