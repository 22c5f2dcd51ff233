// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "github.com/naamancurtis/trx/money"

// TxStatus is the closed set of states a TransactionRecord moves through.
// Resolved and ChargedBack are terminal: there is no path back to Disputed.
type TxStatus uint8

const (
	StatusNormal TxStatus = iota
	StatusDisputed
	StatusResolved
	StatusChargedBack
)

// TxKind records whether the logged transaction was a deposit or a
// withdrawal. Only deposits are disputable; withdrawals are logged purely
// so a dispute referencing one can be told apart from one referencing an
// unknown tx (see Engine.Apply).
type TxKind uint8

const (
	KindDeposit TxKind = iota
	KindWithdrawal
)

// TransactionRecord is the immutable-amount, mutable-status record a
// TransactionLog keeps per disputable or dispute-adjacent transaction.
type TransactionRecord struct {
	Amount money.Money
	Kind   TxKind
	Status TxStatus
	// Client is the owning client, stored redundantly even though a log is
	// already scoped to one client. Checking it explicitly in Engine.Apply
	// guards the client-mismatch case spec'd for dispute/resolve/chargeback
	// independent of how the dispatcher happens to route lookups.
	Client ClientID
}

// TransactionLog is a single client's mapping from TxID to TransactionRecord.
// It is never shared across clients and never locked internally: callers
// (the dispatcher topologies) are responsible for ensuring only one
// goroutine touches a given client's log at a time.
type TransactionLog struct {
	records map[TxID]*TransactionRecord
}

// NewTransactionLog returns an empty log.
func NewTransactionLog() *TransactionLog {
	return &TransactionLog{records: make(map[TxID]*TransactionRecord)}
}

// Insert records tx if it is not already present. Transaction ids are
// assumed globally unique by the input contract, so a collision should never
// happen in practice; the policy is still pinned down for determinism:
// first writer wins, and Insert reports whether it actually wrote anything
// so callers can route the rejected duplicate through the ignore/telemetry
// path instead of silently losing it.
func (l *TransactionLog) Insert(tx TxID, record TransactionRecord) bool {
	if _, exists := l.records[tx]; exists {
		return false
	}
	l.records[tx] = &record
	return true
}

// Get returns a mutable handle to the record for tx, or nil if absent.
func (l *TransactionLog) Get(tx TxID) *TransactionRecord {
	return l.records[tx]
}
