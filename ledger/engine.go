// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

// IgnoreReason is the closed set of reasons Engine.Apply can decline to
// apply an event without returning a fatal error.
type IgnoreReason uint8

const (
	ReasonNone IgnoreReason = iota
	ReasonLockedAccount
	ReasonInsufficientFunds
	ReasonNonPositiveAmount
	ReasonUnknownTx
	ReasonWrongTxKind
	ReasonWrongTxStatus
	ReasonClientMismatch
	ReasonDuplicateTx
)

func (r IgnoreReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonLockedAccount:
		return "locked-account"
	case ReasonInsufficientFunds:
		return "insufficient-funds"
	case ReasonNonPositiveAmount:
		return "non-positive-amount"
	case ReasonUnknownTx:
		return "unknown-tx"
	case ReasonWrongTxKind:
		return "wrong-tx-kind"
	case ReasonWrongTxStatus:
		return "wrong-tx-status"
	case ReasonClientMismatch:
		return "client-mismatch"
	case ReasonDuplicateTx:
		return "duplicate-tx"
	default:
		return "unknown"
	}
}

// Recorder observes events Engine.Apply declined to apply. It is never
// consulted on the success path and its return value, if any, is never
// allowed to affect Apply's own return value — telemetry never propagates
// as a failure back into the dispatcher.
type Recorder interface {
	RecordIgnored(evt Event, reason IgnoreReason)
}

// NopRecorder discards every ignored event. Useful for tests and for any
// topology that does not care about telemetry.
type NopRecorder struct{}

// RecordIgnored implements Recorder.
func (NopRecorder) RecordIgnored(Event, IgnoreReason) {}

// Engine applies events to a client's Account and TransactionLog. It holds
// no per-client state itself — Account and TransactionLog are passed in on
// every call — so a single Engine value can be shared across every
// dispatcher topology without any synchronization of its own: the
// dispatcher is solely responsible for ensuring at most one goroutine calls
// Apply for a given client's state at a time.
type Engine struct {
	Recorder Recorder
}

// NewEngine returns an Engine that reports ignored events to recorder. A nil
// recorder is replaced with NopRecorder.
func NewEngine(recorder Recorder) *Engine {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Engine{Recorder: recorder}
}

// Apply is the pure event -> state transition function described by the
// dispute lifecycle: Normal -> Disputed -> {Resolved, ChargedBack}. It
// mutates account and log in place. Every precondition failure is a silent
// ignore (account and log are left exactly as they were) reported through
// e.Recorder, never a returned error — propagating these to the caller
// would require the dispatcher to decide what "failure" means for a
// dispute on an unknown tx, and the answer the spec gives is: nothing
// happens, log it, move on.
func (e *Engine) Apply(evt Event, account *Account, log *TransactionLog) {
	switch evt.Kind {
	case Deposit:
		e.applyDeposit(evt, account, log)
	case Withdrawal:
		e.applyWithdrawal(evt, account, log)
	case Dispute:
		e.applyDispute(evt, account, log)
	case Resolve:
		e.applyResolve(evt, account, log)
	case Chargeback:
		e.applyChargeback(evt, account, log)
	default:
		e.ignore(evt, ReasonNone)
	}
}

func (e *Engine) ignore(evt Event, reason IgnoreReason) {
	e.Recorder.RecordIgnored(evt, reason)
}

func (e *Engine) applyDeposit(evt Event, account *Account, log *TransactionLog) {
	if evt.Amount.Sign() <= 0 {
		e.ignore(evt, ReasonNonPositiveAmount)
		return
	}
	if account.Locked {
		e.ignore(evt, ReasonLockedAccount)
		return
	}
	inserted := log.Insert(evt.Tx, TransactionRecord{
		Amount: evt.Amount,
		Kind:   KindDeposit,
		Status: StatusNormal,
		Client: evt.Client,
	})
	if !inserted {
		e.ignore(evt, ReasonDuplicateTx)
		return
	}
	if err := account.Deposit(evt.Amount); err != nil {
		panic("ledger: invariant violation, deposit after successful precondition check: " + err.Error())
	}
}

func (e *Engine) applyWithdrawal(evt Event, account *Account, log *TransactionLog) {
	if evt.Amount.Sign() <= 0 {
		e.ignore(evt, ReasonNonPositiveAmount)
		return
	}
	if account.Locked {
		e.ignore(evt, ReasonLockedAccount)
		return
	}
	if err := account.Withdraw(evt.Amount); err != nil {
		e.ignore(evt, ReasonInsufficientFunds)
		return
	}
	// Recording withdrawals has no effect on the dispute state machine
	// (disputes of withdrawals are always rejected below), but it lets a
	// dispute that targets one be told apart from one targeting an
	// unknown tx entirely, which is a better telemetry signal.
	log.Insert(evt.Tx, TransactionRecord{
		Amount: evt.Amount,
		Kind:   KindWithdrawal,
		Status: StatusNormal,
		Client: evt.Client,
	})
}

func (e *Engine) applyDispute(evt Event, account *Account, log *TransactionLog) {
	if account.Locked {
		e.ignore(evt, ReasonLockedAccount)
		return
	}
	rec := log.Get(evt.Tx)
	if rec == nil {
		e.ignore(evt, ReasonUnknownTx)
		return
	}
	if rec.Client != evt.Client {
		e.ignore(evt, ReasonClientMismatch)
		return
	}
	if rec.Kind != KindDeposit {
		e.ignore(evt, ReasonWrongTxKind)
		return
	}
	if rec.Status != StatusNormal {
		e.ignore(evt, ReasonWrongTxStatus)
		return
	}

	if err := account.Dispute(rec.Amount); err != nil {
		panic("ledger: invariant violation, dispute after successful precondition check: " + err.Error())
	}
	rec.Status = StatusDisputed
}

func (e *Engine) applyResolve(evt Event, account *Account, log *TransactionLog) {
	if account.Locked {
		e.ignore(evt, ReasonLockedAccount)
		return
	}
	rec := log.Get(evt.Tx)
	if rec == nil {
		e.ignore(evt, ReasonUnknownTx)
		return
	}
	if rec.Client != evt.Client {
		e.ignore(evt, ReasonClientMismatch)
		return
	}
	if rec.Status != StatusDisputed {
		e.ignore(evt, ReasonWrongTxStatus)
		return
	}

	if err := account.Resolve(rec.Amount); err != nil {
		panic("ledger: invariant violation, resolve after successful precondition check: " + err.Error())
	}
	rec.Status = StatusResolved
}

func (e *Engine) applyChargeback(evt Event, account *Account, log *TransactionLog) {
	if account.Locked {
		e.ignore(evt, ReasonLockedAccount)
		return
	}
	rec := log.Get(evt.Tx)
	if rec == nil {
		e.ignore(evt, ReasonUnknownTx)
		return
	}
	if rec.Client != evt.Client {
		e.ignore(evt, ReasonClientMismatch)
		return
	}
	if rec.Status != StatusDisputed {
		e.ignore(evt, ReasonWrongTxStatus)
		return
	}

	if err := account.Chargeback(rec.Amount); err != nil {
		panic("ledger: invariant violation, chargeback after successful precondition check: " + err.Error())
	}
	rec.Status = StatusChargedBack
}
