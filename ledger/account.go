// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"
	"fmt"

	"github.com/naamancurtis/trx/money"
)

// Account holds one client's balances. Invariants (enforced by the methods
// below, never by a caller reaching into the fields):
//   - total = available + held, derived on Snapshot, never stored.
//   - held never goes negative.
//   - available may go mathematically negative only as the direct result of
//     Dispute reversing funds that were already withdrawn; it is never
//     driven negative by Withdraw, which rejects instead.
//   - once Locked is true it stays true; every mutating method below
//     refuses once locked.
type Account struct {
	Available money.Money
	Held      money.Money
	Locked    bool
}

// NewAccount returns a fresh, unlocked, zero-balance account.
func NewAccount() *Account {
	return &Account{}
}

var (
	// ErrAccountLocked is returned by every mutating method once Locked is true.
	ErrAccountLocked = errors.New("ledger: account is locked")
	// ErrInsufficientFunds is returned by Withdraw when available < amount.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
)

// Deposit credits available by amount. Fails if the account is locked, or
// with money.ErrOverflow if the new balance does not fit.
func (a *Account) Deposit(amount money.Money) error {
	if a.Locked {
		return ErrAccountLocked
	}
	sum, err := a.Available.CheckedAdd(amount)
	if err != nil {
		return err
	}
	a.Available = sum
	return nil
}

// Withdraw debits available by amount. Fails if the account is locked or if
// available funds are insufficient; a withdrawal never drives available
// negative.
func (a *Account) Withdraw(amount money.Money) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	diff, err := a.Available.CheckedSub(amount)
	if err != nil {
		return err
	}
	a.Available = diff
	return nil
}

// Dispute moves amount from available to held. Available may go negative
// here — the disputed deposit's funds may already have been spent — and
// that is expected, not an error.
func (a *Account) Dispute(amount money.Money) error {
	if a.Locked {
		return ErrAccountLocked
	}
	available, err := a.Available.CheckedSub(amount)
	if err != nil {
		return err
	}
	held, err := a.Held.CheckedAdd(amount)
	if err != nil {
		return err
	}
	a.Available = available
	a.Held = held
	return nil
}

// Resolve moves amount from held back to available. A held balance lower
// than amount is an invariant violation: the engine's own state machine
// guarantees held accumulated exactly the disputed deposit amounts, so this
// can only happen if the engine itself has a bug, and it panics rather than
// returning an error (see Engine.Apply).
func (a *Account) Resolve(amount money.Money) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.Held.LessThan(amount) {
		panic(fmt.Sprintf("ledger: invariant violation, resolve of %s exceeds held %s", amount, a.Held))
	}
	held, err := a.Held.CheckedSub(amount)
	if err != nil {
		return err
	}
	available, err := a.Available.CheckedAdd(amount)
	if err != nil {
		return err
	}
	a.Held = held
	a.Available = available
	return nil
}

// Chargeback removes amount from held and locks the account. Held lower
// than amount is the same class of invariant violation as in Resolve.
// Locking is sticky: it is never cleared by any later event, and a
// chargeback does not unwind any other dispute's hold — held funds from
// other, unrelated disputes are simply frozen in place forever.
func (a *Account) Chargeback(amount money.Money) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.Held.LessThan(amount) {
		panic(fmt.Sprintf("ledger: invariant violation, chargeback of %s exceeds held %s", amount, a.Held))
	}
	held, err := a.Held.CheckedSub(amount)
	if err != nil {
		return err
	}
	a.Held = held
	a.Locked = true
	return nil
}

// Total returns available + held, derived rather than stored.
func (a *Account) Total() (money.Money, error) {
	return a.Available.CheckedAdd(a.Held)
}
