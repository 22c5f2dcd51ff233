// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "github.com/naamancurtis/trx/money"

// Snapshot is the finalized view of one client's account, emitted exactly
// once per client observed in the stream. Total is derived, never stored.
type Snapshot struct {
	Client    ClientID
	Available money.Money
	Held      money.Money
	Total     money.Money
	Locked    bool
}

// SnapshotOf derives a Snapshot from a client id and its final Account
// state. It is the one place Total gets computed from Available + Held.
func SnapshotOf(client ClientID, account *Account) (Snapshot, error) {
	total, err := account.Total()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Client:    client,
		Available: account.Available,
		Held:      account.Held,
		Total:     total,
		Locked:    account.Locked,
	}, nil
}
