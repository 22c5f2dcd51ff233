// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dispatcher routes an event stream to per-client ledger state
// under one of three interchangeable execution topologies: Serial,
// Sharded, and ActorPerClient. All three share the same pure
// ledger.Engine and must produce identical multisets of final snapshots
// for the same input stream — the only thing that differs between them is
// how per-client state is scheduled across goroutines.
package dispatcher

import (
	"fmt"

	"github.com/naamancurtis/trx/ledger"
)

// Dispatcher is the capability set every topology exposes. Ingest may block
// on backpressure (the sharded and actor topologies use bounded channels);
// it is the only flow-control mechanism in the system. Finalize drains all
// outstanding work, closes whatever is running in the background, and
// returns one Snapshot per client observed, in unspecified order.
type Dispatcher interface {
	Ingest(evt ledger.Event)
	Finalize() []ledger.Snapshot
}

// clientState is the per-client pair the Dispatcher map owns. It is never
// shared across goroutines concurrently: each topology guarantees exactly
// one goroutine (the single thread, the owning worker, or the dedicated
// actor) ever touches a given client's pair at a time.
type clientState struct {
	account *ledger.Account
	log     *ledger.TransactionLog
}

func newClientState() *clientState {
	return &clientState{
		account: ledger.NewAccount(),
		log:     ledger.NewTransactionLog(),
	}
}

func (c *clientState) snapshot(client ledger.ClientID) ledger.Snapshot {
	snap, err := ledger.SnapshotOf(client, c.account)
	if err != nil {
		panic(fmt.Sprintf("dispatcher: invariant violation computing snapshot for client %d: %v", client, err))
	}
	return snap
}

// defaultQueueSize is the bounded channel capacity used by the sharded and
// actor topologies when no override is supplied. It is the concrete
// backpressure knob the concurrency model calls for: once a client's inbox
// is full, Ingest blocks the caller until the owning worker/actor drains it.
const defaultQueueSize = 256
