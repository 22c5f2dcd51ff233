// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatcher

import "github.com/naamancurtis/trx/ledger"

var _ Dispatcher = (*Serial)(nil)

// Serial is the trivial single-threaded topology: Ingest looks up or
// creates the client's state and applies the event synchronously. Total
// ordering of the whole stream is preserved, which is strictly stronger
// than the per-client ordering the other topologies guarantee.
type Serial struct {
	engine  *ledger.Engine
	clients map[ledger.ClientID]*clientState
}

// NewSerial returns a Serial dispatcher driven by engine.
func NewSerial(engine *ledger.Engine) *Serial {
	return &Serial{
		engine:  engine,
		clients: make(map[ledger.ClientID]*clientState),
	}
}

// Ingest applies evt immediately, never blocking.
func (s *Serial) Ingest(evt ledger.Event) {
	state, ok := s.clients[evt.Client]
	if !ok {
		state = newClientState()
		s.clients[evt.Client] = state
	}
	s.engine.Apply(evt, state.account, state.log)
}

// Finalize drains every client's account into a Snapshot. There is nothing
// to await: Ingest never left anything in flight.
func (s *Serial) Finalize() []ledger.Snapshot {
	snapshots := make([]ledger.Snapshot, 0, len(s.clients))
	for client, state := range s.clients {
		snapshots = append(snapshots, state.snapshot(client))
	}
	return snapshots
}
