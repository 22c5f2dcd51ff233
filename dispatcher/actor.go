// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatcher

import "github.com/naamancurtis/trx/ledger"

var _ Dispatcher = (*ActorPerClient)(nil)

// clientActor is a long-lived goroutine dedicated to exactly one client. It
// drains its inbox serially for the lifetime of the stream, which is what
// preserves per-client ordering: nothing about this topology's correctness
// depends on how many actors are running concurrently.
type clientActor struct {
	engine *ledger.Engine
	state  *clientState
	client ledger.ClientID
	inbox  chan ledger.Event
	done   chan struct{}
}

func newClientActor(engine *ledger.Engine, client ledger.ClientID, queueSize int) *clientActor {
	a := &clientActor{
		engine: engine,
		state:  newClientState(),
		client: client,
		inbox:  make(chan ledger.Event, queueSize),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *clientActor) run() {
	defer close(a.done)
	for evt := range a.inbox {
		a.engine.Apply(evt, a.state.account, a.state.log)
	}
}

// ActorPerClient spawns one goroutine per distinct client the first time it
// is referenced. The dispatcher's own map of client -> actor is only ever
// touched from Ingest, which the concurrency model requires callers to
// invoke from a single producer — so no lock is needed guarding it.
type ActorPerClient struct {
	engine    *ledger.Engine
	queueSize int
	actors    map[ledger.ClientID]*clientActor
}

// NewActorPerClient returns an ActorPerClient dispatcher whose actor inboxes
// have capacity queueSize (defaultQueueSize if queueSize <= 0).
func NewActorPerClient(engine *ledger.Engine, queueSize int) *ActorPerClient {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &ActorPerClient{
		engine:    engine,
		queueSize: queueSize,
		actors:    make(map[ledger.ClientID]*clientActor),
	}
}

// Ingest forwards evt to the client's actor, spawning it on first
// reference. This blocks (backpressure) if that actor's inbox is full.
func (d *ActorPerClient) Ingest(evt ledger.Event) {
	a, ok := d.actors[evt.Client]
	if !ok {
		a = newClientActor(d.engine, evt.Client, d.queueSize)
		d.actors[evt.Client] = a
	}
	a.inbox <- evt
}

// Finalize closes every actor's inbox, awaits each one's exit, then gathers
// every client's final snapshot.
func (d *ActorPerClient) Finalize() []ledger.Snapshot {
	for _, a := range d.actors {
		close(a.inbox)
	}
	for _, a := range d.actors {
		<-a.done
	}

	snapshots := make([]ledger.Snapshot, 0, len(d.actors))
	for client, a := range d.actors {
		snapshots = append(snapshots, a.state.snapshot(client))
	}
	return snapshots
}
