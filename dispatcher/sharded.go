// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatcher

import (
	"runtime"
	"sync"

	"github.com/naamancurtis/trx/ledger"
)

var _ Dispatcher = (*Sharded)(nil)

// shardWorker owns a disjoint subset of clients, routed to it by a stable
// hash of the client id. It drains its inbox serially, which is what
// preserves per-client ordering even though distinct workers run
// concurrently.
type shardWorker struct {
	engine  *ledger.Engine
	clients map[ledger.ClientID]*clientState
	inbox   chan ledger.Event
}

func (w *shardWorker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for evt := range w.inbox {
		state, ok := w.clients[evt.Client]
		if !ok {
			state = newClientState()
			w.clients[evt.Client] = state
		}
		w.engine.Apply(evt, state.account, state.log)
	}
}

// Sharded is the fixed-worker-pool topology: N workers, each with its own
// bounded inbox, routed to by client id mod N. The shared ledger.Engine
// itself holds no per-client state, so it is safe to call concurrently from
// every worker goroutine as long as its Recorder is concurrency-safe.
type Sharded struct {
	workers []*shardWorker
	wg      sync.WaitGroup
}

// NewSharded returns a Sharded dispatcher with workers workers (detected
// hardware parallelism if workers <= 0) each with an inbox of capacity
// queueSize (defaultQueueSize if queueSize <= 0).
func NewSharded(engine *ledger.Engine, workers, queueSize int) *Sharded {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	d := &Sharded{workers: make([]*shardWorker, workers)}
	for i := range d.workers {
		w := &shardWorker{
			engine:  engine,
			clients: make(map[ledger.ClientID]*clientState),
			inbox:   make(chan ledger.Event, queueSize),
		}
		d.workers[i] = w
		d.wg.Add(1)
		go w.run(&d.wg)
	}
	return d
}

// Ingest routes evt to its owning worker by client id mod len(workers).
// This blocks (backpressure) if that worker's inbox is full.
func (d *Sharded) Ingest(evt ledger.Event) {
	idx := uint32(evt.Client) % uint32(len(d.workers))
	d.workers[idx].inbox <- evt
}

// Finalize closes every worker's inbox, waits for each to drain, then
// gathers every client's final snapshot. Workers have all exited by the
// time this returns, so collecting from d.workers needs no further
// synchronization.
func (d *Sharded) Finalize() []ledger.Snapshot {
	for _, w := range d.workers {
		close(w.inbox)
	}
	d.wg.Wait()

	var snapshots []ledger.Snapshot
	for _, w := range d.workers {
		for client, state := range w.clients {
			snapshots = append(snapshots, state.snapshot(client))
		}
	}
	return snapshots
}
