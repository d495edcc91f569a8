package service

import (
	"context"
	"log"
	"time"

	"askboard/internal/model"
	"askboard/internal/store"
)

// Sweeper proactively expires sessions on a fixed interval and pushes the
// status change to their rooms. Passive store accesses only refresh status
// for the caller that asks; the sweeper is what tells everyone else.
type Sweeper struct {
	store       *store.Store
	broadcaster Broadcaster
	interval    time.Duration
}

func NewSweeper(st *store.Store, b Broadcaster, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:       st,
		broadcaster: b,
		interval:    interval,
	}
}

// Run sweeps until ctx is cancelled. A failing tick is logged and the loop
// keeps going; the sweeper must never take the process down.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep flips every lapsed session to expired and broadcasts the updated
// snapshot to its room.
func (s *Sweeper) Sweep() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("sweeper: recovered from panic: %v", r)
		}
	}()

	for _, snap := range s.store.SweepExpired() {
		log.Printf("sweeper: session %s expired", snap.ID)
		s.broadcaster.BroadcastSession(snap.ID, model.MsgSessionUpdate, snap)
	}
}
