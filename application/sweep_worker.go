package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// StateSweepWorker periodically advances due events and expires overdue
// bets. Each cycle takes a single now snapshot so every decision in the
// cycle sees the same instant.
type StateSweepWorker struct {
	engine   *Engine
	interval time.Duration
}

// NewStateSweepWorker creates a sweep worker running at the given interval
func NewStateSweepWorker(engine *Engine, interval time.Duration) *StateSweepWorker {
	return &StateSweepWorker{
		engine:   engine,
		interval: interval,
	}
}

// Start launches the worker goroutine and returns a cleanup function that
// stops it and waits for any in-flight cycle to finish
func (w *StateSweepWorker) Start(ctx context.Context) func() {
	ticker := time.NewTicker(w.interval)
	stopChan := make(chan struct{})
	doneChan := make(chan struct{})

	// Cancellation only takes effect at iteration boundaries: an in-flight
	// cycle runs its transactions to completion on a detached context
	// instead of aborting them mid-statement.
	cycleCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(doneChan)
		log.WithField("interval", w.interval).Info("State sweep worker started")

		// Run immediately on startup
		w.runCycle(cycleCtx)

		for {
			select {
			case <-ctx.Done():
				log.Info("State sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("State sweep worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.runCycle(cycleCtx)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
		<-doneChan
	}
}

// runCycle performs one sweep. The two sub-tasks run in separate
// transactions; a failure is logged and ends the cycle early, the next tick
// retries.
func (w *StateSweepWorker) runCycle(ctx context.Context) {
	now := time.Now().UTC()

	result, err := w.engine.AdvanceDueEvents(ctx, now)
	if err != nil {
		log.Errorf("Error advancing due events: %v", err)
		return
	}
	if len(result.Opened) > 0 || len(result.Closed) > 0 {
		log.WithFields(log.Fields{
			"opened": result.Opened,
			"closed": result.Closed,
		}).Info("Advanced due events")
	}

	expired, err := w.engine.ExpireOverdueBets(ctx, now)
	if err != nil {
		log.Errorf("Error expiring overdue bets: %v", err)
		return
	}
	if len(expired) > 0 {
		log.WithField("betIds", expired).Info("Expired overdue winning bets")
	}
}
