package db

import (
	"context"
	"database/sql"
)

type TxFn func(ctx context.Context, tx *sql.Tx) error

type job struct {
	ctx context.Context
	fn  TxFn
	ch  chan error
}

// Worker serializes all writes through one goroutine, one transaction at a
// time.  With SQLite's single-writer model this turns would-be SQLITE_BUSY
// retries into simple queueing.
type Worker struct {
	db   *sql.DB
	jobs chan job
	done chan struct{}
}

func NewWorker(db *sql.DB) *Worker {
	w := &Worker{
		db:   db,
		jobs: make(chan job, 128),
		done: make(chan struct{}),
	}
	go w.loop()
	return w
}

// Close drains outstanding jobs and stops the worker.
func (w *Worker) Close() {
	close(w.jobs)
	<-w.done
}

// Do runs fn inside a transaction on the worker goroutine and returns its
// result.  If the caller's context expires while the job is queued or
// executing, Do returns early; the worker still completes the transaction
// and its result lands in the buffered channel, discarded.
func (w *Worker) Do(ctx context.Context, fn TxFn) error {
	ch := make(chan error, 1)

	select {
	case w.jobs <- job{ctx: ctx, fn: fn, ch: ch}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer close(w.done)

	for j := range w.jobs {
		tx, err := w.db.BeginTx(j.ctx, nil)
		if err != nil {
			j.ch <- err
			continue
		}

		if err := j.fn(j.ctx, tx); err != nil {
			_ = tx.Rollback()
			j.ch <- err
			continue
		}

		j.ch <- tx.Commit()
	}
}
