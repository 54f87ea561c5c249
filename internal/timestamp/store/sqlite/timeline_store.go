// Package sqlite persists scanned timestamp records into the timeline
// database for later forensic queries.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/privrun/tsdump/internal/db"
	"github.com/privrun/tsdump/internal/timestamp/store"
)

type TimelineStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
	source string
}

// NewTimelineStore returns a store that tags every row with source, the
// path of the timestamp file being scanned.
func NewTimelineStore(db *sql.DB, writer *dbpkg.Worker, source string) *TimelineStore {
	return &TimelineStore{db: db, writer: writer, source: source}
}

func (s *TimelineStore) RecordEntry(ctx context.Context, rec store.ScanRecord) error {
	scannedMs := time.Now().UTC().UnixMilli()

	var startMs, tsMs any
	if rec.StartTime != nil {
		startMs = rec.StartTime.UTC().UnixMilli()
	}
	if rec.Timestamp != nil {
		tsMs = rec.Timestamp.UTC().UnixMilli()
	}

	var ttydev, ppid any
	if rec.TTYDev != nil {
		// SQLite stores integers signed; the conversion round-trips.
		ttydev = int64(*rec.TTYDev)
	}
	if rec.PPID != nil {
		ppid = *rec.PPID
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO scan_records(
  source, pos, version, size, type, flags,
  auth_uid, session_id, start_time_ms, timestamp_ms,
  ttydev, ppid, scanned_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			s.source, rec.Pos, rec.Version, rec.Size, rec.Type, rec.Flags,
			rec.AuthUID, rec.SessionID, startMs, tsMs,
			ttydev, ppid, scannedMs,
		); err != nil {
			return fmt.Errorf("RecordEntry insert: %w", err)
		}
		return nil
	})
}
