// Package store defines the timeline archive written during a scan when
// export is requested.  One ScanRecord row is persisted per successfully
// decoded record, after migration and time normalization.
package store

import (
	"context"
	"time"

	"github.com/privrun/tsdump/internal/timestamp/types"
)

// ScanRecord is the flattened, export-ready form of a scanned record.
// Optional fields are pointers so the backends can distinguish "unset on
// disk" from a zero value.
type ScanRecord struct {
	Pos     int64
	Version uint16
	Size    uint16
	Type    string
	Flags   string

	AuthUID   uint32
	SessionID int32

	StartTime *time.Time // nil when the on-disk sentinel was unset
	Timestamp *time.Time

	TTYDev *uint64 // set for TTY records
	PPID   *int32  // set for PPID records
}

// TimelineStore persists scanned records for later timeline queries.
type TimelineStore interface {
	RecordEntry(ctx context.Context, rec ScanRecord) error
}

// FromRecord flattens a normalized current-schema record into its export
// form.  pos is the record's stream offset.
func FromRecord(rec types.Record, pos int64) ScanRecord {
	sr := ScanRecord{
		Pos:       pos,
		Version:   rec.Version,
		Size:      rec.Size,
		Type:      rec.Type.String(),
		Flags:     rec.Flags.String(),
		AuthUID:   rec.AuthUID,
		SessionID: rec.SessionID,
	}
	if rec.StartTime.IsSet() {
		t := rec.StartTime.Time().UTC()
		sr.StartTime = &t
	}
	if rec.Timestamp.IsSet() {
		t := rec.Timestamp.Time().UTC()
		sr.Timestamp = &t
	}
	switch rec.Type {
	case types.TypeTTY:
		dev := rec.TTYDev
		sr.TTYDev = &dev
	case types.TypePPID:
		pid := rec.PPID
		sr.PPID = &pid
	}
	return sr
}
