package scan

import (
	"time"

	"github.com/privrun/tsdump/internal/clock"
	"github.com/privrun/tsdump/internal/config"
	"github.com/privrun/tsdump/internal/timestamp/types"
)

// Rebase rewrites a record's clock captures as wall-clock time.  The
// offsets are sampled once before the scan and never refreshed, so every
// record in a run is rebased against the same notion of "now".
type Rebase struct {
	// Offset is wall minus monotonic, applied to the timestamp field.
	Offset time.Duration

	// BootOffset is wall minus boot, applied to start_time when the
	// producer captured it against the boot clock.
	BootOffset time.Duration

	// StartBase says which clock start_time was captured against.
	StartBase config.StartTimeBase
}

// NewRebase builds a Rebase from sampled clock offsets and the configured
// start_time base.
func NewRebase(off clock.Offsets, base config.StartTimeBase) Rebase {
	return Rebase{
		Offset:     off.WallMono,
		BootOffset: off.WallBoot,
		StartBase:  base,
	}
}

// Normalize adjusts rec's timestamps in place.  Unset fields pass through
// untouched.  The adjustment is not idempotent; the driver applies it
// exactly once per record per scan.
func (rb Rebase) Normalize(rec *types.Record) {
	if rec.Timestamp.IsSet() {
		rec.Timestamp.Add(rb.Offset)
	}
	if rec.StartTime.IsSet() {
		switch rb.StartBase {
		case config.StartTimeBoot:
			rec.StartTime.Add(rb.BootOffset)
		case config.StartTimeMonotonic:
			rec.StartTime.Add(rb.Offset)
		case config.StartTimeWall:
			// Captured in wall-clock terms already.
		}
	}
}
