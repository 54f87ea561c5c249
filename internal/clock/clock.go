// Package clock samples the kernel clocks used to rebase the monotonic
// timestamps found in privrun timestamp files into wall-clock time.
//
// The offsets are computed exactly once, before a scan starts, and treated
// as immutable for the run.  Re-sampling mid-scan would make records from
// the same file disagree about what "now" meant.
package clock

import "time"

// Offsets holds the deltas between the wall clock and the capture clocks.
type Offsets struct {
	// WallMono is wall-clock time minus the monotonic clock.  Added to a
	// monotonic capture it yields calendar time.
	WallMono time.Duration

	// WallBoot is wall-clock time minus the boot clock.  On platforms
	// without a distinct boot clock it equals WallMono.
	WallBoot time.Duration
}

// Sample reads the wall, monotonic and (where available) boot clocks and
// returns the rebase offsets.
func Sample() (Offsets, error) {
	return sample()
}
