//go:build unix && !linux

package clock

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// No separate boot clock here; start_time normalization on these platforms
// is governed by the start_time_base config setting instead.
func sample() (Offsets, error) {
	wall, err := gettime(unix.CLOCK_REALTIME)
	if err != nil {
		return Offsets{}, fmt.Errorf("read wall clock: %w", err)
	}
	mono, err := gettime(unix.CLOCK_MONOTONIC)
	if err != nil {
		return Offsets{}, fmt.Errorf("read monotonic clock: %w", err)
	}
	return Offsets{
		WallMono: wall - mono,
		WallBoot: wall - mono,
	}, nil
}

func gettime(clockid int32) (time.Duration, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(clockid, &ts); err != nil {
		return 0, err
	}
	return time.Duration(ts.Nano()), nil
}
