package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleOffsetsAgree(t *testing.T) {
	// The monotonic epoch is arbitrary, so the offsets' absolute values
	// carry no invariant worth asserting.  What the rebase relies on is
	// stability: two samples taken back to back must agree to well under
	// a second.
	a, err := Sample()
	require.NoError(t, err)

	b, err := Sample()
	require.NoError(t, err)

	diff := a.WallMono - b.WallMono
	if diff < 0 {
		diff = -diff
	}
	assert.Less(t, diff, time.Second)

	diff = a.WallBoot - b.WallBoot
	if diff < 0 {
		diff = -diff
	}
	assert.Less(t, diff, time.Second)
}
