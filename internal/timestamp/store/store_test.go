package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/privrun/tsdump/internal/timestamp/types"
)

func TestFromRecordFlattensTTYRecord(t *testing.T) {
	rec := types.Record{
		Header:    types.Header{Version: 2, Size: types.SizeV2, Type: types.TypeTTY, Flags: types.FlagDisabled},
		AuthUID:   1000,
		SessionID: 42,
		Timestamp: types.Timespec{Sec: 1700000000},
		TTYDev:    0x8803,
		PPID:      99, // stale view; must not be exported for a TTY record
	}

	sr := FromRecord(rec, 112)

	assert.Equal(t, int64(112), sr.Pos)
	assert.Equal(t, "TTY", sr.Type)
	assert.Equal(t, "DISABLED", sr.Flags)
	assert.Nil(t, sr.StartTime)
	if assert.NotNil(t, sr.Timestamp) {
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), *sr.Timestamp)
	}
	if assert.NotNil(t, sr.TTYDev) {
		assert.Equal(t, uint64(0x8803), *sr.TTYDev)
	}
	assert.Nil(t, sr.PPID)
}

func TestFromRecordFlattensPPIDRecord(t *testing.T) {
	rec := types.Record{
		Header: types.Header{Version: 1, Size: types.SizeV1, Type: types.TypePPID},
		PPID:   1234,
	}

	sr := FromRecord(rec, 0)

	assert.Nil(t, sr.Timestamp, "unset sentinel exports as NULL")
	assert.Nil(t, sr.TTYDev)
	if assert.NotNil(t, sr.PPID) {
		assert.Equal(t, int32(1234), *sr.PPID)
	}
}

func TestFromRecordGlobalHasNoScope(t *testing.T) {
	rec := types.Record{
		Header: types.Header{Version: 2, Size: types.SizeV2, Type: types.TypeGlobal},
	}

	sr := FromRecord(rec, 0)
	assert.Nil(t, sr.TTYDev)
	assert.Nil(t, sr.PPID)
	assert.Equal(t, "GLOBAL", sr.Type)
}
