package render_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/privrun/tsdump/internal/timestamp/render"
	"github.com/privrun/tsdump/internal/timestamp/types"
)

const timeLayout = "Mon Jan _2 15:04:05 2006"

func newTestRenderer(out *bytes.Buffer, ttyName string, ttyErr error) *render.Renderer {
	return render.New(render.Dependencies{
		Out: out,
		ResolveTTY: func(dev uint64) (string, error) {
			return ttyName, ttyErr
		},
	})
}

func TestRender_FullBlock(t *testing.T) {
	rec := types.Record{
		Header:    types.Header{Version: 2, Size: types.SizeV2, Type: types.TypeTTY, Flags: types.FlagDisabled},
		AuthUID:   1000,
		SessionID: 77,
		StartTime: types.Timespec{Sec: 1700000000},
		Timestamp: types.Timespec{Sec: 1700000100},
		TTYDev:    0x8803,
	}

	var out bytes.Buffer
	r := newTestRenderer(&out, "/dev/pts/3", nil)
	if err := r.Render(rec, 112); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := fmt.Sprintf(`position: 112
version: 2
size: 56
type: TTY
flags: DISABLED
auth uid: 1000
session ID: 77
start time: %s
time stamp: %s
terminal: /dev/pts/3

`,
		types.Timespec{Sec: 1700000000}.Time().Format(timeLayout),
		types.Timespec{Sec: 1700000100}.Time().Format(timeLayout))

	if out.String() != want {
		t.Errorf("block mismatch:\n got:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRender_UnsetTimesOmitted(t *testing.T) {
	rec := types.Record{
		Header: types.Header{Version: 2, Size: types.SizeV2, Type: types.TypeGlobal},
	}

	var out bytes.Buffer
	if err := newTestRenderer(&out, "", nil).Render(rec, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if strings.Contains(out.String(), "start time:") || strings.Contains(out.String(), "time stamp:") {
		t.Errorf("unset timestamps must not be printed:\n%s", out.String())
	}
}

func TestRender_FlagsLineVariants(t *testing.T) {
	cases := []struct {
		flags types.Flags
		want  string
	}{
		{0, "flags:\n"},
		{types.FlagDisabled, "flags: DISABLED\n"},
		{types.FlagDisabled | types.FlagAnyUID, "flags: DISABLED, ANYUID\n"},
		{types.FlagAnyUID | types.Flags(0x40), "flags: ANYUID, 0x40\n"},
	}
	for _, tc := range cases {
		rec := types.Record{
			Header: types.Header{Version: 2, Size: types.SizeV2, Type: types.TypeGlobal, Flags: tc.flags},
		}
		var out bytes.Buffer
		if err := newTestRenderer(&out, "", nil).Render(rec, 0); err != nil {
			t.Fatalf("Render: %v", err)
		}
		if !strings.Contains(out.String(), tc.want) {
			t.Errorf("flags %#x: want line %q in:\n%s", uint16(tc.flags), tc.want, out.String())
		}
	}
}

func TestRender_UnknownTypeHexTag(t *testing.T) {
	rec := types.Record{
		Header: types.Header{Version: 2, Size: types.SizeV2, Type: types.EntryType(0x77)},
	}

	var out bytes.Buffer
	if err := newTestRenderer(&out, "", nil).Render(rec, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out.String(), "type: UNKNOWN (0x77)\n") {
		t.Errorf("unknown type should render as hex tag:\n%s", out.String())
	}
	if strings.Contains(out.String(), "terminal:") || strings.Contains(out.String(), "parent pid:") {
		t.Errorf("unknown types have no trailer:\n%s", out.String())
	}
}

func TestRender_LockExclHasNoTrailer(t *testing.T) {
	rec := types.Record{
		Header: types.Header{Version: 2, Size: types.SizeV2, Type: types.TypeLockExcl},
	}

	var out bytes.Buffer
	if err := newTestRenderer(&out, "", nil).Render(rec, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out.String(), "terminal:") || strings.Contains(out.String(), "parent pid:") {
		t.Errorf("LOCKEXCL records have no trailer:\n%s", out.String())
	}
}

func TestRender_TTYResolutionFallback(t *testing.T) {
	rec := types.Record{
		Header: types.Header{Version: 2, Size: types.SizeV2, Type: types.TypeTTY},
		TTYDev: 34819,
	}

	var out bytes.Buffer
	r := newTestRenderer(&out, "", errors.New("not found"))
	if err := r.Render(rec, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out.String(), "terminal: 34819\n") {
		t.Errorf("expected raw device number fallback:\n%s", out.String())
	}
}

func TestRender_BlockEndsWithBlankLine(t *testing.T) {
	rec := types.Record{
		Header: types.Header{Version: 2, Size: types.SizeV2, Type: types.TypePPID},
		PPID:   4321,
	}

	var out bytes.Buffer
	if err := newTestRenderer(&out, "", nil).Render(rec, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasSuffix(out.String(), "parent pid: 4321\n\n") {
		t.Errorf("block must end with the trailer and a blank line:\n%q", out.String())
	}
}
