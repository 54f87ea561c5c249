// Package render formats current-schema timestamp records as the
// human-readable report blocks tsdump prints.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/privrun/tsdump/internal/timestamp/types"
)

// timeLayout matches ctime(3) so reports stay comparable with the C tool's
// output.
const timeLayout = "Mon Jan _2 15:04:05 2006"

// Dependencies holds what a Renderer needs.  ResolveTTY may be nil, in
// which case the platform resolver is used; tests inject their own.
type Dependencies struct {
	Out        io.Writer
	ResolveTTY func(dev uint64) (string, error)
}

// Renderer writes one text block per record.  It only ever sees records
// that validated and were migrated to the current schema; invalid records
// produce no rendered output at all.
type Renderer struct {
	out        io.Writer
	resolveTTY func(dev uint64) (string, error)
}

func New(deps Dependencies) *Renderer {
	resolve := deps.ResolveTTY
	if resolve == nil {
		resolve = DevName
	}
	return &Renderer{out: deps.Out, resolveTTY: resolve}
}

// Render writes the record's block: offset, header fields, flags line,
// identity, the calendar times (only when set), the type-specific trailer,
// and a terminating blank line.
func (r *Renderer) Render(rec types.Record, pos int64) error {
	var b strings.Builder

	fmt.Fprintf(&b, "position: %d\n", pos)
	fmt.Fprintf(&b, "version: %d\n", rec.Version)
	fmt.Fprintf(&b, "size: %d\n", rec.Size)
	fmt.Fprintf(&b, "type: %s\n", rec.Type)
	if s := rec.Flags.String(); s != "" {
		fmt.Fprintf(&b, "flags: %s\n", s)
	} else {
		b.WriteString("flags:\n")
	}
	fmt.Fprintf(&b, "auth uid: %d\n", rec.AuthUID)
	fmt.Fprintf(&b, "session ID: %d\n", rec.SessionID)
	if rec.StartTime.IsSet() {
		fmt.Fprintf(&b, "start time: %s\n", rec.StartTime.Time().Format(timeLayout))
	}
	if rec.Timestamp.IsSet() {
		fmt.Fprintf(&b, "time stamp: %s\n", rec.Timestamp.Time().Format(timeLayout))
	}

	switch rec.Type {
	case types.TypeTTY:
		if name, err := r.resolveTTY(rec.TTYDev); err == nil {
			fmt.Fprintf(&b, "terminal: %s\n", name)
		} else {
			// Name resolution is best effort; fall back to the raw
			// device number.
			fmt.Fprintf(&b, "terminal: %d\n", rec.TTYDev)
		}
	case types.TypePPID:
		fmt.Fprintf(&b, "parent pid: %d\n", rec.PPID)
	}

	b.WriteByte('\n')
	_, err := io.WriteString(r.out, b.String())
	return err
}
