// Package scan implements the sequential timestamp-file scanner: fixed-slot
// reads, structural validation, schema migration, time normalization, and
// the driver loop that ties them to the renderer and optional timeline
// export.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/privrun/tsdump/internal/timestamp/render"
	"github.com/privrun/tsdump/internal/timestamp/store"
	"github.com/privrun/tsdump/internal/timestamp/types"
)

// Dependencies holds the driver's collaborators.
type Dependencies struct {
	// Logger receives structural diagnostics and non-fatal warnings.
	// Rendered output never goes here.
	Logger *log.Logger

	// Renderer writes the per-record report blocks.
	Renderer *render.Renderer

	// Rebase is the one-time-computed time normalization for this run.
	Rebase Rebase

	// Store, when non-nil, receives every rendered record for timeline
	// export.
	Store store.TimelineStore
}

// Driver runs the scan loop: read, validate, resync, migrate, normalize,
// render.  Strictly sequential; the only state carried across iterations is
// the stream cursor and the pre-computed rebase offsets.
type Driver struct {
	logger   *log.Logger
	renderer *render.Renderer
	rebase   Rebase
	store    store.TimelineStore
}

func NewDriver(deps Dependencies) *Driver {
	return &Driver{
		logger:   deps.Logger,
		renderer: deps.Renderer,
		rebase:   deps.Rebase,
		store:    deps.Store,
	}
}

// Run scans src to end of stream.  Validation failures are logged and
// skipped; the returned error is non-nil only for fatal conditions (I/O
// failures, including a nonzero partial read at the tail).
func (d *Driver) Run(ctx context.Context, src io.ReadSeeker) error {
	rd := NewReader(src)

	for {
		slot, pos, err := rd.ReadSlot()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read record @ %d: %w", pos, err)
		}

		h, err := types.DecodeHeader(slot)
		if err != nil {
			return fmt.Errorf("truncated record @ %d: got %d bytes", pos, len(slot))
		}
		verr := Validate(h, pos)

		// A record torn mid-way through its own declared length cannot be
		// decoded or stepped over; nothing after it is trustworthy either.
		if verr == nil && int(h.Size) > len(slot) {
			return fmt.Errorf("truncated record @ %d: got %d of %d bytes",
				pos, len(slot), h.Size)
		}

		// Realign the cursor to the record's declared length.  The size
		// field is honored for valid records and for failures that do not
		// implicate the size itself; anything else advances by the fixed
		// slot only, trading resync reach for not letting one corrupted
		// length field desynchronize the rest of the file.
		if (verr == nil || verr.SizeTrustworthy()) &&
			h.Size != 0 && int(h.Size) != len(slot) {
			if err := rd.Skip(int64(h.Size) - int64(len(slot))); err != nil {
				return fmt.Errorf("seek past record @ %d: %w", pos, err)
			}
		}

		if verr != nil {
			d.logger.Print(verr)
			continue
		}

		// Validation restricted the version to what Migrate handles, so an
		// error here means the two disagree.  Surface it rather than drop
		// the record.
		rec, err := Migrate(h, slot)
		if err != nil {
			return fmt.Errorf("decode record @ %d: %w", pos, err)
		}
		d.rebase.Normalize(&rec)

		if err := d.renderer.Render(rec, pos); err != nil {
			return fmt.Errorf("write report @ %d: %w", pos, err)
		}

		if d.store != nil {
			// Export failures should not stop the report.
			if err := d.store.RecordEntry(ctx, store.FromRecord(rec, pos)); err != nil {
				d.logger.Printf("timeline export @ %d: %v", pos, err)
			}
		}
	}
}
