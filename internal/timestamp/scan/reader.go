package scan

import (
	"io"

	"github.com/privrun/tsdump/internal/timestamp/types"
)

// Reader performs fixed-slot reads over a timestamp file.  Each slot is
// sized to the largest known record layout; variable-length realignment is
// the driver's job, via Skip.
type Reader struct {
	src io.ReadSeeker
	pos int64
}

// NewReader wraps src, which must be positioned at the start of the file.
func NewReader(src io.ReadSeeker) *Reader {
	return &Reader{src: src}
}

// ReadSlot reads up to one slot and returns it with the stream offset the
// slot started at.  A clean zero-byte read returns io.EOF.  A partial tail
// slot is returned as-is: shorter record layouts are still complete inside
// it, and the driver checks each record against its own declared length.
// Genuine read failures are returned verbatim and abort the scan.
func (r *Reader) ReadSlot() ([]byte, int64, error) {
	pos := r.pos
	buf := make([]byte, types.SlotSize)

	n, err := io.ReadFull(r.src, buf)
	switch err {
	case nil, io.ErrUnexpectedEOF:
		// Full slot, or a partial one at the tail.
	case io.EOF:
		return nil, pos, io.EOF
	default:
		return nil, pos, err
	}

	r.pos += int64(n)
	return buf[:n], pos, nil
}

// Skip moves the cursor by n bytes relative to the current position.  A
// negative n rewinds, which happens whenever a record's declared size is
// shorter than the slot that was just read.
func (r *Reader) Skip(n int64) error {
	pos, err := r.src.Seek(n, io.SeekCurrent)
	if err != nil {
		return err
	}
	r.pos = pos
	return nil
}
