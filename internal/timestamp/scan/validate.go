package scan

import (
	"fmt"

	"github.com/privrun/tsdump/internal/timestamp/types"
)

// FailureKind classifies why a record header failed validation.
type FailureKind int

const (
	// FailUnknownVersion: the version field is neither 1 nor 2.
	FailUnknownVersion FailureKind = iota + 1

	// FailWrongSize: the declared size does not match the layout the
	// version field selects.
	FailWrongSize
)

// maxPlausibleSize bounds how far a declared record size may drive
// resynchronization.  Real records are tens of bytes; anything past this is
// assumed to be garbage rather than a future schema.
const maxPlausibleSize = 4096

// ValidationError describes a structurally invalid record.  It carries
// everything the diagnostic needs so the message can name the offset and
// the got/want sizes.
type ValidationError struct {
	Kind    FailureKind
	Pos     int64
	Version uint16
	Size    uint16
	Want    uint16
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case FailWrongSize:
		return fmt.Sprintf("wrong sized v%d record @ %d: got %d, expected %d",
			e.Version, e.Pos, e.Size, e.Want)
	default:
		return fmt.Sprintf("unknown timestamp record version %d @ %d", e.Version, e.Pos)
	}
}

// SizeTrustworthy reports whether the declared size field may be used to
// resynchronize the scan.  A wrong-size failure implicates the size field
// itself, so only the fixed slot advance is safe there.  An unknown-version
// failure with a plausible size is likely a future schema this tool does
// not know, and honoring its declared length keeps the rest of the scan
// aligned.
func (e *ValidationError) SizeTrustworthy() bool {
	return e.Kind == FailUnknownVersion &&
		e.Size >= types.HeaderSize && e.Size <= maxPlausibleSize
}

// Validate checks a record header against the size and version rules.  It
// inspects only the header, mutates nothing, and returns nil for a valid
// record.  pos is the stream offset of the record, carried into the
// diagnostic.
func Validate(h types.Header, pos int64) *ValidationError {
	switch h.Version {
	case 1:
		if h.Size != types.SizeV1 {
			return &ValidationError{
				Kind: FailWrongSize, Pos: pos,
				Version: h.Version, Size: h.Size, Want: types.SizeV1,
			}
		}
	case 2:
		if h.Size != types.SizeV2 {
			return &ValidationError{
				Kind: FailWrongSize, Pos: pos,
				Version: h.Version, Size: h.Size, Want: types.SizeV2,
			}
		}
	default:
		return &ValidationError{
			Kind: FailUnknownVersion, Pos: pos,
			Version: h.Version, Size: h.Size,
		}
	}
	return nil
}
