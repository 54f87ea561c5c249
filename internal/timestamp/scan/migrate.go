package scan

import (
	"errors"
	"fmt"

	"github.com/privrun/tsdump/internal/timestamp/types"
)

// ErrUnsupportedVersion is returned by Migrate for versions it cannot
// upgrade.  The driver never passes such versions in, since validation
// rejects them first; standalone callers get the sentinel.
var ErrUnsupportedVersion = errors.New("unsupported record version")

// Migrate decodes a slot according to its header version and upgrades the
// result to the current schema.
//
// Current-schema records decode as-is.  Version-1 records keep their
// identity fields, timestamp and type-selected scope verbatim and gain an
// unset start_time (the field does not exist in that layout).  The header
// is preserved untouched either way, so reports show the version and size
// actually on disk.
func Migrate(h types.Header, slot []byte) (types.Record, error) {
	switch h.Version {
	case types.VersionCurrent:
		return types.DecodeV2(slot)

	case 1:
		rec, err := types.DecodeV1(slot)
		if err != nil {
			return types.Record{}, err
		}
		rec.StartTime.Clear()
		return rec, nil

	default:
		return types.Record{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
}
