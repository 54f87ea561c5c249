// Package types defines the on-disk timestamp record formats written by
// privrun's authentication cache and the decoded forms used by the scanner.
//
// A timestamp file is a flat concatenation of variable-length records.
// Every record starts with the same 8-byte header; the payload layout is
// selected by the header's version field.  All fields are little-endian.
package types

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// VersionCurrent is the schema version this package decodes natively.
	// Older versions are upgraded by the scan package before rendering.
	VersionCurrent = 2

	// HeaderSize is the byte length of the version-independent header.
	HeaderSize = 8

	// SizeV1 is the byte length of a version-1 record:
	// header + auth_uid + session_id + timestamp + scope.
	SizeV1 = HeaderSize + 4 + 4 + 16 + 8

	// SizeV2 is the byte length of a version-2 record, which inserts
	// start_time between the identity fields and the timestamp.
	SizeV2 = HeaderSize + 4 + 4 + 16 + 16 + 8

	// SlotSize is the fixed read unit for scanning: the largest known
	// record layout.  Shorter records are realigned using their declared
	// size after the slot is consumed.
	SlotSize = SizeV2
)

// ErrShortSlot is returned when a buffer is too small for the requested
// layout.  The scanner always hands full slots to the decoders, so seeing
// this outside tests means the caller is broken.
var ErrShortSlot = errors.New("timestamp: buffer too short for record layout")

// EntryType describes what a record's scope field refers to.
type EntryType uint16

const (
	TypeGlobal   EntryType = 0x01 // one record for the whole user
	TypeTTY      EntryType = 0x02 // scoped to a terminal device
	TypePPID     EntryType = 0x03 // scoped to a parent process
	TypeLockExcl EntryType = 0x04 // dummy record used for write locking
)

// String returns the symbolic name for known types and a hexadecimal
// fallback tag for anything else, so unrecognized on-disk values still
// render usefully.
func (t EntryType) String() string {
	switch t {
	case TypeGlobal:
		return "GLOBAL"
	case TypeTTY:
		return "TTY"
	case TypePPID:
		return "PPID"
	case TypeLockExcl:
		return "LOCKEXCL"
	}
	return fmt.Sprintf("UNKNOWN (0x%x)", uint16(t))
}

// Flags is the record flag bitset.
type Flags uint16

const (
	// FlagDisabled marks the record as ignored for authentication caching.
	FlagDisabled Flags = 0x01

	// FlagAnyUID matches any uid during lookups.  It is an in-memory query
	// convenience and should never appear in a persisted record; on disk
	// it is an anomaly worth showing, not corruption.
	FlagAnyUID Flags = 0x02
)

// String lists the recognized flag names present, comma separated, followed
// by any residual unrecognized bits in hex.  Returns "" when no bits are set.
func (f Flags) String() string {
	var parts []string
	if f&FlagDisabled != 0 {
		parts = append(parts, "DISABLED")
		f &^= FlagDisabled
	}
	if f&FlagAnyUID != 0 {
		parts = append(parts, "ANYUID")
		f &^= FlagAnyUID
	}
	if f != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint16(f)))
	}
	return strings.Join(parts, ", ")
}

// Timespec is a seconds/nanoseconds pair as stored on disk.  The all-zero
// value is the "unset" sentinel and must never be time-adjusted.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// IsSet reports whether the timespec holds a real time rather than the
// unset sentinel.
func (ts Timespec) IsSet() bool {
	return ts.Sec != 0 || ts.Nsec != 0
}

// Clear resets the timespec to the unset sentinel.
func (ts *Timespec) Clear() {
	ts.Sec, ts.Nsec = 0, 0
}

// Add shifts the timespec by d, normalizing the nanosecond field into
// [0, 1e9).  Callers are responsible for not adjusting unset values.
func (ts *Timespec) Add(d time.Duration) {
	ts.Sec += int64(d / time.Second)
	ts.Nsec += int64(d % time.Second)
	if ts.Nsec >= int64(time.Second) {
		ts.Sec++
		ts.Nsec -= int64(time.Second)
	} else if ts.Nsec < 0 {
		ts.Sec--
		ts.Nsec += int64(time.Second)
	}
}

// Time converts the timespec to a local wall-clock time.
func (ts Timespec) Time() time.Time {
	return time.Unix(ts.Sec, ts.Nsec)
}

// Header is the version-independent prefix shared by all record layouts.
type Header struct {
	Version uint16
	Size    uint16
	Type    EntryType
	Flags   Flags
}

// Record is a fully decoded timestamp record.  The scope union is decoded
// into the view Type selects; the other view stays zero.  For migrated v1
// records the header keeps its on-disk values so reports show what was
// actually stored.
type Record struct {
	Header

	AuthUID   uint32
	SessionID int32
	StartTime Timespec
	Timestamp Timespec

	// Scope union, interpreted by Type.
	TTYDev uint64 // TypeTTY: terminal device number
	PPID   int32  // TypePPID: parent process id
}

// DecodeHeader decodes the common header from the front of a slot.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortSlot
	}
	return Header{
		Version: binary.LittleEndian.Uint16(b[0:2]),
		Size:    binary.LittleEndian.Uint16(b[2:4]),
		Type:    EntryType(binary.LittleEndian.Uint16(b[4:6])),
		Flags:   Flags(binary.LittleEndian.Uint16(b[6:8])),
	}, nil
}

// DecodeV1 decodes a version-1 record.  StartTime does not exist in this
// layout and is left unset.
func DecodeV1(b []byte) (Record, error) {
	if len(b) < SizeV1 {
		return Record{}, ErrShortSlot
	}
	h, _ := DecodeHeader(b)
	rec := Record{
		Header:    h,
		AuthUID:   binary.LittleEndian.Uint32(b[8:12]),
		SessionID: int32(binary.LittleEndian.Uint32(b[12:16])),
		Timestamp: decodeTimespec(b[16:32]),
	}
	rec.TTYDev, rec.PPID = decodeScope(h.Type, b[32:40])
	return rec, nil
}

// DecodeV2 decodes a current-schema record.
func DecodeV2(b []byte) (Record, error) {
	if len(b) < SizeV2 {
		return Record{}, ErrShortSlot
	}
	h, _ := DecodeHeader(b)
	rec := Record{
		Header:    h,
		AuthUID:   binary.LittleEndian.Uint32(b[8:12]),
		SessionID: int32(binary.LittleEndian.Uint32(b[12:16])),
		StartTime: decodeTimespec(b[16:32]),
		Timestamp: decodeTimespec(b[32:48]),
	}
	rec.TTYDev, rec.PPID = decodeScope(h.Type, b[48:56])
	return rec, nil
}

// EncodeV1 serializes the record in the version-1 layout.  The header is
// written as stored in the record; callers building fixtures set Version
// and Size themselves.
func (r Record) EncodeV1() []byte {
	b := make([]byte, SizeV1)
	r.encodeHeader(b)
	binary.LittleEndian.PutUint32(b[8:12], r.AuthUID)
	binary.LittleEndian.PutUint32(b[12:16], uint32(r.SessionID))
	encodeTimespec(b[16:32], r.Timestamp)
	r.encodeScope(b[32:40])
	return b
}

// EncodeV2 serializes the record in the current layout.
func (r Record) EncodeV2() []byte {
	b := make([]byte, SizeV2)
	r.encodeHeader(b)
	binary.LittleEndian.PutUint32(b[8:12], r.AuthUID)
	binary.LittleEndian.PutUint32(b[12:16], uint32(r.SessionID))
	encodeTimespec(b[16:32], r.StartTime)
	encodeTimespec(b[32:48], r.Timestamp)
	r.encodeScope(b[48:56])
	return b
}

func (r Record) encodeHeader(b []byte) {
	binary.LittleEndian.PutUint16(b[0:2], r.Version)
	binary.LittleEndian.PutUint16(b[2:4], r.Size)
	binary.LittleEndian.PutUint16(b[4:6], uint16(r.Type))
	binary.LittleEndian.PutUint16(b[6:8], uint16(r.Flags))
}

func (r Record) encodeScope(b []byte) {
	switch r.Type {
	case TypeTTY:
		binary.LittleEndian.PutUint64(b, r.TTYDev)
	case TypePPID:
		binary.LittleEndian.PutUint32(b[0:4], uint32(r.PPID))
	}
}

func decodeTimespec(b []byte) Timespec {
	return Timespec{
		Sec:  int64(binary.LittleEndian.Uint64(b[0:8])),
		Nsec: int64(binary.LittleEndian.Uint64(b[8:16])),
	}
}

func encodeTimespec(b []byte, ts Timespec) {
	binary.LittleEndian.PutUint64(b[0:8], uint64(ts.Sec))
	binary.LittleEndian.PutUint64(b[8:16], uint64(ts.Nsec))
}

// decodeScope mirrors encodeScope: only the view the type selects is read,
// so the raw bytes never alias into the other one.
func decodeScope(t EntryType, b []byte) (ttydev uint64, ppid int32) {
	switch t {
	case TypeTTY:
		ttydev = binary.LittleEndian.Uint64(b[0:8])
	case TypePPID:
		ppid = int32(binary.LittleEndian.Uint32(b[0:4]))
	}
	return ttydev, ppid
}
