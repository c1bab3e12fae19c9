package budget

import "fmt"

// The error taxonomy separates what is fatal (an unreadable snapshot, an
// unsafe commit) from what is recovered locally (a corrupt segment under the
// lenient policy, an unknown entity kind, one device's unreadable metadata).
// Anything that would silently lose or misattribute data is surfaced to the
// caller rather than guessed around.

// MalformedSnapshotError reports an unreadable or invalid snapshot file.
// Loading aborts: without a valid snapshot there is no base state to fold onto.
type MalformedSnapshotError struct {
	Path string
	Err  error
}

func (e *MalformedSnapshotError) Error() string {
	return fmt.Sprintf("malformed snapshot %q: %v", e.Path, e.Err)
}
func (e *MalformedSnapshotError) Unwrap() error { return e.Err }

// MalformedDeltaError reports a delta segment that could not be parsed.
// Depending on the configured Strictness it either fails the whole
// reconciliation or is skipped with a warning.
type MalformedDeltaError struct {
	Path string
	Err  error
}

func (e *MalformedDeltaError) Error() string {
	return fmt.Sprintf("malformed delta segment %q: %v", e.Path, e.Err)
}
func (e *MalformedDeltaError) Unwrap() error { return e.Err }

// UnknownEntityTypeError reports a mutation record whose entityType
// discriminator is not part of the known set. The record is always skipped:
// newer devices may introduce kinds this version does not understand yet.
type UnknownEntityTypeError struct {
	EntityType string
	EntityID   string
}

func (e *UnknownEntityTypeError) Error() string {
	return fmt.Sprintf("unknown entity type %q (entity %s)", e.EntityType, e.EntityID)
}

// DeviceMetadataCorruptError reports a device metadata record that could not
// be read. The device is skipped when computing global knowledge; the rest of
// the computation proceeds.
type DeviceMetadataCorruptError struct {
	Path string
	Err  error
}

func (e *DeviceMetadataCorruptError) Error() string {
	return fmt.Sprintf("corrupt device metadata %q: %v", e.Path, e.Err)
}
func (e *DeviceMetadataCorruptError) Unwrap() error { return e.Err }

// WriteConflictError reports that a counter range could not be minted safely.
// The commit aborts and no partial segment is left behind.
type WriteConflictError struct {
	DeviceGUID string
	Err        error
}

func (e *WriteConflictError) Error() string {
	return fmt.Sprintf("cannot mint counters for device %s: %v", e.DeviceGUID, e.Err)
}
func (e *WriteConflictError) Unwrap() error { return e.Err }

// VersionGapError reports a segment whose declared start counter does not
// immediately follow the previously known end. Segments may be discovered out
// of temporal order, so this is a warning: reconciliation still applies every
// record in counter order regardless of gaps.
type VersionGapError struct {
	Segment  string
	Expected int64
	Got      int64
}

func (e *VersionGapError) Error() string {
	return fmt.Sprintf("segment %q starts at counter %d, expected %d", e.Segment, e.Got, e.Expected)
}
