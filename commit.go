package budget

import (
	"fmt"
	"path"
)

// CommitResult describes the delta segment a successful commit produced.
// A zero result means the dirty set was empty and nothing was written.
type CommitResult struct {
	Start   int64  // first counter of the written range
	End     int64  // last counter of the written range
	Segment string // path of the written segment, relative to the budget root
	Count   int    // number of entity revisions in the segment
}

// Committed reports whether a segment was actually written.
func (r CommitResult) Committed() bool { return r.Count > 0 }

// Commit turns the store's dirty set into one new delta segment written under
// the committing device's directory, and updates that device's metadata
// record to the new knowledge value.
//
// The pair is atomic from the caller's point of view: if the metadata update
// fails the freshly written segment is removed again, so the same counters
// never appear mintable twice. When minting cannot be established (the
// committing device's metadata is unreadable, or the registry cannot be
// scanned) the commit fails with a WriteConflictError and nothing is written.
func Commit(fsys FS, store *EntityStore, deviceGUID string) (CommitResult, error) {
	dirty := store.Dirty()
	if len(dirty) == 0 {
		return CommitResult{}, nil
	}

	registry := NewDeviceRegistry(fsys)
	device, err := registry.Device(deviceGUID)
	if err != nil {
		return CommitResult{}, &WriteConflictError{DeviceGUID: deviceGUID, Err: err}
	}
	start, end, err := registry.MintRange(len(dirty))
	if err != nil {
		return CommitResult{}, &WriteConflictError{DeviceGUID: deviceGUID, Err: err}
	}

	// Assign one counter per dirty entity, in the stable order Dirty
	// returns (by entity id). Each revision carries the entity's full
	// current field set.
	revisions := make([]Entity, 0, len(dirty))
	counter := start
	for _, e := range dirty {
		rev := e.clone()
		rev.envelope().EntityVersion = V(device.ShortDeviceID, counter)
		counter++
		if err := rev.validate(); err != nil {
			return CommitResult{}, fmt.Errorf("cannot commit %s record %q: %w", rev.What(), rev.ID(), err)
		}
		revisions = append(revisions, rev)
	}

	data, err := EncodeDelta(device, start, end, revisions)
	if err != nil {
		return CommitResult{}, err
	}
	segment := path.Join(device.deviceDir(), segmentName(start, end))
	if err := fsys.WriteFile(segment, data); err != nil {
		return CommitResult{}, fmt.Errorf("could not write segment %q: %w", segment, err)
	}
	// A store built by a full load has merged every segment of every other
	// device, and the commit minted above all of them.
	if store.reconciled {
		device.HasFullKnowledge = true
	}
	if _, err := registry.UpdateKnowledge(device, end); err != nil {
		// Roll the segment back: a written segment with stale device
		// knowledge would make the same counters appear mintable again.
		fsys.Remove(segment)
		return CommitResult{}, fmt.Errorf("could not update knowledge of device %s: %w", deviceGUID, err)
	}

	for _, rev := range revisions {
		store.commitRevision(rev)
	}
	return CommitResult{Start: start, End: end, Segment: segment, Count: len(revisions)}, nil
}

// CommitDir is a convenience wrapper over Commit for a budget rooted at an
// operating-system directory.
func CommitDir(root string, store *EntityStore, deviceGUID string) (CommitResult, error) {
	return Commit(DirFS(root), store, deviceGUID)
}
