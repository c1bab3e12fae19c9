package budget

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"slices"
	"strings"
)

// Strictness selects how reconciliation treats a delta segment that fails to
// parse. A single corrupt segment should not necessarily block reading an
// otherwise-valid budget, so the policy is explicit rather than a hidden
// default.
type Strictness int

const (
	// Lenient skips a corrupt segment with a warning and folds the rest.
	Lenient Strictness = iota
	// Strict fails the whole reconciliation on the first corrupt segment.
	Strict
)

func (s Strictness) String() string {
	switch s {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseStrictness parses a string into a Strictness.
func ParseStrictness(s string) (Strictness, error) {
	switch s {
	case "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return 0, fmt.Errorf("unknown strictness policy: %q", s)
	}
}

// Segment identifies one discovered delta segment. The inclusive counter
// range comes from the segment's own filename, never from listing order or
// timestamps.
type Segment struct {
	DeviceGUID string
	Name       string
	Start      int64
	End        int64
}

// Path returns the segment's location relative to the budget root.
func (s Segment) Path() string { return path.Join(devicesDir, s.DeviceGUID, s.Name) }

// discoverSegments finds every delta segment under every device directory.
// A file with an unparseable name cannot be ordered and is skipped with a
// warning. The result is sorted by start counter (then device) so callers
// never depend on directory listing order.
func discoverSegments(fsys FS) ([]Segment, error) {
	guids, err := fsys.ReadDir(devicesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not list devices: %w", err)
	}
	var segments []Segment
	for _, guid := range guids {
		names, err := fsys.ReadDir(path.Join(devicesDir, guid))
		if err != nil {
			log.Printf("warning: could not list device directory %s: %v", guid, err)
			continue
		}
		for _, name := range names {
			if !strings.HasSuffix(name, deltaExt) {
				continue
			}
			start, end, err := parseSegmentName(name)
			if err != nil {
				log.Printf("warning: skipping segment of device %s: %v", guid, err)
				continue
			}
			segments = append(segments, Segment{DeviceGUID: guid, Name: name, Start: start, End: end})
		}
	}
	slices.SortFunc(segments, func(a, b Segment) int {
		if a.Start != b.Start {
			return cmp.Compare(a.Start, b.Start)
		}
		return strings.Compare(a.DeviceGUID, b.DeviceGUID)
	})
	return segments, nil
}

// warnVersionGaps logs a warning for every segment whose start counter does
// not immediately follow the device's previously known end, starting from
// zero so a device whose earliest surviving segment starts late is flagged
// too. Segments may legitimately be discovered out of temporal order (a
// device syncing late), so gaps are never fatal: folding orders by counter
// regardless.
func warnVersionGaps(segments []Segment) {
	last := make(map[string]int64)
	for _, seg := range segments {
		prev := last[seg.DeviceGUID]
		if seg.Start != prev+1 {
			log.Printf("warning: %v", &VersionGapError{Segment: seg.Path(), Expected: prev + 1, Got: seg.Start})
		}
		if seg.End > prev {
			last[seg.DeviceGUID] = seg.End
		}
	}
}

// Reconcile discovers every delta segment, parses each into its mutation
// records, merges all records from all segments into one sequence sorted by
// version counter, and folds that sequence onto the store.
//
// Each applied record fully replaces the entity's field set and tombstone
// flag; a later counter always overwrites an earlier one no matter which
// device authored either. Minting guarantees counters are unique, so the
// result does not depend on the order segments were discovered in.
func Reconcile(fsys FS, store *EntityStore, policy Strictness) error {
	segments, err := discoverSegments(fsys)
	if err != nil {
		return err
	}
	warnVersionGaps(segments)

	var records []Entity
	for _, seg := range segments {
		data, err := fsys.ReadFile(seg.Path())
		if err == nil {
			var entities []Entity
			entities, err = DecodeDelta(data)
			if err == nil {
				records = append(records, entities...)
				continue
			}
		}
		malformed := &MalformedDeltaError{Path: seg.Path(), Err: err}
		if policy == Strict {
			return malformed
		}
		log.Printf("warning: skipping segment: %v", malformed)
	}

	slices.SortStableFunc(records, func(a, b Entity) int {
		return cmp.Compare(a.Version().Counter, b.Version().Counter)
	})
	for _, e := range records {
		store.apply(e)
	}
	return nil
}
