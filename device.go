package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
)

// On-disk layout, relative to the budget root.
const (
	dataDir      = "data"
	snapshotFile = "data/Full.snapshot"
	devicesDir   = "devices"
	metaExt      = ".meta"
	deltaExt     = ".delta"

	// metaFormatVersion is written into every new metadata record.
	metaFormatVersion = "1.2"

	// maxDevices bounds the sequential tag space (A to Z).
	maxDevices = 26
)

// DeviceRecord is the metadata record of one writer. It lives in
// devices/<guid>/<guid>.meta and tracks the highest counter the device has
// incorporated into its local view.
type DeviceRecord struct {
	DeviceGUID       string `json:"deviceGuid"`
	ShortDeviceID    string `json:"shortDeviceId"`
	HasFullKnowledge bool   `json:"hasFullKnowledge"`
	Knowledge        int64  `json:"knowledge"`
	FormatVersion    string `json:"formatVersion"`
}

// deviceDir returns the device's directory, relative to the budget root.
func (d DeviceRecord) deviceDir() string { return path.Join(devicesDir, d.DeviceGUID) }

// metaPath returns the path of the device's metadata record.
func (d DeviceRecord) metaPath() string {
	return path.Join(devicesDir, d.DeviceGUID, d.DeviceGUID+metaExt)
}

// DeviceRegistry maintains the registry of writers and the total order over
// counters. It is the sole authority for minting new counters: every minted
// counter exceeds the global knowledge observed at mint time, which is what
// makes last-writer-wins well defined without distributed consensus.
type DeviceRegistry struct {
	fsys FS
}

// NewDeviceRegistry returns a registry working against the given budget root.
func NewDeviceRegistry(fsys FS) *DeviceRegistry { return &DeviceRegistry{fsys: fsys} }

// Devices reads every device metadata record. A record that cannot be read
// or parsed is skipped with a warning so a single corrupt device never blocks
// the others; a missing devices directory yields an empty list (the bootstrap
// case for a brand-new budget).
func (r *DeviceRegistry) Devices() ([]DeviceRecord, error) {
	guids, err := r.fsys.ReadDir(devicesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not list devices: %w", err)
	}
	var records []DeviceRecord
	for _, guid := range guids {
		rec, err := r.readMeta(guid)
		if err != nil {
			log.Printf("warning: skipping device %s: %v", guid, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Device returns the metadata record for one device.
func (r *DeviceRegistry) Device(guid string) (DeviceRecord, error) {
	return r.readMeta(guid)
}

func (r *DeviceRegistry) readMeta(guid string) (DeviceRecord, error) {
	metaPath := path.Join(devicesDir, guid, guid+metaExt)
	data, err := r.fsys.ReadFile(metaPath)
	if err != nil {
		return DeviceRecord{}, &DeviceMetadataCorruptError{Path: metaPath, Err: err}
	}
	var rec DeviceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return DeviceRecord{}, &DeviceMetadataCorruptError{Path: metaPath, Err: err}
	}
	if rec.DeviceGUID == "" || rec.ShortDeviceID == "" {
		return DeviceRecord{}, &DeviceMetadataCorruptError{Path: metaPath, Err: errors.New("missing deviceGuid or shortDeviceId")}
	}
	return rec, nil
}

// Register assigns an unused GUID and the next unused short tag, creates the
// device directory and writes its initial metadata record with zero
// knowledge.
func (r *DeviceRegistry) Register() (DeviceRecord, error) {
	existing, err := r.Devices()
	if err != nil {
		return DeviceRecord{}, err
	}
	tag, err := nextShortID(existing)
	if err != nil {
		return DeviceRecord{}, err
	}
	rec := DeviceRecord{
		DeviceGUID:    strings.ToUpper(uuid.NewString()),
		ShortDeviceID: tag,
		Knowledge:     0,
		FormatVersion: metaFormatVersion,
	}
	if err := r.fsys.MkdirAll(rec.deviceDir()); err != nil {
		return DeviceRecord{}, fmt.Errorf("could not create device directory: %w", err)
	}
	if err := r.writeMeta(rec); err != nil {
		return DeviceRecord{}, err
	}
	return rec, nil
}

// nextShortID returns the first tag in A..Z not yet assigned.
func nextShortID(existing []DeviceRecord) (string, error) {
	used := make(map[string]bool, len(existing))
	for _, rec := range existing {
		used[rec.ShortDeviceID] = true
	}
	for i := 0; i < maxDevices; i++ {
		tag := string(rune('A' + i))
		if !used[tag] {
			return tag, nil
		}
	}
	return "", fmt.Errorf("all %d device tags (A-Z) are taken", maxDevices)
}

// GlobalKnowledge computes the high-water-mark counter: the maximum of every
// readable device's recorded knowledge and of every counter implied by a
// discovered segment's end counter. Orphan segments (whose device metadata is
// gone or corrupt) still count: their counters were minted and must never be
// reused.
func (r *DeviceRegistry) GlobalKnowledge() (int64, error) {
	devices, err := r.Devices()
	if err != nil {
		return 0, err
	}
	segments, err := discoverSegments(r.fsys)
	if err != nil {
		return 0, err
	}
	var max int64
	for _, rec := range devices {
		if rec.Knowledge > max {
			max = rec.Knowledge
		}
	}
	for _, seg := range segments {
		if seg.End > max {
			max = seg.End
		}
	}
	return max, nil
}

// MintRange mints a fresh counter range for count new revisions. The start is
// strictly greater than the global knowledge computed immediately before
// minting, so any previously minted counter, by any device, is smaller.
func (r *DeviceRegistry) MintRange(count int) (start, end int64, err error) {
	if count <= 0 {
		return 0, 0, fmt.Errorf("cannot mint a range of %d counters", count)
	}
	knowledge, err := r.GlobalKnowledge()
	if err != nil {
		return 0, 0, err
	}
	start = knowledge + 1
	end = start + int64(count) - 1
	return start, end, nil
}

// UpdateKnowledge rewrites the device's metadata record with its new
// knowledge value, after a successful commit. The full-knowledge flag is the
// caller's call: only a commit that followed a full load proves the device
// has merged every other writer's segments.
func (r *DeviceRegistry) UpdateKnowledge(rec DeviceRecord, knowledge int64) (DeviceRecord, error) {
	rec.Knowledge = knowledge
	if err := r.writeMeta(rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func (r *DeviceRegistry) writeMeta(rec DeviceRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode metadata for device %s: %w", rec.DeviceGUID, err)
	}
	if err := r.fsys.WriteFile(rec.metaPath(), append(data, '\n')); err != nil {
		return fmt.Errorf("could not write metadata for device %s: %w", rec.DeviceGUID, err)
	}
	return nil
}
