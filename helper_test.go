package budget

import (
	"path"
	"testing"

	"github.com/etnz/budget/date"
)

// fixture builds a budget directory on disk for tests: a snapshot, device
// metadata records and delta segments, in the exact layout the engine reads.
type fixture struct {
	t    *testing.T
	root string
	fsys FS
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{t: t, root: root, fsys: DirFS(root)}
	if err := f.fsys.MkdirAll(dataDir); err != nil {
		t.Fatalf("could not create data directory: %v", err)
	}
	return f
}

// writeSnapshot encodes entities into data/Full.snapshot.
func (f *fixture) writeSnapshot(entities ...Entity) {
	f.t.Helper()
	data, err := EncodeSnapshot(entities)
	if err != nil {
		f.t.Fatalf("could not encode snapshot: %v", err)
	}
	if err := f.fsys.WriteFile(snapshotFile, data); err != nil {
		f.t.Fatalf("could not write snapshot: %v", err)
	}
}

// writeRaw writes arbitrary content at a path relative to the budget root,
// creating parent directories. Used to plant corrupt files.
func (f *fixture) writeRaw(name, content string) {
	f.t.Helper()
	if dir := path.Dir(name); dir != "." {
		if err := f.fsys.MkdirAll(dir); err != nil {
			f.t.Fatalf("could not create %s: %v", dir, err)
		}
	}
	if err := f.fsys.WriteFile(name, []byte(content)); err != nil {
		f.t.Fatalf("could not write %s: %v", name, err)
	}
}

// addDevice writes a device directory and metadata record with a fixed GUID
// derived from the tag, so fixtures stay readable.
func (f *fixture) addDevice(tag string, knowledge int64) DeviceRecord {
	f.t.Helper()
	rec := DeviceRecord{
		DeviceGUID:    "DEVICE-" + tag,
		ShortDeviceID: tag,
		Knowledge:     knowledge,
		FormatVersion: metaFormatVersion,
	}
	if err := f.fsys.MkdirAll(rec.deviceDir()); err != nil {
		f.t.Fatalf("could not create device directory: %v", err)
	}
	if err := NewDeviceRegistry(f.fsys).writeMeta(rec); err != nil {
		f.t.Fatalf("could not write device metadata: %v", err)
	}
	return rec
}

// writeSegment encodes entities into a delta segment under the device's
// directory, named by the given counter range.
func (f *fixture) writeSegment(rec DeviceRecord, start, end int64, entities ...Entity) {
	f.t.Helper()
	data, err := EncodeDelta(rec, start, end, entities)
	if err != nil {
		f.t.Fatalf("could not encode segment: %v", err)
	}
	name := path.Join(rec.deviceDir(), segmentName(start, end))
	if err := f.fsys.WriteFile(name, data); err != nil {
		f.t.Fatalf("could not write segment: %v", err)
	}
}

// Entity builders with the minimum fields the engine requires.

func testAccount(id string, v Version, name string) *Account {
	return &Account{
		Envelope: Envelope{EntityID: id, EntityVersion: v},
		Name:     name,
		Type:     "Checking",
		OnBudget: true,
	}
}

func testPayee(id string, v Version, name string) *Payee {
	return &Payee{
		Envelope: Envelope{EntityID: id, EntityVersion: v},
		Name:     name,
		Enabled:  true,
	}
}

func testTransaction(id string, v Version, accountID string, amount int64, day string) *Transaction {
	return &Transaction{
		Envelope:  Envelope{EntityID: id, EntityVersion: v},
		AccountID: accountID,
		Amount:    amount,
		Date:      date.MustParse(day),
		Cleared:   Uncleared,
		Accepted:  true,
	}
}
