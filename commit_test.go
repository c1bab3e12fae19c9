package budget

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCommitRoundTrip(t *testing.T) {
	// Snapshot holds t1 with amount 0 at counter 10; a segment from device A
	// raises it to 20000 at counter 15. Device B then edits the memo and
	// commits: the edit must land in a fresh 16_16 segment and survive a
	// reload together with the amount.
	f := newFixture(t)
	f.writeSnapshot(
		testAccount("acc-1", V("A", 1), "Checking"),
		testTransaction("t1", V("A", 10), "acc-1", 0, "2025-08-02"),
	)
	a := f.addDevice("A", 15)
	b := f.addDevice("B", 0)
	f.writeSegment(a, 11, 15, testTransaction("t1", V("A", 15), "acc-1", 20000, "2025-08-02"))

	store, err := Load(f.fsys, Strict)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, _ := store.Get(KindTransaction, "t1")
	tx := e.(*Transaction)
	if tx.Amount != 20000 {
		t.Fatalf("t1 amount = %d, want 20000 before the edit", tx.Amount)
	}
	tx.Memo = "groceries"
	store.Put(tx)

	result, err := Commit(f.fsys, store, b.DeviceGUID)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !result.Committed() {
		t.Fatal("Commit reported nothing written")
	}
	if result.Start != 16 || result.End != 16 || result.Count != 1 {
		t.Errorf("result = %+v, want range [16,16] with 1 record", result)
	}
	if result.Segment != "devices/DEVICE-B/16_16.delta" {
		t.Errorf("segment = %q", result.Segment)
	}
	if len(store.Dirty()) != 0 {
		t.Error("dirty set not cleared after commit")
	}

	// Device B now records knowledge of its own counters.
	meta, err := NewDeviceRegistry(f.fsys).Device(b.DeviceGUID)
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if meta.Knowledge != 16 {
		t.Errorf("device B knowledge = %d, want 16", meta.Knowledge)
	}
	if !meta.HasFullKnowledge {
		t.Error("device B should have full knowledge after committing above the global counter")
	}
	if knowledge, err := NewDeviceRegistry(f.fsys).GlobalKnowledge(); err != nil || knowledge != 16 {
		t.Errorf("GlobalKnowledge = %d (%v), want 16 after commit", knowledge, err)
	}

	// A fresh load reproduces the committed edit.
	again, err := Load(f.fsys, Strict)
	if err != nil {
		t.Fatalf("Load (after commit): %v", err)
	}
	e, _ = again.Get(KindTransaction, "t1")
	got := e.(*Transaction)
	if got.Amount != 20000 || got.Memo != "groceries" {
		t.Errorf("t1 = %+v, want amount=20000 memo=groceries", got)
	}
	if got.Version() != V("B", 16) {
		t.Errorf("t1 version = %v, want B-16", got.Version())
	}
}

func TestCommitMintsOneCounterPerRevision(t *testing.T) {
	f := newFixture(t)
	f.writeSnapshot()
	b := f.addDevice("B", 15)

	store := NewEntityStore()
	store.Put(testPayee("pay-1", Version{}, "Grocer"))
	store.Put(testPayee("pay-2", Version{}, "Butcher"))

	result, err := Commit(f.fsys, store, b.DeviceGUID)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if result.Start != 16 || result.End != 17 {
		t.Errorf("range = [%d,%d], want [16,17]", result.Start, result.End)
	}

	// The store was built from scratch, not loaded from this budget, so the
	// commit must not claim the device merged everyone else's segments.
	meta, err := NewDeviceRegistry(f.fsys).Device(b.DeviceGUID)
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if meta.HasFullKnowledge {
		t.Error("committing an unloaded store must not grant full knowledge")
	}

	again, err := Load(f.fsys, Strict)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	seen := make(map[int64]string)
	for p := range again.Payees() {
		if tag := p.Version().Tag; tag != "B" {
			t.Errorf("%s stamped by %q, want B", p.ID(), tag)
		}
		if prev, dup := seen[p.Version().Counter]; dup {
			t.Errorf("counter %d used by both %s and %s", p.Version().Counter, prev, p.ID())
		}
		seen[p.Version().Counter] = p.ID()
	}
	if len(seen) != 2 {
		t.Errorf("reloaded %d payees, want 2", len(seen))
	}
}

func TestCommitEmptyDirtySetIsNoOp(t *testing.T) {
	f := newFixture(t)
	b := f.addDevice("B", 15)

	result, err := Commit(f.fsys, NewEntityStore(), b.DeviceGUID)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if result.Committed() {
		t.Errorf("result = %+v, want nothing committed", result)
	}
	names, err := f.fsys.ReadDir(b.deviceDir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, name := range names {
		if strings.HasSuffix(name, deltaExt) {
			t.Errorf("no-op commit wrote segment %q", name)
		}
	}
}

func TestCommitUnknownDevice(t *testing.T) {
	f := newFixture(t)
	store := NewEntityStore()
	store.Put(testPayee("pay-1", Version{}, "Grocer"))

	_, err := Commit(f.fsys, store, "DEVICE-NOWHERE")
	var conflict *WriteConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Commit error = %v, want WriteConflictError", err)
	}
	if len(store.Dirty()) != 1 {
		t.Error("failed commit consumed the dirty set")
	}
}

// failMetaFS makes every metadata write fail, to exercise the rollback path.
type failMetaFS struct {
	FS
}

func (f failMetaFS) WriteFile(name string, data []byte) error {
	if strings.HasSuffix(name, metaExt) {
		return fmt.Errorf("write %s: disk full", name)
	}
	return f.FS.WriteFile(name, data)
}

func TestCommitRollsBackSegmentOnMetadataFailure(t *testing.T) {
	f := newFixture(t)
	b := f.addDevice("B", 15)

	store := NewEntityStore()
	store.Put(testPayee("pay-1", Version{}, "Grocer"))

	_, err := Commit(failMetaFS{f.fsys}, store, b.DeviceGUID)
	if err == nil {
		t.Fatal("Commit: want error when the metadata write fails")
	}

	// The segment must not survive: with stale device knowledge its counters
	// would be minted again by the next commit.
	names, readErr := f.fsys.ReadDir(b.deviceDir())
	if readErr != nil {
		t.Fatalf("ReadDir: %v", readErr)
	}
	for _, name := range names {
		if strings.HasSuffix(name, deltaExt) {
			t.Errorf("segment %q left behind after rollback", name)
		}
	}
	if len(store.Dirty()) != 1 {
		t.Error("failed commit consumed the dirty set")
	}

	// After the failure the same store commits cleanly on a healthy disk.
	result, err := Commit(f.fsys, store, b.DeviceGUID)
	if err != nil {
		t.Fatalf("Commit (retry): %v", err)
	}
	if result.Start != 16 || result.End != 16 {
		t.Errorf("retry range = [%d,%d], want [16,16]", result.Start, result.End)
	}
}

func TestCommitTombstone(t *testing.T) {
	f := newFixture(t)
	f.writeSnapshot(testPayee("pay-1", V("A", 10), "Grocer"))
	f.addDevice("A", 10)
	b := f.addDevice("B", 0)

	store, err := Load(f.fsys, Strict)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !store.Delete(KindPayee, "pay-1") {
		t.Fatal("Delete returned false")
	}
	if _, err := Commit(f.fsys, store, b.DeviceGUID); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	again, err := Load(f.fsys, Strict)
	if err != nil {
		t.Fatalf("Load (after commit): %v", err)
	}
	if _, ok := again.Get(KindPayee, "pay-1"); ok {
		t.Error("deleted payee visible after reload")
	}
}
