package budget

import "fmt"

// Load reconstructs the current state of a budget: it parses the full
// snapshot into an entity table, then discovers and folds every device's
// delta segments onto it (see Reconcile). The returned store carries an
// empty dirty set; it is ready to be mutated and committed back.
func Load(fsys FS, policy Strictness) (*EntityStore, error) {
	store, err := loadSnapshot(fsys)
	if err != nil {
		return nil, err
	}
	if err := Reconcile(fsys, store, policy); err != nil {
		return nil, err
	}
	store.reconciled = true
	return store, nil
}

// LoadDir is a convenience wrapper over Load for a budget rooted at an
// operating-system directory.
func LoadDir(root string, policy Strictness) (*EntityStore, error) {
	return Load(DirFS(root), policy)
}

// InitBudget creates the directory skeleton of a brand-new budget: the data
// directory and an empty snapshot. It refuses to touch a directory that
// already holds a snapshot.
func InitBudget(fsys FS) error {
	if _, err := fsys.ReadFile(snapshotFile); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite it", snapshotFile)
	}
	if err := fsys.MkdirAll(dataDir); err != nil {
		return err
	}
	data, err := EncodeSnapshot(nil)
	if err != nil {
		return err
	}
	return fsys.WriteFile(snapshotFile, data)
}

// loadSnapshot parses the full-state file into a fresh store. Without a
// readable snapshot there is no base state to fold segments onto, so any
// failure here aborts the load.
func loadSnapshot(fsys FS) (*EntityStore, error) {
	data, err := fsys.ReadFile(snapshotFile)
	if err != nil {
		return nil, &MalformedSnapshotError{Path: snapshotFile, Err: err}
	}
	entities, err := DecodeSnapshot(data)
	if err != nil {
		return nil, &MalformedSnapshotError{Path: snapshotFile, Err: err}
	}
	store := NewEntityStore()
	for _, e := range entities {
		store.apply(e)
	}
	return store, nil
}
