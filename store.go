package budget

import (
	"iter"
	"slices"
	"strings"
)

type entityKey struct {
	kind Kind
	id   string
}

// EntityStore is the only place that holds current state: one owned table of
// entities keyed by kind and id, plus a separate set of changed ids recorded
// since load. All mutation goes through Put (deletion included, as a
// tombstone), so the dirty set is trivially inspectable and nothing relies on
// scattered flags on live objects.
//
// The store is not safe for concurrent mutation; the engine assumes a single
// logical writer per load-mutate-commit session.
type EntityStore struct {
	entities map[entityKey]Entity
	dirty    map[entityKey]struct{}

	// reconciled is set once the store has been built from a full load
	// (snapshot plus every discovered segment). Only such a store entitles
	// the committing device to claim full knowledge.
	reconciled bool
}

// NewEntityStore creates an empty store.
func NewEntityStore() *EntityStore {
	return &EntityStore{
		entities: make(map[entityKey]Entity),
		dirty:    make(map[entityKey]struct{}),
	}
}

// Get returns the current revision of an entity, or false if it does not
// exist or is tombstoned. The returned entity is a copy: changing it does not
// affect the store until it is Put back.
func (s *EntityStore) Get(kind Kind, id string) (Entity, bool) {
	e, ok := s.entities[entityKey{kind, id}]
	if !ok || e.Deleted() {
		return nil, false
	}
	return e.clone(), true
}

// All returns an iterator over the current (non-tombstoned) entities of a
// kind, sorted by entity id. Yielded entities are copies.
func (s *EntityStore) All(kind Kind) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		var ids []string
		for key, e := range s.entities {
			if key.kind == kind && !e.Deleted() {
				ids = append(ids, key.id)
			}
		}
		slices.Sort(ids)
		for _, id := range ids {
			if !yield(s.entities[entityKey{kind, id}].clone()) {
				return
			}
		}
	}
}

// Put is the mutation entry point: it records a copy of the entity as the
// new current revision and adds it to the dirty set. It stamps nothing;
// version stamps are minted at commit time.
func (s *EntityStore) Put(e Entity) {
	key := entityKey{e.What(), e.ID()}
	s.entities[key] = e.clone()
	s.dirty[key] = struct{}{}
}

// Delete marks an entity logically deleted by putting a tombstone revision
// through the ordinary mutation path. The entity disappears from the current
// view but its record stays in the table for the commit to serialize. It
// returns false if the entity does not exist or is already tombstoned.
func (s *EntityStore) Delete(kind Kind, id string) bool {
	e, ok := s.entities[entityKey{kind, id}]
	if !ok || e.Deleted() {
		return false
	}
	c := e.clone()
	c.envelope().IsTombstone = true
	s.Put(c)
	return true
}

// Dirty returns a copy of every entity changed since load, in a stable order
// (by entity id). An empty result means there is nothing to commit.
func (s *EntityStore) Dirty() []Entity {
	keys := make([]entityKey, 0, len(s.dirty))
	for key := range s.dirty {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b entityKey) int {
		if c := strings.Compare(a.id, b.id); c != 0 {
			return c
		}
		return strings.Compare(string(a.kind), string(b.kind))
	})
	entities := make([]Entity, 0, len(keys))
	for _, key := range keys {
		entities = append(entities, s.entities[key].clone())
	}
	return entities
}

// apply folds one revision onto the table without touching the dirty set.
// It is the reconciliation path: the record fully replaces whatever revision
// the entity had before, but only when its counter is higher. A stale
// segment still on disk after its counters were compacted into the snapshot
// must never regress the entity.
func (s *EntityStore) apply(e Entity) {
	key := entityKey{e.What(), e.ID()}
	if prev, ok := s.entities[key]; ok && e.Version().Counter <= prev.Version().Counter {
		return
	}
	s.entities[key] = e
}

// commitRevision records a freshly stamped revision written by a successful
// commit and removes the entity from the dirty set.
func (s *EntityStore) commitRevision(e Entity) {
	key := entityKey{e.What(), e.ID()}
	s.entities[key] = e.clone()
	delete(s.dirty, key)
}

// typed adapts the uniform iterator to a concrete entity type.
func typed[T Entity](s *EntityStore, kind Kind) iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := range s.All(kind) {
			if !yield(e.(T)) {
				return
			}
		}
	}
}

// Accounts returns the current accounts, sorted by id.
func (s *EntityStore) Accounts() iter.Seq[*Account] { return typed[*Account](s, KindAccount) }

// Payees returns the current payees, sorted by id.
func (s *EntityStore) Payees() iter.Seq[*Payee] { return typed[*Payee](s, KindPayee) }

// PayeeRenamingRules returns the current renaming rules, sorted by id.
func (s *EntityStore) PayeeRenamingRules() iter.Seq[*PayeeRenamingRule] {
	return typed[*PayeeRenamingRule](s, KindPayeeRenamingRule)
}

// MasterCategories returns the current master categories, sorted by id.
func (s *EntityStore) MasterCategories() iter.Seq[*MasterCategory] {
	return typed[*MasterCategory](s, KindMasterCategory)
}

// Categories returns the current categories, sorted by id.
func (s *EntityStore) Categories() iter.Seq[*Category] { return typed[*Category](s, KindCategory) }

// MonthlyBudgets returns the current monthly budgets, sorted by id.
func (s *EntityStore) MonthlyBudgets() iter.Seq[*MonthlyBudget] {
	return typed[*MonthlyBudget](s, KindMonthlyBudget)
}

// MonthlyCategoryBudgets returns the current budget lines, sorted by id.
func (s *EntityStore) MonthlyCategoryBudgets() iter.Seq[*MonthlyCategoryBudget] {
	return typed[*MonthlyCategoryBudget](s, KindMonthlyCategoryBudget)
}

// Transactions returns the current transactions, sorted by id.
func (s *EntityStore) Transactions() iter.Seq[*Transaction] {
	return typed[*Transaction](s, KindTransaction)
}

// ScheduledTransactions returns the current scheduled transactions, sorted by id.
func (s *EntityStore) ScheduledTransactions() iter.Seq[*ScheduledTransaction] {
	return typed[*ScheduledTransaction](s, KindScheduledTransaction)
}
