package budget

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// The snapshot is one JSON document keyed by entity kind. Master categories
// nest their sub-categories, and monthly budgets nest their category lines,
// mirroring the shape full-state files have always had; decoding flattens
// both into the store's uniform entity tables.

type snapshotMasterCategory struct {
	MasterCategory
	SubCategories []*Category `json:"subCategories,omitempty"`
}

type snapshotMonthlyBudget struct {
	MonthlyBudget
	MonthlySubCategoryBudgets []*MonthlyCategoryBudget `json:"monthlySubCategoryBudgets,omitempty"`
}

type snapshotDoc struct {
	Accounts              []*Account                `json:"accounts"`
	Payees                []*Payee                  `json:"payees"`
	PayeeRenamingRules    []*PayeeRenamingRule      `json:"payeeRenamingRules,omitempty"`
	MasterCategories      []*snapshotMasterCategory `json:"masterCategories"`
	MonthlyBudgets        []*snapshotMonthlyBudget  `json:"monthlyBudgets"`
	Transactions          []*Transaction            `json:"transactions"`
	ScheduledTransactions []*ScheduledTransaction   `json:"scheduledTransactions,omitempty"`
}

// DecodeSnapshot parses a full-state document into the flat list of entity
// revisions it contains. Snapshots may themselves contain tombstones from a
// prior compaction; they are kept, so replaying deltas on top behaves the
// same as replaying onto the uncompacted history.
func DecodeSnapshot(data []byte) ([]Entity, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse snapshot document: %w", err)
	}
	var entities []Entity
	for _, a := range doc.Accounts {
		entities = append(entities, a)
	}
	for _, p := range doc.Payees {
		entities = append(entities, p)
	}
	for _, r := range doc.PayeeRenamingRules {
		entities = append(entities, r)
	}
	for _, mc := range doc.MasterCategories {
		master := mc.MasterCategory
		entities = append(entities, &master)
		for _, c := range mc.SubCategories {
			entities = append(entities, c)
		}
	}
	for _, mb := range doc.MonthlyBudgets {
		month := mb.MonthlyBudget
		entities = append(entities, &month)
		for _, line := range mb.MonthlySubCategoryBudgets {
			entities = append(entities, line)
		}
	}
	for _, t := range doc.Transactions {
		entities = append(entities, t)
	}
	for _, s := range doc.ScheduledTransactions {
		entities = append(entities, s)
	}
	for _, e := range entities {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("invalid %s record %q: %w", e.What(), e.ID(), err)
		}
	}
	return entities, nil
}

// EncodeSnapshot serializes entities into a full-state document. Sections are
// rebuilt from the flat list: sub-categories nest under their master
// category, budget lines under their month. Records are ordered by entity id
// for canonical output.
func EncodeSnapshot(entities []Entity) ([]byte, error) {
	var doc snapshotDoc

	sorted := slices.Clone(entities)
	slices.SortFunc(sorted, func(a, b Entity) int { return strings.Compare(a.ID(), b.ID()) })

	masters := make(map[string]*snapshotMasterCategory)
	months := make(map[string]*snapshotMonthlyBudget)
	for _, e := range sorted {
		switch v := e.(type) {
		case *MasterCategory:
			mc := &snapshotMasterCategory{MasterCategory: *v}
			masters[v.ID()] = mc
			doc.MasterCategories = append(doc.MasterCategories, mc)
		case *MonthlyBudget:
			mb := &snapshotMonthlyBudget{MonthlyBudget: *v}
			months[v.ID()] = mb
			doc.MonthlyBudgets = append(doc.MonthlyBudgets, mb)
		}
	}
	for _, e := range sorted {
		switch v := e.(type) {
		case *Account:
			doc.Accounts = append(doc.Accounts, v)
		case *Payee:
			doc.Payees = append(doc.Payees, v)
		case *PayeeRenamingRule:
			doc.PayeeRenamingRules = append(doc.PayeeRenamingRules, v)
		case *Category:
			mc, ok := masters[v.MasterCategoryID]
			if !ok {
				return nil, fmt.Errorf("category %q references unknown master category %q", v.ID(), v.MasterCategoryID)
			}
			mc.SubCategories = append(mc.SubCategories, v)
		case *MonthlyCategoryBudget:
			mb, ok := months[v.ParentMonthlyBudgetID]
			if !ok {
				return nil, fmt.Errorf("budget line %q references unknown monthly budget %q", v.ID(), v.ParentMonthlyBudgetID)
			}
			mb.MonthlySubCategoryBudgets = append(mb.MonthlySubCategoryBudgets, v)
		case *Transaction:
			doc.Transactions = append(doc.Transactions, v)
		case *ScheduledTransaction:
			doc.ScheduledTransactions = append(doc.ScheduledTransactions, v)
		case *MasterCategory, *MonthlyBudget:
			// already placed in the first pass.
		default:
			return nil, fmt.Errorf("unsupported entity kind %q in snapshot", e.What())
		}
	}

	// Empty sections still serialize as empty arrays so readers can key on them.
	if doc.Accounts == nil {
		doc.Accounts = []*Account{}
	}
	if doc.Payees == nil {
		doc.Payees = []*Payee{}
	}
	if doc.MasterCategories == nil {
		doc.MasterCategories = []*snapshotMasterCategory{}
	}
	if doc.MonthlyBudgets == nil {
		doc.MonthlyBudgets = []*snapshotMonthlyBudget{}
	}
	if doc.Transactions == nil {
		doc.Transactions = []*Transaction{}
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
