package budget

import (
	"testing"

	"github.com/etnz/budget/date"
)

func balanceStore(t *testing.T) *EntityStore {
	t.Helper()
	store := NewEntityStore()
	store.apply(testAccount("acc-1", V("A", 1), "Checking"))
	store.apply(testAccount("acc-2", V("A", 2), "Savings"))

	cleared := testTransaction("t1", V("A", 10), "acc-1", -1250, "2025-08-02")
	cleared.Cleared = Cleared
	store.apply(cleared)
	reconciled := testTransaction("t2", V("A", 11), "acc-1", 300000, "2025-08-03")
	reconciled.Cleared = Reconciled
	store.apply(reconciled)
	store.apply(testTransaction("t3", V("A", 12), "acc-1", -4000, "2025-08-05"))
	// Other account, and one transaction past the as-of date.
	store.apply(testTransaction("t4", V("A", 13), "acc-2", 99999, "2025-08-04"))
	store.apply(testTransaction("t5", V("A", 14), "acc-1", -777, "2025-09-01"))
	return store
}

func TestAccountBalance(t *testing.T) {
	store := balanceStore(t)

	cleared, uncleared := AccountBalance(store, "acc-1", date.MustParse("2025-08-10"), "EUR")
	if got := cleared.Minor(); got != 298750 {
		t.Errorf("cleared = %d, want 298750", got)
	}
	if got := uncleared.Minor(); got != -4000 {
		t.Errorf("uncleared = %d, want -4000", got)
	}
	if cleared.Currency() != "EUR" {
		t.Errorf("currency = %q, want EUR", cleared.Currency())
	}
}

func TestAccountBalanceExcludesSameDay(t *testing.T) {
	// Records dated exactly on the as-of day may still be pending on the
	// authoring device, so they do not count.
	store := balanceStore(t)

	_, uncleared := AccountBalance(store, "acc-1", date.MustParse("2025-08-05"), "EUR")
	if got := uncleared.Minor(); got != 0 {
		t.Errorf("uncleared = %d, want 0 with the same-day record excluded", got)
	}
}

func TestAccountBalanceEmptyAccount(t *testing.T) {
	store := balanceStore(t)
	cleared, uncleared := AccountBalance(store, "acc-9", date.MustParse("2025-08-10"), "EUR")
	if !cleared.IsZero() || !uncleared.IsZero() {
		t.Errorf("balance = %v / %v, want zero", cleared, uncleared)
	}
}

func TestMonthlySummary(t *testing.T) {
	store := NewEntityStore()
	store.apply(&Category{Envelope: Envelope{EntityID: "cat-g", EntityVersion: V("A", 1)}, Name: "Groceries", Type: "OUTFLOW", MasterCategoryID: "mc-1"})
	store.apply(&Category{Envelope: Envelope{EntityID: "cat-r", EntityVersion: V("A", 2)}, Name: "Rent", Type: "OUTFLOW", MasterCategoryID: "mc-1"})
	store.apply(&Category{Envelope: Envelope{EntityID: "cat-z", EntityVersion: V("A", 3)}, Name: "Zero budget", Type: "OUTFLOW", MasterCategoryID: "mc-1"})
	store.apply(&MonthlyBudget{Envelope: Envelope{EntityID: "mb-8", EntityVersion: V("A", 4)}, Month: date.MustParse("2025-08-01")})
	store.apply(&MonthlyCategoryBudget{Envelope: Envelope{EntityID: "mcb-g", EntityVersion: V("A", 5)}, CategoryID: "cat-g", ParentMonthlyBudgetID: "mb-8", Budgeted: 50000})
	store.apply(&MonthlyCategoryBudget{Envelope: Envelope{EntityID: "mcb-r", EntityVersion: V("A", 6)}, CategoryID: "cat-r", ParentMonthlyBudgetID: "mb-8", Budgeted: 120000})
	store.apply(&MonthlyCategoryBudget{Envelope: Envelope{EntityID: "mcb-z", EntityVersion: V("A", 7)}, CategoryID: "cat-z", ParentMonthlyBudgetID: "mb-8"})

	t1 := testTransaction("t1", V("A", 10), "acc-1", -1250, "2025-08-02")
	t1.CategoryID = "cat-g"
	store.apply(t1)
	t2 := testTransaction("t2", V("A", 11), "acc-1", -2000, "2025-08-15")
	t2.CategoryID = "cat-g"
	store.apply(t2)
	// Inflow in a budgeted category is not an outflow.
	t3 := testTransaction("t3", V("A", 12), "acc-1", 900, "2025-08-16")
	t3.CategoryID = "cat-g"
	store.apply(t3)
	// Outside the month.
	t4 := testTransaction("t4", V("A", 13), "acc-1", -5000, "2025-07-30")
	t4.CategoryID = "cat-r"
	store.apply(t4)

	summaries := MonthlySummary(store, date.MustParse("2025-08-20"), "EUR")
	if len(summaries) != 2 {
		t.Fatalf("summary has %d lines, want 2 (zero-budget category excluded): %+v", len(summaries), summaries)
	}
	groceries, rent := summaries[0], summaries[1]
	if groceries.Name != "Groceries" || rent.Name != "Rent" {
		t.Fatalf("summary order = %s, %s, want Groceries, Rent", groceries.Name, rent.Name)
	}
	if got := groceries.Outflow.Minor(); got != 3250 {
		t.Errorf("Groceries outflow = %d, want 3250", got)
	}
	if got := groceries.Available.Minor(); got != 46750 {
		t.Errorf("Groceries available = %d, want 46750", got)
	}
	if got := rent.Outflow.Minor(); got != 0 {
		t.Errorf("Rent outflow = %d, want 0", got)
	}
	if got := rent.Available.Minor(); got != 120000 {
		t.Errorf("Rent available = %d, want 120000", got)
	}
}

func TestMonthlySummarySplitTransaction(t *testing.T) {
	store := NewEntityStore()
	store.apply(&Category{Envelope: Envelope{EntityID: "cat-g", EntityVersion: V("A", 1)}, Name: "Groceries", Type: "OUTFLOW", MasterCategoryID: "mc-1"})
	store.apply(&Category{Envelope: Envelope{EntityID: "cat-h", EntityVersion: V("A", 2)}, Name: "Household", Type: "OUTFLOW", MasterCategoryID: "mc-1"})
	store.apply(&MonthlyBudget{Envelope: Envelope{EntityID: "mb-8", EntityVersion: V("A", 3)}, Month: date.MustParse("2025-08-01")})
	store.apply(&MonthlyCategoryBudget{Envelope: Envelope{EntityID: "mcb-g", EntityVersion: V("A", 4)}, CategoryID: "cat-g", ParentMonthlyBudgetID: "mb-8", Budgeted: 10000})
	store.apply(&MonthlyCategoryBudget{Envelope: Envelope{EntityID: "mcb-h", EntityVersion: V("A", 5)}, CategoryID: "cat-h", ParentMonthlyBudgetID: "mb-8", Budgeted: 10000})

	split := testTransaction("t1", V("A", 10), "acc-1", -3000, "2025-08-02")
	split.SubTransactions = []SubTransaction{
		{EntityID: "t1-a", CategoryID: "cat-g", Amount: -1800},
		{EntityID: "t1-b", CategoryID: "cat-h", Amount: -1200},
	}
	store.apply(split)

	summaries := MonthlySummary(store, date.MustParse("2025-08-01"), "EUR")
	if len(summaries) != 2 {
		t.Fatalf("summary has %d lines, want 2", len(summaries))
	}
	if got := summaries[0].Outflow.Minor(); got != 1800 {
		t.Errorf("Groceries outflow = %d, want 1800 (split line only)", got)
	}
	if got := summaries[1].Outflow.Minor(); got != 1200 {
		t.Errorf("Household outflow = %d, want 1200 (split line only)", got)
	}
}

func TestMonthlySummaryNoBudgetForMonth(t *testing.T) {
	store := NewEntityStore()
	if got := MonthlySummary(store, date.MustParse("2025-08-01"), "EUR"); got != nil {
		t.Errorf("summary = %+v, want nil for an unbudgeted month", got)
	}
}
