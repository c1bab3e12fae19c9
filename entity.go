package budget

import (
	"errors"
	"fmt"

	"github.com/etnz/budget/date"
)

// Kind is a typed string discriminating entity records on the wire.
type Kind string

// Entity kinds used on the wire (snapshot sections and delta items).
const (
	KindAccount               Kind = "account"
	KindPayee                 Kind = "payee"
	KindPayeeRenamingRule     Kind = "payeeRenamingRule"
	KindMasterCategory        Kind = "masterCategory"
	KindCategory              Kind = "category"
	KindMonthlyBudget         Kind = "monthlyBudget"
	KindMonthlyCategoryBudget Kind = "monthlyCategoryBudget"
	KindTransaction           Kind = "transaction"
	KindScheduledTransaction  Kind = "scheduledTransaction"
)

// kinds lists every known entity kind, in the order sections appear in a
// snapshot document.
var kinds = []Kind{
	KindAccount,
	KindPayee,
	KindPayeeRenamingRule,
	KindMasterCategory,
	KindCategory,
	KindMonthlyBudget,
	KindMonthlyCategoryBudget,
	KindTransaction,
	KindScheduledTransaction,
}

// Entity defines the common interface for every record kind held in the
// store. An entity is never edited in place on disk: each change is a whole
// new revision carrying a fresh version stamp, and deletion is a revision
// with the tombstone flag set.
type Entity interface {
	ID() string // ID returns the stable entity identifier.
	What() Kind // What returns the entity kind discriminator.
	Version() Version
	Deleted() bool // Deleted reports whether this revision is a tombstone.

	validate() error
	envelope() *Envelope
	clone() Entity
}

// Envelope is the part of the record shared by all entity kinds.
type Envelope struct {
	EntityID      string  `json:"entityId"`
	EntityVersion Version `json:"entityVersion"`
	IsTombstone   bool    `json:"isTombstone"`
}

func (e Envelope) ID() string       { return e.EntityID }
func (e Envelope) Version() Version { return e.EntityVersion }
func (e Envelope) Deleted() bool    { return e.IsTombstone }

func (e *Envelope) envelope() *Envelope { return e }

// checkEnvelope validates the fields every record must carry.
func (e Envelope) checkEnvelope() error {
	if e.EntityID == "" {
		return errors.New("missing entityId")
	}
	if e.EntityVersion.IsZero() {
		return errors.New("missing entityVersion")
	}
	return nil
}

// ClearedStatus is the reconciliation state of a transaction.
type ClearedStatus string

const (
	Uncleared  ClearedStatus = "Uncleared"
	Cleared    ClearedStatus = "Cleared"
	Reconciled ClearedStatus = "Reconciled"
)

// IsCleared reports whether the transaction has cleared the account, i.e. it
// is Cleared or Reconciled.
func (s ClearedStatus) IsCleared() bool { return s == Cleared || s == Reconciled }

// Account is a real-world account (checking, savings, credit card...)
// transactions belong to.
type Account struct {
	Envelope
	Name          string `json:"accountName"`
	Type          string `json:"accountType"`
	OnBudget      bool   `json:"onBudget"`
	SortableIndex int64  `json:"sortableIndex"`
	Hidden        bool   `json:"hidden"`
}

func (*Account) What() Kind { return KindAccount }

func (a *Account) validate() error {
	if err := a.checkEnvelope(); err != nil {
		return err
	}
	if a.IsTombstone {
		return nil
	}
	if a.Name == "" {
		return errors.New("missing accountName")
	}
	return nil
}

func (a *Account) clone() Entity { c := *a; return &c }

// Payee is a standardized counterparty for transactions.
type Payee struct {
	Envelope
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

func (*Payee) What() Kind { return KindPayee }

func (p *Payee) validate() error {
	if err := p.checkEnvelope(); err != nil {
		return err
	}
	if p.IsTombstone {
		return nil
	}
	if p.Name == "" {
		return errors.New("missing name")
	}
	return nil
}

func (p *Payee) clone() Entity { c := *p; return &c }

// PayeeRenamingRule maps a raw payee string, as imported, to a standardized
// Payee. Operator tells how Operand matches the raw string (e.g. "Is",
// "Contains", "StartsWith").
type PayeeRenamingRule struct {
	Envelope
	ParentPayeeID string `json:"parentPayeeId"`
	Operator      string `json:"operator"`
	Operand       string `json:"operand"`
}

func (*PayeeRenamingRule) What() Kind { return KindPayeeRenamingRule }

func (r *PayeeRenamingRule) validate() error {
	if err := r.checkEnvelope(); err != nil {
		return err
	}
	if r.IsTombstone {
		return nil
	}
	if r.ParentPayeeID == "" {
		return errors.New("missing parentPayeeId")
	}
	if r.Operand == "" {
		return errors.New("missing operand")
	}
	return nil
}

func (r *PayeeRenamingRule) clone() Entity { c := *r; return &c }

// MasterCategory is the top level of the two-level category hierarchy.
type MasterCategory struct {
	Envelope
	Name          string `json:"name"`
	Type          string `json:"type"`
	Deleteable    bool   `json:"deleteable"`
	Expanded      bool   `json:"expanded"`
	SortableIndex int64  `json:"sortableIndex"`
}

func (*MasterCategory) What() Kind { return KindMasterCategory }

func (m *MasterCategory) validate() error {
	if err := m.checkEnvelope(); err != nil {
		return err
	}
	if m.IsTombstone {
		return nil
	}
	if m.Name == "" {
		return errors.New("missing name")
	}
	return nil
}

func (m *MasterCategory) clone() Entity { c := *m; return &c }

// Category is a budget category within a master category.
type Category struct {
	Envelope
	Name             string `json:"name"`
	Type             string `json:"type"`
	MasterCategoryID string `json:"masterCategoryId"`
	SortableIndex    int64  `json:"sortableIndex"`
}

func (*Category) What() Kind { return KindCategory }

func (c *Category) validate() error {
	if err := c.checkEnvelope(); err != nil {
		return err
	}
	if c.IsTombstone {
		return nil
	}
	if c.Name == "" {
		return errors.New("missing name")
	}
	if c.MasterCategoryID == "" {
		return errors.New("missing masterCategoryId")
	}
	return nil
}

func (c *Category) clone() Entity { d := *c; return &d }

// MonthlyBudget is the budget container for one calendar month. Its month is
// identified by the first day of the month.
type MonthlyBudget struct {
	Envelope
	Month date.Date `json:"month"`
}

func (*MonthlyBudget) What() Kind { return KindMonthlyBudget }

func (m *MonthlyBudget) validate() error {
	if err := m.checkEnvelope(); err != nil {
		return err
	}
	if m.IsTombstone {
		return nil
	}
	if m.Month.IsZero() {
		return errors.New("missing month")
	}
	return nil
}

func (m *MonthlyBudget) clone() Entity { c := *m; return &c }

// MonthlyCategoryBudget is one budgeted line: the amount allocated to a
// category for the month of its parent MonthlyBudget. Budgeted is expressed
// in minor currency units.
type MonthlyCategoryBudget struct {
	Envelope
	CategoryID            string `json:"categoryId"`
	ParentMonthlyBudgetID string `json:"parentMonthlyBudgetId"`
	Budgeted              int64  `json:"budgeted"`
	OverspendingHandling  string `json:"overspendingHandling,omitempty"`
	Note                  string `json:"note,omitempty"`
}

func (*MonthlyCategoryBudget) What() Kind { return KindMonthlyCategoryBudget }

func (m *MonthlyCategoryBudget) validate() error {
	if err := m.checkEnvelope(); err != nil {
		return err
	}
	if m.IsTombstone {
		return nil
	}
	if m.CategoryID == "" {
		return errors.New("missing categoryId")
	}
	if m.ParentMonthlyBudgetID == "" {
		return errors.New("missing parentMonthlyBudgetId")
	}
	return nil
}

func (m *MonthlyCategoryBudget) clone() Entity { c := *m; return &c }

// SubTransaction is one split line of a transaction. Splits share the parent
// transaction's account and date; they are serialized inline under the
// parent and carry their own stable id.
type SubTransaction struct {
	EntityID   string `json:"entityId"`
	Amount     int64  `json:"amount"`
	CategoryID string `json:"categoryId,omitempty"`
	PayeeID    string `json:"payeeId,omitempty"`
	Memo       string `json:"memo,omitempty"`
}

// Transaction is a dated movement of money on an account. Amount is in minor
// currency units (negative for outflows). Payee and category references are
// empty for unassigned/uncategorized transactions.
type Transaction struct {
	Envelope
	AccountID       string           `json:"accountId"`
	PayeeID         string           `json:"payeeId,omitempty"`
	CategoryID      string           `json:"categoryId,omitempty"`
	Amount          int64            `json:"amount"`
	Date            date.Date        `json:"date"`
	Cleared         ClearedStatus    `json:"cleared"`
	Accepted        bool             `json:"accepted"`
	Memo            string           `json:"memo,omitempty"`
	SubTransactions []SubTransaction `json:"subTransactions,omitempty"`
}

func (*Transaction) What() Kind { return KindTransaction }

// When returns the date of the transaction.
func (t *Transaction) When() date.Date { return t.Date }

func (t *Transaction) validate() error {
	if err := t.checkEnvelope(); err != nil {
		return err
	}
	if t.IsTombstone {
		return nil
	}
	if t.AccountID == "" {
		return errors.New("missing accountId")
	}
	if t.Date.IsZero() {
		return errors.New("missing date")
	}
	return nil
}

func (t *Transaction) clone() Entity {
	c := *t
	if t.SubTransactions != nil {
		c.SubTransactions = make([]SubTransaction, len(t.SubTransactions))
		copy(c.SubTransactions, t.SubTransactions)
	}
	return &c
}

// ScheduledTransaction is a recurring transaction template.
type ScheduledTransaction struct {
	Envelope
	Frequency  string    `json:"frequency"`
	Amount     int64     `json:"amount"`
	AccountID  string    `json:"accountId,omitempty"`
	PayeeID    string    `json:"payeeId,omitempty"`
	CategoryID string    `json:"categoryId,omitempty"`
	Date       date.Date `json:"date,omitempty"`
}

func (*ScheduledTransaction) What() Kind { return KindScheduledTransaction }

func (s *ScheduledTransaction) validate() error {
	if err := s.checkEnvelope(); err != nil {
		return err
	}
	if s.IsTombstone {
		return nil
	}
	if s.Frequency == "" {
		return errors.New("missing frequency")
	}
	return nil
}

func (s *ScheduledTransaction) clone() Entity { c := *s; return &c }

// newEntity is the single dispatch point converting a kind discriminator into
// its typed variant. An unknown discriminator yields an UnknownEntityTypeError
// so callers can skip the record (forward compatibility with kinds introduced
// by newer devices).
func newEntity(kind Kind) (Entity, error) {
	switch kind {
	case KindAccount:
		return &Account{}, nil
	case KindPayee:
		return &Payee{}, nil
	case KindPayeeRenamingRule:
		return &PayeeRenamingRule{}, nil
	case KindMasterCategory:
		return &MasterCategory{}, nil
	case KindCategory:
		return &Category{}, nil
	case KindMonthlyBudget:
		return &MonthlyBudget{}, nil
	case KindMonthlyCategoryBudget:
		return &MonthlyCategoryBudget{}, nil
	case KindTransaction:
		return &Transaction{}, nil
	case KindScheduledTransaction:
		return &ScheduledTransaction{}, nil
	default:
		return nil, &UnknownEntityTypeError{EntityType: string(kind)}
	}
}

// check that every kind dispatches to a variant.
func init() {
	for _, k := range kinds {
		if _, err := newEntity(k); err != nil {
			panic(fmt.Sprintf("kind %q has no variant: %v", k, err))
		}
	}
}
