package entry

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("entry not found")

// Entry is one line of the ledger. A positive amount is income, a negative
// amount an expense.
type Entry struct {
	ID     uuid.UUID
	Name   string
	Amount decimal.NullDecimal // Invalid when the record carries no amount
	Paid   bool
	Order  int // 1-based manual position
}

// Clone returns an independent copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}

// AmountOrZero returns the amount, treating a missing one as zero.
func (e *Entry) AmountOrZero() decimal.Decimal {
	if !e.Amount.Valid {
		return decimal.Zero
	}

	return e.Amount.Decimal
}

// Apply merges the set fields of p into e, leaving the rest untouched.
func (e *Entry) Apply(p Patch) {
	if p.Name != nil {
		e.Name = *p.Name
	}

	if p.Amount != nil {
		e.Amount = decimal.NewNullDecimal(*p.Amount)
	}

	if p.Paid != nil {
		e.Paid = *p.Paid
	}

	if p.Order != nil {
		e.Order = *p.Order
	}
}

// Form holds the user input for a new entry. A nil Amount means the amount
// field was left empty.
type Form struct {
	Name   string
	Amount *decimal.Decimal
}

// Patch is a partial update. Nil fields are not changed.
type Patch struct {
	Name   *string
	Amount *decimal.Decimal
	Paid   *bool
	Order  *int
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Amount == nil && p.Paid == nil && p.Order == nil
}

// Position is the {id, order} pair persisted by a renumbering.
type Position struct {
	ID    uuid.UUID
	Order int
}
