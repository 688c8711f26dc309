package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExpenseItem is one classified expense line as returned by the model.
// It is transient: validated, persisted as an ExpenseRecord and discarded.
type ExpenseItem struct {
	Amount                decimal.Decimal `json:"amount"`
	DescriptionRaw        string          `json:"description_raw"`
	DescriptionNormalized string          `json:"description_normalized"`
	Category              Category        `json:"category"`
	Confidence            decimal.Decimal `json:"confidence"`
}

// Validate checks the field constraints that the extraction prompt promises
// but the model cannot be trusted to honor.
func (i ExpenseItem) Validate() error {
	if !i.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", i.Amount)
	}
	if i.DescriptionRaw == "" {
		return fmt.Errorf("description_raw is required")
	}
	if i.DescriptionNormalized == "" {
		return fmt.Errorf("description_normalized is required")
	}
	if !i.Category.Valid() {
		return fmt.Errorf("unknown category %q", i.Category)
	}
	if i.Confidence.IsNegative() || i.Confidence.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("confidence must be in [0,1], got %s", i.Confidence)
	}
	return nil
}

// ExpenseBatch is the full result of one extraction call.
type ExpenseBatch struct {
	Currency string        `json:"currency"`
	Items    []ExpenseItem `json:"items"`
}

// ExpenseRecord is the persisted form of an ExpenseItem. Records are
// immutable once written; there is no update or delete path.
type ExpenseRecord struct {
	PK                    string          `json:"pk"`
	SK                    string          `json:"sk"`
	Amount                decimal.Decimal `json:"amount"`
	DescriptionRaw        string          `json:"description_raw"`
	DescriptionNormalized string          `json:"description_normalized"`
	Category              Category        `json:"category"`
	Confidence            decimal.Decimal `json:"confidence"`
	Currency              string          `json:"currency"`
	CreatedAt             string          `json:"created_at"`
}

// Description returns the best display text for the record.
func (r ExpenseRecord) Description() string {
	if r.DescriptionNormalized != "" {
		return r.DescriptionNormalized
	}
	return r.DescriptionRaw
}
