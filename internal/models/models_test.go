package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validItem() ExpenseItem {
	return ExpenseItem{
		Amount:                decimal.RequireFromString("30"),
		DescriptionRaw:        "30 reais de almoço",
		DescriptionNormalized: "almoço",
		Category:              CategoryAlimentacao,
		Confidence:            decimal.RequireFromString("0.95"),
	}
}

func TestExpenseItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ExpenseItem)
		wantErr string
	}{
		{name: "valid", mutate: func(*ExpenseItem) {}},
		{
			name:    "zero amount",
			mutate:  func(i *ExpenseItem) { i.Amount = decimal.Zero },
			wantErr: "amount must be positive",
		},
		{
			name:    "negative amount",
			mutate:  func(i *ExpenseItem) { i.Amount = decimal.RequireFromString("-5") },
			wantErr: "amount must be positive",
		},
		{
			name:    "empty raw description",
			mutate:  func(i *ExpenseItem) { i.DescriptionRaw = "" },
			wantErr: "description_raw is required",
		},
		{
			name:    "empty normalized description",
			mutate:  func(i *ExpenseItem) { i.DescriptionNormalized = "" },
			wantErr: "description_normalized is required",
		},
		{
			name:    "category outside vocabulary",
			mutate:  func(i *ExpenseItem) { i.Category = "Cafezinho" },
			wantErr: "unknown category",
		},
		{
			name:    "confidence below zero",
			mutate:  func(i *ExpenseItem) { i.Confidence = decimal.RequireFromString("-0.1") },
			wantErr: "confidence must be in [0,1]",
		},
		{
			name:    "confidence above one",
			mutate:  func(i *ExpenseItem) { i.Confidence = decimal.RequireFromString("1.01") },
			wantErr: "confidence must be in [0,1]",
		},
		{
			name:   "confidence exactly one",
			mutate: func(i *ExpenseItem) { i.Confidence = decimal.NewFromInt(1) },
		},
		{
			name:   "confidence exactly zero",
			mutate: func(i *ExpenseItem) { i.Confidence = decimal.Zero },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := validItem()
			tc.mutate(&item)

			err := item.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestCategoryVocabulary(t *testing.T) {
	assert.Len(t, Categories, 11)
	assert.Equal(t, CategoryOutros, Categories[len(Categories)-1], "catch-all comes last")

	for _, c := range Categories {
		assert.True(t, c.Valid())
	}
	assert.False(t, Category("Viagens").Valid())
	assert.False(t, Category("").Valid())
}

func TestRecordDescription(t *testing.T) {
	r := ExpenseRecord{DescriptionRaw: "100 gasolino", DescriptionNormalized: "gasolina"}
	assert.Equal(t, "gasolina", r.Description())

	r.DescriptionNormalized = ""
	assert.Equal(t, "100 gasolino", r.Description())
}
