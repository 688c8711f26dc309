// Package aggregate computes derived views over stored expense records.
// All functions are pure; they never touch the store or the gateway, and
// all arithmetic is exact decimal so user-facing totals carry no float
// rounding error.
package aggregate

import (
	"sort"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	"github.com/shopspring/decimal"
)

// TopExpense is one entry of a top-N ranking.
type TopExpense struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    models.Category `json:"category"`
	Description string          `json:"description"`
}

// TotalsByCategory sums amounts grouped by category. Categories without
// records never appear in the result.
func TotalsByCategory(records []models.ExpenseRecord) map[models.Category]decimal.Decimal {
	totals := make(map[models.Category]decimal.Decimal)
	for _, r := range records {
		totals[r.Category] = totals[r.Category].Add(r.Amount)
	}
	return totals
}

// TotalAmount sums all amounts; zero for empty input.
func TotalAmount(records []models.ExpenseRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// TopN ranks records by amount, descending. The sort is stable: records
// with equal amounts keep their chronological order.
func TopN(records []models.ExpenseRecord, n int) []TopExpense {
	if n <= 0 || len(records) == 0 {
		return nil
	}

	ranked := make([]models.ExpenseRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.GreaterThan(ranked[j].Amount)
	})

	if n > len(ranked) {
		n = len(ranked)
	}

	top := make([]TopExpense, 0, n)
	for _, r := range ranked[:n] {
		top = append(top, TopExpense{
			Amount:      r.Amount,
			Category:    r.Category,
			Description: r.Description(),
		})
	}
	return top
}
