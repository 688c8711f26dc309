package bot

import (
	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	"github.com/shopspring/decimal"
)

// sortedCategories returns the categories present in totals, in vocabulary
// order, so replies are deterministic.
func sortedCategories(totals map[models.Category]decimal.Decimal) []models.Category {
	var out []models.Category
	for _, cat := range models.Categories {
		if _, ok := totals[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}
