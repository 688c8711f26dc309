package bot

import (
	"testing"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLooksLikeExpenses(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "single expense line", text: "100 gasolina", want: true},
		{name: "decimal with dot", text: "50.90 jantar", want: true},
		{name: "decimal with comma", text: "50,90 uber", want: true},
		{name: "multiline with one expense", text: "oi\n30 reais de almoço", want: true},
		{name: "classic two-line input", text: "30 reais de almoço\n50 uber para casa", want: true},
		{name: "question", text: "quanto gastei esse mês?", want: false},
		{name: "number not leading", text: "gastei 100 em gasolina", want: false},
		{name: "bare number without text", text: "100", want: false},
		{name: "too many decimal places", text: "10.999 coisa", want: false},
		{name: "empty", text: "", want: false},
		{name: "blank lines only", text: "\n\n  \n", want: false},
		{name: "leading whitespace", text: "   20 passagem", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, looksLikeExpenses(tc.text))
		})
	}
}

func TestSortedCategories(t *testing.T) {
	totals := map[models.Category]decimal.Decimal{
		models.CategoryOutros:      decimal.NewFromInt(1),
		models.CategoryAlimentacao: decimal.NewFromInt(2),
		models.CategoryTransporte:  decimal.NewFromInt(3),
	}

	got := sortedCategories(totals)

	assert.Equal(t, []models.Category{
		models.CategoryAlimentacao,
		models.CategoryTransporte,
		models.CategoryOutros,
	}, got)
}
