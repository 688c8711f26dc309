package aggregate

import (
	"math/rand"
	"testing"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(amount string, category models.Category, desc string) models.ExpenseRecord {
	return models.ExpenseRecord{
		Amount:                decimal.RequireFromString(amount),
		Category:              category,
		DescriptionNormalized: desc,
	}
}

func TestTotalsByCategory(t *testing.T) {
	records := []models.ExpenseRecord{
		record("30", models.CategoryAlimentacao, "almoço"),
		record("50", models.CategoryTransporte, "uber"),
		record("20.50", models.CategoryAlimentacao, "café"),
	}

	totals := TotalsByCategory(records)

	require.Len(t, totals, 2)
	assert.Equal(t, "50.5", totals[models.CategoryAlimentacao].String())
	assert.Equal(t, "50", totals[models.CategoryTransporte].String())

	_, ok := totals[models.CategoryLazer]
	assert.False(t, ok, "absent categories must not be zero-filled")
}

func TestTotalsByCategoryOrderIndependent(t *testing.T) {
	records := []models.ExpenseRecord{
		record("0.10", models.CategoryAlimentacao, "bala"),
		record("0.20", models.CategoryAlimentacao, "chiclete"),
		record("0.30", models.CategoryTransporte, "passagem"),
		record("99.99", models.CategoryMoradia, "conserto"),
		record("1.01", models.CategoryOutros, "???"),
	}

	want := TotalsByCategory(records)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.ExpenseRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := TotalsByCategory(shuffled)
		require.Len(t, got, len(want))
		for cat, total := range want {
			assert.True(t, got[cat].Equal(total))
		}
	}
}

func TestTotalAmount(t *testing.T) {
	t.Run("empty input is zero", func(t *testing.T) {
		assert.True(t, TotalAmount(nil).IsZero())
	})

	t.Run("matches sum of category totals", func(t *testing.T) {
		records := []models.ExpenseRecord{
			record("30", models.CategoryAlimentacao, "almoço"),
			record("50", models.CategoryTransporte, "uber"),
			record("0.01", models.CategoryOutros, "bala"),
		}

		total := TotalAmount(records)
		assert.Equal(t, "80.01", total.String())

		sum := decimal.Zero
		for _, v := range TotalsByCategory(records) {
			sum = sum.Add(v)
		}
		assert.True(t, total.Equal(sum))
	})

	t.Run("no float accumulation error", func(t *testing.T) {
		// 0.1 added ten times is exactly 1 in decimal arithmetic.
		var records []models.ExpenseRecord
		for i := 0; i < 10; i++ {
			records = append(records, record("0.1", models.CategoryOutros, "x"))
		}
		assert.True(t, TotalAmount(records).Equal(decimal.NewFromInt(1)))
	})
}

func TestTopN(t *testing.T) {
	records := []models.ExpenseRecord{
		record("50", models.CategoryTransporte, "uber"),
		record("200", models.CategoryTecnologia, "mouse"),
		record("50", models.CategoryAlimentacao, "jantar"),
		record("30", models.CategoryAlimentacao, "almoço"),
	}

	t.Run("sorted descending, stable ties, truncated", func(t *testing.T) {
		top := TopN(records, 3)
		require.Len(t, top, 3)

		assert.Equal(t, "mouse", top[0].Description)
		// The two 50s keep their original order.
		assert.Equal(t, "uber", top[1].Description)
		assert.Equal(t, "jantar", top[2].Description)
	})

	t.Run("n larger than input", func(t *testing.T) {
		top := TopN(records, 10)
		assert.Len(t, top, 4)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, TopN(nil, 5))
	})

	t.Run("non-positive n", func(t *testing.T) {
		assert.Empty(t, TopN(records, 0))
	})

	t.Run("input order untouched", func(t *testing.T) {
		TopN(records, 2)
		assert.Equal(t, "uber", records[0].DescriptionNormalized)
	})

	t.Run("falls back to raw description", func(t *testing.T) {
		top := TopN([]models.ExpenseRecord{{
			Amount:         decimal.NewFromInt(10),
			Category:       models.CategoryOutros,
			DescriptionRaw: "10 alguma coisa",
		}}, 1)
		require.Len(t, top, 1)
		assert.Equal(t, "10 alguma coisa", top[0].Description)
	})
}
