package advisor

import (
	"context"
	"strings"
	"testing"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/aggregate"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/gateway"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	response string
	turns    []gateway.Turn
	opts     gateway.Options
}

func (f *fakeCompleter) Complete(_ context.Context, turns []gateway.Turn, opts gateway.Options) (string, error) {
	f.turns = turns
	f.opts = opts
	return f.response, nil
}

func testFacts() Facts {
	return Facts{
		Income:     decimal.RequireFromString("5000"),
		MonthLabel: "2025-12",
		Totals: map[models.Category]decimal.Decimal{
			models.CategoryAlimentacao: decimal.RequireFromString("350.50"),
			models.CategoryTransporte:  decimal.RequireFromString("120"),
		},
		TotalSpent: decimal.RequireFromString("470.50"),
		TopExpenses: []aggregate.TopExpense{
			{Amount: decimal.RequireFromString("200"), Category: models.CategoryAlimentacao, Description: "mercado"},
		},
	}
}

func TestSpendingReport(t *testing.T) {
	fake := &fakeCompleter{response: "📊 Relatório"}
	adv := New(fake, zap.NewNop())

	report, err := adv.SpendingReport(context.Background(), testFacts().Totals, "BRL")
	require.NoError(t, err)
	assert.Equal(t, "📊 Relatório", report)

	require.Len(t, fake.turns, 1)
	prompt := fake.turns[0].Content
	assert.Contains(t, prompt, "BRL")
	assert.Contains(t, prompt, "Alimentação: 350.50")
	assert.Contains(t, prompt, "Transporte: 120.00")

	assert.Equal(t, 400, fake.opts.MaxTokens)
	assert.Equal(t, 0.3, fake.opts.Temperature)
	assert.Equal(t, 0.9, fake.opts.TopP)
}

func TestFinancialAdviceCarriesFactsVerbatim(t *testing.T) {
	fake := &fakeCompleter{response: "📊 SITUAÇÃO ATUAL..."}
	adv := New(fake, zap.NewNop())

	_, err := adv.FinancialAdvice(context.Background(), "quanto posso pagar de aluguel?", testFacts())
	require.NoError(t, err)

	require.Len(t, fake.turns, 1)
	prompt := fake.turns[0].Content
	assert.Contains(t, prompt, "Renda mensal: R$ 5000.00")
	assert.Contains(t, prompt, "Mês: 2025-12")
	assert.Contains(t, prompt, "Total gasto no mês: R$ 470.50")
	assert.Contains(t, prompt, "Alimentação: 350.50")
	assert.Contains(t, prompt, "quanto posso pagar de aluguel?")

	assert.Equal(t, 650, fake.opts.MaxTokens)
}

func TestConversationalReplyReplaysMemory(t *testing.T) {
	fake := &fakeCompleter{response: "Dá sim! Quer que eu detalhe?"}
	adv := New(fake, zap.NewNop())

	history := []gateway.Turn{
		{Role: gateway.RoleUser, Content: "gastei muito esse mês?"},
		{Role: gateway.RoleAssistant, Content: "Foi um pouco acima do normal."},
	}

	reply, err := adv.ConversationalReply(context.Background(), "consigo economizar 500?", history, testFacts())
	require.NoError(t, err)
	assert.Equal(t, "Dá sim! Quer que eu detalhe?", reply)

	// Context block, two memory turns, then the new message.
	require.Len(t, fake.turns, 4)
	assert.Contains(t, fake.turns[0].Content, "Dados do mês 2025-12")
	assert.Contains(t, fake.turns[0].Content, "mercado")
	assert.Equal(t, history[0], fake.turns[1])
	assert.Equal(t, history[1], fake.turns[2])
	assert.Equal(t, "consigo economizar 500?", fake.turns[3].Content)
	assert.Equal(t, gateway.RoleUser, fake.turns[3].Role)

	assert.Equal(t, 0.35, fake.opts.Temperature)
}

func TestFormatTotalsIsDeterministic(t *testing.T) {
	totals := testFacts().Totals

	first := formatTotals(totals)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, formatTotals(totals))
	}
	// Vocabulary order: Alimentação before Transporte.
	assert.Less(t, strings.Index(first, "Alimentação"), strings.Index(first, "Transporte"))
}
