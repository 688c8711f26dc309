// Package advisor turns aggregated expense numbers into natural-language
// insight through the completion gateway. Every method is stateless: all
// facts come in as arguments and conversation continuity is the caller's
// job via the memory package.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/aggregate"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/gateway"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Facts is the numeric context every advice prompt is grounded on.
type Facts struct {
	Income      decimal.Decimal
	MonthLabel  string
	Totals      map[models.Category]decimal.Decimal
	TotalSpent  decimal.Decimal
	TopExpenses []aggregate.TopExpense
}

type Advisor struct {
	completer gateway.Completer
	logger    *zap.Logger
}

func New(completer gateway.Completer, logger *zap.Logger) *Advisor {
	return &Advisor{completer: completer, logger: logger}
}

// formatTotals renders category totals in vocabulary order so the same
// input always produces the same prompt.
func formatTotals(totals map[models.Category]decimal.Decimal) string {
	var lines []string
	for _, cat := range models.Categories {
		if total, ok := totals[cat]; ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", cat, total.StringFixed(2)))
		}
	}
	return strings.Join(lines, "\n")
}

func formatTopExpenses(top []aggregate.TopExpense) string {
	var lines []string
	for _, e := range top {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", e.Description, e.Category, e.Amount.StringFixed(2)))
	}
	if len(lines) == 0 {
		return "- nenhum"
	}
	return strings.Join(lines, "\n")
}

const reportPrompt = `Você é um assistente financeiro pessoal. Gere um relatório curto, claro e útil
com base nos totais por categoria abaixo.

Regras:
- Responda em português do Brasil.
- Use bullets e números quando fizer sentido.
- Não invente gastos; use apenas os dados fornecidos.
- Seja prático: 1 sugestão concreta no final.
- Formato: título + 4 a 8 linhas no máximo.

Moeda: %s
Totais por categoria:
%s`

// SpendingReport produces the short narrative behind /report and the web
// report button. Callers skip it entirely when totals are empty.
func (a *Advisor) SpendingReport(ctx context.Context, totals map[models.Category]decimal.Decimal, currency string) (string, error) {
	prompt := fmt.Sprintf(reportPrompt, currency, formatTotals(totals))

	return a.completer.Complete(ctx, []gateway.Turn{
		{Role: gateway.RoleUser, Content: prompt},
	}, gateway.Options{
		MaxTokens:   400,
		Temperature: 0.3,
		TopP:        0.9,
	})
}

const advicePrompt = `Você é um mentor financeiro pessoal. Responda a pergunta do usuário usando os dados abaixo.
Seja prático, com passos e contas simples. Não invente dados.

Contexto:
- Renda mensal: R$ %s
- Mês: %s
- Total gasto no mês: R$ %s
- Totais por categoria:
%s

Pergunta do usuário:
%s

Formato da resposta (IMPORTANTE):
- NÃO use Markdown com ### ou ####
- NÃO use tabelas
- Use emojis como separadores
- Use frases curtas
- Use listas com hífen (-)
- Quebre a resposta em blocos visuais

Modelo visual esperado:

📊 SITUAÇÃO ATUAL
Renda: R$ X
Gasto no mês: R$ Y
Saldo: R$ Z

⚠️ DIAGNÓSTICO
1 a 2 frases objetivas.

🧭 ESTRATÉGIAS
1️⃣ Conservadora
- Ação recomendada
- Impacto

2️⃣ Moderada
- Ação recomendada
- Impacto

3️⃣ Agressiva
- Ação recomendada
- Impacto

✅ PRÓXIMA SEMANA
- [ ] ação 1
- [ ] ação 2
- [ ] ação 3`

// FinancialAdvice answers a direct question with the structured strategy
// template. Whether the model honors the template is a prompt concern; the
// numeric facts are what this layer guarantees.
func (a *Advisor) FinancialAdvice(ctx context.Context, question string, facts Facts) (string, error) {
	prompt := fmt.Sprintf(advicePrompt,
		facts.Income.StringFixed(2),
		facts.MonthLabel,
		facts.TotalSpent.StringFixed(2),
		formatTotals(facts.Totals),
		question,
	)

	return a.completer.Complete(ctx, []gateway.Turn{
		{Role: gateway.RoleUser, Content: prompt},
	}, gateway.Options{
		MaxTokens:   650,
		Temperature: 0.3,
		TopP:        0.9,
	})
}

const chatContextPrompt = `Você é um assistente financeiro pessoal em formato de conversa (tipo WhatsApp).
Tom: humano, direto, acolhedor e prático. Nada de relatório.

Regras de estilo:
- Sem Markdown (não use **, ###, etc.)
- Respostas curtas: 3 a 7 linhas.
- Primeiro responda a pergunta. Depois faça 1 pergunta curta para continuar.
- Não liste "opções 1/2/3" a menos que o usuário peça.
- Use no máximo 1 número por linha.
- Se notar algo fora do normal, comente com delicadeza (sem julgamento).

Dados do mês %s:
Renda: R$ %s
Total gasto: R$ %s
Totais por categoria:
%s
Top gastos:
%s`

// ConversationalReply builds the context block, replays the bounded memory
// and appends the new message. The caller appends both the message and the
// returned reply to memory afterwards.
func (a *Advisor) ConversationalReply(ctx context.Context, message string, history []gateway.Turn, facts Facts) (string, error) {
	system := fmt.Sprintf(chatContextPrompt,
		facts.MonthLabel,
		facts.Income.StringFixed(2),
		facts.TotalSpent.StringFixed(2),
		formatTotals(facts.Totals),
		formatTopExpenses(facts.TopExpenses),
	)

	turns := make([]gateway.Turn, 0, len(history)+2)
	turns = append(turns, gateway.Turn{Role: gateway.RoleUser, Content: system})
	turns = append(turns, history...)
	turns = append(turns, gateway.Turn{Role: gateway.RoleUser, Content: message})

	return a.completer.Complete(ctx, turns, gateway.Options{
		MaxTokens:   650,
		Temperature: 0.35,
		TopP:        0.9,
	})
}
