package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/advisor"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/aggregate"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/classifier"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/gateway"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/memory"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const topExpensesCount = 5

// expenseLine matches "100 gasolina", "50.90 jantar", "50,90 uber".
var expenseLine = regexp.MustCompile(`^\d+([.,]\d{1,2})?\s+\S+`)

type Bot struct {
	api        *tgbotapi.BotAPI
	store      storage.Store
	classifier *classifier.Classifier
	advisor    *advisor.Advisor
	memory     *memory.Memory
	income     decimal.Decimal
	currency   string
	logger     *zap.Logger
}

func New(token string, store storage.Store, clf *classifier.Classifier, adv *advisor.Advisor, mem *memory.Memory, income decimal.Decimal, currency string, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:        api,
		store:      store,
		classifier: clf,
		advisor:    adv,
		memory:     mem,
		income:     income,
		currency:   currency,
		logger:     logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	text := strings.TrimSpace(message.Text)

	if looksLikeExpenses(text) {
		b.handleExpenses(ctx, message, text)
		return
	}

	b.handleQuestion(ctx, message, text)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.sendMessage(message.Chat.ID, helpText)
	case "report":
		b.handleReport(ctx, message)
	case "advice":
		b.handleAdvice(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Comando desconhecido. Use /help para ver os comandos disponíveis.")
	}
}

const helpText = `Comandos:
/start - boas-vindas
/help - ajuda
/report - relatório (totais + insight)
/advice <pergunta> - estratégia financeira para o mês

Envie gastos (um por linha), ex:
100 gasolina
50 jantar
200 mouse
20 passagem

Ou faça uma pergunta livre sobre seus gastos.`

func (b *Bot) handleStart(message *tgbotapi.Message) {
	b.sendMessage(message.Chat.ID, "✅ Bot de Finanças ativo!\n\n"+helpText)
}

// looksLikeExpenses decides the routing: at least one line starting with a
// number followed by text means "expense list", everything else is treated
// as a question for the conversational flow.
func looksLikeExpenses(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if expenseLine.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func (b *Bot) handleExpenses(ctx context.Context, message *tgbotapi.Message, text string) {
	batchID := uuid.New().String()

	batch, err := b.classifier.Extract(ctx, text)
	if err != nil {
		b.logger.Error("Failed to classify expenses",
			zap.Error(err),
			zap.String("batch_id", batchID),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("Falha ao processar: %v", err))
		return
	}

	replyLines := []string{fmt.Sprintf("✅ Salvei %d gasto(s):", len(batch.Items))}
	for _, item := range batch.Items {
		record, err := b.store.Append(ctx, item, batch.Currency)
		if err != nil {
			b.logger.Error("Failed to save expense",
				zap.Error(err),
				zap.String("batch_id", batchID),
				zap.Int64("chat_id", message.Chat.ID))
			b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("Falha ao salvar: %v", err))
			return
		}
		replyLines = append(replyLines, fmt.Sprintf("- R$ %s | %s | %s (%s)",
			record.Amount.StringFixed(2),
			record.DescriptionNormalized,
			record.Category,
			record.Confidence.StringFixed(2)))
	}

	reply := strings.Join(replyLines, "\n")
	b.memory.Append(message.Chat.ID, gateway.RoleUser, text)
	b.memory.Append(message.Chat.ID, gateway.RoleAssistant, reply)

	b.sendMessage(message.Chat.ID, reply)
}

func (b *Bot) handleQuestion(ctx context.Context, message *tgbotapi.Message, text string) {
	facts, ok, err := b.monthFacts(ctx)
	if err != nil {
		b.logger.Error("Failed to load month expenses",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("Falha ao buscar gastos: %v", err))
		return
	}
	if !ok {
		b.sendMessage(message.Chat.ID, "Ainda não tenho gastos salvos deste mês. Envie alguns gastos (valor descrição) e tente de novo.")
		return
	}

	b.sendMessage(message.Chat.ID, "🧠 Pensando com base nos seus gastos do mês...")

	answer, err := b.advisor.ConversationalReply(ctx, text, b.memory.Get(message.Chat.ID), facts)
	if err != nil {
		b.logger.Error("Failed to generate reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("Falha ao responder: %v", err))
		return
	}

	b.memory.Append(message.Chat.ID, gateway.RoleUser, text)
	b.memory.Append(message.Chat.ID, gateway.RoleAssistant, answer)
	b.sendMessage(message.Chat.ID, answer)
}

func (b *Bot) handleReport(ctx context.Context, message *tgbotapi.Message) {
	records, err := b.store.ScanAll(ctx)
	if err != nil {
		b.logger.Error("Failed to scan expenses",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("Falha ao buscar gastos: %v", err))
		return
	}

	totals := aggregate.TotalsByCategory(records)
	if len(totals) == 0 {
		b.sendMessage(message.Chat.ID, "Ainda não há gastos salvos.")
		return
	}

	lines := []string{"📊 Totais por categoria:"}
	for _, cat := range sortedCategories(totals) {
		lines = append(lines, fmt.Sprintf("- %s: R$ %s", cat, totals[cat].StringFixed(2)))
	}
	b.sendMessage(message.Chat.ID, strings.Join(lines, "\n"))

	insight, err := b.advisor.SpendingReport(ctx, totals, b.currency)
	if err != nil {
		b.logger.Error("Failed to generate report",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("Falha ao gerar insight: %v", err))
		return
	}

	b.sendMessage(message.Chat.ID, "🧠 Insight:\n"+insight)
}

func (b *Bot) handleAdvice(ctx context.Context, message *tgbotapi.Message) {
	question := strings.TrimSpace(message.CommandArguments())
	if question == "" {
		b.sendMessage(message.Chat.ID, "Use: /advice <sua pergunta>. Ex: /advice quanto posso pagar de aluguel?")
		return
	}

	facts, ok, err := b.monthFacts(ctx)
	if err != nil {
		b.logger.Error("Failed to load month expenses",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("Falha ao buscar gastos: %v", err))
		return
	}
	if !ok {
		b.sendMessage(message.Chat.ID, "Ainda não tenho gastos salvos deste mês para embasar a resposta.")
		return
	}

	answer, err := b.advisor.FinancialAdvice(ctx, question, facts)
	if err != nil {
		b.logger.Error("Failed to generate advice",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("Falha ao gerar estratégia: %v", err))
		return
	}

	b.sendMessage(message.Chat.ID, answer)
}

// monthFacts aggregates the current month. ok is false when the month has
// no records yet, in which case no gateway call should be made.
func (b *Bot) monthFacts(ctx context.Context) (advisor.Facts, bool, error) {
	now := time.Now().UTC()

	records, err := b.store.ScanMonth(ctx, now.Year(), now.Month())
	if err != nil {
		return advisor.Facts{}, false, err
	}
	if len(records) == 0 {
		return advisor.Facts{}, false, nil
	}

	return advisor.Facts{
		Income:      b.income,
		MonthLabel:  now.Format("2006-01"),
		Totals:      aggregate.TotalsByCategory(records),
		TotalSpent:  aggregate.TotalAmount(records),
		TopExpenses: aggregate.TopN(records, topExpensesCount),
	}, true, nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	b.sendMessage(chatID, "⚠️ "+text)
}
