package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/gateway"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExtractionError reports why a model response could not be turned into a
// valid expense batch. Nothing is persisted when it is returned.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Classifier converts raw multiline expense text into a validated
// ExpenseBatch by prompting the completion gateway.
type Classifier struct {
	completer gateway.Completer
	currency  string
	logger    *zap.Logger
}

func New(completer gateway.Completer, currency string, logger *zap.Logger) *Classifier {
	return &Classifier{
		completer: completer,
		currency:  currency,
		logger:    logger,
	}
}

const extractionPrompt = `Você é um assistente financeiro. Receba uma lista de gastos (uma linha por gasto).
Cada linha normalmente tem: <valor> <descrição>.
Converta isso para JSON estrito no formato:

{
  "currency": "%s",
  "items": [
    {
      "amount": 100.0,
      "description_raw": "100 gasolino",
      "description_normalized": "gasolina",
      "category": "Transporte",
      "confidence": 0.90
    }
  ]
}

Regras:
- Se a linha estiver ambígua, categorize como "Outros" e reduza confidence.
- Corrija erros comuns de digitação (ex.: "gasolino" -> "gasolina").
- Não invente itens que não existem.
- Retorne APENAS JSON. Sem comentários.

Categorias permitidas:
%s

Entrada:
%s`

// wire shapes: amounts stay json.Number so no precision is lost before they
// become decimals.
type wireBatch struct {
	Currency string     `json:"currency"`
	Items    []wireItem `json:"items"`
}

type wireItem struct {
	Amount                json.Number `json:"amount"`
	DescriptionRaw        string      `json:"description_raw"`
	Description           string      `json:"description"`
	DescriptionNormalized string      `json:"description_normalized"`
	Category              string      `json:"category"`
	Confidence            json.Number `json:"confidence"`
}

// Extract prompts the model with the raw text and validates the JSON it
// returns. The batch is either fully valid or the call fails; no partial
// batches and no silent coercion of bad categories.
func (c *Classifier) Extract(ctx context.Context, rawText string) (*models.ExpenseBatch, error) {
	categories := make([]string, 0, len(models.Categories))
	for _, cat := range models.Categories {
		categories = append(categories, string(cat))
	}

	prompt := fmt.Sprintf(extractionPrompt, c.currency, strings.Join(categories, ", "), rawText)

	resp, err := c.completer.Complete(ctx, []gateway.Turn{
		{Role: gateway.RoleUser, Content: prompt},
	}, gateway.Options{
		MaxTokens:   800,
		Temperature: 0.1,
		TopP:        0.9,
	})
	if err != nil {
		return nil, err
	}

	payload, ok := extractJSONObject(resp)
	if !ok {
		c.logger.Warn("Model response contained no JSON object",
			zap.String("response", resp))
		return nil, &ExtractionError{Reason: "no JSON payload"}
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var wire wireBatch
	if err := dec.Decode(&wire); err != nil {
		// A well-formed object with wrong field types is a schema problem;
		// anything else means the braces did not delimit real JSON.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ExtractionError{Reason: "schema violation", Err: err}
		}
		return nil, &ExtractionError{Reason: "no JSON payload", Err: err}
	}

	batch, err := c.validate(wire)
	if err != nil {
		c.logger.Warn("Model response failed schema validation",
			zap.Error(err),
			zap.String("response", resp))
		return nil, &ExtractionError{Reason: "schema violation", Err: err}
	}

	return batch, nil
}

func (c *Classifier) validate(wire wireBatch) (*models.ExpenseBatch, error) {
	batch := &models.ExpenseBatch{
		Currency: wire.Currency,
		Items:    make([]models.ExpenseItem, 0, len(wire.Items)),
	}
	if batch.Currency == "" {
		batch.Currency = c.currency
	}

	for i, w := range wire.Items {
		// Older prompt formats used "description" for the raw line.
		raw := w.DescriptionRaw
		if raw == "" {
			raw = w.Description
		}

		if w.Amount == "" {
			return nil, fmt.Errorf("item %d: missing amount", i)
		}
		amount, err := decimal.NewFromString(w.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("item %d: bad amount %q: %w", i, w.Amount, err)
		}

		if w.Confidence == "" {
			return nil, fmt.Errorf("item %d: missing confidence", i)
		}
		confidence, err := decimal.NewFromString(w.Confidence.String())
		if err != nil {
			return nil, fmt.Errorf("item %d: bad confidence %q: %w", i, w.Confidence, err)
		}

		item := models.ExpenseItem{
			Amount:                amount,
			DescriptionRaw:        raw,
			DescriptionNormalized: w.DescriptionNormalized,
			Category:              models.Category(w.Category),
			Confidence:            confidence,
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		batch.Items = append(batch.Items, item)
	}

	return batch, nil
}
