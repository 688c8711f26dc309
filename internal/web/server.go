// Package web is the browser front end: a single-page form that feeds the
// same extraction, storage and report pipeline the bot uses.
package web

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/advisor"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/aggregate"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/classifier"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/storage"
	"go.uber.org/zap"
)

type Server struct {
	store      storage.Store
	classifier *classifier.Classifier
	advisor    *advisor.Advisor
	currency   string
	logger     *zap.Logger
	tmpl       *template.Template
	mux        *http.ServeMux
}

func NewServer(store storage.Store, clf *classifier.Classifier, adv *advisor.Advisor, currency string, logger *zap.Logger) *Server {
	s := &Server{
		store:      store,
		classifier: clf,
		advisor:    adv,
		currency:   currency,
		logger:     logger,
		tmpl:       template.Must(template.New("page").Parse(pageTemplate)),
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /", s.handleIndex)
	s.mux.HandleFunc("POST /classify", s.handleClassify)
	s.mux.HandleFunc("POST /report", s.handleReport)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type totalRow struct {
	Category models.Category
	Amount   string
}

type pageData struct {
	Error      string
	Saved      []models.ExpenseRecord
	Totals     []totalRow
	GrandTotal string
	Report     string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, r.Context(), pageData{})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := strings.TrimSpace(r.FormValue("expenses"))
	if raw == "" {
		s.render(w, ctx, pageData{Error: "Cole pelo menos uma linha."})
		return
	}

	batch, err := s.classifier.Extract(ctx, raw)
	if err != nil {
		s.logger.Error("Failed to classify expenses", zap.Error(err))
		s.render(w, ctx, pageData{Error: "Falha ao classificar: " + err.Error()})
		return
	}

	var saved []models.ExpenseRecord
	for _, item := range batch.Items {
		record, err := s.store.Append(ctx, item, batch.Currency)
		if err != nil {
			s.logger.Error("Failed to save expense", zap.Error(err))
			s.render(w, ctx, pageData{Error: "Falha ao salvar: " + err.Error(), Saved: saved})
			return
		}
		saved = append(saved, record)
	}

	s.render(w, ctx, pageData{Saved: saved})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := s.store.ScanAll(ctx)
	if err != nil {
		s.logger.Error("Failed to scan expenses", zap.Error(err))
		s.render(w, ctx, pageData{Error: "Falha ao buscar gastos: " + err.Error()})
		return
	}

	totals := aggregate.TotalsByCategory(records)
	if len(totals) == 0 {
		s.render(w, ctx, pageData{Error: "Nenhum gasto encontrado para gerar relatório."})
		return
	}

	report, err := s.advisor.SpendingReport(ctx, totals, s.currency)
	if err != nil {
		s.logger.Error("Failed to generate report", zap.Error(err))
		s.render(w, ctx, pageData{Error: "Falha ao gerar relatório: " + err.Error()})
		return
	}

	s.render(w, ctx, pageData{Report: report})
}

// render fills in the totals section on every page load; totals are cheap
// and always recomputed from the store.
func (s *Server) render(w http.ResponseWriter, ctx context.Context, data pageData) {
	records, err := s.store.ScanAll(ctx)
	if err != nil {
		s.logger.Error("Failed to scan expenses for totals", zap.Error(err))
		if data.Error == "" {
			data.Error = "Falha ao buscar totais: " + err.Error()
		}
	} else {
		totals := aggregate.TotalsByCategory(records)
		for _, cat := range models.Categories {
			if total, ok := totals[cat]; ok {
				data.Totals = append(data.Totals, totalRow{Category: cat, Amount: total.StringFixed(2)})
			}
		}
		data.GrandTotal = aggregate.TotalAmount(records).StringFixed(2)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
	}
}

const pageTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Agente de Finanças</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
textarea { width: 100%; height: 8rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.3rem 0.8rem; text-align: left; }
.error { color: #b00; }
pre { background: #f4f4f4; padding: 1rem; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Agente de Finanças</h1>

{{if .Error}}<p class="error">❌ {{.Error}}</p>{{end}}

<h2>Coloque seus gastos</h2>
<form method="post" action="/classify">
<textarea name="expenses" placeholder="30 reais de almoço&#10;50 uber para casa&#10;200 mercado"></textarea>
<p><button type="submit">Classificar</button></p>
</form>

{{if .Saved}}
<p>✅ Itens classificados: {{len .Saved}}</p>
<table>
<tr><th>Valor</th><th>Descrição</th><th>Categoria</th><th>Confiança</th></tr>
{{range .Saved}}
<tr><td>{{.Amount.StringFixed 2}}</td><td>{{.DescriptionNormalized}}</td><td>{{.Category}}</td><td>{{.Confidence.StringFixed 2}}</td></tr>
{{end}}
</table>
{{end}}

<h2>📊 Totais por categoria</h2>
{{if .Totals}}
<table>
<tr><th>Categoria</th><th>Total (R$)</th></tr>
{{range .Totals}}
<tr><td>{{.Category}}</td><td>{{.Amount}}</td></tr>
{{end}}
</table>
<p>💰 Total geral: R$ {{.GrandTotal}}</p>
{{else}}
<p>Nenhum gasto encontrado.</p>
{{end}}

<h2>Relatório de gastos</h2>
<form method="post" action="/report">
<p><button type="submit">Gerar relatório</button></p>
</form>
{{if .Report}}<pre>{{.Report}}</pre>{{end}}

</body>
</html>`
