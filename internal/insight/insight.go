// Package insight calls a hosted language model for free-text commentary on
// the shop's data. It is strictly best-effort: any failure degrades to a
// placeholder string and never blocks a view.
package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"golfpos/internal/report"
	"golfpos/internal/shop"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Placeholders returned when generation is unavailable.
const (
	AnalysisUnavailable = "Unable to generate analysis at this time. Please check your API key."
	InsightUnavailable  = "Insight unavailable."
	NothingToAnalyze    = "No transactions to analyze yet."
)

// Generator is a stateless text-generation client.
type Generator struct {
	http    *resty.Client
	baseURL string
	apiKey  string
	model   string
	logger  *zap.Logger
}

// NewGenerator creates a Generator. An empty apiKey is allowed; every call
// then returns its placeholder.
func NewGenerator(apiKey, model string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	c := resty.New()
	c.SetTimeout(30 * time.Second)
	return &Generator{
		http:    c,
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   model,
		logger:  logger,
	}
}

// SetBaseURL overrides the API host, for tests.
func (g *Generator) SetBaseURL(url string) {
	g.baseURL = url
}

// Close releases the underlying HTTP client.
func (g *Generator) Close() error {
	return g.http.Close()
}

// ObsolescenceAnalysis asks for a clearance strategy over the current
// inventory, annotated with each item's days in stock.
func (g *Generator) ObsolescenceAnalysis(ctx context.Context, products []shop.Product) string {
	now := time.Now()
	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "Item: %s, Category: %s, Days in Stock: %d, Qty: %d, Cost: RM %.2f\n",
			p.Name, p.Category, report.DaysInStock(p.DateAdded, now), p.Quantity, p.CostPrice)
	}

	prompt := fmt.Sprintf(`You are an expert retail inventory analyst for a golf shop.
The business suffers from inventory obsolescence because they sell high variety/low volume items.

Here is the current inventory list with 'Days in Stock':
%s
Please provide a strategic report:
1. Identify items at high risk of becoming obsolete (older than 120 days).
2. Suggest specific clearance or bundling strategies for these items.
3. Estimate potential loss if not sold soon.

Keep the tone professional and actionable. Format as simple text with bullet points.`, b.String())

	return g.generate(ctx, prompt, AnalysisUnavailable)
}

// DailyInsight asks for a short summary of the most recent sales.
func (g *Generator) DailyInsight(ctx context.Context, transactions []shop.Transaction, products []shop.Product) string {
	if len(transactions) == 0 {
		return NothingToAnalyze
	}
	recent := transactions
	if len(recent) > 5 {
		recent = recent[:5]
	}
	var b strings.Builder
	for _, t := range recent {
		fmt.Fprintf(&b, "Date: %s, Total: RM %.2f, Method: %s\n",
			t.Date.Format("2006-01-02"), t.TotalAmount, t.PaymentMethod)
	}

	prompt := fmt.Sprintf(`You are the financial controller for a golf shop.
Recent transactions:
%s
Provide a brief (2-3 sentences) daily summary. Highlight if there is a reliance on Cash vs Bank Transfer (which helps with bank reconciliation).`, b.String())

	return g.generate(ctx, prompt, InsightUnavailable)
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *Generator) generate(ctx context.Context, prompt, placeholder string) string {
	if g.apiKey == "" {
		return placeholder
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	var out generateResponse
	res, err := g.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetBody(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}).
		SetResult(&out).
		Post(url)
	if err != nil {
		g.logger.Warn("insight generation failed", zap.Error(err))
		return placeholder
	}
	if res.IsError() {
		g.logger.Warn("insight generation rejected", zap.Int("status", res.StatusCode()))
		return placeholder
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		g.logger.Warn("insight generation returned no candidates")
		return placeholder
	}
	return out.Candidates[0].Content.Parts[0].Text
}
