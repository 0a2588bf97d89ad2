// Package extract turns messy pasted text into lead records with an
// Anthropic model, falling back to deterministic behavior whenever no
// API key is configured.
package extract

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/revenue"
	"github.com/leadflow/leadflow-cli/internal/scoring"
	"github.com/leadflow/leadflow-cli/pkg/anthropic"
)

const (
	maxInputChars  = 100_000
	maxPromptChars = 50_000

	extractSystemPrompt = `You are a CRM data extraction assistant. You read pasted text (spreadsheets, emails, notes, call logs) and extract business leads. Respond with ONLY a JSON array, no prose and no markdown fences. Each element: {"businessName": string, "email": string, "phone": string, "revenue": number (annual USD, 0 if unknown), "state": string, "industry": string, "contactName": string}. Use "" for unknown text fields. Never invent data.`

	draftSystemPrompt = `You are a lead scoring assistant. Given one business lead as JSON, respond with ONLY a JSON object, no prose: {"score": number 5-98, "temperature": "Hot"|"Warm"|"Lukewarm"|"Cold", "tier": "100k_Under"|"101k_500k"|"500k_Plus", "reasoning": [three short strings]}.`
)

// DefaultModels is the fallback chain tried in order.
var DefaultModels = []string{
	"claude-sonnet-4-5-20250929",
	"claude-haiku-4-5-20251001",
}

// ExtractedLead is one record pulled out of free text.
type ExtractedLead struct {
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Revenue      int64  `json:"revenue"`
	State        string `json:"state"`
	Industry     string `json:"industry"`
	ContactName  string `json:"contactName"`
}

// Draft is a preliminary scoring for one lead.
type Draft struct {
	Score       int               `json:"score"`
	Temperature model.Temperature `json:"temperature"`
	Tier        model.Tier        `json:"tier"`
	Reasoning   []string          `json:"reasoning"`
}

// Extractor drives model-assisted extraction. A nil client puts it in
// offline mode: ExtractLeads returns nothing and DraftScore falls back
// to the revenue heuristic.
type Extractor struct {
	client anthropic.Client
	models []string
}

// New builds an Extractor. client may be nil; an empty model list
// uses DefaultModels.
func New(client anthropic.Client, models []string) *Extractor {
	if len(models) == 0 {
		models = DefaultModels
	}
	return &Extractor{client: client, models: models}
}

// Enabled reports whether a model client is configured.
func (e *Extractor) Enabled() bool { return e.client != nil }

// ExtractLeads pulls lead records out of raw text. Offline mode
// returns (nil, nil) so callers can fall back to table parsing.
func (e *Extractor) ExtractLeads(ctx context.Context, raw string) ([]ExtractedLead, error) {
	if e.client == nil {
		return nil, nil
	}
	if len(raw) > maxInputChars {
		raw = raw[:maxInputChars]
	}
	prompt := raw
	if len(prompt) > maxPromptChars {
		prompt = prompt[:maxPromptChars]
	}

	text, err := e.complete(ctx, extractSystemPrompt, "Extract all leads from this text:\n\n"+prompt)
	if err != nil {
		return nil, err
	}

	var wire []struct {
		BusinessName string `json:"businessName"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Revenue      any    `json:"revenue"`
		State        string `json:"state"`
		Industry     string `json:"industry"`
		ContactName  string `json:"contactName"`
	}
	if err := lenientUnmarshal(text, &wire); err != nil {
		return nil, err
	}

	leads := make([]ExtractedLead, 0, len(wire))
	for _, w := range wire {
		rev := int64(toFloat64(w.Revenue))
		if rev == 0 {
			if s, ok := w.Revenue.(string); ok {
				rev = revenue.Normalize(s)
			}
		}
		leads = append(leads, ExtractedLead{
			BusinessName: w.BusinessName,
			Email:        w.Email,
			Phone:        w.Phone,
			Revenue:      rev,
			State:        w.State,
			Industry:     w.Industry,
			ContactName:  w.ContactName,
		})
	}
	return leads, nil
}

// DraftScore produces a preliminary score for one lead. With a client
// it asks the model; offline, or when the model answer cannot be
// used, it falls back to the deterministic revenue heuristic.
func (e *Extractor) DraftScore(ctx context.Context, lead model.Lead) Draft {
	if e.client == nil {
		return heuristicDraft(lead.Revenue)
	}

	payload := fmt.Sprintf(`{"businessName": %q, "revenue": %d, "industry": %q, "state": %q}`,
		lead.BusinessName, lead.Revenue, lead.Industry, lead.State)
	text, err := e.complete(ctx, draftSystemPrompt, payload)
	if err != nil {
		zap.L().Warn("extract: draft score fell back to heuristic", zap.Error(err))
		return heuristicDraft(lead.Revenue)
	}

	var d Draft
	if err := lenientUnmarshal(text, &d); err != nil || d.Score < 5 || d.Score > 98 {
		zap.L().Warn("extract: unusable draft answer", zap.Error(err))
		return heuristicDraft(lead.Revenue)
	}
	return d
}

// complete runs the model fallback chain until one answers.
func (e *Extractor) complete(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for _, m := range e.models {
		resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     m,
			MaxTokens: 8192,
			System:    system,
			Messages:  []anthropic.Message{{Role: "user", Content: user}},
		})
		if err != nil {
			zap.L().Warn("extract: model failed, trying next",
				zap.String("model", m), zap.Error(err))
			lastErr = err
			continue
		}
		return resp.Text(), nil
	}
	return "", eris.Wrap(lastErr, "extract: all models failed")
}

// heuristicDraft is the offline score: coarse revenue bands instead of
// the power curve, with tier and temperature from the shared
// classifier so the bands never drift from the rest of the system.
func heuristicDraft(rev int64) Draft {
	var score int
	switch {
	case rev >= 500_000:
		score = 85
	case rev >= 100_000:
		score = 62
	case rev > 0:
		score = 38
	default:
		score = 20
	}
	tier := scoring.TierFor(rev)
	temp := scoring.TemperatureFor(score)
	return Draft{
		Score:       score,
		Temperature: temp,
		Tier:        tier,
		Reasoning: []string{
			fmt.Sprintf("Annual revenue %s falls in the %s tier", revenue.Format(float64(rev)), tier),
			fmt.Sprintf("Baseline score %d assigned from revenue band", score),
			fmt.Sprintf("Score %d maps to %s outreach priority", score, temp),
		},
	}
}
