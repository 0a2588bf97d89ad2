// Package scoring holds the single revenue-based classifier. Every
// ingestion path (manual add, sheet sync, smart import, rescore) must
// go through Classify so that scores never drift between sources.
package scoring

import (
	"math"

	"github.com/leadflow/leadflow-cli/internal/model"
)

const (
	minScore = 5
	maxScore = 98

	// Score(revenue) = round(15 * (revenue/10000)^0.42), clamped.
	scoreBase     = 15.0
	scoreDivisor  = 10000.0
	scoreExponent = 0.42
)

// Classification is the full deterministic output for a revenue figure.
type Classification struct {
	Score       int               `json:"score"`
	Tier        model.Tier        `json:"tier"`
	Temperature model.Temperature `json:"temperature"`
	TemplateID  int               `json:"template_id"`
}

// Score maps annual revenue to a lead score in [5,98]. Zero or
// negative revenue pins to the floor.
func Score(revenue int64) int {
	if revenue <= 0 {
		return minScore
	}
	raw := scoreBase * math.Pow(float64(revenue)/scoreDivisor, scoreExponent)
	s := int(math.Round(raw))
	if s < minScore {
		return minScore
	}
	if s > maxScore {
		return maxScore
	}
	return s
}

// TierFor buckets annual revenue. Boundaries are strict: exactly
// $500,000 stays in the middle tier, exactly $100,000 in the bottom.
func TierFor(revenue int64) model.Tier {
	switch {
	case revenue > 500_000:
		return model.Tier500kPlus
	case revenue > 100_000:
		return model.Tier101k500k
	default:
		return model.Tier100kUnder
	}
}

// TemperatureFor derives the outreach band from the score alone.
func TemperatureFor(score int) model.Temperature {
	switch {
	case score >= 78:
		return model.TempHot
	case score >= 50:
		return model.TempWarm
	case score >= 28:
		return model.TempLukewarm
	default:
		return model.TempCold
	}
}

// TemplateFor picks the outreach email template for a tier.
func TemplateFor(tier model.Tier) int {
	switch tier {
	case model.Tier500kPlus:
		return 3
	case model.Tier101k500k:
		return 2
	default:
		return 1
	}
}

// Classify runs the full pipeline for one revenue figure.
func Classify(revenue int64) Classification {
	score := Score(revenue)
	tier := TierFor(revenue)
	return Classification{
		Score:       score,
		Tier:        tier,
		Temperature: TemperatureFor(score),
		TemplateID:  TemplateFor(tier),
	}
}

// Apply writes a classification onto a lead in place.
func Apply(lead *model.Lead, c Classification) {
	lead.Score = c.Score
	lead.Tier = c.Tier
	lead.Temperature = c.Temperature
	lead.TemplateID = c.TemplateID
}
