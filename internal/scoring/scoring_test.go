package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadflow/leadflow-cli/internal/model"
)

func TestScoreFloorAndCeiling(t *testing.T) {
	assert.Equal(t, 5, Score(0))
	assert.Equal(t, 5, Score(-250_000))
	assert.Equal(t, 98, Score(2_000_000_000))
}

func TestScoreKnownValues(t *testing.T) {
	// round(15 * (rev/10000)^0.42)
	tests := []struct {
		revenue int64
		want    int
	}{
		{10_000, 15},
		{100_000, 39},
		{500_000, 78},
		{1_000_000, 103}, // clamps
	}
	for _, tt := range tests {
		got := Score(tt.revenue)
		if tt.want > 98 {
			assert.Equal(t, 98, got, "revenue %d", tt.revenue)
		} else {
			assert.Equal(t, tt.want, got, "revenue %d", tt.revenue)
		}
	}
}

func TestScoreMonotone(t *testing.T) {
	prev := Score(0)
	for rev := int64(1000); rev <= 5_000_000; rev += 7919 {
		s := Score(rev)
		assert.GreaterOrEqual(t, s, prev, "revenue %d", rev)
		assert.GreaterOrEqual(t, s, 5)
		assert.LessOrEqual(t, s, 98)
		prev = s
	}
}

func TestTierBoundaries(t *testing.T) {
	assert.Equal(t, model.Tier100kUnder, TierFor(0))
	assert.Equal(t, model.Tier100kUnder, TierFor(100_000))
	assert.Equal(t, model.Tier101k500k, TierFor(100_001))
	assert.Equal(t, model.Tier101k500k, TierFor(500_000))
	assert.Equal(t, model.Tier500kPlus, TierFor(500_001))
}

func TestTemperatureBoundaries(t *testing.T) {
	assert.Equal(t, model.TempCold, TemperatureFor(27))
	assert.Equal(t, model.TempLukewarm, TemperatureFor(28))
	assert.Equal(t, model.TempLukewarm, TemperatureFor(49))
	assert.Equal(t, model.TempWarm, TemperatureFor(50))
	assert.Equal(t, model.TempWarm, TemperatureFor(77))
	assert.Equal(t, model.TempHot, TemperatureFor(78))
}

func TestTemplateFor(t *testing.T) {
	assert.Equal(t, 3, TemplateFor(model.Tier500kPlus))
	assert.Equal(t, 2, TemplateFor(model.Tier101k500k))
	assert.Equal(t, 1, TemplateFor(model.Tier100kUnder))
}

func TestClassifyConsistency(t *testing.T) {
	for _, rev := range []int64{0, 45_000, 100_000, 100_001, 240_000, 500_000, 500_001, 1_200_000} {
		c := Classify(rev)
		assert.Equal(t, Score(rev), c.Score)
		assert.Equal(t, TierFor(rev), c.Tier)
		assert.Equal(t, TemperatureFor(c.Score), c.Temperature)
		assert.Equal(t, TemplateFor(c.Tier), c.TemplateID)
	}
}

func TestApply(t *testing.T) {
	lead := &model.Lead{BusinessName: "Acme Logistics", Revenue: 600_000}
	Apply(lead, Classify(lead.Revenue))
	assert.Equal(t, model.Tier500kPlus, lead.Tier)
	assert.Equal(t, model.TempHot, lead.Temperature)
	assert.Equal(t, 3, lead.TemplateID)
	assert.GreaterOrEqual(t, lead.Score, 78)
}
