package confidence

import (
	"testing"

	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
	"github.com/stretchr/testify/assert"
)

func probs(values ...float64) []models.ItemProbability {
	out := make([]models.ItemProbability, len(values))
	for i, v := range values {
		out[i] = models.ItemProbability{ItemID: "q", Probability: v}
	}
	return out
}

func TestAggregate_HighAbilityLowSpreadLargeExam(t *testing.T) {
	items := probs(repeat(0.5, 50)...)
	got := Aggregate(0.9, items)
	assert.Greater(t, got, 0.8)
	assert.LessOrEqual(t, got, 1.0)
}

func TestAggregate_SmallExamLowersNumConf(t *testing.T) {
	small := Aggregate(0.9, probs(0.5, 0.5))
	large := Aggregate(0.9, probs(repeat(0.5, 50)...))
	assert.Less(t, small, large)
}

func TestAggregate_HighSpreadLowersVarianceConf(t *testing.T) {
	tight := Aggregate(0.8, probs(0.5, 0.5, 0.5, 0.5))
	spread := Aggregate(0.8, probs(0.01, 0.99, 0.01, 0.99))
	assert.Greater(t, tight, spread)
}

func TestAggregate_ClampedToUnitInterval(t *testing.T) {
	got := Aggregate(0.0, probs(0.99, 0.01))
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
}

func TestAggregate_EmptyExam(t *testing.T) {
	got := Aggregate(0.6, nil)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
