// Package confidence implements the confidence aggregator: it
// combines ability confidence, exam-size adequacy, and item-probability
// spread into a single pass-probability confidence score.
package confidence

import "github.com/manhnguyen41/Adaptive-Learning/internal/models"

// Fixed weighting. Not a tunable parameter of the core
// contract.
const (
	abilityWeight   = 0.5
	sizeWeight      = 0.3
	varianceWeight  = 0.2
	sizeNormalizer  = 50.0
	varianceScaling = 4.0
)

// Aggregate combines abilityConfidence (from the ability estimator) with
// the exam's per-item probabilities into a single confidence score in
// [0, 1].
func Aggregate(abilityConfidence float64, itemProbs []models.ItemProbability) float64 {
	n := len(itemProbs)
	if n == 0 {
		return models.ClampUnit(abilityWeight * abilityConfidence)
	}

	var sum float64
	for _, ip := range itemProbs {
		sum += ip.Probability
	}
	meanP := sum / float64(n)

	var varSum float64
	for _, ip := range itemProbs {
		d := ip.Probability - meanP
		varSum += d * d
	}
	varP := varSum / float64(n)

	numConf := minFloat(1.0, float64(n)/sizeNormalizer)
	varianceConf := 1 - minFloat(1.0, varP*varianceScaling)

	confidence := abilityWeight*abilityConfidence + sizeWeight*numConf + varianceWeight*varianceConf
	return models.ClampUnit(confidence)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
