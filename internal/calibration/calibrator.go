// Package calibration implements the item calibrator: it
// turns aggregate response statistics into per-item difficulty b (and the
// default discrimination/guessing) on a standard-normal scale.
package calibration

import (
	"log"

	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

// AccuracyWeight and TimeWeight are the fixed mixing weights for d01 in step
// of the calibration algorithm.
const (
	AccuracyWeight = 0.6
	TimeWeight     = 0.4
)

// itemAgg accumulates the raw counts a response stream contributes to one
// item, before the per-item difficulty formula is applied.
type itemAgg struct {
	attempts      int
	correct       int
	timeSum       float64
	timedAttempts int
}

// Bank is the calibrated, read-only item bank produced by CalibrateBank. It
// is safe for concurrent readers once built; it is never mutated in place.
type Bank struct {
	Items          map[string]models.Item
	DroppedRecords int
}

// Get returns the calibrated item for id, and whether it was found.
func (b *Bank) Get(id string) (models.Item, bool) {
	item, ok := b.Items[id]
	return item, ok
}

// CalibrateBank derives (b, a, c) for every item referenced by responses,
// Malformed records (negative response time, empty
// identifiers) are dropped and counted rather than failing the whole run.
func CalibrateBank(responses []models.Response) *Bank {
	aggs := make(map[string]*itemAgg)
	dropped := 0

	var globalTimeSum float64
	var globalTimedAttempts int

	for _, r := range responses {
		if r.ItemID == "" || r.LearnerID == "" || r.ResponseTime < 0 {
			dropped++
			continue
		}
		agg, ok := aggs[r.ItemID]
		if !ok {
			agg = &itemAgg{}
			aggs[r.ItemID] = agg
		}
		agg.attempts++
		if r.Correct {
			agg.correct++
		}
		if r.ResponseTime > 0 {
			agg.timeSum += r.ResponseTime
			agg.timedAttempts++
			globalTimeSum += r.ResponseTime
			globalTimedAttempts++
		}
	}

	if dropped > 0 {
		log.Printf("[CALIBRATE] dropped %d malformed response record(s)", dropped)
	}

	globalMeanTime := 0.0
	if globalTimedAttempts > 0 {
		globalMeanTime = globalTimeSum / float64(globalTimedAttempts)
	}

	items := make(map[string]models.Item, len(aggs))
	for id, agg := range aggs {
		items[id] = calibrateItem(id, agg, globalMeanTime)
	}

	return &Bank{Items: items, DroppedRecords: dropped}
}

// calibrateItem applies the calibration steps to a single item's
// aggregate stats.
func calibrateItem(id string, agg *itemAgg, globalMeanTime float64) models.Item {
	if agg.attempts == 0 {
		return models.NewDefaultItem(id)
	}

	accuracy := float64(agg.correct) / float64(agg.attempts)
	dAcc := 1 - accuracy

	itemMeanTime := 0.0
	if agg.timedAttempts > 0 {
		itemMeanTime = agg.timeSum / float64(agg.timedAttempts)
	}

	r := 1.0
	if globalMeanTime > 0 && agg.timedAttempts > 0 {
		r = itemMeanTime / globalMeanTime
	}

	dTime := 0.5
	if globalMeanTime > 0 {
		dTime = 0.5 * (1 + (r-1)*0.5)
	}

	d01 := AccuracyWeight*dAcc + TimeWeight*dTime
	d01 = models.ClampUnit(d01)

	b := (d01 - 0.5) * 6.0
	b = models.Clamp(b, models.AbilityClip)

	return models.Item{
		ID:               id,
		B:                b,
		A:                models.DefaultDiscrimination,
		C:                models.DefaultGuessing,
		AttemptCount:     agg.attempts,
		CorrectCount:     agg.correct,
		MeanResponseTime: itemMeanTime,
		Uncalibrated:     false,
	}
}
