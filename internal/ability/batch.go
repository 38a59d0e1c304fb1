package ability

import (
	"sync"

	"github.com/manhnguyen41/Adaptive-Learning/internal/apperrors"
	"github.com/manhnguyen41/Adaptive-Learning/internal/calibration"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

// LearnerRequest bundles one learner's responses and topic map for a batch
// ability call.
type LearnerRequest struct {
	LearnerID string
	Responses []models.LearnerResponse
	Topics    map[string]models.TopicAssignment
}

// BatchResult is one learner's slot in a batch ability response. Exactly one
// of Result or Error is set, never both.
type BatchResult struct {
	LearnerID string              `json:"learner_id"`
	Result    *ByTopicResult      `json:"result,omitempty"`
	Error     *apperrors.AppError `json:"error,omitempty"`
}

// EstimateBatch runs EstimateByTopic once per learner in requests,
// concurrently, and returns the results in the same order as requests. A
// batch call never fails as a whole: a per-learner failure is reported
// in-band as a BatchResult with Error set and Result left nil, rather than
// aborting the rest of the batch. Each goroutine reads bank through the
// shared immutable pointer only; no learner's computation touches another's
// state.
func (e *Estimator) EstimateBatch(bank *calibration.Bank, requests []LearnerRequest) []BatchResult {
	results := make([]BatchResult, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req LearnerRequest) {
			defer wg.Done()
			result, err := e.EstimateByTopic(bank, req.Responses, req.Topics)
			if err != nil {
				results[i] = BatchResult{LearnerID: req.LearnerID, Error: appErrorOf(err)}
				return
			}
			results[i] = BatchResult{LearnerID: req.LearnerID, Result: &result}
		}(i, req)
	}
	wg.Wait()

	return results
}

func appErrorOf(err error) *apperrors.AppError {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr
	}
	return apperrors.HandleError(err, "")
}
