package api

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/manhnguyen41/Adaptive-Learning/internal/ability"
	"github.com/manhnguyen41/Adaptive-Learning/internal/apperrors"
	"github.com/manhnguyen41/Adaptive-Learning/internal/calibration"
	"github.com/manhnguyen41/Adaptive-Learning/internal/confidence"
	"github.com/manhnguyen41/Adaptive-Learning/internal/examprob"
	"github.com/manhnguyen41/Adaptive-Learning/internal/metrics"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

// BankSource exposes the currently published, immutable item bank. The
// server publishes a fresh *calibration.Bank atomically on every
// recalibration; handlers always read whatever bank was current when the
// request started.
type BankSource struct {
	current atomic.Pointer[calibration.Bank]
}

// NewBankSource wraps an initial bank (possibly empty).
func NewBankSource(initial *calibration.Bank) *BankSource {
	b := &BankSource{}
	if initial == nil {
		initial = &calibration.Bank{Items: map[string]models.Item{}}
	}
	b.current.Store(initial)
	return b
}

// Get returns the currently published bank.
func (b *BankSource) Get() *calibration.Bank {
	return b.current.Load()
}

// Publish atomically swaps in a newly calibrated bank.
func (b *BankSource) Publish(bank *calibration.Bank) {
	b.current.Store(bank)
}

type calibrateRequest struct {
	Responses []responseDTO `json:"responses" binding:"required"`
}

type responseDTO struct {
	LearnerID    string  `json:"learner_id" binding:"required"`
	ItemID       string  `json:"item_id" binding:"required"`
	Correct      bool    `json:"correct"`
	ResponseTime float64 `json:"response_time"`
}

func calibrateHandler(banks *BankSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req calibrateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondAppError(c, apperrors.New(apperrors.MalformedRecord, err.Error()))
			return
		}

		responses := make([]models.Response, 0, len(req.Responses))
		for _, r := range req.Responses {
			responses = append(responses, models.Response{
				LearnerID: r.LearnerID, ItemID: r.ItemID, Correct: r.Correct, ResponseTime: r.ResponseTime,
			})
		}

		bank := calibration.CalibrateBank(responses)
		metrics.CalibrationDroppedRecords.Add(float64(bank.DroppedRecords))
		metrics.CalibrationsTotal.Inc()
		banks.Publish(bank)

		RespondSuccess(c, gin.H{"item_count": len(bank.Items), "dropped_records": bank.DroppedRecords})
	}
}

type learnerResponseDTO struct {
	ItemID  string `json:"item_id" binding:"required"`
	Correct bool   `json:"correct"`
}

type abilityRequest struct {
	LearnerID string               `json:"learner_id" binding:"required"`
	Responses []learnerResponseDTO `json:"responses" binding:"required"`
}

func toLearnerResponses(dtos []learnerResponseDTO) []models.LearnerResponse {
	out := make([]models.LearnerResponse, len(dtos))
	for i, d := range dtos {
		out[i] = models.LearnerResponse{ItemID: d.ItemID, Correct: d.Correct}
	}
	return out
}

func abilityHandler(banks *BankSource, estimator *ability.Estimator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req abilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondAppError(c, apperrors.New(apperrors.MalformedRecord, err.Error()))
			return
		}

		estimate, err := estimator.Estimate(banks.Get(), toLearnerResponses(req.Responses))
		if err != nil {
			appErr := appErrorOf(err)
			metrics.AbilityEstimatesTotal.WithLabelValues(string(appErr.Kind)).Inc()
			RespondAppError(c, appErr)
			return
		}

		metrics.AbilityEstimatesTotal.WithLabelValues("ok").Inc()
		RespondSuccess(c, estimate)
	}
}

type abilityByTopicRequest struct {
	LearnerID string                             `json:"learner_id" binding:"required"`
	Responses []learnerResponseDTO               `json:"responses" binding:"required"`
	Topics    map[string]models.TopicAssignment  `json:"topics"`
}

func abilityByTopicHandler(banks *BankSource, estimator *ability.Estimator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req abilityByTopicRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondAppError(c, apperrors.New(apperrors.MalformedRecord, err.Error()))
			return
		}

		result, err := estimator.EstimateByTopic(banks.Get(), toLearnerResponses(req.Responses), req.Topics)
		if err != nil {
			appErr := appErrorOf(err)
			metrics.AbilityEstimatesTotal.WithLabelValues(string(appErr.Kind)).Inc()
			RespondAppError(c, appErr)
			return
		}

		metrics.AbilityEstimatesTotal.WithLabelValues("ok").Inc()
		RespondSuccess(c, result)
	}
}

type abilityBatchLearnerDTO struct {
	LearnerID string                             `json:"learner_id" binding:"required"`
	Responses []learnerResponseDTO               `json:"responses"`
	Topics    map[string]models.TopicAssignment  `json:"topics"`
}

type abilityBatchRequest struct {
	Learners []abilityBatchLearnerDTO `json:"learners" binding:"required"`
}

// abilityBatchHandler dispatches one EstimateByTopic call per learner
// concurrently and never fails the request as a whole: a per-learner
// failure is reported in-band in that learner's slot, preserving the input
// order of learner identifiers.
func abilityBatchHandler(banks *BankSource, estimator *ability.Estimator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req abilityBatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondAppError(c, apperrors.New(apperrors.MalformedRecord, err.Error()))
			return
		}

		requests := make([]ability.LearnerRequest, len(req.Learners))
		for i, l := range req.Learners {
			requests[i] = ability.LearnerRequest{
				LearnerID: l.LearnerID,
				Responses: toLearnerResponses(l.Responses),
				Topics:    l.Topics,
			}
		}

		results := estimator.EstimateBatch(banks.Get(), requests)
		for _, r := range results {
			kind := "ok"
			if r.Error != nil {
				kind = string(r.Error.Kind)
			}
			metrics.AbilityEstimatesTotal.WithLabelValues(kind).Inc()
		}

		RespondSuccess(c, gin.H{"learners": results})
	}
}

type examItemDTO struct {
	ID string  `json:"id"`
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	C  float64 `json:"c"`
}

type passingProbabilityRequest struct {
	Theta     float64       `json:"theta"`
	Items     []examItemDTO `json:"items" binding:"required"`
	Threshold float64       `json:"threshold"`
}

func passingProbabilityHandler(engine *examprob.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req passingProbabilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondAppError(c, apperrors.New(apperrors.MalformedRecord, err.Error()))
			return
		}

		items := make([]models.ExamItem, len(req.Items))
		for i, it := range req.Items {
			items[i] = models.ExamItem{ID: it.ID, A: it.A, B: it.B, C: it.C}
		}

		result, err := engine.PassingProbability(req.Theta, models.ExamSpec{Items: items, Threshold: req.Threshold})
		path := "exact"
		if err == nil && !result.ExactPath {
			path = "approx"
		}
		if err != nil {
			appErr := appErrorOf(err)
			metrics.PassingProbabilityRequestsTotal.WithLabelValues(string(appErr.Kind), path).Inc()
			RespondAppError(c, appErr)
			return
		}
		metrics.PassingProbabilityRequestsTotal.WithLabelValues("ok", path).Inc()

		// A nominal ability confidence of 1.0 is used here because this
		// handler accepts theta directly rather than a fresh ability
		// estimate; callers who have an ability.Estimate should pass its
		// Confidence through a future request field if they need the
		// aggregator's full blend.
		result.Confidence = confidence.Aggregate(1.0, result.ItemProbabilities)

		RespondSuccess(c, result)
	}
}

func appErrorOf(err error) *apperrors.AppError {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr
	}
	return apperrors.HandleError(err, "")
}
