package ability

import (
	"github.com/manhnguyen41/Adaptive-Learning/internal/apperrors"
	"github.com/manhnguyen41/Adaptive-Learning/internal/calibration"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

// ByTopicResult is the output of EstimateByTopic: the overall estimate plus
// per-topic estimates, keyed by topic identifier. Topics with zero
// responses are omitted.
type ByTopicResult struct {
	Overall    models.AbilityEstimate            `json:"overall"`
	MainTopics map[string]models.AbilityEstimate `json:"main_topic_abilities"`
	SubTopics  map[string]models.AbilityEstimate `json:"sub_topic_abilities"`
}

// EstimateByTopic computes the overall ability estimate and, by invoking
// Estimate once per topic partition, the per-main-topic and per-sub-topic
// estimates. topics maps an item ID to its topic assignment; items absent
// from topics contribute only to the overall estimate.
func (e *Estimator) EstimateByTopic(
	bank *calibration.Bank,
	responses []models.LearnerResponse,
	topics map[string]models.TopicAssignment,
) (ByTopicResult, error) {
	overall, err := e.Estimate(bank, responses)
	if err != nil {
		return ByTopicResult{}, err
	}

	mainGroups := make(map[string][]models.LearnerResponse)
	subGroups := make(map[string][]models.LearnerResponse)
	for _, r := range responses {
		assignment, ok := topics[r.ItemID]
		if !ok {
			continue
		}
		if assignment.MainTopic != "" {
			mainGroups[assignment.MainTopic] = append(mainGroups[assignment.MainTopic], r)
		}
		if assignment.SubTopic != "" {
			subGroups[assignment.SubTopic] = append(subGroups[assignment.SubTopic], r)
		}
	}

	mainEstimates, err := e.estimateGroups(bank, mainGroups)
	if err != nil {
		return ByTopicResult{}, err
	}
	subEstimates, err := e.estimateGroups(bank, subGroups)
	if err != nil {
		return ByTopicResult{}, err
	}

	return ByTopicResult{Overall: overall, MainTopics: mainEstimates, SubTopics: subEstimates}, nil
}

func (e *Estimator) estimateGroups(bank *calibration.Bank, groups map[string][]models.LearnerResponse) (map[string]models.AbilityEstimate, error) {
	out := make(map[string]models.AbilityEstimate, len(groups))
	for topic, group := range groups {
		if len(group) == 0 {
			continue
		}
		estimate, err := e.Estimate(bank, group)
		if err != nil {
			if appErr, ok := err.(*apperrors.AppError); ok && appErr.Kind == apperrors.NoResponses {
				continue
			}
			return nil, err
		}
		out[topic] = estimate
	}
	return out, nil
}
