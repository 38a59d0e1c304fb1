package models

// AbilityEstimate is the output of the ability estimator for one learner
// (overall, or for one topic partition): a point MLE of theta, its standard
// error, a derived confidence in (0, 1], and the number of responses the
// estimate was computed from.
type AbilityEstimate struct {
	Theta        float64 `json:"theta"`
	SE           float64 `json:"se"`
	Confidence   float64 `json:"confidence"`
	NumResponses int     `json:"num_responses"`
}
