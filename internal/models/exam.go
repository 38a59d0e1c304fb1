package models

// ExamItem is an item as it participates in a prospective exam: just the
// three IRT parameters the probability engine needs.
type ExamItem struct {
	ID string  `json:"id"`
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	C  float64 `json:"c"`
}

// ExamSpec is the input to the exam probability engine: an ordered sequence
// of items and a passing threshold expressed as a fraction of items correct.
type ExamSpec struct {
	Items     []ExamItem
	Threshold float64 // tau, in (0, 1]
}

// ItemProbability pairs an exam item with its computed P(theta) under the
// 3PL model, returned so callers can inspect per-item detail.
type ItemProbability struct {
	ItemID      string  `json:"item_id"`
	Probability float64 `json:"probability"`
}

// ExamResult is the output of the exam probability engine.
type ExamResult struct {
	PassProbability   float64           `json:"pass_probability"`
	ExpectedScore     float64           `json:"expected_score"`
	ExpectedCorrect   float64           `json:"expected_correct"`
	Confidence        float64           `json:"confidence"`
	ItemProbabilities []ItemProbability `json:"item_probabilities"`
	MinCorrect        int               `json:"min_correct"`
	ExactPath         bool              `json:"exact_path"`
}
