package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

// responseRecord mirrors the on-disk JSON shape of one response-history
// entry.
type responseRecord struct {
	LearnerID    string  `json:"learner_id"`
	ItemID       string  `json:"item_id"`
	Correct      bool    `json:"correct"`
	ResponseTime float64 `json:"response_time"`
}

// topicRecord mirrors one entry of the item/topic mapping file.
type topicRecord struct {
	ItemID    string `json:"item_id"`
	MainTopic string `json:"main_topic"`
	SubTopic  string `json:"sub_topic,omitempty"`
}

// LoadResponseHistory reads the JSON array of response records at path.
// Malformed entries (missing identifiers or a negative response time) are
// dropped and counted rather
// than failing the whole load, matching the calibrator's own tolerance for
// bad input.
func LoadResponseHistory(path string) ([]models.Response, int, error) {
	var records []responseRecord
	if err := readJSONFile(path, &records); err != nil {
		return nil, 0, fmt.Errorf("loading response history %q: %w", path, err)
	}

	responses := make([]models.Response, 0, len(records))
	dropped := 0
	for _, r := range records {
		if r.LearnerID == "" || r.ItemID == "" || r.ResponseTime < 0 {
			dropped++
			continue
		}
		responses = append(responses, models.Response{
			LearnerID:    r.LearnerID,
			ItemID:       r.ItemID,
			Correct:      r.Correct,
			ResponseTime: r.ResponseTime,
		})
	}
	if dropped > 0 {
		log.Printf("[LOADER] dropped %d malformed response record(s) from %s", dropped, path)
	}
	return responses, dropped, nil
}

// LoadTopicMap reads the JSON array of item/topic entries at path into a
// lookup keyed by item ID.
func LoadTopicMap(path string) (map[string]models.TopicAssignment, error) {
	var records []topicRecord
	if err := readJSONFile(path, &records); err != nil {
		return nil, fmt.Errorf("loading item/topic map %q: %w", path, err)
	}

	out := make(map[string]models.TopicAssignment, len(records))
	for _, r := range records {
		if r.ItemID == "" || r.MainTopic == "" {
			continue
		}
		out[r.ItemID] = models.TopicAssignment{MainTopic: r.MainTopic, SubTopic: r.SubTopic}
	}
	return out, nil
}

func readJSONFile(path string, dest interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewDecoder(f).Decode(dest)
}
