// Command examclient demonstrates fetching a prospective exam's item
// composition from an external assembly endpoint and running the passing
// probability engine locally against it, without round-tripping through
// this repo's own HTTP surface.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/manhnguyen41/Adaptive-Learning/internal/examprob"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

// examCompositionResponse is the shape expected from the assembly endpoint:
// a learner's current ability estimate plus the items a prospective exam
// would draw from.
type examCompositionResponse struct {
	Theta float64           `json:"theta"`
	Items []models.ExamItem `json:"items"`
}

func main() {
	url := flag.String("url", "", "exam composition endpoint, e.g. https://assembly.example/exams/123")
	threshold := flag.Float64("threshold", 0.6, "passing threshold as a fraction of items correct")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	if *url == "" {
		log.Fatal("ERROR: -url is required")
	}

	client := resty.New().SetTimeout(*timeout)

	var composition examCompositionResponse
	resp, err := client.R().SetResult(&composition).Get(*url)
	if err != nil {
		log.Fatalf("ERROR: failed to fetch exam composition from %s: %v", *url, err)
	}
	if resp.IsError() {
		log.Fatalf("ERROR: assembly endpoint returned %s", resp.Status())
	}

	spec := models.ExamSpec{Items: composition.Items, Threshold: *threshold}
	result, err := examprob.New().PassingProbability(composition.Theta, spec)
	if err != nil {
		log.Fatalf("ERROR: passing probability computation failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("ERROR: failed to encode result: %v", err)
	}
	log.Println(string(out))
}
