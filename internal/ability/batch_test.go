package ability

import (
	"testing"

	"github.com/manhnguyen41/Adaptive-Learning/internal/apperrors"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateBatch_PreservesOrderAndIsolatesFailures(t *testing.T) {
	bank := bankWith(defaultItem("q1", 0))
	e := New()

	requests := []LearnerRequest{
		{LearnerID: "learner-a", Responses: []models.LearnerResponse{{ItemID: "q1", Correct: true}}},
		{LearnerID: "learner-b", Responses: nil}, // triggers NoResponses
		{LearnerID: "learner-c", Responses: []models.LearnerResponse{{ItemID: "q1", Correct: false}}},
	}

	results := e.EstimateBatch(bank, requests)
	require.Len(t, results, 3)

	assert.Equal(t, "learner-a", results[0].LearnerID)
	require.NotNil(t, results[0].Result)
	assert.Nil(t, results[0].Error)

	assert.Equal(t, "learner-b", results[1].LearnerID)
	assert.Nil(t, results[1].Result)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, apperrors.NoResponses, results[1].Error.Kind)

	assert.Equal(t, "learner-c", results[2].LearnerID)
	require.NotNil(t, results[2].Result)
	assert.Nil(t, results[2].Error)
}

func TestEstimateBatch_UnknownItemIsolatedPerLearner(t *testing.T) {
	bank := bankWith(defaultItem("q1", 0))
	e := New()

	requests := []LearnerRequest{
		{LearnerID: "learner-a", Responses: []models.LearnerResponse{{ItemID: "q1", Correct: true}}},
		{LearnerID: "learner-b", Responses: []models.LearnerResponse{{ItemID: "not-in-bank", Correct: true}}},
	}

	results := e.EstimateBatch(bank, requests)
	require.Len(t, results, 2)
	assert.Nil(t, results[0].Error)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, apperrors.UnknownItem, results[1].Error.Kind)
	// learner-a's success is unaffected by learner-b's failure.
	require.NotNil(t, results[0].Result)
}
