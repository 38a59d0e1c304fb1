package examprob

import (
	"math"
	"testing"

	"github.com/manhnguyen41/Adaptive-Learning/internal/apperrors"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformItems(n int, a, b, c float64) []models.ExamItem {
	items := make([]models.ExamItem, n)
	for i := range items {
		items[i] = models.ExamItem{ID: "q", A: a, B: b, C: c}
	}
	return items
}

func TestPassingProbability_EmptyExam(t *testing.T) {
	e := New()
	_, err := e.PassingProbability(0, models.ExamSpec{Threshold: 0.5})
	require.Error(t, err)
	appErr := err.(*apperrors.AppError)
	assert.Equal(t, apperrors.EmptyExam, appErr.Kind)
}

func TestPassingProbability_InvalidThreshold(t *testing.T) {
	e := New()
	_, err := e.PassingProbability(0, models.ExamSpec{Items: uniformItems(5, 1, 0, 0.25), Threshold: 0})
	require.Error(t, err)
	assert.Equal(t, apperrors.InvalidThreshold, err.(*apperrors.AppError).Kind)

	_, err = e.PassingProbability(0, models.ExamSpec{Items: uniformItems(5, 1, 0, 0.25), Threshold: 1.5})
	require.Error(t, err)
	assert.Equal(t, apperrors.InvalidThreshold, err.(*apperrors.AppError).Kind)
}

// TestPassingProbability_ExactScenario covers a concrete worked example:
// N=10, all P_i=0.6, tau=0.7, k*=7 -> pass_prob ~= 38.23%, expected_score=60%.
func TestPassingProbability_ExactScenario(t *testing.T) {
	// theta and item params chosen so P(theta) = 0.6 exactly: solve
	// c + (1-c)*logistic(a*(theta-b)) = 0.6 with c=0, a=1, b=0.
	theta := math.Log(0.6 / 0.4) // logistic(theta) = 0.6
	items := uniformItems(10, 1, 0, 0)

	e := New()
	result, err := e.PassingProbability(theta, models.ExamSpec{Items: items, Threshold: 0.7})
	require.NoError(t, err)

	assert.True(t, result.ExactPath)
	assert.Equal(t, 7, result.MinCorrect)
	assert.InDelta(t, 38.23, result.PassProbability, 0.1)
	assert.InDelta(t, 60.0, result.ExpectedScore, 1e-6)
}

// TestPassingProbability_NormalScenario covers a concrete worked example:
// N=100, all P_i=0.7, tau=0.7 -> pass_prob ~= 54.3%.
func TestPassingProbability_NormalScenario(t *testing.T) {
	theta := math.Log(0.7 / 0.3)
	items := uniformItems(100, 1, 0, 0)

	e := New()
	result, err := e.PassingProbability(theta, models.ExamSpec{Items: items, Threshold: 0.7})
	require.NoError(t, err)

	assert.False(t, result.ExactPath)
	assert.Equal(t, 70, result.MinCorrect)
	assert.InDelta(t, 54.3, result.PassProbability, 0.5)
}

func TestPassingProbability_AllOnesPassesAnyThreshold(t *testing.T) {
	e := New()
	items := uniformItems(10, 1, -30, 0) // theta far above b, P rounds to 1
	for _, tau := range []float64{0.1, 0.5, 1.0} {
		result, err := e.PassingProbability(10, models.ExamSpec{Items: items, Threshold: tau})
		require.NoError(t, err)
		assert.InDelta(t, 100.0, result.PassProbability, 1e-6)
	}
}

func TestPassingProbability_AllZerosFailsAnyThreshold(t *testing.T) {
	e := New()
	items := uniformItems(10, 1, 30, 0) // theta far below b, P below 1e-17
	for _, tau := range []float64{0.1, 0.5, 1.0} {
		result, err := e.PassingProbability(-10, models.ExamSpec{Items: items, Threshold: tau})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, result.PassProbability, 1e-6)
	}
}

func TestPassingProbability_BoundsHold(t *testing.T) {
	e := New()
	items := []models.ExamItem{
		{ID: "a", A: 1.2, B: -0.5, C: 0.2},
		{ID: "b", A: 0.8, B: 1.0, C: 0.25},
		{ID: "c", A: 1.5, B: 0.0, C: 0.1},
	}
	result, err := e.PassingProbability(0.3, models.ExamSpec{Items: items, Threshold: 0.6})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.PassProbability, 0.0)
	assert.LessOrEqual(t, result.PassProbability, 100.0)
	assert.GreaterOrEqual(t, result.ExpectedScore, 0.0)
	assert.LessOrEqual(t, result.ExpectedScore, 100.0)
}

// TestPoissonBinomialTail_SumsToOne checks that for N<=30 the exact
// DP's PMF sums to 1.0 within 1e-9.
func TestPoissonBinomialTail_SumsToOne(t *testing.T) {
	probs := []float64{0.1, 0.9, 0.5, 0.3, 0.7, 0.2, 0.8}
	n := len(probs)
	f := make([]float64, n+1)
	f[0] = 1
	for _, p := range probs {
		for k := n; k >= 0; k-- {
			prevK := 0.0
			if k > 0 {
				prevK = f[k-1]
			}
			f[k] = f[k]*(1-p) + prevK*p
		}
	}
	var sum float64
	for _, v := range f {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

// TestExactAndApproximateAgree checks that exact DP and normal
// approximation agree within 2 percentage points at N=30 for P_i in
// [0.2, 0.8] (here a representative fixed grid rather than a random draw,
// since the engine itself must stay deterministic under test).
func TestExactAndApproximateAgree(t *testing.T) {
	n := 30
	probs := make([]float64, n)
	for i := range probs {
		probs[i] = 0.2 + 0.6*float64(i)/float64(n-1)
	}
	kStar := 15

	exact := poissonBinomialTail(probs, kStar) * 100
	approx := normalApproxTail(probs, kStar) * 100

	assert.InDelta(t, exact, approx, 2.0)
}
