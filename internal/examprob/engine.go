// Package examprob implements the exam passing-probability engine:
// given an ability estimate and an exam specification, it computes the
// distribution of the total correct count and the probability of meeting a
// passing threshold, using an exact Poisson-binomial DP for small exams and
// a normal approximation with continuity correction for large ones.
package examprob

import (
	"math"

	"github.com/manhnguyen41/Adaptive-Learning/internal/apperrors"
	"github.com/manhnguyen41/Adaptive-Learning/internal/mathutil"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

// ExactDPThreshold is the exam size N above which the engine switches from
// the exact Poisson-binomial DP to the normal approximation.
const ExactDPThreshold = 30

// Engine computes passing probabilities. The zero value is ready to use.
type Engine struct {
	ExactDPThreshold int
}

// New returns an Engine configured with the default exact/approximate
// cutover.
func New() *Engine {
	return &Engine{ExactDPThreshold: ExactDPThreshold}
}

// PassingProbability computes the per-item probabilities under theta, the
// exact-or-approximate Poisson-binomial tail at the exam's passing
// threshold, and the derived expected-score outputs. Returns
// *apperrors.AppError of kind EmptyExam or InvalidThreshold on invalid
// input.
func (e *Engine) PassingProbability(theta float64, spec models.ExamSpec) (models.ExamResult, error) {
	n := len(spec.Items)
	if n == 0 {
		return models.ExamResult{}, apperrors.New(apperrors.EmptyExam, "exam specification has zero items")
	}
	if spec.Threshold <= 0 || spec.Threshold > 1 {
		return models.ExamResult{}, apperrors.Newf(apperrors.InvalidThreshold, "threshold %v is not in (0, 1]", spec.Threshold)
	}

	probs := make([]float64, n)
	itemProbs := make([]models.ItemProbability, n)
	var expectedCorrect float64
	for i, it := range spec.Items {
		p := it.C + (1-it.C)*mathutil.Logistic(it.A*(theta-it.B))
		probs[i] = p
		itemProbs[i] = models.ItemProbability{ItemID: it.ID, Probability: p}
		expectedCorrect += p
	}

	kStar := int(math.Ceil(spec.Threshold * float64(n)))

	threshold := e.ExactDPThreshold
	if threshold == 0 {
		threshold = ExactDPThreshold
	}

	var passProb float64
	exact := n <= threshold
	if exact {
		passProb = poissonBinomialTail(probs, kStar)
	} else {
		passProb = normalApproxTail(probs, kStar)
	}

	return models.ExamResult{
		PassProbability:   passProb * 100,
		ExpectedScore:     100 * expectedCorrect / float64(n),
		ExpectedCorrect:   expectedCorrect,
		ItemProbabilities: itemProbs,
		MinCorrect:        kStar,
		ExactPath:         exact,
	}, nil
}

// poissonBinomialTail computes Pr[X >= kStar] via the standard 1-D DP
// §4.3's exact path.
func poissonBinomialTail(probs []float64, kStar int) float64 {
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

	var tail float64
	for k := kStar; k <= n; k++ {
		if k < 0 {
			continue
		}
		tail += f[k]
	}
	return tail
}

// normalApproxTail computes the continuity-corrected normal approximation
// to Pr[X >= kStar] for the approximate path.
func normalApproxTail(probs []float64, kStar int) float64 {
	var mu, variance float64
	for _, p := range probs {
		mu += p
		variance += p * (1 - p)
	}
	if variance == 0 {
		if mu >= float64(kStar) {
			return 1.0
		}
		return 0.0
	}
	z := (float64(kStar) - 0.5 - mu) / math.Sqrt(variance)
	return 1 - mathutil.NormalCDF(z)
}
