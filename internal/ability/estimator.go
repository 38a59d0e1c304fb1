// Package ability implements the ability estimator: a
// maximum-likelihood estimate of learner ability theta under the 3PL model,
// found by Newton-Raphson, with a closed-form standard error and a derived
// confidence score.
package ability

import (
	"log"
	"math"

	"github.com/manhnguyen41/Adaptive-Learning/internal/apperrors"
	"github.com/manhnguyen41/Adaptive-Learning/internal/calibration"
	"github.com/manhnguyen41/Adaptive-Learning/internal/mathutil"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

// Default iteration and stability constants.
const (
	DefaultMaxIter   = 10
	DefaultTolerance = 1e-3
	infoEpsilon      = 1e-6 // floor on I(theta) to avoid division by zero
	probDelta        = 1e-9 // nudge distance from the [c, 1] boundary
)

// Estimator computes point MLE ability estimates. The zero value is not
// usable; build one with New.
type Estimator struct {
	MaxIter   int
	Tolerance float64
}

// New returns an Estimator configured with the spec's default bounds.
func New() *Estimator {
	return &Estimator{MaxIter: DefaultMaxIter, Tolerance: DefaultTolerance}
}

// resolvedItem bundles a response with the calibrated item it was scored
// against, resolved once up front so the Newton-Raphson loop never touches
// the bank again.
type resolvedItem struct {
	a, b, c float64
	u       float64 // 1 if correct, 0 otherwise
}

// Estimate computes the ability estimate for one set of responses against
// bank. Returns *apperrors.AppError of kind NoResponses, UnknownItem, or
// NumericInstability on failure.
func (e *Estimator) Estimate(bank *calibration.Bank, responses []models.LearnerResponse) (models.AbilityEstimate, error) {
	if len(responses) == 0 {
		return models.AbilityEstimate{}, apperrors.New(apperrors.NoResponses, "learner has no responses for the requested scope")
	}

	resolved := make([]resolvedItem, 0, len(responses))
	for _, r := range responses {
		item, ok := bank.Get(r.ItemID)
		if !ok {
			return models.AbilityEstimate{}, apperrors.Newf(apperrors.UnknownItem, "item %q is not in the calibrated bank", r.ItemID)
		}
		u := 0.0
		if r.Correct {
			u = 1.0
		}
		resolved = append(resolved, resolvedItem{a: item.A, b: item.B, c: item.C, u: u})
	}

	theta, info, err := e.newtonRaphson(resolved)
	if err != nil {
		return models.AbilityEstimate{}, err
	}

	se := 1 / math.Sqrt(math.Max(info, infoEpsilon))
	confidence := 1 / (1 + se)

	return models.AbilityEstimate{
		Theta:        theta,
		SE:           se,
		Confidence:   confidence,
		NumResponses: len(responses),
	}, nil
}

// newtonRaphson runs the Newton-Raphson iteration, restarting once from
// theta=0 if it hits a non-finite value, and failing with
// NumericInstability if it still cannot recover.
func (e *Estimator) newtonRaphson(items []resolvedItem) (theta float64, info float64, err error) {
	theta, info, ok := e.runIterations(items, 0)
	if ok {
		return theta, info, nil
	}

	log.Printf("[ABILITY] non-finite value encountered, restarting from theta=0")
	theta, info, ok = e.runIterations(items, 0)
	if !ok {
		return 0, 0, apperrors.New(apperrors.NumericInstability, "Newton-Raphson produced non-finite values twice")
	}
	return theta, info, nil
}

// runIterations performs up to MaxIter Newton-Raphson steps starting from
// theta0. ok is false if a non-finite score, information, or theta was
// produced at any point.
func (e *Estimator) runIterations(items []resolvedItem, theta0 float64) (theta float64, info float64, ok bool) {
	theta = theta0
	for i := 0; i < e.MaxIter; i++ {
		score, information := scoreAndInformation(items, theta)
		if !finite(score) || !finite(information) {
			return 0, 0, false
		}

		step := score / math.Max(information, infoEpsilon)
		next := theta + step
		if !finite(next) {
			return 0, 0, false
		}
		next = models.Clamp(next, models.AbilityClip)

		converged := math.Abs(next-theta) < e.Tolerance
		theta = next
		if converged {
			_, information = scoreAndInformation(items, theta)
			return theta, information, finite(information)
		}
	}
	_, information := scoreAndInformation(items, theta)
	return theta, information, finite(information)
}

// scoreAndInformation computes l'(theta) and I(theta) for the 3PL model,
// per the closed-form 3PL score and information expressions.
func scoreAndInformation(items []resolvedItem, theta float64) (score, info float64) {
	for _, it := range items {
		p := threePL(theta, it.a, it.b, it.c)
		p = nudgeAwayFromBoundary(p, it.c)

		score += it.a * (it.u - p) * (p - it.c) / (p * (1 - it.c))
		info += it.a * it.a * (p-it.c)*(p-it.c) * (1 - p) / ((1 - it.c) * (1 - it.c) * p)
	}
	return score, info
}

// threePL evaluates P(theta; a, b, c) = c + (1-c) * logistic(a*(theta-b)).
func threePL(theta, a, b, c float64) float64 {
	return c + (1-c)*mathutil.Logistic(a*(theta-b))
}

// nudgeAwayFromBoundary keeps p strictly inside (c, 1) by probDelta, to
// avoid division-by-zero / log singularities in the score and information
// formulas.
func nudgeAwayFromBoundary(p, c float64) float64 {
	lo := c + probDelta
	hi := 1 - probDelta
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
