// Package rank holds the pure scoring functions that fuse vector
// similarity with accumulated relevance feedback.
package rank

import "math"

// Strategy selects the boost formula applied during reranking.
type Strategy string

// Boost strategy constants.
const (
	// Log applies diminishing returns: early feedback matters most.
	// The default strategy.
	Log Strategy = "log"
	// Linear applies an unbounded additive boost. The most aggressive
	// variant: at high accumulated feedback it can outrank pure
	// similarity entirely. Kept uncapped on purpose for experimentation.
	Linear Strategy = "linear"
	// Sigmoid applies a bounded boost approaching a hard ceiling
	// multiplier as feedback grows.
	Sigmoid Strategy = "sigmoid"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	_, ok := boosts[s]
	return ok
}

// Params holds the tunable constants of the boost formulas.
type Params struct {
	// Alpha scales the log boost term.
	Alpha float64
	// Beta scales the linear boost term.
	Beta float64
	// Gamma is the sigmoid ceiling multiplier.
	Gamma float64
	// HalfSaturation is the feedback total at which the sigmoid boost
	// reaches half of its ceiling.
	HalfSaturation int64
}

// DefaultParams returns the stock boost constants.
func DefaultParams() Params {
	return Params{
		Alpha:          0.05,
		Beta:           0.001,
		Gamma:          0.5,
		HalfSaturation: 50,
	}
}

type boostFunc func(p Params, similarity float64, safeFeedback int64) float64

// Dispatch table over the closed variant set. Unknown tags fall through
// to unboosted similarity in Boost.
var boosts = map[Strategy]boostFunc{
	Log: func(p Params, sim float64, safe int64) float64 {
		return sim * (1 + p.Alpha*math.Log(1+float64(safe)))
	},
	Linear: func(p Params, sim float64, safe int64) float64 {
		return sim + p.Beta*float64(safe)
	},
	Sigmoid: func(p Params, sim float64, safe int64) float64 {
		denom := float64(safe + p.HalfSaturation)
		if denom == 0 {
			return sim
		}
		return sim * (1 + p.Gamma*(float64(safe)/denom))
	},
}

// Boost fuses similarity and the aggregate feedback total into the
// adjusted score. Negative totals are clamped to zero first: feedback can
// raise a document or leave it unchanged, never push it below its pure
// similarity. Unrecognized strategies return the similarity unchanged.
func (s Strategy) Boost(p Params, similarity float64, feedbackTotal int64) float64 {
	safe := feedbackTotal
	if safe < 0 {
		safe = 0
	}

	fn, ok := boosts[s]
	if !ok {
		return similarity
	}
	return fn(p, similarity, safe)
}
