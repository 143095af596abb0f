// This project is licensed under the MIT License (see LICENSE).

// Package rng is the process-wide seedable random-number service. It
// wraps a single golang.org/x/exp/rand.Rand (never more than one, per the engine's
// single-owner rule) with the convenience draws the engine and the
// chromosome's precomputed tables need, and hands the same underlying
// source to gonum's stat/distuv distributions so that a fixed seed
// produces a bit-identical draw sequence across runs.
package rng

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jcrd/slimcore/internal/apperr"
)

// Source is the engine's single PRNG. It is not safe for concurrent use;
// the generation engine owns it exclusively.
type Source struct {
	rand *rand.Rand
	seed int64

	bitBuf   uint64
	bitsLeft int
}

// New seeds a Source deterministically. A seed <= 0 is replaced with one
// derived from the process id and wall clock, matching the teacher's
// Env.Seed fallback in env.go ("if seed < 1 { e.Seed = time.Now().UnixNano() }").
func New(seed int64) *Source {
	if seed <= 0 {
		seed = deriveSeed()
	}
	return &Source{
		rand: rand.New(rand.NewSource(uint64(seed))),
		seed: seed,
	}
}

// Seed reports the seed actually in effect (after the PID/wall-clock
// fallback), so callers can record it in a population dump header.
func (s *Source) Seed() int64 {
	return s.seed
}

// UniformInt draws a uniform integer in [0,n). Panics match math/rand's own
// contract (n must be > 0); callers are expected to validate n themselves
// since a zero-length draw range is a programming error, not a runtime
// configuration error.
func (s *Source) UniformInt(n int) int {
	return s.rand.Intn(n)
}

// UniformFloat draws a uniform float64 in [0,1).
func (s *Source) UniformFloat() float64 {
	return s.rand.Float64()
}

// Exponential draws from an exponential distribution with the given mean
// (not rate). mean must be > 0.
func (s *Source) Exponential(mean float64) float64 {
	d := distuv.Exponential{Rate: 1 / mean, Src: s.rand}
	return d.Rand()
}

// Poisson draws from a Poisson distribution with the given mean. Fails
// with ConfigError if lambda is not positive.
func (s *Source) Poisson(lambda float64) (int, error) {
	if lambda <= 0 {
		return 0, apperr.New(apperr.ConfigError, "poisson draw requires a positive mean, got %g", lambda)
	}
	d := distuv.Poisson{Lambda: lambda, Src: s.rand}
	return int(math.Round(d.Rand())), nil
}

// Geometric draws the number of Bernoulli(p) failures before the first
// success, with p the per-trial success probability.
func (s *Source) Geometric(p float64) (int, error) {
	if p <= 0 || p > 1 {
		return 0, apperr.New(apperr.ConfigError, "geometric draw requires p in (0,1], got %g", p)
	}
	n := 0
	for s.rand.Float64() >= p {
		n++
	}
	return n, nil
}

// Gamma draws from a Gamma(mean, shape) distribution parameterized the way
// mutation type DFE "g" is specified: mean and shape, not alpha/beta.
func (s *Source) Gamma(mean, shape float64) (float64, error) {
	if mean == 0 || shape <= 0 {
		return 0, apperr.New(apperr.ConfigError, "gamma DFE requires shape > 0, got mean=%g shape=%g", mean, shape)
	}
	// gonum's Gamma is parameterized by Alpha (shape) and Beta (rate).
	// mean = alpha/beta => beta = alpha/mean.
	sign := 1.0
	m := mean
	if m < 0 {
		sign, m = -1, -m
	}
	d := distuv.Gamma{Alpha: shape, Beta: shape / m, Src: s.rand}
	return sign * d.Rand(), nil
}

// Normal draws from a Normal(mean, sd) distribution, DFE type "n".
func (s *Source) Normal(mean, sd float64) (float64, error) {
	if sd < 0 {
		return 0, apperr.New(apperr.ConfigError, "normal DFE requires sd >= 0, got %g", sd)
	}
	d := distuv.Normal{Mu: mean, Sigma: sd, Src: s.rand}
	return d.Rand(), nil
}

// Weibull draws from a Weibull(scale, shape) distribution, DFE type "w".
func (s *Source) Weibull(scale, shape float64) (float64, error) {
	if scale <= 0 || shape <= 0 {
		return 0, apperr.New(apperr.ConfigError, "weibull DFE requires positive scale and shape, got scale=%g shape=%g", scale, shape)
	}
	d := distuv.Weibull{Lambda: scale, K: shape, Src: s.rand}
	return d.Rand(), nil
}

// WeightedIndex draws an index into cumulative, a non-decreasing table of
// partial-sum weights whose final entry is the total weight. It fails with
// ConfigError if the table is empty or the total weight is not positive.
func (s *Source) WeightedIndex(cumulative []float64) (int, error) {
	n := len(cumulative)
	if n == 0 {
		return 0, apperr.New(apperr.ConfigError, "weighted draw requires a non-empty table")
	}
	total := cumulative[n-1]
	if total <= 0 {
		return 0, apperr.New(apperr.ConfigError, "weighted draw requires a positive total weight, got %g", total)
	}
	target := s.rand.Float64() * total
	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cumulative[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// Bernoulli consumes one bit from a 64-bit buffer, refilling it from the
// underlying source whenever it is exhausted.
func (s *Source) Bernoulli() bool {
	if s.bitsLeft == 0 {
		s.bitBuf = s.rand.Uint64()
		s.bitsLeft = 64
	}
	bit := s.bitBuf & 1
	s.bitBuf >>= 1
	s.bitsLeft--
	return bit == 1
}

// BernoulliP draws a single Bernoulli(p) trial without consuming the bit
// buffer; used wherever a non-0.5 probability is needed (gene-conversion
// promotion, selfing/cloning decisions).
func (s *Source) BernoulliP(p float64) bool {
	return s.rand.Float64() < p
}
