// Package znorm implements z-normalization of response values against a
// reference distribution.
package znorm

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/happyhackingspace/corpusfold/errs"
)

// minStdDev is the smallest standard deviation accepted as a divisor.
const minStdDev = 1e-12

// ZNormalizer maps x to (x - mean) / stdDev. It is immutable once built and
// safe to share between goroutines.
type ZNormalizer struct {
	mean   float64
	stdDev float64
}

// New computes the mean and sample standard deviation of reference. Fewer
// than two values or a (near-)zero standard deviation is a configuration
// error.
func New(reference []float64) (ZNormalizer, error) {
	if len(reference) < 2 {
		return ZNormalizer{}, errs.Configf("z-normalization needs at least 2 reference values, got %d", len(reference))
	}
	mean, std := stat.MeanStdDev(reference, nil)
	if math.IsNaN(mean) || math.IsInf(mean, 0) || math.IsNaN(std) || math.IsInf(std, 0) {
		return ZNormalizer{}, errs.Configf("z-normalization reference has non-finite statistics (mean %v, std %v)", mean, std)
	}
	if std < minStdDev {
		return ZNormalizer{}, errs.Configf("z-normalization reference has zero variance (mean %v)", mean)
	}
	return ZNormalizer{mean: mean, stdDev: std}, nil
}

// Mean returns the reference mean.
func (z ZNormalizer) Mean() float64 { return z.mean }

// StdDev returns the reference sample standard deviation.
func (z ZNormalizer) StdDev() float64 { return z.stdDev }

// Normalize returns (x - mean) / stdDev.
func (z ZNormalizer) Normalize(x float64) float64 {
	return (x - z.mean) / z.stdDev
}

// Denormalize is the inverse of Normalize.
func (z ZNormalizer) Denormalize(v float64) float64 {
	return v*z.stdDev + z.mean
}

// NormalizeAll returns a new slice with every value normalized. A nil input
// yields nil.
func (z ZNormalizer) NormalizeAll(xs []float64) []float64 {
	if xs == nil {
		return nil
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = z.Normalize(x)
	}
	return out
}

// Splits normalizes train, dev and test with statistics of train only.
// dev and test may be nil.
func Splits(train, dev, test []float64) ([3][]float64, ZNormalizer, error) {
	z, err := New(train)
	if err != nil {
		return [3][]float64{}, ZNormalizer{}, err
	}
	return [3][]float64{z.NormalizeAll(train), z.NormalizeAll(dev), z.NormalizeAll(test)}, z, nil
}
