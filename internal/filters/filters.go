// Package filters provides the numeric primitives shared by every stage of
// the fusion pipeline: clamping, exponential smoothing, z-score, weighted
// smoothing and a normalized short-window trend slope. All functions are
// read-only with respect to the history they receive; callers own mutation.
package filters

import "math"

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EMA blends v against the last history sample. With an empty history the
// sample is returned unchanged. alpha in (0,1]; higher alpha trusts the new
// sample more.
func EMA(v, alpha float64, h *History) float64 {
	if h == nil || h.Len() == 0 {
		return v
	}
	return alpha*v + (1-alpha)*h.Last()
}

// ZScore returns how many population standard deviations v sits away from
// the history mean. Fewer than two samples, or a flat series, yields 0.
func ZScore(v float64, h *History) float64 {
	if h == nil || h.Len() < 2 {
		return 0
	}
	n := float64(h.Len())
	var sum float64
	for i := 0; i < h.Len(); i++ {
		sum += h.At(i)
	}
	mean := sum / n
	var variance float64
	for i := 0; i < h.Len(); i++ {
		d := h.At(i) - mean
		variance += d * d
	}
	variance /= n
	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return (v - mean) / std
}

// Smooth blends v with the average of the three most recent history samples.
// With fewer than three samples the value passes through unchanged.
func Smooth(v float64, h *History) float64 {
	if h == nil || h.Len() < 3 {
		return v
	}
	n := h.Len()
	avg := (h.At(n-1) + h.At(n-2) + h.At(n-3)) / 3
	return 0.6*v + 0.4*avg
}

// Trend returns a normalized slope over the five most recent samples,
// clamped to [-1, 1]. Fewer than five samples yields 0.
func Trend(h *History) float64 {
	if h == nil || h.Len() < 5 {
		return 0
	}
	n := h.Len()
	slope := (h.At(n-1) - h.At(n-5)) / 4 / 10
	return Clamp(slope, -1, 1)
}
