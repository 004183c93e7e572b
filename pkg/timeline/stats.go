package timeline

import "math"

// Statistics helpers shared by the detectors. Variance and standard deviation
// use the sample (n-1) form. Degenerate inputs (fewer than two points, zero
// variance) resolve to 0 rather than NaN.

func meanValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := meanValues(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values)-1)
}

func sampleStdDev(values []float64) float64 {
	return math.Sqrt(sampleVariance(values))
}

// linearSlope fits an ordinary least-squares line y = a + b*x and returns b.
// Returns 0 when the x values have no spread.
func linearSlope(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// pearsonCorrelation returns the Pearson r between xs and ys, or 0 when
// undefined (mismatched lengths, fewer than two points, zero variance).
func pearsonCorrelation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	meanX := meanValues(xs)
	meanY := meanValues(ys)
	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
