package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestPValue computes the two-tailed p-value of a t statistic
func TTestPValue(tStatistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 || math.IsNaN(tStatistic) {
		return 1.0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	return clampProbability(2 * (1 - tDist.CDF(math.Abs(tStatistic))))
}

// CorrelationPValue tests a correlation coefficient against zero
func CorrelationPValue(correlation float64, sampleSize int) float64 {
	if sampleSize < 3 || math.IsNaN(correlation) {
		return 1.0
	}
	if math.Abs(correlation) >= 1 {
		return 0
	}
	df := float64(sampleSize - 2)
	tStatistic := correlation * math.Sqrt(df/(1-correlation*correlation))
	return TTestPValue(tStatistic, sampleSize-2)
}

// FTestPValue computes the upper-tail p-value of an F statistic (ANOVA)
func FTestPValue(fStatistic float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(fStatistic) {
		return 1.0
	}
	if math.IsInf(fStatistic, 1) {
		return 0
	}
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return clampProbability(1 - fDist.CDF(fStatistic))
}

// ChiSquarePValue computes the upper-tail p-value of a chi-square statistic
func ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 || math.IsNaN(chiSquare) {
		return 1.0
	}
	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return clampProbability(1 - chiDist.CDF(chiSquare))
}

// KolmogorovPValue approximates the two-sample KS p-value from the asymptotic
// Kolmogorov distribution with the Stephens small-sample correction.
func KolmogorovPValue(d float64, n1, n2 int) float64 {
	if n1 == 0 || n2 == 0 || d <= 0 {
		return 1.0
	}
	ne := float64(n1*n2) / float64(n1+n2)
	sq := math.Sqrt(ne)
	lambda := (sq + 0.12 + 0.11/sq) * d

	sum := 0.0
	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := sign * math.Exp(-2*float64(j*j)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-10 {
			break
		}
		sign = -sign
	}
	return clampProbability(2 * sum)
}

// testNormality runs D'Agostino's K^2 test for n >= 8 and a conservative
// skewness/kurtosis approximation below that.
func testNormality(data []float64, skewness, excessKurtosis float64) (isNormal bool, pValue float64) {
	if len(data) < 3 {
		return false, 1.0
	}
	if len(data) >= 8 {
		return dagostinoK2Normality(float64(len(data)), skewness, excessKurtosis)
	}

	testStat := math.Abs(skewness) + math.Abs(excessKurtosis)/2
	pValue = ChiSquarePValue(testStat*testStat, 2)
	return pValue > 0.05, pValue
}

func dagostinoK2Normality(n, g1, g2excess float64) (isNormal bool, pValue float64) {
	if math.IsNaN(g1) || math.IsNaN(g2excess) {
		return false, 1.0
	}

	// Skewness transform to Z1
	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := (3 * (n*n + 27*n - 70) * (n + 1) * (n + 3)) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	if w2 <= 1 {
		return false, 1.0
	}
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))
	ay := y / alpha
	z1 := delta * math.Log(ay+math.Sqrt(ay*ay+1))

	// Kurtosis transform to Z2 (Anscombe-Glynn) on total kurtosis
	g2 := g2excess + 3
	e := 3 * (n - 1) / (n + 1)
	v := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	if v <= 0 {
		return false, 1.0
	}
	x := (g2 - e) / math.Sqrt(v)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	if a <= 4 {
		return false, 1.0
	}

	term := 1 - 2/(9*a)
	den := 1 + x*math.Sqrt(2/(a-4))
	if den <= 0 {
		return false, 0.0
	}
	z2 := (term - math.Cbrt((1-2/a)/den)) / math.Sqrt(2/(9*a))

	pValue = ChiSquarePValue(z1*z1+z2*z2, 2)
	return pValue > 0.05, pValue
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 1.0
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
