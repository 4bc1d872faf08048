package stats

import "math"

// logBetaFunction returns ln(Beta(x,y)) = ln(Gamma(x)Gamma(y)/Gamma(x+y)).
//
// No library in the retrieval pack exposes the Beta special function
// directly (gonum's stat/combin and floats packages cover combinatorics and
// slice reductions, not special functions); this is implemented directly
// against math.Lgamma, which is the standard and only reasonable way to
// express a log-Beta in Go without a bespoke special-function dependency.
func logBetaFunction(x, y float64) float64 {
	lgx, _ := math.Lgamma(x)
	lgy, _ := math.Lgamma(y)
	lgxy, _ := math.Lgamma(x + y)
	return lgx + lgy - lgxy
}

// logChoose returns ln(C(n,k)).
func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	lgn1, _ := math.Lgamma(float64(n + 1))
	lgk1, _ := math.Lgamma(float64(k + 1))
	lgnk1, _ := math.Lgamma(float64(n-k + 1))
	return lgn1 - lgk1 - lgnk1
}

// BetaBinomialPMF returns Pr(K=k) for a Beta-Binomial(n, alpha, beta)
// distribution: C(n,k) * Beta(k+alpha, n-k+beta) / Beta(alpha, beta).
func BetaBinomialPMF(k, n int, alpha, beta float64) float64 {
	if k < 0 || k > n {
		return 0
	}
	logPMF := logChoose(n, k) + logBetaFunction(float64(k)+alpha, float64(n-k)+beta) - logBetaFunction(alpha, beta)
	return math.Exp(logPMF)
}

// BetaBinomialCDF returns the cumulative Beta-Binomial(n, alpha, beta)
// probability Pr(K<=k), computed as a direct summation of BetaBinomialPMF --
// mathematically equivalent to the generalized hypergeometric-3F2 form the
// original implementation used, and numerically simpler. It sums k+1 terms:
// one for reference calls (k=0), up to the supporting-read count for the
// allele- and strand-bias P-values.
func BetaBinomialCDF(k, n int, alpha, beta float64) float64 {
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += BetaBinomialPMF(i, n, alpha, beta)
	}
	if sum > 1 {
		sum = 1
	}
	return sum
}

// BetaBinomialCDFForReferenceCalls is the special case alpha=beta, k=0: the
// probability that, under a diploid prior with symmetric Beta(alpha,alpha)
// allele-fraction prior, zero of n reads support the alt allele. Used by
// the reference-block quality calculation.
func BetaBinomialCDFForReferenceCalls(n int, alpha float64) float64 {
	return BetaBinomialCDF(0, n, alpha, alpha)
}
