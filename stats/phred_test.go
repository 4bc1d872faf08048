package stats_test

import (
	"math"
	"testing"

	"github.com/hybridgenomics/varcall/stats"
	"github.com/stretchr/testify/assert"
)

func TestPhredRoundTrip(t *testing.T) {
	p := 0.001
	q := stats.ToPhredQ(p)
	assert.InDelta(t, p, stats.FromPhredQ(q), 1e-9)
}

func TestClipPhred(t *testing.T) {
	assert.Equal(t, 100, stats.ClipPhred(1000, 100))
	assert.Equal(t, 0, stats.ClipPhred(-5, 100))
}

func TestBetaBinomialCDFZeroCoverageIsZero(t *testing.T) {
	// n=0 trials: Pr(K<=0) is 1, so the reference-block quality
	// ToPhredQ(CDF) is zero at zero coverage (see caller/refblock.go).
	got := stats.BetaBinomialCDFForReferenceCalls(0, 20)
	assert.InDelta(t, 1.0, got, 1e-9)
	assert.InDelta(t, 0.0, stats.ToPhredQ(got), 1e-9)
}

func TestBetaBinomialCDFMonotonicInCoverage(t *testing.T) {
	prev := stats.BetaBinomialCDFForReferenceCalls(1, 20)
	for n := 2; n <= 20; n++ {
		cur := stats.BetaBinomialCDFForReferenceCalls(n, 20)
		assert.LessOrEqual(t, cur, prev+1e-9, "CDF should be non-increasing as coverage n grows (k=0 fixed)")
		prev = cur
	}
}

func TestSafeLogNeverNegativeInfinity(t *testing.T) {
	assert.False(t, math.IsInf(stats.SafeLog(0), -1))
}
