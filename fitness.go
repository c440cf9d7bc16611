package tapebf

import (
	"github.com/xrash/smetrics"
)

// How closely a run's output matched what the caller expected. Distance is
// the Wagner-Fischer edit distance with substitutions weighted as an insert
// plus a delete; Similarity is Jaro-Winkler in [0, 1].
type OutputComparison struct {
	Expected   string
	Distance   int
	Similarity float64
}

const (
	JARO_WINKLER_BOOST  = 0.7
	JARO_WINKLER_PREFIX = 4
)

func CompareOutput(expected, actual string) *OutputComparison {
	c := &OutputComparison{
		Expected: expected,
		Distance: smetrics.WagnerFischer(expected, actual, 1, 1, 2),
	}
	if expected == actual {
		c.Similarity = 1
	} else {
		c.Similarity = smetrics.JaroWinkler(expected, actual, JARO_WINKLER_BOOST, JARO_WINKLER_PREFIX)
	}
	return c
}

func (c *OutputComparison) Match() bool {
	return c.Distance == 0
}
