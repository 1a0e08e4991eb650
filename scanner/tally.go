package scanner

import (
	"fmt"

	"github.com/hupe1980/drawmatch/internal/simd"
)

// MinPrizeMatches is the smallest match count that forms a prize tier.
const MinPrizeMatches = 2

// Tally counts players by number of matched numbers.
type Tally struct {
	Match2 int
	Match3 int
	Match4 int
	Match5 int
}

func tallyFromHistogram(h *simd.Histogram) Tally {
	return Tally{
		Match2: h[2],
		Match3: h[3],
		Match4: h[4],
		Match5: h[5],
	}
}

// Get returns the count for the given number of matches, or 0 if it is not
// a prize tier.
func (t Tally) Get(matches int) int {
	switch matches {
	case 2:
		return t.Match2
	case 3:
		return t.Match3
	case 4:
		return t.Match4
	case 5:
		return t.Match5
	default:
		return 0
	}
}

// Total returns the number of players in any prize tier.
func (t Tally) Total() int {
	return t.Match2 + t.Match3 + t.Match4 + t.Match5
}

// Add returns the element-wise sum of t and other.
func (t Tally) Add(other Tally) Tally {
	return Tally{
		Match2: t.Match2 + other.Match2,
		Match3: t.Match3 + other.Match3,
		Match4: t.Match4 + other.Match4,
		Match5: t.Match5 + other.Match5,
	}
}

// String formats the tally as "w2 w3 w4 w5".
func (t Tally) String() string {
	return fmt.Sprintf("%d %d %d %d", t.Match2, t.Match3, t.Match4, t.Match5)
}
