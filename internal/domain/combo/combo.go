// Package combo implements the scoring policy for consecutive matches.
// Every function is pure: the award is fully determined by the combo
// streak at commit time.
package combo

import "github.com/phrazzld/pairmatch/internal/domain"

const (
	// BasePoints is awarded for a match at multiplier 1.
	BasePoints = 100

	// StepSize is the number of consecutive matches per multiplier step.
	StepSize = 3
)

// Multiplier returns the score multiplier for the given combo streak.
//
// The multiplier grows by one every StepSize consecutive matches:
//   - streak 0-2 → ×1
//   - streak 3-5 → ×2
//   - streak 6-8 → ×3
//
// Negative streaks are treated as zero.
func Multiplier(current int) int {
	if current < 0 {
		current = 0
	}
	return 1 + current/StepSize
}

// PointsForMatch returns the points awarded for a match committed while
// the streak stands at current.
func PointsForMatch(current int) int {
	return BasePoints * Multiplier(current)
}

// CumulativePoints returns the score earned from n consecutive matches
// starting from an empty streak.
func CumulativePoints(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += PointsForMatch(i)
	}
	return total
}

// Hit returns the combo state after a successful match.
func Hit(c domain.Combo) domain.Combo {
	c.Current++
	if c.Current > c.Max {
		c.Max = c.Current
	}
	c.Multiplier = Multiplier(c.Current)
	return c
}

// Miss returns the combo state after a mismatch. Max is kept.
func Miss(c domain.Combo) domain.Combo {
	c.Current = 0
	c.Multiplier = Multiplier(0)
	return c
}

// Award returns the points for a match committed from combo state c.
// The streak standing at commit time decides the award, so the third
// consecutive match still earns BasePoints and the fourth earns double.
func Award(c domain.Combo) int {
	return PointsForMatch(c.Current)
}
