// Package practice runs the math challenge loop that earns ammunition.
package practice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMalformed is returned for problems that cannot be graded.
var ErrMalformed = errors.New("malformed problem")

// Problem is one arithmetic question with its expected answer.
type Problem struct {
	ID          string
	Question    string
	Answer      float64
	Level       int
	Type        string // Operation symbol, e.g. "+"
	LevelName   string
	Description string
}

// ProblemOracle produces problems for a difficulty level.
type ProblemOracle interface {
	Request(ctx context.Context, level int) (Problem, error)
}

// Validate checks that p can be shown and graded.
func (p Problem) Validate() error {
	if strings.TrimSpace(p.Question) == "" {
		return fmt.Errorf("%w: empty question", ErrMalformed)
	}
	if math.IsNaN(p.Answer) || math.IsInf(p.Answer, 0) {
		return fmt.Errorf("%w: non-finite answer for %q", ErrMalformed, p.Question)
	}
	return nil
}

// LevelForTier maps a bank tier to the difficulty requested from the oracle.
// Higher banks ask harder questions; tiers 7-9 share the top level.
func LevelForTier(tier int) int {
	return min(max(1+(tier-1)/2, 1), MaxLevel)
}
