package practice

import (
	"context"

	"github.com/charmbracelet/log"
)

// FallbackOracle asks Primary first and switches to Fallback whenever the
// primary errors or returns something that cannot be graded.
type FallbackOracle struct {
	Primary  ProblemOracle
	Fallback ProblemOracle
	Logger   *log.Logger
}

// Request implements ProblemOracle.
func (o *FallbackOracle) Request(ctx context.Context, level int) (Problem, error) {
	if o.Primary != nil {
		p, err := o.Primary.Request(ctx, level)
		if err == nil {
			err = p.Validate()
		}
		if err == nil {
			return p, nil
		}
		if o.Logger != nil {
			o.Logger.Warn("problem oracle unavailable, using local generator", "level", level, "err", err)
		}
	}
	return o.Fallback.Request(ctx, level)
}
