// Package reward converts math-answer latency into an ammunition grant.
package reward

import (
	"math"
	"time"
)

// Half-life decay constants.
const (
	InitialReward   = 100
	MinReward       = 10
	HalfLifeSeconds = 1.0
)

// Reward returns the ammunition granted for a correct answer given after
// latencySeconds. The grant halves every HalfLifeSeconds and never drops
// below MinReward. A non-finite latency means no timing was recorded.
func Reward(latencySeconds float64) int {
	if math.IsNaN(latencySeconds) || math.IsInf(latencySeconds, 0) {
		return MinReward
	}
	if latencySeconds < 0 {
		latencySeconds = 0
	}
	r := int(math.Round(InitialReward * math.Pow(0.5, latencySeconds/HalfLifeSeconds)))
	return max(MinReward, r)
}

// ForTimes computes the reward for an answer submitted at end for a problem
// shown at start. A zero start (timer never started) yields MinReward.
func ForTimes(start, end time.Time) int {
	if start.IsZero() {
		return MinReward
	}
	return Reward(end.Sub(start).Seconds())
}
