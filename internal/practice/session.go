package practice

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/mathblaster/internal/ammo"
	"github.com/tomz197/mathblaster/internal/reward"
)

// AnswerTolerance is the absolute error accepted when grading.
const AnswerTolerance = 1e-9

// ErrNoProblem is returned by Submit and Skip when nothing is on screen.
var ErrNoProblem = errors.New("no active problem")

// Token identifies one outstanding oracle request.
type Token string

// Session tracks the problem currently requested or shown for one player.
// Only the most recent request's response is ever accepted.
type Session struct {
	bank *ammo.Bank
	log  reward.Log

	tier      int
	token     Token
	pending   bool
	problem   *Problem
	startedAt time.Time

	total   int
	correct int
}

// NewSession returns an idle session crediting bank.
func NewSession(bank *ammo.Bank) *Session {
	return &Session{bank: bank}
}

// Begin starts a request for tier and invalidates any outstanding one.
// It returns false for tier 0 or out of range tiers.
func (s *Session) Begin(tier int) (Token, bool) {
	if tier == 0 || !ammo.ValidTier(tier) {
		return "", false
	}
	s.Cancel()
	s.tier = tier
	s.token = Token(uuid.NewString())
	s.pending = true
	return s.token, true
}

// Deliver shows p if tok is still the current request. The latency timer
// starts at now.
func (s *Session) Deliver(tok Token, p Problem, now time.Time) bool {
	if !s.pending || tok != s.token {
		return false
	}
	s.pending = false
	s.problem = &p
	s.startedAt = now
	return true
}

// Submit grades input against the active problem. Correct answers credit
// the session tier with the latency-based reward.
func (s *Session) Submit(input string, now time.Time) (reward.Outcome, error) {
	if s.problem == nil {
		return reward.Outcome{}, ErrNoProblem
	}

	out := reward.Outcome{
		Question: s.problem.Question,
		Latency:  max(now.Sub(s.startedAt).Seconds(), 0),
		Tier:     s.tier,
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(input), 64); err == nil {
		out.Correct = math.Abs(v-s.problem.Answer) <= AnswerTolerance
	}

	s.total++
	if out.Correct {
		s.correct++
		out.Reward = reward.ForTimes(s.startedAt, now)
		s.bank.Credit(s.tier, out.Reward)
	}

	s.log.Add(out)
	s.clearProblem()
	return out, nil
}

// Skip abandons the active problem without reward.
func (s *Session) Skip() (reward.Outcome, error) {
	if s.problem == nil {
		return reward.Outcome{}, ErrNoProblem
	}
	out := reward.Outcome{Question: s.problem.Question, Tier: s.tier, Skipped: true}
	s.log.Add(out)
	s.clearProblem()
	return out, nil
}

// Cancel drops any pending request and active problem.
func (s *Session) Cancel() {
	s.token = ""
	s.pending = false
	s.clearProblem()
}

func (s *Session) clearProblem() {
	s.problem = nil
	s.startedAt = time.Time{}
}

// Active returns the problem on screen, if any.
func (s *Session) Active() (Problem, bool) {
	if s.problem == nil {
		return Problem{}, false
	}
	return *s.problem, true
}

// Pending reports whether a request is outstanding.
func (s *Session) Pending() bool {
	return s.pending
}

// Tier returns the bank being earned for.
func (s *Session) Tier() int {
	return s.tier
}

// Outcomes returns the trailing log, oldest first.
func (s *Session) Outcomes() []reward.Outcome {
	return s.log.Entries()
}

// Counts returns the number of graded and correct answers.
func (s *Session) Counts() (total, correct int) {
	return s.total, s.correct
}
