package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomz197/mathblaster/internal/ammo"
	"github.com/tomz197/mathblaster/internal/input"
	"github.com/tomz197/mathblaster/internal/loop/config"
	"github.com/tomz197/mathblaster/internal/practice"
)

// enterMath pauses combat and asks the oracle for a problem earning tier.
func (s *Session) enterMath(tier int) {
	tok, ok := s.game.EnterMath(tier)
	if !ok {
		return
	}
	s.answer = s.answer[:0]
	s.stream.Reset()
	s.request(tok, tier)
}

func (s *Session) nextProblem() {
	if tok, ok := s.game.NextProblem(); ok {
		s.request(tok, s.game.Practice.Tier())
	}
}

// request fetches a problem in the background. The result arrives on
// s.problems and is matched against the session token when drained.
func (s *Session) request(tok practice.Token, tier int) {
	s.pending = tok
	level := practice.LevelForTier(tier)
	s.log.Debug("requesting problem", "tier", tier, "level", level)

	parent := s.ctx
	go func() {
		ctx, cancel := context.WithTimeout(parent, config.OracleTimeout)
		defer cancel()
		p, err := s.oracle.Request(ctx, level)
		select {
		case s.problems <- problemResult{token: tok, problem: p, err: err}:
		case <-parent.Done():
		}
	}()
}

// drainProblems hands every received oracle response to the game.
func (s *Session) drainProblems(now time.Time) {
	for {
		select {
		case res := <-s.problems:
			s.deliver(res, now)
		default:
			return
		}
	}
}

func (s *Session) deliver(res problemResult, now time.Time) {
	if res.err != nil {
		if res.token != s.pending {
			return
		}
		s.log.Warn("problem request failed", "err", res.err)
		s.game.ExitMath()
		s.notify("No problem available, try again", now)
		return
	}
	if !s.game.DeliverProblem(res.token, res.problem, now) {
		s.log.Debug("dropped stale problem", "question", res.problem.Question)
	}
}

func (s *Session) updateMath(in input.Input, now time.Time) {
	if in.Backspace && len(s.answer) > 0 {
		s.answer = s.answer[:len(s.answer)-1]
	}
	for _, b := range in.Typed {
		if len(s.answer) < config.MaxAnswerLength {
			s.answer = append(s.answer, b)
		}
	}

	tier := s.game.Practice.Tier()
	switch {
	case in.Escape || in.Math:
		s.game.ExitMath()
		s.answer = s.answer[:0]
		s.stream.Reset()
	case in.Upgrade:
		s.enterMath(min(tier+1, ammo.NumTiers-1))
	case in.Downgrade:
		s.enterMath(max(tier-1, 1))
	case in.Skip:
		if _, err := s.game.Practice.Skip(); err == nil {
			s.answer = s.answer[:0]
			s.notify("Skipped", now)
			s.nextProblem()
		}
	case in.Enter:
		s.submit(now)
	}
}

func (s *Session) submit(now time.Time) {
	if len(s.answer) == 0 {
		return
	}
	out, events, err := s.game.SubmitAnswer(string(s.answer), now)
	if errors.Is(err, practice.ErrNoProblem) {
		return
	}
	s.answer = s.answer[:0]
	s.hud.Apply(events)

	if out.Correct {
		s.notify(fmt.Sprintf("Correct! +%d rounds for tier %d", out.Reward, out.Tier), now)
		s.saveAmmo()
	} else {
		s.notify("Wrong answer", now)
	}
	s.nextProblem()
}
