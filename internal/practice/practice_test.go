package practice

import (
	"context"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/mathblaster/internal/ammo"
	"github.com/tomz197/mathblaster/internal/reward"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type stubOracle struct {
	problem Problem
	err     error
	calls   int
}

func (s *stubOracle) Request(_ context.Context, _ int) (Problem, error) {
	s.calls++
	return s.problem, s.err
}

func TestLocalGeneratorAnswers(t *testing.T) {
	g := NewLocalGenerator(42)
	for level := 1; level <= MaxLevel; level++ {
		for range 200 {
			p := g.Generate(level)
			require.NoError(t, p.Validate())
			assert.Equal(t, level, p.Level)
			assert.NotEmpty(t, p.ID)

			parts := strings.Fields(p.Question)
			require.Len(t, parts, 3, p.Question)
			a, err := strconv.Atoi(parts[0])
			require.NoError(t, err)
			b, err := strconv.Atoi(parts[2])
			require.NoError(t, err)
			assert.LessOrEqual(t, b, MaxOperand(level))

			switch p.Type {
			case "+":
				assert.Equal(t, float64(a+b), p.Answer)
			case "-":
				assert.Equal(t, float64(a-b), p.Answer)
				assert.GreaterOrEqual(t, p.Answer, 0.0)
			case "*":
				assert.Equal(t, float64(a*b), p.Answer)
			case "/":
				require.NotZero(t, b)
				assert.Equal(t, 0, a%b, "division must be exact")
				assert.Equal(t, float64(a/b), p.Answer)
			default:
				t.Fatalf("unexpected type %q", p.Type)
			}
		}
	}
}

func TestLevelTables(t *testing.T) {
	assert.Equal(t, 10, MaxOperand(1))
	assert.Equal(t, 500, MaxOperand(4))
	assert.Equal(t, 500, MaxOperand(7))
	assert.Equal(t, "Medium", LevelName(2))
	assert.Equal(t, "Level 8", LevelName(8))
	assert.Equal(t, "Hard: Numbers 1-100", DescribeLevel(3))

	assert.Equal(t, 1, LevelForTier(1))
	assert.Equal(t, 2, LevelForTier(3))
	assert.Equal(t, 4, LevelForTier(9))
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Problem{Question: " "}.Validate(), ErrMalformed)
	assert.ErrorIs(t, Problem{Question: "1 + 1", Answer: math.NaN()}.Validate(), ErrMalformed)
	assert.NoError(t, Problem{Question: "1 + 1", Answer: 2}.Validate())
}

func TestFallbackOracle(t *testing.T) {
	tests := []struct {
		name     string
		primary  *stubOracle
		expected string
	}{
		{"primary ok", &stubOracle{problem: Problem{Question: "3 + 3", Answer: 6}}, "3 + 3"},
		{"primary error", &stubOracle{err: errors.New("connection refused")}, "2 + 2"},
		{"primary malformed", &stubOracle{problem: Problem{Answer: 1}}, "2 + 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &stubOracle{problem: Problem{Question: "2 + 2", Answer: 4}}
			o := &FallbackOracle{Primary: tt.primary, Fallback: local, Logger: log.New(io.Discard)}

			p, err := o.Request(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Question)
			assert.Equal(t, 1, tt.primary.calls)
		})
	}
}

func TestSessionRejectsStaleDelivery(t *testing.T) {
	s := NewSession(ammo.NewBank(0))

	first, ok := s.Begin(2)
	require.True(t, ok)
	second, ok := s.Begin(3)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	assert.False(t, s.Deliver(first, Problem{Question: "1 + 1", Answer: 2}, t0))
	assert.True(t, s.Pending())
	assert.True(t, s.Deliver(second, Problem{Question: "2 + 2", Answer: 4}, t0))
	assert.False(t, s.Deliver(second, Problem{Question: "5 + 5", Answer: 10}, t0), "token is single use")

	p, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "2 + 2", p.Question)
	assert.Equal(t, 3, s.Tier())
}

func TestSessionCancelDiscards(t *testing.T) {
	s := NewSession(ammo.NewBank(0))
	tok, _ := s.Begin(1)
	s.Cancel()

	assert.False(t, s.Deliver(tok, Problem{Question: "1 + 1", Answer: 2}, t0))
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestSessionBeginInvalidTier(t *testing.T) {
	s := NewSession(ammo.NewBank(0))
	_, ok := s.Begin(0)
	assert.False(t, ok)
	_, ok = s.Begin(10)
	assert.False(t, ok)
}

func TestSessionSubmitCorrect(t *testing.T) {
	bank := ammo.NewBank(0)
	s := NewSession(bank)
	tok, _ := s.Begin(4)
	require.True(t, s.Deliver(tok, Problem{Question: "6 × 7", Answer: 42}, t0))

	out, err := s.Submit(" 42 ", t0.Add(time.Second))

	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 50, out.Reward)
	assert.InDelta(t, 1.0, out.Latency, 1e-9)
	assert.Equal(t, 50, bank.Count(4))

	total, correct := s.Counts()
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, correct)

	_, err = s.Submit("42", t0)
	assert.ErrorIs(t, err, ErrNoProblem)
}

func TestSessionSubmitIncorrect(t *testing.T) {
	bank := ammo.NewBank(0)
	s := NewSession(bank)

	for _, input := range []string{"41", "forty-two"} {
		tok, _ := s.Begin(1)
		require.True(t, s.Deliver(tok, Problem{Question: "6 × 7", Answer: 42}, t0))
		out, err := s.Submit(input, t0)
		require.NoError(t, err)
		assert.False(t, out.Correct, input)
		assert.Zero(t, out.Reward)
	}

	assert.Zero(t, bank.Count(1))
	total, correct := s.Counts()
	assert.Equal(t, 2, total)
	assert.Zero(t, correct)
}

func TestSessionLogBounded(t *testing.T) {
	s := NewSession(ammo.NewBank(0))
	for i := range reward.LogSize + 3 {
		tok, _ := s.Begin(1)
		s.Deliver(tok, Problem{Question: strconv.Itoa(i), Answer: float64(i)}, t0)
		if i%2 == 0 {
			_, _ = s.Skip()
		} else {
			_, _ = s.Submit(strconv.Itoa(i), t0)
		}
	}

	entries := s.Outcomes()
	require.Len(t, entries, reward.LogSize)
	assert.Equal(t, "3", entries[0].Question)
	assert.True(t, entries[len(entries)-1].Skipped)
}
