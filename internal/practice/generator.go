package practice

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxLevel is the highest difficulty the local generator supports.
const MaxLevel = 4

var levelNames = map[int]string{
	1: "Easy",
	2: "Medium",
	3: "Hard",
	4: "Expert",
}

var levelMax = map[int]int{
	1: 10,
	2: 50,
	3: 100,
	4: 500,
}

// LocalGenerator builds simple four-operation problems. It is safe for
// concurrent use.
type LocalGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocalGenerator returns a generator seeded with seed. A zero seed uses the clock.
func NewLocalGenerator(seed int64) *LocalGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LocalGenerator{rng: rand.New(rand.NewSource(seed))}
}

// MaxOperand returns the largest operand used at level.
func MaxOperand(level int) int {
	if n, ok := levelMax[level]; ok {
		return n
	}
	return levelMax[MaxLevel]
}

// LevelName returns a readable name for level.
func LevelName(level int) string {
	if n, ok := levelNames[level]; ok {
		return n
	}
	return fmt.Sprintf("Level %d", level)
}

// DescribeLevel summarizes the operand range of level.
func DescribeLevel(level int) string {
	if _, ok := levelNames[level]; !ok {
		return LevelName(level)
	}
	return fmt.Sprintf("%s: Numbers 1-%d", LevelName(level), MaxOperand(level))
}

// Request implements ProblemOracle. It never fails.
func (g *LocalGenerator) Request(_ context.Context, level int) (Problem, error) {
	return g.Generate(level), nil
}

// Generate returns a random problem for level. Division is built from its
// quotient so the answer is always a whole number.
func (g *LocalGenerator) Generate(level int) Problem {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := MaxOperand(level)
	var a, b, answer int
	var op string

	switch g.rng.Intn(4) {
	case 0:
		op = "+"
		a, b = g.between(1, n), g.between(1, n)
		answer = a + b
	case 1:
		op = "-"
		a = g.between(1, n)
		b = g.between(1, a)
		answer = a - b
	case 2:
		op = "*"
		a, b = g.between(1, n), g.between(1, n)
		answer = a * b
	default:
		op = "/"
		b = g.between(2, n)
		answer = g.between(1, n)
		a = b * answer
	}

	return Problem{
		ID:          uuid.NewString(),
		Question:    fmt.Sprintf("%d %s %d", a, displaySymbol(op), b),
		Answer:      float64(answer),
		Level:       level,
		Type:        op,
		LevelName:   LevelName(level),
		Description: DescribeLevel(level),
	}
}

// between returns a uniform int in [lo, hi].
func (g *LocalGenerator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func displaySymbol(op string) string {
	switch op {
	case "*":
		return "×"
	case "/":
		return "÷"
	}
	return op
}
