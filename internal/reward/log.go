package reward

// LogSize is how many outcomes the trailing log keeps.
const LogSize = 6

// Outcome is the graded result of one math challenge.
type Outcome struct {
	Question string
	Latency  float64 // Seconds
	Correct  bool
	Tier     int // Bank the answer was earning for
	Reward   int // Rounds credited; 0 when incorrect
	Skipped  bool
}

// Log keeps the most recent LogSize outcomes, oldest first.
type Log struct {
	entries []Outcome
}

// Add appends an outcome, evicting the oldest when full.
func (l *Log) Add(o Outcome) {
	if len(l.entries) == LogSize {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:LogSize-1]
	}
	l.entries = append(l.entries, o)
}

// Entries returns a copy of the retained outcomes, oldest first.
func (l *Log) Entries() []Outcome {
	out := make([]Outcome, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained outcomes.
func (l *Log) Len() int {
	return len(l.entries)
}
