package object

// Archetype is a spawnable enemy template.
type Archetype struct {
	Name     string
	MinLevel int // First player level it may spawn at
	Shield   int
	Speed    float64
	Size     float64
	Behavior BehaviorKind
	Glyph    rune
}

// Archetypes is the enemy table. It always contains a MinLevel 1 entry.
var Archetypes = []Archetype{
	{Name: "scout", MinLevel: 1, Shield: 1, Speed: 0.25, Size: 4, Behavior: BehaviorStraight, Glyph: 'v'},
	{Name: "zigzagger", MinLevel: 2, Shield: 2, Speed: 0.25, Size: 4, Behavior: BehaviorZigzag, Glyph: 'w'},
	{Name: "swooper", MinLevel: 3, Shield: 3, Speed: 0.3, Size: 5, Behavior: BehaviorSwoop, Glyph: 'V'},
	{Name: "drifter", MinLevel: 5, Shield: 5, Speed: 0.3, Size: 5, Behavior: BehaviorDrift, Glyph: 'W'},
	{Name: "charger", MinLevel: 7, Shield: 4, Speed: 0.35, Size: 4, Behavior: BehaviorCharge, Glyph: 'Y'},
	{Name: "brute", MinLevel: 9, Shield: 8, Speed: 0.15, Size: 7, Behavior: BehaviorStraight, Glyph: 'M'},
}
