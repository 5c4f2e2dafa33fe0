package object

import "math"

// BehaviorKind selects an enemy's motion pattern.
type BehaviorKind int

const (
	BehaviorStraight BehaviorKind = iota // Falls straight down
	BehaviorZigzag                       // Tight side-to-side weave
	BehaviorSwoop                        // Wide slow arcs
	BehaviorDrift                        // Diagonal, bouncing off the side walls
	BehaviorCharge                       // Creeps, then dives at double speed
	numBehaviors
)

// MotionFunc computes the position an enemy moves to on the given tick.
// Implementations must not modify the enemy.
type MotionFunc func(e *Enemy, tick int) (x, y float64)

// motions is indexed by BehaviorKind.
var motions = [numBehaviors]MotionFunc{
	BehaviorStraight: moveStraight,
	BehaviorZigzag:   moveZigzag,
	BehaviorSwoop:    moveSwoop,
	BehaviorDrift:    moveDrift,
	BehaviorCharge:   moveCharge,
}

// Motion pattern tuning.
const (
	zigzagAmplitude = 10.0
	zigzagFrequency = 0.09
	swoopAmplitude  = 28.0
	swoopFrequency  = 0.025
	driftLateral    = 0.7 // Fraction of speed applied sideways
	chargeDelay     = 90  // Ticks before a charger dives
	chargeCreep     = 0.4
	chargeDive      = 2.0
)

// NextPosition returns where e moves on tick, dispatching on its behavior.
// Unknown kinds fall back to straight descent.
func NextPosition(e *Enemy, tick int) (x, y float64) {
	if e.Behavior < 0 || e.Behavior >= numBehaviors {
		return moveStraight(e, tick)
	}
	return motions[e.Behavior](e, tick)
}

func moveStraight(e *Enemy, _ int) (float64, float64) {
	return e.X, e.Y + e.Speed
}

func moveZigzag(e *Enemy, tick int) (float64, float64) {
	x := e.SpawnX + zigzagAmplitude*math.Sin(float64(tick)*zigzagFrequency)
	return clampX(e, x), e.Y + e.Speed
}

func moveSwoop(e *Enemy, tick int) (float64, float64) {
	x := e.SpawnX + swoopAmplitude*math.Sin(float64(tick)*swoopFrequency)
	return clampX(e, x), e.Y + e.Speed*0.8
}

// moveDrift folds a linear sweep into [half, width-half] so the enemy
// bounces between the walls.
func moveDrift(e *Enemy, tick int) (float64, float64) {
	half := e.Size / 2
	span := e.FieldW - e.Size
	if span <= 0 {
		return e.X, e.Y + e.Speed
	}
	pos := math.Mod(e.SpawnX-half+float64(tick)*e.Speed*driftLateral, 2*span)
	if pos > span {
		pos = 2*span - pos
	}
	return pos + half, e.Y + e.Speed*0.8
}

func moveCharge(e *Enemy, tick int) (float64, float64) {
	if tick < chargeDelay {
		return e.X, e.Y + e.Speed*chargeCreep
	}
	return e.X, e.Y + e.Speed*chargeDive
}

func clampX(e *Enemy, x float64) float64 {
	half := e.Size / 2
	if e.FieldW <= e.Size {
		return x
	}
	return math.Max(half, math.Min(e.FieldW-half, x))
}

// String returns the behavior name.
func (b BehaviorKind) String() string {
	switch b {
	case BehaviorStraight:
		return "straight"
	case BehaviorZigzag:
		return "zigzag"
	case BehaviorSwoop:
		return "swoop"
	case BehaviorDrift:
		return "drift"
	case BehaviorCharge:
		return "charge"
	default:
		return "unknown"
	}
}
