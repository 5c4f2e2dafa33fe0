// Package config centralizes the tunable parameters of the game loop.
package config

import "time"

// Rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS

	MaxTermWidth  = 120 // Columns beyond this are left blank around the frame
	MaxTermHeight = 44
	MinTermWidth  = 48
	MinTermHeight = 18
)

// Layout rows of the playing screen.
const (
	HUDRows    = 3 // Status line, ammo line, separator
	FooterRows = 1
)

// Player
const (
	MaxUsernameLength = 16
	MaxAnswerLength   = 12 // Characters accepted in the answer field
)

// Messages
const (
	MessageSeconds         = 2.0
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before exit
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Remote calls
const (
	OracleTimeout  = 5 * time.Second
	PersistTimeout = 5 * time.Second
)
