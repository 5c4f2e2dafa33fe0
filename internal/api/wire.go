// Package api is the HTTP boundary of the game: a client for the problem and
// profile service, and the server that implements it.
package api

import (
	"github.com/tomz197/mathblaster/internal/practice"
	"github.com/tomz197/mathblaster/internal/storage"
)

// Routes.
const (
	PathLogin           = "/api/login"
	PathRegister        = "/api/register"
	PathSaveAmmunition  = "/api/save_ammunition"
	PathSaveStats       = "/api/save_stats"
	PathSaveSettings    = "/api/save_settings"
	PathGenerateProblem = "/api/generate_math_problem"
	PathUser            = "/api/user/"
	PathUsers           = "/api/users"
	PathGenerators      = "/api/generators"
)

// GeneratorSimple is the only generator type the server provides.
const GeneratorSimple = "simple"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ammunitionRequest struct {
	Username        string      `json:"username"`
	AmmunitionBanks map[int]int `json:"ammunition_banks"`
}

type statsRequest struct {
	Username  string        `json:"username"`
	GameStats storage.Stats `json:"game_stats"`
}

type settingsRequest struct {
	Username string           `json:"username"`
	Settings storage.Settings `json:"settings"`
}

type problemRequest struct {
	Level         *int   `json:"level"`
	GeneratorType string `json:"generator_type,omitempty"`
}

type problemJSON struct {
	Question    string  `json:"question"`
	Answer      float64 `json:"answer"`
	Level       int     `json:"level"`
	Type        string  `json:"type"`
	LevelName   string  `json:"level_name"`
	Description string  `json:"description"`
}

// GeneratorInfo describes one problem generator.
type GeneratorInfo struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxLevel    int    `json:"max_level"`
}

// response is the envelope of every reply.
type response struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	UserData   *storage.Profile `json:"user_data,omitempty"`
	Problem    *problemJSON     `json:"problem,omitempty"`
	Generators []GeneratorInfo  `json:"generators,omitempty"`
}

// usersResponse is the reply of GET /api/users. The list is always present.
type usersResponse struct {
	Success bool     `json:"success"`
	Users   []string `json:"users"`
}

func fromProblem(p practice.Problem) *problemJSON {
	return &problemJSON{
		Question:    p.Question,
		Answer:      p.Answer,
		Level:       p.Level,
		Type:        p.Type,
		LevelName:   p.LevelName,
		Description: p.Description,
	}
}

func (p *problemJSON) toProblem() practice.Problem {
	return practice.Problem{
		Question:    p.Question,
		Answer:      p.Answer,
		Level:       p.Level,
		Type:        p.Type,
		LevelName:   p.LevelName,
		Description: p.Description,
	}
}
