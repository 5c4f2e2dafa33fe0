package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomz197/mathblaster/internal/practice"
	"github.com/tomz197/mathblaster/internal/storage"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 16

// Store is the persistence the server needs. storage.GormStore implements it.
type Store interface {
	storage.Backend
	CreateUser(ctx context.Context, username, passwordHash string) (storage.Profile, error)
	PasswordHash(ctx context.Context, username string) (string, error)
	TouchLogin(ctx context.Context, username string, t time.Time) error
	SaveSettings(ctx context.Context, username string, settings storage.Settings) error
	ListUsers(ctx context.Context) ([]string, error)
}

// Server serves the problem and profile API.
type Server struct {
	store     Store
	generator *practice.LocalGenerator
	log       *log.Logger

	// HashCost is the bcrypt cost for new passwords.
	HashCost int
	// Now is the clock used for login timestamps.
	Now func() time.Time
}

// NewServer creates a server backed by store.
func NewServer(store Store, generator *practice.LocalGenerator, logger *log.Logger) *Server {
	return &Server{
		store:     store,
		generator: generator,
		log:       logger,
		HashCost:  bcrypt.DefaultCost,
		Now:       time.Now,
	}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathLogin, s.handleLogin)
	mux.HandleFunc("POST "+PathRegister, s.handleRegister)
	mux.HandleFunc("POST "+PathSaveAmmunition, s.handleSaveAmmunition)
	mux.HandleFunc("POST "+PathSaveStats, s.handleSaveStats)
	mux.HandleFunc("POST "+PathSaveSettings, s.handleSaveSettings)
	mux.HandleFunc("POST "+PathGenerateProblem, s.handleGenerateProblem)
	mux.HandleFunc("GET "+PathUser+"{username}", s.handleGetUser)
	mux.HandleFunc("GET "+PathUsers, s.handleListUsers)
	mux.HandleFunc("GET "+PathGenerators, s.handleGenerators)
	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !s.decode(w, r, &req) {
		return
	}

	hash, err := s.store.PasswordHash(r.Context(), req.Username)
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password))
	}
	if err != nil {
		s.log.Debug("login rejected", "user", req.Username, "err", err)
		s.reply(w, http.StatusUnauthorized, response{Message: "Invalid username or password"})
		return
	}

	if err := s.store.TouchLogin(r.Context(), req.Username, s.Now()); err != nil {
		s.log.Warn("failed to record login", "user", req.Username, "err", err)
	}
	profile, err := s.store.LoadProfile(r.Context(), req.Username)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.reply(w, http.StatusOK, response{Success: true, Message: "Login successful", UserData: &profile})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !s.decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		s.reply(w, http.StatusBadRequest, response{Message: "Username and password are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.HashCost)
	if err != nil {
		s.log.Error("failed to hash password", "err", err)
		s.reply(w, http.StatusInternalServerError, response{Message: "Failed to create user"})
		return
	}

	profile, err := s.store.CreateUser(r.Context(), req.Username, string(hash))
	if errors.Is(err, storage.ErrUserExists) {
		s.reply(w, http.StatusConflict, response{Message: "Username already exists"})
		return
	}
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.log.Info("user registered", "user", req.Username)
	s.reply(w, http.StatusCreated, response{Success: true, Message: "User created successfully", UserData: &profile})
}

func (s *Server) handleSaveAmmunition(w http.ResponseWriter, r *http.Request) {
	var req ammunitionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.store.SaveAmmunition(r.Context(), req.Username, req.AmmunitionBanks); err != nil {
		s.storeError(w, err)
		return
	}
	s.reply(w, http.StatusOK, response{Success: true, Message: "Ammunition saved successfully"})
}

func (s *Server) handleSaveStats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.store.SaveStats(r.Context(), req.Username, req.GameStats); err != nil {
		s.storeError(w, err)
		return
	}
	s.reply(w, http.StatusOK, response{Success: true, Message: "Stats saved successfully"})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Username == "" {
		s.reply(w, http.StatusBadRequest, response{Message: "Username required"})
		return
	}
	if err := s.store.SaveSettings(r.Context(), req.Username, req.Settings); err != nil {
		s.storeError(w, err)
		return
	}
	s.reply(w, http.StatusOK, response{Success: true, Message: "Settings saved successfully"})
}

func (s *Server) handleGenerateProblem(w http.ResponseWriter, r *http.Request) {
	var req problemRequest
	if !s.decode(w, r, &req) {
		return
	}

	level := 1
	if req.Level != nil {
		level = *req.Level
	}
	s.log.Debug("math problem request", "level", level, "generator", req.GeneratorType)

	if level < 1 {
		s.reply(w, http.StatusBadRequest, response{Message: "Level must be a positive integer"})
		return
	}
	if req.GeneratorType != "" && req.GeneratorType != GeneratorSimple {
		s.reply(w, http.StatusBadRequest, response{Message: fmt.Sprintf("Unknown generator type: %s", req.GeneratorType)})
		return
	}
	if level > practice.MaxLevel {
		s.reply(w, http.StatusBadRequest, response{
			Message: fmt.Sprintf("Level %d not supported. Max level: %d", level, practice.MaxLevel),
		})
		return
	}

	p := s.generator.Generate(level)
	s.log.Debug("generated problem", "question", p.Question, "answer", p.Answer, "type", p.Type)
	s.reply(w, http.StatusOK, response{Success: true, Problem: fromProblem(p)})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.LoadProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.reply(w, http.StatusOK, response{Success: true, UserData: &profile})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	if users == nil {
		users = []string{}
	}
	s.reply(w, http.StatusOK, usersResponse{Success: true, Users: users})
}

func (s *Server) handleGenerators(w http.ResponseWriter, _ *http.Request) {
	s.reply(w, http.StatusOK, response{Success: true, Generators: []GeneratorInfo{{
		Type:        GeneratorSimple,
		Name:        "Simple Math",
		Description: fmt.Sprintf("Basic arithmetic operations (Levels 1-%d)", practice.MaxLevel),
		MaxLevel:    practice.MaxLevel,
	}}})
}

// decode reads a JSON body into v, replying 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		s.reply(w, http.StatusBadRequest, response{Message: "Invalid JSON body"})
		return false
	}
	return true
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrUserNotFound) {
		s.reply(w, http.StatusNotFound, response{Message: "User not found"})
		return
	}
	s.log.Error("storage failure", "err", err)
	s.reply(w, http.StatusInternalServerError, response{Message: "Internal server error"})
}

func (s *Server) reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("failed to write response", "err", err)
	}
}
