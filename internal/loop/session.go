// Package loop drives one player's game: it reads terminal input, steps the
// simulation, talks to the problem oracle and the persistence backend, and
// renders each frame.
package loop

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/mathblaster/internal/draw"
	"github.com/tomz197/mathblaster/internal/game"
	"github.com/tomz197/mathblaster/internal/input"
	"github.com/tomz197/mathblaster/internal/loop/config"
	"github.com/tomz197/mathblaster/internal/practice"
	"github.com/tomz197/mathblaster/internal/storage"
)

// Screen is the top-level view of a session.
type Screen int

const (
	ScreenStart Screen = iota
	ScreenPlaying
	ScreenShutdown
)

// Options configures a session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	Oracle       practice.ProblemOracle
	Store        storage.Backend // Nil disables persistence
	Username     string
	PersistAmmo  bool // Keep banks between games and load them from the profile
	Game         game.Config
}

// problemResult is an oracle response tagged with the request it answers.
type problemResult struct {
	token   practice.Token
	problem practice.Problem
	err     error
}

// Session runs a single player's game on one terminal.
type Session struct {
	opts   Options
	log    *log.Logger
	store  storage.Backend
	oracle practice.ProblemOracle

	game   *game.Game
	hud    HUD
	screen Screen

	frame        *draw.Frame
	writer       io.Writer
	stream       *input.Stream
	termSizeFunc draw.TermSizeFunc

	ctx      context.Context
	cancel   context.CancelFunc // Stops outstanding oracle requests
	problems chan problemResult
	pending  practice.Token // Most recent oracle request
	answer   []byte
	saves    sync.WaitGroup

	lifetime     storage.Stats
	countedTotal int // Practice counters already folded into lifetime
	countedRight int
	started      bool // A game has been played since the last record
	persistAmmo  bool

	message      string
	messageUntil time.Time

	lastInput     time.Time
	inactive      bool
	shutdownTimer float64
	running       bool
}

// NewSession creates a session reading keys from r and drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) *Session {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Oracle == nil {
		opts.Oracle = practice.NewLocalGenerator(0)
	}
	if len(opts.Username) > config.MaxUsernameLength {
		opts.Username = opts.Username[:config.MaxUsernameLength]
	}

	store := opts.Store
	if store == nil || opts.Username == "" {
		store = storage.Nop{}
	}

	s := &Session{
		opts:         opts,
		log:          opts.Logger.With("user", opts.Username),
		store:        store,
		oracle:       opts.Oracle,
		game:         game.New(opts.Game),
		frame:        draw.NewFrame(config.MaxTermWidth, config.MaxTermHeight),
		writer:       w,
		stream:       input.StartStream(r),
		termSizeFunc: opts.TermSizeFunc,
		problems:     make(chan problemResult, 8),
		lifetime:     storage.DefaultStats(),
		persistAmmo:  opts.PersistAmmo,
		lastInput:    time.Now(),
		running:      true,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.hud.Sync(s.game)
	return s
}

// Game returns the simulated game state.
func (s *Session) Game() *game.Game {
	return s.game
}

// HUD returns the values currently displayed.
func (s *Session) HUD() HUD {
	return s.hud
}

// Screen returns the current top-level view.
func (s *Session) Screen() Screen {
	return s.screen
}

// Run loads the player's profile and plays until the player quits, the input
// ends or ctx is cancelled. Cancelling ctx shows a shutdown notice first.
func (s *Session) Run(ctx context.Context) error {
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.loadProfile()

	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	draw.ClearScreen(s.writer)

	lastTime := time.Now()
	for s.running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		if ctx.Err() != nil && s.screen != ScreenShutdown {
			s.beginShutdown()
		}

		in := input.ReadInput(s.stream)
		if s.stream.Closed() {
			s.running = false
		}
		s.step(in, frameStart, delta)

		s.updateScreen()
		if err := s.render(); err != nil {
			s.finish()
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	s.finish()
	draw.ClearScreen(s.writer)
	return nil
}

// finish records an unfinished game, abandons outstanding problem requests
// and waits for saves.
func (s *Session) finish() {
	s.recordGame()
	s.cancel()
	s.saves.Wait()
}

// step advances the session by one frame.
func (s *Session) step(in input.Input, now time.Time, delta time.Duration) {
	s.trackActivity(in, now)
	if in.Quit {
		s.running = false
		return
	}
	s.drainProblems(now)

	switch s.screen {
	case ScreenStart:
		if in.Enter || in.Fire {
			s.startGame()
		}
	case ScreenPlaying:
		s.updatePlaying(in, now)
	case ScreenShutdown:
		s.shutdownTimer -= delta.Seconds()
		if s.shutdownTimer <= 0 {
			s.running = false
		}
	}
}

func (s *Session) trackActivity(in input.Input, now time.Time) {
	if len(in.Pressed) > 0 {
		s.lastInput = now
		s.inactive = false
		return
	}
	idle := now.Sub(s.lastInput).Seconds()
	switch {
	case idle > config.InactivityDisconnectUser:
		s.log.Info("disconnecting inactive player")
		s.running = false
	case idle > config.InactivityWarnUser:
		s.inactive = true
	}
}

func (s *Session) beginShutdown() {
	s.screen = ScreenShutdown
	s.shutdownTimer = config.ShutdownDisplaySeconds
	s.game.ExitMath()
}

func (s *Session) startGame() {
	s.stream.Reset()
	s.started = true
	s.screen = ScreenPlaying
	s.hud.Sync(s.game)
}

func (s *Session) restart() {
	s.recordGame()
	s.game.Reset(s.persistAmmo)
	s.answer = s.answer[:0]
	s.startGame()
}

func (s *Session) updatePlaying(in input.Input, now time.Time) {
	switch s.game.Phase() {
	case game.PhaseCombat:
		s.updateCombat(in, now)
	case game.PhaseMath:
		s.updateMath(in, now)
	case game.PhaseGameOver:
		if in.Restart || in.Enter {
			s.restart()
		}
	}
}

func (s *Session) updateCombat(in input.Input, now time.Time) {
	if in.Math {
		s.enterMath(max(s.game.Weapon.Current(), 1))
		return
	}

	gi := game.Input{
		Now:          now,
		Fire:         in.Fire,
		Upgrade:      in.Upgrade,
		Downgrade:    in.Downgrade,
		ToggleTriple: in.Triple,
	}
	switch {
	case in.Left && !in.Right:
		gi.Move = -1
	case in.Right && !in.Left:
		gi.Move = 1
	}
	if in.Number >= 0 {
		gi.Select = true
		gi.SelectTier = in.Number
	}

	events := s.game.Update(gi)
	s.hud.Apply(events)
	for _, e := range events {
		switch e.Kind {
		case game.EventLevelChanged:
			s.notify("Level up!", now)
		case game.EventGameOver:
			s.log.Info("game over", "score", s.game.Score, "level", s.game.Level())
			s.recordGame()
		}
	}
}

// recordGame folds the current game into lifetime stats and saves them. It
// runs at most once per game.
func (s *Session) recordGame() {
	if !s.started {
		return
	}
	s.started = false

	total, correct := s.game.Practice.Counts()
	s.lifetime = s.lifetime.Merge(
		s.game.Score,
		s.game.Level(),
		total-s.countedTotal,
		correct-s.countedRight,
		s.game.Destroyed,
	)
	s.countedTotal, s.countedRight = total, correct

	s.saveStats(s.lifetime)
	s.saveAmmo()
}

func (s *Session) notify(msg string, now time.Time) {
	s.message = msg
	s.messageUntil = now.Add(time.Duration(config.MessageSeconds * float64(time.Second)))
}

// loadProfile restores lifetime stats and, when persistence is on, the banks.
func (s *Session) loadProfile() {
	if s.opts.Username == "" {
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, config.PersistTimeout)
	defer cancel()

	p, err := s.store.LoadProfile(ctx, s.opts.Username)
	if errors.Is(err, storage.ErrUserNotFound) {
		p, err = s.store.CreateProfile(ctx, s.opts.Username)
		if err != nil {
			s.log.Warn("failed to create profile", "err", err)
			return
		}
		s.log.Info("created profile for new player")
	}
	if err != nil {
		s.log.Warn("failed to load profile", "err", err)
		return
	}

	s.lifetime = p.GameStats
	s.persistAmmo = s.opts.PersistAmmo && p.Settings.AmmoPersistence
	if s.persistAmmo {
		s.game.Bank.Load(p.AmmunitionBanks)
	}
	s.hud.Sync(s.game)
	s.log.Debug("profile loaded", "highest_level", p.GameStats.HighestLevel, "persist_ammo", s.persistAmmo)
}

func (s *Session) saveAmmo() {
	if s.opts.Username == "" {
		return
	}
	counts := s.game.Bank.Counts()
	s.persist("ammunition", func(ctx context.Context) error {
		return s.store.SaveAmmunition(ctx, s.opts.Username, counts)
	})
}

func (s *Session) saveStats(st storage.Stats) {
	if s.opts.Username == "" {
		return
	}
	s.persist("stats", func(ctx context.Context) error {
		return s.store.SaveStats(ctx, s.opts.Username, st)
	})
}

// persist runs save in the background. Failures are logged and dropped.
func (s *Session) persist(what string, save func(ctx context.Context) error) {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), config.PersistTimeout)
		defer cancel()
		if err := save(ctx); err != nil {
			s.log.Warn("failed to save "+what, "err", err)
		}
	}()
}
