package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/tomz197/mathblaster/internal/ammo"
)

// User is the users table.
type User struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	LastLogin    *time.Time

	AmmoPersistence bool

	TotalScore            int
	HighestLevel          int
	TotalMathProblems     int
	CorrectMathProblems   int
	TotalEnemiesDestroyed int

	Banks []AmmoBank `gorm:"constraint:OnDelete:CASCADE"`
}

// AmmoBank is one tier's saved count.
type AmmoBank struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false"`
	Tier   int  `gorm:"primaryKey;autoIncrement:false"`
	Count  int
}

// GormStore is a Backend on a gorm database.
type GormStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the sqlite file at path and migrates
// the schema. An empty path opens a private in-memory database.
func OpenSQLite(path string) (*GormStore, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if path == "" {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON;").Error; err != nil {
		return nil, fmt.Errorf("error setting PRAGMA: %w", err)
	}

	s := NewGormStore(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewGormStore wraps an open database. Call Migrate before use.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the tables.
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&User{}, &AmmoBank{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) findUser(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	return &u, nil
}

// CreateUser registers a new player with empty banks and default stats.
func (s *GormStore) CreateUser(ctx context.Context, username, passwordHash string) (Profile, error) {
	if _, err := s.findUser(ctx, username); err == nil {
		return Profile{}, fmt.Errorf("%w: %s", ErrUserExists, username)
	} else if !errors.Is(err, ErrUserNotFound) {
		return Profile{}, err
	}

	stats := DefaultStats()
	u := User{
		Username:        username,
		PasswordHash:    passwordHash,
		AmmoPersistence: true,
		HighestLevel:    stats.HighestLevel,
	}
	for t := range ammo.NumTiers {
		u.Banks = append(u.Banks, AmmoBank{Tier: t})
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return Profile{}, fmt.Errorf("create user %s: %w", username, err)
	}
	return toProfile(&u), nil
}

// CreateProfile implements Backend for players who never set a password,
// e.g. SSH users. Such accounts cannot log in through the API.
func (s *GormStore) CreateProfile(ctx context.Context, username string) (Profile, error) {
	return s.CreateUser(ctx, username, "")
}

// PasswordHash returns the stored credential hash for username.
func (s *GormStore) PasswordHash(ctx context.Context, username string) (string, error) {
	u, err := s.findUser(ctx, username)
	if err != nil {
		return "", err
	}
	return u.PasswordHash, nil
}

// TouchLogin records a successful login at t.
func (s *GormStore) TouchLogin(ctx context.Context, username string, t time.Time) error {
	return s.updateUser(ctx, username, map[string]any{"last_login": t})
}

// LoadProfile implements ProfileStore.
func (s *GormStore) LoadProfile(ctx context.Context, username string) (Profile, error) {
	var u User
	err := s.db.WithContext(ctx).Preload("Banks").Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load profile %s: %w", username, err)
	}
	return toProfile(&u), nil
}

// SaveAmmunition implements Sink. Tier 0 is stored as 0; unknown tiers are dropped.
func (s *GormStore) SaveAmmunition(ctx context.Context, username string, counts map[int]int) error {
	u, err := s.findUser(ctx, username)
	if err != nil {
		return err
	}

	rows := make([]AmmoBank, 0, ammo.NumTiers)
	for t := range ammo.NumTiers {
		n := 0
		if t != 0 {
			n = max(counts[t], 0)
		}
		rows = append(rows, AmmoBank{UserID: u.ID, Tier: t, Count: n})
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "tier"}},
		DoUpdates: clause.AssignmentColumns([]string{"count"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("save ammunition for %s: %w", username, err)
	}
	return nil
}

// SaveStats implements Sink. The stored totals are replaced.
func (s *GormStore) SaveStats(ctx context.Context, username string, st Stats) error {
	return s.updateUser(ctx, username, map[string]any{
		"total_score":             st.TotalScore,
		"highest_level":           st.HighestLevel,
		"total_math_problems":     st.TotalMathProblems,
		"correct_math_problems":   st.CorrectMathProblems,
		"total_enemies_destroyed": st.TotalEnemiesDestroyed,
	})
}

// SaveSettings replaces username's settings.
func (s *GormStore) SaveSettings(ctx context.Context, username string, st Settings) error {
	return s.updateUser(ctx, username, map[string]any{"ammo_persistence": st.AmmoPersistence})
}

// ListUsers returns every username in registration order.
func (s *GormStore) ListUsers(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&User{}).Order("id").Pluck("username", &names).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return names, nil
}

// updateUser applies columns to username's row. Maps are used so zero values
// are written.
func (s *GormStore) updateUser(ctx context.Context, username string, columns map[string]any) error {
	res := s.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Updates(columns)
	if res.Error != nil {
		return fmt.Errorf("update user %s: %w", username, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return nil
}

func toProfile(u *User) Profile {
	p := Profile{
		Username:        u.Username,
		CreatedAt:       u.CreatedAt,
		LastLogin:       u.LastLogin,
		AmmunitionBanks: make(map[int]int, ammo.NumTiers),
		GameStats: Stats{
			TotalScore:            u.TotalScore,
			HighestLevel:          u.HighestLevel,
			TotalMathProblems:     u.TotalMathProblems,
			CorrectMathProblems:   u.CorrectMathProblems,
			TotalEnemiesDestroyed: u.TotalEnemiesDestroyed,
		},
		Settings: Settings{AmmoPersistence: u.AmmoPersistence},
	}
	for t := range ammo.NumTiers {
		p.AmmunitionBanks[t] = 0
	}
	for _, b := range u.Banks {
		if ammo.ValidTier(b.Tier) && b.Tier != 0 {
			p.AmmunitionBanks[b.Tier] = b.Count
		}
	}
	return p
}
