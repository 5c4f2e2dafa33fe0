package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	StorageAPI    = "api"
	StorageSQLite = "sqlite"
	StorageNone   = "none"
)

// Settings is the typed view of the loaded configuration.
type Settings struct {
	LogLevel          string
	LogFile           string
	Username          string
	Password          string
	AmmoPersistence   bool
	MaxPerTier        int
	APIServerURL      string
	APITimeout        time.Duration
	APIListen         string
	StorageType       string
	SQLitePath        string
	InitialRequired   int
	InitialSpawnTicks int
	Lives             int
}

// Load sets defaults, reads mathblaster.json from configDir when present and
// binds MATHBLASTER_* environment variables (dots become underscores).
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "mathblaster.log")

	viper.SetDefault("player.username", "")
	viper.SetDefault("player.password", "")
	viper.SetDefault("player.ammoPersistence", true)

	viper.SetDefault("ammo.maxPerTier", 999)

	viper.SetDefault("api.serverUrl", "http://localhost:8001")
	viper.SetDefault("api.timeout", "5s")
	viper.SetDefault("api.listen", ":8001")

	viper.SetDefault("storage.type", StorageAPI)
	viper.SetDefault("storage.sqlite.path", "mathblaster.db")

	viper.SetDefault("progression.initialRequired", 10)
	viper.SetDefault("progression.initialSpawnTicks", 120)
	viper.SetDefault("game.lives", 3)

	viper.SetEnvPrefix("MATHBLASTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("mathblaster")
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Current returns the settings as currently loaded.
func Current() Settings {
	return Settings{
		LogLevel:          viper.GetString("logLevel"),
		LogFile:           viper.GetString("logFile"),
		Username:          viper.GetString("player.username"),
		Password:          viper.GetString("player.password"),
		AmmoPersistence:   viper.GetBool("player.ammoPersistence"),
		MaxPerTier:        viper.GetInt("ammo.maxPerTier"),
		APIServerURL:      viper.GetString("api.serverUrl"),
		APITimeout:        viper.GetDuration("api.timeout"),
		APIListen:         viper.GetString("api.listen"),
		StorageType:       strings.ToLower(viper.GetString("storage.type")),
		SQLitePath:        viper.GetString("storage.sqlite.path"),
		InitialRequired:   viper.GetInt("progression.initialRequired"),
		InitialSpawnTicks: viper.GetInt("progression.initialSpawnTicks"),
		Lives:             viper.GetInt("game.lives"),
	}
}
