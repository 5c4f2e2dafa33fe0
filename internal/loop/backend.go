package loop

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tomz197/mathblaster/internal/api"
	"github.com/tomz197/mathblaster/internal/config"
	"github.com/tomz197/mathblaster/internal/game"
	"github.com/tomz197/mathblaster/internal/practice"
	"github.com/tomz197/mathblaster/internal/storage"
)

// Backends are the remote collaborators of a session.
type Backends struct {
	Store  storage.Backend // Nil when persistence is off
	Oracle practice.ProblemOracle
	close  func() error
}

// Close releases any open database.
func (b Backends) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackends builds the store and problem oracle selected by settings.
// Problems always fall back to the local generator.
func OpenBackends(settings config.Settings, logger *log.Logger) (Backends, error) {
	local := practice.NewLocalGenerator(0)

	switch settings.StorageType {
	case config.StorageAPI:
		client := api.New(settings.APIServerURL, settings.APITimeout)
		client.Password = settings.Password
		logger.Info("using API backend", "url", settings.APIServerURL)
		return Backends{
			Store:  client,
			Oracle: &practice.FallbackOracle{Primary: client, Fallback: local, Logger: logger},
		}, nil

	case config.StorageSQLite:
		store, err := storage.OpenSQLite(settings.SQLitePath)
		if err != nil {
			return Backends{}, err
		}
		logger.Info("using sqlite backend", "path", settings.SQLitePath)
		return Backends{Store: store, Oracle: local, close: store.Close}, nil

	case config.StorageNone, "":
		return Backends{Oracle: local}, nil
	}
	return Backends{}, fmt.Errorf("unknown storage type %q", settings.StorageType)
}

// GameConfig maps the loaded settings onto game tunables.
func GameConfig(settings config.Settings) game.Config {
	return game.Config{
		Lives:             settings.Lives,
		MaxPerTier:        settings.MaxPerTier,
		InitialRequired:   settings.InitialRequired,
		InitialSpawnTicks: settings.InitialSpawnTicks,
	}
}
