// Package database selects and opens the reaction record store configured
// by store.driver.
package database

import (
	"context"

	"github.com/turtacn/ReactionLab/internal/config"
	"github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/database/memory"
	"github.com/turtacn/ReactionLab/internal/infrastructure/database/postgres"
	"github.com/turtacn/ReactionLab/internal/infrastructure/database/sqlite"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
)

// Repository is the persistence port the rest of the application uses.
type Repository = reaction.Repository

// Migrator manages schema versions for a store.
type Migrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context, steps int) error
	Status(ctx context.Context) (version uint, dirty bool, err error)
}

// Store bundles an open repository with its migrator.
type Store struct {
	Repository
	Migrator Migrator
	Driver   string
}

// Open connects to the configured store.  When cfg.AutoMigrate is set,
// pending migrations are applied before returning.
func Open(ctx context.Context, cfg config.StoreConfig, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	var st *Store
	switch cfg.Driver {
	case config.StoreDriverMemory:
		st = &Store{Repository: memory.New(), Migrator: noopMigrator{}}
	case config.StoreDriverSQLite:
		s, err := sqlite.Open(cfg.SQLite, log)
		if err != nil {
			return nil, err
		}
		st = &Store{Repository: s, Migrator: sqlite.NewMigrator(s, log)}
	case config.StoreDriverPostgres:
		conn, err := postgres.NewConnection(cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		st = &Store{
			Repository: postgres.NewReactionRepository(conn, log),
			Migrator:   postgres.NewMigrator(conn, log),
		}
	default:
		return nil, errors.Newf(errors.ErrCodeValidation, "unknown store driver %q", cfg.Driver)
	}
	st.Driver = cfg.Driver

	if cfg.AutoMigrate {
		if err := st.Migrator.Up(ctx); err != nil {
			_ = st.Close()
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to migrate store")
		}
	}
	log.Info("reaction store ready", logging.String("driver", cfg.Driver))
	return st, nil
}

type noopMigrator struct{}

func (noopMigrator) Up(context.Context) error                   { return nil }
func (noopMigrator) Down(context.Context, int) error            { return nil }
func (noopMigrator) Status(context.Context) (uint, bool, error) { return 0, false, nil }

//Personal.AI order the ending
