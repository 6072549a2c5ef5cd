// Package sqlite stores reaction records in a local SQLite file.  It is the
// default store for single-instance runs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/turtacn/ReactionLab/internal/config"
	"github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
)

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const (
	insertSQL = `
		INSERT INTO reactions (
			reactant, reactant_smiles, catalyst, reaction_type,
			product, product_smiles, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	listSQL = `
		SELECT id, reactant, reactant_smiles, catalyst, reaction_type,
			product, product_smiles, details, created_at
		FROM reactions
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	countSQL = `SELECT COUNT(*) FROM reactions`
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// Store is a reaction.Repository over a SQLite database file.
type Store struct {
	db     *sql.DB
	dsn    string
	logger logging.Logger
	once   sync.Once
}

var _ reaction.Repository = (*Store)(nil)

// DSN builds the go-sqlite3 connection string for cfg.
func DSN(cfg config.SQLiteConfig) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprintf("%d", busy.Milliseconds()))
	q.Set("_foreign_keys", "on")
	q.Set("_journal_mode", "WAL")
	return "file:" + cfg.Path + "?" + q.Encode()
}

// Open opens (creating if needed) the database at cfg.Path.
func Open(cfg config.SQLiteConfig, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	dsn := DSN(cfg)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open sqlite database")
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "sqlite connection failed")
	}
	log.Info("opened SQLite database", logging.String("path", cfg.Path))
	return &Store{db: db, dsn: dsn, logger: log.Named("sqlite")}, nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Insert(ctx context.Context, rec *reaction.Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = nowUTC()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	res, err := s.db.ExecContext(ctx, insertSQL,
		rec.Reactant, rec.ReactantSMILES, rec.Catalyst, rec.ReactionType,
		rec.Product, rec.ProductSMILES, rec.Details, rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert reaction")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read inserted id")
	}
	rec.ID = id
	return nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]*reaction.Record, error) {
	rows, err := s.db.QueryContext(ctx, listSQL, reaction.ClampLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list reactions")
	}
	defer rows.Close()

	var out []*reaction.Record
	for rows.Next() {
		rec := &reaction.Record{}
		var created string
		if err := rows.Scan(
			&rec.ID, &rec.Reactant, &rec.ReactantSMILES, &rec.Catalyst, &rec.ReactionType,
			&rec.Product, &rec.ProductSMILES, &rec.Details, &created,
		); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan reaction")
		}
		if rec.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid created_at").WithDetail(created)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate reactions")
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, countSQL).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count reactions")
	}
	return n, nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "sqlite health check failed")
	}
	return nil
}

// Close closes the database once.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}

//Personal.AI order the ending
