package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
)

// queryExecutor abstracts sql.DB and sql.Tx
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const (
	insertReactionSQL = `
		INSERT INTO reactions (
			reactant, reactant_smiles, catalyst, reaction_type,
			product, product_smiles, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	listReactionsSQL = `
		SELECT id, reactant, reactant_smiles, catalyst, reaction_type,
			product, product_smiles, details, created_at
		FROM reactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	countReactionsSQL = `SELECT COUNT(*) FROM reactions`
)

var nowUTC = func() time.Time { return time.Now().UTC() }

type reactionRepo struct {
	conn     *Connection
	log      logging.Logger
	executor queryExecutor
}

// NewReactionRepository returns a reaction.Repository backed by conn.
func NewReactionRepository(conn *Connection, log logging.Logger) reaction.Repository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &reactionRepo{conn: conn, log: log.Named("postgres"), executor: conn.DB()}
}

func (r *reactionRepo) Insert(ctx context.Context, rec *reaction.Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = nowUTC()
	}
	err := r.executor.QueryRowContext(ctx, insertReactionSQL,
		rec.Reactant, rec.ReactantSMILES, rec.Catalyst, rec.ReactionType,
		rec.Product, rec.ProductSMILES, rec.Details, createdAt,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return wrapPgError(err, "failed to insert reaction")
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return nil
}

func (r *reactionRepo) ListRecent(ctx context.Context, limit int) ([]*reaction.Record, error) {
	rows, err := r.executor.QueryContext(ctx, listReactionsSQL, reaction.ClampLimit(limit))
	if err != nil {
		return nil, wrapPgError(err, "failed to list reactions")
	}
	defer rows.Close()

	var out []*reaction.Record
	for rows.Next() {
		rec := &reaction.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.Reactant, &rec.ReactantSMILES, &rec.Catalyst, &rec.ReactionType,
			&rec.Product, &rec.ProductSMILES, &rec.Details, &rec.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan reaction")
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError(err, "failed to iterate reactions")
	}
	return out, nil
}

func (r *reactionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.executor.QueryRowContext(ctx, countReactionsSQL).Scan(&n); err != nil {
		return 0, wrapPgError(err, "failed to count reactions")
	}
	return n, nil
}

func (r *reactionRepo) HealthCheck(ctx context.Context) error {
	return r.conn.HealthCheck(ctx)
}

func (r *reactionRepo) Close() error {
	return r.conn.Close()
}

// wrapPgError wraps err as a database error, carrying the SQLSTATE when the
// server reported one.
func wrapPgError(err error, msg string) error {
	appErr := errors.Wrap(err, errors.ErrCodeDatabaseError, msg)
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return appErr.WithDetail("sqlstate " + pgErr.Code)
	}
	return appErr
}

//Personal.AI order the ending
