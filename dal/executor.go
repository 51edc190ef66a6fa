package dal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/smplatform/identity/errors"
	"github.com/smplatform/identity/logger"
)

// Row is a single result row as a field-name → value mapping.
type Row = map[string]any

// Rows is an ordered list of result rows. Fetch operations return the
// tri-state shape callers branch on: zero rows, exactly one, or many.
type Rows []Row

// Empty reports whether no rows matched.
func (r Rows) Empty() bool { return len(r) == 0 }

// One returns the row and true when exactly one row matched.
func (r Rows) One() (Row, bool) {
	if len(r) == 1 {
		return r[0], true
	}
	return nil, false
}

// TxBeginner starts transactions. *pgxpool.Pool satisfies it; tests
// substitute fakes.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Executor runs statements against a bounded connection pool, one
// transaction per statement: commit on success, rollback on any failure.
// Failures are logged and returned as STORAGE_FAILURE; callers can always
// distinguish "no rows matched" from "the statement failed".
type Executor struct {
	pool   TxBeginner
	log    *logger.Logger
	tracer trace.Tracer
}

// New connects a pool from config and returns an executor. The context
// bounds the initial connect and ping.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Executor, error) {
	if log == nil {
		log = logger.Nop()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dal: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("dal: parse dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		poolCfg.MaxConnLifetime = lifetime
	}

	connectTimeout, _ := time.ParseDuration(cfg.ConnectTimeout)
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("dal: connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("dal: ping: %w", err)
	}

	log.Info("database pool established", logger.Fields(
		"host", cfg.Host, "database", cfg.Name, "max_conns", cfg.MaxConns))
	return NewWithPool(pool, log), nil
}

// NewWithPool wraps an existing transaction source. Used by tests and by
// callers that share one pool across components.
func NewWithPool(pool TxBeginner, log *logger.Logger) *Executor {
	if log == nil {
		log = logger.Nop()
	}
	return &Executor{
		pool:   pool,
		log:    log.WithComponent("dal"),
		tracer: otel.Tracer("identity/dal"),
	}
}

// Exec runs a statement and discards any result rows.
func (e *Executor) Exec(ctx context.Context, stmt Statement) error {
	_, err := e.run(ctx, stmt, false)
	return err
}

// Fetch runs a statement and returns the matched rows.
func (e *Executor) Fetch(ctx context.Context, stmt Statement) (Rows, error) {
	return e.run(ctx, stmt, true)
}

// ExecJSON is Exec with structured parameter values wrapped as JSON first.
func (e *Executor) ExecJSON(ctx context.Context, stmt Statement) error {
	return e.Exec(ctx, JSONParams(stmt))
}

// FetchJSON is Fetch with structured parameter values wrapped as JSON first.
func (e *Executor) FetchJSON(ctx context.Context, stmt Statement) (Rows, error) {
	return e.Fetch(ctx, JSONParams(stmt))
}

// ExecBatch applies the same statement against every payload in
// stmt.Batch in a single round trip, inside one transaction. Serves both
// batch inserts and batch updates.
func (e *Executor) ExecBatch(ctx context.Context, stmt Statement) error {
	ctx, span := e.tracer.Start(ctx, "dal.batch",
		trace.WithAttributes(attribute.Int("db.batch_size", len(stmt.Batch))))
	defer span.End()

	if len(stmt.Batch) == 0 {
		return errors.Validation("batch execution requires at least one payload")
	}
	text, names := orderedNames(stmt.Text)

	batch := &pgx.Batch{}
	for _, p := range stmt.Batch {
		args, err := argsFor(names, p)
		if err != nil {
			return err
		}
		batch.Queue(text, args...)
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return e.failed(ctx, "batch", stmt, err)
	}

	results := tx.SendBatch(ctx, batch)
	for range stmt.Batch {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			_ = tx.Rollback(ctx)
			return e.failed(ctx, "batch", stmt, err)
		}
	}
	if err := results.Close(); err != nil {
		_ = tx.Rollback(ctx)
		return e.failed(ctx, "batch", stmt, err)
	}
	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return e.failed(ctx, "batch", stmt, err)
	}
	return nil
}

// run executes one statement in its own transaction.
func (e *Executor) run(ctx context.Context, stmt Statement, fetch bool) (Rows, error) {
	op := "exec"
	if fetch {
		op = "fetch"
	}
	ctx, span := e.tracer.Start(ctx, "dal."+op,
		trace.WithAttributes(attribute.String("db.statement", sanitizeStatement(stmt.Text))))
	defer span.End()

	var (
		text string
		args []any
		err  error
	)
	if stmt.Batch != nil {
		// Multi-row statement from BuildBulkInsert: one placeholder group
		// per payload in a single command.
		text, args, err = rewriteBulk(stmt.Text, stmt.Batch)
	} else {
		text, args, err = rewriteNamed(stmt.Text, stmt.Params)
	}
	if err != nil {
		return nil, err
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, e.failed(ctx, op, stmt, err)
	}

	var result Rows
	if fetch {
		rows, queryErr := tx.Query(ctx, text, args...)
		if queryErr != nil {
			_ = tx.Rollback(ctx)
			return nil, e.failed(ctx, op, stmt, queryErr)
		}
		result, err = collectRows(rows)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, e.failed(ctx, op, stmt, err)
		}
	} else {
		if _, execErr := tx.Exec(ctx, text, args...); execErr != nil {
			_ = tx.Rollback(ctx)
			return nil, e.failed(ctx, op, stmt, execErr)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return nil, e.failed(ctx, op, stmt, err)
	}
	return result, nil
}

// failed logs an execution failure and wraps it as STORAGE_FAILURE. The
// log line is a side effect; the returned error is the signal.
func (e *Executor) failed(ctx context.Context, op string, stmt Statement, cause error) error {
	e.log.Error("statement failed", logger.ErrorFields(op, cause),
		logger.Fields(logger.FieldStatement, sanitizeStatement(stmt.Text)))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.StorageFailure(cause).WithDetail("canceled", true)
	}
	return errors.StorageFailure(cause)
}

func collectRows(rows pgx.Rows) (Rows, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out Rows
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
