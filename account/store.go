package account

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smplatform/identity/dal"
	"github.com/smplatform/identity/errors"
)

// Store is the persistence port for credentials.
type Store interface {
	// FindByUsername returns the credential for a username, or nil when
	// no such account exists.
	FindByUsername(ctx context.Context, username string) (*Credential, error)

	// Create persists a new credential and returns the stored record,
	// including the generated ID. A duplicate username yields CONFLICT.
	Create(ctx context.Context, cred *Credential) (*Credential, error)
}

// uniqueViolation is the Postgres error code for unique constraint breaks.
const uniqueViolation = "23505"

// Repository implements Store over the statement builder and executor.
type Repository struct {
	db *dal.Executor
}

// NewRepository creates a credential repository.
func NewRepository(db *dal.Executor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*Credential, error) {
	stmt := dal.Select(Credential{}, dal.SelectOptions{
		Condition: dal.Where("username", "=", username),
		Limit:     1,
	})
	rows, err := r.db.Fetch(ctx, stmt)
	if err != nil {
		return nil, err
	}
	row, ok := rows.One()
	if !ok {
		return nil, nil
	}
	return credentialFromRow(row), nil
}

func (r *Repository) Create(ctx context.Context, cred *Credential) (*Credential, error) {
	stmt := dal.Insert(cred, "*")
	rows, err := r.db.Fetch(ctx, stmt)
	if err != nil {
		// The service checks for an existing username first; the unique
		// index catches the race between check and insert.
		if isUniqueViolation(err) {
			return nil, errors.Conflict("username already registered").WithCause(err)
		}
		return nil, err
	}
	row, ok := rows.One()
	if !ok {
		return nil, errors.Internal(stderrors.New("insert returned no row"))
	}
	return credentialFromRow(row), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// credentialFromRow maps a fetched row onto a Credential. Unknown columns
// are ignored so schema additions do not break reads.
func credentialFromRow(row dal.Row) *Credential {
	c := &Credential{}
	if id, ok := asInt64(row["id"]); ok {
		c.ID = &id
	}
	c.Username, _ = row["username"].(string)
	c.Password, _ = row["password"].(string)
	if s, ok := row["full_name"].(string); ok {
		c.FullName = &s
	}
	if s, ok := row["google_id"].(string); ok {
		c.GoogleID = &s
	}
	return c
}

// asInt64 widens the integer types the driver may hand back.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
