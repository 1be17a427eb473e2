package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/timex"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSelectAccount = `SELECT id, email, name, password, is_active, is_staff, is_superuser, last_login, created_at
		 FROM accounts`

// SQLiteRepository stores accounts in SQLite. Timestamps are kept as UTC
// unix milliseconds.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, email, name, password, is_active, is_staff, is_superuser, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := r.now()
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.Name, a.PasswordHash, a.IsActive, a.IsStaff, a.IsSuperuser, timex.ToMillis(createdAt))

	if err != nil {
		return nil, sqliteError(err)
	}

	a.CreatedAt = timex.FromMillis(timex.ToMillis(createdAt))
	return a, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, a *models.Account) error {

	query :=
		`UPDATE accounts
		 SET name = ?, password = ?, is_active = ?, is_staff = ?, is_superuser = ?
		 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, a.Name, a.PasswordHash, a.IsActive, a.IsStaff, a.IsSuperuser, a.ID)
	if err != nil {
		return sqliteError(err)
	}

	return requireOneRow(res)
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, sqliteSelectAccount+` WHERE email = ?`, email)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, sqliteSelectAccount+` WHERE id = ?`, id)
}

func (r *SQLiteRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {

	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET last_login = ? WHERE id = ?`, timex.ToMillis(at), id)
	if err != nil {
		return sqliteError(err)
	}

	return requireOneRow(res)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg string) (*models.Account, error) {
	a := &models.Account{}
	var lastLogin sql.NullInt64
	var createdAt int64

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.IsActive, &a.IsStaff, &a.IsSuperuser, &lastLogin, &createdAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.CreatedAt = timex.FromMillis(createdAt)
	if lastLogin.Valid {
		t := timex.FromMillis(lastLogin.Int64)
		a.LastLogin = &t
	}

	return a, nil
}

// IsSQLiteUniqueViolation reports whether err came from a UNIQUE or PRIMARY
// KEY constraint.
func IsSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

func sqliteError(err error) error {
	if IsSQLiteUniqueViolation(err) {
		return fmt.Errorf("db error: %w", common.ErrorAlreadyExists)
	}
	return fmt.Errorf("db error: %w", err)
}
