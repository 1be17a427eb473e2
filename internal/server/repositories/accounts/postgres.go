package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

const pgSelectAccount = `SELECT id, email, name, password, is_active, is_staff, is_superuser, last_login, created_at
		 FROM accounts`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, email, name, password, is_active, is_staff, is_superuser)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Email, a.Name, a.PasswordHash, a.IsActive, a.IsStaff, a.IsSuperuser).Scan(&a.CreatedAt)

	if err != nil {
		return nil, pgError(err)
	}

	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Account) error {

	query :=
		`UPDATE accounts
		 SET name = $2, password = $3, is_active = $4, is_staff = $5, is_superuser = $6
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.PasswordHash, a.IsActive, a.IsStaff, a.IsSuperuser)
	if err != nil {
		return pgError(err)
	}

	return requireOneRow(res)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, pgSelectAccount+` WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, pgSelectAccount+` WHERE id = $1`, id)
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {

	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return pgError(err)
	}

	return requireOneRow(res)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.Account, error) {
	a := &models.Account{}
	var lastLogin sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.IsActive, &a.IsStaff, &a.IsSuperuser, &lastLogin, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}

	return a, nil
}

func pgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("db error: %w: %s", common.ErrorAlreadyExists, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
