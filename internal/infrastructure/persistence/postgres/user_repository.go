package postgres

import (
	"context"
	"database/sql"
	"errors"

	"smart-hr/internal/database"
	"smart-hr/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository keeps the account lookups on prepared statements; they run
// on every login and token refresh.
type UserRepository struct {
	stmtCreate         *sql.Stmt
	stmtGetByID        *sql.Stmt
	stmtGetByUsername  *sql.Stmt
	stmtUpsertUsername *sql.Stmt
}

const userColumns = `id, username, email, full_name, role, password_hash, created_at, updated_at`

func NewUserRepository(db database.DB) (*UserRepository, error) {
	if db == nil || db.SQLDB() == nil {
		return nil, errors.New("nil db")
	}
	sqlDB := db.SQLDB()
	r := &UserRepository{}

	prepare := func(dst **sql.Stmt, q string) error {
		s, err := sqlDB.PrepareContext(context.Background(), q)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}

	steps := []struct {
		dst **sql.Stmt
		q   string
	}{
		{&r.stmtCreate, `INSERT INTO users (id, username, email, full_name, role, password_hash) VALUES ($1, $2, $3, $4, $5, $6)`},
		{&r.stmtGetByID, `SELECT ` + userColumns + ` FROM users WHERE id = $1`},
		{&r.stmtGetByUsername, `SELECT ` + userColumns + ` FROM users WHERE username = $1`},
		{&r.stmtUpsertUsername, `INSERT INTO users (id, username, email, full_name, role, password_hash)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (username) DO NOTHING`},
	}
	for _, s := range steps {
		if err := prepare(s.dst, s.q); err != nil {
			_ = r.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *UserRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeStmt(r.stmtCreate)
	closeStmt(r.stmtGetByID)
	closeStmt(r.stmtGetByUsername)
	closeStmt(r.stmtUpsertUsername)

	return firstErr
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.stmtCreate.ExecContext(ctx, u.ID, user.NormalizeUsername(u.Username), u.Email, u.FullName, string(u.Role), u.PasswordHash)
	return err
}

// CreateIfAbsent is used by the account seeder; an existing username is left
// as is.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, u user.User) (bool, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	res, err := r.stmtUpsertUsername.ExecContext(ctx, u.ID, user.NormalizeUsername(u.Username), u.Email, u.FullName, string(u.Role), u.PasswordHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.stmtGetByID.QueryRowContext(ctx, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return scanUser(r.stmtGetByUsername.QueryRowContext(ctx, user.NormalizeUsername(username)))
}

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}
