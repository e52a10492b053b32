package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("record already exists")
	ErrReference = errors.New("referenced record not found")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError converts driver errors into the package sentinels, keeping the
// original error in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(ErrConflict, err)
		case pgForeignKeyViolation:
			return errors.Join(ErrReference, err)
		}
	}
	return err
}
