package store

import (
	"errors"

	"carpool/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate classifies driver errors. Everything Postgres reports about
// constraints is decided here and nowhere else.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.Wrap(apperr.ErrNoRows, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Wrap(apperr.ErrUnique, err)
		case pgForeignKeyViolation:
			return apperr.Wrap(apperr.ErrForeignKey, err)
		}
	}
	return err
}
