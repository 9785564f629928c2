package db

import (
	"errors"

	"user_management_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes translated at the store boundary.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// TranslateError maps store errors onto the application error taxonomy:
// no rows becomes NotFound, unique violations Conflict, foreign-key
// violations BadRequest and everything else Internal.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.Wrap(apperr.KindNotFound, apperr.CodeNotFound, "Resource not found", err).WithOp(op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Wrap(apperr.KindConflict, apperr.CodeConflict, "Resource already exists", err).WithOp(op)
		case pgForeignKeyViolation:
			return apperr.Wrap(apperr.KindBadRequest, apperr.CodeInvalidReference, "Invalid reference", err).WithOp(op)
		}
	}

	return apperr.Internal("database error", err).WithOp(op)
}
