package db

import (
	"errors"
	"fmt"
	"testing"

	"user_management_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind apperr.Kind
		code apperr.Code
	}{
		{"no rows", pgx.ErrNoRows, apperr.KindNotFound, apperr.CodeNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.KindNotFound, apperr.CodeNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, apperr.KindConflict, apperr.CodeConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperr.KindBadRequest, apperr.CodeInvalidReference},
		{"other pg", &pgconn.PgError{Code: "42P01"}, apperr.KindInternal, apperr.CodeInternal},
		{"plain", errors.New("connection reset"), apperr.KindInternal, apperr.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TranslateError("users.get", tc.err)
			if apperr.GetKind(got) != tc.kind {
				t.Fatalf("kind = %v, want %v", apperr.GetKind(got), tc.kind)
			}
			if apperr.GetCode(got) != tc.code {
				t.Fatalf("code = %q, want %q", apperr.GetCode(got), tc.code)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("translated error should wrap the cause")
			}
		})
	}
}

func TestTranslateErrorNil(t *testing.T) {
	if err := TranslateError("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
