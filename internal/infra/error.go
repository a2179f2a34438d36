package infra

import (
	"context"
	"log/slog"

	"marketplace-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindConflict           RepositoryErrorKind = "CONFLICT"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
	pgErrCodeExclusionViolation  = "23P01"
)

// WrapRepoErr classifies err and logs it once at the infra boundary. The kind
// is taken from kinds[0] when given, otherwise derived from the Postgres error
// code, defaulting to KindDBFailure. NotFound and Conflict are also marked with
// the matching errs sentinel so use cases can switch on them.
func WrapRepoErr(msg string, err error, kinds ...RepositoryErrorKind) error {
	kind := classifyPgErr(err)
	if len(kinds) > 0 {
		kind = kinds[0]
	}

	level := slog.LevelError
	if kind == KindNotFound || kind == KindConflict {
		level = slog.LevelInfo
	}
	slog.Log(context.Background(), level, "Repository error: "+msg,
		slog.String("kind", string(kind)))

	if err != nil {
		err = errs.Wrap(err, msg)
	}
	var out error = RepositoryError{Kind: kind, msg: msg, err: err}

	switch kind {
	case KindNotFound:
		out = errs.Mark(out, errs.ErrNotFound)
	case KindConflict:
		out = errs.Mark(out, errs.ErrConflict)
	}
	return out
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errs.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func classifyPgErr(err error) RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if !errs.As(err, &pgErr) {
		return KindDBFailure
	}
	switch pgErr.Code {
	case pgErrCodeUniqueViolation:
		return KindDuplicateKey
	case pgErrCodeExclusionViolation:
		return KindConflict
	case pgErrCodeForeignKeyViolation:
		return KindForeignKeyViolated
	default:
		return KindDBFailure
	}
}
