package errors

import (
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repos care about
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
	pgInvalidText         = "22P02"
	pgQueryCanceled       = "57014"
	pgReadOnly            = "25006"
	pgCannotConnectNow    = "57P03"
	pgUndefinedColumn     = "42703"
	pgUndefinedTable      = "42P01"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a postgres error with SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == code
}

// IsSchemaDrift is true when a statement hit a column or table the database lacks
// an old schema degrades a feature instead of failing requests
func IsSchemaDrift(err error) bool {
	return IsSQLState(err, pgUndefinedColumn) || IsSQLState(err, pgUndefinedTable)
}

func pgCode(pgErr *pgconn.PgError) ErrorCode {
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrorCodeConflict
	case pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation, pgStringTooLong, pgInvalidText:
		return ErrorCodeValidation
	case pgQueryCanceled, pgReadOnly, pgCannotConnectNow:
		return ErrorCodeUnavailable
	}
	return ErrorCodeDB
}

// FromPostgres wraps err with a code derived from its SQLSTATE
// non postgres errors are DB errors, nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok && e.code != ErrorCodeUnknown {
		return Wrap(err, e.code, msg)
	}
	code := ErrorCodeDB
	if pgErr, ok := pgError(err); ok {
		code = pgCode(pgErr)
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is FromPostgres with a formatted message
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// FromPostgresWithField is FromPostgres plus the offending column when postgres reports one
// the column comes from ColumnName, or the middle of a "<table>_<column>_key" constraint
func FromPostgresWithField(err error, msg string) error {
	out := FromPostgres(err, msg)
	pgErr, ok := pgError(err)
	if !ok {
		return out
	}
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return WithField(out, col)
	}
	c := strings.TrimSpace(pgErr.ConstraintName)
	if t := strings.TrimSpace(pgErr.TableName); t != "" && strings.HasPrefix(c, t+"_") {
		c = strings.TrimPrefix(c, t+"_")
		for _, suffix := range []string{"_key", "_fkey", "_check"} {
			c = strings.TrimSuffix(c, suffix)
		}
		if c != "" {
			return WithField(out, c)
		}
	}
	return out
}
