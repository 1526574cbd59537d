package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestFromPostgres_Codes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		state string
		want  ErrorCode
	}{
		{pgUniqueViolation, ErrorCodeConflict},
		{pgForeignKeyViolation, ErrorCodeValidation},
		{pgNotNullViolation, ErrorCodeValidation},
		{pgInvalidText, ErrorCodeValidation},
		{pgQueryCanceled, ErrorCodeUnavailable},
		{pgCannotConnectNow, ErrorCodeUnavailable},
		{"40P01", ErrorCodeDB},
	}
	for _, c := range cases {
		err := FromPostgres(&pgconn.PgError{Code: c.state}, "insert staging order")
		if got := CodeOf(err); got != c.want {
			t.Errorf("%s: got %v, want %v", c.state, got, c.want)
		}
	}
}

func TestFromPostgres_PassThrough(t *testing.T) {
	t.Parallel()
	if FromPostgres(nil, "x") != nil {
		t.Fatal("nil should stay nil")
	}
	err := FromPostgresf(fmt.Errorf("scan: %w", ErrNotFound), "load order %s", "o-1")
	if !IsCode(err, ErrorCodeNotFound) || !stderrs.Is(err, ErrNotFound) {
		t.Fatalf("coded cause lost: %v", err)
	}
	if !IsCode(FromPostgres(stderrs.New("eof"), "x"), ErrorCodeDB) {
		t.Fatal("foreign error should be DB")
	}
}

func TestFromPostgresWithField(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		pg   *pgconn.PgError
		want string
	}{
		{"column", &pgconn.PgError{Code: pgNotNullViolation, ColumnName: "sku"}, "sku"},
		{"constraint", &pgconn.PgError{Code: pgUniqueViolation, TableName: "vendors", ConstraintName: "vendors_name_key"}, "name"},
		{"fk", &pgconn.PgError{Code: pgForeignKeyViolation, TableName: "staging_orders", ConstraintName: "staging_orders_vendor_id_fkey"}, "vendor_id"},
		{"unknown constraint", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "qty_positive"}, ""},
	}
	for _, c := range cases {
		e, ok := As(FromPostgresWithField(c.pg, "save"))
		if !ok || e.Field() != c.want {
			t.Errorf("%s: field = %q, want %q", c.name, e.Field(), c.want)
		}
	}
}

func TestSchemaDrift(t *testing.T) {
	t.Parallel()
	if !IsSchemaDrift(fmt.Errorf("q: %w", &pgconn.PgError{Code: pgUndefinedColumn})) {
		t.Fatal("undefined column")
	}
	if !IsSchemaDrift(&pgconn.PgError{Code: pgUndefinedTable}) {
		t.Fatal("undefined table")
	}
	if IsSchemaDrift(&pgconn.PgError{Code: pgUniqueViolation}) || IsSchemaDrift(stderrs.New("x")) {
		t.Fatal("false positive")
	}
	if !IsSQLState(&pgconn.PgError{Code: "57014"}, "57014") {
		t.Fatal("IsSQLState")
	}
}
