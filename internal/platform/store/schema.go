package store

import (
	"context"
	_ "embed"
	"strings"

	perr "purchaseinbox/internal/platform/errors"
)

//go:embed schema.sql
var schemaSQL string

// SchemaStatements returns the bootstrap DDL split into single statements
func SchemaStatements() []string {
	var out []string
	var b strings.Builder
	for line := range strings.SplitSeq(schemaSQL, "\n") {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
		if strings.HasSuffix(trim, ";") {
			out = append(out, strings.TrimSpace(b.String()))
			b.Reset()
		}
	}
	if rest := strings.TrimSpace(b.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

// EnsureSchema creates the pipeline tables when they are missing
// every statement is idempotent and the whole set runs in one transaction
func EnsureSchema(ctx context.Context, db TxRunner) error {
	if db == nil {
		return perr.Newf(perr.ErrorCodeUnavailable, "ensure schema: postgres is not configured")
	}
	return db.Tx(ctx, func(q RowQuerier) error {
		for _, stmt := range SchemaStatements() {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return perr.FromPostgresf(err, "ensure schema: %s", firstLine(stmt))
			}
		}
		return nil
	})
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
