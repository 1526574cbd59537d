package store

import (
	"context"
	"errors"

	"purchaseinbox/internal/platform/store/ch"
)

// chAdapter exposes *ch.CH as the store Clickhouse seam
type chAdapter struct{ c *ch.CH }

var _ Clickhouse = (*chAdapter)(nil)

func (a *chAdapter) Insert(ctx context.Context, table string, rows [][]any) error {
	return a.c.Insert(ctx, table, rows)
}

func (a *chAdapter) Close() error { return a.c.Close() }

// Ping feeds the readiness check
func (a *chAdapter) Ping(ctx context.Context) error {
	if a == nil || a.c == nil {
		return errors.New("store: clickhouse not open")
	}
	return a.c.Ping(ctx)
}
