//go:build integration_pg
// +build integration_pg

// Package pgtest starts a disposable postgres with the service schema applied
package pgtest

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"purchaseinbox/internal/platform/store"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Start launches postgres, runs EnsureSchema and returns the runner
// the container is terminated on test cleanup
func Start(t *testing.T) store.TxRunner {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	s, err := store.Open(ctx, store.Config{
		AppName: "purchaseinbox-integration",
		PG: store.PGConfig{
			Enabled:  true,
			URL:      fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port()),
			MaxConns: 4,
		},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	if err := store.EnsureSchema(ctx, s.PG); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return s.PG
}

// AddUser inserts an account and returns its id
func AddUser(t *testing.T, db store.RowQuerier, email string) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(),
		`INSERT INTO users (id, email) VALUES (gen_random_uuid(), $1) RETURNING id::text`, email).Scan(&id)
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	return id
}
