package ch

import (
	"context"
	"testing"
)

func TestOpen_RejectsEmptyAndBadDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := Open(context.Background(), Config{URL: "clickhouse://host:notaport/db?dial_timeout=bogus"}); err == nil {
		t.Fatalf("expected error for malformed dsn")
	}
}

func TestInsert_EmptyBatchIsNoop(t *testing.T) {
	t.Parallel()

	cl := &CH{}
	if err := cl.Insert(context.Background(), "moderation_events", nil); err != nil {
		t.Fatalf("empty insert should be a no-op, got %v", err)
	}
}

func TestClose_NilSafe(t *testing.T) {
	t.Parallel()

	var cl *CH
	if err := cl.Close(); err != nil {
		t.Fatalf("nil Close returned error: %v", err)
	}
	if err := (&CH{}).Close(); err != nil {
		t.Fatalf("zero Close returned error: %v", err)
	}
}

func TestBuildClientInfo_DefaultsName(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo("  ", "api")
	if len(ci.Products) == 0 {
		t.Fatalf("expected products")
	}
	if ci.Products[0].Name != "purchaseinbox" || ci.Products[0].Version != "api" {
		t.Fatalf("unexpected first product: %+v", ci.Products[0])
	}
}
