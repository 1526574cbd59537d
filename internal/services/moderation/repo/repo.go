// Package repo persists moderation results
// comments and product scores live in Postgres, the audit trail in ClickHouse
package repo

import (
	"context"
	"time"

	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/store"
	"purchaseinbox/internal/services/moderation/domain"
)

// EventsTable receives one row per verdict
//
//	CREATE TABLE moderation_events (
//	  ts DateTime64(3), kind LowCardinality(String), ref_id String, allowed Bool,
//	  primary_score Float64, secondary_score Float64, source LowCardinality(String), reason String
//	) ENGINE = MergeTree ORDER BY (kind, ts)
const EventsTable = "moderation_events"

// CommentArgs is a comment row carrying its verdict
type CommentArgs struct {
	ID        string
	ProductID string
	UserID    string
	Body      string
	Verdict   domain.TextVerdict
}

// Repo is the moderation persistence surface
type Repo interface {
	InsertComment(ctx context.Context, in CommentArgs) (string, error)
	UpdateProductScores(ctx context.Context, productID string, v domain.ImageVerdict) error
	// RecordEvent is a no-op when ClickHouse is not configured
	RecordEvent(ctx context.Context, ev domain.Event) error
}

// NewHybrid returns a binder over Postgres plus an optional ClickHouse sink
func NewHybrid(ch store.Clickhouse) repokit.Binder[Repo] { return &hybridBinder{ch: ch} }

type hybridBinder struct{ ch store.Clickhouse }

func (b *hybridBinder) Bind(q repokit.Queryer) Repo { return &hybridStore{pg: q, ch: b.ch, now: time.Now} }

type hybridStore struct {
	pg  repokit.Queryer
	ch  store.Clickhouse
	now func() time.Time
}

func (s *hybridStore) InsertComment(ctx context.Context, in CommentArgs) (string, error) {
	var reason *string
	if in.Verdict.Reason != "" {
		reason = &in.Verdict.Reason
	}
	return store.Scalar[string](ctx, s.pg, `
		INSERT INTO comments (
			id, product_id, user_id, body, allowed, toxicity_score, spam_score,
			profanity_detected, reason, verdict_source
		) VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text`,
		in.ID, in.ProductID, in.UserID, in.Body, in.Verdict.Allowed,
		in.Verdict.ToxicityScore, in.Verdict.SpamScore, in.Verdict.ProfanityDetected,
		reason, string(in.Verdict.Source),
	)
}

func (s *hybridStore) UpdateProductScores(ctx context.Context, productID string, v domain.ImageVerdict) error {
	tag, err := s.pg.Exec(ctx, `
		UPDATE products
		   SET image_safe = $2, nsfw_score = $3, violence_score = $4, moderated_at = now()
		 WHERE id = $1::uuid`,
		productID, v.Safe, v.NSFWScore, v.ViolenceScore,
	)
	if err != nil {
		return err
	}
	if tag == nil || tag.RowsAffected() == 0 {
		return perr.ErrNotFound
	}
	return nil
}

func (s *hybridStore) RecordEvent(ctx context.Context, ev domain.Event) error {
	if s.ch == nil {
		return nil
	}
	return s.ch.Insert(ctx, EventsTable, [][]any{{
		s.now().UTC(), ev.Kind, ev.RefID, ev.Allowed,
		ev.Primary, ev.Secondary, string(ev.Source), ev.Reason,
	}})
}
