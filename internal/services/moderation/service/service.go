// Package service decides whether comments and images may be published
package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"purchaseinbox/internal/adapters/classifier"
	"purchaseinbox/internal/core/lexicon"
	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/services/moderation/domain"
	"purchaseinbox/internal/services/moderation/repo"

	"github.com/google/uuid"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Options control service behavior
// nil classifiers are replaced by classifier.Nop
type Options struct {
	Text    classifier.TextClassifier
	Image   classifier.ImageClassifier
	Lexicon *lexicon.Lexicon
}

// Svc implements the moderation service
type Svc struct {
	Repo  repo.Repo
	score *Scorer
	text  classifier.TextClassifier
	image classifier.ImageClassifier
	newID func() (uuid.UUID, error)
	log   logger.Logger
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("moderation.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("moderation.Service requires a non nil Repo binder")
	}
	lx := opt.Lexicon
	if lx == nil {
		lx = lexicon.MustDefault()
	}
	s := &Svc{
		Repo:  binder.Bind(db),
		score: NewScorer(lx),
		text:  opt.Text,
		image: opt.Image,
		newID: uuid.NewV7,
		log:   *logger.Named("moderation"),
	}
	if s.text == nil {
		s.text = classifier.Nop{}
	}
	if s.image == nil {
		s.image = classifier.Nop{}
	}
	return s
}

// ModerateText scores in.Text and optionally stores it as a comment
func (s *Svc) ModerateText(ctx context.Context, in domain.TextInput) (domain.TextVerdict, error) {
	if strings.TrimSpace(in.Text) == "" {
		return domain.TextVerdict{}, perr.WithField(perr.Validationf("text is required"), "text")
	}
	if in.SaveResult {
		if err := requireUUID(in.ProductID, "product_id"); err != nil {
			return domain.TextVerdict{}, err
		}
		if err := requireUUID(in.UserID, "user_id"); err != nil {
			return domain.TextVerdict{}, err
		}
	}

	v := s.score.Text(in.Text)
	ext, err := s.text.ClassifyText(ctx, in.Text)
	switch {
	case err == nil:
		v = mergeText(v, ext)
	case errors.Is(err, classifier.ErrDisabled):
	default:
		s.log.Warn().Err(err).Msg("text classifier unavailable, using local verdict")
	}

	if in.SaveResult {
		id, err := s.newID()
		if err != nil {
			return domain.TextVerdict{}, perr.Wrap(err, perr.ErrorCodeUnknown, "comment id")
		}
		cid, err := s.Repo.InsertComment(ctx, repo.CommentArgs{
			ID:        id.String(),
			ProductID: in.ProductID,
			UserID:    in.UserID,
			Body:      strings.TrimSpace(in.Text),
			Verdict:   v,
		})
		if err != nil {
			return domain.TextVerdict{}, perr.FromPostgresWithField(err, "save comment")
		}
		v.CommentID = cid
	}

	s.audit(ctx, domain.Event{
		Kind: "text", RefID: v.CommentID, Allowed: v.Allowed,
		Primary: v.ToxicityScore, Secondary: v.SpamScore,
		Source: v.Source, Reason: v.Reason,
	})
	return v, nil
}

// mergeText lets the external answer decide toxicity while local spam still rejects
func mergeText(local domain.TextVerdict, ext classifier.TextVerdict) domain.TextVerdict {
	v := local
	v.Source = domain.SourceExternal
	v.ToxicityScore = clamp01(ext.Toxicity)
	v.Allowed = ext.Allowed && local.SpamScore < domain.Threshold
	if !ext.Allowed {
		v.Reason = joinReason("toxic content", local.Reason)
	}
	return v
}

// ModerateImage scores an image url and optionally writes the scores to the product
func (s *Svc) ModerateImage(ctx context.Context, in domain.ImageInput) (domain.ImageVerdict, error) {
	raw := strings.TrimSpace(in.ImageURL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ImageVerdict{}, perr.WithField(perr.Validationf("image_url must be an absolute http(s) url"), "image_url")
	}
	if in.UpdateProduct {
		if err := requireUUID(in.ProductID, "product_id"); err != nil {
			return domain.ImageVerdict{}, err
		}
	}

	var v domain.ImageVerdict
	ss, err := s.image.ClassifyImage(ctx, raw)
	switch {
	case err == nil:
		v = FromSafeSearch(ss)
	case errors.Is(err, classifier.ErrDisabled):
		v = s.score.ImageURL(raw)
	default:
		s.log.Warn().Err(err).Msg("image classifier unavailable, using url scan")
		v = s.score.ImageURL(raw)
	}

	if in.UpdateProduct {
		if err := s.Repo.UpdateProductScores(ctx, in.ProductID, v); err != nil {
			if errors.Is(err, perr.ErrNotFound) {
				return domain.ImageVerdict{}, perr.WithField(perr.NotFoundf("product not found"), "product_id")
			}
			return domain.ImageVerdict{}, perr.FromPostgresWithField(err, "update product scores")
		}
	}

	ref := ""
	if in.UpdateProduct {
		ref = in.ProductID
	}
	s.audit(ctx, domain.Event{
		Kind: "image", RefID: ref, Allowed: v.Safe,
		Primary: v.NSFWScore, Secondary: v.ViolenceScore,
		Source: v.Source, Reason: v.Reason,
	})
	return v, nil
}

// FromSafeSearch maps classifier likelihoods onto a verdict
func FromSafeSearch(ss classifier.SafeSearch) domain.ImageVerdict {
	v := domain.ImageVerdict{
		AdultScore:    ss.Adult.Score(),
		RacyScore:     ss.Racy.Score(),
		ViolenceScore: ss.Violence.Score(),
		SpoofScore:    ss.Spoof.Score(),
		MedicalScore:  ss.Medical.Score(),
		Source:        domain.SourceExternal,
	}
	v.NSFWScore = max(v.AdultScore, 0.7*v.RacyScore)
	v.Safe = v.NSFWScore < 0.5 && v.ViolenceScore < 0.5

	var why []string
	if v.NSFWScore >= 0.5 {
		why = append(why, "adult content")
	}
	if v.ViolenceScore >= 0.5 {
		why = append(why, "violent content")
	}
	v.Reason = strings.Join(why, ", ")
	return v
}

// audit is best effort
func (s *Svc) audit(ctx context.Context, ev domain.Event) {
	if err := s.Repo.RecordEvent(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("kind", ev.Kind).Msg("moderation event not recorded")
	}
}

func requireUUID(v, field string) error {
	if strings.TrimSpace(v) == "" {
		return perr.WithField(perr.Validationf("%s is required", field), field)
	}
	if _, err := uuid.Parse(v); err != nil {
		return perr.WithField(perr.Validationf("%s must be a uuid", field), field)
	}
	return nil
}

func joinReason(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + ", " + b
}
