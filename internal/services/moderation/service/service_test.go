package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"purchaseinbox/internal/adapters/classifier"
	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/store"
	"purchaseinbox/internal/platform/testkit"
	"purchaseinbox/internal/services/moderation/domain"
	"purchaseinbox/internal/services/moderation/repo"
)

const (
	productID = "0199a2c4-7d1e-7b3a-9f10-2b4c5d6e7f80"
	userID    = "0199a2c4-7d1e-7b3a-9f10-2b4c5d6e7f81"
)

type nopTx struct{}

func (nopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopTx) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (n nopTx) Tx(_ context.Context, fn func(repokit.Queryer) error) error   { return fn(n) }

type fakeRepo struct {
	comments []repo.CommentArgs
	scores   map[string]domain.ImageVerdict
	events   []domain.Event
	eventErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{scores: map[string]domain.ImageVerdict{productID: {}}}
}

func (f *fakeRepo) Bind(repokit.Queryer) repo.Repo { return f }

func (f *fakeRepo) InsertComment(_ context.Context, in repo.CommentArgs) (string, error) {
	f.comments = append(f.comments, in)
	return in.ID, nil
}

func (f *fakeRepo) UpdateProductScores(_ context.Context, id string, v domain.ImageVerdict) error {
	if _, ok := f.scores[id]; !ok {
		return perr.ErrNotFound
	}
	f.scores[id] = v
	return nil
}

func (f *fakeRepo) RecordEvent(_ context.Context, ev domain.Event) error {
	f.events = append(f.events, ev)
	return f.eventErr
}

type textStub struct {
	v   classifier.TextVerdict
	err error
}

func (s textStub) ClassifyText(context.Context, string) (classifier.TextVerdict, error) { return s.v, s.err }

type imageStub struct {
	ss  classifier.SafeSearch
	err error
}

func (s imageStub) ClassifyImage(context.Context, string) (classifier.SafeSearch, error) {
	return s.ss, s.err
}

func newSvc(r *fakeRepo, opt Options) *Svc { return New(nopTx{}, r, opt) }

func TestNew_PanicsOnNilDeps(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { New(nil, newFakeRepo(), Options{}) })
	testkit.MustPanic(t, func() { New(nopTx{}, nil, Options{}) })
}

func TestModerateText_LocalOnly(t *testing.T) {
	t.Parallel()
	r := newFakeRepo()
	v, err := newSvc(r, Options{}).ModerateText(context.Background(), domain.TextInput{Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if v.Source != domain.SourceLocal || v.SpamScore < 0.5 || !v.Allowed {
		t.Fatalf("verdict = %+v", v)
	}
	if len(r.comments) != 0 || len(r.events) != 1 || r.events[0].Kind != "text" {
		t.Fatalf("comments=%d events=%+v", len(r.comments), r.events)
	}
}

func TestModerateText_External(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		text    string
		ext     classifier.TextVerdict
		allowed bool
		tox     float64
	}{
		{"external allows", "You are all idiots", classifier.TextVerdict{Toxicity: 0.3, Allowed: true}, true, 0.3},
		{"external rejects", "nice lamp", classifier.TextVerdict{Toxicity: 0.95}, false, 0.95},
		{"external overrides local toxicity", "WHAT THE FUCK!!!", classifier.TextVerdict{Toxicity: 0.2, Allowed: true}, true, 0.2},
		{"local spam still rejects", "buy now click here http://deals.example", classifier.TextVerdict{Toxicity: 0.01, Allowed: true}, false, 0.01},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := newSvc(newFakeRepo(), Options{Text: textStub{v: tc.ext}})
			v, err := s.ModerateText(context.Background(), domain.TextInput{Text: tc.text})
			if err != nil {
				t.Fatal(err)
			}
			if v.Allowed != tc.allowed || v.ToxicityScore != tc.tox || v.Source != domain.SourceExternal {
				t.Fatalf("verdict = %+v", v)
			}
		})
	}
}

func TestModerateText_ClassifierFailureFallsBack(t *testing.T) {
	t.Parallel()
	s := newSvc(newFakeRepo(), Options{Text: textStub{err: perr.Unavailablef("classifier: status 500")}})
	v, err := s.ModerateText(context.Background(), domain.TextInput{Text: "WHAT THE FUCK!!!"})
	if err != nil {
		t.Fatalf("classifier failure must not surface: %v", err)
	}
	if v.Source != domain.SourceLocal || v.Allowed || !v.ProfanityDetected {
		t.Fatalf("verdict = %+v", v)
	}
}

func TestModerateText_Save(t *testing.T) {
	t.Parallel()
	r := newFakeRepo()
	s := newSvc(r, Options{})
	v, err := s.ModerateText(context.Background(), domain.TextInput{
		Text: "  WHAT THE FUCK!!!  ", ProductID: productID, UserID: userID, SaveResult: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if v.CommentID == "" || len(r.comments) != 1 {
		t.Fatalf("comment not stored: %+v", v)
	}
	c := r.comments[0]
	if c.Body != "WHAT THE FUCK!!!" || c.Verdict.Allowed || c.ProductID != productID || c.UserID != userID {
		t.Fatalf("stored = %+v", c)
	}
	if r.events[0].RefID != v.CommentID {
		t.Fatalf("event ref = %q", r.events[0].RefID)
	}
}

func TestModerateText_Validation(t *testing.T) {
	t.Parallel()
	s := newSvc(newFakeRepo(), Options{})
	cases := []struct {
		in    domain.TextInput
		field string
	}{
		{domain.TextInput{Text: "   "}, "text"},
		{domain.TextInput{Text: "ok then", SaveResult: true, UserID: userID}, "product_id"},
		{domain.TextInput{Text: "ok then", SaveResult: true, ProductID: productID, UserID: "nope"}, "user_id"},
	}
	for _, tc := range cases {
		_, err := s.ModerateText(context.Background(), tc.in)
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != tc.field {
			t.Fatalf("%+v: err = %v", tc.in, err)
		}
	}
}

func TestModerateText_AuditFailureIsQuiet(t *testing.T) {
	t.Parallel()
	r := newFakeRepo()
	r.eventErr = errors.New("clickhouse down")
	if _, err := newSvc(r, Options{}).ModerateText(context.Background(), domain.TextInput{Text: "fine lamp"}); err != nil {
		t.Fatal(err)
	}
}

func TestFromSafeSearch(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		ss       classifier.SafeSearch
		nsfw     float64
		violence float64
		safe     bool
	}{
		{"all unlikely", classifier.SafeSearch{Adult: classifier.VeryUnlikely, Racy: classifier.Unlikely}, 0.175, 0, true},
		{"racy likely", classifier.SafeSearch{Racy: classifier.Likely}, 0.525, 0, false},
		{"adult possible", classifier.SafeSearch{Adult: classifier.Possible}, 0.5, 0, false},
		{"violent", classifier.SafeSearch{Violence: classifier.VeryLikely}, 0, 1, false},
		{"unknown", classifier.SafeSearch{Adult: classifier.Unknown}, 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := FromSafeSearch(tc.ss)
			if !near(v.NSFWScore, tc.nsfw) || v.ViolenceScore != tc.violence || v.Safe != tc.safe {
				t.Fatalf("verdict = %+v", v)
			}
			if !v.Safe && v.Reason == "" {
				t.Fatal("unsafe verdict without reason")
			}
		})
	}
}

func TestModerateImage(t *testing.T) {
	t.Parallel()
	t.Run("external answer", func(t *testing.T) {
		t.Parallel()
		r := newFakeRepo()
		s := newSvc(r, Options{Image: imageStub{ss: classifier.SafeSearch{Adult: classifier.VeryLikely}}})
		v, err := s.ModerateImage(context.Background(), domain.ImageInput{
			ImageURL: "https://lamp.example/img/lamp.jpg", ProductID: productID, UpdateProduct: true,
		})
		if err != nil {
			t.Fatal(err)
		}
		if v.Safe || v.Source != domain.SourceExternal {
			t.Fatalf("verdict = %+v", v)
		}
		if got := r.scores[productID]; got.NSFWScore != 1 {
			t.Fatalf("product scores = %+v", got)
		}
	})
	t.Run("classifier error falls back to url scan", func(t *testing.T) {
		t.Parallel()
		s := newSvc(newFakeRepo(), Options{Image: imageStub{err: perr.Unavailablef("vision down")}})
		v, err := s.ModerateImage(context.Background(), domain.ImageInput{ImageURL: "https://cdn.example/xxx/1.png"})
		if err != nil {
			t.Fatal(err)
		}
		if v.Safe || v.Source != domain.SourceLocal || v.NSFWScore != 0.9 {
			t.Fatalf("verdict = %+v", v)
		}
	})
	t.Run("no classifier configured", func(t *testing.T) {
		t.Parallel()
		v, err := newSvc(newFakeRepo(), Options{}).ModerateImage(context.Background(), domain.ImageInput{ImageURL: "https://lamp.example/a.jpg"})
		if err != nil || !v.Safe {
			t.Fatalf("verdict = %+v err = %v", v, err)
		}
	})
	t.Run("unknown product", func(t *testing.T) {
		t.Parallel()
		_, err := newSvc(newFakeRepo(), Options{}).ModerateImage(context.Background(), domain.ImageInput{
			ImageURL: "https://lamp.example/a.jpg", ProductID: userID, UpdateProduct: true,
		})
		if !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		s := newSvc(newFakeRepo(), Options{})
		for _, in := range []domain.ImageInput{
			{ImageURL: "data:image/png;base64,AAAA"},
			{ImageURL: "/relative.png"},
			{ImageURL: "https://lamp.example/a.jpg", UpdateProduct: true},
		} {
			if _, err := s.ModerateImage(context.Background(), in); !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("%+v: err = %v", in, err)
			}
		}
	})
}

func TestJoinReason(t *testing.T) {
	t.Parallel()
	if got := joinReason("toxic content", ""); got != "toxic content" {
		t.Fatal(got)
	}
	if got := joinReason("a", "b"); !strings.Contains(got, ", ") {
		t.Fatal(got)
	}
}
