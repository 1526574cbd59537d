package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "purchaseinbox/internal/platform/errors"
)

type reviewInput struct {
	Text      string `json:"text"                 validate:"required,max=20"`
	ProductID string `json:"product_id,omitempty" validate:"omitempty,uuid"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/moderation/review", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		body  string
		code  perr.ErrorCode
		field string
		msg   string
	}{
		{name: "ok", body: `{"text":"love this lamp"}`},
		{name: "empty", body: ``, code: perr.ErrorCodeJSON},
		{name: "syntax", body: `{"text":`, code: perr.ErrorCodeJSON},
		{name: "unknown field", body: `{"text":"x","rating":5}`, code: perr.ErrorCodeJSON},
		{name: "trailing", body: `{"text":"x"} {}`, code: perr.ErrorCodeJSON},
		{name: "required", body: `{}`, code: perr.ErrorCodeValidation, field: "text"},
		{name: "too long", body: `{"text":"this review is far too long"}`, code: perr.ErrorCodeValidation, field: "text", msg: "text must be at most 20 characters"},
		{name: "bad uuid", body: `{"text":"ok","product_id":"p-1"}`, code: perr.ErrorCodeValidation, field: "product_id"},
	}
	for _, tc := range cases {
		got, err := ParseJSON[reviewInput](post(tc.body))
		if tc.code == perr.ErrorCodeUnknown {
			if err != nil || got.Text != "love this lamp" {
				t.Fatalf("%s: got %+v, %v", tc.name, got, err)
			}
			continue
		}
		if !perr.IsCode(err, tc.code) {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.code, err)
		}
		e, _ := perr.As(err)
		if e.Field() != tc.field {
			t.Fatalf("%s: field = %q, want %q", tc.name, e.Field(), tc.field)
		}
		if tc.msg != "" && perr.WireFrom(err).Message != tc.msg {
			t.Fatalf("%s: message = %q", tc.name, perr.WireFrom(err).Message)
		}
		if got != (reviewInput{}) {
			t.Fatalf("%s: partial value returned: %+v", tc.name, got)
		}
	}
}

func TestParseJSON_BodyCap(t *testing.T) {
	t.Parallel()
	body := `{"text":"` + strings.Repeat("a", int(MaxBody)) + `"}`
	if _, err := ParseJSON[reviewInput](post(body)); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("want json error past the cap, got %v", err)
	}
}
