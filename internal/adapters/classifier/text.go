package classifier

import (
	"context"
	"net/http"
	"strings"

	perr "purchaseinbox/internal/platform/errors"
)

const perspectiveURL = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"

// Perspective is a TextClassifier for the comment analyzer API
type Perspective struct {
	hc   *http.Client
	opts Options
}

// NewText returns a Perspective client, or Nop when no key is set
func NewText(o Options) TextClassifier {
	if strings.TrimSpace(o.APIKey) == "" {
		return Nop{}
	}
	o.defaults(perspectiveURL)
	return &Perspective{hc: &http.Client{Timeout: o.Timeout}, opts: o}
}

type analyzeRequest struct {
	Comment struct {
		Text string `json:"text"`
	} `json:"comment"`
	Languages           []string            `json:"languages,omitempty"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
	DoNotStore          bool                `json:"doNotStore"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// ClassifyText implements TextClassifier
func (p *Perspective) ClassifyText(ctx context.Context, text string) (TextVerdict, error) {
	var req analyzeRequest
	req.Comment.Text = text
	req.RequestedAttributes = map[string]struct{}{"TOXICITY": {}}
	req.DoNotStore = true

	var resp analyzeResponse
	if err := postJSON(ctx, p.hc, p.opts.BaseURL, p.opts.APIKey, req, &resp); err != nil {
		return TextVerdict{}, err
	}
	score, ok := resp.AttributeScores["TOXICITY"]
	if !ok {
		return TextVerdict{}, perr.Newf(perr.ErrorCodeUnavailable, "classifier: TOXICITY missing from response")
	}
	v := clamp01(score.SummaryScore.Value)
	return TextVerdict{Toxicity: v, Allowed: v < p.opts.Threshold}, nil
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
