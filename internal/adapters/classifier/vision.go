package classifier

import (
	"context"
	"net/http"
	"strings"

	perr "purchaseinbox/internal/platform/errors"
)

const visionURL = "https://vision.googleapis.com/v1/images:annotate"

// Likelihood is the five level ordinal scale used by safe search
type Likelihood string

// Likelihood values
const (
	Unknown      Likelihood = "UNKNOWN"
	VeryUnlikely Likelihood = "VERY_UNLIKELY"
	Unlikely     Likelihood = "UNLIKELY"
	Possible     Likelihood = "POSSIBLE"
	Likely       Likelihood = "LIKELY"
	VeryLikely   Likelihood = "VERY_LIKELY"
)

// Score maps the ordinal to [0,1]
func (l Likelihood) Score() float64 {
	switch l {
	case Unlikely:
		return 0.25
	case Possible:
		return 0.5
	case Likely:
		return 0.75
	case VeryLikely:
		return 1
	default:
		return 0
	}
}

// SafeSearch carries the five category likelihoods
type SafeSearch struct {
	Adult    Likelihood `json:"adult"`
	Spoof    Likelihood `json:"spoof"`
	Medical  Likelihood `json:"medical"`
	Violence Likelihood `json:"violence"`
	Racy     Likelihood `json:"racy"`
}

// Vision is an ImageClassifier for the images:annotate API
type Vision struct {
	hc   *http.Client
	opts Options
}

// NewImage returns a Vision client, or Nop when no key is set
func NewImage(o Options) ImageClassifier {
	if strings.TrimSpace(o.APIKey) == "" {
		return Nop{}
	}
	o.defaults(visionURL)
	return &Vision{hc: &http.Client{Timeout: o.Timeout}, opts: o}
}

type annotateRequest struct {
	Requests []annotateItem `json:"requests"`
}

type annotateItem struct {
	Image struct {
		Source struct {
			ImageURI string `json:"imageUri"`
		} `json:"source"`
	} `json:"image"`
	Features []struct {
		Type string `json:"type"`
	} `json:"features"`
}

type annotateResponse struct {
	Responses []struct {
		SafeSearch *SafeSearch `json:"safeSearchAnnotation"`
		Error      *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// ClassifyImage implements ImageClassifier
func (v *Vision) ClassifyImage(ctx context.Context, imageURL string) (SafeSearch, error) {
	var item annotateItem
	item.Image.Source.ImageURI = imageURL
	item.Features = []struct {
		Type string `json:"type"`
	}{{Type: "SAFE_SEARCH_DETECTION"}}

	var resp annotateResponse
	if err := postJSON(ctx, v.hc, v.opts.BaseURL, v.opts.APIKey, annotateRequest{Requests: []annotateItem{item}}, &resp); err != nil {
		return SafeSearch{}, err
	}
	if len(resp.Responses) == 0 {
		return SafeSearch{}, perr.Newf(perr.ErrorCodeUnavailable, "classifier: empty annotate response")
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return SafeSearch{}, perr.Newf(perr.ErrorCodeUnavailable, "classifier: %s", r.Error.Message)
	}
	if r.SafeSearch == nil {
		return SafeSearch{}, perr.Newf(perr.ErrorCodeUnavailable, "classifier: safe search annotation missing")
	}
	return *r.SafeSearch, nil
}
