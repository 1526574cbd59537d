// Package domain holds moderation verdict types and ports
package domain

import "context"

// Source names who produced a verdict
type Source string

// Verdict sources
const (
	SourceLocal    Source = "local"
	SourceExternal Source = "external"
)

// Threshold is the score at or above which content is rejected
const Threshold = 0.7

// TextInput is the text moderation request
type TextInput struct {
	Text       string `json:"text"                 validate:"required,max=5000" example:"Love this lamp!"`
	ProductID  string `json:"product_id,omitempty" validate:"omitempty,uuid"    example:"0199a2c4-7d1e-7b3a-9f10-2b4c5d6e7f80"`
	UserID     string `json:"user_id,omitempty"    validate:"omitempty,uuid"    example:"0199a2c4-7d1e-7b3a-9f10-2b4c5d6e7f81"`
	SaveResult bool   `json:"save_result,omitempty"`
}

// TextVerdict is the outcome of a text evaluation
type TextVerdict struct {
	Allowed           bool    `json:"allowed"`
	ToxicityScore     float64 `json:"toxicity_score"`
	SpamScore         float64 `json:"spam_score"`
	ProfanityDetected bool    `json:"profanity_detected"`
	Reason            string  `json:"reason,omitempty"`
	Source            Source  `json:"source"`
	CommentID         string  `json:"comment_id,omitempty"`
}

// ImageInput is the image moderation request
type ImageInput struct {
	ImageURL      string `json:"image_url"               validate:"required,max=2048" example:"https://lamp.example/img/lamp.jpg"`
	ProductID     string `json:"product_id,omitempty"    validate:"omitempty,uuid"`
	UpdateProduct bool   `json:"update_product,omitempty"`
}

// ImageVerdict is the outcome of an image evaluation
type ImageVerdict struct {
	Safe          bool    `json:"safe"`
	NSFWScore     float64 `json:"nsfw_score"`
	ViolenceScore float64 `json:"violence_score"`
	AdultScore    float64 `json:"adult_score"`
	RacyScore     float64 `json:"racy_score"`
	SpoofScore    float64 `json:"spoof_score"`
	MedicalScore  float64 `json:"medical_score"`
	Reason        string  `json:"reason,omitempty"`
	Source        Source  `json:"source"`
}

// Event is one audited verdict
type Event struct {
	Kind      string // text or image
	RefID     string // comment or product id, may be empty
	Allowed   bool
	Primary   float64 // toxicity or nsfw
	Secondary float64 // spam or violence
	Source    Source
	Reason    string
}

// ServicePort is implemented by the moderation service
type ServicePort interface {
	ModerateText(ctx context.Context, in TextInput) (TextVerdict, error)
	ModerateImage(ctx context.Context, in ImageInput) (ImageVerdict, error)
}
