package dto

import "github.com/noah-isme/exhibit-api/internal/models"

// ThemeRequest styles the exhibit.
type ThemeRequest struct {
	PrimaryColor   string `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,hexcolor"`
	FontFamily     string `json:"font_family" validate:"max=100"`
}

// MediaRequest carries reference URLs issued by the media service.
type MediaRequest struct {
	BannerURL          string `json:"banner_url" validate:"omitempty,url"`
	ThumbnailURL       string `json:"thumbnail_url" validate:"omitempty,url"`
	BackgroundAudioURL string `json:"background_audio_url" validate:"omitempty,url"`
	IntroVideoURL      string `json:"intro_video_url" validate:"omitempty,url"`
}

// ModelFileRequest describes 3D assets for one artifact.
type ModelFileRequest struct {
	ArtifactID   string `json:"artifact_id" validate:"required"`
	GeometryURL  string `json:"geometry_url" validate:"omitempty,url"`
	TextureURL   string `json:"texture_url" validate:"omitempty,url"`
	AnimationURL string `json:"animation_url" validate:"omitempty,url"`
	FileSize     int64  `json:"file_size" validate:"min=0"`
	Format       string `json:"format" validate:"max=20"`
}

// InteractiveRequest describes immersive capabilities.
type InteractiveRequest struct {
	Has3D  bool               `json:"has_3d"`
	HasVR  bool               `json:"has_vr"`
	HasAR  bool               `json:"has_ar"`
	Models []ModelFileRequest `json:"models" validate:"omitempty,dive"`
}

// ArtifactReferenceRequest places a catalog artifact in the exhibit.
type ArtifactReferenceRequest struct {
	ArtifactID        string `json:"artifact_id" validate:"required"`
	DisplayOrder      int    `json:"display_order" validate:"min=0"`
	CustomDescription string `json:"custom_description" validate:"max=500"`
	Featured          bool   `json:"featured"`
}

// SEORequest overrides derived search metadata.
type SEORequest struct {
	MetaTitle       string   `json:"meta_title" validate:"max=200"`
	MetaDescription string   `json:"meta_description" validate:"max=300"`
	Keywords        []string `json:"keywords" validate:"omitempty,max=30,dive,max=50"`
}

// CreateSubmissionRequest is the payload for a new exhibit proposal.
type CreateSubmissionRequest struct {
	Title         string                     `json:"title" validate:"required,max=200"`
	Type          models.SubmissionType      `json:"type" validate:"required,submission_type"`
	Description   string                     `json:"description" validate:"max=2000"`
	Layout        models.LayoutMode          `json:"layout" validate:"omitempty,layout_mode"`
	Theme         ThemeRequest               `json:"theme"`
	Accessibility models.Accessibility       `json:"accessibility"`
	Media         MediaRequest               `json:"media"`
	Interactive   InteractiveRequest         `json:"interactive"`
	Artifacts     []ArtifactReferenceRequest `json:"artifacts" validate:"omitempty,dive"`
	SEO           *SEORequest                `json:"seo" validate:"omitempty"`
}

// UpdateSubmissionRequest patches a submission. Nil fields are left untouched.
type UpdateSubmissionRequest struct {
	Title         *string                     `json:"title" validate:"omitempty,min=1,max=200"`
	Type          *models.SubmissionType      `json:"type" validate:"omitempty,submission_type"`
	Description   *string                     `json:"description" validate:"omitempty,max=2000"`
	Layout        *models.LayoutMode          `json:"layout" validate:"omitempty,layout_mode"`
	Theme         *ThemeRequest               `json:"theme" validate:"omitempty"`
	Accessibility *models.Accessibility       `json:"accessibility"`
	Media         *MediaRequest               `json:"media" validate:"omitempty"`
	Interactive   *InteractiveRequest         `json:"interactive" validate:"omitempty"`
	Artifacts     *[]ArtifactReferenceRequest `json:"artifacts" validate:"omitempty,dive"`
	SEO           *SEORequest                 `json:"seo" validate:"omitempty"`
}

// ReviewSubmissionRequest carries a reviewer decision.
type ReviewSubmissionRequest struct {
	Decision        models.SubmissionStatus `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
	Feedback        string                  `json:"feedback" validate:"max=1000"`
	Rating          *int                    `json:"rating" validate:"omitempty,min=1,max=5"`
	RejectionReason string                  `json:"rejection_reason" validate:"max=500"`
}

// PublishSubmissionRequest controls discovery placement on publish.
type PublishSubmissionRequest struct {
	Featured bool     `json:"featured"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// SubmissionQuery lists an organization's submissions. Status accepts a comma-separated list.
type SubmissionQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// PublicFeedQuery pages the discovery feed.
type PublicFeedQuery struct {
	Page     int  `form:"page"`
	PageSize int  `form:"page_size"`
	Featured bool `form:"featured"`
}

// RatingRequest submits a visitor rating.
type RatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}
