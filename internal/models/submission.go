package models

import (
	"strings"
	"time"
)

// SubmissionStatus captures the moderation lifecycle of a virtual exhibit.
type SubmissionStatus string

const (
	SubmissionStatusPending     SubmissionStatus = "PENDING"
	SubmissionStatusUnderReview SubmissionStatus = "UNDER_REVIEW"
	SubmissionStatusApproved    SubmissionStatus = "APPROVED"
	SubmissionStatusRejected    SubmissionStatus = "REJECTED"
	SubmissionStatusResubmitted SubmissionStatus = "RESUBMITTED"
	SubmissionStatusPublished   SubmissionStatus = "PUBLISHED"
)

// SubmissionStatuses lists every status in lifecycle order.
var SubmissionStatuses = []SubmissionStatus{
	SubmissionStatusPending,
	SubmissionStatusUnderReview,
	SubmissionStatusApproved,
	SubmissionStatusRejected,
	SubmissionStatusResubmitted,
	SubmissionStatusPublished,
}

// Valid reports whether s is a known status.
func (s SubmissionStatus) Valid() bool {
	for _, known := range SubmissionStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSubmissionStatus normalises raw input into a known status.
func ParseSubmissionStatus(raw string) (SubmissionStatus, bool) {
	status := SubmissionStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return status, status.Valid()
}

// SubmissionType enumerates the kinds of virtual exhibit.
type SubmissionType string

const (
	SubmissionTypeExhibition      SubmissionType = "EXHIBITION"
	SubmissionType3DExperience    SubmissionType = "3D_EXPERIENCE"
	SubmissionTypeGallery         SubmissionType = "GALLERY"
	SubmissionTypeDigitalArchive  SubmissionType = "DIGITAL_ARCHIVE"
	SubmissionTypeInteractiveTour SubmissionType = "INTERACTIVE_TOUR"
)

// Valid reports whether t is a known submission type.
func (t SubmissionType) Valid() bool {
	switch t {
	case SubmissionTypeExhibition, SubmissionType3DExperience, SubmissionTypeGallery,
		SubmissionTypeDigitalArchive, SubmissionTypeInteractiveTour:
		return true
	}
	return false
}

// LayoutMode controls how artifacts are arranged in the exhibit.
type LayoutMode string

const (
	LayoutGrid     LayoutMode = "GRID"
	LayoutCarousel LayoutMode = "CAROUSEL"
	LayoutTimeline LayoutMode = "TIMELINE"
	Layout3DSpace  LayoutMode = "3D_SPACE"
	LayoutStory    LayoutMode = "STORY"
)

// Valid reports whether l is a known layout.
func (l LayoutMode) Valid() bool {
	switch l {
	case LayoutGrid, LayoutCarousel, LayoutTimeline, Layout3DSpace, LayoutStory:
		return true
	}
	return false
}

// Theme is the visual styling of an exhibit.
type Theme struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	FontFamily     string `json:"font_family"`
}

// Accessibility holds independent accessibility feature flags.
type Accessibility struct {
	AudioDescriptions  bool `json:"audio_descriptions"`
	Subtitles          bool `json:"subtitles"`
	HighContrast       bool `json:"high_contrast"`
	ScreenReader       bool `json:"screen_reader"`
	KeyboardNavigation bool `json:"keyboard_navigation"`
}

// MediaRefs are opaque URLs issued by the media storage service.
type MediaRefs struct {
	BannerURL          string `json:"banner_url,omitempty"`
	ThumbnailURL       string `json:"thumbnail_url,omitempty"`
	BackgroundAudioURL string `json:"background_audio_url,omitempty"`
	IntroVideoURL      string `json:"intro_video_url,omitempty"`
}

// ModelFile describes the 3D assets attached to one artifact.
type ModelFile struct {
	ArtifactID   string `json:"artifact_id"`
	GeometryURL  string `json:"geometry_url,omitempty"`
	TextureURL   string `json:"texture_url,omitempty"`
	AnimationURL string `json:"animation_url,omitempty"`
	FileSize     int64  `json:"file_size"`
	Format       string `json:"format,omitempty"`
}

// InteractiveContent describes immersive capabilities of an exhibit.
type InteractiveContent struct {
	Has3D  bool        `json:"has_3d"`
	HasVR  bool        `json:"has_vr"`
	HasAR  bool        `json:"has_ar"`
	Models []ModelFile `json:"models,omitempty"`
}

// ArtifactReference points at a catalog artifact with exhibit-local display metadata.
type ArtifactReference struct {
	ArtifactID        string `json:"artifact_id"`
	DisplayOrder      int    `json:"display_order"`
	CustomDescription string `json:"custom_description,omitempty"`
	Featured          bool   `json:"featured"`
}

// ReviewRecord is populated once a reviewer decides on a submission.
type ReviewRecord struct {
	ReviewerID      string    `json:"reviewer_id"`
	ReviewedAt      time.Time `json:"reviewed_at"`
	Feedback        string    `json:"feedback,omitempty"`
	Rating          *int      `json:"rating,omitempty"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
}

// EngagementMetrics aggregates public engagement. Only AverageRating may decrease.
type EngagementMetrics struct {
	Views          int64      `json:"views"`
	UniqueVisitors int64      `json:"unique_visitors"`
	AverageRating  float64    `json:"average_rating"`
	TotalRatings   int64      `json:"total_ratings"`
	Favorites      int64      `json:"favorites"`
	Shares         int64      `json:"shares"`
	LastViewedAt   *time.Time `json:"last_viewed_at,omitempty"`
}

// PublishingRecord controls public visibility. IsPublic implies status PUBLISHED.
type PublishingRecord struct {
	PublishedAt *time.Time `json:"published_at,omitempty"`
	PublishedBy *string    `json:"published_by,omitempty"`
	IsPublic    bool       `json:"is_public"`
	Featured    bool       `json:"featured"`
	Tags        []string   `json:"tags"`
}

// SEO carries search metadata. AutoDerived marks values copied from title/description.
type SEO struct {
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
	AutoDerived     bool     `json:"auto_derived"`
}

// Submission is a museum's proposed virtual exhibit.
type Submission struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organization_id"`
	SubmitterID    string              `json:"submitter_id"`
	Title          string              `json:"title"`
	Type           SubmissionType      `json:"type"`
	Description    string              `json:"description"`
	Layout         LayoutMode          `json:"layout"`
	Theme          Theme               `json:"theme"`
	Accessibility  Accessibility       `json:"accessibility"`
	Media          MediaRefs           `json:"media"`
	Interactive    InteractiveContent  `json:"interactive"`
	Artifacts      []ArtifactReference `json:"artifacts"`
	Status         SubmissionStatus    `json:"status"`
	Review         *ReviewRecord       `json:"review,omitempty"`
	Metrics        EngagementMetrics   `json:"metrics"`
	Publishing     PublishingRecord    `json:"publishing"`
	SEO            SEO                 `json:"seo"`
	IsDeleted      bool                `json:"-"`
	DeletedAt      *time.Time          `json:"-"`
	DeletedBy      *string             `json:"-"`
	SubmittedAt    *time.Time          `json:"submitted_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ArtifactIDs returns the referenced artifact ids in display order of the list.
func (s *Submission) ArtifactIDs() []string {
	ids := make([]string, 0, len(s.Artifacts))
	for _, ref := range s.Artifacts {
		ids = append(ids, ref.ArtifactID)
	}
	return ids
}

// SubmissionFilter constrains organization listings.
type SubmissionFilter struct {
	OrganizationID string
	Statuses       []SubmissionStatus
	Page           int
	PageSize       int
}

// PublicFeedFilter constrains the discovery feed.
type PublicFeedFilter struct {
	FeaturedOnly bool
	Page         int
	PageSize     int
}

// RatingResult reports the aggregate after a rating was applied.
type RatingResult struct {
	SubmissionID  string  `json:"submission_id" db:"id"`
	AverageRating float64 `json:"average_rating" db:"average_rating"`
	TotalRatings  int64   `json:"total_ratings" db:"total_ratings"`
}

// OrganizationStats summarises an organization's submissions.
type OrganizationStats struct {
	OrganizationID   string                   `json:"organization_id"`
	Total            int                      `json:"total"`
	ByStatus         map[SubmissionStatus]int `json:"by_status"`
	Published        int                      `json:"published"`
	TotalViews       int64                    `json:"total_views"`
	TotalFavorites   int64                    `json:"total_favorites"`
	TotalShares      int64                    `json:"total_shares"`
	RatedSubmissions int                      `json:"rated_submissions"`
	AverageRating    float64                  `json:"average_rating"`
	GeneratedAt      time.Time                `json:"generated_at"`
}

// EngagementTotals is the aggregate engagement row for an organization.
type EngagementTotals struct {
	TotalViews       int64   `db:"total_views"`
	TotalFavorites   int64   `db:"total_favorites"`
	TotalShares      int64   `db:"total_shares"`
	RatedSubmissions int     `db:"rated_submissions"`
	AverageRating    float64 `db:"average_rating"`
}

// StatusCount is one row of a GROUP BY status query.
type StatusCount struct {
	Status SubmissionStatus `db:"status"`
	Count  int              `db:"count"`
}
