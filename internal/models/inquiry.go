package models

import "time"

// Inquiry is a submitted form record. All three variants (general contact,
// development, SMM) share this skeleton; variant-specific fields are empty
// for variants that do not use them.
type Inquiry struct {
	ID          string    `json:"id"`
	Variant     string    `json:"variant"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Company     string    `json:"company,omitempty"`
	ProjectType string    `json:"projectType,omitempty"`
	Budget      string    `json:"budget,omitempty"`
	Message     string    `json:"message"`
	Platforms   []string  `json:"platforms,omitempty"`
	Goals       string    `json:"goals,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Inquiry variant constants.
const (
	InquiryVariantContact     = "contact"
	InquiryVariantDevelopment = "development"
	InquiryVariantSMM         = "smm"
)

// ValidInquiryVariants is the set of allowed variant values.
var ValidInquiryVariants = map[string]bool{
	InquiryVariantContact:     true,
	InquiryVariantDevelopment: true,
	InquiryVariantSMM:         true,
}

// SMM platform constants.
const (
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformLinkedIn  = "linkedin"
	PlatformTwitter   = "twitter"
)

// ValidPlatforms is the set of allowed SMM platform values.
var ValidPlatforms = map[string]bool{
	PlatformInstagram: true,
	PlatformFacebook:  true,
	PlatformTikTok:    true,
	PlatformYouTube:   true,
	PlatformLinkedIn:  true,
	PlatformTwitter:   true,
}

// DefaultBudget is the budget range recorded for development inquiries that
// omit one.
const DefaultBudget = "$1,000 - $5,000"

// InquirySummary provides aggregate counts across inquiry records.
type InquirySummary struct {
	Total     int            `json:"total"`
	ByVariant map[string]int `json:"byVariant"`
	Newest    *time.Time     `json:"newest,omitempty"`
}
