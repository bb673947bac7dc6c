package models

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Platform identifies the review site the guest will publish on
type Platform string

const (
	PlatformGoogle      Platform = "google"
	PlatformTripadvisor Platform = "tripadvisor"
	PlatformBooking     Platform = "booking"
	PlatformExpedia     Platform = "expedia"
	PlatformTrustpilot  Platform = "trustpilot"
)

// Language is an ISO 639-1 code
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageSpanish    Language = "es"
	LanguageFrench     Language = "fr"
	LanguageGerman     Language = "de"
	LanguagePortuguese Language = "pt"
	LanguageItalian    Language = "it"
)

// Highlight is a tag for an aspect of the stay the guest liked
type Highlight string

const (
	HighlightCleanliness Highlight = "cleanliness"
	HighlightStaff       Highlight = "staff"
	HighlightLocation    Highlight = "location"
	HighlightBreakfast   Highlight = "breakfast"
	HighlightRoom        Highlight = "room"
	HighlightComfort     Highlight = "comfort"
	HighlightValue       Highlight = "value"
	HighlightView        Highlight = "view"
	HighlightPool        Highlight = "pool"
	HighlightSpa         Highlight = "spa"
	HighlightRestaurant  Highlight = "restaurant"
	HighlightWifi        Highlight = "wifi"
	HighlightQuiet       Highlight = "quiet"
	HighlightParking     Highlight = "parking"
)

const (
	MaxHighlights     = 8
	MaxCommentRunes   = 2000
	MaxHotelNameRunes = 120
	MaxStaffNameRunes = 80
	MinRating         = 1
	MaxRating         = 5
)

// KnownHighlights lists every accepted highlight tag in display order
var KnownHighlights = []Highlight{
	HighlightCleanliness,
	HighlightStaff,
	HighlightLocation,
	HighlightBreakfast,
	HighlightRoom,
	HighlightComfort,
	HighlightValue,
	HighlightView,
	HighlightPool,
	HighlightSpa,
	HighlightRestaurant,
	HighlightWifi,
	HighlightQuiet,
	HighlightParking,
}

// SupportedLanguages lists the languages with template vocabulary and prompt instructions
var SupportedLanguages = []Language{
	LanguageEnglish,
	LanguageSpanish,
	LanguageFrench,
	LanguageGerman,
	LanguagePortuguese,
	LanguageItalian,
}

// IsKnownHighlight reports whether tag is in the known highlight set
func IsKnownHighlight(tag string) bool {
	for _, h := range KnownHighlights {
		if string(h) == tag {
			return true
		}
	}
	return false
}

// IsSupportedLanguage reports whether code is a supported language
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if string(l) == code {
			return true
		}
	}
	return false
}

// ReviewRequest holds the guest-supplied facts for one review.
// It is treated as an immutable value once validated.
type ReviewRequest struct {
	HotelName  string      `json:"hotel_name" validate:"required,notblank,runemax=120"`
	Language   Language    `json:"language" validate:"required,language"`
	Platform   Platform    `json:"platform" validate:"required,platform"`
	Rating     int         `json:"rating" validate:"required,gte=1,lte=5"`
	Highlights []Highlight `json:"highlights" validate:"max=8,unique,dive,highlight"`
	StaffName  string      `json:"staff_name,omitempty" validate:"omitempty,runemax=80"`
	Comment    string      `json:"comment,omitempty" validate:"omitempty,runemax=2000"`
	SessionID  string      `json:"session_id,omitempty" validate:"omitempty,max=128"`
}

// Normalize trims free text and lowercases the enumerated fields in place
func (r *ReviewRequest) Normalize() {
	r.HotelName = strings.TrimSpace(r.HotelName)
	r.Language = Language(strings.ToLower(strings.TrimSpace(string(r.Language))))
	r.Platform = Platform(strings.ToLower(strings.TrimSpace(string(r.Platform))))
	r.Highlights = r.NormalizedHighlights()
	r.StaffName = strings.TrimSpace(r.StaffName)
	r.Comment = strings.TrimSpace(r.Comment)
	r.SessionID = strings.TrimSpace(r.SessionID)
}

// NormalizedHighlights returns the highlights de-duplicated and sorted
func (r *ReviewRequest) NormalizedHighlights() []Highlight {
	seen := make(map[Highlight]struct{}, len(r.Highlights))
	out := make([]Highlight, 0, len(r.Highlights))
	for _, h := range r.Highlights {
		h = Highlight(strings.ToLower(strings.TrimSpace(string(h))))
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Fingerprint returns a stable hex hash over every request field except SessionID.
// Fields are length-prefixed so adjacent values cannot collide.
func (r *ReviewRequest) Fingerprint() string {
	h := sha256.New()
	write := func(s string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}

	// The hotel name is echoed into the review, so its casing is part of the key
	write(strings.TrimSpace(r.HotelName))
	write(strings.ToLower(strings.TrimSpace(string(r.Language))))
	write(strings.ToLower(strings.TrimSpace(string(r.Platform))))
	write(strconv.Itoa(r.Rating))
	highlights := r.NormalizedHighlights()
	write(strconv.Itoa(len(highlights)))
	for _, tag := range highlights {
		write(string(tag))
	}
	write(strings.TrimSpace(r.StaffName))
	write(strings.TrimSpace(r.Comment))

	return hex.EncodeToString(h.Sum(nil))
}
