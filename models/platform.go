package models

import (
	"net/url"
	"strings"
)

// PlatformSpec describes length limits and routing for a review platform
type PlatformSpec struct {
	Platform    Platform `json:"platform"`
	DisplayName string   `json:"display_name"`
	MinChars    int      `json:"min_chars"`
	MaxChars    int      `json:"max_chars"`
	// SearchURL is formatted with the query-escaped hotel name
	SearchURL string `json:"-"`
}

var platformSpecs = map[Platform]PlatformSpec{
	PlatformGoogle: {
		Platform:    PlatformGoogle,
		DisplayName: "Google",
		MinChars:    80,
		MaxChars:    1500,
		SearchURL:   "https://www.google.com/search?q={hotel}+reviews",
	},
	PlatformTripadvisor: {
		Platform:    PlatformTripadvisor,
		DisplayName: "Tripadvisor",
		MinChars:    200,
		MaxChars:    2000,
		SearchURL:   "https://www.tripadvisor.com/Search?q={hotel}",
	},
	PlatformBooking: {
		Platform:    PlatformBooking,
		DisplayName: "Booking.com",
		MinChars:    80,
		MaxChars:    1000,
		SearchURL:   "https://www.booking.com/searchresults.html?ss={hotel}",
	},
	PlatformExpedia: {
		Platform:    PlatformExpedia,
		DisplayName: "Expedia",
		MinChars:    80,
		MaxChars:    1000,
		SearchURL:   "https://www.expedia.com/Hotel-Search?destination={hotel}",
	},
	PlatformTrustpilot: {
		Platform:    PlatformTrustpilot,
		DisplayName: "Trustpilot",
		MinChars:    100,
		MaxChars:    1200,
		SearchURL:   "https://www.trustpilot.com/search?query={hotel}",
	},
}

// SupportedPlatforms lists platforms in display order
var SupportedPlatforms = []Platform{
	PlatformGoogle,
	PlatformTripadvisor,
	PlatformBooking,
	PlatformExpedia,
	PlatformTrustpilot,
}

// GetPlatformSpec returns the spec for a platform
func GetPlatformSpec(p Platform) (PlatformSpec, bool) {
	spec, ok := platformSpecs[p]
	return spec, ok
}

// IsSupportedPlatform reports whether name is a known platform
func IsSupportedPlatform(name string) bool {
	_, ok := platformSpecs[Platform(name)]
	return ok
}

// ReviewURL returns the page where the guest can find the hotel on the platform
func (s PlatformSpec) ReviewURL(hotelName string) string {
	return strings.ReplaceAll(s.SearchURL, "{hotel}", url.QueryEscape(strings.TrimSpace(hotelName)))
}
