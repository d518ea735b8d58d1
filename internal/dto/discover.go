package dto

// DiscoverRequest is the payload for the business discovery endpoint.
// City may carry a comma-separated administrative region suffix
// ("Fortaleza, CE"); the region is then enforced on results.
type DiscoverRequest struct {
	City          string `json:"city"`
	CountryCode   string `json:"countryCode"`
	Niche         string `json:"niche"`
	MaxResults    int    `json:"maxResults,omitempty"`
	AffiliateName string `json:"affiliateName,omitempty"`
	AffiliateID   string `json:"affiliateId,omitempty"`
}

// BusinessResult is one discovered business enriched with normalized contact
// fields and a ready-to-send outreach message.
type BusinessResult struct {
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Phone            string   `json:"phone,omitempty"`
	Email            string   `json:"email,omitempty"`
	Website          string   `json:"website,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	ReviewsCount     int      `json:"reviewsCount,omitempty"`
	Category         string   `json:"category,omitempty"`
	PlaceID          string   `json:"placeId,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	GeneratedMessage string   `json:"generatedMessage"`
}

// DiscoverResponse is the success envelope returned by the discovery endpoint.
// CountryCode echoes the caller's original code even when it resolved to the
// default country profile.
type DiscoverResponse struct {
	Success     bool             `json:"success"`
	Results     []BusinessResult `json:"results"`
	CountryCode string           `json:"countryCode"`
}

// ErrorResponse is returned for client and upstream failures; there is no
// partial-success shape.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
