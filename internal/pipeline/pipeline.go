package pipeline

import (
	"context"
	"strings"

	"github.com/primecutstudio/outreach/internal/catalog"
	"github.com/primecutstudio/outreach/internal/dto"
	"github.com/primecutstudio/outreach/internal/search"
)

// Pipeline executes one discovery request end to end: locale resolution,
// query building, the provider call, normalization, region filtering, contact
// extraction and message composition. It holds no per-request state, so a
// single instance serves concurrent requests.
type Pipeline struct {
	cat      *catalog.Catalog
	searcher search.Searcher
	composer *Composer
}

// New wires a pipeline from its collaborators.
func New(cat *catalog.Catalog, searcher search.Searcher, composer *Composer) *Pipeline {
	return &Pipeline{cat: cat, searcher: searcher, composer: composer}
}

// SplitCityRegion separates a "City, RegionCode" input into its parts. A
// missing suffix yields an empty region, which disables region filtering.
func SplitCityRegion(city string) (string, string) {
	parts := strings.SplitN(city, ",", 2)
	if len(parts) == 2 {
		if region := strings.TrimSpace(parts[1]); region != "" {
			return strings.TrimSpace(parts[0]), region
		}
	}
	return strings.TrimSpace(city), ""
}

// BuildQuery composes the locale-correct provider phrase. When the caller
// named an administrative region it is appended explicitly to sharpen the
// provider's results; the region validator enforces it afterwards.
func (p *Pipeline) BuildQuery(profile catalog.CountryProfile, niche, city, region string) string {
	template := p.cat.QueryTemplate(profile.SearchLanguage)
	query := strings.ReplaceAll(template, "{niche}", niche)
	query = strings.ReplaceAll(query, "{city}", city)
	if region != "" {
		query += ", " + region
	}
	return query
}

// Run performs the discovery request and returns the assembled results along
// with the provider query used, for audit purposes. Errors from the provider
// abort the whole request; per-record problems never do.
func (p *Pipeline) Run(ctx context.Context, req dto.DiscoverRequest, requestID string) ([]dto.BusinessResult, string, error) {
	profile := p.cat.Profile(req.CountryCode)
	city, region := SplitCityRegion(req.City)
	query := p.BuildQuery(profile, req.Niche, city, region)

	places, err := p.searcher.Search(ctx, search.Query{
		Text:       query,
		Region:     profile.SearchRegion,
		Language:   profile.SearchLanguage,
		MaxResults: req.MaxResults,
	}, requestID)
	if err != nil {
		return nil, query, err
	}

	keywords := p.cat.RegionKeywords(req.CountryCode)

	survivors := Normalize(places)
	results := make([]dto.BusinessResult, 0, len(survivors))
	for _, place := range survivors {
		if !InRegion(place.Address, region, keywords) {
			continue
		}

		contact := ExtractContact(place, profile)
		category := place.Category
		if category == "" {
			category = req.Niche
		}
		message := p.composer.Compose(profile.MessageLanguage, req.AffiliateName, place.Title, category)

		results = append(results, dto.BusinessResult{
			Name:             place.Title,
			Address:          place.Address,
			Phone:            contact.Phone,
			Email:            contact.Email,
			Website:          contact.Website,
			Rating:           place.Rating,
			ReviewsCount:     place.RatingCount,
			Category:         place.Category,
			PlaceID:          place.PlaceID,
			Latitude:         place.Latitude,
			Longitude:        place.Longitude,
			GeneratedMessage: message,
		})
	}

	return results, query, nil
}
