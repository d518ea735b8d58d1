package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/primecutstudio/outreach/internal/search"
)

// Normalize drops noise records and removes duplicates. Provider order is
// preserved and the first occurrence of a duplicate wins, so the survivor set
// is deterministic for a fixed provider response.
func Normalize(places []search.Place) []search.Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]search.Place, 0, len(places))

	for _, place := range places {
		name := strings.TrimSpace(place.Title)
		if utf8.RuneCountInString(name) < 3 {
			// too short to be a real business name; provider noise
			continue
		}

		key := identityKey(place.PlaceID, name, place.Address)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		place.Title = name
		out = append(out, place)
	}
	return out
}

// identityKey builds the composite deduplication key. Lower-casing makes the
// key insensitive to provider-side casing differences in any component.
func identityKey(providerID, name, address string) string {
	return strings.ToLower(providerID + "|" + name + "|" + address)
}
