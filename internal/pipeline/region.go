package pipeline

import "strings"

// InRegion reports whether an address plausibly belongs to the requested
// administrative region. keywords maps every region code of the country to
// lowercase name and capital keywords; a nil map disables checking entirely,
// as does an empty requested region.
//
// This is a heuristic, not a geocoder. Ambiguous addresses are accepted:
// losing a valid local business is worse than including one stray result from
// a same-named neighboring region.
func InRegion(address, requestedRegion string, keywords map[string][]string) bool {
	region := strings.ToUpper(strings.TrimSpace(requestedRegion))
	if region == "" || len(keywords) == 0 {
		return true
	}

	addr := strings.ToLower(address)
	if hasRegionSuffix(addr, strings.ToLower(region)) {
		return true
	}

	for _, kw := range keywords[region] {
		if strings.Contains(addr, kw) {
			return true
		}
	}

	// The address names no keyword of the requested region; reject only when
	// it unambiguously carries another region's code as a suffix.
	for other := range keywords {
		if other == region {
			continue
		}
		if hasRegionSuffix(addr, strings.ToLower(other)) {
			return false
		}
	}

	return true
}

// hasRegionSuffix reports whether code appears as a delimited token at the
// natural suffix position of the address, e.g. "… - CE", "…, CE" or
// "… CE, Brasil 60000-000".
func hasRegionSuffix(addr, code string) bool {
	trimmed := trimAddressTail(addr)
	for _, delim := range []string{"-", ",", " "} {
		if strings.HasSuffix(trimmed, delim+code) {
			return true
		}
	}
	return false
}

// trimAddressTail strips trailing country names, postal codes and punctuation
// so a region code written before them still counts as a suffix.
func trimAddressTail(addr string) string {
	s := strings.TrimSpace(addr)
	for {
		prev := s
		s = strings.TrimRight(s, " ,.-")
		for _, country := range []string{"brasil", "brazil"} {
			s = strings.TrimSuffix(s, country)
		}
		s = strings.TrimRight(s, " ,.-")
		s = strings.TrimRight(s, "0123456789-")
		if s == prev {
			return strings.TrimSpace(s)
		}
	}
}
