package pipeline

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/primecutstudio/outreach/internal/catalog"
	"github.com/primecutstudio/outreach/internal/search"
)

var (
	phoneStripPattern = regexp.MustCompile(`[^0-9()+\s-]`)
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

// Contact holds the optional normalized contact fields of a business. Every
// field is independently optional; an extraction miss is never an error.
type Contact struct {
	Phone   string
	Email   string
	Website string
}

// ExtractContact derives normalized phone, email and website-domain fields
// from a raw provider record.
func ExtractContact(place search.Place, profile catalog.CountryProfile) Contact {
	return Contact{
		Phone:   normalizePhone(place.PhoneNumber, profile),
		Email:   findEmail(place.Description, place.Snippet),
		Website: extractDomain(place.Website),
	}
}

// normalizePhone strips everything but digits, parentheses, plus, spaces and
// hyphens, then keeps the number only when 8 to 15 digits remain. Numbers
// that additionally parse as valid for the profile's country are upgraded to
// E.164.
func normalizePhone(raw string, profile catalog.CountryProfile) string {
	cleaned := strings.TrimSpace(phoneStripPattern.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return ""
	}

	digits := 0
	for _, r := range cleaned {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 8 || digits > 15 {
		return ""
	}

	if num, err := phonenumbers.Parse(cleaned, profile.Code); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	if !strings.HasPrefix(cleaned, "+") && profile.PhonePrefix != "" {
		if num, err := phonenumbers.Parse(profile.PhonePrefix+cleaned, ""); err == nil && phonenumbers.IsValidNumber(num) {
			return phonenumbers.Format(num, phonenumbers.E164)
		}
	}
	return cleaned
}

// findEmail scans the record's free-text fields for the first email address.
func findEmail(fields ...string) string {
	blob := strings.Join(fields, " ")
	return strings.ToLower(emailPattern.FindString(blob))
}

// extractDomain parses the website URL, defaulting the scheme to https, and
// returns the hostname without a leading www. Unparseable URLs yield an
// absent field rather than an error.
func extractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}
	return host
}
