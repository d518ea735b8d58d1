package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed data/*.json
var dataFS embed.FS

// CountryProfile maps a country code to search-locale parameters and the
// message language used for generated outreach texts.
type CountryProfile struct {
	Code            string `json:"code"`
	SearchRegion    string `json:"searchRegion"`
	SearchLanguage  string `json:"searchLanguage"`
	PhonePrefix     string `json:"phonePrefix"`
	MessageLanguage string `json:"messageLanguage"`
	EnforceRegion   bool   `json:"enforceRegion"`
}

// TemplateSet holds the outreach message candidates for one language. The set
// is append-only data; every entry must substitute {NAME}, {BUSINESS} and
// {LINK} cleanly.
type TemplateSet struct {
	Base          string   `json:"base"`
	Variations    []string `json:"variations"`
	DefaultSender string   `json:"defaultSender"`
}

// NicheLink associates a group of category keywords with a landing page URL.
// Groups are evaluated in declaration order; the first match wins.
type NicheLink struct {
	Keywords []string `json:"keywords"`
	URL      string   `json:"url"`
}

// Catalog is the process-wide, read-only configuration for the discovery
// pipeline. It is built once at startup and passed by reference; nothing
// mutates it afterwards, so no synchronization is needed.
type Catalog struct {
	defaultCountry string
	countries      map[string]CountryProfile

	defaultQueryLanguage string
	queryTemplates       map[string]string

	defaultMessageLanguage string
	templates              map[string]TemplateSet

	defaultLink string
	nicheLinks  []NicheLink

	// country code -> region code -> lowercase keywords (names, capital)
	regions map[string]map[string][]string
}

type countriesFile struct {
	Default  string           `json:"default"`
	Profiles []CountryProfile `json:"profiles"`
}

type queryTemplatesFile struct {
	Default   string            `json:"default"`
	Templates map[string]string `json:"templates"`
}

type messagesFile struct {
	Default   string                 `json:"default"`
	Languages map[string]TemplateSet `json:"languages"`
}

type nichesFile struct {
	Default string      `json:"default"`
	Groups  []NicheLink `json:"groups"`
}

// Load parses the embedded configuration tables and validates their
// cross-references. Template and table growth never requires code changes.
func Load() (*Catalog, error) {
	cat := &Catalog{}

	var countries countriesFile
	if err := readData("countries.json", &countries); err != nil {
		return nil, err
	}
	cat.defaultCountry = strings.ToUpper(countries.Default)
	cat.countries = make(map[string]CountryProfile, len(countries.Profiles))
	for _, profile := range countries.Profiles {
		code := strings.ToUpper(strings.TrimSpace(profile.Code))
		if code == "" {
			return nil, fmt.Errorf("catalog: country profile with empty code")
		}
		profile.Code = code
		cat.countries[code] = profile
	}
	if _, ok := cat.countries[cat.defaultCountry]; !ok {
		return nil, fmt.Errorf("catalog: default country %q has no profile", countries.Default)
	}

	var queries queryTemplatesFile
	if err := readData("query_templates.json", &queries); err != nil {
		return nil, err
	}
	cat.defaultQueryLanguage = queries.Default
	cat.queryTemplates = queries.Templates
	if _, ok := cat.queryTemplates[cat.defaultQueryLanguage]; !ok {
		return nil, fmt.Errorf("catalog: default query language %q has no template", queries.Default)
	}
	for lang, tpl := range cat.queryTemplates {
		if !strings.Contains(tpl, "{niche}") || !strings.Contains(tpl, "{city}") {
			return nil, fmt.Errorf("catalog: query template %q is missing a placeholder", lang)
		}
	}

	var messages messagesFile
	if err := readData("messages.json", &messages); err != nil {
		return nil, err
	}
	cat.defaultMessageLanguage = messages.Default
	cat.templates = messages.Languages
	if _, ok := cat.templates[cat.defaultMessageLanguage]; !ok {
		return nil, fmt.Errorf("catalog: default message language %q has no template set", messages.Default)
	}
	for lang, set := range cat.templates {
		if strings.TrimSpace(set.Base) == "" {
			return nil, fmt.Errorf("catalog: message set %q has an empty base template", lang)
		}
		for _, tpl := range append([]string{set.Base}, set.Variations...) {
			if !strings.Contains(tpl, "{LINK}") {
				return nil, fmt.Errorf("catalog: message template in %q is missing {LINK}", lang)
			}
		}
	}

	var niches nichesFile
	if err := readData("niches.json", &niches); err != nil {
		return nil, err
	}
	cat.defaultLink = niches.Default
	cat.nicheLinks = niches.Groups
	if cat.defaultLink == "" {
		return nil, fmt.Errorf("catalog: niche link map has no default URL")
	}
	for i, group := range cat.nicheLinks {
		if group.URL == "" || len(group.Keywords) == 0 {
			return nil, fmt.Errorf("catalog: niche group %d is incomplete", i)
		}
	}

	if err := readData("regions.json", &cat.regions); err != nil {
		return nil, err
	}
	for country, table := range cat.regions {
		for code, keywords := range table {
			if len(keywords) == 0 {
				return nil, fmt.Errorf("catalog: region %s/%s has no keywords", country, code)
			}
		}
	}

	return cat, nil
}

func readData(name string, out any) error {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", name, err)
	}
	return nil
}

// Profile resolves a country code case-insensitively, falling back to the
// default profile for unknown codes. Discovery never fails on an unknown
// country.
func (c *Catalog) Profile(countryCode string) CountryProfile {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if profile, ok := c.countries[code]; ok {
		return profile
	}
	return c.countries[c.defaultCountry]
}

// QueryTemplate returns the search phrase template for a search language,
// falling back to the default language template.
func (c *Catalog) QueryTemplate(searchLanguage string) string {
	if tpl, ok := c.queryTemplates[strings.ToLower(searchLanguage)]; ok {
		return tpl
	}
	return c.queryTemplates[c.defaultQueryLanguage]
}

// Templates returns the message template set for a language, falling back to
// the default language set.
func (c *Catalog) Templates(messageLanguage string) TemplateSet {
	if set, ok := c.templates[strings.ToLower(messageLanguage)]; ok {
		return set
	}
	return c.templates[c.defaultMessageLanguage]
}

// NicheLinks returns the ordered keyword groups for landing link resolution.
func (c *Catalog) NicheLinks() []NicheLink {
	return c.nicheLinks
}

// DefaultLink is the landing page used when no niche group matches.
func (c *Catalog) DefaultLink() string {
	return c.defaultLink
}

// RegionKeywords returns the administrative-region keyword table for a
// country, or nil when the country does not enforce region checking. A nil
// table makes the region validator accept everything.
func (c *Catalog) RegionKeywords(countryCode string) map[string][]string {
	profile := c.Profile(countryCode)
	if !profile.EnforceRegion {
		return nil
	}
	return c.regions[profile.Code]
}
