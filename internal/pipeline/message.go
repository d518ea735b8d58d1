package pipeline

import (
	"math/rand/v2"
	"strings"

	"github.com/primecutstudio/outreach/internal/catalog"
)

// Composer builds outreach messages from the catalog's template and link
// tables. Template selection is uniformly random over the finite candidate
// set: sending byte-identical messages to many recipients is a deliverability
// risk, so rotation is a correctness requirement rather than cosmetics.
type Composer struct {
	cat  *catalog.Catalog
	pick func(n int) int
}

// ComposerOption configures optional dependencies.
type ComposerOption func(*Composer)

// WithPicker overrides the random template selector; tests use it to make the
// rotation deterministic.
func WithPicker(pick func(n int) int) ComposerOption {
	return func(c *Composer) {
		if pick != nil {
			c.pick = pick
		}
	}
}

// NewComposer builds a composer with a seeded uniform selector.
func NewComposer(cat *catalog.Catalog, opts ...ComposerOption) *Composer {
	c := &Composer{cat: cat, pick: rand.IntN}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose renders one ready-to-send message. Placeholder substitution is
// literal: business names are never interpreted as patterns. The result is
// always non-empty; unknown language keys fall back to the default set.
func (c *Composer) Compose(messageLanguage, requesterName, businessName, category string) string {
	set := c.cat.Templates(messageLanguage)
	candidates := append([]string{set.Base}, set.Variations...)
	template := candidates[c.pick(len(candidates))]

	name := strings.TrimSpace(requesterName)
	if name == "" {
		name = set.DefaultSender
	}

	return strings.NewReplacer(
		"{NAME}", name,
		"{BUSINESS}", businessName,
		"{LINK}", c.resolveLink(category),
	).Replace(template)
}

// resolveLink picks the landing page for a business category. Keyword groups
// are evaluated in catalog order; the first match wins.
func (c *Composer) resolveLink(category string) string {
	lowered := strings.ToLower(category)
	for _, group := range c.cat.NicheLinks() {
		for _, kw := range group.Keywords {
			if strings.Contains(lowered, kw) {
				return group.URL
			}
		}
	}
	return c.cat.DefaultLink()
}
