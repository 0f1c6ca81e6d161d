// Package messages renders localized checkout phone errors from embedded
// YAML catalogs.
package messages

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

const (
	fallbackKey      = "fallback"
	fieldPlaceholder = "{field}"
)

type bundle struct {
	Fields map[string]string `yaml:"fields"`
	Errors map[string]string `yaml:"errors"`
}

// Catalog holds one bundle per supported locale.
type Catalog struct {
	tags    []language.Tag
	bundles []bundle
	matcher language.Matcher
}

// Load parses the embedded catalogs. defaultLocale is used when negotiation
// finds no match and must be one of the embedded locales.
func Load(defaultLocale string) (*Catalog, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	c := &Catalog{}
	defaultIndex := -1
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("locale file %s: %w", entry.Name(), err)
		}

		data, err := locales.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var b bundle
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode %s: %w", entry.Name(), err)
		}
		if b.Errors[fallbackKey] == "" {
			return nil, fmt.Errorf("locale %s has no %q message", name, fallbackKey)
		}

		if sameLanguage(tag, def) && defaultIndex < 0 {
			defaultIndex = len(c.tags)
		}
		c.tags = append(c.tags, tag)
		c.bundles = append(c.bundles, b)
	}
	if defaultIndex < 0 {
		return nil, fmt.Errorf("default locale %q has no catalog", defaultLocale)
	}

	// The matcher falls back to its first tag.
	c.tags[0], c.tags[defaultIndex] = c.tags[defaultIndex], c.tags[0]
	c.bundles[0], c.bundles[defaultIndex] = c.bundles[defaultIndex], c.bundles[0]
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Locale identifies a negotiated catalog.
type Locale struct {
	index int
	tag   language.Tag
}

// String returns the BCP 47 tag of the catalog.
func (l Locale) String() string { return l.tag.String() }

// Negotiate picks a catalog from an explicit locale, falling back to an
// Accept-Language header and then to the default locale.
func (c *Catalog) Negotiate(explicit, acceptLanguage string) Locale {
	var desired []language.Tag
	if tag, err := language.Parse(strings.TrimSpace(explicit)); err == nil {
		desired = append(desired, tag)
	}
	if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
		desired = append(desired, tags...)
	}

	_, index, confidence := c.matcher.Match(desired...)
	if confidence == language.No {
		index = 0
	}
	return Locale{index: index, tag: c.tags[index]}
}

// FieldLabel returns the localized label of a checkout field.
func (c *Catalog) FieldLabel(locale Locale, field string) string {
	if label := c.bundle(locale).Fields[field]; label != "" {
		return label
	}
	return field
}

// Message renders the error text for a validation code on a field.
func (c *Catalog) Message(locale Locale, field, code string) string {
	b := c.bundle(locale)
	template, ok := b.Errors[code]
	if !ok || template == "" {
		template = b.Errors[fallbackKey]
	}
	return strings.ReplaceAll(template, fieldPlaceholder, c.FieldLabel(locale, field))
}

func sameLanguage(a, b language.Tag) bool {
	ab, _ := a.Base()
	bb, _ := b.Base()
	return ab == bb
}

func (c *Catalog) bundle(locale Locale) bundle {
	if locale.index < 0 || locale.index >= len(c.bundles) {
		return c.bundles[0]
	}
	return c.bundles[locale.index]
}
