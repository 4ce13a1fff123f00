// Package content holds the static English and Welsh text bundles the views
// are built from.
package content

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed bundles/*.yaml
var bundleFS embed.FS

// Lang is a supported page language.
type Lang string

const (
	English Lang = "en"
	Welsh   Lang = "cy"
)

// Languages lists every supported language, English first.
var Languages = []Lang{English, Welsh}

// ParseLang maps a query value to a Lang. Anything unrecognised is English.
func ParseLang(s string) Lang {
	if Lang(strings.ToLower(strings.TrimSpace(s))) == Welsh {
		return Welsh
	}
	return English
}

// Valid reports whether s names a supported language.
func Valid(s string) bool {
	return s == string(English) || s == string(Welsh)
}

// Page is the static text of one page.
type Page struct {
	Title   string `yaml:"title"`
	Heading string `yaml:"heading"`
}

// BandText is the readable name and advice for an air-quality band.
type BandText struct {
	Readable string `yaml:"readable"`
	Advice   string `yaml:"advice"`
	Outlook  string `yaml:"outlook"`
}

// Bundle is all the static text for one language.
type Bundle struct {
	Lang            Lang                `yaml:"-"`
	ServiceName     string              `yaml:"serviceName"`
	Pages           map[string]Page     `yaml:"pages"`
	Bands           map[string]BandText `yaml:"bands"`
	Weekdays        map[string]string   `yaml:"weekdays"`
	Months          []string            `yaml:"months"`
	ForecastWarning string              `yaml:"forecastWarning"`
	Errors          map[string]string   `yaml:"errors"`
	Pollutants      map[string]string   `yaml:"pollutants"`
}

// Bundles maps each language to its bundle.
type Bundles map[Lang]*Bundle

// Load parses the embedded bundles.
func Load() (Bundles, error) {
	bundles := make(Bundles, len(Languages))
	for _, lang := range Languages {
		raw, err := bundleFS.ReadFile("bundles/" + string(lang) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read %s bundle: %w", lang, err)
		}
		var b Bundle
		if err := yaml.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("parse %s bundle: %w", lang, err)
		}
		if len(b.Months) != 12 {
			return nil, fmt.Errorf("%s bundle: expected 12 months, got %d", lang, len(b.Months))
		}
		b.Lang = lang
		bundles[lang] = &b
	}
	return bundles, nil
}

// MustLoad is Load for program start-up and tests.
func MustLoad() Bundles {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// For returns the bundle for lang, falling back to English.
func (b Bundles) For(lang Lang) *Bundle {
	if bundle, ok := b[lang]; ok {
		return bundle
	}
	return b[English]
}

// PageTitle returns the title of page with {placeholders} substituted from
// pairs of key, value arguments.
func (b *Bundle) PageTitle(page string, pairs ...string) string {
	return fill(b.Pages[page].Title, pairs...)
}

// PageHeading returns the heading of page, filled like PageTitle.
func (b *Bundle) PageHeading(page string, pairs ...string) string {
	return fill(b.Pages[page].Heading, pairs...)
}

// Band returns the text for band, or the "unknown" text when missing.
func (b *Bundle) Band(band string) BandText {
	if text, ok := b.Bands[band]; ok {
		return text
	}
	return b.Bands["unknown"]
}

// Weekday returns the localized full weekday name for an upstream
// abbreviation such as "Mon".
func (b *Bundle) Weekday(abbr string) string {
	if name, ok := b.Weekdays[abbr]; ok {
		return name
	}
	return abbr
}

// WeekdayOf returns the localized weekday name of t.
func (b *Bundle) WeekdayOf(t time.Time) string {
	return b.Weekday(t.Weekday().String()[:3])
}

// FormatDate renders t as "18 October 2026" in the bundle's language.
func (b *Bundle) FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), b.Months[t.Month()-1], t.Year())
}

// Warning fills the forecast warning sentence.
func (b *Bundle) Warning(band, weekday string) string {
	return fill(b.ForecastWarning, "band", band, "day", weekday)
}

func fill(template string, pairs ...string) string {
	if len(pairs) < 2 {
		return template
	}
	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(template)
}
