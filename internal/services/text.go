package services

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStrip      = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
	searchSpaces   = regexp.MustCompile(`\s+`)
	richTextPolicy = bluemonday.UGCPolicy()
	plainPolicy    = bluemonday.StrictPolicy()
)

// Slugify lowercases value, folds accents, drops everything except word
// characters, whitespace and hyphens, then joins words with single hyphens.
func Slugify(value string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		folded = value
	}
	slug := strings.ToLower(strings.TrimSpace(folded))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// SplitTags splits a comma separated list.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return CleanTags(strings.Split(raw, ","))
}

// CleanTags trims, drops blanks and duplicates, and keeps first-seen order.
func CleanTags(tags []string) []string {
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		value := strings.TrimSpace(tag)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		cleaned = append(cleaned, value)
	}
	return cleaned
}

func CleanSearchTerm(term string) string {
	return searchSpaces.ReplaceAllString(strings.TrimSpace(term), " ")
}

// SanitizeRichText keeps safe article markup and drops scripts, handlers and
// unknown elements.
func SanitizeRichText(value string) string {
	return strings.TrimSpace(richTextPolicy.Sanitize(value))
}

// PlainText strips all markup.
func PlainText(value string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(value)))
}
