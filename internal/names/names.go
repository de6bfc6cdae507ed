// Package names derives the lexical forms used across generated artifacts from a
// single user-supplied identifier.
package names

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidName is matched by every InvalidNameError.
var ErrInvalidName = errors.New("invalid name")

// InvalidNameError reports raw input that normalizes to an empty slug.
type InvalidNameError struct {
	Raw string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: nothing left after normalization", e.Raw)
}

// Is allows errors.Is(err, ErrInvalidName).
func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

var separatorPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug is a lowercase, hyphen-separated identifier restricted to [a-z0-9-].
type Slug string

// String implements fmt.Stringer.
func (s Slug) String() string { return string(s) }

// Normalize converts free text into a Slug. Accents are folded to their base
// letters and other non-ASCII letters are transliterated ("Straße" becomes
// "strasse"). Every run of remaining characters becomes one hyphen and
// leading or trailing hyphens are dropped.
func Normalize(raw string) (Slug, error) {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), raw)
	if err != nil {
		folded = raw
	}
	folded = unidecode.Unidecode(folded)
	slug := separatorPattern.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "", &InvalidNameError{Raw: raw}
	}
	return Slug(slug), nil
}

// Forms holds every lexical variant of one Slug.
type Forms struct {
	Slug  Slug
	Human string // "Scaled Agile Portfolio"
	Type  string // "ScaledAgilePortfolio"
	Field string // "scaled_agile_portfolio"
}

// Parse normalizes raw and derives its forms.
func Parse(raw string) (Forms, error) {
	slug, err := Normalize(raw)
	if err != nil {
		return Forms{}, err
	}
	return FormsOf(slug), nil
}

// FormsOf derives the forms of an already-normalized slug.
func FormsOf(slug Slug) Forms {
	human := HumanName(slug)
	return Forms{
		Slug:  slug,
		Human: human,
		Type:  strings.ReplaceAll(human, " ", ""),
		Field: FieldName(slug),
	}
}

// HumanName replaces hyphens with spaces and title-cases each word.
func HumanName(slug Slug) string {
	words := strings.Split(string(slug), "-")
	caser := cases.Title(language.English)
	for i, word := range words {
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

// TypeName is HumanName without spaces.
func TypeName(slug Slug) string {
	return strings.ReplaceAll(HumanName(slug), " ", "")
}

// FieldName replaces hyphens with underscores.
func FieldName(slug Slug) string {
	return strings.ReplaceAll(string(slug), "-", "_")
}

// Context exposes the forms as template variables named
// <prefix>_slug, <prefix>_human_name, <prefix>_type_name and <prefix>_field_name.
func (f Forms) Context(prefix string) map[string]string {
	return map[string]string{
		prefix + "_slug":       string(f.Slug),
		prefix + "_human_name": f.Human,
		prefix + "_type_name":  f.Type,
		prefix + "_field_name": f.Field,
	}
}
