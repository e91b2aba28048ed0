package domain

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownCategory is returned when a value does not name one of the
// recognition categories.
var ErrUnknownCategory = errors.New("unknown kudo category")

// Category is one of the fixed recognition values a kudo can be given for.
type Category struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// Label is the display form used in messages and stored history, e.g.
// "Leadership ☄️".
func (c Category) Label() string { return c.Name + " " + c.Emoji }

// Categories lists the recognition values in form order.
var Categories = []Category{
	{Name: "Team player", Emoji: "⚽️"},
	{Name: "Innovation champion", Emoji: "🏆"},
	{Name: "Customer driven", Emoji: "🫂"},
	{Name: "Leadership", Emoji: "☄️"},
}

// ParseCategory resolves either a full label or a bare category name
// (case-insensitive, surrounding space ignored) to its Category.
func ParseCategory(s string) (Category, error) {
	key := foldKey(s)
	if key == "" {
		return Category{}, ErrUnknownCategory
	}
	for _, c := range Categories {
		if key == foldKey(c.Label()) || key == foldKey(c.Name) {
			return c, nil
		}
	}
	return Category{}, ErrUnknownCategory
}

// foldKey drops variation selectors, normalizes s to NFC, case-folds it and
// collapses inner whitespace, so "⚽" and "⚽️" compare equal. Casers and
// transform chains are stateful, so they are built per call.
func foldKey(s string) string {
	t := transform.Chain(runes.Remove(runes.In(unicode.Variation_Selector)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
