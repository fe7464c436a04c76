package course

import (
	"errors"
	"regexp"
	"strings"
)

// Domain errors
var (
	ErrEmptyCategorySlug = errors.New("category slug cannot be empty")
	ErrEmptyCategoryName = errors.New("category name cannot be empty")
	ErrInvalidColor      = errors.New("category colors must be #rrggbb hex values")
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category is a family of courses sharing a display colour (Modern Jazz, Classique, ...).
type Category struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Background     string `json:"bg"`
	Text           string `json:"text"`
	TooltipEnabled bool   `json:"tooltip_enabled,omitempty"`
	TooltipText    string `json:"tooltip_text,omitempty"`
}

// Validate checks if the Category has valid data.
// PRE: Category struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Slug) == "" {
		return ErrEmptyCategorySlug
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	if !hexColorPattern.MatchString(c.Background) || !hexColorPattern.MatchString(c.Text) {
		return ErrInvalidColor
	}
	return nil
}

// Tooltip returns the tooltip text when enabled and non-empty.
func (c Category) Tooltip() string {
	if !c.TooltipEnabled {
		return ""
	}
	return strings.TrimSpace(c.TooltipText)
}

// CategoryFor returns the category whose name starts the course title, case-insensitively.
// When several names match, the longest one wins ("Modern Jazz" over "Modern").
func CategoryFor(raw string, categories []Category) (Category, bool) {
	title := strings.ToLower(ExtractTitle(raw))
	var best Category
	bestLen := 0
	found := false
	for _, c := range categories {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" || !strings.HasPrefix(title, name) {
			continue
		}
		if !found || len(name) > bestLen {
			best = c
			bestLen = len(name)
			found = true
		}
	}
	return best, found
}

// CategorySlug returns the first word of the course title, lower-cased.
// Cart entries use it as a CSS modifier.
func CategorySlug(raw string) string {
	fields := strings.Fields(ExtractTitle(raw))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
