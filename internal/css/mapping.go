package css

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/benchtheme/internal/theme"
)

// AllFields as a Rule field expands to every field of the category.
const AllFields = "*"

// FieldPlaceholder in a Rule property is replaced by the field name on expansion.
const FieldPlaceholder = "{field}"

// StyleCSS is the stylesheet holding all themed colors.
const StyleCSS = "style.css"

// Rule maps one theme color field to a property inside a CSS rule block.
type Rule struct {
	Category string `toml:"category" json:"category" yaml:"category"`
	Field    string `toml:"field" json:"field" yaml:"field"`
	File     string `toml:"file" json:"file" yaml:"file"`
	Selector string `toml:"selector" json:"selector,omitempty" yaml:"selector,omitempty"` // empty matches any block
	Property string `toml:"property" json:"property" yaml:"property"`
}

// String identifies the rule in log output.
func (r Rule) String() string {
	sel := r.Selector
	if sel == "" {
		sel = "*"
	}
	return fmt.Sprintf("%s.%s -> %s { %s }", r.Category, r.Field, sel, r.Property)
}

// Expand resolves wildcard fields against doc.
// A wildcard rule whose category has no fields returns an error wrapping theme.ErrMissingField.
func (r Rule) Expand(doc *theme.Document) ([]Rule, error) {
	if r.Field != AllFields {
		return []Rule{r}, nil
	}

	fields := doc.Fields(r.Category)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields in category %q", theme.ErrMissingField, r.Category)
	}

	rules := make([]Rule, 0, len(fields))
	for _, field := range fields {
		expanded := r
		expanded.Field = field
		expanded.Property = strings.ReplaceAll(r.Property, FieldPlaceholder, field)
		rules = append(rules, expanded)
	}
	return rules, nil
}

// DefaultRules is the mapping of OpenBench theme fields to style.css rules.
var DefaultRules = []Rule{
	// CSS variables
	{Category: theme.CategoryBackgrounds, Field: AllFields, File: StyleCSS, Property: "--" + FieldPlaceholder},
	{Category: theme.CategoryText, Field: AllFields, File: StyleCSS, Property: "--" + FieldPlaceholder},

	{Category: theme.CategoryLinks, Field: "default", File: StyleCSS, Selector: "a:link", Property: "color"},

	{Category: theme.CategoryUIElements, Field: "sidebar_hover", File: StyleCSS, Selector: "#sidebar li:hover", Property: "background-color"},

	// Table headers
	{Category: theme.CategoryUIElements, Field: "table_header_bg", File: StyleCSS, Selector: ".stripes th", Property: "background-color"},
	{Category: theme.CategoryUIElements, Field: "table_header_bg", File: StyleCSS, Selector: ".table-header th", Property: "background-color"},
	{Category: theme.CategoryUIElements, Field: "table_header_bg", File: StyleCSS, Selector: ".table-small-header th", Property: "background-color"},
	{Category: theme.CategoryUIElements, Field: "table_header_bg", File: StyleCSS, Selector: ".table-spacer-small th", Property: "background-color"},

	{Category: theme.CategoryUIElements, Field: "table_border", File: StyleCSS, Selector: "#content td", Property: "border-bottom"},

	{Category: theme.CategoryUIElements, Field: "hover_row", File: StyleCSS, Selector: ".hoverable tr:nth-child(odd):hover", Property: "background-color"},
	{Category: theme.CategoryUIElements, Field: "hover_row", File: StyleCSS, Selector: ".hoverable tr:nth-child(even):hover", Property: "background-color"},

	// Engine options popup
	{Category: theme.CategoryUIElements, Field: "popup_bg", File: StyleCSS, Selector: ".engine-options-popup", Property: "background-color"},
	{Category: theme.CategoryUIElements, Field: "popup_border", File: StyleCSS, Selector: ".engine-options-popup", Property: "border"},

	// Buttons
	{Category: theme.CategoryButtons, Field: "btn_blue", File: StyleCSS, Selector: ".btn-blue", Property: "background-color"},
	{Category: theme.CategoryButtons, Field: "btn_blue_hover", File: StyleCSS, Selector: ".btn-blue:hover", Property: "background-color"},
	{Category: theme.CategoryButtons, Field: "btn_start", File: StyleCSS, Selector: ".btn-start", Property: "background-color"},
	{Category: theme.CategoryButtons, Field: "btn_start_hover", File: StyleCSS, Selector: ".btn-start:hover", Property: "background-color"},
	{Category: theme.CategoryButtons, Field: "btn_preset", File: StyleCSS, Selector: ".btn-preset", Property: "background-color"},
	{Category: theme.CategoryButtons, Field: "btn_preset_hover", File: StyleCSS, Selector: ".btn-preset:hover", Property: "background-color"},
	{Category: theme.CategoryButtons, Field: "btn_yellow", File: StyleCSS, Selector: ".btn-yellow", Property: "background-color"},
	{Category: theme.CategoryButtons, Field: "btn_yellow_hover", File: StyleCSS, Selector: ".btn-yellow:hover", Property: "background-color"},
	{Category: theme.CategoryButtons, Field: "btn_red", File: StyleCSS, Selector: ".btn-red", Property: "background-color"},
	{Category: theme.CategoryButtons, Field: "btn_red_hover", File: StyleCSS, Selector: ".btn-red:hover", Property: "background-color"},
}

// MissingFields returns one error per rule whose field is absent or invalid in doc.
// Each error wraps theme.ErrMissingField. Duplicate fields are reported once.
func MissingFields(doc *theme.Document, rules []Rule) []error {
	seen := make(map[string]bool)
	var errs []error
	for _, rule := range rules {
		expanded, err := rule.Expand(doc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, r := range expanded {
			key := r.Category + "." + r.Field
			if seen[key] {
				continue
			}
			seen[key] = true
			if _, err := doc.Lookup(r.Category, r.Field); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}
