package css

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/benchtheme/internal/theme"
)

func TestRule_Expand(t *testing.T) {
	doc := &theme.Document{
		Name: "Test",
		Colors: map[string]map[string]string{
			"backgrounds": {"bg-secondary": "#222222", "bg-primary": "#111111"},
		},
	}

	rules, err := DefaultRules[0].Expand(doc)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "bg-primary", rules[0].Field)
	assert.Equal(t, "--bg-primary", rules[0].Property)
	assert.Equal(t, "--bg-secondary", rules[1].Property)

	// Text category is absent
	_, err = DefaultRules[1].Expand(doc)
	assert.True(t, errors.Is(err, theme.ErrMissingField))

	// Fixed fields pass through
	fixed := Rule{Category: "links", Field: "default", File: StyleCSS, Selector: "a:link", Property: "color"}
	rules, err = fixed.Expand(doc)
	require.NoError(t, err)
	assert.Equal(t, []Rule{fixed}, rules)
}

func TestDefaultRules_WellFormed(t *testing.T) {
	for _, rule := range DefaultRules {
		t.Run(rule.String(), func(t *testing.T) {
			assert.NotEmpty(t, rule.Category)
			assert.NotEmpty(t, rule.Field)
			assert.Equal(t, StyleCSS, rule.File)
			assert.NotEmpty(t, rule.Property)
			if rule.Field == AllFields {
				assert.Contains(t, rule.Property, FieldPlaceholder)
				assert.Empty(t, rule.Selector)
			} else {
				assert.NotEmpty(t, rule.Selector)
			}
		})
	}
}

func TestDefaultRules_CoverBundledThemes(t *testing.T) {
	for _, name := range theme.BundledThemes {
		t.Run(name, func(t *testing.T) {
			doc, found := theme.GetEmbeddedTheme(name)
			require.True(t, found)
			assert.Empty(t, MissingFields(doc, DefaultRules))
		})
	}
}

func TestMissingFields(t *testing.T) {
	doc := &theme.Document{
		Name: "Partial",
		Colors: map[string]map[string]string{
			"backgrounds": {"bg-primary": "#111111"},
			"buttons":     {"btn_blue": "#222222", "btn_red": "nope"},
		},
	}

	errs := MissingFields(doc, DefaultRules)
	require.NotEmpty(t, errs)
	for _, err := range errs {
		assert.True(t, errors.Is(err, theme.ErrMissingField))
	}

	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	assert.Contains(t, messages, "missing color field: buttons.btn_red has invalid color \"nope\"")
	assert.NotContains(t, messages, "missing color field: buttons.btn_blue")

	// table_header_bg appears in four rules but is reported once
	count := 0
	for _, msg := range messages {
		if msg == "missing color field: ui_elements.table_header_bg (no \"ui_elements\" category)" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
