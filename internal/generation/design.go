package generation

import (
	"context"
	"fmt"
	"strings"
)

// ThemeCustomizer applies caller-supplied theme overrides to a rendered
// bundle. Overrides arrive as the free-form portalConfig map from the
// invocation request; unknown keys are ignored.
type ThemeCustomizer struct{}

// Customize replaces the CSS variables in the rendered HTML with the override
// values and returns a new bundle. A nil or empty override map returns the
// bundle unchanged.
func (c *ThemeCustomizer) Customize(_ context.Context, bundle *TemplateBundle, overrides map[string]any) (*TemplateBundle, error) {
	if bundle == nil {
		return nil, fmt.Errorf("template bundle is required")
	}
	if len(overrides) == 0 {
		return bundle, nil
	}

	theme := bundle.Theme
	if v, ok := stringOverride(overrides, "primaryColor"); ok {
		theme.Primary = v
	}
	if v, ok := stringOverride(overrides, "accentColor"); ok {
		theme.Accent = v
	}
	if v, ok := stringOverride(overrides, "font"); ok {
		theme.Font = v
	}
	if theme == bundle.Theme {
		return bundle, nil
	}

	html := bundle.HTML
	html = strings.Replace(html, "--primary: "+bundle.Theme.Primary, "--primary: "+theme.Primary, 1)
	html = strings.Replace(html, "--accent: "+bundle.Theme.Accent, "--accent: "+theme.Accent, 1)
	html = strings.Replace(html, `--font: "`+bundle.Theme.Font+`"`, `--font: "`+theme.Font+`"`, 1)

	out := &TemplateBundle{HTML: html, Theme: theme}
	if err := VerifyBundle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// stringOverride reads a non-empty string value from the overrides map,
// checking both bare keys and theme-prefixed keys.
func stringOverride(overrides map[string]any, key string) (string, bool) {
	for _, k := range []string{key, "theme." + key} {
		if v, ok := overrides[k].(string); ok && v != "" {
			return v, true
		}
	}
	if nested, ok := overrides["theme"].(map[string]any); ok {
		if v, ok := nested[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
