package site

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Partial keys read from the theme manifest.
const (
	PartialLayout = "site.layout"
	PartialHome   = "site.home"
	PartialPage   = "site.page"
)

var defaultPartials = map[string]string{
	PartialLayout: "templates/layout.tmpl",
	PartialHome:   "templates/home.tmpl",
	PartialPage:   "templates/page.tmpl",
}

// DefaultManifest is the built-in theme with a light and a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "genform",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-primary":    "#2f6fed",
			"color-on-primary": "#ffffff",
			"color-error":      "#b00020",
			"color-surface":    "#ffffff",
			"color-text":       "#1d1d1f",
			"radius":           "4px",
			"gap":              "1rem",
		},
		Templates: map[string]string{
			PartialLayout: defaultPartials[PartialLayout],
		},
		Assets: theme.Assets{
			Prefix: "assets",
			Files: map[string]string{
				"stylesheet": "genform.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"color-primary": "#8ab4f8",
					"color-surface": "#202124",
					"color-text":    "#e8eaed",
					"color-error":   "#f28b82",
				},
			},
		},
	}
}

// Default theme and variant used when a selection leaves them empty.
const (
	DefaultThemeName    = "genform"
	DefaultThemeVariant = "light"
)

// CSSVarPrefix prefixes every theme token rendered as a CSS variable.
const CSSVarPrefix = "--genform-"

// Themes selects manifests from a go-theme registry. Unknown themes fall back
// to DefaultThemeName; the latest registered version wins unless a
// theme.WithVersion query option pins one.
type Themes struct {
	registry *theme.MemoryRegistry
	selector theme.Selector
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests with a go-theme registry, which rejects
// malformed manifests. Registering the same name twice adds a version.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	registry := theme.NewRegistry()
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("site: register theme %q: %w", manifest.Name, err)
		}
	}
	return &Themes{
		registry: registry,
		selector: theme.Selector{
			Registry:       registry,
			DefaultTheme:   DefaultThemeName,
			DefaultVariant: DefaultThemeVariant,
		},
	}, nil
}

// Select resolves a theme and variant through the go-theme selector. A
// variant the resolved manifest does not declare is an error.
func (t *Themes) Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error) {
	selection, err := t.selector.Select(name, variant, opts...)
	if err != nil {
		return nil, fmt.Errorf("site: select theme %q: %w", name, err)
	}
	if selection.Variant != "" {
		if _, ok := selection.Manifest.Variants[selection.Variant]; !ok {
			return nil, fmt.Errorf("site: theme %q has no variant %q", selection.Manifest.Name, selection.Variant)
		}
	}
	selection.Theme = selection.Manifest.Name
	return selection, nil
}

// RendererConfig resolves a selection with go-theme against the site's
// default partials. CSS variables carry CSSVarPrefix and relative asset
// URLs are rooted at basePath.
func RendererConfig(selection *theme.Selection, basePath string) *theme.RendererConfig {
	if selection == nil {
		selection = &theme.Selection{}
	}
	cfg := selection.RendererTheme(defaultPartials)
	cfg.CSSVars = selection.CSSVariables(CSSVarPrefix)

	resolve := cfg.AssetURL
	cfg.AssetURL = func(key string) string {
		url := resolve(key)
		if url == "" || strings.Contains(url, "://") || strings.HasPrefix(url, "/") {
			return url
		}
		return path.Join(basePath, url)
	}
	return &cfg
}

// CSSVarsStyle renders vars as a :root rule with sorted declarations.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		value := strings.NewReplacer(";", "", "}", "", "<", "").Replace(vars[key])
		fmt.Fprintf(&b, " %s: %s;", key, value)
	}
	b.WriteString(" }")
	return b.String()
}
