// Package urls synthesizes the canonical public URLs for a deployed portal.
//
// Everything here is pure and total: unusual display names degrade to the
// fallback slug instead of failing.
package urls

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-portal/internal/types"
)

// fallbackSlug is used when a display name has no usable characters.
const fallbackSlug = "user"

// hostSuffix is the fixed host suffix for deployed portal spaces.
const hostSuffix = "-cv-portal.hf.space"

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// Slugify maps a free-text display name to a canonical URL slug: lowercase,
// strip everything outside [a-z0-9\s-], collapse whitespace runs to a single
// hyphen, collapse repeated hyphens, trim leading/trailing hyphens. An input
// with nothing left after stripping yields the fallback slug.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = hyphenRun.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// BuildPortalURLs derives the full URL set for a portal from a display name.
// All paths hang off the same base host.
func BuildPortalURLs(displayName string) *types.PortalUrls {
	base := "https://" + Slugify(displayName) + hostSuffix
	return &types.PortalUrls{
		Portal:   base,
		Chat:     base + "/chat",
		Contact:  base + "/contact",
		Download: base + "/download",
		QRMenu:   base + "/connect",
		API: types.APIUrls{
			Chat:      base + "/api/chat",
			Contact:   base + "/api/contact",
			Analytics: base + "/api/analytics",
		},
	}
}
