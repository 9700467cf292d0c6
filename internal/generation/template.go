package generation

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/cv-portal/internal/types"
)

// portalTemplate is the micro-site shell. The nav links are the portal's
// public entry points and are verified after rendering.
const portalTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.DisplayName}} — CV Portal</title>
<style>
:root { --primary: {{.Theme.Primary}}; --accent: {{.Theme.Accent}}; --font: "{{.Theme.Font}}", sans-serif; }
body { font-family: var(--font); color: var(--primary); margin: 0; }
a.cta { color: var(--accent); }
</style>
</head>
<body>
<header id="hero">
<h1>{{.DisplayName}}</h1>
<p class="headline">{{.Headline}}</p>
<p class="summary">{{.Summary}}</p>
</header>
<nav id="portal-nav">
<a class="cta" href="/chat">Chat</a>
<a class="cta" href="/contact">Contact</a>
<a class="cta" href="/download">Download CV</a>
<a class="cta" href="/connect">Connect</a>
</nav>
<section id="skills">
<ul>
{{range .Skills}}<li>{{.}}</li>
{{end}}</ul>
</section>
<section id="experience">
{{range .Sections}}<article>{{.}}</article>
{{end}}</section>
</body>
</html>
`

// HTMLTemplateGenerator renders the portal micro-site from extracted content.
type HTMLTemplateGenerator struct {
	tmpl *template.Template
}

// NewHTMLTemplateGenerator parses the built-in portal template.
func NewHTMLTemplateGenerator() *HTMLTemplateGenerator {
	return &HTMLTemplateGenerator{
		tmpl: template.Must(template.New("portal").Parse(portalTemplate)),
	}
}

type templateData struct {
	*PortalContent
	Theme Theme
}

// Generate renders the site with the default theme and verifies the result
// carries the required structure.
func (g *HTMLTemplateGenerator) Generate(_ context.Context, content *PortalContent) (*TemplateBundle, error) {
	if content == nil {
		return nil, fmt.Errorf("portal content is required")
	}

	data := templateData{PortalContent: content, Theme: DefaultTheme()}
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render portal template: %w", err)
	}

	bundle := &TemplateBundle{HTML: buf.String(), Theme: data.Theme}
	if err := VerifyBundle(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// requiredNavPaths are the entry points every rendered portal must link.
var requiredNavPaths = []string{"/chat", "/contact", "/download", "/connect"}

// VerifyBundle checks the rendered HTML for the structure the deployed portal
// depends on: a hero block and nav links for every public entry point.
func VerifyBundle(bundle *TemplateBundle) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bundle.HTML))
	if err != nil {
		return fmt.Errorf("failed to parse rendered portal: %w", err)
	}

	if doc.Find("#hero").Length() == 0 {
		return fmt.Errorf("rendered portal is missing the hero section")
	}

	found := map[string]bool{}
	doc.Find("#portal-nav a").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			found[href] = true
		}
	})
	for _, path := range requiredNavPaths {
		if !found[path] {
			return fmt.Errorf("rendered portal is missing the %s nav link", path)
		}
	}
	return nil
}

// EntryPoints returns the named public entry URLs of a portal, in the order
// they are surfaced to visitors.
func EntryPoints(urls *types.PortalUrls) map[string]string {
	return map[string]string{
		"portal":   urls.Portal,
		"chat":     urls.Chat,
		"contact":  urls.Contact,
		"download": urls.Download,
		"qrMenu":   urls.QRMenu,
	}
}
