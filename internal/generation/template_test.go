package generation

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-portal/internal/urls"
)

func testContent() *PortalContent {
	return &PortalContent{
		DisplayName: "Ada Lovelace",
		Headline:    "Engineer",
		Summary:     "Builds analytical engines.",
		Skills:      []string{"Go", "Mathematics"},
		Sections:    []string{"Engineer at Analytical Engines Ltd"},
	}
}

func TestTemplateGenerate(t *testing.T) {
	g := NewHTMLTemplateGenerator()

	bundle, err := g.Generate(context.Background(), testContent())
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, DefaultTheme(), bundle.Theme)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bundle.HTML))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", doc.Find("#hero h1").Text())
	assert.Equal(t, "Engineer", doc.Find("#hero .headline").Text())
	assert.Equal(t, 2, doc.Find("#skills li").Length())
	assert.Equal(t, 1, doc.Find("#experience article").Length())

	// Every public entry point is linked from the nav.
	for _, path := range []string{"/chat", "/contact", "/download", "/connect"} {
		assert.Equal(t, 1, doc.Find(`#portal-nav a[href="`+path+`"]`).Length(), "missing %s", path)
	}
}

func TestTemplateGenerateEscapesContent(t *testing.T) {
	g := NewHTMLTemplateGenerator()
	content := testContent()
	content.DisplayName = `<script>alert("x")</script>`

	bundle, err := g.Generate(context.Background(), content)
	require.NoError(t, err)
	assert.NotContains(t, bundle.HTML, `<script>alert`)
}

func TestTemplateGenerateNilContent(t *testing.T) {
	g := NewHTMLTemplateGenerator()

	_, err := g.Generate(context.Background(), nil)
	assert.Error(t, err)
}

func TestVerifyBundleRejectsBrokenSite(t *testing.T) {
	err := VerifyBundle(&TemplateBundle{HTML: "<html><body><p>empty</p></body></html>"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hero")

	// Hero present but a nav link missing.
	html := `<html><body><header id="hero"></header>
<nav id="portal-nav"><a href="/chat"></a><a href="/contact"></a><a href="/download"></a></nav>
</body></html>`
	err = VerifyBundle(&TemplateBundle{HTML: html})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/connect")
}

func TestEntryPoints(t *testing.T) {
	set := urls.BuildPortalURLs("Ada Lovelace")

	entries := EntryPoints(set)
	assert.Len(t, entries, 5)
	assert.Equal(t, set.Portal, entries["portal"])
	assert.Equal(t, set.Chat, entries["chat"])
	assert.Equal(t, set.QRMenu, entries["qrMenu"])
}
