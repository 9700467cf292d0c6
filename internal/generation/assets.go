package generation

import (
	"context"
	"fmt"
)

// PDFRenderer renders HTML into a PDF document. Implemented by the headless
// browser renderer in internal/preview; optional at runtime.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// DefaultAssetBuilder bundles the downloadable artifacts for a finished
// portal. With a PDF renderer configured the /download artifact is a printed
// PDF of the site; without one it is the raw HTML.
type DefaultAssetBuilder struct {
	Renderer PDFRenderer
}

// Build assembles the asset bundle from the rendered site and QR codes.
func (b *DefaultAssetBuilder) Build(ctx context.Context, bundle *TemplateBundle, qr map[string][]byte) (*AssetBundle, error) {
	if bundle == nil {
		return nil, fmt.Errorf("template bundle is required")
	}

	assets := &AssetBundle{
		DownloadHTML: []byte(bundle.HTML),
		QRCodes:      qr,
	}

	if b.Renderer != nil {
		pdf, err := b.Renderer.RenderPDF(ctx, bundle.HTML)
		if err != nil {
			return nil, fmt.Errorf("failed to render download PDF: %w", err)
		}
		assets.DownloadPDF = pdf
	}
	return assets, nil
}
