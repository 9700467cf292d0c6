package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	pdf []byte
	err error
}

func (r *stubRenderer) RenderPDF(context.Context, string) ([]byte, error) {
	return r.pdf, r.err
}

func TestAssetBuilderWithoutRenderer(t *testing.T) {
	b := &DefaultAssetBuilder{}
	qr := map[string][]byte{"portal": {1, 2, 3}}

	assets, err := b.Build(context.Background(), &TemplateBundle{HTML: "<html></html>"}, qr)
	require.NoError(t, err)
	assert.Equal(t, []byte("<html></html>"), assets.DownloadHTML)
	assert.Nil(t, assets.DownloadPDF)
	assert.Equal(t, qr, assets.QRCodes)
}

func TestAssetBuilderWithRenderer(t *testing.T) {
	b := &DefaultAssetBuilder{Renderer: &stubRenderer{pdf: []byte("%PDF-1.7")}}

	assets, err := b.Build(context.Background(), &TemplateBundle{HTML: "<html></html>"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), assets.DownloadPDF)
}

func TestAssetBuilderRendererFailure(t *testing.T) {
	b := &DefaultAssetBuilder{Renderer: &stubRenderer{err: errors.New("chrome crashed")}}

	_, err := b.Build(context.Background(), &TemplateBundle{HTML: "<html></html>"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome crashed")
}

func TestAssetBuilderNilBundle(t *testing.T) {
	b := &DefaultAssetBuilder{}

	_, err := b.Build(context.Background(), nil, nil)
	assert.Error(t, err)
}
