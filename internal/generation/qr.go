package generation

import (
	"context"
	"fmt"
	"sync"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-portal/internal/types"
)

// CodeGenerator renders PNG QR codes for the portal's public entry points.
// The five codes are independent, so they render concurrently.
type CodeGenerator struct {
	Size int
}

// Generate returns one PNG per entry point, keyed by entry-point name.
func (g *CodeGenerator) Generate(ctx context.Context, urls *types.PortalUrls) (map[string][]byte, error) {
	if urls == nil {
		return nil, fmt.Errorf("portal URLs are required")
	}
	size := g.Size
	if size <= 0 {
		size = 256
	}

	codes := make(map[string][]byte)
	var mu sync.Mutex

	eg, _ := errgroup.WithContext(ctx)
	for name, target := range EntryPoints(urls) {
		eg.Go(func() error {
			png, err := qrcode.Encode(target, qrcode.Medium, size)
			if err != nil {
				return fmt.Errorf("failed to encode QR code for %s: %w", name, err)
			}
			mu.Lock()
			codes[name] = png
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return codes, nil
}
