// Package generation holds the external generation and deployment services
// consumed by the portal pipeline. The orchestrator only sees the interfaces;
// the default implementations simulate the external systems with
// production-shaped inputs and outputs.
package generation

import (
	"context"

	"github.com/jonathan/cv-portal/internal/types"
)

// PortalContent is the site-ready content extracted from a parsed CV.
type PortalContent struct {
	DisplayName string   `json:"displayName"`
	Headline    string   `json:"headline"`
	Summary     string   `json:"summary"`
	Skills      []string `json:"skills"`
	Sections    []string `json:"sections"`
	ChatPersona string   `json:"chatPersona"`
}

// Theme holds the visual configuration of a portal.
type Theme struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
	Font    string `json:"font"`
}

// DefaultTheme returns the stock portal theme.
func DefaultTheme() Theme {
	return Theme{Primary: "#0f172a", Accent: "#2563eb", Font: "Inter"}
}

// TemplateBundle is the rendered micro-site artifact.
type TemplateBundle struct {
	HTML  string
	Theme Theme
}

// Chunk is one embeddable unit of portal content.
type Chunk struct {
	ID     string
	Text   string
	Vector []float32
}

// EmbeddingSet is the output of the embedding build stage.
type EmbeddingSet struct {
	Chunks []Chunk
	Dim    int
}

// DeployRequest carries everything the deployment service needs for one
// portal.
type DeployRequest struct {
	PortalID string
	JobID    string
	HTML     string
	Chunks   int
}

// Deployment identifies a completed deployment on the hosting service.
type Deployment struct {
	ID string
}

// AssetBundle holds the downloadable artifacts attached to a portal.
type AssetBundle struct {
	DownloadPDF  []byte
	DownloadHTML []byte
	QRCodes      map[string][]byte
}

// ContentExtractor builds portal content from a parsed CV.
type ContentExtractor interface {
	Extract(ctx context.Context, cv *types.ParsedCV) (*PortalContent, error)
}

// TemplateGenerator renders the micro-site HTML for extracted content.
type TemplateGenerator interface {
	Generate(ctx context.Context, content *PortalContent) (*TemplateBundle, error)
}

// DesignCustomizer applies caller theme overrides to a rendered bundle.
type DesignCustomizer interface {
	Customize(ctx context.Context, bundle *TemplateBundle, overrides map[string]any) (*TemplateBundle, error)
}

// EmbeddingBuilder produces embedding vectors for the portal's chat RAG.
type EmbeddingBuilder interface {
	Build(ctx context.Context, content *PortalContent) (*EmbeddingSet, error)
}

// VectorIndexer loads an embedding set into a queryable index.
type VectorIndexer interface {
	Setup(ctx context.Context, set *EmbeddingSet) (*VectorIndex, error)
}

// Deployer pushes the portal bundle to the hosting service.
type Deployer interface {
	Deploy(ctx context.Context, req DeployRequest) (*Deployment, error)
}

// QRGenerator produces QR code images for the portal's entry points.
type QRGenerator interface {
	Generate(ctx context.Context, urls *types.PortalUrls) (map[string][]byte, error)
}

// AssetBuilder bundles the downloadable artifacts for a finished portal.
type AssetBuilder interface {
	Build(ctx context.Context, bundle *TemplateBundle, qr map[string][]byte) (*AssetBundle, error)
}

// Services groups every external service the pipeline consumes.
type Services struct {
	Content     ContentExtractor
	Template    TemplateGenerator
	Design      DesignCustomizer
	Embeddings  EmbeddingBuilder
	VectorIndex VectorIndexer
	Deployer    Deployer
	QR          QRGenerator
	Assets      AssetBuilder
}

// Simulated returns a full service set with no external dependencies:
// deterministic content extraction, in-memory vectors and a deployer that
// never leaves the process.
func Simulated() Services {
	return Services{
		Content:     &StaticExtractor{},
		Template:    NewHTMLTemplateGenerator(),
		Design:      &ThemeCustomizer{},
		Embeddings:  &HashingEmbedder{Dim: DefaultEmbeddingDim},
		VectorIndex: &MemoryIndexer{},
		Deployer:    &SimulatedDeployer{},
		QR:          &CodeGenerator{Size: 256},
		Assets:      &DefaultAssetBuilder{},
	}
}
