package embedder

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// Provider names accepted by the factory.
const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	// DefaultOpenAIModel is used when no model override is configured.
	DefaultOpenAIModel = string(openai.SmallEmbedding3)

	// LocalDimension is the fixed dimensionality of the offline backend.
	LocalDimension = 384
)

// OpenAIBackend embeds text through the OpenAI embeddings API.
type OpenAIBackend struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIBackend creates an OpenAI-backed embedder.
func NewOpenAIBackend(apiKey, model string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing OpenAI API key", ErrNoProviderEnabled)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIBackend{
		client: openai.NewClient(apiKey),
		model:  openai.EmbeddingModel(model),
	}, nil
}

// Init is a no-op: the API client holds no warm state.
func (o *OpenAIBackend) Init(ctx context.Context) error {
	return nil
}

func (o *OpenAIBackend) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: o.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings: empty response")
	}

	vec := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float64(v)
	}
	return vec, nil
}

func (o *OpenAIBackend) Label() string {
	return ProviderOpenAI + "/" + string(o.model)
}

// LocalBackend produces deterministic hash-derived vectors. It is the
// offline fallback: no semantic quality, but stable output for the same
// input, which keeps ranking reproducible without any network dependency.
type LocalBackend struct{}

// NewLocalBackend creates the offline backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{}
}

// Init is a no-op; the backend holds no model state.
func (l *LocalBackend) Init(ctx context.Context) error {
	return nil
}

func (l *LocalBackend) Embed(ctx context.Context, text string) ([]float64, error) {
	// Chain SHA-256 digests to fill the full dimensionality, then
	// normalize to unit length.
	vec := make([]float64, LocalDimension)
	digest := sha256.Sum256([]byte(text))
	for i := 0; i < LocalDimension; i++ {
		if i > 0 && i%sha256.Size == 0 {
			digest = sha256.Sum256(digest[:])
		}
		vec[i] = float64(digest[i%sha256.Size])/127.5 - 1
	}

	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum > 0 {
		norm := math.Sqrt(sum)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func (l *LocalBackend) Label() string {
	return ProviderLocal + "/hash-v1"
}
