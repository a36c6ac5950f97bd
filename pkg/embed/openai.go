package embed

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const embeddingDimensions = 1536

type OpenAIEmbedder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	modelName string
}

func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIEmbedder{
		client:    &client,
		model:     openai.EmbeddingModelTextEmbedding3Small,
		modelName: "text-embedding-3-small",
	}
}

func (e *OpenAIEmbedder) Embed(text string) ([]float64, error) {
	input := truncate(text, MaxInputChars)

	resp, err := e.client.Embeddings.New(context.Background(), openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(input),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty response from openai", ErrProvider)
	}

	vector := resp.Data[0].Embedding
	if len(vector) != embeddingDimensions {
		return nil, fmt.Errorf("%w: unexpected vector size %d", ErrProvider, len(vector))
	}

	return vector, nil
}

func (e *OpenAIEmbedder) Dimensions() int {
	return embeddingDimensions
}

func (e *OpenAIEmbedder) Model() string {
	return e.modelName
}
