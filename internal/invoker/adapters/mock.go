package adapters

import (
	"context"

	"github.com/af-corp/draftgen/internal/prompt"
)

// Mock answers every prompt with the response exemplar. Used for local runs
// without provider credentials.
type Mock struct {
	Response string
}

func NewMock() *Mock {
	return &Mock{Response: prompt.Exemplar}
}

func (m *Mock) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.Response, nil
}
