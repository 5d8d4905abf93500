package llm

import (
	"context"
	"sync/atomic"

	"github.com/jonathan/cover-letter-bot/internal/rendering"
)

// DebugGenerator returns a placeholder letter without any network call.
type DebugGenerator struct {
	// JobURL is printed in the placeholder document.
	JobURL    string
	Signature string

	calls atomic.Int64
}

// Generate returns the placeholder document. The prompt is ignored.
func (g *DebugGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.calls.Add(1)
	return rendering.PlaceholderDocument(rendering.PlaceholderData{
		JobURL:    g.JobURL,
		Signature: g.Signature,
	})
}

// Calls reports how many times Generate was invoked.
func (g *DebugGenerator) Calls() int64 {
	return g.calls.Load()
}

// Close implements Generator.
func (g *DebugGenerator) Close() error {
	return nil
}
