package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cover-letter-bot/internal/rendering"
)

func TestDebugGenerator(t *testing.T) {
	gen := &DebugGenerator{JobURL: "https://example.com/jobs?id=1&ref=2"}

	text, err := gen.Generate(context.Background(), "ignored prompt")
	require.NoError(t, err)
	assert.Contains(t, text, rendering.Placeholder)
	assert.Contains(t, text, `id=1\&ref=2`)
	assert.Equal(t, int64(1), gen.Calls())
	assert.NoError(t, gen.Close())
}

func TestDebugGenerator_Cancelled(t *testing.T) {
	gen := &DebugGenerator{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, "prompt")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), gen.Calls())
}
