package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langcontroller/langcontroller/internal/testutil"
)

func TestParseMarkdown(t *testing.T) {
	t.Run("parse valid index", func(t *testing.T) {
		content := `# Prompt Index

> Auto-generated on 2024-01-01 - Do not edit manually

| Prompt | Kind | Source | Target | Bytes | Tokens | File |
|---|---|---|---|---|---|---|
| strategy | terminal |  | strategy | 120 | 30 | [templates/strategy.jinja2](templates/strategy.jinja2) |
| strategy-to-vision | linked | strategy | vision | 80 | 20 | [templates/strategy-to-vision.jinja2](templates/strategy-to-vision.jinja2) |

## Summary

- **linked**: 1
- **terminal**: 1

**Total**: 2 prompts, 50 tokens (gpt-4)
`

		data, err := ParseMarkdown(content)
		require.NoError(t, err)
		require.Len(t, data.Prompts, 2)

		first := data.Prompts[0]
		assert.Equal(t, "strategy", first.Prompt)
		assert.Equal(t, KindTerminal, first.Kind)
		assert.Empty(t, first.Source)
		assert.Equal(t, 120, first.Bytes)
		assert.Equal(t, 30, first.Tokens)
		assert.Equal(t, "templates/strategy.jinja2", first.Path)

		second := data.Prompts[1]
		assert.Equal(t, "strategy", second.Source)
		assert.Equal(t, "vision", second.Target)

		assert.Equal(t, 50, data.TotalTokens)
		assert.Equal(t, map[string]int{KindTerminal: 1, KindLinked: 1}, data.Summary)
	})

	t.Run("empty content", func(t *testing.T) {
		data, err := ParseMarkdown("")
		require.NoError(t, err)
		assert.Empty(t, data.Prompts)
	})

	t.Run("content without a prompt table", func(t *testing.T) {
		data, err := ParseMarkdown("# Notes\n\nsomething else entirely\n")
		assert.ErrorIs(t, err, ErrUnrecognizedIndex)
		assert.Nil(t, data)
	})

	t.Run("malformed row ends the table", func(t *testing.T) {
		content := "| Prompt | Kind | Source | Target | Bytes | Tokens | File |\n|---|---|---|---|---|---|---|\n| a | terminal |  | a | x | 1 | [p](p) |\n| b | terminal |  | b | 1 | 1 | [p](p) |\n"
		data, err := ParseMarkdown(content)
		require.NoError(t, err)
		assert.Empty(t, data.Prompts)
	})
}

func TestMarkdownRoundTrip(t *testing.T) {
	fix := testutil.NewProjectFixture(t)
	fix.WriteFile(t, "templates/vision.jinja2", []byte("Create a Vision"))
	fix.WriteFile(t, "templates/vision-to-roadmap.jinja2", []byte("Using the Vision below"))

	gen := newTestGenerator(t, fix)
	data, err := gen.Build()
	require.NoError(t, err)
	md, err := gen.Markdown(data)
	require.NoError(t, err)

	parsed, err := ParseMarkdown(md)
	require.NoError(t, err)
	assert.Equal(t, data.Prompts, parsed.Prompts)
	assert.False(t, ComputeDiff(parsed, data).HasChanges())
}
