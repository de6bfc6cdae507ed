package indexer

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langcontroller/langcontroller/internal/project"
	"github.com/langcontroller/langcontroller/internal/testutil"
)

type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }
func (wordCounter) Name() string          { return "words" }

func newTestGenerator(t *testing.T, fix *testutil.Fixture) *Generator {
	t.Helper()
	opts := fix.Options(t, false, false, false)
	return NewGenerator(opts, project.NewLayout(fix.Root, ""), wordCounter{})
}

func TestGeneratorBuildAndRender(t *testing.T) {
	fix := testutil.NewProjectFixture(t)
	fix.WriteFile(t, "templates/strategy.jinja2", []byte("Create a Strategy now"))
	fix.WriteFile(t, "templates/strategy-to-scaled-agile-portfolio.jinja2", []byte("Using the Strategy"))
	fix.WriteFile(t, "templates/notes.txt", []byte("not a prompt"))

	gen := newTestGenerator(t, fix)
	data, err := gen.Build()
	require.NoError(t, err)
	require.Len(t, data.Prompts, 2)

	terminal := data.Prompts[0]
	linked := data.Prompts[1]
	assert.Equal(t, "strategy", terminal.Prompt)
	assert.Equal(t, KindLinked, linked.Kind)
	assert.Equal(t, "strategy", linked.Source)
	assert.Equal(t, "scaled-agile-portfolio", linked.Target)
	assert.Equal(t, "templates/strategy-to-scaled-agile-portfolio.jinja2", linked.Path)
	assert.Equal(t, 3, linked.Tokens)

	assert.Equal(t, KindTerminal, terminal.Kind)
	assert.Empty(t, terminal.Source)
	assert.Equal(t, 4, terminal.Tokens)
	assert.Equal(t, len("Create a Strategy now"), terminal.Bytes)

	assert.Equal(t, map[string]int{KindLinked: 1, KindTerminal: 1}, data.Summary)
	assert.Equal(t, 7, data.TotalTokens)
	assert.Equal(t, "words", data.Encoding)

	md, err := gen.Render(data, "md")
	require.NoError(t, err)
	assert.Contains(t, md, "# Prompt Index")
	assert.Contains(t, md, "| strategy | terminal |  | strategy |")
	assert.Contains(t, md, "**Total**: 2 prompts, 7 tokens (words)")

	jsonOutput, err := gen.Render(data, "json")
	require.NoError(t, err)
	var decoded Data
	require.NoError(t, json.Unmarshal([]byte(jsonOutput), &decoded))
	assert.Len(t, decoded.Prompts, 2)

	table, err := gen.Render(data, "")
	require.NoError(t, err)
	assert.Contains(t, table, "PROMPT")
	assert.Contains(t, table, "strategy-to-scaled-agile-portfolio")

	_, err = gen.Render(data, "html")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestGeneratorHonorsGitignore(t *testing.T) {
	fix := testutil.NewProjectFixture(t)
	fix.WriteFile(t, ".gitignore", []byte("templates/draft-*\n"))
	fix.WriteFile(t, "templates/draft-vision.jinja2", []byte("wip"))
	fix.WriteFile(t, "templates/vision.jinja2", []byte("Create a Vision"))

	data, err := newTestGenerator(t, fix).Build()
	require.NoError(t, err)
	require.Len(t, data.Prompts, 1)
	assert.Equal(t, "vision", data.Prompts[0].Prompt)
}

func TestGeneratorMissingTemplates(t *testing.T) {
	fix := testutil.NewFixture(t)
	_, err := newTestGenerator(t, fix).Build()
	assert.Error(t, err)
}

func TestNewEntry(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		body   string
		kind   string
		source string
		target string
	}{
		{"terminal by name", "strategy", "", KindTerminal, "", "strategy"},
		{"linked by name", "strategy-to-vision", "", KindLinked, "strategy", "vision"},
		{"first separator wins", "go-to-market-to-launch", "", KindLinked, "go", "market-to-launch"},
		{"trailing separator", "path-to", "", KindTerminal, "", "path-to"},
		{
			"terminal header", "back-to-school",
			"{# kind: terminal target: back-to-school #}\n{% extends \"base.jinja2\" %}",
			KindTerminal, "", "back-to-school",
		},
		{
			"linked header", "a-to-back-to-school",
			"{# kind: linked source: a target: back-to-school #}\n",
			KindLinked, "a", "back-to-school",
		},
		{
			"linked header with separator in source", "go-to-market-to-launch",
			"{# kind: linked source: go-to-market target: launch #}\n",
			KindLinked, "go-to-market", "launch",
		},
		{
			"malformed header falls back to name", "strategy-to-vision",
			"{# kind: linked target: vision #}\n",
			KindLinked, "strategy", "vision",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := newEntry(tt.prompt, []byte(tt.body))
			assert.Equal(t, tt.prompt, entry.Prompt)
			assert.Equal(t, tt.kind, entry.Kind)
			assert.Equal(t, tt.source, entry.Source)
			assert.Equal(t, tt.target, entry.Target)
		})
	}
}

func TestApproxCounter(t *testing.T) {
	c := ApproxCounter{}
	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 1, c.Count("abc"))
	assert.Equal(t, 2, c.Count("abcdefgh"))
	assert.Equal(t, "approx", c.Name())
}

func TestNewCounterFallsBack(t *testing.T) {
	c := NewCounter("no-such-model")
	assert.Equal(t, "approx", c.Name())
}

func TestNewCounterApproxModel(t *testing.T) {
	_, ok := NewCounter(ApproxModel).(ApproxCounter)
	assert.True(t, ok)
}
