package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDiff(t *testing.T) {
	oldData := &Data{Prompts: []Entry{
		{Prompt: "strategy", Tokens: 10},
		{Prompt: "vision", Tokens: 5},
		{Prompt: "mission", Tokens: 7},
	}}
	newData := &Data{Prompts: []Entry{
		{Prompt: "strategy", Tokens: 12},
		{Prompt: "vision", Tokens: 5},
		{Prompt: "strategy-to-vision", Tokens: 9},
	}}

	diff := ComputeDiff(oldData, newData)
	assert.True(t, diff.HasChanges())
	assert.Equal(t, 1, diff.Added)
	assert.Equal(t, 1, diff.Removed)
	assert.Equal(t, 1, diff.Resized)
	assert.Equal(t, []Change{
		{Type: ChangeTypeRemoved, Prompt: "mission", OldTokens: 7},
		{Type: ChangeTypeResized, Prompt: "strategy", OldTokens: 10, NewTokens: 12},
		{Type: ChangeTypeAdded, Prompt: "strategy-to-vision", NewTokens: 9},
	}, diff.Changes)
	assert.Equal(t, "1 added, 1 resized, 1 removed", diff.FormatSummary())
	verbose := diff.FormatVerbose()
	assert.Contains(t, verbose, "+ strategy-to-vision (9 tokens)")
	assert.Contains(t, verbose, "~ strategy: 10 → 12 tokens")
	assert.Contains(t, verbose, "- mission")
}

func TestComputeDiffWithoutPrevious(t *testing.T) {
	diff := ComputeDiff(nil, &Data{Prompts: []Entry{{Prompt: "strategy", Tokens: 3}}})
	assert.Equal(t, 1, diff.Added)
	assert.Equal(t, ChangeTypeAdded, diff.Changes[0].Type)
}

func TestComputeDiffNoChanges(t *testing.T) {
	data := &Data{Prompts: []Entry{{Prompt: "strategy", Tokens: 3}}}
	diff := ComputeDiff(data, data)
	assert.False(t, diff.HasChanges())
	assert.Equal(t, "No changes", diff.FormatSummary())
	assert.Equal(t, "No changes detected", diff.FormatVerbose())
}
