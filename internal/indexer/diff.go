package indexer

import (
	"fmt"
	"sort"
	"strings"
)

// ChangeType represents the type of change detected
type ChangeType string

const (
	ChangeTypeAdded   ChangeType = "added"
	ChangeTypeRemoved ChangeType = "removed"
	ChangeTypeResized ChangeType = "resized"
)

// Change represents a detected change in the index
type Change struct {
	Type      ChangeType `json:"type"`
	Prompt    string     `json:"prompt"`
	OldTokens int        `json:"old_tokens,omitempty"`
	NewTokens int        `json:"new_tokens,omitempty"`
}

// Diff represents the differences between two index states
type Diff struct {
	Changes []Change `json:"changes"`
	Added   int      `json:"added"`
	Removed int      `json:"removed"`
	Resized int      `json:"resized"`
}

// HasChanges returns true if there are any changes detected
func (d *Diff) HasChanges() bool {
	return len(d.Changes) > 0
}

// FormatSummary returns a concise summary of changes
func (d *Diff) FormatSummary() string {
	if !d.HasChanges() {
		return "No changes"
	}

	parts := []string{}
	if d.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", d.Added))
	}
	if d.Resized > 0 {
		parts = append(parts, fmt.Sprintf("%d resized", d.Resized))
	}
	if d.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", d.Removed))
	}

	return strings.Join(parts, ", ")
}

// FormatVerbose returns one line per changed prompt
func (d *Diff) FormatVerbose() string {
	if !d.HasChanges() {
		return "No changes detected"
	}

	var b strings.Builder
	for _, change := range d.Changes {
		switch change.Type {
		case ChangeTypeAdded:
			b.WriteString(fmt.Sprintf("+ %s (%d tokens)\n", change.Prompt, change.NewTokens))
		case ChangeTypeRemoved:
			b.WriteString(fmt.Sprintf("- %s\n", change.Prompt))
		case ChangeTypeResized:
			b.WriteString(fmt.Sprintf("~ %s: %d → %d tokens\n", change.Prompt, change.OldTokens, change.NewTokens))
		}
	}
	return strings.TrimSpace(b.String())
}

// ComputeDiff compares old and new index data to detect changes
func ComputeDiff(oldData, newData *Data) *Diff {
	diff := &Diff{
		Changes: []Change{},
	}

	oldMap := make(map[string]Entry)
	if oldData != nil {
		for _, entry := range oldData.Prompts {
			oldMap[entry.Prompt] = entry
		}
	}

	newMap := make(map[string]Entry)
	for _, entry := range newData.Prompts {
		newMap[entry.Prompt] = entry
	}

	for _, newEntry := range newData.Prompts {
		oldEntry, existed := oldMap[newEntry.Prompt]
		if !existed {
			diff.Changes = append(diff.Changes, Change{
				Type:      ChangeTypeAdded,
				Prompt:    newEntry.Prompt,
				NewTokens: newEntry.Tokens,
			})
			diff.Added++
			continue
		}
		if oldEntry.Tokens != newEntry.Tokens {
			diff.Changes = append(diff.Changes, Change{
				Type:      ChangeTypeResized,
				Prompt:    newEntry.Prompt,
				OldTokens: oldEntry.Tokens,
				NewTokens: newEntry.Tokens,
			})
			diff.Resized++
		}
	}

	for _, oldEntry := range oldMap {
		if _, exists := newMap[oldEntry.Prompt]; !exists {
			diff.Changes = append(diff.Changes, Change{
				Type:      ChangeTypeRemoved,
				Prompt:    oldEntry.Prompt,
				OldTokens: oldEntry.Tokens,
			})
			diff.Removed++
		}
	}

	sort.Slice(diff.Changes, func(i, j int) bool {
		return diff.Changes[i].Prompt < diff.Changes[j].Prompt
	})

	return diff
}
