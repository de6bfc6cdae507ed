// Package preview turns planned artifact writes and template pack overrides
// into unified diffs.
package preview

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/langcontroller/langcontroller/internal/artifact"
)

// FromChanges builds a plan from writer changes. Paths are reported relative to
// root. Several changes to one path collapse into a single diff from the first
// recorded content to the last.
func FromChanges(root string, changes []artifact.Change) (*Plan, error) {
	type span struct {
		existed bool
		before  string
		after   string
	}
	spans := map[string]*span{}
	order := []string{}
	for _, ch := range changes {
		rel, err := filepath.Rel(root, ch.Path)
		if err != nil {
			rel = ch.Path
		}
		rel = filepath.ToSlash(rel)
		if s, ok := spans[rel]; ok {
			s.after = ch.After
			continue
		}
		spans[rel] = &span{existed: ch.Existed, before: ch.Before, after: ch.After}
		order = append(order, rel)
	}

	plan := newPlan()
	for _, rel := range order {
		s := spans[rel]
		status := FileStatusModified
		switch {
		case !s.existed:
			status = FileStatusAdded
		case s.before == s.after:
			status = FileStatusUnchanged
		}
		d := FileDiff{Path: rel, Status: status, Before: []byte(s.before), After: []byte(s.after)}
		if status != FileStatusUnchanged {
			diff, err := GenerateUnifiedDiff(s.before, s.after, rel)
			if err != nil {
				return nil, fmt.Errorf("failed to generate diff for %s: %w", rel, err)
			}
			d.UnifiedDiff = diff
		}
		plan.add(d)
	}
	sortAll(plan)
	return plan, nil
}

// CompareFiles compares two file sets keyed by slash path, such as the default
// template pack and a custom one. Files only in other are added; files only in
// base are removed.
func CompareFiles(base, other map[string][]byte) (*Plan, error) {
	plan := newPlan()
	for p, content := range other {
		prev, ok := base[p]
		switch {
		case !ok:
			diff, err := GenerateUnifiedDiff("", string(content), p)
			if err != nil {
				return nil, fmt.Errorf("failed to generate diff for %s: %w", p, err)
			}
			plan.add(FileDiff{Path: p, Status: FileStatusAdded, UnifiedDiff: diff, After: content})
		case string(prev) == string(content):
			plan.add(FileDiff{Path: p, Status: FileStatusUnchanged, Before: prev, After: content})
		default:
			diff, err := GenerateUnifiedDiff(string(prev), string(content), p)
			if err != nil {
				return nil, fmt.Errorf("failed to generate diff for %s: %w", p, err)
			}
			plan.add(FileDiff{Path: p, Status: FileStatusModified, UnifiedDiff: diff, Before: prev, After: content})
		}
	}
	for p, content := range base {
		if _, ok := other[p]; !ok {
			plan.add(FileDiff{Path: p, Status: FileStatusRemoved, Before: content})
		}
	}
	sortAll(plan)
	return plan, nil
}

// GenerateUnifiedDiff creates a unified diff string between two contents
func GenerateUnifiedDiff(before, after, filename string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: fmt.Sprintf("a/%s", filename),
		ToFile:   fmt.Sprintf("b/%s", filename),
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return difflib.SplitLines(s)
}

func sortAll(p *Plan) {
	for _, group := range [][]FileDiff{p.Added, p.Modified, p.Removed, p.Unchanged} {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Path < group[j].Path
		})
	}
}
