package indexer

import (
	"bufio"
	"errors"
	"strconv"
	"strings"
)

// ErrUnrecognizedIndex is returned for non-empty content with no prompt table.
var ErrUnrecognizedIndex = errors.New("no prompt table found")

// ParseMarkdown parses an existing PROMPTS.md file and returns the Data structure.
// This allows comparison with newly generated data to detect changes.
func ParseMarkdown(content string) (*Data, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))

	var entries []Entry
	inTable := false
	headerSeen := false
	tableSeen := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "| Prompt |") {
			inTable = true
			tableSeen = true
			headerSeen = false
			continue
		}

		if strings.HasPrefix(line, "|---") {
			headerSeen = true
			continue
		}

		if strings.HasPrefix(line, "## ") {
			inTable = false
			continue
		}

		if inTable && headerSeen && strings.HasPrefix(line, "|") {
			entry, ok := parseTableRow(line)
			if !ok {
				inTable = false
				continue
			}
			entries = append(entries, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !tableSeen && strings.TrimSpace(content) != "" {
		return nil, ErrUnrecognizedIndex
	}

	summary := make(map[string]int)
	total := 0
	for _, entry := range entries {
		summary[entry.Kind]++
		total += entry.Tokens
	}

	return &Data{
		Prompts:     entries,
		Summary:     summary,
		TotalTokens: total,
	}, nil
}

// parseTableRow parses a single markdown table row into an Entry.
// Expected format: | Prompt | Kind | Source | Target | Bytes | Tokens | File |
func parseTableRow(line string) (Entry, bool) {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	if len(parts) < 7 {
		return Entry{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[0] == "" {
		return Entry{}, false
	}

	bytes, err := strconv.Atoi(parts[4])
	if err != nil {
		return Entry{}, false
	}
	tokens, err := strconv.Atoi(parts[5])
	if err != nil {
		return Entry{}, false
	}

	// Extract path from markdown link format: [path](url)
	path := parts[6]
	if start, end := strings.Index(path, "["), strings.Index(path, "]"); start >= 0 && end > start {
		path = path[start+1 : end]
	}

	return Entry{
		Prompt: parts[0],
		Kind:   parts[1],
		Source: parts[2],
		Target: parts[3],
		Bytes:  bytes,
		Tokens: tokens,
		Path:   path,
	}, true
}
