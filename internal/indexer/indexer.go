// Package indexer lists the prompt identities of a project with size and token
// estimates, and renders the list as a table, Markdown or JSON.
package indexer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sirupsen/logrus"

	"github.com/langcontroller/langcontroller/internal/config"
	"github.com/langcontroller/langcontroller/internal/project"
)

// IndexFile is the Markdown index written at the project root.
const IndexFile = "PROMPTS.md"

// linkSeparator joins source and target slugs in a linked prompt name.
const linkSeparator = "-to-"

// kindHeader matches the comment generated prompts start with, e.g.
// {# kind: linked source: strategy target: vision #}.
var kindHeader = regexp.MustCompile(`^\{#\s*kind:\s*(terminal|linked)(?:\s+source:\s*([a-z0-9-]+))?\s+target:\s*([a-z0-9-]+)\s*#\}`)

// Prompt kinds.
const (
	KindTerminal = "terminal"
	KindLinked   = "linked"
)

// Entry represents a single prompt within the index.
type Entry struct {
	Prompt string `json:"prompt"`
	Kind   string `json:"kind"`
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
	Bytes  int    `json:"bytes"`
	Tokens int    `json:"tokens"`
	Path   string `json:"path"`
}

// Data is the structured representation of the index.
type Data struct {
	Generated   string         `json:"generated"`
	Encoding    string         `json:"encoding"`
	Prompts     []Entry        `json:"prompts"`
	Summary     map[string]int `json:"summary"`
	TotalTokens int            `json:"total_tokens"`
}

// Generator produces indexes in multiple formats.
type Generator struct {
	layout  project.Layout
	counter Counter
	log     *logrus.Entry
}

// NewGenerator constructs a new generator.
func NewGenerator(opts *config.Options, layout project.Layout, counter Counter) *Generator {
	if counter == nil {
		counter = ApproxCounter{}
	}
	return &Generator{
		layout:  layout,
		counter: counter,
		log:     opts.Logger().WithField("component", "indexer"),
	}
}

// Build scans the template directory, skipping the base prompt and anything
// the project .gitignore excludes.
func (g *Generator) Build() (*Data, error) {
	dir := g.layout.TemplatesDir()
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt directory: %w", err)
	}

	gi := loadGitignore(g.layout.Root)
	base := filepath.Base(g.layout.PromptBase())
	entries := make([]Entry, 0, len(files))
	summary := map[string]int{}
	total := 0

	for _, f := range files {
		name := f.Name()
		if f.IsDir() || name == base || filepath.Ext(name) != g.layout.PromptExtension {
			continue
		}
		rel := filepath.ToSlash(filepath.Join(project.TemplatesDir, name))
		if gi != nil && gi.MatchesPath(rel) {
			g.log.WithField("path", rel).Info("Skipping ignored prompt")
			continue
		}

		// #nosec G304 -- path is inside the project template directory
		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt %s: %w", rel, err)
		}

		entry := newEntry(strings.TrimSuffix(name, g.layout.PromptExtension), body)
		entry.Path = rel
		entry.Bytes = len(body)
		entry.Tokens = g.counter.Count(string(body))
		entries = append(entries, entry)
		summary[entry.Kind]++
		total += entry.Tokens
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Prompt < entries[j].Prompt
	})

	g.log.WithFields(logrus.Fields{"prompts": len(entries), "tokens": total}).Info("Prompt index built")
	return &Data{
		Generated:   time.Now().Format("2006-01-02"),
		Encoding:    g.counter.Name(),
		Prompts:     entries,
		Summary:     summary,
		TotalTokens: total,
	}, nil
}

// newEntry takes the kind from the prompt's header comment. Prompts without
// one are split on the first "-to-" of their name, which misreads terminal
// names that contain it.
func newEntry(prompt string, body []byte) Entry {
	if m := kindHeader.FindSubmatch(body); m != nil {
		kind, source, target := string(m[1]), string(m[2]), string(m[3])
		if kind == KindLinked && source != "" {
			return Entry{Prompt: prompt, Kind: KindLinked, Source: source, Target: target}
		}
		if kind == KindTerminal && source == "" {
			return Entry{Prompt: prompt, Kind: KindTerminal, Target: target}
		}
	}
	if source, target, ok := strings.Cut(prompt, linkSeparator); ok && source != "" && target != "" {
		return Entry{Prompt: prompt, Kind: KindLinked, Source: source, Target: target}
	}
	return Entry{Prompt: prompt, Kind: KindTerminal, Target: prompt}
}

// Markdown renders the index as a Markdown table.
func (g *Generator) Markdown(data *Data) (string, error) {
	var b strings.Builder
	b.WriteString("# Prompt Index\n\n")
	b.WriteString(fmt.Sprintf("> Auto-generated on %s - Do not edit manually\n\n", data.Generated))
	b.WriteString("| Prompt | Kind | Source | Target | Bytes | Tokens | File |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")

	for _, entry := range data.Prompts {
		link := fmt.Sprintf("[%s](%s)", entry.Path, entry.Path)
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d | %d | %s |\n",
			entry.Prompt,
			entry.Kind,
			entry.Source,
			entry.Target,
			entry.Bytes,
			entry.Tokens,
			link,
		))
	}

	b.WriteString("\n## Summary\n\n")
	keys := make([]string, 0, len(data.Summary))
	for kind := range data.Summary {
		keys = append(keys, kind)
	}
	sort.Strings(keys)
	for _, kind := range keys {
		b.WriteString(fmt.Sprintf("- **%s**: %d\n", kind, data.Summary[kind]))
	}
	b.WriteString(fmt.Sprintf("\n**Total**: %d prompts, %d tokens (%s)\n", len(data.Prompts), data.TotalTokens, data.Encoding))

	return b.String(), nil
}

// JSON renders the index as JSON.
func (g *Generator) JSON(data *Data) (string, error) {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(buf) + "\n", nil
}

// Table renders the index as aligned plain-text columns.
func (g *Generator) Table(data *Data) (string, error) {
	var b strings.Builder
	if err := writeTable(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeTable(out io.Writer, data *Data) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PROMPT\tKIND\tSOURCE\tTARGET\tTOKENS")
	for _, entry := range data.Prompts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", entry.Prompt, entry.Kind, fallback(entry.Source, "-"), entry.Target, entry.Tokens)
	}
	return w.Flush()
}

// Render dispatches on format: "table", "md" or "json".
func (g *Generator) Render(data *Data, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return g.Table(data)
	case "md", "markdown":
		return g.Markdown(data)
	case "json":
		return g.JSON(data)
	default:
		return "", &FormatError{Format: format}
	}
}

// ErrUnknownFormat is matched by every FormatError.
var ErrUnknownFormat = errors.New("unknown index format")

// FormatError reports an unsupported output format.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unknown format %q (use table, md or json)", e.Format)
}

// Is allows errors.Is(err, ErrUnknownFormat).
func (e *FormatError) Is(target error) bool {
	return target == ErrUnknownFormat
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, project.GitignoreFile))
	if err != nil {
		return nil
	}
	return gi
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}
