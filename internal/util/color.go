package util

import (
	"strings"

	"github.com/fatih/color"
)

var (
	added   = color.New(color.FgGreen)
	removed = color.New(color.FgRed)
	header  = color.New(color.FgCyan)
	warning = color.New(color.FgYellow)
)

// StatusMarker returns a fixed-width colored label for an artifact outcome.
func StatusMarker(outcome string) string {
	switch outcome {
	case "created", "added":
		return added.Sprint("CREATE ")
	case "appended", "modified":
		return header.Sprint("APPEND ")
	case "failed", "removed":
		return removed.Sprint("FAILED ")
	case "present":
		return added.Sprint("OK     ")
	case "missing":
		return removed.Sprint("MISSING")
	case "optional":
		return warning.Sprint("ABSENT ")
	default:
		return strings.ToUpper(outcome)
	}
}

// ColorizeDiff colors unified diff output.
// Lines starting with '+' are green, '-' are red, headers and '@@' are cyan.
// Colors are dropped when output is not a terminal or NO_COLOR is set.
func ColorizeDiff(diff string) string {
	if color.NoColor {
		return diff
	}

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = header.Sprint(line)
		case line[0] == '+':
			lines[i] = added.Sprint(line)
		case line[0] == '-':
			lines[i] = removed.Sprint(line)
		}
	}

	return strings.Join(lines, "\n")
}
