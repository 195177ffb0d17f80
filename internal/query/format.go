package query

import (
	"fmt"
	"strings"
)

// FormatProjectMapMarkdown renders a ProjectMap as Markdown: a
// "# Project Map" heading, one section per file (by relative path), and
// a list item per symbol naming it and its kind.
func FormatProjectMapMarkdown(m *ProjectMap) string {
	var b strings.Builder

	b.WriteString("# Project Map\n\n")
	fmt.Fprintf(&b, "Root: `%s`\n\n", m.Root)
	if m.Warning != "" {
		fmt.Fprintf(&b, "> %s\n\n", m.Warning)
	}

	for _, file := range m.Files {
		fmt.Fprintf(&b, "## %s\n\n", file.Path)
		for _, sym := range file.Symbols {
			fmt.Fprintf(&b, "- **%s** (%s)", sym.Symbol.Name, sym.Symbol.Kind)
			if sym.Score > 0 {
				fmt.Fprintf(&b, " — score %.2f", sym.Score)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCandidatesMarkdown renders find_definition/search_symbols results
// as a short Markdown list, for CLI text output.
func FormatCandidatesMarkdown(candidates []Candidate) string {
	var b strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&b, "- **%s** (%s) — %s:%d", c.Symbol.Name, c.Symbol.Kind, c.Symbol.Location.File, c.Symbol.Location.StartLine)
		if c.Fuzzy {
			fmt.Fprintf(&b, " _fuzzy, confidence %.2f_", c.Confidence)
		} else if c.ResolutionPath != "" {
			fmt.Fprintf(&b, " _(%s)_", c.ResolutionPath)
		}
		b.WriteString("\n")
	}
	return b.String()
}
