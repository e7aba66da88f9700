package mcp

import (
	"fmt"
	"strings"
)

// FormatSearchOutput renders a search as markdown for the tool's text content.
func FormatSearchOutput(out SearchOutput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## ELS search in %s\n\n", out.Corpus)
	fmt.Fprintf(&sb, "**Language:** %s  \n", out.Language)
	fmt.Fprintf(&sb, "**Letters:** %d  \n", out.Letters)
	fmt.Fprintf(&sb, "**Terms:** %s  \n", strings.Join(out.Terms, ", "))
	if out.Status != "complete" {
		fmt.Fprintf(&sb, "**Status:** %s  \n", out.Status)
	}
	if out.HistoryID != "" {
		fmt.Fprintf(&sb, "**Saved as:** `%s`  \n", out.HistoryID)
	}
	sb.WriteString("\n")

	if len(out.Hits) == 0 {
		sb.WriteString("No hits found.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Found %d hit", len(out.Hits))
	if len(out.Hits) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString(":\n\n")
	for _, h := range out.Hits {
		fmt.Fprintf(&sb, "- %s\n", h.Statement)
	}

	if out.Rendered != "" {
		sb.WriteString("\n### Grid\n\n```\n")
		sb.WriteString(strings.TrimRight(out.Rendered, "\n"))
		sb.WriteString("\n```\n")
	}
	return sb.String()
}

// FormatLanguages renders the language table as markdown.
func FormatLanguages(out LanguagesOutput) string {
	var sb strings.Builder
	sb.WriteString("| Language | Letters | Direction | Aliases |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, l := range out.Languages {
		dir := "LTR"
		if l.RightToLeft {
			dir = "RTL"
		}
		fmt.Fprintf(&sb, "| %s | %d | %s | %s |\n", l.Name, l.Letters, dir, strings.Join(l.Aliases, ", "))
	}
	return sb.String()
}

// FormatHistory renders saved searches as a markdown list.
func FormatHistory(out HistoryOutput) string {
	if len(out.Searches) == 0 {
		return "No saved searches."
	}

	var sb strings.Builder
	for _, e := range out.Searches {
		label := e.ID
		if e.Name != "" {
			label = fmt.Sprintf("%s (%s)", e.Name, e.ID)
		}
		fmt.Fprintf(&sb, "- `%s` %s: %s in %s, %d hits, %s\n",
			label, e.CreatedAt, strings.Join(e.Terms, ", "), e.Corpus, e.HitCount, e.Status)
	}
	return sb.String()
}
