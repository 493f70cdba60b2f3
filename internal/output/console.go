// Package output renders the triage summary for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6"))

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// PrintSummary writes the summary between banner rules, rendering the
// markdown body for the terminal. Rendering failures fall back to the
// plain text so the summary is never lost to a presentation problem.
func PrintSummary(w io.Writer, summary string) {
	divider := dividerStyle.Render(strings.Repeat("=", 60))

	fmt.Fprintln(w)
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, bannerStyle.Render("🎯 SERVICENOW INCIDENT TRIAGE SUMMARY"))
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, renderMarkdown(summary))
	fmt.Fprintln(w, divider)
}

func renderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
