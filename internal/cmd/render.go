package cmd

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// renderMarkdown renders a markdown document for the terminal. On a
// non-terminal stdout (pipes, redirects) the raw markdown passes through
// unchanged so output stays scriptable.
func renderMarkdown(md string) string {
	if runPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return md
	}

	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// terminalWidth reports the stderr terminal width, defaulting to 100
// columns when stderr is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

var (
	verdictBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	verdictTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("12"))
)

// verdictBox renders the verdict as a bordered summary block.
func verdictBox(winnerLabel, finalAnswer string) string {
	title := verdictTitleStyle.Render("Winner: " + winnerLabel)
	if runPlain {
		return "Winner: " + winnerLabel + "\n\n" + finalAnswer
	}
	return verdictBoxStyle.Render(title + "\n\n" + finalAnswer)
}
