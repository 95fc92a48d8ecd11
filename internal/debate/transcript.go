package debate

import (
	"fmt"
	"strings"
)

// Renderer turns debate artifacts into labeled transcript sections and
// assembles the final document. Markup is a pluggable concern; the
// pipeline only depends on section order and completeness.
type Renderer interface {
	// QuestionBlock renders the question header section.
	QuestionBlock(question string) string

	// Heading renders a top-level section title such as "Opening
	// Statements" or "Rebuttal Round 1".
	Heading(title string) string

	// Statement renders one participant's labeled contribution.
	Statement(label, text string) string

	// MemorySnippet renders one retrieved past debate.
	MemorySnippet(index int, snippet string) string

	// Assemble concatenates the ordered sections into one document.
	Assemble(sections []string) string
}

// MarkdownRenderer renders transcript sections as GitHub-flavored
// markdown. It is the default renderer.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

func (r *MarkdownRenderer) QuestionBlock(question string) string {
	return "## Question\n\n" + question
}

func (r *MarkdownRenderer) Heading(title string) string {
	return "## " + title
}

func (r *MarkdownRenderer) Statement(label, text string) string {
	return "### " + label + "\n" + text
}

func (r *MarkdownRenderer) MemorySnippet(index int, snippet string) string {
	return fmt.Sprintf("**Memory %d:**\n\n%s", index, snippet)
}

func (r *MarkdownRenderer) Assemble(sections []string) string {
	return strings.Join(sections, "\n\n")
}
