package debate

import "testing"

func TestMarkdownRenderer(t *testing.T) {
	r := NewMarkdownRenderer()

	if got := r.QuestionBlock("Tabs or spaces?"); got != "## Question\n\nTabs or spaces?" {
		t.Errorf("QuestionBlock() = %q", got)
	}
	if got := r.Heading("Opening Statements"); got != "## Opening Statements" {
		t.Errorf("Heading() = %q", got)
	}
	if got := r.Statement("Debater A (OpenAI)", "Tabs."); got != "### Debater A (OpenAI)\nTabs." {
		t.Errorf("Statement() = %q", got)
	}
	if got := r.MemorySnippet(2, "old debate"); got != "**Memory 2:**\n\nold debate" {
		t.Errorf("MemorySnippet() = %q", got)
	}
}

func TestMarkdownRendererAssemble(t *testing.T) {
	r := NewMarkdownRenderer()

	got := r.Assemble([]string{"## A", "body", "## B"})
	want := "## A\n\nbody\n\n## B"
	if got != want {
		t.Errorf("Assemble() = %q, want %q", got, want)
	}

	if got := r.Assemble(nil); got != "" {
		t.Errorf("Assemble(nil) = %q, want empty", got)
	}
}
