package debate

import (
	"fmt"
	"strings"

	"github.com/debatelab/arena/internal/backend"
	"github.com/debatelab/arena/internal/util"
)

// Output budgets per stage. Openings and verdicts get more room than
// rebuttals, which are deliberately terse.
const (
	openingMaxTokens  = 220
	rebuttalMaxTokens = 120
	judgeMaxTokens    = 220
)

// judgeTemperature is fixed independent of the run's creativity setting.
// Verdicts want low variance.
const judgeTemperature = 0.3

// memorySeparator joins retrieved snippets inside the memory block.
const memorySeparator = "\n\n---\n\n"

// Assembler builds the instruction text and bounded context window handed
// to each generation call. It owns every prompt template in the pipeline,
// keeping stage logic free of string assembly.
type Assembler struct {
	// memoryMaxChars hard-truncates the joined memory block. Applied
	// after joining, not per snippet, so prompt cost stays bounded
	// regardless of snippet count or length.
	memoryMaxChars int
}

// NewAssembler creates an Assembler whose opening-stage memory block is
// capped at memoryMaxChars characters.
func NewAssembler(memoryMaxChars int) *Assembler {
	return &Assembler{memoryMaxChars: memoryMaxChars}
}

// MemoryBlock joins the retrieved snippets into the optional context block
// appended to opening instructions. Returns "" when there is nothing to
// include.
func (a *Assembler) MemoryBlock(snippets []string) string {
	if len(snippets) == 0 {
		return ""
	}
	block := "Here are some relevant past debates. You may reuse useful ideas, " +
		"but do not copy sentences word-for-word:\n\n" +
		strings.Join(snippets, memorySeparator)
	return util.TruncateChars(block, a.memoryMaxChars)
}

// Opening builds the request for a debater's opening statement. The memory
// block, when present, rides along in the system instructions.
func (a *Assembler) Opening(role Role, question string, snippets []string, temperature float64) backend.Request {
	sys := fmt.Sprintf(
		"You are Debater %s. Answer the user's question briefly.\n"+
			"Rules:\n"+
			"- Max ~120 words.\n"+
			"- Use at most 3 bullet points OR 2 short paragraphs.\n",
		sideLetter(role))
	if role == RoleDebaterB {
		sys += "- Focus slightly more on practical examples.\n"
	}
	if block := a.MemoryBlock(snippets); block != "" {
		sys += "\nYou also have access to some memory:\n" + block
	}

	return backend.Request{
		System:      sys,
		User:        "Question: " + question,
		Temperature: temperature,
		MaxTokens:   openingMaxTokens,
	}
}

// Rebuttal builds the request for one rebuttal round. Only the opposing
// side's latest artifact is included, never the full history, so context
// size stays constant across rounds.
func (a *Assembler) Rebuttal(role Role, question, opponentText string, temperature float64) backend.Request {
	side := sideLetter(role)
	other := opponentLetter(role)

	sys := fmt.Sprintf(
		"You are Debater %s. Briefly rebut Debater %s.\n"+
			"Rules:\n"+
			"- Max 3 bullet points.\n"+
			"- Each bullet under 20 words.\n"+
			"- Be precise, not rude.",
		side, other)

	return backend.Request{
		System:      sys,
		User:        fmt.Sprintf("Question: %s\n\nDebater %s's latest answer:\n%s", question, other, opponentText),
		Temperature: temperature,
		MaxTokens:   rebuttalMaxTokens,
	}
}

// Judgment builds the judge's request from the full quad of question, both
// openings, and both sides' latest rebuttal. Temperature is fixed.
func (a *Assembler) Judgment(st *RunState) backend.Request {
	sys := "You are the Judge of a debate between two AI debaters (A and B).\n" +
		"Your job:\n" +
		"1) Decide who argued better overall (A, B, or tie).\n" +
		"2) Briefly explain why.\n" +
		"3) Give a final concise answer for the user.\n\n" +
		"Output format (plain text, short):\n" +
		"Winner: A / B / tie\n" +
		"Reason: <1-3 short sentences>\n" +
		"Final: <short final answer, max ~80 words>\n"

	user := fmt.Sprintf(
		"Question:\n%s\n\n"+
			"Debater A (Opening):\n%s\n\n"+
			"Debater B (Opening):\n%s\n\n"+
			"Debater A (Latest Rebuttal):\n%s\n\n"+
			"Debater B (Latest Rebuttal):\n%s\n",
		st.Question, st.OpeningA, st.OpeningB,
		latest(st.RebuttalsA), latest(st.RebuttalsB))

	return backend.Request{
		System:      sys,
		User:        user,
		Temperature: judgeTemperature,
		MaxTokens:   judgeMaxTokens,
	}
}

func sideLetter(role Role) string {
	if role == RoleDebaterB {
		return "B"
	}
	return "A"
}

func opponentLetter(role Role) string {
	if role == RoleDebaterB {
		return "A"
	}
	return "B"
}

func latest(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[len(entries)-1]
}
