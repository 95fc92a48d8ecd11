package debate

import (
	"strings"
	"testing"
)

func TestMemoryBlockJoinsThenTruncates(t *testing.T) {
	a := NewAssembler(1200)

	snippets := []string{"first past debate", "second past debate"}
	block := a.MemoryBlock(snippets)

	if !strings.Contains(block, "first past debate"+memorySeparator+"second past debate") {
		t.Errorf("memory block should join snippets with separator, got %q", block)
	}

	// Truncation applies to the joined block, not per snippet.
	small := NewAssembler(40)
	truncated := small.MemoryBlock(snippets)
	if got := len([]rune(truncated)); got != 40 {
		t.Errorf("truncated block length = %d, want 40", got)
	}
}

func TestMemoryBlockEmpty(t *testing.T) {
	a := NewAssembler(1200)
	if got := a.MemoryBlock(nil); got != "" {
		t.Errorf("MemoryBlock(nil) = %q, want empty", got)
	}
}

func TestOpeningRequest(t *testing.T) {
	a := NewAssembler(1200)

	req := a.Opening(RoleDebaterA, "Tabs or spaces?", nil, 0.7)

	if !strings.Contains(req.System, "You are Debater A.") {
		t.Errorf("system prompt missing role line: %q", req.System)
	}
	if strings.Contains(req.System, "practical examples") {
		t.Error("debater A opening should not carry debater B's extra rule")
	}
	if req.User != "Question: Tabs or spaces?" {
		t.Errorf("User = %q, want question line", req.User)
	}
	if req.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", req.Temperature)
	}
	if req.MaxTokens != openingMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", req.MaxTokens, openingMaxTokens)
	}
	if strings.Contains(req.System, "memory") {
		t.Error("opening without snippets should omit the memory block")
	}
}

func TestOpeningRequestDebaterB(t *testing.T) {
	a := NewAssembler(1200)

	req := a.Opening(RoleDebaterB, "Tabs or spaces?", []string{"Question: old\nWinner: Tie\nFinal answer:\nboth"}, 0.5)

	if !strings.Contains(req.System, "You are Debater B.") {
		t.Errorf("system prompt missing role line: %q", req.System)
	}
	if !strings.Contains(req.System, "practical examples") {
		t.Error("debater B opening should carry the practical-examples rule")
	}
	if !strings.Contains(req.System, "You also have access to some memory:") {
		t.Error("opening with snippets should include the memory block")
	}
}

func TestRebuttalRequest(t *testing.T) {
	a := NewAssembler(1200)

	req := a.Rebuttal(RoleDebaterA, "Tabs or spaces?", "Spaces, obviously.", 0.6)

	if !strings.Contains(req.System, "You are Debater A. Briefly rebut Debater B.") {
		t.Errorf("system prompt = %q, want rebuttal instruction", req.System)
	}
	if !strings.Contains(req.User, "Debater B's latest answer:\nSpaces, obviously.") {
		t.Errorf("user prompt should carry only the opponent's latest text, got %q", req.User)
	}
	if req.MaxTokens != rebuttalMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", req.MaxTokens, rebuttalMaxTokens)
	}
}

func TestJudgmentRequest(t *testing.T) {
	a := NewAssembler(1200)

	st := &RunState{
		Question:    "Tabs or spaces?",
		Temperature: 0.9,
		OpeningA:    "open A",
		OpeningB:    "open B",
		RebuttalsA:  []string{"reb A1", "reb A2"},
		RebuttalsB:  []string{"reb B1", "reb B2"},
	}
	req := a.Judgment(st)

	if req.Temperature != judgeTemperature {
		t.Errorf("Temperature = %v, want fixed %v regardless of run setting", req.Temperature, judgeTemperature)
	}
	if !strings.Contains(req.System, "Winner: A / B / tie") {
		t.Errorf("system prompt missing output format, got %q", req.System)
	}
	for _, want := range []string{
		"Question:\nTabs or spaces?",
		"Debater A (Opening):\nopen A",
		"Debater B (Opening):\nopen B",
		"Debater A (Latest Rebuttal):\nreb A2",
		"Debater B (Latest Rebuttal):\nreb B2",
	} {
		if !strings.Contains(req.User, want) {
			t.Errorf("judge context missing %q", want)
		}
	}
	if strings.Contains(req.User, "reb A1") {
		t.Error("judge context should carry only the latest rebuttal, not round 1")
	}
}
