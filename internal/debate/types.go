package debate

import "slices"

// Role identifies a logical debate participant. Roles bind to backend keys
// per run; any registered backend may serve any role.
type Role string

const (
	RoleDebaterA Role = "debater_a"
	RoleDebaterB Role = "debater_b"
	RoleJudge    Role = "judge"
)

// Winner is the canonical verdict value produced by the judgment stage.
type Winner string

const (
	WinnerA       Winner = "A"
	WinnerB       Winner = "B"
	WinnerTie     Winner = "Tie"
	WinnerUnknown Winner = "Unknown"
)

// Stage names one step of the fixed pipeline sequence.
type Stage string

const (
	StageMemoryLoad  Stage = "memory_load"
	StageOpening     Stage = "opening"
	StageRebuttal1   Stage = "rebuttal_1"
	StageRebuttal2   Stage = "rebuttal_2"
	StageJudgment    Stage = "judgment"
	StageMemoryStore Stage = "memory_store"
	StageAssemble    Stage = "assemble"
)

// StageOrder is the fixed, total ordering of pipeline stages.
var StageOrder = []Stage{
	StageMemoryLoad,
	StageOpening,
	StageRebuttal1,
	StageRebuttal2,
	StageJudgment,
	StageMemoryStore,
	StageAssemble,
}

// ModelSelection binds each role to a registered backend key for one run.
type ModelSelection struct {
	DebaterA string
	DebaterB string
	Judge    string
}

// RunState is the single mutable record threaded through all stages of one
// debate run. It is owned exclusively by the pipeline: stages mutate it in
// sequence and callers only ever see copies (see snapshot).
type RunState struct {
	RunID       string
	Question    string
	Temperature float64
	Models      ModelSelection

	// MemorySnippets holds up to top-K retrieved past debates, each
	// truncated before entering the state.
	MemorySnippets []string

	// Set once by the opening stage, immutable afterward.
	OpeningA string
	OpeningB string

	// Append-only; both grow by exactly one entry per rebuttal round.
	RebuttalsA []string
	RebuttalsB []string

	// Set once by the judgment stage.
	Winner      Winner
	WinnerLabel string
	FinalAnswer string
	JudgeRaw    string

	// TranscriptSections is append-only; its order is the canonical
	// ordering of the debate narrative. Transcript is set only by the
	// terminal assemble stage.
	TranscriptSections []string
	Transcript         string
}

// snapshot returns a deep copy of the state. Streaming consumers receive
// these copies so they can never observe a half-updated state.
func (st *RunState) snapshot() RunState {
	out := *st
	out.MemorySnippets = slices.Clone(st.MemorySnippets)
	out.RebuttalsA = slices.Clone(st.RebuttalsA)
	out.RebuttalsB = slices.Clone(st.RebuttalsB)
	out.TranscriptSections = slices.Clone(st.TranscriptSections)
	return out
}

// Snapshot is one immutable view of the run, yielded after a stage
// completes in streaming mode.
type Snapshot struct {
	Stage Stage
	State RunState
}

// RunResult is the batch-mode outcome of a completed run.
type RunResult struct {
	RunID       string
	Winner      Winner
	WinnerLabel string
	FinalAnswer string
	Transcript  string
}
