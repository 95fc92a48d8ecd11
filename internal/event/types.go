// Package event defines event types for decoupling components in the arena.
// These events let the CLI (or any other consumer) observe debate progress
// without a direct dependency on the orchestrator.
package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "run.started", "stage.completed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Run Lifecycle Events
// -----------------------------------------------------------------------------

// RunStartedEvent is emitted when a debate run begins executing stages.
type RunStartedEvent struct {
	baseEvent
	RunID    string // Unique identifier for the run
	Question string // The debate question or topic
}

// NewRunStartedEvent creates a RunStartedEvent.
func NewRunStartedEvent(runID, question string) RunStartedEvent {
	return RunStartedEvent{
		baseEvent: newBaseEvent("run.started"),
		RunID:     runID,
		Question:  question,
	}
}

// RunCompletedEvent is emitted when a debate run finishes, successfully or not.
type RunCompletedEvent struct {
	baseEvent
	RunID   string // Unique identifier for the run
	Success bool   // Whether all stages completed
	Stages  int    // Number of stages that ran before completion or failure
}

// NewRunCompletedEvent creates a RunCompletedEvent.
func NewRunCompletedEvent(runID string, success bool, stages int) RunCompletedEvent {
	return RunCompletedEvent{
		baseEvent: newBaseEvent("run.completed"),
		RunID:     runID,
		Success:   success,
		Stages:    stages,
	}
}

// -----------------------------------------------------------------------------
// Stage Events
// -----------------------------------------------------------------------------

// StageCompletedEvent is emitted after each pipeline stage completes.
type StageCompletedEvent struct {
	baseEvent
	RunID string // Run the stage belongs to
	Stage string // Stage name (e.g., "opening", "rebuttal_1", "judgment")
}

// NewStageCompletedEvent creates a StageCompletedEvent.
func NewStageCompletedEvent(runID, stage string) StageCompletedEvent {
	return StageCompletedEvent{
		baseEvent: newBaseEvent("stage.completed"),
		RunID:     runID,
		Stage:     stage,
	}
}

// MemoryRetrievedEvent is emitted after the memory load stage with the number
// of snippets recalled for the question. A count of zero is normal: retrieval
// is best-effort enrichment.
type MemoryRetrievedEvent struct {
	baseEvent
	RunID string // Run the retrieval belongs to
	Count int    // Number of snippets recalled
}

// NewMemoryRetrievedEvent creates a MemoryRetrievedEvent.
func NewMemoryRetrievedEvent(runID string, count int) MemoryRetrievedEvent {
	return MemoryRetrievedEvent{
		baseEvent: newBaseEvent("memory.retrieved"),
		RunID:     runID,
		Count:     count,
	}
}

// -----------------------------------------------------------------------------
// Verdict Events
// -----------------------------------------------------------------------------

// VerdictEvent is emitted when the judgment stage produces a parsed verdict.
type VerdictEvent struct {
	baseEvent
	RunID       string // Run the verdict belongs to
	Winner      string // Canonical winner value: "A", "B", "Tie", or "Unknown"
	WinnerLabel string // Human-readable label naming the winning backend
}

// NewVerdictEvent creates a VerdictEvent.
func NewVerdictEvent(runID, winner, winnerLabel string) VerdictEvent {
	return VerdictEvent{
		baseEvent:   newBaseEvent("verdict.parsed"),
		RunID:       runID,
		Winner:      winner,
		WinnerLabel: winnerLabel,
	}
}
