package debate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/debatelab/arena/internal/backend"
	"github.com/debatelab/arena/internal/config"
	"github.com/debatelab/arena/internal/event"
	"github.com/debatelab/arena/internal/logging"
	"github.com/debatelab/arena/internal/memory"
	"github.com/debatelab/arena/internal/util"
)

// EmptyQuestionAnswer is the placeholder final answer returned when the
// question is empty or whitespace. No stage runs and no external service
// is called in that case.
const EmptyQuestionAnswer = "Please enter a question or topic."

// Session orchestrates debate runs over a fixed backend router and memory
// store. A single Session may execute any number of runs; each run owns
// its own state.
type Session struct {
	cfg       *config.Config
	router    *backend.Router
	store     memory.Store
	assembler *Assembler
	renderer  Renderer
	bus       *event.Bus
	logger    *logging.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithBus sets the event bus debate progress is published to.
func WithBus(bus *event.Bus) Option {
	return func(s *Session) {
		s.bus = bus
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithRenderer overrides the default markdown transcript renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Session) {
		s.renderer = r
	}
}

// NewSession creates a Session over the given configuration, router and
// memory store.
func NewSession(cfg *config.Config, router *backend.Router, store memory.Store, opts ...Option) *Session {
	s := &Session{
		cfg:       cfg,
		router:    router,
		store:     store,
		assembler: NewAssembler(cfg.Memory.ContextMaxChars),
		renderer:  NewMarkdownRenderer(),
		logger:    logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the full pipeline in batch mode and returns the final
// result. An empty or whitespace question short-circuits to a placeholder
// result without invoking any stage. A generation failure aborts the run
// and is returned; memory failures are absorbed.
func (s *Session) Run(ctx context.Context, question string, temperature float64, models ModelSelection) (*RunResult, error) {
	st, err := s.newRun(question, temperature, models)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return emptyQuestionResult(), nil
	}

	logger := s.logger.WithRun(st.RunID)
	logger.Info("debate run started", "question", st.Question, "temperature", st.Temperature)
	s.publish(event.NewRunStartedEvent(st.RunID, st.Question))

	for i, stage := range StageOrder {
		if err := ctx.Err(); err != nil {
			s.publish(event.NewRunCompletedEvent(st.RunID, false, i))
			return nil, err
		}
		if err := s.runStage(ctx, stage, st); err != nil {
			logger.Error("stage failed", "stage", string(stage), "error", err)
			s.publish(event.NewRunCompletedEvent(st.RunID, false, i))
			return nil, fmt.Errorf("stage %s: %w", stage, err)
		}
		s.publish(event.NewStageCompletedEvent(st.RunID, string(stage)))
	}

	logger.Info("debate run completed", "winner", string(st.Winner))
	s.publish(event.NewRunCompletedEvent(st.RunID, true, len(StageOrder)))
	return resultFromState(st), nil
}

// Stream executes the pipeline and yields an immutable Snapshot after each
// stage. The snapshot channel is closed when the run finishes; a fatal
// stage error is delivered on the error channel instead, after which both
// channels close. Consumers cancel cooperatively: if they stop receiving,
// no further stage starts.
//
// An empty question closes the snapshot channel immediately without
// running any stage.
func (s *Session) Stream(ctx context.Context, question string, temperature float64, models ModelSelection) (<-chan Snapshot, <-chan error) {
	snapshots := make(chan Snapshot)
	errs := make(chan error, 1)

	st, err := s.newRun(question, temperature, models)
	if err != nil {
		errs <- err
		close(snapshots)
		close(errs)
		return snapshots, errs
	}
	if st == nil {
		close(snapshots)
		close(errs)
		return snapshots, errs
	}

	go func() {
		defer close(snapshots)
		defer close(errs)

		logger := s.logger.WithRun(st.RunID)
		logger.Info("debate run started", "question", st.Question, "temperature", st.Temperature)
		s.publish(event.NewRunStartedEvent(st.RunID, st.Question))

		for i, stage := range StageOrder {
			if err := ctx.Err(); err != nil {
				s.publish(event.NewRunCompletedEvent(st.RunID, false, i))
				errs <- err
				return
			}
			if err := s.runStage(ctx, stage, st); err != nil {
				logger.Error("stage failed", "stage", string(stage), "error", err)
				s.publish(event.NewRunCompletedEvent(st.RunID, false, i))
				errs <- fmt.Errorf("stage %s: %w", stage, err)
				return
			}
			s.publish(event.NewStageCompletedEvent(st.RunID, string(stage)))

			// Unbuffered send: the pipeline suspends here until the
			// consumer pulls, so an abandoned consumer stops the run
			// at the next stage boundary.
			select {
			case snapshots <- Snapshot{Stage: stage, State: st.snapshot()}:
			case <-ctx.Done():
				s.publish(event.NewRunCompletedEvent(st.RunID, false, i+1))
				errs <- ctx.Err()
				return
			}
		}

		logger.Info("debate run completed", "winner", string(st.Winner))
		s.publish(event.NewRunCompletedEvent(st.RunID, true, len(StageOrder)))
	}()

	return snapshots, errs
}

// newRun validates inputs and creates the run state. A nil state with nil
// error signals the empty-question short-circuit.
func (s *Session) newRun(question string, temperature float64, models ModelSelection) (*RunState, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, nil
	}

	min, max := s.cfg.Temperature.Min, s.cfg.Temperature.Max
	if temperature < min || temperature > max {
		return nil, fmt.Errorf("debate: temperature %.2f outside allowed range [%.2f, %.2f]", temperature, min, max)
	}

	for role, key := range map[Role]string{
		RoleDebaterA: models.DebaterA,
		RoleDebaterB: models.DebaterB,
		RoleJudge:    models.Judge,
	} {
		if key == "" {
			return nil, fmt.Errorf("debate: no backend selected for role %s", role)
		}
	}

	return &RunState{
		RunID:       uuid.NewString(),
		Question:    question,
		Temperature: temperature,
		Models:      models,
	}, nil
}

func (s *Session) runStage(ctx context.Context, stage Stage, st *RunState) error {
	switch stage {
	case StageMemoryLoad:
		return s.stageMemoryLoad(ctx, st)
	case StageOpening:
		return s.stageOpening(ctx, st)
	case StageRebuttal1:
		return s.stageRebuttal(ctx, st, 1)
	case StageRebuttal2:
		return s.stageRebuttal(ctx, st, 2)
	case StageJudgment:
		return s.stageJudgment(ctx, st)
	case StageMemoryStore:
		return s.stageMemoryStore(ctx, st)
	case StageAssemble:
		return s.stageAssemble(st)
	default:
		return fmt.Errorf("debate: unknown stage %q", stage)
	}
}

// stageMemoryLoad retrieves past debates similar to the question. Failures
// inside the store already degrade to an empty result, so this stage never
// fails.
func (s *Session) stageMemoryLoad(ctx context.Context, st *RunState) error {
	snippets := s.store.Retrieve(ctx, st.Question, s.cfg.Memory.TopK)
	for i, snippet := range snippets {
		snippets[i] = util.TruncateChars(snippet, s.cfg.Memory.SnippetMaxChars)
	}
	st.MemorySnippets = snippets
	s.publish(event.NewMemoryRetrievedEvent(st.RunID, len(snippets)))

	if len(snippets) > 0 {
		st.TranscriptSections = append(st.TranscriptSections, s.renderer.Heading("Retrieved Memory from Past Debates"))
		for i, snippet := range snippets {
			st.TranscriptSections = append(st.TranscriptSections, s.renderer.MemorySnippet(i+1, snippet))
		}
	}
	return nil
}

// stageOpening collects both debaters' opening statements. The two calls
// run concurrently; each writes its own field.
func (s *Session) stageOpening(ctx context.Context, st *RunState) error {
	reqA := s.assembler.Opening(RoleDebaterA, st.Question, st.MemorySnippets, st.Temperature)
	reqB := s.assembler.Opening(RoleDebaterB, st.Question, st.MemorySnippets, st.Temperature)

	textA, textB, err := s.invokePair(ctx, st, reqA, reqB)
	if err != nil {
		return err
	}

	st.OpeningA = textA
	st.OpeningB = textB

	st.TranscriptSections = append(st.TranscriptSections,
		s.renderer.QuestionBlock(st.Question),
		s.renderer.Heading("Opening Statements"),
		s.renderer.Statement(s.sideLabel(RoleDebaterA, st), textA),
		s.renderer.Statement(s.sideLabel(RoleDebaterB, st), textB),
	)
	return nil
}

// stageRebuttal runs one rebuttal round. Each side sees only the opposing
// side's latest artifact: the opening in round 1, the previous rebuttal in
// round 2.
func (s *Session) stageRebuttal(ctx context.Context, st *RunState, round int) error {
	opposingForA, opposingForB := st.OpeningB, st.OpeningA
	if round > 1 {
		opposingForA = latest(st.RebuttalsB)
		opposingForB = latest(st.RebuttalsA)
	}

	reqA := s.assembler.Rebuttal(RoleDebaterA, st.Question, opposingForA, st.Temperature)
	reqB := s.assembler.Rebuttal(RoleDebaterB, st.Question, opposingForB, st.Temperature)

	textA, textB, err := s.invokePair(ctx, st, reqA, reqB)
	if err != nil {
		return err
	}

	st.RebuttalsA = append(st.RebuttalsA, textA)
	st.RebuttalsB = append(st.RebuttalsB, textB)

	st.TranscriptSections = append(st.TranscriptSections,
		s.renderer.Heading(fmt.Sprintf("Rebuttal Round %d", round)),
		s.renderer.Statement(s.sideLabel(RoleDebaterA, st)+" - Rebuttal", textA),
		s.renderer.Statement(s.sideLabel(RoleDebaterB, st)+" - Rebuttal", textB),
	)
	return nil
}

// stageJudgment asks the judge for a verdict and parses it.
func (s *Session) stageJudgment(ctx context.Context, st *RunState) error {
	req := s.assembler.Judgment(st)
	raw, err := s.router.Invoke(ctx, string(RoleJudge), st.Models.Judge, req)
	if err != nil {
		return err
	}

	verdict := ParseVerdict(raw)
	st.Winner = verdict.Winner
	st.WinnerLabel = WinnerLabel(verdict.Winner,
		s.router.DisplayName(st.Models.DebaterA),
		s.router.DisplayName(st.Models.DebaterB))
	st.FinalAnswer = verdict.FinalAnswer
	st.JudgeRaw = raw

	s.publish(event.NewVerdictEvent(st.RunID, string(verdict.Winner), st.WinnerLabel))

	st.TranscriptSections = append(st.TranscriptSections,
		s.renderer.Heading("Judge's Summary ("+s.router.DisplayName(st.Models.Judge)+")"),
		raw,
	)
	return nil
}

// stageMemoryStore persists the run as a memory record. A failed write
// never fails the run.
func (s *Session) stageMemoryStore(ctx context.Context, st *RunState) error {
	rec := memory.NewRecord(st.Question, st.WinnerLabel, st.FinalAnswer)
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.WithRun(st.RunID).Warn("memory store failed, dropping record", "error", err)
	}
	return nil
}

// stageAssemble concatenates the accumulated sections into the transcript.
func (s *Session) stageAssemble(st *RunState) error {
	st.Transcript = s.renderer.Assemble(st.TranscriptSections)
	return nil
}

// invokePair dispatches one generation call per debater concurrently and
// returns the results in fixed (A, B) order. A's error wins when both
// sides fail.
func (s *Session) invokePair(ctx context.Context, st *RunState, reqA, reqB backend.Request) (string, string, error) {
	var (
		wg           sync.WaitGroup
		textA, textB string
		errA, errB   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		textA, errA = s.router.Invoke(ctx, string(RoleDebaterA), st.Models.DebaterA, reqA)
	}()
	go func() {
		defer wg.Done()
		textB, errB = s.router.Invoke(ctx, string(RoleDebaterB), st.Models.DebaterB, reqB)
	}()
	wg.Wait()

	if errA != nil {
		return "", "", errA
	}
	if errB != nil {
		return "", "", errB
	}
	return textA, textB, nil
}

// sideLabel names a debater with its bound backend, e.g. "Debater A (OpenAI)".
func (s *Session) sideLabel(role Role, st *RunState) string {
	key := st.Models.DebaterA
	if role == RoleDebaterB {
		key = st.Models.DebaterB
	}
	return fmt.Sprintf("Debater %s (%s)", sideLetter(role), s.router.DisplayName(key))
}

func (s *Session) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func emptyQuestionResult() *RunResult {
	return &RunResult{
		Winner:      WinnerUnknown,
		WinnerLabel: "Unknown",
		FinalAnswer: EmptyQuestionAnswer,
	}
}

func resultFromState(st *RunState) *RunResult {
	return &RunResult{
		RunID:       st.RunID,
		Winner:      st.Winner,
		WinnerLabel: st.WinnerLabel,
		FinalAnswer: st.FinalAnswer,
		Transcript:  st.Transcript,
	}
}
