package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/debatelab/arena/internal/backend"
	"github.com/debatelab/arena/internal/config"
	"github.com/debatelab/arena/internal/debate"
	"github.com/debatelab/arena/internal/event"
	"github.com/debatelab/arena/internal/logging"
	"github.com/debatelab/arena/internal/memory"
	"github.com/debatelab/arena/internal/util"
)

var runCmd = &cobra.Command{
	Use:   "run <question>",
	Short: "Run a debate on a question",
	Long: `Run a full debate on the given question.

Two debater backends each give an opening statement and two rounds of
rebuttal, then the judge backend picks a winner and writes a final
answer. Similar past debates are retrieved from memory and offered to
the debaters as context.

Examples:
  # Debate with the configured default backends
  arena run "Should we use gRPC or REST?"

  # Pick backends per role and raise creativity
  arena run "Tabs or spaces?" --debater-a openai --debater-b grok --judge gemini --temperature 0.9

  # Show each stage as it completes
  arena run "Monolith or microservices?" --stream`,
	Args: cobra.ExactArgs(1),
	RunE: runDebate,
}

var (
	runTemperature float64
	runDebaterA    string
	runDebaterB    string
	runJudge       string
	runStream      bool
	runPlain       bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Float64VarP(&runTemperature, "temperature", "t", -1, "Sampling temperature for debaters (default from config)")
	runCmd.Flags().StringVar(&runDebaterA, "debater-a", "", "Backend key for debater A (default from config)")
	runCmd.Flags().StringVar(&runDebaterB, "debater-b", "", "Backend key for debater B (default from config)")
	runCmd.Flags().StringVar(&runJudge, "judge", "", "Backend key for the judge (default from config)")
	runCmd.Flags().BoolVar(&runStream, "stream", false, "Print progress after each pipeline stage")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "Print raw markdown without terminal styling")
}

var stageLabels = map[debate.Stage]string{
	debate.StageMemoryLoad:  "Loading memory",
	debate.StageOpening:     "Opening statements",
	debate.StageRebuttal1:   "Rebuttal round 1",
	debate.StageRebuttal2:   "Rebuttal round 2",
	debate.StageJudgment:    "Judging",
	debate.StageMemoryStore: "Storing memory",
	debate.StageAssemble:    "Assembling transcript",
}

func runDebate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	reg, err := backend.NewRegistryFromConfig(cfg)
	if err != nil {
		return err
	}
	router := backend.NewRouter(reg)

	store, err := newMemoryStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	temperature := runTemperature
	if temperature < 0 {
		temperature = cfg.Temperature.Default
	}

	models := debate.ModelSelection{
		DebaterA: firstNonEmpty(runDebaterA, cfg.Roles.DebaterA),
		DebaterB: firstNonEmpty(runDebaterB, cfg.Roles.DebaterB),
		Judge:    firstNonEmpty(runJudge, cfg.Roles.Judge),
	}

	sess := debate.NewSession(cfg, router, store,
		debate.WithLogger(logger),
		debate.WithBus(event.NewBus()),
	)

	ctx := cmd.Context()
	if runStream {
		return streamDebate(ctx, sess, args[0], temperature, models)
	}

	result, err := sess.Run(ctx, args[0], temperature, models)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func streamDebate(ctx context.Context, sess *debate.Session, question string, temperature float64, models debate.ModelSelection) error {
	snapshots, errs := sess.Stream(ctx, question, temperature, models)

	dim := lipgloss.NewStyle().Faint(true)
	fmt.Fprintln(os.Stderr, dim.Render("Debating: "+util.TruncateRunes(question, 80)))

	var last *debate.Snapshot
	for snap := range snapshots {
		line := dim.Render(fmt.Sprintf("[%d/%d] %s",
			stageIndex(snap.Stage)+1, len(debate.StageOrder), stageLabels[snap.Stage]))
		fmt.Fprintln(os.Stderr, util.TruncateANSI(line, terminalWidth()))
		s := snap
		last = &s
	}
	if err := <-errs; err != nil {
		return err
	}
	if last == nil {
		fmt.Println(debate.EmptyQuestionAnswer)
		return nil
	}

	printResult(&debate.RunResult{
		RunID:       last.State.RunID,
		Winner:      last.State.Winner,
		WinnerLabel: last.State.WinnerLabel,
		FinalAnswer: last.State.FinalAnswer,
		Transcript:  last.State.Transcript,
	})
	return nil
}

func printResult(result *debate.RunResult) {
	if result.Transcript != "" {
		fmt.Println(renderMarkdown(result.Transcript))
	}
	fmt.Println(verdictBox(result.WinnerLabel, result.FinalAnswer))
}

func stageIndex(stage debate.Stage) int {
	for i, s := range debate.StageOrder {
		if s == stage {
			return i
		}
	}
	return 0
}

// newMemoryStore builds the configured memory store implementation.
func newMemoryStore(cfg *config.Config, logger *logging.Logger) (memory.Store, error) {
	switch cfg.Memory.Store {
	case config.MemoryStoreRedis:
		return memory.NewRedisStore(cfg.Memory.RedisAddr, cfg.Memory.RedisDB,
			memory.WithRedisLogger(logger)), nil
	case config.MemoryStoreFile, "":
		return memory.NewFileStore(cfg.Memory.Dir, memory.WithFileLogger(logger))
	default:
		return nil, fmt.Errorf("unknown memory store %q", cfg.Memory.Store)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
