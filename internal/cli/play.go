package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"times-table-adventure/internal/app"
	"times-table-adventure/internal/config"
	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/game"
	"times-table-adventure/internal/infra/memory"
	"times-table-adventure/internal/infra/sqlite"
	"times-table-adventure/internal/logging"
	"times-table-adventure/internal/mission"
)

type playOptions struct {
	mode    string
	pattern string
	table   int
	dbPath  string
	player  string
}

// NewPlayCmd runs one session in the terminal with a SQLite leaderboard.
func NewPlayCmd(configPath *string) *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a nine-question session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if opts.dbPath == "" {
				opts.dbPath = cfg.SQLite.Path
			}
			logger := logging.NewWithWriter(os.Stderr, cfg.App.Name, cfg.App.Env, cfg.Log.Level)
			ctx := logging.IntoContext(cmd.Context(), logger)
			return runPlay(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.mode, "mode", string(domain.ModePractice), "practice or challenge")
	cmd.Flags().StringVar(&opts.pattern, "pattern", string(domain.PatternRandom), "random or sequential")
	cmd.Flags().IntVar(&opts.table, "table", 2, "focus table for sequential sessions (2-9)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite file for the leaderboard (defaults to sqlite.path)")
	cmd.Flags().StringVar(&opts.player, "player", "local", "player id the leaderboard is kept under")
	return cmd
}

func runPlay(ctx context.Context, opts playOptions, in io.Reader, out io.Writer) error {
	mode, err := domain.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	pattern, err := domain.ParsePattern(opts.pattern)
	if err != nil {
		return err
	}
	if opts.table < mission.MinTable || opts.table > mission.MaxTable {
		return domain.ErrInvalidTable
	}

	store, err := sqlite.Open(ctx, opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	service := app.NewService(app.Options{
		Games:   memory.NewGameStore(),
		Storage: store,
		Logger:  logging.FromContext(ctx),
	})
	g, err := service.Open(ctx, opts.player)
	if err != nil {
		return err
	}

	// the reducer resets the pattern whenever practice is chosen, so mode goes first
	setup := []game.Action{
		game.UpdateMode{Mode: mode},
		game.UpdatePattern{Pattern: pattern},
		game.UpdateFocusTable{Table: opts.table},
		game.StartSession{},
	}
	for _, action := range setup {
		if _, err := service.Dispatch(ctx, opts.player, action); err != nil {
			return err
		}
	}

	updates, cancel, err := service.Subscribe(ctx, opts.player)
	if err != nil {
		return err
	}
	defer cancel()

	scanner := bufio.NewScanner(in)
	view := <-updates
	for view.Status == domain.StatusPlaying {
		renderMission(out, view)
		answer, ok := readAnswer(scanner, out)
		if !ok {
			fmt.Fprintln(out, "Session abandoned.")
			return nil
		}
		if _, err := service.Dispatch(ctx, opts.player, game.SubmitAnswer{Answer: answer}); err != nil {
			return err
		}
		view = latest(updates, view)
		if view.Feedback != nil {
			fmt.Fprintln(out, view.Feedback.Message)
		}
	}

	renderSummary(out, view)
	renderReviews(out, g.State().Answers)
	return nil
}

// latest drains queued views and keeps the newest.
func latest(updates <-chan game.View, current game.View) game.View {
	current = <-updates
	for {
		select {
		case v, ok := <-updates:
			if !ok {
				return current
			}
			current = v
		default:
			return current
		}
	}
}

func readAnswer(scanner *bufio.Scanner, out io.Writer) (int, bool) {
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return 0, false
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			return 0, false
		}
		answer, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "Please type a whole number, or q to quit.")
			continue
		}
		return answer, true
	}
}

func renderMission(out io.Writer, v game.View) {
	m := v.Mission
	if m == nil {
		return
	}
	fmt.Fprintf(out, "\nQuestion %d/%d  %s\n", v.Progress.Current, v.Progress.Total, m.NarrativeHook)
	fmt.Fprintf(out, "%s  %d × %d = ?\n", m.Prompt, m.Multiplicand, m.Multiplier)
	if v.Mode != domain.ModePractice {
		fmt.Fprintln(out, "Type your answer:")
		return
	}
	choices := make([]string, len(m.Choices))
	for i, c := range m.Choices {
		choices[i] = strconv.Itoa(c)
	}
	fmt.Fprintf(out, "Choices: %s\n", strings.Join(choices, "  "))
}

func renderSummary(out io.Writer, v game.View) {
	fmt.Fprintf(out, "\nFinished! %d/%d correct", v.CorrectCount, v.Progress.Total)
	if v.CompletionTimeMs != nil {
		fmt.Fprintf(out, " in %s", (time.Duration(*v.CompletionTimeMs) * time.Millisecond).Round(100*time.Millisecond))
	}
	if v.Score != nil {
		fmt.Fprintf(out, ", score %d", *v.Score)
	}
	fmt.Fprintln(out)
	if v.Perfect {
		fmt.Fprintln(out, "Perfect run! Every answer was right.")
	}
	if in := v.Insights; in != nil && in.RecentWeakSpot != 0 {
		fmt.Fprintf(out, "Keep practising the %d times table.\n", in.RecentWeakSpot)
	}
	for _, r := range v.Rewards {
		fmt.Fprintf(out, "Reward: %s %s (%s)\n", r.Icon, r.Name, r.Rarity)
	}

	if len(v.Leaderboard) == 0 {
		return
	}
	fmt.Fprintln(out, "\nLeaderboard")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tScore\tCorrect\tTime\tMode")
	for i, e := range v.Leaderboard {
		fmt.Fprintf(tw, "%d\t%d\t%d/%d\t%.1fs\t%s\n", i+1, e.Score, e.CorrectCount, e.TotalQuestions, float64(e.DurationMs)/1000, e.Mode)
	}
	_ = tw.Flush()
}

// renderReviews turns each miss into a review card for the next sitting.
func renderReviews(out io.Writer, answers []domain.AttemptRecord) {
	var cards []domain.Mission
	for _, a := range answers {
		if !a.IsCorrect {
			cards = append(cards, mission.ScheduleReview(a.Mission, len(cards)+1))
		}
	}
	if len(cards) == 0 {
		return
	}
	fmt.Fprintln(out, "\nReview cards")
	for _, c := range cards {
		fmt.Fprintf(out, "%s  (%d × %d = %d)\n", c.NarrativeHook, c.Multiplicand, c.Multiplier, c.Answer)
	}
}
