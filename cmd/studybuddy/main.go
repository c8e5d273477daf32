// Package main provides the CLI entrypoint for studybuddy.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mkandie/studybuddy/internal/auth"
	"github.com/mkandie/studybuddy/internal/cardsui"
	"github.com/mkandie/studybuddy/internal/config"
	"github.com/mkandie/studybuddy/internal/engine"
	"github.com/mkandie/studybuddy/internal/generator"
	"github.com/mkandie/studybuddy/internal/model"
	"github.com/mkandie/studybuddy/internal/samples"
	"github.com/mkandie/studybuddy/internal/stats"
	"github.com/mkandie/studybuddy/internal/store"
	"github.com/mkandie/studybuddy/internal/tui"
)

const (
	defaultCurveWindow = 10
	defaultGenCount    = 3
	guestProfile       = "guest"
	todoXP             = 10
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var (
	studySubject string
	studyShowXP  bool

	cardsListSubject string

	genNotesPath  string
	genSubject    string
	genDifficulty string
	genCount      int

	statsSince       string
	statsLast        int
	statsCurveWindow int

	todoDue      string
	todoPriority string
	todoSubject  string
	todoNote     string

	ttSubject string
	ttDay     string
	ttStart   string
	ttEnd     string

	addSubject    string
	addQuestion   string
	addAnswer     string
	addDifficulty string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studybuddy",
		Short:         "Terminal flashcard study app",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runStudyCmd,
	}

	rootCmd.Flags().StringVar(&studySubject, "subject", "", "study only this subject")
	rootCmd.Flags().BoolVar(&studyShowXP, "show-xp", true, "show XP toasts during the session")

	rootCmd.AddCommand(newCardsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newTodoCmd())
	rootCmd.AddCommand(newTimetableCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runStudyCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "subject", &studySubject, fileCfg.Study.Subject)
	applyBoolConfig(cmd, "show-xp", &studyShowXP, fileCfg.Study.ShowXP)

	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	deck, err := st.ListCards(ctx, profile, studySubject)
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}
	if len(deck) == 0 {
		if studySubject != "" {
			deck = samples.ForSubject(studySubject)
		} else {
			deck = samples.FallbackDeck()
		}
		if len(deck) > 0 {
			logErrln("No saved cards; studying the built-in sample deck.")
		}
	}
	if len(deck) == 0 {
		return fmt.Errorf("no cards for subject %q — create some first: studybuddy cards add", studySubject)
	}

	progress, err := st.LoadProgress(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	eng := engine.New(progress, nil, nil)
	sessionCfg := model.StudyConfig{
		Subject: studySubject,
		ShowXP:  studyShowXP,
		Profile: profile,
	}
	m := tui.NewModel(sessionCfg, st, eng, deck)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.StartErr(); err != nil {
		if errors.Is(err, engine.ErrEmptyDeck) {
			return fmt.Errorf("no cards to study — create some first: studybuddy cards add")
		}
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

func newCardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage flashcards",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a flashcard",
		Args:  cobra.NoArgs,
		RunE:  runCardsAddCmd,
	}
	addCmd.Flags().StringVar(&addSubject, "subject", "", "card subject")
	addCmd.Flags().StringVar(&addQuestion, "question", "", "card question")
	addCmd.Flags().StringVar(&addAnswer, "answer", "", "card answer")
	addCmd.Flags().StringVar(&addDifficulty, "difficulty", "medium", "easy, medium, or hard")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List flashcards",
		Args:  cobra.NoArgs,
		RunE:  runCardsListCmd,
	}
	listCmd.Flags().StringVar(&cardsListSubject, "subject", "", "filter by subject")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a flashcard",
		Args:  cobra.ExactArgs(1),
		RunE:  runCardsDeleteCmd,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate flashcards from study notes",
		Args:  cobra.NoArgs,
		RunE:  runCardsGenerateCmd,
	}
	generateCmd.Flags().StringVar(&genNotesPath, "notes", "", "path to a notes file (required)")
	generateCmd.Flags().StringVar(&genSubject, "subject", "general", "subject for the generated cards")
	generateCmd.Flags().StringVar(&genDifficulty, "difficulty", "medium", "easy, medium, or hard")
	generateCmd.Flags().IntVar(&genCount, "count", defaultGenCount, "number of cards to generate")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(deleteCmd)
	cmd.AddCommand(generateCmd)
	return cmd
}

func runCardsAddCmd(cmd *cobra.Command, _ []string) error {
	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	var card model.Card
	if cmd.Flags().Changed("question") || cmd.Flags().Changed("answer") {
		card, err = cardsui.BuildCard(addSubject, addQuestion, addAnswer, addDifficulty)
		if err != nil {
			return err
		}
	} else {
		form := cardsui.NewModel(addSubject)
		program := tea.NewProgram(form, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run form: %w", err)
		}
		var ok bool
		card, ok = form.Card()
		if !ok {
			logErrln("Cancelled.")
			return nil
		}
	}

	id, err := st.InsertCard(context.Background(), profile, card)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	fmt.Printf("Saved card %d (%s, %s)\n", id, card.Subject, card.Difficulty)
	return nil
}

func runCardsListCmd(cmd *cobra.Command, _ []string) error {
	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	cards, err := st.ListCards(context.Background(), profile, cardsListSubject)
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}
	if len(cards) == 0 {
		fmt.Println("No flashcards yet. Create some with: studybuddy cards add")
		return nil
	}
	w := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(w, "%-5s %-12s %-8s %-7s %s\n", "ID", "SUBJECT", "DIFF", "REVIEWS", "QUESTION"); err != nil {
		return err
	}
	for _, card := range cards {
		if _, err := fmt.Fprintf(w, "%-5d %-12s %-8s %-7d %s\n",
			card.ID, card.Subject, card.Difficulty, card.TimesReviewed, truncate(card.Question, 60)); err != nil {
			return err
		}
	}
	return nil
}

func runCardsDeleteCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid card id %q", args[0])
	}
	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.DeleteCard(context.Background(), profile, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("card %d not found", id)
		}
		return fmt.Errorf("failed to delete card: %w", err)
	}
	fmt.Printf("Deleted card %d\n", id)
	return nil
}

func runCardsGenerateCmd(_ *cobra.Command, _ []string) error {
	if genNotesPath == "" {
		return fmt.Errorf("--notes is required")
	}
	difficulty := model.Difficulty(strings.ToLower(genDifficulty))
	if !difficulty.Valid() {
		return fmt.Errorf("--difficulty must be easy, medium, or hard")
	}
	if genCount <= 0 {
		return fmt.Errorf("--count must be greater than 0")
	}
	raw, err := os.ReadFile(genNotesPath)
	if err != nil {
		return fmt.Errorf("failed to read notes: %w", err)
	}
	notes := strings.TrimSpace(string(raw))
	if notes == "" {
		return fmt.Errorf("notes file is empty")
	}
	subject := strings.ToLower(strings.TrimSpace(genSubject))

	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	gen := generator.New(generator.Seed(notes, subject, difficulty))
	cards := gen.FromNotes(notes, subject, difficulty, genCount)
	ctx := context.Background()
	for _, card := range cards {
		if _, err := st.InsertCard(ctx, profile, card); err != nil {
			return fmt.Errorf("failed to save generated card: %w", err)
		}
	}
	fmt.Printf("Generated %d %s card(s) for %s\n", len(cards), difficulty, subject)
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	progress, err := st.LoadProgress(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	sessions, err := st.ListSessions(ctx, profile, model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	})
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	w := cmd.OutOrStdout()
	if err := stats.RenderSummary(w, profile, progress, stats.Aggregate(sessions)); err != nil {
		return err
	}

	counts, err := st.CountCardsBySubject(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to count cards: %w", err)
	}
	reviewedToday, err := st.ReviewedToday(ctx, profile, time.Now())
	if err != nil {
		return fmt.Errorf("failed to count reviews: %w", err)
	}
	mostReviewed, err := st.MostReviewedSubject(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to find most reviewed subject: %w", err)
	}
	if err := stats.RenderSubjects(w, counts, reviewedToday, mostReviewed); err != nil {
		return err
	}

	if err := stats.RenderAccuracyCurve(w, sessions, statsCurveWindow, stats.TerminalWidth()-4); err != nil {
		return err
	}

	entries, err := st.ListXPLog(ctx, profile, 5)
	if err != nil {
		return fmt.Errorf("failed to load XP log: %w", err)
	}
	return stats.RenderXPLog(w, entries)
}

func newTodoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage the todo list",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE:  runTodoListCmd,
	}

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTodoAddCmd,
	}
	addCmd.Flags().StringVar(&todoDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&todoPriority, "priority", "medium", "low, medium, or high")
	addCmd.Flags().StringVar(&todoSubject, "subject", "other", "related subject")
	addCmd.Flags().StringVar(&todoNote, "note", "", "extra details")

	doneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a todo (awards XP)",
		Args:  cobra.ExactArgs(1),
		RunE:  runTodoDoneCmd,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a todo",
		Args:  cobra.ExactArgs(1),
		RunE:  runTodoRemoveCmd,
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(addCmd)
	cmd.AddCommand(doneCmd)
	cmd.AddCommand(rmCmd)
	return cmd
}

func runTodoListCmd(cmd *cobra.Command, _ []string) error {
	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	todos, err := st.ListTodos(context.Background(), profile)
	if err != nil {
		return fmt.Errorf("failed to load todos: %w", err)
	}
	if len(todos) == 0 {
		fmt.Println("Nothing to do.")
		return nil
	}
	w := cmd.OutOrStdout()
	for _, todo := range todos {
		mark := "[ ]"
		if todo.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %-4d %s", mark, todo.ID, todo.Title)
		if todo.DueDate != "" {
			line += " (due " + todo.DueDate + ")"
		}
		if todo.Priority == "high" {
			line += " !"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func runTodoAddCmd(_ *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("todo title must not be empty")
	}
	if todoDue != "" {
		if _, err := time.Parse("2006-01-02", todoDue); err != nil {
			return fmt.Errorf("invalid --due value: %w", err)
		}
	}
	switch todoPriority {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("--priority must be low, medium, or high")
	}

	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	id, err := st.InsertTodo(context.Background(), profile, model.Todo{
		Title:    title,
		Note:     todoNote,
		DueDate:  todoDue,
		Priority: todoPriority,
		Subject:  strings.ToLower(todoSubject),
	})
	if err != nil {
		return fmt.Errorf("failed to save todo: %w", err)
	}
	fmt.Printf("Added todo %d\n", id)
	return nil
}

func runTodoDoneCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid todo id %q", args[0])
	}
	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	if err := st.SetTodoCompleted(ctx, profile, id, true); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("todo %d not found", id)
		}
		return fmt.Errorf("failed to complete todo: %w", err)
	}

	// Completing a task earns XP through the same policy as study answers.
	progress, err := st.LoadProgress(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	updated, leveledUp, newLevel, err := engine.AwardExperience(progress, todoXP)
	if err != nil {
		return fmt.Errorf("failed to award XP: %w", err)
	}
	if err := st.SaveProgress(ctx, profile, updated); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	if err := st.AppendXP(ctx, profile, todoXP, engine.ReasonTaskDone, time.Now()); err != nil {
		logErrf("failed to log XP: %v\n", err)
	}
	fmt.Printf("Done! +%d XP\n", todoXP)
	if leveledUp {
		fmt.Printf("Level up! You reached level %d\n", newLevel)
	}
	return nil
}

func runTodoRemoveCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid todo id %q", args[0])
	}
	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.DeleteTodo(context.Background(), profile, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("todo %d not found", id)
		}
		return fmt.Errorf("failed to remove todo: %w", err)
	}
	fmt.Printf("Removed todo %d\n", id)
	return nil
}

func newTimetableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timetable",
		Aliases: []string{"tt"},
		Short:   "Manage the weekly timetable",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the timetable",
		Args:  cobra.NoArgs,
		RunE:  runTimetableListCmd,
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a timetable entry",
		Args:  cobra.NoArgs,
		RunE:  runTimetableAddCmd,
	}
	addCmd.Flags().StringVar(&ttSubject, "subject", "", "subject (required)")
	addCmd.Flags().StringVar(&ttDay, "day", "", "weekday, e.g. Monday (required)")
	addCmd.Flags().StringVar(&ttStart, "start", "", "start time HH:MM (required)")
	addCmd.Flags().StringVar(&ttEnd, "end", "", "end time HH:MM (required)")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a timetable entry",
		Args:  cobra.ExactArgs(1),
		RunE:  runTimetableRemoveCmd,
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(addCmd)
	cmd.AddCommand(rmCmd)
	return cmd
}

func runTimetableListCmd(cmd *cobra.Command, _ []string) error {
	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	entries, err := st.ListTimetable(context.Background(), profile)
	if err != nil {
		return fmt.Errorf("failed to load timetable: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("Timetable is empty. Add a slot with: studybuddy timetable add")
		return nil
	}
	w := cmd.OutOrStdout()
	day := ""
	for _, entry := range entries {
		if entry.Day != day {
			day = entry.Day
			if _, err := fmt.Fprintf(w, "%s\n", day); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %-4d %s–%s  %s\n", entry.ID, entry.StartTime, entry.EndTime, entry.Subject); err != nil {
			return err
		}
	}
	return nil
}

func runTimetableAddCmd(_ *cobra.Command, _ []string) error {
	subject := strings.ToLower(strings.TrimSpace(ttSubject))
	if subject == "" {
		return fmt.Errorf("--subject is required")
	}
	day, err := normalizeWeekday(ttDay)
	if err != nil {
		return err
	}
	start, err := parseClock(ttStart)
	if err != nil {
		return fmt.Errorf("invalid --start value: %w", err)
	}
	end, err := parseClock(ttEnd)
	if err != nil {
		return fmt.Errorf("invalid --end value: %w", err)
	}
	if end <= start {
		return fmt.Errorf("--end must be after --start")
	}

	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	id, err := st.InsertTimetableEntry(context.Background(), profile, model.TimetableEntry{
		Subject:   subject,
		Day:       day,
		StartTime: ttStart,
		EndTime:   ttEnd,
	})
	if err != nil {
		return fmt.Errorf("failed to save timetable entry: %w", err)
	}
	fmt.Printf("Added timetable entry %d (%s %s–%s)\n", id, day, ttStart, ttEnd)
	return nil
}

func runTimetableRemoveCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id %q", args[0])
	}
	profile := currentProfile()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.DeleteTimetableEntry(context.Background(), profile, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("timetable entry %d not found", id)
		}
		return fmt.Errorf("failed to remove entry: %w", err)
	}
	fmt.Printf("Removed timetable entry %d\n", id)
	return nil
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Select the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr := auth.NewManager(config.DefaultTokenPath(), config.DefaultKeyPath())
			if err := mgr.Login(args[0]); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Printf("Logged in as %s\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the active profile",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr := auth.NewManager(config.DefaultTokenPath(), config.DefaultKeyPath())
			if err := mgr.Logout(); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active profile",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr := auth.NewManager(config.DefaultTokenPath(), config.DefaultKeyPath())
			profile, err := mgr.Current()
			if err != nil {
				if errors.Is(err, auth.ErrNotLoggedIn) {
					fmt.Printf("Not logged in (studying as %q)\n", guestProfile)
					return nil
				}
				return err
			}
			fmt.Println(profile)
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# studybuddy configuration
# Uncomment a value to enable it. CLI flags override config values.

[study]
# subject = ""           # Only study this subject
# show-xp = true         # Show XP toasts during sessions

[stats]
# last = 0               # Limit reports to last N sessions
# curve-window = %d      # Moving average window for the accuracy trend
`, defaultCurveWindow)
}

// currentProfile resolves the logged-in profile, falling back to a guest
// profile so every command works without logging in.
func currentProfile() string {
	mgr := auth.NewManager(config.DefaultTokenPath(), config.DefaultKeyPath())
	profile, err := mgr.Current()
	if err != nil {
		if !errors.Is(err, auth.ErrNotLoggedIn) {
			logErrf("failed to read login token: %v\n", err)
		}
		return guestProfile
	}
	return profile
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func normalizeWeekday(raw string) (string, error) {
	day := strings.TrimSpace(raw)
	if day == "" {
		return "", fmt.Errorf("--day is required")
	}
	for _, weekday := range weekdays {
		if strings.EqualFold(day, weekday) || strings.EqualFold(day, weekday[:3]) {
			return weekday, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", raw)
}

// parseClock parses HH:MM into minutes since midnight.
func parseClock(raw string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
