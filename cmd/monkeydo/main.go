// Package main provides the CLI entrypoint for monkeydo.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbardea/monkeydo/internal/config"
	"github.com/pbardea/monkeydo/internal/generator"
	"github.com/pbardea/monkeydo/internal/logging"
	"github.com/pbardea/monkeydo/internal/model"
	"github.com/pbardea/monkeydo/internal/store"
	"github.com/pbardea/monkeydo/internal/tui"
	"github.com/pbardea/monkeydo/internal/wordlist"
)

const defaultTime = 30

var (
	practiceWords       int
	practiceTime        int
	practiceQuotes      bool
	practiceNumbers     bool
	practicePunct       bool
	practiceCapitals    bool
	practiceNoProper    bool
	practiceExpanded    bool
	practiceWordlistURL string

	wordlistURL   string
	wordlistForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "monkeydo",
		Short:         "TUI typing speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&practiceWords, "words", model.DefaultWordCount, "words per test")
	flags.IntVar(&practiceTime, "time", defaultTime, "seconds per test (switches to time mode)")
	flags.BoolVar(&practiceQuotes, "quotes", false, "type a quote instead of generated words")
	flags.BoolVar(&practiceNumbers, "numbers", false, "mix numbers into the text")
	flags.BoolVar(&practicePunct, "punctuation", false, "add punctuation")
	flags.BoolVar(&practiceCapitals, "capitals", false, "capitalize sentence starts")
	flags.BoolVar(&practiceNoProper, "no-proper-nouns", false, "drop proper nouns from the word pool")
	flags.BoolVar(&practiceExpanded, "expanded", false, "use the expanded word list")
	flags.StringVar(&practiceWordlistURL, "wordlist-url", "", "base URL serving the word lists")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newResetSettingsCmd())
	rootCmd.AddCommand(newWordlistCmd())

	return rootCmd
}

// app holds what the practice and generate commands share.
type app struct {
	fileCfg config.FileConfig
	cfg     model.Config
	log     *zap.Logger
	store   *store.Store
	pool    *wordlist.Pool

	closeLog func()
}

func newApp(cmd *cobra.Command) (*app, error) {
	overrides, err := practiceOverrides(cmd)
	if err != nil {
		return nil, err
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		logErrf("ignoring config file: %v\n", err)
		fileCfg = config.FileConfig{}
	}

	log, closeLog, err := logging.New(fileCfg.Log.Merge(config.DefaultLogConfig()))
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	a := &app{fileCfg: fileCfg, log: log, closeLog: closeLog}

	st, err := store.Open(config.DefaultDBPath(), log.Named("store"))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	a.store = st

	cfg := applyLayer(model.DefaultConfig(), fileCfg.Practice, "config file", log)
	saved, err := st.LoadConfig(cmd.Context())
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		log.Warn("discarding saved settings", zap.Error(err))
	default:
		cfg = applyLayer(cfg, saved, "saved settings", log)
	}
	cfg = overrides.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg

	a.pool = wordlist.NewPool(a.wordSource(), log.Named("wordlist"))
	return a, nil
}

// applyLayer merges layer over base, keeping base when the result is not a
// usable configuration.
func applyLayer(base model.Config, layer model.PartialConfig, name string, log *zap.Logger) model.Config {
	next := layer.Apply(base)
	if err := next.Validate(); err != nil {
		log.Warn("ignoring invalid "+name, zap.Error(err))
		return base
	}
	return next
}

func (a *app) wordSource() wordlist.Source {
	url := practiceWordlistURL
	if url == "" && a.fileCfg.WordList.URL != nil {
		url = *a.fileCfg.WordList.URL
	}
	if url != "" {
		return wordlist.HTTPSource{BaseURL: url}
	}
	return wordlist.FileSource{Dir: wordListDir(a.fileCfg)}
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logErrf("failed to close db: %v\n", err)
		}
	}
	a.closeLog()
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m := tui.NewModel(tui.Options{
		Config:   a.cfg,
		Words:    a.pool,
		Gen:      generator.New(),
		Settings: a.store,
		Log:      a.log.Named("tui"),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	done := a.watchConfig(ctx, program)
	defer func() {
		cancel()
		if done != nil {
			<-done
		}
	}()

	a.log.Info("starting practice",
		zap.String("length_mode", string(a.cfg.LengthMode)),
		zap.String("text_mode", string(a.cfg.TextMode)),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	m.Session().Close()
	return nil
}

// watchConfig forwards config file edits to the running program. A nil
// channel means the file is not being watched.
func (a *app) watchConfig(ctx context.Context, program *tea.Program) <-chan struct{} {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		a.log.Warn("config watch disabled", zap.Error(err))
		return nil
	}
	done, err := config.Watch(ctx, path, config.DefaultDebounce, a.log.Named("config"), func(fc config.FileConfig) {
		a.pool.Invalidate()
		program.Send(tui.ConfigReloadedMsg{Practice: fc.Practice})
	})
	if err != nil {
		a.log.Warn("config watch disabled", zap.Error(err))
		return nil
	}
	return done
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Print one generated text",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var pool []string
	if a.cfg.TextMode == model.TextWords {
		pool = a.pool.Words(cmd.Context(), a.cfg.ExpandedWordList)
	}
	text := generator.New().Generate(a.cfg, pool)
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-settings",
		Short: "Forget settings saved from the settings palette",
		Args:  cobra.NoArgs,
		RunE:  runResetSettingsCmd,
	}
}

func runResetSettingsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath(), zap.NewNop())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.DeleteConfig(cmd.Context()); err != nil {
		return err
	}
	logErrln("Saved settings removed")
	return nil
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

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Download the default and expanded word lists",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
	cmd.Flags().StringVar(&wordlistURL, "url", "", "base URL serving top-1000.txt and common.txt")
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite existing files")
	return cmd
}

func runWordlistCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	url := wordlistURL
	if url == "" && fileCfg.WordList.URL != nil {
		url = *fileCfg.WordList.URL
	}
	if url == "" {
		return fmt.Errorf("no word list URL: pass --url or set url in the [wordlist] table")
	}

	outDir := wordListDir(fileCfg)
	src := wordlist.HTTPSource{BaseURL: url}
	for _, expanded := range []bool{false, true} {
		outPath := filepath.Join(outDir, wordlist.ListFile(expanded))
		if !wordlistForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat word list: %w", err)
			}
		}

		logErrf("Fetching %s...\n", wordlist.ListFile(expanded))
		words, err := src.Fetch(cmd.Context(), expanded)
		if err != nil {
			return err
		}
		if err := writeWordList(outPath, words); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logErrf("Wrote %s (%d words)\n", outPath, len(words))
	}
	return nil
}

func wordListDir(fileCfg config.FileConfig) string {
	if fileCfg.WordList.Dir != nil && *fileCfg.WordList.Dir != "" {
		return *fileCfg.WordList.Dir
	}
	return config.DefaultWordListDir()
}

func writeWordList(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range words {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

// practiceOverrides collects the practice flags given on the command line.
func practiceOverrides(cmd *cobra.Command) (model.PartialConfig, error) {
	var p model.PartialConfig
	wordsSet := cmd.Flags().Changed("words")
	timeSet := cmd.Flags().Changed("time")
	if wordsSet && timeSet {
		return p, fmt.Errorf("--words and --time cannot be combined")
	}
	if wordsSet {
		mode := model.LengthWords
		p.LengthMode = &mode
		p.WordCount = changedInt(cmd, "words", practiceWords)
	}
	if timeSet {
		mode := model.LengthTime
		p.LengthMode = &mode
		p.TimeLimit = changedInt(cmd, "time", practiceTime)
	}
	if cmd.Flags().Changed("quotes") {
		mode := model.TextWords
		if practiceQuotes {
			mode = model.TextQuotes
		}
		p.TextMode = &mode
	}
	p.IncludeNumbers = changedBool(cmd, "numbers", practiceNumbers)
	p.IncludePunctuation = changedBool(cmd, "punctuation", practicePunct)
	p.IncludeCapitals = changedBool(cmd, "capitals", practiceCapitals)
	p.RemoveProperNouns = changedBool(cmd, "no-proper-nouns", practiceNoProper)
	p.ExpandedWordList = changedBool(cmd, "expanded", practiceExpanded)
	return p, nil
}

func changedInt(cmd *cobra.Command, name string, value int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func changedBool(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# monkeydo configuration
# Uncomment a value to enable it. Settings saved from the settings palette
# and CLI flags override config values.

[practice]
# words = %d                  # Words per test
# time = %d                   # Seconds per test in time mode
# length-mode = "words"       # "words" or "time"
# text-mode = "words"         # "words" or "quotes"
# numbers = false             # Mix numbers into the text
# punctuation = false         # Add punctuation
# capitals = false            # Capitalize sentence starts
# remove-proper-nouns = false # Drop proper nouns from the word pool
# expanded = false            # Use the expanded word list

[wordlist]
# dir = %q
# url = ""                    # Base URL serving top-1000.txt and common.txt

[log]
# level = "info"              # debug, info, warn, error
# format = "json"             # json or console
# file = %q
`,
		model.DefaultWordCount,
		defaultTime,
		config.DefaultWordListDir(),
		config.DefaultLogPath(),
	)
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
