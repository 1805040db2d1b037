// Package cmd wires the setcheck command line: cobra commands,
// viper configuration, and the logger and engine they share.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"digital.vasic.setmatch/pkg/assertion"
	"digital.vasic.setmatch/pkg/bank"
	"digital.vasic.setmatch/pkg/env"
	"digital.vasic.setmatch/pkg/inspect"
	"digital.vasic.setmatch/pkg/logging"
	"digital.vasic.setmatch/pkg/metrics"
	"digital.vasic.setmatch/pkg/plugin"
	"digital.vasic.setmatch/pkg/report"
)

const (
	// commandRoot is the root command used to route to sub-commands
	commandRoot string = "setcheck"

	// CommandRun runs bank files and reports the outcome.
	CommandRun string = "run"

	// CommandValidate checks bank files without running them.
	CommandValidate string = "validate"

	// envPrefix scopes environment variables, e.g. SETCHECK_DEPTH.
	envPrefix = "SETCHECK"

	// defaultEnvFile is loaded when present and --env-file is unset.
	defaultEnvFile = ".env"
)

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand creates the root command. Each call uses its
// own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           commandRoot,
		Short:         "Run and validate set assertion banks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v)
		},
	}

	// Add our persistent flags, these are global and available anywhere
	flags := cmd.PersistentFlags()
	def := inspect.DefaultConfig()
	flags.String("config", "", "Config file (.yaml, .json or .env)")
	flags.String("env-file", "", "Dotenv file with SETCHECK_* variables (default .env when present)")
	flags.Int("depth", def.Depth, "Nesting depth rendered in messages and diffs")
	flags.Int("width", def.PreferredWidth, "Preferred line width for inline collections")
	flags.Int("indent-width", def.IndentWidth, "Spaces per indentation level")
	flags.Bool("indent", def.Indent, "Indent nested lines in diffs")
	flags.Bool("verbose", false, "Log debug entries and passing assertions")
	flags.String("log-level", "info", "Set the log level")
	flags.String("log-format", "json", "Set the log format - Can be either 'json' or 'console'")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	flags.String("evaluation-log", "", "Write one JSON line per assertion to this file")

	_ = v.BindPFlags(flags)

	// Setup viper to read from the env, this allows reading flags from the command line or the env
	// using the format 'SETCHECK_LOG_FILE'
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(newRunCommand(v), newValidateCommand(v))
	return cmd
}

// loadConfig applies the dotenv file, reads the optional config
// file and installs the process-wide inspect defaults.
func loadConfig(v *viper.Viper) error {
	if err := loadEnvFile(v.GetString("env-file")); err != nil {
		return err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg, err := inspectConfig(v)
	if err != nil {
		return err
	}
	return inspect.SetDefault(cfg)
}

// loadEnvFile exports SETCHECK_* variables from path. An empty
// path falls back to .env in the working directory, if any.
func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil
		}
		path = defaultEnvFile
	}
	loader := env.NewLoader(envPrefix + "_")
	if err := loader.Load(path); err != nil {
		return err
	}
	_, err := loader.Apply()
	return err
}

func inspectConfig(v *viper.Viper) (inspect.Config, error) {
	cfg := inspect.Config{
		Depth:          v.GetInt("depth"),
		PreferredWidth: v.GetInt("width"),
		IndentWidth:    v.GetInt("indent-width"),
		Indent:         v.GetBool("indent"),
	}
	if err := cfg.Validate(); err != nil {
		return inspect.Config{}, fmt.Errorf("invalid rendering settings: %w", err)
	}
	return cfg, nil
}

func newLogger(v *viper.Viper, stderr io.Writer) (logging.Logger, error) {
	level, ok := logging.ParseLevel(v.GetString("log-level"))
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", v.GetString("log-level"))
	}
	verbose := v.GetBool("verbose")

	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		return logging.NewJSONLogger(logging.LoggerConfig{
			OutputPath:    v.GetString("log-file"),
			Output:        stderr,
			EvaluationLog: v.GetString("evaluation-log"),
			Level:         level,
			Verbose:       verbose,
			Fields:        map[string]any{"component": commandRoot},
		})
	case "console", "pretty":
		for _, key := range []string{"log-file", "evaluation-log"} {
			if v.GetString(key) != "" {
				return nil, fmt.Errorf("--%s requires --log-format json", key)
			}
		}
		return logging.NewConsoleLoggerTo(stderr, verbose).
			WithLevel(level).
			WithFields(logging.StringField("component", commandRoot)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", v.GetString("log-format"))
	}
}

// newEngine builds the logger and an engine using it and the
// recorder. The caller closes the logger.
func newEngine(
	v *viper.Viper,
	stderr io.Writer,
	recorder metrics.Recorder,
) (*assertion.DefaultEngine, logging.Logger, error) {
	logger, err := newLogger(v, stderr)
	if err != nil {
		return nil, nil, err
	}
	engine := assertion.NewEngine(
		assertion.WithLogger(logger),
		assertion.WithMetrics(recorder),
		assertion.WithConfig(inspect.Default()),
	)
	if err := plugin.DefaultRegistry().InstallAll(engine); err != nil {
		_ = logger.Close()
		return nil, nil, err
	}
	return engine, logger, nil
}

func newRunCommand(v *viper.Viper) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   CommandRun + " <bank>...",
		Short: "Run the cases of bank files or directories.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}

	runCmd.Flags().String("report-dir", "", "Write JSON and Markdown summaries to this directory")
	runCmd.Flags().String("history", "", "Append a line per run to this history file")
	runCmd.Flags().Int("parallel", 4, "Cases evaluated concurrently")
	_ = v.BindPFlags(runCmd.Flags())

	return runCmd
}

func run(
	ctx context.Context,
	v *viper.Viper,
	stdout, stderr io.Writer,
	paths []string,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	collector := metrics.NewCollector()
	engine, logger, err := newEngine(v, stderr, collector)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	b := bank.New()
	for _, path := range paths {
		if err := load(b, path); err != nil {
			return err
		}
	}
	logger.Info("bank loaded",
		logging.IntField("cases", b.Count()),
		logging.IntField("sources", len(b.Sources())),
	)

	results := b.Run(ctx, engine, v.GetInt("parallel"))
	summary := report.BuildSummary(results)

	collector.IncrementRunTotal()
	for _, c := range summary.Cases {
		collector.RecordCase(c.Status, c.Duration)
	}
	logger.Info("run metrics",
		logging.IntField("evaluations", collector.Evaluations()),
		logging.IntField("passed", collector.CaseCount(report.StatusPassed)),
		logging.IntField("failed", collector.CaseCount(report.StatusFailed)),
		logging.IntField("errored", collector.CaseCount(report.StatusError)),
	)

	for _, c := range summary.Cases {
		fmt.Fprintf(stdout, "%-5s %s\n", strings.ToUpper(statusLabel(c.Status)), c.ID)
		if c.Detail != "" {
			fmt.Fprintf(stdout, "      %s\n", strings.ReplaceAll(c.Detail, "\n", "\n      "))
		}
	}
	fmt.Fprintf(stdout, "\n%d/%d cases passed\n", summary.PassedCases, summary.TotalCases)

	if dir := v.GetString("report-dir"); dir != "" {
		if err := report.Save(summary, dir); err != nil {
			return err
		}
		logger.Info("summary saved", logging.StringField("dir", dir))
	}
	if path := v.GetString("history"); path != "" {
		if err := report.AppendToHistory(path, summary, b.Sources()); err != nil {
			return err
		}
	}

	if !summary.OK() {
		return fmt.Errorf("%d of %d cases did not pass",
			summary.TotalCases-summary.PassedCases, summary.TotalCases)
	}
	return nil
}

func statusLabel(status string) string {
	switch status {
	case report.StatusPassed:
		return "pass"
	case report.StatusFailed:
		return "fail"
	default:
		return status
	}
}

func load(b *bank.Bank, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("bank %s: %w", path, err)
	}
	if info.IsDir() {
		return b.LoadDir(path)
	}
	return b.LoadFile(path)
}

func newValidateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   CommandValidate + " <bank>...",
		Short: "Validate bank files without running them.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validate(cmd.OutOrStdout(), args)
		},
	}
}

func validate(stdout io.Writer, paths []string) error {
	engine := assertion.NewEngine()
	if err := plugin.DefaultRegistry().InstallAll(engine); err != nil {
		return err
	}

	files, err := expand(paths)
	if err != nil {
		return err
	}

	var result *multierror.Error
	for _, path := range files {
		if err := bank.ValidateFile(path, engine); err != nil {
			fmt.Fprintf(stdout, "invalid %s\n", path)
			result = multierror.Append(result, err)
			continue
		}
		fmt.Fprintf(stdout, "ok      %s\n", path)
	}
	return result.ErrorOrNil()
}

// expand replaces directories with the bank files they hold.
func expand(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("bank %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read bank directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && bank.IsBankFile(entry.Name()) {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	return files, nil
}
