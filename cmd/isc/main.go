package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/yuya-takeyama/isc/internal/checksum"
	"github.com/yuya-takeyama/isc/internal/config"
	"github.com/yuya-takeyama/isc/internal/progress"
	"github.com/yuya-takeyama/isc/pkg/executor"
	"github.com/yuya-takeyama/isc/pkg/logger"
	"github.com/yuya-takeyama/isc/pkg/planner"
	"github.com/yuya-takeyama/isc/pkg/report"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

var (
	configFile   string
	threads      int
	concurrency  int
	algorithm    string
	excludes     []string
	includes     []string
	dryRun       bool
	showProgress bool
	verbose      bool
	quiet        bool
)

// filesystem is swapped out by tests.
var filesystem billy.Filesystem = osfs.New("/")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "isc <source> [destination]",
		Short: "Selectively copy files whose content is missing from the destination",
		Long: `isc (intelligently selective copy) copies every file of the source directory
into the destination directory unless a file with the same checksum already
exists there, under any name. Both directories are scanned non-recursively and
must not contain subdirectories. Checksums and copies run in parallel.`,
		Version: fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:    cobra.RangeArgs(1, 2),
		RunE:    run,
	}

	algorithmNames := make([]string, 0, len(checksum.Algorithms))
	for _, alg := range checksum.Algorithms {
		algorithmNames = append(algorithmNames, string(alg))
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	rootCmd.Flags().IntVarP(&threads, "threads", "t", runtime.NumCPU(), "Number of checksum workers per directory")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Number of concurrent copies (defaults to --threads)")
	rootCmd.Flags().StringVarP(&algorithm, "algorithm", "a", string(checksum.DefaultAlgorithm), fmt.Sprintf("Checksum algorithm %v", algorithmNames))
	rootCmd.Flags().StringSliceVar(&excludes, "exclude", nil, "Exclude source files matching pattern (multiple allowed)")
	rootCmd.Flags().StringSliceVar(&includes, "include", nil, "Keep excluded source files matching pattern (multiple allowed)")
	rootCmd.Flags().BoolVar(&dryRun, "dryrun", false, "Shows copies without executing")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false, "Show progress bars on stderr")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every hashed and copied file")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Only log failures")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	sourceDir := args[0]
	destDir := "."
	if len(args) > 1 {
		destDir = args[1]
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	alg, err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Arguments are valid from here on; failures are not usage errors.
	cmd.SilenceUsage = true

	provider, err := checksum.New(alg)
	if err != nil {
		return err
	}

	sourceDir, err = filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source: %w", err)
	}
	destDir, err = filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve destination: %w", err)
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	syncLogger := logger.New(stderr, cfg.Verbose, cfg.Quiet)
	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(stderr)
	}

	start := time.Now()
	ctx := context.Background()

	plnr := planner.NewDirPlanner(filesystem, provider)
	tasks, err := plnr.Plan(ctx, sourceDir, destDir, planner.Options{
		Workers:  cfg.Threads,
		Excludes: cfg.Excludes,
		Includes: cfg.Includes,
		Logger:   syncLogger,
		Progress: reporter,
	})
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	if dryRun {
		for _, task := range tasks {
			fmt.Fprintf(stdout, "(dryrun) copy: %s to %s\n", task.Source, task.Destination)
		}
		return nil
	}

	exec := executor.NewExecutor(filesystem, syncLogger, cfg.Concurrency, reporter)
	result := report.New(exec.Execute(tasks))

	if _, err := result.WriteTo(stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	syncLogger.Summary(result.Succeeded, result.Failed, result.BytesCopied, time.Since(start))

	// Individual copy failures are part of the report, not a failed run.
	return nil
}

// loadConfig layers explicitly set flags over the config file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("threads") {
		cfg.Threads = threads
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrency
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm = algorithm
	}
	if flags.Changed("exclude") {
		cfg.Excludes = excludes
	}
	if flags.Changed("include") {
		cfg.Includes = includes
	}
	if flags.Changed("progress") {
		cfg.Progress = showProgress
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("quiet") {
		cfg.Quiet = quiet
	}

	return cfg, nil
}
