package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MLH-Fellowship/hooknames/internal/config"
	"github.com/MLH-Fellowship/hooknames/internal/fetcher"
	"github.com/MLH-Fellowship/hooknames/internal/merger"
	"github.com/MLH-Fellowship/hooknames/internal/resolver"
	"github.com/MLH-Fellowship/hooknames/pkg/types"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var version = "dev"

// Flags
var (
	outputPath  string
	verbose     bool
	force       bool
	bundleRoots []string
	concurrency int
	timeoutSecs int
)

var rootCmd = &cobra.Command{
	Use:   "hooknames",
	Short: "Resolve original variable names for React hook observations",
	Long: `hooknames enriches a runtime-collected tree of React hook observations
with the variable names used in the original (pre-bundling) source.

It fetches the bundled scripts the observations point at, follows their
source maps back to the original files, and derives the binding name a
developer would recognize: 'count' instead of an anonymous State slot.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// setupLogging configures slog based on verbose flag
func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [dump]",
	Short: "Resolve hook names for an observation dump",
	Long: `Read a hook observation dump (a JSON array as exported by the runtime),
resolve variable names, and write the enriched tree.

Reads from stdin when no dump file is given; writes to stdout unless -o is
set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

var watchCmd = &cobra.Command{
	Use:   "watch <dump>",
	Short: "Re-resolve an observation dump whenever it changes",
	Long: `Watch an observation dump file and re-run resolution every time it is
rewritten. Useful while iterating on a component with the runtime exporting
fresh dumps.

Press Ctrl+C to stop watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Initialize hooknames in the specified directory (or current directory).
Creates a .hooknames.yaml configuration file with sensible defaults.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hooknames version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")

	resolveCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the enriched tree to this file instead of stdout")
	resolveCmd.Flags().StringArrayVar(&bundleRoots, "bundle-root", nil, "Local build directory searched for bundles before the network (repeatable)")
	resolveCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel fetches (default from config)")
	resolveCmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "Fetch timeout in seconds (default from config)")

	watchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the enriched tree to this file instead of stdout")
	watchCmd.Flags().StringArrayVar(&bundleRoots, "bundle-root", nil, "Local build directory searched for bundles before the network (repeatable)")

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges flag overrides over the on-disk config.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	if timeoutSecs > 0 {
		cfg.FetchTimeoutSeconds = timeoutSecs
	}
	if concurrency > 0 {
		cfg.FetchConcurrency = concurrency
	}
	cfg.BundleRoots = append(cfg.BundleRoots, bundleRoots...)

	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newResolver(cfg *config.Config) (*resolver.Resolver, error) {
	client := fetcher.New(time.Duration(cfg.FetchTimeoutSeconds)*time.Second, cfg.UserAgent)
	if len(cfg.BundleRoots) > 0 {
		if _, err := client.WithLocalBundles(cfg.BundleRoots); err != nil {
			return nil, fmt.Errorf("failed to index local bundles: %w", err)
		}
	}
	return resolver.New(client, resolver.Options{
		Concurrency:    cfg.FetchConcurrency,
		MaxSourceLines: cfg.MaxSourceLines,
	}), nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := newResolver(cfg)
	if err != nil {
		return err
	}

	var input io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open dump: %w", err)
		}
		defer func() { _ = f.Close() }()
		input = f
	}

	tree, err := readDump(input)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	resolveAndWrite(ctx, r, tree, outputPath)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	dumpPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(dumpPath); err != nil {
		return fmt.Errorf("dump does not exist: %s", dumpPath)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := newResolver(cfg)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file: editors and exporters
	// replace dumps by rename, which drops a file-level watch.
	if err := watcher.Add(filepath.Dir(dumpPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dumpPath, err)
	}

	fmt.Printf("Watching %s for changes...\n", dumpPath)
	fmt.Println("Press Ctrl+C to stop")

	ctx, cancel := signalContext()
	defer cancel()

	// Initial resolution before the first change arrives.
	if err := resolveDumpFile(ctx, r, dumpPath, outputPath); err != nil {
		slog.Warn("initial resolution failed", "error", err)
	}

	var debounceTimer *time.Timer
	debounceDelay := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != dumpPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				if err := resolveDumpFile(ctx, r, dumpPath, outputPath); err != nil {
					slog.Warn("resolution failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-ctx.Done():
			fmt.Println("\nStopping watch...")
			return nil
		}
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	targetPath := "."
	if len(args) > 0 {
		targetPath = args[0]
	}
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	configPath := filepath.Join(absPath, config.YAMLConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	if err := config.Save(config.DefaultConfig(), absPath); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", configPath)
	return nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func readDump(r io.Reader) ([]*types.HookObservation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	var tree []*types.HookObservation
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse dump: %w", err)
	}
	return tree, nil
}

func resolveDumpFile(ctx context.Context, r *resolver.Resolver, dumpPath, outPath string) error {
	f, err := os.Open(dumpPath)
	if err != nil {
		return fmt.Errorf("failed to open dump: %w", err)
	}
	defer func() { _ = f.Close() }()

	tree, err := readDump(f)
	if err != nil {
		return err
	}
	resolveAndWrite(ctx, r, tree, outPath)
	return nil
}

// resolveAndWrite runs resolution, folds the names back into the original
// tree, and writes it out. Output falls back to the unenriched tree on any
// resolution failure, so the command never loses the input.
func resolveAndWrite(ctx context.Context, r *resolver.Resolver, tree []*types.HookObservation, outPath string) {
	named := r.Resolve(ctx, tree)
	merger.Merge(tree, named)

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		slog.Warn("failed to encode enriched tree", "error", err)
		return
	}
	data = append(data, '\n')

	if outPath == "" {
		_, _ = os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		slog.Warn("failed to write output", "path", outPath, "error", err)
	}
}
