package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/slq/internal/cli/output"
	intconfig "github.com/leapstack-labs/slq/internal/config"
	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool // re-check on file changes until interrupted
}

// checkResult is the outcome of parsing one file.
type checkResult struct {
	Path    string     `json:"path" yaml:"path"`
	OK      bool       `json:"ok" yaml:"ok"`
	Queries int        `json:"queries" yaml:"queries"`
	Error   *errorJSON `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

// checkReport is the machine-readable result of one check pass.
type checkReport struct {
	Files  []checkResult `json:"files" yaml:"files"`
	Failed int           `json:"failed" yaml:"failed"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Parse SLQ files and report errors",
		Long: `Parse every SLQ file under the given paths and report the first
error in each. Directories are searched recursively for files with the
configured extensions (default .slq); hidden directories are skipped.

Files are parsed concurrently. The command fails when any file fails.
With --watch, files are re-checked whenever they change.`,
		Example: `  # Check the current directory
  slq check

  # Check two directories with four workers
  slq check --workers 4 queries/ reports/

  # Keep checking as files change
  slq check --watch queries/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Re-check files when they change")
	cmd.Flags().Int("workers", 0, "Concurrent parses (0 = one per CPU)")
	cmd.Flags().StringSlice("ext", nil, "File extensions to check in directories")
	cmd.Flags().Duration("debounce", 0, "Delay before re-checking in watch mode")

	return cmd
}

func runCheck(cmd *cobra.Command, paths []string, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c := &checker{
		cfg:    cmdCtx.Cfg.Check,
		r:      cmdCtx.Renderer,
		logger: cmdCtx.Logger,
	}

	failed, err := c.pass(ctx, paths)
	if err != nil {
		return err
	}

	if opts.Watch {
		return c.watch(ctx, paths)
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to parse", failed)
	}
	return nil
}

// checker runs check passes with fixed settings.
type checker struct {
	cfg    intconfig.CheckConfig
	r      *output.Renderer
	logger *slog.Logger
}

// pass collects the files under paths, checks them and renders the
// report. It returns the number of failed files.
func (c *checker) pass(ctx context.Context, paths []string) (int, error) {
	files, err := collectFiles(paths, c.cfg)
	if err != nil {
		return 0, err
	}
	c.logger.Debug("checking files", "count", len(files), "workers", c.workers())

	results, err := checkFiles(ctx, files, c.workers())
	if err != nil {
		return 0, err
	}

	report := checkReport{Files: results}
	for _, res := range results {
		if !res.OK {
			report.Failed++
		}
	}

	if c.r.EffectiveMode() == output.ModeText {
		renderCheckText(c.r, report)
		return report.Failed, nil
	}
	return report.Failed, c.r.Data(report)
}

func (c *checker) workers() int {
	if c.cfg.Workers > 0 {
		return c.cfg.Workers
	}
	return runtime.NumCPU()
}

// watch re-runs a pass after bursts of writes settle, until ctx is done.
func (c *checker) watch(ctx context.Context, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, path := range paths {
		if err := watchPath(watcher, path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}
	c.logger.Info("watching for changes", "paths", strings.Join(paths, ", "))

	// Passes run on this goroutine, so none outlives watch.
	var (
		timer    *time.Timer
		debounce <-chan time.Time
		changed  string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounce:
			debounce = nil
			c.logger.Debug("change detected", "file", filepath.Base(changed))
			if _, err := c.pass(ctx, paths); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Warn("check failed", "error", err)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// New directories are watched as they appear.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchPath(watcher, event.Name)
					continue
				}
			}
			if !c.cfg.Matches(event.Name) {
				continue
			}

			changed = event.Name
			if timer == nil {
				timer = time.NewTimer(c.cfg.Debounce)
			} else {
				timer.Reset(c.cfg.Debounce)
			}
			debounce = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watcher error", "error", err)
		}
	}
}

// watchPath adds path to the watcher. Directories are added recursively,
// skipping hidden ones; a file is watched through its directory.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// collectFiles expands paths into a sorted, de-duplicated file list.
// Files named explicitly are always included; directories contribute the
// files whose extension is configured.
func collectFiles(paths []string, cfg intconfig.CheckConfig) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot check %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && isHidden(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if cfg.Matches(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}

// checkFiles parses files with at most workers concurrent parses. Results
// keep the order of files. Parse failures are recorded in the results;
// only a cancelled context aborts the run.
func checkFiles(ctx context.Context, files []string, workers int) ([]checkResult, error) {
	results := make([]checkResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("check aborted: %w", err)
	}
	return results, nil
}

func checkFile(path string) checkResult {
	res := checkResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		res.Error = &errorJSON{Kind: "io", Message: err.Error()}
		return res
	}

	stmts, err := parser.Parse(string(data))
	if err != nil {
		res.err = err
		res.Error = newErrorJSON(err)
		return res
	}

	res.OK = true
	res.Queries = len(stmts.Queries)
	return res
}

func renderCheckText(r *output.Renderer, report checkReport) {
	styles := r.Styles()
	for _, res := range report.Files {
		if res.OK {
			r.Printf("%s %s %s\n", styles.StatusSuccess.String(), res.Path,
				styles.Muted.Render(fmt.Sprintf("(%d queries)", res.Queries)))
			continue
		}
		r.Printf("%s %s\n", styles.StatusFailed.String(), styles.Error.Render(errorLocation(res.Path, res.err)))
	}

	summary := fmt.Sprintf("%d file(s) checked, %d failed", len(report.Files), report.Failed)
	if report.Failed > 0 {
		r.Println(styles.Error.Render(summary))
		return
	}
	r.Println(styles.Success.Render(summary))
}
