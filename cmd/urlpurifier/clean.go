package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/aleister1102/urlpurifier/internal/common/batchprocessor"
	"github.com/aleister1102/urlpurifier/internal/common/errorwrapper"
	"github.com/aleister1102/urlpurifier/internal/datastore"
	"github.com/aleister1102/urlpurifier/internal/differ"
	"github.com/aleister1102/urlpurifier/internal/extractor"
	"github.com/aleister1102/urlpurifier/internal/purifier"
	"github.com/aleister1102/urlpurifier/internal/urlhandler"
)

// Source labels recorded in run history
const (
	sourceArgs  = "args"
	sourceFile  = "file"
	sourceStdin = "stdin"
)

type cleanOptions struct {
	inputFile  string
	strong     bool
	amazon     bool
	html       bool
	unique     bool
	showDiff   bool
	showStats  bool
	exportPath string
	history    bool
	noProgress bool
}

func newCleanCmd(a *app) *cobra.Command {
	opts := &cleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean [URL...]",
		Short: "Clean URLs given as arguments, in a file, or on stdin",
		Long: `Clean URLs given as arguments, the lines of --input FILE, or stdin.

Stdout receives exactly one cleaned line per input line. Diffs, statistics
and logs go to stderr.`,
		Example: `  urlpurifier clean 'https://example.com/page?utm_source=x&id=5'
  urlpurifier clean --amazon --input links.txt
  curl -s https://example.com | urlpurifier clean --html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := a.cfg.ModeConfig
			if cmd.Flags().Changed("strong") {
				mode.StrongBlocklist = opts.strong
			}
			if cmd.Flags().Changed("amazon") {
				mode.AmazonMode = opts.amazon
			}
			return a.runClean(cmd.Context(), opts, mode, args)
		},
	}

	cmd.Flags().StringVarP(&opts.inputFile, "input", "i", "", "Read input lines from FILE")
	cmd.Flags().BoolVar(&opts.strong, "strong", false, "Also strip the strong blocklist (ttclid, campaign, adid, ...)")
	cmd.Flags().BoolVar(&opts.amazon, "amazon", false, "Amazon mode: strip Amazon tracking and canonicalize product links to /dp/ASIN")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Treat input as HTML and clean every link href")
	cmd.Flags().BoolVar(&opts.unique, "unique", false, "With --html, keep only the first occurrence of each link")
	cmd.Flags().BoolVar(&opts.showDiff, "diff", false, "Print a removed-segment diff per changed line to stderr")
	cmd.Flags().BoolVar(&opts.showStats, "stats", false, "Print batch statistics to stderr")
	cmd.Flags().StringVar(&opts.exportPath, "export", "", "Export cleaned results to a Parquet FILE")
	cmd.Flags().BoolVar(&opts.history, "history", false, "Record this run in the history database")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Never show a progress bar")

	return cmd
}

func (a *app) runClean(ctx context.Context, opts *cleanOptions, mode purifier.ModeConfig, args []string) error {
	startedAt := time.Now()
	runID := datastore.NewRunID()
	log := a.logger.With().Str("run_id", runID).Logger()

	if len(args) > 0 && opts.inputFile != "" {
		return errorwrapper.NewValidationError("input", opts.inputFile, "URL arguments and --input are mutually exclusive")
	}

	text, source, err := a.readInput(opts, args)
	if err != nil {
		return err
	}

	lines, err := a.inputLines(text, source, opts)
	if err != nil {
		return err
	}

	p := purifier.New(mode, a.cfg.BatchConfig.ToBatchProcessorConfig(), log)

	var bar *progressbar.ProgressBar
	var onProgress batchprocessor.ProgressFunc
	if !opts.noProgress && len(lines) >= a.cfg.BatchConfig.ThresholdSize {
		bar = newProgressBar(a.stderr, len(lines))
		onProgress = advanceBar(bar)
	}

	result, err := p.CleanLines(ctx, lines, onProgress)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return errorwrapper.WrapError(err, "cleaning failed")
	}

	if len(lines) > 0 {
		if _, err := fmt.Fprintln(a.stdout, result.Output()); err != nil {
			return errorwrapper.WrapError(err, "failed to write output")
		}
	}

	if opts.showDiff {
		a.printDiffs(result)
	}
	if opts.showStats {
		printStats(a.stderr, result.Stats)
	}

	var exportPath sql.NullString
	if opts.exportPath != "" {
		writer, err := datastore.NewParquetWriter(a.cfg.StorageConfig.CompressionCodec, log)
		if err != nil {
			return err
		}
		if _, err := writer.Write(ctx, opts.exportPath, runID, result.Results); err != nil {
			return errorwrapper.WrapError(err, "export failed")
		}
		exportPath = sql.NullString{String: opts.exportPath, Valid: true}
	}

	if opts.history {
		if err := a.recordRun(ctx, datastore.RunRecord{
			RunID:           runID,
			StartedAt:       startedAt,
			FinishedAt:      time.Now(),
			Source:          source,
			StrongBlocklist: mode.StrongBlocklist,
			AmazonMode:      mode.AmazonMode,
			Stats:           result.Stats,
			ExportPath:      exportPath,
		}); err != nil {
			return err
		}
	}

	log.Info().
		Int("lines", len(lines)).
		Int("total_urls", result.Stats.TotalURLs).
		Int("total_changed", result.Stats.TotalChanged).
		Dur("duration", time.Since(startedAt)).
		Msg("Clean run finished")
	return nil
}

// readInput returns the raw input text and the label of where it came from
func (a *app) readInput(opts *cleanOptions, args []string) (string, string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, "\n"), sourceArgs, nil
	case opts.inputFile != "":
		text, err := urlhandler.ReadInputFile(opts.inputFile, a.logger)
		if err != nil {
			return "", "", errorwrapper.WrapError(err, "could not read input file")
		}
		return trimFinalNewline(text), sourceFile, nil
	default:
		text, err := urlhandler.ReadInput(a.stdin, a.logger)
		if err != nil {
			return "", "", errorwrapper.WrapError(err, "could not read stdin")
		}
		return trimFinalNewline(text), sourceStdin, nil
	}
}

// inputLines splits text into lines, or extracts link targets when the input is HTML
// Empty file or stdin input has no lines; an empty argument is one blank line.
func (a *app) inputLines(text, source string, opts *cleanOptions) ([]string, error) {
	if opts.html {
		return extractor.NewLinkExtractor(a.logger).WithUnique(opts.unique).Extract(strings.NewReader(text))
	}
	if text == "" && source != sourceArgs {
		return nil, nil
	}
	return purifier.SplitLines(text), nil
}

func (a *app) printDiffs(result purifier.BatchResult) {
	ud := differ.NewURLDiffer(differ.DefaultDiffConfig(), a.logger)
	for _, r := range result.ChangedResults() {
		if d, ok := ud.DiffResult(r); ok {
			fmt.Fprintln(a.stderr, d.Rendered)
		}
	}
}

func (a *app) recordRun(ctx context.Context, run datastore.RunRecord) error {
	store, err := datastore.NewHistoryStore(a.cfg.StorageConfig.HistoryDBPath, a.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.RecordRun(ctx, run); err != nil {
		return errorwrapper.WrapError(err, "could not record run history")
	}
	return nil
}

func printStats(w io.Writer, s purifier.BatchStats) {
	fmt.Fprintf(w, "urls: %d  changed: %d  params removed: %d  errors: %d\n",
		s.TotalURLs, s.TotalChanged, s.TotalParamsRemoved, s.TotalErrors)
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("cleaning"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// advanceBar adds each finished batch's item count to bar
func advanceBar(bar *progressbar.ProgressBar) batchprocessor.ProgressFunc {
	return func(processed int) { _ = bar.Add(processed) }
}

// trimFinalNewline drops the line terminator of the last line so it does not produce an extra blank result
func trimFinalNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
