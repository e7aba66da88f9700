package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanels/internal/config"
	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/output"
	"github.com/Aman-CERP/amanels/internal/render"
	"github.com/Aman-CERP/amanels/internal/sequence"
	"github.com/Aman-CERP/amanels/internal/ui"
	"github.com/Aman-CERP/amanels/pkg/searcher"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	start     int
	stop      int
	fromSkip  int
	toSkip    int
	proximity int
	workers   int
	language  string
	format    string
	width     int
	color     string
	output    string
	name      string
	noHistory bool
	plain     bool
	quiet     bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <path> <term> [term...]",
		Short: "Search a text for equidistant letter sequences",
		Long: `Search a text file for each term spelled with a fixed skip between letters.

Each term is normalized like the text and searched forwards and reversed.
Positions in the output are 1-based and count from the start of the text.

Examples:
  amanels search genesis.txt torah
  amanels search genesis.txt torah --from-skip 40 --to-skip 60
  amanels search koine.txt logos --language greek --proximity 100
  amanels search genesis.txt torah --format rtf --output grid.rtf`,
		Args: searchArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().IntVar(&opts.start, "start", 0, "First letter index of the range (0-based)")
	cmd.Flags().IntVar(&opts.stop, "stop", sequence.Unset, "Last letter index of the range, inclusive (-1 for the end)")
	cmd.Flags().IntVar(&opts.fromSkip, "from-skip", sequence.DefaultFromSkip, "Smallest skip")
	cmd.Flags().IntVar(&opts.toSkip, "to-skip", sequence.Unset, "Exclusive largest skip (-1 for the range length)")
	cmd.Flags().IntVarP(&opts.proximity, "proximity", "p", sequence.Unset, "Keep hits within this many letters of another term (-1 off)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Parallel skip workers per position (0 for one per skip)")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Language: latin, greek, hebrew or auto")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Grid format: text, rtf, json")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "Letters per grid row (0 for the first hit's skip)")
	cmd.Flags().StringVar(&opts.color, "color", "", "Color: auto, always, never")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the grid to a file instead of stdout")
	cmd.Flags().StringVar(&opts.name, "name", "", "Label for the saved search")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not save the search")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Plain progress output (no TUI)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print only hits and the grid")

	return cmd
}

// searchSettings are the config defaults with changed flags applied.
type searchSettings struct {
	options  sequence.Options
	language string
	format   render.Format
	width    int
	color    string
}

// searchArgs requires a path and at least one non-blank term. The engine
// accepts an empty term set, but on the command line it is a typo.
func searchArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(2)(cmd, args); err != nil {
		return err
	}
	for _, t := range args[1:] {
		if strings.TrimSpace(t) != "" {
			return nil
		}
	}
	return elserrors.New(elserrors.ErrCodeTermsEmpty, "at least one search term is required", nil).
		WithSuggestion("Pass the words to look for after the corpus path")
}

func resolveSearchSettings(cmd *cobra.Command, cfg *config.Config, opts searchOptions) (searchSettings, error) {
	s := searchSettings{
		options:  cfg.SearchOptions(),
		language: cfg.Search.Language,
		width:    cfg.Output.Width,
		color:    cfg.Output.Color,
	}

	flags := cmd.Flags()
	if flags.Changed("start") {
		s.options.Start = opts.start
	}
	if flags.Changed("stop") {
		s.options.Stop = opts.stop
	}
	if flags.Changed("from-skip") {
		s.options.FromSkip = opts.fromSkip
	}
	if flags.Changed("to-skip") {
		s.options.ToSkip = opts.toSkip
	}
	if flags.Changed("proximity") {
		s.options.Proximity = opts.proximity
	}
	if flags.Changed("workers") {
		s.options.Workers = opts.workers
	}
	if opts.language != "" {
		s.language = opts.language
	}
	if flags.Changed("width") {
		s.width = opts.width
	}
	if opts.color != "" {
		s.color = opts.color
	}

	name := cfg.Output.Format
	if opts.format != "" {
		name = opts.format
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return s, err
	}
	s.format = format
	return s, nil
}

func runSearch(ctx context.Context, cmd *cobra.Command, path string, terms []string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	settings, err := resolveSearchSettings(cmd, cfg, opts)
	if err != nil {
		return err
	}

	srch, cleanup, err := openSearcher(cfg, !opts.noHistory)
	if err != nil {
		return err
	}
	defer cleanup()

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	color := useColor(settings.color, stdout) && opts.output == ""

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderer := ui.NewRenderer(ui.NewConfig(stderr,
		ui.WithForcePlain(opts.plain),
		ui.WithNoColor(!useColor(settings.color, stderr)),
		ui.WithCorpus(path),
		ui.WithCancel(cancel),
	))
	if err := renderer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start progress display: %w", err)
	}
	renderer.UpdateProgress(ui.ProgressEvent{Phase: ui.PhaseLoading, Message: "Loading " + path})

	slog.Info("search_started",
		slog.String("corpus", path),
		slog.Int("terms", len(terms)))

	resp, err := srch.Search(ctx, searcher.Request{
		Path:     path,
		Name:     opts.name,
		Terms:    terms,
		Language: settings.language,
		Options:  settings.options,
		Format:   settings.format,
		Width:    settings.width,
		Color:    color,
		Save:     !opts.noHistory,
		Sink:     ui.SearchSink(renderer),
	})
	if err != nil {
		_ = renderer.Stop()
		return err
	}

	renderer.UpdateProgress(ui.ProgressEvent{Phase: ui.PhaseRendering, Message: "Rendering grid"})
	summary := summaryOf(resp)
	renderer.Complete(summary)
	_ = renderer.Stop()

	event := "search_complete"
	if resp.Result.Cancelled() {
		event = "search_cancelled"
	}
	slog.Info(event,
		slog.Int("hits", len(resp.Result.Hits)),
		slog.Int("positions", resp.Result.Stats.Positions),
		slog.Duration("duration", resp.Result.Stats.Duration))

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(resp.Rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write grid: %w", err)
		}
	}

	return printResponse(stdout, resp, summary, printOptions{
		format:   settings.format,
		gridFile: opts.output,
		noColor:  !color,
		quiet:    opts.quiet,
	})
}

func summaryOf(resp *searcher.Response) ui.Summary {
	return ui.Summary{
		Corpus:    resp.Corpus.Path,
		Language:  string(resp.Corpus.Language()),
		Letters:   resp.Corpus.Letters,
		Terms:     resp.Result.Terms,
		Hits:      len(resp.Result.Hits),
		Positions: resp.Result.Stats.Positions,
		Duration:  resp.Result.Stats.Duration,
		Cancelled: resp.Result.Cancelled(),
	}
}

// searchJSON is the --format json document.
type searchJSON struct {
	Corpus    string          `json:"corpus"`
	Language  string          `json:"language"`
	Base      int             `json:"base"`
	Status    string          `json:"status"`
	Stats     sequence.Stats  `json:"stats"`
	HistoryID string          `json:"history_id,omitempty"`
	Grid      json.RawMessage `json:"grid,omitempty"`
}

type printOptions struct {
	format   render.Format
	gridFile string
	noColor  bool
	// quiet drops the summary and status lines.
	quiet bool
}

// printResponse writes the summary, the hit sentences and the grid. JSON
// output is a single document.
func printResponse(w io.Writer, resp *searcher.Response, summary ui.Summary, opts printOptions) error {
	out := output.New(w)
	if opts.quiet {
		out = output.Quiet(w)
	}

	if opts.format == render.FormatJSON && opts.gridFile == "" {
		doc := searchJSON{
			Corpus:    resp.Corpus.Path,
			Language:  string(resp.Corpus.Language()),
			Base:      resp.Base,
			Status:    string(resp.Result.Status),
			Stats:     resp.Result.Stats,
			HistoryID: resp.HistoryID,
		}
		if resp.Rendered != "" {
			doc.Grid = json.RawMessage(resp.Rendered)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	if !opts.quiet {
		if err := ui.NewSummaryRenderer(w, opts.noColor).Render(summary); err != nil {
			return err
		}
		out.Newline()
	}
	out.Hits(resp.Result.Hits, resp.Base)

	if opts.gridFile != "" {
		out.Newline()
		out.Successf("Grid written to %s", opts.gridFile)
	} else if len(resp.Result.Hits) > 0 && resp.Rendered != "" {
		out.Newline()
		_, _ = fmt.Fprint(w, resp.Rendered)
	}

	if resp.HistoryID != "" {
		out.Newline()
		out.Statusf("💾", "Saved as %s", shortID(resp.HistoryID))
	}
	return nil
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
