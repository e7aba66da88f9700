package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanels/internal/history"
	"github.com/Aman-CERP/amanels/internal/output"
	"github.com/Aman-CERP/amanels/internal/render"
	"github.com/Aman-CERP/amanels/internal/ui"
	"github.com/Aman-CERP/amanels/pkg/searcher"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved searches",
		Long: `List, inspect, delete and rerun saved searches.

Every search is saved unless --no-history is given or history is disabled
in the configuration. IDs may be shortened to any unique prefix.`,
		Example: `  amanels history list
  amanels history show 3f2a9c1b
  amanels history rerun 3f2a9c1b --format rtf --output grid.rtf
  amanels history prune --keep 50`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newHistoryPruneCmd())
	cmd.AddCommand(newHistoryRerunCmd())

	return cmd
}

// withHistory opens the configured store for the duration of fn.
func withHistory(fn func(srch *searcher.Searcher, store *history.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	srch, cleanup, err := openSearcher(cfg, true)
	if err != nil {
		return err
	}
	defer cleanup()

	store := srch.History()
	if store == nil {
		return searcher.ErrNoHistory
	}
	return fn(srch, store)
}

func newHistoryListCmd() *cobra.Command {
	var (
		limit      int
		corpusPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent searches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(func(_ *searcher.Searcher, store *history.Store) error {
				records, err := store.List(cmd.Context(), history.ListOptions{Limit: limit, Corpus: corpusPath})
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, records)
				}

				out := output.New(cmd.OutOrStdout())
				if len(records) == 0 {
					out.Status("📭", "No saved searches")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, r := range records {
					rows = append(rows, []string{
						r.ShortID(),
						r.Name,
						joinTerms(r.Terms),
						strconv.Itoa(r.HitCount),
						string(r.Status),
						ui.FormatAge(r.CreatedAt),
						r.CorpusPath,
					})
				}
				out.Table([]string{"ID", "NAME", "TERMS", "HITS", "STATUS", "AGE", "CORPUS"}, rows)

				total, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				out.Newline()
				out.Statusf("📚", "%d of %d saved searches", len(records), total)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of searches (0 for all)")
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "Only searches of this corpus path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved search and its hits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(_ *searcher.Searcher, store *history.Store) error {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, rec)
				}

				w := cmd.OutOrStdout()
				out := output.New(w)
				out.KeyValue(
					[2]string{"ID", rec.ID},
					[2]string{"Name", rec.Name},
					[2]string{"Saved", rec.CreatedAt.Format("2006-01-02 15:04:05")},
					[2]string{"Corpus", rec.CorpusPath},
					[2]string{"Language", rec.Language},
					[2]string{"Terms", joinTerms(rec.Terms)},
					[2]string{"Range", describeRange(rec.Options.Start, rec.Options.Stop)},
					[2]string{"Skips", describeSkips(rec.Options.FromSkip, rec.Options.ToSkip)},
					[2]string{"Proximity", describeProximity(rec.Options.Proximity)},
					[2]string{"Status", string(rec.Status)},
					[2]string{"Duration", ui.FormatDuration(rec.Duration)},
				)
				out.Newline()
				out.Hits(rec.Hits, 0)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(_ *searcher.Searcher, store *history.Store) error {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), rec.ID); err != nil {
					return err
				}
				output.New(cmd.OutOrStdout()).Successf("Deleted %s", rec.ShortID())
				return nil
			})
		},
	}
}

func newHistoryPruneCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(func(_ *searcher.Searcher, store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				output.New(cmd.OutOrStdout()).Successf("Removed %d search(es), kept at most %d", removed, keep)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 50, "Number of newest searches to keep")

	return cmd
}

func newHistoryRerunCmd() *cobra.Command {
	var (
		format  string
		width   int
		color   string
		outFile string
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "rerun <id>",
		Short: "Run a saved search again",
		Long: `Run a saved search again with its corpus, language, terms and options.
The rerun is not saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(srch *searcher.Searcher, _ *history.Store) error {
				return runRerun(cmd, srch, args[0], format, width, color, outFile, plain)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Grid format: text, rtf, json")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Letters per grid row (0 for the first hit's skip)")
	cmd.Flags().StringVar(&color, "color", "auto", "Color: auto, always, never")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write the grid to a file instead of stdout")
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain progress output (no TUI)")

	return cmd
}

func runRerun(cmd *cobra.Command, srch *searcher.Searcher, id, formatName string, width int, colorSetting, outFile string, plain bool) error {
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stdout := cmd.OutOrStdout()
	color := useColor(colorSetting, stdout) && outFile == ""

	renderer := ui.NewRenderer(ui.NewConfig(cmd.ErrOrStderr(),
		ui.WithForcePlain(plain),
		ui.WithNoColor(!useColor(colorSetting, cmd.ErrOrStderr())),
		ui.WithCancel(cancel),
	))
	if err := renderer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start progress display: %w", err)
	}

	resp, _, err := srch.Rerun(ctx, id, ui.SearchSink(renderer))
	if err != nil {
		_ = renderer.Stop()
		return err
	}
	summary := summaryOf(resp)
	renderer.Complete(summary)
	_ = renderer.Stop()

	resp.Rendered, err = searcher.RenderResult(resp.Corpus.Profile, resp.Result, format, width, color)
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(resp.Rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write grid: %w", err)
		}
	}
	return printResponse(stdout, resp, summary, printOptions{
		format:   format,
		gridFile: outFile,
		noColor:  !color,
	})
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func describeRange(start, stop int) string {
	if stop < 0 {
		return fmt.Sprintf("%d to end", start)
	}
	return fmt.Sprintf("%d to %d", start, stop)
}

func describeSkips(from, to int) string {
	if to < 0 {
		return fmt.Sprintf("%d and up", from)
	}
	return fmt.Sprintf("%d to %d", from, to-1)
}

func describeProximity(p int) string {
	if p < 0 {
		return "off"
	}
	return strconv.Itoa(p)
}
