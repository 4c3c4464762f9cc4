package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/noelzubin/bear_search/output"
	"github.com/noelzubin/bear_search/search"
	"github.com/noelzubin/bear_search/search/bear_store"
	"github.com/noelzubin/bear_search/search/query"
	"github.com/noelzubin/bear_search/tui"
	"github.com/noelzubin/bear_search/utils"
	"github.com/spf13/cobra"
)

type options struct {
	configPath  string
	interactive bool
}

func NewCmdRoot() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bear_search [query...]",
		Short: "Search Bear notes and print the matches as JSON.",
		Long: heredoc.Doc(`
			Search the titles and bodies of Bear notes.

			Words are matched anywhere in a note. AND or OR at the start of the
			query sets how words are combined (OR by default). AND or OR later on
			starts a group joined by that keyword:

			  bear_search groceries milk
			  bear_search AND trip lisbon
			  bear_search recipe OR sourdough starter
		`),
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			// Short queries never touch the config or the database.
			if !opts.interactive && len(query.Tokenize(q)) == 0 {
				return output.Write(cmd.OutOrStdout(), nil)
			}

			config, err := utils.NewConfig(opts.configPath)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), config)
			store, err := bear_store.NewBearStore(config, bear_store.WithLogger(logger))
			if err != nil {
				return err
			}

			if opts.interactive {
				return tui.Run(store, config, q)
			}
			return run(cmd.Context(), cmd.OutOrStdout(), store, config, q)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", utils.DefaultConfigPath(), "Path to the config file.")
	cmd.Flags().BoolVarP(&opts.interactive, "tui", "i", false, "Search interactively in the terminal.")

	return cmd
}

// run searches once and writes the result list to w. Nothing is written
// when the search fails.
func run(ctx context.Context, w io.Writer, searcher search.NotesSearcher, config *utils.Config, q string) error {
	result := searcher.Search(ctx, q)
	if result.Err != nil {
		return result.Err
	}

	return output.Write(w, output.FromHits(config, result.Hits))
}

func newLogger(w io.Writer, config *utils.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: config.Level()}))
}
