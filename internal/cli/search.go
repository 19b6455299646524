package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecjudge/internal/app"
)

type searchHit struct {
	Text    string  `json:"text"`
	DocPath string  `json:"doc_path"`
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the corpus and print ranked chunks as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			cfg.Cache.Enabled = false

			a, err := app.New(cmd.Context(), &cfg, logger)
			if err != nil {
				return err //nolint:wrapcheck // already wrapped
			}
			defer a.Close()

			if _, err := a.Corpus.Rebuild(cmd.Context()); err != nil {
				return fmt.Errorf("build index: %w", err)
			}

			hits := a.Holder.Search(args[0], k)
			out := make([]searchHit, 0, len(hits))
			for i := range hits {
				out = append(out, searchHit{
					Text:    hits[i].Text(),
					DocPath: hits[i].DocPath(),
					ChunkID: hits[i].ChunkID(),
					Score:   hits[i].Score(),
				})
			}
			return writeIndentedJSON(cmd, out)
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 4, "number of results")
	return cmd
}
