package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecjudge/internal/index"
	"github.com/kailas-cloud/vecjudge/internal/ingest"
)

// previewQuery is the probe query run after building the index.
const previewQuery = "test"

type previewHit struct {
	Score float64 `json:"score"`
	Doc   string  `json:"doc"`
}

func newIngestCmd(opts *globalOptions) *cobra.Command {
	var (
		folder     string
		k          int
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load and chunk a corpus folder, then preview a search",
		Long: `Walks the corpus folder, chunks every matching document and builds the
tf-idf index. Prints the chunk count and the top-k results of a probe query.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			if folder == "" {
				folder = cfg.Corpus.Path
			}

			loader := ingest.NewLoader(cfg.Corpus.MinChunkChars, cfg.Corpus.MaxChunkChars, cfg.Corpus.Include, logger)
			if !noProgress {
				if p := newProgress(cmd.ErrOrStderr()); p != nil {
					loader.WithProgress(p)
				}
			}

			chunks, err := loader.Load(cmd.Context(), folder)
			if err != nil {
				return err //nolint:wrapcheck // loader errors carry the folder
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded chunks: %d\n", len(chunks))

			ix := index.Build(chunks, index.WithMaxFeatures(cfg.Index.MaxFeatures))
			hits := ix.Search(previewQuery, k)
			preview := make([]previewHit, 0, len(hits))
			for i := range hits {
				preview = append(preview, previewHit{Score: hits[i].Score(), Doc: hits[i].DocPath()})
			}
			return writeIndentedJSON(cmd, preview)
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "corpus folder (default: corpus.path from config)")
	cmd.Flags().IntVarP(&k, "k", "k", 5, "top-k results to preview after building the index")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func writeIndentedJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
