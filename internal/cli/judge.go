package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecjudge/internal/app"
	"github.com/kailas-cloud/vecjudge/internal/domain/rubric"
	"github.com/kailas-cloud/vecjudge/internal/domain/verdict"
)

func newJudgeCmd(opts *globalOptions) *cobra.Command {
	var (
		rubricFile string
		rubricID   string
		question   string
		answer     string
		contexts   []string
	)

	cmd := &cobra.Command{
		Use:   "judge",
		Short: "Score an answer against a rubric and print the verdict as JSON",
		Long: `Evaluates every rubric rule against the answer and context documents.
Semantic rules use the configured OpenAI-compatible backend; without one they
are scored as not passed. Exits with code 1 when the rubric cannot be loaded.`,
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

			a, err := app.New(cmd.Context(), &cfg, logger)
			if err != nil {
				return err //nolint:wrapcheck // already wrapped
			}
			defer a.Close()

			var res verdict.Result
			if rubricFile != "" {
				rub, err := readRubric(rubricFile)
				if err != nil {
					return &ExitError{Code: 1, Err: err}
				}
				res = a.Judge.Judge(cmd.Context(), question, answer, contexts, &rub)
			} else {
				res, err = a.Judge.JudgeByID(cmd.Context(), question, answer, contexts, rubricID)
				if err != nil {
					return &ExitError{Code: 1, Err: err}
				}
			}
			return writeIndentedJSON(cmd, res)
		},
	}

	cmd.Flags().StringVar(&rubricFile, "rubric", "", "rubric YAML file")
	cmd.Flags().StringVar(&rubricID, "rubric-id", "", "rubric name under judge.rubric_dir (default: judge.default_rubric)")
	cmd.Flags().StringVarP(&question, "question", "q", "", "question the answer responds to")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "answer to judge")
	cmd.Flags().StringArrayVarP(&contexts, "context", "c", nil, "context document (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("rubric", "rubric-id")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}

func readRubric(path string) (rubric.Rubric, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return rubric.Rubric{}, fmt.Errorf("read rubric: %w", err)
	}
	r, err := rubric.Decode(data)
	if err != nil {
		return rubric.Rubric{}, fmt.Errorf("rubric %s: %w", path, err)
	}
	return r, nil
}
