// Package cli implements the vecjudgectl commands.
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/config"
	logpkg "github.com/kailas-cloud/vecjudge/internal/logger"
	"github.com/kailas-cloud/vecjudge/internal/version"
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

type globalOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the vecjudgectl command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "vecjudgectl",
		Short:         "Index a document corpus and judge answers against rubrics",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default: config/$ENV.yaml, built-in defaults when absent)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newIngestCmd(opts),
		newSearchCmd(opts),
		newJudgeCmd(opts),
	)
	return root
}

// loadConfig reads the config file. A missing file yields the defaults.
func (o *globalOptions) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(config.GetEnv())
	}
	if err == nil {
		return cfg, nil
	}
	if o.configPath == "" && errors.Is(err, fs.ErrNotExist) {
		cfg = config.Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return config.Config{}, fmt.Errorf("load config: %w", err)
}

func (o *globalOptions) logger() (*zap.Logger, error) {
	logger, err := logpkg.NewLogger("local", o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}
