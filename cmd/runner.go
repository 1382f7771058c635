package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/acms/internal/formatter"
	"github.com/desertthunder/acms/internal/repositories"
	"github.com/desertthunder/acms/internal/shared"
	"github.com/desertthunder/acms/internal/tasks"
)

// BackendOpener opens the store selected by the configuration.
type BackendOpener func(ctx context.Context, cfg *shared.Config) (repositories.Backend, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	logger      *log.Logger
	output      io.Writer
	input       io.Reader
	openBackend BackendOpener
	lookupEnv   func(string) (string, bool)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config // used instead of the config file when set
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader
	OpenBackend BackendOpener
	LookupEnv   func(string) (string, bool)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenBackend == nil {
		opts.OpenBackend = repositories.OpenBackend
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	return &Runner{
		config:      opts.Config,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
		openBackend: opts.OpenBackend,
		lookupEnv:   opts.LookupEnv,
	}
}

// Configure resolves the configuration before any command runs: the config
// file (or defaults), then .env files and ACMS_* variables, then flags.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if r.config == nil {
		config, err := r.loadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if err := shared.LoadEnvFiles(cmd.StringSlice("env-file")...); err != nil {
		return ctx, err
	}
	if err := r.config.ApplyEnv(r.lookupEnv); err != nil {
		return ctx, err
	}
	r.config.Database.Driver = strings.ToLower(strings.TrimSpace(r.config.Database.Driver))
	if level := cmd.String("log-level"); level != "" {
		r.config.Logging.Level = level
	}
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	shared.SetLogLevel(r.logger, r.config.LogLevel())
	r.logger.Debug("configuration loaded", "path", r.configPath, "driver", r.config.Database.Driver)
	return ctx, nil
}

func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Debug("config file not found, using defaults", "path", path)
			return shared.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}
	return shared.LoadConfig(path)
}

// withSyncer opens the configured store for the duration of fn.
func (r *Runner) withSyncer(ctx context.Context, fn func(*tasks.ContentSyncer) error) error {
	backend, err := r.openBackend(ctx, r.config)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			r.logger.Warn("failed to close store", "error", err)
		}
	}()

	syncer := tasks.NewContentSyncer(backend, tasks.SyncOptions{
		MaxConcurrency: r.config.Sync.MaxConcurrency,
		Logger:         r.logger,
	})
	return fn(syncer)
}

// writeRendered writes data to path, or to the runner output when path is empty.
func (r *Runner) writeRendered(data []byte, path string) error {
	if path == "" {
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := formatter.WriteExport(path, data); err != nil {
		return err
	}
	r.logger.Info("output written", "path", path)
	return r.writePlain("✓ Wrote %s\n", path)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
