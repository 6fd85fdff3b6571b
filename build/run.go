// Package build drives style map generation from command line.
package build

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"twrn/state"
	"twrn/watch"
)

// ConfigName is looked up when Tailwind configuration path is a directory.
const ConfigName = "tailwind.config.js"

//go:embed default.css
var defaultStylesheet []byte

// DefaultStylesheet returns precompiled stylesheet used when there is no
// Tailwind configuration.
func DefaultStylesheet() []byte {
	return defaultStylesheet
}

func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	if cmd.Args().Len() > 0 {
		log.Warn("Malformed command line, unexpected arguments", zap.Strings("ignoring", cmd.Args().Slice()))
	}
	env.TailwindConfig = cmd.String("tailwind-config")
	env.Output = cmd.String("output")
	env.Watch = cmd.Bool("watch")

	log.Info("Processing starting", zap.String("output", env.OutputPath()), zap.Bool("watch", env.Watch))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, env, log)
}

// process handles pipeline setup independently of CLI framework.
func process(ctx context.Context, env *state.LocalEnv, log *zap.Logger) error {
	output := env.OutputPath()
	if _, err := os.Stat(filepath.Dir(output)); err != nil {
		return fmt.Errorf("output directory is not accessible: %w", err)
	}

	tailwind, root, err := resolveTailwind(env.TailwindConfigPath())
	if err != nil {
		return err
	}

	if tailwind == "" {
		stylesheet, err := loadStylesheet(env.Cfg.Build.DefaultStylesheet)
		if err != nil {
			return err
		}
		if env.Watch {
			log.Warn("Nothing to watch without Tailwind configuration, running once")
		}
		log.Info("Using precompiled stylesheet (no Tailwind configuration)")
		return NewPipeline(&env.Cfg.Build, "", stylesheet, output, env.Rpt, log).Run(ctx)
	}

	log.Info("Using Tailwind configuration", zap.String("config", tailwind))
	p := NewPipeline(&env.Cfg.Build, tailwind, nil, output, env.Rpt, log)
	if !env.Watch {
		return p.Run(ctx)
	}
	return watchAndRun(ctx, p, root, env.Cfg.Build.Watch.Ignore, output, log)
}

// resolveTailwind returns configuration file and watched path. Empty
// configuration means none is present.
func resolveTailwind(path string) (cfg, root string, err error) {
	if path == "" {
		return "", "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("unable to access Tailwind configuration: %w", err)
	}
	if !info.IsDir() {
		return path, path, nil
	}
	cfg = filepath.Join(path, ConfigName)
	if _, err := os.Stat(cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("unable to access Tailwind configuration: %w", err)
	}
	return cfg, path, nil
}

func loadStylesheet(path string) ([]byte, error) {
	if path == "" {
		return defaultStylesheet, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read default stylesheet from %q: %w", path, err)
	}
	return data, nil
}

// watchAndRun runs pipeline once and then again after every relevant change
// under root until context is cancelled.
func watchAndRun(ctx context.Context, p *Pipeline, root string, ignore []string, output string, log *zap.Logger) error {
	w, err := watch.New(watch.Options{Path: root, Ignore: ignore, Exclude: []string{output}}, log)
	if err != nil {
		return fmt.Errorf("unable to start watching: %w", err)
	}
	defer w.Close()

	q := watch.NewQueue(log, p.Run)
	q.Schedule()

	log.Info("Watching for changes", zap.String("path", root))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return q.Serve(gctx)
	})
	g.Go(func() error {
		if err := w.Run(gctx, func(string) { q.Schedule() }); err != nil {
			return err
		}
		return errors.New("watcher stopped unexpectedly")
	})
	err = g.Wait()
	if ctx.Err() != nil {
		log.Info("Watching stopped")
		return nil
	}
	return err
}
