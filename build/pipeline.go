package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"twrn/compiler"
	"twrn/config"
	"twrn/css"
	"twrn/native"
	"twrn/styles"
	"twrn/twconfig"
)

// Pipeline turns stylesheet into style map file: compile, parse, map, write.
// It is not safe for concurrent use, watch mode serializes runs through
// watch.Queue.
type Pipeline struct {
	log       *zap.Logger
	rpt       *config.Report
	compiler  *compiler.Compiler
	inspector *twconfig.Inspector
	parser    *css.Parser
	mapper    *styles.Mapper

	// Tailwind configuration, when empty stylesheet is used as is
	tailwind   string
	stylesheet []byte
	output     string
	remBase    float64
	runs       int
}

// NewPipeline prepares pipeline for build settings. When tailwind is empty
// every run maps precompiled stylesheet instead of invoking Tailwind.
func NewPipeline(cfg *config.BuildConfig, tailwind string, stylesheet []byte, output string, rpt *config.Report, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	conv := native.NewConverter(log, native.WithShorthandBlacklist(cfg.ShorthandBlacklist...))
	return &Pipeline{
		log: log,
		rpt: rpt,
		compiler: compiler.New(compiler.Options{
			Command:      cfg.Tailwind.Command,
			Source:       cfg.Tailwind.Source,
			Name:         cfg.Tailwind.Name,
			Autoprefixer: cfg.Tailwind.Autoprefixer,
			Args:         cfg.Tailwind.Args,
		}, log),
		inspector:  twconfig.NewInspector(log, cfg.Tailwind.InspectTimeout),
		parser:     css.NewParser(log),
		mapper:     styles.NewMapper(log, conv, cfg.RemBase),
		tailwind:   tailwind,
		stylesheet: stylesheet,
		output:     output,
		remBase:    cfg.RemBase,
	}
}

// Run performs single pass. Nothing is written when any stage fails.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.runs++
	start := time.Now()
	log := p.log.With(zap.String("run", uuid.NewString()))

	data, source := p.stylesheet, "bundled stylesheet"
	if p.tailwind != "" {
		p.inspect(ctx, log)
		if err := p.rpt.StoreCopy(filepath.Join("tailwind", filepath.Base(p.tailwind)), p.tailwind); err != nil {
			log.Warn("Unable to store Tailwind configuration in report", zap.Error(err))
		}

		compiled, err := p.compiler.Compile(ctx, p.tailwind)
		if err != nil {
			var cerr *compiler.Error
			if errors.As(err, &cerr) && cerr.Stderr != "" {
				log.Error("Tailwind failed", zap.String("command", cerr.Command), zap.String("stderr", cerr.Stderr))
			}
			return fmt.Errorf("unable to compile stylesheet: %w", err)
		}
		p.rpt.StoreData("compiled.css", compiled)
		data, source = compiled, p.tailwind
	}

	sheet, err := p.parser.Parse(data, source)
	if err != nil {
		return err
	}
	for _, w := range sheet.Warnings {
		log.Debug("Stylesheet", zap.String("warning", w))
	}

	if p.rpt != nil {
		p.rpt.StoreData("parsed.css", []byte(sheet.String()))
		p.rpt.StoreData("explain.txt", []byte(styles.Explain(sheet.Rules(), p.remBase)))
	}

	m, err := p.mapper.Map(sheet.Rules())
	if err != nil {
		return fmt.Errorf("unable to convert styles: %w", err)
	}

	out, err := styles.WriteFile(p.output, m)
	if err != nil {
		return err
	}
	p.rpt.StoreData(filepath.Base(p.output), out)

	log.Info("Styles written",
		zap.String("output", p.output),
		zap.Int("classes", m.Len()),
		zap.Int("count", p.runs),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// inspect reports questionable Tailwind settings, failures are not fatal.
func (p *Pipeline) inspect(ctx context.Context, log *zap.Logger) {
	info, err := p.inspector.Inspect(ctx, p.tailwind)
	if err != nil {
		log.Debug("Unable to inspect Tailwind configuration", zap.String("config", p.tailwind), zap.Error(err))
		return
	}
	log.Debug("Tailwind configuration",
		zap.String("prefix", info.Prefix),
		zap.String("separator", info.Separator),
		zap.Bool("important", info.Important),
		zap.Strings("content", info.Content))
	for _, w := range info.Warnings() {
		log.Warn("Tailwind configuration", zap.String("config", p.tailwind), zap.String("warning", w))
	}
}
