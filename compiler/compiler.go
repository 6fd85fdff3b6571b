// Package compiler runs Tailwind CLI to produce stylesheet from a Tailwind
// configuration.
package compiler

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultName is the name of the embedded base stylesheet.
const DefaultName = "tailwind"

//go:embed tailwind.css
var baseStylesheet []byte

// BaseStylesheet returns embedded stylesheet with Tailwind directives.
func BaseStylesheet() []byte {
	return bytes.Clone(baseStylesheet)
}

// Error is returned when Tailwind fails to produce a stylesheet.
type Error struct {
	Command string
	Stderr  string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("unable to compile stylesheet with %q", e.Command)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options describes how Tailwind is invoked.
type Options struct {
	// Command with leading arguments, e.g. ["npx", "tailwindcss"].
	Command []string
	// Source stylesheet, embedded one when empty.
	Source string
	// Name of the embedded stylesheet, used for logging and temp files.
	Name string
	// Autoprefixer enables vendor prefixing stage.
	Autoprefixer bool
	// Args are appended to command line.
	Args []string
}

// Compiler produces stylesheets.
type Compiler struct {
	opts Options
	log  *zap.Logger
}

// New creates compiler.
func New(opts Options, log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.Command) == 0 {
		opts.Command = []string{"tailwindcss"}
	}
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	return &Compiler{opts: opts, log: log.Named("compiler")}
}

// Compile runs Tailwind with the given configuration file and returns
// produced CSS.
func (c *Compiler) Compile(ctx context.Context, config string) ([]byte, error) {
	source := c.opts.Source
	if source == "" {
		tmp, cleanup, err := c.writeBaseStylesheet()
		if err != nil {
			return nil, err
		}
		defer cleanup()
		source = tmp
		c.log.Info("Processing embedded stylesheet", zap.String("name", c.opts.Name+".css"))
	} else {
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("unable to access source stylesheet: %w", err)
		}
		c.log.Info("Processing stylesheet", zap.String("source", source))
	}

	args := append([]string{}, c.opts.Command[1:]...)
	args = append(args, "--input", source)
	if config != "" {
		args = append(args, "--config", config)
	}
	if !c.opts.Autoprefixer {
		args = append(args, "--no-autoprefixer")
	}
	args = append(args, c.opts.Args...)

	cmd := exec.CommandContext(ctx, c.opts.Command[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debug("Running Tailwind", zap.Stringer("cmd", cmd))
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &Error{Command: c.opts.Command[0], Stderr: stderr.String(), Err: err}
	}
	if s := strings.TrimSpace(stderr.String()); s != "" {
		c.log.Debug("Tailwind diagnostics", zap.String("stderr", s))
	}
	if len(bytes.TrimSpace(stdout.Bytes())) == 0 {
		return nil, &Error{Command: c.opts.Command[0], Stderr: stderr.String(), Err: errors.New("empty output")}
	}

	c.log.Debug("Stylesheet compiled", zap.Int("bytes", stdout.Len()))
	return stdout.Bytes(), nil
}

func (c *Compiler) writeBaseStylesheet() (string, func(), error) {
	dir, err := os.MkdirTemp("", "twrn-")
	if err != nil {
		return "", nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			c.log.Warn("Unable to remove temporary directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	name := filepath.Join(dir, c.opts.Name+".css")
	if err := os.WriteFile(name, baseStylesheet, 0644); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("unable to write base stylesheet: %w", err)
	}
	return name, cleanup, nil
}
