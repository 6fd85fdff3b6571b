package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"twrn/css"
	"twrn/state"
	"twrn/styles"
)

// Classes lists class names of a stylesheet which are (or with --dropped
// are not) translated to styles.
func Classes(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("classes")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many stylesheets", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	data, source := defaultStylesheet, "bundled stylesheet"
	if name := cmd.Args().Get(0); name != "" {
		var err error
		if data, err = os.ReadFile(name); err != nil {
			return fmt.Errorf("unable to read stylesheet: %w", err)
		}
		source = name
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	return listClasses(w, data, source, cmd.Bool("dropped"), log)
}

func listClasses(w io.Writer, data []byte, source string, dropped bool, log *zap.Logger) error {
	sheet, err := css.NewParser(log).Parse(data, source)
	if err != nil {
		return err
	}

	supported, rest := styles.Partition(sheet.Rules())
	log.Debug("Classes found", zap.String("source", source), zap.Int("supported", len(supported)), zap.Int("dropped", len(rest)))

	if dropped {
		sort.Sort(natural.StringSlice(rest))
		for _, name := range rest {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}
		return nil
	}

	sort.Sort(natural.StringSlice(supported))
	for _, name := range supported {
		u, _ := styles.Lookup(name)
		if _, err := fmt.Fprintf(w, "%s\t%s\n", name, u.Category); err != nil {
			return err
		}
	}
	return nil
}
