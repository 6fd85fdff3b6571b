// Package twconfig evaluates CommonJS Tailwind configuration to learn
// settings which affect generated class names.
package twconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// DefaultTimeout bounds configuration evaluation.
const DefaultTimeout = 2 * time.Second

// Info holds configuration settings relevant to class mapping.
type Info struct {
	Prefix    string
	Separator string
	Important bool
	Content   []string
}

// Warnings returns problems which make produced mapping incomplete.
func (i *Info) Warnings() []string {
	var res []string
	if i.Prefix != "" {
		res = append(res, fmt.Sprintf("configuration sets prefix %q, prefixed classes do not match supported utilities", i.Prefix))
	}
	if len(i.Content) == 0 {
		res = append(res, "configuration has no content paths, Tailwind may generate no utilities")
	}
	return res
}

// stubs shared by every evaluation. Any required module is a proxy which
// tolerates property access, calls and iteration.
const prelude = `(function() {
	function stub() {
		var p;
		var target = function() { return p; };
		p = new Proxy(target, {
			get: function(t, key) {
				if (key === Symbol.iterator) { return function() { return [][Symbol.iterator](); }; }
				if (key === Symbol.toPrimitive) { return function() { return ""; }; }
				if (key === "__esModule") { return false; }
				return p;
			},
			apply: function() { return p; }
		});
		return p;
	}
	return {
		require: function(name) { return stub(); },
		extract: function(cfg) {
			if (cfg === null || typeof cfg !== "object") { cfg = {}; }
			var content = cfg.content !== undefined ? cfg.content : cfg.purge;
			if (content && !Array.isArray(content) && typeof content === "object") {
				content = content.files !== undefined ? content.files : content.content;
			}
			var files = [];
			if (Array.isArray(content)) {
				for (var i = 0; i < content.length; i++) {
					if (typeof content[i] === "string") { files.push(content[i]); }
					else if (content[i] && typeof content[i].raw === "string") { files.push("raw:" + content[i].raw.length); }
				}
			}
			return {
				prefix: typeof cfg.prefix === "string" ? cfg.prefix : "",
				separator: typeof cfg.separator === "string" ? cfg.separator : ":",
				important: cfg.important === true || typeof cfg.important === "string",
				content: files
			};
		}
	};
})()`

// Inspector evaluates configuration files.
type Inspector struct {
	log     *zap.Logger
	timeout time.Duration
}

// NewInspector creates inspector. Non-positive timeout means DefaultTimeout.
func NewInspector(log *zap.Logger, timeout time.Duration) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Inspector{log: log.Named("twconfig"), timeout: timeout}
}

// Inspect loads configuration module from path.
func (in *Inspector) Inspect(ctx context.Context, path string) (*Info, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read tailwind configuration: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return in.Evaluate(ctx, abs, string(src))
}

// Evaluate runs configuration module source. Name is reported as __filename.
func (in *Inspector) Evaluate(ctx context.Context, name, src string) (*Info, error) {
	vm := goja.New()
	vm.SetMaxCallStackSize(1024)

	done := make(chan struct{})
	defer close(done)

	timer := time.NewTimer(in.timeout)
	defer timer.Stop()

	go func() {
		select {
		case <-timer.C:
			vm.Interrupt("evaluation timeout exceeded")
		case <-ctx.Done():
			vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	helpers, err := vm.RunString(prelude)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare runtime: %w", err)
	}
	h := helpers.ToObject(vm)
	extract, ok := goja.AssertFunction(h.Get("extract"))
	if !ok {
		return nil, errors.New("unable to prepare runtime: extract is not a function")
	}

	wrapper, err := vm.RunScript(name, "(function(module, exports, require, process, __filename, __dirname) {\n"+src+"\n})")
	if err != nil {
		return nil, fmt.Errorf("unable to compile tailwind configuration: %w", err)
	}
	fn, ok := goja.AssertFunction(wrapper)
	if !ok {
		return nil, errors.New("unable to compile tailwind configuration: not a function")
	}

	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	process := vm.NewObject()
	if err := process.Set("env", environment()); err != nil {
		return nil, err
	}
	if err := process.Set("cwd", func() string { wd, _ := os.Getwd(); return wd }); err != nil {
		return nil, err
	}

	if _, err := fn(goja.Undefined(), module, exports, h.Get("require"), process, vm.ToValue(name), vm.ToValue(filepath.Dir(name))); err != nil {
		var ie *goja.InterruptedError
		if errors.As(err, &ie) {
			return nil, fmt.Errorf("tailwind configuration evaluation interrupted: %v", ie.Value())
		}
		return nil, fmt.Errorf("unable to evaluate tailwind configuration: %w", err)
	}

	res, err := extract(goja.Undefined(), module.Get("exports"))
	if err != nil {
		return nil, fmt.Errorf("unable to inspect tailwind configuration: %w", err)
	}

	var raw map[string]any
	if err := vm.ExportTo(res, &raw); err != nil {
		return nil, fmt.Errorf("unable to inspect tailwind configuration: %w", err)
	}

	info := &Info{}
	info.Prefix, _ = raw["prefix"].(string)
	info.Separator, _ = raw["separator"].(string)
	info.Important, _ = raw["important"].(bool)
	if list, ok := raw["content"].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				info.Content = append(info.Content, s)
			}
		}
	}

	in.log.Debug("Tailwind configuration inspected",
		zap.String("file", name),
		zap.String("prefix", info.Prefix),
		zap.String("separator", info.Separator),
		zap.Bool("important", info.Important),
		zap.Strings("content", info.Content))
	return info, nil
}

func environment() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
