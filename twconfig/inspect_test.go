package twconfig

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Info
	}{
		{
			name: "content array",
			src: `module.exports = {
  content: ["./src/**/*.tsx", "./app/**/*.ts"],
  theme: { extend: {} },
  plugins: [],
}`,
			want: Info{Separator: ":", Content: []string{"./src/**/*.tsx", "./app/**/*.ts"}},
		},
		{
			name: "purge object with prefix",
			src: `module.exports = {
  prefix: "tw-",
  separator: "_",
  important: true,
  purge: { enabled: true, content: ["./index.html"] },
}`,
			want: Info{Prefix: "tw-", Separator: "_", Important: true, Content: []string{"./index.html"}},
		},
		{
			name: "content files with required plugins",
			src: `const colors = require("tailwindcss/colors");
const defaultTheme = require("tailwindcss/defaultTheme");
module.exports = {
  content: { files: ["./lib/**/*.js"] },
  theme: {
    extend: {
      colors: { primary: colors.sky },
      fontFamily: { sans: ["Inter", ...defaultTheme.fontFamily.sans] },
    },
  },
  plugins: [require("@tailwindcss/forms"), require("./plugin")({ strict: true })],
}`,
			want: Info{Separator: ":", Content: []string{"./lib/**/*.js"}},
		},
		{
			name: "exports shorthand and env",
			src: `exports.important = process.env.TWRN_TEST_UNSET === undefined ? "#app" : false;`,
			want: Info{Separator: ":", Important: true},
		},
	}

	in := NewInspector(zaptest.NewLogger(t), 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := in.Evaluate(context.Background(), "tailwind.config.js", tt.src)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("Evaluate() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	in := NewInspector(nil, 0)

	if _, err := in.Evaluate(context.Background(), "esm.js", `export default { content: [] }`); err == nil {
		t.Error("expected error for ES module syntax")
	}
	if _, err := in.Evaluate(context.Background(), "throw.js", `throw new Error("boom")`); err == nil {
		t.Error("expected error for throwing module")
	}
}

func TestEvaluate_Timeout(t *testing.T) {
	in := NewInspector(nil, 50*time.Millisecond)

	_, err := in.Evaluate(context.Background(), "loop.js", `for (;;) {}`)
	if err == nil {
		t.Fatal("expected interrupt error")
	}
	if !strings.Contains(err.Error(), "interrupted") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	in := NewInspector(nil, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if _, err := in.Evaluate(ctx, "loop.js", `while (true) {}`); err == nil {
		t.Fatal("expected interrupt error")
	}
}

func TestInspect_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tailwind.config.js")
	if err := os.WriteFile(path, []byte(`module.exports = { content: [__dirname + "/src/**/*.js"] }`), 0644); err != nil {
		t.Fatal(err)
	}

	info, err := NewInspector(nil, 0).Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(info.Content) != 1 || info.Content[0] != filepath.Dir(path)+"/src/**/*.js" {
		t.Errorf("unexpected content %v", info.Content)
	}

	if _, err := NewInspector(nil, 0).Inspect(context.Background(), path+".missing"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInfo_Warnings(t *testing.T) {
	if w := (&Info{Content: []string{"a"}}).Warnings(); len(w) != 0 {
		t.Errorf("unexpected warnings %v", w)
	}
	w := (&Info{Prefix: "tw-"}).Warnings()
	if len(w) != 2 {
		t.Fatalf("expected 2 warnings, got %v", w)
	}
	if !strings.Contains(w[0], `"tw-"`) {
		t.Errorf("prefix warning must name prefix, got %q", w[0])
	}
}
