package build

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestListClasses(t *testing.T) {
	sheet := []byte(`.p-10 { padding: 2.5rem }
.p-2 { padding: .5rem }
.w-1\/2 { width: 50% }
.grid { display: grid }
.border-current { border-color: currentColor }
.p-2 { padding: 8px }
`)

	tests := []struct {
		name    string
		dropped bool
		want    string
	}{
		{
			name: "supported in natural order",
			want: "p-2\tPadding\np-10\tPadding\nw-1/2\tWidth\n",
		},
		{
			name:    "dropped",
			dropped: true,
			want:    "border-current\ngrid\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := listClasses(&buf, sheet, "test.css", tt.dropped, zaptest.NewLogger(t)); err != nil {
				t.Fatalf("listClasses() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("listClasses() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestListClasses_Bundled(t *testing.T) {
	var buf bytes.Buffer
	if err := listClasses(&buf, DefaultStylesheet(), "bundled stylesheet", false, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("listClasses() error = %v", err)
	}
	out := buf.String()
	for _, line := range []string{"opacity-50\tOpacity\n", "z-10\tZ index\n", "rounded-lg\tBorder\n"} {
		if !strings.Contains(out, line) {
			t.Errorf("missing %q", line)
		}
	}
	if strings.Contains(out, "border-current") {
		t.Error("border-current is not supported")
	}
}

func TestListClasses_BadStylesheet(t *testing.T) {
	var buf bytes.Buffer
	if err := listClasses(&buf, []byte(".p-4 { padding }"), "broken.css", false, zaptest.NewLogger(t)); err == nil {
		t.Error("expected parse error")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing must be printed, got %q", buf.String())
	}
}
