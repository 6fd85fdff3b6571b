package styles

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"twrn/css"
	"twrn/native"
)

func mapCSS(t *testing.T, input string) *Mapping {
	t.Helper()
	log := zaptest.NewLogger(t)
	sheet, err := css.NewParser(log).Parse([]byte(input), "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	m, err := NewMapper(log, nil, 0).Map(sheet.Rules())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	return m
}

func styleJSON(t *testing.T, m *Mapping, class string) string {
	t.Helper()
	s, ok := m.Get(class)
	if !ok {
		t.Fatalf("class %q missing, have %v", class, m.Classes())
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return string(data)
}

func TestMap_Opacity(t *testing.T) {
	m := mapCSS(t, `.opacity-50 { opacity: 0.5 }`)
	if got := styleJSON(t, m, "opacity-50"); got != `{"opacity":0.5}` {
		t.Errorf("unexpected style %s", got)
	}
}

func TestMap_RemPadding(t *testing.T) {
	m := mapCSS(t, `.p-4 { padding: 1rem }`)
	want := `{"paddingTop":16,"paddingRight":16,"paddingBottom":16,"paddingLeft":16}`
	if got := styleJSON(t, m, "p-4"); got != want {
		t.Errorf("unexpected style %s, want %s", got, want)
	}
}

func TestMap_BorderCurrentExcluded(t *testing.T) {
	m := mapCSS(t, `.border-current { border-color: currentColor }
.border-transparent { border-color: transparent }`)
	if _, ok := m.Get("border-current"); ok {
		t.Error("border-current must be excluded")
	}
	if _, ok := m.Get("border-transparent"); !ok {
		t.Error("border-transparent must be present")
	}
}

func TestMap_EscapedSelector(t *testing.T) {
	m := mapCSS(t, `.w-1\/2 { width: 50% }`)
	if got := styleJSON(t, m, "w-1/2"); got != `{"width":"50%"}` {
		t.Errorf("unexpected style %s", got)
	}
}

func TestMap_UnsupportedDropped(t *testing.T) {
	m := mapCSS(t, `.block { display: block }
.container { width: 100% }
@media (min-width: 640px) { .sm\:p-4 { padding: 1rem } }
.hidden { display: none }`)

	want := []string{"hidden", "underline", "line-through", "no-underline"}
	if got := m.Classes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Classes() = %v, want %v", got, want)
	}
}

func TestMap_NonClassSelectorsSkipped(t *testing.T) {
	m := mapCSS(t, `*, ::before { border-width: 0 }
hidden { display: none }
#hidden, [hidden] { display: none }`)

	want := []string{"underline", "line-through", "no-underline"}
	if got := m.Classes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Classes() = %v, want %v", got, want)
	}
}

func TestMap_ManualEntries(t *testing.T) {
	m := mapCSS(t, ``)
	if m.Len() != 3 {
		t.Fatalf("expected 3 manual entries, got %d", m.Len())
	}
	for class, want := range map[string]string{
		"underline":    `{"textDecorationLine":"underline"}`,
		"line-through": `{"textDecorationLine":"line-through"}`,
		"no-underline": `{"textDecorationLine":"none"}`,
	} {
		if got := styleJSON(t, m, class); got != want {
			t.Errorf("%s = %s, want %s", class, got, want)
		}
	}
}

func TestMap_ManualEntriesOverride(t *testing.T) {
	m := mapCSS(t, `.underline { text-decoration: underline }`)
	if got := styleJSON(t, m, "underline"); got != `{"textDecorationLine":"underline"}` {
		t.Errorf("manual entry must replace converted style, got %s", got)
	}
}

func TestMap_DuplicateKeepsPosition(t *testing.T) {
	m := mapCSS(t, `.opacity-0 { opacity: 0 }
.opacity-50 { opacity: 0.5 }
.opacity-0 { opacity: 0.1 }`)

	classes := m.Classes()
	if classes[0] != "opacity-0" || classes[1] != "opacity-50" {
		t.Errorf("unexpected order %v", classes)
	}
	if got := styleJSON(t, m, "opacity-0"); got != `{"opacity":0.1}` {
		t.Errorf("last rule must win, got %s", got)
	}
}

func TestMap_GroupedSelectors(t *testing.T) {
	m := mapCSS(t, `.mx-2, .block { margin-left: 0.5rem; margin-right: 0.5rem }`)
	if got := styleJSON(t, m, "mx-2"); got != `{"marginLeft":8,"marginRight":8}` {
		t.Errorf("unexpected style %s", got)
	}
	if _, ok := m.Get("block"); ok {
		t.Error("unsupported selector of group must be skipped")
	}
}

func TestMap_DroppedDeclarations(t *testing.T) {
	m := mapCSS(t, `.text-white { --text-opacity: 1; color: #fff; color: rgba(255, 255, 255, var(--text-opacity)) }
.leading-none { line-height: 1 }`)
	if got := styleJSON(t, m, "text-white"); got != `{"color":"#fff"}` {
		t.Errorf("unexpected style %s", got)
	}
	if got := styleJSON(t, m, "leading-none"); got != `{}` {
		t.Errorf("line-height must be dropped, got %s", got)
	}
}

func TestMap_ConversionErrors(t *testing.T) {
	log := zaptest.NewLogger(t)
	sheet, err := css.NewParser(log).Parse([]byte(`.m-1 { margin: foo }
.p-1 { padding: bar }
.opacity-0 { opacity: 0 }`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = NewMapper(log, nil, 0).Map(sheet.Rules())
	if err == nil {
		t.Fatal("expected error")
	}
	var derr *native.DeclarationError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *native.DeclarationError in %v", err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte(`class "p-1"`)) {
		t.Errorf("all failing classes must be reported, got %v", err)
	}
}

func TestMarshal_Format(t *testing.T) {
	m := mapCSS(t, `.opacity-50 { opacity: 0.5 }
.hidden { display: none }`)

	data, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := "{\n" +
		"\t\"opacity-50\": {\n\t\t\"opacity\": 0.5\n\t},\n" +
		"\t\"hidden\": {\n\t\t\"display\": \"none\"\n\t},\n" +
		"\t\"underline\": {\n\t\t\"textDecorationLine\": \"underline\"\n\t},\n" +
		"\t\"line-through\": {\n\t\t\"textDecorationLine\": \"line-through\"\n\t},\n" +
		"\t\"no-underline\": {\n\t\t\"textDecorationLine\": \"none\"\n\t}\n" +
		"}"
	if string(data) != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriteFile_Idempotent(t *testing.T) {
	input := `.flex { display: flex }
.flex-1 { flex: 1 1 0% }
.rounded { border-radius: 0.25rem }
.text-lg { font-size: 1.125rem }
.bg-red-500 { --bg-opacity: 1; background-color: #f56565 }`

	path := filepath.Join(t.TempDir(), "styles.json")

	first, err := WriteFile(path, mapCSS(t, input))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	second, err := WriteFile(path, mapCSS(t, input))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated runs must produce identical output")
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(onDisk, second) {
		t.Error("file content differs from returned data")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files must be cleaned up, found %d entries", len(entries))
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(onDisk, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["rounded"]["borderTopLeftRadius"] != float64(4) {
		t.Errorf("unexpected rounded style %v", decoded["rounded"])
	}
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "styles.json")
	if _, err := WriteFile(path, mapCSS(t, ``)); err == nil {
		t.Error("expected error for missing directory")
	}
}
