package styles

import (
	"reflect"
	"testing"

	"twrn/css"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		class string
		want  bool
	}{
		{"flex", true},
		{"flex-1", true},
		{"items-center", true},
		{"hidden", true},
		{"block", false},
		{"overflow-auto", false},
		{"absolute", true},
		{"fixed", false},
		{"inset-0", true},
		{"inset-x-0", true},
		{"top-0", true},
		{"top-auto", false},
		{"z-10", true},
		{"z-auto", false},
		{"p-4", true},
		{"px-2", true},
		{"p-px", true},
		{"m-4", true},
		{"-mx-2", true},
		{"m-auto", false},
		{"w-1/2", true},
		{"w-full", true},
		{"w-auto", false},
		{"h-12", true},
		{"h-screen", false},
		{"min-w-0", true},
		{"max-w-xs", true},
		{"min-h-screen", false},
		{"text-xl", true},
		{"text-center", true},
		{"italic", true},
		{"not-italic", true},
		{"font-bold", true},
		{"font-sans", false},
		{"tracking-wide", true},
		{"leading-none", true},
		{"uppercase", true},
		{"bg-blue-500", true},
		{"bg-fixed", false},
		{"border-current", false},
		{"border-2", true},
		{"border-red-500", true},
		{"border", false},
		{"rounded", true},
		{"rounded-lg", true},
		{"opacity-50", true},
		{"pointer-events-none", true},
		{"shadow", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.class); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestLookup_FirstMatchWins(t *testing.T) {
	u, ok := Lookup("flex-row")
	if !ok {
		t.Fatal("expected flex-row to be supported")
	}
	if u.Category != "Flexbox" || u.String() != "/^flex/" {
		t.Errorf("unexpected entry %s (%s)", u, u.Category)
	}

	u, ok = Lookup("hidden")
	if !ok || u.String() != "hidden" {
		t.Errorf("expected exact entry, got %s", u)
	}
}

func TestUtilities_Copy(t *testing.T) {
	list := Utilities()
	if len(list) != len(utilities) {
		t.Fatalf("expected %d entries, got %d", len(utilities), len(list))
	}
	list[0] = exact("Test", "nothing")
	if !Supported("flex") {
		t.Error("modifying returned list must not affect allow-list")
	}
}

func TestUtilityName(t *testing.T) {
	tests := []struct {
		selector string
		want     string
	}{
		{".opacity-50", "opacity-50"},
		{`.w-1\/2`, "w-1/2"},
		{`.w-1\/2\/3`, `w-1/2\/3`},
		{"..double", ".double"},
		{"body", "body"},
	}
	for _, tt := range tests {
		if got := UtilityName(tt.selector); got != tt.want {
			t.Errorf("UtilityName(%q) = %q, want %q", tt.selector, got, tt.want)
		}
	}
}

func TestPartition(t *testing.T) {
	rules := []css.Rule{
		{Selectors: []css.Selector{{Raw: ".flex"}, {Raw: ".block"}}},
		{Selectors: []css.Selector{{Raw: ".flex"}}},
		{Selectors: []css.Selector{{Raw: `.w-1\/2`}}},
		{Selectors: []css.Selector{{Raw: "*"}, {Raw: "::before"}, {Raw: "flex"}}},
	}
	supported, dropped := Partition(rules)
	if !reflect.DeepEqual(supported, []string{"flex", "w-1/2"}) {
		t.Errorf("unexpected supported %v", supported)
	}
	if !reflect.DeepEqual(dropped, []string{"block"}) {
		t.Errorf("unexpected dropped %v", dropped)
	}
}
