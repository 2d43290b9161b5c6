package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range cases {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetThemeFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q", got)
	}
	if got := GetTheme("").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(\"\").Name = %q, want Nightfox", got)
	}
}

func TestThemesColourEveryStatusAndType(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, status := range []string{"waiting", "seated", "done"} {
			if th.StatusColors[status] == "" {
				t.Fatalf("%s: no colour for status %q", name, status)
			}
		}
		for _, typ := range []string{"table", "takeaway"} {
			if th.TypeColors[typ] == "" {
				t.Fatalf("%s: no colour for type %q", name, typ)
			}
		}
	}
}

func TestStatusStyleIsCaseInsensitive(t *testing.T) {
	styles := GetTheme("Nightfox").Styles()
	a := styles.StatusStyle("Waiting").GetBackground()
	b := styles.StatusStyle(" waiting ").GetBackground()
	if a != b {
		t.Fatalf("StatusStyle background differs: %v vs %v", a, b)
	}
	if got := styles.StatusStyle("unknown").GetBackground(); got == a {
		t.Fatalf("unknown status should fall back to the muted colour")
	}
}
