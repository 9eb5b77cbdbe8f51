package theme

import "testing"

// TestLookupKnownThemes verifies every enumerated theme resolves to its
// own palette.
func TestLookupKnownThemes(t *testing.T) {
	for _, name := range Names() {
		p, ok := Lookup(string(name))
		if !ok {
			t.Errorf("Expected %s to be a known theme", name)
		}
		if p.Name != name {
			t.Errorf("Palette for %s carries wrong name %s", name, p.Name)
		}
		if p.Background == "" || p.Text == "" || p.Accent == "" {
			t.Errorf("Palette for %s has empty colors", name)
		}
	}
}

// TestLookupFallback verifies unknown names resolve to the default palette.
func TestLookupFallback(t *testing.T) {
	p, ok := Lookup("neon_zebra_theme")
	if ok {
		t.Errorf("Expected unknown theme to report ok=false")
	}
	if p.Name != Default {
		t.Errorf("Expected fallback to %s, got %s", Default, p.Name)
	}
}
