package domain

import "testing"

func TestStyleCatalogHasSixPresets(t *testing.T) {
	presets := StylePresets()
	if len(presets) != 6 {
		t.Fatalf("catalog size = %d, want 6", len(presets))
	}
	seen := make(map[string]struct{})
	for _, p := range presets {
		if p.ID == "" || p.Label == "" || p.Fragment == "" {
			t.Fatalf("incomplete preset %+v", p)
		}
		if _, dup := seen[p.ID]; dup {
			t.Fatalf("duplicate preset id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
}

func TestStyleByID(t *testing.T) {
	if _, ok := StyleByID("professional"); !ok {
		t.Fatal("professional preset missing")
	}
	if _, ok := StyleByID("does-not-exist"); ok {
		t.Fatal("unknown id resolved to a preset")
	}
}

func TestStylePresetsReturnsCopy(t *testing.T) {
	presets := StylePresets()
	presets[0].Label = "mutated"
	if fresh := StylePresets(); fresh[0].Label == "mutated" {
		t.Fatal("catalog was mutated through the returned slice")
	}
}
