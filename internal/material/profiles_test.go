package material_test

import (
	"testing"

	"spooltag/internal/material"
)

func TestLookupKnownMaterial(t *testing.T) {
	p, ok := material.Lookup("ABS")
	if !ok {
		t.Fatal("expected ABS profile")
	}
	if p.MinTemp != 230 || p.MaxTemp != 260 {
		t.Fatalf("unexpected ABS temps: %+v", p)
	}
	if p.BedMinTemp != 90 || p.BedMaxTemp != 110 || p.Density != 1.04 {
		t.Fatalf("unexpected ABS bed/density: %+v", p)
	}
}

func TestLookupFoldsCase(t *testing.T) {
	p, ok := material.Lookup(" petg ")
	if !ok || p.Name != "PETG" {
		t.Fatalf("expected PETG for lower-case lookup, got %+v ok=%v", p, ok)
	}
}

func TestLookupUnknownMaterial(t *testing.T) {
	if _, ok := material.Lookup("WOOD"); ok {
		t.Fatal("did not expect defaults for unknown material")
	}
}

func TestPlaceholdersFor(t *testing.T) {
	ph, ok := material.PlaceholdersFor("PLA")
	if !ok {
		t.Fatal("expected placeholders for PLA")
	}
	want := material.Placeholders{
		Density:    "Auto (1.24)",
		MinTemp:    "Auto (190)",
		MaxTemp:    "Auto (220)",
		BedMinTemp: "Auto (50)",
		BedMaxTemp: "Auto (70)",
	}
	if ph != want {
		t.Fatalf("placeholders mismatch: got %+v want %+v", ph, want)
	}
	if _, ok := material.PlaceholdersFor("UNKNOWN"); ok {
		t.Fatal("did not expect placeholders for unknown material")
	}
}

func TestAllIsSorted(t *testing.T) {
	all := material.All()
	if len(all) != 8 {
		t.Fatalf("expected 8 profiles, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Fatalf("profiles not sorted: %s before %s", all[i-1].Name, all[i].Name)
		}
	}
}
