package parking

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()

	if layout.EntryPoints != 3 {
		t.Errorf("Expected 3 entry points, got %d", layout.EntryPoints)
	}
	if len(layout.Slots) != 10 {
		t.Errorf("Expected 10 slots, got %d", len(layout.Slots))
	}

	if _, err := NewParkingLotFromLayout(layout); err != nil {
		t.Errorf("Expected the default layout to be valid, got %v", err)
	}
}

func TestParseLayout(t *testing.T) {
	data := []byte(`
entry_points: 4
slots:
  - size: S
    distances: [1, 2, 3, 4]
  - size: large
    distances: [4, 3, 2, 1]
`)

	layout, err := ParseLayout(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if layout.EntryPoints != 4 {
		t.Errorf("Expected 4 entry points, got %d", layout.EntryPoints)
	}
	if len(layout.Slots) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(layout.Slots))
	}
	if layout.Slots[0].Size != Small || layout.Slots[1].Size != Large {
		t.Errorf("Unexpected sizes %s and %s", layout.Slots[0].Size, layout.Slots[1].Size)
	}

	pl, err := NewParkingLotFromLayout(layout)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := pl.Park("FOUR", Small, 3, sampleTime)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.SlotID != "LP1" {
		t.Errorf("Expected LP1 from entry D, got %s", result.SlotID)
	}
}

func TestParseLayoutInvalid(t *testing.T) {
	_, err := ParseLayout([]byte("slots:\n  - size: XL\n"))
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigurationError, got %v", err)
	}
}

func TestParseLayoutMissingSize(t *testing.T) {
	_, err := ParseLayout([]byte("entry_points: 3\nslots:\n  - distances: [1, 2, 3]\n"))
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %v", err)
	}
	if cfgErr.Reason != "slot size is required" {
		t.Errorf("Unexpected reason %q", cfgErr.Reason)
	}
}

func TestLayoutJSONMissingSize(t *testing.T) {
	var layout Layout
	err := json.Unmarshal([]byte(`{"entry_points": 3, "slots": [{"distances": [1, 2, 3]}]}`), &layout)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %v", err)
	}

	if err := json.Unmarshal([]byte(`{"entry_points": 3, "slots": [{"size": "M", "distances": [1, 2, 3]}]}`), &layout); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if layout.Slots[0].Size != Medium {
		t.Errorf("Expected medium, got %s", layout.Slots[0].Size)
	}
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lot.yaml")
	content := "entry_points: 3\nslots:\n  - size: M\n    distances: [1, 2, 3]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write layout: %v", err)
	}

	layout, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(layout.Slots) != 1 || layout.Slots[0].Size != Medium {
		t.Errorf("Unexpected layout %+v", layout)
	}

	if _, err := LoadLayout(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
