package parking

import (
	"testing"
	"time"
)

func TestNewVehicle(t *testing.T) {
	entry := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	vehicle := NewVehicle("ABC123", Medium, 2, entry)

	if vehicle.Plate != "ABC123" {
		t.Errorf("Expected plate ABC123, got %s", vehicle.Plate)
	}

	if vehicle.Size != Medium {
		t.Errorf("Expected size medium, got %s", vehicle.Size)
	}

	if vehicle.EntryPoint != 2 {
		t.Errorf("Expected entry point 2, got %d", vehicle.EntryPoint)
	}

	if !vehicle.EntryTime.Equal(entry) {
		t.Errorf("Expected entry time %s, got %s", entry, vehicle.EntryTime)
	}

	if !vehicle.ExitTime.IsZero() || vehicle.Continuous {
		t.Error("Expected a fresh session with no exit and no continuity")
	}
}

func TestEntryPointLabel(t *testing.T) {
	tests := map[int]string{
		0:  "A",
		1:  "B",
		2:  "C",
		25: "Z",
		26: "#26",
		-1: "#-1",
	}

	for index, want := range tests {
		if got := EntryPointLabel(index); got != want {
			t.Errorf("EntryPointLabel(%d): expected %s, got %s", index, want, got)
		}
	}
}
