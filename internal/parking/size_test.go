package parking

import "testing"

func TestCanPark(t *testing.T) {
	tests := []struct {
		vehicle Size
		slot    Size
		want    bool
	}{
		{Small, Small, true},
		{Small, Medium, true},
		{Small, Large, true},
		{Medium, Small, false},
		{Medium, Medium, true},
		{Medium, Large, true},
		{Large, Small, false},
		{Large, Medium, false},
		{Large, Large, true},
	}

	for _, tt := range tests {
		if got := CanPark(tt.vehicle, tt.slot); got != tt.want {
			t.Errorf("CanPark(%s, %s): expected %v, got %v", tt.vehicle, tt.slot, tt.want, got)
		}
	}
}

func TestCanParkInvalidSize(t *testing.T) {
	if CanPark(Size(7), Large) {
		t.Error("Expected unknown vehicle size to fit nothing")
	}
	if CanPark(Small, Size(-1)) {
		t.Error("Expected unknown slot size to accept nothing")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]Size{
		"S":      Small,
		"s":      Small,
		"small":  Small,
		"M":      Medium,
		"Medium": Medium,
		"l":      Large,
		" LARGE": Large,
	}

	for input, want := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Errorf("ParseSize(%q): unexpected error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseSize(%q): expected %s, got %s", input, want, got)
		}
	}

	if _, err := ParseSize("XL"); err == nil {
		t.Error("Expected error for unknown size")
	}
}

func TestSizeText(t *testing.T) {
	text, err := Medium.MarshalText()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(text) != "medium" {
		t.Errorf("Expected medium, got %s", text)
	}

	var s Size
	if err := s.UnmarshalText([]byte("L")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s != Large {
		t.Errorf("Expected Large, got %s", s)
	}

	if Small.DisplayName() != "Small" {
		t.Errorf("Expected display name Small, got %s", Small.DisplayName())
	}
}
