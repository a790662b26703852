package parking

import (
	"fmt"
	"strings"
)

// Size is the size class shared by vehicles and slots. Classes are ordered by
// capability: a slot can take any vehicle whose size is not larger than its own.
type Size int

const (
	Small Size = iota
	Medium
	Large
)

var Sizes = []Size{Small, Medium, Large}

func (s Size) Valid() bool {
	return s >= Small && s <= Large
}

func (s Size) String() string {
	switch s {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	default:
		return "unknown"
	}
}

func (s Size) DisplayName() string {
	switch s {
	case Small:
		return "Small"
	case Medium:
		return "Medium"
	case Large:
		return "Large"
	default:
		return "Unknown"
	}
}

func (s Size) idPrefix() string {
	switch s {
	case Small:
		return "SP"
	case Medium:
		return "MP"
	default:
		return "LP"
	}
}

func (s Size) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid size %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Size) UnmarshalText(text []byte) error {
	parsed, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSize accepts the single-letter codes (S, M, L) as well as the full names.
func ParseSize(value string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "s", "small":
		return Small, nil
	case "m", "medium":
		return Medium, nil
	case "l", "large":
		return Large, nil
	default:
		return 0, fmt.Errorf("unknown size %q", value)
	}
}

// CanPark reports whether a vehicle of the given size fits a slot of the given size.
func CanPark(vehicle, slot Size) bool {
	if !vehicle.Valid() || !slot.Valid() {
		return false
	}
	return slot >= vehicle
}
