package parking

import (
	"strconv"
	"time"
)

// Vehicle is a parking session for one plate. The same struct is archived as
// the plate's history record once the session ends.
type Vehicle struct {
	Plate        string
	Size         Size
	EntryPoint   int
	EntryTime    time.Time
	ExitTime     time.Time
	LastExitTime time.Time
	SlotID       string
	Continuous   bool
}

func NewVehicle(plate string, size Size, entryPoint int, entryTime time.Time) *Vehicle {
	return &Vehicle{
		Plate:      plate,
		Size:       size,
		EntryPoint: entryPoint,
		EntryTime:  entryTime,
	}
}

// EntryPointLabel renders an entry point index as a letter: 0 is A, 1 is B, and so on.
func EntryPointLabel(index int) string {
	if index < 0 || index >= 26 {
		return "#" + strconv.Itoa(index)
	}
	return string(rune('A' + index))
}
