package parking

import "fmt"

// ConfigurationError is returned when a lot cannot be built from its input.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid parking lot configuration: " + e.Reason
}

type AlreadyParkedError struct {
	Plate string
}

func (e *AlreadyParkedError) Error() string {
	return fmt.Sprintf("%s vehicle is already parked", e.Plate)
}

type NotParkedError struct {
	Plate string
}

func (e *NotParkedError) Error() string {
	return fmt.Sprintf("%s vehicle not found or not parked", e.Plate)
}

type NoSlotAvailableError struct {
	Size Size
}

func (e *NoSlotAvailableError) Error() string {
	return fmt.Sprintf("no available parking slots for this vehicle size (%s)", e.Size.DisplayName())
}

type InvalidEntryPointError struct {
	EntryPoint      int
	EntryPointCount int
}

func (e *InvalidEntryPointError) Error() string {
	return fmt.Sprintf("entry point %d out of range, lot has %d entry points", e.EntryPoint, e.EntryPointCount)
}
