package parking

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type InstrumentedShell struct {
	service   *Service
	scanner   *bufio.Scanner
	out       io.Writer
	telemetry *TelemetryProvider
}

func NewInstrumentedShell(service *Service, telemetry *TelemetryProvider, in io.Reader, out io.Writer) *InstrumentedShell {
	return &InstrumentedShell{
		service:   service,
		scanner:   bufio.NewScanner(in),
		out:       out,
		telemetry: telemetry,
	}
}

func (s *InstrumentedShell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for {
		if ctx.Err() != nil || !s.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		// Create a new span for each command
		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		s.processCommand(cmdCtx, input)
		cmdSpan.End()
	}

	span.AddEvent("shell_ended")
}

func (s *InstrumentedShell) processCommand(ctx context.Context, input string) {
	span := trace.SpanFromContext(ctx)

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := parts[0]
	span.SetAttributes(attribute.String("command.name", command))

	switch command {
	case "create_parking_lot":
		s.handleCreateParkingLot(ctx, parts)
	case "park":
		s.handlePark(ctx, parts)
	case "unpark", "leave":
		s.handleUnpark(ctx, parts)
	case "status":
		s.handleStatus(ctx)
	case "vehicles":
		s.handleVehicles(ctx)
	case "available":
		s.handleAvailable(ctx, parts)
	case "is_parked":
		s.handleIsParked(ctx, parts)
	case "rates":
		s.handleRates()
	case "log":
		s.handleLog()
	default:
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", command),
		))
		s.printf("Unknown command: %s\n", command)
	}
}

func (s *InstrumentedShell) handleCreateParkingLot(ctx context.Context, parts []string) {
	_, span := s.telemetry.Tracer().Start(ctx, "shell.create_parking_lot")
	defer span.End()

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		s.printf("Usage: create_parking_lot <layout.yaml|default>\n")
		return
	}

	layout := DefaultLayout()
	if parts[1] != "default" {
		var err error
		layout, err = LoadLayout(parts[1])
		if err != nil {
			span.RecordError(err)
			s.printf("Error: %s\n", err.Error())
			return
		}
	}

	lot, err := s.service.Reconfigure(ctx, layout)
	if err != nil {
		span.RecordError(err)
		s.printf("Error: %s\n", err.Error())
		return
	}

	span.SetAttributes(attribute.Int("parking_lot.capacity", lot.Capacity()))
	span.AddEvent("parking_lot_created")
	s.printf("Created a parking lot with %d slots and %d entry points\n", lot.Capacity(), lot.EntryPointCount())
}

func (s *InstrumentedShell) handlePark(ctx context.Context, parts []string) {
	_, span := s.telemetry.Tracer().Start(ctx, "shell.park_command")
	defer span.End()

	if len(parts) != 4 && len(parts) != 5 {
		span.AddEvent("invalid_arguments")
		s.printf("Usage: park <plate> <S|M|L> <entry_point> [RFC3339 entry time]\n")
		return
	}

	plate := parts[1]
	size, err := ParseSize(parts[2])
	if err != nil {
		span.RecordError(err)
		s.printf("Invalid size: %s\n", parts[2])
		return
	}

	entryPoint, err := parseEntryPoint(parts[3])
	if err != nil {
		span.RecordError(err)
		s.printf("Invalid entry point: %s\n", parts[3])
		return
	}

	var entryTime time.Time
	if len(parts) == 5 {
		entryTime, err = time.Parse(time.RFC3339, parts[4])
		if err != nil {
			span.RecordError(err)
			s.printf("Invalid entry time: %s\n", parts[4])
			return
		}
	}

	span.SetAttributes(
		attribute.String("vehicle.plate", plate),
		attribute.String("vehicle.size", size.String()),
		attribute.Int("entry_point", entryPoint),
	)

	result, err := s.service.Lot().Park(ctx, plate, size, entryPoint, entryTime)
	if err != nil {
		span.AddEvent("parking_failed")
		s.printf("Error: %s\n", err.Error())
		return
	}

	span.AddEvent("parking_successful", trace.WithAttributes(
		attribute.String("allocated_slot", result.SlotID),
	))
	s.printf("%s\n", result.Message)
}

func (s *InstrumentedShell) handleUnpark(ctx context.Context, parts []string) {
	_, span := s.telemetry.Tracer().Start(ctx, "shell.unpark_command")
	defer span.End()

	if len(parts) != 2 && len(parts) != 3 {
		span.AddEvent("invalid_arguments")
		s.printf("Usage: unpark <plate> [RFC3339 exit time]\n")
		return
	}

	plate := parts[1]
	var exitTime time.Time
	if len(parts) == 3 {
		var err error
		exitTime, err = time.Parse(time.RFC3339, parts[2])
		if err != nil {
			span.RecordError(err)
			s.printf("Invalid exit time: %s\n", parts[2])
			return
		}
	}

	span.SetAttributes(attribute.String("vehicle.plate", plate))

	result, err := s.service.Lot().Unpark(ctx, plate, exitTime)
	if err != nil {
		span.AddEvent("unpark_failed")
		s.printf("Error: %s\n", err.Error())
		return
	}

	span.AddEvent("unpark_successful")
	s.printf("%s\n", result.Message)
}

func (s *InstrumentedShell) handleStatus(ctx context.Context) {
	_, span := s.telemetry.Tracer().Start(ctx, "shell.status_command")
	defer span.End()

	lot := s.service.Lot()
	status := lot.Status(ctx)

	s.printf("Entry points: %d\n", lot.EntryPointCount())
	s.printf("Total: %d\tOccupied: %d\tAvailable: %d\n", status.TotalSlots, status.OccupiedSlots, status.AvailableSlots)
	for _, size := range Sizes {
		s.printf("%s slots: %d\n", size.DisplayName(), status.SlotsBySize[size])
	}
	span.AddEvent("status_retrieved")
}

func (s *InstrumentedShell) handleVehicles(ctx context.Context) {
	_, span := s.telemetry.Tracer().Start(ctx, "shell.vehicles_command")
	defer span.End()

	vehicles := s.service.Lot().CurrentlyParked(ctx)
	if len(vehicles) == 0 {
		span.AddEvent("parking_lot_empty")
		s.printf("Parking lot is empty\n")
		return
	}

	span.SetAttributes(attribute.Int("parked_vehicles_count", len(vehicles)))

	s.printf("Plate\tSize\tSlot\tEntry\tSince\n")
	for _, v := range vehicles {
		s.printf("%s\t%s\t%s\t%s\t%s\n", v.Plate, v.Size.DisplayName(), v.SlotID, EntryPointLabel(v.EntryPoint), v.EntryTime.Format(timeLayout))
	}
}

func (s *InstrumentedShell) handleAvailable(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		s.printf("Usage: available <S|M|L>\n")
		return
	}
	size, err := ParseSize(parts[1])
	if err != nil {
		s.printf("Invalid size: %s\n", parts[1])
		return
	}
	s.printf("%d\n", s.service.Lot().AvailableSlotsForSize(ctx, size))
}

func (s *InstrumentedShell) handleIsParked(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		s.printf("Usage: is_parked <plate>\n")
		return
	}
	if v, ok := s.service.Lot().Vehicle(ctx, parts[1]); ok {
		s.printf("Parked in slot %s\n", v.SlotID)
		return
	}
	s.printf("Not parked\n")
}

func (s *InstrumentedShell) handleRates() {
	rates := s.service.Lot().Rates()
	s.printf("First %d hours: %s\n", rates.FlatWindowHours, rates.Format(rates.FlatRate))
	for _, size := range Sizes {
		s.printf("%s slots: %s/hour\n", size.DisplayName(), rates.Format(rates.HourlyRates[size]))
	}
	s.printf("Per 24-hour period: %s\n", rates.Format(rates.DailyRate))
	s.printf("Continuous parking window: %s\n", s.service.Lot().ContinuousThreshold())
}

func (s *InstrumentedShell) handleLog() {
	events := s.service.Activity().Recent()
	if len(events) == 0 {
		s.printf("No activity yet\n")
		return
	}
	for _, e := range events {
		s.printf("%s: %s\n", e.Time.Format(time.TimeOnly), e.Message)
	}
}

func (s *InstrumentedShell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// parseEntryPoint accepts either a zero-based index or an entry letter.
func parseEntryPoint(value string) (int, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	if len(value) == 1 {
		c := strings.ToUpper(value)[0]
		if c >= 'A' && c <= 'Z' {
			return int(c - 'A'), nil
		}
	}
	return 0, errors.New("entry point must be an index or a letter")
}
