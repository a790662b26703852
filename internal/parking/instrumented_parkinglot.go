package parking

import (
	"context"
	"errors"
	"time"

	"smart-parking/internal/logging"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type InstrumentedParkingLot struct {
	*ParkingLot
	telemetry *TelemetryProvider
	activity  *ActivityLog
	notify    func(Event)

	// Metrics
	parkingOperations   metric.Int64Counter
	unparkingOperations metric.Int64Counter
	continuousSessions  metric.Int64Counter
	feesCollected       metric.Int64Counter
	occupancyGauge      metric.Int64UpDownCounter
	totalSlotsGauge     metric.Int64UpDownCounter
	operationDuration   metric.Float64Histogram
}

func NewInstrumentedParkingLot(lot *ParkingLot, telemetry *TelemetryProvider, activity *ActivityLog) (*InstrumentedParkingLot, error) {
	meter := telemetry.Meter()

	parkingOperations, err := meter.Int64Counter("parking_operations_total",
		metric.WithDescription("Total number of parking operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	unparkingOperations, err := meter.Int64Counter("unparking_operations_total",
		metric.WithDescription("Total number of unparking operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	continuousSessions, err := meter.Int64Counter("continuous_sessions_total",
		metric.WithDescription("Sessions merged into the previous visit of the same plate"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	feesCollected, err := meter.Int64Counter("parking_fees_total",
		metric.WithDescription("Sum of fees charged on unpark"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of occupied parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	totalSlotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_slots",
		metric.WithDescription("Total number of parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	if activity == nil {
		activity = NewActivityLog(DefaultActivityLogSize)
	}

	ipl := &InstrumentedParkingLot{
		ParkingLot:          lot,
		telemetry:           telemetry,
		activity:            activity,
		parkingOperations:   parkingOperations,
		unparkingOperations: unparkingOperations,
		continuousSessions:  continuousSessions,
		feesCollected:       feesCollected,
		occupancyGauge:      occupancyGauge,
		totalSlotsGauge:     totalSlotsGauge,
		operationDuration:   operationDuration,
	}

	ctx := context.Background()
	totalSlotsGauge.Add(ctx, int64(lot.Capacity()))
	if occupied := lot.Status().OccupiedSlots; occupied > 0 {
		occupancyGauge.Add(ctx, int64(occupied))
	}

	return ipl, nil
}

// OnEvent registers a callback invoked after every park and unpark attempt.
func (ipl *InstrumentedParkingLot) OnEvent(fn func(Event)) {
	ipl.notify = fn
}

func (ipl *InstrumentedParkingLot) Activity() *ActivityLog {
	return ipl.activity
}

func (ipl *InstrumentedParkingLot) Park(ctx context.Context, plate string, size Size, entryPoint int, entryTime time.Time) (ParkResult, error) {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.park",
		trace.WithAttributes(
			attribute.String("vehicle.plate", plate),
			attribute.String("vehicle.size", size.String()),
			attribute.Int("entry_point", entryPoint),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("finding_closest_slot")

	result, err := ipl.ParkingLot.Park(plate, size, entryPoint, entryTime)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "park"),
		attribute.String("vehicle_size", size.String()),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels,
			attribute.String("status", "failed"),
			attribute.String("reason", errorReason(err)),
		)
		ipl.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
		logging.Warn(ctx, "park rejected", "plate", plate, "size", size.String(), "entry_point", entryPoint, "error", err)
		ipl.publish(Event{Type: EventRejected, Plate: plate, Message: err.Error()})
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(
			attribute.String("allocated_slot", result.SlotID),
			attribute.Bool("continuous", result.Continuous),
		)
		span.AddEvent("slot_allocated", trace.WithAttributes(
			attribute.String("slot_id", result.SlotID),
		))

		ipl.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
		ipl.occupancyGauge.Add(ctx, 1)
		if result.Continuous {
			ipl.continuousSessions.Add(ctx, 1)
		}
		logging.Info(ctx, "vehicle parked", "plate", plate, "slot", result.SlotID, "continuous", result.Continuous)
		ipl.publish(Event{Type: EventParked, Plate: plate, SlotID: result.SlotID, Message: result.Message})
	}

	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return result, err
}

func (ipl *InstrumentedParkingLot) Unpark(ctx context.Context, plate string, exitTime time.Time) (UnparkResult, error) {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.unpark",
		trace.WithAttributes(
			attribute.String("vehicle.plate", plate),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("releasing_slot")

	result, err := ipl.ParkingLot.Unpark(plate, exitTime)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "unpark"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels,
			attribute.String("status", "failed"),
			attribute.String("reason", errorReason(err)),
		)
		logging.Warn(ctx, "unpark rejected", "plate", plate, "error", err)
		ipl.publish(Event{Type: EventRejected, Plate: plate, Message: err.Error()})
	} else {
		labels = append(labels,
			attribute.String("status", "success"),
			attribute.String("vehicle_size", result.Vehicle.Size.String()),
		)
		span.SetAttributes(
			attribute.String("slot_id", result.Vehicle.SlotID),
			attribute.Int("fee.total_hours", result.Fee.TotalHours),
			attribute.Int("fee.total", result.Fee.TotalFee),
		)
		span.AddEvent("slot_released")
		ipl.occupancyGauge.Add(ctx, -1)
		ipl.feesCollected.Add(ctx, int64(result.Fee.TotalFee))
		logging.Info(ctx, "vehicle unparked", "plate", plate, "slot", result.Vehicle.SlotID,
			"total_hours", result.Fee.TotalHours, "total_fee", result.Fee.TotalFee)

		fee := result.Fee
		ipl.publish(Event{Type: EventUnparked, Plate: plate, SlotID: result.Vehicle.SlotID, Message: result.Message, Fee: &fee})
	}

	ipl.unparkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return result, err
}

func (ipl *InstrumentedParkingLot) Status(ctx context.Context) Status {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.status")
	defer span.End()

	start := time.Now()
	status := ipl.ParkingLot.Status()
	ipl.recordStatus(ctx, span, start, status)
	return status
}

// Snapshot is Status plus the slot list, read atomically.
func (ipl *InstrumentedParkingLot) Snapshot(ctx context.Context) (Status, []Slot) {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.status")
	defer span.End()

	start := time.Now()
	status, slots := ipl.ParkingLot.Snapshot()
	ipl.recordStatus(ctx, span, start, status)
	return status, slots
}

func (ipl *InstrumentedParkingLot) recordStatus(ctx context.Context, span trace.Span, start time.Time, status Status) {
	span.SetAttributes(
		attribute.Int("occupied_slots_count", status.OccupiedSlots),
		attribute.Int("total_capacity", status.TotalSlots),
	)

	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "status"),
		attribute.String("status", "success"),
	))
}

func (ipl *InstrumentedParkingLot) CurrentlyParked(ctx context.Context) []Vehicle {
	_, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.currently_parked")
	defer span.End()

	vehicles := ipl.ParkingLot.CurrentlyParked()
	span.SetAttributes(attribute.Int("parked_vehicles_count", len(vehicles)))
	return vehicles
}

func (ipl *InstrumentedParkingLot) Vehicle(ctx context.Context, plate string) (Vehicle, bool) {
	_, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.find_vehicle",
		trace.WithAttributes(attribute.String("vehicle.plate", plate)))
	defer span.End()

	v, ok := ipl.ParkingLot.Vehicle(plate)
	if ok {
		span.AddEvent("vehicle_found", trace.WithAttributes(attribute.String("slot_id", v.SlotID)))
	} else {
		span.AddEvent("vehicle_not_found")
	}
	return v, ok
}

func (ipl *InstrumentedParkingLot) AvailableSlotsForSize(ctx context.Context, size Size) int {
	_, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.available_slots",
		trace.WithAttributes(attribute.String("vehicle.size", size.String())))
	defer span.End()

	count := ipl.ParkingLot.AvailableSlotsForSize(size)
	span.SetAttributes(attribute.Int("available_slots", count))
	return count
}

// retire removes this lot's contribution from the gauges once it is replaced.
func (ipl *InstrumentedParkingLot) retire(ctx context.Context) {
	ipl.totalSlotsGauge.Add(ctx, -int64(ipl.Capacity()))
	ipl.occupancyGauge.Add(ctx, -int64(ipl.ParkingLot.Status().OccupiedSlots))
}

func (ipl *InstrumentedParkingLot) publish(event Event) {
	event.Time = ipl.ParkingLot.now()
	event.Status = ipl.ParkingLot.Status()
	ipl.activity.Add(event)
	if ipl.notify != nil {
		ipl.notify(event)
	}
}

func errorReason(err error) string {
	var (
		alreadyParked *AlreadyParkedError
		notParked     *NotParkedError
		noSlot        *NoSlotAvailableError
		badEntry      *InvalidEntryPointError
	)
	switch {
	case errors.As(err, &alreadyParked):
		return "already_parked"
	case errors.As(err, &notParked):
		return "not_parked"
	case errors.As(err, &noSlot):
		return "no_slot_available"
	case errors.As(err, &badEntry):
		return "invalid_entry_point"
	default:
		return "internal"
	}
}
