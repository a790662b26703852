package parking

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	DefaultContinuousThreshold = time.Hour

	timeLayout = "2006-01-02 15:04:05"
)

// ParkingLot is the allocation and fee engine. Park and Unpark are serialized
// by an exclusive lock; read-only queries share a read lock and always observe
// a fully applied state.
type ParkingLot struct {
	mu       sync.RWMutex
	registry *Registry
	parked   map[string]*Vehicle
	history  map[string]*Vehicle

	rates               Rates
	continuousThreshold time.Duration
	now                 func() time.Time
}

type Option func(*ParkingLot)

func WithRates(rates Rates) Option {
	return func(pl *ParkingLot) {
		pl.rates = rates.clone()
	}
}

// WithContinuousThreshold sets how soon after an exit a re-entry is merged
// into the previous session.
func WithContinuousThreshold(threshold time.Duration) Option {
	return func(pl *ParkingLot) {
		pl.continuousThreshold = threshold
	}
}

func WithClock(now func() time.Time) Option {
	return func(pl *ParkingLot) {
		pl.now = now
	}
}

type ParkResult struct {
	SlotID     string
	EntryTime  time.Time
	Continuous bool
	Message    string
}

type UnparkResult struct {
	Vehicle Vehicle
	Fee     Fee
	Message string
}

func NewParkingLot(entryPoints int, distances [][]float64, sizes []Size, opts ...Option) (*ParkingLot, error) {
	registry, err := NewRegistry(entryPoints, distances, sizes)
	if err != nil {
		return nil, err
	}

	pl := &ParkingLot{
		registry:            registry,
		parked:              make(map[string]*Vehicle),
		history:             make(map[string]*Vehicle),
		rates:               DefaultRates(),
		continuousThreshold: DefaultContinuousThreshold,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(pl)
	}

	return pl, nil
}

func NewParkingLotFromLayout(layout Layout, opts ...Option) (*ParkingLot, error) {
	distances, sizes := layout.columns()
	return NewParkingLot(layout.EntryPoints, distances, sizes, opts...)
}

// Park assigns the closest compatible free slot to plate. A zero entryTime
// means now. A plate re-entering within the continuous threshold of its last
// exit keeps the entry time of its previous session.
func (pl *ParkingLot) Park(plate string, size Size, entryPoint int, entryTime time.Time) (ParkResult, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if _, ok := pl.parked[plate]; ok {
		return ParkResult{}, &AlreadyParkedError{Plate: plate}
	}
	if entryPoint < 0 || entryPoint >= pl.registry.EntryPointCount() {
		return ParkResult{}, &InvalidEntryPointError{EntryPoint: entryPoint, EntryPointCount: pl.registry.EntryPointCount()}
	}

	slot := pl.registry.closest(size, entryPoint)
	if slot == nil {
		return ParkResult{}, &NoSlotAvailableError{Size: size}
	}

	if entryTime.IsZero() {
		entryTime = pl.now()
	}

	vehicle := NewVehicle(plate, size, entryPoint, entryTime)
	vehicle.SlotID = slot.ID

	if previous, ok := pl.history[plate]; ok && !previous.LastExitTime.IsZero() {
		if entryTime.Sub(previous.LastExitTime) <= pl.continuousThreshold {
			vehicle.EntryTime = previous.EntryTime
			vehicle.Continuous = true
		}
	}

	if err := pl.registry.occupy(slot.ID, vehicle); err != nil {
		return ParkResult{}, err
	}
	pl.parked[plate] = vehicle

	message := fmt.Sprintf("%s parked successfully in slot %s via entry %s.", plate, slot.ID, EntryPointLabel(entryPoint))
	if vehicle.Continuous {
		message += fmt.Sprintf(" (Continuous parking applied. Original entry time at %s)", vehicle.EntryTime.Format(timeLayout))
	}

	return ParkResult{
		SlotID:     slot.ID,
		EntryTime:  vehicle.EntryTime,
		Continuous: vehicle.Continuous,
		Message:    message,
	}, nil
}

// Unpark ends the session of plate, frees its slot and archives the session
// as the plate's history record. A zero exitTime means now.
func (pl *ParkingLot) Unpark(plate string, exitTime time.Time) (UnparkResult, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	vehicle, ok := pl.parked[plate]
	if !ok {
		return UnparkResult{}, &NotParkedError{Plate: plate}
	}

	slot, ok := pl.registry.Slot(vehicle.SlotID)
	if !ok {
		return UnparkResult{}, fmt.Errorf("slot %s of %s not found", vehicle.SlotID, plate)
	}

	if exitTime.IsZero() {
		exitTime = pl.now()
	}

	fee := pl.rates.Calculate(vehicle.EntryTime, exitTime, slot.Size, vehicle.Continuous)

	if _, err := pl.registry.release(vehicle.SlotID); err != nil {
		return UnparkResult{}, err
	}

	vehicle.ExitTime = exitTime
	vehicle.LastExitTime = exitTime
	pl.history[plate] = vehicle
	delete(pl.parked, plate)

	message := fmt.Sprintf("%s exited at %s. Total hours: %dhrs, Excess hours: %dhrs. %s. Total: %s",
		plate, exitTime.Format(timeLayout), fee.TotalHours, fee.ExcessHours, fee.Breakdown, pl.rates.Format(fee.TotalFee))

	return UnparkResult{
		Vehicle: *vehicle,
		Fee:     fee,
		Message: message,
	}, nil
}

func (pl *ParkingLot) Status() Status {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	return pl.registry.Status()
}

// CurrentlyParked returns the active sessions ordered by entry time, then plate.
func (pl *ParkingLot) CurrentlyParked() []Vehicle {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	vehicles := make([]Vehicle, 0, len(pl.parked))
	for _, v := range pl.parked {
		vehicles = append(vehicles, *v)
	}

	sort.Slice(vehicles, func(i, j int) bool {
		if !vehicles[i].EntryTime.Equal(vehicles[j].EntryTime) {
			return vehicles[i].EntryTime.Before(vehicles[j].EntryTime)
		}
		return vehicles[i].Plate < vehicles[j].Plate
	})

	return vehicles
}

func (pl *ParkingLot) IsParked(plate string) bool {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	_, ok := pl.parked[plate]
	return ok
}

// Vehicle returns the active session of plate.
func (pl *ParkingLot) Vehicle(plate string) (Vehicle, bool) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	v, ok := pl.parked[plate]
	if !ok {
		return Vehicle{}, false
	}
	return *v, true
}

// LastSession returns the most recent completed session of plate.
func (pl *ParkingLot) LastSession(plate string) (Vehicle, bool) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	v, ok := pl.history[plate]
	if !ok {
		return Vehicle{}, false
	}
	return *v, true
}

func (pl *ParkingLot) AvailableSlotsForSize(size Size) int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	return pl.registry.AvailableSlotsForSize(size)
}

func (pl *ParkingLot) Slots() []Slot {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	return pl.registry.Slots()
}

// Snapshot returns the status and the slot list under a single read lock, so
// the totals always agree with the per-slot occupancy.
func (pl *ParkingLot) Snapshot() (Status, []Slot) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	return pl.registry.Status(), pl.registry.Slots()
}

func (pl *ParkingLot) EntryPointCount() int {
	return pl.registry.EntryPointCount()
}

func (pl *ParkingLot) Capacity() int {
	return pl.registry.Len()
}

func (pl *ParkingLot) Rates() Rates {
	return pl.rates.clone()
}

func (pl *ParkingLot) ContinuousThreshold() time.Duration {
	return pl.continuousThreshold
}
