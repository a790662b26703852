package parking

import "fmt"

const MinEntryPoints = 3

// Registry owns the fixed set of slots of a lot. It is not safe for concurrent
// use on its own; ParkingLot serializes access to it.
type Registry struct {
	entryPoints int
	slots       []*Slot
	byID        map[string]*Slot
}

// Status is a point-in-time view of occupancy, computed from the slots on every call.
type Status struct {
	TotalSlots     int
	OccupiedSlots  int
	AvailableSlots int
	SlotsBySize    map[Size]int
}

func NewRegistry(entryPoints int, distances [][]float64, sizes []Size) (*Registry, error) {
	if entryPoints < MinEntryPoints {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("minimum %d entry points required, got %d", MinEntryPoints, entryPoints)}
	}
	if len(distances) != len(sizes) {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("slot distances and sizes must have the same length (%d != %d)", len(distances), len(sizes))}
	}

	counters := make(map[Size]int, len(Sizes))
	slots := make([]*Slot, len(sizes))
	byID := make(map[string]*Slot, len(sizes))

	for i, size := range sizes {
		if !size.Valid() {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("slot %d has unknown size %d", i, int(size))}
		}
		if len(distances[i]) != entryPoints {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("slot %d has %d distances, expected %d", i, len(distances[i]), entryPoints)}
		}
		for _, d := range distances[i] {
			if d < 0 {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("slot %d has a negative distance", i)}
			}
		}

		counters[size]++
		id := fmt.Sprintf("%s%d", size.idPrefix(), counters[size])
		slots[i] = NewSlot(id, size, distances[i])
		byID[id] = slots[i]
	}

	return &Registry{
		entryPoints: entryPoints,
		slots:       slots,
		byID:        byID,
	}, nil
}

func (r *Registry) EntryPointCount() int {
	return r.entryPoints
}

func (r *Registry) Len() int {
	return len(r.slots)
}

func (r *Registry) AvailableSlotsForSize(vehicleSize Size) int {
	count := 0
	for _, slot := range r.slots {
		if !slot.Occupied && CanPark(vehicleSize, slot.Size) {
			count++
		}
	}
	return count
}

// ClosestAvailableSlot scans slots in construction order and keeps the first
// compatible free slot with the strictly smallest distance from entryPoint.
func (r *Registry) ClosestAvailableSlot(vehicleSize Size, entryPoint int) (Slot, bool) {
	closest := r.closest(vehicleSize, entryPoint)
	if closest == nil {
		return Slot{}, false
	}
	return closest.snapshot(), true
}

func (r *Registry) closest(vehicleSize Size, entryPoint int) *Slot {
	if entryPoint < 0 || entryPoint >= r.entryPoints {
		return nil
	}

	var closest *Slot
	for _, slot := range r.slots {
		if slot.Occupied || !CanPark(vehicleSize, slot.Size) {
			continue
		}
		if closest == nil || slot.Distances[entryPoint] < closest.Distances[entryPoint] {
			closest = slot
		}
	}
	return closest
}

func (r *Registry) Slot(id string) (Slot, bool) {
	slot, ok := r.byID[id]
	if !ok {
		return Slot{}, false
	}
	return slot.snapshot(), true
}

// Slots returns copies of every slot in construction order.
func (r *Registry) Slots() []Slot {
	out := make([]Slot, len(r.slots))
	for i, slot := range r.slots {
		out[i] = slot.snapshot()
	}
	return out
}

func (r *Registry) Status() Status {
	status := Status{
		TotalSlots:  len(r.slots),
		SlotsBySize: make(map[Size]int, len(Sizes)),
	}
	for _, size := range Sizes {
		status.SlotsBySize[size] = 0
	}
	for _, slot := range r.slots {
		if slot.Occupied {
			status.OccupiedSlots++
		}
		status.SlotsBySize[slot.Size]++
	}
	status.AvailableSlots = status.TotalSlots - status.OccupiedSlots
	return status
}

func (r *Registry) occupy(id string, vehicle *Vehicle) error {
	slot, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("unknown slot %s", id)
	}
	if slot.Occupied {
		return fmt.Errorf("slot %s is already occupied", id)
	}
	slot.park(vehicle)
	return nil
}

func (r *Registry) release(id string) (*Vehicle, error) {
	slot, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown slot %s", id)
	}
	if !slot.Occupied {
		return nil, fmt.Errorf("slot %s is already empty", id)
	}
	return slot.leave(), nil
}
