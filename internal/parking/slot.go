package parking

type Slot struct {
	ID        string
	Size      Size
	Distances []float64
	Occupied  bool
	Vehicle   *Vehicle
}

func NewSlot(id string, size Size, distances []float64) *Slot {
	d := make([]float64, len(distances))
	copy(d, distances)

	return &Slot{
		ID:        id,
		Size:      size,
		Distances: d,
		Occupied:  false,
		Vehicle:   nil,
	}
}

func (s *Slot) park(vehicle *Vehicle) {
	s.Vehicle = vehicle
	s.Occupied = true
}

func (s *Slot) leave() *Vehicle {
	vehicle := s.Vehicle
	s.Vehicle = nil
	s.Occupied = false
	return vehicle
}

// snapshot returns a deep copy that shares no memory with the registry.
func (s *Slot) snapshot() Slot {
	out := Slot{
		ID:        s.ID,
		Size:      s.Size,
		Distances: make([]float64, len(s.Distances)),
		Occupied:  s.Occupied,
	}
	copy(out.Distances, s.Distances)
	if s.Vehicle != nil {
		v := *s.Vehicle
		out.Vehicle = &v
	}
	return out
}
