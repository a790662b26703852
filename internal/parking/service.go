package parking

import (
	"context"
	"sync"

	"smart-parking/internal/logging"
)

// Service owns the lot currently in operation and replaces it when a new
// layout is applied. The shell and the HTTP server share one Service.
type Service struct {
	mu        sync.RWMutex
	lot       *InstrumentedParkingLot
	telemetry *TelemetryProvider
	activity  *ActivityLog
	opts      []Option
	listeners []func(Event)
}

func NewService(layout Layout, telemetry *TelemetryProvider, activity *ActivityLog, opts ...Option) (*Service, error) {
	if activity == nil {
		activity = NewActivityLog(DefaultActivityLogSize)
	}
	s := &Service{
		telemetry: telemetry,
		activity:  activity,
		opts:      opts,
	}

	lot, err := s.build(layout)
	if err != nil {
		return nil, err
	}
	s.lot = lot
	return s, nil
}

func (s *Service) build(layout Layout) (*InstrumentedParkingLot, error) {
	base, err := NewParkingLotFromLayout(layout, s.opts...)
	if err != nil {
		return nil, err
	}
	lot, err := NewInstrumentedParkingLot(base, s.telemetry, s.activity)
	if err != nil {
		return nil, err
	}
	lot.OnEvent(s.dispatch)
	return lot, nil
}

func (s *Service) Lot() *InstrumentedParkingLot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lot
}

func (s *Service) Activity() *ActivityLog {
	return s.activity
}

// Subscribe registers fn for every event of the current and future lots.
// Events published before fn is registered are not replayed.
func (s *Service) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reconfigure replaces the lot with an empty one built from layout. The
// current lot stays in place when the layout is rejected.
func (s *Service) Reconfigure(ctx context.Context, layout Layout) (*InstrumentedParkingLot, error) {
	lot, err := s.build(layout)
	if err != nil {
		logging.Warn(ctx, "layout rejected", "error", err)
		return nil, err
	}

	s.mu.Lock()
	previous := s.lot
	s.lot = lot
	s.mu.Unlock()

	if previous != nil {
		previous.retire(ctx)
	}

	logging.Info(ctx, "parking lot reconfigured", "entry_points", layout.EntryPoints, "slots", len(layout.Slots))
	lot.publish(Event{Type: EventReconfigured, Message: "Parking lot reconfigured"})
	return lot, nil
}

func (s *Service) dispatch(event Event) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(event)
	}
}
