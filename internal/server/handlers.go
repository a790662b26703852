package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"smart-parking/internal/parking"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service     *parking.Service
	serviceName string
	now         func() time.Time
}

func NewHandler(service *parking.Service, serviceName string) *Handler {
	return &Handler{
		service:     service,
		serviceName: serviceName,
		now:         time.Now,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Meta:    extractMeta(r.Context()),
	})
}

// CreateParkingLot replaces the lot with an empty one built from the posted layout.
func (h *Handler) CreateParkingLot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var layout parking.Layout
	if err := json.NewDecoder(r.Body).Decode(&layout); err != nil {
		var cfgErr *parking.ConfigurationError
		if errors.As(err, &cfgErr) {
			writeParkingError(ctx, w, cfgErr)
			return
		}
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lot, err := h.service.Reconfigure(ctx, layout)
	if err != nil {
		writeParkingError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "Parking lot created successfully", h.statusResponse(ctx, lot))
}

func (h *Handler) ParkVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ParkVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Plate = strings.TrimSpace(req.Plate)
	if req.Plate == "" || req.Size == "" || req.EntryPoint == nil {
		WriteError(ctx, w, http.StatusBadRequest, "Plate, size and entry_point are required")
		return
	}

	size, err := parking.ParseSize(req.Size)
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	entryTime, err := resolveTime(req.EntryDate, req.EntryTime, h.now())
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Entry "+err.Error())
		return
	}

	result, err := h.service.Lot().Park(ctx, req.Plate, size, *req.EntryPoint, entryTime)
	if err != nil {
		writeParkingError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, result.Message, ParkVehicleResponse{
		Plate:      req.Plate,
		SlotID:     result.SlotID,
		EntryPoint: parking.EntryPointLabel(*req.EntryPoint),
		EntryTime:  result.EntryTime,
		Continuous: result.Continuous,
	})
}

func (h *Handler) UnparkVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UnparkVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Plate = strings.TrimSpace(req.Plate)
	if req.Plate == "" {
		WriteError(ctx, w, http.StatusBadRequest, "Plate is required")
		return
	}

	exitTime, err := resolveTime(req.ExitDate, req.ExitTime, h.now())
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Exit "+err.Error())
		return
	}

	result, err := h.service.Lot().Unpark(ctx, req.Plate, exitTime)
	if err != nil {
		writeParkingError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, result.Message, UnparkVehicleResponse{
		Plate:     result.Vehicle.Plate,
		SlotID:    result.Vehicle.SlotID,
		EntryTime: result.Vehicle.EntryTime,
		ExitTime:  result.Vehicle.ExitTime,
		Fee:       newFeeResponse(result.Fee),
	})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	WriteSuccess(ctx, w, "Status retrieved successfully", h.statusResponse(ctx, h.service.Lot()))
}

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vehicles := h.service.Lot().CurrentlyParked(ctx)
	response := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		response = append(response, newVehicleResponse(v))
	}

	WriteSuccess(ctx, w, "Vehicles retrieved successfully", response)
}

func (h *Handler) FindVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plate := chi.URLParam(r, "plate")
	if plate == "" {
		WriteError(ctx, w, http.StatusBadRequest, "Plate is required")
		return
	}

	v, ok := h.service.Lot().Vehicle(ctx, plate)
	if !ok {
		writeParkingError(ctx, w, &parking.NotParkedError{Plate: plate})
		return
	}

	WriteSuccess(ctx, w, "Vehicle found", newVehicleResponse(v))
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	size, err := parking.ParseSize(chi.URLParam(r, "size"))
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	WriteSuccess(ctx, w, "Availability retrieved successfully", AvailabilityResponse{
		Size:           size.String(),
		AvailableSlots: h.service.Lot().AvailableSlotsForSize(ctx, size),
	})
}

func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	lot := h.service.Lot()
	rates := lot.Rates()

	hourly := make(map[string]int, len(rates.HourlyRates))
	for size, rate := range rates.HourlyRates {
		hourly[size.String()] = rate
	}

	WriteSuccess(r.Context(), w, "Rates retrieved successfully", RatesResponse{
		Currency:            rates.Currency,
		FlatRate:            rates.FlatRate,
		FlatWindowHours:     rates.FlatWindowHours,
		HourlyRates:         hourly,
		DailyRate:           rates.DailyRate,
		ContinuousThreshold: lot.ContinuousThreshold().String(),
	})
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	events := h.service.Activity().Recent()
	response := make([]ActivityResponse, 0, len(events))
	for _, e := range events {
		response = append(response, newActivityResponse(e))
	}

	WriteSuccess(r.Context(), w, "Activity retrieved successfully", response)
}

func (h *Handler) statusResponse(ctx context.Context, lot *parking.InstrumentedParkingLot) StatusResponse {
	status, slots := lot.Snapshot(ctx)

	entryPoints := make([]string, lot.EntryPointCount())
	for i := range entryPoints {
		entryPoints[i] = parking.EntryPointLabel(i)
	}

	bySize := make(map[string]int, len(status.SlotsBySize))
	for size, n := range status.SlotsBySize {
		bySize[size.String()] = n
	}

	slotStatuses := make([]SlotStatus, 0, len(slots))
	for _, s := range slots {
		st := SlotStatus{
			ID:        s.ID,
			Size:      s.Size.String(),
			Distances: s.Distances,
			Occupied:  s.Occupied,
		}
		if s.Vehicle != nil {
			st.Plate = s.Vehicle.Plate
		}
		slotStatuses = append(slotStatuses, st)
	}

	return StatusResponse{
		EntryPoints:    entryPoints,
		TotalSlots:     status.TotalSlots,
		OccupiedSlots:  status.OccupiedSlots,
		AvailableSlots: status.AvailableSlots,
		SlotsBySize:    bySize,
		Slots:          slotStatuses,
	}
}

// statusFor maps lot errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		config        *parking.ConfigurationError
		alreadyParked *parking.AlreadyParkedError
		notParked     *parking.NotParkedError
		noSlot        *parking.NoSlotAvailableError
		badEntry      *parking.InvalidEntryPointError
	)
	switch {
	case errors.As(err, &config), errors.As(err, &badEntry):
		return http.StatusBadRequest
	case errors.As(err, &alreadyParked), errors.As(err, &noSlot):
		return http.StatusConflict
	case errors.As(err, &notParked):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
