package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"smart-parking/internal/parking"

	"go.opentelemetry.io/otel/trace"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type ParkVehicleRequest struct {
	Plate      string `json:"plate"`
	Size       string `json:"size"`
	EntryPoint *int   `json:"entry_point"`
	EntryDate  string `json:"entry_date,omitempty"`
	EntryTime  string `json:"entry_time,omitempty"`
}

type UnparkVehicleRequest struct {
	Plate    string `json:"plate"`
	ExitDate string `json:"exit_date,omitempty"`
	ExitTime string `json:"exit_time,omitempty"`
}

type ParkVehicleResponse struct {
	Plate      string    `json:"plate"`
	SlotID     string    `json:"slot_id"`
	EntryPoint string    `json:"entry_point"`
	EntryTime  time.Time `json:"entry_time"`
	Continuous bool      `json:"continuous"`
}

type FeeResponse struct {
	TotalHours  int    `json:"total_hours"`
	FullDays    int    `json:"full_days"`
	ExcessHours int    `json:"excess_hours"`
	FlatFee     int    `json:"flat_fee"`
	HourlyFee   int    `json:"hourly_fee"`
	DailyFee    int    `json:"daily_fee"`
	TotalFee    int    `json:"total_fee"`
	Continuous  bool   `json:"continuous"`
	Breakdown   string `json:"breakdown"`
}

type UnparkVehicleResponse struct {
	Plate     string      `json:"plate"`
	SlotID    string      `json:"slot_id"`
	EntryTime time.Time   `json:"entry_time"`
	ExitTime  time.Time   `json:"exit_time"`
	Fee       FeeResponse `json:"fee"`
}

type VehicleResponse struct {
	Plate      string    `json:"plate"`
	Size       string    `json:"size"`
	SlotID     string    `json:"slot_id"`
	EntryPoint string    `json:"entry_point"`
	EntryTime  time.Time `json:"entry_time"`
	Continuous bool      `json:"continuous"`
}

type SlotStatus struct {
	ID        string    `json:"id"`
	Size      string    `json:"size"`
	Distances []float64 `json:"distances"`
	Occupied  bool      `json:"occupied"`
	Plate     string    `json:"plate,omitempty"`
}

type StatusResponse struct {
	EntryPoints    []string       `json:"entry_points"`
	TotalSlots     int            `json:"total_slots"`
	OccupiedSlots  int            `json:"occupied_slots"`
	AvailableSlots int            `json:"available_slots"`
	SlotsBySize    map[string]int `json:"slots_by_size"`
	Slots          []SlotStatus   `json:"slots"`
}

type AvailabilityResponse struct {
	Size           string `json:"size"`
	AvailableSlots int    `json:"available_slots"`
}

type RatesResponse struct {
	Currency            string         `json:"currency"`
	FlatRate            int            `json:"flat_rate"`
	FlatWindowHours     int            `json:"flat_window_hours"`
	HourlyRates         map[string]int `json:"hourly_rates"`
	DailyRate           int            `json:"daily_rate"`
	ContinuousThreshold string         `json:"continuous_threshold"`
}

type ActivityResponse struct {
	Type    string    `json:"type"`
	Time    time.Time `json:"time"`
	Plate   string    `json:"plate,omitempty"`
	SlotID  string    `json:"slot_id,omitempty"`
	Message string    `json:"message"`
}

func newFeeResponse(fee parking.Fee) FeeResponse {
	return FeeResponse{
		TotalHours:  fee.TotalHours,
		FullDays:    fee.FullDays,
		ExcessHours: fee.ExcessHours,
		FlatFee:     fee.FlatFee,
		HourlyFee:   fee.HourlyFee,
		DailyFee:    fee.DailyFee,
		TotalFee:    fee.TotalFee,
		Continuous:  fee.Continuous,
		Breakdown:   fee.Breakdown,
	}
}

func newVehicleResponse(v parking.Vehicle) VehicleResponse {
	return VehicleResponse{
		Plate:      v.Plate,
		Size:       v.Size.String(),
		SlotID:     v.SlotID,
		EntryPoint: parking.EntryPointLabel(v.EntryPoint),
		EntryTime:  v.EntryTime,
		Continuous: v.Continuous,
	}
}

func newActivityResponse(e parking.Event) ActivityResponse {
	return ActivityResponse{
		Type:    string(e.Type),
		Time:    e.Time,
		Plate:   e.Plate,
		SlotID:  e.SlotID,
		Message: e.Message,
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}

func writeParkingError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	WriteError(ctx, w, status, message)
}
