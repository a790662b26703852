package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"smart-parking/internal/logging"
	"smart-parking/internal/parking"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
	hub        *Hub
	metrics    *Metrics
}

func NewServer(port, serviceName string, service *parking.Service) *Server {
	handler := NewHandler(service, serviceName)
	metrics := NewMetrics(service)
	hub := NewHub()
	service.Subscribe(hub.PublishEvent)

	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(TracingMiddleware(serviceName))
	r.Use(metrics.Middleware)
	r.Use(CORSMiddleware)

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/ws", WebSocketUpgrade(hub))

	r.Route("/api/parking-lot", func(r chi.Router) {
		r.Post("/", handler.CreateParkingLot)
		r.Post("/park", handler.ParkVehicle)
		r.Post("/unpark", handler.UnparkVehicle)
		r.Get("/status", handler.GetStatus)
		r.Get("/vehicles", handler.ListVehicles)
		r.Get("/vehicles/{plate}", handler.FindVehicle)
		r.Get("/availability/{size}", handler.Availability)
		r.Get("/rates", handler.Rates)
		r.Get("/activity", handler.Activity)
	})

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		hub:        hub,
		metrics:    metrics,
	}
}

// Start serves until Shutdown is called. The websocket hub lives as long as ctx.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	logging.Info(ctx, "starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info(ctx, "shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://localhost%s", s.httpServer.Addr)
}
