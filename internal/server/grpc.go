package server

import (
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServer serves the standard gRPC health service.
type HealthServer struct {
	grpc   *grpc.Server
	health *health.Server
	logger *slog.Logger
}

func NewHealthServer(logger *slog.Logger) *HealthServer {
	if logger == nil {
		logger = slog.Default()
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)
	// Reflection for grpcurl
	reflection.Register(gs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{grpc: gs, health: hs, logger: logger}
}

// Serve marks the server SERVING and blocks until Stop.
func (h *HealthServer) Serve(lis net.Listener) error {
	h.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	h.logger.Info("grpc.start", "addr", lis.Addr().String())
	return h.grpc.Serve(lis)
}

// Stop flips the status to NOT_SERVING and drains in-flight calls.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.grpc.GracefulStop()
	h.logger.Info("grpc.stopped")
}
