package grpc

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Options configures NewGRPCServer
type Options struct {
	APIToken string // Empty disables authentication
	Logger   *slog.Logger
}

// NewGRPCServer builds a grpc.Server exposing srv, the standard health
// service and server reflection
func NewGRPCServer(srv IndexServiceServer, opts Options) *grpc.Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Recovery sits innermost so the logging interceptor sees codes.Internal
	interceptors := []grpc.UnaryServerInterceptor{LoggingInterceptor(logger)}
	if opts.APIToken != "" {
		interceptors = append(interceptors, AuthInterceptor(opts.APIToken))
	}
	interceptors = append(interceptors, RecoveryInterceptor(logger))

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	RegisterIndexServiceServer(grpcServer, srv)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	return grpcServer
}
