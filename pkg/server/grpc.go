package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// RegistrationFunc registers a grpc service with the server.
type RegistrationFunc func(*grpc.Server)

// NewGRPCServer creates a new gRPC server instance with optional reflection and service registration.
func NewGRPCServer(enableReflection bool, registerFunc ...RegistrationFunc) *grpc.Server {
	grpcServer := grpc.NewServer()

	if enableReflection {
		reflection.Register(grpcServer)
	}

	for _, regFunc := range registerFunc {
		regFunc(grpcServer)
	}

	return grpcServer
}

// WithHealth registers the standard health service and reports the given services as SERVING.
// The returned server can be used to flip the status during shutdown.
func WithHealth(services ...string) (RegistrationFunc, *health.Server) {
	hs := health.NewServer()
	for _, svc := range services {
		hs.SetServingStatus(svc, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	return func(s *grpc.Server) {
		grpc_health_v1.RegisterHealthServer(s, hs)
	}, hs
}
