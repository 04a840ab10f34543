package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewServer builds the gRPC server with service auth, the command service
// and a health endpoint reporting SERVING.
func NewServer(serviceToken string, commands ReminderCommandServiceServer) (*grpc.Server, error) {
	interceptor, err := NewServiceAuthUnaryInterceptor(serviceToken)
	if err != nil {
		return nil, err
	}
	srv := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	RegisterReminderCommandServiceServer(srv, commands)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ReminderCommandServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthServer)
	return srv, nil
}
