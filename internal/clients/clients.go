// Package clients reaches a running portal from outside: the HTTP trigger
// used by schedulers and the gRPC command service.
package clients

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	universegrpc "github.com/Hossain-Anas/UniVerse/internal/grpc"
)

type Commands struct {
	Conn      *grpc.ClientConn
	Reminders *universegrpc.ReminderCommandServiceClient
}

func NewCommands(ctx context.Context, addr, serviceToken string, timeout time.Duration) (*Commands, error) {
	if serviceToken == "" {
		return nil, errors.New("service auth token required")
	}
	conn, err := dial(ctx, addr, serviceToken, timeout)
	if err != nil {
		return nil, err
	}
	return &Commands{
		Conn:      conn,
		Reminders: universegrpc.NewReminderCommandServiceClient(conn),
	}, nil
}

func (c *Commands) Close() {
	if c == nil {
		return
	}
	if c.Conn != nil {
		_ = c.Conn.Close()
	}
}

func dial(ctx context.Context, addr, serviceToken string, timeout time.Duration) (*grpc.ClientConn, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return grpc.DialContext(ctx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(universegrpc.ServiceAuthUnaryClientInterceptor(serviceToken)),
	)
}
