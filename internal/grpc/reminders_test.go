package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/Hossain-Anas/UniVerse/internal/reminder"
)

type stubRunner struct {
	result reminder.Result
	err    error
}

func (s stubRunner) Process(context.Context) (reminder.Result, error) {
	return s.result, s.err
}

type stubExpirer int

func (s stubExpirer) ExpireDue(context.Context) (int, error) {
	return int(s), nil
}

func dialServer(t *testing.T, runner ReminderRunner, token string) *grpc.ClientConn {
	t.Helper()
	srv, err := NewServer("secret-token", NewReminderCommandServer(runner, stubExpirer(3)))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	opts := []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if token != "" {
		opts = append(opts, grpc.WithUnaryInterceptor(ServiceAuthUnaryClientInterceptor(token)))
	}
	conn, err := grpc.DialContext(context.Background(), "bufnet", opts...)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestProcessDueRemindersRoundTrip(t *testing.T) {
	runner := stubRunner{result: reminder.Result{Processed: 2, Errors: []string{"reminder r3: boom"}}}
	client := NewReminderCommandServiceClient(dialServer(t, runner, "secret-token"))

	resp, err := client.ProcessDueReminders(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	result := ResultFromStruct(resp)
	if result.Processed != 2 || len(result.Errors) != 1 || result.Errors[0] != "reminder r3: boom" {
		t.Fatalf("unexpected result %+v", result)
	}

	expired, err := client.ExpireBanners(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if got := expired.GetFields()["expired"].GetNumberValue(); got != 3 {
		t.Fatalf("expected 3 expired, got %v", got)
	}
}

func TestProcessFailureIsInternal(t *testing.T) {
	client := NewReminderCommandServiceClient(dialServer(t, stubRunner{err: errors.New("db down")}, "secret-token"))
	_, err := client.ProcessDueReminders(context.Background(), &emptypb.Empty{})
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected internal, got %v", err)
	}
}

func TestServiceTokenEnforced(t *testing.T) {
	client := NewReminderCommandServiceClient(dialServer(t, stubRunner{}, ""))
	_, err := client.ProcessDueReminders(context.Background(), &emptypb.Empty{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	client = NewReminderCommandServiceClient(dialServer(t, stubRunner{}, "wrong"))
	_, err = client.ProcessDueReminders(context.Background(), &emptypb.Empty{})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestHealthNeedsNoToken(t *testing.T) {
	conn := dialServer(t, stubRunner{}, "")
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ReminderCommandServiceName})
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected serving, got %v", resp.GetStatus())
	}
}

func TestInterceptorRequiresToken(t *testing.T) {
	if _, err := NewServiceAuthUnaryInterceptor(""); err == nil {
		t.Fatalf("expected error for empty token")
	}
}
