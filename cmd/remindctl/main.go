// Command remindctl asks a running portal to deliver due reminders or expire
// finished banners. It talks gRPC when -grpc is set and HTTP otherwise.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/Hossain-Anas/UniVerse/internal/clients"
	universegrpc "github.com/Hossain-Anas/UniVerse/internal/grpc"
	"github.com/Hossain-Anas/UniVerse/internal/reminder"
)

func main() {
	baseURL := flag.String("url", envOr("UNIVERSE_URL", "http://127.0.0.1:8080"), "portal base URL")
	triggerToken := flag.String("trigger-token", os.Getenv("REMINDER_TRIGGER_TOKEN"), "value for X-Reminder-Token")
	grpcAddr := flag.String("grpc", "", "gRPC address; switches to the command service")
	serviceToken := flag.String("service-token", os.Getenv("SERVICE_AUTH_TOKEN"), "gRPC service token")
	expire := flag.Bool("expire", false, "expire finished banners instead of delivering reminders (gRPC only)")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var out interface{}
	var err error
	switch {
	case *grpcAddr != "":
		out, err = viaGRPC(ctx, *grpcAddr, *serviceToken, *expire, *timeout)
	case *expire:
		err = fmt.Errorf("-expire needs -grpc")
	default:
		out, err = clients.NewTrigger(*baseURL, *triggerToken, *timeout).ProcessReminders(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "remindctl: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
	if r, ok := out.(reminder.Result); ok && len(r.Errors) > 0 {
		os.Exit(2)
	}
}

func viaGRPC(ctx context.Context, addr, token string, expire bool, timeout time.Duration) (interface{}, error) {
	cmds, err := clients.NewCommands(ctx, addr, token, timeout)
	if err != nil {
		return nil, err
	}
	defer cmds.Close()

	if expire {
		resp, err := cmds.Reminders.ExpireBanners(ctx, &emptypb.Empty{})
		if err != nil {
			return nil, err
		}
		return map[string]int{"expired": int(resp.GetFields()["expired"].GetNumberValue())}, nil
	}
	resp, err := cmds.Reminders.ProcessDueReminders(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}
	return universegrpc.ResultFromStruct(resp), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
