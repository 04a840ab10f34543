// Package grpc exposes the maintenance commands (reminder delivery and
// banner expiry) to other services and the remindctl tool.
package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Hossain-Anas/UniVerse/internal/reminder"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

const ReminderCommandServiceName = "universe.reminders.v1.ReminderCommandService"

const (
	processDueRemindersMethod = "/" + ReminderCommandServiceName + "/ProcessDueReminders"
	expireBannersMethod       = "/" + ReminderCommandServiceName + "/ExpireBanners"
)

type ReminderCommandServiceServer interface {
	ProcessDueReminders(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ExpireBanners(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterReminderCommandServiceServer(s grpc.ServiceRegistrar, srv ReminderCommandServiceServer) {
	s.RegisterService(&reminderCommandServiceDesc, srv)
}

var reminderCommandServiceDesc = grpc.ServiceDesc{
	ServiceName: ReminderCommandServiceName,
	HandlerType: (*ReminderCommandServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ProcessDueReminders", Handler: processDueRemindersHandler},
		{MethodName: "ExpireBanners", Handler: expireBannersHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "universe/reminders/v1/reminders.proto",
}

func processDueRemindersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReminderCommandServiceServer).ProcessDueReminders(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: processDueRemindersMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReminderCommandServiceServer).ProcessDueReminders(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func expireBannersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReminderCommandServiceServer).ExpireBanners(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: expireBannersMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReminderCommandServiceServer).ExpireBanners(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type ReminderRunner interface {
	Process(ctx context.Context) (reminder.Result, error)
}

type BannerExpirer interface {
	ExpireDue(ctx context.Context) (int, error)
}

type ReminderCommandServer struct {
	reminders ReminderRunner
	banners   BannerExpirer
}

func NewReminderCommandServer(reminders ReminderRunner, banners BannerExpirer) *ReminderCommandServer {
	return &ReminderCommandServer{reminders: reminders, banners: banners}
}

func (s *ReminderCommandServer) ProcessDueReminders(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	result, err := s.reminders.Process(ctx)
	if err != nil {
		zlog.Error("grpc reminder processing failed", zap.Error(err))
		return nil, status.Error(codes.Internal, err.Error())
	}
	return ResultToStruct(result)
}

func (s *ReminderCommandServer) ExpireBanners(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	expired, err := s.banners.ExpireDue(ctx)
	if err != nil {
		zlog.Error("grpc banner expiry failed", zap.Error(err))
		return nil, status.Error(codes.Internal, err.Error())
	}
	return structpb.NewStruct(map[string]interface{}{"expired": expired})
}

func ResultToStruct(result reminder.Result) (*structpb.Struct, error) {
	errs := make([]interface{}, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, e)
	}
	return structpb.NewStruct(map[string]interface{}{
		"processed": result.Processed,
		"errors":    errs,
	})
}

func ResultFromStruct(s *structpb.Struct) reminder.Result {
	result := reminder.Result{Errors: []string{}}
	fields := s.GetFields()
	result.Processed = int(fields["processed"].GetNumberValue())
	for _, v := range fields["errors"].GetListValue().GetValues() {
		result.Errors = append(result.Errors, v.GetStringValue())
	}
	return result
}

// ReminderCommandServiceClient is the caller side of ReminderCommandService.
type ReminderCommandServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReminderCommandServiceClient(cc grpc.ClientConnInterface) *ReminderCommandServiceClient {
	return &ReminderCommandServiceClient{cc: cc}
}

func (c *ReminderCommandServiceClient) ProcessDueReminders(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, processDueRemindersMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ReminderCommandServiceClient) ExpireBanners(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, expireBannersMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
