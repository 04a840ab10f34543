package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/auth"
	"github.com/Hossain-Anas/UniVerse/internal/banner"
	"github.com/Hossain-Anas/UniVerse/internal/book"
	"github.com/Hossain-Anas/UniVerse/internal/config"
	"github.com/Hossain-Anas/UniVerse/internal/db"
	"github.com/Hossain-Anas/UniVerse/internal/events"
	universegrpc "github.com/Hossain-Anas/UniVerse/internal/grpc"
	internalhttp "github.com/Hossain-Anas/UniVerse/internal/http"
	"github.com/Hossain-Anas/UniVerse/internal/jobs"
	"github.com/Hossain-Anas/UniVerse/internal/notification"
	"github.com/Hossain-Anas/UniVerse/internal/push"
	"github.com/Hossain-Anas/UniVerse/internal/reminder"
	"github.com/Hossain-Anas/UniVerse/internal/session"
	"github.com/Hossain-Anas/UniVerse/internal/toast"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

func main() {
	cfg := config.Load()
	flush := zlog.Init(zlog.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Dev:        cfg.LogDev,
	})
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("db connection failed", zap.Error(err))
	}
	defer pool.Close()

	store := db.NewStore(pool)
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			zlog.Fatal("migration failed", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			zlog.Fatal("redis ping failed", zap.Error(err))
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				zlog.Warn("redis close error", zap.Error(err))
			}
		}()
	}

	bus := events.NewBus()
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewSaramaPublisher(events.PublisherConfig{
			Brokers:  cfg.KafkaBrokers,
			ClientID: cfg.KafkaClientID,
		})
		if err != nil {
			zlog.Fatal("kafka producer init failed", zap.Error(err))
		}
		defer publisher.Close()
		bus.Subscribe(events.TopicAll, "kafka.forwarder", events.Forwarder(publisher, cfg.KafkaTopic))
	}

	hub := push.NewHub()
	board := toast.NewBoard(toast.DefaultCapacity, toast.DefaultTTL, func(userID string, items []toast.Toast) {
		if err := hub.SendFrame(userID, push.FrameToasts, items); err != nil {
			zlog.Warn("toast push failed", zap.String("user_id", userID), zap.Error(err))
		}
	})

	notifications := notification.NewService(store.Queries, bus)
	banners := banner.NewService(store.Queries, banner.StoreTx(store), bus)
	reminders := reminder.NewProcessor(store.Queries, reminder.StoreTx(store), bus)
	books := book.NewService(store.Queries)
	roles := auth.NewRoles(store.Queries, redisClient, cfg.RoleCacheTTL)

	banner.SubscribeOwnerNotifications(bus, notifications, cfg.NotifyOnRejection)
	session.SubscribeToasts(bus, board)
	push.SubscribeNotifications(bus, hub)

	server := internalhttp.NewServer(cfg, internalhttp.Deps{
		Banners:       banners,
		Notifications: notifications,
		Reminders:     reminders,
		Books:         books,
		Users:         store.Queries,
		Roles:         roles,
		SignIn:        session.NewSignInHook(reminders, board, redisClient, cfg.AccessTTL),
		Toasts:        board,
		Hub:           hub,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer, err := universegrpc.NewServer(cfg.ServiceAuthToken, universegrpc.NewReminderCommandServer(reminders, banners))
	if err != nil {
		zlog.Fatal("grpc service auth init failed", zap.Error(err))
	}

	scheduler, err := jobs.NewScheduler(ctx, cfg, reminders, banners)
	if err != nil {
		zlog.Fatal("job scheduler init failed", zap.Error(err))
	}
	scheduler.Start()

	go func() {
		zlog.Info("universe http listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}()

	go func() {
		listener, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			zlog.Fatal("grpc listen error", zap.Error(err))
		}
		zlog.Info("universe grpc listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(listener); err != nil {
			zlog.Fatal("grpc server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("shutdown error", zap.Error(err))
	}
	grpcServer.GracefulStop()
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		zlog.Warn("jobs still running at shutdown")
	}
}
