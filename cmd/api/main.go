package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mercanto/storefront-backend/api/routes"
	"github.com/mercanto/storefront-backend/internal/fulfillment"
	"github.com/mercanto/storefront-backend/internal/notifications"
	"github.com/mercanto/storefront-backend/internal/returns"
	"github.com/mercanto/storefront-backend/internal/shipping"
	"github.com/mercanto/storefront-backend/pkg/config"
	"github.com/mercanto/storefront-backend/pkg/db"
	"github.com/mercanto/storefront-backend/pkg/enums"
	"github.com/mercanto/storefront-backend/pkg/logger"
	"github.com/mercanto/storefront-backend/pkg/metrics"
	"github.com/mercanto/storefront-backend/pkg/migrate"
	"github.com/mercanto/storefront-backend/pkg/redis"
)

// returnsNotifier bridges the returns pipeline onto the notifications ledger.
type returnsNotifier struct {
	svc notifications.Service
}

func (n returnsNotifier) SendConsolidated(ctx context.Context, notification returns.ConsolidatedNotification) error {
	return n.svc.SendConsolidated(ctx, notifications.ConsolidatedInput{
		OrderID:        notification.OrderID,
		Type:           enums.NotificationTypeReturnApproved,
		RecipientEmail: notification.RecipientEmail,
		OrderReference: notification.OrderReference,
		TrackingNumber: notification.TrackingNumber,
		Items:          notification.Items,
	})
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)

	rateTable, err := shipping.NewRateTable(shipping.DefaultRates())
	if err != nil {
		logg.Error(context.Background(), "failed to build rate table", err)
		os.Exit(1)
	}

	var carrierGateway shipping.CarrierGateway = shipping.NewOfflineGateway(rateTable)
	if cfg.Carrier.BaseURL != "" {
		carrierGateway, err = shipping.NewHTTPGateway(cfg.Carrier, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to build carrier gateway", err)
			os.Exit(1)
		}
	}

	shippingService, err := shipping.NewService(rateTable, carrierGateway, engineMetrics, cfg.Carrier.RequestTimeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	fulfillmentService, err := fulfillment.NewService(fulfillment.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create fulfillment service", err)
		os.Exit(1)
	}

	dispatcher, err := notifications.NewLogDispatcher(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}
	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()), dispatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	returnCarrier, err := enums.ParseCarrier(cfg.Returns.Carrier)
	if err != nil {
		logg.Error(context.Background(), "invalid returns carrier", err)
		os.Exit(1)
	}

	var refundGateway returns.RefundGateway = returns.NewOfflineRefundGateway()
	if cfg.Returns.RefundBaseURL != "" {
		refundGateway, err = returns.NewHTTPRefundGateway(cfg.Returns, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to build refund gateway", err)
			os.Exit(1)
		}
	}

	returnsService, err := returns.NewService(
		returns.NewRepository(dbClient.DB()),
		dbClient,
		shippingService,
		refundGateway,
		returnsNotifier{svc: notificationsService},
		logg,
		engineMetrics,
		returnCarrier,
		cfg.Returns.RefundTimeout,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create returns service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			redisClient,
			registry,
			fulfillmentService,
			returnsService,
			shippingService,
			notificationsService,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
