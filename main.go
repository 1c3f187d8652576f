package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"putzelf/config"
	"putzelf/database"
	bookingRepo "putzelf/database/repository/booking"
	"putzelf/handlers"
	"putzelf/metrics"
	"putzelf/routes"
	"putzelf/services/booking"
	"putzelf/services/notification"
	"putzelf/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	bkRepo := bookingRepo.NewMongoBookingRepo()

	// The relay is resolved lazily on the first confirmation; a failed
	// resolution stays failed until the process restarts.
	transportResolver := notification.NewTransportResolver(notification.RelayConfig{
		Host:            config.AppConfig.SMTPHost,
		Port:            config.AppConfig.SMTPPort,
		Username:        config.AppConfig.SMTPUser,
		Password:        config.AppConfig.SMTPPass,
		ImplicitTLS:     config.AppConfig.SMTPSecure,
		ConnectTimeout:  config.AppConfig.SMTPConnectTimeout,
		GreetingTimeout: config.AppConfig.SMTPGreetingTimeout,
		SendTimeout:     config.AppConfig.SMTPSendTimeout,
	}, logger)

	notificationService := &notification.DefaultMailNotificationService{
		Transports: transportResolver,
		From:       config.AppConfig.SMTPFrom,
		OfficeCopy: config.AppConfig.OfficeEmail,
	}

	appMetrics := metrics.New()

	bookingService := &booking.DefaultBookingService{
		Repo:            bkRepo,
		NotificationSvc: notificationService,
		CacheClient:     utils.GetCacheClient(),
		Metrics:         appMetrics,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateBooking:  bookingHandler.CreateBooking,
		ListBookings:   bookingHandler.ListBookings,
		GetBooking:     bookingHandler.GetBooking,
		ConfirmBooking: bookingHandler.ConfirmBooking,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
