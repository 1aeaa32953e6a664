package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lawlink/config"
	"lawlink/cron"
	"lawlink/database"
	bookingRepoPkg "lawlink/database/repository/booking"
	clientRepoPkg "lawlink/database/repository/clientprofile"
	lawyerRepoPkg "lawlink/database/repository/lawyer"
	reviewRepoPkg "lawlink/database/repository/review"
	userRepoPkg "lawlink/database/repository/user"
	"lawlink/handlers"
	"lawlink/middleware"
	"lawlink/routes"
	"lawlink/services/booking"
	"lawlink/services/client"
	"lawlink/services/identity"
	"lawlink/services/lawyer"
	"lawlink/services/review"
	"lawlink/services/tasks"
	"lawlink/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
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
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	lawyerRepo := lawyerRepoPkg.NewMongoLawyerRepo()
	clientRepo := clientRepoPkg.NewMongoClientRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()

	// task queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer asynqClient.Close()
	cron.InitPaymentWorker(tasks.FakePaymentConfirmer{})

	// services.
	identityService := &identity.DefaultIdentityService{
		Users:   userRepo,
		Lawyers: lawyerRepo,
		Clients: clientRepo,
		Logger:  logger,
	}
	bookingService := &booking.DefaultBookingService{
		Bookings: bookingRepo,
		Lawyers:  lawyerRepo,
		Users:    userRepo,
		Payments: &tasks.AsynqPaymentEnqueuer{Client: asynqClient},
		Logger:   logger,
	}
	lawyerService := &lawyer.DefaultLawyerService{
		Lawyers: lawyerRepo,
		Users:   userRepo,
		Cache:   utils.GetCacheClient(),
		Logger:  logger,
	}
	clientService := &client.DefaultClientService{
		Clients: clientRepo,
		Users:   userRepo,
		Logger:  logger,
	}
	reviewService := &review.DefaultReviewService{
		Reviews:  reviewRepo,
		Bookings: bookingRepo,
		Lawyers:  lawyerRepo,
		Users:    userRepo,
		Logger:   logger,
	}

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(
		identityService, bookingService, lawyerService, clientService, reviewService)
	routes.RegisterRoutes(router, handlerBundle)

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
