package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/guitarhaus/guitarhaus-api/internal/config"
	"github.com/guitarhaus/guitarhaus-api/internal/handler"
	"github.com/guitarhaus/guitarhaus-api/internal/middleware"
	"github.com/guitarhaus/guitarhaus-api/internal/repository"
	"github.com/guitarhaus/guitarhaus-api/internal/service"
	"github.com/guitarhaus/guitarhaus-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Repositories
	customerRepo := repository.NewCustomerRepository(dbPool)
	guitarRepo := repository.NewGuitarRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	reviewRepo := repository.NewReviewRepository(dbPool)
	wishlistRepo := repository.NewWishlistRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(customerRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	guitarSvc := service.NewGuitarService(guitarRepo, redisClient)
	cartSvc := service.NewCartService(cartRepo, guitarRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, guitarRepo, cfg.Checkout, amqpCh)
	reviewSvc := service.NewReviewService(reviewRepo, guitarRepo, redisClient)
	wishlistSvc := service.NewWishlistService(wishlistRepo, guitarRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	guitarH := handler.NewGuitarHandler(guitarSvc)
	cartH := handler.NewCartHandler(cartSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	wishlistH := handler.NewWishlistHandler(wishlistSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	confirmWorker := worker.NewConfirmWorker(amqpCh, orderRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)

		customers := v1.Group("/customers", authRequired)
		customers.GET("/me", authH.Profile)
		customers.PUT("/me", authH.UpdateProfile)
		customers.GET("", middleware.AdminOnly(), authH.ListCustomers)
		customers.GET("/:id", authH.GetCustomer)

		guitars := v1.Group("/guitars")
		guitars.GET("", guitarH.List)
		guitars.GET("/featured", guitarH.Featured)
		guitars.GET("/:id", guitarH.GetByID)
		guitars.GET("/:id/reviews", reviewH.ListForGuitar)
		guitars.POST("/:id/reviews", authRequired, reviewH.Add)

		adminGuitars := guitars.Group("", authRequired, middleware.AdminOnly())
		adminGuitars.POST("", guitarH.Create)
		adminGuitars.PUT("/:id", guitarH.Update)
		adminGuitars.DELETE("/:id", guitarH.Delete)

		reviews := v1.Group("/reviews", authRequired)
		reviews.GET("/me", reviewH.ListMine)
		reviews.PUT("/:id", reviewH.Update)
		reviews.DELETE("/:id", reviewH.Delete)

		cart := v1.Group("/cart", authRequired)
		cart.GET("", cartH.GetCart)
		cart.POST("/items", cartH.AddItem)
		cart.PUT("/items/:id", cartH.UpdateItem)
		cart.DELETE("/items/:id", cartH.RemoveItem)
		cart.DELETE("", cartH.Clear)

		orders := v1.Group("/orders", authRequired)
		orders.POST("", orderH.Checkout)
		orders.GET("", orderH.ListMine)
		orders.GET("/:id", orderH.GetOrder)
		orders.PUT("/:id/cancel", orderH.Cancel)
		orders.GET("/admin/all", middleware.AdminOnly(), orderH.ListAll)
		orders.PUT("/:id/status", middleware.AdminOnly(), orderH.UpdateStatus)

		wishlist := v1.Group("/wishlist", authRequired)
		wishlist.GET("", wishlistH.List)
		wishlist.POST("", wishlistH.Add)
		wishlist.GET("/check/:guitarId", wishlistH.Check)
		wishlist.DELETE("/:guitarId", wishlistH.Remove)
		wishlist.DELETE("", wishlistH.Clear)
	}

	if err := confirmWorker.Start(ctx); err != nil {
		log.Error("start confirmation worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	confirmWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
