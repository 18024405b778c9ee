package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/cache"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/config"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/events"
	apihttp "github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/http"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/media"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return err
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		return err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	log.Printf("Redis ping succeeded")

	cartCache := cache.NewRedisCache(redisClient)
	cartRepo := repository.NewCartRepository(mongoDB)
	productRepo := repository.NewProductRepository(mongoDB)
	orderRepo := repository.NewOrderRepository(mongoDB)
	reviewRepo := repository.NewReviewRepository(mongoDB)
	userRepo := repository.NewUserRepository(mongoDB)

	var orderEvents service.OrderEvents = events.NoopPublisher{}
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(cfg.KafkaBrokers...)
		defer publisher.Close()
		orderEvents = publisher

		clearer := events.NewCartClearer(cartRepo, cartCache, cfg.KafkaBrokers...)
		defer clearer.Close()
		go clearer.Run(consumerCtx)
		log.Printf("Order events enabled on %v", cfg.KafkaBrokers)
	}

	deps := apihttp.Deps{
		Auth:     service.NewAuthService(userRepo, cfg.JWTSecret),
		Products: service.NewProductService(productRepo),
		Cart:     service.NewCartService(cartRepo, productRepo, cartCache),
		Orders:   service.NewOrderService(orderRepo, productRepo, orderEvents),
		Reviews:  service.NewReviewService(reviewRepo, orderRepo, productRepo),
		Uploader: media.NewUploader(media.Config{
			Endpoint: cfg.MediaEndpoint,
			APIKey:   cfg.MediaAPIKey,
			Dir:      cfg.UploadDir,
			BaseURL:  cfg.PublicBaseURL,
		}),
		UploadDir:      cfg.UploadDir,
		RequestTimeout: cfg.RequestTimeout,
	}

	router := apihttp.NewRouter(deps)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "dbuian-api"),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  cfg.RequestTimeout * 2,
	}

	go func() {
		log.Printf("API server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Println("server exited")
	return nil
}
