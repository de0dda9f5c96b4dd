package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"ideaswipe_server/auth"
	"ideaswipe_server/config"
	"ideaswipe_server/logger"
	"ideaswipe_server/repositories"
	"ideaswipe_server/routes"
	"ideaswipe_server/services"
	"ideaswipe_server/socket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(logger.Config{Development: cfg.Development()})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)
	matches := services.NewMatchService(store, log)

	// The socket server needs the chat service and the chat service needs the
	// socket notifier, so chat is reached through a late-bound gateway.
	gateway := &chatGateway{}
	socketServer, err := socket.NewServer(verifier, gateway, socket.Options{
		RedisAddr:   cfg.SocketRedisAddr,
		RedisPrefix: "ideaswipe-socket",
	}, log)
	if err != nil {
		return err
	}

	notifier := services.MultiNotifier{socketServer.Notifier()}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := services.NewEventPublisher(services.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), log)
		defer publisher.Close()
		notifier = append(notifier, publisher)
		log.Infow("kafka event log enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	chat := services.NewChatService(store, matches, notifier, log)
	gateway.ChatService = chat
	requests := services.NewRequestService(store, matches, notifier, log)

	var presigner services.ObjectPresigner
	if cfg.S3BucketName != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return err
		}
		presigner = s3.NewPresignClient(s3.NewFromConfig(awsCfg))
	}

	svc := routes.Services{
		Swipes:        services.NewSwipeService(store, matches, notifier, log),
		Requests:      requests,
		Matches:       matches,
		Chat:          chat,
		Notifications: services.NewNotificationService(store, matches, requests, log),
		Attachments:   services.NewAttachmentService(presigner, cfg.S3BucketName, matches, log),
	}

	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Errorw("socket server stopped", "error", err)
		}
	}()
	defer socketServer.Close()

	r := mux.NewRouter()
	r.Handle("/socket.io/", socketServer)
	routes.RegisterRoutes(r, svc, verifier, log)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting server", "port", cfg.Port, "store", cfg.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*repositories.Store, error) {
	var store *repositories.Store
	switch cfg.StoreDriver {
	case "memory":
		store = repositories.NewMemoryStore().Store()
		log.Warn("using in-memory store; data is lost on restart")
	default:
		client, err := repositories.InitializeDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = repositories.NewDynamoStore(repositories.NewDynamoService(client, log), cfg.Tables)
		log.Infow("dynamodb client initialized", "region", cfg.AWSRegion)
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warnw("redis unreachable; tally updates will be logged and skipped", "addr", cfg.RedisAddr, "error", err)
		}
		store.Tallies = repositories.NewRedisTallyCounter(rdb, "ideaswipe")
	} else if store.Tallies == nil {
		store.Tallies = repositories.NewMemoryTallyCounter()
	}
	return store, nil
}

// chatGateway lets the socket server be built before the chat service exists.
type chatGateway struct {
	*services.ChatService
}
