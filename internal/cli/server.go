package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/event"
	"vocab-quiz-service/internal/infra/memory"
	redisinfra "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/metrics"
	transport "vocab-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	store, closeStore, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	cacheTTL := config.TTLDuration(cfg.Quiz.DictionaryCacheTTL, 5*time.Minute)
	var dictionaries app.DictionaryRepository
	var locks app.Locker
	if redisClient != nil {
		dictionaries = redisinfra.NewDictionaryCache(redisClient, store, config.TTLDuration(cfg.Redis.TTL, cacheTTL))
		locks = redisinfra.NewLocker(redisClient, config.TTLDuration(cfg.Redis.LockTTL, 30*time.Second))
	} else {
		dictionaries = memory.NewDictionaryCache(store, cacheTTL)
		locks = memory.NewLocker()
	}

	publisher, err := event.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	quizzes := app.NewQuizService(store, store, dictionaries, locks, log,
		app.WithEvents(publisher),
		app.WithMetrics(metrics.NewQuiz(prometheus.DefaultRegisterer)),
		app.WithMinWords(cfg.Quiz.MinWords),
		app.WithStrictAnswerCount(cfg.Quiz.StrictAnswerCount),
	)
	stats := app.NewStatisticsService(store, store, log)

	readTimeout, writeTimeout, requestTimeout := cfg.HTTPTimeouts()
	handler := transport.NewRouter(transport.RouterConfig{
		Quizzes:        quizzes,
		Stats:          stats,
		Auth:           transport.NewAuthenticator(cfg.Auth.JWTSecret),
		Log:            log,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: requestTimeout,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		log.Info("starting quiz service",
			zap.String("addr", server.Addr),
			zap.Bool("postgres", cfg.Postgres.URL != ""),
			zap.Bool("redis", redisClient != nil),
			zap.Bool("events", publisher.Enabled()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
