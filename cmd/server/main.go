package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeclash/internal/config"
	"codeclash/internal/database"
	"codeclash/internal/events"
	"codeclash/internal/judge"
	"codeclash/internal/leaderboard"
	"codeclash/internal/match"
	"codeclash/internal/matchmaking"
	"codeclash/internal/scheduler"
	"codeclash/internal/server"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Loaded configuration - Log level: %s", cfg.Logging.Level)

	db, err := database.NewGormConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	queueRepo := database.NewQueueRepository(db)
	matchRepo := database.NewMatchRepository(db)
	submissionRepo := database.NewSubmissionRepository(db)
	problemRepo := database.NewProblemRepository(db)

	broker := events.NewBroker(redisClient)
	board := leaderboard.NewBoard(redisClient)

	matchService := match.NewService(
		matchRepo,
		submissionRepo,
		problemRepo,
		broker,
		time.Duration(cfg.Matchmaking.MatchDurationMinutes)*time.Minute,
	)

	queueManager := matchmaking.NewQueueManager(queueRepo, matchRepo)
	pairingEngine := matchmaking.NewPairingEngine(queueRepo, matchService)

	judgeClient := judge.NewClient(
		cfg.Judge.Host,
		cfg.Judge.APIKey,
		time.Duration(cfg.Judge.TimeoutSeconds)*time.Second,
	)
	gateway := judge.NewGateway(judgeClient, matchService, submissionRepo, board)

	sched := scheduler.New(scheduler.NewRedisLocker(redisClient))
	sched.Add(scheduler.Job{
		Name:     "pairing-sweep",
		Interval: time.Duration(cfg.Matchmaking.PairingIntervalSeconds) * time.Second,
		Run: func(ctx context.Context) error {
			_, err := pairingEngine.PairWaitingPlayers(ctx, nil)
			return err
		},
	})
	sched.Add(scheduler.Job{
		Name:     "expiry-sweep",
		Interval: time.Duration(cfg.Matchmaking.ExpirySweepIntervalSeconds) * time.Second,
		Run: func(ctx context.Context) error {
			_, err := matchService.SweepExpiredMatches(ctx, time.Now())
			return err
		},
	})
	sched.Start()
	defer sched.Stop()

	router := server.NewRouter(queueManager, matchService, gateway, board)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("CodeClash HTTP server starting on port %s", cfg.Server.HTTPPort)
		log.Printf("Database: %s:%s/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
		log.Printf("Redis: %s", cfg.Redis.Addr)
		log.Printf("Judge host: %s", cfg.Judge.Host)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}
