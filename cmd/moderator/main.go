package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/threadkit/comments/internal/config"
	"github.com/threadkit/comments/internal/db"
	"github.com/threadkit/comments/internal/dedup"
	"github.com/threadkit/comments/internal/logger"
	"github.com/threadkit/comments/internal/messaging"
	"github.com/threadkit/comments/internal/metrics"
	"github.com/threadkit/comments/internal/moderation"
	"github.com/threadkit/comments/internal/modlog"
	"github.com/threadkit/comments/internal/trust"
	"github.com/threadkit/comments/internal/wordlist"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting ThreadKit moderation service",
		zap.String("postgres", cfg.PostgresDSN),
		zap.String("redis", cfg.RedisAddr),
		zap.String("nats", cfg.NATSURL),
		zap.String("metrics", cfg.MetricsAddr))

	// --- Postgres ---
	pg, err := db.Open(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatal("redis connection failed", zap.Error(err))
	}
	cancel()
	defer rdb.Close()

	// --- NATS ---
	natsCfg := messaging.DefaultConfig()
	natsCfg.URL = cfg.NATSURL
	natsClient, err := messaging.NewClient(natsCfg, log)
	if err != nil {
		log.Fatal("nats connection failed", zap.Error(err))
	}
	defer natsClient.Close()

	// --- Blocked-word cache ---
	wordStore := wordlist.NewStore(pg)
	wordCache := wordlist.NewCache(wordStore, cfg.WordRefreshInterval, log)
	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := wordCache.Start(loadCtx); err != nil {
		cancel()
		log.Fatal("blocked-word cache load failed", zap.Error(err))
	}
	cancel()
	defer wordCache.Stop()
	log.Info("blocked-word cache loaded", zap.Int("words", wordCache.Size()))

	// --- Collaborators ---
	detector := dedup.NewDetector(rdb, cfg.DuplicateWindow)
	trustService := trust.NewService(pg, cfg.MinTrustScore, cfg.MaxTrustScore)
	logStore := modlog.NewStore(pg)
	publisher := messaging.NewDecidedPublisher(natsClient)

	engine := moderation.NewEngine(moderation.Config{
		SpamThreshold:      cfg.SpamThreshold,
		SentimentThreshold: cfg.SentimentThreshold,
		CapsRatioThreshold: cfg.CapsRatioThreshold,
		MaxLinksAllowed:    cfg.MaxLinksAllowed,
		MinCommentLength:   cfg.MinCommentLength,
		MaxCommentLength:   cfg.MaxCommentLength,
		DuplicateWindow:    cfg.DuplicateWindow,
	}, wordCache, detector, trustService, logStore, publisher, log)

	// --- Trust-update worker ---
	worker := trust.NewWorker(trustService, log)
	if err := worker.Start(natsClient); err != nil {
		log.Fatal("trust worker subscribe failed", zap.Error(err))
	}

	// --- Submission consumer ---
	err = natsClient.SubscribeSubmit(func(data []byte) {
		var req moderation.SubmissionRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Warn("bad submission payload", zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		verdict := engine.Moderate(ctx, req.Content, req.UserID, req.PageID)

		resp, err := json.Marshal(moderation.SubmissionResult{
			RequestID: req.RequestID,
			Verdict:   verdict,
		})
		if err != nil {
			log.Error("marshal verdict failed", zap.Error(err), zap.String("request_id", req.RequestID))
			return
		}
		if err := natsClient.PublishVerdict(req.RequestID, resp); err != nil {
			log.Error("publish verdict failed", zap.Error(err), zap.String("request_id", req.RequestID))
		}
	})
	if err != nil {
		log.Fatal("submission subscribe failed", zap.Error(err))
	}

	// --- Metrics endpoint ---
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler()}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	log.Info("moderation service running")

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
}
