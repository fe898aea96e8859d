package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"redditcrawl/internal/config"
	"redditcrawl/internal/db"
	"redditcrawl/internal/router"
	"redditcrawl/internal/services"
	"redditcrawl/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := cfg.NewLogger()

	// Initialize Database
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// 所有存储操作共用一个与连接池同大小的并发闸门
	store := storage.NewGated(storage.New(gdb, cfg.Crawl.BcryptCost), cfg.Database.MaxConns)
	crawler := services.NewCrawler(services.NewRedditFeed(cfg.Crawl), store, cfg.Crawl.UserPassword, cfg.Database.MaxConns, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Crawl.Interval > 0 {
		logger.Info("scheduled crawl enabled", "interval", cfg.Crawl.Interval)
		crawler.StartScheduledCrawl(ctx, cfg.Crawl.Interval)
	}

	gin.SetMode(gin.ReleaseMode)
	r, err := router.New(router.Deps{
		BaseCtx: ctx,
		Store:   store,
		Crawler: crawler,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: r,
	}
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
}
