package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"redditcrawl/internal/config"
	"redditcrawl/internal/db"
	"redditcrawl/internal/services"
	"redditcrawl/internal/storage"
)

// 执行一轮爬取，报告以 JSON 输出到 stdout
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := cfg.NewLogger()

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	store := storage.NewGated(storage.New(gdb, cfg.Crawl.BcryptCost), cfg.Database.MaxConns)
	crawler := services.NewCrawler(services.NewRedditFeed(cfg.Crawl), store, cfg.Crawl.UserPassword, cfg.Database.MaxConns, logger)

	// 中断后不再启动新的版块/帖子，已开始的写完
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := crawler.Run(ctx)
	if err != nil {
		log.Fatalf("Crawl failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal(err)
	}
}
