package handlers

import (
	"context"
	"net/http"

	"redditcrawl/internal/services"

	"github.com/gin-gonic/gin"
)

// CrawlRunner 由 services.Crawler 实现
type CrawlRunner interface {
	Start(ctx context.Context) error
	Running() bool
	LastReport() *services.CrawlReport
	OnFinish(fn func(*services.CrawlReport))
}

type CrawlHandler struct {
	crawler CrawlRunner
	// 后台爬取用服务级 ctx，不跟随单个请求结束
	baseCtx context.Context
}

func NewCrawlHandler(baseCtx context.Context, crawler CrawlRunner) *CrawlHandler {
	return &CrawlHandler{crawler: crawler, baseCtx: baseCtx}
}

// Trigger 启动一轮后台爬取
func (h *CrawlHandler) Trigger(c *gin.Context) {
	if err := h.crawler.Start(h.baseCtx); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

// Status 是否在爬取，以及上一轮的报告
func (h *CrawlHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"running":     h.crawler.Running(),
		"last_report": h.crawler.LastReport(),
	})
}
