package router

import (
	"context"
	"log/slog"

	"redditcrawl/internal/handlers"
	"redditcrawl/internal/middleware"
	"redditcrawl/internal/models"
	"redditcrawl/internal/services"
	"redditcrawl/internal/storage"
	"redditcrawl/internal/utils"

	"github.com/gin-gonic/gin"
)

// Deps 路由依赖
type Deps struct {
	// BaseCtx 服务生命周期 ctx，后台爬取使用
	BaseCtx context.Context
	Store   storage.Gateway
	Crawler handlers.CrawlRunner
	Logger  *slog.Logger
}

// New 创建 gin 引擎并注册全部路由
func New(d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Logger))

	if err := RegisterRoutes(r, d); err != nil {
		return nil, err
	}
	return r, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cache, err := utils.NewTTLCache[[]models.PostScore](16)
	if err != nil {
		return err
	}

	// Handlers
	postHandler := handlers.NewPostHandler(d.Store, services.NewCommentTreeBuilder(d.Store), cache)
	voteHandler := handlers.NewVoteHandler(d.Store, cache)
	subredditHandler := handlers.NewSubredditHandler(d.Store)
	crawlHandler := handlers.NewCrawlHandler(d.BaseCtx, d.Crawler)

	// 爬取写入的新帖子要立即出现在首页
	d.Crawler.OnFinish(func(*services.CrawlReport) { postHandler.InvalidateTop() })

	r.GET("/subreddits", subredditHandler.List)              // 所有版块
	r.GET("/posts", postHandler.ListTop)                     // 总分排行
	r.GET("/posts/:id/comments", postHandler.Comments)       // 评论树
	r.POST("/posts/:id/comments", postHandler.CreateComment) // 发表评论
	r.POST("/posts/:id/votes", voteHandler.Vote)             // 投票/改票

	r.GET("/crawl", crawlHandler.Status)   // 爬取状态
	r.POST("/crawl", crawlHandler.Trigger) // 启动一轮爬取

	return nil
}
