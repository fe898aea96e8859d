package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"redditcrawl/internal/storage"

	"golang.org/x/sync/errgroup"
)

var ErrCrawlInProgress = errors.New("a crawl is already running")

// Feed 外部内容源
type Feed interface {
	Subreddits(ctx context.Context) ([]string, error)
	Posts(ctx context.Context, subreddit string) ([]FeedPost, error)
}

// CrawlFailure 单个版块或帖子写入失败，不影响其他单元
type CrawlFailure struct {
	Subreddit string `json:"subreddit"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Message   string `json:"error"`
	Err       error  `json:"-"`
}

// CrawlReport 一轮爬取的结果汇总
type CrawlReport struct {
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	Subreddits   int            `json:"subreddits"`
	Users        int            `json:"users"`
	PostsCreated int            `json:"posts_created"`
	Failures     []CrawlFailure `json:"failures"`
}

// Crawler 爬取编排：发现版块 → 并发抓取各版块帖子 → 解析作者 → 写入帖子。
// store 应是 storage.Gated，保证存储并发不超过连接池
type Crawler struct {
	feed        Feed
	store       storage.Gateway
	password    string
	concurrency int
	log         *slog.Logger

	running  atomic.Bool
	mu       sync.Mutex
	last     *CrawlReport
	onFinish []func(*CrawlReport)
}

func NewCrawler(feed Feed, store storage.Gateway, password string, concurrency int, logger *slog.Logger) *Crawler {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{
		feed:        feed,
		store:       store,
		password:    password,
		concurrency: concurrency,
		log:         logger,
	}
}

// crawlRun 单轮爬取的状态，缓存随本轮结束丢弃
type crawlRun struct {
	users      *IdentityCache
	subreddits *IdentityCache

	mu     sync.Mutex
	report CrawlReport
}

func (r *crawlRun) fail(f CrawlFailure) {
	f.Message = f.Err.Error()
	r.mu.Lock()
	r.report.Failures = append(r.report.Failures, f)
	r.mu.Unlock()
}

func (r *crawlRun) subredditDone() {
	r.mu.Lock()
	r.report.Subreddits++
	r.mu.Unlock()
}

func (r *crawlRun) postCreated() {
	r.mu.Lock()
	r.report.PostsCreated++
	r.mu.Unlock()
}

// Run 同步执行一轮爬取。只有发现版块失败才返回错误，单元失败记录在报告里。
// ctx 取消后不再启动新单元，已开始的单元继续完成
func (c *Crawler) Run(ctx context.Context) (*CrawlReport, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrCrawlInProgress
	}
	defer c.running.Store(false)
	return c.run(ctx)
}

// Start 后台执行一轮爬取，已有爬取在跑时返回 ErrCrawlInProgress
func (c *Crawler) Start(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrCrawlInProgress
	}
	go func() {
		defer c.running.Store(false)
		if _, err := c.run(ctx); err != nil {
			c.log.Error("crawl failed", "err", err)
		}
	}()
	return nil
}

// OnFinish 注册每轮爬取完成后的回调（例如让首页缓存失效），按注册顺序同步调用
func (c *Crawler) OnFinish(fn func(*CrawlReport)) {
	c.mu.Lock()
	c.onFinish = append(c.onFinish, fn)
	c.mu.Unlock()
}

// Running 是否有爬取在进行
func (c *Crawler) Running() bool {
	return c.running.Load()
}

// LastReport 最近一轮完成的报告，未爬过时为 nil
func (c *Crawler) LastReport() *CrawlReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Crawler) run(ctx context.Context) (*CrawlReport, error) {
	run := &crawlRun{
		users:      NewUserIdentityCache(c.store, c.password),
		subreddits: NewSubredditCache(c.store),
		report:     CrawlReport{StartedAt: time.Now(), Failures: []CrawlFailure{}},
	}

	names, err := c.feed.Subreddits(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Info("开始爬取", "subreddits", len(names))

	work := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, name := range distinct(names) {
		if ctx.Err() != nil {
			c.log.Warn("crawl cancelled, not starting remaining subreddits")
			break
		}
		g.Go(func() error {
			c.crawlSubreddit(ctx, work, run, name)
			return nil
		})
	}
	g.Wait()

	run.mu.Lock()
	report := run.report
	run.mu.Unlock()
	report.Users = run.users.Len()
	report.FinishedAt = time.Now()

	c.mu.Lock()
	c.last = &report
	hooks := append([]func(*CrawlReport){}, c.onFinish...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn(&report)
	}

	c.log.Info("爬取完成",
		"subreddits", report.Subreddits,
		"users", report.Users,
		"posts", report.PostsCreated,
		"failures", len(report.Failures),
		"elapsed", report.FinishedAt.Sub(report.StartedAt))
	return &report, nil
}

// crawlSubreddit stop 只用于判断是否继续派发帖子，存储和抓取都用 work
func (c *Crawler) crawlSubreddit(stop, work context.Context, run *crawlRun, name string) {
	subID, err := run.subreddits.Resolve(work, name)
	if err != nil {
		c.log.Error("创建版块失败", "subreddit", name, "err", err)
		run.fail(CrawlFailure{Subreddit: name, Err: err})
		return
	}

	posts, err := c.feed.Posts(work, name)
	if err != nil {
		c.log.Error("抓取版块帖子失败", "subreddit", name, "err", err)
		run.fail(CrawlFailure{Subreddit: name, Err: err})
		return
	}

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, post := range posts {
		if post.IsSelf {
			continue
		}
		if stop.Err() != nil {
			break
		}
		g.Go(func() error {
			c.crawlPost(work, run, subID, name, post)
			return nil
		})
	}
	g.Wait()
	run.subredditDone()
}

// crawlPost 先拿到作者 id 再写帖子
func (c *Crawler) crawlPost(ctx context.Context, run *crawlRun, subID uint, subreddit string, post FeedPost) {
	userID, err := run.users.Resolve(ctx, post.Author)
	if err != nil {
		c.log.Error("解析作者失败", "subreddit", subreddit, "author", post.Author, "err", err)
		run.fail(CrawlFailure{Subreddit: subreddit, Title: post.Title, Author: post.Author, Err: err})
		return
	}

	if _, err := c.store.CreatePost(ctx, subID, userID, post.Title, post.URL); err != nil {
		c.log.Error("创建帖子失败", "subreddit", subreddit, "title", post.Title, "err", err)
		run.fail(CrawlFailure{Subreddit: subreddit, Title: post.Title, Author: post.Author, Err: err})
		return
	}
	run.postCreated()
}

// StartScheduledCrawl 启动定时爬取：立即执行一次，之后每 interval 一次，ctx 结束时停止。
// 上一轮没跑完时跳过本轮
func (c *Crawler) StartScheduledCrawl(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if _, err := c.Run(ctx); err != nil {
				if errors.Is(err, ErrCrawlInProgress) {
					c.log.Warn("上一轮爬取还在进行，跳过")
				} else {
					c.log.Error("定时爬取失败", "err", err)
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// distinct 去重并保持首次出现顺序
func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
