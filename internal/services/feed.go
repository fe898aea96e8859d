package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"redditcrawl/internal/config"
	"redditcrawl/internal/utils"
)

// deletedAuthor 作者账号已删除时 reddit 返回的占位名
const deletedAuthor = "[deleted]"

// FeedPost 版块列表里的一条链接帖
type FeedPost struct {
	Title  string
	URL    string
	Author string
	IsSelf bool
}

// listing reddit .json 列表接口的响应结构
type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Subreddit string `json:"subreddit"`
				Title     string `json:"title"`
				URL       string `json:"url"`
				Author    string `json:"author"`
				IsSelf    bool   `json:"is_self"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// RedditFeed 只读的 reddit JSON 抓取客户端
type RedditFeed struct {
	client         *http.Client
	baseURL        string
	userAgent      string
	subredditLimit int
	postLimit      int
}

// NewRedditFeed 创建抓取客户端
func NewRedditFeed(cfg config.CrawlConfig) *RedditFeed {
	return &RedditFeed{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:      cfg.UserAgent,
		subredditLimit: cfg.SubredditLimit,
		postLimit:      cfg.PostLimit,
	}
}

// Subreddits 首页热门帖所在的版块名，按出现顺序，可能重复
func (f *RedditFeed) Subreddits(ctx context.Context) ([]string, error) {
	var result listing
	if err := f.get(ctx, fmt.Sprintf("%s/.json?limit=%d", f.baseURL, f.subredditLimit), &result); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Data.Children))
	for _, child := range result.Data.Children {
		if child.Data.Subreddit != "" {
			names = append(names, child.Data.Subreddit)
		}
	}
	return names, nil
}

// Posts 版块下的链接帖，自帖（没有外链）已过滤
func (f *RedditFeed) Posts(ctx context.Context, subreddit string) ([]FeedPost, error) {
	var result listing
	endpoint := fmt.Sprintf("%s/r/%s.json?limit=%d", f.baseURL, url.PathEscape(subreddit), f.postLimit)
	if err := f.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	posts := make([]FeedPost, 0, len(result.Data.Children))
	for _, child := range result.Data.Children {
		d := child.Data
		if d.IsSelf || d.URL == "" || d.Author == "" || d.Author == deletedAuthor {
			continue
		}
		posts = append(posts, FeedPost{
			Title:  utils.PlainText(d.Title),
			URL:    d.URL,
			Author: d.Author,
		})
	}
	return posts, nil
}

func (f *RedditFeed) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP 状态码 %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}
