package services

import (
	"context"
	"errors"
	"sync"

	"redditcrawl/internal/storage"

	"golang.org/x/sync/singleflight"
)

// UserStore 用户身份缓存依赖的存储操作
type UserStore interface {
	CreateUser(ctx context.Context, username, password string) (uint, error)
	UserIDByName(ctx context.Context, username string) (uint, error)
}

// SubredditStore 版块缓存依赖的存储操作
type SubredditStore interface {
	CreateSubreddit(ctx context.Context, name, description string) (uint, error)
	SubredditIDByName(ctx context.Context, name string) (uint, error)
}

type resolved struct {
	id  uint
	err error
}

// IdentityCache 名称到存储 id 的单次爬取内存表。
// 同一名称最多发起一次创建：并发调用挂到同一个进行中的创建上，
// 结果（包括失败）记下来供本轮后续调用复用
type IdentityCache struct {
	group     singleflight.Group
	mu        sync.RWMutex
	entries   map[string]resolved
	create    func(ctx context.Context, name string) (uint, error)
	lookup    func(ctx context.Context, name string) (uint, error)
	duplicate error
}

// NewUserIdentityCache 爬到的作者统一使用 password 作为初始密码
func NewUserIdentityCache(store UserStore, password string) *IdentityCache {
	return &IdentityCache{
		entries: make(map[string]resolved),
		create: func(ctx context.Context, name string) (uint, error) {
			return store.CreateUser(ctx, name, password)
		},
		lookup:    store.UserIDByName,
		duplicate: storage.ErrDuplicateUsername,
	}
}

func NewSubredditCache(store SubredditStore) *IdentityCache {
	return &IdentityCache{
		entries: make(map[string]resolved),
		create: func(ctx context.Context, name string) (uint, error) {
			return store.CreateSubreddit(ctx, name, "")
		},
		lookup:    store.SubredditIDByName,
		duplicate: storage.ErrDuplicateSubreddit,
	}
}

// Resolve 返回 name 对应的 id，必要时创建。
// 创建报重复（之前的爬取或其他进程已建）时回查一次已有 id
func (c *IdentityCache) Resolve(ctx context.Context, name string) (uint, error) {
	if r, ok := c.get(name); ok {
		return r.id, r.err
	}

	v, _, _ := c.group.Do(name, func() (interface{}, error) {
		// 上一个 Do 可能刚写完表
		if r, ok := c.get(name); ok {
			return r, nil
		}

		id, err := c.create(ctx, name)
		if errors.Is(err, c.duplicate) {
			id, err = c.lookup(ctx, name)
		}
		r := resolved{id: id, err: err}
		c.mu.Lock()
		c.entries[name] = r
		c.mu.Unlock()
		return r, nil
	})

	r := v.(resolved)
	return r.id, r.err
}

// Len 已解析的名称数
func (c *IdentityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *IdentityCache) get(name string) (resolved, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[name]
	return r, ok
}
