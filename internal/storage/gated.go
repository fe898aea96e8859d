package storage

import (
	"context"
	"redditcrawl/internal/models"

	"golang.org/x/sync/semaphore"
)

// Gated 给每次存储操作加并发上限，上限应等于连接池大小。
// 超出上限的调用在 ctx 上等待，而不是堆积在连接池里超时
type Gated struct {
	next Gateway
	sem  *semaphore.Weighted
}

var _ Gateway = (*Gated)(nil)

func NewGated(next Gateway, limit int) *Gated {
	if limit < 1 {
		limit = 1
	}
	return &Gated{next: next, sem: semaphore.NewWeighted(int64(limit))}
}

func gate[T any](ctx context.Context, sem *semaphore.Weighted, fn func() (T, error)) (T, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, err
	}
	defer sem.Release(1)
	return fn()
}

func (g *Gated) CreateUser(ctx context.Context, username, password string) (uint, error) {
	return gate(ctx, g.sem, func() (uint, error) { return g.next.CreateUser(ctx, username, password) })
}

func (g *Gated) UserIDByName(ctx context.Context, username string) (uint, error) {
	return gate(ctx, g.sem, func() (uint, error) { return g.next.UserIDByName(ctx, username) })
}

func (g *Gated) CreateSubreddit(ctx context.Context, name, description string) (uint, error) {
	return gate(ctx, g.sem, func() (uint, error) { return g.next.CreateSubreddit(ctx, name, description) })
}

func (g *Gated) SubredditIDByName(ctx context.Context, name string) (uint, error) {
	return gate(ctx, g.sem, func() (uint, error) { return g.next.SubredditIDByName(ctx, name) })
}

func (g *Gated) ListSubreddits(ctx context.Context) ([]models.Subreddit, error) {
	return gate(ctx, g.sem, func() ([]models.Subreddit, error) { return g.next.ListSubreddits(ctx) })
}

func (g *Gated) CreatePost(ctx context.Context, subredditID, userID uint, title, url string) (uint, error) {
	return gate(ctx, g.sem, func() (uint, error) { return g.next.CreatePost(ctx, subredditID, userID, title, url) })
}

func (g *Gated) FetchPostScores(ctx context.Context) ([]models.PostScore, error) {
	return gate(ctx, g.sem, func() ([]models.PostScore, error) { return g.next.FetchPostScores(ctx) })
}

func (g *Gated) UpsertVote(ctx context.Context, postID, userID uint, direction int) error {
	_, err := gate(ctx, g.sem, func() (struct{}, error) {
		return struct{}{}, g.next.UpsertVote(ctx, postID, userID, direction)
	})
	return err
}

func (g *Gated) CreateComment(ctx context.Context, userID, postID uint, parentID *uint, text string) (uint, error) {
	return gate(ctx, g.sem, func() (uint, error) { return g.next.CreateComment(ctx, userID, postID, parentID, text) })
}

func (g *Gated) FetchDirectComments(ctx context.Context, postID uint, parentID *uint) ([]models.Comment, error) {
	return gate(ctx, g.sem, func() ([]models.Comment, error) { return g.next.FetchDirectComments(ctx, postID, parentID) })
}
