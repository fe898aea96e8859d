package services

import (
	"context"
	"errors"
	"fmt"

	"redditcrawl/internal/models"
	"redditcrawl/internal/utils"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidLevels = errors.New("levels must be at least 1")

// CommentFetcher 评论树只需要按父评论取直接回复
type CommentFetcher interface {
	FetchDirectComments(ctx context.Context, postID uint, parentID *uint) ([]models.Comment, error)
}

// CommentTreeBuilder 按层数组装帖子的评论森林
type CommentTreeBuilder struct {
	store CommentFetcher
}

func NewCommentTreeBuilder(store CommentFetcher) *CommentTreeBuilder {
	return &CommentTreeBuilder{store: store}
}

// Build levels=1 只取根评论，levels=L 再往下取 L-1 层。
// 任一层查询失败整棵树失败，不返回残缺的树
func (b *CommentTreeBuilder) Build(ctx context.Context, postID uint, levels int) ([]models.CommentNode, error) {
	if levels < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLevels, levels)
	}
	nodes, err := b.buildLevel(ctx, postID, nil, levels)
	if err != nil {
		return nil, fmt.Errorf("build comment tree for post %d: %w", postID, err)
	}
	return nodes, nil
}

// buildLevel 取 parentID 的直接回复，remaining 为包含本层在内还能取的层数。
// 同层兄弟子树并发获取，全部完成后才返回
func (b *CommentTreeBuilder) buildLevel(ctx context.Context, postID uint, parentID *uint, remaining int) ([]models.CommentNode, error) {
	comments, err := b.store.FetchDirectComments(ctx, postID, parentID)
	if err != nil {
		return nil, err
	}

	nodes := make([]models.CommentNode, len(comments))
	g, gctx := errgroup.WithContext(ctx)
	for i := range comments {
		nodes[i] = models.CommentNode{
			Comment:  comments[i],
			TextHTML: utils.RenderMarkdown(comments[i].Text),
			Replies:  []models.CommentNode{},
		}
		if remaining <= 1 {
			continue
		}

		id := comments[i].ID
		g.Go(func() error {
			replies, err := b.buildLevel(gctx, postID, &id, remaining-1)
			if err != nil {
				return err
			}
			nodes[i].Replies = replies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return nodes, nil
}
