package storage

import (
	"context"
	"errors"
	"fmt"
	"redditcrawl/internal/models"

	"gorm.io/gorm"
)

func (s *Store) CreatePost(ctx context.Context, subredditID, userID uint, title, url string) (uint, error) {
	const op = "storage.CreatePost"

	post := models.Post{
		SubredditID: subredditID,
		UserID:      userID,
		Title:       title,
		URL:         url,
	}
	if err := s.db.WithContext(ctx).Omit("Subreddit", "User").Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return 0, fmt.Errorf("%s: %w", op, s.missingPostReference(ctx, subredditID))
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return post.ID, nil
}

// missingPostReference 外键错误不区分是哪一列，回查版块是否存在
func (s *Store) missingPostReference(ctx context.Context, subredditID uint) error {
	ok, err := s.exists(ctx, &models.Subreddit{}, subredditID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMissingSubreddit
	}
	return ErrMissingUser
}

// missingPostOrUser 投票和评论的外键：帖子或用户
func (s *Store) missingPostOrUser(ctx context.Context, postID uint) error {
	ok, err := s.exists(ctx, &models.Post{}, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMissingPost
	}
	return ErrMissingUser
}

func (s *Store) exists(ctx context.Context, model interface{}, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check reference %d: %w", id, err)
	}
	return count > 0, nil
}

type scoreRow struct {
	PostID uint
	Score  int
}

// FetchPostScores 总分为该帖所有投票方向之和，没有投票的帖子记 0 分
func (s *Store) FetchPostScores(ctx context.Context) ([]models.PostScore, error) {
	const op = "storage.FetchPostScores"

	var rows []scoreRow
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Select("posts.id AS post_id, COALESCE(SUM(votes.vote_direction), 0) AS score").
		Joins("LEFT JOIN votes ON votes.post_id = posts.id").
		Group("posts.id").
		Order("score DESC, posts.created_at DESC, posts.id DESC").
		Limit(PostScorePageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return []models.PostScore{}, nil
	}

	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.PostID
	}

	var posts []models.Post
	if err := s.db.WithContext(ctx).Preload("User").Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	postMap := make(map[uint]models.Post, len(posts))
	for _, p := range posts {
		postMap[p.ID] = p
	}

	scored := make([]models.PostScore, 0, len(rows))
	for _, r := range rows {
		post, ok := postMap[r.PostID]
		if !ok {
			continue
		}
		scored = append(scored, models.PostScore{Post: post, Score: r.Score})
	}
	return scored, nil
}
