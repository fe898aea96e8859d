package storage

import (
	"context"
	"errors"
	"fmt"
	"redditcrawl/internal/models"

	"gorm.io/gorm"
)

func (s *Store) CreateSubreddit(ctx context.Context, name, description string) (uint, error) {
	const op = "storage.CreateSubreddit"

	sub := models.Subreddit{
		Name:        name,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%s %q: %w", op, name, ErrDuplicateSubreddit)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sub.ID, nil
}

func (s *Store) SubredditIDByName(ctx context.Context, name string) (uint, error) {
	const op = "storage.SubredditIDByName"

	var sub models.Subreddit
	err := s.db.WithContext(ctx).Select("id").Where("name = ?", name).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%s %q: %w", op, name, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sub.ID, nil
}

// ListSubreddits 最新创建的在前
func (s *Store) ListSubreddits(ctx context.Context) ([]models.Subreddit, error) {
	var subs []models.Subreddit
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("storage.ListSubreddits: %w", err)
	}
	return subs, nil
}
