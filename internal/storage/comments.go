package storage

import (
	"context"
	"errors"
	"fmt"
	"redditcrawl/internal/models"

	"gorm.io/gorm"
)

// CreateComment 父评论必须属于同一帖子
func (s *Store) CreateComment(ctx context.Context, userID, postID uint, parentID *uint, text string) (uint, error) {
	const op = "storage.CreateComment"

	if parentID != nil {
		var parent models.Comment
		err := s.db.WithContext(ctx).Select("id", "post_id").First(&parent, *parentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrMissingParent)
		}
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if parent.PostID != postID {
			return 0, fmt.Errorf("%s: %w", op, ErrParentMismatch)
		}
	}

	comment := models.Comment{
		UserID:   userID,
		PostID:   postID,
		ParentID: parentID,
		Text:     text,
	}
	if err := s.db.WithContext(ctx).Omit("User", "Post", "Parent").Create(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return 0, fmt.Errorf("%s: %w", op, s.missingPostOrUser(ctx, postID))
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return comment.ID, nil
}

// FetchDirectComments 按插入顺序返回
func (s *Store) FetchDirectComments(ctx context.Context, postID uint, parentID *uint) ([]models.Comment, error) {
	query := s.db.WithContext(ctx).Where("post_id = ?", postID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var comments []models.Comment
	if err := query.Order("id ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("storage.FetchDirectComments: %w", err)
	}
	return comments, nil
}
