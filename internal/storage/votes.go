package storage

import (
	"context"
	"errors"
	"fmt"
	"redditcrawl/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) UpsertVote(ctx context.Context, postID, userID uint, direction int) error {
	const op = "storage.UpsertVote"

	if !models.ValidVoteDirection(direction) {
		return fmt.Errorf("%s %d: %w", op, direction, ErrInvalidVote)
	}

	vote := models.Vote{
		PostID:        postID,
		UserID:        userID,
		VoteDirection: direction,
	}
	err := s.db.WithContext(ctx).Omit("Post", "User").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote_direction", "updated_at"}),
	}).Create(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%s: %w", op, s.missingPostOrUser(ctx, postID))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
