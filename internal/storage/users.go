package storage

import (
	"context"
	"errors"
	"fmt"
	"redditcrawl/internal/models"
	"redditcrawl/internal/utils"

	"gorm.io/gorm"
)

func (s *Store) CreateUser(ctx context.Context, username, password string) (uint, error) {
	const op = "storage.CreateUser"

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username: username,
		Password: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%s %q: %w", op, username, ErrDuplicateUsername)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return user.ID, nil
}

func (s *Store) UserIDByName(ctx context.Context, username string) (uint, error) {
	const op = "storage.UserIDByName"

	var user models.User
	err := s.db.WithContext(ctx).Select("id").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%s %q: %w", op, username, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return user.ID, nil
}
