package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"redditcrawl/internal/services"
	"redditcrawl/internal/storage"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("storage.UpsertVote 2: %w", storage.ErrInvalidVote), http.StatusBadRequest},
		{storage.ErrParentMismatch, http.StatusBadRequest},
		{services.ErrInvalidLevels, http.StatusBadRequest},
		{fmt.Errorf("storage.CreatePost: %w", storage.ErrMissingSubreddit), http.StatusNotFound},
		{storage.ErrMissingPost, http.StatusNotFound},
		{storage.ErrDuplicateUsername, http.StatusConflict},
		{services.ErrCrawlInProgress, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
