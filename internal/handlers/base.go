package handlers

import (
	"errors"
	"net/http"

	"redditcrawl/internal/services"
	"redditcrawl/internal/storage"

	"github.com/gin-gonic/gin"
)

// statusFor 领域错误到 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrInvalidVote),
		errors.Is(err, storage.ErrParentMismatch),
		errors.Is(err, services.ErrInvalidLevels):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrMissingPost),
		errors.Is(err, storage.ErrMissingUser),
		errors.Is(err, storage.ErrMissingSubreddit),
		errors.Is(err, storage.ErrMissingParent),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateUsername),
		errors.Is(err, storage.ErrDuplicateSubreddit),
		errors.Is(err, services.ErrCrawlInProgress):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// abortWithError 记录错误（由日志中间件输出）并返回 JSON 错误
func abortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
