package handlers

import (
	"net/http"

	"redditcrawl/internal/storage"

	"github.com/gin-gonic/gin"
)

type SubredditHandler struct {
	store storage.Gateway
}

func NewSubredditHandler(store storage.Gateway) *SubredditHandler {
	return &SubredditHandler{store: store}
}

// List 所有版块，最新的在前
func (h *SubredditHandler) List(c *gin.Context) {
	subs, err := h.store.ListSubreddits(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subreddits": subs})
}
