package handlers

import (
	"net/http"

	"redditcrawl/internal/storage"
	"redditcrawl/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	store storage.Gateway
	cache *PostCache
}

func NewVoteHandler(store storage.Gateway, cache *PostCache) *VoteHandler {
	return &VoteHandler{store: store, cache: cache}
}

type voteRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	// 指针区分缺省和 0（取消投票）
	Direction *int `json:"direction" binding:"required"`
}

// Vote 投票或改票，同一用户对同一帖子只保留一票
func (h *VoteHandler) Vote(c *gin.Context) {
	postID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid post id")
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.store.UpsertVote(c.Request.Context(), postID, req.UserID, *req.Direction); err != nil {
		abortWithError(c, err)
		return
	}

	h.cache.Delete(topPostsCacheKey)
	c.Status(http.StatusNoContent)
}
