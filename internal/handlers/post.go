package handlers

import (
	"net/http"
	"time"

	"redditcrawl/internal/models"
	"redditcrawl/internal/services"
	"redditcrawl/internal/storage"
	"redditcrawl/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	topPostsCacheKey = "posts:top"
	topPostsTTL      = 1 * time.Minute

	defaultCommentLevels = 3
	maxCommentLevels     = 10
)

// PostCache 首页排行缓存，投票后失效
type PostCache = utils.TTLCache[[]models.PostScore]

type PostHandler struct {
	store storage.Gateway
	tree  *services.CommentTreeBuilder
	cache *PostCache
}

func NewPostHandler(store storage.Gateway, tree *services.CommentTreeBuilder, cache *PostCache) *PostHandler {
	return &PostHandler{store: store, tree: tree, cache: cache}
}

// InvalidateTop 清掉首页排行缓存，新帖子或投票写入后调用
func (h *PostHandler) InvalidateTop() {
	h.cache.Delete(topPostsCacheKey)
}

// ListTop 按总分排行的前 25 篇帖子，缓存在投票和每轮爬取结束时失效
func (h *PostHandler) ListTop(c *gin.Context) {
	if posts, ok := h.cache.Get(topPostsCacheKey); ok {
		c.JSON(http.StatusOK, gin.H{"posts": posts})
		return
	}

	posts, err := h.store.FetchPostScores(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	// 写入缓存，有效期 1 分钟
	h.cache.Set(topPostsCacheKey, posts, topPostsTTL)
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Comments 帖子评论树，?levels=N 控制层数
func (h *PostHandler) Comments(c *gin.Context) {
	postID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid post id")
		return
	}

	levels := utils.StringToInt(c.Query("levels"), defaultCommentLevels)
	if levels > maxCommentLevels {
		levels = maxCommentLevels
	}

	tree, err := h.tree.Build(c.Request.Context(), postID, levels)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post_id": postID, "levels": levels, "comments": tree})
}

type createCommentRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	ParentID *uint  `json:"parent_id"`
	Text     string `json:"text" binding:"required"`
}

// CreateComment 发表评论，parent_id 为空时是根评论
func (h *PostHandler) CreateComment(c *gin.Context) {
	postID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid post id")
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	id, err := h.store.CreateComment(c.Request.Context(), req.UserID, postID, req.ParentID, req.Text)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
