package storage

import (
	"context"
	"redditcrawl/internal/models"

	"gorm.io/gorm"
)

// PostScorePageSize 排行榜固定页大小
const PostScorePageSize = 25

// Gateway 实体存储接口，爬虫、评论树和 HTTP 层都只依赖它
type Gateway interface {
	// CreateUser 哈希密码后插入用户；用户名已存在返回 ErrDuplicateUsername
	CreateUser(ctx context.Context, username, password string) (uint, error)
	// UserIDByName 按用户名查 id；不存在返回 ErrNotFound
	UserIDByName(ctx context.Context, username string) (uint, error)

	// CreateSubreddit 名称已存在返回 ErrDuplicateSubreddit
	CreateSubreddit(ctx context.Context, name, description string) (uint, error)
	SubredditIDByName(ctx context.Context, name string) (uint, error)
	ListSubreddits(ctx context.Context) ([]models.Subreddit, error)

	// CreatePost 引用不存在的版块/用户分别返回 ErrMissingSubreddit / ErrMissingUser
	CreatePost(ctx context.Context, subredditID, userID uint, title, url string) (uint, error)
	// FetchPostScores 按总分、创建时间倒序返回前 PostScorePageSize 篇帖子
	FetchPostScores(ctx context.Context) ([]models.PostScore, error)

	// UpsertVote 方向不在 -1/0/1 内返回 ErrInvalidVote 且不写入
	UpsertVote(ctx context.Context, postID, userID uint, direction int) error

	CreateComment(ctx context.Context, userID, postID uint, parentID *uint, text string) (uint, error)
	// FetchDirectComments 返回 parentID 的直接回复，parentID 为 nil 时返回根评论
	FetchDirectComments(ctx context.Context, postID uint, parentID *uint) ([]models.Comment, error)
}

// Store 基于 gorm 的 Gateway 实现
type Store struct {
	db         *gorm.DB
	bcryptCost int
}

var _ Gateway = (*Store)(nil)

// New db 需以 TranslateError: true 打开（见 db.Open）
func New(db *gorm.DB, bcryptCost int) *Store {
	return &Store{db: db, bcryptCost: bcryptCost}
}
