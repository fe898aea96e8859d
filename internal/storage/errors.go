package storage

import "errors"

// 领域错误。调用方用 errors.Is 判断
var (
	// 可恢复：回查已存在记录的 id
	ErrDuplicateUsername  = errors.New("a user with this username already exists")
	ErrDuplicateSubreddit = errors.New("a subreddit with this name already exists")

	// 外键缺失：只影响当前这一条写入
	ErrMissingSubreddit = errors.New("subreddit does not exist")
	ErrMissingUser      = errors.New("user does not exist")
	ErrMissingPost      = errors.New("post does not exist")
	ErrMissingParent    = errors.New("parent comment does not exist")
	ErrParentMismatch   = errors.New("parent comment belongs to another post")

	ErrInvalidVote = errors.New("invalid vote direction")

	ErrNotFound = errors.New("record not found")
)
