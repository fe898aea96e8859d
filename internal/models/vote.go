package models

import (
	"time"
)

// 合法的投票方向
const (
	VoteDown    = -1
	VoteNeutral = 0
	VoteUp      = 1
)

// Vote 以 (post_id, user_id) 为主键，同一用户对同一帖子只有一行，重复投票覆盖方向
type Vote struct {
	PostID        uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	Post          Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID        uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	VoteDirection int       `gorm:"not null;check:chk_votes_direction,vote_direction IN (-1, 0, 1)" json:"vote_direction"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ValidVoteDirection 判断投票方向是否是 -1/0/1
func ValidVoteDirection(direction int) bool {
	return direction == VoteDown || direction == VoteNeutral || direction == VoteUp
}
