package model

import "time"

// PostState 帖子状态机：pending -> published <-> hidden，published/hidden -> deleted（终态）。
// pending 只能被硬删除，deleted 不允许任何后续流转。
type PostState string

const (
	PostPending   PostState = "pending"
	PostPublished PostState = "published"
	PostHidden    PostState = "hidden"
	PostDeleted   PostState = "deleted"
)

type Post struct {
	ID          uint64    `gorm:"primaryKey"`
	CommunityID uint64    `gorm:"not null;index:idx_community_state,priority:1"`
	MemberID    uint64    `gorm:"not null;index"`
	Title       string    `gorm:"size:200;not null"`
	Content     string    `gorm:"type:text"`
	State       PostState `gorm:"size:16;not null;default:'pending';index:idx_community_state,priority:2"`
	DeletedAt   *time.Time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (Post) TableName() string { return "posts" }
