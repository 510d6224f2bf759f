package model

import "time"

// 事件类型
const (
	EventPostApproved = "post_approved"
	EventPostRejected = "post_rejected"
	EventPostDeleted  = "post_deleted"
	EventMemberBanned = "member_banned"
)

// ModerationOutbox 审核事件表，和业务变更同事务写入，由 relayer 异步投递
type ModerationOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"`
	CommunityID uint64 `gorm:"not null;index"`
	ActorID     uint64 `gorm:"not null"` // 操作者 member id
	SubjectID   uint64 `gorm:"not null"` // 被操作的 post/member id
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ModerationOutbox) TableName() string { return "moderation_outbox" }
