package model

import "time"

// CommunityActivitySample 按天聚合的发帖统计，由采样任务维护，
// 活跃度评估只读取当天这一行。
type CommunityActivitySample struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;uniqueIndex:uk_community_day,priority:1"`
	Day         string `gorm:"size:10;not null;uniqueIndex:uk_community_day,priority:2"` // YYYY-MM-DD (UTC)
	PostCount   int64  `gorm:"not null;default:0"`
	PosterCount int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CommunityActivitySample) TableName() string { return "community_activity_samples" }
