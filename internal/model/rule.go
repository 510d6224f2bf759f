package model

import "time"

// Rule 社区规则。title 在社区内唯一；sort_order 顺序创建时为 1..N，
// 删除后不重排，允许出现空洞。
type Rule struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;uniqueIndex:uk_community_title,priority:1"`
	Title       string `gorm:"size:128;not null;uniqueIndex:uk_community_title,priority:2"`
	Body        string `gorm:"type:text"`
	Order       int    `gorm:"column:sort_order;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Rule) TableName() string { return "rules" }
