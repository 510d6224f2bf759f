package model

import "time"

// Role 社区内角色，数值越大权限越高
type Role int8

const (
	RoleMember Role = iota
	RoleModerator
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleModerator:
		return "MODERATOR"
	default:
		return "MEMBER"
	}
}

// ParseRole 接口层的角色字符串到枚举
func ParseRole(s string) (Role, bool) {
	switch s {
	case "ADMIN":
		return RoleAdmin, true
	case "MODERATOR":
		return RoleModerator, true
	case "MEMBER":
		return RoleMember, true
	default:
		return RoleMember, false
	}
}

// IsAuthority MODERATOR 及以上为管理角色
func (r Role) IsAuthority() bool {
	return r >= RoleModerator
}

// Restriction 处罚状态
type Restriction int8

const (
	RestrictionNone Restriction = iota
	RestrictionMute
	RestrictionBan
)

// Member 用户在某个社区内的成员记录。退出只打 leaved_at，
// 历史行保留，同一 (community, user) 至多一条在籍记录。
type Member struct {
	ID          uint64      `gorm:"primaryKey"`
	CommunityID uint64      `gorm:"not null;index:idx_community_user"`
	UserID      uint64      `gorm:"not null;index:idx_community_user;index"`
	Role        Role        `gorm:"not null;default:0;comment:'0=member,1=moderator,2=admin'"`
	Restriction Restriction `gorm:"not null;default:0;comment:'0=none,1=mute,2=ban'"`
	BanUntil    *time.Time
	LeavedAt    *time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Member) TableName() string { return "members" }

// Active 是否在籍
func (m *Member) Active() bool { return m.LeavedAt == nil }

// Restricted 处罚是否仍在生效；ban_until 过期后处罚自动失效
func (m *Member) Restricted(now time.Time) bool {
	if m.Restriction == RestrictionNone {
		return false
	}
	if m.BanUntil != nil && now.After(*m.BanUntil) {
		return false
	}
	return true
}
